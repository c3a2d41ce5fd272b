package handlers

import (
	"github.com/buildrun-tech/unihub/backend/internal/middleware"
	"github.com/buildrun-tech/unihub/backend/internal/services"
	"github.com/buildrun-tech/unihub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EvaluationHandler struct {
	evaluationService *services.EvaluationService
}

func NewEvaluationHandler(db *gorm.DB, cache services.Cache) *EvaluationHandler {
	return &EvaluationHandler{
		evaluationService: services.NewEvaluationService(db, services.NewAggregateService(db, cache)),
	}
}

// Create records the caller's evaluation of a professor on one criterion
// POST /api/professors/:id/criteria/:criterionId/evaluations
func (h *EvaluationHandler) Create(c *gin.Context) {
	professorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid professor id")
		return
	}
	criterionID, err := uuid.Parse(c.Param("criterionId"))
	if err != nil {
		response.BadRequest(c, "invalid criterion id")
		return
	}

	var req services.CreateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	evaluation, err := h.evaluationService.Create(c.Request.Context(), professorID, criterionID, middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, evaluation)
}

// ListByProfessor returns all evaluations left on a professor
// GET /api/professors/:id/evaluations
func (h *EvaluationHandler) ListByProfessor(c *gin.Context) {
	professorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid professor id")
		return
	}

	evaluations, err := h.evaluationService.ListByProfessor(c.Request.Context(), professorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, evaluations)
}
