package handlers

import (
	"github.com/buildrun-tech/unihub/backend/internal/services"
	"github.com/buildrun-tech/unihub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfessorHandler struct {
	professorService *services.ProfessorService
	aggregateService *services.AggregateService
}

func NewProfessorHandler(db *gorm.DB, cache services.Cache) *ProfessorHandler {
	aggregates := services.NewAggregateService(db, cache)
	return &ProfessorHandler{
		professorService: services.NewProfessorService(db, aggregates),
		aggregateService: aggregates,
	}
}

// List returns professors, optionally filtered by name or ranked top-N
// GET /api/professors
func (h *ProfessorHandler) List(c *gin.Context) {
	var req services.ProfessorListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	professors, err := h.professorService.List(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, professors)
}

// GetByID returns a professor with per-criterion aggregates
// GET /api/professors/:id
func (h *ProfessorHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid professor id")
		return
	}

	detail, err := h.aggregateService.ProfessorDetail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, detail)
}

// Create creates a professor
// POST /api/professors
func (h *ProfessorHandler) Create(c *gin.Context) {
	var req services.ProfessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	professor, err := h.professorService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, professor)
}

// Update updates a professor
// PUT /api/professors/:id
func (h *ProfessorHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid professor id")
		return
	}

	var req services.ProfessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	professor, err := h.professorService.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, professor)
}

// Delete deletes a professor
// DELETE /api/professors/:id
func (h *ProfessorHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid professor id")
		return
	}

	if err := h.professorService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "professor deleted successfully"})
}
