package handlers

import (
	"github.com/buildrun-tech/unihub/backend/internal/services"
	"github.com/buildrun-tech/unihub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CriterionHandler struct {
	criterionService *services.CriterionService
}

func NewCriterionHandler(db *gorm.DB) *CriterionHandler {
	return &CriterionHandler{
		criterionService: services.NewCriterionService(db),
	}
}

// List returns all evaluation criteria
// GET /api/criteria
func (h *CriterionHandler) List(c *gin.Context) {
	criteria, err := h.criterionService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, criteria)
}

// GetByID returns a criterion by ID
// GET /api/criteria/:id
func (h *CriterionHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid criterion id")
		return
	}

	criterion, err := h.criterionService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, criterion)
}

// Create creates a criterion
// POST /api/criteria
func (h *CriterionHandler) Create(c *gin.Context) {
	var req services.CriterionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	criterion, err := h.criterionService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, criterion)
}

// Update updates a criterion
// PUT /api/criteria/:id
func (h *CriterionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid criterion id")
		return
	}

	var req services.CriterionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	criterion, err := h.criterionService.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, criterion)
}

// Delete deletes a criterion
// DELETE /api/criteria/:id
func (h *CriterionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid criterion id")
		return
	}

	if err := h.criterionService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "criterion deleted successfully"})
}
