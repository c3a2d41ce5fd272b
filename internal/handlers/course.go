package handlers

import (
	"github.com/buildrun-tech/unihub/backend/internal/services"
	"github.com/buildrun-tech/unihub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseHandler struct {
	courseService *services.CourseService
}

func NewCourseHandler(db *gorm.DB) *CourseHandler {
	return &CourseHandler{
		courseService: services.NewCourseService(db),
	}
}

// List returns all courses
// GET /api/courses
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courseService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, courses)
}

// Create creates a course
// POST /api/courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req services.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, course)
}

// Delete deletes a course
// DELETE /api/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid course id")
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "course deleted successfully"})
}
