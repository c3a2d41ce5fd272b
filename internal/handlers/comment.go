package handlers

import (
	"github.com/buildrun-tech/unihub/backend/internal/middleware"
	"github.com/buildrun-tech/unihub/backend/internal/services"
	"github.com/buildrun-tech/unihub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(db *gorm.DB, cache services.Cache) *CommentHandler {
	return &CommentHandler{
		commentService: services.NewCommentService(db, cache),
	}
}

// Vote records the caller's vote on a comment
// POST /api/comments/:id/votes
func (h *CommentHandler) Vote(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return
	}

	var req services.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	counts, err := h.commentService.Vote(c.Request.Context(), commentID, middleware.GetUserID(c), req.Direction)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, counts)
}

// List returns the comments left on a professor under one criterion
// GET /api/professors/:id/criteria/:criterionId/comments
func (h *CommentHandler) List(c *gin.Context) {
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

	var req services.CommentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.commentService.List(c.Request.Context(), professorID, criterionID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}
