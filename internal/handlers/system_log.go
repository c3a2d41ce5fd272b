package handlers

import (
	"github.com/buildrun-tech/unihub/backend/internal/services"
	"github.com/buildrun-tech/unihub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SystemLogHandler struct {
	systemLogService *services.SystemLogService
}

func NewSystemLogHandler(db *gorm.DB) *SystemLogHandler {
	return &SystemLogHandler{
		systemLogService: services.NewSystemLogService(db),
	}
}

// List returns paginated audit log entries
// GET /api/system-logs
func (h *SystemLogHandler) List(c *gin.Context) {
	var req services.SystemLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.systemLogService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// GetModules returns the distinct module names present in the log
// GET /api/system-logs/modules
func (h *SystemLogHandler) GetModules(c *gin.Context) {
	modules, err := h.systemLogService.GetModules()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"modules": modules})
}

// GetRetention returns the log retention setting in days
// GET /api/system-logs/retention
func (h *SystemLogHandler) GetRetention(c *gin.Context) {
	response.Success(c, gin.H{"retention_days": h.systemLogService.GetRetentionDays()})
}

type retentionRequest struct {
	RetentionDays int `json:"retention_days" binding:"required,min=1,max=365"`
}

// SetRetention updates the log retention setting
// PUT /api/system-logs/retention
func (h *SystemLogHandler) SetRetention(c *gin.Context) {
	var req retentionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.systemLogService.SetRetentionDays(req.RetentionDays); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"retention_days": req.RetentionDays})
}

// Cleanup removes log entries older than the retention window
// POST /api/system-logs/cleanup
func (h *SystemLogHandler) Cleanup(c *gin.Context) {
	deleted, err := h.systemLogService.CleanupOldLogs(h.systemLogService.GetRetentionDays())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": deleted})
}
