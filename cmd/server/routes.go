package main

import (
	"github.com/buildrun-tech/unihub/backend/internal/handlers"
	"github.com/buildrun-tech/unihub/backend/internal/middleware"
	"github.com/buildrun-tech/unihub/backend/internal/models"
	"github.com/buildrun-tech/unihub/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for the vote endpoint
	voteLimiter := middleware.NewRateLimiter(5, 10)

	db := models.GetDB()
	healthHandler := handlers.NewHealthHandler()
	professorHandler := handlers.NewProfessorHandler(db, svc.cache)
	criterionHandler := handlers.NewCriterionHandler(db)
	courseHandler := handlers.NewCourseHandler(db)
	evaluationHandler := handlers.NewEvaluationHandler(db, svc.cache)
	commentHandler := handlers.NewCommentHandler(db, svc.cache)
	systemLogHandler := handlers.NewSystemLogHandler(db)

	// Health check
	r.GET("/health", healthHandler.CheckHealth)

	// API routes
	api := r.Group("/api")
	{
		// Public reads
		api.GET("/professors", professorHandler.List)
		api.GET("/professors/:id", professorHandler.GetByID)
		api.GET("/professors/:id/criteria/:criterionId/comments", commentHandler.List)
		api.GET("/criteria", criterionHandler.List)
		api.GET("/criteria/:id", criterionHandler.GetByID)
		api.GET("/courses", courseHandler.List)

		// Authenticated routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			protected.POST("/professors/:id/criteria/:criterionId/evaluations", evaluationHandler.Create)
			protected.GET("/professors/:id/evaluations", evaluationHandler.ListByProfessor)
			protected.POST("/comments/:id/votes", voteLimiter.Middleware(), commentHandler.Vote)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(), middleware.AuditLog())
		{
			admin.POST("/professors", professorHandler.Create)
			admin.PUT("/professors/:id", professorHandler.Update)
			admin.DELETE("/professors/:id", professorHandler.Delete)

			admin.POST("/criteria", criterionHandler.Create)
			admin.PUT("/criteria/:id", criterionHandler.Update)
			admin.DELETE("/criteria/:id", criterionHandler.Delete)

			admin.POST("/courses", courseHandler.Create)
			admin.DELETE("/courses/:id", courseHandler.Delete)

			admin.GET("/system-logs", systemLogHandler.List)
			admin.GET("/system-logs/modules", systemLogHandler.GetModules)
			admin.GET("/system-logs/retention", systemLogHandler.GetRetention)
			admin.PUT("/system-logs/retention", systemLogHandler.SetRetention)
			admin.POST("/system-logs/cleanup", systemLogHandler.Cleanup)
		}
	}
}
