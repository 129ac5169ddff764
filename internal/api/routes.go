package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Grade ingestion
		v1.POST("/grades/components", handler.BulkComponentGrades)
		v1.POST("/grades/assignments", handler.BulkAssignmentGrades)

		// Averages
		v1.GET("/grades/subject-average", handler.SubjectAverage)
		v1.GET("/grades/class-average", handler.ClassAverage)

		// Report cards
		v1.GET("/report-card", handler.GetReportCard)
		v1.POST("/report-cards/archive", handler.ArchiveReportCard)

		// Gradebook setup
		v1.POST("/classes/:class_id/categories", handler.CreateCategory)
		v1.POST("/assignments", handler.CreateAssignment)
	}
}
