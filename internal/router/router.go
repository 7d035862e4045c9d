package router

import (
	"github.com/gin-gonic/gin"

	"concil/internal/handler"
	"concil/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(batchH *handler.BatchHandler, healthH *handler.HealthHandler) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	batches := v1.Group("/batches")
	batches.POST("/reconcile", batchH.Reconcile)
	batches.GET("", batchH.List)
	batches.GET("/:id", batchH.GetByID)
	batches.DELETE("/:id", batchH.Delete)
	batches.GET("/:id/export.csv", batchH.ExportCSV)
	batches.GET("/:id/export.xlsx", batchH.ExportXLSX)
	batches.GET("/:id/files/:filename/url", batchH.FileURL)

	return r
}
