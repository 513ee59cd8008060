package api

import (
	"log/slog"
	"net/http"

	"oasis-proxy/internal/api/handlers"
	"oasis-proxy/internal/api/middleware"
	"oasis-proxy/internal/api/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires middleware and routes around the report service.
func NewRouter(service handlers.ReportService, allowedOrigins []string, logger *slog.Logger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.ErrorHandler(logger))

	reportHandler := handlers.NewReportHandler(service, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Legacy route used by existing front ends.
	router.POST("/api/CAISO", reportHandler.GetReport)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/reports", reportHandler.GetReport)
		v1.GET("/report-types", handlers.ListReportTypes)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NOT_FOUND",
				Message: "Not found",
			},
		})
	})

	return router
}
