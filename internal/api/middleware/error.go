package middleware

import (
	"log/slog"
	"net/http"

	"oasis-proxy/internal/api/models"

	"github.com/gin-gonic/gin"
)

// ErrorHandler recovers from panics and answers with an INTERNAL_ERROR body.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.ErrorContext(c.Request.Context(), "panic recovered",
			"request_id", RequestID(c),
			"panic", recovered)

		message := "An unexpected error occurred"
		if s, ok := recovered.(string); ok {
			message = s
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: message,
			},
		})
	})
}
