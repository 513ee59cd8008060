package handlers

import (
	"net/http"

	"oasis-proxy/internal/api/models"
	"oasis-proxy/internal/oasis"

	"github.com/gin-gonic/gin"
)

// ListReportTypes handles GET /api/v1/report-types
func ListReportTypes(c *gin.Context) {
	supported := oasis.SupportedReportTypes()
	types := make([]models.ReportTypeInfo, len(supported))
	for i, rt := range supported {
		types[i] = models.ReportTypeInfo{
			QueryName:   string(rt.Type),
			Description: rt.Description,
			GroupBy:     rt.GroupBy,
			DataItems:   rt.DataItems,
			Version:     rt.Version,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"report_types": types,
		"count":        len(types),
	})
}
