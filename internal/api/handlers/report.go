package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"oasis-proxy/internal/api/middleware"
	"oasis-proxy/internal/api/models"
	"oasis-proxy/internal/metrics"
	"oasis-proxy/internal/model"
	"oasis-proxy/internal/oasis"

	"github.com/gin-gonic/gin"
)

// ReportService produces a normalized report for a request.
type ReportService interface {
	GetReport(ctx context.Context, req *model.Request) (*model.Report, error)
}

// ReportHandler handles report requests
type ReportHandler struct {
	service ReportService
	logger  *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportService, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{service: service, logger: logger.With("component", "report_handler")}
}

// GetReport handles POST /api/CAISO and POST /api/v1/reports
func (h *ReportHandler) GetReport(c *gin.Context) {
	var req models.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.Reports.WithLabelValues(reportLabel(""), "INVALID_REQUEST").Inc()
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	queryName, _ := req.Data.Get("queryname")
	report, err := h.service.GetReport(c.Request.Context(), req.Data)
	if err != nil {
		status, body := errorResponse(err)
		metrics.Reports.WithLabelValues(reportLabel(queryName), body.Error.Code).Inc()
		attrs := []any{
			"request_id", middleware.RequestID(c),
			"queryname", queryName,
			"status", status,
			"error_code", body.Error.Code,
			"error", err,
		}
		if status >= 500 {
			h.logger.ErrorContext(c.Request.Context(), "report failed", attrs...)
		} else {
			h.logger.WarnContext(c.Request.Context(), "report failed", attrs...)
		}
		_ = c.Error(err)
		c.JSON(status, body)
		return
	}

	metrics.Reports.WithLabelValues(reportLabel(queryName), "OK").Inc()
	c.JSON(http.StatusOK, report)
}

// unlabelledReport is the report_type label for every queryname without an
// extraction strategy, keeping the label set bounded.
const unlabelledReport = "other"

func reportLabel(queryName string) string {
	if oasis.IsSupported(oasis.ReportType(queryName)) {
		return queryName
	}
	return unlabelledReport
}

// errorResponse maps pipeline errors to an HTTP status and body.
func errorResponse(err error) (int, models.ErrorResponse) {
	var (
		missing   *oasis.MissingFieldError
		reserved  *oasis.ReservedFieldError
		fetch     *oasis.FetchError
		invalid   *oasis.InvalidResponseError
		market    *oasis.UnknownMarketTypeError
		dataItem  *oasis.UnknownDataItemError
		malformed *oasis.MalformedReportError
	)

	detail := models.ErrorDetail{Message: err.Error()}
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &missing):
		status, detail.Code = http.StatusBadRequest, "MISSING_FIELD"
		detail.Details = map[string]interface{}{"missing": missing.Fields}
	case errors.As(err, &reserved):
		status, detail.Code = http.StatusBadRequest, "RESERVED_FIELD"
		detail.Details = map[string]interface{}{"field": reserved.Field}
	case errors.As(err, &invalid):
		status, detail.Code = http.StatusBadRequest, "INVALID_UPSTREAM_REQUEST"
		if invalid.Code != "" {
			detail.Details = map[string]interface{}{"upstream_code": invalid.Code}
		}
	case errors.As(err, &fetch):
		status, detail.Code = http.StatusBadGateway, "UPSTREAM_FETCH_ERROR"
		if fetch.StatusCode != 0 {
			detail.Details = map[string]interface{}{"status_code": fetch.StatusCode}
		}
	case errors.As(err, &market):
		detail.Code = "UNKNOWN_MARKET_TYPE"
	case errors.As(err, &dataItem):
		detail.Code = "UNKNOWN_DATA_ITEM"
	case errors.As(err, &malformed):
		detail.Code = "MALFORMED_REPORT"
	default:
		detail.Code = "INTERNAL_ERROR"
		detail.Message = "An unexpected error occurred"
	}
	return status, models.ErrorResponse{Error: detail}
}
