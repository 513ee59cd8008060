package models

import "oasis-proxy/internal/model"

// ReportRequest is the body of POST /api/CAISO.
//
// Example:
//
//	{"data": {"queryname": "ENE_SLRS", "market_run_id": "RTM", "startdatetime": "20210818T07:00-0000", ...}}
type ReportRequest struct {
	Data *model.Request `json:"data" binding:"required"`
}
