package models

// ReportTypeInfo describes a report type the proxy can parse.
type ReportTypeInfo struct {
	QueryName   string   `json:"queryname"`
	Description string   `json:"description"`
	GroupBy     string   `json:"group_by"`
	DataItems   []string `json:"data_items,omitempty"` // empty: raw DATA_ITEM values
	Version     string   `json:"version"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
