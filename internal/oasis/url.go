package oasis

import (
	"strings"

	"oasis-proxy/internal/model"
)

const (
	// DefaultBaseURL is the OASIS single-zip endpoint.
	DefaultBaseURL = "http://oasis.caiso.com/oasisapi/SingleZip?"

	defaultVersion          = "1"
	transmissionLossVersion = "9"
)

var requiredFields = []string{"startdatetime", "enddatetime", "queryname"}

// versionField is appended by BuildQuery and rejected from callers.
const versionField = "version"

// Query is a request resolved against the upstream API.
type Query struct {
	URL           string
	ReportType    ReportType
	IncludeTotals bool
}

// BuildURL returns the upstream URL for req. See BuildQuery.
func BuildURL(baseURL string, req *model.Request) (string, error) {
	q, err := BuildQuery(baseURL, req)
	if err != nil {
		return "", err
	}
	return q.URL, nil
}

// BuildQuery validates req and builds the upstream query for it.
//
// Fields are serialized verbatim in the caller's order. Real-time LMP is
// published under its own queryname, so PRC_LMP with market_run_id=RTM is
// rewritten to PRC_INTVL_LMP. The version parameter is always appended
// last; a request carrying its own is rejected. req is not modified.
func BuildQuery(baseURL string, req *model.Request) (*Query, error) {
	var missing []string
	for _, f := range requiredFields {
		if _, ok := req.Get(f); !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingFieldError{Fields: missing}
	}
	if _, ok := req.Get(versionField); ok {
		return nil, &ReservedFieldError{Field: versionField}
	}

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "?") {
		baseURL += "?"
	}

	r := req.Clone()
	queryName, _ := r.Get("queryname")
	if market, _ := r.Get("market_run_id"); ReportType(queryName) == ReportLMP && market == "RTM" {
		queryName = string(ReportIntervalLMP)
		r.Set("queryname", queryName)
	}

	parts := make([]string, 0, r.Len()+1)
	for _, f := range r.Fields() {
		parts = append(parts, f.Key+"="+f.Value)
	}
	parts = append(parts, versionField+"="+versionFor(queryName))

	return &Query{
		URL:           baseURL + strings.Join(parts, "&"),
		ReportType:    ReportType(queryName),
		IncludeTotals: req.IncludeTotals(),
	}, nil
}

func versionFor(queryName string) string {
	if ReportType(queryName) == ReportTransmissionLoss {
		return transmissionLossVersion
	}
	return defaultVersion
}
