package oasis

import (
	"context"
	"log/slog"

	"oasis-proxy/internal/model"
)

// Fetcher retrieves a report archive.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Archive, error)
}

// Service runs the report pipeline: build the query, fetch the archive,
// extract the report file and normalize it.
type Service struct {
	BaseURL string
	Fetcher Fetcher
	Logger  *slog.Logger
}

// NewService creates a service querying baseURL through f.
func NewService(baseURL string, f Fetcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		BaseURL: baseURL,
		Fetcher: f,
		Logger:  logger.With("component", "report"),
	}
}

// Resolve validates req and returns the upstream query without fetching it.
func (s *Service) Resolve(req *model.Request) (*Query, error) {
	return BuildQuery(s.BaseURL, req)
}

// GetReport fetches and parses the report described by req.
func (s *Service) GetReport(ctx context.Context, req *model.Request) (*model.Report, error) {
	q, err := s.Resolve(req)
	if err != nil {
		return nil, err
	}
	archive, err := s.Fetcher.Fetch(ctx, q.URL)
	if err != nil {
		return nil, err
	}
	return s.Parse(archive, q.ReportType, q.IncludeTotals)
}

// Parse extracts and normalizes the report held by archive.
func (s *Service) Parse(archive *Archive, reportType ReportType, includeTotals bool) (*model.Report, error) {
	rc, err := archive.OpenPrimaryEntry()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	if !IsSupported(reportType) {
		s.log().Warn("no extraction strategy for report type, returning header only", "report_type", reportType)
	}

	header, reports, err := Extract(rc, reportType, includeTotals)
	if err != nil {
		return nil, err
	}

	out := &model.Report{
		Header:  header,
		Reports: Normalize(reports),
	}
	s.log().Info("report parsed",
		"report_type", reportType,
		"mkt_type", header.MarketType,
		"groups", len(out.Reports))
	return out, nil
}

func (s *Service) log() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
