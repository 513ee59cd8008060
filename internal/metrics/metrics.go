package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequests counts OASIS fetches by outcome
	// ("ok", "transport_error", "bad_status", "bad_archive").
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oasis_proxy",
		Name:      "upstream_requests_total",
		Help:      "OASIS archive fetches by outcome.",
	}, []string{"outcome"})

	UpstreamDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "oasis_proxy",
		Name:      "upstream_request_duration_seconds",
		Help:      "Time spent fetching an OASIS archive.",
		Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
	})

	// Reports counts report requests served by report type and result code.
	Reports = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oasis_proxy",
		Name:      "reports_total",
		Help:      "Report requests by report type and result code.",
	}, []string{"report_type", "code"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oasis_proxy",
		Name:      "http_requests_total",
		Help:      "Inbound HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})
)
