// Package metrics registers the service's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchRequests counts requests to the search service by kind
	// ("search" for parameterized queries, "scan" for weighted scan queries).
	SearchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blackbuy_search_requests_total",
		Help: "Requests issued to the product search service.",
	}, []string{"kind"})

	// SearchErrors counts failed search requests by kind.
	SearchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blackbuy_search_errors_total",
		Help: "Failed requests to the product search service.",
	}, []string{"kind"})

	// ScanPasses counts executed scan retrieval passes by pass number.
	ScanPasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blackbuy_scan_passes_total",
		Help: "Scan retrieval passes executed, labeled by pass.",
	}, []string{"pass"})

	// CatalogLoads counts featured-catalog loads by outcome
	// ("ok", "error", "fresh").
	CatalogLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blackbuy_catalog_loads_total",
		Help: "Featured catalog load attempts by outcome.",
	}, []string{"outcome"})

	// CatalogLoadDuration observes the wall time of successful catalog loads.
	CatalogLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "blackbuy_catalog_load_duration_seconds",
		Help:    "Duration of successful featured catalog loads.",
		Buckets: prometheus.DefBuckets,
	})

	// FeedbackSubmissions counts feedback forwarding attempts by outcome.
	FeedbackSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blackbuy_feedback_submissions_total",
		Help: "Feedback submissions forwarded to the backend by outcome.",
	}, []string{"outcome"})
)
