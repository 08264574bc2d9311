package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Design plans by document source (api, cache, fallback, unavailable)
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "home_design",
			Name:      "generations_total",
			Help:      "Design plans produced, by document source",
		},
		[]string{"source"},
	)

	// Inspiration images by mode and outcome
	ImagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "home_design",
			Name:      "images_total",
			Help:      "Inspiration image lookups, by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	// Outbound call latency
	ExternalDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "home_design",
			Name:      "external_seconds",
			Help:      "Latency of calls to external AI and image services",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"service", "status"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "home_design",
			Name:      "media_uploads_total",
			Help:      "Rendered images stored through the media uploader",
		},
		[]string{"backend", "status"},
	)

	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "home_design",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "home_design",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "route"},
	)
)

// ObserveExternal records the latency of one outbound call started at start.
func ObserveExternal(service string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ExternalDuration.WithLabelValues(service, status).Observe(time.Since(start).Seconds())
}
