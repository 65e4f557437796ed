// Package metrics holds the process-wide Prometheus collectors.
//
// Metrics:
//   - familycoach_analysis_total{path} - reflections analyzed, by llm or fallback
//   - familycoach_prompt_total{path} - prompts generated, by llm or fallback
//   - familycoach_session_transitions_total{status} - sessions created or ended
//   - familycoach_pattern_events_total{result} - pattern event writes
//   - familycoach_http_request_duration_seconds{method,status} - request latency
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Label values
const (
	PathLLM      = "llm"
	PathFallback = "fallback"

	ResultRecorded = "recorded"
	ResultSkipped  = "skipped"
	ResultFailed   = "failed"
)

var (
	AnalysisTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "familycoach_analysis_total",
			Help: "Total number of reflections analyzed",
		},
		[]string{"path"},
	)

	PromptTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "familycoach_prompt_total",
			Help: "Total number of reflection prompts generated",
		},
		[]string{"path"},
	)

	SessionTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "familycoach_session_transitions_total",
			Help: "Total number of coaching sessions entering each status",
		},
		[]string{"status"},
	)

	PatternEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "familycoach_pattern_events_total",
			Help: "Total number of pattern event writes by result",
		},
		[]string{"result"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "familycoach_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)
)

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
