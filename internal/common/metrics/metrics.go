// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FunctionInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "function_invocations_total",
			Help: "Total number of invocations per function",
		},
		[]string{"function"},
	)

	FunctionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "function_failures_total",
			Help: "Total number of failed invocations per function",
		},
		[]string{"function", "error_code"},
	)

	FunctionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "function_invocation_duration_seconds",
			Help: "Duration of function invocations in seconds",
		},
		[]string{"function"},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_emails_sent_total",
			Help: "Total number of recommendation emails sent",
		},
		[]string{"cuisine"},
	)
)
