// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_messages_received_total",
			Help: "Total number of inbound chat messages",
		},
		[]string{"intent"},
	)

	RepliesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_replies_sent_total",
			Help: "Total number of outbound chat messages",
		},
		[]string{"status"},
	)

	AnalysisRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_analysis_runs_total",
			Help: "Total number of analysis tool invocations by outcome",
		},
		[]string{"outcome"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_analysis_duration_seconds",
			Help:    "Duration of external analysis runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
		[]string{"outcome"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_analysis_cache_lookups_total",
			Help: "Analysis cache lookups by result (hit, miss)",
		},
		[]string{"result"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_active_sessions",
			Help: "Number of user sessions currently tracked",
		},
	)

	MessageHandlingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bot_message_handling_duration_seconds",
			Help: "Duration of one inbound message's full handling cycle",
		},
		[]string{"state"},
	)
)
