package handler

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	webhooksProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "kafka_consumer",
			Name:      "webhooks_processed_total",
			Help:      "Total number of successfully reconciled queued webhooks",
		},
	)

	webhooksFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "kafka_consumer",
			Name:      "webhooks_failed_total",
			Help:      "Total number of failed webhook reconciliation attempts",
		},
	)

	webhooksRedelivered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "kafka_consumer",
			Name:      "webhooks_redelivered_total",
			Help:      "Total number of webhooks re-published for a later attempt",
		},
	)

	webhooksDLQ = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "kafka_consumer",
			Name:      "webhooks_dlq_total",
			Help:      "Total number of webhooks written to DLQ",
		},
	)

	commitErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "kafka_consumer",
			Name:      "commit_errors_total",
			Help:      "Total number of Kafka commit errors",
		},
	)

	webhookProcessingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "checkout_service",
			Subsystem: "kafka_consumer",
			Name:      "webhook_processing_duration_seconds",
			Help:      "Histogram of queued webhook processing durations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	webhooksInProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "checkout_service",
			Subsystem: "kafka_consumer",
			Name:      "webhooks_in_progress",
			Help:      "Number of queued webhooks currently being processed",
		},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(
		webhooksProcessed,
		webhooksFailed,
		webhooksRedelivered,
		webhooksDLQ,
		commitErrors,
		webhookProcessingDuration,
		webhooksInProgress,
	)
}
