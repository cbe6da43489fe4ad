package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ordersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "checkout",
			Name:      "orders_created_total",
			Help:      "Total number of persisted orders",
		},
		[]string{"payment_method", "payment_status"},
	)

	paymentsDeclined = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "checkout",
			Name:      "payment_declined_total",
			Help:      "Total number of declined payment authorizations",
		},
		[]string{"reason"},
	)

	orphanedCaptures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "checkout",
			Name:      "orphaned_captures_total",
			Help:      "Total number of captured payments whose order could not be persisted",
		},
	)

	notificationsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "checkout",
			Name:      "notifications_failed_total",
			Help:      "Total number of order confirmation requests that could not be sent",
		},
	)
)

var (
	webhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Total number of payment webhook events by outcome",
		},
		[]string{"type", "outcome"},
	)

	amountMismatches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "webhook",
			Name:      "amount_mismatch_total",
			Help:      "Total number of payment events whose amount differs from the order total",
		},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(
		ordersCreated,
		paymentsDeclined,
		orphanedCaptures,
		notificationsFailed,

		webhookEvents,
		amountMismatches,
	)
}
