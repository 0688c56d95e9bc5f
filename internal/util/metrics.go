package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Total number of bookings created",
	})

	BookingsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_failed_total",
		Help: "Total number of failed booking creations",
	}, []string{"reason"})

	PaymentInitTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_init_total",
		Help: "Total number of payment initialization attempts",
	})

	PaymentInitFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_init_failed_total",
		Help: "Total number of failed payment initializations",
	}, []string{"reason"})

	PaymentVerifyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_verify_total",
		Help: "Total number of payment verifications by outcome",
	}, []string{"result"})

	EmailJobsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "email_jobs_published_total",
		Help: "Total number of notification jobs enqueued",
	}, []string{"type"})

	EmailsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "emails_sent_total",
		Help: "Total number of emails sent",
	})

	EmailsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "emails_failed_total",
		Help: "Total number of email send failures",
	})

	GatewayRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_request_latency_seconds",
		Help:    "Latency of payment gateway calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
