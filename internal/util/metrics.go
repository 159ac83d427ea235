package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrderListFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_list_fetches_total",
		Help: "Total number of order list fetches",
	}, []string{"result"})

	OrderRefetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_refetches_total",
		Help: "Total number of refetches triggered by realtime order events",
	})

	StatusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Total number of order status transitions submitted",
	}, []string{"target"})

	StatusTransitionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_rejected_total",
		Help: "Total number of transitions rejected before any request was made",
	}, []string{"reason"})

	InvoiceDownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invoice_downloads_total",
		Help: "Total number of invoice downloads",
	}, []string{"result"})

	StockSavesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_saves_total",
		Help: "Total number of per-product stock save requests",
	}, []string{"result"})

	StockSaveLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stock_save_latency_seconds",
		Help:    "Latency of stock save batches",
		Buckets: prometheus.DefBuckets,
	})

	CouponValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coupon_validation_failures_total",
		Help: "Total number of coupon submissions rejected by client-side validation",
	}, []string{"reason"})

	WithdrawalRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "withdrawal_requests_total",
		Help: "Total number of wallet withdrawal requests",
	}, []string{"result"})

	BackendRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_request_duration_seconds",
		Help:    "Latency of marketplace backend requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	RealtimeEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "realtime_events_total",
		Help: "Total number of realtime events received",
	}, []string{"outcome"})

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
