// Package metrics exposes the Prometheus instruments for the sales API.
// Everything is registered via promauto at init time and scraped on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	SalesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_created_total",
		Help: "Total number of sales created.",
	})

	SalesCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_cancelled_total",
		Help: "Total number of sales cancelled.",
	})

	ItemsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sale_items_cancelled_total",
		Help: "Total number of bulk item cancellations.",
	})

	EventsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_delivered_total",
		Help: "Events delivered to the webhook, by event name.",
	}, []string{"event"})

	EventDeliveryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_delivery_failures_total",
		Help: "Event delivery attempts that failed, by event name.",
	}, []string{"event"})
)
