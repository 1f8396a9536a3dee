package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AccessorCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orbio_accessor_calls_total",
		Help: "Total number of resource accessor calls",
	}, []string{"table", "op", "outcome"})

	AccessorLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "orbio_accessor_latency_seconds",
		Help:    "Latency of resource accessor calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"table", "op"})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orbio_events_published_total",
		Help: "Total number of domain events handed to the broker",
	}, []string{"type", "outcome"})

	StoreFetchFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orbio_store_fetch_failures_total",
		Help: "Total number of failed collection loads in the admin store",
	}, []string{"collection"})

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
