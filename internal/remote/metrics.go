package remote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts requests by method and outcome (ok, transport, server, decode, encode)
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grocery_client_requests_total",
		Help: "Requests sent to the items endpoint by method and result",
	}, []string{"method", "result"})

	// requestDuration tracks round-trip latency, transport failures included
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "grocery_client_request_duration_seconds",
		Help:    "Round-trip duration of requests to the items endpoint",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
	}, []string{"method"})
)
