package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BackendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_backend_requests_total",
		Help: "Requests issued to the forecasting backend by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_query_cache_hits_total",
		Help: "Query-client lookups served from cache",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_query_cache_misses_total",
		Help: "Query-client lookups that required a backend fetch",
	})

	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_websocket_clients",
		Help: "Connected live-alert websocket clients",
	})
)
