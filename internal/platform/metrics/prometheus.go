package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mumbramart/storefront-service/internal/platform/logger"
)

// Manager holds the service's Prometheus metrics on a private registry.
type Manager struct {
	Registry               *prometheus.Registry
	RankingPassesTotal     *prometheus.CounterVec
	SnapshotRefreshesTotal prometheus.Counter
	SnapshotRefreshErrors  prometheus.Counter
	CartOperationsTotal    *prometheus.CounterVec
	CatalogMutationsTotal  *prometheus.CounterVec
	HTTPRequestLatency     *prometheus.HistogramVec
}

func NewManager(serviceName string) *Manager {
	registry := prometheus.NewRegistry()

	rankingPassesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "ranking_passes_total",
		Help:      "Total ranking engine invocations, by mode (located or degraded).",
	}, []string{"mode"})
	snapshotRefreshesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "catalog_snapshot_refreshes_total",
		Help:      "Total successful catalog snapshot reads.",
	})
	snapshotRefreshErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "catalog_snapshot_refresh_errors_total",
		Help:      "Total failed catalog snapshot reads.",
	})
	cartOperationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "cart_operations_total",
		Help:      "Total cart operations by type.",
	}, []string{"operation"})
	catalogMutationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "catalog_mutations_total",
		Help:      "Total seller catalog mutations by type.",
	}, []string{"operation"})
	httpRequestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	registry.MustRegister(
		rankingPassesTotal,
		snapshotRefreshesTotal,
		snapshotRefreshErrors,
		cartOperationsTotal,
		catalogMutationsTotal,
		httpRequestLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:               registry,
		RankingPassesTotal:     rankingPassesTotal,
		SnapshotRefreshesTotal: snapshotRefreshesTotal,
		SnapshotRefreshErrors:  snapshotRefreshErrors,
		CartOperationsTotal:    cartOperationsTotal,
		CatalogMutationsTotal:  catalogMutationsTotal,
		HTTPRequestLatency:     httpRequestLatency,
	}
}

// StartServer exposes /metrics on its own port. Blocks; run in a goroutine.
func StartServer(port string, log logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		log.Info("Prometheus metrics server port not configured, server will not start")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	log.Infof("Prometheus metrics server starting on port %s", port)
	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return server.ListenAndServe()
}
