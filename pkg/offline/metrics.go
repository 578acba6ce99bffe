package offline

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Decisions       *prometheus.CounterVec
	CacheResults    *prometheus.CounterVec
	NetworkFailures prometheus.Counter
	InstallFailures prometheus.Counter
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portafilter",
			Subsystem: "offline",
			Name:      "decisions_total",
			Help:      "Intercepted requests by fetch strategy.",
		}, []string{"strategy"}),
		CacheResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portafilter",
			Subsystem: "offline",
			Name:      "cache_results_total",
			Help:      "Cache lookups by outcome.",
		}, []string{"result"}),
		NetworkFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "portafilter",
			Subsystem: "offline",
			Name:      "network_failures_total",
			Help:      "Requests whose network fetch failed.",
		}),
		InstallFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "portafilter",
			Subsystem: "offline",
			Name:      "install_failures_total",
			Help:      "Manifest assets that could not be cached during install.",
		}),
	}

	registerer.MustRegister(metrics.Decisions, metrics.CacheResults, metrics.NetworkFailures, metrics.InstallFailures)

	return metrics
}
