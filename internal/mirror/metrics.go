package mirror

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles Prometheus collectors for a mirror run. All methods are
// nil-safe so the pipeline can run without metrics wired.
type Metrics struct {
	Registry      *prometheus.Registry
	FetchesTotal  *prometheus.CounterVec
	RetriesTotal  prometheus.Counter
	AssetsTotal   prometheus.Counter
	CapturesTotal *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	fetches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waymirror_fetches_total",
			Help: "Resource fetches by outcome (ok, skipped, failed).",
		},
		[]string{"outcome"},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "waymirror_retries_total",
			Help: "Retry attempts after non-2xx replay responses.",
		},
	)
	assets := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "waymirror_assets_discovered_total",
			Help: "Asset URLs discovered in mirrored pages.",
		},
	)
	captures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waymirror_captures_total",
			Help: "Capture downloads completed by result (ok, failed).",
		},
		[]string{"result"},
	)

	registry.MustRegister(fetches, retries, assets, captures)

	return &Metrics{
		Registry:      registry,
		FetchesTotal:  fetches,
		RetriesTotal:  retries,
		AssetsTotal:   assets,
		CapturesTotal: captures,
	}
}

// Handler serves the run's registry, for the optional metrics listener.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// IncFetch increments the fetch counter for an outcome label.
func (m *Metrics) IncFetch(outcome string) {
	if m == nil {
		return
	}
	m.FetchesTotal.WithLabelValues(outcome).Inc()
}

// IncRetries increments the retry counter.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// AddAssets records discovered asset URLs.
func (m *Metrics) AddAssets(n int) {
	if m == nil {
		return
	}
	m.AssetsTotal.Add(float64(n))
}

// IncCapture increments the capture counter for a result label.
func (m *Metrics) IncCapture(result string) {
	if m == nil {
		return
	}
	m.CapturesTotal.WithLabelValues(result).Inc()
}
