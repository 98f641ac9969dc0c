package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the collectors recorded by the pricing service.
type Registry struct {
	spotFetches *prometheus.CounterVec
	spotLatency *prometheus.HistogramVec
	quotes      *prometheus.CounterVec
	quoteLines  *prometheus.CounterVec
}

var (
	registryOnce sync.Once
	registry     *Registry
)

// Default returns the lazily-initialised registry bound to the prometheus
// default registerer.
func Default() *Registry {
	registryOnce.Do(func() {
		registry = &Registry{
			spotFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "scrapboard",
				Subsystem: "spot",
				Name:      "fetches_total",
				Help:      "Spot feed fetches segmented by the snapshot source that was used.",
			}, []string{"source"}),
			spotLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "scrapboard",
				Subsystem: "spot",
				Name:      "fetch_duration_seconds",
				Help:      "Latency of spot feed fetches including fallback resolution.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"source"}),
			quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "scrapboard",
				Subsystem: "quote",
				Name:      "requests_total",
				Help:      "Quote requests segmented by outcome.",
			}, []string{"outcome"}),
			quoteLines: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "scrapboard",
				Subsystem: "quote",
				Name:      "lines_total",
				Help:      "Priced quote lines segmented by how the line was resolved.",
			}, []string{"resolution"}),
		}
		prometheus.MustRegister(
			registry.spotFetches,
			registry.spotLatency,
			registry.quotes,
			registry.quoteLines,
		)
	})
	return registry
}

// ObserveSpotFetch records one spot fetch. source is "live", "fallback" or "error".
func (r *Registry) ObserveSpotFetch(source string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.spotFetches.WithLabelValues(source).Inc()
	r.spotLatency.WithLabelValues(source).Observe(elapsed.Seconds())
}

// ObserveQuote records the outcome of a quote request.
func (r *Registry) ObserveQuote(outcome string) {
	if r == nil {
		return
	}
	r.quotes.WithLabelValues(outcome).Inc()
}

// ObserveQuoteLine records how a single quote line was resolved.
func (r *Registry) ObserveQuoteLine(resolution string) {
	if r == nil {
		return
	}
	r.quoteLines.WithLabelValues(resolution).Inc()
}

// Handler serves the default prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
