package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"Deckwright/internal/calcerr"
)

// Metrics holds the Prometheus collectors for deck generation.
type Metrics struct {
	Generations        *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	ComplianceWarnings prometheus.Counter
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Generations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deckwright_generations_total",
				Help: "Structure generations by outcome and error code",
			},
			[]string{"outcome", "code"},
		),
		GenerationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "deckwright_generation_duration_seconds",
				Help:    "Time spent generating one structure",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
		),
		ComplianceWarnings: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "deckwright_compliance_warnings_total",
				Help: "Compliance warnings attached to generated structures",
			},
		),
	}
}

// NewRegistry creates a registry with the deck metrics registered.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	return reg, NewMetrics(reg)
}

// Handler serves the given registry.
func Handler(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ObserveGeneration records one engine call. A nil receiver is a no-op.
func (m *Metrics) ObserveGeneration(warnings int, err error, took time.Duration) {
	if m == nil {
		return
	}
	m.GenerationDuration.Observe(took.Seconds())
	if err != nil {
		code := string(calcerr.CodeOf(err))
		if code == "" {
			code = "INTERNAL"
		}
		m.Generations.WithLabelValues("error", code).Inc()
		return
	}
	m.Generations.WithLabelValues("ok", "").Inc()
	m.ComplianceWarnings.Add(float64(warnings))
}
