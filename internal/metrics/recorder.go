// Package metrics exposes prometheus instrumentation for builds and the
// preview server.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the registry and the learninghub metric set.
type Recorder struct {
	registry          *prom.Registry
	buildDuration     prom.Histogram
	buildOutcomes     *prom.CounterVec
	modulesRendered   prom.Counter
	livereloadClients prom.Gauge
}

// NewRecorder constructs and registers all metrics on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{registry: prom.NewRegistry()}
	r.buildDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: "learninghub",
		Name:      "build_duration_seconds",
		Help:      "Duration of hub builds",
		Buckets:   prom.DefBuckets,
	})
	r.buildOutcomes = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "learninghub",
		Name:      "build_outcomes_total",
		Help:      "Hub build outcomes by final status",
	}, []string{"outcome"})
	r.modulesRendered = prom.NewCounter(prom.CounterOpts{
		Namespace: "learninghub",
		Name:      "modules_rendered_total",
		Help:      "Total markdown modules rendered",
	})
	r.livereloadClients = prom.NewGauge(prom.GaugeOpts{
		Namespace: "learninghub",
		Name:      "livereload_clients",
		Help:      "Currently connected livereload clients",
	})
	r.registry.MustRegister(r.buildDuration, r.buildOutcomes, r.modulesRendered, r.livereloadClients)
	return r
}

// ObserveBuild records one hub build's duration and outcome.
func (r *Recorder) ObserveBuild(d time.Duration, err error) {
	r.buildDuration.Observe(d.Seconds())
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	r.buildOutcomes.WithLabelValues(outcome).Inc()
}

// AddModules counts rendered modules.
func (r *Recorder) AddModules(n int) {
	r.modulesRendered.Add(float64(n))
}

// SetLivereloadClients updates the connected-client gauge.
func (r *Recorder) SetLivereloadClients(n int) {
	r.livereloadClients.Set(float64(n))
}

// Handler returns the /metrics HTTP handler for this recorder's registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
