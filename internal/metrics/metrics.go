// Package metrics counts resolution outcomes from the event bus and exports
// them in the Prometheus exposition format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sydlexius/kala/internal/event"
)

const namespace = "kala"

// Outcome label values.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
)

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry    *prometheus.Registry
	resolutions *prometheus.CounterVec
	degraded    prometheus.Counter
	duration    prometheus.Histogram
	reloads     prometheus.Counter
	batches     prometheus.Counter
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "thumbnail_resolutions_total",
			Help:      "Thumbnail resolutions by outcome and answering stage.",
		}, []string{"outcome", "stage"}),
		degraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "thumbnail_degraded_total",
			Help:      "Resolutions where a lookup stage failed for a reason other than a missing page.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "thumbnail_resolution_seconds",
			Help:      "Wall time of thumbnail resolutions.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_reloads_total",
			Help:      "Collection reloads triggered by file changes.",
		}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Completed batch resolutions.",
		}),
	}
	m.registry.MustRegister(m.resolutions, m.degraded, m.duration, m.reloads, m.batches)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Subscribe feeds the collectors from every event on bus.
func (m *Metrics) Subscribe(bus *event.Bus) {
	bus.SubscribeAll(m.Handle)
}

// Handle updates the collectors for one event.
func (m *Metrics) Handle(e event.Event) {
	switch e.Type {
	case event.ThumbnailResolved, event.ThumbnailMissing:
		outcome := OutcomeNotFound
		if e.Type == event.ThumbnailResolved {
			outcome = OutcomeFound
		}
		stage, _ := e.Data["stage"].(string)
		if stage == "" {
			stage = "none"
		}
		m.resolutions.WithLabelValues(outcome, stage).Inc()
		if d, ok := e.Data["degraded"].(bool); ok && d {
			m.degraded.Inc()
		}
		if ms, ok := e.Data["duration_ms"].(int64); ok {
			m.duration.Observe(float64(ms) / 1000)
		}
	case event.CollectionChanged:
		m.reloads.Inc()
	case event.BatchCompleted:
		m.batches.Inc()
	}
}

// WriteTextfile writes the current values to path atomically, for the
// node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
