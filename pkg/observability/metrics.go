package observability

import (
	"context"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects view engine counters.
type Metrics struct {
	Passes    *prometheus.CounterVec
	Duration  prometheus.Histogram
	Views     *prometheus.CounterVec
	Renderers *prometheus.CounterVec
	LiveViews prometheus.Gauge

	mu      sync.Mutex
	started map[uint64]float64
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Passes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_refresh_passes_total",
				Help: "Total number of refresh passes by outcome",
			},
			[]string{"outcome"},
		),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "arbor_refresh_duration_seconds",
				Help:    "Duration of refresh passes",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		Views: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_view_events_total",
				Help: "Views created and destroyed by kind",
			},
			[]string{"event", "kind"},
		),
		Renderers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_renderer_events_total",
				Help: "Renderers obtained from and released to the factory",
			},
			[]string{"event", "encapsulation"},
		),
		LiveViews: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "arbor_live_views",
				Help: "Views currently alive",
			},
		),
		started: make(map[uint64]float64),
	}
	if reg != nil {
		reg.MustRegister(m.Passes, m.Duration, m.Views, m.Renderers, m.LiveViews)
	}
	return m
}

// Hooks returns lifecycle hooks that feed m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPassBegin: func(_ context.Context, e *domain.PassEvent) {
			m.mu.Lock()
			m.started[e.Pass] = float64(e.Timestamp.UnixNano())
			m.mu.Unlock()
		},
		OnPassEnd: func(_ context.Context, e *domain.PassEvent) {
			outcome := "ok"
			if e.Err != nil {
				outcome = "error"
			}
			m.Passes.WithLabelValues(outcome).Inc()

			m.mu.Lock()
			start, ok := m.started[e.Pass]
			delete(m.started, e.Pass)
			m.mu.Unlock()
			if ok {
				m.Duration.Observe((float64(e.Timestamp.UnixNano()) - start) / 1e9)
			}
		},
		OnViewCreate: func(_ context.Context, e *domain.ViewEvent) {
			m.Views.WithLabelValues("create", string(e.Kind)).Inc()
			m.LiveViews.Inc()
		},
		OnViewDestroy: func(_ context.Context, e *domain.ViewEvent) {
			m.Views.WithLabelValues("destroy", string(e.Kind)).Inc()
			m.LiveViews.Dec()
		},
		OnRendererCreate: func(_ context.Context, e *domain.RendererEvent) {
			m.Renderers.WithLabelValues("create", encapsulation(e.Type)).Inc()
		},
		OnRendererDestroy: func(_ context.Context, e *domain.RendererEvent) {
			m.Renderers.WithLabelValues("destroy", encapsulation(e.Type)).Inc()
		},
	}
}

func encapsulation(t *domain.RendererType) string {
	if t == nil {
		return "root"
	}
	return string(t.Encapsulation)
}
