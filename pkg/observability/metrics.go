package observability

import (
	"context"

	"github.com/aretw0/waymark/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes navigation activity as Prometheus collectors.
type Metrics struct {
	Navigations        *prometheus.CounterVec
	NavigationDuration *prometheus.HistogramVec
	NavigationAttempts prometheus.Histogram
	Transitions        *prometheus.CounterVec
	ActiveStates       prometheus.Gauge
	Regions            *prometheus.CounterVec
}

// NewMetrics creates unregistered collectors under the given namespace.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Navigations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "navigations_total",
				Help:      "Total number of OpenState calls by target and result",
			},
			[]string{"target", "result"},
		),
		NavigationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "navigation_duration_seconds",
				Help:      "Duration of OpenState calls",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"target"},
		),
		NavigationAttempts: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "navigation_attempts",
				Help:      "Paths tried per OpenState call",
				Buckets:   []float64{0, 1, 2, 3, 5, 8},
			},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transitions_total",
				Help:      "Total number of executed hops by endpoints and result",
			},
			[]string{"from", "to", "result"},
		),
		ActiveStates: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_states",
				Help:      "Number of states currently active",
			},
		),
		Regions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_regions_resolved_total",
				Help:      "Search region resolutions by source",
			},
			[]string{"source"},
		),
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.Navigations,
		m.NavigationDuration,
		m.NavigationAttempts,
		m.Transitions,
		m.ActiveStates,
		m.Regions,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNavigationEnd: func(_ context.Context, e *domain.NavigationEvent) {
			m.Navigations.WithLabelValues(e.Target, result(e.Success)).Inc()
			m.NavigationDuration.WithLabelValues(e.Target).Observe(e.Duration.Seconds())
			m.NavigationAttempts.Observe(float64(e.Attempts))
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(e.From, e.To, result(e.Success)).Inc()
		},
		OnStateActivated: func(context.Context, *domain.StateEvent) {
			m.ActiveStates.Inc()
		},
		OnStateDeactivated: func(context.Context, *domain.StateEvent) {
			m.ActiveStates.Dec()
		},
		OnRegionResolved: func(_ context.Context, e *domain.RegionEvent) {
			m.Regions.WithLabelValues(e.Source).Inc()
		},
	}
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
