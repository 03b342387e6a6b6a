package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "tierbot"

// Metrics owns its registry so that several instances can live side by side
// in tests.
type Metrics struct {
	Registry *prometheus.Registry

	submissions  *prometheus.CounterVec
	decisions    *prometheus.CounterVec
	removals     prometheus.Counter
	refreshes    *prometheus.CounterVec
	recoveries   *prometheus.CounterVec
	interactions *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "applications",
			Name:      "submitted_total",
			Help:      "Application submissions by outcome.",
		}, []string{"outcome"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "applications",
			Name:      "decided_total",
			Help:      "Moderator decisions by outcome.",
		}, []string{"outcome"}),
		removals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tiers",
			Name:      "removed_total",
			Help:      "Tiers removed by moderators.",
		}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leaderboard",
			Name:      "refreshes_total",
			Help:      "Tier list refreshes by outcome.",
		}, []string{"outcome"}),
		recoveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "components",
			Name:      "restored_total",
			Help:      "Persisted components processed at startup by outcome.",
		}, []string{"outcome"}),
		interactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discord",
			Name:      "interactions_total",
			Help:      "Handled Discord interactions by kind and name.",
		}, []string{"kind", "name"}),
	}

	m.Registry.MustRegister(
		m.submissions,
		m.decisions,
		m.removals,
		m.refreshes,
		m.recoveries,
		m.interactions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ApplicationSubmitted(outcome string) {
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ApplicationDecided(outcome string) {
	m.decisions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) TierRemoved() {
	m.removals.Inc()
}

func (m *Metrics) LeaderboardRefreshed(outcome string) {
	m.refreshes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ComponentRestored(outcome string) {
	m.recoveries.WithLabelValues(outcome).Inc()
}

func (m *Metrics) InteractionHandled(kind, name string) {
	m.interactions.WithLabelValues(kind, name).Inc()
}
