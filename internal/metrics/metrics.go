// Package metrics records run counters on a Prometheus registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	provider "github.com/Cyclone1070/boxagent/internal/provider/models"
)

// Metrics holds the agent's Prometheus metrics. All metrics use the
// boxagent_ namespace. A nil *Metrics is valid and records nothing.
type Metrics struct {
	TurnsTotal       prometheus.Counter
	TokensTotal      *prometheus.CounterVec
	ToolCallsTotal   *prometheus.CounterVec
	ToolCallDuration *prometheus.HistogramVec
	RunOutcomesTotal *prometheus.CounterVec

	reg *prometheus.Registry
}

// New creates and registers the metrics on reg.
// Returns nil if reg is nil.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		return nil
	}

	m := &Metrics{
		TurnsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "boxagent",
			Subsystem: "loop",
			Name:      "turns_total",
			Help:      "Model turns taken.",
		}),

		TokensTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boxagent",
			Subsystem: "loop",
			Name:      "tokens_total",
			Help:      "Tokens reported by the model service, by kind (prompt, response).",
		}, []string{"kind"}),

		ToolCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boxagent",
			Subsystem: "tool",
			Name:      "calls_total",
			Help:      "Tool calls by tool name and outcome.",
		}, []string{"tool", "outcome"}),

		ToolCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "boxagent",
			Subsystem: "tool",
			Name:      "call_duration_seconds",
			Help:      "Tool call duration in seconds, approval included.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30, 60},
		}, []string{"tool"}),

		RunOutcomesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boxagent",
			Subsystem: "loop",
			Name:      "outcomes_total",
			Help:      "Finished runs by terminal state.",
		}, []string{"state"}),

		reg: reg,
	}

	reg.MustRegister(
		m.TurnsTotal,
		m.TokensTotal,
		m.ToolCallsTotal,
		m.ToolCallDuration,
		m.RunOutcomesTotal,
	)

	return m
}

// ObserveTurn records one model turn and its token usage.
func (m *Metrics) ObserveTurn(usage provider.Usage) {
	if m == nil {
		return
	}
	m.TurnsTotal.Inc()
	m.TokensTotal.WithLabelValues("prompt").Add(float64(usage.PromptTokens))
	m.TokensTotal.WithLabelValues("response").Add(float64(usage.ResponseTokens))
}

// ObserveToolCall records a dispatched tool call.
func (m *Metrics) ObserveToolCall(tool, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ToolCallsTotal.WithLabelValues(tool, outcome).Inc()
	m.ToolCallDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// ObserveOutcome records the state a run finished in.
func (m *Metrics) ObserveOutcome(state string) {
	if m == nil {
		return
	}
	m.RunOutcomesTotal.WithLabelValues(state).Inc()
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.reg)
}
