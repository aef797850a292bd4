package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	provider "github.com/Cyclone1070/boxagent/internal/provider/models"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func counterValue(t *testing.T, f *dto.MetricFamily, labels map[string]string) float64 {
	t.Helper()
	require.NotNil(t, f)
	for _, m := range f.GetMetric() {
		match := true
		for _, lp := range m.GetLabel() {
			if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
				match = false
			}
		}
		if match {
			return m.GetCounter().GetValue()
		}
	}
	t.Fatalf("no sample in %s with labels %v", f.GetName(), labels)
	return 0
}

func TestNew_NilRegistry(t *testing.T) {
	m := New(nil)
	assert.Nil(t, m)

	// nil receivers are no-ops
	m.ObserveTurn(provider.Usage{PromptTokens: 1})
	m.ObserveToolCall("read_file", "ok", time.Second)
	m.ObserveOutcome("DONE")
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	require.NotNil(t, m)

	m.ObserveTurn(provider.Usage{PromptTokens: 10, ResponseTokens: 4})
	m.ObserveTurn(provider.Usage{PromptTokens: 12, ResponseTokens: 6})
	m.ObserveToolCall("read_file", "ok", 20*time.Millisecond)
	m.ObserveToolCall("read_file", "ok", 30*time.Millisecond)
	m.ObserveToolCall("write_file", "denied", time.Millisecond)
	m.ObserveOutcome("DONE")

	fams := gather(t, reg)
	assert.Equal(t, 2.0, counterValue(t, fams["boxagent_loop_turns_total"], nil))
	assert.Equal(t, 22.0, counterValue(t, fams["boxagent_loop_tokens_total"], map[string]string{"kind": "prompt"}))
	assert.Equal(t, 10.0, counterValue(t, fams["boxagent_loop_tokens_total"], map[string]string{"kind": "response"}))
	assert.Equal(t, 2.0, counterValue(t, fams["boxagent_tool_calls_total"], map[string]string{"tool": "read_file", "outcome": "ok"}))
	assert.Equal(t, 1.0, counterValue(t, fams["boxagent_tool_calls_total"], map[string]string{"tool": "write_file", "outcome": "denied"}))
	assert.Equal(t, 1.0, counterValue(t, fams["boxagent_loop_outcomes_total"], map[string]string{"state": "DONE"}))

	hist := fams["boxagent_tool_call_duration_seconds"]
	require.NotNil(t, hist)
	var count uint64
	for _, s := range hist.GetMetric() {
		count += s.GetHistogram().GetSampleCount()
	}
	assert.Equal(t, uint64(3), count)
}

func TestWriteTextfile(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveOutcome("BUDGET_EXHAUSTED")
	path := filepath.Join(t.TempDir(), "boxagent.prom")

	require.NoError(t, m.WriteTextfile(path))
	require.NoError(t, m.WriteTextfile(""))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `boxagent_loop_outcomes_total{state="BUDGET_EXHAUSTED"} 1`)
}
