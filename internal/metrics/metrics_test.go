package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Observe("derivative", "real", true, 3*time.Millisecond)
	m.Observe("derivative", "real", true, time.Millisecond)
	m.Observe("evaluate", "complex", false, time.Microsecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ToolCalls.WithLabelValues("derivative", "real", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCalls.WithLabelValues("evaluate", "complex", "error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ToolCalls.WithLabelValues("evaluate", "complex", "ok")))

	assert.Equal(t, 2, testutil.CollectAndCount(m.ToolDuration, "symexpr_tool_duration_seconds"))
}

func TestNew_RegistersNames(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Observe("render", "real", true, 0)

	families, err := reg.Gather()
	assert.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{"symexpr_tool_calls_total", "symexpr_tool_duration_seconds"}, names)
}

func TestObserve_FoldsUnboundedLabels(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Observe("integrate", "real", false, 0)
	m.Observe("integrate-2", "quaternion", false, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCalls.WithLabelValues("unknown", "real", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCalls.WithLabelValues("unknown", "invalid", "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.ToolCalls))
}

func TestToolLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"derivative", "derivative"},
		{"taylor", "taylor"},
		{"tool_spec", "tool_spec"},
		{"", "unknown"},
		{"Derivative", "unknown"},
		{"rm -rf", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToolLabel(tt.in))
		})
	}
}

func TestCallCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Observe("simplify", "real", true, 0)
	m.Observe("evaluate", "complex", true, 0)
	m.Observe("evaluate", "complex", true, 0)
	m.Observe("evaluate", "real", false, 0)

	counts, err := CallCounts(reg)
	require.NoError(t, err)
	assert.Equal(t, []CallCount{
		{Tool: "evaluate", Scalar: "complex", Result: "ok", Count: 2},
		{Tool: "evaluate", Scalar: "real", Result: "error", Count: 1},
		{Tool: "simplify", Scalar: "real", Result: "ok", Count: 1},
	}, counts)
}

func TestObserve_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.Observe("render", "real", true, time.Second) })
}
