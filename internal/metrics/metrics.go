// Package metrics exports Prometheus instruments for tool calls.
package metrics

import (
	"slices"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/njchilds90/symexpr"
)

const namespace = "symexpr"

// Metrics records every tool call served over HTTP or from a worksheet.
type Metrics struct {
	// ToolCalls counts calls by tool, scalar domain and result (ok|error).
	ToolCalls *prometheus.CounterVec

	// ToolDuration tracks time spent in HandleToolCall.
	ToolDuration *prometheus.HistogramVec
}

// New registers the instruments with reg. Pass prometheus.DefaultRegisterer
// in binaries and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ToolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Total tool calls by tool, scalar domain and result",
		}, []string{"tool", "scalar", "result"}),

		ToolDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_duration_seconds",
			Help:      "Tool call duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
		}, []string{"tool"}),
	}
}

// Observe records one finished call. Tool names HandleToolCall does not
// know are recorded as "unknown" and scalar domains other than real and
// complex as "invalid". A nil receiver is a no-op.
func (m *Metrics) Observe(tool, scalar string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	tool = ToolLabel(tool)
	if scalar != symexpr.ScalarReal && scalar != symexpr.ScalarComplex {
		scalar = "invalid"
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.ToolCalls.WithLabelValues(tool, scalar, result).Inc()
	m.ToolDuration.WithLabelValues(tool).Observe(d.Seconds())
}

// ToolLabel returns name if it is a known tool and "unknown" otherwise.
func ToolLabel(name string) string {
	if name == "tool_spec" || slices.Contains(symexpr.ToolNames(), name) {
		return name
	}
	return "unknown"
}

// CallCount is one series of the tool call counter.
type CallCount struct {
	Tool   string
	Scalar string
	Result string
	Count  float64
}

// CallCounts reads the tool call counter back from g, sorted by tool,
// scalar and result.
func CallCounts(g prometheus.Gatherer) ([]CallCount, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}
	var out []CallCount
	for _, f := range families {
		if f.GetName() != namespace+"_tool_calls_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			c := CallCount{Count: m.GetCounter().GetValue()}
			for _, l := range m.GetLabel() {
				switch l.GetName() {
				case "tool":
					c.Tool = l.GetValue()
				case "scalar":
					c.Scalar = l.GetValue()
				case "result":
					c.Result = l.GetValue()
				}
			}
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Tool != b.Tool {
			return a.Tool < b.Tool
		}
		if a.Scalar != b.Scalar {
			return a.Scalar < b.Scalar
		}
		return a.Result < b.Result
	})
	return out, nil
}
