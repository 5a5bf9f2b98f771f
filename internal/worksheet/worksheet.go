// Package worksheet runs batches of tool calls described in YAML:
//
//	name: calculus homework
//	concurrency: 8
//	requests:
//	  - tool: derivative
//	    params:
//	      var: x
//	      expr: {type: sin, arg: {type: sym, name: x}}
//	  - tool: evaluate
//	    params:
//	      vars: {x: 1.5}
//	      expr: {type: sym, name: x}
//
// Requests run concurrently; results come back in input order.
package worksheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/symexpr"
	"github.com/njchilds90/symexpr/internal/metrics"
)

// DefaultConcurrency applies when neither the worksheet nor an option sets
// a limit.
const DefaultConcurrency = 4

// ErrEmpty is returned for a worksheet with no requests.
var ErrEmpty = errors.New("worksheet has no requests")

// Worksheet is a named list of tool calls.
type Worksheet struct {
	Name        string                `yaml:"name"`
	Concurrency int                   `yaml:"concurrency,omitempty"`
	Requests    []symexpr.ToolRequest `yaml:"requests"`
}

// Result pairs a request with its response.
type Result struct {
	Index    int                  `yaml:"index" json:"index"`
	Tool     string               `yaml:"tool" json:"tool"`
	Response symexpr.ToolResponse `yaml:"response" json:"response"`
	Duration time.Duration        `yaml:"duration" json:"duration"`
}

// Load reads and decodes the worksheet file at path.
func Load(path string) (*Worksheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open worksheet: %w", err)
	}
	defer f.Close()
	ws, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ws, nil
}

// Decode reads one YAML worksheet from r.
func Decode(r io.Reader) (*Worksheet, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var ws Worksheet
	if err := dec.Decode(&ws); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("decode worksheet: %w", err)
	}
	if len(ws.Requests) == 0 {
		return nil, ErrEmpty
	}
	for i, req := range ws.Requests {
		if req.Tool == "" {
			return nil, fmt.Errorf("request %d: missing tool", i)
		}
	}
	if ws.Concurrency < 0 {
		return nil, fmt.Errorf("concurrency must be >= 0, got %d", ws.Concurrency)
	}
	return &ws, nil
}

type options struct {
	concurrency int
	metrics     *metrics.Metrics
}

// Option adjusts Run.
type Option func(*options)

// WithConcurrency sets the limit used when the worksheet does not set one.
func WithConcurrency(n int) Option { return func(o *options) { o.concurrency = n } }

// WithMetrics records every call on m.
func WithMetrics(m *metrics.Metrics) Option { return func(o *options) { o.metrics = m } }

// Run executes every request of ws. Tool failures are reported in the
// matching Result; the returned error is non-nil only when ctx ends before
// all requests have run.
func Run(ctx context.Context, ws *Worksheet, logger *slog.Logger, opts ...Option) ([]Result, error) {
	o := options{concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(&o)
	}
	limit := o.concurrency
	if ws.Concurrency > 0 {
		limit = ws.Concurrency
	}
	if limit < 1 {
		limit = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("worksheet", ws.Name)

	results := make([]Result, len(ws.Requests))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	start := time.Now()
	for i, req := range ws.Requests {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scalar, err := symexpr.ScalarOf(req)
			if err != nil {
				scalar = "invalid"
			}
			t0 := time.Now()
			resp := symexpr.HandleToolCall(req)
			d := time.Since(t0)
			o.metrics.Observe(req.Tool, scalar, resp.Error == "", d)
			if resp.Error != "" {
				logger.Warn("request failed", "index", i, "tool", req.Tool, "error", resp.Error)
			} else {
				logger.Debug("request done", "index", i, "tool", req.Tool, "duration", d)
			}
			results[i] = Result{Index: i, Tool: req.Tool, Response: resp, Duration: d}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run worksheet %q: %w", ws.Name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run worksheet %q: %w", ws.Name, err)
	}
	logger.Info("worksheet finished", "requests", len(results), "limit", limit, "duration", time.Since(start))
	return results, nil
}

// Failed counts the results whose response carries an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Response.Error != "" {
			n++
		}
	}
	return n
}
