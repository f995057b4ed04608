// Package sim defines the simulation-engine collaborator: the runner
// interface the test harness drives, the result types observers interpret,
// an in-memory runner for unit tests, and a batch runner that shells out to
// ngspice.
package sim

import (
	"context"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/netlist"
)

// Log holds the named scalar measurements a simulation produced. Measurement
// names are case-insensitive, as they are in simulator output.
type Log struct {
	values map[string][]float64
}

// NewLog creates an empty measurement log.
func NewLog() *Log {
	return &Log{values: make(map[string][]float64)}
}

// Add appends a value under the (case-folded) measurement name.
func (l *Log) Add(name string, v float64) {
	key := strings.ToLower(name)
	l.values[key] = append(l.values[key], v)
}

// Measurement returns the first value recorded under name, or def when the
// measurement never triggered.
func (l *Log) Measurement(name string, def float64) float64 {
	if l == nil {
		return def
	}
	vs, ok := l.values[strings.ToLower(name)]
	if !ok || len(vs) == 0 {
		return def
	}
	return vs[0]
}

// Names returns the recorded measurement names (case-folded, unordered).
func (l *Log) Names() []string {
	out := make([]string, 0, len(l.values))
	for name := range l.values {
		out = append(out, name)
	}
	return out
}

// Trace holds per-node sample series from a transient or operating-point
// analysis. Node names are case-insensitive; "V(out)" and "out" address the
// same series.
type Trace struct {
	samples map[string][]float64
}

// NewTrace creates an empty trace.
func NewTrace() *Trace {
	return &Trace{samples: make(map[string][]float64)}
}

// Set stores the sample series for a node.
func (t *Trace) Set(node string, samples []float64) {
	t.samples[normalizeNode(node)] = append([]float64(nil), samples...)
}

// Node returns the sample series recorded for a node.
func (t *Trace) Node(node string) ([]float64, bool) {
	if t == nil {
		return nil, false
	}
	vs, ok := t.samples[normalizeNode(node)]
	return vs, ok
}

// Initial returns the first sample of a node's series. Observers use this as
// the operating-point value when no post-trigger transition fired.
func (t *Trace) Initial(node string) (float64, bool) {
	vs, ok := t.Node(node)
	if !ok || len(vs) == 0 {
		return 0, false
	}
	return vs[0], true
}

// normalizeNode folds case and strips a V(...) wrapper so trace lookups match
// however the caller names the node.
func normalizeNode(node string) string {
	n := strings.ToLower(strings.TrimSpace(node))
	if strings.HasPrefix(n, "v(") && strings.HasSuffix(n, ")") {
		n = n[2 : len(n)-1]
	}
	return n
}

// Result bundles everything one simulation run hands back: the measurement
// log, the transient trace, and the operating-point trace when the simulator
// produced one (nil otherwise).
type Result struct {
	Log   *Log
	Trace *Trace
	Op    *Trace
}

// Runner executes a simulation against the current state of a netlist.
type Runner interface {
	Run(ctx context.Context, net *netlist.Netlist, name string) (*Result, error)
}
