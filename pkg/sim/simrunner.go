package sim

import (
	"context"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/netlist"
)

// RunRecord captures one Run invocation for inspection within tests.
type RunRecord struct {
	Name string
	Deck string
}

// SimRunner is an in-memory Runner useful for unit tests. It records the
// rendered deck of every run and answers with a canned Result, or defers to
// OnRun when set.
type SimRunner struct {
	// Result is returned by Run when OnRun is nil. A nil Result yields an
	// empty log and trace.
	Result *Result
	// OnRun lets a test derive the result from the deck under simulation.
	OnRun func(name, deck string) (*Result, error)

	runs []RunRecord
}

// NewSimRunner constructs a runner answering every run with result.
func NewSimRunner(result *Result) *SimRunner {
	return &SimRunner{Result: result}
}

// Runs returns a copy of the recorded run invocations.
func (s *SimRunner) Runs() []RunRecord {
	return append([]RunRecord(nil), s.runs...)
}

// LastDeck returns the deck text of the most recent run.
func (s *SimRunner) LastDeck() string {
	if len(s.runs) == 0 {
		return ""
	}
	return s.runs[len(s.runs)-1].Deck
}

// Run implements Runner.
func (s *SimRunner) Run(ctx context.Context, net *netlist.Netlist, name string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("sim: run %s: %w", name, err)
	}

	deck := net.Render()
	s.runs = append(s.runs, RunRecord{Name: name, Deck: deck})

	if s.OnRun != nil {
		return s.OnRun(name, deck)
	}
	if s.Result != nil {
		return s.Result, nil
	}
	return &Result{Log: NewLog(), Trace: NewTrace()}, nil
}
