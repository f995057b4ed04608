package probe

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/lifecycle"
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/sim"
)

// Observation failures and warnings.
var (
	// ErrExpectationUnknown is returned by Observe before ObserveExpected
	// has captured a baseline.
	ErrExpectationUnknown = errors.New("probe: expectation unknown")
	// ErrUncertainBaseline is the warning-level outcome of capturing an
	// UNCERTAIN expectation. The expectation is stored regardless; the
	// caller decides whether an indeterminate baseline invalidates the
	// test.
	ErrUncertainBaseline = errors.New("probe: baseline classification is uncertain")
)

// Classification is the three-valued logic verdict of an observed node.
type Classification int

const (
	Low       Classification = iota - 1 // below the low threshold
	Uncertain                           // no decisive level
	High                                // above the high threshold
)

func (c Classification) String() string {
	switch c {
	case Low:
		return "LOW"
	case Uncertain:
		return "UNCERTAIN"
	case High:
		return "HIGH"
	default:
		return fmt.Sprintf("Classification(%d)", int(c))
	}
}

// Observation is one interpreted measurement: the logic classification and
// the signed time offset of the deciding transition from the trigger
// instant. Offset is -1 when no post-trigger transition fired.
type Observation struct {
	Class  Classification
	Offset float64
}

func (o Observation) String() string {
	return fmt.Sprintf("%s after %.3e", o.Class, o.Offset)
}

// Verdict is the outcome of comparing an observation against the captured
// expectation: whether the classification matched, and the observed-minus-
// expected offset deltas for timing-margin assertions.
type Verdict struct {
	Match  bool
	Deltas []float64
}

// Utility is a reversible netlist addition supporting test observation or
// perturbation. Unlike a fault it has a third, active state scoping its
// temporally bound effect (measurement directives, pulse waveforms).
type Utility interface {
	Inject() error
	Activate() error
	Deactivate() error
	Eject() error

	State() lifecycle.State
	IsInjected() bool
	IsActive() bool

	fmt.Stringer
}

// Observer is a utility that interprets simulation results for one node and
// compares them against a previously captured expectation.
//
// *MeasureObserver and *InverterObserver implement Observer; *InjectionPoint
// implements Utility.
type Observer interface {
	Utility

	// ObserveExpected classifies the reference run and stores the result
	// as the expectation. An Uncertain classification is stored too, but
	// reported through ErrUncertainBaseline.
	ObserveExpected(res *sim.Result) (Observation, error)
	// Observe classifies a run and compares it against the expectation.
	Observe(res *sim.Result) (Verdict, error)
}
