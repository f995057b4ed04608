package probe

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/lifecycle"
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/netlist"
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/sim"
)

// missingMeasurement is the sentinel a threshold-crossing measurement takes
// when it never triggered.
const missingMeasurement = -1

// MeasureObserver classifies a node's transient behavior through four
// threshold-crossing measurement directives: last fall and last rise through
// a low threshold, and the same pair through a high threshold. The resulting
// trigger instants decide the three-valued logic verdict.
//
// The measurement is purely directive-based and therefore presents an ideal
// high impedance; it does not model the input loading a real observer
// circuit would add.
type MeasureObserver struct {
	net  *netlist.Netlist
	m    lifecycle.UtilityMachine
	prof Profile

	node      string
	low, high float64
	lowVar    string
	highVar   string

	expectation *Observation
}

// NewMeasureObserver builds an observer for the node with explicit
// thresholds.
func NewMeasureObserver(net *netlist.Netlist, node string, low, high float64, prof Profile) (*MeasureObserver, error) {
	if err := prof.Validate(); err != nil {
		return nil, err
	}
	return &MeasureObserver{
		net:     net,
		prof:    prof,
		node:    node,
		low:     low,
		high:    high,
		lowVar:  fmt.Sprintf("%s%s_LOW", node, prof.ObserveSuffix),
		highVar: fmt.Sprintf("%s%s_HIGH", node, prof.ObserveSuffix),
	}, nil
}

// Node returns the measured node name.
func (o *MeasureObserver) Node() string {
	return o.node
}

// State reports the lifecycle state.
func (o *MeasureObserver) State() lifecycle.State {
	return o.m.State()
}

// IsInjected reports whether the observer sits in the netlist.
func (o *MeasureObserver) IsInjected() bool {
	return o.m.IsInjected()
}

// IsActive reports whether the measurement directives are in place.
func (o *MeasureObserver) IsActive() bool {
	return o.m.IsActive()
}

// Inject adds nothing to the topology; the directive-only observer exists
// purely through its lifecycle state.
func (o *MeasureObserver) Inject() error {
	return o.m.Inject()
}

// Activate inserts the four threshold-crossing measurement directives.
func (o *MeasureObserver) Activate() error {
	if err := o.m.Activate(); err != nil {
		return err
	}
	o.net.AddDirectives(
		o.measDirective(o.lowVar, o.low, "FALL"),
		o.measDirective(o.lowVar, o.low, "RISE"),
		o.measDirective(o.highVar, o.high, "FALL"),
		o.measDirective(o.highVar, o.high, "RISE"),
	)
	return nil
}

func (o *MeasureObserver) measDirective(variable string, threshold float64, edge string) string {
	return fmt.Sprintf(
		".meas TRAN %s_%s FIND V(%s) WHEN V(%s)=%s %s=last TD=%.3e",
		variable, edge, o.node, o.node, netlist.FormatValue(threshold), edge, o.prof.TriggerTime,
	)
}

// Deactivate removes every directive carrying this node's result naming.
func (o *MeasureObserver) Deactivate() error {
	if err := o.m.Deactivate(); err != nil {
		return err
	}
	pattern := fmt.Sprintf(`\.meas TRAN %s%s.*`, o.node, o.prof.ObserveSuffix)
	return o.net.RemoveDirectives(pattern)
}

// Eject deactivates if needed and leaves the lifecycle. The directive-only
// observer has no components to remove.
func (o *MeasureObserver) Eject() error {
	if o.m.IsActive() {
		if err := o.Deactivate(); err != nil {
			return err
		}
	}
	return o.m.Eject()
}

// classify interprets one simulation result for this node. Priority order:
// a decisive post-trigger low crossing, then a decisive high crossing, then
// the operating-point fallback, then Uncertain.
func (o *MeasureObserver) classify(res *sim.Result) Observation {
	var log *sim.Log
	var op *sim.Trace
	if res != nil {
		log = res.Log
		op = res.Op
	}

	lowFall := log.Measurement(o.lowVar+"_FALL_at", missingMeasurement)
	lowRise := log.Measurement(o.lowVar+"_RISE_at", missingMeasurement)
	highFall := log.Measurement(o.highVar+"_FALL_at", missingMeasurement)
	highRise := log.Measurement(o.highVar+"_RISE_at", missingMeasurement)

	if lowFall > lowRise {
		// Last low-threshold crossing was downward.
		return Observation{Class: Low, Offset: lowFall - o.prof.TriggerTime}
	}
	if highRise > highFall {
		// Last high-threshold crossing was upward.
		return Observation{Class: High, Offset: highRise - o.prof.TriggerTime}
	}

	if op != nil {
		if initial, ok := op.Initial(o.node); ok {
			switch {
			case initial < o.low:
				return Observation{Class: Low, Offset: missingMeasurement}
			case initial > o.high:
				return Observation{Class: High, Offset: missingMeasurement}
			}
		}
		return Observation{Class: Uncertain, Offset: missingMeasurement}
	}
	return Observation{Class: Uncertain, Offset: missingMeasurement}
}

// ObserveExpected classifies the reference run and stores it as the
// expectation. An Uncertain baseline is stored too but reported through
// ErrUncertainBaseline: a test cannot be meaningfully evaluated against an
// indeterminate reference, and only the caller can judge that.
func (o *MeasureObserver) ObserveExpected(res *sim.Result) (Observation, error) {
	obs := o.classify(res)
	o.expectation = &obs
	if obs.Class == Uncertain {
		return obs, fmt.Errorf("probe: node %s: %w", o.node, ErrUncertainBaseline)
	}
	return obs, nil
}

// Observe classifies a run and compares it against the stored expectation.
func (o *MeasureObserver) Observe(res *sim.Result) (Verdict, error) {
	if o.expectation == nil {
		return Verdict{}, fmt.Errorf("probe: node %s: %w", o.node, ErrExpectationUnknown)
	}
	obs := o.classify(res)
	return Verdict{
		Match:  obs.Class == o.expectation.Class,
		Deltas: []float64{obs.Offset - o.expectation.Offset},
	}, nil
}

// Expectation returns the captured expectation, or false before
// ObserveExpected has run.
func (o *MeasureObserver) Expectation() (Observation, bool) {
	if o.expectation == nil {
		return Observation{}, false
	}
	return *o.expectation, true
}

func (o *MeasureObserver) String() string {
	return fmt.Sprintf("measure-observer @ %s (%s)", o.node, o.State())
}
