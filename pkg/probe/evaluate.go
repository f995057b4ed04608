package probe

import (
	"context"
	"errors"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/netlist"
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/sim"
)

// CaptureBaseline runs the current netlist once and stores the resulting
// classification of every observer as its expectation. Uncertain baselines
// are collected into a single joined ErrUncertainBaseline warning; all
// expectations are stored regardless.
func CaptureBaseline(ctx context.Context, runner sim.Runner, net *netlist.Netlist, name string, observers ...Observer) error {
	res, err := runner.Run(ctx, net, name)
	if err != nil {
		return err
	}
	var warnings []error
	for _, obs := range observers {
		if _, err := obs.ObserveExpected(res); err != nil {
			if !errors.Is(err, ErrUncertainBaseline) {
				return err
			}
			warnings = append(warnings, err)
		}
	}
	return errors.Join(warnings...)
}

// Evaluate runs the current netlist once and compares what every observer
// sees against its captured expectation. Verdicts are returned in observer
// order.
func Evaluate(ctx context.Context, runner sim.Runner, net *netlist.Netlist, name string, observers ...Observer) ([]Verdict, error) {
	res, err := runner.Run(ctx, net, name)
	if err != nil {
		return nil, err
	}
	verdicts := make([]Verdict, 0, len(observers))
	for _, obs := range observers {
		v, err := obs.Observe(res)
		if err != nil {
			return nil, err
		}
		verdicts = append(verdicts, v)
	}
	return verdicts, nil
}
