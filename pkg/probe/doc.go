// Package probe provides reversible test utilities for SPICE netlists:
// observers that interpret a node's transient behavior as three-valued logic,
// and injection points that force transient upsets onto a node.
//
// Utilities follow a three-stage lifecycle. Inject adds the utility's static
// circuitry to the netlist, Activate arms its temporally bound effect
// (measurement directives or a pulse waveform), Deactivate disarms it, and
// Eject restores the netlist to its pre-injection topology.
//
// # Observers
//
// MeasureObserver classifies a node through threshold-crossing measurement
// directives alone; InverterObserver additionally buffers the node through a
// CMOS inverter so the measurement sees a restored logic level. Both capture
// an expectation from a reference run (ObserveExpected) and compare later
// runs against it (Observe), yielding a Verdict with the classification
// match and timing offsets.
//
// # Injection points
//
// InjectionPoint attaches a pull transistor to one rail, gated by a
// dedicated source. Activation switches the gate drive to a pulse waveform
// that turns the device on for the pulse duration, perturbing the node
// toward the chosen rail.
//
// # Usage
//
//	net := netlist.New(store, netlist.DefaultConfig())
//	prof := probe.DefaultProfile()
//
//	obs, _ := probe.NewInverterObserver(net, "out", prof)
//	_ = obs.Inject()
//	_ = obs.Activate()
//
//	_ = probe.CaptureBaseline(ctx, runner, net, "baseline", obs)
//
//	// ... inject a fault ...
//
//	verdicts, _ := probe.Evaluate(ctx, runner, net, "faulty", obs)
//
// Numeric conventions (models, thresholds, node-name postfixes, pulse
// timing) live in Profile; DefaultProfile matches common small-signal MOSFET
// test fixtures.
package probe
