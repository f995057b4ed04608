package fault

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/netlist"
)

// FET port order on the card: drain, gate, source, bulk.
const (
	portDrain  = 0
	portGate   = 1
	portSource = 2
	portBulk   = 3
)

const fetPortCount = 4

// DrainOpen cuts the drain connection: the transistor is rewired to a
// synthetic drain node which is tied back to the original drain through a
// near-open resistor.
type DrainOpen struct {
	base
	faultFreePorts []string
	openResistor   string
}

// NewDrainOpen builds a drain-open fault for the target FET.
func NewDrainOpen(net *netlist.Netlist, ref string) (*DrainOpen, error) {
	b, ports, err := newBase(net, ref, "drain-open", netlist.KindFET, fetPortCount)
	if err != nil {
		return nil, err
	}
	return &DrainOpen{base: b, faultFreePorts: ports}, nil
}

// Inject rewires the drain and inserts the open resistor.
func (f *DrainOpen) Inject() error {
	if err := f.m.Inject(); err != nil {
		return err
	}
	drain := openNode(f.faultFreePorts[portDrain], f.ref)
	if err := f.net.UpdateFETPorts(f.ref, drain, f.faultFreePorts[portGate], f.faultFreePorts[portSource], f.faultFreePorts[portBulk]); err != nil {
		return err
	}
	ref, err := f.net.InsertResistor(drain, f.faultFreePorts[portDrain], OpenResistance)
	if err != nil {
		return err
	}
	f.openResistor = ref
	return nil
}

// Eject restores the fault-free ports and removes the open resistor.
func (f *DrainOpen) Eject() error {
	if err := f.m.Eject(); err != nil {
		return err
	}
	p := f.faultFreePorts
	if err := f.net.UpdateFETPorts(f.ref, p[portDrain], p[portGate], p[portSource], p[portBulk]); err != nil {
		return err
	}
	return f.net.RemoveComponent(f.openResistor)
}

func (f *DrainOpen) String() string {
	return fmt.Sprintf("drain-open @ %s (%s)", f.ref, f.State())
}

// SourceOpen cuts the source connection. Source and bulk are tied in this
// model, so both ports move to the synthetic node together.
type SourceOpen struct {
	base
	faultFreePorts []string
	openResistor   string
}

// NewSourceOpen builds a source-open fault for the target FET.
func NewSourceOpen(net *netlist.Netlist, ref string) (*SourceOpen, error) {
	b, ports, err := newBase(net, ref, "source-open", netlist.KindFET, fetPortCount)
	if err != nil {
		return nil, err
	}
	return &SourceOpen{base: b, faultFreePorts: ports}, nil
}

// Inject rewires source and bulk and inserts the open resistor.
func (f *SourceOpen) Inject() error {
	if err := f.m.Inject(); err != nil {
		return err
	}
	source := openNode(f.faultFreePorts[portSource], f.ref)
	if err := f.net.UpdateFETPorts(f.ref, f.faultFreePorts[portDrain], f.faultFreePorts[portGate], source, source); err != nil {
		return err
	}
	ref, err := f.net.InsertResistor(source, f.faultFreePorts[portSource], OpenResistance)
	if err != nil {
		return err
	}
	f.openResistor = ref
	return nil
}

// Eject restores the fault-free ports and removes the open resistor.
func (f *SourceOpen) Eject() error {
	if err := f.m.Eject(); err != nil {
		return err
	}
	p := f.faultFreePorts
	if err := f.net.UpdateFETPorts(f.ref, p[portDrain], p[portGate], p[portSource], p[portBulk]); err != nil {
		return err
	}
	return f.net.RemoveComponent(f.openResistor)
}

func (f *SourceOpen) String() string {
	return fmt.Sprintf("source-open @ %s (%s)", f.ref, f.State())
}

// GateOpen floats the gate: the gate moves to a synthetic node that reaches a
// coupling node through the gate isolation resistance; two further resistors
// couple that node to the original drain and source, modeling the parasitic
// paths a physically floating gate still sees.
type GateOpen struct {
	base
	faultFreePorts         []string
	openResistor           string
	drainCouplingResistor  string
	sourceCouplingResistor string
}

// NewGateOpen builds a gate-open fault for the target FET.
func NewGateOpen(net *netlist.Netlist, ref string) (*GateOpen, error) {
	b, ports, err := newBase(net, ref, "gate-open", netlist.KindFET, fetPortCount)
	if err != nil {
		return nil, err
	}
	return &GateOpen{base: b, faultFreePorts: ports}, nil
}

// Inject rewires the gate and inserts the three resistors.
func (f *GateOpen) Inject() error {
	if err := f.m.Inject(); err != nil {
		return err
	}
	gate := openNode(f.faultFreePorts[portGate], f.ref)
	couple := fmt.Sprintf("%s_%s", gate, coupleNodeSuffix)
	if err := f.net.UpdateFETPorts(f.ref, f.faultFreePorts[portDrain], gate, f.faultFreePorts[portSource], f.faultFreePorts[portBulk]); err != nil {
		return err
	}
	ref, err := f.net.InsertResistor(gate, couple, GateResistance)
	if err != nil {
		return err
	}
	f.openResistor = ref
	ref, err = f.net.InsertResistor(f.faultFreePorts[portDrain], couple, CouplingResistance)
	if err != nil {
		return err
	}
	f.drainCouplingResistor = ref
	ref, err = f.net.InsertResistor(f.faultFreePorts[portSource], couple, CouplingResistance)
	if err != nil {
		return err
	}
	f.sourceCouplingResistor = ref
	return nil
}

// Eject restores the gate and removes all three resistors.
func (f *GateOpen) Eject() error {
	if err := f.m.Eject(); err != nil {
		return err
	}
	p := f.faultFreePorts
	if err := f.net.UpdateFETPorts(f.ref, p[portDrain], p[portGate], p[portSource], p[portBulk]); err != nil {
		return err
	}
	for _, r := range []string{f.openResistor, f.drainCouplingResistor, f.sourceCouplingResistor} {
		if err := f.net.RemoveComponent(r); err != nil {
			return err
		}
	}
	return nil
}

func (f *GateOpen) String() string {
	return fmt.Sprintf("gate-open @ %s (%s)", f.ref, f.State())
}

// terminalShort is the shared shape of the three FET terminal-short faults:
// a small resistor straight between two of the original terminals, no
// renaming.
type terminalShort struct {
	base
	faultFreePorts []string
	portA, portB   int
	shortResistor  string
}

// Inject bridges the two terminals with the short resistor.
func (f *terminalShort) Inject() error {
	if err := f.m.Inject(); err != nil {
		return err
	}
	ref, err := f.net.InsertResistor(f.faultFreePorts[f.portA], f.faultFreePorts[f.portB], ShortResistance)
	if err != nil {
		return err
	}
	f.shortResistor = ref
	return nil
}

// Eject removes the short resistor; the transistor was never rewired.
func (f *terminalShort) Eject() error {
	if err := f.m.Eject(); err != nil {
		return err
	}
	return f.net.RemoveComponent(f.shortResistor)
}

func (f *terminalShort) String() string {
	return fmt.Sprintf("%s @ %s (%s)", f.kind, f.ref, f.State())
}

func newTerminalShort(net *netlist.Netlist, ref, kindName string, portA, portB int) (*terminalShort, error) {
	b, ports, err := newBase(net, ref, kindName, netlist.KindFET, fetPortCount)
	if err != nil {
		return nil, err
	}
	return &terminalShort{
		base:           b,
		faultFreePorts: ports,
		portA:          portA,
		portB:          portB,
	}, nil
}

// GateDrainShort bridges gate and drain with a metallic short.
type GateDrainShort struct {
	*terminalShort
}

// NewGateDrainShort builds a gate-drain short for the target FET.
func NewGateDrainShort(net *netlist.Netlist, ref string) (*GateDrainShort, error) {
	ts, err := newTerminalShort(net, ref, "gate-drain-short", portGate, portDrain)
	if err != nil {
		return nil, err
	}
	return &GateDrainShort{terminalShort: ts}, nil
}

// GateSourceShort bridges gate and source with a metallic short.
type GateSourceShort struct {
	*terminalShort
}

// NewGateSourceShort builds a gate-source short for the target FET.
func NewGateSourceShort(net *netlist.Netlist, ref string) (*GateSourceShort, error) {
	ts, err := newTerminalShort(net, ref, "gate-source-short", portGate, portSource)
	if err != nil {
		return nil, err
	}
	return &GateSourceShort{terminalShort: ts}, nil
}

// DrainSourceShort bridges drain and source with a metallic short.
type DrainSourceShort struct {
	*terminalShort
}

// NewDrainSourceShort builds a drain-source short for the target FET.
func NewDrainSourceShort(net *netlist.Netlist, ref string) (*DrainSourceShort, error) {
	ts, err := newTerminalShort(net, ref, "drain-source-short", portDrain, portSource)
	if err != nil {
		return nil, err
	}
	return &DrainSourceShort{terminalShort: ts}, nil
}
