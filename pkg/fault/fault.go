// Package fault implements the topology-transform library: reversible netlist
// mutations that emulate physical defects at the transistor level. Every
// fault is additive — a very large or very small resistor, or a value
// override — so the circuit keeps electrical continuity and the simulator
// keeps converging even under an "open" defect.
//
// A fault is constructed against one target component, capturing its
// fault-free ports (or value) once. That snapshot is the only source used to
// restore the netlist on eject; the store is never re-read for it.
package fault

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/lifecycle"
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/netlist"
)

// Perturbation magnitudes shared by all variants.
const (
	// OpenResistance emulates a broken connection while keeping a DC path.
	OpenResistance = 1e11
	// ShortResistance emulates a metallic short between two terminals.
	ShortResistance = 1
	// GateResistance models the isolation of a floating gate.
	GateResistance = 1e12
	// CouplingResistance models parasitic coupling from a floating gate to
	// its neighboring terminals.
	CouplingResistance = 5e11
)

// openNodeSuffix names the synthetic node created when a terminal is cut.
const openNodeSuffix = "open"

// coupleNodeSuffix names the floating-gate coupling node.
const coupleNodeSuffix = "couple"

// ErrUnsupportedComponent is returned when a fault kind is constructed
// against a component whose reference prefix it does not apply to.
var ErrUnsupportedComponent = errors.New("fault: component not supported")

// Fault is a reversible defect bound to one target component.
type Fault interface {
	// Inject applies the defect to the netlist.
	Inject() error
	// Eject restores the netlist from the fault-free snapshot.
	Eject() error
	// Ref returns the target component reference.
	Ref() string
	// Kind names the defect model, e.g. "drain-open".
	Kind() string
	// State reports the lifecycle state.
	State() lifecycle.State
	// IsInjected reports whether the defect currently sits in the netlist.
	IsInjected() bool

	fmt.Stringer
}

// base carries what every fault variant shares: the owning netlist handle,
// the target reference, and the lifecycle guard.
type base struct {
	net  *netlist.Netlist
	ref  string
	kind string
	m    lifecycle.Machine
}

func (b *base) Ref() string {
	return b.ref
}

func (b *base) Kind() string {
	return b.kind
}

func (b *base) State() lifecycle.State {
	return b.m.State()
}

func (b *base) IsInjected() bool {
	return b.m.IsInjected()
}

// newBase checks applicability and snapshots the target's ports. wantPorts
// guards against malformed components (a FET card with three nodes).
func newBase(net *netlist.Netlist, ref, kindName string, want netlist.Kind, wantPorts int) (base, []string, error) {
	if netlist.KindOf(ref) != want {
		return base{}, nil, fmt.Errorf("fault: %s on %s: %w", kindName, ref, ErrUnsupportedComponent)
	}
	ports, err := net.Ports(ref)
	if err != nil {
		return base{}, nil, fmt.Errorf("fault: %s on %s: %w", kindName, ref, err)
	}
	if wantPorts > 0 && len(ports) != wantPorts {
		return base{}, nil, fmt.Errorf("fault: %s on %s: got %d ports, want %d", kindName, ref, len(ports), wantPorts)
	}
	return base{net: net, ref: ref, kind: kindName}, ports, nil
}

// openNode builds the synthetic node name for a cut terminal.
func openNode(node, ref string) string {
	return fmt.Sprintf("%s_%s_%s", node, ref, openNodeSuffix)
}

// ForFET returns all six FET defect models for the target transistor.
func ForFET(net *netlist.Netlist, ref string) ([]Fault, error) {
	var out []Fault
	drainOpen, err := NewDrainOpen(net, ref)
	if err != nil {
		return nil, err
	}
	sourceOpen, err := NewSourceOpen(net, ref)
	if err != nil {
		return nil, err
	}
	gateOpen, err := NewGateOpen(net, ref)
	if err != nil {
		return nil, err
	}
	gateDrain, err := NewGateDrainShort(net, ref)
	if err != nil {
		return nil, err
	}
	gateSource, err := NewGateSourceShort(net, ref)
	if err != nil {
		return nil, err
	}
	drainSource, err := NewDrainSourceShort(net, ref)
	if err != nil {
		return nil, err
	}
	out = append(out, drainOpen, sourceOpen, gateOpen, gateDrain, gateSource, drainSource)
	return out, nil
}

// ForResistor returns the open and short defect models for the target
// resistor.
func ForResistor(net *netlist.Netlist, ref string) ([]Fault, error) {
	open, err := NewResistorOpen(net, ref)
	if err != nil {
		return nil, err
	}
	short, err := NewResistorShort(net, ref)
	if err != nil {
		return nil, err
	}
	return []Fault{open, short}, nil
}

// ForCapacitor returns the defect models for the target capacitor.
func ForCapacitor(net *netlist.Netlist, ref string) ([]Fault, error) {
	short, err := NewCapacitorShort(net, ref)
	if err != nil {
		return nil, err
	}
	return []Fault{short}, nil
}

// ForComponent dispatches to the matching factory by reference prefix.
// Components without defect models yield an ErrUnsupportedComponent error.
func ForComponent(net *netlist.Netlist, ref string) ([]Fault, error) {
	switch netlist.KindOf(ref) {
	case netlist.KindFET:
		return ForFET(net, ref)
	case netlist.KindResistor:
		return ForResistor(net, ref)
	case netlist.KindCapacitor:
		return ForCapacitor(net, ref)
	default:
		return nil, fmt.Errorf("fault: %s: %w", ref, ErrUnsupportedComponent)
	}
}
