package probe

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/lifecycle"
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/netlist"
)

// InjectionPoint forces a transient upset onto a node: a pull transistor to
// one rail whose gate is driven by a dedicated source. While merely injected
// the source holds the gate at the keep-off rail; activation switches it to a
// pulse waveform that turns the pull device on for the pulse duration.
type InjectionPoint struct {
	net  *netlist.Netlist
	m    lifecycle.UtilityMachine
	prof Profile

	node   string
	pullUp bool

	fet    string
	source string
}

// NewInjectionPoint builds a perturbation utility for the node. With pullUp
// the node is yanked toward the supply rail, otherwise toward ground.
func NewInjectionPoint(net *netlist.Netlist, node string, pullUp bool, prof Profile) (*InjectionPoint, error) {
	if err := prof.Validate(); err != nil {
		return nil, err
	}
	return &InjectionPoint{
		net:    net,
		prof:   prof,
		node:   node,
		pullUp: pullUp,
	}, nil
}

// Node returns the perturbed node.
func (p *InjectionPoint) Node() string {
	return p.node
}

// State reports the lifecycle state.
func (p *InjectionPoint) State() lifecycle.State {
	return p.m.State()
}

// IsInjected reports whether the pull network sits in the netlist.
func (p *InjectionPoint) IsInjected() bool {
	return p.m.IsInjected()
}

// IsActive reports whether the pulse waveform is armed.
func (p *InjectionPoint) IsActive() bool {
	return p.m.IsActive()
}

// gateNode names the dedicated gate-drive node.
func (p *InjectionPoint) gateNode() string {
	if p.pullUp {
		return p.node + p.prof.PullUpGateSuffix
	}
	return p.node + p.prof.PullDownGateSuffix
}

// offVoltage is the static gate level keeping the pull device off.
func (p *InjectionPoint) offVoltage() float64 {
	if p.pullUp {
		// PMOS: gate at VDD stays off.
		return p.net.VDD()
	}
	// NMOS: gate at VSS stays off.
	return p.net.VSS()
}

// Inject adds the gate source and the pull transistor.
func (p *InjectionPoint) Inject() error {
	if err := p.m.Inject(); err != nil {
		return err
	}

	gate := p.gateNode()
	source, err := p.net.InsertSource(gate, p.net.GroundNode(), netlist.FormatValue(p.offVoltage()))
	if err != nil {
		return err
	}
	p.source = source

	var fet string
	if p.pullUp {
		fet, err = p.net.InsertFET(p.node, gate, p.net.SupplyNode(), p.prof.PMOSModel)
	} else {
		fet, err = p.net.InsertFET(p.node, gate, p.net.GroundNode(), p.prof.NMOSModel)
	}
	if err != nil {
		return err
	}
	p.fet = fet
	return nil
}

// Activate switches the gate source to the pulse waveform driving the pull
// device on for the pulse duration.
func (p *InjectionPoint) Activate() error {
	if err := p.m.Activate(); err != nil {
		return err
	}
	from := netlist.FormatValue(p.offVoltage())
	var to string
	if p.pullUp {
		to = netlist.FormatValue(p.net.VSS())
	} else {
		to = netlist.FormatValue(p.net.VDD())
	}
	return p.net.SetValue(p.source, fmt.Sprintf("PULSE(%s %s %s)", from, to, p.prof.PulseTiming))
}

// Deactivate restores the static keep-off gate level.
func (p *InjectionPoint) Deactivate() error {
	if err := p.m.Deactivate(); err != nil {
		return err
	}
	return p.net.SetValue(p.source, netlist.FormatValue(p.offVoltage()))
}

// Eject deactivates if needed and removes the pull transistor and source.
func (p *InjectionPoint) Eject() error {
	if p.m.IsActive() {
		if err := p.Deactivate(); err != nil {
			return err
		}
	}
	if err := p.m.Eject(); err != nil {
		return err
	}
	if err := p.net.RemoveComponent(p.fet); err != nil {
		return err
	}
	return p.net.RemoveComponent(p.source)
}

func (p *InjectionPoint) String() string {
	direction := "pull-down"
	if p.pullUp {
		direction = "pull-up"
	}
	return fmt.Sprintf("injection-point %s @ %s (%s)", direction, p.node, p.State())
}
