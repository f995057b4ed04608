package probe

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/netlist"
)

// InverterObserver turns an arbitrary analog node into a clean logic probe:
// it deploys a minimal CMOS inverter gated by the observed node and measures
// the inverter's output with the directive machinery of MeasureObserver.
// Thresholds derive from the netlist rails, pulled inward by the profile's
// logic margin.
type InverterObserver struct {
	MeasureObserver

	observed string
	pmos     string
	nmos     string
}

// NewInverterObserver builds an inverter probe on the observed node.
func NewInverterObserver(net *netlist.Netlist, node string, prof Profile) (*InverterObserver, error) {
	if err := prof.Validate(); err != nil {
		return nil, err
	}
	inner, err := NewMeasureObserver(
		net,
		node+prof.InverterSuffix,
		net.VSS()+prof.LogicMargin,
		net.VDD()-prof.LogicMargin,
		prof,
	)
	if err != nil {
		return nil, err
	}
	return &InverterObserver{
		MeasureObserver: *inner,
		observed:        node,
	}, nil
}

// ObservedNode returns the circuit node the inverter is gated by.
func (o *InverterObserver) ObservedNode() string {
	return o.observed
}

// Inject adds the PMOS pull-up and NMOS pull-down whose shared drain is the
// measured node.
func (o *InverterObserver) Inject() error {
	if err := o.m.Inject(); err != nil {
		return err
	}
	out := o.observed + o.prof.InverterSuffix
	pmos, err := o.net.InsertFET(out, o.observed, o.net.SupplyNode(), o.prof.PMOSModel)
	if err != nil {
		return err
	}
	o.pmos = pmos
	nmos, err := o.net.InsertFET(out, o.observed, o.net.GroundNode(), o.prof.NMOSModel)
	if err != nil {
		return err
	}
	o.nmos = nmos
	return nil
}

// Eject deactivates if needed and removes both transistors.
func (o *InverterObserver) Eject() error {
	if o.m.IsActive() {
		if err := o.Deactivate(); err != nil {
			return err
		}
	}
	if err := o.m.Eject(); err != nil {
		return err
	}
	if err := o.net.RemoveComponent(o.pmos); err != nil {
		return err
	}
	return o.net.RemoveComponent(o.nmos)
}

func (o *InverterObserver) String() string {
	return fmt.Sprintf("inverter-observer @ %s (%s)", o.observed, o.State())
}
