package fault

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/netlist"
)

// valueOverride is the shared shape of the resistor faults: no topology
// change, the target's value is overwritten on inject and the snapshot
// restored on eject.
type valueOverride struct {
	base
	faultFreeValue string
	faultValue     float64
}

func newValueOverride(net *netlist.Netlist, ref, kindName string, faultValue float64) (*valueOverride, error) {
	if netlist.KindOf(ref) != netlist.KindResistor {
		return nil, fmt.Errorf("fault: %s on %s: %w", kindName, ref, ErrUnsupportedComponent)
	}
	value, err := net.Value(ref)
	if err != nil {
		return nil, fmt.Errorf("fault: %s on %s: %w", kindName, ref, err)
	}
	return &valueOverride{
		base:           base{net: net, ref: ref, kind: kindName},
		faultFreeValue: value,
		faultValue:     faultValue,
	}, nil
}

// Inject overwrites the target's value.
func (f *valueOverride) Inject() error {
	if err := f.m.Inject(); err != nil {
		return err
	}
	return f.net.SetValue(f.ref, netlist.FormatValue(f.faultValue))
}

// Eject restores the value captured at construction.
func (f *valueOverride) Eject() error {
	if err := f.m.Eject(); err != nil {
		return err
	}
	return f.net.SetValue(f.ref, f.faultFreeValue)
}

func (f *valueOverride) String() string {
	return fmt.Sprintf("%s @ %s (%s)", f.kind, f.ref, f.State())
}

// ResistorOpen overrides the target resistance with a near-open value.
type ResistorOpen struct {
	*valueOverride
}

// NewResistorOpen builds a resistor-open fault for the target resistor.
func NewResistorOpen(net *netlist.Netlist, ref string) (*ResistorOpen, error) {
	vo, err := newValueOverride(net, ref, "resistor-open", OpenResistance)
	if err != nil {
		return nil, err
	}
	return &ResistorOpen{valueOverride: vo}, nil
}

// ResistorShort overrides the target resistance with a metallic short.
type ResistorShort struct {
	*valueOverride
}

// NewResistorShort builds a resistor-short fault for the target resistor.
func NewResistorShort(net *netlist.Netlist, ref string) (*ResistorShort, error) {
	vo, err := newValueOverride(net, ref, "resistor-short", ShortResistance)
	if err != nil {
		return nil, err
	}
	return &ResistorShort{valueOverride: vo}, nil
}

// CapacitorShort bridges the capacitor's two terminals with a short resistor,
// leaving the capacitor itself in place.
type CapacitorShort struct {
	base
	faultFreePorts []string
	shortResistor  string
}

// NewCapacitorShort builds a capacitor-short fault for the target capacitor.
func NewCapacitorShort(net *netlist.Netlist, ref string) (*CapacitorShort, error) {
	b, ports, err := newBase(net, ref, "capacitor-short", netlist.KindCapacitor, 2)
	if err != nil {
		return nil, err
	}
	return &CapacitorShort{base: b, faultFreePorts: ports}, nil
}

// Inject bridges the terminals with the short resistor.
func (f *CapacitorShort) Inject() error {
	if err := f.m.Inject(); err != nil {
		return err
	}
	ref, err := f.net.InsertResistor(f.faultFreePorts[0], f.faultFreePorts[1], ShortResistance)
	if err != nil {
		return err
	}
	f.shortResistor = ref
	return nil
}

// Eject removes the short resistor.
func (f *CapacitorShort) Eject() error {
	if err := f.m.Eject(); err != nil {
		return err
	}
	return f.net.RemoveComponent(f.shortResistor)
}

func (f *CapacitorShort) String() string {
	return fmt.Sprintf("capacitor-short @ %s (%s)", f.ref, f.State())
}
