// Package netlist implements the circuit store the fault-injection library
// operates on: components keyed by reference descriptor, free-form simulator
// directives, a reference allocator for inserted elements, and a parser plus
// renderer for a practical SPICE deck subset.
package netlist

import (
	"fmt"
	"strings"
)

// Config fixes the circuit-wide constants shared by every fault and utility
// bound to a handle. The zero value is completed by DefaultConfig semantics
// inside New.
type Config struct {
	GroundNode string  `yaml:"ground_node"`
	SupplyNode string  `yaml:"supply_node"`
	VDD        float64 `yaml:"vdd"`
	VSS        float64 `yaml:"vss"`
}

// DefaultConfig returns the conventional 3.3 V single-supply setup.
func DefaultConfig() Config {
	return Config{
		GroundNode: "0",
		SupplyNode: "VDD",
		VDD:        3.3,
		VSS:        0,
	}
}

// Netlist wraps a Store with the circuit constants and the reference
// allocator. The constants are immutable for the lifetime of the handle.
type Netlist struct {
	store Store
	cfg   Config
	alloc *Allocator
}

// New wraps a store. Zero-valued config fields fall back to DefaultConfig;
// VSS genuinely is zero by default so only the node names and VDD are filled.
func New(store Store, cfg Config) *Netlist {
	def := DefaultConfig()
	if cfg.GroundNode == "" {
		cfg.GroundNode = def.GroundNode
	}
	if cfg.SupplyNode == "" {
		cfg.SupplyNode = def.SupplyNode
	}
	if cfg.VDD == 0 {
		cfg.VDD = def.VDD
	}
	return &Netlist{
		store: store,
		cfg:   cfg,
		alloc: NewAllocator(store),
	}
}

// Store exposes the underlying component store.
func (n *Netlist) Store() Store {
	return n.store
}

// GroundNode returns the ground node identifier.
func (n *Netlist) GroundNode() string { return n.cfg.GroundNode }

// SupplyNode returns the supply node identifier.
func (n *Netlist) SupplyNode() string { return n.cfg.SupplyNode }

// VDD returns the supply voltage.
func (n *Netlist) VDD() float64 { return n.cfg.VDD }

// VSS returns the reference voltage.
func (n *Netlist) VSS() float64 { return n.cfg.VSS }

// NextRef allocates a fresh reference for the given component kind.
func (n *Netlist) NextRef(kind Kind) (string, error) {
	return n.alloc.Next(kind)
}

// InsertFET adds a four-terminal FET with bulk tied to source and returns the
// assigned reference.
func (n *Netlist) InsertFET(drain, gate, source, model string) (string, error) {
	ref, err := n.alloc.Next(KindFET)
	if err != nil {
		return "", err
	}
	c := Component{
		Reference: ref,
		Ports:     []string{drain, gate, source, source},
		Value:     model,
	}
	if err := n.store.Insert(c); err != nil {
		return "", err
	}
	return ref, nil
}

// InsertResistor adds a resistor between two nodes and returns the assigned
// reference.
func (n *Netlist) InsertResistor(a, b string, ohms float64) (string, error) {
	ref, err := n.alloc.Next(KindResistor)
	if err != nil {
		return "", err
	}
	c := Component{
		Reference: ref,
		Ports:     []string{a, b},
		Value:     FormatValue(ohms),
	}
	if err := n.store.Insert(c); err != nil {
		return "", err
	}
	return ref, nil
}

// InsertSource adds a voltage source and returns the assigned reference. The
// value may be a plain voltage or a waveform spec such as PULSE(...).
func (n *Netlist) InsertSource(plus, minus, value string) (string, error) {
	ref, err := n.alloc.Next(KindVSource)
	if err != nil {
		return "", err
	}
	c := Component{
		Reference: ref,
		Ports:     []string{plus, minus},
		Value:     value,
	}
	if err := n.store.Insert(c); err != nil {
		return "", err
	}
	return ref, nil
}

// UpdateFETPorts rewires a FET's four terminals in drain, gate, source, bulk
// order.
func (n *Netlist) UpdateFETPorts(ref, drain, gate, source, bulk string) error {
	if KindOf(ref) != KindFET {
		return fmt.Errorf("netlist: update fet ports: %s is not a FET reference", ref)
	}
	return n.store.SetPorts(ref, []string{drain, gate, source, bulk})
}

// RemoveComponent deletes the component registered under ref.
func (n *Netlist) RemoveComponent(ref string) error {
	return n.store.Remove(ref)
}

// SetValue replaces the value field of ref.
func (n *Netlist) SetValue(ref, value string) error {
	return n.store.SetValue(ref, value)
}

// Ports returns a copy of the ordered port list of ref.
func (n *Netlist) Ports(ref string) ([]string, error) {
	c, ok := n.store.Lookup(ref)
	if !ok {
		return nil, fmt.Errorf("netlist: ports %s: %w", ref, ErrNotFound)
	}
	return c.Ports, nil
}

// Value returns the value field of ref.
func (n *Netlist) Value(ref string) (string, error) {
	c, ok := n.store.Lookup(ref)
	if !ok {
		return "", fmt.Errorf("netlist: value %s: %w", ref, ErrNotFound)
	}
	return c.Value, nil
}

// AddDirectives appends directive lines to the deck.
func (n *Netlist) AddDirectives(lines ...string) {
	n.store.AddDirectives(lines...)
}

// RemoveDirectives deletes every directive matching the regex pattern.
func (n *Netlist) RemoveDirectives(pattern string) error {
	return n.store.RemoveDirectives(pattern)
}

// Render emits the current deck as SPICE text.
func (n *Netlist) Render() string {
	return Render(n.store)
}

// Summary returns a short per-kind component count, useful for CLI output.
func (n *Netlist) Summary() string {
	counts := make(map[Kind]int)
	for _, ref := range n.store.References() {
		counts[KindOf(ref)]++
	}
	var parts []string
	for _, k := range []Kind{KindFET, KindResistor, KindCapacitor, KindInductor, KindVSource, KindISource, KindDiode, KindBJT, KindSubcircuit} {
		if counts[k] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[k], k))
		}
	}
	if len(parts) == 0 {
		return "empty netlist"
	}
	return strings.Join(parts, ", ")
}
