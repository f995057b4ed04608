package netlist

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func inverterStore(t *testing.T) *MemStore {
	t.Helper()
	store := NewMemStore("cmos inverter")
	comps := []Component{
		{Reference: "M1", Ports: []string{"out", "in", "VDD", "VDD"}, Value: "BSS84"},
		{Reference: "M2", Ports: []string{"out", "in", "0", "0"}, Value: "BSS123"},
		{Reference: "R1", Ports: []string{"in", "0"}, Value: "10k"},
		{Reference: "C1", Ports: []string{"out", "0"}, Value: "1p"},
		{Reference: "V1", Ports: []string{"VDD", "0"}, Value: "3.3"},
	}
	for _, c := range comps {
		if err := store.Insert(c); err != nil {
			t.Fatalf("insert %s: %v", c.Reference, err)
		}
	}
	return store
}

func TestHandleConstants(t *testing.T) {
	net := New(inverterStore(t), Config{})

	if net.GroundNode() != "0" || net.SupplyNode() != "VDD" {
		t.Fatalf("default nodes = %q/%q", net.GroundNode(), net.SupplyNode())
	}
	if net.VDD() != 3.3 || net.VSS() != 0 {
		t.Fatalf("default rails = %v/%v", net.VDD(), net.VSS())
	}

	net = New(NewMemStore(""), Config{GroundNode: "GND", SupplyNode: "VCC", VDD: 5, VSS: 0.2})
	if net.GroundNode() != "GND" || net.SupplyNode() != "VCC" || net.VDD() != 5 || net.VSS() != 0.2 {
		t.Fatalf("explicit config not honored")
	}
}

func TestInsertHelpers(t *testing.T) {
	net := New(inverterStore(t), Config{})

	fet, err := net.InsertFET("d", "g", "s", "BSS123")
	if err != nil {
		t.Fatalf("InsertFET: %v", err)
	}
	if fet != "M3" {
		t.Fatalf("fet ref = %s, want M3", fet)
	}
	ports, err := net.Ports(fet)
	if err != nil {
		t.Fatalf("Ports: %v", err)
	}
	if diff := cmp.Diff([]string{"d", "g", "s", "s"}, ports); diff != "" {
		t.Fatalf("fet ports mismatch (-want +got):\n%s", diff)
	}

	res, err := net.InsertResistor("a", "b", 1e11)
	if err != nil {
		t.Fatalf("InsertResistor: %v", err)
	}
	if res != "R2" {
		t.Fatalf("resistor ref = %s, want R2", res)
	}
	value, err := net.Value(res)
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if value != "1e+11" {
		t.Fatalf("resistor value = %q, want 1e+11", value)
	}

	src, err := net.InsertSource("p", "0", "PULSE(0 3.3 10n 10n 10n 1u)")
	if err != nil {
		t.Fatalf("InsertSource: %v", err)
	}
	if src != "V2" {
		t.Fatalf("source ref = %s, want V2", src)
	}
}

func TestUpdateFETPorts(t *testing.T) {
	net := New(inverterStore(t), Config{})

	if err := net.UpdateFETPorts("M1", "x", "in", "VDD", "VDD"); err != nil {
		t.Fatalf("UpdateFETPorts: %v", err)
	}
	ports, _ := net.Ports("M1")
	if ports[0] != "x" {
		t.Fatalf("drain = %s, want x", ports[0])
	}

	if err := net.UpdateFETPorts("R1", "a", "b", "c", "d"); err == nil {
		t.Fatalf("UpdateFETPorts accepted a resistor reference")
	}
}

func TestStoreErrors(t *testing.T) {
	store := inverterStore(t)
	net := New(store, Config{})

	if err := store.Insert(Component{Reference: "M1"}); !errors.Is(err, ErrDuplicateRef) {
		t.Fatalf("duplicate insert = %v, want ErrDuplicateRef", err)
	}
	if err := net.RemoveComponent("M9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("remove missing = %v, want ErrNotFound", err)
	}
	if _, err := net.Ports("Q7"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ports missing = %v, want ErrNotFound", err)
	}
}

func TestDirectives(t *testing.T) {
	store := NewMemStore("t")
	store.AddDirectives(
		".tran 1n 100n",
		".meas TRAN out_OBSERVE_LOW_FALL FIND V(out) WHEN V(out)=0.1 FALL=last TD=1.000e-08",
		".meas TRAN out_OBSERVE_HIGH_RISE FIND V(out) WHEN V(out)=3.2 RISE=last TD=1.000e-08",
	)

	if err := store.RemoveDirectives(`\.meas TRAN out_OBSERVE.*`); err != nil {
		t.Fatalf("RemoveDirectives: %v", err)
	}
	if diff := cmp.Diff([]string{".tran 1n 100n"}, store.Directives()); diff != "" {
		t.Fatalf("directives mismatch (-want +got):\n%s", diff)
	}

	if err := store.RemoveDirectives(`([`); err == nil {
		t.Fatalf("bad pattern accepted")
	}
}

func TestRenderOrder(t *testing.T) {
	store := inverterStore(t)
	store.AddDirectives(".tran 1n 100n")
	text := Render(store)

	want := []string{
		"cmos inverter",
		"M1 out in VDD VDD BSS84",
		"M2 out in 0 0 BSS123",
		"R1 in 0 10k",
		"C1 out 0 1p",
		"V1 VDD 0 3.3",
		".tran 1n 100n",
		".end",
	}
	got := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("render mismatch (-want +got):\n%s", diff)
	}
}
