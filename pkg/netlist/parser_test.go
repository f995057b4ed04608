package netlist

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleDeck = `cmos inverter testbench
* pull-up / pull-down pair
M1 out in VDD VDD BSS84
M2 out in 0 0 BSS123
R1 in 0 10k
C1 out 0 1p
V1 VDD 0 3.3
V2 in 0 PULSE(0 3.3 10n
+ 10n 10n 1u)
.tran 1n 100n
.end
`

func TestParseDeck(t *testing.T) {
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	store, err := p.ParseString(sampleDeck)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	if store.Title() != "cmos inverter testbench" {
		t.Fatalf("title = %q", store.Title())
	}

	wantRefs := []string{"M1", "M2", "R1", "C1", "V1", "V2"}
	if diff := cmp.Diff(wantRefs, store.References()); diff != "" {
		t.Fatalf("references mismatch (-want +got):\n%s", diff)
	}

	m1, ok := store.Lookup("M1")
	if !ok {
		t.Fatalf("M1 missing")
	}
	if diff := cmp.Diff([]string{"out", "in", "VDD", "VDD"}, m1.Ports); diff != "" {
		t.Fatalf("M1 ports mismatch (-want +got):\n%s", diff)
	}
	if m1.Value != "BSS84" {
		t.Fatalf("M1 value = %q", m1.Value)
	}

	// Continuation lines fold into the source's waveform spec.
	v2, _ := store.Lookup("V2")
	if v2.Value != "PULSE(0 3.3 10n 10n 10n 1u)" {
		t.Fatalf("V2 value = %q", v2.Value)
	}

	if diff := cmp.Diff([]string{".tran 1n 100n"}, store.Directives()); diff != "" {
		t.Fatalf("directives mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRenderRoundTrip(t *testing.T) {
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	first, err := p.ParseString(sampleDeck)
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}
	second, err := p.ParseString(Render(first))
	if err != nil {
		t.Fatalf("re-parse rendered deck: %v", err)
	}
	if Render(first) != Render(second) {
		t.Fatalf("render not stable:\n%s\nvs\n%s", Render(first), Render(second))
	}
}

func TestParseErrors(t *testing.T) {
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}

	cases := []struct {
		name string
		deck string
	}{
		{"unknown prefix", "t\nZ1 a b 1\n.end\n"},
		{"fet too short", "t\nM1 d g s BSS123\n.end\n"},
		{"resistor no value", "t\nR1 a b\n.end\n"},
	}
	for _, tc := range cases {
		if _, err := p.ParseString(tc.deck); err == nil {
			t.Fatalf("%s: parse succeeded, want error", tc.name)
		}
	}
}

func TestParseStopsAtEnd(t *testing.T) {
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	store, err := p.ParseString("t\nR1 a b 1\n.end\nR2 c d 2\n")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if store.Has("R2") {
		t.Fatalf("card after .end was not ignored")
	}
}

func TestParseSubcircuitCard(t *testing.T) {
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	store, err := p.ParseString("t\nX1 in out VDD 0 opamp\n.end\n")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	x1, _ := store.Lookup("X1")
	if diff := cmp.Diff([]string{"in", "out", "VDD", "0"}, x1.Ports); diff != "" {
		t.Fatalf("X1 ports mismatch (-want +got):\n%s", diff)
	}
	if x1.Value != "opamp" {
		t.Fatalf("X1 value = %q", x1.Value)
	}
}
