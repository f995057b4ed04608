package netlist

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind categorizes a component by the letter prefix of its reference, the
// SPICE convention for element types.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindFET
	KindResistor
	KindCapacitor
	KindInductor
	KindVSource
	KindISource
	KindDiode
	KindBJT
	KindSubcircuit
)

var kindNames = map[Kind]string{
	KindUnknown:    "unknown",
	KindFET:        "fet",
	KindResistor:   "resistor",
	KindCapacitor:  "capacitor",
	KindInductor:   "inductor",
	KindVSource:    "voltage source",
	KindISource:    "current source",
	KindDiode:      "diode",
	KindBJT:        "bjt",
	KindSubcircuit: "subcircuit",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Prefix returns the reference letter used when allocating components of this
// kind. Only kinds the library inserts itself have one.
func (k Kind) Prefix() string {
	switch k {
	case KindFET:
		return "M"
	case KindVSource:
		return "V"
	case KindResistor:
		return "R"
	case KindCapacitor:
		return "C"
	default:
		return ""
	}
}

// KindOf derives the component kind from a reference descriptor.
func KindOf(ref string) Kind {
	if ref == "" {
		return KindUnknown
	}
	switch ref[0] {
	case 'M', 'm':
		return KindFET
	case 'R', 'r':
		return KindResistor
	case 'C', 'c':
		return KindCapacitor
	case 'L', 'l':
		return KindInductor
	case 'V', 'v':
		return KindVSource
	case 'I', 'i':
		return KindISource
	case 'D', 'd':
		return KindDiode
	case 'Q', 'q':
		return KindBJT
	case 'X', 'x':
		return KindSubcircuit
	default:
		return KindUnknown
	}
}

// Component is a single netlist element: a unique reference, the ordered node
// names its terminals attach to, and a value field holding whatever trails
// the nodes on the card (a resistance, a model name, a source waveform).
type Component struct {
	Reference string
	Ports     []string
	Value     string
}

// Kind reports the component kind derived from the reference prefix.
func (c Component) Kind() Kind {
	return KindOf(c.Reference)
}

// Card renders the component as a single SPICE card.
func (c Component) Card() string {
	parts := make([]string, 0, len(c.Ports)+2)
	parts = append(parts, c.Reference)
	parts = append(parts, c.Ports...)
	if c.Value != "" {
		parts = append(parts, c.Value)
	}
	return strings.Join(parts, " ")
}

func (c Component) clone() Component {
	out := c
	out.Ports = append([]string(nil), c.Ports...)
	return out
}

// FormatValue renders a numeric component value the way it is written onto a
// card. Plain scientific/decimal notation; every simulator accepts it. The
// value is rounded to 12 significant digits first so rail arithmetic like
// 3.3-0.1 lands on the card as 3.2, not 3.1999999999999997.
func FormatValue(v float64) string {
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 12, 64), 64)
	return strconv.FormatFloat(rounded, 'g', -1, 64)
}

var valueSuffixes = []struct {
	suffix string
	scale  float64
}{
	// "meg" must be tried before "m".
	{"meg", 1e6},
	{"t", 1e12},
	{"g", 1e9},
	{"k", 1e3},
	{"m", 1e-3},
	{"u", 1e-6},
	{"n", 1e-9},
	{"p", 1e-12},
	{"f", 1e-15},
}

// ParseValue interprets a SPICE numeric literal with an optional engineering
// suffix (10k, 4.7u, 1meg). Trailing unit letters after the suffix are
// ignored, as simulators do (10kOhm).
func ParseValue(s string) (float64, error) {
	trimmed := strings.TrimSpace(strings.ToLower(s))
	if trimmed == "" {
		return 0, fmt.Errorf("netlist: empty value")
	}

	end := len(trimmed)
	for i, r := range trimmed {
		if (r >= '0' && r <= '9') || r == '.' || r == '+' || r == '-' {
			continue
		}
		if (r == 'e') && i > 0 && i+1 < len(trimmed) {
			rest := trimmed[i+1:]
			if _, err := strconv.Atoi(strings.TrimLeft(rest, "+-")); err == nil {
				continue
			}
		}
		end = i
		break
	}

	base, err := strconv.ParseFloat(trimmed[:end], 64)
	if err != nil {
		return 0, fmt.Errorf("netlist: bad value %q: %w", s, err)
	}

	tail := trimmed[end:]
	for _, sfx := range valueSuffixes {
		if strings.HasPrefix(tail, sfx.suffix) {
			return base * sfx.scale, nil
		}
	}
	return base, nil
}
