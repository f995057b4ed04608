package netlist

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// deckLexer tokenizes a SPICE deck. Decks are line oriented: a leading '*'
// comments out the line, a leading '.' starts a directive that runs to the
// end of the line, anything else is a component card of whitespace-separated
// fields.
var deckLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `\*[^\n]*`},
	{Name: "Directive", Pattern: `\.[A-Za-z][^\n]*`},
	{Name: "EOL", Pattern: `\r?\n`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
	{Name: "Word", Pattern: `[^ \t\r\n]+`},
})

type deckAST struct {
	Lines []*lineAST `parser:"( @@ | EOL )*"`
}

type lineAST struct {
	Directive string   `parser:"  @Directive"`
	Fields    []string `parser:"| @Word+"`
}

// Parser reads SPICE decks into a MemStore.
type Parser struct {
	parser *participle.Parser[deckAST]
}

// NewParser builds the deck grammar.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[deckAST](
		participle.Lexer(deckLexer),
		participle.Elide("Comment", "Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("netlist: build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse reads a deck from a reader.
func (p *Parser) Parse(r io.Reader) (*MemStore, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("netlist: read deck: %w", err)
	}
	return p.ParseString(string(data))
}

// ParseFile reads a deck from a file path.
func (p *Parser) ParseFile(path string) (*MemStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("netlist: open deck: %w", err)
	}
	defer f.Close()
	return p.Parse(f)
}

// ParseString reads a deck from a string. The first line is the title card;
// '+' continuation lines are folded into their predecessor before parsing.
func (p *Parser) ParseString(input string) (*MemStore, error) {
	title, body := splitTitle(input)
	body = foldContinuations(body)

	ast, err := p.parser.ParseString("", body)
	if err != nil {
		return nil, fmt.Errorf("netlist: parse deck: %w", err)
	}

	store := NewMemStore(title)
	for _, line := range ast.Lines {
		if line.Directive != "" {
			if strings.EqualFold(strings.TrimSpace(line.Directive), ".end") {
				break
			}
			store.AddDirectives(line.Directive)
			continue
		}
		if len(line.Fields) == 0 {
			continue
		}
		comp, err := componentFromCard(line.Fields)
		if err != nil {
			return nil, err
		}
		if err := store.Insert(comp); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// splitTitle separates the mandatory title line from the card body.
func splitTitle(input string) (title, body string) {
	if idx := strings.IndexByte(input, '\n'); idx >= 0 {
		return strings.TrimRight(input[:idx], "\r"), input[idx+1:]
	}
	return input, ""
}

// foldContinuations joins '+' continuation lines onto their predecessor.
func foldContinuations(body string) string {
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "+") && len(out) > 0 {
			out[len(out)-1] += " " + strings.TrimPrefix(trimmed, "+")
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// portCount returns how many leading fields after the reference are node
// names for the given kind, or -1 when the split is positional (subcircuits).
func portCount(kind Kind) int {
	switch kind {
	case KindResistor, KindCapacitor, KindInductor, KindVSource, KindISource, KindDiode:
		return 2
	case KindBJT:
		return 3
	case KindFET:
		return 4
	case KindSubcircuit:
		return -1
	default:
		return 2
	}
}

func componentFromCard(fields []string) (Component, error) {
	ref := fields[0]
	kind := KindOf(ref)
	if kind == KindUnknown {
		return Component{}, fmt.Errorf("netlist: card %q: unknown element prefix", strings.Join(fields, " "))
	}

	rest := fields[1:]
	ports := portCount(kind)
	if ports < 0 {
		// Subcircuit: every field but the trailing name is a node.
		if len(rest) < 2 {
			return Component{}, fmt.Errorf("netlist: card %q: too few fields", strings.Join(fields, " "))
		}
		return Component{
			Reference: ref,
			Ports:     append([]string(nil), rest[:len(rest)-1]...),
			Value:     rest[len(rest)-1],
		}, nil
	}
	if len(rest) < ports+1 {
		return Component{}, fmt.Errorf("netlist: card %q: %v needs %d nodes and a value", strings.Join(fields, " "), kind, ports)
	}
	return Component{
		Reference: ref,
		Ports:     append([]string(nil), rest[:ports]...),
		Value:     strings.Join(rest[ports:], " "),
	}, nil
}
