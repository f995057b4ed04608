package netlist

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Store failures surfaced to fault/utility code.
var (
	ErrNotFound     = errors.New("netlist: component not found")
	ErrDuplicateRef = errors.New("netlist: duplicate reference")
)

// Store holds the components and free-form directives of a circuit. The fault
// and probe packages mutate circuits exclusively through this interface, so a
// file-backed editor can replace the in-memory implementation without
// touching them.
type Store interface {
	// Title returns the deck title line.
	Title() string
	// Lookup returns the component registered under ref.
	Lookup(ref string) (Component, bool)
	// Has reports whether ref exists.
	Has(ref string) bool
	// References returns all references in insertion order.
	References() []string
	// Insert adds a component; a duplicate reference fails with
	// ErrDuplicateRef.
	Insert(c Component) error
	// Remove deletes the component registered under ref.
	Remove(ref string) error
	// SetPorts replaces the ordered port list of ref.
	SetPorts(ref string, ports []string) error
	// SetValue replaces the value field of ref.
	SetValue(ref string, value string) error
	// AddDirectives appends free-form directive lines (.meas, .tran, ...).
	AddDirectives(lines ...string)
	// RemoveDirectives deletes every directive matching the regex pattern.
	RemoveDirectives(pattern string) error
	// Directives returns the directive lines in order.
	Directives() []string
}

// MemStore is the in-memory Store used by the test harness and the CLI.
type MemStore struct {
	title      string
	order      []string
	components map[string]Component
	directives []string
}

// NewMemStore creates an empty store with the provided title line.
func NewMemStore(title string) *MemStore {
	return &MemStore{
		title:      title,
		components: make(map[string]Component),
	}
}

// Title returns the deck title line.
func (s *MemStore) Title() string {
	return s.title
}

// Lookup returns a copy of the component registered under ref.
func (s *MemStore) Lookup(ref string) (Component, bool) {
	c, ok := s.components[ref]
	if !ok {
		return Component{}, false
	}
	return c.clone(), true
}

// Has reports whether ref exists in the store.
func (s *MemStore) Has(ref string) bool {
	_, ok := s.components[ref]
	return ok
}

// References returns all component references in insertion order.
func (s *MemStore) References() []string {
	return append([]string(nil), s.order...)
}

// Insert adds a component to the store.
func (s *MemStore) Insert(c Component) error {
	if c.Reference == "" {
		return fmt.Errorf("netlist: component missing reference")
	}
	if _, ok := s.components[c.Reference]; ok {
		return fmt.Errorf("netlist: insert %s: %w", c.Reference, ErrDuplicateRef)
	}
	s.components[c.Reference] = c.clone()
	s.order = append(s.order, c.Reference)
	return nil
}

// Remove deletes the component registered under ref.
func (s *MemStore) Remove(ref string) error {
	if _, ok := s.components[ref]; !ok {
		return fmt.Errorf("netlist: remove %s: %w", ref, ErrNotFound)
	}
	delete(s.components, ref)
	for i, r := range s.order {
		if r == ref {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// SetPorts replaces the ordered port list of ref.
func (s *MemStore) SetPorts(ref string, ports []string) error {
	c, ok := s.components[ref]
	if !ok {
		return fmt.Errorf("netlist: set ports %s: %w", ref, ErrNotFound)
	}
	c.Ports = append([]string(nil), ports...)
	s.components[ref] = c
	return nil
}

// SetValue replaces the value field of ref.
func (s *MemStore) SetValue(ref string, value string) error {
	c, ok := s.components[ref]
	if !ok {
		return fmt.Errorf("netlist: set value %s: %w", ref, ErrNotFound)
	}
	c.Value = value
	s.components[ref] = c
	return nil
}

// AddDirectives appends directive lines to the deck.
func (s *MemStore) AddDirectives(lines ...string) {
	s.directives = append(s.directives, lines...)
}

// RemoveDirectives deletes every directive matching the regex pattern.
func (s *MemStore) RemoveDirectives(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("netlist: directive pattern: %w", err)
	}
	kept := s.directives[:0]
	for _, d := range s.directives {
		if !re.MatchString(d) {
			kept = append(kept, d)
		}
	}
	s.directives = kept
	return nil
}

// Directives returns the directive lines in order.
func (s *MemStore) Directives() []string {
	return append([]string(nil), s.directives...)
}

// Render emits the deck as SPICE text: title, component cards in insertion
// order, directives, and the closing .end.
func Render(s Store) string {
	var b strings.Builder
	if title := s.Title(); title != "" {
		b.WriteString(title)
		b.WriteByte('\n')
	}
	for _, ref := range s.References() {
		c, ok := s.Lookup(ref)
		if !ok {
			continue
		}
		b.WriteString(c.Card())
		b.WriteByte('\n')
	}
	for _, d := range s.Directives() {
		b.WriteString(d)
		b.WriteByte('\n')
	}
	b.WriteString(".end\n")
	return b.String()
}

// String implements fmt.Stringer by rendering the full deck.
func (s *MemStore) String() string {
	return Render(s)
}
