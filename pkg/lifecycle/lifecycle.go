// Package lifecycle provides the shared state machine that guards fault and
// test-utility transitions. Variants embed a machine and consult it before
// touching the netlist, so an illegal call can never leave a partial mutation
// behind.
package lifecycle

import (
	"errors"
	"fmt"
)

// State represents the lifecycle position of an injectable entity.
type State uint8

const (
	StateNotInjected State = iota
	StateInjected
	StateActive
)

var stateNames = map[State]string{
	StateNotInjected: "not injected",
	StateInjected:    "injected",
	StateActive:      "active",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", s)
}

// Transition guard failures. Callers recover by re-sequencing their calls;
// none of these indicate netlist corruption.
var (
	ErrAlreadyInjected = errors.New("lifecycle: already injected")
	ErrNotInjected     = errors.New("lifecycle: not injected")
	ErrAlreadyActive   = errors.New("lifecycle: already active")
	ErrNotActive       = errors.New("lifecycle: not active")
)

// Machine tracks the two-state fault lifecycle (not injected <-> injected).
// The zero value is ready to use and starts not injected.
type Machine struct {
	state State
}

// State reports the current lifecycle state.
func (m *Machine) State() State {
	return m.state
}

// IsInjected reports whether the entity currently sits in the netlist.
func (m *Machine) IsInjected() bool {
	return m.state != StateNotInjected
}

// Inject validates and performs the not-injected -> injected transition.
// The caller mutates the netlist only after a nil return.
func (m *Machine) Inject() error {
	if m.state != StateNotInjected {
		return ErrAlreadyInjected
	}
	m.state = StateInjected
	return nil
}

// Eject validates and performs the transition back to not injected. Utilities
// are expected to deactivate before ejecting; the machine still accepts an
// eject from the active state so the implicit-deactivate convention cannot
// wedge an entity.
func (m *Machine) Eject() error {
	if m.state == StateNotInjected {
		return ErrNotInjected
	}
	m.state = StateNotInjected
	return nil
}

// UtilityMachine extends Machine with the third, active state used by test
// utilities (observers, injection points).
type UtilityMachine struct {
	Machine
}

// IsActive reports whether the utility effect is currently armed.
func (m *UtilityMachine) IsActive() bool {
	return m.state == StateActive
}

// Activate validates and performs the injected -> active transition.
func (m *UtilityMachine) Activate() error {
	switch m.state {
	case StateNotInjected:
		return ErrNotInjected
	case StateActive:
		return ErrAlreadyActive
	}
	m.state = StateActive
	return nil
}

// Deactivate validates and performs the active -> injected transition.
func (m *UtilityMachine) Deactivate() error {
	switch m.state {
	case StateNotInjected:
		return ErrNotInjected
	case StateInjected:
		return ErrNotActive
	}
	m.state = StateInjected
	return nil
}
