package lifecycle

import (
	"errors"
	"testing"
)

func TestMachineInjectEject(t *testing.T) {
	var m Machine

	if m.State() != StateNotInjected {
		t.Fatalf("initial state = %v, want %v", m.State(), StateNotInjected)
	}
	if m.IsInjected() {
		t.Fatalf("zero machine reports injected")
	}

	if err := m.Eject(); !errors.Is(err, ErrNotInjected) {
		t.Fatalf("Eject before Inject = %v, want ErrNotInjected", err)
	}

	if err := m.Inject(); err != nil {
		t.Fatalf("Inject failed: %v", err)
	}
	if !m.IsInjected() {
		t.Fatalf("not injected after Inject")
	}
	if err := m.Inject(); !errors.Is(err, ErrAlreadyInjected) {
		t.Fatalf("second Inject = %v, want ErrAlreadyInjected", err)
	}

	if err := m.Eject(); err != nil {
		t.Fatalf("Eject failed: %v", err)
	}
	if m.State() != StateNotInjected {
		t.Fatalf("state after Eject = %v, want %v", m.State(), StateNotInjected)
	}
}

func TestUtilityMachineTransitions(t *testing.T) {
	var m UtilityMachine

	if err := m.Activate(); !errors.Is(err, ErrNotInjected) {
		t.Fatalf("Activate before Inject = %v, want ErrNotInjected", err)
	}
	if err := m.Deactivate(); !errors.Is(err, ErrNotInjected) {
		t.Fatalf("Deactivate before Inject = %v, want ErrNotInjected", err)
	}

	if err := m.Inject(); err != nil {
		t.Fatalf("Inject failed: %v", err)
	}
	if err := m.Deactivate(); !errors.Is(err, ErrNotActive) {
		t.Fatalf("Deactivate while merely injected = %v, want ErrNotActive", err)
	}

	if err := m.Activate(); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if !m.IsActive() {
		t.Fatalf("not active after Activate")
	}
	if !m.IsInjected() {
		t.Fatalf("active machine must still report injected")
	}
	if err := m.Activate(); !errors.Is(err, ErrAlreadyActive) {
		t.Fatalf("second Activate = %v, want ErrAlreadyActive", err)
	}

	if err := m.Deactivate(); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	if m.State() != StateInjected {
		t.Fatalf("state after Deactivate = %v, want %v", m.State(), StateInjected)
	}

	// Eject straight from active is allowed; the utility performs the
	// implicit deactivate before reaching the machine.
	if err := m.Activate(); err != nil {
		t.Fatalf("re-Activate failed: %v", err)
	}
	if err := m.Eject(); err != nil {
		t.Fatalf("Eject from active = %v, want nil", err)
	}
	if m.State() != StateNotInjected {
		t.Fatalf("state after Eject = %v, want %v", m.State(), StateNotInjected)
	}
}

func TestStateString(t *testing.T) {
	cases := []struct {
		state State
		want  string
	}{
		{StateNotInjected, "not injected"},
		{StateInjected, "injected"},
		{StateActive, "active"},
		{State(7), "State(7)"},
	}
	for _, tc := range cases {
		if got := tc.state.String(); got != tc.want {
			t.Fatalf("%d.String() = %q, want %q", tc.state, got, tc.want)
		}
	}
}
