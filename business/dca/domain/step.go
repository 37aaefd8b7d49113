// Package domain holds the per-action transaction state machine.
package domain

import (
	"fmt"
	"strings"
)

// Step is the state of one user-initiated action.
type Step int

const (
	Idle Step = iota
	Approving
	Approved
	Executing
	Succeeded
	Failed
)

func (s Step) String() string {
	switch s {
	case Idle:
		return "idle"
	case Approving:
		return "approving"
	case Approved:
		return "approved"
	case Executing:
		return "executing"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s Step) Terminal() bool {
	return s == Succeeded || s == Failed
}

// Kind is the flow an action belongs to.
type Kind string

const (
	KindStart    Kind = "start"
	KindDelete   Kind = "delete"
	KindRegister Kind = "register"
)

// FlowKey identifies one flow instance for re-entrancy checks.
func FlowKey(kind Kind, subject string) string {
	return string(kind) + ":" + strings.ToLower(subject)
}

// Status lines shown while an action runs.
const (
	StatusProcessing = "Processing..."
	StatusApproving  = "Approving 1/2"
	StatusApproved   = "Approval successful. Starting DCA position..."
	StatusStarting   = "Starting Stream 2/2"
	StatusStarted    = "DCA position started successfully!"
	StatusDeleted    = "Stream closed."
	StatusRegistered = "Registered for rewards."
	StatusFailed     = "Transaction failed. Please try again."
)

var transitions = map[Step][]Step{
	Idle:      {Approving, Executing, Failed},
	Approving: {Approved, Failed},
	Approved:  {Executing, Failed},
	Executing: {Succeeded, Failed},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to Step) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Machine tracks one action's path through the steps. The zero value is
// not usable; call NewMachine.
type Machine struct {
	path []Step
}

// NewMachine starts at Idle.
func NewMachine() *Machine {
	return &Machine{path: []Step{Idle}}
}

// Current is the latest step.
func (m *Machine) Current() Step {
	return m.path[len(m.path)-1]
}

// Path returns every step visited, Idle first.
func (m *Machine) Path() []Step {
	return append([]Step(nil), m.path...)
}

// Advance moves to next or reports an illegal transition.
func (m *Machine) Advance(next Step) error {
	cur := m.Current()
	if !CanTransition(cur, next) {
		return fmt.Errorf("illegal transition %s -> %s", cur, next)
	}
	m.path = append(m.path, next)
	return nil
}
