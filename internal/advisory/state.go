package advisory

import "sync"

// Machine tracks the advisory state across one page load. Every trigger runs
// the full Detecting pass again; RestrictionActive is re-entered rather than
// sticky, so a cart edit that drops the total below the threshold clears the
// warning on the next run.
type Machine struct {
	mu    sync.Mutex
	state State
}

// NewMachine starts in StateIdle.
func NewMachine() *Machine {
	return &Machine{state: StateIdle}
}

// Begin marks a detection pass as started.
func (m *Machine) Begin() {
	m.mu.Lock()
	m.state = StateDetecting
	m.mu.Unlock()
}

// Complete records the outcome of a finished pass.
func (m *Machine) Complete(outcome State) {
	m.mu.Lock()
	m.state = outcome
	m.mu.Unlock()
}

// Current returns the state as of the last transition.
func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}
