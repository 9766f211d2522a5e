package monitor

import "time"

// State is the authoritative driver alertness classification.
type State int

const (
	// StateCalibrating is the initial state while the personal EAR
	// baseline is being learned.
	StateCalibrating State = iota

	// StateNormal means no fatigue condition is active.
	StateNormal

	// StateDrowsy means a warning-level condition is active
	// (high blink frequency or yawning).
	StateDrowsy

	// StateDanger means an unsafe condition is active
	// (micro-sleep or look-away).
	StateDanger
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateCalibrating:
		return "CALIBRATING"
	case StateNormal:
		return "NORMAL"
	case StateDrowsy:
		return "DROWSY"
	case StateDanger:
		return "DANGER"
	default:
		return "UNKNOWN"
	}
}

// Severity is the alarm level attached to a state transition.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityWarning
	SeverityEmergency
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityWarning:
		return "warning"
	case SeverityEmergency:
		return "emergency"
	default:
		return "unknown"
	}
}

// Transition reason tags.
const (
	ReasonCalibrated    = "calibrated"
	ReasonMicroSleep    = "micro-sleep"
	ReasonLookAway      = "look-away"
	ReasonHighBlinkRate = "high-blink-rate"
	ReasonYawning       = "yawning"
	ReasonRecovered     = "recovered"
)

// AlertRequest is emitted on a state transition edge, at most once per
// edge, and consumed exactly once by the dispatcher.
type AlertRequest struct {
	Severity Severity
	Reason   string
	State    State
	At       time.Time
}

// Machine maps tracked signals onto driver states with priority-ordered
// escalation and wall-clock debounce on the way back down. The debounce
// is what prevents flicker: a single clean frame right after a
// closed-eye run must not instantly clear DANGER.
type Machine struct {
	cfg   Config
	state State

	// clearSince is the first frame at which the current elevated
	// state's conditions were all absent. Zero while a condition is
	// active or the state is not elevated.
	clearSince time.Time
}

// NewMachine creates a state machine in StateCalibrating.
func NewMachine(cfg Config) *Machine {
	return &Machine{cfg: cfg, state: StateCalibrating}
}

// State returns the current driver state.
func (m *Machine) State() State {
	return m.state
}

// Evaluate advances the machine one frame. It returns the resulting
// state and a non-nil AlertRequest only when a transition edge fired.
func (m *Machine) Evaluate(now time.Time, calibrated bool, sig Signals) (State, *AlertRequest) {
	if m.state == StateCalibrating {
		if !calibrated {
			return m.state, nil
		}
		m.state = StateNormal
		return m.state, &AlertRequest{Severity: SeverityNone, Reason: ReasonCalibrated, State: m.state, At: now}
	}

	dangerOn := sig.MicroSleep || sig.LookAway
	drowsyOn := sig.HighBlinkRate || sig.Yawning

	// Unsafe conditions have highest priority and are never masked by
	// a lower-severity condition.
	if dangerOn {
		m.clearSince = time.Time{}
		if m.state == StateDanger {
			return m.state, nil
		}
		m.state = StateDanger
		reason := ReasonLookAway
		if sig.MicroSleep {
			reason = ReasonMicroSleep
		}
		return m.state, &AlertRequest{Severity: SeverityEmergency, Reason: reason, State: m.state, At: now}
	}

	if m.state == StateDanger {
		// Danger only releases to NORMAL, and only after its triggering
		// conditions have been continuously absent for the debounce
		// interval. A still-active drowsy condition re-escalates on the
		// next frame via the normal priority order.
		if !m.settled(now) {
			return m.state, nil
		}
		m.state = StateNormal
		return m.state, &AlertRequest{Severity: SeverityNone, Reason: ReasonRecovered, State: m.state, At: now}
	}

	if drowsyOn {
		m.clearSince = time.Time{}
		if m.state == StateDrowsy {
			return m.state, nil
		}
		m.state = StateDrowsy
		reason := ReasonYawning
		if sig.HighBlinkRate {
			reason = ReasonHighBlinkRate
		}
		return m.state, &AlertRequest{Severity: SeverityWarning, Reason: reason, State: m.state, At: now}
	}

	if m.state == StateDrowsy {
		if !m.settled(now) {
			return m.state, nil
		}
		m.state = StateNormal
		return m.state, &AlertRequest{Severity: SeverityNone, Reason: ReasonRecovered, State: m.state, At: now}
	}

	return m.state, nil
}

// settled reports whether the triggering conditions have been absent
// for at least the debounce interval, starting the clock on first call
// after they cleared.
func (m *Machine) settled(now time.Time) bool {
	if m.clearSince.IsZero() {
		m.clearSince = now
		return false
	}
	if now.Sub(m.clearSince) < m.cfg.StateDebounce {
		return false
	}
	m.clearSince = time.Time{}
	return true
}
