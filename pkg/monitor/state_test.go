package monitor

import (
	"testing"
	"time"
)

func stateTime() time.Time {
	return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
}

func TestMachine_CalibratingUntilProfileComplete(t *testing.T) {
	m := NewMachine(DefaultConfig())
	now := stateTime()

	state, alert := m.Evaluate(now, false, Signals{})
	if state != StateCalibrating || alert != nil {
		t.Fatalf("got state=%v alert=%v, want CALIBRATING and no alert", state, alert)
	}

	state, alert = m.Evaluate(now.Add(time.Second), true, Signals{})
	if state != StateNormal {
		t.Fatalf("got %v, want NORMAL", state)
	}
	if alert == nil || alert.Severity != SeverityNone || alert.Reason != ReasonCalibrated {
		t.Fatalf("calibration transition alert: got %+v", alert)
	}

	// Exactly once
	_, alert = m.Evaluate(now.Add(2*time.Second), true, Signals{})
	if alert != nil {
		t.Errorf("re-confirming NORMAL emitted %+v", alert)
	}
}

func TestMachine_DangerOutranksDrowsy(t *testing.T) {
	m := NewMachine(DefaultConfig())
	now := stateTime()
	m.Evaluate(now, true, Signals{})

	// Micro-sleep plus yawn: the unsafe condition must win
	state, alert := m.Evaluate(now.Add(time.Second), true, Signals{MicroSleep: true, Yawning: true})
	if state != StateDanger {
		t.Fatalf("got %v, want DANGER", state)
	}
	if alert == nil || alert.Severity != SeverityEmergency || alert.Reason != ReasonMicroSleep {
		t.Fatalf("danger alert: got %+v", alert)
	}
}

func TestMachine_LookAwayReason(t *testing.T) {
	m := NewMachine(DefaultConfig())
	now := stateTime()
	m.Evaluate(now, true, Signals{})

	_, alert := m.Evaluate(now.Add(time.Second), true, Signals{LookAway: true})
	if alert == nil || alert.Reason != ReasonLookAway {
		t.Fatalf("look-away alert: got %+v", alert)
	}
}

func TestMachine_AtMostOneAlertPerEdge(t *testing.T) {
	m := NewMachine(DefaultConfig())
	now := stateTime()
	m.Evaluate(now, true, Signals{})

	_, alert := m.Evaluate(now.Add(time.Second), true, Signals{MicroSleep: true})
	if alert == nil {
		t.Fatal("entering DANGER should emit")
	}

	// Re-confirmation emits nothing, frame after frame
	for i := 2; i < 10; i++ {
		_, alert = m.Evaluate(now.Add(time.Duration(i)*time.Second), true, Signals{MicroSleep: true})
		if alert != nil {
			t.Fatalf("frame %d: re-confirmed DANGER emitted %+v", i, alert)
		}
	}
}

func TestMachine_DebounceFloor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StateDebounce = time.Second
	m := NewMachine(cfg)
	now := stateTime()
	m.Evaluate(now, true, Signals{})
	m.Evaluate(now.Add(time.Second), true, Signals{MicroSleep: true})

	// A single clean frame right after the closed-eye run must not
	// instantly clear DANGER
	clear := now.Add(2 * time.Second)
	state, alert := m.Evaluate(clear, true, Signals{})
	if state != StateDanger || alert != nil {
		t.Fatalf("cleared instantly: state=%v alert=%v", state, alert)
	}

	state, alert = m.Evaluate(clear.Add(cfg.StateDebounce/2), true, Signals{})
	if state != StateDanger || alert != nil {
		t.Fatalf("cleared before debounce: state=%v alert=%v", state, alert)
	}

	state, alert = m.Evaluate(clear.Add(cfg.StateDebounce), true, Signals{})
	if state != StateNormal {
		t.Fatalf("got %v, want NORMAL after debounce", state)
	}
	if alert == nil || alert.Severity != SeverityNone || alert.Reason != ReasonRecovered {
		t.Fatalf("recovery alert: got %+v", alert)
	}
}

func TestMachine_ReTriggerResetsDebounce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StateDebounce = time.Second
	m := NewMachine(cfg)
	now := stateTime()
	m.Evaluate(now, true, Signals{})
	m.Evaluate(now.Add(time.Second), true, Signals{MicroSleep: true})

	// Signal clears, then re-fires before the debounce elapses
	clear := now.Add(2 * time.Second)
	m.Evaluate(clear, true, Signals{})
	m.Evaluate(clear.Add(500*time.Millisecond), true, Signals{MicroSleep: true})

	// The clear clock must restart from the second clearance
	clear2 := clear.Add(time.Second)
	state, _ := m.Evaluate(clear2, true, Signals{})
	if state != StateDanger {
		t.Fatalf("got %v, want DANGER while debounce restarts", state)
	}
	state, alert := m.Evaluate(clear2.Add(cfg.StateDebounce), true, Signals{})
	if state != StateNormal || alert == nil {
		t.Fatalf("got state=%v alert=%v, want NORMAL with alert", state, alert)
	}
}

func TestMachine_DrowsyWarning(t *testing.T) {
	m := NewMachine(DefaultConfig())
	now := stateTime()
	m.Evaluate(now, true, Signals{})

	state, alert := m.Evaluate(now.Add(time.Second), true, Signals{HighBlinkRate: true})
	if state != StateDrowsy {
		t.Fatalf("got %v, want DROWSY", state)
	}
	if alert == nil || alert.Severity != SeverityWarning || alert.Reason != ReasonHighBlinkRate {
		t.Fatalf("drowsy alert: got %+v", alert)
	}
}

func TestMachine_DrowsyEscalatesToDanger(t *testing.T) {
	m := NewMachine(DefaultConfig())
	now := stateTime()
	m.Evaluate(now, true, Signals{})
	m.Evaluate(now.Add(time.Second), true, Signals{Yawning: true})

	state, alert := m.Evaluate(now.Add(2*time.Second), true, Signals{Yawning: true, MicroSleep: true})
	if state != StateDanger {
		t.Fatalf("got %v, want DANGER", state)
	}
	if alert == nil || alert.Severity != SeverityEmergency {
		t.Fatalf("escalation alert: got %+v", alert)
	}
}

func TestMachine_DangerReleasesThroughNormal(t *testing.T) {
	// DANGER only exits to NORMAL; a still-active drowsy condition
	// re-escalates on the following frame
	cfg := DefaultConfig()
	cfg.StateDebounce = time.Second
	m := NewMachine(cfg)
	now := stateTime()
	m.Evaluate(now, true, Signals{})
	m.Evaluate(now.Add(time.Second), true, Signals{MicroSleep: true})

	clear := now.Add(2 * time.Second)
	m.Evaluate(clear, true, Signals{Yawning: true})
	state, alert := m.Evaluate(clear.Add(cfg.StateDebounce), true, Signals{Yawning: true})
	if state != StateNormal || alert == nil || alert.Severity != SeverityNone {
		t.Fatalf("danger release: state=%v alert=%+v", state, alert)
	}

	state, alert = m.Evaluate(clear.Add(cfg.StateDebounce+50*time.Millisecond), true, Signals{Yawning: true})
	if state != StateDrowsy || alert == nil || alert.Severity != SeverityWarning {
		t.Fatalf("re-escalation: state=%v alert=%+v", state, alert)
	}
}

func TestStateAndSeverityStrings(t *testing.T) {
	cases := []struct {
		got  string
		want string
	}{
		{StateCalibrating.String(), "CALIBRATING"},
		{StateNormal.String(), "NORMAL"},
		{StateDrowsy.String(), "DROWSY"},
		{StateDanger.String(), "DANGER"},
		{SeverityNone.String(), "none"},
		{SeverityWarning.String(), "warning"},
		{SeverityEmergency.String(), "emergency"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("got %q, want %q", c.got, c.want)
		}
	}
}
