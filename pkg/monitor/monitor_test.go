package monitor

import (
	"testing"
	"time"

	"github.com/drivewatch/go-drivewatch/pkg/landmarks"
)

const frameStep = 50 * time.Millisecond // 20 fps

// feed pushes frames through the monitor and collects transition alerts.
func feed(t *testing.T, m *Monitor, ts *time.Time, d time.Duration, build func(time.Time) landmarks.Observation) []AlertRequest {
	t.Helper()
	var alerts []AlertRequest
	for elapsed := time.Duration(0); elapsed < d; elapsed += frameStep {
		if req := m.ProcessFrame(build(*ts)); req != nil {
			alerts = append(alerts, *req)
		}
		*ts = ts.Add(frameStep)
	}
	return alerts
}

func openFrame(ts time.Time) landmarks.Observation   { return landmarks.Synth(ts, 0.30, 0.2) }
func closedFrame(ts time.Time) landmarks.Observation { return landmarks.Synth(ts, 0.10, 0.2) }

func newCalibratedMonitor(t *testing.T, cfg Config, ts *time.Time) *Monitor {
	t.Helper()
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	alerts := feed(t, m, ts, cfg.CalibrationDuration+2*frameStep, openFrame)
	if m.State() != StateNormal {
		t.Fatalf("after warm-up: state %v, want NORMAL", m.State())
	}
	if len(alerts) != 1 || alerts[0].Reason != ReasonCalibrated {
		t.Fatalf("warm-up alerts: got %+v", alerts)
	}
	return m
}

func TestMonitor_CalibrationThreshold(t *testing.T) {
	ts := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
	m := newCalibratedMonitor(t, DefaultConfig(), &ts)

	snap := m.Snapshot()
	if !floatEquals(snap.ThresholdEAR, 0.7*0.30) {
		t.Errorf("threshold: got %v, want %v", snap.ThresholdEAR, 0.7*0.30)
	}
	if snap.CalibrationProgress != 1 {
		t.Errorf("progress: got %v, want 1", snap.CalibrationProgress)
	}
}

func TestMonitor_MicroSleepFiresMidRun(t *testing.T) {
	// EAR below threshold continuously for 1.8s with a 1.5s limit:
	// DANGER must fire before the eyes reopen
	cfg := DefaultConfig()
	cfg.MicroSleepDuration = 1500 * time.Millisecond
	ts := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
	m := newCalibratedMonitor(t, cfg, &ts)

	alerts := feed(t, m, &ts, 1800*time.Millisecond, closedFrame)
	if len(alerts) != 1 {
		t.Fatalf("closed-run alerts: got %+v", alerts)
	}
	if alerts[0].Severity != SeverityEmergency || alerts[0].Reason != ReasonMicroSleep {
		t.Fatalf("micro-sleep alert: got %+v", alerts[0])
	}
	if m.State() != StateDanger {
		t.Fatalf("state mid-run: got %v, want DANGER", m.State())
	}
}

func TestMonitor_LookAwayScenario(t *testing.T) {
	// Face absent for 3s with a 2s limit: one DANGER with reason
	// look-away; face back with normal EAR for the debounce: one NORMAL
	cfg := DefaultConfig()
	cfg.FaceLostDuration = 2 * time.Second
	ts := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
	m := newCalibratedMonitor(t, cfg, &ts)

	alerts := feed(t, m, &ts, 3*time.Second, landmarks.NoFace)
	if len(alerts) != 1 {
		t.Fatalf("absence alerts: got %+v", alerts)
	}
	if alerts[0].Severity != SeverityEmergency || alerts[0].Reason != ReasonLookAway {
		t.Fatalf("look-away alert: got %+v", alerts[0])
	}

	alerts = feed(t, m, &ts, cfg.StateDebounce+3*frameStep, openFrame)
	if len(alerts) != 1 {
		t.Fatalf("recovery alerts: got %+v", alerts)
	}
	if alerts[0].Severity != SeverityNone || alerts[0].State != StateNormal {
		t.Fatalf("recovery alert: got %+v", alerts[0])
	}
}

func TestMonitor_YawnWarning(t *testing.T) {
	cfg := DefaultConfig()
	ts := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
	m := newCalibratedMonitor(t, cfg, &ts)

	yawnFrame := func(ts time.Time) landmarks.Observation {
		return landmarks.Synth(ts, 0.30, cfg.MARYawnThreshold+0.2)
	}
	alerts := feed(t, m, &ts, cfg.YawnMinDuration+3*frameStep, yawnFrame)
	if len(alerts) != 1 {
		t.Fatalf("yawn alerts: got %+v", alerts)
	}
	if alerts[0].Severity != SeverityWarning || alerts[0].Reason != ReasonYawning {
		t.Fatalf("yawn alert: got %+v", alerts[0])
	}
}

func TestMonitor_MalformedMeshTreatedAsAbsent(t *testing.T) {
	cfg := DefaultConfig()
	ts := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
	m := newCalibratedMonitor(t, cfg, &ts)

	bad := func(ts time.Time) landmarks.Observation {
		return landmarks.Observation{
			Timestamp:   ts,
			FacePresent: true,
			Points:      make([]landmarks.Point, 12),
		}
	}

	// Degraded input long enough to cross the face-lost threshold
	alerts := feed(t, m, &ts, cfg.FaceLostDuration+3*frameStep, bad)
	if len(alerts) != 1 || alerts[0].Reason != ReasonLookAway {
		t.Fatalf("degraded-input alerts: got %+v", alerts)
	}
}

func TestMonitor_CalibrationRetryWhenNoFace(t *testing.T) {
	// No face for the whole warm-up and no fallback configured: the
	// monitor restarts the window instead of running with threshold 0
	cfg := DefaultConfig()
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)

	feed(t, m, &ts, cfg.CalibrationDuration+4*frameStep, landmarks.NoFace)
	if m.State() != StateCalibrating {
		t.Fatalf("state: got %v, want CALIBRATING after failed warm-up", m.State())
	}

	// A face arriving on the retry window completes normally
	feed(t, m, &ts, cfg.CalibrationDuration+4*frameStep, openFrame)
	if m.State() != StateNormal {
		t.Fatalf("state: got %v, want NORMAL after retry", m.State())
	}
}

func TestMonitor_CalibrationFallbackWhenConfigured(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FallbackEARThreshold = 0.21
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)

	feed(t, m, &ts, cfg.CalibrationDuration+4*frameStep, landmarks.NoFace)
	if m.State() != StateNormal {
		t.Fatalf("state: got %v, want NORMAL via fallback", m.State())
	}
	if !floatEquals(m.Snapshot().ThresholdEAR, 0.21) {
		t.Errorf("threshold: got %v, want fallback 0.21", m.Snapshot().ThresholdEAR)
	}
}

func TestMonitor_RecalibrateResetsEverything(t *testing.T) {
	cfg := DefaultConfig()
	ts := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
	m := newCalibratedMonitor(t, cfg, &ts)

	m.Recalibrate()
	if m.State() != StateCalibrating {
		t.Fatalf("state after recalibrate: got %v, want CALIBRATING", m.State())
	}

	// A new baseline takes effect, not a blend with the old one
	blinky := func(ts time.Time) landmarks.Observation { return landmarks.Synth(ts, 0.40, 0.2) }
	feed(t, m, &ts, cfg.CalibrationDuration+3*frameStep, blinky)
	if !floatEquals(m.Snapshot().ThresholdEAR, 0.7*0.40) {
		t.Errorf("threshold after recalibration: got %v, want %v", m.Snapshot().ThresholdEAR, 0.7*0.40)
	}
}

func TestMonitor_SnapshotReflectsFrame(t *testing.T) {
	cfg := DefaultConfig()
	ts := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
	m := newCalibratedMonitor(t, cfg, &ts)

	obs := landmarks.Synth(ts, 0.28, 0.35)
	m.ProcessFrame(obs)

	snap := m.Snapshot()
	if !floatEquals(snap.EAR, 0.28) || !floatEquals(snap.MAR, 0.35) {
		t.Errorf("snapshot ratios: got ear=%v mar=%v", snap.EAR, snap.MAR)
	}
	if snap.State != "NORMAL" {
		t.Errorf("snapshot state: got %q", snap.State)
	}
	if snap.SessionID == "" {
		t.Error("snapshot missing session id")
	}
}
