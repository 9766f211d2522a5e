// Package monitor implements the temporal fatigue-analysis core: EAR/MAR
// geometry, personal calibration, rolling blink/yawn/look-away accounting,
// and the debounced escalation state machine.
//
// The whole package is single-threaded by design: ProcessFrame runs on the
// frame-acquisition goroutine and never blocks on I/O. Alarm playback is
// the alert dispatcher's problem.
package monitor

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/drivewatch/go-drivewatch/internal/log"
	"github.com/drivewatch/go-drivewatch/pkg/landmarks"
)

// Snapshot is the read-only view served to the visualization
// collaborator. It is copied under lock, never shared.
type Snapshot struct {
	SessionID           string    `json:"session_id"`
	State               string    `json:"state"`
	EAR                 float64   `json:"ear"`
	MAR                 float64   `json:"mar"`
	BlinkRate           float64   `json:"blink_rate"`
	YawnCount           int       `json:"yawn_count"`
	EyeClosedMs         int64     `json:"eye_closed_ms"`
	FaceLostMs          int64     `json:"face_lost_ms"`
	CalibrationProgress float64   `json:"calibration_progress"`
	ThresholdEAR        float64   `json:"threshold_ear"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Monitor is the per-frame synchronous pipeline: ratio calculation,
// calibration during warm-up, temporal tracking after, then the state
// machine. One Monitor per session; not safe for concurrent
// ProcessFrame calls.
type Monitor struct {
	cfg        Config
	sessionID  string
	calibrator *Calibrator
	tracker    *Tracker
	machine    *Machine

	mu   sync.RWMutex
	snap Snapshot
}

// New creates a monitor in the calibrating state.
func New(cfg Config) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	return &Monitor{
		cfg:        cfg,
		sessionID:  id,
		calibrator: NewCalibrator(cfg),
		machine:    NewMachine(cfg),
		snap:       Snapshot{SessionID: id, State: StateCalibrating.String()},
	}, nil
}

// SessionID returns the unique identifier of this monitoring session.
func (m *Monitor) SessionID() string {
	return m.sessionID
}

// State returns the current driver state.
func (m *Monitor) State() State {
	return m.machine.State()
}

// ProcessFrame folds one frame observation into the session and returns
// a non-nil AlertRequest when a state transition edge fired.
func (m *Monitor) ProcessFrame(obs landmarks.Observation) *AlertRequest {
	now := obs.Timestamp

	sample, faceOK := Ratios(obs)
	if obs.FacePresent && !faceOK {
		// Declared face with a malformed mesh: degrade to face-absent
		// for this cycle instead of crashing the session.
		log.Warn("malformed landmark frame, treating as face-absent",
			"points", len(obs.Points))
	}

	var sig Signals
	if m.tracker == nil {
		m.calibrate(now, sample, faceOK)
	} else {
		sig = m.tracker.Update(now, sample, faceOK)
	}

	state, alert := m.machine.Evaluate(now, m.tracker != nil, sig)
	m.publish(now, state, sample, faceOK, sig)

	if alert != nil {
		log.Info("driver state transition",
			"state", state.String(), "severity", alert.Severity.String(), "reason", alert.Reason)
	}
	return alert
}

// calibrate advances the warm-up window and promotes the session to
// tracking once a profile exists.
func (m *Monitor) calibrate(now time.Time, sample RatioSample, faceOK bool) {
	profile, err := m.calibrator.Observe(now, sample.EAR, faceOK)
	if err == ErrCalibrationNoSamples {
		if m.cfg.FallbackEARThreshold > 0 {
			profile = m.calibrator.CompleteWithFallback()
			log.Warn("calibration saw no face, using fallback threshold",
				"threshold_ear", profile.ThresholdEAR)
		} else {
			// Retry with a fresh window rather than silently running
			// with a zero threshold.
			log.Warn("calibration saw no face, restarting warm-up window")
			m.calibrator.Reset()
			return
		}
	} else if err != nil {
		log.Error("calibration error", "err", err)
		return
	}

	if profile.Complete {
		tracker, terr := NewTracker(m.cfg, profile)
		if terr != nil {
			log.Error("tracker init failed", "err", terr)
			m.calibrator.Reset()
			return
		}
		m.tracker = tracker
		log.Info("calibration complete",
			"baseline_ear", profile.BaselineEAR, "threshold_ear", profile.ThresholdEAR)
	}
}

// Recalibrate discards the profile and all rolling windows and returns
// the session to CALIBRATING. This is the only path that replaces a
// completed profile.
func (m *Monitor) Recalibrate() {
	m.calibrator.Reset()
	m.tracker = nil
	m.machine = NewMachine(m.cfg)
	log.Info("recalibration started", "session", m.sessionID)
}

func (m *Monitor) publish(now time.Time, state State, sample RatioSample, faceOK bool, sig Signals) {
	snap := Snapshot{
		SessionID:           m.sessionID,
		State:               state.String(),
		BlinkRate:           sig.BlinkRate,
		EyeClosedMs:         sig.EyeClosedFor.Milliseconds(),
		FaceLostMs:          sig.FaceLostFor.Milliseconds(),
		CalibrationProgress: m.calibrator.Progress(now),
		UpdatedAt:           now,
	}
	if faceOK {
		snap.EAR = sample.EAR
		snap.MAR = sample.MAR
	}
	if m.tracker != nil {
		snap.ThresholdEAR = m.tracker.Threshold()
		snap.YawnCount = m.tracker.YawnCount()
	}

	m.mu.Lock()
	m.snap = snap
	m.mu.Unlock()
}

// Snapshot returns a copy of the latest per-frame view. Safe to call
// from any goroutine.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}
