package monitor

import (
	"time"

	"github.com/drivewatch/go-drivewatch/internal/log"
)

// Signals is the tracker's per-frame output: everything the state
// machine needs, evaluated at the current frame.
type Signals struct {
	MicroSleep    bool // Eyes closed past the micro-sleep threshold (run may still be open)
	HighBlinkRate bool // Blink rate above the configured ceiling
	Yawning       bool // Mouth open past the yawn minimum duration
	LookAway      bool // Face absent past the face-lost threshold

	BlinkRate    float64       // Blinks per minute over the rolling window
	EyeClosedFor time.Duration // Current closed run length, zero when eyes open
	FaceLostFor  time.Duration // Current absence run length, zero when face present
}

// Tracker maintains the rolling temporal statistics: blink timestamps,
// the current eye-closed run, the current face-absent run, and yawn
// episodes. All durations are wall-clock deltas between frame
// timestamps, so the accounting survives variable frame rates.
type Tracker struct {
	cfg       Config
	threshold float64 // Personal EAR closure threshold

	blinkTimes []time.Time
	yawnTimes  []time.Time

	eyeClosedStart time.Time // Zero when eyes open
	yawnStart      time.Time // Zero when mouth below yawn threshold
	yawnRecorded   bool      // Current yawn run already counted as an episode
	faceLostStart  time.Time // Zero when face present

	lastFrame time.Time
	last      Signals
}

// NewTracker creates a tracker bound to a completed calibration profile.
func NewTracker(cfg Config, profile CalibrationProfile) (*Tracker, error) {
	if !profile.Complete || profile.ThresholdEAR <= 0 {
		return nil, ErrNotCalibrated
	}
	return &Tracker{cfg: cfg, threshold: profile.ThresholdEAR}, nil
}

// Threshold returns the EAR closure threshold in use.
func (t *Tracker) Threshold() float64 {
	return t.threshold
}

// Update folds one frame into the rolling windows and returns the
// current signals. sample is ignored when facePresent is false.
func (t *Tracker) Update(now time.Time, sample RatioSample, facePresent bool) Signals {
	// A clock rollback would produce negative run durations; skip the
	// temporal update for this frame rather than corrupting the windows.
	if !t.lastFrame.IsZero() && now.Before(t.lastFrame) {
		log.Warn("frame timestamp went backwards, ignoring temporal update",
			"now", now, "last", t.lastFrame)
		return t.last
	}
	t.lastFrame = now

	if facePresent {
		t.updateFacePresent(now, sample)
	} else {
		t.updateFaceAbsent(now)
	}

	t.evictBlinks(now)
	t.evictYawns(now)

	sig := Signals{
		BlinkRate: float64(len(t.blinkTimes)) * (time.Minute.Seconds() / t.cfg.BlinkRateWindow.Seconds()),
	}
	sig.HighBlinkRate = sig.BlinkRate > t.cfg.BlinkRateCeiling

	if !t.eyeClosedStart.IsZero() {
		sig.EyeClosedFor = now.Sub(t.eyeClosedStart)
		// Detection must not wait for the eyes to reopen.
		sig.MicroSleep = sig.EyeClosedFor >= t.cfg.MicroSleepDuration
	}
	if !t.yawnStart.IsZero() {
		sig.Yawning = now.Sub(t.yawnStart) >= t.cfg.YawnMinDuration
	}
	if !t.faceLostStart.IsZero() {
		sig.FaceLostFor = now.Sub(t.faceLostStart)
		sig.LookAway = sig.FaceLostFor >= t.cfg.FaceLostDuration
	}

	t.last = sig
	return sig
}

func (t *Tracker) updateFacePresent(now time.Time, sample RatioSample) {
	t.faceLostStart = time.Time{}

	// Eye-closure run
	if sample.EAR < t.threshold {
		if t.eyeClosedStart.IsZero() {
			t.eyeClosedStart = now
		}
	} else if !t.eyeClosedStart.IsZero() {
		run := now.Sub(t.eyeClosedStart)
		if run < t.cfg.MicroSleepDuration {
			t.blinkTimes = append(t.blinkTimes, now)
		}
		// A run at or past the micro-sleep threshold already fired the
		// signal while open; it never counts as a blink.
		t.eyeClosedStart = time.Time{}
	}

	// Yawn run, same shape on the opening side
	if sample.MAR > t.cfg.MARYawnThreshold {
		if t.yawnStart.IsZero() {
			t.yawnStart = now
			t.yawnRecorded = false
		}
		if !t.yawnRecorded && now.Sub(t.yawnStart) >= t.cfg.YawnMinDuration {
			t.yawnTimes = append(t.yawnTimes, now)
			t.yawnRecorded = true
		}
	} else {
		t.yawnStart = time.Time{}
		t.yawnRecorded = false
	}
}

func (t *Tracker) updateFaceAbsent(now time.Time) {
	if t.faceLostStart.IsZero() {
		t.faceLostStart = now
		return
	}

	// Below the face-lost threshold an absence is tolerated noise and
	// must not touch the eye or mouth windows. Once it crosses the
	// threshold the open runs are stale: whatever the eyes were doing
	// when we lost the face is unknowable, so drop them.
	if now.Sub(t.faceLostStart) >= t.cfg.FaceLostDuration {
		t.eyeClosedStart = time.Time{}
		t.yawnStart = time.Time{}
		t.yawnRecorded = false
	}
}

func (t *Tracker) evictBlinks(now time.Time) {
	horizon := now.Add(-t.cfg.BlinkRateWindow)
	for len(t.blinkTimes) > 0 && t.blinkTimes[0].Before(horizon) {
		t.blinkTimes = t.blinkTimes[1:]
	}
}

func (t *Tracker) evictYawns(now time.Time) {
	horizon := now.Add(-t.cfg.YawnWindow)
	for len(t.yawnTimes) > 0 && t.yawnTimes[0].Before(horizon) {
		t.yawnTimes = t.yawnTimes[1:]
	}
}

// BlinkCount returns the number of blinks inside the rolling window.
func (t *Tracker) BlinkCount() int {
	return len(t.blinkTimes)
}

// YawnCount returns the number of yawn episodes inside the rolling window.
func (t *Tracker) YawnCount() int {
	return len(t.yawnTimes)
}
