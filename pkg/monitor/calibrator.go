package monitor

import "time"

// CalibrationProfile is the personal eye-closure baseline derived during
// warm-up. Once Complete is true the profile never changes; recalibration
// is an explicit Reset of the Calibrator, never a silent overwrite.
type CalibrationProfile struct {
	BaselineEAR  float64
	ThresholdEAR float64
	Complete     bool
}

// Calibrator accumulates a running mean of open-eye EAR over a fixed
// wall-clock warm-up window and derives the personal closure threshold.
// Eye shape varies widely across individuals, so the threshold is a
// fixed fraction of the personal baseline rather than an absolute EAR.
type Calibrator struct {
	cfg Config

	start   time.Time
	sum     float64
	count   int
	profile CalibrationProfile
}

// NewCalibrator creates a calibrator. The warm-up clock starts on the
// first observed frame, not at construction.
func NewCalibrator(cfg Config) *Calibrator {
	return &Calibrator{cfg: cfg}
}

// Observe feeds one frame into the warm-up window. ear is only
// accumulated when faceOK is true; face-absent frames still advance the
// deadline. When the window closes with zero valid samples it returns
// ErrCalibrationNoSamples and the caller must Reset (retry) or
// CompleteWithFallback — never proceed with a zero threshold.
func (c *Calibrator) Observe(now time.Time, ear float64, faceOK bool) (CalibrationProfile, error) {
	if c.profile.Complete {
		return c.profile, ErrCalibrationComplete
	}

	if c.start.IsZero() {
		c.start = now
	}

	if faceOK {
		c.sum += ear
		c.count++
	}

	if now.Sub(c.start) < c.cfg.CalibrationDuration {
		return c.profile, nil
	}

	if c.count == 0 {
		return c.profile, ErrCalibrationNoSamples
	}

	baseline := c.sum / float64(c.count)
	c.profile = CalibrationProfile{
		BaselineEAR:  baseline,
		ThresholdEAR: c.cfg.CalibrationFraction * baseline,
		Complete:     true,
	}
	return c.profile, nil
}

// CompleteWithFallback finalizes the profile with the configured fixed
// threshold instead of a personal baseline. It is the recovery path for
// a failed warm-up (e.g. no face in view for the whole window).
func (c *Calibrator) CompleteWithFallback() CalibrationProfile {
	c.profile = CalibrationProfile{
		BaselineEAR:  0,
		ThresholdEAR: c.cfg.FallbackEARThreshold,
		Complete:     true,
	}
	return c.profile
}

// Reset discards all warm-up state for an explicit recalibration.
func (c *Calibrator) Reset() {
	c.start = time.Time{}
	c.sum = 0
	c.count = 0
	c.profile = CalibrationProfile{}
}

// Profile returns the current profile.
func (c *Calibrator) Profile() CalibrationProfile {
	return c.profile
}

// Progress reports warm-up completion in [0, 1].
func (c *Calibrator) Progress(now time.Time) float64 {
	if c.profile.Complete {
		return 1
	}
	if c.start.IsZero() {
		return 0
	}
	return clamp(now.Sub(c.start).Seconds()/c.cfg.CalibrationDuration.Seconds(), 0, 1)
}
