package monitor

import "errors"

var (
	// ErrCalibrationNoSamples is returned when the warm-up window closes
	// without a single face-present frame.
	ErrCalibrationNoSamples = errors.New("calibration captured no valid samples")

	// ErrCalibrationComplete is returned when observing into a profile
	// that has already been finalized.
	ErrCalibrationComplete = errors.New("calibration already complete")

	// ErrNotCalibrated is returned when tracking is asked to run before
	// a closure threshold exists.
	ErrNotCalibrated = errors.New("calibration not complete")
)
