package monitor

import (
	"time"

	"github.com/drivewatch/go-drivewatch/pkg/landmarks"
)

// Clamp ranges for the geometric ratios. Landmark jitter can produce
// outliers well outside physically plausible values; anything beyond
// these bounds is noise, not anatomy.
const (
	maxEAR = 1.0
	maxMAR = 2.0
)

// RatioSample is the per-frame geometric measurement of one face.
type RatioSample struct {
	Timestamp time.Time
	EAR       float64 // Eye aspect ratio, averaged over both eyes
	MAR       float64 // Mouth aspect ratio
}

// aspectRatio computes (|p1p5| + |p2p4|) / (2 |p0p3|) over a six-point
// subset: two vertical spans over one horizontal span.
func aspectRatio(pts [6]landmarks.Point) float64 {
	a := landmarks.Dist(pts[1], pts[5])
	b := landmarks.Dist(pts[2], pts[4])
	c := landmarks.Dist(pts[0], pts[3])
	if c == 0 {
		return 0
	}
	return (a + b) / (2.0 * c)
}

// EyeAspectRatio returns the EAR for a single eye subset, clamped to [0, 1].
func EyeAspectRatio(eye [6]landmarks.Point) float64 {
	return clamp(aspectRatio(eye), 0, maxEAR)
}

// MouthAspectRatio returns the MAR for the mouth subset, clamped to [0, 2].
func MouthAspectRatio(mouth [6]landmarks.Point) float64 {
	return clamp(aspectRatio(mouth), 0, maxMAR)
}

// Ratios derives a RatioSample from a frame observation. It returns
// ok=false when no face is present or the mesh is malformed; a missing
// face must never be synthesized into a zero (closed-eye) sample.
// Averaging the two eyes damps single-eye landmark noise and head roll.
func Ratios(obs landmarks.Observation) (RatioSample, bool) {
	if !obs.Valid() {
		return RatioSample{}, false
	}

	left := EyeAspectRatio(obs.Subset(landmarks.LeftEye))
	right := EyeAspectRatio(obs.Subset(landmarks.RightEye))

	return RatioSample{
		Timestamp: obs.Timestamp,
		EAR:       (left + right) / 2.0,
		MAR:       MouthAspectRatio(obs.Subset(landmarks.Mouth)),
	}, true
}

// clamp limits a value to a range
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
