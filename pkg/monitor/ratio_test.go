package monitor

import (
	"math"
	"testing"
	"time"

	"github.com/drivewatch/go-drivewatch/pkg/landmarks"
)

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestRatios_SynthExact(t *testing.T) {
	obs := landmarks.Synth(time.Now(), 0.3, 0.7)

	sample, ok := Ratios(obs)
	if !ok {
		t.Fatal("expected a sample for a valid face")
	}
	if !floatEquals(sample.EAR, 0.3) {
		t.Errorf("EAR: got %v, want 0.3", sample.EAR)
	}
	if !floatEquals(sample.MAR, 0.7) {
		t.Errorf("MAR: got %v, want 0.7", sample.MAR)
	}
}

func TestRatios_NoFaceYieldsNoSample(t *testing.T) {
	// A missing face must never look like a closed eye (EAR 0)
	sample, ok := Ratios(landmarks.NoFace(time.Now()))
	if ok {
		t.Errorf("expected no sample for face-absent frame, got %+v", sample)
	}
}

func TestRatios_MalformedMeshYieldsNoSample(t *testing.T) {
	short := landmarks.Observation{
		Timestamp:   time.Now(),
		FacePresent: true,
		Points:      make([]landmarks.Point, 10),
	}
	if _, ok := Ratios(short); ok {
		t.Error("expected no sample for a short mesh")
	}

	nan := landmarks.Synth(time.Now(), 0.3, 0.5)
	nan.Points[landmarks.LeftEye[1]].Y = math.NaN()
	if _, ok := Ratios(nan); ok {
		t.Error("expected no sample for a NaN landmark")
	}
}

func TestEyeAspectRatio_Clamped(t *testing.T) {
	// Vertical spans far larger than the horizontal span are jitter,
	// not anatomy; the ratio must clamp to 1.
	obs := landmarks.Synth(time.Now(), 5.0, 0)
	ear := EyeAspectRatio(obs.Subset(landmarks.LeftEye))
	if ear != 1.0 {
		t.Errorf("EAR should clamp to 1.0, got %v", ear)
	}

	mar := MouthAspectRatio(landmarks.Synth(time.Now(), 0, 9.0).Subset(landmarks.Mouth))
	if mar != 2.0 {
		t.Errorf("MAR should clamp to 2.0, got %v", mar)
	}
}

func TestAspectRatio_DegenerateHorizontalSpan(t *testing.T) {
	// All six points coincident: zero width must not divide by zero
	var pts [6]landmarks.Point
	if got := EyeAspectRatio(pts); got != 0 {
		t.Errorf("degenerate eye: got %v, want 0", got)
	}
}

func TestRatios_NonNegative(t *testing.T) {
	for _, ear := range []float64{0, 0.05, 0.25, 0.6} {
		sample, ok := Ratios(landmarks.Synth(time.Now(), ear, 0.1))
		if !ok {
			t.Fatalf("ear=%v: expected sample", ear)
		}
		if sample.EAR < 0 || sample.EAR > 1 {
			t.Errorf("ear=%v: EAR %v out of [0,1]", ear, sample.EAR)
		}
		if sample.MAR < 0 {
			t.Errorf("ear=%v: MAR %v negative", ear, sample.MAR)
		}
	}
}
