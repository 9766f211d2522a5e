// Package landmarks defines the per-frame facial landmark contract between
// the detection sidecar and the monitoring core.
//
// Landmark indices follow the MediaPipe face-mesh convention.
// See: https://developers.google.com/mediapipe/solutions/vision/face_landmarker
package landmarks

import (
	"math"
	"time"
)

// MediaPipe face-mesh index subsets used for ratio computation.
// Each eye subset is ordered (outer corner, upper pair, inner corner,
// lower pair) so that indices 1/5 and 2/4 form the vertical pairs and
// 0/3 the horizontal span. The mouth subset uses the same layout.
var (
	LeftEye  = [6]int{33, 160, 158, 133, 153, 144}
	RightEye = [6]int{362, 385, 387, 263, 373, 380}
	Mouth    = [6]int{61, 81, 13, 291, 311, 402}
)

// MinMeshPoints is the smallest landmark count that still covers every
// index in the eye and mouth subsets. The full MediaPipe mesh has 478
// points; a shorter frame is malformed.
const MinMeshPoints = 468

// Point is a single landmark in normalized image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Hypot(dx, dy)
}

// Observation is one frame's worth of landmark data.
// It is immutable once produced; the core consumes it synchronously.
type Observation struct {
	// Timestamp is the frame's monotonic capture time.
	Timestamp time.Time `json:"-"`

	// FacePresent reports whether the detector found a face this frame.
	FacePresent bool `json:"face"`

	// Points holds the full landmark mesh when FacePresent is true.
	Points []Point `json:"points,omitempty"`
}

// Valid reports whether an observation with FacePresent=true actually
// carries a usable mesh. A short slice or non-finite coordinates in the
// eye/mouth subsets means the frame must be treated as face-absent.
func (o Observation) Valid() bool {
	if !o.FacePresent {
		return false
	}
	if len(o.Points) < MinMeshPoints {
		return false
	}
	for _, set := range [][6]int{LeftEye, RightEye, Mouth} {
		for _, idx := range set {
			p := o.Points[idx]
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
				return false
			}
		}
	}
	return true
}

// Subset extracts the points at the given indices.
// The caller must have checked Valid first.
func (o Observation) Subset(indices [6]int) [6]Point {
	var out [6]Point
	for i, idx := range indices {
		out[i] = o.Points[idx]
	}
	return out
}
