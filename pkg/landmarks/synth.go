package landmarks

import "time"

// Synth returns a face-present observation whose eye and mouth subsets
// produce the given EAR and MAR exactly: the horizontal span is unit
// length and each vertical pair spans the requested ratio. Used by the
// simulator and by tests.
func Synth(ts time.Time, ear, mar float64) Observation {
	pts := make([]Point, MinMeshPoints)
	place := func(idx [6]int, ratio float64) {
		pts[idx[0]] = Point{X: 0}
		pts[idx[3]] = Point{X: 1}
		pts[idx[1]] = Point{X: 0.3, Y: -ratio / 2}
		pts[idx[5]] = Point{X: 0.3, Y: ratio / 2}
		pts[idx[2]] = Point{X: 0.7, Y: -ratio / 2}
		pts[idx[4]] = Point{X: 0.7, Y: ratio / 2}
	}
	place(LeftEye, ear)
	place(RightEye, ear)
	place(Mouth, mar)
	return Observation{Timestamp: ts, FacePresent: true, Points: pts}
}

// NoFace returns a face-absent observation at the given time.
func NoFace(ts time.Time) Observation {
	return Observation{Timestamp: ts}
}
