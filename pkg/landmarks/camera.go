package landmarks

import (
	"context"
	"time"

	"github.com/drivewatch/go-drivewatch/internal/log"
)

// FrameGrabber supplies JPEG frames, typically a webcam.
type FrameGrabber interface {
	ReadJPEG() ([]byte, error)
	Close() error
}

// Detector turns a JPEG frame into an Observation, typically the
// sidecar Client.
type Detector interface {
	Detect(ctx context.Context, jpeg []byte) (Observation, error)
	Close() error
}

// CameraSource pairs a frame grabber with a detector to implement
// Source at a fixed frame period. A failed grab or detection yields a
// face-absent observation rather than an error: the temporal tracker
// already knows how to absorb dropped frames.
type CameraSource struct {
	grabber  FrameGrabber
	detector Detector
	ticker   *time.Ticker
}

// NewCameraSource creates a camera-backed source at the given period.
func NewCameraSource(grabber FrameGrabber, detector Detector, period time.Duration) *CameraSource {
	return &CameraSource{
		grabber:  grabber,
		detector: detector,
		ticker:   time.NewTicker(period),
	}
}

// Next grabs and detects the next frame.
func (s *CameraSource) Next(ctx context.Context) (Observation, error) {
	select {
	case <-ctx.Done():
		return Observation{}, ctx.Err()
	case <-s.ticker.C:
	}

	jpeg, err := s.grabber.ReadJPEG()
	if err != nil {
		log.Debug("frame grab failed", "err", err)
		return Observation{Timestamp: time.Now()}, nil
	}

	obs, err := s.detector.Detect(ctx, jpeg)
	if err != nil {
		log.Debug("landmark detection failed", "err", err)
		return Observation{Timestamp: time.Now()}, nil
	}
	return obs, nil
}

// Close releases the grabber and detector.
func (s *CameraSource) Close() error {
	s.ticker.Stop()
	s.grabber.Close()
	return s.detector.Close()
}
