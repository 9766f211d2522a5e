package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// ErrNoFrame is returned when the camera produced no usable frame.
var ErrNoFrame = errors.New("no frame from camera")

// Webcam grabs JPEG frames from a local capture device via OpenCV.
type Webcam struct {
	cfg Config

	mu     sync.Mutex
	cam    *gocv.VideoCapture
	frame  gocv.Mat
	closed bool
}

// OpenWebcam opens the configured capture device.
func OpenWebcam(cfg Config) (*Webcam, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cam, err := gocv.OpenVideoCapture(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", cfg.Device, err)
	}

	cam.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	cam.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	cam.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))

	return &Webcam{
		cfg:   cfg,
		cam:   cam,
		frame: gocv.NewMat(),
	}, nil
}

// ReadJPEG grabs the next frame and returns it JPEG-encoded.
func (w *Webcam) ReadJPEG() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrNoFrame
	}
	if ok := w.cam.Read(&w.frame); !ok || w.frame.Empty() {
		return nil, ErrNoFrame
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, w.frame,
		[]int{gocv.IMWriteJpegQuality, w.cfg.Quality})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	// The native buffer is freed on Close; hand back a copy.
	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}

// Config returns the capture configuration.
func (w *Webcam) Config() Config {
	return w.cfg
}

// Close releases the capture device.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	w.frame.Close()
	return w.cam.Close()
}
