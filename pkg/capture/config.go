// Package capture provides webcam frame acquisition for the monitor.
package capture

import "fmt"

// Config holds camera capture parameters.
type Config struct {
	Device    int `json:"device"`    // V4L2 / AVFoundation device index
	Width     int `json:"width"`     // Frame width in pixels
	Height    int `json:"height"`    // Frame height in pixels
	Framerate int `json:"framerate"` // Target FPS
	Quality   int `json:"quality"`   // JPEG quality 1-100
}

// DefaultConfig returns sensible defaults for an in-cab camera.
func DefaultConfig() Config {
	return Config{
		Device:    0,
		Width:     640,
		Height:    480,
		Framerate: 15,
		Quality:   80,
	}
}

// Validate checks the configuration for unusable values.
func (c Config) Validate() error {
	if c.Device < 0 {
		return fmt.Errorf("device index must be >= 0, got %d", c.Device)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("resolution must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Framerate <= 0 {
		return fmt.Errorf("framerate must be positive, got %d", c.Framerate)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be 1-100, got %d", c.Quality)
	}
	return nil
}
