// Package alert maps driver state transitions to alarm playback.
//
// The dispatcher owns a single in-flight request slot on a dedicated
// goroutine, so audio device latency can never stall the frame loop:
// a stalled frame loop means missed micro-sleep detection exactly when
// the driver is most at risk.
package alert

import (
	"context"
	"io"

	"github.com/drivewatch/go-drivewatch/pkg/monitor"
)

// Sink plays alarm sounds. Implementations must make Play interruptible
// via Stop from another goroutine.
type Sink interface {
	// Play renders the alarm for one request and blocks until the
	// sound finishes, the context is cancelled, or Stop is called.
	Play(ctx context.Context, req monitor.AlertRequest) error

	// Stop interrupts an in-flight Play, if any.
	// It is safe to call Stop when nothing is playing.
	Stop() error

	// Name returns the backend name (e.g., "exec", "mock").
	Name() string

	// Close releases all resources.
	io.Closer
}
