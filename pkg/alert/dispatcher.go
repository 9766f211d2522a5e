package alert

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/drivewatch/go-drivewatch/internal/log"
	"github.com/drivewatch/go-drivewatch/pkg/monitor"
)

// Dispatcher hands alarm requests to a background worker over a single
// in-flight slot. Submit never blocks. Coalescing rules: a request at
// or below the active severity is dropped; a higher-severity request
// preempts the in-flight sound.
type Dispatcher struct {
	sink Sink
	ch   chan monitor.AlertRequest

	mu     sync.Mutex
	active monitor.Severity // Severity currently playing or queued

	dropped atomic.Int64
}

// NewDispatcher creates a dispatcher over the given sink.
// Run must be started before Submit will have any effect.
func NewDispatcher(sink Sink) *Dispatcher {
	return &Dispatcher{
		sink: sink,
		ch:   make(chan monitor.AlertRequest, 1),
	}
}

// Submit offers an alarm request to the playback worker. It is
// non-blocking and safe to call from the frame-processing path.
// SeverityNone requests carry no sound and are ignored.
func (d *Dispatcher) Submit(req monitor.AlertRequest) {
	if req.Severity == monitor.SeverityNone {
		return
	}

	d.mu.Lock()
	current := d.active
	if current >= req.Severity {
		d.mu.Unlock()
		d.dropped.Add(1)
		log.Debug("alert coalesced", "severity", req.Severity.String(), "active", current.String())
		return
	}
	d.active = req.Severity
	d.mu.Unlock()

	// Preempt a lower-severity sound before queueing the new one.
	if current > monitor.SeverityNone {
		if err := d.sink.Stop(); err != nil {
			log.Warn("alarm preempt failed", "err", err)
		}
	}

	select {
	case d.ch <- req:
	default:
		// Worker unavailable; audio delivery failure must never
		// become a vision-pipeline failure.
		d.dropped.Add(1)
		log.Warn("alert dispatcher busy, dropping request",
			"severity", req.Severity.String(), "reason", req.Reason)
		d.mu.Lock()
		d.active = current
		d.mu.Unlock()
	}
}

// Run is the playback worker loop. It blocks until ctx is cancelled
// and should be started in its own goroutine.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			d.sink.Stop()
			return

		case req := <-d.ch:
			if err := d.sink.Play(ctx, req); err != nil && ctx.Err() == nil {
				log.Warn("alarm playback failed", "severity", req.Severity.String(), "err", err)
			}

			d.mu.Lock()
			// A preempting request may already sit in the slot; only
			// release the severity gate when nothing is pending.
			if len(d.ch) == 0 {
				d.active = monitor.SeverityNone
			}
			d.mu.Unlock()
		}
	}
}

// Dropped returns how many requests were coalesced or dropped.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}
