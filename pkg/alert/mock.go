package alert

import (
	"context"
	"sync"
	"time"

	"github.com/drivewatch/go-drivewatch/pkg/monitor"
)

// MockSink is a sink for testing. It records every play and stop and
// simulates a configurable playback duration.
type MockSink struct {
	// PlayDuration is how long a simulated sound lasts.
	PlayDuration time.Duration

	mu      sync.Mutex
	played  []monitor.AlertRequest
	playing bool
	stops   int
	stopCh  chan struct{}
}

// NewMockSink creates a mock sink with instant playback.
func NewMockSink() *MockSink {
	return &MockSink{}
}

// Play records the request and blocks for PlayDuration or until stopped.
func (m *MockSink) Play(ctx context.Context, req monitor.AlertRequest) error {
	m.mu.Lock()
	m.played = append(m.played, req)
	m.playing = true
	m.stopCh = make(chan struct{})
	stopCh := m.stopCh
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.playing = false
		m.mu.Unlock()
	}()

	if m.PlayDuration <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-stopCh:
		return nil
	case <-time.After(m.PlayDuration):
		return nil
	}
}

// Stop interrupts a simulated playback.
func (m *MockSink) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stops++
	if m.playing && m.stopCh != nil {
		close(m.stopCh)
		m.stopCh = nil
		m.playing = false
	}
	return nil
}

// Name returns the backend name.
func (m *MockSink) Name() string { return "mock" }

// Close implements Sink.
func (m *MockSink) Close() error { return nil }

// Played returns a copy of all recorded requests.
func (m *MockSink) Played() []monitor.AlertRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]monitor.AlertRequest, len(m.played))
	copy(out, m.played)
	return out
}

// Playing reports whether a simulated sound is in flight.
func (m *MockSink) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// Stops returns how many times Stop was called.
func (m *MockSink) Stops() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}
