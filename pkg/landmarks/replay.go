package landmarks

import (
	"context"
	"io"
	"sync"
	"time"
)

// Replay is a scripted landmark source for tests and the simulator.
// It serves a fixed sequence of observations at a configurable pace and
// returns io.EOF when the script is exhausted.
type Replay struct {
	mu    sync.Mutex
	queue []Observation

	// Interval is the simulated frame period. Zero means serve
	// observations as fast as the caller can consume them.
	Interval time.Duration
}

// NewReplay creates a replay source over the given observations.
func NewReplay(obs []Observation) *Replay {
	queue := make([]Observation, len(obs))
	copy(queue, obs)
	return &Replay{queue: queue}
}

// Next returns the next scripted observation.
func (r *Replay) Next(ctx context.Context) (Observation, error) {
	if r.Interval > 0 {
		select {
		case <-ctx.Done():
			return Observation{}, ctx.Err()
		case <-time.After(r.Interval):
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.queue) == 0 {
		return Observation{}, io.EOF
	}
	obs := r.queue[0]
	r.queue = r.queue[1:]
	return obs, nil
}

// Push appends more observations to the script.
func (r *Replay) Push(obs ...Observation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue = append(r.queue, obs...)
}

// Close implements Source.
func (r *Replay) Close() error { return nil }
