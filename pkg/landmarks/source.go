package landmarks

import "context"

// Source produces one Observation per video frame.
type Source interface {
	// Next blocks until the next frame's observation is available.
	// It returns ctx.Err() once the context is cancelled.
	Next(ctx context.Context) (Observation, error)

	// Close releases any resources held by the source.
	Close() error
}
