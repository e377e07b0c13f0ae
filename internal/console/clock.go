package console

import (
	"context"
	"time"
)

// Clock abstracts timer waits so the polling loops can be driven
// deterministically in tests.
type Clock interface {
	// Sleep blocks for d or until ctx is cancelled, returning ctx.Err()
	// in the cancelled case.
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

// SystemClock returns the real-time clock used outside tests.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
