package clock

import (
	"context"
	"time"
)

// Clock provides the current time and wall-clock waits. The lifecycle loop
// depends on this interface so deadline behavior is testable.
type Clock interface {
	Now() time.Time
	WaitUntil(ctx context.Context, t time.Time) error
}

// Real is the wall clock.
type Real struct{}

func New() Real {
	return Real{}
}

func (Real) Now() time.Time {
	return time.Now().UTC()
}

// WaitUntil blocks until t. If t is already past it returns immediately.
func (Real) WaitUntil(ctx context.Context, t time.Time) error {
	d := time.Until(t)
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
