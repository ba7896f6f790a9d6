package commands

import (
	"context"
	"time"
)

// Pacer enforces the pause between two consecutive upstream checks.
type Pacer interface {
	Wait(ctx context.Context) error
}

// IntervalPacer blocks for a fixed interval on every Wait.
type IntervalPacer struct {
	interval time.Duration
}

// NewIntervalPacer creates a pacer waiting the given interval.
func NewIntervalPacer(interval time.Duration) *IntervalPacer {
	return &IntervalPacer{interval: interval}
}

// Wait blocks for the interval or until the context is cancelled.
func (it *IntervalPacer) Wait(ctx context.Context) error {
	if it.interval <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(it.interval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
