package service

import (
	"context"
	"time"
)

type (
	// Sleeper suspends the poll loop between attempts
	Sleeper interface {
		Sleep(ctx context.Context, d time.Duration) error
	}

	timerSleeper struct{}
)

// NewSleeper returns sleeper based on timer, it returns ctx.Err() once ctx done
func NewSleeper() Sleeper {
	return timerSleeper{}
}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
