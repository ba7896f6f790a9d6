//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync/atomic"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
)

// SpyCheck implements commands.Check. Calls is safe to read from the test
// goroutine while the scheduler runs cycles in the background.
type SpyCheck struct {
	Reports []entities.CheckReport
	Err     error
	// PanicWith makes every cycle panic with the given value when non-nil.
	PanicWith any
	// Release, when set, blocks every cycle until it is closed.
	Release chan struct{}
	// Started receives one value per cycle that begins, when set.
	Started chan struct{}

	calls atomic.Int32
}

func (s *SpyCheck) RunCycle(_ context.Context) ([]entities.CheckReport, error) {
	s.calls.Add(1)
	if s.Started != nil {
		s.Started <- struct{}{}
	}
	if s.Release != nil {
		<-s.Release
	}
	if s.PanicWith != nil {
		panic(s.PanicWith)
	}
	return s.Reports, s.Err
}

// Calls returns how many cycles were started.
func (s *SpyCheck) Calls() int {
	return int(s.calls.Load())
}
