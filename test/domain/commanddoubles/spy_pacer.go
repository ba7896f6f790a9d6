//go:build integration || unit || test

// Package commanddoubles provides test doubles for command interfaces.
package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import "context"

// SpyPacer counts waits instead of sleeping. When FailAfter is positive,
// the wait with that ordinal (1-based) returns Err.
type SpyPacer struct {
	Waits     int
	FailAfter int
	Err       error
}

func (s *SpyPacer) Wait(_ context.Context) error {
	s.Waits++
	if s.FailAfter > 0 && s.Waits == s.FailAfter {
		return s.Err
	}
	return nil
}
