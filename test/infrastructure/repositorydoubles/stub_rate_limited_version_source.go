//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import "github.com/rios0rios0/upstreamwatch/internal/domain/repositories"

// StubRateLimitedVersionSource is a StubVersionSourceRepository that also
// reports a canned API quota.
type StubRateLimitedVersionSource struct {
	StubVersionSourceRepository

	Remaining int
	Known     bool
}

var _ repositories.RateLimitReporter = (*StubRateLimitedVersionSource)(nil)

func (s *StubRateLimitedVersionSource) RateLimitRemaining() (int, bool) {
	return s.Remaining, s.Known
}
