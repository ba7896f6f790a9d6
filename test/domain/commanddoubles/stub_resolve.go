//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/upstreamwatch/internal/domain/commands"
	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
)

// StubResolve implements commands.Resolve with a canned answer.
type StubResolve struct {
	Result entities.VersionResult
	Err    error

	// spy: options received, in order
	Received []commands.ResolveOptions
}

func (s *StubResolve) Execute(_ context.Context, opts commands.ResolveOptions) (entities.VersionResult, error) {
	s.Received = append(s.Received, opts)
	return s.Result, s.Err
}
