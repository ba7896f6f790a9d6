//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. They are hand-written, without a mocking framework.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	"github.com/rios0rios0/upstreamwatch/internal/domain/repositories"
)

// StubVersionSourceRepository implements repositories.VersionSourceRepository
// with canned answers keyed by "owner/repo".
type StubVersionSourceRepository struct {
	ProviderName string
	Results      map[string]entities.VersionResult
	Errors       map[string]error
	// OnResolve, when set, runs at the start of every resolution
	OnResolve func()

	// spy: repositories requested, in order
	Requested []entities.RepoRef
	// spy: includePrereleases flag of each request
	Prereleases []bool
}

var _ repositories.VersionSourceRepository = (*StubVersionSourceRepository)(nil)

func (s *StubVersionSourceRepository) Name() string {
	if s.ProviderName == "" {
		return entities.DefaultProvider
	}
	return s.ProviderName
}

func (s *StubVersionSourceRepository) ResolveLatestVersion(
	_ context.Context,
	ref entities.RepoRef,
	includePrereleases bool,
) (entities.VersionResult, error) {
	if s.OnResolve != nil {
		s.OnResolve()
	}
	s.Requested = append(s.Requested, ref)
	s.Prereleases = append(s.Prereleases, includePrereleases)

	if err, ok := s.Errors[ref.String()]; ok {
		return entities.VersionResult{}, err
	}
	if result, ok := s.Results[ref.String()]; ok {
		return result, nil
	}
	return entities.VersionResult{}, fmt.Errorf("%w for %s", entities.ErrVersionNotFound, ref)
}
