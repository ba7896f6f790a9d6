//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	"github.com/rios0rios0/upstreamwatch/internal/domain/repositories"
)

// StubReleaseLister implements repositories.ReleaseLister as a configurable spy.
type StubReleaseLister struct {
	// --- LatestRelease ---
	Release    entities.VersionResult
	ReleaseErr error

	// --- RecentReleases ---
	Releases    []entities.VersionResult
	ReleasesErr error

	// --- LatestTag ---
	Tag    entities.VersionResult
	TagErr error

	// spy: call counts
	LatestReleaseCalls  int
	RecentReleasesCalls int
	LatestTagCalls      int
	// spy: limit passed to RecentReleases
	RecentLimit int
}

var _ repositories.ReleaseLister = (*StubReleaseLister)(nil)

func (s *StubReleaseLister) Name() string { return "stub" }

func (s *StubReleaseLister) LatestRelease(
	_ context.Context, _ entities.RepoRef,
) (entities.VersionResult, error) {
	s.LatestReleaseCalls++
	return s.Release, s.ReleaseErr
}

func (s *StubReleaseLister) RecentReleases(
	_ context.Context, _ entities.RepoRef, limit int,
) ([]entities.VersionResult, error) {
	s.RecentReleasesCalls++
	s.RecentLimit = limit
	return s.Releases, s.ReleasesErr
}

func (s *StubReleaseLister) LatestTag(
	_ context.Context, _ entities.RepoRef,
) (entities.VersionResult, error) {
	s.LatestTagCalls++
	return s.Tag, s.TagErr
}
