//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	"github.com/rios0rios0/upstreamwatch/internal/domain/repositories"
)

// StubReleaseListerByRepo implements repositories.ReleaseLister for the
// default provider, answering each "owner/repo" from its own StubReleaseLister.
// Unknown repositories have neither releases nor tags.
type StubReleaseListerByRepo map[string]*StubReleaseLister

var _ repositories.ReleaseLister = StubReleaseListerByRepo(nil)

func (s StubReleaseListerByRepo) Name() string { return entities.DefaultProvider }

func (s StubReleaseListerByRepo) LatestRelease(
	ctx context.Context, ref entities.RepoRef,
) (entities.VersionResult, error) {
	return s.lister(ref).LatestRelease(ctx, ref)
}

func (s StubReleaseListerByRepo) RecentReleases(
	ctx context.Context, ref entities.RepoRef, limit int,
) ([]entities.VersionResult, error) {
	return s.lister(ref).RecentReleases(ctx, ref, limit)
}

func (s StubReleaseListerByRepo) LatestTag(
	ctx context.Context, ref entities.RepoRef,
) (entities.VersionResult, error) {
	return s.lister(ref).LatestTag(ctx, ref)
}

func (s StubReleaseListerByRepo) lister(ref entities.RepoRef) *StubReleaseLister {
	if lister, ok := s[ref.String()]; ok {
		return lister
	}
	return &StubReleaseLister{ReleaseErr: entities.ErrNoReleases, TagErr: entities.ErrVersionNotFound}
}
