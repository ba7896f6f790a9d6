package repositories

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	domainRepos "github.com/rios0rios0/upstreamwatch/internal/domain/repositories"
)

// recentReleasesLimit is how many releases are listed when prereleases count.
const recentReleasesLimit = 5

// FallbackVersionSource resolves the latest version from releases first and
// falls back to tags only when the repository has no release at all.
type FallbackVersionSource struct {
	lister domainRepos.ReleaseLister
}

// NewFallbackVersionSource wraps a provider's release lister.
func NewFallbackVersionSource(lister domainRepos.ReleaseLister) *FallbackVersionSource {
	return &FallbackVersionSource{lister: lister}
}

// Name returns the wrapped provider's name.
func (it *FallbackVersionSource) Name() string {
	return it.lister.Name()
}

// ResolveLatestVersion returns the latest release, or the latest tag when the
// release path reports no releases. Any other release failure is returned
// as is, without querying tags.
func (it *FallbackVersionSource) ResolveLatestVersion(
	ctx context.Context,
	ref entities.RepoRef,
	includePrereleases bool,
) (entities.VersionResult, error) {
	release, found, err := it.release(ctx, ref, includePrereleases)
	if err != nil {
		return entities.VersionResult{}, err
	}
	if found {
		return release, nil
	}

	logger.Debugf("No releases found for %s, falling back to tags", ref)

	tag, err := it.lister.LatestTag(ctx, ref)
	if err != nil {
		return entities.VersionResult{}, err
	}
	return tag, nil
}

// RateLimitRemaining forwards the lister's rate limit state, if it has one.
func (it *FallbackVersionSource) RateLimitRemaining() (int, bool) {
	if reporter, ok := it.lister.(domainRepos.RateLimitReporter); ok {
		return reporter.RateLimitRemaining()
	}
	return 0, false
}

func (it *FallbackVersionSource) release(
	ctx context.Context,
	ref entities.RepoRef,
	includePrereleases bool,
) (entities.VersionResult, bool, error) {
	if !includePrereleases {
		release, err := it.lister.LatestRelease(ctx, ref)
		if errors.Is(err, entities.ErrNoReleases) {
			return entities.VersionResult{}, false, nil
		}
		if err != nil {
			return entities.VersionResult{}, false, err
		}
		return release, true, nil
	}

	releases, err := it.lister.RecentReleases(ctx, ref, recentReleasesLimit)
	if errors.Is(err, entities.ErrNoReleases) {
		return entities.VersionResult{}, false, nil
	}
	if err != nil {
		return entities.VersionResult{}, false, err
	}
	if len(releases) == 0 {
		return entities.VersionResult{}, false, nil
	}
	// providers list releases newest first
	return releases[0], true, nil
}
