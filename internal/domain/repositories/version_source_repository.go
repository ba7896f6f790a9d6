package repositories

import (
	"context"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
)

// VersionSourceRepository resolves the latest published version of a remote
// repository on one hosting provider.
type VersionSourceRepository interface {
	// Name returns the provider identifier (e.g. "github", "gitlab").
	Name() string

	// ResolveLatestVersion returns the newest release of the repository, or
	// its newest tag when it has no releases. Failures wrap
	// entities.ErrVersionNotFound, entities.ErrRateLimited, or carry a
	// transient cause.
	ResolveLatestVersion(
		ctx context.Context,
		ref entities.RepoRef,
		includePrereleases bool,
	) (entities.VersionResult, error)
}

// ReleaseLister exposes the provider queries the release-then-tag fallback
// is built from. Each call maps to a single API request.
type ReleaseLister interface {
	Name() string

	// LatestRelease returns the latest non-prerelease release. It wraps
	// entities.ErrNoReleases when the provider reports none.
	LatestRelease(ctx context.Context, ref entities.RepoRef) (entities.VersionResult, error)

	// RecentReleases returns up to limit releases, newest first, prereleases included.
	RecentReleases(ctx context.Context, ref entities.RepoRef, limit int) ([]entities.VersionResult, error)

	// LatestTag returns the most recent tag. It wraps
	// entities.ErrVersionNotFound when there is none.
	LatestTag(ctx context.Context, ref entities.RepoRef) (entities.VersionResult, error)
}

// RateLimitReporter is implemented by version sources that track the
// provider's remaining request quota.
type RateLimitReporter interface {
	RateLimitRemaining() (int, bool)
}
