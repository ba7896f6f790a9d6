package git

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	"github.com/rios0rios0/upstreamwatch/internal/domain/repositories"
)

// ProviderName is the provider key entities use to select this source.
const ProviderName = "git"

// GitReleaseLister implements repositories.ReleaseLister for any host that
// speaks the git smart HTTP protocol. Plain git has no releases, so every
// resolution goes through the tag path, which picks the highest version
// advertised by the remote.
type GitReleaseLister struct {
	baseURL string
	token   string
	timeout time.Duration
}

var _ repositories.ReleaseLister = (*GitReleaseLister)(nil)

// NewGitReleaseLister creates a lister for repositories under baseURL.
func NewGitReleaseLister(baseURL, token string, timeout time.Duration) *GitReleaseLister {
	return &GitReleaseLister{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		timeout: timeout,
	}
}

func (p *GitReleaseLister) Name() string { return ProviderName }

// LatestRelease always reports no releases.
func (p *GitReleaseLister) LatestRelease(
	_ context.Context,
	ref entities.RepoRef,
) (entities.VersionResult, error) {
	return entities.VersionResult{}, fmt.Errorf("%w for %s", entities.ErrNoReleases, ref)
}

// RecentReleases always returns an empty list.
func (p *GitReleaseLister) RecentReleases(
	_ context.Context,
	_ entities.RepoRef,
	_ int,
) ([]entities.VersionResult, error) {
	return nil, nil
}

// LatestTag lists the remote's tags and returns the highest one.
func (p *GitReleaseLister) LatestTag(
	ctx context.Context,
	ref entities.RepoRef,
) (entities.VersionResult, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	remote := gogit.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: "origin",
		URLs: []string{p.remoteURL(ref)},
	})

	opts := &gogit.ListOptions{PeelingOption: gogit.IgnorePeeled}
	if p.token != "" {
		opts.Auth = &githttp.BasicAuth{Username: "x-access-token", Password: p.token}
	}

	refs, err := remote.ListContext(ctx, opts)
	if err != nil {
		if errors.Is(err, transport.ErrRepositoryNotFound) ||
			errors.Is(err, transport.ErrEmptyRemoteRepository) {
			return entities.VersionResult{}, fmt.Errorf(
				"%w: repository %s not found or empty", entities.ErrVersionNotFound, ref,
			)
		}
		return entities.VersionResult{}, fmt.Errorf("failed to fetch tags for %s: %w", ref, err)
	}

	tag, ok := latestTagName(refs)
	if !ok {
		return entities.VersionResult{}, fmt.Errorf("%w for %s", entities.ErrVersionNotFound, ref)
	}

	return entities.VersionResult{
		Tag: tag,
		URL: fmt.Sprintf("%s/%s/releases/tag/%s", p.baseURL, ref, tag),
	}, nil
}

func (p *GitReleaseLister) remoteURL(ref entities.RepoRef) string {
	return fmt.Sprintf("%s/%s.git", p.baseURL, ref)
}

// latestTagName returns the highest tag among the advertised references.
func latestTagName(refs []*plumbing.Reference) (string, bool) {
	var tags []string
	for _, r := range refs {
		if r.Name().IsTag() {
			tags = append(tags, r.Name().Short())
		}
	}
	if len(tags) == 0 {
		return "", false
	}
	entities.SortVersionsDescending(tags)
	return tags[0], true
}
