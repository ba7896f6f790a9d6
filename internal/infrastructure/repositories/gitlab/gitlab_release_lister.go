package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"
	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	"github.com/rios0rios0/upstreamwatch/internal/domain/repositories"
)

const (
	// ProviderName is the provider key entities use to select this source.
	ProviderName      = "gitlab"
	releasesPageSize  = 20
	rateLimitHeader   = "RateLimit-Remaining"
	rateLimitLowWater = 10
)

// GitLabReleaseLister implements repositories.ReleaseLister for GitLab.
type GitLabReleaseLister struct {
	client *gl.Client
	webURL string
}

var _ repositories.ReleaseLister = (*GitLabReleaseLister)(nil)

// NewGitLabReleaseLister creates a GitLab lister for the instance at baseURL.
// Retries are left to the shared HTTP client.
func NewGitLabReleaseLister(
	httpClient *http.Client,
	token string,
	baseURL string,
) (*GitLabReleaseLister, error) {
	client, err := gl.NewClient(
		token,
		gl.WithBaseURL(baseURL),
		gl.WithHTTPClient(httpClient),
		gl.WithCustomRetryMax(0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}
	return &GitLabReleaseLister{
		client: client,
		webURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (p *GitLabReleaseLister) Name() string { return ProviderName }

// LatestRelease returns the newest release that is neither upcoming nor a
// semver prerelease.
func (p *GitLabReleaseLister) LatestRelease(
	ctx context.Context,
	ref entities.RepoRef,
) (entities.VersionResult, error) {
	releases, err := p.listReleases(ctx, ref, releasesPageSize)
	if err != nil {
		return entities.VersionResult{}, err
	}

	for _, release := range releases {
		if release.UpcomingRelease || entities.IsPrerelease(release.TagName) {
			continue
		}
		return p.releaseResult(ref, release.TagName), nil
	}
	return entities.VersionResult{}, fmt.Errorf("%w for %s", entities.ErrNoReleases, ref)
}

// RecentReleases returns up to limit releases, newest first.
func (p *GitLabReleaseLister) RecentReleases(
	ctx context.Context,
	ref entities.RepoRef,
	limit int,
) ([]entities.VersionResult, error) {
	releases, err := p.listReleases(ctx, ref, limit)
	if err != nil {
		return nil, err
	}

	results := make([]entities.VersionResult, 0, len(releases))
	for _, release := range releases {
		results = append(results, p.releaseResult(ref, release.TagName))
	}
	return results, nil
}

// LatestTag returns the most recently updated tag.
func (p *GitLabReleaseLister) LatestTag(
	ctx context.Context,
	ref entities.RepoRef,
) (entities.VersionResult, error) {
	tags, resp, err := p.client.Tags.ListTags(
		ref.String(),
		&gl.ListTagsOptions{},
		gl.WithContext(ctx),
		withPerPage(1),
	)
	p.track(resp)
	if err != nil {
		if statusOf(resp) == http.StatusNotFound {
			return entities.VersionResult{}, fmt.Errorf(
				"%w: project %s not found", entities.ErrVersionNotFound, ref,
			)
		}
		return entities.VersionResult{}, classify(ref, "tags", resp, err)
	}

	if len(tags) == 0 {
		return entities.VersionResult{}, fmt.Errorf("%w for %s", entities.ErrVersionNotFound, ref)
	}

	name := tags[0].Name
	return entities.VersionResult{
		Tag: name,
		URL: fmt.Sprintf("%s/%s/-/tags/%s", p.webURL, ref, name),
	}, nil
}

func (p *GitLabReleaseLister) listReleases(
	ctx context.Context,
	ref entities.RepoRef,
	limit int,
) ([]*gl.Release, error) {
	releases, resp, err := p.client.Releases.ListReleases(
		ref.String(),
		&gl.ListReleasesOptions{},
		gl.WithContext(ctx),
		withPerPage(limit),
	)
	p.track(resp)
	if err != nil {
		if statusOf(resp) == http.StatusNotFound {
			return nil, fmt.Errorf("%w for %s", entities.ErrNoReleases, ref)
		}
		return nil, classify(ref, "releases", resp, err)
	}
	if len(releases) == 0 {
		return nil, fmt.Errorf("%w for %s", entities.ErrNoReleases, ref)
	}
	return releases, nil
}

func (p *GitLabReleaseLister) releaseResult(ref entities.RepoRef, tag string) entities.VersionResult {
	return entities.VersionResult{
		Tag: tag,
		URL: fmt.Sprintf("%s/%s/-/releases/%s", p.webURL, ref, tag),
	}
}

// withPerPage sets the page size on the outgoing request.
func withPerPage(limit int) gl.RequestOptionFunc {
	return func(req *retryablehttp.Request) error {
		query := req.URL.Query()
		query.Set("per_page", strconv.Itoa(limit))
		req.URL.RawQuery = query.Encode()
		return nil
	}
}

func (p *GitLabReleaseLister) track(resp *gl.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	raw := resp.Header.Get(rateLimitHeader)
	if raw == "" {
		return
	}
	if remaining, err := strconv.Atoi(raw); err == nil && remaining < rateLimitLowWater {
		logger.Warnf("GitLab API rate limit low: %d requests remaining", remaining)
	}
}

func classify(ref entities.RepoRef, what string, resp *gl.Response, err error) error {
	if statusOf(resp) == http.StatusTooManyRequests {
		logger.Warnf("GitLab API rate limited for %s. Consider setting upstream.gitlab.token.", ref)
		return fmt.Errorf(
			"%w for %s (configure upstream.gitlab.token for a higher quota): %v",
			entities.ErrRateLimited, ref, err,
		)
	}
	return fmt.Errorf("failed to fetch %s for %s: %w", what, ref, err)
}

func statusOf(resp *gl.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}
