package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v69/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	"github.com/rios0rios0/upstreamwatch/internal/domain/repositories"
)

const (
	// ProviderName is the provider key entities use to select this source.
	ProviderName = "github"
	userAgent    = "upstreamwatch"
)

// GitHubReleaseLister implements repositories.ReleaseLister for the GitHub
// REST API and tracks the remaining request quota from response headers.
type GitHubReleaseLister struct {
	client    *gh.Client
	webURL    string
	rateLimit *rateLimitState
}

var _ repositories.ReleaseLister = (*GitHubReleaseLister)(nil)

// NewGitHubReleaseLister creates a GitHub lister. The token is optional: an
// empty token selects anonymous mode, which only differs by provider quota.
func NewGitHubReleaseLister(
	httpClient *http.Client,
	token string,
	apiURL string,
	webURL string,
) (*GitHubReleaseLister, error) {
	baseURL, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", apiURL, err)
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}

	client := gh.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	client.BaseURL = baseURL
	client.UserAgent = userAgent

	return &GitHubReleaseLister{
		client:    client,
		webURL:    strings.TrimSuffix(webURL, "/"),
		rateLimit: &rateLimitState{},
	}, nil
}

func (p *GitHubReleaseLister) Name() string { return ProviderName }

// RateLimitRemaining returns the last quota reported by GitHub, if any.
func (p *GitHubReleaseLister) RateLimitRemaining() (int, bool) {
	return p.rateLimit.get()
}

// LatestRelease queries GET /repos/{owner}/{repo}/releases/latest.
func (p *GitHubReleaseLister) LatestRelease(
	ctx context.Context,
	ref entities.RepoRef,
) (entities.VersionResult, error) {
	release, resp, err := p.client.Repositories.GetLatestRelease(requestContext(ctx), ref.Owner, ref.Repo)
	p.track(resp)
	if err != nil {
		if statusOf(resp) == http.StatusNotFound {
			return entities.VersionResult{}, fmt.Errorf("%w for %s", entities.ErrNoReleases, ref)
		}
		return entities.VersionResult{}, p.classify(ref, "releases", resp, err)
	}

	return entities.VersionResult{
		Tag: release.GetTagName(),
		URL: release.GetHTMLURL(),
	}, nil
}

// RecentReleases queries GET /repos/{owner}/{repo}/releases?per_page={limit}.
func (p *GitHubReleaseLister) RecentReleases(
	ctx context.Context,
	ref entities.RepoRef,
	limit int,
) ([]entities.VersionResult, error) {
	releases, resp, err := p.client.Repositories.ListReleases(
		requestContext(ctx), ref.Owner, ref.Repo, &gh.ListOptions{PerPage: limit},
	)
	p.track(resp)
	if err != nil {
		if statusOf(resp) == http.StatusNotFound {
			return nil, fmt.Errorf("%w for %s", entities.ErrNoReleases, ref)
		}
		return nil, p.classify(ref, "releases", resp, err)
	}

	results := make([]entities.VersionResult, 0, len(releases))
	for _, release := range releases {
		results = append(results, entities.VersionResult{
			Tag: release.GetTagName(),
			URL: release.GetHTMLURL(),
		})
	}
	return results, nil
}

// LatestTag queries GET /repos/{owner}/{repo}/tags?per_page=1. GitHub does
// not return a browsable link for tags, so one is built from the web URL.
func (p *GitHubReleaseLister) LatestTag(
	ctx context.Context,
	ref entities.RepoRef,
) (entities.VersionResult, error) {
	tags, resp, err := p.client.Repositories.ListTags(
		requestContext(ctx), ref.Owner, ref.Repo, &gh.ListOptions{PerPage: 1},
	)
	p.track(resp)
	if err != nil {
		if statusOf(resp) == http.StatusNotFound {
			return entities.VersionResult{}, fmt.Errorf(
				"%w: repository %s not found", entities.ErrVersionNotFound, ref,
			)
		}
		return entities.VersionResult{}, p.classify(ref, "tags", resp, err)
	}

	if len(tags) == 0 {
		return entities.VersionResult{}, fmt.Errorf("%w for %s", entities.ErrVersionNotFound, ref)
	}

	name := tags[0].GetName()
	return entities.VersionResult{
		Tag: name,
		URL: fmt.Sprintf("%s/%s/%s/releases/tag/%s", p.webURL, ref.Owner, ref.Repo, name),
	}, nil
}

// requestContext turns off the client's own rate limit bookkeeping, which
// would refuse every request until the reset time after a single 403. The
// quota tracked by rateLimitState stays advisory.
func requestContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, gh.BypassRateLimitCheck, true)
}

func (p *GitHubReleaseLister) track(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	p.rateLimit.update(resp.Header)
}

// classify separates quota rejections from every other failure.
func (p *GitHubReleaseLister) classify(
	ref entities.RepoRef,
	what string,
	resp *gh.Response,
	err error,
) error {
	var rateLimitErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	status := statusOf(resp)
	if errors.As(err, &rateLimitErr) || errors.As(err, &abuseErr) ||
		status == http.StatusForbidden || status == http.StatusTooManyRequests {
		logger.Warnf("GitHub API rate limited for %s. Consider setting upstream.token.", ref)
		return fmt.Errorf(
			"%w for %s (configure upstream.token for a higher quota): %v",
			entities.ErrRateLimited, ref, err,
		)
	}
	return fmt.Errorf("failed to fetch %s for %s: %w", what, ref, err)
}

func statusOf(resp *gh.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}
