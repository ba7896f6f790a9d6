package azuredevops

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	"github.com/rios0rios0/upstreamwatch/internal/domain/repositories"
)

const (
	// ProviderName is the provider key entities use to select this source.
	ProviderName = "azuredevops"
	apiVersion   = "7.0"
)

// errStatus carries a non-2xx answer of the Azure DevOps REST API.
type errStatus struct {
	code int
	body string
}

func (e *errStatus) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.code, e.body)
}

// AzureDevOpsReleaseLister implements repositories.ReleaseLister for Azure
// Repos. Azure Repos has no releases: the tag path is always taken. An
// upstream "owner/repo" reads as "project/repository" in the organization.
type AzureDevOpsReleaseLister struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

var _ repositories.ReleaseLister = (*AzureDevOpsReleaseLister)(nil)

// NewAzureDevOpsReleaseLister creates a lister for one organization. The
// organization may be a bare name or a full URL.
func NewAzureDevOpsReleaseLister(
	httpClient *http.Client,
	instanceURL string,
	organization string,
	token string,
) *AzureDevOpsReleaseLister {
	org := strings.TrimSuffix(organization, "/")
	if !strings.HasPrefix(org, "https://") && !strings.HasPrefix(org, "http://") {
		org = strings.TrimSuffix(instanceURL, "/") + "/" + org
	}

	return &AzureDevOpsReleaseLister{
		httpClient: httpClient,
		baseURL:    org,
		token:      token,
	}
}

func (p *AzureDevOpsReleaseLister) Name() string { return ProviderName }

// LatestRelease always reports no releases.
func (p *AzureDevOpsReleaseLister) LatestRelease(
	_ context.Context,
	ref entities.RepoRef,
) (entities.VersionResult, error) {
	return entities.VersionResult{}, fmt.Errorf("%w for %s", entities.ErrNoReleases, ref)
}

// RecentReleases always returns an empty list.
func (p *AzureDevOpsReleaseLister) RecentReleases(
	_ context.Context,
	_ entities.RepoRef,
	_ int,
) ([]entities.VersionResult, error) {
	return nil, nil
}

// LatestTag lists the repository's tag refs and returns the highest version.
func (p *AzureDevOpsReleaseLister) LatestTag(
	ctx context.Context,
	ref entities.RepoRef,
) (entities.VersionResult, error) {
	endpoint := fmt.Sprintf("/%s/_apis/git/repositories/%s/refs?filter=tags/&api-version=%s",
		url.PathEscape(ref.Owner), url.PathEscape(ref.Repo), apiVersion)

	body, err := p.get(ctx, endpoint)
	if err != nil {
		return entities.VersionResult{}, p.classify(ref, err)
	}

	var result struct {
		Value []struct {
			Name string `json:"name"`
		} `json:"value"`
	}
	if unmarshalErr := json.Unmarshal(body, &result); unmarshalErr != nil {
		return entities.VersionResult{}, fmt.Errorf("failed to parse tags response for %s: %w", ref, unmarshalErr)
	}

	tags := make([]string, 0, len(result.Value))
	for _, r := range result.Value {
		tags = append(tags, strings.TrimPrefix(r.Name, "refs/tags/"))
	}
	if len(tags) == 0 {
		return entities.VersionResult{}, fmt.Errorf("%w for %s", entities.ErrVersionNotFound, ref)
	}
	entities.SortVersionsDescending(tags)

	return entities.VersionResult{
		Tag: tags[0],
		URL: fmt.Sprintf("%s/%s/_git/%s?version=GT%s",
			p.baseURL, url.PathEscape(ref.Owner), url.PathEscape(ref.Repo), url.QueryEscape(tags[0])),
	}, nil
}

func (p *AzureDevOpsReleaseLister) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if p.token != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(":" + p.token))
		req.Header.Set("Authorization", "Basic "+auth)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &errStatus{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

func (p *AzureDevOpsReleaseLister) classify(ref entities.RepoRef, err error) error {
	var status *errStatus
	if errors.As(err, &status) {
		switch status.code {
		case http.StatusNotFound:
			return fmt.Errorf("%w: repository %s not found", entities.ErrVersionNotFound, ref)
		case http.StatusTooManyRequests:
			logger.Warnf("Azure DevOps API rate limited for %s", ref)
			return fmt.Errorf("%w for %s: %v", entities.ErrRateLimited, ref, err)
		}
	}
	return fmt.Errorf("failed to fetch tags for %s: %w", ref, err)
}
