package repositories

import (
	"net/http"

	"go.uber.org/dig"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	domainRepos "github.com/rios0rios0/upstreamwatch/internal/domain/repositories"
	azRepo "github.com/rios0rios0/upstreamwatch/internal/infrastructure/repositories/azuredevops"
	"github.com/rios0rios0/upstreamwatch/internal/infrastructure/repositories/events"
	gitRepo "github.com/rios0rios0/upstreamwatch/internal/infrastructure/repositories/git"
	ghRepo "github.com/rios0rios0/upstreamwatch/internal/infrastructure/repositories/github"
	glRepo "github.com/rios0rios0/upstreamwatch/internal/infrastructure/repositories/gitlab"
	"github.com/rios0rios0/upstreamwatch/internal/infrastructure/repositories/memory"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(NewHTTPClient); err != nil {
		return err
	}

	// Register version source registry with one source per provider
	if err := container.Provide(newVersionSources); err != nil {
		return err
	}

	if err := container.Provide(memory.NewMemoryEntityRepository); err != nil {
		return err
	}
	if err := container.Provide(events.NewBus); err != nil {
		return err
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *memory.MemoryEntityRepository) domainRepos.EntityRepository {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *events.Bus) domainRepos.ReportPublisher {
		return impl
	}); err != nil {
		return err
	}

	return nil
}

func newVersionSources(
	settings *entities.Settings,
	httpClient *http.Client,
) (*VersionSourceRegistry, error) {
	upstream := settings.Upstream
	reg := NewVersionSourceRegistry()

	github, err := ghRepo.NewGitHubReleaseLister(
		httpClient, settings.ProviderToken(ghRepo.ProviderName), upstream.APIURL, upstream.WebURL,
	)
	if err != nil {
		return nil, err
	}
	reg.Register(NewFallbackVersionSource(github))

	gitlab, err := glRepo.NewGitLabReleaseLister(
		httpClient, settings.ProviderToken(glRepo.ProviderName), upstream.GitLab.URL,
	)
	if err != nil {
		return nil, err
	}
	reg.Register(NewFallbackVersionSource(gitlab))

	reg.Register(NewFallbackVersionSource(
		gitRepo.NewGitReleaseLister(upstream.Git.URL, settings.ProviderToken(gitRepo.ProviderName), upstream.Timeout),
	))

	if upstream.AzureDevOps.Organization != "" {
		reg.Register(NewFallbackVersionSource(azRepo.NewAzureDevOpsReleaseLister(
			httpClient, upstream.AzureDevOps.URL, upstream.AzureDevOps.Organization,
			settings.ProviderToken(azRepo.ProviderName),
		)))
	}

	return reg, nil
}
