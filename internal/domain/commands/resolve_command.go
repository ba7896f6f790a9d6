package commands

import (
	"context"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	infraRepos "github.com/rios0rios0/upstreamwatch/internal/infrastructure/repositories"
)

// Resolve is the interface for a one-off version resolution.
type Resolve interface {
	Execute(ctx context.Context, opts ResolveOptions) (entities.VersionResult, error)
}

// ResolveOptions describes the repository to resolve.
type ResolveOptions struct {
	Provider           string // defaults to entities.DefaultProvider
	Repo               string // "owner/repo"
	IncludePrereleases bool
}

// ResolveCommand resolves the latest version of a single repository,
// outside of any check cycle.
type ResolveCommand struct {
	sources *infraRepos.VersionSourceRegistry
}

// NewResolveCommand creates a new ResolveCommand.
func NewResolveCommand(sources *infraRepos.VersionSourceRegistry) *ResolveCommand {
	return &ResolveCommand{sources: sources}
}

// Execute parses the repository reference and resolves its latest version.
func (it *ResolveCommand) Execute(
	ctx context.Context,
	opts ResolveOptions,
) (entities.VersionResult, error) {
	ref, err := entities.ParseRepoRef(opts.Repo)
	if err != nil {
		return entities.VersionResult{}, err
	}

	provider := opts.Provider
	if provider == "" {
		provider = entities.DefaultProvider
	}

	source, err := it.sources.Get(provider)
	if err != nil {
		return entities.VersionResult{}, err
	}

	return source.ResolveLatestVersion(ctx, ref, opts.IncludePrereleases)
}
