package repositories

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	domainRepos "github.com/rios0rios0/upstreamwatch/internal/domain/repositories"
)

// VersionSourceRegistry holds one version source per provider. Sources are
// long-lived so that each keeps its own rate limit state across cycles.
type VersionSourceRegistry struct {
	sources map[string]domainRepos.VersionSourceRepository
}

// NewVersionSourceRegistry creates an empty version source registry.
func NewVersionSourceRegistry() *VersionSourceRegistry {
	return &VersionSourceRegistry{
		sources: make(map[string]domainRepos.VersionSourceRepository),
	}
}

// Register adds a version source under its name (e.g. "github").
func (r *VersionSourceRegistry) Register(source domainRepos.VersionSourceRepository) {
	r.sources[source.Name()] = source
}

// Get returns the version source registered for the given provider name.
func (r *VersionSourceRegistry) Get(name string) (domainRepos.VersionSourceRepository, error) {
	source, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)",
			entities.ErrUnknownProvider, name, strings.Join(r.Names(), ", "))
	}
	return source, nil
}

// Names returns the sorted list of registered provider names.
func (r *VersionSourceRegistry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
