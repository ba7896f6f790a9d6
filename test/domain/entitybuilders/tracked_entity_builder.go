//go:build integration || unit || test

// Package entitybuilders provides fluent builders for domain entities used in tests.
package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"time"

	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
)

// TrackedEntityBuilder helps create test entities with a fluent interface.
type TrackedEntityBuilder struct {
	*testkit.BaseBuilder
	name          string
	repo          string
	provider      string
	version       string
	prerelease    bool
	latestVersion string
	latestURL     string
	lastCheckedAt time.Time
	lastError     string
	untracked     bool
}

// NewTrackedEntityBuilder creates a new entity builder with sensible defaults.
func NewTrackedEntityBuilder() *TrackedEntityBuilder {
	return &TrackedEntityBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "test-entity",
		repo:        "acme/widget",
	}
}

// WithName sets the entity name.
func (b *TrackedEntityBuilder) WithName(name string) *TrackedEntityBuilder {
	b.name = name
	return b
}

// WithRepo sets the upstream "owner/repo" reference.
func (b *TrackedEntityBuilder) WithRepo(repo string) *TrackedEntityBuilder {
	b.repo = repo
	return b
}

// WithProvider sets the upstream provider.
func (b *TrackedEntityBuilder) WithProvider(provider string) *TrackedEntityBuilder {
	b.provider = provider
	return b
}

// WithVersion sets the version the entity is based on.
func (b *TrackedEntityBuilder) WithVersion(version string) *TrackedEntityBuilder {
	b.version = version
	return b
}

// WithPrereleases includes prereleases in the resolution.
func (b *TrackedEntityBuilder) WithPrereleases() *TrackedEntityBuilder {
	b.prerelease = true
	return b
}

// WithLatestVersion sets the previously resolved version.
func (b *TrackedEntityBuilder) WithLatestVersion(version string) *TrackedEntityBuilder {
	b.latestVersion = version
	return b
}

// WithLatestURL sets the previously resolved URL.
func (b *TrackedEntityBuilder) WithLatestURL(url string) *TrackedEntityBuilder {
	b.latestURL = url
	return b
}

// WithLastCheckedAt sets the timestamp of the previous check.
func (b *TrackedEntityBuilder) WithLastCheckedAt(checkedAt time.Time) *TrackedEntityBuilder {
	b.lastCheckedAt = checkedAt
	return b
}

// WithLastError sets the error recorded by the previous check.
func (b *TrackedEntityBuilder) WithLastError(message string) *TrackedEntityBuilder {
	b.lastError = message
	return b
}

// WithoutUpstream builds an entity with no upstream configuration.
func (b *TrackedEntityBuilder) WithoutUpstream() *TrackedEntityBuilder {
	b.untracked = true
	return b
}

// Build creates the entity (satisfies testkit.Builder interface).
func (b *TrackedEntityBuilder) Build() interface{} {
	return b.BuildTrackedEntity()
}

// BuildTrackedEntity creates the entity with a concrete return type.
func (b *TrackedEntityBuilder) BuildTrackedEntity() entities.TrackedEntity {
	if b.untracked {
		return entities.TrackedEntity{Name: b.name}
	}
	return entities.TrackedEntity{
		Name: b.name,
		Upstream: &entities.UpstreamConfig{
			Repo:               b.repo,
			Provider:           b.provider,
			Version:            b.version,
			IncludePrereleases: b.prerelease,
			LatestVersion:      b.latestVersion,
			LatestURL:          b.latestURL,
			LastCheckedAt:      b.lastCheckedAt,
			LastError:          b.lastError,
		},
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *TrackedEntityBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "test-entity"
	b.repo = "acme/widget"
	b.provider = ""
	b.version = ""
	b.prerelease = false
	b.latestVersion = ""
	b.latestURL = ""
	b.lastCheckedAt = time.Time{}
	b.lastError = ""
	b.untracked = false
	return b
}

// Clone creates a deep copy of the TrackedEntityBuilder.
func (b *TrackedEntityBuilder) Clone() testkit.Builder {
	return &TrackedEntityBuilder{
		BaseBuilder:   b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:          b.name,
		repo:          b.repo,
		provider:      b.provider,
		version:       b.version,
		prerelease:    b.prerelease,
		latestVersion: b.latestVersion,
		latestURL:     b.latestURL,
		lastCheckedAt: b.lastCheckedAt,
		lastError:     b.lastError,
		untracked:     b.untracked,
	}
}
