package entities

import "time"

// DefaultProvider is used when an upstream configuration names no provider.
const DefaultProvider = "github"

// TrackedEntity is a unit (a container, a fork) whose upstream repository is
// watched for new releases.
type TrackedEntity struct {
	Name     string          `yaml:"name"`
	Upstream *UpstreamConfig `yaml:"upstream,omitempty"`
}

// UpstreamConfig holds the upstream tracking configuration of an entity
// together with the state recorded by the last check.
type UpstreamConfig struct {
	Repo               string `yaml:"repo"`
	Provider           string `yaml:"provider,omitempty"`
	Version            string `yaml:"version,omitempty"` // version the local artifact is based on
	IncludePrereleases bool   `yaml:"prerelease,omitempty"`

	LatestVersion string    `yaml:"latest_version,omitempty"`
	LatestURL     string    `yaml:"latest_url,omitempty"`
	LastCheckedAt time.Time `yaml:"last_checked_at,omitempty"`
	LastError     string    `yaml:"last_error,omitempty"`
}

// IsTracked reports whether the entity has an upstream repository configured.
func (e TrackedEntity) IsTracked() bool {
	return e.Upstream != nil && e.Upstream.Repo != ""
}

// Clone returns a copy that does not share the upstream configuration.
func (e TrackedEntity) Clone() TrackedEntity {
	if e.Upstream == nil {
		return e
	}
	upstream := *e.Upstream
	e.Upstream = &upstream
	return e
}

// ProviderName returns the configured provider, or DefaultProvider.
func (u *UpstreamConfig) ProviderName() string {
	if u.Provider == "" {
		return DefaultProvider
	}
	return u.Provider
}

// RecordSuccess stores a resolved version and returns the tag known before.
func (u *UpstreamConfig) RecordSuccess(result VersionResult, checkedAt time.Time) string {
	previous := u.LatestVersion
	u.LatestVersion = result.Tag
	u.LatestURL = result.URL
	u.LastCheckedAt = checkedAt
	u.LastError = ""
	return previous
}

// RecordFailure stores a failed check. The last known version is kept.
func (u *UpstreamConfig) RecordFailure(err error, checkedAt time.Time) {
	u.LastCheckedAt = checkedAt
	u.LastError = err.Error()
}

// UpdateAvailable reports whether the latest upstream version is newer than
// the version the local artifact is based on.
func (u *UpstreamConfig) UpdateAvailable() bool {
	if u.Version == "" || u.LatestVersion == "" {
		return false
	}
	return IsNewerVersion(u.LatestVersion, u.Version)
}
