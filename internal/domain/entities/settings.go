package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCron         = "0 */12 * * *"
	DefaultDelay        = 1500 * time.Millisecond
	DefaultStartupDelay = 30 * time.Second
	DefaultTimeout      = 10 * time.Second
	DefaultGitHubAPIURL = "https://api.github.com/"
	DefaultGitHubWebURL = "https://github.com"
	DefaultGitLabURL    = "https://gitlab.com"
	DefaultAzureURL     = "https://dev.azure.com"
)

// Settings is the top-level configuration for upstreamwatch.
type Settings struct {
	Upstream  UpstreamSettings `yaml:"upstream"`
	StateFile string           `yaml:"state_file"`
	Entities  []TrackedEntity  `yaml:"entities"`
}

// UpstreamSettings configures the version sources and the check schedule.
type UpstreamSettings struct {
	Token        string         `yaml:"token"` // Inline, ${ENV_VAR}, or file path
	Cron         string         `yaml:"cron"`
	Delay        time.Duration  `yaml:"delay"`
	StartupDelay time.Duration  `yaml:"startup_delay"`
	Timeout      time.Duration  `yaml:"timeout"`
	Retries      int            `yaml:"retries"`
	APIURL       string         `yaml:"api_url"`
	WebURL       string         `yaml:"web_url"`
	GitLab       GitLabSettings `yaml:"gitlab"`
	Git          GitSettings    `yaml:"git"`
	AzureDevOps  AzureSettings  `yaml:"azure_devops"`
}

// GitLabSettings configures the GitLab version source.
type GitLabSettings struct {
	Token string `yaml:"token"`
	URL   string `yaml:"url"`
}

// GitSettings configures the plain git (ls-remote) version source.
type GitSettings struct {
	Token string `yaml:"token"`
	URL   string `yaml:"url"`
}

// AzureSettings configures the Azure DevOps version source. Repositories
// are addressed as "project/repository" inside the organization.
type AzureSettings struct {
	Organization string `yaml:"organization"`
	Token        string `yaml:"token"`
	URL          string `yaml:"url"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads and parses a configuration file, expanding environment
// variables, resolving token file paths and applying defaults.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.Upstream.Token = resolveToken(settings.Upstream.Token)
	settings.Upstream.GitLab.Token = resolveToken(settings.Upstream.GitLab.Token)
	settings.Upstream.Git.Token = resolveToken(settings.Upstream.Git.Token)
	settings.Upstream.AzureDevOps.Token = resolveToken(settings.Upstream.AzureDevOps.Token)
	settings.applyDefaults()

	if validateErr := settings.validate(); validateErr != nil {
		return nil, validateErr
	}

	return &settings, nil
}

// NewDefaultSettings returns settings with no entities, all defaults and
// tokens taken from the environment.
func NewDefaultSettings() *Settings {
	settings := &Settings{}
	settings.applyDefaults()
	return settings
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".upstreamwatch.yaml",
		".upstreamwatch.yml",
		"upstreamwatch.yaml",
		"upstreamwatch.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ProviderToken returns the token configured for the given provider.
func (s *Settings) ProviderToken(provider string) string {
	switch provider {
	case "gitlab":
		return s.Upstream.GitLab.Token
	case "git":
		return s.Upstream.Git.Token
	case "azuredevops":
		return s.Upstream.AzureDevOps.Token
	default:
		return s.Upstream.Token
	}
}

func (s *Settings) applyDefaults() {
	u := &s.Upstream
	if u.Token == "" {
		u.Token = resolveTokenFromEnv("github")
	}
	if u.GitLab.Token == "" {
		u.GitLab.Token = resolveTokenFromEnv("gitlab")
	}
	if u.AzureDevOps.Token == "" {
		u.AzureDevOps.Token = resolveTokenFromEnv("azuredevops")
	}
	if u.AzureDevOps.URL == "" {
		u.AzureDevOps.URL = DefaultAzureURL
	}
	u.AzureDevOps.URL = strings.TrimSuffix(u.AzureDevOps.URL, "/")
	if u.Cron == "" {
		u.Cron = DefaultCron
	}
	if u.Delay == 0 {
		u.Delay = DefaultDelay
	}
	if u.StartupDelay == 0 {
		u.StartupDelay = DefaultStartupDelay
	}
	if u.Timeout == 0 {
		u.Timeout = DefaultTimeout
	}
	if u.APIURL == "" {
		u.APIURL = DefaultGitHubAPIURL
	}
	if !strings.HasSuffix(u.APIURL, "/") {
		u.APIURL += "/"
	}
	if u.WebURL == "" {
		u.WebURL = DefaultGitHubWebURL
	}
	u.WebURL = strings.TrimSuffix(u.WebURL, "/")
	if u.GitLab.URL == "" {
		u.GitLab.URL = DefaultGitLabURL
	}
	if u.Git.URL == "" {
		u.Git.URL = u.WebURL
	}
}

// validate checks for invalid configuration values.
func (s *Settings) validate() error {
	if _, err := cron.ParseStandard(s.Upstream.Cron); err != nil {
		return fmt.Errorf("upstream.cron %q is invalid: %w", s.Upstream.Cron, err)
	}
	if s.Upstream.Delay < 0 {
		return errors.New("upstream.delay must not be negative")
	}
	if s.Upstream.StartupDelay < 0 {
		return errors.New("upstream.startup_delay must not be negative")
	}
	if s.Upstream.Timeout < 0 {
		return errors.New("upstream.timeout must not be negative")
	}
	if s.Upstream.Retries < 0 {
		return errors.New("upstream.retries must not be negative")
	}

	seen := make(map[string]bool, len(s.Entities))
	for i, entity := range s.Entities {
		if entity.Name == "" {
			return fmt.Errorf("entities[%d].name is required", i)
		}
		if seen[entity.Name] {
			return fmt.Errorf("entities[%d].name %q is duplicated", i, entity.Name)
		}
		seen[entity.Name] = true
	}

	return nil
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// resolveTokenFromEnv falls back to the well-known environment variables of
// each provider.
func resolveTokenFromEnv(providerType string) string {
	var names []string
	switch providerType {
	case "github":
		names = []string{"UPSTREAM_TOKEN", "GITHUB_TOKEN", "GH_TOKEN"}
	case "gitlab":
		names = []string{"GITLAB_TOKEN", "GL_TOKEN"}
	case "azuredevops":
		names = []string{"AZURE_DEVOPS_EXT_PAT", "SYSTEM_ACCESSTOKEN"}
	}
	for _, name := range names {
		if t := os.Getenv(name); t != "" {
			return t
		}
	}
	return ""
}
