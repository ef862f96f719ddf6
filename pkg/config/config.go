// Package config assembles the run configuration for the report tool.
// It supports CLI flags, GitHub Actions environment variables and an
// optional .depreport.yaml project file, with precedence:
// CLI flags > environment > project config > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/buildwatch/depreport/pkg/manifest"
)

const (
	// ConfigFile is the name of the optional project configuration file
	ConfigFile = ".depreport.yaml"

	// RepositoryEnv names the owner/name repository slug in Actions
	RepositoryEnv = "GITHUB_REPOSITORY"

	// SHAEnv names the commit under review in Actions
	SHAEnv = "GITHUB_SHA"

	// RefEnv names the ref that triggered the run, e.g. refs/pull/42/merge
	RefEnv = "GITHUB_REF"
)

// FileConfig is the project-level configuration. Every field is optional
// and can be overridden by flags or environment.
type FileConfig struct {
	// OldAssetsBranch is the display label of the baseline snapshot
	OldAssetsBranch string `yaml:"old_assets_branch,omitempty"`

	// ManifestName overrides the assets.json file name
	ManifestName string `yaml:"manifest_name,omitempty"`

	// SizeStrategy selects the registered size measurement strategy
	SizeStrategy string `yaml:"size_strategy,omitempty"`

	// LogLevel is the zerolog level (debug, info, warn, error)
	LogLevel string `yaml:"log_level,omitempty"`
}

// LoadFile loads the project configuration from dir.
//
// If no config file exists it returns a zero config and nil error. A file
// that exists but cannot be parsed is an error: unlike a missing manifest,
// a broken config file is a misconfiguration worth surfacing.
func LoadFile(dir string) (*FileConfig, error) {
	path := filepath.Join(dir, ConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &FileConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Config is the fully-resolved run configuration. It is constructed once at
// startup and passed explicitly into every component; there is no ambient
// global state.
type Config struct {
	// Token authenticates against the comment-hosting backend
	Token string

	// OldAssetsFolder holds the prior manifest and artifact files
	OldAssetsFolder string

	// OldAssetsBranch is a display label only, used in the report prose
	OldAssetsBranch string

	// NewAssetsFolder holds the current manifest and artifact files
	NewAssetsFolder string

	// Owner and Repo identify the repository hosting the pull request
	Owner string
	Repo  string

	// PullNumber is the pull request carrying the report comment
	PullNumber int

	// CommitSHA is the commit under review, referenced in the prose
	CommitSHA string

	// ManifestName is the manifest file name inside each assets folder
	ManifestName string

	// SizeStrategy names the registered size measurement strategy
	SizeStrategy string
}

// ApplyDefaults fills unset optional fields.
func (c *Config) ApplyDefaults() {
	if c.ManifestName == "" {
		c.ManifestName = manifest.DefaultName
	}
	if c.SizeStrategy == "" {
		c.SizeStrategy = "file"
	}
}

// Validate checks that everything a publishing run needs is present.
func (c *Config) Validate() error {
	if err := c.ValidateLocal(); err != nil {
		return err
	}
	if c.Token == "" {
		return fmt.Errorf("an access token is required")
	}
	if c.Owner == "" || c.Repo == "" {
		return fmt.Errorf("a repository in owner/name form is required")
	}
	if c.PullNumber <= 0 {
		return fmt.Errorf("a pull request number is required")
	}
	return nil
}

// ValidateLocal checks the fields needed to compute a report without
// publishing it.
func (c *Config) ValidateLocal() error {
	if c.OldAssetsFolder == "" {
		return fmt.Errorf("old-assets-folder is required")
	}
	if c.NewAssetsFolder == "" {
		return fmt.Errorf("new-assets-folder is required")
	}
	return nil
}

// OldManifestPath returns the path of the old snapshot's manifest.
func (c *Config) OldManifestPath() string {
	return filepath.Join(c.OldAssetsFolder, c.ManifestName)
}

// NewManifestPath returns the path of the new snapshot's manifest.
func (c *Config) NewManifestPath() string {
	return filepath.Join(c.NewAssetsFolder, c.ManifestName)
}

// ParseRepository splits an owner/name slug.
func ParseRepository(slug string) (owner, repo string, err error) {
	parts := strings.SplitN(slug, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/name", slug)
	}
	return parts[0], parts[1], nil
}

// PullNumberFromRef extracts the pull request number from an Actions ref
// such as "refs/pull/42/merge".
func PullNumberFromRef(ref string) (int, error) {
	parts := strings.Split(ref, "/")
	if len(parts) < 3 || parts[0] != "refs" || parts[1] != "pull" {
		return 0, fmt.Errorf("ref %q does not reference a pull request", ref)
	}
	number, err := strconv.Atoi(parts[2])
	if err != nil || number <= 0 {
		return 0, fmt.Errorf("ref %q carries an invalid pull request number", ref)
	}
	return number, nil
}

// ResolveString returns the effective value for a configuration field.
// Precedence: cliValue > envValue > fileValue > defaultValue.
func ResolveString(cliValue, envValue, fileValue, defaultValue string) string {
	if cliValue != "" {
		return cliValue
	}
	if envValue != "" {
		return envValue
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}
