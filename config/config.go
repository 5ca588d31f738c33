package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spiffcs/scout/internal/constants"
	"github.com/spiffcs/scout/internal/duration"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatTable, FormatJSON, FormatMarkdown}

// Config represents the configuration file. Unset fields fall back to the
// defaults in DefaultSettings.
type Config struct {
	APIURL        string `yaml:"api_url,omitempty"`
	DefaultFormat string `yaml:"default_format,omitempty"`

	MaxRepositories *int `yaml:"max_repositories,omitempty"`
	MinStars        *int `yaml:"min_stars,omitempty"`
	Concurrency     *int `yaml:"concurrency,omitempty"`
	TopRepositories *int `yaml:"top_repositories,omitempty"`

	RequestTimeout *time.Duration `yaml:"request_timeout,omitempty"`
	BatchTimeout   *time.Duration `yaml:"batch_timeout,omitempty"`

	// CommitWindow accepts human-readable durations such as "90d" or "3mo".
	CommitWindow string `yaml:"commit_window,omitempty"`
}

// Settings is the fully resolved configuration passed to constructors.
type Settings struct {
	APIURL          string
	DefaultFormat   string
	MaxRepositories int
	MinStars        int
	Concurrency     int
	TopRepositories int
	RequestTimeout  time.Duration
	BatchTimeout    time.Duration
	CommitWindow    time.Duration
}

// DefaultSettings returns the built-in settings
func DefaultSettings() Settings {
	return Settings{
		APIURL:          constants.DefaultAPIURL,
		DefaultFormat:   FormatTable,
		MaxRepositories: constants.DefaultMaxRepositories,
		MinStars:        constants.DefaultMinStars,
		Concurrency:     constants.DefaultConcurrency,
		TopRepositories: constants.DefaultTopRepositories,
		RequestTimeout:  constants.DefaultRequestTimeout,
		BatchTimeout:    constants.DefaultBatchTimeout,
		CommitWindow:    constants.CommitWindow,
	}
}

// Settings returns the configuration merged onto the defaults. It fails if
// a configured value is out of range.
func (c *Config) Settings() (Settings, error) {
	s := DefaultSettings()

	if c.APIURL != "" {
		s.APIURL = c.APIURL
	}
	if c.DefaultFormat != "" {
		s.DefaultFormat = c.DefaultFormat
	}
	if c.MaxRepositories != nil {
		s.MaxRepositories = *c.MaxRepositories
	}
	if c.MinStars != nil {
		s.MinStars = *c.MinStars
	}
	if c.Concurrency != nil {
		s.Concurrency = *c.Concurrency
	}
	if c.TopRepositories != nil {
		s.TopRepositories = *c.TopRepositories
	}
	if c.RequestTimeout != nil {
		s.RequestTimeout = *c.RequestTimeout
	}
	if c.BatchTimeout != nil {
		s.BatchTimeout = *c.BatchTimeout
	}
	if c.CommitWindow != "" {
		d, err := duration.Parse(c.CommitWindow)
		if err != nil {
			return Settings{}, fmt.Errorf("commit_window: %w", err)
		}
		s.CommitWindow = d
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that every setting is in range.
func (s Settings) Validate() error {
	if err := ValidateFormat(s.DefaultFormat); err != nil {
		return fmt.Errorf("default_format: %w", err)
	}
	if u, err := url.Parse(s.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url: %q is not an absolute URL", s.APIURL)
	}
	if s.MaxRepositories < 1 || s.MaxRepositories > constants.MaxPerPage {
		return fmt.Errorf("max_repositories: must be between 1 and %d, got %d", constants.MaxPerPage, s.MaxRepositories)
	}
	if s.MinStars < 0 {
		return fmt.Errorf("min_stars: must not be negative, got %d", s.MinStars)
	}
	if s.Concurrency < 1 {
		return fmt.Errorf("concurrency: must be at least 1, got %d", s.Concurrency)
	}
	if s.TopRepositories < 1 {
		return fmt.Errorf("top_repositories: must be at least 1, got %d", s.TopRepositories)
	}
	if s.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout: must not be negative, got %s", s.RequestTimeout)
	}
	if s.BatchTimeout < 0 {
		return fmt.Errorf("batch_timeout: must not be negative, got %s", s.BatchTimeout)
	}
	if s.CommitWindow <= 0 {
		return fmt.Errorf("commit_window: must be positive, got %s", s.CommitWindow)
	}
	return nil
}

// ValidateFormat checks that format is one of Formats.
func ValidateFormat(format string) error {
	for _, f := range Formats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q (valid: table, json, markdown)", format)
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".scout"
	}
	return filepath.Join(configDir, "scout")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".scout.yaml"
}

// ConfigFileExists returns true if the config file exists on disk
func ConfigFileExists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Load loads the configuration from disk.
// It first loads the global config from XDG config directory, then merges
// any local .scout.yaml config on top (local values take precedence).
func Load() (*Config, error) {
	cfg := &Config{}

	// Load global config if it exists
	global, err := readConfig(ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("global config: %w", err)
	}
	if global != nil {
		cfg = global
	}

	// Load local config if it exists and merge on top
	local, err := readConfig(LocalConfigPath())
	if err != nil {
		return nil, fmt.Errorf("local config: %w", err)
	}
	if local != nil {
		cfg = mergeConfig(cfg, local)
	}

	return cfg, nil
}

// LoadGlobal loads only the global config file. A missing file yields an
// empty config.
func LoadGlobal() (*Config, error) {
	cfg, err := readConfig(ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("global config: %w", err)
	}
	if cfg == nil {
		cfg = &Config{}
	}
	return cfg, nil
}

// readConfig returns nil without error when path does not exist.
func readConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := *global

	if local.APIURL != "" {
		result.APIURL = local.APIURL
	}
	if local.DefaultFormat != "" {
		result.DefaultFormat = local.DefaultFormat
	}
	if local.MaxRepositories != nil {
		result.MaxRepositories = local.MaxRepositories
	}
	if local.MinStars != nil {
		result.MinStars = local.MinStars
	}
	if local.Concurrency != nil {
		result.Concurrency = local.Concurrency
	}
	if local.TopRepositories != nil {
		result.TopRepositories = local.TopRepositories
	}
	if local.RequestTimeout != nil {
		result.RequestTimeout = local.RequestTimeout
	}
	if local.BatchTimeout != nil {
		result.BatchTimeout = local.BatchTimeout
	}
	if local.CommitWindow != "" {
		result.CommitWindow = local.CommitWindow
	}

	return &result
}

// Set assigns a single field by its YAML key. Values are parsed but not
// range-checked; call Settings to validate.
func (c *Config) Set(key, value string) error {
	switch key {
	case "api_url":
		c.APIURL = value
	case "default_format":
		c.DefaultFormat = value
	case "commit_window":
		if _, err := duration.Parse(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.CommitWindow = value
	case "max_repositories", "min_stars", "concurrency", "top_repositories":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", key, value)
		}
		switch key {
		case "max_repositories":
			c.MaxRepositories = &n
		case "min_stars":
			c.MinStars = &n
		case "concurrency":
			c.Concurrency = &n
		default:
			c.TopRepositories = &n
		}
	case "request_timeout", "batch_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if key == "request_timeout" {
			c.RequestTimeout = &d
		} else {
			c.BatchTimeout = &d
		}
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return SaveTo(ConfigPath(), string(data))
}

// GetGitHubToken returns the GitHub token from the GITHUB_TOKEN environment variable.
// Tokens are never read from or written to config files.
func (c *Config) GetGitHubToken() string {
	return os.Getenv("GITHUB_TOKEN")
}

// DefaultConfig returns a fully populated config with all default values.
// This is useful for generating a complete config file template.
func DefaultConfig() *Config {
	s := DefaultSettings()

	return &Config{
		APIURL:          s.APIURL,
		DefaultFormat:   s.DefaultFormat,
		MaxRepositories: &s.MaxRepositories,
		MinStars:        &s.MinStars,
		Concurrency:     &s.Concurrency,
		TopRepositories: &s.TopRepositories,
		RequestTimeout:  &s.RequestTimeout,
		BatchTimeout:    &s.BatchTimeout,
		CommitWindow:    "90d",
	}
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	// Get absolute path for local config
	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# Scout configuration file
# See: scout config defaults  (for all available options)
# The GitHub token is read from GITHUB_TOKEN only.

# Output format: table, json or markdown
default_format: table

# Number of search results to analyze (1-100)
max_repositories: 20

# Only consider repositories with more stars than this
min_stars: 100

# GitHub Enterprise users can point scout at their API root (optional)
# api_url: https://github.example.com/api/v3/

# Timeouts (optional)
# request_timeout: 30s
# batch_timeout: 30m
`
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
