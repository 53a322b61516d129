package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for followdiff
type Config struct {
	// Twitter API credentials and endpoint
	Twitter TwitterConfig `yaml:"twitter" json:"twitter"`

	// Client-side request throttling
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Snapshot location and report format
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TwitterConfig holds the four OAuth 1.0a credentials plus transport settings.
// It is handed explicitly to the provider constructor.
type TwitterConfig struct {
	APIKey            string        `yaml:"api_key" json:"api_key"`
	APISecretKey      string        `yaml:"api_secret_key" json:"api_secret_key"`
	AccessToken       string        `yaml:"access_token" json:"access_token"`
	AccessTokenSecret string        `yaml:"access_token_secret" json:"access_token_secret"`
	BaseURL           string        `yaml:"base_url" json:"base_url"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
	BurstSize         int `yaml:"burst_size" json:"burst_size"`
}

// OutputConfig holds snapshot directory and report configuration
type OutputConfig struct {
	SnapshotDir string `yaml:"snapshot_dir" json:"snapshot_dir"`
	Format      string `yaml:"format" json:"format"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level" json:"level"`
	File       string `yaml:"file" json:"file"`
	MaxSize    int    `yaml:"max_size" json:"max_size"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	MaxAge     int    `yaml:"max_age" json:"max_age"`
	Compress   bool   `yaml:"compress" json:"compress"`
}

const (
	// DefaultBaseURL is the REST v1.1 root of the Twitter API
	DefaultBaseURL = "https://api.twitter.com/1.1"

	// EnvPrefix prefixes every environment variable read by LoadFromEnv
	EnvPrefix = "FOLLOWDIFF_"
)

// Placeholder values written by `config init`; treated as unset.
var placeholders = map[string]bool{
	"YOUR_API_KEY":             true,
	"YOUR_API_SECRET_KEY":      true,
	"YOUR_ACCESS_TOKEN":        true,
	"YOUR_ACCESS_TOKEN_SECRET": true,
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Twitter: TwitterConfig{
			BaseURL: DefaultBaseURL,
			Timeout: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			// followers/list and friends/list allow 15 calls per 15 minutes
			RequestsPerMinute: 1,
			BurstSize:         15,
		},
		Output: OutputConfig{
			SnapshotDir: "data",
			Format:      "text",
		},
		Logging: LoggingConfig{
			Level:      "warn",
			File:       "",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   false,
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv(EnvPrefix + "API_KEY"); v != "" {
		c.Twitter.APIKey = v
	}
	if v := os.Getenv(EnvPrefix + "API_SECRET_KEY"); v != "" {
		c.Twitter.APISecretKey = v
	}
	if v := os.Getenv(EnvPrefix + "ACCESS_TOKEN"); v != "" {
		c.Twitter.AccessToken = v
	}
	if v := os.Getenv(EnvPrefix + "ACCESS_TOKEN_SECRET"); v != "" {
		c.Twitter.AccessTokenSecret = v
	}
	if v := os.Getenv(EnvPrefix + "BASE_URL"); v != "" {
		c.Twitter.BaseURL = v
	}
	if v := os.Getenv(EnvPrefix + "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %sTIMEOUT: %w", EnvPrefix, err))
		} else {
			c.Twitter.Timeout = d
		}
	}

	if v := os.Getenv(EnvPrefix + "REQUESTS_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %sREQUESTS_PER_MINUTE: %w", EnvPrefix, err))
		} else if n > 0 {
			c.RateLimit.RequestsPerMinute = n
		}
	}

	if v := os.Getenv(EnvPrefix + "SNAPSHOT_DIR"); v != "" {
		c.Output.SnapshotDir = v
	}
	if v := os.Getenv(EnvPrefix + "FORMAT"); v != "" {
		c.Output.Format = v
	}

	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// FindConfigFile searches for a config file in the standard locations
func FindConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".followdiff.yaml",
		".followdiff.yml",
		"followdiff.yaml",
		filepath.Join(home, ".config", "followdiff", "config.yaml"),
		filepath.Join(home, ".config", "followdiff", "config.yml"),
		filepath.Join(home, ".followdiff.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks the structural settings. Credentials are checked separately
// by ValidateCredentials because comparing snapshots does not need them.
func (c *Config) Validate() error {
	var errs []error

	if c.Twitter.BaseURL == "" {
		errs = append(errs, errors.New("twitter base URL is required"))
	}
	if c.Twitter.Timeout <= 0 {
		errs = append(errs, errors.New("twitter timeout must be positive"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.RateLimit.BurstSize <= 0 {
		errs = append(errs, errors.New("burst size must be positive"))
	}

	if c.Output.SnapshotDir == "" {
		errs = append(errs, errors.New("snapshot directory is required"))
	}
	validFormats := map[string]bool{"text": true, "json": true, "yaml": true}
	if !validFormats[strings.ToLower(c.Output.Format)] {
		errs = append(errs, fmt.Errorf("invalid output format: %q", c.Output.Format))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	return errors.Join(errs...)
}

// ValidateCredentials checks that all four API credentials are present
func (c *Config) ValidateCredentials() error {
	var errs []error
	check := func(name, value string) {
		if IsUnset(value) {
			errs = append(errs, fmt.Errorf("twitter %s is required", name))
		}
	}
	check("API key", c.Twitter.APIKey)
	check("API secret key", c.Twitter.APISecretKey)
	check("access token", c.Twitter.AccessToken)
	check("access token secret", c.Twitter.AccessTokenSecret)
	return errors.Join(errs...)
}

// IsUnset reports whether a credential value is empty or still a placeholder
func IsUnset(value string) bool {
	return value == "" || placeholders[value]
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if dir, ok := flags["snapshot-dir"].(string); ok && dir != "" {
		c.Output.SnapshotDir = dir
	}
	if format, ok := flags["format"].(string); ok && format != "" {
		c.Output.Format = format
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if rpm, ok := flags["requests-per-minute"].(int); ok && rpm > 0 {
		c.RateLimit.RequestsPerMinute = rpm
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.Twitter.Timeout = timeout
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".followdiff.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Masked returns a copy of the configuration with credentials shortened for display
func (c *Config) Masked() Config {
	masked := *c
	masked.Twitter.APIKey = MaskSecret(c.Twitter.APIKey)
	masked.Twitter.APISecretKey = MaskSecret(c.Twitter.APISecretKey)
	masked.Twitter.AccessToken = MaskSecret(c.Twitter.AccessToken)
	masked.Twitter.AccessTokenSecret = MaskSecret(c.Twitter.AccessTokenSecret)
	return masked
}

// MaskSecret masks all but the first 4 and last 4 characters of a secret
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
