// ABOUTME: Configuration loading and parsing for chat-success-rates
// ABOUTME: Supports YAML or TOML files with environment variable expansion

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/2389/chat-success-rates/internal/chat"
	"github.com/2389/chat-success-rates/internal/skill"
)

// Config represents the complete chat-success-rates configuration
type Config struct {
	Database DatabaseConfig  `yaml:"database" toml:"database"`
	Logging  LoggingConfig   `yaml:"logging" toml:"logging"`
	Cache    CacheConfig     `yaml:"cache" toml:"cache"`
	Defaults DefaultsConfig  `yaml:"defaults" toml:"defaults"`
	Trackers []TrackerConfig `yaml:"trackers" toml:"trackers"`
}

// DatabaseConfig holds the settings database configuration
type DatabaseConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// CacheConfig holds duplicate cache capacities, keyed by category name
// ("game", "spam", "mesbox").
type CacheConfig struct {
	Capacities map[string]int `yaml:"capacities" toml:"capacities"`
}

// DefaultsConfig seeds settings that have never been saved.
type DefaultsConfig struct {
	AddLevelPrefix  *bool    `yaml:"add_level_prefix" toml:"add_level_prefix"`
	UseBoostedLevel *bool    `yaml:"use_boosted_level" toml:"use_boosted_level"`
	LevelPrefix     string   `yaml:"level_prefix" toml:"level_prefix"`
	SuccessMessages []string `yaml:"success_messages" toml:"success_messages"`
	FailureMessages []string `yaml:"failure_messages" toml:"failure_messages"`
}

// TrackerConfig defines a tracker with its own patterns, independent of the
// live settings.
type TrackerConfig struct {
	Name            string   `yaml:"name" toml:"name"`
	Skill           string   `yaml:"skill" toml:"skill"`
	UseBoostedLevel bool     `yaml:"use_boosted_level" toml:"use_boosted_level"`
	Color           string   `yaml:"color" toml:"color"`
	Success         []string `yaml:"success" toml:"success"`
	Failure         []string `yaml:"failure" toml:"failure"`
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are parsed as TOML, everything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(string(data), Format(path))
	if err != nil {
		return nil, err
	}
	if cfg.Database.Path != "" && cfg.Database.Path != ":memory:" && !filepath.IsAbs(cfg.Database.Path) {
		cfg.Database.Path = filepath.Join(filepath.Dir(path), cfg.Database.Path)
	}
	return cfg, nil
}

// Format returns "toml" or "yaml" based on the file extension.
func Format(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "yaml"
}

// Parse decodes configuration content in the given format ("yaml" or "toml").
func Parse(content, format string) (*Config, error) {
	expanded := expandEnvVars(content)

	var cfg Config
	switch format {
	case "toml":
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case "yaml", "":
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Defaults.LevelPrefix == "" {
		c.Defaults.LevelPrefix = skill.Overall.String()
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be text or json", c.Logging.Format)
	}

	for name, n := range c.Cache.Capacities {
		category, err := chat.ParseCategory(name)
		if err != nil {
			return fmt.Errorf("cache.capacities: %w", err)
		}
		if !category.IsCollapsible() {
			return fmt.Errorf("cache.capacities: category %q is not collapsible", name)
		}
		if n <= 0 {
			return fmt.Errorf("cache.capacities.%s must be positive", name)
		}
	}

	if _, err := skill.Parse(c.Defaults.LevelPrefix); err != nil {
		return fmt.Errorf("defaults.level_prefix: %w", err)
	}

	seen := make(map[string]bool, len(c.Trackers))
	for i, tr := range c.Trackers {
		if tr.Name == "" {
			return fmt.Errorf("trackers[%d].name is required", i)
		}
		if seen[tr.Name] {
			return fmt.Errorf("trackers[%d]: duplicate tracker name %q", i, tr.Name)
		}
		seen[tr.Name] = true
		if _, err := skill.Parse(tr.Skill); err != nil {
			return fmt.Errorf("trackers[%d].skill: %w", i, err)
		}
		if len(tr.Success) == 0 && len(tr.Failure) == 0 {
			return fmt.Errorf("trackers[%d]: at least one success or failure message is required", i)
		}
	}

	return nil
}

// CacheCapacities returns the configured capacities keyed by category.
// Call after Validate.
func (c *Config) CacheCapacities() map[chat.Category]int {
	out := make(map[chat.Category]int, len(c.Cache.Capacities))
	for name, n := range c.Cache.Capacities {
		if category, err := chat.ParseCategory(name); err == nil {
			out[category] = n
		}
	}
	return out
}
