// Package config provides configuration loading for basketprune.
//
// Configuration precedence (highest to lowest):
//  1. Command-line flags (applied by the caller)
//  2. Environment variables (BASKETPRUNE_MIN_SUPPORT, BASKETPRUNE_LOG_LEVEL, ...)
//  3. YAML config file ({Dir}/config.yaml)
//  4. Defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "BASKETPRUNE_"

const maxConfigFileSize = 1024 * 1024 // 1MB

// Config is the full application configuration.
type Config struct {
	DBPath     string   `koanf:"db_path"`
	MinSupport float64  `koanf:"min_support"`
	MinLength  int      `koanf:"min_length"`
	Categories []string `koanf:"categories"`

	Log   LogConfig   `koanf:"log"`
	Watch WatchConfig `koanf:"watch"`
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // "console" or "json"
}

// WatchConfig controls the data file watcher.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MinSupport: 0.1,
		MinLength:  2,
		Categories: []string{"rokok", "snack", "minuman bersoda"},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Dir returns the basketprune config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/basketprune if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "basketprune"), nil
}

// Load builds the configuration from defaults, the YAML file at path and the
// environment. An empty path means {Dir}/config.yaml. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		dir, err := Dir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config directory: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}

	if info, err := os.Stat(path); err == nil {
		if info.Size() > maxConfigFileSize {
			return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	// BASKETPRUNE_MIN_SUPPORT -> min_support, BASKETPRUNE_LOG_LEVEL -> log.level
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Default()
	defaultCategories := cfg.Categories
	cfg.Categories = nil
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// An explicitly empty list is kept: it flags every pattern.
	if !k.Exists("categories") {
		cfg.Categories = defaultCategories
	}
	cfg.Categories = cleanCategories(cfg.Categories)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps an environment variable name to a config key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range []string{"log_", "watch_"} {
		if strings.HasPrefix(key, section) {
			return strings.TrimSuffix(section, "_") + "." + strings.TrimPrefix(key, section)
		}
	}
	return key
}

// cleanCategories trims entries and drops blanks. A single entry holding a
// comma-separated list, as environment variables do, is split.
func cleanCategories(in []string) []string {
	out := []string{}
	for _, c := range in {
		for _, part := range strings.Split(c, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if !(c.MinSupport >= 0 && c.MinSupport <= 1) {
		return fmt.Errorf("invalid min_support: %v (must be between 0.0 and 1.0)", c.MinSupport)
	}
	if c.MinLength < 1 {
		return fmt.Errorf("invalid min_length: %d (must be at least 1)", c.MinLength)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log.format: %q (must be console or json)", c.Log.Format)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("invalid watch.debounce: %v", c.Watch.Debounce)
	}
	return nil
}
