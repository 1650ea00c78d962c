// Package config provides configuration management for stencil using Viper,
// loading from .stencil.yml, environment variables with the STENCIL_ prefix,
// and command-line flags.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for a stencil project.
type Config struct {
	Site     SiteConfig  `yaml:"site" mapstructure:"site"`
	Build    BuildConfig `yaml:"build" mapstructure:"build"`
	Watch    WatchConfig `yaml:"watch" mapstructure:"watch"`
	LogLevel string      `yaml:"log_level" mapstructure:"log_level"`
}

// SiteConfig names the three directory roots of a project.
type SiteConfig struct {
	// Pages holds top-level documents; each produces one output file.
	Pages string `yaml:"pages" mapstructure:"pages"`
	// Partials holds reusable fragments included by documents.
	Partials string `yaml:"partials" mapstructure:"partials"`
	// Output receives compiled documents, mirroring the pages layout.
	Output string `yaml:"output" mapstructure:"output"`
}

// BuildConfig holds rendering options.
type BuildConfig struct {
	// Entry is the reference string injected for the entry() directive,
	// wiring the client-side entry module into rendered documents.
	Entry string `yaml:"entry" mapstructure:"entry"`
}

// WatchConfig holds development-watch options.
type WatchConfig struct {
	// DebounceMS is the quiescence window that batches editor save
	// bursts into one rebuild.
	DebounceMS int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// Debounce returns the configured quiescence window as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// Load builds a Config from viper's merged sources and validates it.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when no file or environment
// overrides exist, which is also what `stencil init` scaffolds.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

func applyDefaults(config *Config) {
	if config.Site.Pages == "" {
		config.Site.Pages = "./pages"
	}
	if config.Site.Partials == "" {
		config.Site.Partials = "./partials"
	}
	if config.Site.Output == "" {
		config.Site.Output = "./dist"
	}
	if config.Build.Entry == "" {
		config.Build.Entry = "/assets/main.js"
	}
	if config.Watch.DebounceMS == 0 {
		config.Watch.DebounceMS = 100
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}

// validateConfig validates configuration values for security and
// correctness.
func validateConfig(config *Config) error {
	for name, path := range map[string]string{
		"site.pages":    config.Site.Pages,
		"site.partials": config.Site.Partials,
		"site.output":   config.Site.Output,
	} {
		if err := validatePath(path); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if config.Watch.DebounceMS < 0 || config.Watch.DebounceMS > 10000 {
		return fmt.Errorf("watch.debounce_ms %d is not in valid range 0-10000", config.Watch.DebounceMS)
	}

	switch config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", config.LogLevel)
	}

	return nil
}

// validatePath validates a directory path for security.
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
