package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := Default()

	assert.Equal(t, "./pages", config.Site.Pages)
	assert.Equal(t, "./partials", config.Site.Partials)
	assert.Equal(t, "./dist", config.Site.Output)
	assert.Equal(t, "/assets/main.js", config.Build.Entry)
	assert.Equal(t, 100, config.Watch.DebounceMS)
	assert.Equal(t, "info", config.LogLevel)
}

func TestLoadAppliesDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	config, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "./pages", config.Site.Pages)
	assert.Equal(t, 100*time.Millisecond, config.Watch.Debounce())
}

func TestLoadOverrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("site.pages", "./site/docs")
	viper.Set("watch.debounce_ms", 250)
	viper.Set("log_level", "debug")

	config, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "./site/docs", config.Site.Pages)
	assert.Equal(t, 250*time.Millisecond, config.Watch.Debounce())
	assert.Equal(t, "debug", config.LogLevel)
}

func TestValidateConfig(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "path traversal rejected",
			mutate:  func(c *Config) { c.Site.Pages = "../../etc" },
			wantErr: "traversal",
		},
		{
			name:    "dangerous character rejected",
			mutate:  func(c *Config) { c.Site.Output = "dist;rm" },
			wantErr: "dangerous character",
		},
		{
			name:    "debounce out of range",
			mutate:  func(c *Config) { c.Watch.DebounceMS = 60000 },
			wantErr: "debounce_ms",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: "log_level",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := Default()
			tc.mutate(config)

			err := validateConfig(config)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}
