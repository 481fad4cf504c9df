package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 64, cfg.Map.ArcPoints)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Empty(t, cfg.Logging.File)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tripmap.yaml")
	content := `
api:
  base_url: http://backend:9000
  timeout: 5s
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://backend:9000", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 64, cfg.Map.ArcPoints, "untouched fields keep defaults")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tripmap.yaml")
	content := `
api:
  base_url: http://backend:9000
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("TRIPMAP_API_URL", "http://env-wins:5000")
	t.Setenv("TRIPMAP_API_TIMEOUT", "30s")
	t.Setenv("TRIPMAP_LOG_LEVEL", "debug")
	t.Setenv("TRIPMAP_LOG_FILE", "/tmp/tripmap.log")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env-wins:5000", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/tripmap.log", cfg.Logging.File)
}

func TestLoadHonorsConfigPathEnvVar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elsewhere.yaml")
	require.NoError(t, os.WriteFile(path, []byte("map:\n  arc_points: 128\n"), 0o644))

	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Map.ArcPoints)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tripmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{{ not yaml"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"TRIPMAP_API_URL", "api.base_url"},
		{"TRIPMAP_API_TIMEOUT", "api.timeout"},
		{"TRIPMAP_ARC_POINTS", "map.arc_points"},
		{"TRIPMAP_LOG_LEVEL", "logging.level"},
		{"TRIPMAP_LOG_FORMAT", "logging.format"},
		{"TRIPMAP_LOG_FILE", "logging.file"},
		{"PATH", ""},
		{"HOME", ""},
		{"TRIPMAP_UNKNOWN", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, envTransform(tt.in), tt.in)
	}
}

func TestValidateRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad base url", func(c *Config) { c.API.BaseURL = "not a url" }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
		{"one arc point", func(c *Config) { c.Map.ArcPoints = 1 }},
		{"unknown level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"unknown format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
