// Package config loads tripmap configuration from layered sources:
// built-in defaults, an optional YAML file, then environment variables.
// Later layers win (env > file > defaults).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where a config file is searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"tripmap.yaml",
	"tripmap.yml",
	"/etc/tripmap/config.yaml",
}

// ConfigPathEnvVar overrides the config file search entirely.
const ConfigPathEnvVar = "TRIPMAP_CONFIG"

// Config is the whole application configuration.
type Config struct {
	API     APIConfig     `koanf:"api"`
	Map     MapConfig     `koanf:"map"`
	Logging LoggingConfig `koanf:"logging"`
}

// APIConfig points the client at the trips backend.
type APIConfig struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// MapConfig tunes the renderer.
type MapConfig struct {
	// ArcPoints is the number of great-circle interpolation steps per
	// flight arc.
	ArcPoints int `koanf:"arc_points" validate:"min=2,max=1024"`
}

// LoggingConfig configures the zerolog bootstrap in internal/logging.
// File is required in TUI mode; stderr belongs to the terminal UI.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	File   string `koanf:"file"`
}

func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000",
			Timeout: 10 * time.Second,
		},
		Map: MapConfig{
			ArcPoints: 64,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   "", // empty means stderr; main points it at a file before the TUI starts
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (or the first DefaultConfigPaths hit when path is empty), then
// TRIPMAP_* environment variables. The result is validated before it is
// returned.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints via the validate struct tags.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config: validate: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("config: invalid: %s", strings.Join(msgs, "; "))
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings is the full set of recognized environment variables.
// Unmapped variables are skipped so stray environment noise cannot leak
// into the config.
var envMappings = map[string]string{
	"tripmap_api_url":     "api.base_url",
	"tripmap_api_timeout": "api.timeout",
	"tripmap_arc_points":  "map.arc_points",
	"tripmap_log_level":   "logging.level",
	"tripmap_log_format":  "logging.format",
	"tripmap_log_file":    "logging.file",
}

func envTransform(key string) string {
	return envMappings[strings.ToLower(key)]
}
