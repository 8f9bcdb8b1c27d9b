// Package config loads ioskit configuration from the config.yaml file under
// the ioskit directory, with IOSKIT_* environment variables taking
// precedence over file values.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. IOSKIT_LOG_LEVEL.
const EnvPrefix = "ioskit"

// Duration is a time.Duration that unmarshals from strings like "30s" in
// both YAML and environment variables.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", value.Value, err)
	}

	*d = Duration(parsed)

	return nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	*d = Duration(parsed)

	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the top-level ioskit configuration.
type Config struct {
	StorePath      string   `yaml:"store_path" envconfig:"SESSION_STORE"`
	LogLevel       string   `yaml:"log_level" envconfig:"LOG_LEVEL"`
	CommandTimeout Duration `yaml:"command_timeout" envconfig:"COMMAND_TIMEOUT"`
	BootTimeout    Duration `yaml:"boot_timeout" envconfig:"BOOT_TIMEOUT"`
	ScreenshotDir  string   `yaml:"screenshot_dir" envconfig:"SCREENSHOT_DIR"`

	// Simctl and Idb override the control binaries, given as a command
	// line prefix, e.g. "xcrun simctl" or "/opt/homebrew/bin/idb".
	Simctl string `yaml:"simctl" envconfig:"SIMCTL"`
	Idb    string `yaml:"idb" envconfig:"IDB"`
}

// Default returns the built-in configuration before any file or environment
// values are applied.
func Default() Config {
	return Config{
		LogLevel:       "info",
		CommandTimeout: Duration(30 * time.Second),
		BootTimeout:    Duration(60 * time.Second),
		Simctl:         "xcrun simctl",
		Idb:            "idb",
	}
}

// Load reads the YAML file at path and applies IOSKIT_* environment
// overrides on top. A missing file is not an error; defaults plus
// environment apply. Environment variables referenced as ${VAR} in the YAML
// are expanded before parsing.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}

	if err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	if c.CommandTimeout <= 0 {
		return fmt.Errorf("config: command_timeout must be positive")
	}

	if c.BootTimeout <= 0 {
		return fmt.Errorf("config: boot_timeout must be positive")
	}

	if c.Simctl == "" || c.Idb == "" {
		return fmt.Errorf("config: simctl and idb commands must not be empty")
	}

	return nil
}

// SlogLevel maps the configured log level to a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
