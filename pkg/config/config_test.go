package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.CommandTimeout.Std())
	assert.Equal(t, 60*time.Second, cfg.BootTimeout.Std())
	assert.Equal(t, "xcrun simctl", cfg.Simctl)
	assert.Equal(t, "idb", cfg.Idb)
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
command_timeout: 45s
boot_timeout: 2m
store_path: /var/run/ioskit/sessions.json
idb: /opt/homebrew/bin/idb
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 45*time.Second, cfg.CommandTimeout.Std())
	assert.Equal(t, 2*time.Minute, cfg.BootTimeout.Std())
	assert.Equal(t, "/var/run/ioskit/sessions.json", cfg.StorePath)
	assert.Equal(t, "/opt/homebrew/bin/idb", cfg.Idb)
	// Untouched fields keep defaults.
	assert.Equal(t, "xcrun simctl", cfg.Simctl)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "log_level: debug\n")

	t.Setenv("IOSKIT_LOG_LEVEL", "warn")
	t.Setenv("IOSKIT_COMMAND_TIMEOUT", "10s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.CommandTimeout.Std())
}

func TestLoad_ExpandsEnvInYAML(t *testing.T) {
	t.Setenv("STORE_DIR", "/data/ioskit")
	path := writeConfig(t, "store_path: ${STORE_DIR}/sessions.json\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/ioskit/sessions.json", cfg.StorePath)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "log_level: [broken\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, "command_timeout: soon\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	bad := Default()
	bad.LogLevel = "verbose"
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.BootTimeout = 0
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Idb = ""
	assert.Error(t, bad.Validate())
}

func TestSlogLevel(t *testing.T) {
	cfg := Default()
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())

	cfg.LogLevel = "debug"
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	cfg.LogLevel = "error"
	assert.Equal(t, slog.LevelError, cfg.SlogLevel())
}
