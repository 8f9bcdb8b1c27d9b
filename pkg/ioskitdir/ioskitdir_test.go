package ioskitdir

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_PathAccessors(t *testing.T) {
	d := New("/home/dev/.ioskit")

	assert.Equal(t, "/home/dev/.ioskit", d.Root())
	assert.Equal(t, "/home/dev/.ioskit/config.yaml", d.ConfigPath())
	assert.Equal(t, "/home/dev/.ioskit/sessions.json", d.SessionsPath())
	assert.Equal(t, "/home/dev/.ioskit/screenshots", d.ScreenshotsDir())
}

func TestDir_ScreenshotFile(t *testing.T) {
	d := New("/home/dev/.ioskit")
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	got := d.ScreenshotFile("smoke-1700000000-deadbeef", ts)
	assert.Equal(t, "/home/dev/.ioskit/screenshots/smoke-1700000000-deadbeef-20260314-092653.png", got)
}

func TestDir_Exists(t *testing.T) {
	tmp := t.TempDir()

	d := New(filepath.Join(tmp, "missing"))
	assert.False(t, d.Exists())

	d = New(tmp)
	assert.True(t, d.Exists())
}

func TestEnsureStructure(t *testing.T) {
	tmp := t.TempDir()
	d := New(filepath.Join(tmp, DirName))

	require.NoError(t, EnsureStructure(d))

	info, err := os.Stat(d.ScreenshotsDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent.
	require.NoError(t, EnsureStructure(d))
}

func TestBootstrap(t *testing.T) {
	tmp := t.TempDir()
	d := New(filepath.Join(tmp, DirName))

	require.NoError(t, Bootstrap(d))

	assert.True(t, d.Exists())

	data, err := os.ReadFile(d.ConfigPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "IOSKIT_")
}

func TestBootstrap_DoesNotOverwrite(t *testing.T) {
	tmp := t.TempDir()
	d := New(filepath.Join(tmp, DirName))

	require.NoError(t, Bootstrap(d))

	custom := "log_level: debug\n"
	require.NoError(t, os.WriteFile(d.ConfigPath(), []byte(custom), 0o600))

	require.NoError(t, Bootstrap(d))

	data, err := os.ReadFile(d.ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}
