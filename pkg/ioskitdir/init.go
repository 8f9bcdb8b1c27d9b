package ioskitdir

import (
	"fmt"
	"os"
)

const configSkeleton = `# ioskit configuration. Every value here can also be set through an
# IOSKIT_* environment variable, which takes precedence.

# log_level: info
# command_timeout: 30s
# boot_timeout: 60s

# Override the control binaries, e.g. when idb lives outside PATH.
# simctl: xcrun simctl
# idb: idb
`

// EnsureStructure creates the root and screenshots/ directories if they are
// missing. Safe to call multiple times.
func EnsureStructure(d Dir) error {
	if err := os.MkdirAll(d.ScreenshotsDir(), 0o750); err != nil {
		return fmt.Errorf("ioskitdir: create screenshots dir: %w", err)
	}

	return nil
}

// Bootstrap creates the full directory layout and a skeleton config file.
// Existing files are never overwritten.
func Bootstrap(d Dir) error {
	if err := EnsureStructure(d); err != nil {
		return err
	}

	if _, err := os.Stat(d.ConfigPath()); err == nil {
		return nil
	}

	if err := os.WriteFile(d.ConfigPath(), []byte(configSkeleton), 0o600); err != nil {
		return fmt.Errorf("ioskitdir: write config skeleton: %w", err)
	}

	return nil
}
