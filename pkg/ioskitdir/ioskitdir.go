// Package ioskitdir encapsulates all path knowledge for the ~/.ioskit/
// directory. It provides a Dir value object with accessors for the config
// file, the session store, and the screenshot output directory.
package ioskitdir

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DirName is the directory created under the user's home.
const DirName = ".ioskit"

// Dir is a value object that resolves paths within an .ioskit/ directory.
type Dir struct {
	root string
}

// New creates a Dir rooted at the given path. The path is converted to an
// absolute path. No I/O is performed; use EnsureStructure to create the
// directory layout.
func New(root string) Dir {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}

	return Dir{root: abs}
}

// Default returns the Dir under the current user's home directory.
func Default() (Dir, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Dir{}, fmt.Errorf("ioskitdir: resolve home: %w", err)
	}

	return New(filepath.Join(home, DirName)), nil
}

// Root returns the absolute path to the .ioskit/ directory.
func (d Dir) Root() string { return d.root }

// ConfigPath returns the path to the main config file.
func (d Dir) ConfigPath() string { return filepath.Join(d.root, "config.yaml") }

// SessionsPath returns the path to the shared session store file.
func (d Dir) SessionsPath() string { return filepath.Join(d.root, "sessions.json") }

// ScreenshotsDir returns the path to the screenshot output directory.
func (d Dir) ScreenshotsDir() string { return filepath.Join(d.root, "screenshots") }

// ScreenshotFile returns a fresh timestamped path under ScreenshotsDir for
// the given session.
func (d Dir) ScreenshotFile(sessionID string, now time.Time) string {
	name := fmt.Sprintf("%s-%s.png", sessionID, now.Format("20060102-150405"))

	return filepath.Join(d.ScreenshotsDir(), name)
}

// Exists reports whether the .ioskit/ root directory exists on disk.
func (d Dir) Exists() bool {
	info, err := os.Stat(d.root)

	return err == nil && info.IsDir()
}
