package controller

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/germanamz/ioskit/pkg/device"
)

// App describes one installed application.
type App struct {
	BundleID    string `json:"bundle_id"`
	Name        string `json:"name"`
	InstallType string `json:"install_type,omitempty"`
	Running     bool   `json:"running,omitempty"`
}

// apps resolves the session and enforces the preconditions shared by app
// management actions.
func (c *Controller) apps(ctx context.Context, action, sessionID string) (device.Descriptor, error) {
	_, d, err := c.resolve(ctx, sessionID)
	if err != nil {
		return device.Descriptor{}, err
	}

	if err := requireCapability(action, d, device.CapApps); err != nil {
		return device.Descriptor{}, err
	}

	if err := requireBooted(action, d); err != nil {
		return device.Descriptor{}, err
	}

	return d, nil
}

// InstallApp installs a .app bundle or .ipa from appPath.
func (c *Controller) InstallApp(ctx context.Context, sessionID, appPath string) error {
	d, err := c.apps(ctx, "install_app", sessionID)
	if err != nil {
		return err
	}

	// Installs are slow; give them triple the normal budget.
	_, err = c.run(ctx, "install_app", c.Idb, 3*c.CommandTimeout, "install", "--udid", d.UDID, appPath)
	if err != nil {
		return err
	}

	c.touch(sessionID)

	return nil
}

// UninstallApp removes the app with the given bundle id.
func (c *Controller) UninstallApp(ctx context.Context, sessionID, bundleID string) error {
	d, err := c.apps(ctx, "uninstall_app", sessionID)
	if err != nil {
		return err
	}

	_, err = c.run(ctx, "uninstall_app", c.Idb, 0, "uninstall", "--udid", d.UDID, bundleID)
	if err != nil {
		return err
	}

	c.touch(sessionID)

	return nil
}

// LaunchApp launches the app with the given bundle id, passing any extra
// arguments through to the process.
func (c *Controller) LaunchApp(ctx context.Context, sessionID, bundleID string, args ...string) error {
	d, err := c.apps(ctx, "launch_app", sessionID)
	if err != nil {
		return err
	}

	argv := append([]string{"launch", "--udid", d.UDID, bundleID}, args...)

	_, err = c.run(ctx, "launch_app", c.Idb, 0, argv...)
	if err != nil {
		return err
	}

	c.touch(sessionID)

	return nil
}

// TerminateApp stops the running app with the given bundle id.
func (c *Controller) TerminateApp(ctx context.Context, sessionID, bundleID string) error {
	d, err := c.apps(ctx, "terminate_app", sessionID)
	if err != nil {
		return err
	}

	_, err = c.run(ctx, "terminate_app", c.Idb, 0, "terminate", "--udid", d.UDID, bundleID)
	if err != nil {
		return err
	}

	c.touch(sessionID)

	return nil
}

// idbApp mirrors one line of `idb list-apps --json` output.
type idbApp struct {
	BundleID    string `json:"bundle_id"`
	Name        string `json:"name"`
	InstallType string `json:"install_type"`
	ProcessID   int    `json:"process_identifier"`
}

// ListApps lists installed apps. With userOnly set, system apps are
// filtered out.
func (c *Controller) ListApps(ctx context.Context, sessionID string, userOnly bool) ([]App, error) {
	d, err := c.apps(ctx, "list_apps", sessionID)
	if err != nil {
		return nil, err
	}

	res, err := c.run(ctx, "list_apps", c.Idb, 0, "list-apps", "--udid", d.UDID, "--json")
	if err != nil {
		return nil, err
	}

	var apps []App

	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var a idbApp
		if err := json.Unmarshal([]byte(line), &a); err != nil {
			return nil, &device.ParseError{Tool: "idb", Output: line, Err: err}
		}

		if userOnly && (a.InstallType == "system" || strings.HasPrefix(a.BundleID, "com.apple.")) {
			continue
		}

		apps = append(apps, App{
			BundleID:    a.BundleID,
			Name:        a.Name,
			InstallType: a.InstallType,
			Running:     a.ProcessID > 0,
		})
	}

	c.touch(sessionID)

	return apps, nil
}

// GetLogs fetches recent device log output, optionally filtered to one
// bundle id. idb's log command streams forever, so its own timeout flag
// bounds the capture window before the context deadline would kill it.
func (c *Controller) GetLogs(ctx context.Context, sessionID, bundleID string, limit int) (string, error) {
	_, d, err := c.resolve(ctx, sessionID)
	if err != nil {
		return "", err
	}

	if err := requireCapability("get_logs", d, device.CapLogs); err != nil {
		return "", err
	}

	if err := requireBooted("get_logs", d); err != nil {
		return "", err
	}

	args := []string{"log", "--udid", d.UDID}

	if bundleID != "" {
		args = append(args, "--bundle", bundleID)
	}

	if limit > 0 {
		args = append(args, "--limit", strconv.Itoa(limit))
	}

	args = append(args, "--timeout", "10")

	res, err := c.run(ctx, "get_logs", c.Idb, 0, args...)
	if err != nil {
		return "", err
	}

	c.touch(sessionID)

	return res.Stdout, nil
}
