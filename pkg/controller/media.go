package controller

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/germanamz/ioskit/pkg/device"
)

// knownLocations is a small gazetteer for setting location by place name
// without a geocoding dependency.
var knownLocations = map[string][2]float64{
	"new york":      {40.7128, -74.0060},
	"london":        {51.5074, -0.1278},
	"paris":         {48.8566, 2.3522},
	"tokyo":         {35.6762, 139.6503},
	"sydney":        {-33.8688, 151.2093},
	"san francisco": {37.7749, -122.4194},
	"los angeles":   {34.0522, -118.2437},
	"chicago":       {41.8781, -87.6298},
	"miami":         {25.7617, -80.1918},
	"seattle":       {47.6062, -122.3321},
	"berlin":        {52.5200, 13.4050},
	"madrid":        {40.4168, -3.7038},
	"rome":          {41.9028, 12.4964},
	"moscow":        {55.7558, 37.6176},
	"beijing":       {39.9042, 116.4074},
	"singapore":     {1.3521, 103.8198},
	"dubai":         {25.2048, 55.2708},
}

// SetLocation overrides the device's GPS location.
func (c *Controller) SetLocation(ctx context.Context, sessionID string, lat, lon float64) error {
	_, d, err := c.resolve(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := requireCapability("set_location", d, device.CapLocation); err != nil {
		return err
	}

	if err := requireBooted("set_location", d); err != nil {
		return err
	}

	latStr := strconv.FormatFloat(lat, 'f', -1, 64)
	lonStr := strconv.FormatFloat(lon, 'f', -1, 64)

	if d.Kind == device.Simulator {
		_, err = c.run(ctx, "set_location", c.Simctl, 0, "location", d.UDID, "set", latStr+","+lonStr)
	} else {
		_, err = c.run(ctx, "set_location", c.Idb, 0, "set_location", "--udid", d.UDID, latStr, lonStr)
	}

	if err != nil {
		return err
	}

	c.touch(sessionID)

	return nil
}

// SetLocationByName sets the location to a known city or landmark.
func (c *Controller) SetLocationByName(ctx context.Context, sessionID, name string) error {
	coords, ok := knownLocations[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("set_location: unknown place %q, use coordinates instead", name)
	}

	return c.SetLocation(ctx, sessionID, coords[0], coords[1])
}

// AddMedia imports photos and videos into the simulator's Photos library.
func (c *Controller) AddMedia(ctx context.Context, sessionID string, paths ...string) error {
	if len(paths) == 0 {
		return fmt.Errorf("add_media: no media paths given")
	}

	_, d, err := c.resolve(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := requireCapability("add_media", d, device.CapMedia); err != nil {
		return err
	}

	if err := requireBooted("add_media", d); err != nil {
		return err
	}

	args := append([]string{"addmedia", d.UDID}, paths...)

	_, err = c.run(ctx, "add_media", c.Simctl, 0, args...)
	if err != nil {
		return err
	}

	c.touch(sessionID)

	return nil
}

// OpenURL opens a URL on the device, typically in Safari.
func (c *Controller) OpenURL(ctx context.Context, sessionID, url string) error {
	_, d, err := c.resolve(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := requireCapability("open_url", d, device.CapOpenURL); err != nil {
		return err
	}

	if err := requireBooted("open_url", d); err != nil {
		return err
	}

	if d.Kind == device.Simulator {
		_, err = c.run(ctx, "open_url", c.Simctl, 0, "openurl", d.UDID, url)
	} else {
		_, err = c.run(ctx, "open_url", c.Idb, 0, "open", "--udid", d.UDID, url)
	}

	if err != nil {
		return err
	}

	c.touch(sessionID)

	return nil
}

// StatusBarOverrides selects the status bar fields to override. Nil and
// empty fields are left untouched.
type StatusBarOverrides struct {
	Time         string `json:"time,omitempty"`
	BatteryState string `json:"battery_state,omitempty"` // charging, charged, discharging
	BatteryLevel *int   `json:"battery_level,omitempty"` // 0-100
	WifiBars     *int   `json:"wifi_bars,omitempty"`     // 0-3
	CellularBars *int   `json:"cellular_bars,omitempty"` // 0-4
	DataNetwork  string `json:"data_network,omitempty"`  // wifi, 3g, 4g, lte, 5g, ...
	OperatorName string `json:"operator_name,omitempty"`
}

func (o StatusBarOverrides) args() []string {
	var args []string

	if o.Time != "" {
		args = append(args, "--time", o.Time)
	}

	if o.BatteryState != "" {
		args = append(args, "--batteryState", o.BatteryState)
	}

	if o.BatteryLevel != nil {
		args = append(args, "--batteryLevel", strconv.Itoa(*o.BatteryLevel))
	}

	if o.WifiBars != nil {
		args = append(args, "--wifiBars", strconv.Itoa(*o.WifiBars))
	}

	if o.CellularBars != nil {
		args = append(args, "--cellularBars", strconv.Itoa(*o.CellularBars))
	}

	if o.DataNetwork != "" {
		args = append(args, "--dataNetwork", o.DataNetwork)
	}

	if o.OperatorName != "" {
		args = append(args, "--operatorName", o.OperatorName)
	}

	return args
}

// SetStatusBar overrides simulator status bar fields. Simulator-only.
func (c *Controller) SetStatusBar(ctx context.Context, sessionID string, overrides StatusBarOverrides) error {
	args := overrides.args()
	if len(args) == 0 {
		return fmt.Errorf("set_status_bar: no overrides given")
	}

	_, d, err := c.resolve(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := requireCapability("set_status_bar", d, device.CapStatusBar); err != nil {
		return err
	}

	if err := requireBooted("set_status_bar", d); err != nil {
		return err
	}

	argv := append([]string{"status_bar", d.UDID, "override"}, args...)

	_, err = c.run(ctx, "set_status_bar", c.Simctl, 0, argv...)
	if err != nil {
		return err
	}

	c.touch(sessionID)

	return nil
}

// ClearStatusBar removes all status bar overrides. Simulator-only.
func (c *Controller) ClearStatusBar(ctx context.Context, sessionID string) error {
	_, d, err := c.resolve(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := requireCapability("clear_status_bar", d, device.CapStatusBar); err != nil {
		return err
	}

	_, err = c.run(ctx, "clear_status_bar", c.Simctl, 0, "status_bar", d.UDID, "clear")
	if err != nil {
		return err
	}

	c.touch(sessionID)

	return nil
}

// SetAppearance switches the simulator between light and dark mode.
// Simulator-only.
func (c *Controller) SetAppearance(ctx context.Context, sessionID, mode string) error {
	mode = strings.ToLower(mode)
	if mode != "light" && mode != "dark" {
		return fmt.Errorf("set_appearance: mode must be light or dark, got %q", mode)
	}

	_, d, err := c.resolve(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := requireCapability("set_appearance", d, device.CapAppearance); err != nil {
		return err
	}

	if err := requireBooted("set_appearance", d); err != nil {
		return err
	}

	_, err = c.run(ctx, "set_appearance", c.Simctl, 0, "ui", d.UDID, "appearance", mode)
	if err != nil {
		return err
	}

	c.touch(sessionID)

	return nil
}

// SetPermission grants, revokes, or resets an app's access to a privacy
// service (photos, camera, location, ...). Simulator-only.
func (c *Controller) SetPermission(ctx context.Context, sessionID, bundleID, service, status string) error {
	status = strings.ToLower(status)
	if status != "grant" && status != "revoke" && status != "reset" {
		return fmt.Errorf("set_permission: status must be grant, revoke, or reset, got %q", status)
	}

	_, d, err := c.resolve(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := requireCapability("set_permission", d, device.CapPermissions); err != nil {
		return err
	}

	if err := requireBooted("set_permission", d); err != nil {
		return err
	}

	_, err = c.run(ctx, "set_permission", c.Simctl, 0, "privacy", d.UDID, status, service, bundleID)
	if err != nil {
		return err
	}

	c.touch(sessionID)

	return nil
}
