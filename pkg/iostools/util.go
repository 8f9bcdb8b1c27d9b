package iostools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/germanamz/ioskit/pkg/controller"
	"github.com/germanamz/ioskit/pkg/tools/toolbox"
)

func (s *Service) utilTools() *toolbox.ToolBox {
	tb := toolbox.New()

	tb.Register(
		toolbox.Tool{
			Name:        "ios_set_location",
			Description: "Override the device GPS location with latitude/longitude coordinates.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"latitude":{"type":"number"},"longitude":{"type":"number"}},"required":["session_id","latitude","longitude"]}`),
			Handler:     s.handleSetLocation,
		},
		toolbox.Tool{
			Name:        "ios_set_location_by_name",
			Description: "Set the device GPS location to a known city, e.g. 'Tokyo' or 'San Francisco'.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"location":{"type":"string"}},"required":["session_id","location"]}`),
			Handler:     s.handleSetLocationByName,
		},
		toolbox.Tool{
			Name:        "ios_add_media",
			Description: "Import photos or videos into the simulator's Photos library. Simulator only.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"paths":{"type":"array","items":{"type":"string"},"description":"Media file paths"}},"required":["session_id","paths"]}`),
			Handler:     s.handleAddMedia,
		},
		toolbox.Tool{
			Name:        "ios_open_url",
			Description: "Open a URL on the device, typically in Safari.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"url":{"type":"string"}},"required":["session_id","url"]}`),
			Handler:     s.handleOpenURL,
		},
		toolbox.Tool{
			Name:        "ios_set_status_bar",
			Description: "Override simulator status bar fields for clean screenshots: time, battery, network. Simulator only.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"time":{"type":"string","description":"Clock text, e.g. '9:41'"},"battery_state":{"type":"string","enum":["charging","charged","discharging"]},"battery_level":{"type":"integer","minimum":0,"maximum":100},"wifi_bars":{"type":"integer","minimum":0,"maximum":3},"cellular_bars":{"type":"integer","minimum":0,"maximum":4},"data_network":{"type":"string","description":"wifi, 3g, 4g, lte, 5g"},"operator_name":{"type":"string"}},"required":["session_id"]}`),
			Handler:     s.handleSetStatusBar,
		},
		toolbox.Tool{
			Name:        "ios_clear_status_bar",
			Description: "Remove all simulator status bar overrides. Simulator only.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"}},"required":["session_id"]}`),
			Handler:     s.handleClearStatusBar,
		},
		toolbox.Tool{
			Name:        "ios_set_appearance",
			Description: "Switch the simulator between light and dark mode. Simulator only.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"mode":{"type":"string","enum":["light","dark"]}},"required":["session_id","mode"]}`),
			Handler:     s.handleSetAppearance,
		},
		toolbox.Tool{
			Name:        "ios_focus_simulator",
			Description: "Bring the Simulator window to the foreground on the host. Simulator only.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"}},"required":["session_id"]}`),
			Handler:     s.handleFocusSimulator,
		},
		toolbox.Tool{
			Name:        "ios_set_permission",
			Description: "Grant, revoke, or reset an app's access to a privacy service such as photos, camera, microphone, or location. Simulator only.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"bundle_id":{"type":"string"},"service":{"type":"string","description":"Privacy service name, e.g. photos, camera, location"},"status":{"type":"string","enum":["grant","revoke","reset"]}},"required":["session_id","bundle_id","service","status"]}`),
			Handler:     s.handleSetPermission,
		},
	)

	return tb
}

type setLocationInput struct {
	SessionID string  `json:"session_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (s *Service) handleSetLocation(ctx context.Context, input json.RawMessage) (string, error) {
	var in setLocationInput
	if err := decode("ios_set_location", input, &in); err != nil {
		return "", err
	}

	if err := s.Controller.SetLocation(ctx, in.SessionID, in.Latitude, in.Longitude); err != nil {
		return "", fmt.Errorf("ios_set_location: %w", err)
	}

	return okResult(fmt.Sprintf("Location set to %g, %g.", in.Latitude, in.Longitude))
}

type setLocationByNameInput struct {
	SessionID string `json:"session_id"`
	Location  string `json:"location"`
}

func (s *Service) handleSetLocationByName(ctx context.Context, input json.RawMessage) (string, error) {
	var in setLocationByNameInput
	if err := decode("ios_set_location_by_name", input, &in); err != nil {
		return "", err
	}

	if err := s.Controller.SetLocationByName(ctx, in.SessionID, in.Location); err != nil {
		return "", fmt.Errorf("ios_set_location_by_name: %w", err)
	}

	return okResult(fmt.Sprintf("Location set to %s.", in.Location))
}

type addMediaInput struct {
	SessionID string   `json:"session_id"`
	Paths     []string `json:"paths"`
}

func (s *Service) handleAddMedia(ctx context.Context, input json.RawMessage) (string, error) {
	var in addMediaInput
	if err := decode("ios_add_media", input, &in); err != nil {
		return "", err
	}

	if err := s.Controller.AddMedia(ctx, in.SessionID, in.Paths...); err != nil {
		return "", fmt.Errorf("ios_add_media: %w", err)
	}

	return okResult(fmt.Sprintf("Added %d media files.", len(in.Paths)))
}

type openURLInput struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

func (s *Service) handleOpenURL(ctx context.Context, input json.RawMessage) (string, error) {
	var in openURLInput
	if err := decode("ios_open_url", input, &in); err != nil {
		return "", err
	}

	if err := s.Controller.OpenURL(ctx, in.SessionID, in.URL); err != nil {
		return "", fmt.Errorf("ios_open_url: %w", err)
	}

	return okResult(fmt.Sprintf("Opened %s.", in.URL))
}

type setStatusBarInput struct {
	SessionID string `json:"session_id"`
	controller.StatusBarOverrides
}

func (s *Service) handleSetStatusBar(ctx context.Context, input json.RawMessage) (string, error) {
	var in setStatusBarInput
	if err := decode("ios_set_status_bar", input, &in); err != nil {
		return "", err
	}

	if err := s.Controller.SetStatusBar(ctx, in.SessionID, in.StatusBarOverrides); err != nil {
		return "", fmt.Errorf("ios_set_status_bar: %w", err)
	}

	return okResult("Status bar overrides applied.")
}

func (s *Service) handleClearStatusBar(ctx context.Context, input json.RawMessage) (string, error) {
	var in sessionIDInput
	if err := decode("ios_clear_status_bar", input, &in); err != nil {
		return "", err
	}

	if err := s.Controller.ClearStatusBar(ctx, in.SessionID); err != nil {
		return "", fmt.Errorf("ios_clear_status_bar: %w", err)
	}

	return okResult("Status bar overrides cleared.")
}

type setAppearanceInput struct {
	SessionID string `json:"session_id"`
	Mode      string `json:"mode"`
}

func (s *Service) handleSetAppearance(ctx context.Context, input json.RawMessage) (string, error) {
	var in setAppearanceInput
	if err := decode("ios_set_appearance", input, &in); err != nil {
		return "", err
	}

	if err := s.Controller.SetAppearance(ctx, in.SessionID, in.Mode); err != nil {
		return "", fmt.Errorf("ios_set_appearance: %w", err)
	}

	return okResult(fmt.Sprintf("Appearance set to %s.", in.Mode))
}

func (s *Service) handleFocusSimulator(ctx context.Context, input json.RawMessage) (string, error) {
	var in sessionIDInput
	if err := decode("ios_focus_simulator", input, &in); err != nil {
		return "", err
	}

	if err := s.Controller.FocusSimulator(ctx, in.SessionID); err != nil {
		return "", fmt.Errorf("ios_focus_simulator: %w", err)
	}

	return okResult("Simulator window focused.")
}

type setPermissionInput struct {
	SessionID string `json:"session_id"`
	BundleID  string `json:"bundle_id"`
	Service   string `json:"service"`
	Status    string `json:"status"`
}

func (s *Service) handleSetPermission(ctx context.Context, input json.RawMessage) (string, error) {
	var in setPermissionInput
	if err := decode("ios_set_permission", input, &in); err != nil {
		return "", err
	}

	if err := s.Controller.SetPermission(ctx, in.SessionID, in.BundleID, in.Service, in.Status); err != nil {
		return "", fmt.Errorf("ios_set_permission: %w", err)
	}

	return okResult(fmt.Sprintf("Permission %s for %s: %s.", in.Service, in.BundleID, in.Status))
}
