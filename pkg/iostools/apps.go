package iostools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/germanamz/ioskit/pkg/tools/toolbox"
)

func (s *Service) appTools() *toolbox.ToolBox {
	tb := toolbox.New()

	tb.Register(
		toolbox.Tool{
			Name:        "ios_install_app",
			Description: "Install a .app bundle or .ipa file onto the session's device.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"app_path":{"type":"string","description":"Path to the .app bundle or .ipa file"}},"required":["session_id","app_path"]}`),
			Handler:     s.handleInstallApp,
		},
		toolbox.Tool{
			Name:        "ios_uninstall_app",
			Description: "Uninstall an app by bundle identifier.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"bundle_id":{"type":"string"}},"required":["session_id","bundle_id"]}`),
			Handler:     s.handleUninstallApp,
		},
		toolbox.Tool{
			Name:        "ios_launch_app",
			Description: "Launch an app by bundle identifier, optionally passing arguments to the process.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"bundle_id":{"type":"string"},"args":{"type":"array","items":{"type":"string"}}},"required":["session_id","bundle_id"]}`),
			Handler:     s.handleLaunchApp,
		},
		toolbox.Tool{
			Name:        "ios_terminate_app",
			Description: "Stop a running app by bundle identifier.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"bundle_id":{"type":"string"}},"required":["session_id","bundle_id"]}`),
			Handler:     s.handleTerminateApp,
		},
		toolbox.Tool{
			Name:        "ios_list_apps",
			Description: "List installed apps with bundle id, name, and running state. By default only user apps; set include_system for everything.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"include_system":{"type":"boolean"}},"required":["session_id"]}`),
			Handler:     s.handleListApps,
		},
		toolbox.Tool{
			Name:        "ios_get_logs",
			Description: "Fetch recent device log output, optionally filtered to one app's bundle identifier.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"bundle_id":{"type":"string","description":"Only logs from this app"},"limit":{"type":"integer","description":"Maximum number of log entries"}},"required":["session_id"]}`),
			Handler:     s.handleGetLogs,
		},
	)

	return tb
}

type installAppInput struct {
	SessionID string `json:"session_id"`
	AppPath   string `json:"app_path"`
}

func (s *Service) handleInstallApp(ctx context.Context, input json.RawMessage) (string, error) {
	var in installAppInput
	if err := decode("ios_install_app", input, &in); err != nil {
		return "", err
	}

	if in.AppPath == "" {
		return "", fmt.Errorf("ios_install_app: app_path is required")
	}

	if err := s.Controller.InstallApp(ctx, in.SessionID, in.AppPath); err != nil {
		return "", fmt.Errorf("ios_install_app: %w", err)
	}

	return okResult(fmt.Sprintf("Installed %s.", in.AppPath))
}

type bundleInput struct {
	SessionID string `json:"session_id"`
	BundleID  string `json:"bundle_id"`
}

func (s *Service) handleUninstallApp(ctx context.Context, input json.RawMessage) (string, error) {
	var in bundleInput
	if err := decode("ios_uninstall_app", input, &in); err != nil {
		return "", err
	}

	if err := s.Controller.UninstallApp(ctx, in.SessionID, in.BundleID); err != nil {
		return "", fmt.Errorf("ios_uninstall_app: %w", err)
	}

	return okResult(fmt.Sprintf("Uninstalled %s.", in.BundleID))
}

type launchAppInput struct {
	SessionID string   `json:"session_id"`
	BundleID  string   `json:"bundle_id"`
	Args      []string `json:"args"`
}

func (s *Service) handleLaunchApp(ctx context.Context, input json.RawMessage) (string, error) {
	var in launchAppInput
	if err := decode("ios_launch_app", input, &in); err != nil {
		return "", err
	}

	if err := s.Controller.LaunchApp(ctx, in.SessionID, in.BundleID, in.Args...); err != nil {
		return "", fmt.Errorf("ios_launch_app: %w", err)
	}

	return okResult(fmt.Sprintf("Launched %s.", in.BundleID))
}

func (s *Service) handleTerminateApp(ctx context.Context, input json.RawMessage) (string, error) {
	var in bundleInput
	if err := decode("ios_terminate_app", input, &in); err != nil {
		return "", err
	}

	if err := s.Controller.TerminateApp(ctx, in.SessionID, in.BundleID); err != nil {
		return "", fmt.Errorf("ios_terminate_app: %w", err)
	}

	return okResult(fmt.Sprintf("Terminated %s.", in.BundleID))
}

type listAppsInput struct {
	SessionID     string `json:"session_id"`
	IncludeSystem bool   `json:"include_system"`
}

func (s *Service) handleListApps(ctx context.Context, input json.RawMessage) (string, error) {
	var in listAppsInput
	if err := decode("ios_list_apps", input, &in); err != nil {
		return "", err
	}

	apps, err := s.Controller.ListApps(ctx, in.SessionID, !in.IncludeSystem)
	if err != nil {
		return "", fmt.Errorf("ios_list_apps: %w", err)
	}

	return jsonResult(map[string]any{"apps": apps, "count": len(apps)})
}

type getLogsInput struct {
	SessionID string `json:"session_id"`
	BundleID  string `json:"bundle_id"`
	Limit     int    `json:"limit"`
}

func (s *Service) handleGetLogs(ctx context.Context, input json.RawMessage) (string, error) {
	var in getLogsInput
	if err := decode("ios_get_logs", input, &in); err != nil {
		return "", err
	}

	logs, err := s.Controller.GetLogs(ctx, in.SessionID, in.BundleID, in.Limit)
	if err != nil {
		return "", fmt.Errorf("ios_get_logs: %w", err)
	}

	return jsonResult(map[string]any{"logs": logs})
}
