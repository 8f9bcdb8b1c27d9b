package iostools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/germanamz/ioskit/pkg/device"
	"github.com/germanamz/ioskit/pkg/session"
	"github.com/germanamz/ioskit/pkg/tools/toolbox"
)

func (s *Service) sessionTools() *toolbox.ToolBox {
	tb := toolbox.New()

	tb.Register(
		toolbox.Tool{
			Name:        "ios_create_session",
			Description: "Create a device session bound to a simulator or real device. The session id is the handle for all other tools. Without a device selector, the first available simulator is used, preferring booted ones.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"device":{"type":"string","description":"Device UDID or name substring, e.g. 'iPhone 15'"},"kind":{"type":"string","enum":["simulator","real_device"],"description":"Restrict selection to this device kind"},"name":{"type":"string","description":"Label for the session, becomes part of the session id"},"autoboot":{"type":"boolean","description":"Boot the simulator if it is not already booted"}}}`),
			Handler:     s.handleCreateSession,
		},
		toolbox.Tool{
			Name:        "ios_list_sessions",
			Description: "List all active device sessions with their bound device and timestamps.",
			InputSchema: json.RawMessage(`{"type":"object"}`),
			Handler:     s.handleListSessions,
		},
		toolbox.Tool{
			Name:        "ios_session_status",
			Description: "Show one session and the current state of its bound device.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"}},"required":["session_id"]}`),
			Handler:     s.handleSessionStatus,
		},
		toolbox.Tool{
			Name:        "ios_terminate_session",
			Description: "End a session and remove it from the store. Optionally shut the simulator down first. Terminating an unknown session succeeds.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"shutdown":{"type":"boolean","description":"Shut the simulator down before removing the session"}},"required":["session_id"]}`),
			Handler:     s.handleTerminateSession,
		},
		toolbox.Tool{
			Name:        "ios_validate_sessions",
			Description: "Check every session against the live device listing and report stale ones whose device disappeared. With prune set, stale sessions are removed.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"prune":{"type":"boolean","description":"Remove stale sessions from the store"}}}`),
			Handler:     s.handleValidateSessions,
		},
	)

	return tb
}

type createSessionInput struct {
	Device   string `json:"device"`
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	Autoboot bool   `json:"autoboot"`
}

func (s *Service) handleCreateSession(ctx context.Context, input json.RawMessage) (string, error) {
	var in createSessionInput
	if err := decode("ios_create_session", input, &in); err != nil {
		return "", err
	}

	sess, err := s.Sessions.Create(ctx, session.CreateOptions{
		Selector: in.Device,
		Kind:     device.Kind(in.Kind),
		Name:     in.Name,
	})
	if err != nil {
		return "", fmt.Errorf("ios_create_session: %w", err)
	}

	if in.Autoboot && sess.DeviceKind == device.Simulator {
		if err := s.Controller.Boot(ctx, sess.ID); err != nil {
			// The session exists either way; report the boot failure.
			return "", fmt.Errorf("ios_create_session: session %s created but boot failed: %w", sess.ID, err)
		}
	}

	return jsonResult(sess)
}

func (s *Service) handleListSessions(_ context.Context, _ json.RawMessage) (string, error) {
	sessions, err := s.Sessions.List()
	if err != nil {
		return "", fmt.Errorf("ios_list_sessions: %w", err)
	}

	return jsonResult(map[string]any{"sessions": sessions, "count": len(sessions)})
}

type sessionIDInput struct {
	SessionID string `json:"session_id"`
}

func (s *Service) handleSessionStatus(ctx context.Context, input json.RawMessage) (string, error) {
	var in sessionIDInput
	if err := decode("ios_session_status", input, &in); err != nil {
		return "", err
	}

	sess, err := s.Sessions.Get(in.SessionID)
	if err != nil {
		return "", fmt.Errorf("ios_session_status: %w", err)
	}

	out := map[string]any{"session": sess}

	if d, err := device.Find(ctx, s.Devices, sess.DeviceUDID); err == nil {
		out["device"] = d
	} else {
		out["device_error"] = err.Error()
	}

	return jsonResult(out)
}

type terminateSessionInput struct {
	SessionID string `json:"session_id"`
	Shutdown  bool   `json:"shutdown"`
}

func (s *Service) handleTerminateSession(ctx context.Context, input json.RawMessage) (string, error) {
	var in terminateSessionInput
	if err := decode("ios_terminate_session", input, &in); err != nil {
		return "", err
	}

	if in.Shutdown {
		if err := s.Controller.Shutdown(ctx, in.SessionID); err != nil {
			s.Log.Warn("shutdown during terminate failed", "session", in.SessionID, "error", err)
		}
	}

	if err := s.Sessions.Terminate(in.SessionID); err != nil {
		return "", fmt.Errorf("ios_terminate_session: %w", err)
	}

	return okResult(fmt.Sprintf("Session %s terminated.", in.SessionID))
}

type validateSessionsInput struct {
	Prune bool `json:"prune"`
}

func (s *Service) handleValidateSessions(ctx context.Context, input json.RawMessage) (string, error) {
	var in validateSessionsInput
	if err := decode("ios_validate_sessions", input, &in); err != nil {
		return "", err
	}

	stale, err := s.Sessions.Validate(ctx, in.Prune)
	if err != nil {
		return "", fmt.Errorf("ios_validate_sessions: %w", err)
	}

	return jsonResult(map[string]any{"stale": stale, "stale_count": len(stale), "pruned": in.Prune})
}
