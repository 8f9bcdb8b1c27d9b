// Package iostools exposes device, session, UI, app, and utility operations
// as MCP tools. Each tool unmarshals its JSON input, delegates to the
// session manager or controller, and returns a JSON result the client can
// parse.
package iostools

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/germanamz/ioskit/pkg/controller"
	"github.com/germanamz/ioskit/pkg/device"
	"github.com/germanamz/ioskit/pkg/ioskitdir"
	"github.com/germanamz/ioskit/pkg/session"
	"github.com/germanamz/ioskit/pkg/tools/toolbox"
)

// Service wires the tool handlers to the session manager and device
// controller.
type Service struct {
	Sessions   *session.Manager
	Controller *controller.Controller
	Devices    device.Lister
	Dir        ioskitdir.Dir
	Log        *slog.Logger

	// ScreenshotDir overrides the default screenshot directory under Dir.
	ScreenshotDir string

	// lookPath is swapped in tests.
	lookPath func(string) (string, error)
}

// New creates a Service.
func New(sessions *session.Manager, ctrl *controller.Controller, devices device.Lister, dir ioskitdir.Dir, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		Sessions:   sessions,
		Controller: ctrl,
		Devices:    devices,
		Dir:        dir,
		Log:        log,
		lookPath:   exec.LookPath,
	}
}

// Tools returns the full toolbox: device, session, UI, app, and utility
// tools.
func (s *Service) Tools() *toolbox.ToolBox {
	tb := toolbox.New()

	tb.Merge(s.deviceTools())
	tb.Merge(s.sessionTools())
	tb.Merge(s.uiTools())
	tb.Merge(s.appTools())
	tb.Merge(s.utilTools())

	return tb
}

// jsonResult marshals v as the tool's text output.
func jsonResult(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}

	return string(data), nil
}

// okResult is the minimal success payload for tools with no data to return.
func okResult(message string) (string, error) {
	return jsonResult(map[string]any{"success": true, "message": message})
}

func decode(name string, input json.RawMessage, out any) error {
	if len(input) == 0 {
		input = json.RawMessage("{}")
	}

	if err := json.Unmarshal(input, out); err != nil {
		return fmt.Errorf("%s: invalid input: %w", name, err)
	}

	return nil
}
