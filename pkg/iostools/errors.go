package iostools

import (
	"errors"

	"github.com/germanamz/ioskit/pkg/cmdexec"
	"github.com/germanamz/ioskit/pkg/controller"
	"github.com/germanamz/ioskit/pkg/device"
	"github.com/germanamz/ioskit/pkg/session"
)

// ErrorKind maps a tool handler error to a short machine-readable kind for
// MCP error results. Clients branch on the kind instead of matching message
// text.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return "session_not_found"
	case errors.Is(err, device.ErrNotFound):
		return "device_not_found"
	case errors.Is(err, device.ErrNotBooted):
		return "device_not_booted"
	case errors.Is(err, device.ErrUnsupportedOnRealDevice):
		return "unsupported_on_real_device"
	case errors.Is(err, cmdexec.ErrToolUnavailable):
		return "tool_unavailable"
	case errors.Is(err, cmdexec.ErrTimeout):
		return "timeout"
	}

	var opErr *controller.OpError
	if errors.As(err, &opErr) {
		return "command_failed"
	}

	var parseErr *device.ParseError
	if errors.As(err, &parseErr) {
		return "parse_error"
	}

	return "internal"
}
