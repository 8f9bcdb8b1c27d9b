package toolbox

import (
	"context"
	"encoding/json"
)

// Handler executes a tool with the given JSON input and returns a text
// result. Errors are surfaced to the caller as tool-level failures, not
// protocol failures.
type Handler func(ctx context.Context, input json.RawMessage) (string, error)

// Tool is an executable tool: a name, a human-readable description, a JSON
// Schema describing the input object, and the handler that runs it.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
}
