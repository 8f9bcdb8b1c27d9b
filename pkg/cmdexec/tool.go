package cmdexec

import (
	"context"
	"errors"
	"strings"
)

// Tool is a fixed argv prefix for an external binary, e.g. {"xcrun",
// "simctl"} or {"idb"}. Action arguments are appended per invocation.
type Tool []string

// NewTool splits command on whitespace into a Tool. An empty command yields
// an empty Tool, which fails on Run.
func NewTool(command string) Tool {
	return Tool(strings.Fields(command))
}

// Name returns the full command prefix for diagnostics, e.g. "xcrun simctl".
func (t Tool) Name() string {
	if len(t) == 0 {
		return ""
	}

	return strings.Join(t, " ")
}

// Binary returns the executable the tool resolves through PATH. Unlike Name,
// the result never contains the fixed arguments, so it is safe to feed to
// exec.LookPath.
func (t Tool) Binary() string {
	if len(t) == 0 {
		return ""
	}

	return t[0]
}

// Run invokes the tool through r with args appended to the argv prefix.
func (t Tool) Run(ctx context.Context, r Runner, args ...string) (Result, error) {
	if len(t) == 0 {
		return Result{}, errors.New("cmdexec: empty tool command")
	}

	argv := make([]string, 0, len(t)-1+len(args))
	argv = append(argv, t[1:]...)
	argv = append(argv, args...)

	return r.Run(ctx, t[0], argv...)
}
