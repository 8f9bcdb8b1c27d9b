// Package cmdexec wraps external command-line tool invocation behind a narrow
// Runner interface so the rest of ioskit never depends on a specific binary's
// process-spawning details. A Runner executes one command synchronously and
// reports exit code, stdout, and stderr; callers interpret non-zero exits.
package cmdexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
	"time"
)

// ErrToolUnavailable indicates the external binary is not installed on the
// host. Fatal for the invoked action; callers should not retry.
var ErrToolUnavailable = errors.New("external tool not available")

// ErrTimeout indicates the external process did not exit within the bounded
// timeout. Callers may retry; the Runner never retries internally.
var ErrTimeout = errors.New("operation timed out")

// Result holds the outcome of a completed external process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes an external command. Implementations must be safe for use
// from a single goroutine at a time; ioskit serializes device actions.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// System is a Runner that spawns processes on the host. Timeout bounds every
// invocation that does not already carry a context deadline.
type System struct {
	Timeout time.Duration
}

// DefaultTimeout bounds invocations when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Run executes name with args and waits for it to exit. A non-zero exit is
// not an error; the exit code is reported in Result. Run returns
// ErrToolUnavailable when the binary cannot be found and ErrTimeout when the
// deadline elapses first.
func (s System) Run(ctx context.Context, name string, args ...string) (Result, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := osexec.CommandContext(ctx, name, args...) //nolint:gosec // name and args are built from fixed tool grammars

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	if err == nil {
		return res, nil
	}

	if errors.Is(err, osexec.ErrNotFound) {
		return res, fmt.Errorf("%w: %s", ErrToolUnavailable, name)
	}

	if ctx.Err() != nil {
		return res, fmt.Errorf("%w: %s", ErrTimeout, name)
	}

	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}

	return res, fmt.Errorf("cmdexec: run %s: %w", name, err)
}
