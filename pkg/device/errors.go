package device

import (
	"errors"
	"fmt"
)

// Sentinel errors for precondition failures. They are reported immediately
// to the caller and never retried internally.
var (
	// ErrNotFound indicates no enumerated device matches the requested
	// identifier or selector.
	ErrNotFound = errors.New("device not found")

	// ErrNotBooted indicates the action requires a booted device. The check
	// happens before the action's external process is spawned so callers get
	// a predictable failure instead of an ambiguous tool error.
	ErrNotBooted = errors.New("device not booted")

	// ErrUnsupportedOnRealDevice indicates a simulator-only action was
	// attempted against a physical device session.
	ErrUnsupportedOnRealDevice = errors.New("operation not supported on real devices")
)

// ParseError indicates an external tool produced output this version of
// ioskit does not recognize. Output formats drift across Xcode and idb
// releases, so this is a soft condition: the action failed but retrying
// after a tool upgrade or downgrade may succeed.
type ParseError struct {
	Tool   string
	Output string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s output: %v", e.Tool, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
