// Package controller issues imperative device actions for a session by
// invoking the platform control tools: simctl for simulator lifecycle and
// simulator-only overrides, idb for UI input and app management. Every
// action resolves the session to a live device first, checks the
// preconditions the external tool would otherwise fail ambiguously on, and
// runs one bounded synchronous process.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/germanamz/ioskit/pkg/cmdexec"
	"github.com/germanamz/ioskit/pkg/device"
	"github.com/germanamz/ioskit/pkg/session"
)

// OpError reports an external tool that ran but exited non-zero. The raw
// diagnostic text is preserved for the caller; nothing is retried.
type OpError struct {
	Action     string
	Tool       string
	ExitCode   int
	Diagnostic string
}

func (e *OpError) Error() string {
	msg := fmt.Sprintf("%s: %s exited %d", e.Action, e.Tool, e.ExitCode)
	if e.Diagnostic != "" {
		msg += ": " + e.Diagnostic
	}

	return msg
}

// Controller executes device actions for sessions. Fields are set once at
// construction; the zero values of the tool and timeout fields are filled by
// New.
type Controller struct {
	Sessions *session.Manager
	Devices  device.Lister
	Runner   cmdexec.Runner

	Simctl cmdexec.Tool
	Idb    cmdexec.Tool

	// CommandTimeout bounds every action; BootTimeout bounds Boot, which
	// waits for the simulator to reach the booted state.
	CommandTimeout time.Duration
	BootTimeout    time.Duration

	Log *slog.Logger
}

// New creates a Controller with standard tools and timeouts.
func New(sessions *session.Manager, devices device.Lister, runner cmdexec.Runner) *Controller {
	return &Controller{
		Sessions:       sessions,
		Devices:        devices,
		Runner:         runner,
		Simctl:         cmdexec.Tool{"xcrun", "simctl"},
		Idb:            cmdexec.Tool{"idb"},
		CommandTimeout: 30 * time.Second,
		BootTimeout:    60 * time.Second,
		Log:            slog.Default(),
	}
}

// resolve maps a session id to its live device descriptor. Fails with
// session.ErrNotFound when the session is unknown and device.ErrNotFound
// when the bound device no longer enumerates (deleted or disconnected
// out-of-band).
func (c *Controller) resolve(ctx context.Context, sessionID string) (session.Session, device.Descriptor, error) {
	sess, err := c.Sessions.Get(sessionID)
	if err != nil {
		return session.Session{}, device.Descriptor{}, err
	}

	d, err := device.Find(ctx, c.Devices, sess.DeviceUDID)
	if err != nil {
		return sess, device.Descriptor{}, err
	}

	return sess, d, nil
}

// run executes one bounded tool invocation. Non-zero exits become *OpError;
// cmdexec's ErrToolUnavailable and ErrTimeout pass through unchanged.
func (c *Controller) run(ctx context.Context, action string, tool cmdexec.Tool, timeout time.Duration, args ...string) (cmdexec.Result, error) {
	if timeout <= 0 {
		timeout = c.CommandTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c.Log.Debug("running device action", "action", action, "tool", tool.Name(), "args", strings.Join(args, " "))

	res, err := tool.Run(ctx, c.Runner, args...)
	if err != nil {
		return res, fmt.Errorf("%s: %w", action, err)
	}

	if res.ExitCode != 0 {
		return res, &OpError{
			Action:     action,
			Tool:       tool.Name(),
			ExitCode:   res.ExitCode,
			Diagnostic: strings.TrimSpace(res.Stderr),
		}
	}

	return res, nil
}

// touch bumps the session's last-activity timestamp after a successful
// action. A racing terminate can remove the record first; that is not a
// failure of the action.
func (c *Controller) touch(sessionID string) {
	if err := c.Sessions.Touch(sessionID); err != nil && !errors.Is(err, session.ErrNotFound) {
		c.Log.Warn("failed to record session activity", "session", sessionID, "error", err)
	}
}

func requireBooted(action string, d device.Descriptor) error {
	if !d.Booted() {
		return fmt.Errorf("%s: %w (device %s is %s)", action, device.ErrNotBooted, d.UDID, d.State)
	}

	return nil
}

func requireCapability(action string, d device.Descriptor, c device.Capability) error {
	if !d.Kind.Supports(c) {
		return fmt.Errorf("%s: %w", action, device.ErrUnsupportedOnRealDevice)
	}

	return nil
}

// Boot boots the session's simulator and waits until it reports booted.
// Booting an already-booted device is a no-op.
func (c *Controller) Boot(ctx context.Context, sessionID string) error {
	sess, d, err := c.resolve(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := c.bootDevice(ctx, d); err != nil {
		return err
	}

	c.touch(sess.ID)

	return nil
}

// Shutdown shuts the session's simulator down. Already-shutdown devices are
// a no-op.
func (c *Controller) Shutdown(ctx context.Context, sessionID string) error {
	sess, d, err := c.resolve(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := c.shutdownDevice(ctx, d); err != nil {
		return err
	}

	c.touch(sess.ID)

	return nil
}

// BootUDID boots a device directly by identifier, for the device-level CLI
// surface that operates without a session.
func (c *Controller) BootUDID(ctx context.Context, udid string) error {
	d, err := device.Find(ctx, c.Devices, udid)
	if err != nil {
		return err
	}

	return c.bootDevice(ctx, d)
}

// ShutdownUDID shuts a device down directly by identifier.
func (c *Controller) ShutdownUDID(ctx context.Context, udid string) error {
	d, err := device.Find(ctx, c.Devices, udid)
	if err != nil {
		return err
	}

	return c.shutdownDevice(ctx, d)
}

func (c *Controller) bootDevice(ctx context.Context, d device.Descriptor) error {
	if err := requireCapability("boot", d, device.CapBoot); err != nil {
		return err
	}

	if d.Booted() {
		return nil
	}

	if _, err := c.run(ctx, "boot", c.Simctl, c.BootTimeout, "boot", d.UDID); err != nil {
		return err
	}

	return c.waitForState(ctx, d.UDID, device.StateBooted)
}

func (c *Controller) shutdownDevice(ctx context.Context, d device.Descriptor) error {
	if err := requireCapability("shutdown", d, device.CapShutdown); err != nil {
		return err
	}

	if d.State == device.StateShutdown {
		return nil
	}

	_, err := c.run(ctx, "shutdown", c.Simctl, 0, "shutdown", d.UDID)

	return err
}

// waitForState polls the enumerator until the device reaches want. simctl
// boot returns before the simulator finishes booting, so actions issued
// immediately after would fail.
func (c *Controller) waitForState(ctx context.Context, udid string, want device.State) error {
	deadline := time.Now().Add(c.BootTimeout)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		d, err := device.Find(ctx, c.Devices, udid)
		if err == nil && d.State == want {
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("boot: %w: device %s did not reach %s", cmdexec.ErrTimeout, udid, want)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("boot: %w: device %s did not reach %s", cmdexec.ErrTimeout, udid, want)
		case <-ticker.C:
		}
	}
}
