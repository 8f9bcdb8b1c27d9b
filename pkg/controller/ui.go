package controller

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/germanamz/ioskit/pkg/device"
)

// Reference canvas for directional swipes when the caller gives no
// distance, matching a portrait phone screen in points.
const (
	swipeCanvasWidth  = 390
	swipeCanvasHeight = 844
	defaultSwipeSpan  = 300
)

// hardwareButtons maps accepted button names to idb's enum spelling.
var hardwareButtons = map[string]string{
	"home":        "HOME",
	"lock":        "LOCK",
	"side-button": "SIDE_BUTTON",
	"siri":        "SIRI",
	"apple-pay":   "APPLE_PAY",
}

// ui resolves the session and enforces the preconditions shared by all UI
// input actions: device still enumerates, device is booted, kind supports
// UI input. Runs before any external process is spawned for the action.
func (c *Controller) ui(ctx context.Context, action, sessionID string) (device.Descriptor, error) {
	_, d, err := c.resolve(ctx, sessionID)
	if err != nil {
		return device.Descriptor{}, err
	}

	if err := requireCapability(action, d, device.CapUI); err != nil {
		return device.Descriptor{}, err
	}

	if err := requireBooted(action, d); err != nil {
		return device.Descriptor{}, err
	}

	return d, nil
}

// Tap taps the screen at (x, y).
func (c *Controller) Tap(ctx context.Context, sessionID string, x, y int) error {
	d, err := c.ui(ctx, "tap", sessionID)
	if err != nil {
		return err
	}

	_, err = c.run(ctx, "tap", c.Idb, 0,
		"ui", "--udid", d.UDID, "tap", strconv.Itoa(x), strconv.Itoa(y))
	if err != nil {
		return err
	}

	c.touch(sessionID)

	return nil
}

// DoubleTap taps (x, y) twice in quick succession. idb exposes no multi-tap
// primitive, so two tap events are issued back to back.
func (c *Controller) DoubleTap(ctx context.Context, sessionID string, x, y int) error {
	d, err := c.ui(ctx, "double_tap", sessionID)
	if err != nil {
		return err
	}

	for i := 0; i < 2; i++ {
		_, err = c.run(ctx, "double_tap", c.Idb, 0,
			"ui", "--udid", d.UDID, "tap", strconv.Itoa(x), strconv.Itoa(y))
		if err != nil {
			return err
		}
	}

	c.touch(sessionID)

	return nil
}

// LongPress holds a tap at (x, y) for the given number of seconds.
func (c *Controller) LongPress(ctx context.Context, sessionID string, x, y int, seconds float64) error {
	d, err := c.ui(ctx, "long_press", sessionID)
	if err != nil {
		return err
	}

	if seconds <= 0 {
		seconds = 1
	}

	_, err = c.run(ctx, "long_press", c.Idb, 0,
		"ui", "--udid", d.UDID, "tap", strconv.Itoa(x), strconv.Itoa(y),
		"--duration", strconv.FormatFloat(seconds, 'f', -1, 64))
	if err != nil {
		return err
	}

	c.touch(sessionID)

	return nil
}

// Swipe drags from (x1, y1) to (x2, y2) over durationMS milliseconds.
func (c *Controller) Swipe(ctx context.Context, sessionID string, x1, y1, x2, y2, durationMS int) error {
	d, err := c.ui(ctx, "swipe", sessionID)
	if err != nil {
		return err
	}

	args := []string{"ui", "--udid", d.UDID, "swipe",
		strconv.Itoa(x1), strconv.Itoa(y1), strconv.Itoa(x2), strconv.Itoa(y2)}

	if durationMS > 0 {
		secs := float64(durationMS) / 1000
		args = append(args, "--duration", strconv.FormatFloat(secs, 'f', -1, 64))
	}

	_, err = c.run(ctx, "swipe", c.Idb, 0, args...)
	if err != nil {
		return err
	}

	c.touch(sessionID)

	return nil
}

// SwipeDirection swipes up, down, left, or right from the center of a
// reference phone canvas. distance 0 uses a default span.
func (c *Controller) SwipeDirection(ctx context.Context, sessionID, direction string, distance, durationMS int) error {
	if distance <= 0 {
		distance = defaultSwipeSpan
	}

	cx, cy := swipeCanvasWidth/2, swipeCanvasHeight/2

	var x1, y1, x2, y2 int

	switch strings.ToLower(direction) {
	case "up":
		x1, y1, x2, y2 = cx, cy+distance/2, cx, cy-distance/2
	case "down":
		x1, y1, x2, y2 = cx, cy-distance/2, cx, cy+distance/2
	case "left":
		x1, y1, x2, y2 = cx+distance/2, cy, cx-distance/2, cy
	case "right":
		x1, y1, x2, y2 = cx-distance/2, cy, cx+distance/2, cy
	default:
		return fmt.Errorf("swipe: unknown direction %q", direction)
	}

	return c.Swipe(ctx, sessionID, x1, y1, x2, y2, durationMS)
}

// TypeText types text into the focused field.
func (c *Controller) TypeText(ctx context.Context, sessionID, text string) error {
	d, err := c.ui(ctx, "type_text", sessionID)
	if err != nil {
		return err
	}

	_, err = c.run(ctx, "type_text", c.Idb, 0, "ui", "--udid", d.UDID, "text", text)
	if err != nil {
		return err
	}

	c.touch(sessionID)

	return nil
}

// PressButton presses a hardware button: home, lock, side-button, siri, or
// apple-pay.
func (c *Controller) PressButton(ctx context.Context, sessionID, button string) error {
	name, ok := hardwareButtons[strings.ToLower(button)]
	if !ok {
		return fmt.Errorf("press_button: unknown button %q", button)
	}

	d, err := c.ui(ctx, "press_button", sessionID)
	if err != nil {
		return err
	}

	_, err = c.run(ctx, "press_button", c.Idb, 0, "ui", "--udid", d.UDID, "button", name)
	if err != nil {
		return err
	}

	c.touch(sessionID)

	return nil
}

// FocusSimulator brings the Simulator window to the foreground on the host.
func (c *Controller) FocusSimulator(ctx context.Context, sessionID string) error {
	_, d, err := c.resolve(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := requireCapability("focus", d, device.CapFocus); err != nil {
		return err
	}

	if err := requireBooted("focus", d); err != nil {
		return err
	}

	_, err = c.run(ctx, "focus", c.Idb, 0, "focus", "--udid", d.UDID)
	if err != nil {
		return err
	}

	c.touch(sessionID)

	return nil
}

// Screenshot captures the screen to path. Simulators go through simctl so a
// host without idb can still capture; real devices require idb.
func (c *Controller) Screenshot(ctx context.Context, sessionID, path string) error {
	_, d, err := c.resolve(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := requireCapability("screenshot", d, device.CapScreenshot); err != nil {
		return err
	}

	if err := requireBooted("screenshot", d); err != nil {
		return err
	}

	if d.Kind == device.Simulator {
		_, err = c.run(ctx, "screenshot", c.Simctl, 0, "io", d.UDID, "screenshot", path)
	} else {
		_, err = c.run(ctx, "screenshot", c.Idb, 0, "screenshot", "--udid", d.UDID, path)
	}

	if err != nil {
		return err
	}

	c.touch(sessionID)

	return nil
}
