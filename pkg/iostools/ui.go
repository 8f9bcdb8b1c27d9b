package iostools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/germanamz/ioskit/pkg/ioskitdir"
	"github.com/germanamz/ioskit/pkg/tools/toolbox"
)

func (s *Service) uiTools() *toolbox.ToolBox {
	tb := toolbox.New()

	tb.Register(
		toolbox.Tool{
			Name:        "ios_tap",
			Description: "Tap the screen at pixel coordinates (x, y).",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"x":{"type":"integer"},"y":{"type":"integer"}},"required":["session_id","x","y"]}`),
			Handler:     s.handleTap,
		},
		toolbox.Tool{
			Name:        "ios_double_tap",
			Description: "Double-tap the screen at pixel coordinates (x, y).",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"x":{"type":"integer"},"y":{"type":"integer"}},"required":["session_id","x","y"]}`),
			Handler:     s.handleDoubleTap,
		},
		toolbox.Tool{
			Name:        "ios_long_press",
			Description: "Press and hold at (x, y) for a duration in seconds (default 1).",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"x":{"type":"integer"},"y":{"type":"integer"},"duration":{"type":"number","description":"Hold time in seconds"}},"required":["session_id","x","y"]}`),
			Handler:     s.handleLongPress,
		},
		toolbox.Tool{
			Name:        "ios_swipe",
			Description: "Swipe from (x1, y1) to (x2, y2), optionally over a duration in milliseconds.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"x1":{"type":"integer"},"y1":{"type":"integer"},"x2":{"type":"integer"},"y2":{"type":"integer"},"duration_ms":{"type":"integer"}},"required":["session_id","x1","y1","x2","y2"]}`),
			Handler:     s.handleSwipe,
		},
		toolbox.Tool{
			Name:        "ios_swipe_direction",
			Description: "Swipe up, down, left, or right from the screen center. Use for scrolling without computing coordinates.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"direction":{"type":"string","enum":["up","down","left","right"]},"distance":{"type":"integer","description":"Swipe length in pixels, 0 for default"},"duration_ms":{"type":"integer"}},"required":["session_id","direction"]}`),
			Handler:     s.handleSwipeDirection,
		},
		toolbox.Tool{
			Name:        "ios_input_text",
			Description: "Type text into the currently focused field.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"text":{"type":"string"}},"required":["session_id","text"]}`),
			Handler:     s.handleInputText,
		},
		toolbox.Tool{
			Name:        "ios_press_button",
			Description: "Press a hardware button: home, lock, side-button, siri, or apple-pay.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"button":{"type":"string","enum":["home","lock","side-button","siri","apple-pay"]}},"required":["session_id","button"]}`),
			Handler:     s.handlePressButton,
		},
		toolbox.Tool{
			Name:        "ios_screenshot",
			Description: "Capture the device screen to a PNG file. Without output_path, the file lands in the ioskit screenshots directory and its path is returned.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"session_id":{"type":"string"},"output_path":{"type":"string","description":"Destination file path"}},"required":["session_id"]}`),
			Handler:     s.handleScreenshot,
		},
	)

	return tb
}

type tapInput struct {
	SessionID string `json:"session_id"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
}

func (s *Service) handleTap(ctx context.Context, input json.RawMessage) (string, error) {
	var in tapInput
	if err := decode("ios_tap", input, &in); err != nil {
		return "", err
	}

	if err := s.Controller.Tap(ctx, in.SessionID, in.X, in.Y); err != nil {
		return "", fmt.Errorf("ios_tap: %w", err)
	}

	return okResult(fmt.Sprintf("Tapped (%d, %d).", in.X, in.Y))
}

func (s *Service) handleDoubleTap(ctx context.Context, input json.RawMessage) (string, error) {
	var in tapInput
	if err := decode("ios_double_tap", input, &in); err != nil {
		return "", err
	}

	if err := s.Controller.DoubleTap(ctx, in.SessionID, in.X, in.Y); err != nil {
		return "", fmt.Errorf("ios_double_tap: %w", err)
	}

	return okResult(fmt.Sprintf("Double-tapped (%d, %d).", in.X, in.Y))
}

type longPressInput struct {
	SessionID string  `json:"session_id"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Duration  float64 `json:"duration"`
}

func (s *Service) handleLongPress(ctx context.Context, input json.RawMessage) (string, error) {
	var in longPressInput
	if err := decode("ios_long_press", input, &in); err != nil {
		return "", err
	}

	if err := s.Controller.LongPress(ctx, in.SessionID, in.X, in.Y, in.Duration); err != nil {
		return "", fmt.Errorf("ios_long_press: %w", err)
	}

	return okResult(fmt.Sprintf("Long-pressed (%d, %d).", in.X, in.Y))
}

type swipeInput struct {
	SessionID  string `json:"session_id"`
	X1         int    `json:"x1"`
	Y1         int    `json:"y1"`
	X2         int    `json:"x2"`
	Y2         int    `json:"y2"`
	DurationMS int    `json:"duration_ms"`
}

func (s *Service) handleSwipe(ctx context.Context, input json.RawMessage) (string, error) {
	var in swipeInput
	if err := decode("ios_swipe", input, &in); err != nil {
		return "", err
	}

	if err := s.Controller.Swipe(ctx, in.SessionID, in.X1, in.Y1, in.X2, in.Y2, in.DurationMS); err != nil {
		return "", fmt.Errorf("ios_swipe: %w", err)
	}

	return okResult(fmt.Sprintf("Swiped (%d, %d) to (%d, %d).", in.X1, in.Y1, in.X2, in.Y2))
}

type swipeDirectionInput struct {
	SessionID  string `json:"session_id"`
	Direction  string `json:"direction"`
	Distance   int    `json:"distance"`
	DurationMS int    `json:"duration_ms"`
}

func (s *Service) handleSwipeDirection(ctx context.Context, input json.RawMessage) (string, error) {
	var in swipeDirectionInput
	if err := decode("ios_swipe_direction", input, &in); err != nil {
		return "", err
	}

	if err := s.Controller.SwipeDirection(ctx, in.SessionID, in.Direction, in.Distance, in.DurationMS); err != nil {
		return "", fmt.Errorf("ios_swipe_direction: %w", err)
	}

	return okResult(fmt.Sprintf("Swiped %s.", in.Direction))
}

type inputTextInput struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

func (s *Service) handleInputText(ctx context.Context, input json.RawMessage) (string, error) {
	var in inputTextInput
	if err := decode("ios_input_text", input, &in); err != nil {
		return "", err
	}

	if err := s.Controller.TypeText(ctx, in.SessionID, in.Text); err != nil {
		return "", fmt.Errorf("ios_input_text: %w", err)
	}

	return okResult(fmt.Sprintf("Typed %d characters.", len(in.Text)))
}

type pressButtonInput struct {
	SessionID string `json:"session_id"`
	Button    string `json:"button"`
}

func (s *Service) handlePressButton(ctx context.Context, input json.RawMessage) (string, error) {
	var in pressButtonInput
	if err := decode("ios_press_button", input, &in); err != nil {
		return "", err
	}

	if err := s.Controller.PressButton(ctx, in.SessionID, in.Button); err != nil {
		return "", fmt.Errorf("ios_press_button: %w", err)
	}

	return okResult(fmt.Sprintf("Pressed %s.", in.Button))
}

type screenshotInput struct {
	SessionID  string `json:"session_id"`
	OutputPath string `json:"output_path"`
}

func (s *Service) handleScreenshot(ctx context.Context, input json.RawMessage) (string, error) {
	var in screenshotInput
	if err := decode("ios_screenshot", input, &in); err != nil {
		return "", err
	}

	path := in.OutputPath
	if path == "" {
		if s.ScreenshotDir != "" {
			if err := os.MkdirAll(s.ScreenshotDir, 0o750); err != nil {
				return "", fmt.Errorf("ios_screenshot: %w", err)
			}

			name := fmt.Sprintf("%s-%s.png", in.SessionID, time.Now().Format("20060102-150405"))
			path = filepath.Join(s.ScreenshotDir, name)
		} else {
			if err := ioskitdir.EnsureStructure(s.Dir); err != nil {
				return "", fmt.Errorf("ios_screenshot: %w", err)
			}

			path = s.Dir.ScreenshotFile(in.SessionID, time.Now())
		}
	}

	if err := s.Controller.Screenshot(ctx, in.SessionID, path); err != nil {
		return "", fmt.Errorf("ios_screenshot: %w", err)
	}

	return jsonResult(map[string]any{"success": true, "path": path})
}
