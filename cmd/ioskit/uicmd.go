package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

func runUI(args []string) error {
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, `Usage: ioskit ui <subcommand> -session <id> [flags]

Subcommands:
  tap <x> <y>                 Tap the screen
  double-tap <x> <y>          Tap twice in quick succession
  swipe <x1> <y1> <x2> <y2>   Swipe between two points
  scroll <direction>          Swipe up, down, left, or right from center
  type <text>                 Type into the focused field
  button <name>               Press home, lock, side-button, siri, or apple-pay
  screenshot                  Capture the screen to a PNG
`)

		return fmt.Errorf("ui subcommand is required")
	}

	sub, rest := args[0], args[1:]

	switch sub {
	case "tap":
		return uiTap(rest)
	case "double-tap":
		return uiDoubleTap(rest)
	case "swipe":
		return uiSwipe(rest)
	case "scroll":
		return uiScroll(rest)
	case "type":
		return uiType(rest)
	case "button":
		return uiButton(rest)
	case "screenshot":
		return uiScreenshot(rest)
	default:
		return fmt.Errorf("unknown ui subcommand %q", sub)
	}
}

func intArgs(fs *flag.FlagSet, names ...string) ([]int, error) {
	if fs.NArg() < len(names) {
		return nil, fmt.Errorf("expected arguments: %v", names)
	}

	out := make([]int, len(names))

	for i, name := range names {
		v, err := strconv.Atoi(fs.Arg(i))
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer, got %q", name, fs.Arg(i))
		}

		out[i] = v
	}

	return out, nil
}

func uiTap(args []string) error {
	fs := flag.NewFlagSet("ui tap", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)

	long := fs.Float64("hold", 0, "hold duration in seconds for a long press")
	_ = fs.Parse(args)

	coords, err := intArgs(fs, "x", "y")
	if err != nil {
		return err
	}

	if err := flags.validate(); err != nil {
		return err
	}

	a, err := newApp(flags.commonFlags)
	if err != nil {
		return err
	}

	ctx, cancel := rootContext()
	defer cancel()

	if *long > 0 {
		err = a.ctrl.LongPress(ctx, flags.sessionID, coords[0], coords[1], *long)
	} else {
		err = a.ctrl.Tap(ctx, flags.sessionID, coords[0], coords[1])
	}

	if err != nil {
		return err
	}

	fmt.Printf("%s(%d, %d)\n", okStyle.Render("tapped "), coords[0], coords[1])

	return nil
}

func uiDoubleTap(args []string) error {
	fs := flag.NewFlagSet("ui double-tap", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)
	_ = fs.Parse(args)

	coords, err := intArgs(fs, "x", "y")
	if err != nil {
		return err
	}

	if err := flags.validate(); err != nil {
		return err
	}

	a, err := newApp(flags.commonFlags)
	if err != nil {
		return err
	}

	ctx, cancel := rootContext()
	defer cancel()

	if err := a.ctrl.DoubleTap(ctx, flags.sessionID, coords[0], coords[1]); err != nil {
		return err
	}

	fmt.Printf("%s(%d, %d)\n", okStyle.Render("double-tapped "), coords[0], coords[1])

	return nil
}

func uiSwipe(args []string) error {
	fs := flag.NewFlagSet("ui swipe", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)

	durationMS := fs.Int("duration-ms", 0, "swipe duration in milliseconds")
	_ = fs.Parse(args)

	coords, err := intArgs(fs, "x1", "y1", "x2", "y2")
	if err != nil {
		return err
	}

	if err := flags.validate(); err != nil {
		return err
	}

	a, err := newApp(flags.commonFlags)
	if err != nil {
		return err
	}

	ctx, cancel := rootContext()
	defer cancel()

	if err := a.ctrl.Swipe(ctx, flags.sessionID, coords[0], coords[1], coords[2], coords[3], *durationMS); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("swiped"))

	return nil
}

func uiScroll(args []string) error {
	fs := flag.NewFlagSet("ui scroll", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)

	distance := fs.Int("distance", 0, "swipe length in pixels (0 for default)")
	durationMS := fs.Int("duration-ms", 0, "swipe duration in milliseconds")
	_ = fs.Parse(args)

	direction, err := requireArg(fs, "direction")
	if err != nil {
		return err
	}

	if err := flags.validate(); err != nil {
		return err
	}

	a, err := newApp(flags.commonFlags)
	if err != nil {
		return err
	}

	ctx, cancel := rootContext()
	defer cancel()

	if err := a.ctrl.SwipeDirection(ctx, flags.sessionID, direction, *distance, *durationMS); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("scrolled ") + direction)

	return nil
}

func uiType(args []string) error {
	fs := flag.NewFlagSet("ui type", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)
	_ = fs.Parse(args)

	text, err := requireArg(fs, "text")
	if err != nil {
		return err
	}

	if err := flags.validate(); err != nil {
		return err
	}

	a, err := newApp(flags.commonFlags)
	if err != nil {
		return err
	}

	ctx, cancel := rootContext()
	defer cancel()

	if err := a.ctrl.TypeText(ctx, flags.sessionID, text); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("typed ") + fmt.Sprintf("%d characters", len(text)))

	return nil
}

func uiButton(args []string) error {
	fs := flag.NewFlagSet("ui button", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)
	_ = fs.Parse(args)

	button, err := requireArg(fs, "button")
	if err != nil {
		return err
	}

	if err := flags.validate(); err != nil {
		return err
	}

	a, err := newApp(flags.commonFlags)
	if err != nil {
		return err
	}

	ctx, cancel := rootContext()
	defer cancel()

	if err := a.ctrl.PressButton(ctx, flags.sessionID, button); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("pressed ") + button)

	return nil
}

func uiScreenshot(args []string) error {
	fs := flag.NewFlagSet("ui screenshot", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)

	output := fs.String("output", "", "destination path (default: ioskit screenshots directory)")
	_ = fs.Parse(args)

	if err := flags.validate(); err != nil {
		return err
	}

	a, err := newApp(flags.commonFlags)
	if err != nil {
		return err
	}

	ctx, cancel := rootContext()
	defer cancel()

	path := *output
	if path == "" {
		path, err = a.screenshotPath(flags.sessionID)
		if err != nil {
			return err
		}
	}

	if err := a.ctrl.Screenshot(ctx, flags.sessionID, path); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("saved ") + path)

	return nil
}
