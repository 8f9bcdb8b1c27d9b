package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/germanamz/ioskit/pkg/controller"
)

func runUtil(args []string) error {
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, `Usage: ioskit util <subcommand> -session <id> [flags]

Subcommands:
  open-url <url>              Open a URL on the device
  set-location <lat> <lon>    Override the GPS location
  locate <place>              Set the location to a known city
  add-media <path>...         Import photos/videos into the simulator
  status-bar [flags]          Override simulator status bar fields
  clear-status-bar            Remove status bar overrides
  appearance <light|dark>     Switch light/dark mode
  permission <bundle> <service> <grant|revoke|reset>
                              Change an app's privacy permission
  focus                       Bring the Simulator window to the foreground
`)

		return fmt.Errorf("util subcommand is required")
	}

	sub, rest := args[0], args[1:]

	switch sub {
	case "open-url":
		return utilOpenURL(rest)
	case "set-location":
		return utilSetLocation(rest)
	case "locate":
		return utilLocate(rest)
	case "add-media":
		return utilAddMedia(rest)
	case "status-bar":
		return utilStatusBar(rest)
	case "clear-status-bar":
		return utilClearStatusBar(rest)
	case "appearance":
		return utilAppearance(rest)
	case "permission":
		return utilPermission(rest)
	case "focus":
		return utilFocus(rest)
	default:
		return fmt.Errorf("unknown util subcommand %q", sub)
	}
}

func utilOpenURL(args []string) error {
	fs := flag.NewFlagSet("util open-url", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)
	_ = fs.Parse(args)

	url, err := requireArg(fs, "url")
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

	if err := a.ctrl.OpenURL(ctx, flags.sessionID, url); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("opened ") + url)

	return nil
}

func utilSetLocation(args []string) error {
	fs := flag.NewFlagSet("util set-location", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("latitude and longitude are required")
	}

	lat, err := strconv.ParseFloat(fs.Arg(0), 64)
	if err != nil {
		return fmt.Errorf("invalid latitude %q", fs.Arg(0))
	}

	lon, err := strconv.ParseFloat(fs.Arg(1), 64)
	if err != nil {
		return fmt.Errorf("invalid longitude %q", fs.Arg(1))
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

	if err := a.ctrl.SetLocation(ctx, flags.sessionID, lat, lon); err != nil {
		return err
	}

	fmt.Printf("%s%g, %g\n", okStyle.Render("location set "), lat, lon)

	return nil
}

func utilLocate(args []string) error {
	fs := flag.NewFlagSet("util locate", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)
	_ = fs.Parse(args)

	place, err := requireArg(fs, "place")
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

	if err := a.ctrl.SetLocationByName(ctx, flags.sessionID, place); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("location set ") + place)

	return nil
}

func utilAddMedia(args []string) error {
	fs := flag.NewFlagSet("util add-media", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("at least one media path is required")
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

	if err := a.ctrl.AddMedia(ctx, flags.sessionID, fs.Args()...); err != nil {
		return err
	}

	fmt.Printf("%s%d files\n", okStyle.Render("added "), fs.NArg())

	return nil
}

func utilStatusBar(args []string) error {
	fs := flag.NewFlagSet("util status-bar", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)

	clock := fs.String("time", "", "clock text, e.g. 9:41")
	batteryState := fs.String("battery-state", "", "charging, charged, or discharging")
	batteryLevel := fs.Int("battery-level", -1, "battery percent 0-100")
	wifiBars := fs.Int("wifi-bars", -1, "wifi bars 0-3")
	cellularBars := fs.Int("cellular-bars", -1, "cellular bars 0-4")
	dataNetwork := fs.String("data-network", "", "wifi, 3g, 4g, lte, 5g")
	operator := fs.String("operator", "", "carrier name")
	_ = fs.Parse(args)

	if err := flags.validate(); err != nil {
		return err
	}

	overrides := controller.StatusBarOverrides{
		Time:         *clock,
		BatteryState: *batteryState,
		DataNetwork:  *dataNetwork,
		OperatorName: *operator,
	}

	if *batteryLevel >= 0 {
		overrides.BatteryLevel = batteryLevel
	}

	if *wifiBars >= 0 {
		overrides.WifiBars = wifiBars
	}

	if *cellularBars >= 0 {
		overrides.CellularBars = cellularBars
	}

	a, err := newApp(flags.commonFlags)
	if err != nil {
		return err
	}

	ctx, cancel := rootContext()
	defer cancel()

	if err := a.ctrl.SetStatusBar(ctx, flags.sessionID, overrides); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("status bar overridden"))

	return nil
}

func utilClearStatusBar(args []string) error {
	fs := flag.NewFlagSet("util clear-status-bar", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)
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

	if err := a.ctrl.ClearStatusBar(ctx, flags.sessionID); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("status bar cleared"))

	return nil
}

func utilAppearance(args []string) error {
	fs := flag.NewFlagSet("util appearance", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)
	_ = fs.Parse(args)

	mode, err := requireArg(fs, "mode")
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

	if err := a.ctrl.SetAppearance(ctx, flags.sessionID, mode); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("appearance set ") + mode)

	return nil
}

func utilPermission(args []string) error {
	fs := flag.NewFlagSet("util permission", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)
	_ = fs.Parse(args)

	if fs.NArg() < 3 {
		return fmt.Errorf("bundle id, service, and status are required")
	}

	bundleID, service, status := fs.Arg(0), fs.Arg(1), fs.Arg(2)

	if err := flags.validate(); err != nil {
		return err
	}

	a, err := newApp(flags.commonFlags)
	if err != nil {
		return err
	}

	ctx, cancel := rootContext()
	defer cancel()

	if err := a.ctrl.SetPermission(ctx, flags.sessionID, bundleID, service, status); err != nil {
		return err
	}

	fmt.Printf("%s%s %s for %s\n", okStyle.Render("permission "), service, status, bundleID)

	return nil
}

func utilFocus(args []string) error {
	fs := flag.NewFlagSet("util focus", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)
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

	if err := a.ctrl.FocusSimulator(ctx, flags.sessionID); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("focused"))

	return nil
}
