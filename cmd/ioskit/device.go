package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/germanamz/ioskit/pkg/device"
)

func runDevice(args []string) error {
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, `Usage: ioskit device <subcommand> [flags]

Subcommands:
  list               List simulators and connected real devices
  boot <udid>        Boot a simulator and wait for it to be ready
  shutdown <udid>    Shut a simulator down
  info <udid>        Show one device
`)

		return fmt.Errorf("device subcommand is required")
	}

	sub, rest := args[0], args[1:]

	switch sub {
	case "list":
		return deviceList(rest)
	case "boot":
		return deviceBoot(rest)
	case "shutdown":
		return deviceShutdown(rest)
	case "info":
		return deviceInfo(rest)
	default:
		return fmt.Errorf("unknown device subcommand %q", sub)
	}
}

func deviceList(args []string) error {
	fs := flag.NewFlagSet("device list", flag.ExitOnError)

	var common commonFlags

	common.register(fs)

	kind := fs.String("kind", "", "only list simulator or real_device")
	bootedOnly := fs.Bool("booted", false, "only list booted devices")
	_ = fs.Parse(args)

	a, err := newApp(common)
	if err != nil {
		return err
	}

	ctx, cancel := rootContext()
	defer cancel()

	devices, err := a.devices.List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, headerStyle.Render("UDID\tNAME\tKIND\tSTATE\tOS"))

	shown := 0

	for _, d := range devices {
		if *kind != "" && string(d.Kind) != *kind {
			continue
		}

		if *bootedOnly && !d.Booted() {
			continue
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			udidStyle.Render(d.UDID),
			d.Name,
			kindStyle.Render(string(d.Kind)),
			stateStyle(string(d.State)).Render(string(d.State)),
			d.OSVersion,
		)

		shown++
	}

	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d devices\n", shown)

	return nil
}

func deviceBoot(args []string) error {
	fs := flag.NewFlagSet("device boot", flag.ExitOnError)

	var common commonFlags

	common.register(fs)
	_ = fs.Parse(args)

	udid, err := requireArg(fs, "udid")
	if err != nil {
		return err
	}

	a, err := newApp(common)
	if err != nil {
		return err
	}

	ctx, cancel := rootContext()
	defer cancel()

	if err := a.ctrl.BootUDID(ctx, udid); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("booted ") + udid)

	return nil
}

func deviceShutdown(args []string) error {
	fs := flag.NewFlagSet("device shutdown", flag.ExitOnError)

	var common commonFlags

	common.register(fs)
	_ = fs.Parse(args)

	udid, err := requireArg(fs, "udid")
	if err != nil {
		return err
	}

	a, err := newApp(common)
	if err != nil {
		return err
	}

	ctx, cancel := rootContext()
	defer cancel()

	if err := a.ctrl.ShutdownUDID(ctx, udid); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("shut down ") + udid)

	return nil
}

func deviceInfo(args []string) error {
	fs := flag.NewFlagSet("device info", flag.ExitOnError)

	var common commonFlags

	common.register(fs)
	_ = fs.Parse(args)

	udid, err := requireArg(fs, "udid")
	if err != nil {
		return err
	}

	a, err := newApp(common)
	if err != nil {
		return err
	}

	ctx, cancel := rootContext()
	defer cancel()

	d, err := device.Find(ctx, a.devices, udid)
	if err != nil {
		return err
	}

	printDevice(d)

	return nil
}

func printDevice(d device.Descriptor) {
	fmt.Println(headerStyle.Render(d.Name))
	fmt.Printf("  udid:    %s\n", udidStyle.Render(d.UDID))
	fmt.Printf("  kind:    %s\n", kindStyle.Render(string(d.Kind)))
	fmt.Printf("  state:   %s\n", stateStyle(string(d.State)).Render(string(d.State)))

	if d.OSVersion != "" {
		fmt.Printf("  os:      %s\n", d.OSVersion)
	}

	if d.Model != "" {
		fmt.Printf("  model:   %s\n", d.Model)
	}

	if d.Family != "" {
		fmt.Printf("  family:  %s\n", d.Family)
	}
}
