package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
)

func runApp(args []string) error {
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, `Usage: ioskit app <subcommand> -session <id> [flags]

Subcommands:
  install <path>         Install a .app bundle or .ipa
  uninstall <bundle-id>  Remove an app
  launch <bundle-id>     Launch an app, extra args go to the process
  terminate <bundle-id>  Stop a running app
  list                   List installed apps
  logs                   Fetch recent device log output
`)

		return fmt.Errorf("app subcommand is required")
	}

	sub, rest := args[0], args[1:]

	switch sub {
	case "install":
		return appInstall(rest)
	case "uninstall":
		return appUninstall(rest)
	case "launch":
		return appLaunch(rest)
	case "terminate":
		return appTerminate(rest)
	case "list":
		return appList(rest)
	case "logs":
		return appLogs(rest)
	default:
		return fmt.Errorf("unknown app subcommand %q", sub)
	}
}

// sessionFlags extends the common flags with the session id every app and
// ui command needs.
type sessionFlags struct {
	commonFlags

	sessionID string
}

func (s *sessionFlags) register(fs *flag.FlagSet) {
	s.commonFlags.register(fs)
	fs.StringVar(&s.sessionID, "session", "", "session id from 'ioskit session create'")
}

func (s *sessionFlags) validate() error {
	if s.sessionID == "" {
		return fmt.Errorf("-session is required")
	}

	return nil
}

func appInstall(args []string) error {
	fs := flag.NewFlagSet("app install", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)
	_ = fs.Parse(args)

	path, err := requireArg(fs, "app path")
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

	if err := a.ctrl.InstallApp(ctx, flags.sessionID, path); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("installed ") + path)

	return nil
}

func appUninstall(args []string) error {
	fs := flag.NewFlagSet("app uninstall", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)
	_ = fs.Parse(args)

	bundleID, err := requireArg(fs, "bundle id")
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

	if err := a.ctrl.UninstallApp(ctx, flags.sessionID, bundleID); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("uninstalled ") + bundleID)

	return nil
}

func appLaunch(args []string) error {
	fs := flag.NewFlagSet("app launch", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)
	_ = fs.Parse(args)

	bundleID, err := requireArg(fs, "bundle id")
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

	extra := fs.Args()[1:]

	if err := a.ctrl.LaunchApp(ctx, flags.sessionID, bundleID, extra...); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("launched ") + bundleID)

	return nil
}

func appTerminate(args []string) error {
	fs := flag.NewFlagSet("app terminate", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)
	_ = fs.Parse(args)

	bundleID, err := requireArg(fs, "bundle id")
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

	if err := a.ctrl.TerminateApp(ctx, flags.sessionID, bundleID); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("terminated ") + bundleID)

	return nil
}

func appList(args []string) error {
	fs := flag.NewFlagSet("app list", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)

	includeSystem := fs.Bool("system", false, "include system apps")
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

	apps, err := a.ctrl.ListApps(ctx, flags.sessionID, !*includeSystem)
	if err != nil {
		return err
	}

	if len(apps) == 0 {
		fmt.Println("no apps")

		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, headerStyle.Render("BUNDLE ID\tNAME\tTYPE\tRUNNING"))

	for _, app := range apps {
		running := ""
		if app.Running {
			running = okStyle.Render("yes")
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", app.BundleID, app.Name, app.InstallType, running)
	}

	return w.Flush()
}

func appLogs(args []string) error {
	fs := flag.NewFlagSet("app logs", flag.ExitOnError)

	var flags sessionFlags

	flags.register(fs)

	bundleID := fs.String("bundle", "", "only logs from this bundle id")
	limit := fs.Int("limit", 0, "maximum number of log entries")
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

	logs, err := a.ctrl.GetLogs(ctx, flags.sessionID, *bundleID, *limit)
	if err != nil {
		return err
	}

	fmt.Print(logs)

	return nil
}
