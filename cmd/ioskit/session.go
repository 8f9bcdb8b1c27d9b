package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/germanamz/ioskit/pkg/device"
	"github.com/germanamz/ioskit/pkg/session"
)

func runSession(args []string) error {
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, `Usage: ioskit session <subcommand> [flags]

Subcommands:
  create                 Create a session bound to a device
  list                   List sessions
  terminate <id>         End a session
  validate               Report sessions whose device disappeared
`)

		return fmt.Errorf("session subcommand is required")
	}

	sub, rest := args[0], args[1:]

	switch sub {
	case "create":
		return sessionCreate(rest)
	case "list":
		return sessionList(rest)
	case "terminate":
		return sessionTerminate(rest)
	case "validate":
		return sessionValidate(rest)
	default:
		return fmt.Errorf("unknown session subcommand %q", sub)
	}
}

func sessionCreate(args []string) error {
	fs := flag.NewFlagSet("session create", flag.ExitOnError)

	var common commonFlags

	common.register(fs)

	dev := fs.String("device", "", "device UDID or name substring (default: first available simulator)")
	kind := fs.String("kind", "", "restrict selection to simulator or real_device")
	name := fs.String("name", "", "session label, becomes part of the id")
	boot := fs.Bool("boot", false, "boot the simulator if it is not running")
	_ = fs.Parse(args)

	a, err := newApp(common)
	if err != nil {
		return err
	}

	ctx, cancel := rootContext()
	defer cancel()

	sess, err := a.sessions.Create(ctx, session.CreateOptions{
		Selector: *dev,
		Kind:     device.Kind(*kind),
		Name:     *name,
	})
	if err != nil {
		return err
	}

	if *boot && sess.DeviceKind == device.Simulator {
		if err := a.ctrl.Boot(ctx, sess.ID); err != nil {
			return fmt.Errorf("session %s created but boot failed: %w", sess.ID, err)
		}
	}

	fmt.Println(okStyle.Render("created ") + headerStyle.Render(sess.ID))
	fmt.Printf("  device: %s (%s)\n", sess.DeviceUDID, sess.DeviceKind)

	return nil
}

func sessionList(args []string) error {
	fs := flag.NewFlagSet("session list", flag.ExitOnError)

	var common commonFlags

	common.register(fs)
	_ = fs.Parse(args)

	a, err := newApp(common)
	if err != nil {
		return err
	}

	sessions, err := a.sessions.List()
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("no sessions")

		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, headerStyle.Render("ID\tDEVICE\tKIND\tCREATED\tLAST ACTIVITY"))

	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			s.ID,
			udidStyle.Render(s.DeviceUDID),
			kindStyle.Render(string(s.DeviceKind)),
			s.CreatedAt.Local().Format(time.DateTime),
			s.LastActivity.Local().Format(time.DateTime),
		)
	}

	return w.Flush()
}

func sessionTerminate(args []string) error {
	fs := flag.NewFlagSet("session terminate", flag.ExitOnError)

	var common commonFlags

	common.register(fs)

	shutdown := fs.Bool("shutdown", false, "shut the simulator down before removing the session")
	_ = fs.Parse(args)

	id, err := requireArg(fs, "session id")
	if err != nil {
		return err
	}

	a, err := newApp(common)
	if err != nil {
		return err
	}

	ctx, cancel := rootContext()
	defer cancel()

	if *shutdown {
		if err := a.ctrl.Shutdown(ctx, id); err != nil {
			a.log.Warn("shutdown during terminate failed", "session", id, "error", err)
		}
	}

	if err := a.sessions.Terminate(id); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("terminated ") + id)

	return nil
}

func sessionValidate(args []string) error {
	fs := flag.NewFlagSet("session validate", flag.ExitOnError)

	var common commonFlags

	common.register(fs)

	prune := fs.Bool("prune", false, "remove stale sessions from the store")
	_ = fs.Parse(args)

	a, err := newApp(common)
	if err != nil {
		return err
	}

	ctx, cancel := rootContext()
	defer cancel()

	stale, err := a.sessions.Validate(ctx, *prune)
	if err != nil {
		return err
	}

	if len(stale) == 0 {
		fmt.Println(okStyle.Render("all sessions valid"))

		return nil
	}

	for _, s := range stale {
		verb := "stale"
		if *prune {
			verb = "pruned"
		}

		fmt.Printf("%s %s (device %s gone)\n", warnStyle.Render(verb), s.ID, s.DeviceUDID)
	}

	return nil
}
