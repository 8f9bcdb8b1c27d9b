package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/germanamz/ioskit/pkg/cmdexec"
	"github.com/germanamz/ioskit/pkg/config"
	"github.com/germanamz/ioskit/pkg/controller"
	"github.com/germanamz/ioskit/pkg/device"
	"github.com/germanamz/ioskit/pkg/ioskitdir"
	"github.com/germanamz/ioskit/pkg/iostools"
	"github.com/germanamz/ioskit/pkg/session"
)

// app bundles the wired components every command operates on.
type app struct {
	cfg      config.Config
	dir      ioskitdir.Dir
	log      *slog.Logger
	devices  *device.Enumerator
	sessions *session.Manager
	ctrl     *controller.Controller
	svc      *iostools.Service
}

// commonFlags holds the flags shared by every subcommand.
type commonFlags struct {
	ioskitDir string
	envFile   string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.ioskitDir, "ioskit-dir", "", "path to the ioskit directory (default ~/.ioskit)")
	fs.StringVar(&c.envFile, "env", ".env", "path to .env file (ignored if missing)")
}

// newApp loads the environment and config, then wires the enumerator,
// session manager, controller, and tool service.
func newApp(flags commonFlags) (*app, error) {
	if err := loadDotEnv(flags.envFile); err != nil {
		return nil, err
	}

	dir, err := resolveDir(flags)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir.ConfigPath())
	if err != nil {
		return nil, err
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	runner := cmdexec.System{Timeout: cfg.CommandTimeout.Std()}

	enum := device.NewEnumerator(runner)
	enum.Simctl = cmdexec.NewTool(cfg.Simctl)
	enum.Idb = cmdexec.NewTool(cfg.Idb)

	storePath := cfg.StorePath
	if storePath == "" {
		storePath = dir.SessionsPath()
	}

	sessions := session.NewManager(session.NewStore(storePath), enum)

	ctrl := controller.New(sessions, enum, runner)
	ctrl.Simctl = enum.Simctl
	ctrl.Idb = enum.Idb
	ctrl.CommandTimeout = cfg.CommandTimeout.Std()
	ctrl.BootTimeout = cfg.BootTimeout.Std()
	ctrl.Log = log

	svc := iostools.New(sessions, ctrl, enum, dir, log)
	svc.ScreenshotDir = cfg.ScreenshotDir

	return &app{
		cfg:      cfg,
		dir:      dir,
		log:      log,
		devices:  enum,
		sessions: sessions,
		ctrl:     ctrl,
		svc:      svc,
	}, nil
}

// resolveDir picks the ioskit directory: the -ioskit-dir flag when given,
// otherwise ~/.ioskit.
func resolveDir(flags commonFlags) (ioskitdir.Dir, error) {
	if flags.ioskitDir != "" {
		return ioskitdir.New(flags.ioskitDir), nil
	}

	return ioskitdir.Default()
}

// screenshotPath returns a timestamped capture destination, honoring the
// screenshot_dir config override, and creates the directory.
func (a *app) screenshotPath(sessionID string) (string, error) {
	dir := a.cfg.ScreenshotDir
	if dir == "" {
		dir = a.dir.ScreenshotsDir()
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%s.png", sessionID, time.Now().Format("20060102-150405"))

	return filepath.Join(dir, name), nil
}

// rootContext returns a context cancelled by SIGINT or SIGTERM.
func rootContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// requireArg returns the first positional argument or an error naming what
// is missing.
func requireArg(fs *flag.FlagSet, name string) (string, error) {
	if fs.NArg() < 1 {
		return "", fmt.Errorf("%s is required", name)
	}

	return fs.Arg(0), nil
}
