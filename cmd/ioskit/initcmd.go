package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/germanamz/ioskit/pkg/ioskitdir"
)

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ioskit init [flags]\n\nCreate the ioskit directory with a commented config skeleton.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	var common commonFlags

	common.register(fs)
	_ = fs.Parse(args)

	dir, err := resolveDir(common)
	if err != nil {
		return err
	}

	existed := dir.Exists()

	if err := ioskitdir.Bootstrap(dir); err != nil {
		return err
	}

	if existed {
		fmt.Println(okStyle.Render("refreshed ") + dir.Root())
	} else {
		fmt.Println(okStyle.Render("initialized ") + dir.Root())
	}

	fmt.Printf("  config:      %s\n", dir.ConfigPath())
	fmt.Printf("  sessions:    %s\n", dir.SessionsPath())
	fmt.Printf("  screenshots: %s\n", dir.ScreenshotsDir())

	return nil
}
