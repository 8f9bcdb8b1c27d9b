// Ioskit controls iOS simulators and physical devices from the command line
// and exposes the same operations as MCP tools over stdio. Commands shell
// out to simctl and idb; sessions bind a stable id to a device so scripts
// and MCP clients do not need to carry UDIDs around.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]

	switch cmd {
	case "help", "-h", "--help":
		usage()
		return
	case "version":
		fmt.Println("ioskit " + version)
		return
	}

	run, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

const version = "0.3.0"

var commands = map[string]func(args []string) error{
	"init":    runInit,
	"status":  runStatus,
	"device":  runDevice,
	"session": runSession,
	"app":     runApp,
	"ui":      runUI,
	"util":    runUtil,
	"mcp":     runMCP,
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: ioskit <command> [subcommand] [flags]

Commands:
  init      Create the ioskit directory and a config skeleton
  status    Show tool availability, device counts, and session count
  device    List, boot, shut down, and inspect devices
  session   Create, list, validate, and terminate device sessions
  app       Install, launch, terminate, and list apps
  ui        Tap, swipe, type, press buttons, and take screenshots
  util      Location, media, URLs, status bar, appearance, permissions
  mcp       Serve all operations as MCP tools over stdio
  version   Print the version

Run 'ioskit <command> -h' for command flags.
`)
}

// loadDotEnv loads environment variables from path. A missing file is
// ignored so .env stays optional.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}
