package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/germanamz/ioskit/pkg/iostools"
	"github.com/germanamz/ioskit/pkg/tools/mcpserver"
)

func runMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ioskit mcp [flags]\n\nServe all device operations as MCP tools over stdio.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	var common commonFlags

	common.register(fs)

	only := fs.String("tools", "", "comma-separated tool names to expose (default: all)")
	_ = fs.Parse(args)

	a, err := newApp(common)
	if err != nil {
		return err
	}

	ctx, cancel := rootContext()
	defer cancel()

	tb := a.svc.Tools()
	if *only != "" {
		tb = tb.Filter(strings.Split(*only, ","))
	}

	srv := mcpserver.New("ioskit", version, iostools.ErrorKind)
	srv.Register(tb.Tools()...)

	a.log.Info("serving MCP over stdio", "tools", len(tb.Tools()))

	err = srv.Serve(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
