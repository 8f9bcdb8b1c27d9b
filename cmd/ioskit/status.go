package main

import (
	"flag"
	"fmt"
	"os/exec"

	"github.com/germanamz/ioskit/pkg/cmdexec"
)

func runStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)

	var common commonFlags

	common.register(fs)
	_ = fs.Parse(args)

	a, err := newApp(common)
	if err != nil {
		return err
	}

	ctx, cancel := rootContext()
	defer cancel()

	fmt.Println(headerStyle.Render("ioskit " + version))
	fmt.Printf("  directory: %s\n", a.dir.Root())
	fmt.Printf("  simctl:    %s\n", toolStatus(a.devices.Simctl))
	fmt.Printf("  idb:       %s\n", toolStatus(a.devices.Idb))

	if devices, err := a.devices.List(ctx); err == nil {
		simulators, real, booted := 0, 0, 0

		for _, d := range devices {
			if d.Kind == "simulator" {
				simulators++
			} else {
				real++
			}

			if d.Booted() {
				booted++
			}
		}

		fmt.Printf("  devices:   %d simulators, %d real, %d booted\n", simulators, real, booted)
	} else {
		fmt.Printf("  devices:   %s\n", errStyle.Render(err.Error()))
	}

	if sessions, err := a.sessions.List(); err == nil {
		fmt.Printf("  sessions:  %d\n", len(sessions))
	} else {
		fmt.Printf("  sessions:  %s\n", errStyle.Render(err.Error()))
	}

	return nil
}

// toolStatus resolves the tool's executable through PATH. Only the binary is
// looked up; fixed arguments like simctl's "xcrun" prefix would never resolve.
func toolStatus(t cmdexec.Tool) string {
	if path, err := exec.LookPath(t.Binary()); err == nil {
		return okStyle.Render("available") + " (" + path + ")"
	}

	return warnStyle.Render("not found")
}
