package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/germanamz/ioskit/pkg/cmdexec"
)

// Lister enumerates devices. Satisfied by *Enumerator; tests substitute
// fakes with canned listings.
type Lister interface {
	List(ctx context.Context) ([]Descriptor, error)
}

// Enumerator queries simctl for simulators and idb for physical devices.
// Every List call re-queries the tools: device state changes outside this
// process's control, so a cache would be authoritative about nothing.
type Enumerator struct {
	Runner cmdexec.Runner
	Simctl cmdexec.Tool
	Idb    cmdexec.Tool
}

// NewEnumerator creates an Enumerator with the standard tool commands.
func NewEnumerator(r cmdexec.Runner) *Enumerator {
	return &Enumerator{
		Runner: r,
		Simctl: cmdexec.Tool{"xcrun", "simctl"},
		Idb:    cmdexec.Tool{"idb"},
	}
}

// List returns descriptors for all simulators and connected real devices.
// simctl is required; a missing idb only means real devices are absent from
// the listing, since simulator-only hosts are the common case.
func (e *Enumerator) List(ctx context.Context) ([]Descriptor, error) {
	sims, err := e.listSimulators(ctx)
	if err != nil {
		return nil, err
	}

	real, err := e.listRealDevices(ctx)
	if err != nil {
		if errors.Is(err, cmdexec.ErrToolUnavailable) {
			return sims, nil
		}

		return nil, err
	}

	return append(sims, real...), nil
}

// Get returns the descriptor for udid, or ErrNotFound.
func (e *Enumerator) Get(ctx context.Context, udid string) (Descriptor, error) {
	return Find(ctx, e, udid)
}

// Find resolves udid against a fresh listing from any Lister.
func Find(ctx context.Context, l Lister, udid string) (Descriptor, error) {
	devices, err := l.List(ctx)
	if err != nil {
		return Descriptor{}, err
	}

	for _, d := range devices {
		if d.UDID == udid {
			return d, nil
		}
	}

	return Descriptor{}, fmt.Errorf("%w: %s", ErrNotFound, udid)
}

// simctlListPayload mirrors `simctl list devices --json`.
type simctlListPayload struct {
	Devices map[string][]struct {
		UDID                 string `json:"udid"`
		Name                 string `json:"name"`
		State                string `json:"state"`
		IsAvailable          bool   `json:"isAvailable"`
		DeviceTypeIdentifier string `json:"deviceTypeIdentifier"`
	} `json:"devices"`
}

func (e *Enumerator) listSimulators(ctx context.Context) ([]Descriptor, error) {
	res, err := e.Simctl.Run(ctx, e.Runner, "list", "devices", "--json")
	if err != nil {
		return nil, err
	}

	if res.ExitCode != 0 {
		return nil, fmt.Errorf("simctl list exited %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	var payload simctlListPayload
	if err := json.Unmarshal([]byte(res.Stdout), &payload); err != nil {
		return nil, &ParseError{Tool: "simctl", Output: res.Stdout, Err: err}
	}

	var out []Descriptor

	for runtime, devices := range payload.Devices {
		osVersion := OSVersionFromRuntime(runtime)

		for _, d := range devices {
			model := ModelFromDeviceType(d.DeviceTypeIdentifier)

			out = append(out, Descriptor{
				UDID:           d.UDID,
				Name:           d.Name,
				Kind:           Simulator,
				Family:         FamilyOf(d.Name),
				State:          NormalizeState(d.State),
				OSVersion:      osVersion,
				Model:          model,
				ConnectionType: "simulator",
				Available:      d.IsAvailable,
			})
		}
	}

	return out, nil
}

// idbTarget mirrors one line of `idb list-targets --json` output, which is
// newline-delimited JSON rather than a single document.
type idbTarget struct {
	UDID         string `json:"udid"`
	Name         string `json:"name"`
	State        string `json:"state"`
	Type         string `json:"type"`
	OSVersion    string `json:"os_version"`
	Architecture string `json:"architecture"`
}

func (e *Enumerator) listRealDevices(ctx context.Context) ([]Descriptor, error) {
	res, err := e.Idb.Run(ctx, e.Runner, "list-targets", "--json")
	if err != nil {
		return nil, err
	}

	if res.ExitCode != 0 {
		return nil, fmt.Errorf("idb list-targets exited %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	var out []Descriptor

	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var t idbTarget
		if err := json.Unmarshal([]byte(line), &t); err != nil {
			return nil, &ParseError{Tool: "idb", Output: line, Err: err}
		}

		// Simulators come from simctl, which is authoritative for them.
		if t.Type != "device" {
			continue
		}

		out = append(out, Descriptor{
			UDID:           t.UDID,
			Name:           t.Name,
			Kind:           RealDevice,
			Family:         FamilyOf(t.Name),
			State:          NormalizeState(t.State),
			OSVersion:      t.OSVersion,
			Model:          t.Name,
			ConnectionType: "usb",
			Architecture:   t.Architecture,
			Available:      true,
		})
	}

	return out, nil
}
