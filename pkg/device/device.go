// Package device models iOS simulators and physical devices as uniform
// descriptors and enumerates them by querying the host's control tools. A
// descriptor is a point-in-time snapshot; state changes out-of-band (a user
// can boot a simulator directly), so listings are never cached.
package device

import (
	"regexp"
	"strings"
)

// Kind distinguishes simulators from physical devices. The two kinds route
// through different external tools and support different capability sets.
type Kind string

const (
	Simulator  Kind = "simulator"
	RealDevice Kind = "real_device"
)

// State is a device's normalized boot state.
type State string

const (
	StateShutdown     State = "shutdown"
	StateBooting      State = "booting"
	StateBooted       State = "booted"
	StateShuttingDown State = "shutting_down"
	StateUnknown      State = "unknown"
)

// Family groups devices by form factor.
type Family string

const (
	FamilyPhone   Family = "phone"
	FamilyTablet  Family = "tablet"
	FamilyHeadset Family = "headset"
)

// Descriptor is a snapshot of one enumerable device.
type Descriptor struct {
	UDID           string `json:"udid"`
	Name           string `json:"name"`
	Kind           Kind   `json:"kind"`
	Family         Family `json:"family"`
	State          State  `json:"state"`
	OSVersion      string `json:"os_version"`
	Model          string `json:"model"`
	ConnectionType string `json:"connection_type"`
	Architecture   string `json:"architecture,omitempty"`
	Available      bool   `json:"available"`
}

// Booted reports whether the device accepts UI and app actions.
func (d Descriptor) Booted() bool { return d.State == StateBooted }

// NormalizeState maps the heterogeneous state strings reported by simctl and
// idb onto the fixed State enum. Unrecognized values become StateUnknown
// rather than failing, since new tool versions introduce new strings.
func NormalizeState(raw string) State {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "booted", "connected":
		return StateBooted
	case "shutdown", "disconnected":
		return StateShutdown
	case "booting":
		return StateBooting
	case "shutting down", "shutting_down":
		return StateShuttingDown
	default:
		return StateUnknown
	}
}

var runtimeVersionRe = regexp.MustCompile(`([A-Za-z]+)-(\d+)-(\d+)`)

// OSVersionFromRuntime converts a CoreSimulator runtime identifier such as
// "com.apple.CoreSimulator.SimRuntime.iOS-17-2" into "iOS 17.2". Unparseable
// identifiers are returned unchanged.
func OSVersionFromRuntime(runtime string) string {
	id := strings.TrimPrefix(runtime, "com.apple.CoreSimulator.SimRuntime.")

	m := runtimeVersionRe.FindStringSubmatch(id)
	if m == nil {
		return id
	}

	return m[1] + " " + m[2] + "." + m[3]
}

// ModelFromDeviceType converts a device type identifier such as
// "com.apple.CoreSimulator.SimDeviceType.iPhone-15-Pro" into "iPhone 15 Pro".
func ModelFromDeviceType(id string) string {
	model := id
	if i := strings.LastIndex(id, "."); i >= 0 {
		model = id[i+1:]
	}

	return strings.ReplaceAll(model, "-", " ")
}

// FamilyOf derives the device family from a model or marketing name.
func FamilyOf(name string) Family {
	lower := strings.ToLower(name)

	switch {
	case strings.Contains(lower, "ipad"):
		return FamilyTablet
	case strings.Contains(lower, "vision"), strings.Contains(lower, "reality"):
		return FamilyHeadset
	default:
		return FamilyPhone
	}
}
