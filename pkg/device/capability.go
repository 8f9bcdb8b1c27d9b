package device

// Capability names one device action class whose support varies by Kind.
type Capability string

const (
	CapBoot        Capability = "boot"
	CapShutdown    Capability = "shutdown"
	CapUI          Capability = "ui"
	CapApps        Capability = "apps"
	CapScreenshot  Capability = "screenshot"
	CapLocation    Capability = "location"
	CapOpenURL     Capability = "open_url"
	CapStatusBar   Capability = "status_bar"
	CapAppearance  Capability = "appearance"
	CapPermissions Capability = "permissions"
	CapMedia       Capability = "media"
	CapLogs        Capability = "logs"
	CapFocus       Capability = "focus"
)

// capabilities is a static table per Kind. Unsupported actions fail fast
// with ErrUnsupportedOnRealDevice instead of probing the device at runtime.
var capabilities = map[Kind]map[Capability]bool{
	Simulator: {
		CapBoot:        true,
		CapShutdown:    true,
		CapUI:          true,
		CapApps:        true,
		CapScreenshot:  true,
		CapLocation:    true,
		CapOpenURL:     true,
		CapStatusBar:   true,
		CapAppearance:  true,
		CapPermissions: true,
		CapMedia:       true,
		CapLogs:        true,
		CapFocus:       true,
	},
	RealDevice: {
		CapUI:         true,
		CapApps:       true,
		CapScreenshot: true,
		CapLocation:   true,
		CapOpenURL:    true,
		CapLogs:       true,
	},
}

// Supports reports whether devices of kind k accept the capability.
func (k Kind) Supports(c Capability) bool {
	return capabilities[k][c]
}

// Capabilities returns the capability table for kind k.
func (k Kind) Capabilities() map[Capability]bool {
	caps := make(map[Capability]bool, len(capabilities[k]))
	for c, ok := range capabilities[k] {
		caps[c] = ok
	}

	return caps
}
