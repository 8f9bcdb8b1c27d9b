package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeState(t *testing.T) {
	cases := map[string]State{
		"Booted":        StateBooted,
		"booted":        StateBooted,
		"connected":     StateBooted,
		"Shutdown":      StateShutdown,
		"disconnected":  StateShutdown,
		"Booting":       StateBooting,
		"Shutting Down": StateShuttingDown,
		"shutting_down": StateShuttingDown,
		"Creating":      StateUnknown,
		"":              StateUnknown,
	}

	for raw, want := range cases {
		assert.Equal(t, want, NormalizeState(raw), "raw=%q", raw)
	}
}

func TestOSVersionFromRuntime(t *testing.T) {
	assert.Equal(t, "iOS 17.2", OSVersionFromRuntime("com.apple.CoreSimulator.SimRuntime.iOS-17-2"))
	assert.Equal(t, "iOS 16.0", OSVersionFromRuntime("iOS-16-0"))
	assert.Equal(t, "watchOS 10.2", OSVersionFromRuntime("com.apple.CoreSimulator.SimRuntime.watchOS-10-2"))
	assert.Equal(t, "weird", OSVersionFromRuntime("weird"))
}

func TestModelFromDeviceType(t *testing.T) {
	assert.Equal(t, "iPhone 15 Pro", ModelFromDeviceType("com.apple.CoreSimulator.SimDeviceType.iPhone-15-Pro"))
	assert.Equal(t, "iPad Air", ModelFromDeviceType("com.apple.CoreSimulator.SimDeviceType.iPad-Air"))
	assert.Equal(t, "bare", ModelFromDeviceType("bare"))
}

func TestFamilyOf(t *testing.T) {
	assert.Equal(t, FamilyPhone, FamilyOf("iPhone 15"))
	assert.Equal(t, FamilyTablet, FamilyOf("iPad Pro 11-inch"))
	assert.Equal(t, FamilyHeadset, FamilyOf("Apple Vision Pro"))
}

func TestKindSupports(t *testing.T) {
	assert.True(t, Simulator.Supports(CapStatusBar))
	assert.True(t, Simulator.Supports(CapBoot))
	assert.False(t, RealDevice.Supports(CapStatusBar))
	assert.False(t, RealDevice.Supports(CapShutdown))
	assert.True(t, RealDevice.Supports(CapUI))
	assert.True(t, RealDevice.Supports(CapScreenshot))
	assert.True(t, RealDevice.Supports(CapLogs))
	assert.False(t, RealDevice.Supports(CapFocus))
	assert.True(t, Simulator.Supports(CapFocus))
}

func TestCapabilitiesCopy(t *testing.T) {
	caps := Simulator.Capabilities()
	caps[CapBoot] = false

	assert.True(t, Simulator.Supports(CapBoot))
}
