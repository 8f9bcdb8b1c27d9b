package iostools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/germanamz/ioskit/pkg/cmdexec"
	"github.com/germanamz/ioskit/pkg/controller"
	"github.com/germanamz/ioskit/pkg/device"
	"github.com/germanamz/ioskit/pkg/ioskitdir"
	"github.com/germanamz/ioskit/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memLister struct {
	devices []device.Descriptor
}

func (l *memLister) List(context.Context) ([]device.Descriptor, error) {
	out := make([]device.Descriptor, len(l.devices))
	copy(out, l.devices)

	return out, nil
}

type fakeRunner struct {
	calls  [][]string
	result cmdexec.Result
	err    error
	onRun  func(name string, args []string)
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) (cmdexec.Result, error) {
	r.calls = append(r.calls, append([]string{name}, args...))

	if r.onRun != nil {
		r.onRun(name, args)
	}

	return r.result, r.err
}

type fixture struct {
	svc    *Service
	runner *fakeRunner
	lister *memLister
	mgr    *session.Manager
	dir    ioskitdir.Dir
}

func newFixture(t *testing.T, devices ...device.Descriptor) *fixture {
	t.Helper()

	lister := &memLister{devices: devices}
	runner := &fakeRunner{}
	dir := ioskitdir.New(filepath.Join(t.TempDir(), ".ioskit"))

	store := session.NewStore(dir.SessionsPath())
	mgr := session.NewManager(store, lister)
	ctrl := controller.New(mgr, lister, runner)

	return &fixture{
		svc:    New(mgr, ctrl, lister, dir, nil),
		runner: runner,
		lister: lister,
		mgr:    mgr,
		dir:    dir,
	}
}

func testDevices() []device.Descriptor {
	return []device.Descriptor{
		{UDID: "SIM-1", Name: "iPhone 15", Kind: device.Simulator, State: device.StateBooted, Available: true},
		{UDID: "SIM-2", Name: "iPad Pro", Kind: device.Simulator, State: device.StateShutdown, Available: true},
		{UDID: "REAL-1", Name: "Dev iPhone", Kind: device.RealDevice, State: device.StateBooted, Available: true},
	}
}

func call(t *testing.T, f *fixture, name, args string) (string, error) {
	t.Helper()

	tool, ok := f.svc.Tools().Get(name)
	require.True(t, ok, "tool %s not registered", name)

	return tool.Handler(context.Background(), json.RawMessage(args))
}

func TestTools_RegistersFullSurface(t *testing.T) {
	f := newFixture(t)

	want := []string{
		"ios_list_devices", "ios_boot_device", "ios_shutdown_device", "ios_status",
		"ios_create_session", "ios_list_sessions", "ios_session_status",
		"ios_terminate_session", "ios_validate_sessions",
		"ios_tap", "ios_double_tap", "ios_long_press", "ios_swipe",
		"ios_swipe_direction", "ios_input_text", "ios_press_button",
		"ios_screenshot",
		"ios_install_app", "ios_uninstall_app", "ios_launch_app",
		"ios_terminate_app", "ios_list_apps", "ios_get_logs",
		"ios_set_location", "ios_set_location_by_name", "ios_add_media",
		"ios_open_url", "ios_set_status_bar", "ios_clear_status_bar",
		"ios_set_appearance", "ios_set_permission", "ios_focus_simulator",
	}

	tb := f.svc.Tools()
	assert.Len(t, tb.Tools(), len(want))

	for _, name := range want {
		_, ok := tb.Get(name)
		assert.True(t, ok, "missing tool %s", name)
	}
}

func TestTools_SchemasAreValidJSON(t *testing.T) {
	f := newFixture(t)

	for _, tool := range f.svc.Tools().Tools() {
		var schema map[string]any
		require.NoError(t, json.Unmarshal(tool.InputSchema, &schema), "schema of %s", tool.Name)
		assert.Equal(t, "object", schema["type"], "schema of %s", tool.Name)
		assert.NotEmpty(t, tool.Description, "description of %s", tool.Name)
	}
}

func TestListDevices(t *testing.T) {
	f := newFixture(t, testDevices()...)

	out, err := call(t, f, "ios_list_devices", `{}`)
	require.NoError(t, err)

	var result struct {
		Devices []device.Descriptor `json:"devices"`
		Count   int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 3, result.Count)
}

func TestListDevices_Filters(t *testing.T) {
	f := newFixture(t, testDevices()...)

	out, err := call(t, f, "ios_list_devices", `{"kind":"simulator","booted_only":true}`)
	require.NoError(t, err)

	var result struct {
		Devices []device.Descriptor `json:"devices"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Devices, 1)
	assert.Equal(t, "SIM-1", result.Devices[0].UDID)
}

func TestCreateSession(t *testing.T) {
	f := newFixture(t, testDevices()...)

	out, err := call(t, f, "ios_create_session", `{"device":"iPhone 15","name":"smoke"}`)
	require.NoError(t, err)

	var sess session.Session
	require.NoError(t, json.Unmarshal([]byte(out), &sess))
	assert.Equal(t, "SIM-1", sess.DeviceUDID)
	assert.True(t, strings.HasPrefix(sess.ID, "smoke-"))

	// The session is in the store.
	_, err = f.mgr.Get(sess.ID)
	assert.NoError(t, err)
}

func TestCreateSession_AutobootBootsShutdownSimulator(t *testing.T) {
	f := newFixture(t, testDevices()...)

	// Once simctl boot runs, the listing starts reporting SIM-2 booted, so
	// the boot wait returns on its first poll.
	f.runner.onRun = func(_ string, args []string) {
		if len(args) >= 2 && args[1] == "boot" {
			for i := range f.lister.devices {
				if f.lister.devices[i].UDID == "SIM-2" {
					f.lister.devices[i].State = device.StateBooted
				}
			}
		}
	}

	out, err := call(t, f, "ios_create_session", `{"device":"SIM-2","autoboot":true}`)
	require.NoError(t, err)

	var sess session.Session
	require.NoError(t, json.Unmarshal([]byte(out), &sess))
	assert.Equal(t, "SIM-2", sess.DeviceUDID)

	require.NotEmpty(t, f.runner.calls)
	assert.Equal(t, []string{"xcrun", "simctl", "boot", "SIM-2"}, f.runner.calls[0])
}

func TestCreateSession_NoMatch(t *testing.T) {
	f := newFixture(t, testDevices()...)

	_, err := call(t, f, "ios_create_session", `{"device":"Nokia 3310"}`)
	assert.Error(t, err)
}

func TestSessionStatus(t *testing.T) {
	f := newFixture(t, testDevices()...)
	sess, err := f.mgr.Create(context.Background(), session.CreateOptions{Selector: "SIM-1"})
	require.NoError(t, err)

	out, err := call(t, f, "ios_session_status", `{"session_id":"`+sess.ID+`"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "SIM-1")
	assert.Contains(t, out, "booted")
}

func TestSessionStatus_Unknown(t *testing.T) {
	f := newFixture(t, testDevices()...)

	_, err := call(t, f, "ios_session_status", `{"session_id":"nope"}`)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestTerminateSession_WithShutdown(t *testing.T) {
	f := newFixture(t, testDevices()...)
	sess, err := f.mgr.Create(context.Background(), session.CreateOptions{Selector: "SIM-1"})
	require.NoError(t, err)

	_, err = call(t, f, "ios_terminate_session", `{"session_id":"`+sess.ID+`","shutdown":true}`)
	require.NoError(t, err)

	require.Len(t, f.runner.calls, 1)
	assert.Equal(t, []string{"xcrun", "simctl", "shutdown", "SIM-1"}, f.runner.calls[0])

	_, err = f.mgr.Get(sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestTerminateSession_UnknownSucceeds(t *testing.T) {
	f := newFixture(t, testDevices()...)

	out, err := call(t, f, "ios_terminate_session", `{"session_id":"ghost-1-deadbeef"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "terminated")
}

func TestValidateSessions_Prune(t *testing.T) {
	f := newFixture(t, testDevices()...)
	sess, err := f.mgr.Create(context.Background(), session.CreateOptions{Selector: "SIM-1"})
	require.NoError(t, err)

	f.lister.devices = nil

	out, err := call(t, f, "ios_validate_sessions", `{"prune":true}`)
	require.NoError(t, err)
	assert.Contains(t, out, sess.ID)

	_, err = f.mgr.Get(sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestTap(t *testing.T) {
	f := newFixture(t, testDevices()...)
	sess, err := f.mgr.Create(context.Background(), session.CreateOptions{Selector: "SIM-1"})
	require.NoError(t, err)

	out, err := call(t, f, "ios_tap", `{"session_id":"`+sess.ID+`","x":10,"y":20}`)
	require.NoError(t, err)
	assert.Contains(t, out, "Tapped")

	require.Len(t, f.runner.calls, 1)
	assert.Equal(t, []string{"idb", "ui", "--udid", "SIM-1", "tap", "10", "20"}, f.runner.calls[0])
}

func TestDoubleTap(t *testing.T) {
	f := newFixture(t, testDevices()...)
	sess, err := f.mgr.Create(context.Background(), session.CreateOptions{Selector: "SIM-1"})
	require.NoError(t, err)

	out, err := call(t, f, "ios_double_tap", `{"session_id":"`+sess.ID+`","x":50,"y":60}`)
	require.NoError(t, err)
	assert.Contains(t, out, "Double-tapped")

	// Two tap events at the same coordinates.
	require.Len(t, f.runner.calls, 2)
	want := []string{"idb", "ui", "--udid", "SIM-1", "tap", "50", "60"}
	assert.Equal(t, want, f.runner.calls[0])
	assert.Equal(t, want, f.runner.calls[1])
}

func TestGetLogs(t *testing.T) {
	f := newFixture(t, testDevices()...)
	sess, err := f.mgr.Create(context.Background(), session.CreateOptions{Selector: "SIM-1"})
	require.NoError(t, err)

	f.runner.result = cmdexec.Result{Stdout: "Demo[123] launch finished\n"}

	out, err := call(t, f, "ios_get_logs", `{"session_id":"`+sess.ID+`","bundle_id":"com.example.demo","limit":50}`)
	require.NoError(t, err)
	assert.Contains(t, out, "launch finished")

	require.Len(t, f.runner.calls, 1)
	assert.Equal(t, []string{
		"idb", "log", "--udid", "SIM-1",
		"--bundle", "com.example.demo", "--limit", "50", "--timeout", "10",
	}, f.runner.calls[0])
}

func TestFocusSimulator(t *testing.T) {
	f := newFixture(t, testDevices()...)
	sess, err := f.mgr.Create(context.Background(), session.CreateOptions{Selector: "SIM-1"})
	require.NoError(t, err)

	_, err = call(t, f, "ios_focus_simulator", `{"session_id":"`+sess.ID+`"}`)
	require.NoError(t, err)

	require.Len(t, f.runner.calls, 1)
	assert.Equal(t, []string{"idb", "focus", "--udid", "SIM-1"}, f.runner.calls[0])
}

func TestFocusSimulator_RealDevice(t *testing.T) {
	f := newFixture(t, testDevices()...)
	sess, err := f.mgr.Create(context.Background(), session.CreateOptions{Selector: "REAL-1", Kind: device.RealDevice})
	require.NoError(t, err)

	_, err = call(t, f, "ios_focus_simulator", `{"session_id":"`+sess.ID+`"}`)
	assert.ErrorIs(t, err, device.ErrUnsupportedOnRealDevice)
	assert.Empty(t, f.runner.calls)
}

func TestTap_NotBooted(t *testing.T) {
	f := newFixture(t, testDevices()...)
	sess, err := f.mgr.Create(context.Background(), session.CreateOptions{Selector: "SIM-2"})
	require.NoError(t, err)

	_, err = call(t, f, "ios_tap", `{"session_id":"`+sess.ID+`","x":10,"y":20}`)
	assert.ErrorIs(t, err, device.ErrNotBooted)
	assert.Empty(t, f.runner.calls)
}

func TestTap_InvalidInput(t *testing.T) {
	f := newFixture(t, testDevices()...)

	_, err := call(t, f, "ios_tap", `{"x": "ten"}`)
	assert.Error(t, err)
}

func TestScreenshot_DefaultPath(t *testing.T) {
	f := newFixture(t, testDevices()...)
	sess, err := f.mgr.Create(context.Background(), session.CreateOptions{Selector: "SIM-1"})
	require.NoError(t, err)

	out, err := call(t, f, "ios_screenshot", `{"session_id":"`+sess.ID+`"}`)
	require.NoError(t, err)

	var result struct {
		Path string `json:"path"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, strings.HasPrefix(result.Path, f.dir.ScreenshotsDir()))
	assert.True(t, strings.HasSuffix(result.Path, ".png"))

	// The screenshots directory was created.
	info, err := os.Stat(f.dir.ScreenshotsDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSetStatusBar_RealDevice(t *testing.T) {
	f := newFixture(t, testDevices()...)
	sess, err := f.mgr.Create(context.Background(), session.CreateOptions{Selector: "REAL-1", Kind: device.RealDevice})
	require.NoError(t, err)

	_, err = call(t, f, "ios_set_status_bar", `{"session_id":"`+sess.ID+`","time":"9:41"}`)
	assert.ErrorIs(t, err, device.ErrUnsupportedOnRealDevice)
}

func TestListApps(t *testing.T) {
	f := newFixture(t, testDevices()...)
	sess, err := f.mgr.Create(context.Background(), session.CreateOptions{Selector: "SIM-1"})
	require.NoError(t, err)

	f.runner.result = cmdexec.Result{Stdout: `{"bundle_id":"com.example.demo","name":"Demo","install_type":"user","process_identifier":0}`}

	out, err := call(t, f, "ios_list_apps", `{"session_id":"`+sess.ID+`"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "com.example.demo")
}

func TestStatus(t *testing.T) {
	f := newFixture(t, testDevices()...)

	// The availability check must look up the bare executable: "xcrun
	// simctl" as one string never resolves through PATH.
	var lookedUp []string

	f.svc.lookPath = func(name string) (string, error) {
		lookedUp = append(lookedUp, name)

		if name == "xcrun" {
			return "/usr/bin/xcrun", nil
		}

		return "", errors.New("not found")
	}

	out, err := call(t, f, "ios_status", `{}`)
	require.NoError(t, err)

	var status map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, true, status["simctl_available"])
	assert.Equal(t, false, status["idb_available"])
	assert.Equal(t, float64(2), status["simulators"])
	assert.Equal(t, float64(1), status["real_devices"])

	assert.ElementsMatch(t, []string{"xcrun", "idb"}, lookedUp)
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "session_not_found", ErrorKind(fmt.Errorf("ios_tap: %w", session.ErrNotFound)))
	assert.Equal(t, "device_not_found", ErrorKind(fmt.Errorf("ios_boot_device: %w", device.ErrNotFound)))
	assert.Equal(t, "device_not_booted", ErrorKind(fmt.Errorf("tap: %w", device.ErrNotBooted)))
	assert.Equal(t, "unsupported_on_real_device", ErrorKind(device.ErrUnsupportedOnRealDevice))
	assert.Equal(t, "tool_unavailable", ErrorKind(cmdexec.ErrToolUnavailable))
	assert.Equal(t, "timeout", ErrorKind(cmdexec.ErrTimeout))

	opErr := &controller.OpError{Action: "boot", Tool: "xcrun simctl", ExitCode: 1}
	assert.Equal(t, "command_failed", ErrorKind(fmt.Errorf("ios_boot_device: %w", opErr)))

	assert.Equal(t, "internal", ErrorKind(errors.New("boom")))
}

func TestSetLocationByName(t *testing.T) {
	f := newFixture(t, testDevices()...)
	sess, err := f.mgr.Create(context.Background(), session.CreateOptions{Selector: "SIM-1"})
	require.NoError(t, err)

	_, err = call(t, f, "ios_set_location_by_name", `{"session_id":"`+sess.ID+`","location":"London"}`)
	require.NoError(t, err)

	require.Len(t, f.runner.calls, 1)
	assert.Equal(t, "51.5074,-0.1278", f.runner.calls[0][len(f.runner.calls[0])-1])
}
