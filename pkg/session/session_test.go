package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/germanamz/ioskit/pkg/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLister serves a fixed device listing.
type fakeLister struct {
	devices []device.Descriptor
	err     error
}

func (f *fakeLister) List(context.Context) ([]device.Descriptor, error) {
	return f.devices, f.err
}

func testDevices() []device.Descriptor {
	return []device.Descriptor{
		{UDID: "SIM-PHONE-1", Name: "iPhone 15", Kind: device.Simulator, State: device.StateShutdown, Available: true},
		{UDID: "SIM-PHONE-2", Name: "iPhone 15 Pro", Kind: device.Simulator, State: device.StateBooted, Available: true},
		{UDID: "SIM-TABLET-1", Name: "iPad Air", Kind: device.Simulator, State: device.StateShutdown, Available: true},
		{UDID: "REAL-1", Name: "Dev iPhone", Kind: device.RealDevice, State: device.StateBooted, Available: true},
	}
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	store := NewStore(filepath.Join(t.TempDir(), "sessions.json"))

	return NewManager(store, &fakeLister{devices: testDevices()})
}

func TestCreate_ByUDID(t *testing.T) {
	m := newTestManager(t)

	sess, err := m.Create(context.Background(), CreateOptions{Selector: "SIM-PHONE-1"})
	require.NoError(t, err)
	assert.Equal(t, "SIM-PHONE-1", sess.DeviceUDID)
	assert.Equal(t, device.Simulator, sess.DeviceKind)
	assert.Equal(t, StatusActive, sess.Status)
	assert.NotEmpty(t, sess.ID)
}

func TestCreate_ByNameSubstring(t *testing.T) {
	m := newTestManager(t)

	sess, err := m.Create(context.Background(), CreateOptions{Selector: "ipad"})
	require.NoError(t, err)
	assert.Equal(t, "SIM-TABLET-1", sess.DeviceUDID)
}

func TestCreate_NameMatchPrefersBooted(t *testing.T) {
	m := newTestManager(t)

	sess, err := m.Create(context.Background(), CreateOptions{Selector: "iPhone 15"})
	require.NoError(t, err)
	assert.Equal(t, "SIM-PHONE-2", sess.DeviceUDID)
}

func TestCreate_Auto(t *testing.T) {
	m := newTestManager(t)

	sess, err := m.Create(context.Background(), CreateOptions{Selector: "auto"})
	require.NoError(t, err)
	assert.Equal(t, "SIM-PHONE-2", sess.DeviceUDID, "auto picks the booted simulator")
}

func TestCreate_AutoNeverPicksRealDevice(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "sessions.json"))
	m := NewManager(store, &fakeLister{devices: []device.Descriptor{
		{UDID: "REAL-1", Name: "Dev iPhone", Kind: device.RealDevice, State: device.StateBooted, Available: true},
	}})

	_, err := m.Create(context.Background(), CreateOptions{})
	assert.ErrorIs(t, err, device.ErrNotFound)
}

func TestCreate_KindFilter(t *testing.T) {
	m := newTestManager(t)

	sess, err := m.Create(context.Background(), CreateOptions{Selector: "iphone", Kind: device.RealDevice})
	require.NoError(t, err)
	assert.Equal(t, "REAL-1", sess.DeviceUDID)
}

func TestCreate_NoMatch(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Create(context.Background(), CreateOptions{Selector: "Pixel 8"})
	assert.ErrorIs(t, err, device.ErrNotFound)
}

func TestCreate_LabelledID(t *testing.T) {
	m := newTestManager(t)

	sess, err := m.Create(context.Background(), CreateOptions{Selector: "auto", Name: "Smoke Test"})
	require.NoError(t, err)
	assert.Equal(t, "Smoke Test", sess.Name)
	assert.Regexp(t, `^smoke-test-\d+-[0-9a-f]{8}$`, sess.ID)
}

func TestGetListRoundTrip(t *testing.T) {
	m := newTestManager(t)

	for range 3 {
		_, err := m.Create(context.Background(), CreateOptions{Selector: "auto"})
		require.NoError(t, err)
	}

	sessions, err := m.List()
	require.NoError(t, err)
	require.Len(t, sessions, 3)

	for _, sess := range sessions {
		got, err := m.Get(sess.ID)
		require.NoError(t, err)
		assert.Equal(t, sess, got)
	}
}

func TestGet_NotFound(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Get("session-0-deadbeef")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTerminate_Idempotent(t *testing.T) {
	m := newTestManager(t)

	sess, err := m.Create(context.Background(), CreateOptions{Selector: "auto"})
	require.NoError(t, err)

	require.NoError(t, m.Terminate(sess.ID))
	require.NoError(t, m.Terminate(sess.ID), "second terminate is a no-op")
	require.NoError(t, m.Terminate("never-existed"))

	_, err = m.Get(sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTouch(t *testing.T) {
	m := newTestManager(t)

	sess, err := m.Create(context.Background(), CreateOptions{Selector: "auto"})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, m.Touch(sess.ID))

	got, err := m.Get(sess.ID)
	require.NoError(t, err)
	assert.True(t, got.LastActivity.After(sess.LastActivity))

	assert.ErrorIs(t, m.Touch("missing"), ErrNotFound)
}

func TestValidate(t *testing.T) {
	lister := &fakeLister{devices: testDevices()}
	store := NewStore(filepath.Join(t.TempDir(), "sessions.json"))
	m := NewManager(store, lister)

	alive, err := m.Create(context.Background(), CreateOptions{Selector: "SIM-PHONE-1"})
	require.NoError(t, err)
	doomed, err := m.Create(context.Background(), CreateOptions{Selector: "SIM-TABLET-1"})
	require.NoError(t, err)

	// The tablet simulator is deleted out-of-band.
	lister.devices = testDevices()[:2]

	stale, err := m.Validate(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, doomed.ID, stale[0].ID)

	// Non-pruning validation leaves the record in place.
	_, err = m.Get(doomed.ID)
	require.NoError(t, err)

	_, err = m.Validate(context.Background(), true)
	require.NoError(t, err)

	_, err = m.Get(doomed.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(alive.ID)
	require.NoError(t, err)
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, "smoke-test", sanitizeLabel("Smoke Test"))
	assert.Equal(t, "a1-b2", sanitizeLabel("  A1_b2!  "))
	assert.Equal(t, "", sanitizeLabel("!!!"))
}
