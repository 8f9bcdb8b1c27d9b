// Package session binds caller workflows to devices. A session is a logical
// ownership claim over one device for the duration of a control workflow;
// exclusivity is not enforced, so two sessions may reference the same device
// (a documented caller hazard, not a guarantee). Records persist to a shared
// on-disk store so CLI invocations across process launches share state.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/germanamz/ioskit/pkg/device"
	"github.com/google/uuid"
)

// ErrNotFound indicates the session id is absent from the store.
var ErrNotFound = errors.New("session not found")

// Status is a session's lifecycle state.
type Status string

const (
	StatusActive     Status = "active"
	StatusTerminated Status = "terminated"
)

// Session is one persisted device binding.
type Session struct {
	ID           string      `json:"id"`
	DeviceUDID   string      `json:"device_udid"`
	DeviceKind   device.Kind `json:"device_kind"`
	Name         string      `json:"name,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	LastActivity time.Time   `json:"last_activity"`
	Status       Status      `json:"status"`
}

// CreateOptions selects the device a new session binds to.
type CreateOptions struct {
	// Selector is a device UDID, a case-insensitive name substring, or
	// "auto" (empty behaves like "auto"): pick the first booted simulator,
	// falling back to the first available simulator.
	Selector string

	// Kind restricts resolution to one device kind when set.
	Kind device.Kind

	// Name is an arbitrary label; it also prefixes the generated id.
	Name string
}

// Manager owns session lifecycle against the persisted store, resolving
// device selectors through fresh enumerations.
type Manager struct {
	store   *Store
	devices device.Lister
}

// NewManager creates a Manager over the given store and device lister.
func NewManager(store *Store, devices device.Lister) *Manager {
	return &Manager{store: store, devices: devices}
}

// Store exposes the underlying store, for surface-level diagnostics.
func (m *Manager) Store() *Store { return m.store }

// Create resolves opts against the current device listing, persists a new
// session bound to the matched device, and returns it. Fails with
// device.ErrNotFound when nothing matches the selector.
func (m *Manager) Create(ctx context.Context, opts CreateOptions) (Session, error) {
	devices, err := m.devices.List(ctx)
	if err != nil {
		return Session{}, err
	}

	d, err := resolveSelector(opts.Selector, opts.Kind, devices)
	if err != nil {
		return Session{}, err
	}

	now := time.Now().UTC()
	sess := Session{
		ID:           newID(opts.Name),
		DeviceUDID:   d.UDID,
		DeviceKind:   d.Kind,
		Name:         opts.Name,
		CreatedAt:    now,
		LastActivity: now,
		Status:       StatusActive,
	}

	if err := m.store.Put(sess); err != nil {
		return Session{}, err
	}

	return sess, nil
}

// Get returns the session with the given id, or ErrNotFound.
func (m *Manager) Get(id string) (Session, error) {
	return m.store.Get(id)
}

// List returns all persisted sessions. Bound devices are not validated here;
// staleness is discovered lazily on the first action, or explicitly via
// Validate.
func (m *Manager) List() ([]Session, error) {
	return m.store.List()
}

// Touch bumps the session's last-activity timestamp. Called after every
// successful controller action.
func (m *Manager) Touch(id string) error {
	return m.store.Update(id, func(s *Session) {
		s.LastActivity = time.Now().UTC()
	})
}

// Terminate removes the session record. Idempotent: terminating an unknown
// or already-terminated session is a no-op, so callers can retry freely.
func (m *Manager) Terminate(id string) error {
	_, err := m.store.Delete(id)
	return err
}

// Validate sweeps the store for sessions whose bound device no longer
// enumerates and returns them. With prune set, stale records are removed.
// This is the explicit manual cleanup operation; there is no background
// reaper.
func (m *Manager) Validate(ctx context.Context, prune bool) ([]Session, error) {
	devices, err := m.devices.List(ctx)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(devices))
	for _, d := range devices {
		known[d.UDID] = struct{}{}
	}

	sessions, err := m.store.List()
	if err != nil {
		return nil, err
	}

	var stale []Session

	for _, sess := range sessions {
		if _, ok := known[sess.DeviceUDID]; ok {
			continue
		}

		stale = append(stale, sess)

		if prune {
			if _, err := m.store.Delete(sess.ID); err != nil {
				return stale, err
			}
		}
	}

	return stale, nil
}

// newID generates a session id: label (or "session"), creation timestamp,
// and a short random suffix.
func newID(label string) string {
	prefix := sanitizeLabel(label)
	if prefix == "" {
		prefix = "session"
	}

	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().Unix(), uuid.NewString()[:8])
}

func sanitizeLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))

	var b strings.Builder
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('-')
		}
	}

	return strings.Trim(b.String(), "-")
}

// resolveSelector matches a selector against a listing. Resolution order:
// exact UDID, then case-insensitive name substring, then auto (first booted
// simulator, else first available one). Matches prefer booted devices so a
// new session lands on a device that can take actions immediately.
func resolveSelector(selector string, kind device.Kind, devices []device.Descriptor) (device.Descriptor, error) {
	candidates := make([]device.Descriptor, 0, len(devices))
	for _, d := range devices {
		if kind != "" && d.Kind != kind {
			continue
		}

		candidates = append(candidates, d)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Name == candidates[j].Name {
			return candidates[i].UDID < candidates[j].UDID
		}

		return candidates[i].Name < candidates[j].Name
	})

	selector = strings.TrimSpace(selector)

	if selector != "" && !strings.EqualFold(selector, "auto") {
		for _, d := range candidates {
			if d.UDID == selector {
				return d, nil
			}
		}

		matches := candidates[:0:0]
		for _, d := range candidates {
			if strings.Contains(strings.ToLower(d.Name), strings.ToLower(selector)) {
				matches = append(matches, d)
			}
		}

		if len(matches) == 0 {
			return device.Descriptor{}, fmt.Errorf("%w: no device matches %q", device.ErrNotFound, selector)
		}

		return pickPreferred(matches), nil
	}

	// Auto selection defaults to simulators; picking an arbitrary physical
	// device would be surprising.
	auto := candidates[:0:0]
	for _, d := range candidates {
		if d.Kind == device.Simulator && d.Available {
			auto = append(auto, d)
		}
	}

	if kind == device.RealDevice {
		auto = candidates
	}

	if len(auto) == 0 {
		return device.Descriptor{}, fmt.Errorf("%w: no device available for auto selection", device.ErrNotFound)
	}

	return pickPreferred(auto), nil
}

func pickPreferred(matches []device.Descriptor) device.Descriptor {
	for _, d := range matches {
		if d.Booted() {
			return d
		}
	}

	return matches[0]
}
