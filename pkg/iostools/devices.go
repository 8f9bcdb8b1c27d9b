package iostools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/germanamz/ioskit/pkg/tools/toolbox"
)

func (s *Service) deviceTools() *toolbox.ToolBox {
	tb := toolbox.New()

	tb.Register(
		toolbox.Tool{
			Name:        "ios_list_devices",
			Description: "List all iOS simulators and connected real devices with their UDID, name, state, OS version, and type.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"kind":{"type":"string","enum":["simulator","real_device"],"description":"Only list devices of this kind"},"booted_only":{"type":"boolean","description":"Only list booted devices"}}}`),
			Handler:     s.handleListDevices,
		},
		toolbox.Tool{
			Name:        "ios_boot_device",
			Description: "Boot an iOS simulator by UDID and wait until it is ready. Real devices cannot be booted remotely.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"udid":{"type":"string","description":"Device UDID from ios_list_devices"}},"required":["udid"]}`),
			Handler:     s.handleBootDevice,
		},
		toolbox.Tool{
			Name:        "ios_shutdown_device",
			Description: "Shut down a running iOS simulator by UDID.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"udid":{"type":"string","description":"Device UDID from ios_list_devices"}},"required":["udid"]}`),
			Handler:     s.handleShutdownDevice,
		},
		toolbox.Tool{
			Name:        "ios_status",
			Description: "Report ioskit health: availability of the simctl and idb control tools, device counts, and active session count.",
			InputSchema: json.RawMessage(`{"type":"object"}`),
			Handler:     s.handleStatus,
		},
	)

	return tb
}

type listDevicesInput struct {
	Kind       string `json:"kind"`
	BootedOnly bool   `json:"booted_only"`
}

func (s *Service) handleListDevices(ctx context.Context, input json.RawMessage) (string, error) {
	var in listDevicesInput
	if err := decode("ios_list_devices", input, &in); err != nil {
		return "", err
	}

	devices, err := s.Devices.List(ctx)
	if err != nil {
		return "", fmt.Errorf("ios_list_devices: %w", err)
	}

	filtered := devices[:0]

	for _, d := range devices {
		if in.Kind != "" && string(d.Kind) != in.Kind {
			continue
		}

		if in.BootedOnly && !d.Booted() {
			continue
		}

		filtered = append(filtered, d)
	}

	return jsonResult(map[string]any{"devices": filtered, "count": len(filtered)})
}

type udidInput struct {
	UDID string `json:"udid"`
}

func (s *Service) handleBootDevice(ctx context.Context, input json.RawMessage) (string, error) {
	var in udidInput
	if err := decode("ios_boot_device", input, &in); err != nil {
		return "", err
	}

	if in.UDID == "" {
		return "", fmt.Errorf("ios_boot_device: udid is required")
	}

	if err := s.Controller.BootUDID(ctx, in.UDID); err != nil {
		return "", fmt.Errorf("ios_boot_device: %w", err)
	}

	return okResult(fmt.Sprintf("Device %s booted.", in.UDID))
}

func (s *Service) handleShutdownDevice(ctx context.Context, input json.RawMessage) (string, error) {
	var in udidInput
	if err := decode("ios_shutdown_device", input, &in); err != nil {
		return "", err
	}

	if in.UDID == "" {
		return "", fmt.Errorf("ios_shutdown_device: udid is required")
	}

	if err := s.Controller.ShutdownUDID(ctx, in.UDID); err != nil {
		return "", fmt.Errorf("ios_shutdown_device: %w", err)
	}

	return okResult(fmt.Sprintf("Device %s shut down.", in.UDID))
}

func (s *Service) handleStatus(ctx context.Context, _ json.RawMessage) (string, error) {
	status := map[string]any{
		"simctl_available": s.toolAvailable(s.Controller.Simctl.Binary()),
		"idb_available":    s.toolAvailable(s.Controller.Idb.Binary()),
	}

	if devices, err := s.Devices.List(ctx); err == nil {
		simulators, real, booted := 0, 0, 0

		for _, d := range devices {
			switch {
			case d.Kind == "simulator":
				simulators++
			default:
				real++
			}

			if d.Booted() {
				booted++
			}
		}

		status["simulators"] = simulators
		status["real_devices"] = real
		status["booted"] = booted
	} else {
		status["device_list_error"] = err.Error()
	}

	if sessions, err := s.Sessions.List(); err == nil {
		status["sessions"] = len(sessions)
	} else {
		status["session_store_error"] = err.Error()
	}

	return jsonResult(status)
}

func (s *Service) toolAvailable(name string) bool {
	_, err := s.lookPath(name)

	return err == nil
}
