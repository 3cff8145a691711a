package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// DefaultLogLines is the number of Autodarts log lines requested when the
// caller does not choose.
const DefaultLogLines = 50

// ========== Health ==========

// Health is the liveness probe.
func (c *Client) Health(ctx context.Context) (*Response, error) {
	return c.Get(ctx, "/health", nil)
}

// ========== System monitoring ==========

// SystemEndpoint names one telemetry read.
type SystemEndpoint struct {
	Name string
	Path string
}

// SystemEndpoints lists the telemetry reads in display order.
var SystemEndpoints = []SystemEndpoint{
	{Name: "status", Path: "/system/status"},
	{Name: "cpu", Path: "/system/cpu"},
	{Name: "memory", Path: "/system/memory"},
	{Name: "disk", Path: "/system/disk"},
	{Name: "temperature", Path: "/system/temperature"},
	{Name: "network", Path: "/system/network"},
	{Name: "wifi", Path: "/system/wifi"},
	{Name: "connectivity", Path: "/system/connectivity"},
	{Name: "uptime", Path: "/system/uptime"},
	{Name: "hostname", Path: "/system/hostname"},
}

// System performs the telemetry read registered under name.
func (c *Client) System(ctx context.Context, name string) (*Response, error) {
	for _, e := range SystemEndpoints {
		if e.Name == name {
			return c.Get(ctx, e.Path, nil)
		}
	}
	return nil, fmt.Errorf("unknown system endpoint %q", name)
}

// SystemStatus reads the combined system overview.
func (c *Client) SystemStatus(ctx context.Context) (*Response, error) {
	return c.Get(ctx, "/system/status", nil)
}

// CPU reads processor load.
func (c *Client) CPU(ctx context.Context) (*Response, error) {
	return c.Get(ctx, "/system/cpu", nil)
}

// Memory reads RAM usage.
func (c *Client) Memory(ctx context.Context) (*Response, error) {
	return c.Get(ctx, "/system/memory", nil)
}

// Disk reads storage usage.
func (c *Client) Disk(ctx context.Context) (*Response, error) {
	return c.Get(ctx, "/system/disk", nil)
}

// Temperature reads the SoC temperature.
func (c *Client) Temperature(ctx context.Context) (*Response, error) {
	return c.Get(ctx, "/system/temperature", nil)
}

// Network reads interface addresses and traffic.
func (c *Client) Network(ctx context.Context) (*Response, error) {
	return c.Get(ctx, "/system/network", nil)
}

// Wifi reads the wireless connection state.
func (c *Client) Wifi(ctx context.Context) (*Response, error) {
	return c.Get(ctx, "/system/wifi", nil)
}

// Connectivity reports whether the device can reach the internet.
func (c *Client) Connectivity(ctx context.Context) (*Response, error) {
	return c.Get(ctx, "/system/connectivity", nil)
}

// Uptime reads the time since boot.
func (c *Client) Uptime(ctx context.Context) (*Response, error) {
	return c.Get(ctx, "/system/uptime", nil)
}

// Hostname reads the device hostname.
func (c *Client) Hostname(ctx context.Context) (*Response, error) {
	return c.Get(ctx, "/system/hostname", nil)
}

// ========== Autodarts management ==========

// AutodartsStatus reports whether Autodarts is installed and running.
func (c *Client) AutodartsStatus(ctx context.Context) (*Response, error) {
	return c.Get(ctx, "/autodarts/status", nil)
}

// InstallAutodarts installs the Autodarts service. A nil data sends {}.
func (c *Client) InstallAutodarts(ctx context.Context, data any) (*Response, error) {
	return c.Post(ctx, "/autodarts/install", orEmptyObject(data))
}

// UpdateAutodarts updates the Autodarts service. A nil data sends {}.
func (c *Client) UpdateAutodarts(ctx context.Context, data any) (*Response, error) {
	return c.Post(ctx, "/autodarts/update", orEmptyObject(data))
}

// CheckAutodartsUpdate compares the installed version with the latest release.
func (c *Client) CheckAutodartsUpdate(ctx context.Context) (*Response, error) {
	return c.Get(ctx, "/autodarts/check-update", nil)
}

// StartAutodartsService starts the Autodarts service.
func (c *Client) StartAutodartsService(ctx context.Context) (*Response, error) {
	return c.Post(ctx, "/autodarts/service/start", nil)
}

// StopAutodartsService stops the Autodarts service.
func (c *Client) StopAutodartsService(ctx context.Context) (*Response, error) {
	return c.Post(ctx, "/autodarts/service/stop", nil)
}

// RestartAutodartsService restarts the Autodarts service.
func (c *Client) RestartAutodartsService(ctx context.Context) (*Response, error) {
	return c.Post(ctx, "/autodarts/service/restart", nil)
}

// AutodartsLogs fetches the last lines of the service log. lines <= 0
// requests DefaultLogLines.
func (c *Client) AutodartsLogs(ctx context.Context, lines int) (*Response, error) {
	if lines <= 0 {
		lines = DefaultLogLines
	}
	query := url.Values{}
	query.Set("lines", strconv.Itoa(lines))
	return c.Get(ctx, "/autodarts/logs", query)
}

// ========== Cameras ==========
// Cameras itself lives in cameras.go.

// StartCameras starts all camera feeds.
func (c *Client) StartCameras(ctx context.Context) (*Response, error) {
	return c.Post(ctx, "/cameras/start", nil)
}

// StopCameras stops all camera feeds.
func (c *Client) StopCameras(ctx context.Context) (*Response, error) {
	return c.Post(ctx, "/cameras/stop", nil)
}

// ========== Settings ==========

// Settings reads the device settings.
func (c *Client) Settings(ctx context.Context) (*Response, error) {
	return c.Get(ctx, "/settings", nil)
}

// UpdateSettings replaces the device settings with data.
func (c *Client) UpdateSettings(ctx context.Context, data any) (*Response, error) {
	return c.Post(ctx, "/settings", data)
}

// AutoUpdateSettings reads the auto-update switch and schedule.
func (c *Client) AutoUpdateSettings(ctx context.Context) (*Response, error) {
	return c.Get(ctx, "/settings/auto-update", nil)
}

// UpdateAutoUpdateSettings changes the auto-update switch and schedule.
func (c *Client) UpdateAutoUpdateSettings(ctx context.Context, data any) (*Response, error) {
	return c.Post(ctx, "/settings/auto-update", data)
}

// ResetSettings restores factory settings.
func (c *Client) ResetSettings(ctx context.Context) (*Response, error) {
	return c.Post(ctx, "/settings/reset", nil)
}

func orEmptyObject(data any) any {
	if data == nil {
		return map[string]any{}
	}
	return data
}
