package mockapi

import "time"

// systemPayload returns the canned reading for one telemetry endpoint.
func systemPayload(name string, uptime time.Duration) (map[string]any, bool) {
	seconds := int64(uptime.Seconds())

	switch name {
	case "status":
		return map[string]any{
			"hostname":       "cdo-vertex",
			"uptime_seconds": seconds,
			"cpu_percent":    12.5,
			"memory_percent": 41.3,
			"disk_percent":   27.9,
			"temperature_c":  48.2,
		}, true
	case "cpu":
		return map[string]any{"percent": 12.5, "cores": 4, "load_avg": []float64{0.31, 0.28, 0.22}}, true
	case "memory":
		return map[string]any{"total": 4124971008, "used": 1703612416, "percent": 41.3}, true
	case "disk":
		return map[string]any{"total": 31268536320, "used": 8723939328, "percent": 27.9, "mount": "/"}, true
	case "temperature":
		return map[string]any{"celsius": 48.2}, true
	case "network":
		return map[string]any{"interfaces": []map[string]any{
			{"name": "eth0", "ipv4": "192.168.1.40", "up": true},
			{"name": "wlan0", "ipv4": "", "up": false},
		}}, true
	case "wifi":
		return map[string]any{"connected": false, "ssid": "", "signal": 0}, true
	case "connectivity":
		return map[string]any{"internet": true, "autodarts_cloud": true}, true
	case "uptime":
		return map[string]any{"seconds": seconds}, true
	case "hostname":
		return map[string]any{"hostname": "cdo-vertex"}, true
	default:
		return nil, false
	}
}
