package mockapi

import (
	"fmt"
	"maps"
	"sync"
	"time"
)

// LatestVersion is what check-update reports as available.
const LatestVersion = "0.27.3"

// State is the mutable part of the mock device. All methods are safe for
// concurrent use.
type State struct {
	mu sync.Mutex

	installed bool
	running   bool
	version   string

	camerasActive bool

	settings   map[string]any
	autoUpdate AutoUpdate

	logs []string

	// FailCameras makes GET /cameras answer 500, to exercise client
	// fallbacks.
	FailCameras bool

	startedAt time.Time
}

// AutoUpdate is the payload of /settings/auto-update.
type AutoUpdate struct {
	Enabled  bool   `json:"enabled"`
	Schedule string `json:"schedule"`
}

// NewState returns a device with Autodarts installed and running.
func NewState() *State {
	s := &State{
		installed: true,
		running:   true,
		version:   "0.27.1",
		startedAt: time.Now(),
	}
	s.resetSettingsLocked()
	for i := 1; i <= 200; i++ {
		s.logs = append(s.logs, fmt.Sprintf("autodarts[%d]: board heartbeat %d ok", 1000+i, i))
	}
	return s
}

func defaultSettings() map[string]any {
	return map[string]any{
		"board_name": "vertex",
		"language":   "en",
		"theme":      "dark",
		"kiosk_mode": false,
	}
}

func (s *State) resetSettingsLocked() {
	s.settings = defaultSettings()
	s.autoUpdate = AutoUpdate{Enabled: false, Schedule: "03:00"}
}

// appendLogLocked records a service event in the log buffer.
func (s *State) appendLogLocked(format string, args ...any) {
	s.logs = append(s.logs, fmt.Sprintf("autodarts: "+format, args...))
}

// tail returns at most n of the most recent log lines.
func (s *State) tail(n int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n > len(s.logs) {
		n = len(s.logs)
	}
	out := make([]string, n)
	copy(out, s.logs[len(s.logs)-n:])
	return out
}

func (s *State) settingsSnapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.settings)
}
