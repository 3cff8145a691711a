package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

// NewRouter wires every device endpoint under /api.
func NewRouter(state *State) *mux.Router {
	h := &handlers{state: state}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	// Subrouters do not inherit these, and a bare 404/405 would not carry
	// the device's JSON error shape.
	for _, router := range []*mux.Router{r, api} {
		router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusNotFound, "not found")
		})
		router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		})
	}

	api.HandleFunc("/health", h.health).Methods("GET")

	api.HandleFunc("/system/{name}", h.system).Methods("GET")

	api.HandleFunc("/autodarts/status", h.autodartsStatus).Methods("GET")
	api.HandleFunc("/autodarts/install", h.install).Methods("POST")
	api.HandleFunc("/autodarts/update", h.update).Methods("POST")
	api.HandleFunc("/autodarts/check-update", h.checkUpdate).Methods("GET")
	api.HandleFunc("/autodarts/service/{action:start|stop|restart}", h.service).Methods("POST")
	api.HandleFunc("/autodarts/logs", h.logs).Methods("GET")

	api.HandleFunc("/cameras", h.cameras).Methods("GET")
	api.HandleFunc("/cameras/{action:start|stop}", h.cameraControl).Methods("POST")

	api.HandleFunc("/settings", h.getSettings).Methods("GET")
	api.HandleFunc("/settings", h.updateSettings).Methods("POST")
	api.HandleFunc("/settings/auto-update", h.getAutoUpdate).Methods("GET")
	api.HandleFunc("/settings/auto-update", h.updateAutoUpdate).Methods("POST")
	api.HandleFunc("/settings/reset", h.resetSettings).Methods("POST")

	return r
}

type handlers struct {
	state *State
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *handlers) system(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	payload, ok := systemPayload(name, time.Since(h.state.startedAt))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown system metric: "+name)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *handlers) autodartsStatus(w http.ResponseWriter, _ *http.Request) {
	s := h.state
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"installed": s.installed,
		"running":   s.running,
		"version":   s.version,
	})
}

func (h *handlers) install(w http.ResponseWriter, r *http.Request) {
	if !decodeOptional(w, r) {
		return
	}
	s := h.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.installed {
		writeError(w, http.StatusConflict, "Autodarts is already installed")
		return
	}
	s.installed = true
	s.running = true
	s.version = LatestVersion
	s.appendLogLocked("installed version %s", s.version)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "version": s.version})
}

func (h *handlers) update(w http.ResponseWriter, r *http.Request) {
	if !decodeOptional(w, r) {
		return
	}
	s := h.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.installed {
		writeError(w, http.StatusBadRequest, "Autodarts is not installed")
		return
	}
	previous := s.version
	s.version = LatestVersion
	s.appendLogLocked("updated %s -> %s", previous, s.version)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "previous": previous, "version": s.version})
}

func (h *handlers) checkUpdate(w http.ResponseWriter, _ *http.Request) {
	s := h.state
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"current":          s.version,
		"latest":           LatestVersion,
		"update_available": s.installed && s.version != LatestVersion,
	})
}

func (h *handlers) service(w http.ResponseWriter, r *http.Request) {
	action := mux.Vars(r)["action"]
	s := h.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.installed {
		writeError(w, http.StatusBadRequest, "Autodarts is not installed")
		return
	}
	switch action {
	case "start", "restart":
		s.running = true
	case "stop":
		s.running = false
	}
	s.appendLogLocked("service %s", action)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "running": s.running})
}

func (h *handlers) logs(w http.ResponseWriter, r *http.Request) {
	lines := 50
	if raw := r.URL.Query().Get("lines"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "lines must be a positive integer")
			return
		}
		lines = n
	}
	writeJSON(w, http.StatusOK, map[string]any{"lines": h.state.tail(lines)})
}

func (h *handlers) cameras(w http.ResponseWriter, _ *http.Request) {
	s := h.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailCameras {
		writeError(w, http.StatusInternalServerError, "camera service unavailable")
		return
	}
	cams := make([]map[string]any, 0, 3)
	for i := 1; i <= 3; i++ {
		cams = append(cams, map[string]any{
			"id":       "camera-" + strconv.Itoa(i),
			"name":     "Camera " + strconv.Itoa(i),
			"active":   s.camerasActive,
			"feed_url": "/stream/camera-" + strconv.Itoa(i),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"cameras": cams})
}

func (h *handlers) cameraControl(w http.ResponseWriter, r *http.Request) {
	s := h.state
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camerasActive = mux.Vars(r)["action"] == "start"
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "active": s.camerasActive})
}

func (h *handlers) getSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.state.settingsSnapshot())
}

func (h *handlers) updateSettings(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil || patch == nil {
		writeError(w, http.StatusBadRequest, "settings body must be a JSON object")
		return
	}
	s := h.state
	s.mu.Lock()
	for k, v := range patch {
		s.settings[k] = v
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, h.state.settingsSnapshot())
}

func (h *handlers) getAutoUpdate(w http.ResponseWriter, _ *http.Request) {
	s := h.state
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.autoUpdate)
}

func (h *handlers) updateAutoUpdate(w http.ResponseWriter, r *http.Request) {
	s := h.state
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.autoUpdate
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		writeError(w, http.StatusBadRequest, "auto-update body must be a JSON object")
		return
	}
	if _, err := time.Parse("15:04", next.Schedule); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "schedule must be HH:MM")
		return
	}
	s.autoUpdate = next
	writeJSON(w, http.StatusOK, s.autoUpdate)
}

func (h *handlers) resetSettings(w http.ResponseWriter, _ *http.Request) {
	s := h.state
	s.mu.Lock()
	s.resetSettingsLocked()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// decodeOptional accepts an empty body or any JSON value.
func decodeOptional(w http.ResponseWriter, r *http.Request) bool {
	if r.ContentLength == 0 {
		return true
	}
	var v any
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
