package mockapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve sends one request through a fresh router over the given state and
// returns the recorded response with its decoded JSON body.
func serve(t *testing.T, state *State, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	NewRouter(state).ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), "body: %s", rec.Body.String())
	return rec, decoded
}

func TestSystemEndpoints(t *testing.T) {
	state := NewState()
	for _, name := range []string{"status", "cpu", "memory", "disk", "temperature", "network", "wifi", "connectivity", "uptime", "hostname"} {
		t.Run(name, func(t *testing.T) {
			rec, _ := serve(t, state, http.MethodGet, "/api/system/"+name, "")
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}

	rec, body := serve(t, state, http.MethodGet, "/api/system/gpu", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body["error"], "gpu")
}

// TestServiceLifecycle walks stop → status → install conflict → start.
func TestServiceLifecycle(t *testing.T) {
	state := NewState()

	rec, body := serve(t, state, http.MethodPost, "/api/autodarts/service/stop", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["running"])

	_, body = serve(t, state, http.MethodGet, "/api/autodarts/status", "")
	assert.Equal(t, false, body["running"])
	assert.Equal(t, true, body["installed"])

	rec, body = serve(t, state, http.MethodPost, "/api/autodarts/install", "{}")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Autodarts is already installed", body["error"])

	_, body = serve(t, state, http.MethodPost, "/api/autodarts/service/restart", "")
	assert.Equal(t, true, body["running"])

	_, body = serve(t, state, http.MethodGet, "/api/autodarts/check-update", "")
	assert.Equal(t, true, body["update_available"])

	_, _ = serve(t, state, http.MethodPost, "/api/autodarts/update", "{}")
	_, body = serve(t, state, http.MethodGet, "/api/autodarts/check-update", "")
	assert.Equal(t, false, body["update_available"])
}

func TestLogs(t *testing.T) {
	state := NewState()

	_, body := serve(t, state, http.MethodGet, "/api/autodarts/logs", "")
	assert.Len(t, body["lines"], 50)

	_, body = serve(t, state, http.MethodGet, "/api/autodarts/logs?lines=7", "")
	assert.Len(t, body["lines"], 7)

	rec, _ := serve(t, state, http.MethodGet, "/api/autodarts/logs?lines=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCameras(t *testing.T) {
	state := NewState()

	_, _ = serve(t, state, http.MethodPost, "/api/cameras/start", "")
	_, body := serve(t, state, http.MethodGet, "/api/cameras", "")
	cams, ok := body["cameras"].([]any)
	require.True(t, ok)
	require.Len(t, cams, 3)
	assert.Equal(t, true, cams[0].(map[string]any)["active"])

	state.FailCameras = true
	rec, _ := serve(t, state, http.MethodGet, "/api/cameras", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSettings(t *testing.T) {
	state := NewState()

	_, body := serve(t, state, http.MethodPost, "/api/settings", `{"theme":"light"}`)
	assert.Equal(t, "light", body["theme"])
	assert.Equal(t, "vertex", body["board_name"])

	rec, _ := serve(t, state, http.MethodPost, "/api/settings", `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = serve(t, state, http.MethodPost, "/api/settings/auto-update", `{"enabled":true,"schedule":"25:99"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	_, body = serve(t, state, http.MethodPost, "/api/settings/auto-update", `{"enabled":true,"schedule":"04:30"}`)
	assert.Equal(t, true, body["enabled"])

	_, _ = serve(t, state, http.MethodPost, "/api/settings/reset", "")
	_, body = serve(t, state, http.MethodGet, "/api/settings", "")
	assert.Equal(t, "dark", body["theme"])
	_, body = serve(t, state, http.MethodGet, "/api/settings/auto-update", "")
	assert.Equal(t, false, body["enabled"])
}

func TestUnknownRoutes(t *testing.T) {
	rec, body := serve(t, NewState(), http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", body["error"])

	rec, _ = serve(t, NewState(), http.MethodGet, "/api/settings/reset", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
