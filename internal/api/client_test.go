package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/vertexctl/internal/mockapi"
)

// recordedRequest is what the recording server saw.
type recordedRequest struct {
	Method    string
	Path      string
	RawQuery  string
	Body      string
	RequestID string
	CType     string
}

// recorder is an httptest handler that remembers every request and answers
// with a fixed status and body.
type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	r.requests = append(r.requests, recordedRequest{
		Method:    req.Method,
		Path:      req.URL.Path,
		RawQuery:  req.URL.RawQuery,
		Body:      string(body),
		RequestID: req.Header.Get("X-Request-ID"),
		CType:     req.Header.Get("Content-Type"),
	})
	status, respBody := r.status, r.body
	r.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	if respBody == "" {
		respBody = `{"ok":true}`
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, respBody)
}

func (r *recorder) last(t *testing.T) recordedRequest {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.requests, "no request reached the server")
	return r.requests[len(r.requests)-1]
}

// quietLogger discards log output; logBuffer captures it.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func logBuffer() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, nil)), buf
}

// newRecordingClient starts a recording server and a client pointed at it.
func newRecordingClient(t *testing.T, baseSuffix string) (*Client, *recorder, string) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)

	base := srv.URL + baseSuffix
	return New(WithBaseURL(base), WithLogger(quietLogger())), rec, srv.URL
}

// TestClient_Prefix verifies the /api prefix is added exactly once.
func TestClient_Prefix(t *testing.T) {
	ctx := context.Background()

	t.Run("plain base gets prefix", func(t *testing.T) {
		c, rec, _ := newRecordingClient(t, "")
		_, err := c.Health(ctx)
		require.NoError(t, err)
		assert.Equal(t, "/api/health", rec.last(t).Path)
	})

	t.Run("base ending in api is not doubled", func(t *testing.T) {
		c, rec, _ := newRecordingClient(t, "/api/")
		_, err := c.Health(ctx)
		require.NoError(t, err)
		assert.Equal(t, "/api/health", rec.last(t).Path)
	})
}

// TestClient_EndpointTable checks that every method hits its fixed path
// with the right HTTP method.
func TestClient_EndpointTable(t *testing.T) {
	ctx := context.Background()
	c, rec, _ := newRecordingClient(t, "")

	tests := []struct {
		path   string
		method string
		call   func() (*Response, error)
	}{
		{"/api/health", "GET", func() (*Response, error) { return c.Health(ctx) }},
		{"/api/system/status", "GET", func() (*Response, error) { return c.SystemStatus(ctx) }},
		{"/api/system/cpu", "GET", func() (*Response, error) { return c.CPU(ctx) }},
		{"/api/system/memory", "GET", func() (*Response, error) { return c.Memory(ctx) }},
		{"/api/system/disk", "GET", func() (*Response, error) { return c.Disk(ctx) }},
		{"/api/system/temperature", "GET", func() (*Response, error) { return c.Temperature(ctx) }},
		{"/api/system/network", "GET", func() (*Response, error) { return c.Network(ctx) }},
		{"/api/system/wifi", "GET", func() (*Response, error) { return c.Wifi(ctx) }},
		{"/api/system/connectivity", "GET", func() (*Response, error) { return c.Connectivity(ctx) }},
		{"/api/system/uptime", "GET", func() (*Response, error) { return c.Uptime(ctx) }},
		{"/api/system/hostname", "GET", func() (*Response, error) { return c.Hostname(ctx) }},
		{"/api/autodarts/status", "GET", func() (*Response, error) { return c.AutodartsStatus(ctx) }},
		{"/api/autodarts/install", "POST", func() (*Response, error) { return c.InstallAutodarts(ctx, nil) }},
		{"/api/autodarts/update", "POST", func() (*Response, error) { return c.UpdateAutodarts(ctx, nil) }},
		{"/api/autodarts/check-update", "GET", func() (*Response, error) { return c.CheckAutodartsUpdate(ctx) }},
		{"/api/autodarts/service/start", "POST", func() (*Response, error) { return c.StartAutodartsService(ctx) }},
		{"/api/autodarts/service/stop", "POST", func() (*Response, error) { return c.StopAutodartsService(ctx) }},
		{"/api/autodarts/service/restart", "POST", func() (*Response, error) { return c.RestartAutodartsService(ctx) }},
		{"/api/autodarts/logs", "GET", func() (*Response, error) { return c.AutodartsLogs(ctx, 0) }},
		{"/api/cameras/start", "POST", func() (*Response, error) { return c.StartCameras(ctx) }},
		{"/api/cameras/stop", "POST", func() (*Response, error) { return c.StopCameras(ctx) }},
		{"/api/settings", "GET", func() (*Response, error) { return c.Settings(ctx) }},
		{"/api/settings", "POST", func() (*Response, error) { return c.UpdateSettings(ctx, map[string]any{"theme": "light"}) }},
		{"/api/settings/auto-update", "GET", func() (*Response, error) { return c.AutoUpdateSettings(ctx) }},
		{"/api/settings/auto-update", "POST", func() (*Response, error) {
			return c.UpdateAutoUpdateSettings(ctx, map[string]any{"enabled": true})
		}},
		{"/api/settings/reset", "POST", func() (*Response, error) { return c.ResetSettings(ctx) }},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, err := tt.call()
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.Status)

			got := rec.last(t)
			assert.Equal(t, tt.path, got.Path)
			assert.Equal(t, tt.method, got.Method)
			assert.Equal(t, "application/json", got.CType)
			assert.NotEmpty(t, got.RequestID)
			assert.Equal(t, got.RequestID, resp.RequestID)
		})
	}
}

func TestClient_System(t *testing.T) {
	ctx := context.Background()
	c, rec, _ := newRecordingClient(t, "")

	for _, e := range SystemEndpoints {
		_, err := c.System(ctx, e.Name)
		require.NoError(t, err)
		assert.Equal(t, "/api"+e.Path, rec.last(t).Path)
	}

	_, err := c.System(ctx, "gpu")
	assert.Error(t, err)
}

func TestClient_AutodartsLogs(t *testing.T) {
	ctx := context.Background()
	c, rec, _ := newRecordingClient(t, "")

	_, err := c.AutodartsLogs(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "lines=50", rec.last(t).RawQuery)

	_, err = c.AutodartsLogs(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "lines=10", rec.last(t).RawQuery)
}

func TestClient_PostBodies(t *testing.T) {
	ctx := context.Background()
	c, rec, _ := newRecordingClient(t, "")

	_, err := c.InstallAutodarts(ctx, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, rec.last(t).Body)

	_, err = c.UpdateAutodarts(ctx, map[string]any{"channel": "beta"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"channel":"beta"}`, rec.last(t).Body)

	_, err = c.StartCameras(ctx)
	require.NoError(t, err)
	assert.Empty(t, rec.last(t).Body)
}

// TestClient_FailingResponse checks the normalized shape of a non-2xx
// reply: message from the body, status, code and the full request URL.
func TestClient_FailingResponse(t *testing.T) {
	ctx := context.Background()
	c, rec, serverURL := newRecordingClient(t, "")
	rec.status = http.StatusConflict
	rec.body = `{"error":"Autodarts is already installed"}`

	logger, buf := logBuffer()
	c = New(WithBaseURL(serverURL), WithLogger(logger))

	_, err := c.InstallAutodarts(ctx, nil)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Autodarts is already installed", apiErr.Message)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, CodeBadRequest, apiErr.Code)
	assert.Equal(t, serverURL+"/api/autodarts/install", apiErr.RequestURL)
	assert.Equal(t, "POST", apiErr.Method)
	assert.Equal(t, rec.last(t).RequestID, apiErr.RequestID)

	assert.Contains(t, buf.String(), "API request failed")
	assert.Contains(t, buf.String(), "status=409")
}

// TestClient_FailureURLMatchesBase verifies requestUrl for both base forms.
func TestClient_FailureURLMatchesBase(t *testing.T) {
	ctx := context.Background()
	for _, suffix := range []string{"", "/api"} {
		c, rec, serverURL := newRecordingClient(t, suffix)
		rec.status = http.StatusInternalServerError
		rec.body = "oops"

		_, err := c.Settings(ctx)
		var apiErr *Error
		require.True(t, errors.As(err, &apiErr))
		assert.NotEmpty(t, apiErr.Message)
		assert.Equal(t, serverURL+"/api/settings", apiErr.RequestURL)
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(WithBaseURL(base), WithLogger(quietLogger()))
	_, err := c.Health(context.Background())

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, CodeNetwork, apiErr.Code)
	assert.Equal(t, 0, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
	assert.Equal(t, base+"/api/health", apiErr.RequestURL)
	assert.NotNil(t, apiErr.Unwrap())
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := New(WithBaseURL(srv.URL), WithTimeout(50*time.Millisecond), WithLogger(quietLogger()))
	_, err := c.Health(context.Background())

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, CodeTimeout, apiErr.Code)
	assert.True(t, apiErr.Timeout())
	assert.Equal(t, "timeout of 50ms exceeded", apiErr.Message)
}

func TestClient_TimeoutFromInjectedHTTPClient(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	var logs bytes.Buffer
	c := New(
		WithBaseURL(srv.URL),
		WithHTTPClient(&http.Client{Timeout: 40 * time.Millisecond}),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)
	_, err := c.Health(context.Background())

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, CodeTimeout, apiErr.Code)
	assert.Equal(t, "timeout of 40ms exceeded", apiErr.Message)
	assert.Contains(t, logs.String(), "timeout=40ms")
}

func TestClient_Canceled(t *testing.T) {
	c, _, _ := newRecordingClient(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Health(ctx)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, CodeCanceled, apiErr.Code)
}

func TestClient_UnencodableBody(t *testing.T) {
	c, rec, _ := newRecordingClient(t, "")

	_, err := c.UpdateSettings(context.Background(), map[string]any{"bad": make(chan int)})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, CodeBadOption, apiErr.Code)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Empty(t, rec.requests, "nothing should be sent")
}

// TestClient_AgainstMockDevice runs a short session against the in-memory
// device to check decoding of real payloads.
func TestClient_AgainstMockDevice(t *testing.T) {
	ctx := context.Background()
	state := mockapi.NewState()
	srv := httptest.NewServer(mockapi.NewRouter(state))
	t.Cleanup(srv.Close)

	c := New(WithBaseURL(srv.URL), WithLogger(quietLogger()))

	resp, err := c.AutodartsLogs(ctx, 5)
	require.NoError(t, err)
	var logs struct {
		Lines []string `json:"lines"`
	}
	require.NoError(t, resp.Decode(&logs))
	assert.Len(t, logs.Lines, 5)

	_, err = c.StartCameras(ctx)
	require.NoError(t, err)
	list := c.Cameras(ctx)
	assert.False(t, list.Placeholder)
	require.Len(t, list.Cameras, 3)
	assert.True(t, list.Cameras[0].Active)

	_, err = c.UpdateAutoUpdateSettings(ctx, map[string]any{"enabled": true, "schedule": "nope"})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "schedule must be HH:MM", apiErr.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
}

func TestResponse_Decode(t *testing.T) {
	var v map[string]any
	assert.NoError(t, (&Response{}).Decode(&v))
	assert.Nil(t, v)

	err := (&Response{Body: []byte("{"), URL: "http://h/api/x"}).Decode(&v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http://h/api/x")

	require.NoError(t, (&Response{Body: mustJSON(t, map[string]int{"a": 1})}).Decode(&v))
	assert.Equal(t, float64(1), v["a"])
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
