package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/shinji-kodama/vertexctl/internal/config"
)

// DefaultTimeout bounds every request made by a Client.
const DefaultTimeout = config.DefaultTimeout

// requestIDHeader correlates a CLI log line with the device's access log.
const requestIDHeader = "X-Request-ID"

// Client talks to one device. Create it with New; the zero value is not
// usable.
type Client struct {
	endpoint Endpoint
	timeout  time.Duration
	http     *http.Client
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the raw device address. It is normalized with
// ResolveBaseURL.
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		c.endpoint = ResolveBaseURL(raw)
	}
}

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client. Its own Timeout is
// used as-is and, when set, is the timeout reported in errors and logs.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client. Without options it targets DefaultBaseURL with a
// 15 second timeout.
func New(opts ...Option) *Client {
	c := &Client{
		endpoint: ResolveBaseURL(""),
		timeout:  DefaultTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	} else if c.http.Timeout > 0 {
		// The injected client enforces its own limit; report that one.
		c.timeout = c.http.Timeout
	}
	return c
}

// Endpoint returns the resolved device address.
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// Response is a successful (2xx) reply.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// Header holds the response headers.
	Header http.Header

	// Body is the raw response body.
	Body []byte

	// URL is the request address without the query string.
	URL string

	// RequestID is the X-Request-ID that was sent.
	RequestID string
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response from %s: %w", r.URL, err)
	}
	return nil
}

// Get issues a GET request to path (relative to the /api prefix).
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST request to path with body JSON-encoded. A nil body
// sends no payload.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// do performs exactly one request. Every error it returns is an *Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	requestID := uuid.NewString()
	failure := Failure{
		BaseURL:   c.endpoint.Base,
		Path:      c.endpoint.Prefix + path,
		Method:    method,
		RequestID: requestID,
		Timeout:   c.timeout,
	}

	target := c.endpoint.URL(path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			failure.Err = fmt.Errorf("encode request body: %w", err)
			failure.Code = CodeBadOption
			return nil, c.fail(failure)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		failure.Err = err
		failure.Code = CodeBadOption
		return nil, c.fail(failure)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		failure.Err = err
		return nil, c.fail(failure)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	failure.StatusCode = resp.StatusCode
	failure.Body = data
	if err != nil {
		failure.Err = fmt.Errorf("read response body: %w", err)
		return nil, c.fail(failure)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(failure)
	}

	return &Response{
		Status:    resp.StatusCode,
		Header:    resp.Header,
		Body:      data,
		URL:       failure.BaseURL + failure.Path,
		RequestID: requestID,
	}, nil
}

// fail normalizes and logs a failure.
func (c *Client) fail(f Failure) *Error {
	apiErr := Normalize(f)
	c.logger.Error("API request failed",
		"message", apiErr.Message,
		"status", apiErr.Status,
		"code", apiErr.Code,
		"url", apiErr.RequestURL,
		"method", apiErr.Method,
		"timeout", c.timeout,
		"request_id", apiErr.RequestID,
	)
	return apiErr
}
