package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// Error codes carried by *Error. They follow the names the dashboard's
// JavaScript client reports so logs from both tools line up.
const (
	// CodeTimeout means the request did not complete within the timeout.
	CodeTimeout = "ECONNABORTED"

	// CodeCanceled means the caller's context was canceled.
	CodeCanceled = "ERR_CANCELED"

	// CodeNetwork means no usable response was received.
	CodeNetwork = "ERR_NETWORK"

	// CodeBadRequest means the device answered with a 4xx status.
	CodeBadRequest = "ERR_BAD_REQUEST"

	// CodeBadResponse means the device answered with a 5xx or other
	// non-2xx status.
	CodeBadResponse = "ERR_BAD_RESPONSE"

	// CodeBadOption means the request could not be built (e.g., the body
	// is not JSON-encodable). Nothing was sent.
	CodeBadOption = "ERR_BAD_OPTION_VALUE"
)

// UnknownErrorMessage is used when neither the device nor the transport
// produced a message.
const UnknownErrorMessage = "An unknown error occurred"

// Error is the normalized shape of every API request failure.
type Error struct {
	// Message is human-readable and never empty.
	Message string `json:"message"`

	// Status is the HTTP status code, or 0 when no response arrived.
	Status int `json:"status,omitempty"`

	// Code classifies the failure (see the Code* constants). It may be
	// empty when nothing is known about the failure.
	Code string `json:"code,omitempty"`

	// RequestURL is base + prefix + path, without the query string.
	RequestURL string `json:"requestUrl"`

	// Method is the HTTP method of the failed request.
	Method string `json:"method,omitempty"`

	// RequestID is the X-Request-ID sent with the request.
	RequestID string `json:"requestId,omitempty"`

	// Err is the raw cause.
	Err error `json:"-"`
}

// Error returns the normalized message.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the raw cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request timed out.
func (e *Error) Timeout() bool {
	return e.Code == CodeTimeout
}

// Failure is everything known about a failed request. It is the input of
// Normalize and is independent of net/http so it can be built by hand in
// tests.
type Failure struct {
	BaseURL   string
	Path      string
	Method    string
	RequestID string
	Timeout   time.Duration

	// StatusCode is 0 when no response was received.
	StatusCode int

	// Body is the raw response body, if any.
	Body []byte

	// Err is the transport or encoding error, if any.
	Err error

	// Code, when set, is used verbatim instead of being classified.
	Code string
}

// Normalize converts a raw failure into an *Error.
//
// Message precedence: the body's "error" field (a string, or an object
// with a "message"), then its "detail" string, then the transport error or
// a generic status message, then UnknownErrorMessage.
func Normalize(f Failure) *Error {
	code := f.Code
	if code == "" {
		code = classify(f)
	}

	message := serverMessage(f.Body)
	if message == "" {
		message = genericMessage(f, code)
	}
	if message == "" {
		message = UnknownErrorMessage
	}

	return &Error{
		Message:    message,
		Status:     f.StatusCode,
		Code:       code,
		RequestURL: f.BaseURL + f.Path,
		Method:     f.Method,
		RequestID:  f.RequestID,
		Err:        f.Err,
	}
}

// classify derives an error code from the failure.
func classify(f Failure) string {
	if f.Err != nil {
		switch {
		case errors.Is(f.Err, context.Canceled):
			return CodeCanceled
		case isTimeout(f.Err):
			return CodeTimeout
		default:
			return CodeNetwork
		}
	}

	switch {
	case f.StatusCode == 0:
		return ""
	case f.StatusCode >= 400 && f.StatusCode < 500:
		return CodeBadRequest
	default:
		return CodeBadResponse
	}
}

// isTimeout recognizes both context deadlines and http.Client timeouts.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// genericMessage describes the failure when the device did not.
func genericMessage(f Failure, code string) string {
	if code == CodeTimeout && f.Timeout > 0 {
		return fmt.Sprintf("timeout of %dms exceeded", f.Timeout.Milliseconds())
	}
	if f.Err != nil {
		return f.Err.Error()
	}
	if f.StatusCode != 0 {
		return fmt.Sprintf("request failed with status code %d", f.StatusCode)
	}
	return ""
}

// serverMessage extracts the device-supplied message from a JSON body.
func serverMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var payload struct {
		Error  json.RawMessage `json:"error"`
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if msg := rawMessage(payload.Error); msg != "" {
		return msg
	}
	return rawMessage(payload.Detail)
}

// rawMessage accepts either "text" or {"message": "text"}.
func rawMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(obj.Message)
	}
	return ""
}
