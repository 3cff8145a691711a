// Package api is the HTTP client for the vertex board computer's
// device-management API.
//
// The API is a flat set of JSON endpoints under an /api prefix: system
// telemetry, the Autodarts service manager, cameras and settings. Each
// remote capability is exposed as one Client method that issues exactly
// one request.
//
// Every request failure, whether a transport error, a timeout or a non-2xx
// response, is converted by Normalize into a single *Error shape before it
// reaches the caller. The one exception to "errors propagate" is Cameras,
// which degrades to a placeholder list so a dashboard never shows a hard
// failure for the camera view.
//
// A Client holds only immutable configuration after New returns and is
// safe for concurrent use. There are no retries and no caching.
package api
