// Package mockapi serves an in-memory imitation of the vertex device API.
//
// It exists so the dashboard and the api client can be exercised without
// a board computer on the network. Telemetry is canned; the Autodarts
// service, cameras and settings keep mutable state for the lifetime of the
// process. Failures are answered with {"error": "..."} bodies, the same
// shape the real device uses, so error normalization sees realistic input.
package mockapi
