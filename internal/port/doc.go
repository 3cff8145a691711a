// Package port finds a free TCP port for the mock device server.
//
// The dashboard's dev server is usually configured with a fixed API address
// (for example http://localhost:8080). When that port is already taken the
// mock server should still start, so the Scanner probes the next few ports
// and reports which one it actually bound.
package port
