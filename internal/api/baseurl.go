package api

import (
	"strings"

	"github.com/shinji-kodama/vertexctl/internal/config"
)

// DefaultBaseURL is the device address used when no override is configured.
const DefaultBaseURL = config.DefaultBaseURL

// apiPrefix is prepended to every endpoint path unless the base URL
// already ends with it.
const apiPrefix = "/api"

// Endpoint is a resolved device address.
type Endpoint struct {
	// Base is the configured address with trailing slashes removed.
	Base string

	// Prefix is "/api", or empty when Base already ends in "/api".
	Prefix string
}

// ResolveBaseURL normalizes a raw base URL. It is a pure function:
//
//	""                      → {http://cdo-vertex.local, /api}
//	"http://host///"        → {http://host, /api}
//	"http://host/api/"      → {http://host/api, ""}
func ResolveBaseURL(raw string) Endpoint {
	base := strings.TrimSpace(raw)
	if base == "" {
		base = DefaultBaseURL
	}
	base = strings.TrimRight(base, "/")

	prefix := apiPrefix
	if strings.HasSuffix(base, apiPrefix) {
		prefix = ""
	}
	return Endpoint{Base: base, Prefix: prefix}
}

// URL returns the fully-qualified address of path.
func (e Endpoint) URL(path string) string {
	return e.Base + e.Prefix + path
}

// String returns the address endpoint paths are appended to.
func (e Endpoint) String() string {
	return e.Base + e.Prefix
}
