package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestResolveBaseURL covers trailing-slash trimming, the default host and
// /api prefix deduplication.
func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantBase   string
		wantPrefix string
	}{
		{"blank uses default", "", "http://cdo-vertex.local", "/api"},
		{"whitespace uses default", "   ", "http://cdo-vertex.local", "/api"},
		{"plain host", "http://host", "http://host", "/api"},
		{"trailing slashes trimmed", "http://host///", "http://host", "/api"},
		{"already ends in api", "http://host/api", "http://host/api", ""},
		{"api with trailing slash", "http://host/api/", "http://host/api", ""},
		{"port and path", "http://10.0.0.5:8000/device", "http://10.0.0.5:8000/device", "/api"},
		{"api-like suffix is not api", "http://host/apis", "http://host/apis", "/api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveBaseURL(tt.raw)
			assert.Equal(t, tt.wantBase, got.Base)
			assert.Equal(t, tt.wantPrefix, got.Prefix)
		})
	}
}

func TestEndpoint_URL(t *testing.T) {
	assert.Equal(t, "http://host/api/health", ResolveBaseURL("http://host").URL("/health"))
	assert.Equal(t, "http://host/api/health", ResolveBaseURL("http://host/api").URL("/health"))
	assert.Equal(t, "http://host/api", ResolveBaseURL("http://host/").String())
}
