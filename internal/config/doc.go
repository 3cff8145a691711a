// Package config loads vertexctl settings from an optional YAML file and
// the environment.
//
// Resolution order, lowest to highest precedence:
//  1. Built-in defaults (DefaultBaseURL, 15s timeout, dist/, origin)
//  2. YAML file (--config, or $XDG_CONFIG_HOME/vertexctl/config.yaml)
//  3. Environment variables (VERTEX_API_BASE_URL, VITE_API_BASE_URL,
//     VERTEX_API_TIMEOUT)
//
// Command-line flags are applied on top by the cli package.
package config
