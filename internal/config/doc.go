// Package config loads application configuration from environment variables
// (ETA_ prefix) layered over an optional YAML config file, with validated
// defaults for the HTTP server, logging, and resource limits.
package config
