// Package config manages user-level settings stored at ~/.edlx/config.yaml.
// Values can be overridden with EDLX_-prefixed environment variables, e.g.
// EDLX_LOG_LEVEL=debug.
package config
