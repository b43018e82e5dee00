// Package config loads todos settings from a TOML file.
//
// The default location is ~/.config/todos/config.toml. A missing file is not
// an error: Load returns defaults so todos works against a local json-server
// on port 5001 without any configuration.
//
// # TOML Format
//
//	api_url = "http://localhost:5001"
//	request_timeout = "10s"
//	log_file = "~/.local/state/todos/todos.log"
//	log_level = "info"
//	refresh_interval = "30s"
//	breaker_failures = 3
//	breaker_cooldown = "30s"
//
// Every key is optional and blank values fall back to defaults. Durations
// use time.ParseDuration syntax and must not be negative. A zero
// request_timeout means requests never time out; a zero refresh_interval
// disables auto-refresh; breaker_failures = 0 disables the circuit breaker.
//
// # Path Expansion
//
// The config path and log_file accept a leading ~ and relative paths; both
// are returned absolute.
//
// # Error Handling
//
// Load returns errors for unreadable files, malformed TOML and invalid
// durations. The caller treats those as fatal at start-up.
package config
