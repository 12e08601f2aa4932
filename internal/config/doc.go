// Package config handles loading citadel's configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/citadel/config.toml (default)
//  3. If the config file doesn't exist, start from hardcoded defaults
//  4. Fields that are missing or empty keep their defaults
//  5. CITADEL_* environment variables override whatever the file set
//
// LoadDotEnv can be called first to populate the environment from a .env
// file; variables already present in the environment win.
//
// # Default Values
//
//   - Config file: ~/.config/citadel/config.toml
//   - API root: https://rickandmortyapi.com/api
//   - Request timeout: 10s, one retry, 5 requests/second
//   - List cache TTL: 5m, detail cache TTL: 10m
//   - Cache backend: memory
//   - Log file: ~/.local/state/citadel/citadel.log
//
// # Example config.toml
//
//	api_url = "https://rickandmortyapi.com/api"
//	request_timeout = "10s"
//	retries = 1
//	rate_limit = 5
//	list_ttl = "5m"
//	detail_ttl = "10m"
//	cache_backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	log_file = "~/.local/state/citadel/citadel.log"
//
// Durations use Go syntax ("90s", "5m"). A redis backend without redis_url,
// an unknown backend, invalid TOML, or an unparsable duration is an error.
package config
