// Package app is the composition root for Citadel.
//
// # Overview
//
// Run wires configuration, logging, preferences, the API client, the cache
// and the UI together:
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.LoadDotEnv() / config.Load()
//	       ├─────> openLogger()          slog text file
//	       ├─────> prefs.Load()          theme + last filters
//	       ├─────> resolveFilter()       -query overrides stored filters
//	       ├─────> rickmorty.NewClient()
//	       ├─────> openBackend()         memory or redis
//	       ├─────> catalog.New()
//	       ├─────> PrintOnce()           when -print is set, then return
//	       ├─────> StartSweeper()        memory backend only
//	       └─────> ui.Run()              blocks until quit
//
// On exit the final theme and filters are written back to prefs.
//
// # Error Handling
//
// Only an unreadable or invalid configuration fails startup. A log file that
// cannot be opened discards logs, and an unreachable Redis server falls back
// to the in-memory cache with a warning. Fetch failures at runtime are shown
// in the UI and never end the program.
package app
