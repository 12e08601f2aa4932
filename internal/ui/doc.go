// Package ui provides the Bubble Tea terminal interface for Citadel.
//
// # Architecture Overview
//
// Model is the root tea.Model. It owns no character data itself: every fetch
// result goes through state.Store, and the model renders from the latest
// Snapshot. Fetches are tagged with the store's generation so that results
// from superseded filters are dropped on arrival.
//
// # Package Structure
//
//   - app.go: Model, key handling, fetch lifecycle and Run
//   - messages.go: tea.Msg types and the commands that produce them
//   - header.go: status bar, filter bar and command bar
//   - grid.go: card grid layout and cursor movement
//   - detail.go: character detail overlay
//   - activity.go: live view of the application log
//   - help.go, keys.go: key map and help overlay
//   - theme.go, style_helpers.go: color themes and background-safe rendering
//
// # Filters
//
// Status, gender and species are cycled with s/x/c (shift reverses). The name
// input is debounced: each keystroke bumps a sequence number and only the
// debounce message carrying the latest number triggers a query. Enter applies
// the name at once. Any criterion change returns to page 1 and clears the
// selection; paging keeps it.
//
// # Overlays
//
// At most one Modal is open at a time. Enter on a card opens its detail and
// enter on the same card closes it again. The activity overlay re-reads the
// log file every two seconds while open.
package ui
