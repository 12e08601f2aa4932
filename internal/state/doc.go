// Package state provides thread-safe state management for the citadel browser.
//
// # Overview
//
// Store is the one place that holds the filter criteria, the selected
// character, whether the detail view is open, and the most recent list
// result. The UI mutates it in response to keys and reads Snapshot values to
// render; fetch commands report back through ApplyResult.
//
// # Request Generations
//
// Every list request starts with BeginFetch, which bumps a generation counter
// and returns the filter to query with. When the response arrives the caller
// passes the same generation to ApplyResult. If the user changed a filter in
// between, a newer generation exists and the late response is dropped:
//
//	gen, f := store.BeginFetch()
//	page, err := catalog.Characters(ctx, f)
//	if !store.ApplyResult(gen, page, err) {
//		// superseded by a newer request
//	}
//
// # Update Semantics
//
// ApplyResult mirrors a polling store:
//
//	// Success: replace the page, clear the error
//	store.ApplyResult(gen, page, nil)
//
//	// Error: keep the previous page, record the error
//	store.ApplyResult(gen, rickmorty.Page{}, err)
//
// ConsecutiveFailures counts failed fetches in a row and IsOffline reports
// when the API looks unreachable.
//
// # Filters and Selection
//
// The filter setters reset the page to 1. Changing any criterion also clears
// the selection, since the selected character may no longer be listed.
// Select toggles: selecting the open character again closes its detail.
//
// # Defensive Copying
//
// Snapshot clones the result slice and the error so callers never share
// mutable state with the store.
package state
