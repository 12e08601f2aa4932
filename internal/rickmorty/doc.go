// Package rickmorty provides an HTTP client for the public Rick and Morty API.
//
// # Overview
//
// The client covers the two read-only endpoints citadel needs:
//
//   - GET /character?page=&name=&status=&gender=&species=: paginated, filtered list
//   - GET /character/{id}: single character lookup
//
// Responses are decoded into Character, Page and Info, which mirror the API
// schema verbatim. Records are never mutated locally.
//
// # Error Handling
//
// A 404 from the list endpoint means "no characters match these filters", so
// FetchCharacters returns EmptyPage() and a nil error. Every other non-2xx
// status becomes an *APIError, which matches ErrAPI:
//
//	page, err := client.FetchCharacters(ctx, params)
//	if errors.Is(err, rickmorty.ErrAPI) {
//		// show the error banner, keep the previous results
//	}
//
// Transport failures and 5xx responses are retried Options.Retries times
// (citadel configures one retry). 4xx responses and decode failures are not.
//
// # Rate Limiting
//
// The API is public and unauthenticated. Options.RateLimit installs a
// token-bucket limiter so rapid filter changes cannot flood it.
package rickmorty
