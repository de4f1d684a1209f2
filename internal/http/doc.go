// Package http provides the HTTP client used to fetch cue sheets given as
// http(s) URLs.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeout handling
//   - Capping the response size
//
// # Basic Usage
//
//	client := http.NewClient(0, "")
//	data, err := client.Get(ctx, "https://example.com/Album.cue")
//
// Non-200 responses are returned as *StatusError. Its Temporary method
// tells the batch manager whether a retry is worthwhile.
package http
