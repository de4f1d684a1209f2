// Package batch parses many cue sheets at once and writes the files that
// go with them.
//
// # Manager
//
// The Manager coordinates the whole run:
//
//  1. Expand inputs (files, directories, http(s) URLs) into sheets
//  2. Read and decode each sheet, fetching URLs with retries
//  3. Parse and validate sheets concurrently
//  4. Generate playlists (optional)
//  5. Tag single-track MP3 files with ID3 metadata (optional)
//
// # Basic Usage
//
//	manager := batch.NewManager(settings, func(event batch.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Initialize(ctx, []string{"~/Music/Rips"}); err != nil {
//	    log.Fatal(err)
//	}
//	if err := manager.Process(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range manager.Results() {
//	    if !r.OK() {
//	        fmt.Println(r.Source, r.Err)
//	    }
//	}
//
// # Concurrency
//
// settings.MaxConcurrentSheets bounds how many sheets are processed in
// parallel. One failing sheet never cancels the others.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// The callback may be called from several goroutines at once.
//
// # Retry Logic
//
// Failed fetches of remote sheets are retried with exponential backoff,
// configurable via settings.FetchMaxRetries, settings.FetchRetryCooldown
// and settings.FetchRetryExponent. Client errors such as 404 are not
// retried.
package batch
