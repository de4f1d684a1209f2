// Package cue parses CUE sheets into model.CueSheet values.
//
// Parsing runs in four stages over text that is already in memory:
//
//  1. Lex splits the text into lines of keyword and argument tokens
//  2. each line is classified into a typed Command (FILE, TRACK, INDEX ...)
//  3. a state machine (disc, FILE, TRACK blocks) folds the commands into
//     a builder that owns the sheet under construction
//  4. Validate re-checks the invariants that span several commands
//
// # Basic Usage
//
//	sheet, warnings, err := cue.Parse(text)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range warnings {
//	    log.Println("warning:", w)
//	}
//
// # Errors
//
// Every fatal error is a *ParseError carrying the source line and wrapping
// one of the Err* kinds:
//
//	_, _, err := cue.Parse("TRACK 01 AUDIO")
//	errors.Is(err, cue.ErrCommandOutOfContext) // true
//
// The only recoverable anomaly is an unknown FLAGS token, which becomes a
// Warning while the known flags of the same line are still applied.
// Unknown REM keys are stored in Metadata.OtherRem.
//
// # Dialects
//
// Options selects how quoting and CDTEXTFILE placement are handled, and
// which number the first track must carry.
package cue
