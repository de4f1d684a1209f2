// Package model defines the data structures of a parsed CUE sheet.
//
// # CueSheet
//
// CueSheet is the disc-level root. It owns the disc metadata, the optional
// CATALOG and CDTEXTFILE values, and the ordered FILE entries:
//
//	sheet, _, err := cue.Parse(text)
//	fmt.Println(sheet.Metadata.Title)   // Album title
//	fmt.Println(sheet.TrackCount())     // Tracks across all files
//
// # FileEntry and Track
//
// Each FileEntry lists the tracks that start in that file. Track numbers
// are disc-global, so the second file of a two-file sheet may start at
// track 7:
//
//	for track := range sheet.Tracks() {
//	    fmt.Println(track.Number, track.Type, track.Index01)
//	}
//
// # Index
//
// Index is an mm:ss:ff value with 75 frames per second. It is used both for
// positions (INDEX) and lengths (PREGAP, POSTGAP):
//
//	idx, _ := model.ParseIndex("03:12:50")
//	fmt.Println(idx.Frames())   // 14450
//	fmt.Println(idx.Duration()) // 3m12.666666666s
//
// # Closed enumerations
//
// TrackType, FileType and Flags accept only the keywords listed in their
// tables; there is no catch-all variant.
package model
