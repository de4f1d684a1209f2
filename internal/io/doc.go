// Package ioutils loads cue sheet text from disk and prepares the files
// that sit next to it.
//
// This package contains functions for:
//   - Reading a cue sheet and decoding it to UTF-8
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation and file writing
//   - Locating and preparing cover art
//
// # Text Decoding
//
// Cue sheets written by older rippers are frequently Windows-1252 or
// Shift_JIS rather than UTF-8:
//
//	text, err := ioutils.ReadCueFile(ctx, "Album.cue", "auto")
//
//	// Force an encoding
//	text, err := ioutils.DecodeText(data, "shift_jis")
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("Live: Part 1/2") // Returns "Live_ Part 1_2"
//
// # Cover Art
//
//	if path := ioutils.FindCoverArt(dir); path != "" {
//	    data, _ := os.ReadFile(path)
//	    art, _ := ioutils.NewImageService().PrepareCoverArt(ctx, data, 600)
//	}
package ioutils
