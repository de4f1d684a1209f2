// Package tui provides a Bubble Tea terminal user interface for inspecting
// cue sheets.
//
// The user enters a sheet path, a directory or a URL. The sheets are parsed
// through a batch.Manager while a progress bar tracks them, then the parsed
// layout is shown in a scrollable viewport with one block per sheet:
// disc metadata, files, tracks with their indexes, flags and warnings.
package tui
