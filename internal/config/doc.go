// Package config provides configuration management for cuesheet.
//
// This package handles:
//   - Default configuration values
//   - Layered loading: defaults, YAML file, CUESHEET_* environment, flags
//   - Saving settings as YAML
//   - Conversion to parser options, tagger and playlist configuration
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Encoding detection enabled, strict dialect
//	// Four sheets processed concurrently
//	// No playlists or tags written
//
// # Loading
//
//	settings, err := config.Load("", cmd.Flags())
//
// With an empty path the file at DefaultPath is used when it exists.
// Environment variables override the file:
//
//	CUESHEET_ENCODING=shift_jis cuesheet parse Album.cue
//
// and flags that were set explicitly override everything.
//
// # Saving Settings
//
//	settings.PlaylistFormat = "pls"
//	err := settings.Save(ctx, config.DefaultPath())
package config
