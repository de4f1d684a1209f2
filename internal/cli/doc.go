// Package cli provides the cuesheet command-line interface.
//
// Commands:
//   - parse: print the layout of one or more sheets as a table, JSON or YAML
//   - validate: report OK/FAIL per sheet, exiting non-zero on any failure
//   - playlist: write an M3U, PLS, WPL or ZPL playlist next to each sheet
//   - tag: copy sheet metadata into the ID3v2 tags of single-track MP3 files
//   - watch: re-validate sheets under a directory as they change
//   - config: show the effective settings or write them to a file
//   - version: print the build version
//
// Settings are resolved once per invocation in the root command's
// PersistentPreRunE: defaults, then the config file, then CUESHEET_*
// environment variables, then flags that were set on the command line.
//
// Example:
//
//	if err := cli.Execute(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli
