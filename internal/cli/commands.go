package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handiism/cuesheet/internal/batch"
	"github.com/handiism/cuesheet/internal/config"
)

// runBatch parses every sheet named by args. The settings copy handed to
// adjust may be changed to force a feature on for one command.
func runBatch(cmd *cobra.Command, args []string, adjust func(*config.Settings)) ([]batch.Result, error) {
	a := fromCommand(cmd)

	settings := *a.settings
	if adjust != nil {
		adjust(&settings)
	}

	m := batch.NewManager(&settings, progressLogger(a.logger))
	if err := m.Initialize(cmd.Context(), args); err != nil {
		return nil, err
	}
	if err := m.Process(cmd.Context()); err != nil {
		return nil, err
	}
	return m.Results(), nil
}

// failed returns errSheetsFailed when any result carries an error.
func failed(results []batch.Result) error {
	for _, res := range results {
		if !res.OK() {
			return errSheetsFailed
		}
	}
	return nil
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file|dir|url>...",
		Short: "Parse cue sheets and print their layout",
		Long: `Parse one or more cue sheets and print the disc metadata, files,
tracks and indexes.

Directories are searched for .cue files. http and https URLs are fetched.`,
		Example: `  cuesheet parse album.cue
  cuesheet parse --format json ~/Music
  cuesheet parse --encoding shift_jis disc.cue`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := runBatch(cmd, args, nil)
			if err != nil {
				return err
			}
			format := fromCommand(cmd).settings.Output
			if err := renderResults(cmd.OutOrStdout(), results, format); err != nil {
				return err
			}
			return failed(results)
		},
	}

	cmd.Flags().StringP("format", "f", config.OutputTable, "Output format (table|json|yaml)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.OutputTable, config.OutputJSON, config.OutputYAML}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|dir|url>...",
		Short: "Check cue sheets for errors",
		Long: `Check one or more cue sheets. Each sheet is reported as OK or FAIL.
The command exits with a non-zero status when any sheet fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := runBatch(cmd, args, nil)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			bad := 0
			for _, res := range results {
				if !res.OK() {
					bad++
					_, _ = fmt.Fprintf(w, "FAIL %s: %v\n", res.Source, res.Err)
					continue
				}
				_, _ = fmt.Fprintf(w, "OK   %s (%d track(s), %d warning(s))\n",
					res.Source, res.Sheet.TrackCount(), len(res.Warnings))
			}
			_, _ = fmt.Fprintf(w, "%d checked, %d failed\n", len(results), bad)

			return failed(results)
		},
	}
}

// NewPlaylistCommand creates the playlist command.
func NewPlaylistCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playlist <file|dir>...",
		Short: "Write a playlist next to each cue sheet",
		Long: `Write a playlist for each local cue sheet, in the same directory and
with the same base name.`,
		Example: `  cuesheet playlist album.cue
  cuesheet playlist --playlist-format pls ~/Music`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := runBatch(cmd, args, func(s *config.Settings) {
				s.CreatePlaylist = true
			})
			if err != nil {
				return err
			}

			for _, res := range results {
				if res.Playlist != "" {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), res.Playlist)
				}
			}
			return failed(results)
		},
	}

	cmd.Flags().String("playlist-format", "m3u", "Playlist format (m3u|pls|wpl|zpl)")
	cmd.Flags().Bool("m3u-extended", true, "Write #EXTINF and start/stop offsets in M3U playlists")
	return cmd
}

// NewTagCommand creates the tag command.
func NewTagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag <file|dir>...",
		Short: "Write cue sheet metadata into MP3 tags",
		Long: `Copy disc and track metadata from each cue sheet into the ID3v2 tags of
the MP3 files it references. Only files holding exactly one track are
tagged.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := runBatch(cmd, args, func(s *config.Settings) {
				s.ModifyTags = true
			})
			if err != nil {
				return err
			}

			total := 0
			for _, res := range results {
				total += res.Tagged
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Tagged %d file(s) from %d sheet(s)\n", total, len(results))
			return failed(results)
		},
	}

	cmd.Flags().Bool("save-cover-art-in-tags", true, "Embed cover art found next to the sheet")
	cmd.Flags().String("comments-action", "empty", "What to do with the comment tag (empty|modify|keep)")
	return cmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cuesheet v%s (%s)\n", version, GitCommit)
		},
	}
}
