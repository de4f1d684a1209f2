package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/handiism/cuesheet/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// errSheetsFailed is returned when at least one sheet did not parse. The
// individual errors have already been reported.
var errSheetsFailed = errors.New("one or more cue sheets failed")

// appKey is used to store the loaded settings and logger in context.
type appKey struct{}

// app is what every subcommand needs after flags and config are resolved.
type app struct {
	settings *config.Settings
	logger   *slog.Logger
}

// fromCommand returns the app stored by the root command's pre-run.
func fromCommand(cmd *cobra.Command) *app {
	if a, ok := cmd.Context().Value(appKey{}).(*app); ok {
		return a
	}
	s := config.DefaultSettings()
	return &app{settings: s, logger: newLogger(s.LogLevel, s.LogFormat, cmd.ErrOrStderr())}
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "cuesheet",
		Short: "cuesheet - CUE sheet parser and validator",
		Long: `cuesheet parses CUE sheets, the text files that describe the track
layout of a CD image or of a set of audio files.

It reports structural errors with line numbers, prints the parsed layout,
writes playlists and copies the metadata into ID3 tags.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			settings, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			level := settings.LogLevel
			if settings.Verbose {
				level = "debug"
			}
			logger := newLogger(level, settings.LogFormat, cmd.ErrOrStderr())
			logger.Debug("settings loaded", "config", cfgFile, "encoding", settings.Encoding)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, appKey{}, &app{settings: settings, logger: logger}))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: "+config.DefaultPath()+")")
	flags.String("log-level", "info", "Log level (debug|info|warn|error)")
	flags.String("log-format", "text", "Log format (text|json)")
	flags.String("encoding", "auto", "Text encoding of cue sheets (auto, utf-8, windows-1252, shift_jis ...)")
	flags.Bool("quote-escapes", false, `Treat backslash as an escape inside quotes (\")`)
	flags.Bool("recursive", true, "Search directories recursively for .cue files")
	flags.IntP("max-concurrent-sheets", "j", 4, "Number of sheets processed in parallel")
	flags.BoolP("verbose", "v", false, "Verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewParseCommand())
	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewPlaylistCommand())
	rootCmd.AddCommand(NewTagCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand(Version))

	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errSheetsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}
