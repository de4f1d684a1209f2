package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/handiism/cuesheet/internal/config"
)

// NewConfigCommand creates the config command and its subcommands.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or write the settings file",
	}
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as YAML",
		Long: `Print the settings after defaults, the config file, CUESHEET_*
environment variables and flags have been applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := yamlv3.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(fromCommand(cmd).settings); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var (
		file  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective settings to a config file",
		Example: `  cuesheet config init
  cuesheet config init --playlist-format pls --file ./cuesheet.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := fromCommand(cmd)
			path := file
			if path == "" {
				path = config.DefaultPath()
			}
			if path == "" {
				return errors.New("no user config directory; pass --file")
			}

			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists; use --force to overwrite", path)
				}
			}

			if err := a.settings.Save(cmd.Context(), path); err != nil {
				return err
			}
			a.logger.Debug("settings written", "path", path)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "file to write (default: "+config.DefaultPath()+")")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	// Lets init record a playlist format without a parse run.
	cmd.Flags().String("playlist-format", "m3u", "Playlist format (m3u|pls|wpl|zpl)")

	return cmd
}
