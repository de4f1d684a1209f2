package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/handiism/cuesheet/internal/audio"
	"github.com/handiism/cuesheet/internal/cue"
	ioutils "github.com/handiism/cuesheet/internal/io"
)

// EnvPrefix is the prefix of environment variables that override settings.
// CUESHEET_MAX_CONCURRENT_SHEETS sets max_concurrent_sheets.
const EnvPrefix = "CUESHEET_"

// FileName is the name of the settings file inside the user config directory.
const FileName = "config.yaml"

// Output formats for parsed sheets.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// Settings holds all configuration options.
type Settings struct {
	// Parse dialect
	Encoding                  string `koanf:"encoding" yaml:"encoding"` // auto, utf-8, windows-1252, shift_jis ...
	QuoteEscapes              bool   `koanf:"quote_escapes" yaml:"quote_escapes"`
	AllowFileScopedCDTextFile bool   `koanf:"allow_file_scoped_cdtextfile" yaml:"allow_file_scoped_cdtextfile"`
	FirstTrackNumber          int    `koanf:"first_track_number" yaml:"first_track_number"`

	// Batch settings
	MaxConcurrentSheets int     `koanf:"max_concurrent_sheets" yaml:"max_concurrent_sheets"`
	Recursive           bool    `koanf:"recursive" yaml:"recursive"`
	FetchMaxRetries     int     `koanf:"fetch_max_retries" yaml:"fetch_max_retries"`
	FetchRetryCooldown  float64 `koanf:"fetch_retry_cooldown" yaml:"fetch_retry_cooldown"`
	FetchRetryExponent  float64 `koanf:"fetch_retry_exponent" yaml:"fetch_retry_exponent"`
	HTTPTimeoutSeconds  int     `koanf:"http_timeout_seconds" yaml:"http_timeout_seconds"`
	UserAgent           string  `koanf:"user_agent" yaml:"user_agent"`

	// Playlist settings
	CreatePlaylist bool   `koanf:"create_playlist" yaml:"create_playlist"`
	PlaylistFormat string `koanf:"playlist_format" yaml:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `koanf:"m3u_extended" yaml:"m3u_extended"`

	// Tag settings
	ModifyTags            bool   `koanf:"modify_tags" yaml:"modify_tags"`
	CommentsAction        string `koanf:"comments_action" yaml:"comments_action"` // empty, modify, keep
	SaveCoverArtInTags    bool   `koanf:"save_cover_art_in_tags" yaml:"save_cover_art_in_tags"`
	CoverArtInTagsResize  bool   `koanf:"cover_art_in_tags_resize" yaml:"cover_art_in_tags_resize"`
	CoverArtInTagsMaxSize int    `koanf:"cover_art_in_tags_max_size" yaml:"cover_art_in_tags_max_size"`

	// Output and logging
	Output    string `koanf:"output" yaml:"output"` // table, json, yaml
	LogLevel  string `koanf:"log_level" yaml:"log_level"`
	LogFormat string `koanf:"log_format" yaml:"log_format"` // text, json
	Verbose   bool   `koanf:"verbose" yaml:"verbose"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Encoding:         "auto",
		FirstTrackNumber: 1,

		MaxConcurrentSheets: 4,
		Recursive:           true,
		FetchMaxRetries:     3,
		FetchRetryCooldown:  0.2,
		FetchRetryExponent:  4.0,
		HTTPTimeoutSeconds:  30,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,

		ModifyTags:            false,
		CommentsAction:        "empty",
		SaveCoverArtInTags:    true,
		CoverArtInTagsResize:  true,
		CoverArtInTagsMaxSize: 1000,

		Output:    OutputTable,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// DefaultPath returns the settings file used when none is given,
// $XDG_CONFIG_HOME/cuesheet/config.yaml or its platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "cuesheet", FileName)
}

// Load reads settings from defaults, a YAML file, the environment and
// command-line flags, in increasing order of precedence.
//
// An empty path selects DefaultPath, which may be absent. An explicit path
// must exist. Only flags that were set on the command line are applied;
// their names map to keys by replacing "-" with "_", so --log-level sets
// log_level. Flags that name no setting are ignored. flags may be nil.
//
// Example:
//
//	settings, err := config.Load(cfgFile, cmd.Flags())
//	if err != nil {
//	    return err
//	}
func Load(path string, flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	defaults, err := toMap(DefaultSettings())
	if err != nil {
		return nil, err
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		if !k.Exists(key) {
			return ""
		}
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if key == "format" {
				key = "output"
			}
			// Command-local flags such as --force are not settings.
			if !k.Exists(key) {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// Env keys are filtered above, so an unused key is a misspelling in
	// the config file.
	var s Settings
	if err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			Result:           &s,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// toMap flattens settings to the map form the confmap provider loads.
func toMap(s *Settings) (map[string]interface{}, error) {
	data, err := yamlv3.Marshal(s)
	if err != nil {
		return nil, err
	}
	m := map[string]interface{}{}
	if err := yamlv3.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Save writes settings to a YAML file, creating its directory.
func (s *Settings) Save(ctx context.Context, path string) error {
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	data, err := yamlv3.Marshal(s)
	if err != nil {
		return err
	}

	return ioutils.WriteFile(ctx, path, data)
}

// Validate checks value ranges and enumerations.
func (s *Settings) Validate() error {
	var errs []error
	if s.FirstTrackNumber < 1 || s.FirstTrackNumber > 99 {
		errs = append(errs, fmt.Errorf("first_track_number %d out of range 1-99", s.FirstTrackNumber))
	}
	if s.MaxConcurrentSheets < 1 {
		errs = append(errs, errors.New("max_concurrent_sheets must be at least 1"))
	}
	if s.FetchMaxRetries < 1 {
		errs = append(errs, errors.New("fetch_max_retries must be at least 1"))
	}
	if _, err := audio.ParsePlaylistFormat(s.PlaylistFormat); err != nil {
		errs = append(errs, err)
	}
	if _, err := audio.ParseTagEditAction(s.CommentsAction); err != nil {
		errs = append(errs, err)
	}
	switch s.Output {
	case OutputTable, OutputJSON, OutputYAML:
	default:
		errs = append(errs, fmt.Errorf("unknown output format %q", s.Output))
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", s.LogFormat))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// ToParseOptions converts settings to parser dialect options.
func (s *Settings) ToParseOptions() cue.Options {
	return cue.Options{
		FirstTrackNumber:          uint8(s.FirstTrackNumber),
		QuoteEscapes:              s.QuoteEscapes,
		AllowFileScopedCDTextFile: s.AllowFileScopedCDTextFile,
	}
}

// ToTagConfig converts settings to the tagger configuration.
func (s *Settings) ToTagConfig() *audio.TagConfig {
	cfg := audio.DefaultTagConfig()
	cfg.ModifyTags = s.ModifyTags
	if action, err := audio.ParseTagEditAction(s.CommentsAction); err == nil {
		cfg.Comments = action
	}
	return cfg
}

// ToPlaylistCreator builds the playlist creator for the configured format.
func (s *Settings) ToPlaylistCreator() *audio.PlaylistCreator {
	format, err := audio.ParsePlaylistFormat(s.PlaylistFormat)
	if err != nil {
		format = audio.FormatM3U
	}
	return audio.NewPlaylistCreator(format, s.M3UExtended)
}

// HTTPTimeout returns the request timeout as a duration.
func (s *Settings) HTTPTimeout() time.Duration {
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}

// CoverArtMaxSize returns the cover size bound for tags, 0 for no resizing.
func (s *Settings) CoverArtMaxSize() int {
	if !s.CoverArtInTagsResize {
		return 0
	}
	return s.CoverArtInTagsMaxSize
}
