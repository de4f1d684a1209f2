package cue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/handiism/cuesheet/internal/model"
)

// Command is a classified CUE sheet command.
type Command interface {
	keyword() string
}

// CatalogCommand is CATALOG <13 digits>.
type CatalogCommand struct{ Value string }

// CDTextFileCommand is CDTEXTFILE <path>.
type CDTextFileCommand struct{ Path string }

// FileCommand is FILE <name> <type>.
type FileCommand struct {
	Name string
	Type model.FileType
}

// TrackCommand is TRACK <number> <mode>.
type TrackCommand struct {
	Number uint8
	Type   model.TrackType
}

// IndexCommand is INDEX <number> <mm:ss:ff>.
type IndexCommand struct {
	Number uint8
	Time   model.Index
}

// PregapCommand is PREGAP <mm:ss:ff>.
type PregapCommand struct{ Length model.Index }

// PostgapCommand is POSTGAP <mm:ss:ff>.
type PostgapCommand struct{ Length model.Index }

// FlagsCommand is FLAGS <flag>...; Unknown lists tokens that matched no flag.
type FlagsCommand struct {
	Flags   model.Flags
	Unknown []string
}

// RemCommand is REM <key> <value...>.
type RemCommand struct {
	Key   string
	Value string
}

// MetadataCommand is a bare CD-TEXT keyword such as TITLE or PERFORMER.
type MetadataCommand struct {
	Field model.MetadataField
	Value string
}

func (CatalogCommand) keyword() string    { return "CATALOG" }
func (CDTextFileCommand) keyword() string { return "CDTEXTFILE" }
func (FileCommand) keyword() string       { return "FILE" }
func (TrackCommand) keyword() string      { return "TRACK" }
func (IndexCommand) keyword() string      { return "INDEX" }
func (PregapCommand) keyword() string     { return "PREGAP" }
func (PostgapCommand) keyword() string    { return "POSTGAP" }
func (FlagsCommand) keyword() string      { return "FLAGS" }
func (RemCommand) keyword() string        { return "REM" }
func (c MetadataCommand) keyword() string { return c.Field.String() }

// catalogLength is the number of digits in a UPC/EAN catalog number.
const catalogLength = 13

// Maximum values of TRACK and INDEX numbers.
const (
	maxTrackNumber = 99
	maxIndexNumber = 99
)

// classify turns a lexed line into a typed command.
//
// A nil command with a nil error means the line carries nothing to apply
// (a bare REM remark).
func classify(line Line) (Command, error) {
	args := line.Args

	switch line.Keyword {
	case "CATALOG":
		if len(args) != 1 {
			return nil, argCount(line, "1")
		}
		if !isCatalog(args[0].Text) {
			return nil, newError(ErrInvalidCatalog, line, "want exactly 13 digits")
		}
		return CatalogCommand{Value: args[0].Text}, nil

	case "CDTEXTFILE":
		if len(args) != 1 {
			return nil, argCount(line, "1")
		}
		return CDTextFileCommand{Path: args[0].Text}, nil

	case "FILE":
		if len(args) < 2 {
			return nil, argCount(line, "2")
		}
		last := args[len(args)-1]
		ft, ok := model.ParseFileType(last.Text)
		if !ok {
			return nil, newError(ErrInvalidFileType, line, last.Text)
		}
		return FileCommand{Name: joinTokens(args[:len(args)-1]), Type: ft}, nil

	case "TRACK":
		if len(args) != 2 {
			return nil, argCount(line, "2")
		}
		n, err := parseNumber(args[0].Text, 1, maxTrackNumber)
		if err != nil {
			return nil, newError(ErrTrackNumberOutOfRange, line, err.Error())
		}
		tt, ok := model.ParseTrackType(args[1].Text)
		if !ok {
			return nil, newError(ErrInvalidTrackType, line, args[1].Text)
		}
		return TrackCommand{Number: n, Type: tt}, nil

	case "INDEX":
		if len(args) != 2 {
			return nil, argCount(line, "2")
		}
		n, err := parseNumber(args[0].Text, 0, maxIndexNumber)
		if err != nil {
			return nil, newError(ErrIndexOutOfRange, line, err.Error())
		}
		idx, err := model.ParseIndex(args[1].Text)
		if err != nil {
			return nil, newError(ErrIndexOutOfRange, line, err.Error())
		}
		return IndexCommand{Number: n, Time: idx}, nil

	case "PREGAP", "POSTGAP":
		if len(args) != 1 {
			return nil, argCount(line, "1")
		}
		idx, err := model.ParseIndex(args[0].Text)
		if err != nil {
			return nil, newError(ErrIndexOutOfRange, line, err.Error())
		}
		if line.Keyword == "PREGAP" {
			return PregapCommand{Length: idx}, nil
		}
		return PostgapCommand{Length: idx}, nil

	case "FLAGS":
		var cmd FlagsCommand
		for _, tok := range args {
			f, ok := model.ParseFlag(tok.Text)
			if !ok {
				cmd.Unknown = append(cmd.Unknown, tok.Text)
				continue
			}
			cmd.Flags = cmd.Flags.Union(f)
		}
		return cmd, nil

	case "REM":
		if len(args) == 0 {
			return nil, nil
		}
		return RemCommand{
			Key:   strings.ToUpper(args[0].Text),
			Value: joinTokens(args[1:]),
		}, nil
	}

	if field, ok := model.LookupMetadataField(line.Keyword); ok && isBareMetadata(line.Keyword) {
		if len(args) == 0 {
			return nil, argCount(line, "at least 1")
		}
		return MetadataCommand{Field: field, Value: joinTokens(args)}, nil
	}

	return nil, newError(ErrUnknownCommand, line, "")
}

// isBareMetadata reports whether keyword may appear as a command of its own.
// Aliases such as DISCID are only accepted after REM.
func isBareMetadata(keyword string) bool {
	f, _ := model.LookupMetadataField(keyword)
	return f.String() == keyword
}

func argCount(line Line, want string) *ParseError {
	return newError(ErrArgumentCount, line, fmt.Sprintf("want %s, got %d", want, len(line.Args)))
}

// parseNumber parses a decimal TRACK or INDEX number within [lo, hi].
func parseNumber(s string, lo, hi int) (uint8, error) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("%s out of range %d-%d", s, lo, hi)
	}
	return uint8(n), nil
}

// isCatalog reports whether s is exactly 13 ASCII digits.
func isCatalog(s string) bool {
	if len(s) != catalogLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
