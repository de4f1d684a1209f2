package cue

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. A *ParseError wraps exactly one of these; match them with
// errors.Is.
var (
	ErrLexical               = errors.New("lexical error")
	ErrUnknownCommand        = errors.New("unknown command")
	ErrCommandOutOfContext   = errors.New("command out of context")
	ErrArgumentCount         = errors.New("wrong number of arguments")
	ErrInvalidFileType       = errors.New("invalid file type")
	ErrInvalidTrackType      = errors.New("invalid track type")
	ErrTrackNumberOutOfRange = errors.New("track number out of range")
	ErrTrackNumberSequence   = errors.New("track number out of sequence")
	ErrIndexOutOfRange       = errors.New("index out of range")
	ErrIndexSequence         = errors.New("index out of sequence")
	ErrDuplicateIndex        = errors.New("duplicate index")
	ErrDuplicateCommand      = errors.New("duplicate command")
	ErrMissingIndex01        = errors.New("missing INDEX 01")
	ErrEmptyCueSheet         = errors.New("cue sheet has no FILE")
	ErrFileWithNoTracks      = errors.New("FILE has no TRACK")
	ErrInvalidCatalog        = errors.New("invalid catalog number")
	ErrInvalidCDTextFile     = errors.New("invalid CDTEXTFILE path")
)

// ParseError is a fatal parse or validation failure.
//
// Line is the 1-based source line, or 0 when the error is not tied to one
// line (for example an empty sheet, or Validate run on a built value).
// Track is the track number the error concerns, or 0.
type ParseError struct {
	Line    int
	Keyword string
	Text    string
	Track   int
	Detail  string
	Err     error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	b.WriteString(e.Err.Error())
	if e.Track > 0 {
		fmt.Fprintf(&b, " (track %02d)", e.Track)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Text != "" {
		fmt.Fprintf(&b, ": %q", e.Text)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Warning is a recoverable anomaly. Parsing continued past it.
type Warning struct {
	Line    int
	Text    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s: %q", w.Line, w.Message, w.Text)
}

// newError builds a *ParseError for the given source line.
func newError(kind error, line Line, detail string) *ParseError {
	return &ParseError{
		Line:    line.Number,
		Keyword: line.Keyword,
		Text:    line.Raw,
		Detail:  detail,
		Err:     kind,
	}
}
