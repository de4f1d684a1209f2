package cue

import (
	"github.com/handiism/cuesheet/internal/model"
)

// Options selects the CUE dialect accepted by a Parser.
//
// The zero value is the default dialect: numbering starts at track 1,
// backslashes inside quotes are literal, and CDTEXTFILE must appear before
// the first FILE.
type Options struct {
	// FirstTrackNumber is the number the first TRACK must carry.
	// Zero means 1.
	FirstTrackNumber uint8

	// QuoteEscapes makes backslash escape the next character inside
	// double quotes, so names can contain \".
	QuoteEscapes bool

	// AllowFileScopedCDTextFile accepts CDTEXTFILE after the first FILE.
	AllowFileScopedCDTextFile bool
}

func (o Options) firstTrack() int {
	if o.FirstTrackNumber == 0 {
		return 1
	}
	return int(o.FirstTrackNumber)
}

// Parser turns CUE sheet text into a validated model.CueSheet.
//
// A Parser holds only its options, so one value may be used from several
// goroutines at once.
//
// Example:
//
//	p := cue.NewParser(cue.Options{QuoteEscapes: true})
//	sheet, warnings, err := p.Parse(text)
//	if err != nil {
//	    var perr *cue.ParseError
//	    if errors.As(err, &perr) {
//	        fmt.Printf("line %d: %v\n", perr.Line, perr.Err)
//	    }
//	    return err
//	}
//	for _, w := range warnings {
//	    log.Println(w)
//	}
type Parser struct {
	opts Options
}

// NewParser creates a Parser for the given dialect options.
func NewParser(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Parse parses the full text of a CUE sheet.
//
// The text must already be decoded to UTF-8. Parsing stops at the first
// fatal error, which is always a *ParseError wrapping one of the Err*
// kinds; no partial sheet is returned. Unknown FLAGS tokens do not stop
// parsing and are reported as warnings instead.
func (p *Parser) Parse(text string) (*model.CueSheet, []Warning, error) {
	b := newBuilder(p.opts)

	for line, err := range Lex(text, p.opts) {
		if err != nil {
			return nil, nil, err
		}

		cmd, err := classify(line)
		if err != nil {
			return nil, nil, err
		}
		if cmd == nil {
			continue
		}

		if err := b.apply(line, cmd); err != nil {
			return nil, nil, err
		}
	}

	sheet, err := b.finish()
	if err != nil {
		return nil, nil, err
	}

	if err := validate(sheet, p.opts, &b.pos); err != nil {
		return nil, nil, err
	}

	return sheet, b.warnings, nil
}

// Parse parses text with the default dialect.
func Parse(text string) (*model.CueSheet, []Warning, error) {
	return NewParser(Options{}).Parse(text)
}
