package cue

import (
	"fmt"

	"github.com/handiism/cuesheet/internal/model"
)

// parseState is the block the parser is currently inside.
type parseState int

const (
	stateDisc  parseState = iota // before the first FILE
	stateFile                    // after FILE, before its first TRACK
	stateTrack                   // inside a TRACK block
)

func (s parseState) String() string {
	switch s {
	case stateDisc:
		return "disc"
	case stateFile:
		return "FILE"
	default:
		return "TRACK"
	}
}

// positions maps parts of the built sheet back to source lines.
type positions struct {
	catalog int
	cdText  int
	files   []int          // line of each FILE command
	tracks  []int          // line of each TRACK command, in disc order
	indexes []trackIndexes // INDEX lines of each track, in disc order
}

// trackIndexes holds the INDEX lines of one track.
type trackIndexes struct {
	index00 Line
	index01 Line
	extra   []Line // parallel to Track.Indexes
}

// builder owns the sheet while it is being parsed. A builder is used for a
// single Parse call and never shared.
type builder struct {
	opts  Options
	state parseState
	sheet model.CueSheet
	pos   positions

	lastTrack  int  // number of the previous TRACK, 0 before the first
	hasIndex01 bool // INDEX 01 seen in the open track

	warnings []Warning
}

func newBuilder(opts Options) *builder {
	return &builder{opts: opts}
}

// file returns the open FILE entry.
func (b *builder) file() *model.FileEntry {
	return &b.sheet.Files[len(b.sheet.Files)-1]
}

// track returns the open TRACK.
func (b *builder) track() *model.Track {
	f := b.file()
	return &f.Tracks[len(f.Tracks)-1]
}

// apply folds one command into the sheet.
func (b *builder) apply(line Line, cmd Command) error {
	switch c := cmd.(type) {
	case CatalogCommand:
		if b.state != stateDisc {
			return b.outOfContext(line)
		}
		if b.sheet.HasCatalog() {
			return newError(ErrDuplicateCommand, line, "CATALOG already set")
		}
		b.sheet.Catalog = c.Value
		b.pos.catalog = line.Number

	case CDTextFileCommand:
		if b.state != stateDisc && !b.opts.AllowFileScopedCDTextFile {
			return b.outOfContext(line)
		}
		if b.pos.cdText != 0 {
			return newError(ErrDuplicateCommand, line, "CDTEXTFILE already set")
		}
		b.sheet.CDTextFile = c.Path
		b.pos.cdText = line.Number

	case MetadataCommand:
		m, err := b.metadata(line)
		if err != nil {
			return err
		}
		m.Set(c.Field, c.Value)

	case RemCommand:
		m, err := b.metadata(line)
		if err != nil {
			return err
		}
		if f, ok := model.LookupMetadataField(c.Key); ok {
			m.Set(f, c.Value)
		} else {
			m.SetRem(c.Key, c.Value)
		}

	case FileCommand:
		if err := b.closeBlock(); err != nil {
			return err
		}
		b.sheet.Files = append(b.sheet.Files, model.FileEntry{Name: c.Name, Type: c.Type})
		b.pos.files = append(b.pos.files, line.Number)
		b.state = stateFile

	case TrackCommand:
		if b.state == stateDisc {
			return b.outOfContext(line)
		}
		if err := b.closeTrack(); err != nil {
			return err
		}
		want := b.lastTrack + 1
		if b.lastTrack == 0 {
			want = b.opts.firstTrack()
		}
		if int(c.Number) != want {
			return newError(ErrTrackNumberSequence, line, fmt.Sprintf("want track %02d", want))
		}
		f := b.file()
		f.Tracks = append(f.Tracks, model.Track{Number: c.Number, Type: c.Type})
		b.pos.tracks = append(b.pos.tracks, line.Number)
		b.pos.indexes = append(b.pos.indexes, trackIndexes{})
		b.lastTrack = int(c.Number)
		b.hasIndex01 = false
		b.state = stateTrack

	case IndexCommand:
		if b.state != stateTrack {
			return b.outOfContext(line)
		}
		return b.applyIndex(line, c)

	case PregapCommand:
		if b.state != stateTrack {
			return b.outOfContext(line)
		}
		t := b.track()
		if t.Pregap != nil {
			return newError(ErrDuplicateCommand, line, "pregap already set by "+t.PregapSource.String())
		}
		length := c.Length
		t.Pregap = &length
		t.PregapSource = model.PregapCommand

	case PostgapCommand:
		if b.state != stateTrack {
			return b.outOfContext(line)
		}
		t := b.track()
		if t.Postgap != nil {
			return newError(ErrDuplicateCommand, line, "POSTGAP already set")
		}
		length := c.Length
		t.Postgap = &length

	case FlagsCommand:
		if b.state != stateTrack {
			return b.outOfContext(line)
		}
		t := b.track()
		t.Flags = t.Flags.Union(c.Flags)
		for _, tok := range c.Unknown {
			b.warnings = append(b.warnings, Warning{
				Line:    line.Number,
				Text:    tok,
				Message: "unknown flag ignored",
			})
		}
	}

	return nil
}

// applyIndex handles INDEX inside a track.
func (b *builder) applyIndex(line Line, c IndexCommand) error {
	t := b.track()
	at := &b.pos.indexes[len(b.pos.indexes)-1]

	switch {
	case c.Number == 0:
		if t.Pregap != nil {
			if t.PregapSource == model.PregapIndex00 {
				return newError(ErrDuplicateIndex, line, "INDEX 00 already set")
			}
			return newError(ErrDuplicateCommand, line, "pregap already set by PREGAP")
		}
		pregap := c.Time
		t.Pregap = &pregap
		t.PregapSource = model.PregapIndex00
		at.index00 = line

	case c.Number == 1:
		if b.hasIndex01 {
			return newError(ErrDuplicateIndex, line, "INDEX 01 already set")
		}
		t.Index01 = c.Time
		b.hasIndex01 = true
		at.index01 = line

	default:
		if n := len(t.Indexes); n > 0 {
			last := t.Indexes[n-1].Number
			if c.Number == last {
				return newError(ErrDuplicateIndex, line, fmt.Sprintf("INDEX %02d already set", c.Number))
			}
			if c.Number < last {
				return newError(ErrIndexSequence, line, fmt.Sprintf("INDEX %02d after INDEX %02d", c.Number, last))
			}
		}
		t.Indexes = append(t.Indexes, model.IndexEntry{Number: c.Number, Time: c.Time})
		at.extra = append(at.extra, line)
	}

	return nil
}

// metadata returns the metadata of the active scope.
func (b *builder) metadata(line Line) (*model.Metadata, error) {
	switch b.state {
	case stateDisc:
		return &b.sheet.Metadata, nil
	case stateTrack:
		return &b.track().Metadata, nil
	default:
		return nil, b.outOfContext(line)
	}
}

// closeTrack finalizes the open track, if any.
func (b *builder) closeTrack() error {
	if b.state != stateTrack {
		return nil
	}
	if !b.hasIndex01 {
		t := b.track()
		return &ParseError{
			Line:    b.pos.tracks[len(b.pos.tracks)-1],
			Keyword: "TRACK",
			Track:   int(t.Number),
			Err:     ErrMissingIndex01,
		}
	}
	b.state = stateFile
	return nil
}

// closeBlock finalizes the open track and checks the open file has tracks.
func (b *builder) closeBlock() error {
	if err := b.closeTrack(); err != nil {
		return err
	}
	if b.state == stateFile && len(b.file().Tracks) == 0 {
		return &ParseError{
			Line:    b.pos.files[len(b.pos.files)-1],
			Keyword: "FILE",
			Text:    b.file().Name,
			Err:     ErrFileWithNoTracks,
		}
	}
	return nil
}

// finish closes all open blocks and returns the completed sheet.
func (b *builder) finish() (*model.CueSheet, error) {
	if err := b.closeBlock(); err != nil {
		return nil, err
	}
	if len(b.sheet.Files) == 0 {
		return nil, &ParseError{Err: ErrEmptyCueSheet}
	}
	sheet := b.sheet
	return &sheet, nil
}

func (b *builder) outOfContext(line Line) *ParseError {
	return newError(ErrCommandOutOfContext, line, fmt.Sprintf("%s not allowed in %s block", line.Keyword, b.state))
}
