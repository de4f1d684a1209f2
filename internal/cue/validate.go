package cue

import (
	"fmt"
	"slices"
	"strings"

	"github.com/handiism/cuesheet/internal/model"
)

// Validate checks the cross-command invariants of a built sheet:
//   - CATALOG is 13 digits and CDTEXTFILE is not blank
//   - there is at least one FILE and every FILE has a TRACK
//   - track numbers are contiguous from the first track number
//   - additional index numbers are at least 2 and strictly increasing
//   - index times do not go backwards within a track
//
// Validate does not modify the sheet. It returns the first violation in
// source order as a *ParseError, or nil.
func Validate(sheet *model.CueSheet, opts Options) error {
	return validate(sheet, opts, nil)
}

// validate is Validate with an optional source position map. Without one,
// errors carry no line numbers and structural order stands in for source order.
func validate(sheet *model.CueSheet, opts Options, pos *positions) error {
	v := validator{pos: pos}

	if sheet.HasCatalog() && !isCatalog(sheet.Catalog) {
		v.report(v.catalogLine(), 0, ErrInvalidCatalog, sheet.Catalog)
	}
	if v.hasCDText(sheet) && strings.TrimSpace(sheet.CDTextFile) == "" {
		v.report(v.cdTextLine(), 0, ErrInvalidCDTextFile, "empty path")
	}

	if len(sheet.Files) == 0 {
		v.report(0, 0, ErrEmptyCueSheet, "")
	}

	want := opts.firstTrack()
	seq := 0
	for fi := range sheet.Files {
		f := &sheet.Files[fi]
		if len(f.Tracks) == 0 {
			v.report(v.fileLine(fi), 0, ErrFileWithNoTracks, f.Name)
		}

		for ti := range f.Tracks {
			t := &f.Tracks[ti]
			if int(t.Number) != want {
				v.report(v.trackLine(seq), int(t.Number), ErrTrackNumberSequence, fmt.Sprintf("want track %02d", want))
			}
			want = int(t.Number) + 1

			v.checkIndexes(seq, t)
			seq++
		}
	}

	if len(v.errs) == 0 {
		return nil
	}
	// MinFunc keeps the first of equal lines, which is structural order.
	return slices.MinFunc(v.errs, func(a, b *ParseError) int {
		return a.Line - b.Line
	})
}

// validator collects violations together with their source lines.
type validator struct {
	pos  *positions
	errs []*ParseError
}

func (v *validator) report(line, track int, kind error, detail string) {
	v.errs = append(v.errs, &ParseError{Line: line, Track: track, Detail: detail, Err: kind})
}

// reportAt reports a violation caused by the given source line.
func (v *validator) reportAt(src Line, track int, kind error, detail string) {
	err := newError(kind, src, detail)
	err.Track = track
	v.errs = append(v.errs, err)
}

// checkIndexes checks the INDEX order of the i-th track in disc order.
func (v *validator) checkIndexes(i int, t *model.Track) {
	lines := v.indexLines(i)
	track := int(t.Number)

	if t.PregapSource == model.PregapIndex00 && t.Pregap != nil && t.Index01.Before(*t.Pregap) {
		src := lines.index01
		if lines.index00.Number > src.Number {
			src = lines.index00
		}
		v.reportAt(src, track, ErrIndexSequence, "INDEX 00 after INDEX 01")
	}

	prev := 1
	at := t.Index01
	for j, ix := range t.Indexes {
		var src Line
		if j < len(lines.extra) {
			src = lines.extra[j]
		}
		if int(ix.Number) <= prev {
			v.reportAt(src, track, ErrIndexSequence, fmt.Sprintf("INDEX %02d after INDEX %02d", ix.Number, prev))
		}
		if ix.Time.Before(at) {
			v.reportAt(src, track, ErrIndexSequence, fmt.Sprintf("INDEX %02d at %s is before %s", ix.Number, ix.Time, at))
		}
		prev = int(ix.Number)
		at = ix.Time
	}
}

// indexLines returns the INDEX lines of the i-th track. Without positions
// all lines are zero.
func (v *validator) indexLines(i int) trackIndexes {
	if v.pos == nil || i >= len(v.pos.indexes) {
		return trackIndexes{}
	}
	return v.pos.indexes[i]
}

// hasCDText reports whether CDTEXTFILE was given. Without positions an
// empty path cannot be told apart from an absent one.
func (v *validator) hasCDText(sheet *model.CueSheet) bool {
	if v.pos != nil && v.pos.cdText != 0 {
		return true
	}
	return sheet.CDTextFile != ""
}

func (v *validator) catalogLine() int {
	if v.pos == nil {
		return 0
	}
	return v.pos.catalog
}

func (v *validator) cdTextLine() int {
	if v.pos == nil {
		return 0
	}
	return v.pos.cdText
}

func (v *validator) fileLine(i int) int {
	if v.pos == nil || i >= len(v.pos.files) {
		return 0
	}
	return v.pos.files[i]
}

func (v *validator) trackLine(i int) int {
	if v.pos == nil || i >= len(v.pos.tracks) {
		return 0
	}
	return v.pos.tracks[i]
}
