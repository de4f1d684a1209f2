package cue

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/cuesheet/internal/model"
)

const albumSheet = `REM GENRE "Progressive Rock"
REM DATE 1973
REM DISCID 860B640B
REM COMMENT "ExactAudioCopy v0.99pb4"
CATALOG 0724383536422
PERFORMER "The Band"
TITLE "Live Album"
FILE "Live Album.wav" WAVE
  TRACK 01 AUDIO
    TITLE "Opening"
    PERFORMER "The Band"
    ISRC GBAYE0000001
    FLAGS DCP
    INDEX 01 00:00:00
  TRACK 02 AUDIO
    TITLE "Second"
    REM COMPOSER "Someone Else"
    INDEX 00 04:10:50
    INDEX 01 04:12:00
    INDEX 02 05:00:00
    POSTGAP 00:02:00
FILE "Bonus.mp3" MP3
  TRACK 03 AUDIO
    TITLE "Bonus"
    PREGAP 00:01:00
    INDEX 01 00:00:00
`

func parseOK(t *testing.T, text string) (*model.CueSheet, []Warning) {
	t.Helper()
	sheet, warnings, err := Parse(text)
	require.NoError(t, err)
	require.NotNil(t, sheet)
	return sheet, warnings
}

// requireKind asserts that err is a *ParseError of the given kind and
// returns it.
func requireKind(t *testing.T, err error, kind error) *ParseError {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, kind), "got %v, want %v", err, kind)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	return perr
}

func TestParse_Album(t *testing.T) {
	sheet, warnings := parseOK(t, albumSheet)
	assert.Empty(t, warnings)

	assert.Equal(t, "0724383536422", sheet.Catalog)
	assert.Equal(t, "Live Album", sheet.Title)
	assert.Equal(t, "The Band", sheet.Performer)
	assert.Equal(t, "Progressive Rock", sheet.Genre)
	assert.Equal(t, "860B640B", sheet.DiscID)
	assert.Equal(t, map[string]string{"DATE": "1973", "COMMENT": "ExactAudioCopy v0.99pb4"}, sheet.OtherRem)

	require.Len(t, sheet.Files, 2)
	assert.Equal(t, "Live Album.wav", sheet.Files[0].Name)
	assert.Equal(t, model.FileWave, sheet.Files[0].Type)
	assert.Equal(t, "Bonus.mp3", sheet.Files[1].Name)
	assert.Equal(t, model.FileMP3, sheet.Files[1].Type)

	first := sheet.Files[0].Tracks[0]
	assert.Equal(t, "Opening", first.Title)
	assert.Equal(t, "GBAYE0000001", first.ISRC)
	assert.Equal(t, model.FlagDCP, first.Flags)
	assert.False(t, first.HasPregap())

	second := sheet.Files[0].Tracks[1]
	assert.Equal(t, "Someone Else", second.Composer)
	require.NotNil(t, second.Pregap)
	assert.Equal(t, model.PregapIndex00, second.PregapSource)
	assert.Equal(t, model.Index{Minute: 4, Second: 10, Frame: 50}, *second.Pregap)
	assert.Equal(t, model.Index{Minute: 4, Second: 12}, second.Index01)
	assert.Equal(t, []model.IndexEntry{{Number: 2, Time: model.Index{Minute: 5}}}, second.Indexes)
	require.NotNil(t, second.Postgap)
	assert.Equal(t, model.Index{Second: 2}, *second.Postgap)

	third := sheet.Files[1].Tracks[0]
	assert.Equal(t, uint8(3), third.Number)
	assert.Equal(t, model.PregapCommand, third.PregapSource)
	assert.Equal(t, model.Index{Second: 1}, *third.Pregap)
}

func TestParse_Deterministic(t *testing.T) {
	a, wa, err := Parse(albumSheet)
	require.NoError(t, err)
	b, wb, err := Parse(albumSheet)
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Parse() differs between runs (-first +second):\n%s", diff)
	}
	assert.Equal(t, wa, wb)
}

func TestParse_TracksNumberedAcrossFiles(t *testing.T) {
	sheet, _ := parseOK(t, albumSheet)

	want := uint8(1)
	for tr := range sheet.Tracks() {
		assert.Equal(t, want, tr.Number)
		want++
	}
	assert.Equal(t, 3, sheet.TrackCount())
}

func TestParse_TwoTrackScenario(t *testing.T) {
	text := "FILE \"a.bin\" BINARY\n  TRACK 01 AUDIO\n    INDEX 01 00:00:00\nTRACK 02 AUDIO\n  INDEX 01 03:12:50"
	sheet, warnings := parseOK(t, text)
	assert.Empty(t, warnings)

	want := &model.CueSheet{
		Files: []model.FileEntry{{
			Name: "a.bin",
			Type: model.FileBinary,
			Tracks: []model.Track{
				{Number: 1, Type: model.TrackAudio},
				{Number: 2, Type: model.TrackAudio, Index01: model.Index{Minute: 3, Second: 12, Frame: 50}},
			},
		}},
	}
	if diff := cmp.Diff(want, sheet); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_UnknownFlagIsWarning(t *testing.T) {
	text := `FILE "a.wav" WAVE
TRACK 01 AUDIO
FLAGS PRE DCP BOGUS
INDEX 01 00:00:00
`
	sheet, warnings := parseOK(t, text)

	flags := sheet.Files[0].Tracks[0].Flags
	assert.True(t, flags.Has(model.FlagPRE))
	assert.True(t, flags.Has(model.FlagDCP))
	assert.False(t, flags.Has(model.Flag4CH))

	require.Len(t, warnings, 1)
	assert.Equal(t, 3, warnings[0].Line)
	assert.Equal(t, "BOGUS", warnings[0].Text)
	assert.Contains(t, warnings[0].String(), "BOGUS")
}

func TestParse_FlagsAccumulate(t *testing.T) {
	text := `FILE "a.wav" WAVE
TRACK 01 AUDIO
FLAGS PRE
FLAGS pre 4ch
INDEX 01 00:00:00
`
	sheet, _ := parseOK(t, text)
	assert.Equal(t, model.FlagPRE|model.Flag4CH, sheet.Files[0].Tracks[0].Flags)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		kind  error
		line  int
		track int
	}{
		{
			name: "track before file",
			text: "TRACK 01 AUDIO\n",
			kind: ErrCommandOutOfContext,
			line: 1,
		},
		{
			name: "track number gap",
			text: "FILE a.wav WAVE\nTRACK 01 AUDIO\nINDEX 01 00:00:00\nTRACK 03 AUDIO\nINDEX 01 01:00:00\n",
			kind: ErrTrackNumberSequence,
			line: 4,
		},
		{
			name: "first track not one",
			text: "FILE a.wav WAVE\nTRACK 02 AUDIO\nINDEX 01 00:00:00\n",
			kind: ErrTrackNumberSequence,
			line: 2,
		},
		{
			name:  "only index 02",
			text:  "FILE a.wav WAVE\nTRACK 01 AUDIO\nINDEX 02 00:00:00\n",
			kind:  ErrMissingIndex01,
			line:  2,
			track: 1,
		},
		{
			name:  "missing index 01 before next track",
			text:  "FILE a.wav WAVE\nTRACK 01 AUDIO\nINDEX 01 00:00:00\nTRACK 02 AUDIO\nTRACK 03 AUDIO\n",
			kind:  ErrMissingIndex01,
			line:  4,
			track: 2,
		},
		{
			name: "index 00 then pregap",
			text: "FILE a.wav WAVE\nTRACK 01 AUDIO\nINDEX 00 00:00:00\nPREGAP 00:02:00\nINDEX 01 00:02:00\n",
			kind: ErrDuplicateCommand,
			line: 4,
		},
		{
			name: "pregap then index 00",
			text: "FILE a.wav WAVE\nTRACK 01 AUDIO\nPREGAP 00:02:00\nINDEX 00 00:00:00\nINDEX 01 00:02:00\n",
			kind: ErrDuplicateCommand,
			line: 4,
		},
		{
			name: "index 01 twice",
			text: "FILE a.wav WAVE\nTRACK 01 AUDIO\nINDEX 01 00:00:00\nINDEX 01 00:01:00\n",
			kind: ErrDuplicateIndex,
			line: 4,
		},
		{
			name: "additional index decreasing",
			text: "FILE a.wav WAVE\nTRACK 01 AUDIO\nINDEX 01 00:00:00\nINDEX 03 00:01:00\nINDEX 02 00:02:00\n",
			kind: ErrIndexSequence,
			line: 5,
		},
		{
			name:  "index time goes backwards",
			text:  "FILE a.wav WAVE\nTRACK 01 AUDIO\nINDEX 01 00:05:00\nINDEX 02 00:01:00\n",
			kind:  ErrIndexSequence,
			line:  4,
			track: 1,
		},
		{
			name:  "index 00 after index 01",
			text:  "FILE a.wav WAVE\nTRACK 01 AUDIO\nINDEX 01 00:00:00\nINDEX 00 00:02:00\n",
			kind:  ErrIndexSequence,
			line:  4,
			track: 1,
		},
		{
			name:  "numbering restarts in second file",
			text:  "FILE a.wav WAVE\nTRACK 01 AUDIO\nINDEX 01 00:00:00\nFILE b.wav WAVE\nTRACK 01 AUDIO\nINDEX 01 00:00:00\n",
			kind:  ErrTrackNumberSequence,
			line:  5,
			track: 1,
		},
		{
			name: "catalog twelve digits",
			text: "CATALOG 012345678901\nFILE a.wav WAVE\nTRACK 01 AUDIO\nINDEX 01 00:00:00\n",
			kind: ErrInvalidCatalog,
			line: 1,
		},
		{
			name: "catalog twice",
			text: "CATALOG 0123456789012\nCATALOG 0123456789012\n",
			kind: ErrDuplicateCommand,
			line: 2,
		},
		{
			name: "catalog inside file",
			text: "FILE a.wav WAVE\nCATALOG 0123456789012\n",
			kind: ErrCommandOutOfContext,
			line: 2,
		},
		{
			name: "cdtextfile after file",
			text: "FILE a.wav WAVE\nCDTEXTFILE disc.cdt\nTRACK 01 AUDIO\nINDEX 01 00:00:00\n",
			kind: ErrCommandOutOfContext,
			line: 2,
		},
		{
			name: "empty cdtextfile",
			text: "CDTEXTFILE \"\"\nFILE a.wav WAVE\nTRACK 01 AUDIO\nINDEX 01 00:00:00\n",
			kind: ErrInvalidCDTextFile,
			line: 1,
		},
		{
			name: "title between file and track",
			text: "FILE a.wav WAVE\nTITLE x\nTRACK 01 AUDIO\nINDEX 01 00:00:00\n",
			kind: ErrCommandOutOfContext,
			line: 2,
		},
		{
			name: "file without tracks",
			text: "FILE a.wav WAVE\nFILE b.wav WAVE\nTRACK 01 AUDIO\nINDEX 01 00:00:00\n",
			kind: ErrFileWithNoTracks,
			line: 1,
		},
		{
			name: "last file without tracks",
			text: "FILE a.wav WAVE\nTRACK 01 AUDIO\nINDEX 01 00:00:00\nFILE b.wav WAVE\n",
			kind: ErrFileWithNoTracks,
			line: 4,
		},
		{
			name: "no file at all",
			text: "TITLE \"Nothing\"\n",
			kind: ErrEmptyCueSheet,
		},
		{
			name: "empty input",
			text: "",
			kind: ErrEmptyCueSheet,
		},
		{
			name: "index outside track",
			text: "FILE a.wav WAVE\nINDEX 01 00:00:00\n",
			kind: ErrCommandOutOfContext,
			line: 2,
		},
		{
			name: "unterminated quote",
			text: "TITLE \"open\n",
			kind: ErrLexical,
			line: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet, warnings, err := Parse(tt.text)
			assert.Nil(t, sheet)
			assert.Nil(t, warnings)

			perr := requireKind(t, err, tt.kind)
			assert.Equal(t, tt.line, perr.Line)
			if tt.track != 0 {
				assert.Equal(t, tt.track, perr.Track)
			}
		})
	}
}

func TestParse_IndexErrorNamesIndexLine(t *testing.T) {
	_, _, err := Parse("FILE a.wav WAVE\nTRACK 01 AUDIO\nINDEX 01 00:05:00\n  INDEX 02 00:01:00\n")
	perr := requireKind(t, err, ErrIndexSequence)
	assert.Equal(t, 4, perr.Line)
	assert.Equal(t, "INDEX", perr.Keyword)
	assert.Equal(t, "INDEX 02 00:01:00", perr.Text)
	assert.Equal(t, 1, perr.Track)
}

func TestParse_MissingIndex01NamesTrack(t *testing.T) {
	_, _, err := Parse("FILE a.wav WAVE\nTRACK 01 AUDIO\nINDEX 02 00:00:00\n")
	perr := requireKind(t, err, ErrMissingIndex01)
	assert.Contains(t, perr.Error(), "track 01")
}

func TestParser_Options(t *testing.T) {
	t.Run("first track number", func(t *testing.T) {
		text := "FILE a.wav WAVE\nTRACK 05 AUDIO\nINDEX 01 00:00:00\nTRACK 06 AUDIO\nINDEX 01 01:00:00\n"

		_, _, err := Parse(text)
		requireKind(t, err, ErrTrackNumberSequence)

		sheet, _, err := NewParser(Options{FirstTrackNumber: 5}).Parse(text)
		require.NoError(t, err)
		assert.Equal(t, 2, sheet.TrackCount())
	})

	t.Run("file scoped cdtextfile", func(t *testing.T) {
		text := "FILE a.wav WAVE\nCDTEXTFILE disc.cdt\nTRACK 01 AUDIO\nINDEX 01 00:00:00\n"

		sheet, _, err := NewParser(Options{AllowFileScopedCDTextFile: true}).Parse(text)
		require.NoError(t, err)
		assert.Equal(t, "disc.cdt", sheet.CDTextFile)
	})

	t.Run("quote escapes", func(t *testing.T) {
		text := "TITLE \"The \\\"Best\\\"\"\nFILE a.wav WAVE\nTRACK 01 AUDIO\nINDEX 01 00:00:00\n"

		sheet, _, err := NewParser(Options{QuoteEscapes: true}).Parse(text)
		require.NoError(t, err)
		assert.Equal(t, `The "Best"`, sheet.Title)
	})
}

func TestParse_RemAndMetadataScopes(t *testing.T) {
	text := `REM
REM DATE 2001
REM date 2002
FILE a.wav WAVE
TRACK 01 AUDIO
REM REPLAYGAIN_TRACK_GAIN -6.5 dB
SONGWRITER "Writer"
INDEX 01 00:00:00
`
	sheet, _ := parseOK(t, text)

	date, ok := sheet.Rem("DATE")
	require.True(t, ok)
	assert.Equal(t, "2002", date)

	tr := sheet.Files[0].Tracks[0]
	gain, ok := tr.Rem("REPLAYGAIN_TRACK_GAIN")
	require.True(t, ok)
	assert.Equal(t, "-6.5 dB", gain)
	assert.Equal(t, "Writer", tr.Songwriter)
	assert.Empty(t, sheet.Songwriter)
}
