package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseIndex(t *testing.T) {
	tests := []struct {
		input   string
		want    Index
		wantErr bool
	}{
		{"00:00:00", Index{}, false},
		{"03:12:50", Index{3, 12, 50}, false},
		{"99:59:74", Index{99, 59, 74}, false},
		{"1:2:3", Index{1, 2, 3}, false},
		{"00:60:00", Index{}, true},
		{"00:00:75", Index{}, true},
		{"100:00:00", Index{}, true},
		{"00:00", Index{}, true},
		{"aa:bb:cc", Index{}, true},
		{"00:-1:00", Index{}, true},
		{"", Index{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseIndex(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseIndex(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseIndex(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIndex_Frames(t *testing.T) {
	idx := Index{Minute: 3, Second: 12, Frame: 50}

	if got := idx.Frames(); got != 14450 {
		t.Errorf("Frames() = %d, want %d", got, 14450)
	}
	if got := IndexFromFrames(idx.Frames()); got != idx {
		t.Errorf("IndexFromFrames(%d) = %v, want %v", idx.Frames(), got, idx)
	}
	if got := idx.String(); got != "03:12:50" {
		t.Errorf("String() = %q, want %q", got, "03:12:50")
	}

	one := Index{Second: 1}
	if got := one.Duration(); got != time.Second {
		t.Errorf("Duration() = %v, want %v", got, time.Second)
	}
	if !one.Before(idx) || idx.Before(one) {
		t.Error("Before() ordering is wrong")
	}
}

func TestIndexFromFrames_Clamps(t *testing.T) {
	if got := IndexFromFrames(-10); got != (Index{}) {
		t.Errorf("IndexFromFrames(-10) = %v, want 00:00:00", got)
	}
	if got := IndexFromFrames(1 << 30); got != (Index{99, 59, 74}) {
		t.Errorf("IndexFromFrames(huge) = %v, want 99:59:74", got)
	}
}

func TestParseTrackType(t *testing.T) {
	tests := []struct {
		input      string
		want       TrackType
		sectorSize int
	}{
		{"AUDIO", TrackAudio, 2352},
		{"audio", TrackAudio, 2352},
		{"CDG", TrackCDG, 2448},
		{"MODE1/2048", TrackMode1_2048, 2048},
		{"MODE1/2352", TrackMode1_2352, 2352},
		{"MODE2/2048", TrackMode2_2048, 2048},
		{"MODE2/2324", TrackMode2_2324, 2324},
		{"MODE2/2336", TrackMode2_2336, 2336},
		{"mode2/2352", TrackMode2_2352, 2352},
		{"CDI/2336", TrackCDI2336, 2336},
		{"CDI/2352", TrackCDI2352, 2352},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseTrackType(tt.input)
			if !ok || got != tt.want {
				t.Fatalf("ParseTrackType(%q) = %v, %v; want %v", tt.input, got, ok, tt.want)
			}
			if got.SectorSize() != tt.sectorSize {
				t.Errorf("SectorSize() = %d, want %d", got.SectorSize(), tt.sectorSize)
			}
		})
	}

	if _, ok := ParseTrackType("MODE3/2352"); ok {
		t.Error("ParseTrackType should reject unknown modes")
	}
}

func TestParseFileType(t *testing.T) {
	for _, name := range []string{"BINARY", "MOTOROLA", "AIFF", "WAVE", "MP3", "wave"} {
		if _, ok := ParseFileType(name); !ok {
			t.Errorf("ParseFileType(%q) should succeed", name)
		}
	}
	if _, ok := ParseFileType("FLAC"); ok {
		t.Error("ParseFileType should reject FLAC")
	}
	if got := FileMP3.String(); got != "MP3" {
		t.Errorf("FileMP3.String() = %q, want %q", got, "MP3")
	}
}

func TestFlags(t *testing.T) {
	var f Flags
	if !f.IsEmpty() {
		t.Error("zero Flags should be empty")
	}

	f = f.Union(FlagDCP).Union(FlagPRE).Union(FlagDCP)
	if !f.Has(FlagPRE) || !f.Has(FlagDCP) || f.Has(FlagSCMS) {
		t.Errorf("unexpected flag set %v", f)
	}
	if got := f.String(); got != "PRE DCP" {
		t.Errorf("String() = %q, want %q", got, "PRE DCP")
	}

	fl, ok := ParseFlag("4ch")
	if !ok || fl != Flag4CH {
		t.Errorf("ParseFlag(4ch) = %v, %v", fl, ok)
	}

	var back Flags
	if err := back.UnmarshalText([]byte("SCMS PRE")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if back != FlagPRE|FlagSCMS {
		t.Errorf("UnmarshalText = %v", back)
	}
}

func TestMetadata_Fields(t *testing.T) {
	var m Metadata

	f, ok := LookupMetadataField("discid")
	if !ok || f != FieldDiscID {
		t.Fatalf("LookupMetadataField(discid) = %v, %v", f, ok)
	}
	m.Set(f, "860B640B")
	if m.DiscID != "860B640B" {
		t.Errorf("DiscID = %q", m.DiscID)
	}

	m.SetRem("date", "1999")
	m.SetRem("DATE", "2000")
	if v, _ := m.Rem("Date"); v != "2000" {
		t.Errorf("Rem(DATE) = %q, want last write", v)
	}

	if _, ok := LookupMetadataField("DATE"); ok {
		t.Error("DATE is not a typed field")
	}
}

func TestMetadata_Inherit(t *testing.T) {
	disc := Metadata{Performer: "Disc Artist", Title: "Album", Genre: "Rock"}
	disc.SetRem("DATE", "1999")

	track := Metadata{Title: "Song"}
	track.SetRem("COMMENT", "live")

	got := track.Inherit(disc)

	if got.Title != "Song" {
		t.Errorf("Title = %q, want track title", got.Title)
	}
	if got.Performer != "Disc Artist" || got.Genre != "Rock" {
		t.Errorf("inherited fields missing: %+v", got)
	}
	if got.OtherRem["DATE"] != "1999" || got.OtherRem["COMMENT"] != "live" {
		t.Errorf("OtherRem = %v", got.OtherRem)
	}
	if track.Performer != "" {
		t.Error("Inherit must not modify the receiver")
	}
}

func TestCueSheet_Tracks(t *testing.T) {
	sheet := &CueSheet{
		Files: []FileEntry{
			{Name: "a.wav", Tracks: []Track{{Number: 1}, {Number: 2}}},
			{Name: "b.wav", Tracks: []Track{{Number: 3}}},
		},
	}

	var numbers []uint8
	for tr := range sheet.Tracks() {
		numbers = append(numbers, tr.Number)
	}

	if len(numbers) != 3 || numbers[0] != 1 || numbers[2] != 3 {
		t.Errorf("Tracks() yielded %v", numbers)
	}
	if sheet.TrackCount() != 3 {
		t.Errorf("TrackCount() = %d, want 3", sheet.TrackCount())
	}
}

func TestCueSheet_JSON(t *testing.T) {
	sheet := CueSheet{
		Files: []FileEntry{{
			Name: "a.bin",
			Type: FileBinary,
			Tracks: []Track{{
				Number:  1,
				Type:    TrackMode1_2352,
				Index01: Index{0, 2, 0},
				Flags:   FlagDCP,
			}},
		}},
	}

	data, err := json.Marshal(sheet)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	s := string(data)
	for _, want := range []string{`"type":"BINARY"`, `"type":"MODE1/2352"`, `"index_01":"00:02:00"`, `"flags":"DCP"`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s should contain %s", s, want)
		}
	}
}


func TestPregapSource_Text(t *testing.T) {
	for _, src := range []PregapSource{PregapNone, PregapCommand, PregapIndex00} {
		text, err := src.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", src, err)
		}
		var back PregapSource
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != src {
			t.Errorf("UnmarshalText(%q) = %d, want %d", text, back, src)
		}
	}

	var p PregapSource
	if err := p.UnmarshalText([]byte("POSTGAP")); err == nil {
		t.Error("UnmarshalText(POSTGAP) should fail")
	}
}

func TestTrack_JSONPregapSource(t *testing.T) {
	pregap := Index{Second: 2}
	tests := []struct {
		name  string
		track Track
		want  string
		omit  bool
	}{
		{name: "command", track: Track{Number: 1, Pregap: &pregap, PregapSource: PregapCommand}, want: `"pregap_source":"PREGAP"`},
		{name: "index 00", track: Track{Number: 1, Pregap: &pregap, PregapSource: PregapIndex00}, want: `"pregap_source":"INDEX 00"`},
		{name: "none", track: Track{Number: 1}, omit: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.track)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			s := string(data)
			if tt.omit {
				if strings.Contains(s, "pregap_source") {
					t.Errorf("JSON %s should omit pregap_source", s)
				}
				return
			}
			if !strings.Contains(s, tt.want) {
				t.Errorf("JSON %s should contain %s", s, tt.want)
			}

			var back Track
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if back.PregapSource != tt.track.PregapSource {
				t.Errorf("PregapSource = %v, want %v", back.PregapSource, tt.track.PregapSource)
			}
		})
	}
}

func TestMetadata_Promoted(t *testing.T) {
	sheet := CueSheet{
		Metadata: Metadata{Title: "Disc"},
		Files: []FileEntry{{
			Name:   "a.wav",
			Type:   FileWave,
			Tracks: []Track{{Number: 1, Metadata: Metadata{ISRC: "USRC17607839"}}},
		}},
	}
	sheet.Performer = "Band"

	track := sheet.Files[0].Tracks[0]
	if sheet.Title != "Disc" || sheet.Metadata.Performer != "Band" {
		t.Errorf("sheet metadata = %+v", sheet.Metadata)
	}
	if track.ISRC != "USRC17607839" {
		t.Errorf("track ISRC = %q", track.ISRC)
	}

	data, err := json.Marshal(sheet)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"metadata":{`, `"title":"Disc"`, `"isrc":"USRC17607839"`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s should contain %s", s, want)
		}
	}
}
