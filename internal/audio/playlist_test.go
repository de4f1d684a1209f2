package audio

import (
	"strings"
	"testing"

	"github.com/handiism/cuesheet/internal/model"
)

func TestPlaylistCreator_M3U(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, false)

	content := creator.CreatePlaylist(createTestSheet())

	want := "Live.wav\nBonus.mp3\n"
	if content != want {
		t.Errorf("M3U = %q, want %q", content, want)
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, true)

	content := creator.CreatePlaylist(createTestSheet())

	want := strings.Join([]string{
		"#EXTM3U",
		"#EXTINF:180,The Band - Opening",
		"#EXTVLCOPT:start-time=0",
		"#EXTVLCOPT:stop-time=180",
		"Live.wav",
		"#EXTINF:-1,Guest - Second",
		"#EXTVLCOPT:start-time=180",
		"Live.wav",
		"#EXTINF:-1,The Band - Track 03",
		"Bonus.mp3",
		"",
	}, "\n")
	if content != want {
		t.Errorf("extended M3U mismatch\n got: %q\nwant: %q", content, want)
	}
}

func TestPlaylistCreator_SkipsDataTracks(t *testing.T) {
	sheet := &model.CueSheet{
		Files: []model.FileEntry{{
			Name: "disc.bin",
			Type: model.FileBinary,
			Tracks: []model.Track{
				{Number: 1, Type: model.TrackMode1_2352},
				{Number: 2, Type: model.TrackAudio, Index01: model.Index{Minute: 1}},
				{Number: 3, Type: model.TrackAudio, Index01: model.Index{Minute: 4}},
			},
		}},
	}

	content := NewPlaylistCreator(FormatM3U, true).CreatePlaylist(sheet)

	if strings.Contains(content, "Track 01") {
		t.Errorf("playlist should skip the data track:\n%s", content)
	}
	for _, want := range []string{"#EXTINF:180,Track 02", "#EXTVLCOPT:start-time=60", "#EXTINF:-1,Track 03"} {
		if !strings.Contains(content, want) {
			t.Errorf("playlist should contain %q:\n%s", want, content)
		}
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	creator := NewPlaylistCreator(FormatPLS, false)

	content := creator.CreatePlaylist(createTestSheet())

	if !strings.HasPrefix(content, "[playlist]") {
		t.Error("PLS should start with [playlist]")
	}
	for _, want := range []string{"File1=Live.wav", "Length1=180", "Length2=-1", "File3=Bonus.mp3", "NumberOfEntries=3"} {
		if !strings.Contains(content, want) {
			t.Errorf("PLS should contain %q", want)
		}
	}
}

func TestPlaylistCreator_WPL(t *testing.T) {
	creator := NewPlaylistCreator(FormatWPL, false)

	content := creator.CreatePlaylist(createTestSheet())

	if !strings.Contains(content, "<?wpl") {
		t.Error("WPL should contain XML declaration")
	}
	if !strings.Contains(content, "<title>Live at Home</title>") {
		t.Error("WPL should contain the disc title")
	}
	if strings.Count(content, "<media src=") != 3 {
		t.Error("WPL should contain one media element per track")
	}
}

func TestPlaylistCreator_ZPL(t *testing.T) {
	creator := NewPlaylistCreator(FormatZPL, false)

	content := creator.CreatePlaylist(createTestSheet())

	if !strings.Contains(content, "<?zpl") {
		t.Error("ZPL should contain XML declaration")
	}
	if !strings.Contains(content, `duration="180000"`) {
		t.Error("ZPL should carry the known duration in milliseconds")
	}
	if strings.Count(content, "duration=") != 1 {
		t.Error("ZPL should omit unknown durations")
	}
}

func TestPlaylistCreator_XMLEscape(t *testing.T) {
	sheet := &model.CueSheet{
		Metadata: model.Metadata{Title: "Album <Special>", Performer: "Artist & Co"},
		Files: []model.FileEntry{{
			Name:   `Track & "Quote".mp3`,
			Type:   model.FileMP3,
			Tracks: []model.Track{{Number: 1, Type: model.TrackAudio}},
		}},
	}

	content := NewPlaylistCreator(FormatWPL, false).CreatePlaylist(sheet)

	if !strings.Contains(content, "Track &amp; &quot;Quote&quot;.mp3") {
		t.Error("WPL should escape & and quotes")
	}
	if strings.Contains(content, "<Special>") {
		t.Error("WPL should escape < and >")
	}
}

func TestParsePlaylistFormat(t *testing.T) {
	tests := []struct {
		input string
		want  PlaylistFormat
		ext   string
	}{
		{"m3u", FormatM3U, ".m3u"},
		{"PLS", FormatPLS, ".pls"},
		{"Wpl", FormatWPL, ".wpl"},
		{"zpl", FormatZPL, ".zpl"},
	}

	for _, tt := range tests {
		got, err := ParsePlaylistFormat(tt.input)
		if err != nil {
			t.Fatalf("ParsePlaylistFormat(%q) error = %v", tt.input, err)
		}
		if got != tt.want || got.Extension() != tt.ext {
			t.Errorf("ParsePlaylistFormat(%q) = %v (%s), want %v (%s)", tt.input, got, got.Extension(), tt.want, tt.ext)
		}
	}

	if _, err := ParsePlaylistFormat("xspf"); err == nil {
		t.Error("ParsePlaylistFormat(xspf) should fail")
	}
}

func createTestSheet() *model.CueSheet {
	return &model.CueSheet{
		Metadata: model.Metadata{Title: "Live at Home", Performer: "The Band"},
		Files: []model.FileEntry{
			{
				Name: "Live.wav",
				Type: model.FileWave,
				Tracks: []model.Track{
					{Number: 1, Type: model.TrackAudio, Metadata: model.Metadata{Title: "Opening"}},
					{
						Number:   2,
						Type:     model.TrackAudio,
						Index01:  model.Index{Minute: 3},
						Metadata: model.Metadata{Title: "Second", Performer: "Guest"},
					},
				},
			},
			{
				Name:   "Bonus.mp3",
				Type:   model.FileMP3,
				Tracks: []model.Track{{Number: 3, Type: model.TrackAudio}},
			},
		},
	}
}
