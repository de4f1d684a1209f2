package audio

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/handiism/cuesheet/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
//
// Each format has different features and compatibility:
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp
//   - WPL: XML format, Windows Media Player
//   - ZPL: XML format, Zune/Groove Music
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Extended M3U carries durations and VLC start/stop offsets.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS

	// FormatWPL creates .wpl files (Windows Media Player).
	FormatWPL

	// FormatZPL creates .zpl files (Zune/Groove Music).
	FormatZPL
)

var playlistFormatNames = [...]string{
	FormatM3U: "m3u",
	FormatPLS: "pls",
	FormatWPL: "wpl",
	FormatZPL: "zpl",
}

// ParsePlaylistFormat matches a format name ("m3u", "PLS", ...) case-insensitively.
func ParsePlaylistFormat(s string) (PlaylistFormat, error) {
	for f, name := range playlistFormatNames {
		if strings.EqualFold(s, name) {
			return PlaylistFormat(f), nil
		}
	}
	return FormatM3U, fmt.Errorf("unknown playlist format %q", s)
}

// String returns the lowercase format name.
func (f PlaylistFormat) String() string {
	if f < 0 || int(f) >= len(playlistFormatNames) {
		return "unknown"
	}
	return playlistFormatNames[f]
}

// Extension returns the file extension for the format, including the dot.
func (f PlaylistFormat) Extension() string {
	return "." + f.String()
}

// PlaylistCreator generates playlist files for a cue sheet.
//
// Every TRACK becomes one playlist entry pointing at the FILE it starts in.
// Track durations are taken from the distance between consecutive INDEX 01
// positions in the same file; the last track of a file has no known
// duration because the audio itself is never read.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist(sheet)
//	os.WriteFile("Album.m3u", []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:245,The Band - Opening
//	// #EXTVLCOPT:start-time=0
//	// #EXTVLCOPT:stop-time=245.16
//	// Album.flac
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF and EXTVLCOPT lines
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// Parameters:
//   - format: The playlist format to generate
//   - extended: For M3U format, whether to include #EXTINF lines
//     (ignored for other formats)
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Format returns the format the creator writes.
func (p *PlaylistCreator) Format() PlaylistFormat {
	return p.format
}

// playlistEntry is one track as it appears in a playlist.
type playlistEntry struct {
	path      string
	title     string
	performer string
	start     time.Duration
	stop      time.Duration // zero when unknown
	shared    bool          // the file holds more than one track
}

// duration returns the entry length, or -1 when unknown.
func (e playlistEntry) duration() time.Duration {
	if e.stop == 0 {
		return -1
	}
	return e.stop - e.start
}

// seconds returns the entry length in whole seconds, or -1 when unknown.
func (e playlistEntry) seconds() int {
	d := e.duration()
	if d < 0 {
		return -1
	}
	return int(math.Round(d.Seconds()))
}

func (e playlistEntry) label() string {
	if e.performer == "" {
		return e.title
	}
	return e.performer + " - " + e.title
}

// entries flattens the audio tracks of the sheet into playlist entries in
// disc order.
func entries(sheet *model.CueSheet) []playlistEntry {
	var out []playlistEntry
	for _, f := range sheet.Files {
		for i, t := range f.Tracks {
			if !t.Type.IsAudio() {
				continue
			}
			md := t.Metadata.Inherit(sheet.Metadata)
			e := playlistEntry{
				path:      f.Name,
				title:     md.Title,
				performer: md.Performer,
				start:     t.Index01.Duration(),
				shared:    len(f.Tracks) > 1,
			}
			if t.Metadata.Title == "" {
				e.title = fmt.Sprintf("Track %02d", t.Number)
			}
			if i+1 < len(f.Tracks) {
				e.stop = f.Tracks[i+1].Index01.Duration()
			}
			out = append(out, e)
		}
	}
	return out
}

// CreatePlaylist generates playlist content for a cue sheet.
//
// Returns the playlist as a string, ready to be written to a file. Paths
// are the FILE names exactly as written in the sheet, so the playlist
// belongs in the same directory as the sheet.
func (p *PlaylistCreator) CreatePlaylist(sheet *model.CueSheet) string {
	list := entries(sheet)

	switch p.format {
	case FormatPLS:
		return p.createPLS(list)
	case FormatWPL:
		return p.createWPL(sheet, list)
	case FormatZPL:
		return p.createZPL(sheet, list)
	default:
		return p.createM3U(list)
	}
}

// createM3U generates an M3U playlist.
//
// Plain M3U lists every FILE once. Extended M3U lists every track; tracks
// that share a file get VLC start and stop offsets:
//
//	#EXTM3U
//	#EXTINF:180,Artist - Title
//	#EXTVLCOPT:start-time=0
//	#EXTVLCOPT:stop-time=180
//	album.wav
func (p *PlaylistCreator) createM3U(list []playlistEntry) string {
	var sb strings.Builder

	if !p.extended {
		last := ""
		for _, e := range list {
			if e.path != last {
				sb.WriteString(e.path + "\n")
				last = e.path
			}
		}
		return sb.String()
	}

	sb.WriteString("#EXTM3U\n")
	for _, e := range list {
		fmt.Fprintf(&sb, "#EXTINF:%d,%s\n", e.seconds(), e.label())
		if e.shared {
			fmt.Fprintf(&sb, "#EXTVLCOPT:start-time=%s\n", formatSeconds(e.start))
			if e.stop > 0 {
				fmt.Fprintf(&sb, "#EXTVLCOPT:stop-time=%s\n", formatSeconds(e.stop))
			}
		}
		sb.WriteString(e.path + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
//	[playlist]
//	File1=album.wav
//	Title1=Artist - Song Title
//	Length1=180
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(list []playlistEntry) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")
	for i, e := range list {
		idx := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", idx, e.path)
		fmt.Fprintf(&sb, "Title%d=%s\n", idx, e.label())
		fmt.Fprintf(&sb, "Length%d=%d\n", idx, e.seconds())
	}
	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(list))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// createWPL generates a Windows Media Player playlist.
func (p *PlaylistCreator) createWPL(sheet *model.CueSheet, list []playlistEntry) string {
	var sb strings.Builder

	sb.WriteString("<?wpl version=\"1.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(sheet.Title))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")
	for _, e := range list {
		fmt.Fprintf(&sb, "      <media src=\"%s\"/>\n", escapeXML(e.path))
	}
	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// createZPL generates a Zune/Groove Music playlist.
//
// ZPL is similar to WPL but carries album, artist and duration attributes.
// Duration is omitted for tracks whose length is unknown.
func (p *PlaylistCreator) createZPL(sheet *model.CueSheet, list []playlistEntry) string {
	var sb strings.Builder

	sb.WriteString("<?zpl version=\"2.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(sheet.Title))
	sb.WriteString("    <meta name=\"Generator\" content=\"cuesheet\"/>\n")
	fmt.Fprintf(&sb, "    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(list))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")
	for _, e := range list {
		fmt.Fprintf(&sb, "      <media src=\"%s\" albumTitle=\"%s\" albumArtist=\"%s\" trackTitle=\"%s\" trackArtist=\"%s\"",
			escapeXML(e.path),
			escapeXML(sheet.Title),
			escapeXML(sheet.Performer),
			escapeXML(e.title),
			escapeXML(e.performer))
		if d := e.duration(); d >= 0 {
			fmt.Fprintf(&sb, " duration=\"%d\"", d.Milliseconds())
		}
		sb.WriteString("/>\n")
	}
	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// formatSeconds renders d in seconds with at most millisecond precision.
func formatSeconds(d time.Duration) string {
	sec := math.Round(d.Seconds()*1000) / 1000
	return strconv.FormatFloat(sec, 'f', -1, 64)
}

// escapeXML escapes special XML characters in a string.
//
// Replaces: & < > " '
// With:     &amp; &lt; &gt; &quot; &apos;
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
