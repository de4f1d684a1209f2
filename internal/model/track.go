package model

import "fmt"

// PregapSource records where a track's pregap came from.
type PregapSource int

const (
	// PregapNone means the track has no pregap.
	PregapNone PregapSource = iota

	// PregapCommand means the pregap is a silence length given by PREGAP.
	// The silence is not present in the data file.
	PregapCommand

	// PregapIndex00 means the pregap is the INDEX 00 position in the data file.
	PregapIndex00
)

// String returns the source name used in rendered output.
func (p PregapSource) String() string {
	switch p {
	case PregapCommand:
		return "PREGAP"
	case PregapIndex00:
		return "INDEX 00"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p PregapSource) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PregapSource) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*p = PregapNone
	case "PREGAP":
		*p = PregapCommand
	case "INDEX 00":
		*p = PregapIndex00
	default:
		return fmt.Errorf("unknown pregap source %q", text)
	}
	return nil
}

// Track represents a single TRACK block.
//
// Track contains:
//   - Number, the disc-global track number (1-99)
//   - Type, the data mode which also implies a sector size
//   - Index01, the mandatory start of the playable region
//   - Indexes, additional INDEX 02-99 entries in increasing order
//   - optional Pregap/Postgap, Flags and track-scoped Metadata
//
// Example:
//
//	track := sheet.Files[0].Tracks[0]
//	start := track.Index01.Duration()
//	if track.Flags.Has(FlagPRE) {
//	    // apply de-emphasis
//	}
type Track struct {
	// Number is the disc-global track number.
	Number uint8 `json:"number" yaml:"number"`

	// Type is the track data mode (AUDIO, MODE1/2352 ...).
	Type TrackType `json:"type" yaml:"type"`

	// Pregap is the lead-in before Index01, from PREGAP or INDEX 00.
	// Nil when the track has none.
	Pregap *Index `json:"pregap,omitempty" yaml:"pregap,omitempty"`

	// PregapSource tells whether Pregap is a generated length or a file position.
	PregapSource PregapSource `json:"pregap_source,omitempty" yaml:"pregap_source,omitempty"`

	// Index01 is the start of the track's audible region.
	Index01 Index `json:"index_01" yaml:"index_01"`

	// Indexes holds INDEX 02 and above, strictly increasing by number.
	Indexes []IndexEntry `json:"additional_indexes,omitempty" yaml:"additional_indexes,omitempty"`

	// Flags holds the sub-code flags; zero means none were given.
	Flags Flags `json:"flags,omitempty" yaml:"flags,omitempty"`

	// Metadata holds track-scoped descriptive fields.
	Metadata `json:"metadata" yaml:"metadata"`

	// Postgap is the silence length after the track (POSTGAP), or nil.
	Postgap *Index `json:"postgap,omitempty" yaml:"postgap,omitempty"`
}

// IndexEntry is a numbered INDEX position within a track.
type IndexEntry struct {
	Number uint8 `json:"number" yaml:"number"`
	Time   Index `json:"time" yaml:"time"`
}

// HasPregap reports whether the track has a pregap.
func (t *Track) HasPregap() bool {
	return t.Pregap != nil
}

// SectorSize returns the sector size implied by the track type.
func (t *Track) SectorSize() int {
	return t.Type.SectorSize()
}
