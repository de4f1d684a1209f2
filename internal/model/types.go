package model

import (
	"fmt"
	"strings"
)

// TrackType is the data mode of a track.
type TrackType int

const (
	// TrackAudio is 2352-byte audio (Red Book).
	TrackAudio TrackType = iota

	// TrackCDG is Karaoke CD+G, 2448 bytes.
	TrackCDG

	// TrackMode1_2048 is CD-ROM Mode 1 data, cooked.
	TrackMode1_2048

	// TrackMode1_2352 is CD-ROM Mode 1 data, raw.
	TrackMode1_2352

	// TrackMode2_2048 is CD-ROM XA Mode 2 Form 1 data, cooked.
	TrackMode2_2048

	// TrackMode2_2324 is CD-ROM XA Mode 2 Form 2 data.
	TrackMode2_2324

	// TrackMode2_2336 is CD-ROM XA Mode 2 data.
	TrackMode2_2336

	// TrackMode2_2352 is CD-ROM XA Mode 2 data, raw.
	TrackMode2_2352

	// TrackCDI2336 is CD-I Mode 2 data.
	TrackCDI2336

	// TrackCDI2352 is CD-I Mode 2 data, raw.
	TrackCDI2352

	trackTypeCount
)

// trackTypes maps every TrackType to its keyword and sector size.
// The array length ties the table to the enum.
var trackTypes = [trackTypeCount]struct {
	name       string
	sectorSize int
}{
	TrackAudio:      {"AUDIO", 2352},
	TrackCDG:        {"CDG", 2448},
	TrackMode1_2048: {"MODE1/2048", 2048},
	TrackMode1_2352: {"MODE1/2352", 2352},
	TrackMode2_2048: {"MODE2/2048", 2048},
	TrackMode2_2324: {"MODE2/2324", 2324},
	TrackMode2_2336: {"MODE2/2336", 2336},
	TrackMode2_2352: {"MODE2/2352", 2352},
	TrackCDI2336:    {"CDI/2336", 2336},
	TrackCDI2352:    {"CDI/2352", 2352},
}

// ParseTrackType matches a TRACK mode keyword case-insensitively.
func ParseTrackType(s string) (TrackType, bool) {
	for t, tt := range trackTypes {
		if strings.EqualFold(s, tt.name) {
			return TrackType(t), true
		}
	}
	return 0, false
}

// String returns the keyword as written in a CUE sheet.
func (t TrackType) String() string {
	if t < 0 || t >= trackTypeCount {
		return fmt.Sprintf("TrackType(%d)", int(t))
	}
	return trackTypes[t].name
}

// SectorSize returns the number of bytes per sector for the mode.
func (t TrackType) SectorSize() int {
	if t < 0 || t >= trackTypeCount {
		return 0
	}
	return trackTypes[t].sectorSize
}

// IsAudio reports whether the track carries audio.
func (t TrackType) IsAudio() bool {
	return t == TrackAudio
}

// MarshalText implements encoding.TextMarshaler.
func (t TrackType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TrackType) UnmarshalText(text []byte) error {
	tt, ok := ParseTrackType(string(text))
	if !ok {
		return fmt.Errorf("unknown track type %q", text)
	}
	*t = tt
	return nil
}

// FileType is the declared type of a FILE.
type FileType int

const (
	// FileBinary is raw little-endian data.
	FileBinary FileType = iota

	// FileMotorola is raw big-endian data.
	FileMotorola

	// FileAIFF is an AIFF audio file.
	FileAIFF

	// FileWave is a RIFF WAVE audio file.
	FileWave

	// FileMP3 is an MPEG layer 3 audio file.
	FileMP3

	fileTypeCount
)

var fileTypeNames = [fileTypeCount]string{
	FileBinary:   "BINARY",
	FileMotorola: "MOTOROLA",
	FileAIFF:     "AIFF",
	FileWave:     "WAVE",
	FileMP3:      "MP3",
}

// ParseFileType matches a FILE type keyword case-insensitively.
func ParseFileType(s string) (FileType, bool) {
	for t, name := range fileTypeNames {
		if strings.EqualFold(s, name) {
			return FileType(t), true
		}
	}
	return 0, false
}

// String returns the keyword as written in a CUE sheet.
func (f FileType) String() string {
	if f < 0 || f >= fileTypeCount {
		return fmt.Sprintf("FileType(%d)", int(f))
	}
	return fileTypeNames[f]
}

// MarshalText implements encoding.TextMarshaler.
func (f FileType) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *FileType) UnmarshalText(text []byte) error {
	ft, ok := ParseFileType(string(text))
	if !ok {
		return fmt.Errorf("unknown file type %q", text)
	}
	*f = ft
	return nil
}
