package model

import "iter"

// CueSheet is the disc-level root of a parsed CUE sheet.
//
// A CueSheet returned by the parser is complete and validated:
//   - Files is non-empty and every FileEntry holds at least one Track
//   - Track numbers run contiguously across all files (numbering is
//     disc-global, not per file)
//   - Catalog, when set, is exactly 13 ASCII digits
//
// Optional string fields use the empty string for "absent".
//
// Example:
//
//	sheet, _, err := cue.Parse(text)
//	if err != nil {
//	    return err
//	}
//	for track := range sheet.Tracks() {
//	    fmt.Printf("%02d %s %s\n", track.Number, track.Index01, track.Metadata.Title)
//	}
type CueSheet struct {
	// Metadata holds disc-wide descriptive fields (PERFORMER, TITLE, REM ...).
	Metadata `json:"metadata" yaml:"metadata"`

	// Files lists the referenced audio or data files in source order.
	Files []FileEntry `json:"files" yaml:"files"`

	// CDTextFile is the path of an external CD-TEXT binary (CDTEXTFILE).
	CDTextFile string `json:"cd_text_file,omitempty" yaml:"cd_text_file,omitempty"`

	// Catalog is the 13-digit UPC/EAN media catalog number (CATALOG).
	Catalog string `json:"catalog,omitempty" yaml:"catalog,omitempty"`
}

// FileEntry is one FILE block together with the tracks it contains.
type FileEntry struct {
	// Name is the file name exactly as written in the sheet.
	Name string `json:"name" yaml:"name"`

	// Type is the declared file type (BINARY, WAVE, MP3 ...).
	Type FileType `json:"type" yaml:"type"`

	// Tracks holds the tracks that start in this file, in order.
	Tracks []Track `json:"tracks" yaml:"tracks"`
}

// Tracks returns an iterator over every track of the sheet in disc order,
// crossing file boundaries.
func (s *CueSheet) Tracks() iter.Seq[*Track] {
	return func(yield func(*Track) bool) {
		for i := range s.Files {
			for j := range s.Files[i].Tracks {
				if !yield(&s.Files[i].Tracks[j]) {
					return
				}
			}
		}
	}
}

// TrackCount returns the number of tracks across all files.
func (s *CueSheet) TrackCount() int {
	n := 0
	for i := range s.Files {
		n += len(s.Files[i].Tracks)
	}
	return n
}

// HasCatalog reports whether a CATALOG number was given.
func (s *CueSheet) HasCatalog() bool {
	return s.Catalog != ""
}
