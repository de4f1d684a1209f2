package model

import "strings"

// Metadata holds the descriptive fields of a disc or track.
//
// Fields follow the CD-TEXT pack types:
//   - Arranger: name(s) of the arranger(s)
//   - Composer: name(s) of the composer(s)
//   - DiscID: disc identification information
//   - Genre: genre identification and genre information
//   - ISRC: ISRC code of each track
//   - Message: message from the content provider and/or artist
//   - Performer: name(s) of the performer(s)
//   - Songwriter: name(s) of the songwriter(s)
//   - Title: album name or track title
//   - TOCInfo, TOCInfo2: table of contents information
//   - UPCEAN: UPC/EAN code of the album
//   - SizeInfo: size information of the block
//
// Any REM key that does not name one of these fields is kept in OtherRem,
// for example "REM DATE 1999" becomes OtherRem["DATE"] = "1999".
type Metadata struct {
	Arranger   string `json:"arranger,omitempty" yaml:"arranger,omitempty"`
	Composer   string `json:"composer,omitempty" yaml:"composer,omitempty"`
	DiscID     string `json:"disc_id,omitempty" yaml:"disc_id,omitempty"`
	Genre      string `json:"genre,omitempty" yaml:"genre,omitempty"`
	ISRC       string `json:"isrc,omitempty" yaml:"isrc,omitempty"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
	Performer  string `json:"performer,omitempty" yaml:"performer,omitempty"`
	Songwriter string `json:"songwriter,omitempty" yaml:"songwriter,omitempty"`
	Title      string `json:"title,omitempty" yaml:"title,omitempty"`
	TOCInfo    string `json:"toc_info,omitempty" yaml:"toc_info,omitempty"`
	TOCInfo2   string `json:"toc_info2,omitempty" yaml:"toc_info2,omitempty"`
	UPCEAN     string `json:"upc_ean,omitempty" yaml:"upc_ean,omitempty"`
	SizeInfo   string `json:"size_info,omitempty" yaml:"size_info,omitempty"`

	// OtherRem maps unrecognized REM keys (uppercased) to their values.
	OtherRem map[string]string `json:"other_rem,omitempty" yaml:"other_rem,omitempty"`
}

// MetadataField names one of the typed Metadata fields.
type MetadataField int

const (
	FieldArranger MetadataField = iota
	FieldComposer
	FieldDiscID
	FieldGenre
	FieldISRC
	FieldMessage
	FieldPerformer
	FieldSongwriter
	FieldTitle
	FieldTOCInfo
	FieldTOCInfo2
	FieldUPCEAN
	FieldSizeInfo

	metadataFieldCount
)

// metadataFieldNames holds the canonical keyword of each field.
var metadataFieldNames = [metadataFieldCount]string{
	FieldArranger:   "ARRANGER",
	FieldComposer:   "COMPOSER",
	FieldDiscID:     "DISC_ID",
	FieldGenre:      "GENRE",
	FieldISRC:       "ISRC",
	FieldMessage:    "MESSAGE",
	FieldPerformer:  "PERFORMER",
	FieldSongwriter: "SONGWRITER",
	FieldTitle:      "TITLE",
	FieldTOCInfo:    "TOC_INFO1",
	FieldTOCInfo2:   "TOC_INFO2",
	FieldUPCEAN:     "UPC_EAN",
	FieldSizeInfo:   "SIZE_INFO",
}

// metadataAliases are extra spellings seen in the wild.
var metadataAliases = map[string]MetadataField{
	"DISCID":   FieldDiscID,
	"TOC_INFO": FieldTOCInfo,
}

// LookupMetadataField matches a keyword (case-insensitive) to a field.
func LookupMetadataField(keyword string) (MetadataField, bool) {
	keyword = strings.ToUpper(keyword)
	for f, name := range metadataFieldNames {
		if keyword == name {
			return MetadataField(f), true
		}
	}
	f, ok := metadataAliases[keyword]
	return f, ok
}

// String returns the canonical keyword of the field.
func (f MetadataField) String() string {
	if f < 0 || f >= metadataFieldCount {
		return ""
	}
	return metadataFieldNames[f]
}

// field returns a pointer to the storage of f.
func (m *Metadata) field(f MetadataField) *string {
	switch f {
	case FieldArranger:
		return &m.Arranger
	case FieldComposer:
		return &m.Composer
	case FieldDiscID:
		return &m.DiscID
	case FieldGenre:
		return &m.Genre
	case FieldISRC:
		return &m.ISRC
	case FieldMessage:
		return &m.Message
	case FieldPerformer:
		return &m.Performer
	case FieldSongwriter:
		return &m.Songwriter
	case FieldTitle:
		return &m.Title
	case FieldTOCInfo:
		return &m.TOCInfo
	case FieldTOCInfo2:
		return &m.TOCInfo2
	case FieldUPCEAN:
		return &m.UPCEAN
	case FieldSizeInfo:
		return &m.SizeInfo
	}
	return nil
}

// Set stores value in field f. Later writes replace earlier ones.
func (m *Metadata) Set(f MetadataField, value string) {
	if p := m.field(f); p != nil {
		*p = value
	}
}

// Get returns the value of field f.
func (m *Metadata) Get(f MetadataField) string {
	if p := m.field(f); p != nil {
		return *p
	}
	return ""
}

// SetRem stores an unrecognized REM key. Keys are uppercased; the last
// value written for a key wins.
func (m *Metadata) SetRem(key, value string) {
	if m.OtherRem == nil {
		m.OtherRem = make(map[string]string)
	}
	m.OtherRem[strings.ToUpper(key)] = value
}

// Rem returns the value of an unrecognized REM key.
func (m *Metadata) Rem(key string) (string, bool) {
	v, ok := m.OtherRem[strings.ToUpper(key)]
	return v, ok
}

// Inherit returns a copy of m where every empty field is taken from parent.
//
// Downstream consumers use it to resolve a track's effective metadata:
//
//	effective := track.Metadata.Inherit(sheet.Metadata)
func (m Metadata) Inherit(parent Metadata) Metadata {
	out := m
	for f := MetadataField(0); f < metadataFieldCount; f++ {
		if out.Get(f) == "" {
			out.Set(f, parent.Get(f))
		}
	}
	if len(parent.OtherRem) > 0 {
		merged := make(map[string]string, len(parent.OtherRem)+len(m.OtherRem))
		for k, v := range parent.OtherRem {
			merged[k] = v
		}
		for k, v := range m.OtherRem {
			merged[k] = v
		}
		out.OtherRem = merged
	}
	return out
}
