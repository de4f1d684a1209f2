package audio

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bogem/id3v2"

	"github.com/handiism/cuesheet/internal/model"
)

// ErrNotTaggable is returned by SaveTags for FILE entries that do not map
// to exactly one MP3 track.
var ErrNotTaggable = errors.New("file entry cannot be tagged")

// REM keys read by the tagger.
const (
	remDate       = "DATE"
	remComment    = "COMMENT"
	remDiscNumber = "DISCNUMBER"
	remTotalDiscs = "TOTALDISCS"
)

// TagEditAction defines how to handle individual ID3 tags.
//
// Each tag field can be configured independently to determine whether
// it should be modified, cleared, or left unchanged.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the value from the cue sheet.
	// Fields the sheet leaves empty are not touched.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// ParseTagEditAction matches "empty", "modify" or "keep".
func ParseTagEditAction(s string) (TagEditAction, error) {
	switch strings.ToLower(s) {
	case "empty":
		return TagEmpty, nil
	case "modify":
		return TagModify, nil
	case "keep", "do-not-modify":
		return TagDoNotModify, nil
	}
	return TagDoNotModify, fmt.Errorf("unknown tag action %q", s)
}

// TagConfig holds tagging configuration for each ID3 field.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags:  true,
//	    Artist:      TagModify,      // PERFORMER of the track or disc
//	    Album:       TagModify,      // TITLE of the disc
//	    TrackTitle:  TagModify,      // TITLE of the track
//	    Year:        TagModify,      // REM DATE
//	    Comments:    TagEmpty,       // Clear any existing comments
//	    AlbumArtist: TagDoNotModify, // Keep existing album artist
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, no text frames are modified.
	ModifyTags bool

	// Artist controls the TPE1 (Lead artist) frame.
	Artist TagEditAction

	// AlbumArtist controls the TPE2 (Album artist) frame.
	AlbumArtist TagEditAction

	// Album controls the TALB (Album title) frame.
	Album TagEditAction

	// Year controls the TYER (Year) frame.
	Year TagEditAction

	// Date controls the TDRC (Recording time) frame (ID3v2.4).
	Date TagEditAction

	// TrackNumber controls the TRCK (Track number) frame.
	TrackNumber TagEditAction

	// DiscNumber controls the TPOS (Part of a set) frame, from REM DISCNUMBER.
	DiscNumber TagEditAction

	// TrackTitle controls the TIT2 (Title) frame.
	TrackTitle TagEditAction

	// Genre controls the TCON (Content type) frame.
	Genre TagEditAction

	// Composer controls the TCOM (Composer) frame.
	Composer TagEditAction

	// ISRC controls the TSRC (ISRC) frame.
	ISRC TagEditAction

	// Comments controls the COMM (Comments) frame, from REM COMMENT.
	Comments TagEditAction
}

// DefaultTagConfig returns the default tag configuration.
//
// Every frame is set to TagModify except comments, which usually hold the
// ripper's banner and are cleared.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags:  true,
		Artist:      TagModify,
		AlbumArtist: TagModify,
		Album:       TagModify,
		Year:        TagModify,
		Date:        TagModify,
		TrackNumber: TagModify,
		DiscNumber:  TagModify,
		TrackTitle:  TagModify,
		Genre:       TagModify,
		Composer:    TagModify,
		ISRC:        TagModify,
		Comments:    TagEmpty,
	}
}

// Tagger writes cue sheet metadata into the ID3 tags of MP3 files.
//
// A sheet that references one MP3 per track carries everything a tag
// needs: disc TITLE and PERFORMER, per-track TITLE, PERFORMER, ISRC and
// the REM fields rippers add. Files holding several tracks are skipped,
// since a single tag cannot describe them.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	for i := range sheet.Files {
//	    f := &sheet.Files[i]
//	    path := filepath.Join(filepath.Dir(cuePath), f.Name)
//	    if err := tagger.SaveTags(path, sheet, f, artwork); err != nil {
//	        log.Printf("Failed to tag %s: %v", path, err)
//	    }
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// CanTag reports whether SaveTags accepts the file entry.
func CanTag(file *model.FileEntry) bool {
	return file.Type == model.FileMP3 && len(file.Tracks) == 1 && file.Tracks[0].Type.IsAudio()
}

// SaveTags writes ID3 tags to the MP3 at path, which is the audio of file.
//
// This method:
//  1. Opens the existing MP3 file, parsing any tag it already has
//  2. Updates text frames based on TagConfig settings
//  3. Embeds cover art if artwork bytes are provided
//  4. Saves the modified tag to the file
//
// artwork must be JPEG data, or nil to leave pictures alone.
func (t *Tagger) SaveTags(path string, sheet *model.CueSheet, file *model.FileEntry, artwork []byte) error {
	if !CanTag(file) {
		return fmt.Errorf("%s: %w: want one audio track in an MP3 file, have %d in %s",
			file.Name, ErrNotTaggable, len(file.Tracks), file.Type)
	}

	if _, err := os.Stat(path); err != nil {
		return err
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	if t.config.ModifyTags {
		t.updateStringTags(tag, sheet, &file.Tracks[0])
	}

	if artwork != nil {
		t.updateArtwork(tag, artwork)
	}

	return tag.Save()
}

// updateStringTags updates text-based ID3 frames based on configuration.
func (t *Tagger) updateStringTags(tag *id3v2.Tag, sheet *model.CueSheet, track *model.Track) {
	md := track.Metadata.Inherit(sheet.Metadata)
	date, _ := sheet.Rem(remDate)

	t.setText(tag, "TPE1", t.config.Artist, md.Performer)
	t.setText(tag, "TPE2", t.config.AlbumArtist, sheet.Performer)
	t.setText(tag, "TALB", t.config.Album, sheet.Title)
	t.setText(tag, "TIT2", t.config.TrackTitle, track.Title)
	t.setText(tag, "TCON", t.config.Genre, md.Genre)
	t.setText(tag, "TCOM", t.config.Composer, md.Composer)
	t.setText(tag, "TSRC", t.config.ISRC, track.ISRC)
	t.setText(tag, "TYER", t.config.Year, year(date))
	t.setText(tag, "TDRC", t.config.Date, date)
	t.setText(tag, "TRCK", t.config.TrackNumber, fmt.Sprintf("%d/%d", track.Number, sheet.TrackCount()))
	t.setText(tag, "TPOS", t.config.DiscNumber, discNumber(sheet))

	commID := tag.CommonID("Comments")
	switch t.config.Comments {
	case TagEmpty:
		tag.DeleteFrames(commID)
	case TagModify:
		if comment, ok := sheet.Rem(remComment); ok && comment != "" {
			tag.DeleteFrames(commID)
			tag.AddCommentFrame(id3v2.CommentFrame{
				Encoding: id3v2.EncodingUTF8,
				Language: "eng",
				Text:     comment,
			})
		}
	}
}

// setText applies action to the text frame id.
func (t *Tagger) setText(tag *id3v2.Tag, id string, action TagEditAction, value string) {
	switch action {
	case TagEmpty:
		tag.DeleteFrames(id)
	case TagModify:
		if value != "" {
			tag.AddTextFrame(id, id3v2.EncodingUTF8, value)
		}
	}
}

// updateArtwork embeds cover art as an attached picture frame.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, artwork []byte) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	}
	tag.AddAttachedPicture(pic)
}

// year returns the leading four-digit year of a REM DATE value such as
// "1999" or "1999-05-01", or "".
func year(date string) string {
	if len(date) < 4 {
		return ""
	}
	for _, c := range date[:4] {
		if c < '0' || c > '9' {
			return ""
		}
	}
	return date[:4]
}

// discNumber builds a TPOS value from REM DISCNUMBER and REM TOTALDISCS.
func discNumber(sheet *model.CueSheet) string {
	n, ok := sheet.Rem(remDiscNumber)
	if !ok || n == "" {
		return ""
	}
	if total, ok := sheet.Rem(remTotalDiscs); ok && total != "" {
		return n + "/" + total
	}
	return n
}
