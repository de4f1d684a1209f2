// Package audio turns parsed cue sheets into the files that sit next to
// the audio: playlists and ID3 tags.
//
// # ID3 Tagging
//
// Use the Tagger to copy cue sheet metadata into MP3 files that hold one
// track each:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags(mp3Path, sheet, &sheet.Files[0], artworkBytes)
//
// The tagger writes:
//   - Artist, Album Artist, Album Title, Track Title
//   - Track Number (n/total), Disc Number from REM DISCNUMBER
//   - Genre, Composer, ISRC
//   - Year and Date from REM DATE, Comment from REM COMMENT
//   - Cover Art (embedded in MP3)
//
// # Playlist Generation
//
// Generate playlists in various formats:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(sheet)
//	os.WriteFile("Album"+audio.FormatM3U.Extension(), []byte(content), 0644)
//
// Supported formats:
//   - M3U (with optional extended info and VLC start/stop offsets)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
