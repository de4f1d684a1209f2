package ioutils

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

var (
	invalidNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots     = regexp.MustCompile(`\.+$`)
	whitespaceRuns   = regexp.MustCompile(`\s+`)
)

// ReadCueFile reads a cue sheet from disk and decodes it to UTF-8.
//
// The encoding argument is passed to DecodeText; "" or "auto" detects it.
//
// Example:
//
//	text, err := ReadCueFile(ctx, "/music/Album/Album.cue", "auto")
//	if err != nil {
//	    return err
//	}
//	sheet, warnings, err := cue.Parse(text)
func ReadCueFile(ctx context.Context, path, encoding string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return DecodeText(data, encoding)
}

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing.
//
// Example:
//
//	err := WriteFile(ctx, "/music/Album/Album.m3u", []byte("#EXTM3U\n..."))
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("Live: Part 1/2")   // Returns "Live_ Part 1_2"
//	SanitizeFileName("Album...")         // Returns "Album"
func SanitizeFileName(name string) string {
	name = invalidNameChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = whitespaceRuns.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// coverArtNames are the base names FindCoverArt looks for, in order of preference.
var coverArtNames = []string{"cover", "folder", "front"}

// coverArtExts are the accepted image extensions.
var coverArtExts = []string{".jpg", ".jpeg", ".png"}

// FindCoverArt looks for a cover image in dir, the directory of a cue sheet.
//
// Names are matched case-insensitively: cover.jpg, Folder.PNG and
// front.jpeg all qualify. "cover" is preferred over "folder", which is
// preferred over "front". It returns "" when no image is found.
//
// Example:
//
//	art := FindCoverArt(filepath.Dir(cuePath))
//	if art != "" {
//	    data, _ := os.ReadFile(art)
//	}
func FindCoverArt(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	best, bestRank := "", len(coverArtNames)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		ext := filepath.Ext(name)
		if !slices.Contains(coverArtExts, ext) {
			continue
		}
		rank := slices.Index(coverArtNames, strings.TrimSuffix(name, ext))
		if rank >= 0 && rank < bestRank {
			best, bestRank = filepath.Join(dir, e.Name()), rank
		}
	}
	return best
}
