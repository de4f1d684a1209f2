package ioutils

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// EncodingAuto selects encoding detection in DecodeText.
const EncodingAuto = "auto"

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DecodeText converts raw cue sheet bytes to a UTF-8 string.
//
// Cue sheets ripped on Windows are often not UTF-8. With name "" or "auto"
// the encoding is detected:
//   - a UTF-8 or UTF-16 byte order mark wins
//   - otherwise valid UTF-8 is taken as is
//   - otherwise the bytes are read as Windows-1252
//
// Any other name is looked up in the WHATWG encoding index, so "shift_jis",
// "windows-1251" or "utf-16le" all work.
//
// Example:
//
//	text, err := DecodeText(data, "shift_jis")
func DecodeText(data []byte, name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == EncodingAuto {
		return detect(data)
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", fmt.Errorf("unknown text encoding %q: %w", name, err)
	}
	return decode(enc, data)
}

func detect(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return string(data[len(bomUTF8):]), nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return decode(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data)
	case bytes.HasPrefix(data, bomUTF16BE):
		return decode(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), data)
	case utf8.Valid(data):
		return string(data), nil
	default:
		return decode(charmap.Windows1252, data)
	}
}

func decode(enc encoding.Encoding, data []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(out), nil
}
