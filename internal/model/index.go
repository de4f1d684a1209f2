package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FramesPerSecond is the CD audio frame rate.
const FramesPerSecond = 75

// Bounds of the mm:ss:ff fields.
const (
	MaxMinute = 99
	MaxSecond = 59
	MaxFrame  = FramesPerSecond - 1
)

// Index is an mm:ss:ff position or length, in minutes, seconds and frames.
type Index struct {
	Minute uint8 `json:"minute" yaml:"minute"`
	Second uint8 `json:"second" yaml:"second"`
	Frame  uint8 `json:"frame" yaml:"frame"`
}

// NewIndex returns the Index for the given fields, checking their bounds.
func NewIndex(minute, second, frame int) (Index, error) {
	switch {
	case minute < 0 || minute > MaxMinute:
		return Index{}, fmt.Errorf("minute %d out of range 0-%d", minute, MaxMinute)
	case second < 0 || second > MaxSecond:
		return Index{}, fmt.Errorf("second %d out of range 0-%d", second, MaxSecond)
	case frame < 0 || frame > MaxFrame:
		return Index{}, fmt.Errorf("frame %d out of range 0-%d", frame, MaxFrame)
	}
	return Index{Minute: uint8(minute), Second: uint8(second), Frame: uint8(frame)}, nil
}

// ParseIndex parses an "mm:ss:ff" time.
//
// Each field must be one or more decimal digits. Minutes may be up to 99,
// seconds up to 59 and frames up to 74.
//
// Example:
//
//	idx, err := ParseIndex("03:12:50")
//	// idx == Index{Minute: 3, Second: 12, Frame: 50}
func ParseIndex(s string) (Index, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Index{}, fmt.Errorf("time %q is not in mm:ss:ff form", s)
	}

	var fields [3]int
	for i, p := range parts {
		if p == "" || len(p) > 3 || strings.TrimLeft(p, "0123456789") != "" {
			return Index{}, fmt.Errorf("time %q is not in mm:ss:ff form", s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Index{}, fmt.Errorf("time %q: %w", s, err)
		}
		fields[i] = n
	}

	return NewIndex(fields[0], fields[1], fields[2])
}

// IndexFromFrames converts an absolute frame count back to an Index.
// Counts beyond 99:59:74 are clamped.
func IndexFromFrames(frames int) Index {
	if frames < 0 {
		frames = 0
	}
	maxFrames := (MaxMinute*60+MaxSecond)*FramesPerSecond + MaxFrame
	if frames > maxFrames {
		frames = maxFrames
	}
	return Index{
		Minute: uint8(frames / (60 * FramesPerSecond)),
		Second: uint8(frames / FramesPerSecond % 60),
		Frame:  uint8(frames % FramesPerSecond),
	}
}

// Frames returns the position as an absolute frame count.
func (i Index) Frames() int {
	return (int(i.Minute)*60+int(i.Second))*FramesPerSecond + int(i.Frame)
}

// Duration returns the position as a time.Duration.
func (i Index) Duration() time.Duration {
	return time.Duration(i.Frames()) * time.Second / FramesPerSecond
}

// Before reports whether i is strictly earlier than other.
func (i Index) Before(other Index) bool {
	return i.Frames() < other.Frames()
}

// String returns the "mm:ss:ff" form.
func (i Index) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", i.Minute, i.Second, i.Frame)
}

// MarshalText implements encoding.TextMarshaler.
func (i Index) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Index) UnmarshalText(text []byte) error {
	idx, err := ParseIndex(string(text))
	if err != nil {
		return err
	}
	*i = idx
	return nil
}
