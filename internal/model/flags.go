package model

import (
	"fmt"
	"strings"
)

// Flags is a set of track sub-code flags.
//
//   - PRE: pre-emphasis enabled (audio tracks only)
//   - DCP: digital copy permitted
//   - 4CH: four channel audio
//   - SCMS: serial copy management system
//
// Adding a flag that is already present is a no-op, so duplicates in a
// FLAGS command collapse. The zero value is the empty set.
type Flags uint8

const (
	FlagPRE Flags = 1 << iota
	FlagDCP
	Flag4CH
	FlagSCMS
)

// allFlags lists every flag in the order they are rendered.
var allFlags = [...]struct {
	flag Flags
	name string
}{
	{FlagPRE, "PRE"},
	{FlagDCP, "DCP"},
	{Flag4CH, "4CH"},
	{FlagSCMS, "SCMS"},
}

// ParseFlag matches a single FLAGS token case-insensitively.
func ParseFlag(s string) (Flags, bool) {
	for _, f := range allFlags {
		if strings.EqualFold(s, f.name) {
			return f.flag, true
		}
	}
	return 0, false
}

// Has reports whether every flag in f2 is set in f.
func (f Flags) Has(f2 Flags) bool {
	return f2 != 0 && f&f2 == f2
}

// Union returns the set containing the flags of both f and f2.
func (f Flags) Union(f2 Flags) Flags {
	return f | f2
}

// IsEmpty reports whether no flag is set.
func (f Flags) IsEmpty() bool {
	return f == 0
}

// Names returns the keywords of the set flags in canonical order.
func (f Flags) Names() []string {
	var names []string
	for _, fl := range allFlags {
		if f&fl.flag != 0 {
			names = append(names, fl.name)
		}
	}
	return names
}

// String returns the flags space-separated, as in a FLAGS command.
func (f Flags) String() string {
	return strings.Join(f.Names(), " ")
}

// MarshalText implements encoding.TextMarshaler.
func (f Flags) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Flags) UnmarshalText(text []byte) error {
	var set Flags
	for _, tok := range strings.Fields(string(text)) {
		fl, ok := ParseFlag(tok)
		if !ok {
			return fmt.Errorf("unknown flag %q", tok)
		}
		set |= fl
	}
	*f = set
	return nil
}
