package ascii

import (
	"fmt"
	"sort"
	"strings"
)

// Ramp is an ordered, non-empty set of characters. Index 0 is used for the
// darkest luma bucket and the last index for the brightest.
type Ramp struct {
	chars []rune
}

// Built-in ramps.
const (
	DefaultRamp  = " .:-=+*#%@"
	SolidRamp    = "█"
	BlocksRamp   = " ░▒▓█"
	DetailedRamp = " .'`^\",:;Il!i><~+_-?][}{1)(|\\/tfjrxnuvczXYUJCLQ0OZmwqpdbkhao*#MW&8%B@$"
)

var presets = map[string]string{
	"default":  DefaultRamp,
	"solid":    SolidRamp,
	"blocks":   BlocksRamp,
	"detailed": DetailedRamp,
}

// NewRamp builds a ramp from the characters of s, in order.
func NewRamp(s string) (Ramp, error) {
	chars := []rune(s)
	if len(chars) == 0 {
		return Ramp{}, fmt.Errorf("%w: character ramp is empty", ErrInvalidConfig)
	}
	return Ramp{chars: chars}, nil
}

// MustRamp is like NewRamp but panics on an empty string.
func MustRamp(s string) Ramp {
	r, err := NewRamp(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Preset returns the named built-in ramp.
func Preset(name string) (Ramp, error) {
	s, ok := presets[strings.ToLower(name)]
	if !ok {
		return Ramp{}, fmt.Errorf("%w: unknown ramp preset %q (available: %s)", ErrInvalidConfig, name, strings.Join(PresetNames(), ", "))
	}
	return NewRamp(s)
}

// PresetNames lists the built-in ramp names in a stable order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of characters in the ramp.
func (r Ramp) Len() int { return len(r.chars) }

// Valid reports whether the ramp holds at least one character.
func (r Ramp) Valid() bool { return len(r.chars) > 0 }

// Index maps a 0-255 luma value to a bucket index: floor(luma*N/256),
// clamped into [0, N-1]. When N does not divide 256 the buckets differ in
// width by at most one luma step.
func (r Ramp) Index(luma uint8) int {
	n := len(r.chars)
	idx := int(luma) * n / 256
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// Char returns the character for a luma value.
func (r Ramp) Char(luma uint8) rune {
	return r.chars[r.Index(luma)]
}

// At returns the i-th character of the ramp.
func (r Ramp) At(i int) rune {
	return r.chars[i]
}

// Reverse returns a new ramp with the order flipped.
func (r Ramp) Reverse() Ramp {
	out := make([]rune, len(r.chars))
	for i, c := range r.chars {
		out[len(out)-1-i] = c
	}
	return Ramp{chars: out}
}

// Runes returns a copy of the ramp's characters.
func (r Ramp) Runes() []rune {
	out := make([]rune, len(r.chars))
	copy(out, r.chars)
	return out
}

func (r Ramp) String() string {
	return string(r.chars)
}
