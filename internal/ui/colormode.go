package ui

import "github.com/muesli/termenv"

// ColorMode is the terminal color depth used by the preview.
type ColorMode int

const (
	ColorTrue ColorMode = iota
	Color256
	Color16
	ColorNone
)

// ColorModeFor maps a detected termenv profile to a ColorMode.
func ColorModeFor(p termenv.Profile) ColorMode {
	switch p {
	case termenv.TrueColor:
		return ColorTrue
	case termenv.ANSI256:
		return Color256
	case termenv.ANSI:
		return Color16
	default:
		return ColorNone
	}
}

// Next cycles to the next color mode.
func (c ColorMode) Next() ColorMode {
	switch c {
	case ColorTrue:
		return Color256
	case Color256:
		return Color16
	case Color16:
		return ColorNone
	default:
		return ColorTrue
	}
}

// Profile returns the termenv profile for the mode.
func (c ColorMode) Profile() termenv.Profile {
	switch c {
	case ColorTrue:
		return termenv.TrueColor
	case Color256:
		return termenv.ANSI256
	case Color16:
		return termenv.ANSI
	default:
		return termenv.Ascii
	}
}

// String returns the name of the color mode.
func (c ColorMode) String() string {
	switch c {
	case ColorTrue:
		return "truecolor"
	case Color256:
		return "256"
	case Color16:
		return "16"
	default:
		return "mono"
	}
}

// Icon returns a visual indicator for the color mode.
func (c ColorMode) Icon() string {
	return "[" + c.String() + "]"
}
