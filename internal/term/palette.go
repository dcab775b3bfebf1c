package term

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"github.com/olivier-w/climg/internal/ascii"
)

const ansiReset = "\x1b[0m"

// DetectProfile inspects NO_COLOR, CLICOLOR, COLORTERM, TERM and whether
// stdout is a terminal.
func DetectProfile() termenv.Profile {
	return termenv.EnvColorProfile()
}

// ParseProfile accepts the names used by --color-profile.
func ParseProfile(name string) (termenv.Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "truecolor", "24bit", "true":
		return termenv.TrueColor, nil
	case "256", "ansi256":
		return termenv.ANSI256, nil
	case "16", "ansi":
		return termenv.ANSI, nil
	case "none", "mono", "ascii":
		return termenv.Ascii, nil
	default:
		return termenv.Ascii, fmt.Errorf("%w: unknown color profile %q (want truecolor, 256, 16 or none)", ascii.ErrInvalidConfig, name)
	}
}

// ProfileName is the inverse of ParseProfile.
func ProfileName(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "truecolor"
	case termenv.ANSI256:
		return "256"
	case termenv.ANSI:
		return "16"
	default:
		return "none"
	}
}

// fgSeq returns the foreground escape for c in profile p, or "" for Ascii.
// Truecolor is formatted directly; lower profiles are degraded by termenv.
func fgSeq(p termenv.Profile, c color.NRGBA) string {
	switch p {
	case termenv.TrueColor:
		return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B)
	case termenv.Ascii:
		return ""
	}
	hex := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
	seq := p.Convert(termenv.RGBColor(hex)).Sequence(false)
	if seq == "" {
		return ""
	}
	return termenv.CSI + seq + "m"
}

// ParseColor reads "#rrggbb", "#rgb" or "r,g,b". The result is opaque.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: bad hex colour %q", ascii.ErrInvalidConfig, s)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.NRGBA{}, fmt.Errorf("%w: colour %q must be #rrggbb or r,g,b", ascii.ErrInvalidConfig, s)
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: colour component %q out of range 0-255", ascii.ErrInvalidConfig, strings.TrimSpace(p))
		}
		ch[i] = uint8(v)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: 0xff}, nil
}
