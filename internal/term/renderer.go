package term

import (
	"bufio"
	"image/color"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/olivier-w/climg/internal/ascii"
)

// Renderer writes a grid as colored terminal text.
type Renderer struct {
	Profile termenv.Profile
	// Foreground replaces every cell's color when set.
	Foreground color.Color
}

// Render writes each row left to right, setting the foreground color before
// every character, then resets attributes and ends the line. Output for the
// Ascii profile is the bare characters.
func (r Renderer) Render(w io.Writer, g ascii.Grid) error {
	bw := bufio.NewWriter(w)

	var fg *color.NRGBA
	if r.Foreground != nil {
		v := color.NRGBAModel.Convert(r.Foreground).(color.NRGBA)
		fg = &v
	}

	seqs := make(map[color.NRGBA]string)
	seqFor := func(c color.NRGBA) string {
		c.A = 0xff
		s, ok := seqs[c]
		if !ok {
			s = fgSeq(r.Profile, c)
			seqs[c] = s
		}
		return s
	}

	colored := r.Profile != termenv.Ascii
	for y := 0; y < g.Height(); y++ {
		for _, cell := range g.Row(y) {
			if colored {
				c := cell.Colour
				if fg != nil {
					c = *fg
				}
				bw.WriteString(seqFor(c))
			}
			bw.WriteRune(cell.Char)
		}
		if colored {
			bw.WriteString(ansiReset)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// String renders g into a string.
func (r Renderer) String(g ascii.Grid) string {
	var sb strings.Builder
	_ = r.Render(&sb, g)
	return sb.String()
}
