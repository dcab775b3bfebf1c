package raster

import (
	"fmt"
	"image"
	"image/color"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/olivier-w/climg/internal/ascii"
	"golang.org/x/image/draw"
)

// Compositor draws a grid back into a raster image, one glyph per cell.
type Compositor struct {
	Font     *Font
	FontSize int // pixels per cell edge

	// Background fills the canvas before drawing. Nil leaves it transparent.
	Background color.Color
	// Foreground replaces every cell's color when set.
	Foreground color.Color

	Workers int // <= 0 uses GOMAXPROCS
}

// MissingGlyph identifies a cell whose character the font cannot draw.
type MissingGlyph struct {
	X, Y int
	Char rune
}

// Result is a finished render. Image is always usable; Missing lists the
// cells that were left as background.
type Result struct {
	Image   *image.RGBA
	Missing []MissingGlyph
}

// Err summarises missing glyphs as an ErrRenderFailure, or returns nil.
func (r Result) Err() error {
	if len(r.Missing) == 0 {
		return nil
	}
	seen := make(map[rune]bool)
	var chars []string
	for _, m := range r.Missing {
		if !seen[m.Char] {
			seen[m.Char] = true
			chars = append(chars, fmt.Sprintf("%q", m.Char))
		}
	}
	sort.Strings(chars)
	return fmt.Errorf("%w: %d cells have no glyph for %s", ascii.ErrRenderFailure, len(r.Missing), strings.Join(chars, ", "))
}

// Render rasterizes g onto a canvas of (width*FontSize, height*FontSize).
func (c Compositor) Render(g ascii.Grid) (Result, error) {
	if c.FontSize <= 0 {
		return Result{}, fmt.Errorf("%w: font size %d must be positive", ascii.ErrInvalidConfig, c.FontSize)
	}
	if c.Font == nil {
		return Result{}, fmt.Errorf("%w: no font", ascii.ErrInvalidConfig)
	}

	face, err := c.Font.Face(c.FontSize)
	if err != nil {
		return Result{}, err
	}
	defer face.Close()

	glyphs := buildAtlas(face, g.Runes(), c.FontSize, c.Font.Has)
	return c.composite(g, glyphs), nil
}

// composite draws every cell with the pre-rasterized glyphs. The canvas is
// split into horizontal strips; each goroutine owns one strip and draws all
// cells clipped to it in row-major order.
func (c Compositor) composite(g ascii.Grid, glyphs atlas) Result {
	fs := c.FontSize
	canvas := image.NewRGBA(image.Rect(0, 0, g.Width()*fs, g.Height()*fs))
	if c.Background != nil {
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(c.Background), image.Point{}, draw.Src)
	}

	res := Result{Image: canvas}
	cells := g.Cells()
	for i, cell := range cells {
		if !glyphs[cell.Char].ok {
			res.Missing = append(res.Missing, MissingGlyph{X: i % g.Width(), Y: i / g.Width(), Char: cell.Char})
		}
	}
	if len(cells) == 0 {
		return res
	}

	var fg *color.NRGBA
	if c.Foreground != nil {
		v := color.NRGBAModel.Convert(c.Foreground).(color.NRGBA)
		fg = &v
	}

	h := canvas.Bounds().Dy()
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > h {
		workers = h
	}
	stripH := (h + workers - 1) / workers

	var wg sync.WaitGroup
	for top := 0; top < h; top += stripH {
		strip := image.Rect(0, top, canvas.Bounds().Dx(), min(top+stripH, h))
		wg.Add(1)
		go func() {
			defer wg.Done()
			drawStrip(canvas.SubImage(strip).(*image.RGBA), cells, g.Width(), fs, glyphs, fg)
		}()
	}
	wg.Wait()

	return res
}

func drawStrip(dst *image.RGBA, cells []ascii.Cell, width, fs int, glyphs atlas, fg *color.NRGBA) {
	bounds := dst.Bounds()
	for i, cell := range cells {
		gl := glyphs[cell.Char]
		if !gl.ok || gl.rect.Empty() {
			continue
		}
		origin := image.Pt((i%width)*fs, (i/width)*fs)
		r := gl.rect.Add(origin)
		if !r.Overlaps(bounds) {
			continue
		}

		col := cell.Colour
		if fg != nil {
			col = *fg
		}
		// Coverage becomes the source alpha via the mask.
		src := image.NewUniform(color.NRGBA{R: col.R, G: col.G, B: col.B, A: 0xff})
		// DrawMask clips r to dst, so overhanging coverage is discarded.
		draw.DrawMask(dst, r, src, image.Point{}, gl.mask, image.Point{}, draw.Over)
	}
}
