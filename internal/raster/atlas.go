package raster

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// glyph is a pre-rasterized coverage mask positioned relative to the
// top-left corner of its cell.
type glyph struct {
	rect image.Rectangle
	mask *image.Alpha
	ok   bool
}

// atlas holds one glyph per distinct rune of a grid.
type atlas map[rune]glyph

// buildAtlas rasterizes every rune once. has reports whether the font
// actually contains a glyph for r; missing runes get ok == false.
func buildAtlas(face font.Face, runes []rune, cell int, has func(rune) bool) atlas {
	baseline := baselineOffset(face, cell)
	a := make(atlas, len(runes))
	for _, r := range runes {
		if _, done := a[r]; done {
			continue
		}
		if has != nil && !has(r) {
			a[r] = glyph{}
			continue
		}
		dr, mask, maskp, _, ok := face.Glyph(fixed.P(0, baseline), r)
		if !ok {
			a[r] = glyph{}
			continue
		}
		// The face reuses its mask buffer between calls.
		owned := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
		if mask != nil && !dr.Empty() {
			draw.Draw(owned, owned.Bounds(), mask, maskp, draw.Src)
		}
		a[r] = glyph{rect: dr, mask: owned, ok: true}
	}
	return a
}

// baselineOffset places the baseline so that ascent and descent share the
// cell height in proportion.
func baselineOffset(face font.Face, cell int) int {
	m := face.Metrics()
	asc, desc := m.Ascent.Round(), m.Descent.Round()
	if asc+desc <= 0 {
		return cell
	}
	return (cell*asc + (asc+desc)/2) / (asc + desc)
}
