package raster

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Font is a parsed TrueType/OpenType font.
type Font struct {
	Name string
	f    *opentype.Font
}

// DefaultFont returns the embedded Go Mono face.
func DefaultFont() (*Font, error) {
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded font: %w", err)
	}
	return &Font{Name: "Go Mono", f: f}, nil
}

// LoadFont reads a .ttf/.otf file or the first face of a .ttc collection.
func LoadFont(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}
	return ParseFont(filepath.Base(path), data)
}

// ParseFont parses font data, trying a collection first.
func ParseFont(name string, data []byte) (*Font, error) {
	if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
		f, err := coll.Font(0)
		if err == nil {
			return &Font{Name: name, f: f}, nil
		}
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", name, err)
	}
	return &Font{Name: name, f: f}, nil
}

// Has reports whether the font maps r to a real glyph rather than .notdef.
func (f *Font) Has(r rune) bool {
	var buf sfnt.Buffer
	idx, err := f.f.GlyphIndex(&buf, r)
	return err == nil && idx != 0
}

// Face returns a face rendering one em in size pixels. Faces are not safe
// for concurrent use.
func (f *Font) Face(size int) (font.Face, error) {
	face, err := opentype.NewFace(f.f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %dpx face for %s: %w", size, f.Name, err)
	}
	return face, nil
}
