package raster

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
)

func TestDefaultFontHasRampGlyphs(t *testing.T) {
	f := defaultFont(t)
	for _, r := range " .:-=+*#%@" {
		if !f.Has(r) {
			t.Fatalf("expected Go Mono to have %q", r)
		}
	}
	if f.Has('\U0001F600') {
		t.Fatal("expected Go Mono to lack emoji")
	}
}

func TestLoadFontFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.ttf")
	if err := os.WriteFile(path, gomono.TTF, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	f, err := LoadFont(path)
	if err != nil {
		t.Fatalf("LoadFont() unexpected error: %v", err)
	}
	if f.Name != "mono.ttf" {
		t.Fatalf("Name = %q, want mono.ttf", f.Name)
	}
	if !f.Has('A') {
		t.Fatal("expected loaded font to have 'A'")
	}
}

func TestParseFontRejectsGarbage(t *testing.T) {
	if _, err := ParseFont("junk", []byte("not a font")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadFontMissingFile(t *testing.T) {
	if _, err := LoadFont(filepath.Join(t.TempDir(), "nope.ttf")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBaselineFitsCell(t *testing.T) {
	face, err := defaultFont(t).Face(25)
	if err != nil {
		t.Fatalf("Face() unexpected error: %v", err)
	}
	defer face.Close()
	b := baselineOffset(face, 25)
	if b <= 12 || b >= 25 {
		t.Fatalf("baselineOffset() = %d, want within the lower half of a 25px cell", b)
	}
	m := face.Metrics()
	asc, desc := m.Ascent.Round(), m.Descent.Round()
	want := int(math.Round(25 * float64(asc) / float64(asc+desc)))
	if b != want {
		t.Fatalf("baselineOffset() = %d, want %d (ascent %d, descent %d)", b, want, asc, desc)
	}
}
