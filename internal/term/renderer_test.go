package term

import (
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/olivier-w/climg/internal/ascii"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func testGrid(t *testing.T) ascii.Grid {
	t.Helper()
	g, err := ascii.NewGrid([]ascii.Cell{
		{Char: '@', Colour: red},
		{Char: '#', Colour: blue},
		{Char: '.', Colour: color.NRGBA{R: 1, G: 2, B: 3, A: 0}},
		{Char: ' ', Colour: red},
	}, 2, 2)
	if err != nil {
		t.Fatalf("NewGrid() unexpected error: %v", err)
	}
	return g
}

func TestRenderTrueColor(t *testing.T) {
	got := Renderer{Profile: termenv.TrueColor}.String(testGrid(t))
	want := "\x1b[38;2;255;0;0m@\x1b[38;2;0;0;255m#\x1b[0m\n" +
		"\x1b[38;2;1;2;3m.\x1b[38;2;255;0;0m \x1b[0m\n"
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestRenderEndsInDefaultState(t *testing.T) {
	for _, p := range []termenv.Profile{termenv.TrueColor, termenv.ANSI256, termenv.ANSI} {
		out := Renderer{Profile: p}.String(testGrid(t))
		if !strings.HasSuffix(out, ansiReset+"\n") {
			t.Fatalf("%s: output %q does not end with a reset", ProfileName(p), out)
		}
		for i, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
			if !strings.HasSuffix(line, ansiReset) {
				t.Fatalf("%s: row %d = %q, want trailing reset", ProfileName(p), i, line)
			}
		}
	}
}

func TestRenderColorBeforeEveryCharacter(t *testing.T) {
	g := testGrid(t)
	out := Renderer{Profile: termenv.TrueColor}.String(g)
	if n := strings.Count(out, "\x1b[38;2;"); n != g.Len() {
		t.Fatalf("color escapes = %d, want one per cell (%d)", n, g.Len())
	}
}

func TestRenderANSI256(t *testing.T) {
	out := Renderer{Profile: termenv.ANSI256}.String(testGrid(t))
	if !strings.HasPrefix(out, "\x1b[38;5;196m@") {
		t.Fatalf("Render() = %q, want pure red as 256-color index 196", out)
	}
	if strings.Contains(out, "38;2;") {
		t.Fatalf("Render() = %q, expected no truecolor escapes", out)
	}
}

func TestRenderANSI16(t *testing.T) {
	g := testGrid(t)
	out := Renderer{Profile: termenv.ANSI}.String(g)
	if strings.Contains(out, "38;5;") || strings.Contains(out, "38;2;") {
		t.Fatalf("Render() = %q, expected only 16-color escapes", out)
	}
	if got := ansi.Strip(out); got != g.String() {
		t.Fatalf("stripped output = %q, want %q", got, g.String())
	}
}

func TestRenderAsciiHasNoEscapes(t *testing.T) {
	g := testGrid(t)
	got := Renderer{Profile: termenv.Ascii, Foreground: red}.String(g)
	if got != g.String() {
		t.Fatalf("Render() = %q, want %q", got, g.String())
	}
}

func TestRenderForegroundOverride(t *testing.T) {
	out := Renderer{Profile: termenv.TrueColor, Foreground: color.RGBA{G: 255, A: 255}}.String(testGrid(t))
	if strings.Contains(out, "255;0;0m") || strings.Contains(out, "0;0;255m") {
		t.Fatalf("Render() = %q, cell colors should be overridden", out)
	}
	if n := strings.Count(out, "\x1b[38;2;0;255;0m"); n != 4 {
		t.Fatalf("override escapes = %d, want 4", n)
	}
}

func TestRenderRoundTripsCharacters(t *testing.T) {
	src := ascii.MustRamp(ascii.DefaultRamp)
	cells := make([]ascii.Cell, 0, 30)
	for i := 0; i < 30; i++ {
		cells = append(cells, ascii.Cell{Char: src.At(i % src.Len()), Colour: color.NRGBA{R: uint8(i * 8), G: 100, B: 200, A: 255}})
	}
	g, err := ascii.NewGrid(cells, 6, 5)
	if err != nil {
		t.Fatalf("NewGrid() unexpected error: %v", err)
	}

	rows := ascii.ParseText(ansi.Strip(Renderer{Profile: termenv.TrueColor}.String(g)))
	if len(rows) != g.Height() {
		t.Fatalf("parsed %d rows, want %d", len(rows), g.Height())
	}
	for y, row := range rows {
		for x, r := range row {
			if want := g.At(x, y).Char; r != want {
				t.Fatalf("char at (%d,%d) = %q, want %q", x, y, r, want)
			}
		}
	}
}

func TestRenderEmptyGrid(t *testing.T) {
	g, err := ascii.NewGrid(nil, 0, 0)
	if err != nil {
		t.Fatalf("NewGrid() unexpected error: %v", err)
	}
	if got := (Renderer{Profile: termenv.TrueColor}).String(g); got != "" {
		t.Fatalf("Render() = %q, want empty output", got)
	}
}

func TestParseProfile(t *testing.T) {
	cases := []struct {
		in   string
		want termenv.Profile
	}{
		{in: "truecolor", want: termenv.TrueColor},
		{in: "256", want: termenv.ANSI256},
		{in: "16", want: termenv.ANSI},
		{in: "none", want: termenv.Ascii},
		{in: " TrueColor ", want: termenv.TrueColor},
	}
	for _, tc := range cases {
		got, err := ParseProfile(tc.in)
		if err != nil {
			t.Fatalf("ParseProfile(%q) unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseProfile(%q) = %v, want %v", tc.in, got, tc.want)
		}
		if back, _ := ParseProfile(ProfileName(got)); back != got {
			t.Fatalf("ProfileName(%v) did not round trip", got)
		}
	}
	if _, err := ParseProfile("sepia"); !errors.Is(err, ascii.ErrInvalidConfig) {
		t.Fatalf("ParseProfile(sepia) error = %v, want ErrInvalidConfig", err)
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: "#ff8000", want: color.NRGBA{R: 255, G: 128, B: 0, A: 255}},
		{in: "#f80", want: color.NRGBA{R: 255, G: 136, B: 0, A: 255}},
		{in: "255,128,0", want: color.NRGBA{R: 255, G: 128, B: 0, A: 255}},
		{in: " 1, 2 ,3", want: color.NRGBA{R: 1, G: 2, B: 3, A: 255}},
		{in: "#ggg", wantErr: true},
		{in: "256,0,0", wantErr: true},
		{in: "1,2", wantErr: true},
		{in: "red", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ascii.ErrInvalidConfig) {
				t.Fatalf("ParseColor(%q) error = %v, want ErrInvalidConfig", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseColor(%q) unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
