package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/muesli/termenv"

	"github.com/olivier-w/climg/internal/ascii"
	"github.com/olivier-w/climg/internal/ui"
)

func parseTest(t *testing.T, args ...string) (*options, []string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	opts, rest, err := parseOptions(args)
	if err != nil {
		t.Fatalf("parseOptions(%v) error = %v", args, err)
	}
	return opts, rest
}

func TestParseOptionsDefaults(t *testing.T) {
	opts, rest := parseTest(t, "cat.png")
	if len(rest) != 1 || rest[0] != "cat.png" {
		t.Fatalf("args = %v, want [cat.png]", rest)
	}
	if opts.Sample != defaultSample || opts.FontSize != defaultFontSize {
		t.Fatalf("sample = %d font-size = %d, want %d and %d", opts.Sample, opts.FontSize, defaultSample, defaultFontSize)
	}
	if opts.columnsSet || opts.blockSet {
		t.Fatal("expected no explicit size flags")
	}

	term, err := opts.blockSize(true)
	if err != nil || term != (ascii.BlockSize{W: 5, H: 10}) {
		t.Fatalf("blockSize(true) = %v, %v; want 5x10", term, err)
	}
	img, err := opts.blockSize(false)
	if err != nil || img != (ascii.BlockSize{W: 5, H: 5}) {
		t.Fatalf("blockSize(false) = %v, %v; want 5x5", img, err)
	}
}

func TestParseOptionsColumnsZeroIsExplicit(t *testing.T) {
	opts, _ := parseTest(t, "-w", "0", "cat.png")
	if !opts.columnsSet || opts.Columns != 0 {
		t.Fatalf("columnsSet = %v columns = %d, want explicit 0", opts.columnsSet, opts.Columns)
	}
}

func TestParseBlock(t *testing.T) {
	tests := []struct {
		in      string
		want    ascii.BlockSize
		wantErr bool
	}{
		{"4x6", ascii.BlockSize{W: 4, H: 6}, false},
		{" 3X3 ", ascii.BlockSize{W: 3, H: 3}, false},
		{"4*6", ascii.BlockSize{}, true},
		{"0x3", ascii.BlockSize{}, true},
		{"ax3", ascii.BlockSize{}, true},
	}
	for _, tt := range tests {
		got, err := parseBlock(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ascii.ErrInvalidConfig) {
				t.Fatalf("parseBlock(%q) error = %v, want ErrInvalidConfig", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("parseBlock(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestSampleOnlyCountsWhenGiven(t *testing.T) {
	tests := []struct {
		args    []string
		wantSet bool
		want    int
	}{
		{[]string{"cat.png"}, false, defaultSample},
		{[]string{"-s", "3", "cat.png"}, true, 3},
		{[]string{"--sample", "5", "cat.png"}, true, 5},
	}
	for _, tt := range tests {
		opts, _ := parseTest(t, tt.args...)
		if opts.blockSet != tt.wantSet || opts.Sample != tt.want {
			t.Fatalf("parse %v: blockSet = %v sample = %d, want %v and %d", tt.args, opts.blockSet, opts.Sample, tt.wantSet, tt.want)
		}
		s, _, err := previewSettings(opts)
		if err != nil {
			t.Fatalf("previewSettings(%v) error = %v", tt.args, err)
		}
		if s.FitWidth == tt.wantSet {
			t.Fatalf("previewSettings(%v) fit = %v, want %v", tt.args, s.FitWidth, !tt.wantSet)
		}
	}

	opts, _ := parseTest(t, "-s", "0", "cat.png")
	if _, err := opts.blockSize(true); !errors.Is(err, ascii.ErrInvalidConfig) {
		t.Fatalf("blockSize with -s 0 error = %v, want ErrInvalidConfig", err)
	}
}

func TestBlockOverridesSample(t *testing.T) {
	opts, _ := parseTest(t, "--block", "3x7", "-s", "9", "cat.png")
	if !opts.blockSet {
		t.Fatal("expected blockSet")
	}
	got, err := opts.blockSize(true)
	if err != nil || got != (ascii.BlockSize{W: 3, H: 7}) {
		t.Fatalf("blockSize(true) = %v, %v; want 3x7", got, err)
	}
	if a := opts.aspect(true); a != 2 {
		t.Fatalf("aspect = %d, want 2", a)
	}
}

func TestRampPrecedence(t *testing.T) {
	tests := []struct {
		args       []string
		wantRamp   string
		wantPreset string
	}{
		{nil, ascii.DefaultRamp, "default"},
		{[]string{"--preset", "Blocks"}, ascii.BlocksRamp, "blocks"},
		{[]string{"--preset", "detailed", "--solid"}, ascii.SolidRamp, "solid"},
		{[]string{"--solid", "-m", "ab"}, "ab", ""},
	}
	for _, tt := range tests {
		opts, _ := parseTest(t, tt.args...)
		r, preset, err := opts.ramp()
		if err != nil {
			t.Fatalf("ramp() for %v error = %v", tt.args, err)
		}
		if r.String() != tt.wantRamp || preset != tt.wantPreset {
			t.Fatalf("ramp() for %v = %q (%q), want %q (%q)", tt.args, r, preset, tt.wantRamp, tt.wantPreset)
		}
	}

	opts, _ := parseTest(t, "--preset", "nope")
	if _, _, err := opts.ramp(); !errors.Is(err, ascii.ErrInvalidConfig) {
		t.Fatalf("ramp() error = %v, want ErrInvalidConfig", err)
	}
}

func TestProfileFlags(t *testing.T) {
	opts, _ := parseTest(t, "--mono", "--color-profile", "truecolor")
	if p, err := opts.profile(); err != nil || p != termenv.Ascii {
		t.Fatalf("profile() = %v, %v; want Ascii", p, err)
	}
	opts, _ = parseTest(t, "--color-profile", "256")
	if p, err := opts.profile(); err != nil || p != termenv.ANSI256 {
		t.Fatalf("profile() = %v, %v; want ANSI256", p, err)
	}
}

func TestConfigFileUnderCommandLine(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.ini")
	ini := "preset = blocks\nfont-size = 12\ninvert = true\n"
	if err := os.WriteFile(cfg, []byte(ini), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	opts, _ := parseTest(t, "--config", cfg, "--font-size", "30", "cat.png")
	if opts.Preset != "blocks" || !opts.Invert {
		t.Fatalf("preset = %q invert = %v, want values from config", opts.Preset, opts.Invert)
	}
	if opts.FontSize != 30 {
		t.Fatalf("font-size = %d, want command line value 30", opts.FontSize)
	}
}

func TestDefaultConfigFileIsOptional(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	if _, _, err := parseOptions([]string{"cat.png"}); err != nil {
		t.Fatalf("parseOptions() without config error = %v", err)
	}

	if err := os.MkdirAll(filepath.Join(home, "climg"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(home, "climg", "config.ini"), []byte("sample = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	opts, _, err := parseOptions([]string{"cat.png"})
	if err != nil {
		t.Fatalf("parseOptions() error = %v", err)
	}
	if opts.Sample != 3 || !opts.blockSet {
		t.Fatalf("sample = %d blockSet = %v, want 3 from default config", opts.Sample, opts.blockSet)
	}
}

func TestMissingExplicitConfigFails(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if _, _, err := parseOptions([]string{"--config", filepath.Join(t.TempDir(), "nope.ini")}); err == nil {
		t.Fatal("expected error for missing --config file")
	}
}

func TestPreviewSettings(t *testing.T) {
	tests := []struct {
		args        []string
		wantFit     bool
		wantColumns int
	}{
		{nil, true, 0},
		{[]string{"--block", "4x8"}, false, 0},
		{[]string{"--block", "4x8", "-w", "0"}, true, 0},
		{[]string{"-w", "40"}, false, 40},
	}
	for _, tt := range tests {
		opts, _ := parseTest(t, tt.args...)
		s, columns, err := previewSettings(opts)
		if err != nil {
			t.Fatalf("previewSettings(%v) error = %v", tt.args, err)
		}
		if s.FitWidth != tt.wantFit || columns != tt.wantColumns {
			t.Fatalf("previewSettings(%v) fit = %v columns = %d, want %v and %d", tt.args, s.FitWidth, columns, tt.wantFit, tt.wantColumns)
		}
	}

	opts, _ := parseTest(t, "--mono", "--invert")
	s, _, err := previewSettings(opts)
	if err != nil {
		t.Fatalf("previewSettings() error = %v", err)
	}
	if s.Color != ui.ColorNone || s.Invert != ui.InvertOn {
		t.Fatalf("color = %v invert = %v, want mono and inverted", s.Color, s.Invert)
	}
	if s.Ramp.String() != ascii.DefaultRamp {
		t.Fatalf("ramp = %q, want the unreversed default (the preview reverses it)", s.Ramp)
	}
}
