package downloader

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		`  cat: "the/best" <1>  `: "cat thebest 1",
		`???`:                     "download",
		"plain.png":               "plain.png",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveOutputPathInheritsExtension(t *testing.T) {
	cases := []struct {
		input, output, want string
	}{
		{input: "photo.jpg", output: "out", want: "out.jpg"},
		{input: "photo.jpg", output: "out.png", want: "out.png"},
		{input: "noext", output: "out", want: "out.png"},
	}
	for _, tc := range cases {
		if got := ResolveOutputPath(tc.input, tc.output); got != tc.want {
			t.Fatalf("ResolveOutputPath(%q, %q) = %q, want %q", tc.input, tc.output, got, tc.want)
		}
	}
}

func TestDefaultOutputName(t *testing.T) {
	if got := DefaultOutputName("/pics/cat.jpeg", ".png"); got != "cat-ascii.png" {
		t.Fatalf("DefaultOutputName() = %q, want cat-ascii.png", got)
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "art.png")
	if got := UniquePath(path); got != path {
		t.Fatalf("UniquePath() = %q, want %q for a fresh path", got, path)
	}
	for _, p := range []string{path, filepath.Join(dir, "art (1).png")} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	if got, want := UniquePath(path), filepath.Join(dir, "art (2).png"); got != want {
		t.Fatalf("UniquePath() = %q, want %q", got, want)
	}
}

func TestSaveFileRefusesOverwriteWithoutForce(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.txt")
	if err := os.WriteFile(dest, []byte("old"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	write := func(w io.Writer) error {
		_, err := io.WriteString(w, "new")
		return err
	}

	if err := SaveFile(dest, false, write); !errors.Is(err, ErrExists) {
		t.Fatalf("SaveFile() error = %v, want ErrExists", err)
	}
	if err := SaveFile(dest, true, write); err != nil {
		t.Fatalf("SaveFile(force) unexpected error: %v", err)
	}
	data, _ := os.ReadFile(dest)
	if string(data) != "new" {
		t.Fatalf("file contents = %q, want new", data)
	}
}

func TestSaveFileLeavesNothingOnWriteError(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.png")
	boom := errors.New("boom")
	if err := SaveFile(dest, false, func(io.Writer) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("SaveFile() error = %v, want %v", err, boom)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty dir after failed save, found %d entries", len(entries))
	}
}
