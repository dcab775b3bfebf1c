package downloader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrExists is returned when an output file is present and overwriting was
// not requested.
var ErrExists = errors.New("file already exists")

var invalidFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// SanitizeFilename strips characters invalid in filenames and trims whitespace.
// Falls back to "download" if the result is empty.
func SanitizeFilename(name string) string {
	name = invalidFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	if name == "" {
		return "download"
	}
	return name
}

// ResolveOutputPath returns output, inheriting the input's extension when
// output has none.
func ResolveOutputPath(input, output string) string {
	if filepath.Ext(output) != "" {
		return output
	}
	ext := filepath.Ext(input)
	if ext == "" {
		ext = ".png"
	}
	return output + ext
}

// DefaultOutputName derives "<name>-ascii<ext>" from the input path.
func DefaultOutputName(input, ext string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return SanitizeFilename(stem) + "-ascii" + ext
}

// UniquePath returns path, or the first "name (n).ext" that does not exist.
func UniquePath(path string) string {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, i, ext)
		if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate
		}
	}
}

// SaveFile writes dest through write. The data goes to a temporary file in
// the same directory first and is renamed into place, so a failed write
// never leaves a truncated file behind.
func SaveFile(dest string, force bool, write func(io.Writer) error) error {
	if !force {
		if _, err := os.Stat(dest); err == nil {
			return fmt.Errorf("%w: %q (use --force to overwrite)", ErrExists, dest)
		}
	}

	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".climg-*")
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Chmod(0o644)

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("saving %s: %w", dest, err)
	}
	return nil
}
