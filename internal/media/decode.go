package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for files that are neither images nor
// audio files with cover art.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Decode reads a single image. Animated GIFs decode to their first frame.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}
	return img, format, nil
}

// Open decodes the image at path. Audio files yield their embedded cover art.
func Open(path string) (image.Image, string, error) {
	ext := filepath.Ext(path)
	switch {
	case IsCoverArtExt(ext):
		art, err := CoverArt(path)
		if err != nil {
			return nil, "", err
		}
		img, format, err := Decode(bytes.NewReader(art.Data))
		if err != nil {
			return nil, "", fmt.Errorf("cover art in %s: %w", filepath.Base(path), err)
		}
		return img, format, nil
	case IsImageExt(ext), ext == "":
		f, err := os.Open(path)
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		return Decode(f)
	default:
		return nil, "", fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedFormat, ext, SupportedExtsList())
	}
}
