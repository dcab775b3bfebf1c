package downloader

import (
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/olivier-w/climg/internal/media"
)

var (
	// ErrUnsupportedScheme is returned for URLs that are not http(s).
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
	// ErrNotImage is returned when the server answers with a document
	// rather than image data.
	ErrNotImage = errors.New("URL does not point to an image")
	// ErrTooLarge is returned when a response exceeds MaxImageBytes.
	ErrTooLarge = errors.New("image too large")
)

// IsURL returns true if the argument looks like a URL.
func IsURL(arg string) bool {
	arg = strings.ToLower(strings.TrimSpace(arg))
	return strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://")
}

func normalizeAndValidateURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"'`)
	s = strings.TrimSpace(s)

	parsed, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", s, err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid URL %q: missing host", s)
	}
	return parsed.String(), nil
}

func normalizeContentType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return strings.ToLower(mediaType)
	}
	return strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
}

// Servers that return text are almost always serving an HTML page about
// the image, not the image itself.
func isDocumentContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "text/") ||
		contentType == "application/json" ||
		contentType == "application/xhtml+xml"
}

var imageContentExts = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
	"image/tiff": ".tiff",
}

// nameFromURL picks a local file name for a downloaded image: the last path
// segment, with an extension derived from the content type when the URL has
// no usable one.
func nameFromURL(rawURL, contentType string) string {
	base := "image"
	if parsed, err := url.Parse(rawURL); err == nil {
		if seg := path.Base(parsed.Path); seg != "/" && seg != "." && seg != "" {
			if unescaped, err := url.PathUnescape(seg); err == nil {
				seg = unescaped
			}
			base = seg
		}
	}
	base = SanitizeFilename(base)

	ext := path.Ext(base)
	if media.IsImageExt(ext) {
		return base
	}
	if e, ok := imageContentExts[contentType]; ok {
		return strings.TrimSuffix(base, ext) + e
	}
	return base
}
