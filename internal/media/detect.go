package media

import (
	"path/filepath"
	"strings"
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// Audio containers whose embedded cover art can be shown.
var coverArtExts = map[string]bool{
	".mp3":  true,
	".flac": true,
}

// IsImageExt returns true if the extension is a decodable image format.
func IsImageExt(ext string) bool {
	return imageExts[strings.ToLower(ext)]
}

// IsCoverArtExt returns true if the extension is an audio file that may carry cover art.
func IsCoverArtExt(ext string) bool {
	return coverArtExts[strings.ToLower(ext)]
}

// IsSupportedExt returns true if files with this extension can be opened.
func IsSupportedExt(ext string) bool {
	return IsImageExt(ext) || IsCoverArtExt(ext)
}

// IsSupportedPath is IsSupportedExt for the extension of path.
func IsSupportedPath(path string) bool {
	return IsSupportedExt(filepath.Ext(path))
}

// SupportedExtsList returns a human-readable list of supported input formats.
func SupportedExtsList() string {
	return ".png, .jpg, .jpeg, .gif, .webp, .bmp, .tif, .tiff, .mp3 (cover art), .flac (cover art)"
}
