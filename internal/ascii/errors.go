package ascii

import "errors"

var (
	// ErrInvalidConfig is returned for a zero-sized sample block, an empty
	// character ramp or a zero font size. It is always reported before any
	// pixels are sampled.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSourceTooSmall reports that an image is smaller than one sample block
	// in at least one dimension, so the resulting grid is empty.
	ErrSourceTooSmall = errors.New("source image smaller than sample block")

	// ErrRenderFailure reports that one or more cells could not be drawn,
	// usually because the font has no glyph for the cell's character.
	ErrRenderFailure = errors.New("render failure")
)
