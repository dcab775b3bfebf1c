package ascii

import "image/color"

// Luma reduces a color to a single 0-255 intensity using the Rec. 709
// weights. Alpha is ignored.
func Luma(c color.NRGBA) uint8 {
	return uint8((2126*uint32(c.R) + 7152*uint32(c.G) + 722*uint32(c.B)) / 10000)
}
