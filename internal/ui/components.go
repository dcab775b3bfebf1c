package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/olivier-w/climg/internal/ascii"
)

// renderScrollBar draws how far through the art the viewport is.
func renderScrollBar(ratio float64, width int) string {
	if width < 10 {
		width = 10
	}
	barWidth := width - 2

	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	filled := int(ratio * float64(barWidth))
	return strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)
}

func renderGridSize(g ascii.Grid, block ascii.BlockSize) string {
	return fmt.Sprintf("%dx%d cells  block %s", g.Width(), g.Height(), block)
}

// joinEnds places left and right on one line of the given width.
func joinEnds(left, right string, width int) string {
	gap := width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}
