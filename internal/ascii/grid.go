package ascii

import (
	"fmt"
	"image/color"
	"strings"
)

// Cell is one character of the grid together with the average color of the
// block it was sampled from.
type Cell struct {
	Char   rune
	Colour color.NRGBA
}

// Grid is a row-major collection of cells. It is read-only once built.
type Grid struct {
	cells  []Cell
	width  int
	height int
}

// NewGrid wraps cells as a width x height grid. The slice is copied.
func NewGrid(cells []Cell, width, height int) (Grid, error) {
	if width < 0 || height < 0 || len(cells) != width*height {
		return Grid{}, fmt.Errorf("%w: %d cells cannot form a %dx%d grid", ErrInvalidConfig, len(cells), width, height)
	}
	owned := make([]Cell, len(cells))
	copy(owned, cells)
	return Grid{cells: owned, width: width, height: height}, nil
}

// Width returns the number of columns.
func (g Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g Grid) Height() int { return g.height }

// Len returns the number of cells.
func (g Grid) Len() int { return len(g.cells) }

// Empty reports whether the grid has no cells.
func (g Grid) Empty() bool { return len(g.cells) == 0 }

// At returns the cell at column x, row y. It panics when (x, y) lies outside
// the grid instead of wrapping into a neighbouring row.
func (g Grid) At(x, y int) Cell {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		panic(fmt.Sprintf("ascii: cell (%d,%d) out of range for %dx%d grid", x, y, g.width, g.height))
	}
	return g.cells[x+g.width*y]
}

// Row returns a copy of row y.
func (g Grid) Row(y int) []Cell {
	if y < 0 || y >= g.height {
		panic(fmt.Sprintf("ascii: row %d out of range for %dx%d grid", y, g.width, g.height))
	}
	out := make([]Cell, g.width)
	copy(out, g.cells[g.width*y:g.width*(y+1)])
	return out
}

// Cells returns a copy of all cells in row-major order.
func (g Grid) Cells() []Cell {
	out := make([]Cell, len(g.cells))
	copy(out, g.cells)
	return out
}

// Runes returns the distinct characters used by the grid, in first-seen order.
func (g Grid) Runes() []rune {
	seen := make(map[rune]bool)
	var out []rune
	for _, c := range g.cells {
		if !seen[c.Char] {
			seen[c.Char] = true
			out = append(out, c.Char)
		}
	}
	return out
}

// String renders the characters row by row, each row terminated by '\n'.
func (g Grid) String() string {
	var sb strings.Builder
	sb.Grow(len(g.cells)*2 + g.height)
	for y := 0; y < g.height; y++ {
		for _, c := range g.cells[g.width*y : g.width*(y+1)] {
			sb.WriteRune(c.Char)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseText splits text produced by Grid.String back into character rows.
// A trailing newline does not produce an extra empty row.
func ParseText(s string) [][]rune {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	rows := make([][]rune, len(lines))
	for i, line := range lines {
		rows[i] = []rune(strings.TrimSuffix(line, "\r"))
	}
	return rows
}
