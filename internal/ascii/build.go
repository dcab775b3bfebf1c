package ascii

import (
	"fmt"
	"image"
)

// Options configures grid construction.
type Options struct {
	Block   BlockSize
	Ramp    Ramp
	Workers int // <= 0 uses GOMAXPROCS
}

// Validate checks the options before any pixel is touched.
func (o Options) Validate() error {
	if err := o.Block.Validate(); err != nil {
		return err
	}
	if !o.Ramp.Valid() {
		return fmt.Errorf("%w: character ramp is empty", ErrInvalidConfig)
	}
	return nil
}

// Build samples img into a grid of cells. Identical inputs always yield an
// identical grid. An image smaller than one block yields an empty grid and no
// error; use CheckSource to report that case.
func Build(img image.Image, opts Options) (Grid, error) {
	if err := opts.Validate(); err != nil {
		return Grid{}, err
	}

	averages, gw, gh, err := Sample(img, opts.Block, opts.Workers)
	if err != nil {
		return Grid{}, err
	}

	cells := make([]Cell, len(averages))
	for i, avg := range averages {
		cells[i] = Cell{
			Char:   opts.Ramp.Char(Luma(avg)),
			Colour: avg,
		}
	}

	return NewGrid(cells, gw, gh)
}

// CheckSource returns ErrSourceTooSmall when bounds cannot hold a single block.
func CheckSource(bounds image.Rectangle, block BlockSize) error {
	if err := block.Validate(); err != nil {
		return err
	}
	if bounds.Dx() < block.W || bounds.Dy() < block.H {
		return fmt.Errorf("%w: %dx%d image, %s block", ErrSourceTooSmall, bounds.Dx(), bounds.Dy(), block)
	}
	return nil
}

// BlockForColumns picks the block width that makes an image of width imgW
// at most cols columns wide. aspect scales the height (2 for terminal cells,
// 1 for square raster cells).
func BlockForColumns(imgW, cols, aspect int) BlockSize {
	if cols <= 0 || imgW <= 0 {
		return BlockSize{}
	}
	w := (imgW + cols - 1) / cols
	if w < 1 {
		w = 1
	}
	if aspect < 1 {
		aspect = 1
	}
	return BlockSize{W: w, H: w * aspect}
}
