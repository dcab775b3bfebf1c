package ascii

import (
	"fmt"
	"image"
	"image/color"
	"runtime"
	"sync"
)

// BlockSize is the pixel footprint averaged into one cell.
type BlockSize struct {
	W int
	H int
}

// Validate returns ErrInvalidConfig for non-positive dimensions.
func (b BlockSize) Validate() error {
	if b.W <= 0 || b.H <= 0 {
		return fmt.Errorf("%w: sample block %dx%d must be positive", ErrInvalidConfig, b.W, b.H)
	}
	return nil
}

func (b BlockSize) String() string {
	return fmt.Sprintf("%dx%d", b.W, b.H)
}

// GridSize returns the grid dimensions an image of the given bounds yields.
// Remainder pixels at the right and bottom edges are dropped.
func GridSize(bounds image.Rectangle, block BlockSize) (int, int) {
	if block.W <= 0 || block.H <= 0 {
		return 0, 0
	}
	return bounds.Dx() / block.W, bounds.Dy() / block.H
}

// Sample partitions img into blocks and returns one average color per block
// in row-major order along with the grid dimensions.
//
// Each channel is summed exactly and divided once by the pixel count.
// workers <= 0 uses GOMAXPROCS; every worker fills a disjoint range of
// block rows, so the result does not depend on the worker count.
func Sample(img image.Image, block BlockSize, workers int) ([]color.NRGBA, int, int, error) {
	if err := block.Validate(); err != nil {
		return nil, 0, 0, err
	}
	gw, gh := GridSize(img.Bounds(), block)
	out := make([]color.NRGBA, gw*gh)
	if len(out) == 0 {
		return out, gw, gh, nil
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > gh {
		workers = gh
	}

	if workers == 1 {
		sampleRows(img, block, gw, 0, gh, out)
		return out, gw, gh, nil
	}

	var wg sync.WaitGroup
	rowsPer := (gh + workers - 1) / workers
	for start := 0; start < gh; start += rowsPer {
		end := min(start+rowsPer, gh)
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			sampleRows(img, block, gw, start, end, out)
		}(start, end)
	}
	wg.Wait()

	return out, gw, gh, nil
}

// sampleRows averages block rows [start, end) into out.
func sampleRows(img image.Image, block BlockSize, gw, start, end int, out []color.NRGBA) {
	origin := img.Bounds().Min
	for by := start; by < end; by++ {
		for bx := 0; bx < gw; bx++ {
			r := image.Rect(bx*block.W, by*block.H, (bx+1)*block.W, (by+1)*block.H).Add(origin)
			out[bx+gw*by] = averageBlock(img, r)
		}
	}
}

// averageBlock returns the per-channel mean of every pixel in r.
func averageBlock(img image.Image, r image.Rectangle) color.NRGBA {
	var sr, sg, sb, sa uint64

	switch src := img.(type) {
	case *image.NRGBA:
		for y := r.Min.Y; y < r.Max.Y; y++ {
			off := src.PixOffset(r.Min.X, y)
			for x := r.Min.X; x < r.Max.X; x++ {
				sr += uint64(src.Pix[off])
				sg += uint64(src.Pix[off+1])
				sb += uint64(src.Pix[off+2])
				sa += uint64(src.Pix[off+3])
				off += 4
			}
		}
	case *image.RGBA:
		for y := r.Min.Y; y < r.Max.Y; y++ {
			off := src.PixOffset(r.Min.X, y)
			for x := r.Min.X; x < r.Max.X; x++ {
				c := unpremultiply(src.Pix[off], src.Pix[off+1], src.Pix[off+2], src.Pix[off+3])
				sr += uint64(c.R)
				sg += uint64(c.G)
				sb += uint64(c.B)
				sa += uint64(c.A)
				off += 4
			}
		}
	default:
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				sr += uint64(c.R)
				sg += uint64(c.G)
				sb += uint64(c.B)
				sa += uint64(c.A)
			}
		}
	}

	n := uint64(r.Dx() * r.Dy())
	return color.NRGBA{
		R: uint8(sr / n),
		G: uint8(sg / n),
		B: uint8(sb / n),
		A: uint8(sa / n),
	}
}

// unpremultiply matches color.NRGBAModel for an 8-bit premultiplied pixel.
func unpremultiply(r, g, b, a uint8) color.NRGBA {
	switch a {
	case 0xff:
		return color.NRGBA{R: r, G: g, B: b, A: a}
	case 0:
		return color.NRGBA{}
	}
	a16 := uint32(a) * 0x101
	return color.NRGBA{
		R: uint8((uint32(r) * 0x101 * 0xffff / a16) >> 8),
		G: uint8((uint32(g) * 0x101 * 0xffff / a16) >> 8),
		B: uint8((uint32(b) * 0x101 * 0xffff / a16) >> 8),
		A: a,
	}
}
