package main

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/olivier-w/climg/internal/ascii"
	"github.com/olivier-w/climg/internal/downloader"
	"github.com/olivier-w/climg/internal/raster"
	"github.com/olivier-w/climg/internal/term"
)

// fallbackColumns is used for -w 0 when stdout is not a terminal.
const fallbackColumns = 80

// converter runs one non-interactive conversion. Every option is resolved
// and validated by newConverter, before any image is opened.
type converter struct {
	opts   *options
	log    *log.Logger
	stdout io.Writer
	// termWidth reports the terminal width in columns, or 0 when unknown.
	termWidth func() int

	block      ascii.BlockSize
	ramp       ascii.Ramp
	preset     string
	foreground color.Color
	background color.Color
	profile    termenv.Profile
	font       *raster.Font
}

func newConverter(opts *options, logger *log.Logger, stdout io.Writer, termWidth func() int) (*converter, error) {
	c := &converter{opts: opts, log: logger, stdout: stdout, termWidth: termWidth}

	var err error
	if c.block, err = opts.blockSize(!c.rasterOutput()); err != nil {
		return nil, err
	}
	if c.ramp, c.preset, err = opts.ramp(); err != nil {
		return nil, err
	}
	if opts.Invert {
		c.ramp = c.ramp.Reverse()
	}
	if c.foreground, err = opts.foreground(); err != nil {
		return nil, err
	}
	if c.background, err = opts.background(); err != nil {
		return nil, err
	}
	if c.printing() {
		if c.profile, err = opts.profile(); err != nil {
			return nil, err
		}
	}
	if c.rasterOutput() {
		if opts.FontSize <= 0 {
			return nil, fmt.Errorf("%w: font size %d must be positive", ascii.ErrInvalidConfig, opts.FontSize)
		}
		if opts.Font != "" {
			c.font, err = raster.LoadFont(opts.Font)
		} else {
			c.font, err = raster.DefaultFont()
		}
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *converter) rasterOutput() bool { return c.opts.Output != "" }

func (c *converter) printing() bool { return c.opts.Output == "" && c.opts.Text == "" }

// blockFor applies -w to the configured block.
func (c *converter) blockFor(imgW int) ascii.BlockSize {
	if !c.opts.columnsSet {
		return c.block
	}
	cols := c.opts.Columns
	if cols == 0 {
		if !c.printing() {
			return c.block
		}
		if cols = c.termWidth(); cols <= 0 {
			cols = fallbackColumns
		}
	}
	return ascii.BlockForColumns(imgW, cols, c.opts.aspect(!c.rasterOutput()))
}

func (c *converter) run(src source) error {
	block := c.blockFor(src.img.Bounds().Dx())
	if err := ascii.CheckSource(src.img.Bounds(), block); err != nil {
		return fmt.Errorf("%s: %w", src.name, err)
	}

	start := time.Now()
	g, err := ascii.Build(src.img, ascii.Options{Block: block, Ramp: c.ramp, Workers: c.opts.Workers})
	if err != nil {
		return err
	}
	c.log.Debug("built grid",
		"source", src.name,
		"grid", fmt.Sprintf("%dx%d", g.Width(), g.Height()),
		"block", block.String(),
		"preset", c.preset,
		"elapsed", time.Since(start))

	if c.rasterOutput() {
		if err := c.writeRaster(src, g); err != nil {
			return err
		}
	}
	if c.opts.Text != "" {
		if err := c.writeText(g); err != nil {
			return err
		}
	}
	if c.printing() {
		c.log.Debug("printing", "profile", term.ProfileName(c.profile))
		r := term.Renderer{Profile: c.profile, Foreground: c.foreground}
		return r.Render(c.stdout, g)
	}
	return nil
}

func (c *converter) writeRaster(src source, g ascii.Grid) error {
	dest := downloader.ResolveOutputPath(src.path, c.opts.Output)
	format, ok := raster.FormatFromPath(dest)
	if !ok {
		ext := filepath.Ext(dest)
		dest = strings.TrimSuffix(dest, ext) + ".png"
		c.log.Warn("no encoder for output extension, writing PNG", "ext", ext, "path", dest)
	}

	start := time.Now()
	comp := raster.Compositor{
		Font:       c.font,
		FontSize:   c.opts.FontSize,
		Background: c.background,
		Foreground: c.foreground,
		Workers:    c.opts.Workers,
	}
	res, err := comp.Render(g)
	if err != nil {
		return err
	}
	if rerr := res.Err(); rerr != nil {
		c.log.Warn("some cells were left blank", "err", rerr)
	}

	err = downloader.SaveFile(dest, c.opts.Force, func(w io.Writer) error {
		return raster.Encode(w, res.Image, format)
	})
	if err != nil {
		return err
	}
	b := res.Image.Bounds()
	c.log.Info("wrote image", "path", dest, "size", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()), "format", format, "elapsed", time.Since(start))
	return nil
}

func (c *converter) writeText(g ascii.Grid) error {
	err := downloader.SaveFile(c.opts.Text, c.opts.Force, func(w io.Writer) error {
		_, err := io.WriteString(w, g.String())
		return err
	})
	if err != nil {
		return err
	}
	c.log.Info("wrote text", "path", c.opts.Text, "grid", fmt.Sprintf("%dx%d", g.Width(), g.Height()))
	return nil
}

