package main

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/muesli/termenv"

	"github.com/olivier-w/climg/internal/ascii"
	"github.com/olivier-w/climg/internal/term"
)

const (
	defaultSample   = 5
	defaultFontSize = 25
)

type options struct {
	Output       string `short:"o" long:"output" value-name:"PATH" description:"Write a raster image instead of printing (extension picks the format)"`
	Text         string `short:"t" long:"text" value-name:"PATH" description:"Write the plain character grid to a text file"`
	Sample       int    `short:"s" long:"sample" value-name:"N" description:"Sample NxN pixel blocks, height doubled in the terminal (default: 5)"`
	Block        string `long:"block" value-name:"WxH" description:"Explicit sample block size, overrides --sample"`
	Columns      int    `short:"w" long:"columns" value-name:"N" description:"Pick the block width so the grid is N columns wide (0 fits the terminal)"`
	Map          string `short:"m" long:"map" value-name:"CHARS" description:"Custom character ramp, darkest first"`
	Preset       string `long:"preset" value-name:"NAME" description:"Built-in ramp: default, solid, blocks, detailed"`
	Solid        bool   `long:"solid" description:"Shorthand for --preset solid"`
	Invert       bool   `long:"invert" description:"Reverse the character ramp"`
	FontSize     int    `short:"f" long:"font-size" value-name:"N" default:"25" description:"Glyph cell size in pixels for raster output"`
	Font         string `long:"font" value-name:"PATH" description:"TrueType/OpenType font for raster output"`
	Colour       string `short:"c" long:"colour" value-name:"COLOR" description:"Fixed foreground color (#rrggbb or r,g,b)"`
	Background   string `short:"b" long:"background" value-name:"COLOR" description:"Solid canvas background for raster output"`
	Mono         bool   `long:"mono" description:"No color escapes in terminal output"`
	ColorProfile string `long:"color-profile" value-name:"NAME" description:"Force truecolor, 256, 16 or none"`
	Interactive  bool   `short:"i" long:"interactive" description:"Open the interactive preview"`
	Workers      int    `short:"j" long:"workers" value-name:"N" description:"Worker goroutines for sampling and compositing (0 = all CPUs)"`
	Force        bool   `long:"force" description:"Overwrite existing output files"`
	Config       string `long:"config" value-name:"PATH" no-ini:"true" description:"ini file with long option names as keys"`
	Verbose      bool   `short:"v" long:"verbose" description:"Debug logging"`

	// columnsSet distinguishes -w 0 from an absent --columns.
	columnsSet bool
	blockSet   bool
}

// parseOptions parses args, layering an ini config file beneath them.
// Command-line values win over the file.
func parseOptions(args []string) (*options, []string, error) {
	opts := &options{}
	parser := flags.NewParser(opts, flags.Default)
	parser.Usage = "[options] [image|url]"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		return nil, nil, err
	}

	cfg := opts.Config
	explicit := cfg != ""
	if !explicit {
		cfg = defaultConfigPath()
	}
	if cfg != "" {
		if _, statErr := os.Stat(cfg); statErr == nil || explicit {
			if err := flags.NewIniParser(parser).ParseFile(cfg); err != nil {
				return nil, nil, fmt.Errorf("config %s: %w", cfg, err)
			}
			if rest, err = parser.ParseArgs(args); err != nil {
				return nil, nil, err
			}
		}
	}

	if opt := parser.FindOptionByLongName("columns"); opt != nil {
		opts.columnsSet = opt.IsSet()
	}
	// --sample has no default tag: go-flags reports tag defaults as set.
	if opt := parser.FindOptionByLongName("sample"); opt != nil && opt.IsSet() {
		opts.blockSet = true
	} else {
		opts.Sample = defaultSample
	}
	if opts.Block != "" {
		opts.blockSet = true
	}
	return opts, rest, nil
}

func defaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "climg", "config.ini")
}

// blockSize returns the sample block. Terminal output doubles the height
// so characters come out roughly square.
func (o *options) blockSize(terminal bool) (ascii.BlockSize, error) {
	if o.Block != "" {
		return parseBlock(o.Block)
	}
	n := o.Sample
	if n <= 0 {
		return ascii.BlockSize{}, fmt.Errorf("%w: sample size %d must be positive", ascii.ErrInvalidConfig, n)
	}
	if terminal {
		return ascii.BlockSize{W: n, H: 2 * n}, nil
	}
	return ascii.BlockSize{W: n, H: n}, nil
}

// aspect is the block height to width ratio used when fitting columns.
func (o *options) aspect(terminal bool) int {
	if o.Block != "" {
		if b, err := parseBlock(o.Block); err == nil {
			return max(1, b.H/b.W)
		}
	}
	if terminal {
		return 2
	}
	return 1
}

func parseBlock(s string) (ascii.BlockSize, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return ascii.BlockSize{}, fmt.Errorf("%w: block %q must look like WxH", ascii.ErrInvalidConfig, s)
	}
	bw, errW := strconv.Atoi(w)
	bh, errH := strconv.Atoi(h)
	if err := errors.Join(errW, errH); err != nil {
		return ascii.BlockSize{}, fmt.Errorf("%w: block %q: %v", ascii.ErrInvalidConfig, s, err)
	}
	b := ascii.BlockSize{W: bw, H: bh}
	return b, b.Validate()
}

// ramp resolves --map, --solid and --preset, in that order of precedence.
// The returned preset name is empty for a custom map.
func (o *options) ramp() (ascii.Ramp, string, error) {
	if o.Map != "" {
		r, err := ascii.NewRamp(o.Map)
		return r, "", err
	}
	name := o.Preset
	if o.Solid {
		name = "solid"
	}
	if name == "" {
		name = "default"
	}
	r, err := ascii.Preset(name)
	return r, strings.ToLower(name), err
}

func (o *options) foreground() (color.Color, error) {
	if o.Colour == "" {
		return nil, nil
	}
	return term.ParseColor(o.Colour)
}

func (o *options) background() (color.Color, error) {
	if o.Background == "" {
		return nil, nil
	}
	return term.ParseColor(o.Background)
}

// profile picks the terminal color profile: --mono, then --color-profile,
// then the environment.
func (o *options) profile() (termenv.Profile, error) {
	if o.Mono {
		return termenv.Ascii, nil
	}
	if o.ColorProfile != "" {
		return term.ParseProfile(o.ColorProfile)
	}
	return term.DetectProfile(), nil
}
