package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	xterm "golang.org/x/term"

	"github.com/olivier-w/climg/internal/ascii"
	"github.com/olivier-w/climg/internal/downloader"
	"github.com/olivier-w/climg/internal/media"
	"github.com/olivier-w/climg/internal/queue"
	"github.com/olivier-w/climg/internal/raster"
	"github.com/olivier-w/climg/internal/ui"
)

// source is a decoded input image.
type source struct {
	img     image.Image
	path    string // local file; a temp file for downloads
	name    string
	remote  bool
	cleanup func()
}

func (s source) close() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

type urlDownloadFunc func(ctx context.Context, rawURL string) (ui.DownloadResult, error)

// openSource decodes a local file, or downloads and decodes a URL.
func openSource(ctx context.Context, arg string, download urlDownloadFunc) (source, error) {
	if downloader.IsURL(arg) {
		result, err := download(ctx, arg)
		if err != nil {
			return source{}, err
		}
		if result.Err != nil {
			if result.Cleanup != nil {
				result.Cleanup()
			}
			return source{}, result.Err
		}
		src := source{path: result.Path, name: result.Title, remote: true, cleanup: result.Cleanup}
		img, _, err := media.Open(result.Path)
		if err != nil {
			src.close()
			return source{}, fmt.Errorf("decoding %s: %w", arg, err)
		}
		src.img = img
		return src, nil
	}

	info, err := os.Stat(arg)
	if err != nil {
		return source{}, err
	}
	if info.IsDir() {
		return source{}, fmt.Errorf("%s is a directory", arg)
	}
	if !media.IsSupportedPath(arg) {
		return source{}, fmt.Errorf("%w: %s (supported: %s)", media.ErrUnsupportedFormat, filepath.Ext(arg), media.SupportedExtsList())
	}
	img, _, err := media.Open(arg)
	if err != nil {
		return source{}, fmt.Errorf("decoding %s: %w", arg, err)
	}
	return source{img: img, path: arg, name: filepath.Base(arg)}, nil
}

// previewSettings turns the command-line options into preview settings.
// columns is non-zero when -w asked for a fixed grid width.
func previewSettings(opts *options) (ui.Settings, int, error) {
	block, err := opts.blockSize(true)
	if err != nil {
		return ui.Settings{}, 0, err
	}
	ramp, preset, err := opts.ramp()
	if err != nil {
		return ui.Settings{}, 0, err
	}
	fg, err := opts.foreground()
	if err != nil {
		return ui.Settings{}, 0, err
	}
	bg, err := opts.background()
	if err != nil {
		return ui.Settings{}, 0, err
	}
	profile, err := opts.profile()
	if err != nil {
		return ui.Settings{}, 0, err
	}
	if opts.FontSize <= 0 {
		return ui.Settings{}, 0, fmt.Errorf("%w: font size %d must be positive", ascii.ErrInvalidConfig, opts.FontSize)
	}
	var font *raster.Font
	if opts.Font != "" {
		if font, err = raster.LoadFont(opts.Font); err != nil {
			return ui.Settings{}, 0, err
		}
	}

	columns := 0
	if opts.columnsSet && opts.Columns > 0 {
		columns = opts.Columns
	}
	invert := ui.InvertOff
	if opts.Invert {
		invert = ui.InvertOn
	}

	return ui.Settings{
		Block:      block,
		Ramp:       ramp,
		Preset:     preset,
		Invert:     invert,
		Color:      ui.ColorModeFor(profile),
		Foreground: fg,
		Workers:    opts.Workers,
		FitWidth:   columns == 0 && (opts.columnsSet || !opts.blockSet),
		Font:       font,
		FontSize:   opts.FontSize,
		Background: bg,
	}, columns, nil
}

// buildPreviewModel opens arg and wraps it in a preview. Local files get a
// gallery of their sibling images.
func buildPreviewModel(ctx context.Context, arg string, s ui.Settings, columns int, download urlDownloadFunc) (ui.Model, error) {
	src, err := openSource(ctx, arg, download)
	if err != nil {
		return ui.Model{}, err
	}
	if columns > 0 {
		aspect := max(1, s.Block.H/max(1, s.Block.W))
		s.Block = ascii.BlockForColumns(src.img.Bounds().Dx(), columns, aspect)
	}

	var q *queue.Queue
	if !src.remote {
		if q, err = queue.FromDir(src.path); err != nil || q.Len() < 2 {
			q = nil
		}
	}
	return ui.New(src.img, src.name, s, q, src.cleanup), nil
}

// downloadFunc returns the downloader used outside the startup screen. On a
// terminal it shows the download screen on stderr; otherwise progress goes
// to the debug log.
func downloadFunc(logger *log.Logger) urlDownloadFunc {
	return func(ctx context.Context, rawURL string) (ui.DownloadResult, error) {
		if xterm.IsTerminal(int(os.Stderr.Fd())) {
			finalModel, err := tea.NewProgram(ui.NewDownload(ctx, rawURL), tea.WithOutput(os.Stderr), tea.WithContext(ctx)).Run()
			if err != nil {
				return ui.DownloadResult{}, err
			}
			dm, ok := finalModel.(ui.DownloadModel)
			if !ok {
				return ui.DownloadResult{}, fmt.Errorf("unexpected model type from downloader")
			}
			return dm.Result(), nil
		}

		lastPhase := ""
		path, title, cleanup, err := downloader.Download(ctx, rawURL, func(s downloader.DownloadStatus) {
			if s.Phase != lastPhase {
				lastPhase = s.Phase
				logger.Debug(s.Phase, "url", rawURL, "bytes", s.Downloaded)
			}
		})
		return ui.DownloadResult{Path: path, Title: title, Cleanup: cleanup, Err: err}, nil
	}
}
