package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/jessevdk/go-flags"
	xterm "golang.org/x/term"

	"github.com/olivier-w/climg/internal/ui"
)

func main() {
	opts, args, err := parseOptions(os.Args[1:])
	if err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		var ferr *flags.Error
		if !errors.As(err, &ferr) {
			// go-flags prints its own parse errors.
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	logger := newLogger(opts.Verbose)
	if err := run(context.Background(), opts, args, logger); err != nil {
		reportError(logger, err)
		os.Exit(1)
	}
}

func reportError(logger *log.Logger, err error) {
	logger.Printf("Error: %v", err)
}

func newLogger(verbose bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "climg"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func run(ctx context.Context, opts *options, args []string, logger *log.Logger) error {
	if len(args) > 1 {
		return fmt.Errorf("expected one image or URL, got %d arguments", len(args))
	}

	if len(args) == 0 || opts.Interactive {
		settings, columns, err := previewSettings(opts)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return runStartup(settings, columns)
		}
		return runPreview(ctx, args[0], settings, columns, logger)
	}

	c, err := newConverter(opts, logger, os.Stdout, stdoutWidth)
	if err != nil {
		return err
	}
	src, err := openSource(ctx, args[0], downloadFunc(logger))
	if err != nil {
		return err
	}
	defer src.close()
	return c.run(src)
}

// runStartup shows the file browser and opens the chosen image in place.
func runStartup(settings ui.Settings, columns int) error {
	p := tea.NewProgram(newStartupModel(settings, columns), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func runPreview(ctx context.Context, arg string, settings ui.Settings, columns int, logger *log.Logger) error {
	model, err := buildPreviewModel(ctx, arg, settings, columns, downloadFunc(logger))
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func stdoutWidth() int {
	w, _, err := xterm.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return w
}
