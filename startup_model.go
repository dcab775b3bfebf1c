package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/climg/internal/downloader"
	"github.com/olivier-w/climg/internal/ui"
)

type (
	startupResolvedMsg struct {
		model ui.Model
		err   error
	}
	startupStatusMsg downloader.DownloadStatus
)

// opening tracks an in-flight open of the selected file or URL.
type opening struct {
	target  string
	cancel  context.CancelFunc
	status  downloader.DownloadStatus
	updates chan downloader.DownloadStatus
}

// startupModel hosts the file browser and replaces itself with the preview
// once the chosen image is decoded. A failed open drops back to the browser
// with the error shown above it.
type startupModel struct {
	browser  ui.BrowserModel
	settings ui.Settings
	columns  int

	open    *opening
	lastErr string

	width, height int
	spinner       spinner.Model
	progress      progress.Model
}

func newStartupModel(settings ui.Settings, columns int) startupModel {
	return startupModel{
		browser:  ui.NewEmbeddedBrowser(),
		settings: settings,
		columns:  columns,
		spinner:  ui.NewSpinner(),
		progress: ui.NewProgressBar(),
	}
}

func (m startupModel) Init() tea.Cmd {
	return m.browser.Init()
}

func (m startupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.progress.Width = ui.ProgressWidth(msg.Width)
	case ui.BrowserSelectedMsg:
		return m.startOpening(msg.Path)
	case ui.BrowserCancelledMsg:
		return m, quitCmd()
	case startupStatusMsg:
		if m.open == nil {
			return m, nil
		}
		m.open.status = downloader.DownloadStatus(msg)
		return m, m.open.next()
	case startupResolvedMsg:
		return m.resolve(msg)
	case spinner.TickMsg:
		if m.open == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if m.open != nil {
			switch msg.String() {
			case "q", "esc", "ctrl+c":
				m.open.cancel()
				return m, quitCmd()
			}
			return m, nil
		}
	}

	if m.open != nil {
		return m, nil
	}
	model, cmd := m.browser.Update(msg)
	if b, ok := model.(ui.BrowserModel); ok {
		m.browser = b
	}
	return m, cmd
}

func (m startupModel) startOpening(target string) (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	m.lastErr = ""
	m.open = &opening{
		target:  target,
		cancel:  cancel,
		status:  downloader.DownloadStatus{Phase: "Opening...", Total: -1},
		updates: make(chan downloader.DownloadStatus, 16),
	}
	return m, tea.Batch(
		m.spinner.Tick,
		m.open.next(),
		openSelectionCmd(ctx, target, m.settings, m.columns, m.open.updates),
	)
}

func (m startupModel) resolve(msg startupResolvedMsg) (tea.Model, tea.Cmd) {
	if m.open != nil {
		m.open.cancel()
		m.open = nil
	}
	if msg.err != nil {
		m.lastErr = msg.err.Error()
		return m, nil
	}

	cmds := []tea.Cmd{msg.model.Init()}
	if m.width > 0 || m.height > 0 {
		size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
		cmds = append(cmds, func() tea.Msg { return size })
	}
	return msg.model, tea.Batch(cmds...)
}

func (o *opening) next() tea.Cmd {
	updates := o.updates
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return nil
		}
		return startupStatusMsg(s)
	}
}

func quitCmd() tea.Cmd {
	return tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

func (m startupModel) View() string {
	if m.open != nil {
		name := m.open.target
		if !downloader.IsURL(name) {
			name = filepath.Base(name)
		}
		return "\n  " + ui.Banner(name) + "\n\n" +
			ui.RenderDownloadStatus(m.open.status, m.spinner, m.progress) +
			"\n  " + ui.HelpText("q cancel") + "\n"
	}
	if m.lastErr == "" || m.browser.HasError() {
		return m.browser.View()
	}
	return "\n  " + ui.ErrorText(m.lastErr) + "\n\n" + indent(m.browser.View(), "  ")
}

// openSelectionCmd opens target off the UI goroutine, forwarding download
// progress to updates, which it closes when done.
func openSelectionCmd(ctx context.Context, target string, settings ui.Settings, columns int, updates chan downloader.DownloadStatus) tea.Cmd {
	return func() tea.Msg {
		defer close(updates)
		download := func(ctx context.Context, rawURL string) (ui.DownloadResult, error) {
			return downloadURLInline(ctx, rawURL, updates), nil
		}
		model, err := buildPreviewModel(ctx, target, settings, columns, download)
		return startupResolvedMsg{model: model, err: err}
	}
}

// downloadURLInline downloads without its own program; status updates are
// dropped when the receiver falls behind.
func downloadURLInline(ctx context.Context, rawURL string, updates chan<- downloader.DownloadStatus) ui.DownloadResult {
	path, title, cleanup, err := downloader.Download(ctx, rawURL, func(s downloader.DownloadStatus) {
		select {
		case updates <- s:
		default:
		}
	})
	return ui.DownloadResult{Path: path, Title: title, Cleanup: cleanup, Err: err}
}

func indent(s, prefix string) string {
	var b strings.Builder
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		if line != "" {
			b.WriteString(prefix)
		}
		b.WriteString(line)
	}
	return b.String()
}
