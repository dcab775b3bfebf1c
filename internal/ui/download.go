package ui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/climg/internal/downloader"
	"github.com/olivier-w/climg/internal/util"
)

// ErrDownloadCancelled is reported when the user quits during a download.
var ErrDownloadCancelled = errors.New("download was cancelled")

// DownloadResult is a fetched image on disk. Cleanup removes the temp file
// and is set even when Err is, if anything was written.
type DownloadResult struct {
	Path    string
	Title   string
	Cleanup func()
	Err     error
}

type (
	downloadStatusMsg downloader.DownloadStatus
	downloadDoneMsg   DownloadResult
)

// DownloadModel fetches a single URL with a progress screen and quits when
// the transfer ends.
type DownloadModel struct {
	url     string
	host    string
	started time.Time

	ctx    context.Context
	cancel context.CancelFunc

	spinner  spinner.Model
	progress progress.Model
	status   downloader.DownloadStatus
	updates  chan downloader.DownloadStatus

	result *DownloadResult
	done   bool
}

// NewSpinner returns the spinner used on loading screens.
func NewSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(accentColor)),
	)
}

// NewProgressBar returns the progress bar used for downloads.
func NewProgressBar() progress.Model {
	return progress.New(
		progress.WithScaledGradient("#F2A65A", "#B4530A"),
		progress.WithoutPercentage(),
	)
}

// ProgressWidth clamps a progress bar to fit the window.
func ProgressWidth(windowWidth int) int {
	return min(max(windowWidth-8, 20), 60)
}

// NewDownload creates a download screen for rawURL. The transfer starts in
// Init and stops when ctx is cancelled or the user quits.
func NewDownload(ctx context.Context, rawURL string) DownloadModel {
	ctx, cancel := context.WithCancel(ctx)
	return DownloadModel{
		url:      rawURL,
		host:     urlHost(rawURL),
		started:  time.Now(),
		ctx:      ctx,
		cancel:   cancel,
		spinner:  NewSpinner(),
		progress: NewProgressBar(),
		status:   downloader.DownloadStatus{Phase: "Connecting...", Total: -1},
		updates:  make(chan downloader.DownloadStatus, 64),
	}
}

func urlHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

// Result returns the download outcome; a model that never finished reports
// ErrDownloadCancelled.
func (m DownloadModel) Result() DownloadResult {
	if m.result == nil {
		return DownloadResult{Err: ErrDownloadCancelled}
	}
	return *m.result
}

func (m DownloadModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch, m.nextStatus)
}

func (m DownloadModel) fetch() tea.Msg {
	path, title, cleanup, err := downloader.Download(m.ctx, m.url, func(s downloader.DownloadStatus) {
		select {
		case m.updates <- s:
		default:
		}
	})
	close(m.updates)
	return downloadDoneMsg{Path: path, Title: title, Cleanup: cleanup, Err: err}
}

func (m DownloadModel) nextStatus() tea.Msg {
	s, ok := <-m.updates
	if !ok {
		return nil
	}
	return downloadStatusMsg(s)
}

func (m DownloadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isQuit(msg) {
			return m.finish(DownloadResult{Err: ErrDownloadCancelled})
		}
	case downloadStatusMsg:
		m.status = downloader.DownloadStatus(msg)
		return m, m.nextStatus
	case downloadDoneMsg:
		return m.finish(DownloadResult(msg))
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.progress.Width = ProgressWidth(msg.Width)
	}
	return m, nil
}

func (m DownloadModel) finish(res DownloadResult) (DownloadModel, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	m.result = &res
	m.done = true
	return m, tea.Quit
}

func (m DownloadModel) View() string {
	if m.done {
		return ""
	}
	header := headerStyle.Render("climg") + "  " + detailStyle.Render(m.host)
	elapsed := helpStyle.Render(util.FormatDuration(time.Since(m.started)) + " elapsed  q cancel")
	return "\n  " + header + "\n\n" + RenderDownloadStatus(m.status, m.spinner, m.progress) + "\n  " + elapsed + "\n"
}

// RenderDownloadStatus shows a progress bar once the body size is known and
// a spinner with a byte count before that.
func RenderDownloadStatus(s downloader.DownloadStatus, sp spinner.Model, bar progress.Model) string {
	if s.Total > 0 && s.Phase == "Downloading..." {
		frac := s.Fraction()
		return fmt.Sprintf("  %s\n  %s  %3.0f%%\n  %s\n",
			statusStyle.Render(s.Phase),
			bar.ViewAs(frac), frac*100,
			helpStyle.Render(util.FormatBytes(s.Downloaded)+" of "+util.FormatBytes(s.Total)))
	}
	label := s.Phase
	if label == "" {
		label = "Opening..."
	}
	if s.Downloaded > 0 {
		label = fmt.Sprintf("%s  %s", label, util.FormatBytes(s.Downloaded))
	}
	return "  " + sp.View() + " " + statusStyle.Render(label) + "\n"
}
