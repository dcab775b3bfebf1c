package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/climg/internal/downloader"
	"github.com/olivier-w/climg/internal/media"
	"github.com/olivier-w/climg/internal/util"
)

// BrowserSelectedMsg is sent when a file or URL is chosen.
type BrowserSelectedMsg struct {
	Path string
}

// BrowserCancelledMsg is sent when the user quits the browser.
type BrowserCancelledMsg struct{}

// fileItem is an openable file in the browsed directory.
type fileItem struct {
	name string // without extension
	ext  string
	size int64
}

func (i fileItem) filename() string { return i.name + i.ext }

func (i fileItem) Title() string { return i.name }

func (i fileItem) Description() string {
	kind := strings.ToUpper(strings.TrimPrefix(i.ext, "."))
	if media.IsCoverArtExt(i.ext) {
		kind += " cover art"
	} else {
		kind += " image"
	}
	return kind + " · " + util.FormatBytes(i.size)
}

func (i fileItem) FilterValue() string { return i.filename() }

type urlItem struct{}

func (urlItem) Title() string       { return "Open URL..." }
func (urlItem) Description() string { return "download an image over http(s)" }
func (urlItem) FilterValue() string { return "url" }

// listImages returns the supported files in dir, sorted by name without
// regard to case.
func listImages(dir string) ([]fileItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []fileItem
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !media.IsSupportedPath(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		ext := filepath.Ext(e.Name())
		files = append(files, fileItem{name: strings.TrimSuffix(e.Name(), ext), ext: ext, size: info.Size()})
	}
	sort.SliceStable(files, func(i, j int) bool {
		return strings.ToLower(files[i].filename()) < strings.ToLower(files[j].filename())
	})
	return files, nil
}

// BrowserModel picks an image from the working directory or a URL. It is
// hosted by another model and reports the choice as BrowserSelectedMsg or
// BrowserCancelledMsg.
type BrowserModel struct {
	list    list.Model
	input   textinput.Model
	urlMode bool
	urlErr  string
	err     error
}

// NewEmbeddedBrowser creates a browser over the working directory.
func NewEmbeddedBrowser() BrowserModel {
	files, err := listImages(".")
	if err != nil {
		return BrowserModel{err: fmt.Errorf("cannot read directory: %w", err)}
	}

	items := make([]list.Item, 0, len(files)+1)
	items = append(items, urlItem{})
	for _, f := range files {
		items = append(items, f)
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(accentColor).
		BorderLeftForeground(accentColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(mutedColor).
		BorderLeftForeground(accentColor)

	title := "climg"
	if wd, err := os.Getwd(); err == nil {
		title += "  " + filepath.Base(wd)
	}
	l := list.New(items, delegate, 80, 20)
	l.Title = title
	l.SetStatusBarItemName("image", "images")
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle

	ti := textinput.New()
	ti.Placeholder = "https://example.com/picture.png"
	ti.CharLimit = 2048
	ti.Width = 60

	return BrowserModel{list: l, input: ti}
}

// HasError returns true if the browser could not be initialized.
func (m BrowserModel) HasError() bool {
	return m.err != nil
}

// Error returns the initialization error, if any.
func (m BrowserModel) Error() error {
	return m.err
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.SetWindowTitle("climg")
}

func (m BrowserModel) cancel() (BrowserModel, tea.Cmd) {
	return m, func() tea.Msg { return BrowserCancelledMsg{} }
}

func (m BrowserModel) choose(path string) (BrowserModel, tea.Cmd) {
	return m, func() tea.Msg { return BrowserSelectedMsg{Path: path} }
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		if key, ok := msg.(tea.KeyMsg); ok && isQuit(key) {
			return m.cancel()
		}
		return m, nil
	}
	if m.urlMode {
		return m.updateURLInput(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() != list.Filtering {
			if isQuit(msg) {
				return m.cancel()
			}
			if msg.String() == "enter" {
				return m.open(m.list.SelectedItem())
			}
		}
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) open(item list.Item) (tea.Model, tea.Cmd) {
	switch item := item.(type) {
	case urlItem:
		m.urlMode = true
		m.urlErr = ""
		m.input.Focus()
		return m, tea.Batch(textinput.Blink, tea.SetWindowTitle("climg — enter URL"))
	case fileItem:
		return m.choose(item.filename())
	}
	return m, nil
}

func (m BrowserModel) updateURLInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			url := strings.TrimSpace(m.input.Value())
			if url == "" {
				return m, nil
			}
			if !downloader.IsURL(url) {
				m.urlErr = "only http:// and https:// URLs can be opened"
				return m, nil
			}
			return m.choose(url)
		case "esc":
			m.urlMode = false
			m.urlErr = ""
			m.input.Reset()
			m.input.Blur()
			return m, tea.SetWindowTitle("climg")
		case "ctrl+c":
			return m.cancel()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m BrowserModel) View() string {
	if m.err != nil {
		return "\n  " + headerStyle.Render("climg") + "\n\n  " + errorStyle.Render(m.err.Error()) + "\n"
	}
	if !m.urlMode {
		return m.list.View()
	}

	var b strings.Builder
	b.WriteString("\n  " + headerStyle.Render("climg") + "\n\n")
	b.WriteString("  " + statusStyle.Render("Image URL:") + "\n")
	b.WriteString("  " + m.input.View() + "\n")
	if m.urlErr != "" {
		b.WriteString("  " + errorStyle.Render(m.urlErr) + "\n")
	}
	b.WriteString("\n  " + helpStyle.Render("enter open  esc back  ctrl+c quit") + "\n")
	return b.String()
}
