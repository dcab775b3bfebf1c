package ui

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/climg/internal/ascii"
	"github.com/olivier-w/climg/internal/downloader"
	"github.com/olivier-w/climg/internal/media"
	"github.com/olivier-w/climg/internal/queue"
	"github.com/olivier-w/climg/internal/raster"
	"github.com/olivier-w/climg/internal/term"
	"github.com/olivier-w/climg/internal/util"
)

// Settings configures how the preview builds, draws and exports art.
type Settings struct {
	Block      ascii.BlockSize
	Ramp       ascii.Ramp
	Preset     string // empty for a custom ramp
	Invert     InvertMode
	Color      ColorMode
	Foreground color.Color
	Workers    int
	// FitWidth picks the block width from the window width until the user
	// zooms with +/-.
	FitWidth bool

	Font       *raster.Font
	FontSize   int
	Background color.Color
	SaveDir    string
}

// Lines of chrome around the viewport: header, blank, blank, status, help.
const chromeHeight = 6

// Model is the Bubbletea model for the interactive preview.
type Model struct {
	settings Settings
	aspect   int

	queue   *queue.Queue
	img     image.Image
	title   string
	cleanup func()

	grid     ascii.Grid
	viewport viewport.Model

	spring       harmonica.Spring
	scrollPos    float64
	scrollVel    float64
	scrollTarget int
	animating    bool

	width   int
	height  int
	seq     int
	loading bool
	err     error
	elapsed time.Duration

	statusMsg  string
	statusTime time.Time
	saving     bool
	quitting   bool
}

// New creates a preview for img. q may be nil when there is no gallery.
// cleanup, if set, runs when the preview quits (e.g. to remove a downloaded
// temp file).
func New(img image.Image, title string, s Settings, q *queue.Queue, cleanup func()) Model {
	if !s.Ramp.Valid() {
		s.Ramp = ascii.MustRamp(ascii.DefaultRamp)
	}
	if s.FontSize <= 0 {
		s.FontSize = 25
	}
	aspect := 2
	if s.Block.W > 0 {
		aspect = max(1, s.Block.H/s.Block.W)
	}
	vp := viewport.New(80, 20)
	vp.SetHorizontalStep(4)
	if q != nil {
		q.SetState(q.CurrentIndex(), queue.Ready)
	}
	return Model{
		settings: s,
		aspect:   aspect,
		queue:    q,
		img:      img,
		title:    title,
		cleanup:  cleanup,
		viewport: vp,
		spring:   newScrollSpring(),
		loading:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle(windowTitle(m.title)), m.buildCmd())
}

// Grid returns the most recently built grid.
func (m Model) Grid() ascii.Grid {
	return m.grid
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.handleMsg(msg)
	return next, cmd
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-chromeHeight)
		if m.settings.FitWidth && m.img != nil {
			block := ascii.BlockForColumns(m.img.Bounds().Dx(), msg.Width, m.aspect)
			if block != m.settings.Block {
				m.settings.Block = block
				return m.rebuild()
			}
		}
		m.refreshContent()
		return m, nil

	case imageLoadedMsg:
		if m.queue != nil {
			if msg.err != nil {
				m.queue.SetState(msg.index, queue.Failed)
			} else {
				m.queue.SetState(msg.index, queue.Ready)
			}
		}
		if msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			m.loading = false
			m.err = fmt.Errorf("%s: %w", msg.title, msg.err)
			return m, nil
		}
		m.img = msg.img
		m.title = msg.title
		if m.settings.FitWidth && m.width > 0 {
			m.settings.Block = ascii.BlockForColumns(m.img.Bounds().Dx(), m.width, m.aspect)
		}
		next, cmd := m.rebuild()
		return next, tea.Batch(cmd, tea.SetWindowTitle(windowTitle(next.title)))

	case gridBuiltMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.grid = msg.grid
			m.elapsed = msg.elapsed
			m.refreshContent()
		}
		return m, nil

	case scrollFrameMsg:
		return m.stepScroll()

	case fileSavedMsg:
		m.saving = false
		switch {
		case msg.err != nil:
			m.statusMsg = fmt.Sprintf("Save failed: %v", msg.err)
		case msg.missing > 0:
			m.statusMsg = fmt.Sprintf("Saved to %s (%d cells without glyphs)", msg.destName, msg.missing)
		default:
			m.statusMsg = fmt.Sprintf("Saved to %s", msg.destName)
		}
		m.statusTime = time.Now()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if isQuit(msg) {
		m.quitting = true
		if m.cleanup != nil {
			m.cleanup()
			m.cleanup = nil
		}
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	}

	switch {
	case key.Matches(msg, keys.ZoomIn):
		return m.zoom(-1)
	case key.Matches(msg, keys.ZoomOut):
		return m.zoom(1)
	case key.Matches(msg, keys.Color):
		m.settings.Color = m.settings.Color.Next()
		m.refreshContent()
		return m, nil
	case key.Matches(msg, keys.Map):
		names := ascii.PresetNames()
		idx := 0
		for i, n := range names {
			if n == m.settings.Preset {
				idx = (i + 1) % len(names)
				break
			}
		}
		ramp, err := ascii.Preset(names[idx])
		if err != nil {
			return m, nil
		}
		m.settings.Preset = names[idx]
		m.settings.Ramp = ramp
		return m.rebuild()
	case key.Matches(msg, keys.Invert):
		m.settings.Invert = m.settings.Invert.Toggle()
		return m.rebuild()
	case key.Matches(msg, keys.Next):
		if m.queue != nil && m.queue.Advance() {
			return m.loadCurrent()
		}
		return m, nil
	case key.Matches(msg, keys.Prev):
		if m.queue != nil && m.queue.Previous() {
			return m.loadCurrent()
		}
		return m, nil
	case key.Matches(msg, keys.Save):
		if m.saving || m.grid.Empty() {
			return m, nil
		}
		m.saving = true
		m.statusMsg = "Saving..."
		m.statusTime = time.Now()
		return m, saveCmd(m.grid, m.settings, m.title)
	case key.Matches(msg, keys.Down):
		return m.scrollBy(1)
	case key.Matches(msg, keys.Up):
		return m.scrollBy(-1)
	case key.Matches(msg, keys.PageDown):
		return m.scrollBy(m.viewport.Height)
	case key.Matches(msg, keys.PageUp):
		return m.scrollBy(-m.viewport.Height)
	case key.Matches(msg, keys.Top):
		return m.scrollBy(-m.scrollTarget)
	case key.Matches(msg, keys.Bottom):
		return m.scrollBy(m.maxScroll() - m.scrollTarget)
	case key.Matches(msg, keys.Left):
		m.viewport.ScrollLeft(4)
		return m, nil
	case key.Matches(msg, keys.Right):
		m.viewport.ScrollRight(4)
		return m, nil
	}
	return m, nil
}

// zoom grows (delta < 0) or shrinks the block width, keeping the aspect.
func (m Model) zoom(delta int) (Model, tea.Cmd) {
	w := m.settings.Block.W + delta
	if w < 1 {
		return m, nil
	}
	m.settings.FitWidth = false
	m.settings.Block = ascii.BlockSize{W: w, H: w * m.aspect}
	return m.rebuild()
}

func (m Model) loadCurrent() (Model, tea.Cmd) {
	img := m.queue.Current()
	if img == nil {
		return m, nil
	}
	m.seq++
	m.loading = true
	m.err = nil
	idx := m.queue.CurrentIndex()
	m.queue.SetState(idx, queue.Loading)
	seq, path, title := m.seq, img.Path, img.Title
	return m, func() tea.Msg {
		decoded, _, err := media.Open(path)
		return imageLoadedMsg{seq: seq, index: idx, img: decoded, title: title, err: err}
	}
}

func (m Model) rebuild() (Model, tea.Cmd) {
	m.seq++
	m.loading = true
	return m, m.buildCmd()
}

func (m Model) options() ascii.Options {
	ramp := m.settings.Ramp
	if m.settings.Invert == InvertOn {
		ramp = ramp.Reverse()
	}
	return ascii.Options{Block: m.settings.Block, Ramp: ramp, Workers: m.settings.Workers}
}

func (m Model) buildCmd() tea.Cmd {
	if m.img == nil {
		return nil
	}
	img, opts, seq := m.img, m.options(), m.seq
	return func() tea.Msg {
		start := time.Now()
		if err := ascii.CheckSource(img.Bounds(), opts.Block); err != nil {
			return gridBuiltMsg{seq: seq, err: err}
		}
		g, err := ascii.Build(img, opts)
		return gridBuiltMsg{seq: seq, grid: g, elapsed: time.Since(start), err: err}
	}
}

func saveCmd(g ascii.Grid, s Settings, title string) tea.Cmd {
	return func() tea.Msg {
		font := s.Font
		if font == nil {
			var err error
			if font, err = raster.DefaultFont(); err != nil {
				return fileSavedMsg{err: err}
			}
		}
		c := raster.Compositor{
			Font:       font,
			FontSize:   s.FontSize,
			Background: s.Background,
			Foreground: s.Foreground,
			Workers:    s.Workers,
		}
		res, err := c.Render(g)
		if err != nil {
			return fileSavedMsg{err: err}
		}

		dest := downloader.UniquePath(filepath.Join(s.SaveDir, downloader.DefaultOutputName(title, ".png")))
		err = downloader.SaveFile(dest, false, func(w io.Writer) error {
			return raster.Encode(w, res.Image, raster.FormatPNG)
		})
		return fileSavedMsg{destName: dest, missing: len(res.Missing), err: err}
	}
}

func (m *Model) refreshContent() {
	r := term.Renderer{Profile: m.settings.Color.Profile(), Foreground: m.settings.Foreground}
	m.viewport.SetContent(strings.TrimSuffix(r.String(m.grid), "\n"))
	m.scrollTarget = min(m.scrollTarget, m.maxScroll())
	m.viewport.SetYOffset(int(math.Round(m.scrollPos)))
}

func (m Model) maxScroll() int {
	return max(0, m.viewport.TotalLineCount()-m.viewport.Height)
}

func (m Model) scrollBy(n int) (Model, tea.Cmd) {
	m.scrollTarget = min(max(m.scrollTarget+n, 0), m.maxScroll())
	if m.animating {
		return m, nil
	}
	m.animating = true
	return m, scrollFrameCmd()
}

// stepScroll advances the scroll spring one frame.
func (m Model) stepScroll() (Model, tea.Cmd) {
	target := float64(m.scrollTarget)
	m.scrollPos, m.scrollVel = m.spring.Update(m.scrollPos, m.scrollVel, target)
	if math.Abs(m.scrollPos-target) < 0.05 && math.Abs(m.scrollVel) < 0.05 {
		m.scrollPos, m.scrollVel = target, 0
		m.animating = false
	}
	m.viewport.SetYOffset(int(math.Round(m.scrollPos)))
	if !m.animating {
		return m, nil
	}
	return m, scrollFrameCmd()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	w := m.width
	if w < 30 {
		w = 50
	}

	left := headerStyle.Render("climg") + "  " + titleStyle.Render(m.title)
	right := ""
	if m.queue != nil && m.queue.Len() > 1 {
		pos := fmt.Sprintf("%d/%d", m.queue.CurrentIndex()+1, m.queue.Len())
		if n := m.queue.Failed(); n > 0 {
			pos += fmt.Sprintf("  %d unreadable", n)
		}
		right = detailStyle.Render(pos)
	}
	header := "  " + joinEnds(left, right, w-4)

	var body string
	switch {
	case m.err != nil:
		body = "  " + errorStyle.Render(m.err.Error())
	case m.grid.Empty() && m.loading:
		body = "  " + statusStyle.Render("Rendering...")
	default:
		body = m.viewport.View()
	}

	mode := m.settings.Color.Icon()
	if icon := m.settings.Invert.Icon(); icon != "" {
		mode += "  " + icon
	}
	preset := m.settings.Preset
	if preset == "" {
		preset = "custom"
	}
	info := renderGridSize(m.grid, m.settings.Block) + "  map " + preset + "  " + mode
	if m.elapsed > 0 {
		info += "  " + util.FormatDuration(m.elapsed)
	}
	ratio := 1.0
	if ms := m.maxScroll(); ms > 0 {
		ratio = float64(m.viewport.YOffset) / float64(ms)
	}
	status := "  " + joinEnds(statusStyle.Render(info), helpStyle.Render(renderScrollBar(ratio, 12)), w-4)

	lines := "\n"
	lines += header + "\n"
	lines += "\n"
	lines += body + "\n"
	lines += "\n"
	lines += status + "\n"
	if m.statusMsg != "" && time.Since(m.statusTime) < 5*time.Second {
		lines += "  " + helpStyle.Render(m.statusMsg) + "\n"
	}
	lines += "  " + helpStyle.Render(helpText(m.queue != nil && m.queue.Len() > 1)) + "\n"

	if pad := m.height - lipgloss.Height(lines); pad > 0 {
		lines += strings.Repeat("\n", pad)
	}
	return lines
}

func windowTitle(title string) string {
	if title == "" {
		return "climg"
	}
	return title + " — climg"
}
