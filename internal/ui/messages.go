package ui

import (
	"image"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"

	"github.com/olivier-w/climg/internal/ascii"
)

const scrollFPS = 60

type imageLoadedMsg struct {
	seq   int
	index int // gallery position
	img   image.Image
	title string
	err   error
}

type gridBuiltMsg struct {
	seq     int
	grid    ascii.Grid
	elapsed time.Duration
	err     error
}

type scrollFrameMsg time.Time

type fileSavedMsg struct {
	destName string
	missing  int
	err      error
}

func scrollFrameCmd() tea.Cmd {
	return tea.Tick(time.Second/scrollFPS, func(t time.Time) tea.Msg {
		return scrollFrameMsg(t)
	})
}

func newScrollSpring() harmonica.Spring {
	return harmonica.NewSpring(harmonica.FPS(scrollFPS), 8.0, 1.0)
}
