package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	ZoomIn, ZoomOut  key.Binding
	Color, Map       key.Binding
	Invert           key.Binding
	Down, Up         key.Binding
	PageDown, PageUp key.Binding
	Top, Bottom      key.Binding
	Left, Right      key.Binding
	Next, Prev       key.Binding
	Save             key.Binding
	Quit             key.Binding
}

var keys = keyMap{
	ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "size")),
	ZoomOut:  key.NewBinding(key.WithKeys("-", "_")),
	Color:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "color")),
	Map:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "map")),
	Invert:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "invert")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/k", "scroll")),
	Up:       key.NewBinding(key.WithKeys("up", "k")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", " ", "f")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "b")),
	Top:      key.NewBinding(key.WithKeys("home", "g")),
	Bottom:   key.NewBinding(key.WithKeys("end", "G")),
	Left:     key.NewBinding(key.WithKeys("left", "h")),
	Right:    key.NewBinding(key.WithKeys("right", "l")),
	Next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n/p", "image")),
	Prev:     key.NewBinding(key.WithKeys("p")),
	Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

func isQuit(msg tea.KeyMsg) bool {
	return key.Matches(msg, keys.Quit)
}

// helpText lists the preview bindings; the gallery keys only appear when
// there is more than one image.
func helpText(hasGallery bool) string {
	bindings := []key.Binding{keys.ZoomIn, keys.Color, keys.Map, keys.Invert, keys.Down}
	if hasGallery {
		bindings = append(bindings, keys.Next)
	}
	bindings = append(bindings, keys.Save, keys.Quit)

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}
