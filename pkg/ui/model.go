// Package ui is the terminal front end: a Bubble Tea model that feeds mouse
// and key events into the canvas and paints the retained scene as a rune
// grid with a status bar.
package ui

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linkscope/linkscope/pkg/canvas"
	"github.com/linkscope/linkscope/pkg/config"
	"github.com/linkscope/linkscope/pkg/export"
	"github.com/linkscope/linkscope/pkg/geom"
	"github.com/linkscope/linkscope/pkg/layout"
	"github.com/linkscope/linkscope/pkg/render"
)

const statusBarHeight = 1

// zoomKeyStep is the per-keypress slider increment, clamped by the canvas to
// its level bounds.
const zoomKeyStep = 0.1

type reloadMsg struct{}

// keyMap defines the session keybindings.
type keyMap struct {
	Quit      key.Binding
	Close     key.Binding
	Help      key.Binding
	Reset     key.Binding
	Layout    key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	ZoomReset key.Binding
	Copy      key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close help")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset view")),
	Layout:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "cycle layout")),
	ZoomIn:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
	ZoomReset: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "zoom 100%")),
	Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy hovered label")),
}

// Model drives the interactive session.
type Model struct {
	canvas *canvas.Canvas
	scene  *render.Scene
	grid   *Grid
	cfg    *config.Config

	// sourcePath is reloaded on watch events; empty disables reload.
	sourcePath string
	watcher    *export.Watcher

	helpView string

	ready    bool
	showHelp bool
	width    int
	height   int
	flash    string
}

// NewModel wires a session model over an already-loaded canvas.
func NewModel(c *canvas.Canvas, scene *render.Scene, cfg *config.Config, sourcePath string, watcher *export.Watcher) Model {
	return Model{
		canvas:     c,
		scene:      scene,
		grid:       NewGrid(cfg.Theme),
		cfg:        cfg,
		sourcePath: sourcePath,
		watcher:    watcher,
		helpView:   renderHelp(),
	}
}

// Init starts the watch listener when live reload is on.
func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return waitForChange(m.watcher)
	}
	return nil
}

func waitForChange(w *export.Watcher) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.Events(); ok {
			return reloadMsg{}
		}
		return nil
	}
}

// Update routes events into the canvas. Every handler finishes its scene
// mutations before View runs, so a frame never sees a half-applied update.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		rows := msg.Height - statusBarHeight
		if rows < 1 {
			rows = 1
		}
		m.grid.Resize(msg.Width, rows)
		m.canvas.Resize(float64(msg.Width), float64(rows)*cellAspect)
		m.ready = true

	case reloadMsg:
		m.flash = m.reload()
		return m, waitForChange(m.watcher)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	pt := geom.Point{X: float64(msg.X), Y: float64(msg.Y) * cellAspect}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.canvas.Scroll(pt, true)
		return
	case tea.MouseButtonWheelDown:
		m.canvas.Scroll(pt, false)
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.canvas.Press(pt)
		}
	case tea.MouseActionMotion:
		m.canvas.Move(pt)
	case tea.MouseActionRelease:
		m.canvas.Release()
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, keys.Close):
		m.showHelp = false
	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, keys.Reset):
		m.canvas.ResetView()
		m.flash = ""
	case key.Matches(msg, keys.Layout):
		m.canvas.ApplyLayout(nextLayout(m.canvas.LayoutKind()))
		m.flash = "layout: " + string(m.canvas.LayoutKind())
	case key.Matches(msg, keys.ZoomIn):
		m.canvas.SetZoomLevel(m.canvas.Viewport().Zoom + zoomKeyStep)
	case key.Matches(msg, keys.ZoomOut):
		m.canvas.SetZoomLevel(m.canvas.Viewport().Zoom - zoomKeyStep)
	case key.Matches(msg, keys.ZoomReset):
		m.canvas.SetZoomLevel(1.0)
	case key.Matches(msg, keys.Copy):
		m.flash = m.copyHovered()
	}
	return m, nil
}

func (m *Model) reload() string {
	f, err := os.Open(m.sourcePath)
	if err != nil {
		return "reload failed: " + err.Error()
	}
	defer f.Close()
	if err := m.canvas.Reload(f); err != nil {
		// The previous graph is still on screen, say so.
		return "reload rejected, keeping current graph: " + err.Error()
	}
	return "reloaded " + m.sourcePath
}

func (m *Model) copyHovered() string {
	i := m.canvas.Hovered()
	if i < 0 {
		return "nothing hovered"
	}
	label := m.canvas.Store().Graph().Entity(i).Label
	if err := clipboard.WriteAll(label); err != nil {
		return "clipboard: " + err.Error()
	}
	return "copied " + label
}

func nextLayout(current layout.Kind) layout.Kind {
	kinds := layout.Kinds()
	for i, k := range kinds {
		if k == current {
			return kinds[(i+1)%len(kinds)]
		}
	}
	return kinds[0]
}

// View renders the grid plus the status bar, or the help overlay.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}
	if m.showHelp {
		return m.helpView
	}
	return m.grid.Render(m.scene, m.canvas.Viewport()) + "\n" + m.statusBar()
}

func (m Model) statusBar() string {
	stats := m.canvas.Stats()

	modeStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(m.cfg.Theme.Link)).
		Foreground(lipgloss.Color(m.cfg.Theme.Background)).
		Bold(true).Padding(0, 1)
	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.cfg.Theme.Text)).Padding(0, 1)
	flashStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.cfg.Theme.Highlight)).Padding(0, 1)

	info := fmt.Sprintf("%s · %d entities · %d self · zoom %.0f%% · %s",
		m.canvas.LayoutKind(), stats.Entities, stats.SelfLinks,
		m.canvas.Viewport().Zoom*100, m.canvas.State())

	if i := m.canvas.Hovered(); i >= 0 {
		info += " · " + m.canvas.Store().Graph().Entity(i).Label
	}

	bar := modeStyle.Render(m.canvas.Mode().String()) + infoStyle.Render(info)
	if m.flash != "" {
		bar += flashStyle.Render(m.flash)
	}
	return bar
}

// Run starts the interactive program with mouse tracking enabled.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
