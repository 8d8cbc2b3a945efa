package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/linkscope/linkscope/pkg/canvas"
	"github.com/linkscope/linkscope/pkg/config"
	"github.com/linkscope/linkscope/pkg/geom"
	"github.com/linkscope/linkscope/pkg/render"
)

// cellAspect compensates for terminal cells being roughly twice as tall as
// wide: the canvas device space uses rows*cellAspect vertical pixels so data
// aspect survives, and the grid renderer divides back down.
const cellAspect = 2.0

const maxLabelCells = 12

// Grid rasterizes the retained scene into a rune grid with lipgloss colors,
// one cell per column. It is the terminal stand-in for the pixel renderers.
type Grid struct {
	cols, rows int

	nodeStyle      lipgloss.Style
	linkStyle      lipgloss.Style
	selfLinkStyle  lipgloss.Style
	textStyle      lipgloss.Style
	highlightStyle lipgloss.Style
	selectedStyle  lipgloss.Style
}

// NewGrid builds a grid renderer with the theme colors.
func NewGrid(theme config.Theme) *Grid {
	return &Grid{
		nodeStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Node)),
		linkStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Link)),
		selfLinkStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color(theme.SelfLink)),
		textStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Text)),
		highlightStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Highlight)).Bold(true),
		selectedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Selected)).Bold(true),
	}
}

// markStyle picks the hover or drag override style, if any.
func (g *Grid) markStyle(s canvas.Shape, base lipgloss.Style) lipgloss.Style {
	switch {
	case s.Selected:
		return g.selectedStyle
	case s.Highlight:
		return g.highlightStyle
	}
	return base
}

// Resize sets the drawable cell dimensions.
func (g *Grid) Resize(cols, rows int) {
	g.cols, g.rows = cols, rows
}

type cell struct {
	r     rune
	style lipgloss.Style
}

// Render paints the scene through the viewport into a multi-line string of
// rows lines. Arrows go down first so entity glyphs and labels stay on top.
func (g *Grid) Render(scene *render.Scene, vp *geom.Viewport) string {
	if g.cols <= 0 || g.rows <= 0 {
		return ""
	}
	cells := make([]cell, g.cols*g.rows)
	for i := range cells {
		cells[i] = cell{r: ' '}
	}

	shapes := scene.Ordered()
	for _, ks := range shapes {
		if ks.Shape.Kind != canvas.ShapeCircle {
			g.paintStroke(cells, vp, ks.Shape)
		}
	}
	for _, ks := range shapes {
		if ks.Shape.Kind == canvas.ShapeCircle {
			g.paintCircle(cells, vp, ks.Shape)
		}
	}
	for _, ks := range shapes {
		g.paintLabel(cells, vp, ks.Shape)
	}

	var b strings.Builder
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			c := cells[y*g.cols+x]
			if c.r == ' ' {
				b.WriteByte(' ')
			} else {
				b.WriteString(c.style.Render(string(c.r)))
			}
		}
		if y < g.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (g *Grid) paintCircle(cells []cell, vp *geom.Viewport, s canvas.Shape) {
	style := g.markStyle(s, g.nodeStyle)
	g.set(cells, vp.DataToDevice(s.Center), '●', style)
}

func (g *Grid) paintStroke(cells []cell, vp *geom.Viewport, s canvas.Shape) {
	style := g.linkStyle
	if s.SelfLink {
		style = g.selfLinkStyle
	}
	style = g.markStyle(s, style)

	switch s.Kind {
	case canvas.ShapeArrow:
		from := vp.DataToDevice(s.From)
		to := vp.DataToDevice(s.To)
		g.line(cells, from, to, '·', style)
		g.set(cells, to, arrowGlyph(from, to), style)
	case canvas.ShapeLoop:
		for _, p := range s.Loop {
			g.set(cells, vp.DataToDevice(p), '∘', style)
		}
		from := vp.DataToDevice(s.From)
		to := vp.DataToDevice(s.To)
		g.set(cells, to, arrowGlyph(from, to), style)
	}
}

func (g *Grid) paintLabel(cells []cell, vp *geom.Viewport, s canvas.Shape) {
	if s.Label == "" {
		return
	}
	style := g.markStyle(s, g.textStyle)
	label := runewidth.Truncate(s.Label, maxLabelCells, "…")
	at := vp.DataToDevice(s.Center)
	col := int(math.Round(at.X)) - runewidth.StringWidth(label)/2
	row := int(math.Round(at.Y/cellAspect)) - 1
	for _, r := range label {
		g.setCell(cells, col, row, r, style)
		col += runewidth.RuneWidth(r)
	}
}

// line plots a device-space segment with a simple DDA walk.
func (g *Grid) line(cells []cell, from, to geom.Point, r rune, style lipgloss.Style) {
	dx, dy := to.X-from.X, to.Y-from.Y
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)/cellAspect))
	if steps == 0 {
		g.set(cells, from, r, style)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		g.set(cells, geom.Point{X: from.X + dx*t, Y: from.Y + dy*t}, r, style)
	}
}

// set plots one device-space point; labels and nodes may overwrite strokes
// but strokes never overwrite glyphs already present from this pass order.
func (g *Grid) set(cells []cell, p geom.Point, r rune, style lipgloss.Style) {
	g.setCell(cells, int(math.Round(p.X)), int(math.Round(p.Y/cellAspect)), r, style)
}

func (g *Grid) setCell(cells []cell, x, y int, r rune, style lipgloss.Style) {
	if x < 0 || x >= g.cols || y < 0 || y >= g.rows {
		return
	}
	cells[y*g.cols+x] = cell{r: r, style: style}
}

func arrowGlyph(from, to geom.Point) rune {
	dx, dy := to.X-from.X, to.Y-from.Y
	if math.Abs(dx) >= math.Abs(dy) {
		if dx >= 0 {
			return '▶'
		}
		return '◀'
	}
	if dy >= 0 {
		return '▼'
	}
	return '▲'
}
