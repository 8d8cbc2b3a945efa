package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/linkscope/linkscope/pkg/canvas"
	"github.com/linkscope/linkscope/pkg/config"
	"github.com/linkscope/linkscope/pkg/geom"
)

// SVGWriter serializes a scene snapshot as a standalone SVG document.
type SVGWriter struct {
	theme config.Theme
}

// NewSVGWriter builds an SVG writer with the given theme.
func NewSVGWriter(theme config.Theme) *SVGWriter {
	return &SVGWriter{theme: theme}
}

// Render writes the scene under the viewport's current extents to w.
func (sw *SVGWriter) Render(w io.Writer, scene *Scene, vp *geom.Viewport) error {
	width, height := int(vp.PixelW), int(vp.PixelH)
	if width <= 0 || height <= 0 {
		return fmt.Errorf("svg: viewport has no pixel area (%dx%d)", width, height)
	}

	doc := svg.New(w)
	doc.Start(width, height)
	doc.Rect(0, 0, width, height, "fill:"+sw.theme.Background)

	for _, ks := range scene.Ordered() {
		sw.write(doc, vp, ks.Shape)
	}

	doc.End()
	return nil
}

func (sw *SVGWriter) write(doc *svg.SVG, vp *geom.Viewport, s canvas.Shape) {
	switch s.Kind {
	case canvas.ShapeCircle:
		c := vp.DataToDevice(s.Center)
		edge := vp.DataToDevice(geom.Point{X: s.Center.X + s.Radius, Y: s.Center.Y})
		radius := int(math.Round(math.Abs(edge.X - c.X)))
		if radius < 1 {
			radius = 1
		}
		doc.Circle(px(c.X), px(c.Y), radius, "fill:"+sw.fillColor(s))

	case canvas.ShapeArrow:
		from := vp.DataToDevice(s.From)
		to := vp.DataToDevice(s.To)
		style := sw.strokeStyle(s)
		doc.Line(px(from.X), px(from.Y), px(to.X), px(to.Y), style)
		sw.arrowHead(doc, from, to, style)

	case canvas.ShapeLoop:
		xs := make([]int, len(s.Loop))
		ys := make([]int, len(s.Loop))
		for i, p := range s.Loop {
			d := vp.DataToDevice(p)
			xs[i], ys[i] = px(d.X), px(d.Y)
		}
		style := sw.strokeStyle(s) + ";fill:none"
		doc.Polygon(xs, ys, style)
		sw.arrowHead(doc, vp.DataToDevice(s.From), vp.DataToDevice(s.To), style)
	}

	if s.Label != "" {
		at := vp.DataToDevice(s.Center)
		doc.Text(px(at.X), px(at.Y-labelOffsetPx),
			s.Label, "fill:"+sw.theme.Text+";text-anchor:middle;font-size:12px;font-family:sans-serif")
	}
}

func (sw *SVGWriter) arrowHead(doc *svg.SVG, from, to geom.Point, style string) {
	dx, dy := to.X-from.X, to.Y-from.Y
	if dx == 0 && dy == 0 {
		return
	}
	angle := math.Atan2(dy, dx)
	for _, spread := range []float64{angle + math.Pi - 0.4, angle + math.Pi + 0.4} {
		doc.Line(px(to.X), px(to.Y),
			px(to.X+arrowHeadPx*math.Cos(spread)), px(to.Y+arrowHeadPx*math.Sin(spread)),
			style)
	}
}

func (sw *SVGWriter) fillColor(s canvas.Shape) string {
	switch {
	case s.Selected:
		return sw.theme.Selected
	case s.Highlight:
		return sw.theme.Highlight
	}
	return sw.theme.Node
}

func (sw *SVGWriter) strokeStyle(s canvas.Shape) string {
	color := sw.theme.Link
	switch {
	case s.Selected:
		color = sw.theme.Selected
	case s.Highlight:
		color = sw.theme.Highlight
	case s.SelfLink:
		color = sw.theme.SelfLink
	}
	return fmt.Sprintf("stroke:%s;stroke-width:1.5", color)
}

func px(v float64) int { return int(math.Round(v)) }
