package render

import (
	"fmt"
	"io"
	"math"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/linkscope/linkscope/pkg/canvas"
	"github.com/linkscope/linkscope/pkg/config"
	"github.com/linkscope/linkscope/pkg/geom"
)

const (
	rasterLineWidth = 1.5
	rasterFontSize  = 12.0
	arrowHeadPx     = 9.0
	labelOffsetPx   = 4.0
)

// Rasterizer paints a scene snapshot to PNG through the viewport's
// data-to-device transform.
type Rasterizer struct {
	theme config.Theme
	face  font.Face
}

// NewRasterizer builds a rasterizer with the given theme and the embedded
// Go Regular face for labels.
func NewRasterizer(theme config.Theme) (*Rasterizer, error) {
	ft, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    rasterFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build label face: %w", err)
	}
	return &Rasterizer{theme: theme, face: face}, nil
}

// RenderPNG paints the scene under the viewport's current extents and writes
// the PNG encoding to w.
func (r *Rasterizer) RenderPNG(w io.Writer, scene *Scene, vp *geom.Viewport) error {
	dc := gg.NewContext(int(vp.PixelW), int(vp.PixelH))
	dc.SetHexColor(r.theme.Background)
	dc.Clear()
	dc.SetFontFace(r.face)
	dc.SetLineWidth(rasterLineWidth)

	for _, ks := range scene.Ordered() {
		r.paint(dc, vp, ks.Shape)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (r *Rasterizer) paint(dc *gg.Context, vp *geom.Viewport, s canvas.Shape) {
	switch s.Kind {
	case canvas.ShapeCircle:
		c := vp.DataToDevice(s.Center)
		edge := vp.DataToDevice(geom.Point{X: s.Center.X + s.Radius, Y: s.Center.Y})
		dc.SetHexColor(r.fillColor(s))
		dc.DrawCircle(c.X, c.Y, math.Abs(edge.X-c.X))
		dc.Fill()

	case canvas.ShapeArrow:
		from := vp.DataToDevice(s.From)
		to := vp.DataToDevice(s.To)
		dc.SetHexColor(r.strokeColor(s))
		dc.MoveTo(from.X, from.Y)
		dc.LineTo(to.X, to.Y)
		dc.Stroke()
		r.arrowHead(dc, from, to)

	case canvas.ShapeLoop:
		dc.SetHexColor(r.strokeColor(s))
		for i, p := range s.Loop {
			d := vp.DataToDevice(p)
			if i == 0 {
				dc.MoveTo(d.X, d.Y)
			} else {
				dc.LineTo(d.X, d.Y)
			}
		}
		dc.ClosePath()
		dc.Stroke()
		r.arrowHead(dc, vp.DataToDevice(s.From), vp.DataToDevice(s.To))
	}

	if s.Label != "" {
		at := vp.DataToDevice(s.Center)
		dc.SetHexColor(r.theme.Text)
		dc.DrawStringAnchored(s.Label, at.X, at.Y-labelOffsetPx, 0.5, 1.0)
	}
}

// arrowHead draws the two head strokes at the tip of a from→to segment.
func (r *Rasterizer) arrowHead(dc *gg.Context, from, to geom.Point) {
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	angle := math.Atan2(dy, dx)
	for _, spread := range []float64{angle + math.Pi - 0.4, angle + math.Pi + 0.4} {
		dc.MoveTo(to.X, to.Y)
		dc.LineTo(to.X+arrowHeadPx*math.Cos(spread), to.Y+arrowHeadPx*math.Sin(spread))
	}
	dc.Stroke()
}

func (r *Rasterizer) fillColor(s canvas.Shape) string {
	switch {
	case s.Selected:
		return r.theme.Selected
	case s.Highlight:
		return r.theme.Highlight
	}
	return r.theme.Node
}

func (r *Rasterizer) strokeColor(s canvas.Shape) string {
	switch {
	case s.Selected:
		return r.theme.Selected
	case s.Highlight:
		return r.theme.Highlight
	case s.SelfLink:
		return r.theme.SelfLink
	default:
		return r.theme.Link
	}
}
