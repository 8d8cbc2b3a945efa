// Package export writes canvas snapshots (PNG, SVG, machine-readable stats)
// and watches the input file for live reload.
package export

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/linkscope/linkscope/pkg/analysis"
	"github.com/linkscope/linkscope/pkg/canvas"
	"github.com/linkscope/linkscope/pkg/config"
	"github.com/linkscope/linkscope/pkg/layout"
	"github.com/linkscope/linkscope/pkg/model"
	"github.com/linkscope/linkscope/pkg/render"
)

// SnapshotRequest names the outputs of one snapshot run. Empty paths are
// skipped; StatsTo may be a file path or "-" for stdout.
type SnapshotRequest struct {
	PNGPath string
	SVGPath string
	StatsTo string
	Width   int
	Height  int
}

// statsDoc is the machine-readable snapshot summary.
type statsDoc struct {
	Mode      string           `json:"mode"`
	Layout    string           `json:"layout"`
	Stats     canvas.Stats     `json:"stats"`
	Analysis  analysis.Summary `json:"analysis"`
	ViewportX [2]float64       `json:"viewport_x"`
	ViewportY [2]float64       `json:"viewport_y"`
	Zoom      float64          `json:"zoom"`
}

// Snapshot loads the given source into a headless canvas of the requested
// size and writes every requested output concurrently. The canvas is built
// fresh so snapshots never disturb an interactive session.
func Snapshot(mode string, src io.Reader, cfg *config.Config, layoutKind layout.Kind, req SnapshotRequest) error {
	gm, err := ParseMode(mode)
	if err != nil {
		return err
	}

	width, height := req.Width, req.Height
	if width <= 0 {
		width = cfg.Export.Width
	}
	if height <= 0 {
		height = cfg.Export.Height
	}

	scene := render.NewScene()
	c := canvas.New(gm, scene, float64(width), float64(height), 1)
	if err := c.Load(src); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if layoutKind != layout.Spring {
		c.ApplyLayout(layoutKind)
	}

	var g errgroup.Group

	if req.PNGPath != "" {
		g.Go(func() error {
			ras, err := render.NewRasterizer(cfg.Theme)
			if err != nil {
				return err
			}
			return writeFile(req.PNGPath, func(w io.Writer) error {
				return ras.RenderPNG(w, scene, c.Viewport())
			})
		})
	}

	if req.SVGPath != "" {
		g.Go(func() error {
			sw := render.NewSVGWriter(cfg.Theme)
			return writeFile(req.SVGPath, func(w io.Writer) error {
				return sw.Render(w, scene, c.Viewport())
			})
		})
	}

	if req.StatsTo != "" {
		g.Go(func() error {
			doc := statsDoc{
				Mode:      c.Mode().String(),
				Layout:    string(c.LayoutKind()),
				Stats:     c.Stats(),
				Analysis:  analysis.Summarize(c.Store().Graph()),
				ViewportX: [2]float64{c.Viewport().X.Min, c.Viewport().X.Max},
				ViewportY: [2]float64{c.Viewport().Y.Min, c.Viewport().Y.Max},
				Zoom:      c.Viewport().Zoom,
			}
			if req.StatsTo == "-" {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			}
			return writeFile(req.StatsTo, func(w io.Writer) error {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			})
		})
	}

	return g.Wait()
}

// ParseMode maps the -mode flag value to the graph variant.
func ParseMode(mode string) (model.GraphKind, error) {
	switch mode {
	case "graph", "":
		return model.Plain, nil
	case "links":
		return model.Meta, nil
	default:
		return model.Plain, fmt.Errorf("unknown mode %q (want graph or links)", mode)
	}
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
