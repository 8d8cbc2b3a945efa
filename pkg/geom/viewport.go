package geom

import "math"

const (
	// nodeRadiusPx is the on-screen node radius in logical pixels. Keeping it
	// fixed in pixel terms makes rendered node size invariant to zoom level.
	nodeRadiusPx = 15.0

	// defaultNodeRadius is the data-space fallback used when the viewport is
	// degenerate and the pixel-derived radius cannot be computed.
	defaultNodeRadius = 0.05

	// minRangeWidth guards against zero-width axis ranges, which would make the
	// coordinate transform divide by zero.
	minRangeWidth = 1e-9
)

// Scroll-wheel zoom factors.
const (
	WheelZoomIn  = 1.25
	WheelZoomOut = 0.8
)

// Viewport owns the visible data-space rectangle and the device metrics of the
// drawing surface, and converts between the two coordinate systems. The
// device-space origin is the top-left corner with y growing downward; data
// space has y growing upward.
type Viewport struct {
	X, Y Range // visible data-space extents

	PixelW, PixelH float64 // drawable surface size in device pixels
	Density        float64 // device pixels per logical pixel unit

	// Zoom is the relative zoom level, 1.0 at the last auto-fit.
	Zoom float64

	// base extents captured by the last AutoFit; absolute zoom (ZoomToLevel)
	// is expressed against these rather than the current ranges so repeated
	// slider moves do not compound.
	baseX, baseY Range
	fitted       bool
}

// NewViewport returns a viewport over the given surface size with a unit
// data-space extent. Non-positive density defaults to 1.
func NewViewport(pixelW, pixelH, density float64) *Viewport {
	if density <= 0 {
		density = 1
	}
	return &Viewport{
		X:       Range{-1, 1},
		Y:       Range{-1, 1},
		PixelW:  pixelW,
		PixelH:  pixelH,
		Density: density,
		Zoom:    1.0,
	}
}

// Resize updates the device pixel dimensions. The data-space extents are kept,
// so the aspect ratio of the content may change with the surface.
func (v *Viewport) Resize(pixelW, pixelH float64) {
	v.PixelW = pixelW
	v.PixelH = pixelH
}

// Valid reports whether the viewport can convert coordinates: positive pixel
// dimensions and non-degenerate data ranges.
func (v *Viewport) Valid() bool {
	return v.PixelW > 0 && v.PixelH > 0 &&
		v.X.Width() > minRangeWidth && v.Y.Width() > minRangeWidth
}

// setExtent installs new data ranges, widening degenerate ones around their
// center instead of propagating a zero width into the transform.
func (v *Viewport) setExtent(x, y Range) {
	if x.Width() <= minRangeWidth {
		c := x.Center()
		x = Range{c - 0.5, c + 0.5}
	}
	if y.Width() <= minRangeWidth {
		c := y.Center()
		y = Range{c - 0.5, c + 0.5}
	}
	v.X, v.Y = x, y
}

// DataToDevice maps a data-space point to device pixels under the current
// extents. The result is meaningful only for a valid viewport.
func (v *Viewport) DataToDevice(p Point) Point {
	return Point{
		X: (p.X - v.X.Min) / v.X.Width() * v.PixelW,
		Y: (v.Y.Max - p.Y) / v.Y.Width() * v.PixelH,
	}
}

// DeviceToData is the exact inverse of DataToDevice for the same viewport
// snapshot.
func (v *Viewport) DeviceToData(p Point) Point {
	return Point{
		X: v.X.Min + p.X/v.PixelW*v.X.Width(),
		Y: v.Y.Max - p.Y/v.PixelH*v.Y.Width(),
	}
}

// ContainsData reports whether the data-space point lies inside the visible
// extent.
func (v *Viewport) ContainsData(p Point) bool {
	return v.X.Contains(p.X) && v.Y.Contains(p.Y)
}

// ContainsDevice reports whether the pixel point lies inside the drawable
// surface.
func (v *Viewport) ContainsDevice(p Point) bool {
	return p.X >= 0 && p.X <= v.PixelW && p.Y >= 0 && p.Y <= v.PixelH
}

// AutoFit recomputes the extents to contain all the given positions with
// breathing room: per axis the padding is max(0.2, range*0.3) when the range
// is positive and a fixed 0.5 otherwise. It resets the zoom level to 1.0 and
// captures the fitted extents as the base for ZoomToLevel. Empty input is a
// no-op.
func (v *Viewport) AutoFit(positions []Point) {
	if len(positions) == 0 {
		return
	}

	xMin, xMax := positions[0].X, positions[0].X
	yMin, yMax := positions[0].Y, positions[0].Y
	for _, p := range positions[1:] {
		xMin = math.Min(xMin, p.X)
		xMax = math.Max(xMax, p.X)
		yMin = math.Min(yMin, p.Y)
		yMax = math.Max(yMax, p.Y)
	}

	v.setExtent(
		Range{xMin - fitPadding(xMax-xMin), xMax + fitPadding(xMax-xMin)},
		Range{yMin - fitPadding(yMax-yMin), yMax + fitPadding(yMax-yMin)},
	)
	v.baseX, v.baseY = v.X, v.Y
	v.fitted = true
	v.Zoom = 1.0
}

func fitPadding(span float64) float64 {
	if span > 0 {
		return math.Max(0.2, span*0.3)
	}
	return 0.5
}

// ZoomAtPoint scales both extents by 1/factor around the given data-space
// anchor, so the anchor keeps its device-space location. Non-positive factors
// are ignored.
func (v *Viewport) ZoomAtPoint(anchor Point, factor float64) {
	if factor <= 0 {
		return
	}
	v.Zoom *= factor

	fx := (anchor.X - v.X.Min) / v.X.Width()
	fy := (v.Y.Max - anchor.Y) / v.Y.Width()
	newW := v.X.Width() / factor
	newH := v.Y.Width() / factor

	xMin := anchor.X - fx*newW
	yMax := anchor.Y + fy*newH
	v.setExtent(Range{xMin, xMin + newW}, Range{yMax - newH, yMax})
}

// ZoomToLevel recomputes the extents to base/level, centered on the current
// view center rather than any cursor position. The base is the extent captured
// by the last AutoFit; before any successful fit this is a no-op.
func (v *Viewport) ZoomToLevel(level float64) {
	if !v.fitted || level <= 0 {
		return
	}
	cx, cy := v.X.Center(), v.Y.Center()
	w := v.baseX.Width() / level
	h := v.baseY.Width() / level
	v.setExtent(Range{cx - w/2, cx + w/2}, Range{cy - h/2, cy + h/2})
	v.Zoom = level
}

// PanBy shifts the extents by a device-pixel displacement. Content follows the
// pointer: dragging right moves the visible window left, and the vertical axis
// is inverted because device y grows downward while data y grows upward.
func (v *Viewport) PanBy(pixelDelta Point) {
	if v.PixelW <= 0 || v.PixelH <= 0 {
		return
	}
	dx := pixelDelta.X * v.X.Width() / v.PixelW
	dy := pixelDelta.Y * v.Y.Width() / v.PixelH
	v.X = v.X.Shift(-dx)
	v.Y = v.Y.Shift(dy)
}

// Center returns the data-space center of the visible extent.
func (v *Viewport) Center() Point {
	return Point{v.X.Center(), v.Y.Center()}
}

// NodeRadius returns the data-space radius at which a node must be drawn to
// appear nodeRadiusPx logical pixels wide on screen. Hit testing uses the same
// value, which is what keeps "looks clickable" and "is clickable" in sync.
// Degenerate viewports fall back to a fixed data-space radius.
func (v *Viewport) NodeRadius() float64 {
	if !v.Valid() {
		return defaultNodeRadius
	}
	unitsPerPxX := v.X.Width() / v.PixelW
	unitsPerPxY := v.Y.Width() / v.PixelH
	return nodeRadiusPx / v.Density * (unitsPerPxX + unitsPerPxY) / 2
}

// Snapshot returns a value copy of the viewport. Pan uses it to apply each
// motion delta to the press-time state instead of accumulating per-event
// deltas and their rounding error.
func (v *Viewport) Snapshot() Viewport {
	return *v
}

// Restore replaces the viewport state with a previously taken snapshot.
func (v *Viewport) Restore(s Viewport) {
	*v = s
}
