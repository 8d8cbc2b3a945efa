package geom

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestDataDeviceRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := NewViewport(800, 600, 1)
		v.AutoFit([]Point{
			{rapid.Float64Range(-100, 0).Draw(rt, "xmin"), rapid.Float64Range(-100, 0).Draw(rt, "ymin")},
			{rapid.Float64Range(1, 100).Draw(rt, "xmax"), rapid.Float64Range(1, 100).Draw(rt, "ymax")},
		})

		p := Point{
			X: rapid.Float64Range(v.X.Min, v.X.Max).Draw(rt, "px"),
			Y: rapid.Float64Range(v.Y.Min, v.Y.Max).Draw(rt, "py"),
		}
		got := v.DeviceToData(v.DataToDevice(p))
		if !almostEqual(got.X, p.X, 1e-9) || !almostEqual(got.Y, p.Y, 1e-9) {
			t.Fatalf("round trip moved %v to %v", p, got)
		}
	})
}

func TestDataToDeviceOrientation(t *testing.T) {
	v := NewViewport(100, 100, 1)
	v.X = Range{0, 10}
	v.Y = Range{0, 10}

	topLeft := v.DataToDevice(Point{0, 10})
	if !almostEqual(topLeft.X, 0, 1e-12) || !almostEqual(topLeft.Y, 0, 1e-12) {
		t.Errorf("data (0,10) = device %v, want (0,0)", topLeft)
	}
	bottomRight := v.DataToDevice(Point{10, 0})
	if !almostEqual(bottomRight.X, 100, 1e-12) || !almostEqual(bottomRight.Y, 100, 1e-12) {
		t.Errorf("data (10,0) = device %v, want (100,100)", bottomRight)
	}
}

func TestAutoFitPadding(t *testing.T) {
	v := NewViewport(800, 600, 1)
	// x spans 16, y is flat: x gets max(0.2, 16*0.3) = 4.8, y gets 0.5.
	v.AutoFit([]Point{{-8, 3}, {8, 3}})

	if !almostEqual(v.X.Min, -12.8, 1e-9) || !almostEqual(v.X.Max, 12.8, 1e-9) {
		t.Errorf("X = [%v, %v], want [-12.8, 12.8]", v.X.Min, v.X.Max)
	}
	if !almostEqual(v.Y.Min, 2.5, 1e-9) || !almostEqual(v.Y.Max, 3.5, 1e-9) {
		t.Errorf("Y = [%v, %v], want [2.5, 3.5]", v.Y.Min, v.Y.Max)
	}
	if v.Zoom != 1.0 {
		t.Errorf("Zoom = %v after AutoFit, want 1.0", v.Zoom)
	}
}

func TestAutoFitSmallSpanUsesMinimumPadding(t *testing.T) {
	v := NewViewport(800, 600, 1)
	// span 0.1 gives 0.1*0.3 = 0.03 < 0.2, so the 0.2 floor applies.
	v.AutoFit([]Point{{0, 0}, {0.1, 0.1}})

	if !almostEqual(v.X.Min, -0.2, 1e-9) || !almostEqual(v.X.Max, 0.3, 1e-9) {
		t.Errorf("X = [%v, %v], want [-0.2, 0.3]", v.X.Min, v.X.Max)
	}
}

func TestAutoFitEmptyIsNoOp(t *testing.T) {
	v := NewViewport(800, 600, 1)
	before := *v
	v.AutoFit(nil)
	if *v != before {
		t.Error("AutoFit(nil) mutated the viewport")
	}
}

func TestZoomAtPointKeepsAnchor(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := NewViewport(800, 600, 1)
		v.AutoFit([]Point{{-10, -10}, {10, 10}})

		anchor := Point{
			X: rapid.Float64Range(v.X.Min, v.X.Max).Draw(rt, "ax"),
			Y: rapid.Float64Range(v.Y.Min, v.Y.Max).Draw(rt, "ay"),
		}
		factor := rapid.SampledFrom([]float64{WheelZoomIn, WheelZoomOut}).Draw(rt, "factor")

		before := v.DataToDevice(anchor)
		v.ZoomAtPoint(anchor, factor)
		after := v.DataToDevice(anchor)

		if !almostEqual(before.X, after.X, 1e-6) || !almostEqual(before.Y, after.Y, 1e-6) {
			t.Fatalf("anchor moved on screen: %v -> %v", before, after)
		}
	})
}

func TestZoomAtPointScalesExtent(t *testing.T) {
	v := NewViewport(800, 600, 1)
	v.AutoFit([]Point{{-10, -10}, {10, 10}})
	w := v.X.Width()

	v.ZoomAtPoint(Point{0, 0}, WheelZoomIn)
	if !almostEqual(v.X.Width(), w/WheelZoomIn, 1e-9) {
		t.Errorf("width after zoom in = %v, want %v", v.X.Width(), w/WheelZoomIn)
	}
	if !almostEqual(v.Zoom, WheelZoomIn, 1e-9) {
		t.Errorf("Zoom = %v, want %v", v.Zoom, WheelZoomIn)
	}
}

func TestZoomToLevelUsesFitBase(t *testing.T) {
	v := NewViewport(800, 600, 1)
	v.AutoFit([]Point{{-10, -10}, {10, 10}})
	baseW := v.X.Width()

	// Repeated calls must not compound: both are against the fit base.
	v.ZoomToLevel(2)
	v.ZoomToLevel(2)
	if !almostEqual(v.X.Width(), baseW/2, 1e-9) {
		t.Errorf("width = %v, want %v", v.X.Width(), baseW/2)
	}

	v.ZoomToLevel(0.5)
	if !almostEqual(v.X.Width(), baseW*2, 1e-9) {
		t.Errorf("width = %v, want %v", v.X.Width(), baseW*2)
	}
}

func TestZoomToLevelBeforeFitIsNoOp(t *testing.T) {
	v := NewViewport(800, 600, 1)
	before := *v
	v.ZoomToLevel(2)
	if *v != before {
		t.Error("ZoomToLevel before any AutoFit mutated the viewport")
	}
}

func TestPanByFollowsPointer(t *testing.T) {
	v := NewViewport(100, 100, 1)
	v.X = Range{0, 10}
	v.Y = Range{0, 10}

	// Dragging right by 10px moves the window left by 1 data unit; dragging
	// down by 10px moves it up, since device y is inverted.
	v.PanBy(Point{10, 10})
	if !almostEqual(v.X.Min, -1, 1e-9) || !almostEqual(v.X.Max, 9, 1e-9) {
		t.Errorf("X = [%v, %v], want [-1, 9]", v.X.Min, v.X.Max)
	}
	if !almostEqual(v.Y.Min, 1, 1e-9) || !almostEqual(v.Y.Max, 11, 1e-9) {
		t.Errorf("Y = [%v, %v], want [1, 11]", v.Y.Min, v.Y.Max)
	}
}

func TestNodeRadius(t *testing.T) {
	v := NewViewport(100, 100, 1)
	v.X = Range{0, 10}
	v.Y = Range{0, 10}

	// 0.1 data units per pixel on both axes, radius = 15/1 * 0.1 = 1.5.
	if got := v.NodeRadius(); !almostEqual(got, 1.5, 1e-9) {
		t.Errorf("NodeRadius = %v, want 1.5", got)
	}

	v.Density = 2
	if got := v.NodeRadius(); !almostEqual(got, 0.75, 1e-9) {
		t.Errorf("NodeRadius at density 2 = %v, want 0.75", got)
	}
}

func TestNodeRadiusDegenerateViewport(t *testing.T) {
	v := NewViewport(0, 0, 1)
	if got := v.NodeRadius(); got != 0.05 {
		t.Errorf("NodeRadius on degenerate viewport = %v, want 0.05", got)
	}
}

func TestSnapshotRestore(t *testing.T) {
	v := NewViewport(800, 600, 1)
	v.AutoFit([]Point{{-5, -5}, {5, 5}})
	snap := v.Snapshot()

	v.PanBy(Point{200, 100})
	v.ZoomAtPoint(Point{0, 0}, WheelZoomIn)
	v.Restore(snap)

	if v.X != snap.X || v.Y != snap.Y || v.Zoom != snap.Zoom {
		t.Errorf("restore did not recover the snapshot: %+v vs %+v", *v, snap)
	}
}
