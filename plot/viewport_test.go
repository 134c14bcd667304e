package plot

import (
	"errors"
	"image"
	"testing"
)

// testViewport has a 100x100 plot area at (40, 0) showing [0, 10] on both
// axes.
func testViewport() Viewport {
	return Viewport{
		Bounds: image.Rect(0, 0, 140, 140),
		Margin: 40,
		Range:  NewVisibleRange(0, 10, 0, 10, false),
	}
}

func TestViewportPlot(t *testing.T) {
	vp := testViewport()
	if plot := vp.Plot(); plot != image.Rect(40, 0, 140, 100) {
		t.Errorf("expected plot area (40,0)-(140,100), got %v", plot)
	}
	small := Viewport{Bounds: image.Rect(0, 0, 20, 20), Margin: 40}
	if plot := small.Plot(); plot.Dx() != 0 || plot.Dy() != 0 {
		t.Errorf("expected an empty plot area, got %v", plot)
	}
}

func TestDataToPixel(t *testing.T) {
	vp := testViewport()
	type testcase struct {
		x, y   float64
		px, py int
	}
	for _, tc := range []testcase{
		{x: 0, y: 0, px: 0, py: 100},
		{x: 10, y: 10, px: 100, py: 0},
		{x: 2.5, y: 2.5, px: 25, py: 75},
		{x: 5, y: 7, px: 50, py: 30},
	} {
		if px := vp.DataXToPixel(tc.x); px != tc.px {
			t.Errorf("expected x=%g at column %d, got %d", tc.x, tc.px, px)
		}
		if py := vp.DataYToPixel(tc.y); py != tc.py {
			t.Errorf("expected y=%g at row %d, got %d", tc.y, tc.py, py)
		}
	}
	if pt := vp.ToScreen(Point{X: 5, Y: 5}); pt != image.Pt(90, 50) {
		t.Errorf("expected (5, 5) at (90, 50), got %v", pt)
	}
}

func TestPixelRoundTrip(t *testing.T) {
	vp := Viewport{
		Bounds: image.Rect(0, 0, 337, 211),
		Margin: 40,
		Range:  NewVisibleRange(-3.7, 12.2, -100, 0.5, false),
	}
	plot := vp.Plot()
	for px := 0; px <= plot.Dx(); px++ {
		for py := 0; py <= plot.Dy(); py += 7 {
			p := vp.PixelToData(px, py)
			gx, gy := vp.DataXToPixel(p.X), vp.DataYToPixel(p.Y)
			if abs(gx-px) > 1 || abs(gy-py) > 1 {
				t.Fatalf("expected (%d, %d) to round trip within a pixel, got (%d, %d)", px, py, gx, gy)
			}
		}
	}
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

func TestCursorValue(t *testing.T) {
	vp := testViewport()
	p, ok := vp.CursorValue(image.Pt(90, 50))
	if !ok {
		t.Fatalf("expected the cursor to be inside the plot")
	}
	if !closeTo(p.X, 5) || !closeTo(p.Y, 5) {
		t.Errorf("expected (5, 5), got %v", p)
	}
	if _, ok := vp.CursorValue(image.Pt(10, 50)); ok {
		t.Errorf("expected a cursor over the label margin to have no value")
	}
	if _, ok := vp.CursorValue(image.Pt(90, 120)); ok {
		t.Errorf("expected a cursor below the plot to have no value")
	}
}

func TestRangeFromBox(t *testing.T) {
	vp := testViewport()
	type testcase struct {
		name                     string
		a, b                     image.Point
		left, right, bottom, top float64
	}
	for _, tc := range []testcase{
		{
			name: "inside",
			a:    image.Pt(60, 20), b: image.Pt(90, 70),
			left: 2, right: 5, bottom: 3, top: 8,
		},
		{
			name: "reversed corners",
			a:    image.Pt(90, 70), b: image.Pt(60, 20),
			left: 2, right: 5, bottom: 3, top: 8,
		},
		{
			name: "clamped to the plot",
			a:    image.Pt(0, -10), b: image.Pt(240, 300),
			left: 0, right: 10, bottom: 0, top: 10,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r, err := vp.RangeFromBox(tc.a, tc.b)
			if err != nil {
				t.Fatalf("expected a range, got %v", err)
			}
			expectRange(t, r, tc.left, tc.right, tc.bottom, tc.top)
		})
	}
	if _, err := vp.RangeFromBox(image.Pt(60, 20), image.Pt(60, 70)); !errors.Is(err, ErrDegenerateBox) {
		t.Errorf("expected ErrDegenerateBox for a flat box, got %v", err)
	}
	if _, err := vp.RangeFromBox(image.Pt(0, 20), image.Pt(10, 70)); !errors.Is(err, ErrDegenerateBox) {
		t.Errorf("expected ErrDegenerateBox for a box in the margin, got %v", err)
	}
}

func TestGrid(t *testing.T) {
	vp := Viewport{
		Bounds: image.Rect(0, 0, 840, 540),
		Margin: 40,
		Range:  NewVisibleRange(-10, 10, -3, 7, false),
	}
	vertical, horizontal := vp.Grid()
	for _, lines := range [][]GridLine{vertical, horizontal} {
		if len(lines) < 2 {
			t.Fatalf("expected several grid lines, got %v", lines)
		}
		zeros := 0
		for _, l := range lines {
			if l.Zero != (l.Value == 0) {
				t.Errorf("expected Zero only on the origin line, got %+v", l)
			}
			if l.Zero {
				zeros++
			}
		}
		if zeros != 1 {
			t.Errorf("expected exactly one origin line, got %d", zeros)
		}
	}
	for _, l := range vertical {
		if l.Value < -10 || l.Value > 10 {
			t.Errorf("expected grid line within the range, got %g", l.Value)
		}
	}
}
