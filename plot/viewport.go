package plot

import (
	"image"
	"math"

	"github.com/aclements/go-moremath/scale"
)

// Viewport maps between data coordinates and pixels for a plot drawn inside
// Bounds. Margin pixels on the left and bottom of Bounds are reserved for
// axis labels; the rest is the plot area.
type Viewport struct {
	Bounds image.Rectangle
	Margin int
	Range  VisibleRange
}

// Plot returns the plot area in screen coordinates.
func (v Viewport) Plot() image.Rectangle {
	r := image.Rectangle{
		Min: image.Pt(v.Bounds.Min.X+v.Margin, v.Bounds.Min.Y),
		Max: image.Pt(v.Bounds.Max.X, v.Bounds.Max.Y-v.Margin),
	}
	if r.Dx() < 0 {
		r.Max.X = r.Min.X
	}
	if r.Dy() < 0 {
		r.Max.Y = r.Min.Y
	}
	return r
}

func (v Viewport) width() float64 {
	return float64(v.Plot().Dx())
}

func (v Viewport) height() float64 {
	return float64(v.Plot().Dy())
}

// DataXToPixel converts an x value to a pixel column relative to the plot
// area. It measures from the right edge, so larger x is further right.
func (v Viewport) DataXToPixel(x float64) int {
	w := v.width()
	return int(w - math.Round(w*(v.Range.RightX-x)/v.Range.XSpan()))
}

// DataYToPixel converts a y value to a pixel row relative to the plot area.
// Pixel rows grow downward while y grows upward.
func (v Viewport) DataYToPixel(y float64) int {
	return int(math.Round(v.height() * (v.Range.TopY - y) / v.Range.YSpan()))
}

// PixelToData is the inverse of DataXToPixel and DataYToPixel.
func (v Viewport) PixelToData(px, py int) Point {
	xs := scale.Linear{Min: v.Range.LeftX, Max: v.Range.RightX}
	ys := scale.Linear{Min: v.Range.BottomY, Max: v.Range.TopY}
	var fx, fy float64
	if w := v.width(); w > 0 {
		fx = float64(px) / w
	}
	if h := v.height(); h > 0 {
		fy = 1 - float64(py)/h
	}
	return Point{X: xs.Unmap(fx), Y: ys.Unmap(fy)}
}

// ToScreen converts a data point to screen coordinates.
func (v Viewport) ToScreen(p Point) image.Point {
	return v.Plot().Min.Add(image.Pt(v.DataXToPixel(p.X), v.DataYToPixel(p.Y)))
}

// FromScreen converts a screen position to plot-relative pixels and
// reports whether it lies inside the plot area.
func (v Viewport) FromScreen(pt image.Point) (image.Point, bool) {
	plot := v.Plot()
	return pt.Sub(plot.Min), pt.In(plot)
}

// CursorValue reads back the data coordinates under a screen position.
func (v Viewport) CursorValue(pt image.Point) (Point, bool) {
	rel, ok := v.FromScreen(pt)
	if !ok {
		return Point{}, false
	}
	return v.PixelToData(rel.X, rel.Y), true
}

// OnScreen reports whether p falls within the visible range.
func (v Viewport) OnScreen(p Point) bool {
	return v.Range.Contains(p.X, p.Y)
}

// RangeFromBox converts two screen corners of a zoom box into the range
// they enclose. Corners outside the plot area are clamped to it.
func (v Viewport) RangeFromBox(a, b image.Point) (VisibleRange, error) {
	plot := v.Plot()
	a, b = clampPoint(a, plot), clampPoint(b, plot)
	if a.X == b.X || a.Y == b.Y {
		return VisibleRange{}, ErrDegenerateBox
	}
	a, b = a.Sub(plot.Min), b.Sub(plot.Min)
	pa := v.PixelToData(a.X, a.Y)
	pb := v.PixelToData(b.X, b.Y)
	return NewVisibleRange(pa.X, pb.X, pa.Y, pb.Y, v.Range.TimeBased), nil
}

func clampPoint(p image.Point, r image.Rectangle) image.Point {
	return image.Pt(
		min(max(p.X, r.Min.X), r.Max.X),
		min(max(p.Y, r.Min.Y), r.Max.Y),
	)
}

// XTicks positions the x labels of the range on the plot area.
func (v Viewport) XTicks(ticks []Tick) []Tick {
	for i := range ticks {
		ticks[i].Pixel = v.DataXToPixel(ticks[i].Value)
	}
	return ticks
}

// YTicks positions the y labels of the range on the plot area.
func (v Viewport) YTicks(ticks []Tick) []Tick {
	for i := range ticks {
		ticks[i].Pixel = v.DataYToPixel(ticks[i].Value)
	}
	return ticks
}

// Grid returns vertical and horizontal grid lines at round values.
func (v Viewport) Grid() (vertical, horizontal []GridLine) {
	maxX := max(2, v.Plot().Dx()/80)
	maxY := max(2, v.Plot().Dy()/50)
	for _, x := range gridValues(v.Range.LeftX, v.Range.RightX, maxX) {
		vertical = append(vertical, GridLine{Value: x, Pixel: v.DataXToPixel(x), Zero: x == 0})
	}
	for _, y := range gridValues(v.Range.BottomY, v.Range.TopY, maxY) {
		horizontal = append(horizontal, GridLine{Value: y, Pixel: v.DataYToPixel(y), Zero: y == 0})
	}
	return vertical, horizontal
}
