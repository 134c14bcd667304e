package plot

import "fmt"

// extent is a bare rectangle in data space.
type extent struct {
	left, right, bottom, top float64
}

// VisibleRange is the rectangular window of data space mapped onto the plot
// area. It is a value type: every pan or zoom returns a new VisibleRange.
//
// Each range remembers the extent it was created with (its anchor). Scale
// always works from the anchor so that repeated zooms do not compound.
type VisibleRange struct {
	LeftX, RightX float64
	BottomY, TopY float64
	TimeBased     bool
	anchor        extent
}

// NewVisibleRange builds a range, swapping any reversed bounds.
func NewVisibleRange(leftX, rightX, bottomY, topY float64, timeBased bool) VisibleRange {
	if rightX < leftX {
		leftX, rightX = rightX, leftX
	}
	if topY < bottomY {
		bottomY, topY = topY, bottomY
	}
	return VisibleRange{
		LeftX:     leftX,
		RightX:    rightX,
		BottomY:   bottomY,
		TopY:      topY,
		TimeBased: timeBased,
		anchor:    extent{left: leftX, right: rightX, bottom: bottomY, top: topY},
	}
}

func (r VisibleRange) XSpan() float64 {
	return r.RightX - r.LeftX
}

func (r VisibleRange) YSpan() float64 {
	return r.TopY - r.BottomY
}

// Valid reports whether both spans are positive.
func (r VisibleRange) Valid() bool {
	return r.XSpan() > 0 && r.YSpan() > 0
}

// Union returns the smallest range covering both r and o.
func (r VisibleRange) Union(o VisibleRange) VisibleRange {
	return NewVisibleRange(
		min(r.LeftX, o.LeftX),
		max(r.RightX, o.RightX),
		min(r.BottomY, o.BottomY),
		max(r.TopY, o.TopY),
		r.TimeBased || o.TimeBased,
	)
}

// Scale returns the range zoomed around the middle of its anchor. A zoom of
// 1 reproduces the anchor, smaller values zoom in and larger values zoom out.
func (r VisibleRange) Scale(zoom float64) VisibleRange {
	a := r.anchor
	midX := (a.left + a.right) / 2
	midY := (a.bottom + a.top) / 2
	halfX := zoom * (a.right - a.left) / 2
	halfY := zoom * (a.top - a.bottom) / 2
	r.LeftX, r.RightX = midX-halfX, midX+halfX
	r.BottomY, r.TopY = midY-halfY, midY+halfY
	return r
}

// shift moves the range and its anchor by the given deltas.
func (r VisibleRange) shift(dx, dy float64) VisibleRange {
	r.LeftX += dx
	r.RightX += dx
	r.BottomY += dy
	r.TopY += dy
	r.anchor.left += dx
	r.anchor.right += dx
	r.anchor.bottom += dy
	r.anchor.top += dy
	return r
}

// ScrollUp moves the view up by a tenth of its current height.
func (r VisibleRange) ScrollUp() VisibleRange {
	return r.shift(0, r.YSpan()*0.1)
}

// ScrollDown moves the view down by a tenth of its current height.
func (r VisibleRange) ScrollDown() VisibleRange {
	return r.shift(0, -r.YSpan()*0.1)
}

// ScrollLeft moves the view left by a tenth of its current width.
func (r VisibleRange) ScrollLeft() VisibleRange {
	return r.shift(-r.XSpan()*0.1, 0)
}

// ScrollRight moves the view right by a tenth of its current width.
func (r VisibleRange) ScrollRight() VisibleRange {
	return r.shift(r.XSpan()*0.1, 0)
}

// Contains reports whether the point lies within the range, bounds included.
func (r VisibleRange) Contains(x, y float64) bool {
	return x >= r.LeftX && x <= r.RightX && y >= r.BottomY && y <= r.TopY
}

// Equal compares the visible bounds and time flag, ignoring the anchor.
func (r VisibleRange) Equal(o VisibleRange) bool {
	return r.LeftX == o.LeftX && r.RightX == o.RightX &&
		r.BottomY == o.BottomY && r.TopY == o.TopY &&
		r.TimeBased == o.TimeBased
}

func (r VisibleRange) String() string {
	return fmt.Sprintf("x[%g, %g] y[%g, %g]", r.LeftX, r.RightX, r.BottomY, r.TopY)
}
