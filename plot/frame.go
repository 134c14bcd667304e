package plot

import (
	"image"
	"image/color"
)

// PixelPoint is a visible point in plot-relative pixels, along with the
// data it came from.
type PixelPoint struct {
	X, Y int
	Data Point
}

// SeriesFrame is the render-ready form of one visible series. Points are
// ordered by x and only include points inside the visible range.
type SeriesFrame struct {
	Name      string
	Color     color.NRGBA
	PointSize int
	Derived   bool
	Points    []PixelPoint
}

// Frame is everything a renderer needs to draw the chart. Pixel positions
// in Series, XTicks, YTicks, GridX and GridY are relative to Plot.Min.
type Frame struct {
	Range  VisibleRange
	Bounds image.Rectangle
	Plot   image.Rectangle

	Series []SeriesFrame
	XTicks []Tick
	YTicks []Tick
	// GridX holds the vertical grid lines and GridY the horizontal ones.
	GridX []GridLine
	GridY []GridLine

	ShowGrid  bool
	ShowLines bool

	Errors []error `json:"-"`
}

// ErrorStrings returns the messages of Errors.
func (f Frame) ErrorStrings() []string {
	out := make([]string, len(f.Errors))
	for i, err := range f.Errors {
		out[i] = err.Error()
	}
	return out
}
