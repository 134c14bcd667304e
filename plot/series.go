package plot

import (
	"image/color"
	"math"
	"sort"

	"git.sr.ht/~whereswaldon/simple-plotter/expr"
)

// Point is a single (x, y) sample in data space.
type Point struct {
	X, Y float64
}

// SeriesInput is an already-parsed data series submitted by an ingestion
// source. Time-based x values are Unix epoch seconds.
type SeriesInput struct {
	Name      string
	Points    []Point
	Color     color.NRGBA
	TimeBased bool
	Source    string
}

// Derivation describes how a derived series is computed.
type Derivation struct {
	// Expression is the text the series was defined with.
	Expression string
	// References are the sorted names of the series the expression reads.
	// The independent variable x is not included.
	References []string

	compiled *expr.Expression
}

// Series represents one data set in a visualization. Explicit series carry
// their own points. Derived series have a non-nil Derivation and their
// points are recomputed on every evaluation pass.
type Series struct {
	Name      string
	Color     color.NRGBA
	Points    []Point
	TimeBased bool
	PointSize int
	Source    string
	Visible   bool
	Range     VisibleRange

	Derivation *Derivation
}

// Derived reports whether the series is computed from an expression.
func (s *Series) Derived() bool {
	return s.Derivation != nil
}

func newDerivation(e *expr.Expression) *Derivation {
	d := &Derivation{
		Expression: e.Source(),
		compiled:   e,
	}
	for _, name := range e.References() {
		if name == VarX {
			continue
		}
		d.References = append(d.References, name)
	}
	return d
}

// sortPoints orders points by x, keeping the submission order of equal xs.
func sortPoints(points []Point) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].X < points[j].X
	})
}

// CalculateRange fits a range around points. The tight bounding box is
// widened to whole numbers and then padded:
//
//   - x with zero width grows by 1 when it sits at 0, by an hour when it is
//     time-based, and by a tenth of its magnitude otherwise.
//   - time-based x with non-zero width grows by a minute on each side when
//     it spans less than a day, and by 500 seconds otherwise.
//   - other x bounds each move outward by a tenth of their own magnitude.
//   - y with zero height grows by 1 when it sits at 0, and by a hundredth of
//     its magnitude otherwise.
//   - other y bounds each move outward by a tenth of their own magnitude.
//
// The result always has positive width and height.
func CalculateRange(points []Point, timeBased bool) (VisibleRange, error) {
	if len(points) == 0 {
		return VisibleRange{}, ErrNoPoints
	}
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	left, right := math.Floor(minX), math.Ceil(maxX)
	bottom, top := math.Floor(minY), math.Ceil(maxY)

	switch span := right - left; {
	case span == 0:
		var ext float64
		switch {
		case left == 0:
			ext = 1
		case timeBased:
			ext = 3600
		default:
			ext = math.Abs(left) * 0.1
		}
		left, right = left-ext, right+ext
	case timeBased:
		ext := 500.0
		if span < 86400 {
			ext = 60
		}
		left, right = left-ext, right+ext
	default:
		left, right = left-math.Abs(left)*0.1, right+math.Abs(right)*0.1
	}

	if top-bottom == 0 {
		ext := 1.0
		if bottom != 0 {
			ext = math.Abs(bottom) * 0.01
		}
		bottom, top = bottom-ext, top+ext
	} else {
		bottom, top = bottom-math.Abs(bottom)*0.1, top+math.Abs(top)*0.1
	}
	return NewVisibleRange(left, right, bottom, top, timeBased), nil
}
