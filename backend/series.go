package backend

import (
	"math"
	"slices"

	"git.sr.ht/~whereswaldon/simple-plotter/plot"
)

// Series is one data column of a dataset, in the order it was read.
type Series struct {
	name                 string
	points               []plot.Point
	domainMin, domainMax float64
	rangeMin, rangeMax   float64
	initialized          bool
}

func NewSeries(name string) *Series {
	return &Series{name: name}
}

func (s *Series) Name() string {
	return s.name
}

func (s *Series) Initialized() bool {
	return s.initialized
}

func (s *Series) Len() int {
	return len(s.points)
}

// Domain returns the smallest and largest x value.
func (s *Series) Domain() (min, max float64) {
	return s.domainMin, s.domainMax
}

// ValueRange returns the smallest and largest y value.
func (s *Series) ValueRange() (min, max float64) {
	return s.rangeMin, s.rangeMax
}

// Points returns a copy of the series' points.
func (s *Series) Points() []plot.Point {
	return slices.Clone(s.points)
}

// Insert adds a point to the series. Points with a NaN or infinite
// coordinate are not added and the method returns false. Otherwise, the
// method returns true.
func (s *Series) Insert(p plot.Point) (inserted bool) {
	if !finite(p.X) || !finite(p.Y) {
		return false
	}
	if !s.initialized {
		s.domainMin, s.domainMax = p.X, p.X
		s.rangeMin, s.rangeMax = p.Y, p.Y
		s.initialized = true
	}
	s.domainMin = min(p.X, s.domainMin)
	s.domainMax = max(p.X, s.domainMax)
	s.rangeMin = min(p.Y, s.rangeMin)
	s.rangeMax = max(p.Y, s.rangeMax)
	s.points = append(s.points, p)
	return true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
