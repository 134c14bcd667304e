package backend

import (
	"git.sr.ht/~whereswaldon/simple-plotter/plot"
)

// Dataset is the content of one CSV source: a shared x column and one
// Series per remaining column.
type Dataset struct {
	// Path is the file the data was read from, if any.
	Path string
	// XName is the heading of the x column.
	XName string
	// TimeBased is set when the x column holds timestamps. X values are then
	// Unix epoch seconds.
	TimeBased bool
	Series    []*Series
}

// Initialized reports whether any series holds data.
func (d *Dataset) Initialized() bool {
	for _, s := range d.Series {
		if s.Initialized() {
			return true
		}
	}
	return false
}

// Domain returns the x extent across all initialized series.
func (d *Dataset) Domain() (dMin float64, dMax float64) {
	first := true
	for _, s := range d.Series {
		if !s.Initialized() {
			continue
		}
		sMin, sMax := s.Domain()
		if first {
			dMin, dMax, first = sMin, sMax, false
			continue
		}
		dMin = min(sMin, dMin)
		dMax = max(sMax, dMax)
	}
	return dMin, dMax
}

// SetHeadings registers one new series per heading. It must be invoked
// prior to the first call to [Insert] for those series.
func (d *Dataset) SetHeadings(headings []string) {
	for _, h := range headings {
		d.Series = append(d.Series, NewSeries(h))
	}
}

// Insert adds p to the series at index. Will panic if no series was
// registered at that index via [SetHeadings].
func (d *Dataset) Insert(index int, p plot.Point) bool {
	return d.Series[index].Insert(p)
}

// Inputs converts every initialized series into chart input, taking
// colors from the palette starting at offset.
func (d *Dataset) Inputs(palette plot.Palette, offset int) []plot.SeriesInput {
	out := make([]plot.SeriesInput, 0, len(d.Series))
	for _, s := range d.Series {
		if !s.Initialized() {
			continue
		}
		out = append(out, plot.SeriesInput{
			Name:      s.Name(),
			Points:    s.Points(),
			Color:     palette.At(offset + len(out)),
			TimeBased: d.TimeBased,
			Source:    d.Path,
		})
	}
	return out
}
