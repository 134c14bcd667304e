package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"git.sr.ht/~whereswaldon/simple-plotter/backend"
	"git.sr.ht/~whereswaldon/simple-plotter/expr"
	"git.sr.ht/~whereswaldon/simple-plotter/plot"
)

// Job describes a chart to build from files on disk.
type Job struct {
	Files []string
	// Columns names the columns of headerless files.
	Columns []string
	// Definitions are derived series in "name = expression" form, applied
	// in order.
	Definitions []string
	// Range replaces the fitted range when set. Whether x is time-based is
	// taken from the loaded data.
	Range  *plot.VisibleRange
	Config plot.Config
	// Width and Height are the size of the chart in pixels.
	Width, Height int
}

// Chart loads every file and definition into a new chart.
func (j Job) Chart() (*plot.Chart, error) {
	c := plot.NewChart(j.Config)
	cfg := c.Config()
	c.SetBounds(image.Rect(0, 0, j.Width, j.Height))
	for _, path := range j.Files {
		ds, err := backend.ReadFile(path, backend.CSVOptions{
			Columns:  j.Columns,
			Location: cfg.Location,
			Logger:   cfg.Logger,
		})
		if err != nil {
			return nil, err
		}
		for _, in := range ds.Inputs(cfg.Palette, len(c.Series())) {
			if err := c.AddSeries(in); err != nil {
				return nil, err
			}
		}
	}
	for _, def := range j.Definitions {
		name, e, err := expr.ParseDefinition(def)
		if err != nil {
			return nil, fmt.Errorf("failed parsing definition %q: %w", def, err)
		}
		if err := c.AddDerived(name, e.Source(), color.NRGBA{}); err != nil {
			return nil, err
		}
	}
	if j.Range != nil {
		r := *j.Range
		r = plot.NewVisibleRange(r.LeftX, r.RightX, r.BottomY, r.TopY, c.Range().TimeBased)
		if err := c.ApplyRange(r); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ParseRange reads a range written as "left,right,bottom,top". Time-based
// x bounds are given in Unix seconds.
func ParseRange(s string) (plot.VisibleRange, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return plot.VisibleRange{}, fmt.Errorf("expected left,right,bottom,top, got %q", s)
	}
	var v [4]float64
	var errs []error
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		v[i] = f
	}
	if err := errors.Join(errs...); err != nil {
		return plot.VisibleRange{}, fmt.Errorf("failed parsing range %q: %w", s, err)
	}
	r := plot.NewVisibleRange(v[0], v[1], v[2], v[3], false)
	if !r.Valid() {
		return plot.VisibleRange{}, fmt.Errorf("range %q has no area", s)
	}
	return r, nil
}
