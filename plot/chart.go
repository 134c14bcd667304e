// Package plot holds the data and viewport model of a 2D chart: the visible
// range and its zoom history, explicit and derived series, the dependency
// graph between them, the evaluator that fills in derived values, and the
// mapping between data coordinates and pixels.
package plot

import (
	"fmt"
	"image"
	"image/color"
	"slices"
	"strings"

	"git.sr.ht/~whereswaldon/simple-plotter/expr"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
)

const (
	minPointSize  = 2
	pointSizeStep = 2
)

// Chart owns every series of a plot along with the current range, and
// recomputes its Frame synchronously after each change. A Chart is not safe
// for concurrent use.
type Chart struct {
	cfg    Config
	log    logrus.FieldLogger
	series map[string]*Series
	graph  *Graph
	stack  *RangeStack
	eval   Evaluator
	zoom   float64
	// zooms holds the zoom level of every stack entry below the top.
	zooms  []float64
	bounds image.Rectangle

	pointSize int
	showGrid  bool
	showLines bool

	report Report
	frame  Frame
}

func NewChart(cfg Config) *Chart {
	cfg = cfg.withDefaults()
	c := &Chart{
		cfg:    cfg,
		log:    cfg.Logger,
		series: make(map[string]*Series),
		graph:  NewGraph(),
		stack:  NewRangeStack(cfg.DefaultRange),
		eval: Evaluator{
			Samples: cfg.Samples,
			Logger:  cfg.Logger,
		},
		zoom:      1,
		pointSize: cfg.PointSize,
		showGrid:  true,
	}
	c.refresh()
	return c
}

func (c *Chart) Config() Config {
	return c.cfg
}

func checkName(name string) error {
	switch {
	case name == "":
		return &ConfigError{Series: name, Reason: "name is empty"}
	case name == VarX:
		return &ConfigError{Series: name, Reason: "x is the independent variable"}
	case expr.IsReserved(name):
		return &ConfigError{Series: name, Reason: "name is reserved by the expression language"}
	}
	return nil
}

func (c *Chart) colorFor(col color.NRGBA) color.NRGBA {
	if col.A == 0 {
		return c.cfg.Palette.At(len(c.series))
	}
	return col
}

// AddSeries adds or replaces an explicit series. The base range becomes the
// union of every explicit series' fitted range, and the zoom history is
// cleared.
func (c *Chart) AddSeries(in SeriesInput) error {
	if err := checkName(in.Name); err != nil {
		return err
	}
	rg, err := CalculateRange(in.Points, in.TimeBased)
	if err != nil {
		return &ConfigError{Series: in.Name, Reason: "cannot fit range", Err: err}
	}
	points := slices.Clone(in.Points)
	sortPoints(points)
	s := &Series{
		Name:      in.Name,
		Color:     in.Color,
		Points:    points,
		TimeBased: in.TimeBased,
		PointSize: c.pointSize,
		Source:    in.Source,
		Visible:   true,
		Range:     rg,
	}
	if old, ok := c.series[in.Name]; ok {
		s.Visible = old.Visible
		if s.Color.A == 0 {
			s.Color = old.Color
		}
		if err := c.graph.ClearReferences(in.Name); err != nil {
			return err
		}
	} else {
		s.Color = c.colorFor(s.Color)
		if _, err := c.graph.AddNode(in.Name); err != nil {
			return err
		}
	}
	c.series[in.Name] = s
	c.rebase()
	c.refresh()
	return nil
}

// AddDerived defines a series computed from expression. The definition is
// rejected, leaving the chart unchanged, if the name is taken or reserved,
// the expression is malformed, it reads an undefined series, or it would
// create a dependency cycle.
func (c *Chart) AddDerived(name, expression string, col color.NRGBA) error {
	if err := checkName(name); err != nil {
		return err
	}
	if _, ok := c.series[name]; ok {
		return &ConfigError{Series: name, Reason: "name already in use"}
	}
	e, err := expr.Parse(expression)
	if err != nil {
		return &ConfigError{Series: name, Reason: "invalid expression", Err: err}
	}
	d := newDerivation(e)
	for _, ref := range d.References {
		if _, ok := c.series[ref]; !ok {
			return &ConfigError{
				Series: name,
				Reason: fmt.Sprintf("reference to undefined series %q", ref),
				Err:    ErrUnknownSeries,
			}
		}
	}
	if _, err := c.graph.AddNode(name); err != nil {
		return &ConfigError{Series: name, Reason: "cannot add graph node", Err: err}
	}
	for _, ref := range d.References {
		if err := c.graph.AddReference(name, ref); err != nil {
			_ = c.graph.DeleteNode(name)
			return &ConfigError{Series: name, Reason: "cannot add reference", Err: err}
		}
	}
	if _, err := c.graph.EvaluationOrder(); err != nil {
		_ = c.graph.DeleteNode(name)
		c.log.WithError(err).WithField("series", name).Warn("rejected cyclic definition")
		return &ConfigError{Series: name, Reason: "definition is cyclic", Err: err}
	}
	base := c.stack.Base()
	c.series[name] = &Series{
		Name:       name,
		Color:      c.colorFor(col),
		TimeBased:  base.TimeBased,
		PointSize:  c.pointSize,
		Source:     "= " + d.Expression,
		Visible:    true,
		Range:      base,
		Derivation: d,
	}
	c.refresh()
	return nil
}

// RemoveSeries deletes a series and its graph node. A series that other
// series still read cannot be removed.
func (c *Chart) RemoveSeries(name string) error {
	s, ok := c.series[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSeries, name)
	}
	if deps := c.graph.Dependents(name); len(deps) > 0 {
		return &ConfigError{
			Series: name,
			Reason: "still read by " + strings.Join(deps, ", "),
		}
	}
	if err := c.graph.DeleteNode(name); err != nil {
		return fmt.Errorf("failed removing series %s: %w", name, err)
	}
	delete(c.series, name)
	if !s.Derived() {
		c.rebase()
	}
	c.refresh()
	return nil
}

// Lookup returns the named series.
func (c *Chart) Lookup(name string) (*Series, bool) {
	s, ok := c.series[name]
	return s, ok
}

// Series returns every series sorted by name.
func (c *Chart) Series() []*Series {
	names := maps.Keys(c.series)
	slices.Sort(names)
	out := make([]*Series, len(names))
	for i, name := range names {
		out[i] = c.series[name]
	}
	return out
}

// SetVisible shows or hides a series. Hidden series are still evaluated so
// that series reading them keep working.
func (c *Chart) SetVisible(name string, visible bool) error {
	s, ok := c.series[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSeries, name)
	}
	if s.Visible != visible {
		s.Visible = visible
		c.project()
	}
	return nil
}

// rebase resets the zoom history to the union of every explicit series.
func (c *Chart) rebase() {
	var (
		base  VisibleRange
		found bool
	)
	for _, s := range c.series {
		if s.Derived() {
			continue
		}
		if !found {
			base, found = s.Range, true
			continue
		}
		base = base.Union(s.Range)
	}
	if !found {
		base = c.cfg.DefaultRange
	}
	c.stack.Reset(base)
	c.zooms = c.zooms[:0]
	c.zoom = 1
}

// Range returns the current visible range.
func (c *Chart) Range() VisibleRange {
	return c.stack.Top()
}

// Depth returns the number of entries in the zoom history.
func (c *Chart) Depth() int {
	return c.stack.Len()
}

// ApplyRange pushes r onto the zoom history and makes it current.
func (c *Chart) ApplyRange(r VisibleRange) error {
	if !r.Valid() {
		return fmt.Errorf("cannot apply empty range %s", r)
	}
	c.stack.Push(r)
	c.zooms = append(c.zooms, c.zoom)
	c.zoom = 1
	c.refresh()
	return nil
}

// UndoZoom returns to the previous range along with the zoom level it had.
// The base range is never popped; in that case UndoZoom does nothing and
// returns false.
func (c *Chart) UndoZoom() bool {
	if !c.stack.Pop() {
		return false
	}
	last := len(c.zooms) - 1
	c.zoom = c.zooms[last]
	c.zooms = c.zooms[:last]
	c.refresh()
	return true
}

func (c *Chart) ZoomLevel() float64 {
	return c.zoom
}

// ZoomIn narrows the current range by one zoom step. It returns false once
// the minimum zoom level has been reached.
func (c *Chart) ZoomIn() bool {
	next := c.zoom - c.cfg.ZoomStep
	if next < c.cfg.MinZoom-1e-9 {
		return false
	}
	c.setZoom(next)
	return true
}

// ZoomOut widens the current range by one zoom step.
func (c *Chart) ZoomOut() {
	c.setZoom(c.zoom + c.cfg.ZoomStep)
}

func (c *Chart) setZoom(level float64) {
	c.zoom = level
	c.stack.ReplaceTop(c.stack.Top().Scale(level))
	c.refresh()
}

func (c *Chart) scroll(fn func(VisibleRange) VisibleRange) {
	c.stack.ReplaceTop(fn(c.stack.Top()))
	c.refresh()
}

func (c *Chart) ScrollUp()    { c.scroll(VisibleRange.ScrollUp) }
func (c *Chart) ScrollDown()  { c.scroll(VisibleRange.ScrollDown) }
func (c *Chart) ScrollLeft()  { c.scroll(VisibleRange.ScrollLeft) }
func (c *Chart) ScrollRight() { c.scroll(VisibleRange.ScrollRight) }

// SetBounds sets the screen rectangle the chart is drawn into, including
// the label margin.
func (c *Chart) SetBounds(bounds image.Rectangle) {
	if bounds == c.bounds {
		return
	}
	c.bounds = bounds
	c.project()
}

// SetMargin sets the width in pixels of the label gutter.
func (c *Chart) SetMargin(margin int) {
	margin = max(margin, 0)
	if margin == c.cfg.Margin {
		return
	}
	c.cfg.Margin = margin
	c.project()
}

// Viewport returns the current data to pixel mapping.
func (c *Chart) Viewport() Viewport {
	return Viewport{
		Bounds: c.bounds,
		Margin: c.cfg.Margin,
		Range:  c.stack.Top(),
	}
}

func (c *Chart) PointSize() int {
	return c.pointSize
}

// IncreasePointSize grows the points of every series.
func (c *Chart) IncreasePointSize() {
	c.setPointSize(c.pointSize + pointSizeStep)
}

// DecreasePointSize shrinks the points of every series, down to a minimum
// of two pixels.
func (c *Chart) DecreasePointSize() {
	c.setPointSize(max(c.pointSize-pointSizeStep, minPointSize))
}

func (c *Chart) setPointSize(size int) {
	c.pointSize = size
	for _, s := range c.series {
		s.PointSize = size
	}
	c.project()
}

// ToggleGrid turns grid lines on or off.
func (c *Chart) ToggleGrid() {
	c.showGrid = !c.showGrid
	c.project()
}

// ToggleLines turns lines between consecutive points on or off.
func (c *Chart) ToggleLines() {
	c.showLines = !c.showLines
	c.project()
}

// Report returns the outcome of the last evaluation pass.
func (c *Chart) Report() Report {
	return c.report
}

// Frame returns the result of the last pass.
func (c *Chart) Frame() Frame {
	return c.frame
}

// refresh recomputes every derived series for the current range and
// projects the result.
func (c *Chart) refresh() {
	order, err := c.graph.EvaluationOrder()
	if err != nil {
		c.log.WithError(err).Error("cannot order series")
		c.report = Report{Errors: []error{err}}
		c.project()
		return
	}
	cache := NewValueCache()
	base := c.stack.Base()
	for _, s := range c.series {
		if s.Derived() {
			s.Range = base
			s.TimeBased = base.TimeBased
			continue
		}
		cache.Seed(s)
	}
	c.report = c.eval.Evaluate(order, c.series, c.stack.Top(), cache)
	c.project()
}

// project rebuilds the frame from the current series and viewport.
func (c *Chart) project() {
	vp := c.Viewport()
	f := Frame{
		Range:     vp.Range,
		Bounds:    c.bounds,
		Plot:      vp.Plot(),
		XTicks:    vp.XTicks(vp.Range.XLabels(c.cfg.Location)),
		YTicks:    vp.YTicks(vp.Range.YLabels()),
		ShowGrid:  c.showGrid,
		ShowLines: c.showLines,
		Errors:    c.report.Errors,
	}
	f.GridX, f.GridY = vp.Grid()
	for _, s := range c.Series() {
		if !s.Visible {
			continue
		}
		sf := SeriesFrame{
			Name:      s.Name,
			Color:     s.Color,
			PointSize: s.PointSize,
			Derived:   s.Derived(),
		}
		for _, p := range s.Points {
			if !vp.OnScreen(p) {
				continue
			}
			sf.Points = append(sf.Points, PixelPoint{
				X:    vp.DataXToPixel(p.X),
				Y:    vp.DataYToPixel(p.Y),
				Data: p,
			})
		}
		f.Series = append(f.Series, sf)
	}
	c.frame = f
}
