package main

import (
	"errors"
	"fmt"
	"image"
	"math"
	"slices"
	"sort"
	"time"

	"gioui.org/f32"
	"gioui.org/gesture"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"git.sr.ht/~whereswaldon/simple-plotter/plot"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

func newIcon(data []byte) *widget.Icon {
	icon, _ := widget.NewIcon(data)
	return icon
}

var (
	zoomInIcon  = newIcon(icons.ActionZoomIn)
	zoomOutIcon = newIcon(icons.ActionZoomOut)
	undoIcon    = newIcon(icons.ContentUndo)
	gridIcon    = newIcon(icons.ImageGridOn)
	linesIcon   = newIcon(icons.EditorShowChart)
	growIcon    = newIcon(icons.ContentAdd)
	shrinkIcon  = newIcon(icons.ContentRemove)
)

const (
	// labelMargin is the gutter left of and below the plot area that holds
	// the axis labels.
	labelMargin = unit.Dp(56)
	// minBoxSize is the smallest drag that counts as a zoom box rather than
	// a click.
	minBoxSize = unit.Dp(4)
	// hoverReach is how far from the cursor column a point may be and still
	// be listed in the hover overlay.
	hoverReach = unit.Dp(8)
)

// ChartView draws a plot.Chart and turns pointer and key input into chart
// operations.
type ChartView struct {
	chart *plot.Chart
	loc   *time.Location

	zoom gesture.Scroll
	// hover gesture state
	pos       f32.Point
	isHovered bool
	// zoom box state
	dragging  bool
	dragID    pointer.ID
	dragStart f32.Point

	zoomInBtn  widget.Clickable
	zoomOutBtn widget.Clickable
	undoBtn    widget.Clickable
	gridBtn    widget.Clickable
	linesBtn   widget.Clickable
	growBtn    widget.Clickable
	shrinkBtn  widget.Clickable
}

func NewChartView(chart *plot.Chart, loc *time.Location) *ChartView {
	return &ChartView{
		chart: chart,
		loc:   loc,
	}
}

func rec(gtx C, w layout.Widget) (D, op.CallOp) {
	macro := op.Record(gtx.Ops)
	dims := w(gtx)
	call := macro.Stop()
	return dims, call
}

func floor[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Floor(float64(a)))
}

func clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

func toPoint(p f32.Point) image.Point {
	return image.Pt(int(floor(p.X)), int(floor(p.Y)))
}

// Update processes the toolbar, pointer and keyboard input of the last
// frame.
func (c *ChartView) Update(gtx C) {
	if c.zoomInBtn.Clicked(gtx) {
		c.chart.ZoomIn()
	}
	if c.zoomOutBtn.Clicked(gtx) {
		c.chart.ZoomOut()
	}
	if c.undoBtn.Clicked(gtx) {
		c.chart.UndoZoom()
	}
	if c.gridBtn.Clicked(gtx) {
		c.chart.ToggleGrid()
	}
	if c.linesBtn.Clicked(gtx) {
		c.chart.ToggleLines()
	}
	if c.growBtn.Clicked(gtx) {
		c.chart.IncreasePointSize()
	}
	if c.shrinkBtn.Clicked(gtx) {
		c.chart.DecreasePointSize()
	}
	if dist := c.zoom.Update(gtx.Metric, gtx.Source, gtx.Now, gesture.Vertical, image.Rect(0, -1e6, 0, 1e6)); dist < 0 {
		c.chart.ZoomIn()
	} else if dist > 0 {
		c.chart.ZoomOut()
	}
	c.updatePointer(gtx)
	c.updateKeys(gtx)
}

func (c *ChartView) updatePointer(gtx C) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: c,
			Kinds:  pointer.Enter | pointer.Leave | pointer.Move | pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel,
		})
		if !ok {
			break
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch e.Kind {
		case pointer.Enter:
			c.isHovered = true
			c.pos = e.Position
		case pointer.Leave:
			c.isHovered = false
		case pointer.Cancel:
			c.isHovered = false
			c.dragging = false
		case pointer.Move, pointer.Drag:
			c.pos = e.Position
		case pointer.Press:
			gtx.Execute(key.FocusCmd{Tag: c})
			c.pos = e.Position
			if e.Buttons&pointer.ButtonSecondary != 0 {
				c.chart.UndoZoom()
			}
			if e.Buttons&pointer.ButtonPrimary != 0 {
				c.dragging = true
				c.dragID = e.PointerID
				c.dragStart = e.Position
			}
		case pointer.Release:
			c.pos = e.Position
			if c.dragging && e.PointerID == c.dragID {
				c.dragging = false
				c.applyBox(gtx)
			}
		}
	}
}

// applyBox zooms to the box dragged out since the last press.
func (c *ChartView) applyBox(gtx C) {
	a, b := toPoint(c.dragStart), toPoint(c.pos)
	if d := gtx.Dp(minBoxSize); abs(a.X-b.X) < d || abs(a.Y-b.Y) < d {
		return
	}
	if err := c.zoomToBox(a, b); err != nil && !errors.Is(err, plot.ErrDegenerateBox) {
		c.chart.Config().Logger.WithError(err).WithField("box", image.Rectangle{Min: a, Max: b}).Warn("cannot zoom to box")
	}
}

// zoomToBox pushes the range enclosed by the screen corners a and b.
func (c *ChartView) zoomToBox(a, b image.Point) error {
	r, err := c.chart.Viewport().RangeFromBox(a, b)
	if err != nil {
		return err
	}
	return c.chart.ApplyRange(r)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (c *ChartView) updateKeys(gtx C) {
	for {
		ev, ok := gtx.Event(
			key.FocusFilter{Target: c},
			key.Filter{Focus: c, Name: key.NameLeftArrow},
			key.Filter{Focus: c, Name: key.NameRightArrow},
			key.Filter{Focus: c, Name: key.NameUpArrow},
			key.Filter{Focus: c, Name: key.NameDownArrow},
			key.Filter{Focus: c, Name: "+", Optional: key.ModShift},
			key.Filter{Focus: c, Name: "=", Optional: key.ModShift},
			key.Filter{Focus: c, Name: "-"},
			key.Filter{Focus: c, Name: "U"},
			key.Filter{Focus: c, Name: "G"},
			key.Filter{Focus: c, Name: "L"},
			key.Filter{Focus: c, Name: "["},
			key.Filter{Focus: c, Name: "]"},
		)
		if !ok {
			break
		}
		e, ok := ev.(key.Event)
		if !ok || e.State != key.Press {
			continue
		}
		c.handleKey(e.Name)
	}
}

func (c *ChartView) handleKey(name key.Name) {
	switch name {
	case key.NameLeftArrow:
		c.chart.ScrollLeft()
	case key.NameRightArrow:
		c.chart.ScrollRight()
	case key.NameUpArrow:
		c.chart.ScrollUp()
	case key.NameDownArrow:
		c.chart.ScrollDown()
	case "+", "=":
		c.chart.ZoomIn()
	case "-":
		c.chart.ZoomOut()
	case "U":
		c.chart.UndoZoom()
	case "G":
		c.chart.ToggleGrid()
	case "L":
		c.chart.ToggleLines()
	case "[":
		c.chart.DecreasePointSize()
	case "]":
		c.chart.IncreasePointSize()
	}
}

func toolButton(th *material.Theme, btn *widget.Clickable, icon *widget.Icon, description string, active bool) layout.Widget {
	return func(gtx C) D {
		b := material.IconButton(th, btn, icon, description)
		b.Size = 20
		b.Inset = layout.UniformInset(6)
		if !active {
			b.Background = fade(th.ContrastBg, disabledAlpha)
		}
		return layout.UniformInset(2).Layout(gtx, b.Layout)
	}
}

// LayoutToolbar draws the zoom, grid, line and point size controls along
// with the current range.
func (c *ChartView) LayoutToolbar(gtx C, th *material.Theme) D {
	f := c.chart.Frame()
	status := material.Body2(th, fmt.Sprintf("%s  zoom %.1f  history %d", f.Range, c.chart.ZoomLevel(), c.chart.Depth()))
	status.MaxLines = 1
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(toolButton(th, &c.zoomInBtn, zoomInIcon, "Zoom in", true)),
		layout.Rigid(toolButton(th, &c.zoomOutBtn, zoomOutIcon, "Zoom out", true)),
		layout.Rigid(toolButton(th, &c.undoBtn, undoIcon, "Undo zoom", c.chart.Depth() > 1)),
		layout.Rigid(toolButton(th, &c.gridBtn, gridIcon, "Toggle grid", f.ShowGrid)),
		layout.Rigid(toolButton(th, &c.linesBtn, linesIcon, "Toggle lines", f.ShowLines)),
		layout.Rigid(toolButton(th, &c.shrinkBtn, shrinkIcon, "Smaller points", true)),
		layout.Rigid(toolButton(th, &c.growBtn, growIcon, "Larger points", true)),
		layout.Flexed(1, func(gtx C) D {
			return layout.UniformInset(4).Layout(gtx, status.Layout)
		}),
	)
}

// LayoutPlot draws the chart into all of the available space.
func (c *ChartView) LayoutPlot(gtx C, th *material.Theme) D {
	size := gtx.Constraints.Max
	c.chart.SetMargin(gtx.Dp(labelMargin))
	c.chart.SetBounds(image.Rectangle{Max: size})
	f := c.chart.Frame()

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	c.zoom.Add(gtx.Ops)
	event.Op(gtx.Ops, c)

	paint.FillShape(gtx.Ops, plotBackground, clip.Rect(f.Plot).Op())
	if f.ShowGrid {
		c.layoutGrid(gtx, f)
	}
	c.layoutSeries(gtx, f)
	c.layoutXLabels(gtx, th, f)
	c.layoutYLabels(gtx, th, f)
	if c.dragging {
		c.layoutZoomBox(gtx)
	} else if c.isHovered {
		c.layoutHover(gtx, th, f)
	}
	return D{Size: size}
}

func (c *ChartView) layoutGrid(gtx C, f plot.Frame) {
	area := f.Plot
	for _, g := range f.GridX {
		x := area.Min.X + g.Pixel
		paint.FillShape(gtx.Ops, gridColor(g.Zero), clip.Rect{
			Min: image.Pt(x, area.Min.Y),
			Max: image.Pt(x+1, area.Max.Y),
		}.Op())
	}
	for _, g := range f.GridY {
		y := area.Min.Y + g.Pixel
		paint.FillShape(gtx.Ops, gridColor(g.Zero), clip.Rect{
			Min: image.Pt(area.Min.X, y),
			Max: image.Pt(area.Max.X, y+1),
		}.Op())
	}
}

func (c *ChartView) layoutSeries(gtx C, f plot.Frame) {
	defer clip.Rect(f.Plot).Push(gtx.Ops).Pop()
	defer op.Offset(f.Plot.Min).Push(gtx.Ops).Pop()
	lineWidth := float32(gtx.Dp(1))
	for _, s := range f.Series {
		if f.ShowLines && len(s.Points) > 1 {
			var p clip.Path
			p.Begin(gtx.Ops)
			p.MoveTo(f32.Pt(float32(s.Points[0].X), float32(s.Points[0].Y)))
			for _, pt := range s.Points[1:] {
				p.LineTo(f32.Pt(float32(pt.X), float32(pt.Y)))
			}
			paint.FillShape(gtx.Ops, s.Color, clip.Stroke{
				Path:  p.End(),
				Width: lineWidth,
			}.Op())
		}
		r := max(gtx.Dp(unit.Dp(s.PointSize))/2, 1)
		extent := image.Pt(r, r)
		for _, pt := range s.Points {
			center := image.Pt(pt.X, pt.Y)
			paint.FillShape(gtx.Ops, s.Color, clip.Ellipse{
				Min: center.Sub(extent),
				Max: center.Add(extent),
			}.Op(gtx.Ops))
		}
	}
}

func (c *ChartView) layoutXLabels(gtx C, th *material.Theme, f plot.Frame) {
	gtx.Constraints.Min = image.Point{}
	tickLen := gtx.Dp(4)
	for _, tick := range f.XTicks {
		x := f.Plot.Min.X + tick.Pixel
		paint.FillShape(gtx.Ops, axisColor, clip.Rect{
			Min: image.Pt(x, f.Plot.Max.Y),
			Max: image.Pt(x+1, f.Plot.Max.Y+tickLen),
		}.Op())
		l := material.Caption(th, tick.Label)
		l.MaxLines = 1
		dims, call := rec(gtx, l.Layout)
		x = clamp(x-dims.Size.X/2, f.Bounds.Min.X, f.Bounds.Max.X-dims.Size.X)
		stack := op.Offset(image.Pt(x, f.Plot.Max.Y+tickLen)).Push(gtx.Ops)
		call.Add(gtx.Ops)
		stack.Pop()
	}
}

func (c *ChartView) layoutYLabels(gtx C, th *material.Theme, f plot.Frame) {
	gtx.Constraints.Min = image.Point{}
	tickLen := gtx.Dp(4)
	for _, tick := range f.YTicks {
		y := f.Plot.Min.Y + tick.Pixel
		paint.FillShape(gtx.Ops, axisColor, clip.Rect{
			Min: image.Pt(f.Plot.Min.X-tickLen, y),
			Max: image.Pt(f.Plot.Min.X, y+1),
		}.Op())
		l := material.Caption(th, tick.Label)
		l.MaxLines = 1
		dims, call := rec(gtx, l.Layout)
		x := max(f.Plot.Min.X-tickLen-dims.Size.X, f.Bounds.Min.X)
		y = clamp(y-dims.Size.Y/2, f.Bounds.Min.Y, f.Plot.Max.Y-dims.Size.Y)
		stack := op.Offset(image.Pt(x, y)).Push(gtx.Ops)
		call.Add(gtx.Ops)
		stack.Pop()
	}
}

func (c *ChartView) layoutZoomBox(gtx C) {
	box := image.Rectangle{Min: toPoint(c.dragStart), Max: toPoint(c.pos)}.Canon()
	paint.FillShape(gtx.Ops, zoomBoxFill, clip.Rect(box).Op())
	paint.FillShape(gtx.Ops, zoomBoxEdge, clip.Stroke{
		Path:  clip.Rect(box).Path(),
		Width: float32(gtx.Dp(1)),
	}.Op())
}

// layoutHover draws cursor lines and an overlay with the data coordinates
// under the cursor and the value of every series near the cursor column.
func (c *ChartView) layoutHover(gtx C, th *material.Theme, f plot.Frame) {
	pt := toPoint(c.pos)
	value, ok := c.chart.Viewport().CursorValue(pt)
	if !ok {
		return
	}
	paint.FillShape(gtx.Ops, cursorColor, clip.Rect{
		Min: image.Pt(pt.X, f.Plot.Min.Y),
		Max: image.Pt(pt.X+1, f.Plot.Max.Y),
	}.Op())
	paint.FillShape(gtx.Ops, cursorColor, clip.Rect{
		Min: image.Pt(f.Plot.Min.X, pt.Y),
		Max: image.Pt(f.Plot.Max.X, pt.Y+1),
	}.Op())

	header := material.Body2(th, fmt.Sprintf("x %s   y %s", f.Range.FormatX(value.X, c.loc), plot.FormatY(value.Y)))
	children := []layout.FlexChild{layout.Rigid(header.Layout)}
	values := []float64{}
	rel := pt.Sub(f.Plot.Min)
	reach := gtx.Dp(hoverReach)
	for _, s := range f.Series {
		idx := nearestPoint(s.Points, rel.X, reach)
		if idx < 0 {
			continue
		}
		data := s.Points[idx].Data
		col := s.Color
		label := material.Body2(th, fmt.Sprintf("%s  %s", s.Name, plot.FormatY(data.Y)))
		insertIdx, _ := slices.BinarySearch(values, data.Y)
		values = slices.Insert(values, insertIdx, data.Y)
		children = slices.Insert(children, len(children)-insertIdx, layout.Rigid(func(gtx C) D {
			return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(label.Layout),
				layout.Rigid(layout.Spacer{Width: 8}.Layout),
				layout.Rigid(func(gtx C) D {
					size := image.Pt(gtx.Dp(8), gtx.Dp(8))
					paint.FillShape(gtx.Ops, col, clip.Ellipse{Max: size}.Op(gtx.Ops))
					return D{Size: size}
				}),
			)
		}))
	}

	origConstraints := gtx.Constraints
	gtx.Constraints.Min = image.Point{}
	hoverInfoDims, hoverInfoCall := rec(gtx, func(gtx C) D {
		return layout.Background{}.Layout(gtx,
			func(gtx C) D {
				paint.FillShape(gtx.Ops, hoverBackground, clip.Rect{Max: gtx.Constraints.Min}.Op())
				return D{Size: gtx.Constraints.Min}
			},
			func(gtx C) D {
				return layout.UniformInset(10).Layout(gtx, func(gtx C) D {
					return layout.Flex{
						Axis:      layout.Vertical,
						Alignment: layout.End,
					}.Layout(gtx, children...)
				})
			},
		)
	})
	gtx.Constraints = origConstraints

	var pos image.Point
	gap := gtx.Dp(4)
	if pt.X > gtx.Constraints.Max.X-pt.X {
		pos.X = max(pt.X-gap-hoverInfoDims.Size.X, 0)
	} else {
		pos.X = min(pt.X+gap, gtx.Constraints.Max.X-hoverInfoDims.Size.X)
	}
	if offscreenY := gtx.Constraints.Max.Y - (pt.Y + hoverInfoDims.Size.Y); offscreenY < 0 {
		pos.Y = max(pt.Y+offscreenY, 0)
	} else {
		pos.Y = pt.Y
	}
	transform := op.Offset(pos).Push(gtx.Ops)
	hoverInfoCall.Add(gtx.Ops)
	transform.Pop()
}

// nearestPoint returns the index of the point closest to column x, or -1 if
// none is within reach. Points are ordered by x.
func nearestPoint(points []plot.PixelPoint, x, reach int) int {
	idx := sort.Search(len(points), func(i int) bool {
		return points[i].X >= x
	})
	best, bestDist := -1, reach+1
	for _, i := range []int{idx - 1, idx} {
		if i < 0 || i >= len(points) {
			continue
		}
		if d := abs(points[i].X - x); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
