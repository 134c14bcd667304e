package main

import (
	"errors"
	"image"
	"path/filepath"
	"strconv"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"git.sr.ht/~whereswaldon/simple-plotter/plot"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

var deleteIcon = newIcon(icons.ActionDelete)

type seriesRow struct {
	visible widget.Bool
	remove  widget.Clickable
}

// SeriesTable lists every series of a chart with controls to hide or
// remove it.
type SeriesTable struct {
	chart *plot.Chart
	grid  component.GridState
	rows  map[string]*seriesRow
}

func NewSeriesTable(chart *plot.Chart) *SeriesTable {
	return &SeriesTable{
		chart: chart,
		rows:  make(map[string]*seriesRow),
	}
}

func (t *SeriesTable) row(name string) *seriesRow {
	r, ok := t.rows[name]
	if !ok {
		r = &seriesRow{visible: widget.Bool{Value: true}}
		t.rows[name] = r
	}
	return r
}

// Update applies the visibility and removal requests of the last frame.
func (t *SeriesTable) Update(gtx C) error {
	var errs []error
	for _, s := range t.chart.Series() {
		r := t.row(s.Name)
		if r.visible.Update(gtx) {
			if err := t.chart.SetVisible(s.Name, r.visible.Value); err != nil {
				errs = append(errs, err)
			}
		}
		if r.remove.Clicked(gtx) {
			if err := t.chart.RemoveSeries(s.Name); err != nil {
				errs = append(errs, err)
				continue
			}
			delete(t.rows, s.Name)
		}
	}
	return errors.Join(errs...)
}

func describe(s *plot.Series) (kind, definition string) {
	if s.Derived() {
		return "derived", s.Derivation.Expression
	}
	return "data", filepath.Base(s.Source)
}

func (t *SeriesTable) Layout(gtx C, th *material.Theme) D {
	series := t.chart.Series()
	table := component.Table(th, &t.grid)
	table.HScrollbarStyle.Indicator.MinorWidth = 0
	table.HScrollbarStyle.Track.MinorPadding = 0
	colorColWidth := gtx.Dp(50)
	kindColWidth := gtx.Dp(80)
	countColWidth := gtx.Dp(80)
	buttonColWidth := gtx.Dp(60)
	flexWidth := gtx.Constraints.Max.X - colorColWidth - kindColWidth - countColWidth - 2*buttonColWidth - gtx.Dp(table.VScrollbarStyle.Width())
	rowHeight := gtx.Dp(36)
	const (
		colorCol = iota
		nameCol
		kindCol
		definitionCol
		countCol
		visibleCol
		removeCol
		numCols
	)
	return table.Layout(gtx, len(series), numCols,
		func(axis layout.Axis, index, constraint int) int {
			if axis == layout.Vertical {
				return min(constraint, rowHeight)
			}
			var size int
			switch index {
			case colorCol:
				size = colorColWidth
			case nameCol:
				size = flexWidth / 3
			case kindCol:
				size = kindColWidth
			case definitionCol:
				size = flexWidth - flexWidth/3
			case countCol:
				size = countColWidth
			case visibleCol, removeCol:
				size = buttonColWidth
			}
			return min(max(size, 0), constraint)
		},
		func(gtx C, index int) D {
			var l material.LabelStyle
			switch index {
			case colorCol:
				l = material.Body1(th, "Color")
			case nameCol:
				l = material.Body1(th, "Series")
			case kindCol:
				l = material.Body1(th, "Kind")
			case definitionCol:
				l = material.Body1(th, "Source")
			case countCol:
				l = material.Body1(th, "Points")
				l.Alignment = text.End
			case visibleCol:
				l = material.Body1(th, "Show")
				l.Alignment = text.Middle
			case removeCol:
				l = material.Body1(th, "Remove")
				l.Alignment = text.Middle
			}
			l.MaxLines = 1
			l.Color = th.ContrastFg
			return layout.Background{}.Layout(gtx,
				func(gtx C) D {
					paint.FillShape(gtx.Ops, th.ContrastBg, clip.Rect{Max: gtx.Constraints.Max}.Op())
					return D{Size: gtx.Constraints.Min}
				},
				func(gtx C) D {
					return layout.UniformInset(2).Layout(gtx, l.Layout)
				},
			)
		},
		func(gtx C, row, col int) (dims D) {
			defer func() {
				dims.Size = gtx.Constraints.Constrain(dims.Size)
			}()
			s := series[row]
			r := t.row(s.Name)
			r.visible.Value = s.Visible
			shown := s.Visible
			label := func(txt string) material.LabelStyle {
				l := material.Body2(th, txt)
				l.MaxLines = 1
				if !shown {
					l.Color.A = disabledAlpha
				}
				return l
			}
			dims = layout.UniformInset(2).Layout(gtx, func(gtx C) D {
				switch col {
				case colorCol:
					return layout.Center.Layout(gtx, func(gtx C) D {
						sideLen := gtx.Dp(10)
						sz := image.Pt(sideLen, sideLen)
						c := s.Color
						if !shown {
							c.A = disabledAlpha
						}
						paint.FillShape(gtx.Ops, c, clip.Rect{Max: sz}.Op())
						return D{Size: sz}
					})
				case nameCol:
					return label(s.Name).Layout(gtx)
				case kindCol:
					kind, _ := describe(s)
					return label(kind).Layout(gtx)
				case definitionCol:
					_, definition := describe(s)
					return label(definition).Layout(gtx)
				case countCol:
					l := label(strconv.Itoa(len(s.Points)))
					l.Alignment = text.End
					return l.Layout(gtx)
				case visibleCol:
					return layout.Center.Layout(gtx, material.CheckBox(th, &r.visible, "").Layout)
				case removeCol:
					return layout.Center.Layout(gtx, func(gtx C) D {
						b := material.IconButton(th, &r.remove, deleteIcon, "Remove "+s.Name)
						b.Size = 16
						b.Inset = layout.UniformInset(4)
						return b.Layout(gtx)
					})
				}
				return D{Size: gtx.Constraints.Min}
			})
			if row&1 != 0 {
				paint.FillShape(gtx.Ops, fade(s.Color, 30), clip.Rect{Max: gtx.Constraints.Max}.Op())
			}
			return dims
		})
}
