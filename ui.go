package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"sort"
	"strings"

	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"git.sr.ht/~whereswaldon/simple-plotter/backend"
	"git.sr.ht/~whereswaldon/simple-plotter/plot"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

const (
	tabChart  = "chart"
	tabSeries = "series"
)

var openIcon = newIcon(icons.FileFolderOpen)

// UI is responsible for holding the state of and drawing the top-level UI.
type UI struct {
	ws   backend.WindowState
	expl *explorer.Explorer
	log  logrus.FieldLogger

	chart  *plot.Chart
	view   *ChartView
	table  *SeriesTable
	derive *DeriveEditor

	tab         widget.Enum
	explorerBtn widget.Clickable
	emptyBtn    widget.Clickable
	started     bool
	loading     bool

	// applied holds the sequence number of the last load applied per path.
	applied  map[string]uint64
	loadErrs map[string]error
	err      error

	th         *material.Theme
	loadStream *stream.Stream[[]backend.Load]
}

// NewUI builds the UI for chart. Definitions are applied as soon as the
// series they read have been loaded.
func NewUI(ws backend.WindowState, expl *explorer.Explorer, chart *plot.Chart, definitions []string, loading bool) *UI {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	cfg := chart.Config()
	ui := &UI{
		ws:         ws,
		expl:       expl,
		log:        cfg.Logger,
		chart:      chart,
		view:       NewChartView(chart, cfg.Location),
		table:      NewSeriesTable(chart),
		derive:     NewDeriveEditor(chart, cfg.Logger),
		tab:        widget.Enum{Value: tabChart},
		loading:    loading,
		applied:    make(map[string]uint64),
		loadErrs:   make(map[string]error),
		th:         th,
		loadStream: stream.New(ws.Controller, ws.Bundle.Datasource.Loads),
	}
	ui.derive.Queue(definitions...)
	return ui
}

// applyLoads adds the series of every load newer than the last one applied
// for its path.
func (ui *UI) applyLoads(loads []backend.Load) {
	changed := false
	for _, l := range loads {
		if l.Seq <= ui.applied[l.Path] {
			continue
		}
		ui.applied[l.Path] = l.Seq
		ui.loading = false
		if l.Err != nil {
			ui.loadErrs[l.Path] = l.Err
			continue
		}
		delete(ui.loadErrs, l.Path)
		for _, in := range l.Dataset.Inputs(ui.chart.Config().Palette, len(ui.chart.Series())) {
			if _, ok := ui.chart.Lookup(in.Name); ok {
				// Keep the color the series already has.
				in.Color = color.NRGBA{}
			}
			if err := ui.chart.AddSeries(in); err != nil {
				ui.log.WithError(err).WithField("file", l.Path).Warn("failed adding series")
				ui.err = err
				continue
			}
			changed = true
		}
		lo, hi := l.Dataset.Domain()
		ui.log.WithFields(logrus.Fields{
			"file":   l.Path,
			"series": len(l.Dataset.Series),
			"reload": l.Reload,
			"domain": fmt.Sprintf("[%g, %g]", lo, hi),
		}).Debug("applied load")
		for _, s := range l.Dataset.Series {
			if !s.Initialized() {
				continue
			}
			vlo, vhi := s.ValueRange()
			ui.log.WithFields(logrus.Fields{
				"file":   l.Path,
				"series": s.Name(),
				"points": s.Len(),
				"values": fmt.Sprintf("[%g, %g]", vlo, vhi),
			}).Debug("loaded series")
		}
	}
	if changed {
		ui.derive.Retry()
	}
}

// Update the state of the UI from the events of the last frame.
func (ui *UI) Update(gtx C) {
	if loads, ok := ui.loadStream.ReadNew(gtx); ok {
		ui.applyLoads(loads)
	}
	ui.tab.Update(gtx)
	if ui.explorerBtn.Clicked(gtx) {
		ui.ws.Bundle.Datasource.LoadFromFile(ui.expl)
	}
	if ui.emptyBtn.Clicked(gtx) {
		ui.started = true
		ui.tab.Value = tabSeries
	}
	ui.view.Update(gtx)
	if err := ui.table.Update(gtx); err != nil {
		ui.err = err
	}
}

// errorText summarizes load failures, the last rejected action and the
// series that failed to evaluate.
func (ui *UI) errorText() string {
	var errs []error
	paths := maps.Keys(ui.loadErrs)
	sort.Strings(paths)
	for _, path := range paths {
		errs = append(errs, ui.loadErrs[path])
	}
	if ui.err != nil {
		errs = append(errs, ui.err)
	}
	errs = append(errs, ui.chart.Report().Errors...)
	if err := errors.Join(errs...); err != nil {
		return err.Error()
	}
	return ""
}

type TabStyle struct {
	state  *widget.Enum
	label  material.LabelStyle
	border widget.Border
	inset  layout.Inset
	value  string
	fill   color.NRGBA
}

func Tab(th *material.Theme, state *widget.Enum, value, display string) TabStyle {
	selected := state.Value == value
	ts := TabStyle{
		state: state,
		label: material.Body1(th, display),
		inset: layout.UniformInset(2),
		border: widget.Border{
			Width: 2,
			Color: th.ContrastBg,
		},
		value: value,
	}
	ts.label.Alignment = text.Middle
	if selected {
		ts.label.Color = th.ContrastFg
		ts.fill = th.ContrastBg
	}
	return ts
}

func (t TabStyle) Layout(gtx C) D {
	return t.inset.Layout(gtx, func(gtx C) D {
		return t.border.Layout(gtx, func(gtx C) D {
			return t.inset.Layout(gtx, func(gtx C) D {
				return t.state.Layout(gtx, t.value, func(gtx C) D {
					return layout.Background{}.Layout(gtx, func(gtx C) D {
						paint.FillShape(gtx.Ops, t.fill, clip.Rect{Max: gtx.Constraints.Min}.Op())
						return D{Size: gtx.Constraints.Min}
					}, t.label.Layout)
				})
			})
		})
	})
}

func (ui *UI) layoutChartTab(gtx C) D {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(toolButton(ui.th, &ui.explorerBtn, openIcon, "Open CSV", true)),
				layout.Flexed(1, func(gtx C) D {
					return ui.view.LayoutToolbar(gtx, ui.th)
				}),
			)
		}),
		layout.Flexed(1, func(gtx C) D {
			return ui.view.LayoutPlot(gtx, ui.th)
		}),
	)
}

func (ui *UI) layoutSeriesTab(gtx C) D {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return ui.derive.Layout(gtx, ui.th)
		}),
		layout.Flexed(1, func(gtx C) D {
			return ui.table.Layout(gtx, ui.th)
		}),
	)
}

func (ui *UI) layoutMainArea(gtx C) D {
	return layout.Flex{
		Axis: layout.Vertical,
	}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return layout.Flex{}.Layout(gtx,
				layout.Flexed(1, Tab(ui.th, &ui.tab, tabChart, "Chart").Layout),
				layout.Flexed(1, Tab(ui.th, &ui.tab, tabSeries, fmt.Sprintf("Series (%d)", len(ui.chart.Series()))).Layout),
			)
		}),
		layout.Rigid(func(gtx C) D {
			msg := ui.errorText()
			if msg == "" {
				return D{}
			}
			l := material.Body2(ui.th, msg)
			l.Color = errorColor
			return layout.UniformInset(2).Layout(gtx, l.Layout)
		}),
		layout.Flexed(1, func(gtx C) D {
			if ui.tab.Value == tabSeries {
				return ui.layoutSeriesTab(gtx)
			}
			return ui.layoutChartTab(gtx)
		}),
	)
}

func (ui *UI) layoutStartScreen(gtx C) D {
	msg := "No data yet."
	if ui.loading {
		msg = "Loading..."
	}
	l := material.Body1(ui.th, msg)
	return layout.Flex{
		Axis:      layout.Vertical,
		Alignment: layout.Middle,
		Spacing:   layout.SpaceAround,
	}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return l.Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Button(ui.th, &ui.explorerBtn, "Open CSV File").Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Button(ui.th, &ui.emptyBtn, "Plot Expressions Only").Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			var lines []string
			for path, err := range ui.loadErrs {
				lines = append(lines, filepath.Base(path)+": "+err.Error())
			}
			if len(lines) == 0 {
				return D{}
			}
			sort.Strings(lines)
			l := material.Body2(ui.th, strings.Join(lines, "\n"))
			l.Color = errorColor
			return l.Layout(gtx)
		}),
	)
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	if ui.started || len(ui.chart.Series()) > 0 {
		return ui.layoutMainArea(gtx)
	}
	return ui.layoutStartScreen(gtx)
}
