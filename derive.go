package main

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"gioui.org/layout"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"git.sr.ht/~whereswaldon/simple-plotter/expr"
	"git.sr.ht/~whereswaldon/simple-plotter/plot"
	"github.com/sirupsen/logrus"
)

// DeriveEditor defines derived series from "name = expression" text.
type DeriveEditor struct {
	chart *plot.Chart
	log   logrus.FieldLogger

	field  component.TextField
	addBtn widget.Clickable

	// pending definitions read series that have not been loaded yet.
	pending []string
	status  string
	failed  bool
}

func NewDeriveEditor(chart *plot.Chart, log logrus.FieldLogger) *DeriveEditor {
	d := &DeriveEditor{
		chart: chart,
		log:   log,
	}
	d.field.SingleLine = true
	return d
}

// Define parses def and adds the derived series it describes.
func (d *DeriveEditor) Define(def string) error {
	name, e, err := expr.ParseDefinition(def)
	if err != nil {
		return err
	}
	return d.chart.AddDerived(name, strings.TrimSpace(e.Source()), color.NRGBA{})
}

// Queue adds definitions that are retried after every load until the
// series they read exist.
func (d *DeriveEditor) Queue(defs ...string) {
	d.pending = append(d.pending, defs...)
	d.Retry()
}

// Retry applies every pending definition whose references now exist.
func (d *DeriveEditor) Retry() {
	kept := d.pending[:0]
	for _, def := range d.pending {
		err := d.Define(def)
		switch {
		case errors.Is(err, plot.ErrUnknownSeries):
			kept = append(kept, def)
		case err != nil:
			d.log.WithError(err).WithField("definition", def).Warn("rejected definition")
			d.setError(err)
		default:
			d.setStatus("defined " + def)
		}
	}
	d.pending = kept
}

func (d *DeriveEditor) setStatus(msg string) {
	d.status, d.failed = msg, false
}

func (d *DeriveEditor) setError(err error) {
	d.status, d.failed = err.Error(), true
}

func (d *DeriveEditor) Update(gtx C, th *material.Theme) {
	d.field.Update(gtx, th, "name = expression")
	if !d.addBtn.Clicked(gtx) {
		return
	}
	def := d.field.Text()
	if err := d.Define(def); err != nil {
		d.setError(err)
		return
	}
	d.setStatus("defined " + def)
	d.field.SetText("")
}

func (d *DeriveEditor) Layout(gtx C, th *material.Theme) D {
	inset := layout.UniformInset(2)
	d.Update(gtx, th)
	return layout.Flex{
		Axis: layout.Vertical,
	}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return layout.Flex{
				Alignment: layout.Baseline,
			}.Layout(gtx,
				layout.Flexed(1, func(gtx C) D {
					return inset.Layout(gtx, func(gtx C) D {
						return d.field.Layout(gtx, th, "Derived series (name = expression)")
					})
				}),
				layout.Rigid(func(gtx C) D {
					return inset.Layout(gtx, func(gtx C) D {
						if d.field.Len() == 0 {
							gtx = gtx.Disabled()
						}
						return material.Button(th, &d.addBtn, "Add").Layout(gtx)
					})
				}),
			)
		}),
		layout.Rigid(func(gtx C) D {
			if d.status == "" {
				return D{}
			}
			l := material.Body2(th, d.status)
			if d.failed {
				l.Color = errorColor
			}
			return inset.Layout(gtx, l.Layout)
		}),
		layout.Rigid(func(gtx C) D {
			if len(d.pending) == 0 {
				return D{}
			}
			l := material.Body2(th, "Waiting for data: "+strings.Join(d.pending, "; "))
			return inset.Layout(gtx, l.Layout)
		}),
		layout.Rigid(func(gtx C) D {
			help := fmt.Sprintf("Expressions may use x, other series by name, pi, e, + - * / ^ and %s.",
				strings.Join(expr.Functions(), ", "))
			l := material.Caption(th, help)
			return inset.Layout(gtx, l.Layout)
		}),
	)
}
