package main

import (
	"errors"
	"testing"

	"git.sr.ht/~whereswaldon/simple-plotter/backend"
	"git.sr.ht/~whereswaldon/simple-plotter/plot"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func makeTestUI(t *testing.T) (*UI, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	chart := plot.NewChart(plot.Config{Logger: log})
	return &UI{
		log:      log,
		chart:    chart,
		derive:   NewDeriveEditor(chart, log),
		applied:  make(map[string]uint64),
		loadErrs: make(map[string]error),
	}, hook
}

func makeTestLoad(t *testing.T, path string, seq uint64, ys ...float64) backend.Load {
	t.Helper()
	var ds backend.Dataset
	ds.Path = path
	ds.SetHeadings([]string{"y"})
	for i, y := range ys {
		ds.Insert(0, plot.Point{X: float64(i), Y: y})
	}
	return backend.Load{Path: path, Dataset: ds, Seq: seq}
}

func TestApplyLoads(t *testing.T) {
	ui, hook := makeTestUI(t)
	ui.derive.Queue("double = y * 2")
	ui.applyLoads([]backend.Load{makeTestLoad(t, "a.csv", 1, 3, 5, 4)})

	s, ok := ui.chart.Lookup("y")
	if !ok || len(s.Points) != 3 {
		t.Fatalf("expected series y with 3 points, got %+v", s)
	}
	if _, ok := ui.chart.Lookup("double"); !ok {
		t.Errorf("expected the queued definition to apply after the load")
	}

	var domain, values any
	for _, e := range hook.AllEntries() {
		switch e.Message {
		case "applied load":
			domain = e.Data["domain"]
		case "loaded series":
			values = e.Data["values"]
		}
	}
	if domain != "[0, 2]" {
		t.Errorf("expected domain [0, 2], got %v", domain)
	}
	if values != "[3, 5]" {
		t.Errorf("expected values [3, 5], got %v", values)
	}

	// A snapshot repeating the same sequence number is ignored.
	ui.applyLoads([]backend.Load{makeTestLoad(t, "a.csv", 1, 9)})
	if s, _ := ui.chart.Lookup("y"); len(s.Points) != 3 {
		t.Errorf("expected a stale load to be ignored, got %d points", len(s.Points))
	}
	ui.applyLoads([]backend.Load{makeTestLoad(t, "a.csv", 2, 9)})
	if s, _ := ui.chart.Lookup("y"); len(s.Points) != 1 {
		t.Errorf("expected a newer load to replace the series, got %d points", len(s.Points))
	}
}

func TestApplyLoadsError(t *testing.T) {
	ui, _ := makeTestUI(t)
	failure := errors.New("no such file")
	ui.applyLoads([]backend.Load{{Path: "gone.csv", Err: failure, Seq: 1}})
	if !errors.Is(ui.loadErrs["gone.csv"], failure) {
		t.Errorf("expected the load error to be recorded, got %v", ui.loadErrs["gone.csv"])
	}
	ui.applyLoads([]backend.Load{makeTestLoad(t, "gone.csv", 2, 1)})
	if err, ok := ui.loadErrs["gone.csv"]; ok {
		t.Errorf("expected a successful reload to clear the error, got %v", err)
	}
}
