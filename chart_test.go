package main

import (
	"errors"
	"image"
	"io"
	"testing"

	"git.sr.ht/~whereswaldon/simple-plotter/plot"
	"github.com/sirupsen/logrus"
)

func TestNearestPoint(t *testing.T) {
	points := []plot.PixelPoint{{X: 10}, {X: 20}, {X: 40}}
	type testcase struct {
		name     string
		x, reach int
		expected int
	}
	for _, tc := range []testcase{
		{name: "exact", x: 20, reach: 2, expected: 1},
		{name: "closer to left", x: 13, reach: 5, expected: 0},
		{name: "closer to right", x: 17, reach: 5, expected: 1},
		{name: "out of reach", x: 30, reach: 5, expected: -1},
		{name: "before first", x: 7, reach: 5, expected: 0},
		{name: "after last", x: 44, reach: 5, expected: 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := nearestPoint(points, tc.x, tc.reach); got != tc.expected {
				t.Errorf("expected index %d, got %d", tc.expected, got)
			}
		})
	}
	if got := nearestPoint(nil, 0, 10); got != -1 {
		t.Errorf("expected -1 for no points, got %d", got)
	}
}

func makeTestView(t *testing.T) *ChartView {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	chart := plot.NewChart(plot.Config{Logger: log})
	chart.SetBounds(image.Rect(0, 0, 200, 200))
	return NewChartView(chart, nil)
}

func TestZoomToBox(t *testing.T) {
	c := makeTestView(t)
	if err := c.zoomToBox(image.Pt(0, 0), image.Pt(100, 100)); err != nil {
		t.Fatalf("expected the box to apply, got %v", err)
	}
	if d := c.chart.Depth(); d != 2 {
		t.Errorf("expected depth 2, got %d", d)
	}
	expected := plot.NewVisibleRange(-10, 0, 0, 10, false)
	if got := c.chart.Range(); !got.Equal(expected) {
		t.Errorf("expected %s, got %s", expected, got)
	}

	err := c.zoomToBox(image.Pt(50, 10), image.Pt(50, 90))
	if !errors.Is(err, plot.ErrDegenerateBox) {
		t.Errorf("expected ErrDegenerateBox, got %v", err)
	}
	if d := c.chart.Depth(); d != 2 {
		t.Errorf("expected a degenerate box not to push, got depth %d", d)
	}
}
