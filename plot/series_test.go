package plot

import (
	"errors"
	"testing"
)

func makeTestPoints(t *testing.T, coords ...float64) []Point {
	t.Helper()
	if len(coords)%2 != 0 {
		t.Fatalf("expected an even number of coordinates, got %d", len(coords))
	}
	points := make([]Point, 0, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		points = append(points, Point{X: coords[i], Y: coords[i+1]})
	}
	return points
}

func TestCalculateRange(t *testing.T) {
	type testcase struct {
		name                     string
		points                   []Point
		timeBased                bool
		left, right, bottom, top float64
	}
	for _, tc := range []testcase{
		{
			name:   "line from origin",
			points: makeTestPoints(t, 0, 0, 2, 2),
			left:   0, right: 2.2, bottom: 0, top: 2.2,
		},
		{
			name:   "fractional values widen to integers",
			points: makeTestPoints(t, 0.5, 0.25, 1.5, 1.75),
			left:   0, right: 2.2, bottom: 0, top: 2.2,
		},
		{
			name:   "negative values pad outward",
			points: makeTestPoints(t, -10, -20, 10, 30),
			left:   -11, right: 11, bottom: -22, top: 33,
		},
		{
			name:   "single point at origin",
			points: makeTestPoints(t, 0, 0),
			left:   -1, right: 1, bottom: -1, top: 1,
		},
		{
			name:   "single point away from origin",
			points: makeTestPoints(t, 50, 200),
			left:   45, right: 55, bottom: 198, top: 202,
		},
		{
			name:      "single time-based point",
			points:    makeTestPoints(t, 1_700_000_000, 3),
			timeBased: true,
			left:      1_700_000_000 - 3600, right: 1_700_000_000 + 3600, bottom: 2.97, top: 3.03,
		},
		{
			name:      "time-based under a day",
			points:    makeTestPoints(t, 1_700_000_000, 1, 1_700_003_600, 2),
			timeBased: true,
			left:      1_700_000_000 - 60, right: 1_700_003_600 + 60, bottom: 0.9, top: 2.2,
		},
		{
			name:      "time-based over a day",
			points:    makeTestPoints(t, 1_700_000_000, 1, 1_700_864_000, 2),
			timeBased: true,
			left:      1_700_000_000 - 500, right: 1_700_864_000 + 500, bottom: 0.9, top: 2.2,
		},
		{
			name:      "time-based at zero",
			points:    makeTestPoints(t, 0, 5),
			timeBased: true,
			left:      -1, right: 1, bottom: 4.95, top: 5.05,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r, err := CalculateRange(tc.points, tc.timeBased)
			if err != nil {
				t.Fatalf("expected range to fit, got %v", err)
			}
			expectRange(t, r, tc.left, tc.right, tc.bottom, tc.top)
			if !r.Valid() {
				t.Errorf("expected positive spans, got %s", r)
			}
			if r.TimeBased != tc.timeBased {
				t.Errorf("expected time-based %v, got %v", tc.timeBased, r.TimeBased)
			}
		})
	}
}

func TestCalculateRangeEmpty(t *testing.T) {
	_, err := CalculateRange(nil, false)
	if !errors.Is(err, ErrNoPoints) {
		t.Errorf("expected ErrNoPoints, got %v", err)
	}
}

func TestCalculateRangeAlwaysHasArea(t *testing.T) {
	for _, v := range []float64{-1e9, -3, -1, 0, 0.4, 1, 7, 1e9} {
		for _, timeBased := range []bool{false, true} {
			r, err := CalculateRange([]Point{{X: v, Y: v}, {X: v, Y: v}}, timeBased)
			if err != nil {
				t.Fatalf("expected range to fit, got %v", err)
			}
			if !r.Valid() {
				t.Errorf("expected flat series at %g (time-based %v) to get positive spans, got %s", v, timeBased, r)
			}
		}
	}
}
