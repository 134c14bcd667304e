package plot

import (
	"math"
	"strconv"
	"time"

	"github.com/aclements/go-moremath/scale"
)

// secondsPerDay is the x span below which time labels show the clock time
// rather than the date.
const secondsPerDay = 86400

const labelCount = 5

// Tick is a labelled position along an axis. Pixel is filled in by a
// Viewport and is relative to the plot area.
type Tick struct {
	Value float64
	Label string
	Pixel int
}

// GridLine is a grid position along an axis. Zero marks the line through
// the origin.
type GridLine struct {
	Value float64
	Pixel int
	Zero  bool
}

// XLabels returns five labels spread evenly across the x span, left to
// right. Time-based ranges show HH:MM:SS for spans under a day and a date
// otherwise.
func (r VisibleRange) XLabels(loc *time.Location) []Tick {
	if loc == nil {
		loc = time.Local
	}
	ticks := evenTicks(r.LeftX, r.RightX)
	for i := range ticks {
		if r.TimeBased {
			ticks[i].Label = formatTime(ticks[i].Value, r.XSpan(), loc)
		} else {
			ticks[i].Label = formatNumber(ticks[i].Value)
		}
	}
	return ticks
}

// YLabels returns five labels spread evenly across the y span, bottom to
// top.
func (r VisibleRange) YLabels() []Tick {
	ticks := evenTicks(r.BottomY, r.TopY)
	for i := range ticks {
		ticks[i].Label = formatNumber(ticks[i].Value)
	}
	return ticks
}

// FormatX formats x the way the x labels of r show it.
func (r VisibleRange) FormatX(x float64, loc *time.Location) string {
	if !r.TimeBased {
		return formatNumber(x)
	}
	if loc == nil {
		loc = time.Local
	}
	return formatTime(x, r.XSpan(), loc)
}

// FormatY formats y the way the y labels show it.
func FormatY(y float64) string {
	return formatNumber(y)
}

func evenTicks(lo, hi float64) []Tick {
	ticks := make([]Tick, labelCount)
	step := (hi - lo) / (labelCount - 1)
	for i := range ticks {
		ticks[i].Value = lo + step*float64(i)
	}
	// Avoid accumulated error on the last label.
	ticks[labelCount-1].Value = hi
	return ticks
}

func formatNumber(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		// Normalize negative zero.
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTime(epochSeconds, span float64, loc *time.Location) string {
	sec, frac := math.Modf(epochSeconds)
	t := time.Unix(int64(sec), int64(frac*1e9)).In(loc)
	return t.Format(TimeLayout(span))
}

// TimeLayout returns the layout used for time labels on an axis spanning
// span seconds.
func TimeLayout(span float64) string {
	if span < secondsPerDay {
		return time.TimeOnly
	}
	return time.DateOnly
}

// gridValues returns at most n "nice" round values within [lo, hi].
func gridValues(lo, hi float64, n int) []float64 {
	if !(hi > lo) {
		return nil
	}
	ls := scale.Linear{Min: lo, Max: hi}
	major, _ := ls.Ticks(scale.TickOptions{Max: n})
	out := major[:0]
	for _, v := range major {
		if v >= lo && v <= hi {
			out = append(out, v)
		}
	}
	return out
}
