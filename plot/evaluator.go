package plot

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"git.sr.ht/~whereswaldon/simple-plotter/expr"
	"github.com/aclements/go-moremath/vec"
	"github.com/sirupsen/logrus"
)

const (
	// StatTotalXPoints counts every x value a derived series was sampled at.
	StatTotalXPoints = "total_x_points"
	// StatNonFinite counts samples whose result was NaN or infinite.
	StatNonFinite = "non_finite"
)

// ValueCache holds the value of every series at every known x for a single
// evaluation pass.
type ValueCache map[string]map[float64]float64

func NewValueCache() ValueCache {
	return make(ValueCache)
}

// Seed stores all of a series' points.
func (c ValueCache) Seed(s *Series) {
	for _, p := range s.Points {
		c.Set(s.Name, p.X, p.Y)
	}
}

func (c ValueCache) Set(name string, x, y float64) {
	values, ok := c[name]
	if !ok {
		values = make(map[float64]float64)
		c[name] = values
	}
	values[x] = y
}

func (c ValueCache) Get(name string, x float64) (float64, bool) {
	y, ok := c[name][x]
	return y, ok
}

// Xs returns the x values known for name in increasing order.
func (c ValueCache) Xs(name string) []float64 {
	values := c[name]
	xs := make([]float64, 0, len(values))
	for x := range values {
		xs = append(xs, x)
	}
	sort.Float64s(xs)
	return xs
}

func (c ValueCache) Drop(name string) {
	delete(c, name)
}

// Stats counts diagnostic events for one derived series. Apart from the
// StatTotalXPoints and StatNonFinite keys, each key is a referenced series
// name and counts the samples skipped because that series had no value.
type Stats map[string]int

func (s Stats) Increment(key string) {
	s[key]++
}

func (s Stats) Get(key string) int {
	return s[key]
}

// Names returns the counter keys in sorted order.
func (s Stats) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Report is the outcome of one evaluation pass.
type Report struct {
	// Stats is keyed by derived series name.
	Stats map[string]Stats
	// Errors holds an *EvalError for every series that could not be
	// computed.
	Errors []error
}

// Err joins all evaluation errors, or returns nil.
func (r Report) Err() error {
	return errors.Join(r.Errors...)
}

// Evaluator fills in derived series.
type Evaluator struct {
	// Samples is the number of evenly spaced x values across the visible
	// range each derived series is computed at.
	Samples int
	Logger  logrus.FieldLogger
}

// Evaluate computes every derived series named in order, which must list
// dependencies before dependents. The cache must already hold the values of
// every explicit series; derived results are added to it as they are
// computed so that later series can read them.
//
// A series that fails is left empty and reported; the pass carries on with
// the remaining series.
func (e *Evaluator) Evaluate(order []string, series map[string]*Series, rg VisibleRange, cache ValueCache) Report {
	report := Report{Stats: make(map[string]Stats)}
	grid := vec.Linspace(rg.LeftX, rg.RightX, max(e.Samples, 2))
	for _, name := range order {
		if name == VarX {
			continue
		}
		s, ok := series[name]
		if !ok || !s.Derived() {
			continue
		}
		stats := make(Stats)
		report.Stats[name] = stats
		points, err := e.evaluateSeries(s, grid, cache, stats)
		if err != nil {
			cache.Drop(name)
			s.Points = nil
			report.Errors = append(report.Errors, &EvalError{Series: name, Err: err})
			if e.Logger != nil {
				e.Logger.WithError(err).WithField("series", name).Warn("cannot evaluate series")
			}
			continue
		}
		s.Points = points
	}
	return report
}

func (e *Evaluator) evaluateSeries(s *Series, grid []float64, cache ValueCache, stats Stats) ([]Point, error) {
	d := s.Derivation
	if d.compiled == nil {
		compiled, err := expr.Parse(d.Expression)
		if err != nil {
			return nil, fmt.Errorf("failed parsing expression: %w", err)
		}
		d.compiled = compiled
	}
	cache.Drop(s.Name)
	xs := sampleSet(grid, d.References, cache)
	bindings := make(map[string]float64, len(d.References)+1)
	points := make([]Point, 0, len(xs))
	for _, x := range xs {
		stats.Increment(StatTotalXPoints)
		missing := false
		for _, ref := range d.References {
			v, ok := cache.Get(ref, x)
			if !ok {
				stats.Increment(ref)
				missing = true
				continue
			}
			bindings[ref] = v
		}
		if missing {
			continue
		}
		bindings[VarX] = x
		y, err := d.compiled.Eval(bindings)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(y) || math.IsInf(y, 0) {
			stats.Increment(StatNonFinite)
			continue
		}
		points = append(points, Point{X: x, Y: y})
		cache.Set(s.Name, x, y)
	}
	return points, nil
}

// sampleSet merges the regular grid with the x values of every referenced
// series.
func sampleSet(grid []float64, refs []string, cache ValueCache) []float64 {
	xs := slices.Clone(grid)
	for _, ref := range refs {
		for x := range cache[ref] {
			xs = append(xs, x)
		}
	}
	slices.Sort(xs)
	return slices.Compact(xs)
}
