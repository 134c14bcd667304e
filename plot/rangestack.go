package plot

// RangeStack is the zoom history of a chart. The bottom entry is the base
// range and is never popped.
type RangeStack struct {
	ranges []VisibleRange
}

func NewRangeStack(base VisibleRange) *RangeStack {
	return &RangeStack{ranges: []VisibleRange{base}}
}

// Push makes r the current range.
func (s *RangeStack) Push(r VisibleRange) {
	s.ranges = append(s.ranges, r)
}

// Pop discards the current range and returns to the previous one. It does
// nothing and returns false when only the base range is left.
func (s *RangeStack) Pop() bool {
	if len(s.ranges) <= 1 {
		return false
	}
	s.ranges = s.ranges[:len(s.ranges)-1]
	return true
}

// Top returns the current range.
func (s *RangeStack) Top() VisibleRange {
	return s.ranges[len(s.ranges)-1]
}

// ReplaceTop swaps out the current range without recording history.
func (s *RangeStack) ReplaceTop(r VisibleRange) {
	s.ranges[len(s.ranges)-1] = r
}

// Reset drops all history and starts again from base.
func (s *RangeStack) Reset(base VisibleRange) {
	s.ranges = append(s.ranges[:0], base)
}

func (s *RangeStack) Len() int {
	return len(s.ranges)
}

// Base returns the bottom range.
func (s *RangeStack) Base() VisibleRange {
	return s.ranges[0]
}
