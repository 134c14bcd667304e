package plot

import "testing"

func TestRangeStack(t *testing.T) {
	base := NewVisibleRange(0, 100, 0, 100, false)
	s := NewRangeStack(base)

	if s.Pop() {
		t.Errorf("expected popping the base range to fail")
	}
	if s.Len() != 1 || !s.Top().Equal(base) {
		t.Errorf("expected the base range to stay, got %d entries topped by %s", s.Len(), s.Top())
	}

	zoomed := NewVisibleRange(10, 20, 10, 20, false)
	s.Push(zoomed)
	if s.Len() != 2 || !s.Top().Equal(zoomed) {
		t.Errorf("expected the pushed range on top, got %s", s.Top())
	}
	if !s.Pop() {
		t.Errorf("expected pop to succeed with two entries")
	}
	if !s.Top().Equal(base) {
		t.Errorf("expected to return to %s, got %s", base, s.Top())
	}

	s.Push(zoomed)
	moved := zoomed.ScrollRight()
	s.ReplaceTop(moved)
	if s.Len() != 2 || !s.Top().Equal(moved) {
		t.Errorf("expected ReplaceTop to keep the depth and swap the top, got %d entries topped by %s", s.Len(), s.Top())
	}
	if !s.Base().Equal(base) {
		t.Errorf("expected base %s, got %s", base, s.Base())
	}

	other := NewVisibleRange(-1, 1, -1, 1, true)
	s.Reset(other)
	if s.Len() != 1 || !s.Base().Equal(other) || !s.Top().Equal(other) {
		t.Errorf("expected reset to leave only %s, got %d entries", other, s.Len())
	}
}
