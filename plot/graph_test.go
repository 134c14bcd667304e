package plot

import (
	"errors"
	"slices"
	"testing"
)

func makeTestGraph(t *testing.T, nodes []string, edges [][2]string) *Graph {
	t.Helper()
	g := NewGraph()
	for _, n := range nodes {
		if _, err := g.AddNode(n); err != nil {
			t.Fatalf("expected node %q to be added, got %v", n, err)
		}
	}
	for _, e := range edges {
		if err := g.AddReference(e[0], e[1]); err != nil {
			t.Fatalf("expected reference %s -> %s to be added, got %v", e[0], e[1], err)
		}
	}
	return g
}

func TestEvaluationOrder(t *testing.T) {
	type testcase struct {
		name     string
		nodes    []string
		edges    [][2]string
		expected []string
	}
	for _, tc := range []testcase{
		{
			name:     "empty",
			expected: []string{"x"},
		},
		{
			name:     "independent keeps insertion order",
			nodes:    []string{"b", "a", "c"},
			expected: []string{"x", "b", "a", "c"},
		},
		{
			name:     "dependency before dependent",
			nodes:    []string{"double", "line"},
			edges:    [][2]string{{"double", "line"}},
			expected: []string{"x", "line", "double"},
		},
		{
			name:  "chain",
			nodes: []string{"c", "b", "a"},
			edges: [][2]string{{"c", "b"}, {"b", "a"}},
			// c reads b which reads a.
			expected: []string{"x", "a", "b", "c"},
		},
		{
			name:     "diamond",
			nodes:    []string{"top", "left", "right", "bottom"},
			edges:    [][2]string{{"top", "left"}, {"top", "right"}, {"left", "bottom"}, {"right", "bottom"}},
			expected: []string{"x", "bottom", "left", "right", "top"},
		},
		{
			name:     "reference to x",
			nodes:    []string{"a"},
			edges:    [][2]string{{"a", "x"}},
			expected: []string{"x", "a"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := makeTestGraph(t, tc.nodes, tc.edges)
			order, err := g.EvaluationOrder()
			if err != nil {
				t.Fatalf("expected an order, got %v", err)
			}
			if !slices.Equal(order, tc.expected) {
				t.Errorf("expected order %v, got %v", tc.expected, order)
			}
			position := map[string]int{}
			for i, name := range order {
				position[name] = i
			}
			for _, e := range tc.edges {
				if position[e[1]] >= position[e[0]] {
					t.Errorf("expected %s before %s in %v", e[1], e[0], order)
				}
			}
		})
	}
}

func TestEvaluationOrderCycle(t *testing.T) {
	type testcase struct {
		name     string
		nodes    []string
		edges    [][2]string
		expected []string
	}
	for _, tc := range []testcase{
		{
			name:     "self reference",
			nodes:    []string{"a"},
			edges:    [][2]string{{"a", "a"}},
			expected: []string{"a"},
		},
		{
			name:     "pair",
			nodes:    []string{"a", "b"},
			edges:    [][2]string{{"a", "b"}, {"b", "a"}},
			expected: []string{"a", "b"},
		},
		{
			name:     "cycle behind a leaf",
			nodes:    []string{"leaf", "p", "q", "r"},
			edges:    [][2]string{{"p", "leaf"}, {"p", "q"}, {"q", "r"}, {"r", "p"}},
			expected: []string{"p", "q", "r"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := makeTestGraph(t, tc.nodes, tc.edges)
			_, err := g.EvaluationOrder()
			var ce *CycleError
			if !errors.As(err, &ce) {
				t.Fatalf("expected a *CycleError, got %v", err)
			}
			if !slices.Equal(ce.Names, tc.expected) {
				t.Errorf("expected cycle %v, got %v", tc.expected, ce.Names)
			}
		})
	}
}

func TestGraphNodes(t *testing.T) {
	g := makeTestGraph(t, []string{"a", "b", "c"}, [][2]string{{"c", "a"}, {"c", "b"}, {"b", "a"}})
	if _, err := g.AddNode("a"); err == nil {
		t.Errorf("expected duplicate node to be rejected")
	}
	if err := g.AddReference("a", "missing"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode for an unknown target, got %v", err)
	}
	if err := g.AddReference("missing", "a"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode for an unknown source, got %v", err)
	}
	if deps := g.Dependents("a"); !slices.Equal(deps, []string{"b", "c"}) {
		t.Errorf("expected dependents [b c], got %v", deps)
	}
	n, ok := g.FindNode("c")
	if !ok {
		t.Fatalf("expected to find node c")
	}
	if refs := n.References(); !slices.Equal(refs, []string{"a", "b"}) {
		t.Errorf("expected references [a b], got %v", refs)
	}

	if err := g.DeleteNode("x"); err == nil {
		t.Errorf("expected the root node to be undeletable")
	}
	if err := g.DeleteNode("nope"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode, got %v", err)
	}
	if err := g.DeleteNode("b"); err != nil {
		t.Fatalf("expected b to be deleted, got %v", err)
	}
	if _, ok := g.FindNode("b"); ok {
		t.Errorf("expected b to be gone")
	}
	if refs := n.References(); !slices.Equal(refs, []string{"a"}) {
		t.Errorf("expected deleting b to drop c's edge to it, got %v", refs)
	}
	if deps := g.Dependents("a"); !slices.Equal(deps, []string{"c"}) {
		t.Errorf("expected deleting b to drop its edge to a, got %v", deps)
	}
	if g.Len() != 3 {
		t.Errorf("expected 3 nodes, got %d", g.Len())
	}

	if err := g.ClearReferences("c"); err != nil {
		t.Fatalf("expected references to be cleared, got %v", err)
	}
	if deps := g.Dependents("a"); len(deps) != 0 {
		t.Errorf("expected no dependents after clearing, got %v", deps)
	}
}
