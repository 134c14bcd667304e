package plot

import (
	"fmt"
)

// VarX is the name of the independent variable. It is the implicit root of
// every dependency graph and cannot be used as a series name.
const VarX = "x"

// Node is a series in a dependency Graph.
type Node struct {
	Name string
	out  []*Node
	in   map[*Node]bool
}

// References returns the names this node reads, in the order the references
// were added.
func (n *Node) References() []string {
	out := make([]string, len(n.out))
	for i, o := range n.out {
		out[i] = o.Name
	}
	return out
}

// Graph tracks which series read which other series. An edge from A to B
// means A's expression reads B.
type Graph struct {
	nodes []*Node
	index map[string]*Node
}

// NewGraph returns a graph holding only the root node x.
func NewGraph() *Graph {
	g := &Graph{index: make(map[string]*Node)}
	g.newNode(VarX)
	return g
}

func (g *Graph) newNode(name string) *Node {
	n := &Node{Name: name, in: make(map[*Node]bool)}
	g.nodes = append(g.nodes, n)
	g.index[name] = n
	return n
}

// AddNode adds a node with no references.
func (g *Graph) AddNode(name string) (*Node, error) {
	if _, ok := g.index[name]; ok {
		return nil, fmt.Errorf("node %q already exists", name)
	}
	return g.newNode(name), nil
}

func (g *Graph) FindNode(name string) (*Node, bool) {
	n, ok := g.index[name]
	return n, ok
}

// Len returns the number of nodes, including x.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// DeleteNode removes a node together with every edge into or out of it.
func (g *Graph) DeleteNode(name string) error {
	if name == VarX {
		return fmt.Errorf("cannot delete the root node %q", VarX)
	}
	n, ok := g.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}
	g.clearReferences(n)
	for from := range n.in {
		from.out = removeNode(from.out, n)
	}
	n.in = nil
	delete(g.index, name)
	g.nodes = removeNode(g.nodes, n)
	return nil
}

// AddReference records that from reads to. Both nodes must already exist.
func (g *Graph) AddReference(from, to string) error {
	f, ok := g.index[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, from)
	}
	t, ok := g.index[to]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, to)
	}
	if t.in[f] {
		return nil
	}
	f.out = append(f.out, t)
	t.in[f] = true
	return nil
}

// ClearReferences drops every outgoing edge of a node, leaving it in place.
func (g *Graph) ClearReferences(name string) error {
	n, ok := g.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}
	g.clearReferences(n)
	return nil
}

func (g *Graph) clearReferences(n *Node) {
	for _, to := range n.out {
		delete(to.in, n)
	}
	n.out = nil
}

// Dependents returns the names of the nodes that read name, in insertion
// order.
func (g *Graph) Dependents(name string) []string {
	n, ok := g.index[name]
	if !ok {
		return nil
	}
	var out []string
	for _, candidate := range g.nodes {
		if n.in[candidate] {
			out = append(out, candidate.Name)
		}
	}
	return out
}

const (
	unvisited = iota
	visiting
	visited
)

// EvaluationOrder lists every node so that each one comes after all of the
// nodes it reads. x is always first. Ties are broken by insertion order, so
// the result is stable for a given graph. If the graph has a cycle, a
// *CycleError naming its members is returned instead.
func (g *Graph) EvaluationOrder() ([]string, error) {
	state := make(map[*Node]int, len(g.nodes))
	order := make([]string, 0, len(g.nodes))
	root := g.index[VarX]
	state[root] = visited
	order = append(order, root.Name)

	type frame struct {
		n    *Node
		next int
	}
	for _, start := range g.nodes {
		if state[start] != unvisited {
			continue
		}
		state[start] = visiting
		stack := []frame{{n: start}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(top.n.out) {
				dep := top.n.out[top.next]
				top.next++
				switch state[dep] {
				case unvisited:
					state[dep] = visiting
					stack = append(stack, frame{n: dep})
				case visiting:
					var names []string
					for i := range stack {
						if stack[i].n != dep {
							continue
						}
						for _, f := range stack[i:] {
							names = append(names, f.n.Name)
						}
						break
					}
					return nil, &CycleError{Names: names}
				}
				continue
			}
			state[top.n] = visited
			order = append(order, top.n.Name)
			stack = stack[:len(stack)-1]
		}
	}
	return order, nil
}

func removeNode(nodes []*Node, n *Node) []*Node {
	for i, candidate := range nodes {
		if candidate == n {
			return append(nodes[:i], nodes[i+1:]...)
		}
	}
	return nodes
}
