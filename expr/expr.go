// Package expr implements a small arithmetic expression language used to
// define derived series. Expressions may only read the names bound at
// evaluation time and call a fixed set of math functions.
package expr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Expression is a parsed, immutable arithmetic expression.
type Expression struct {
	src  string
	root node
	refs []string
}

// Parse compiles src. Unknown functions, wrong argument counts and
// malformed input are reported as a *SyntaxError.
func Parse(src string) (*Expression, error) {
	root, err := newParser(src).parseAll()
	if err != nil {
		return nil, err
	}
	e := &Expression{src: src, root: root}
	seen := map[string]bool{}
	walk(root, func(ident string) {
		if _, ok := constants[ident]; ok || seen[ident] {
			return
		}
		seen[ident] = true
		e.refs = append(e.refs, ident)
	})
	sort.Strings(e.refs)
	return e, nil
}

// MustParse is like Parse but panics on error.
func MustParse(src string) *Expression {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

// ParseDefinition splits a definition of the form "name = expression".
func ParseDefinition(src string) (name string, e *Expression, err error) {
	lhs, rhs, ok := strings.Cut(src, "=")
	if !ok {
		return "", nil, &SyntaxError{Position: len(src), Msg: "expected name = expression"}
	}
	name = strings.TrimSpace(lhs)
	if !IsIdent(name) {
		return "", nil, &SyntaxError{Msg: fmt.Sprintf("invalid name %q", name)}
	}
	e, err = Parse(rhs)
	if err != nil {
		var se *SyntaxError
		if errors.As(err, &se) {
			se.Position += len(lhs) + 1
		}
		return "", nil, err
	}
	return name, e, nil
}

// References returns the sorted names the expression reads. Function names
// and builtin constants are excluded.
func (e *Expression) References() []string {
	out := make([]string, len(e.refs))
	copy(out, e.refs)
	return out
}

// Eval evaluates the expression. Any name read by the expression must be
// present in bindings.
func (e *Expression) Eval(bindings map[string]float64) (float64, error) {
	return eval(e.root, bindings)
}

// Source returns the text the expression was parsed from, trimmed.
func (e *Expression) Source() string {
	return strings.TrimSpace(e.src)
}

// String returns a fully parenthesized form of the expression.
func (e *Expression) String() string {
	return e.root.String()
}
