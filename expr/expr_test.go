package expr

import (
	"errors"
	"math"
	"slices"
	"sort"
	"testing"
)

func TestEval(t *testing.T) {
	type testcase struct {
		name     string
		src      string
		bindings map[string]float64
		expected float64
	}
	for _, tc := range []testcase{
		{name: "literal", src: "42", expected: 42},
		{name: "precedence", src: "1 + 2 * 3", expected: 7},
		{name: "group", src: "(1 + 2) * 3", expected: 9},
		{name: "power right assoc", src: "2 ^ 3 ^ 2", expected: 512},
		{name: "double star power", src: "2 ** 3", expected: 8},
		{name: "unary minus binds looser than power", src: "-2 ^ 2", expected: -4},
		{name: "negative exponent", src: "2 ^ -1", expected: 0.5},
		{name: "unary plus", src: "+3 - -3", expected: 6},
		{name: "division", src: "7 / 2", expected: 3.5},
		{name: "exponent literal", src: "1.5e2 + .5", expected: 150.5},
		{name: "binding", src: "line * 2", bindings: map[string]float64{"line": 1}, expected: 2},
		{name: "function", src: "sin(x) + cos(0)", bindings: map[string]float64{"x": 0}, expected: 1},
		{name: "two arg function", src: "max(a, b) - min(a, b)", bindings: map[string]float64{"a": 3, "b": 10}, expected: 7},
		{name: "constant", src: "round(pi * 100)", expected: 314},
		{name: "constant e", src: "2 * e", expected: 2 * math.E},
		{name: "nested calls", src: "sqrt(abs(-16))", expected: 4},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e, err := Parse(tc.src)
			if err != nil {
				t.Fatalf("expected %q to parse, got %v", tc.src, err)
			}
			got, err := e.Eval(tc.bindings)
			if err != nil {
				t.Fatalf("expected %q to evaluate, got %v", tc.src, err)
			}
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("expected %q = %f, got %f", tc.src, tc.expected, got)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	type testcase struct {
		name   string
		src    string
		target error
	}
	for _, tc := range []testcase{
		{name: "empty", src: "   "},
		{name: "dangling operator", src: "1 +"},
		{name: "unclosed group", src: "(1 + 2"},
		{name: "unexpected close", src: "1 + 2)"},
		{name: "unknown character", src: "a # b"},
		{name: "call on number", src: "2(3)"},
		{name: "wrong arity", src: "sin(1, 2)"},
		{name: "missing comma", src: "max(1 2)"},
		{name: "unknown function", src: "system(1)", target: ErrUnknownFunction},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.src)
			if err == nil {
				t.Fatalf("expected %q to fail parsing", tc.src)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Errorf("expected a *SyntaxError, got %T", err)
			}
			if tc.target != nil && !errors.Is(err, tc.target) {
				t.Errorf("expected error to wrap %v, got %v", tc.target, err)
			}
		})
	}
}

func TestEvalUnbound(t *testing.T) {
	e := MustParse("line + other")
	_, err := e.Eval(map[string]float64{"line": 1})
	if !errors.Is(err, ErrUnbound) {
		t.Errorf("expected ErrUnbound, got %v", err)
	}
}

func TestReferences(t *testing.T) {
	type testcase struct {
		src      string
		expected []string
	}
	for i, tc := range []testcase{
		{src: "1 + 2", expected: nil},
		{src: "x", expected: []string{"x"}},
		{src: "sin(x)", expected: []string{"x"}},
		{src: "sin(line) * sin", expected: []string{"line", "sin"}},
		{src: "b + a * b - pi", expected: []string{"a", "b"}},
		{src: "atan2(temp, load) + e", expected: []string{"load", "temp"}},
	} {
		got := MustParse(tc.src).References()
		if !slices.Equal(got, tc.expected) {
			t.Errorf("[%d] expected references %v for %q, got %v", i, tc.expected, tc.src, got)
		}
	}
}

func TestParseDefinition(t *testing.T) {
	name, e, err := ParseDefinition("double = line * 2")
	if err != nil {
		t.Fatalf("expected definition to parse, got %v", err)
	}
	if name != "double" {
		t.Errorf("expected name %q, got %q", "double", name)
	}
	if got := e.Source(); got != "line * 2" {
		t.Errorf("expected source %q, got %q", "line * 2", got)
	}
	if got := e.String(); got != "(line * 2)" {
		t.Errorf("expected canonical form %q, got %q", "(line * 2)", got)
	}

	for _, src := range []string{"line * 2", "2x = 1", " = 1", "a = 1 +"} {
		if _, _, err := ParseDefinition(src); err == nil {
			t.Errorf("expected definition %q to be rejected", src)
		}
	}
	_, _, err = ParseDefinition("ab = 1 +")
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected a *SyntaxError, got %T", err)
	}
	if se.Position != len("ab = 1 +") {
		t.Errorf("expected error offset %d, got %d", len("ab = 1 +"), se.Position)
	}
}

func TestIsIdent(t *testing.T) {
	for name, expected := range map[string]bool{
		"line":   true,
		"_a1":    true,
		"a_b_2":  true,
		"2x":     false,
		"":       false,
		"temp C": false,
		"a-b":    false,
	} {
		if got := IsIdent(name); got != expected {
			t.Errorf("expected IsIdent(%q) = %v, got %v", name, expected, got)
		}
	}
}

func TestFunctions(t *testing.T) {
	names := Functions()
	if !sort.StringsAreSorted(names) {
		t.Errorf("expected sorted names, got %v", names)
	}
	for _, name := range names {
		if !IsReserved(name) {
			t.Errorf("expected %s to be reserved", name)
		}
	}
	if len(names) == 0 || names[0] != "abs" {
		t.Errorf("expected abs first, got %v", names)
	}
}
