package expr

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrUnbound is returned when an expression reads a name that has no
	// binding.
	ErrUnbound = errors.New("unbound name")
	// ErrUnknownFunction is returned when an expression calls a function
	// outside of the builtin set.
	ErrUnknownFunction = errors.New("unknown function")
)

// SyntaxError describes a malformed expression.
type SyntaxError struct {
	Position int
	Msg      string
	Err      error
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("syntax error at offset %d: %v: %s", e.Position, e.Err, e.Msg)
	}
	return fmt.Sprintf("syntax error at offset %d: %s", e.Position, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

type function struct {
	arity int
	call  func(args []float64) float64
}

func unaryFunc(fn func(float64) float64) function {
	return function{arity: 1, call: func(args []float64) float64 { return fn(args[0]) }}
}

func binaryFunc(fn func(float64, float64) float64) function {
	return function{arity: 2, call: func(args []float64) float64 { return fn(args[0], args[1]) }}
}

var functions = map[string]function{
	"abs":   unaryFunc(math.Abs),
	"acos":  unaryFunc(math.Acos),
	"asin":  unaryFunc(math.Asin),
	"atan":  unaryFunc(math.Atan),
	"atan2": binaryFunc(math.Atan2),
	"ceil":  unaryFunc(math.Ceil),
	"cos":   unaryFunc(math.Cos),
	"cosh":  unaryFunc(math.Cosh),
	"exp":   unaryFunc(math.Exp),
	"floor": unaryFunc(math.Floor),
	"hypot": binaryFunc(math.Hypot),
	"ln":    unaryFunc(math.Log),
	"log":   unaryFunc(math.Log),
	"log10": unaryFunc(math.Log10),
	"log2":  unaryFunc(math.Log2),
	"max":   binaryFunc(math.Max),
	"min":   binaryFunc(math.Min),
	"mod":   binaryFunc(math.Mod),
	"pow":   binaryFunc(math.Pow),
	"round": unaryFunc(math.Round),
	"sin":   unaryFunc(math.Sin),
	"sinh":  unaryFunc(math.Sinh),
	"sqrt":  unaryFunc(math.Sqrt),
	"tan":   unaryFunc(math.Tan),
	"tanh":  unaryFunc(math.Tanh),
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// IsReserved reports whether name is a builtin function or constant and
// therefore cannot be used to refer to a bound value.
func IsReserved(name string) bool {
	_, isFunc := functions[name]
	_, isConst := constants[name]
	return isFunc || isConst
}

// Functions returns the sorted names of the builtin functions.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func eval(n node, env map[string]float64) (float64, error) {
	switch n := n.(type) {
	case number:
		return n.value, nil
	case variable:
		if v, ok := constants[n.ident]; ok {
			return v, nil
		}
		v, ok := env[n.ident]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnbound, n.ident)
		}
		return v, nil
	case unary:
		v, err := eval(n.right, env)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case binary:
		left, err := eval(n.left, env)
		if err != nil {
			return 0, err
		}
		right, err := eval(n.right, env)
		if err != nil {
			return 0, err
		}
		switch n.op {
		case Add:
			return left + right, nil
		case Sub:
			return left - right, nil
		case Mul:
			return left * right, nil
		case Div:
			return left / right, nil
		case Pow:
			return math.Pow(left, right), nil
		}
		return 0, fmt.Errorf("unsupported operator %s", opString(n.op))
	case call:
		fn, ok := functions[n.ident]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownFunction, n.ident)
		}
		args := make([]float64, len(n.args))
		for i, a := range n.args {
			v, err := eval(a, env)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		return fn.call(args), nil
	}
	return 0, fmt.Errorf("unsupported expression %T", n)
}

// walk visits every variable leaf of n. Call targets are not visited.
func walk(n node, fn func(ident string)) {
	switch n := n.(type) {
	case variable:
		fn(n.ident)
	case unary:
		walk(n.right, fn)
	case binary:
		walk(n.left, fn)
		walk(n.right, fn)
	case call:
		for _, a := range n.args {
			walk(a, fn)
		}
	}
}
