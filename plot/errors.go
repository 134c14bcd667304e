package plot

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoPoints      = errors.New("series has no points")
	ErrUnknownNode   = errors.New("unknown graph node")
	ErrUnknownSeries = errors.New("unknown series")
	ErrDegenerateBox = errors.New("zoom box has no area")
)

// ConfigError rejects a series definition. The chart is left unchanged.
type ConfigError struct {
	Series string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot define series %q: %s: %v", e.Series, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot define series %q: %s", e.Series, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// EvalError reports a derived series that could not be computed for the
// current range. The series is left empty until the next pass.
type EvalError struct {
	Series string
	Err    error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("cannot evaluate series %s: %v", e.Series, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// CycleError names the series that form a dependency cycle, in the order
// the references were followed.
type CycleError struct {
	Names []string
}

func (e *CycleError) Error() string {
	if len(e.Names) == 0 {
		return "dependency cycle"
	}
	path := make([]string, 0, len(e.Names)+1)
	path = append(path, e.Names...)
	path = append(path, e.Names[0])
	return "dependency cycle: " + strings.Join(path, " -> ")
}
