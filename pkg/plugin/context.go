package plugin

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hiergraph/pkg/dataset"
	"github.com/matzehuels/hiergraph/pkg/graph"
)

// ResultParam is the parameter under which property algorithms find their
// result property.
const ResultParam = "result"

var (
	// ErrCancelled is returned by [Context.Step] after a [Cancel] request.
	ErrCancelled = stderrors.New("cancelled")
	// ErrStopped is returned by [Context.Step] after a [Stop] request. A
	// run ending with it counts as a success.
	ErrStopped = stderrors.New("stopped")
)

// Context is what an algorithm runs against.
type Context struct {
	Graph    *graph.Graph
	Params   *dataset.DataSet
	Progress Progress
	// Result is the output property of a property algorithm.
	Result graph.PropertyInterface
	Logger *log.Logger
}

// Step reports progress and returns an error when the run should end:
// the context error, [ErrCancelled] or [ErrStopped].
func (c *Context) Step(ctx context.Context, step, total int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch c.Progress.Progress(step, total) {
	case Cancel:
		return ErrCancelled
	case Stop:
		return ErrStopped
	}
	return nil
}

// Fail records msg as the run's error and returns it.
func (c *Context) Fail(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	c.Progress.SetError(msg)
	return stderrors.New(msg)
}

// String returns the parameter key as a string, or def.
func (c *Context) String(key, def string) string {
	v, ok := c.Params.Get(key)
	if !ok {
		return def
	}
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}

// Bool returns the parameter key as a bool, accepting strings as written
// on the command line.
func (c *Context) Bool(key string, def bool) (bool, error) {
	v, ok := c.Params.Get(key)
	if !ok {
		return def, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return def, fmt.Errorf("parameter %q: %w", key, err)
		}
		return parsed, nil
	}
	return def, fmt.Errorf("parameter %q: not a boolean (%T)", key, v)
}

// Int returns the parameter key as an int, accepting strings as written
// on the command line.
func (c *Context) Int(key string, def int) (int, error) {
	v, ok := c.Params.Get(key)
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return def, fmt.Errorf("parameter %q: %w", key, err)
		}
		return parsed, nil
	}
	if f, ok := dataset.Float(c.Params, key); ok && f == float64(int(f)) {
		return int(f), nil
	}
	return def, fmt.Errorf("parameter %q: not an integer (%T)", key, v)
}

// Property returns the property given as parameter key, either directly
// or by name. It returns nil when the parameter is not set.
func (c *Context) Property(key string) (graph.PropertyInterface, error) {
	v, ok := c.Params.Get(key)
	if !ok {
		return nil, nil
	}
	switch p := v.(type) {
	case graph.PropertyInterface:
		return p, nil
	case string:
		if p == "" {
			return nil, nil
		}
		if prop := c.Graph.Property(p); prop != nil {
			return prop, nil
		}
		return nil, fmt.Errorf("parameter %q: no property named %q", key, p)
	}
	return nil, fmt.Errorf("parameter %q: not a property (%T)", key, v)
}

// ResultOf returns the result property of c with type t.
func ResultOf[N, E any](c *Context, t *graph.Type[N, E]) (*graph.Property[N, E], error) {
	p, ok := c.Result.(*graph.Property[N, E])
	if !ok || p.Type() != t {
		return nil, fmt.Errorf("result is %v, want %v: %w", kindOf(c.Result), t.Kind(), graph.ErrPropertyTypeMismatch)
	}
	return p, nil
}

func kindOf(p graph.PropertyInterface) string {
	if p == nil {
		return "unset"
	}
	return p.Kind().String()
}
