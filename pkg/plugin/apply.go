package plugin

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/hiergraph/pkg/dataset"
	"github.com/matzehuels/hiergraph/pkg/errors"
	"github.com/matzehuels/hiergraph/pkg/graph"
	"github.com/matzehuels/hiergraph/pkg/observability"
)

// ApplyAlgorithm runs the general algorithm name on g using [Default].
func ApplyAlgorithm(ctx context.Context, g *graph.Graph, name string, params *dataset.DataSet, progress Progress) error {
	return Default.Apply(ctx, g, name, params, progress)
}

// ApplyPropertyAlgorithm runs the property algorithm name on g, writing
// into result, using [Default].
func ApplyPropertyAlgorithm(ctx context.Context, g *graph.Graph, name string, result graph.PropertyInterface, params *dataset.DataSet, progress Progress) error {
	return Default.ApplyProperty(ctx, g, name, result, params, progress)
}

// Apply runs the general algorithm name on g. Parameters and progress may
// be nil. On failure the graph is restored and the returned error carries
// the message the algorithm reported.
func (r *Registry) Apply(ctx context.Context, g *graph.Graph, name string, params *dataset.DataSet, progress Progress) error {
	info, f, ok := r.Get(name)
	if !ok {
		return errors.New(errors.ErrCodeAlgorithmNotFound, "no algorithm named %q", name)
	}
	if info.IsPropertyAlgorithm() {
		return errors.New(errors.ErrCodeInvalidInput, "algorithm %q computes a %v property and needs a result", name, info.Result)
	}
	return r.run(ctx, g, info, f, &Context{Graph: g, Params: params, Progress: progress})
}

// ApplyProperty runs the property algorithm name on g. The result
// property must belong to g or one of its ancestors and be of the kind the
// algorithm computes. It is passed to the algorithm as parameter
// [ResultParam].
func (r *Registry) ApplyProperty(ctx context.Context, g *graph.Graph, name string, result graph.PropertyInterface, params *dataset.DataSet, progress Progress) error {
	if result == nil {
		return errors.New(errors.ErrCodeInvalidInput, "no result property")
	}
	owner := result.Graph()
	if owner == nil || !owner.IsAncestorOf(g) {
		return errors.Wrap(errors.ErrCodeInvalidHierarchy, graph.ErrNotDescendant, "property %q does not belong to %v", result.Name(), g)
	}
	info, f, ok := r.Get(name)
	if !ok {
		return errors.New(errors.ErrCodeAlgorithmNotFound, "no algorithm named %q", name)
	}
	if info.Result != result.Kind() {
		return errors.Wrap(errors.ErrCodePropertyTypeMismatch, graph.ErrPropertyTypeMismatch,
			"algorithm %q computes a %v property, %q is %v", name, info.Result, result.Name(), result.Kind())
	}
	if !r.enter(name, result) {
		return errors.New(errors.ErrCodeCircularCall, "circular call of %q on %q", name, result.Name())
	}
	defer r.leave(name)
	if g.IsEmpty() {
		return errors.New(errors.ErrCodeEmptyGraph, "the graph is empty")
	}
	if params == nil {
		params = dataset.New()
	}
	params.Set(ResultParam, result)
	return r.run(ctx, g, info, f, &Context{Graph: g, Params: params, Progress: progress, Result: result})
}

func (r *Registry) run(ctx context.Context, g *graph.Graph, info Info, f Factory, c *Context) (err error) {
	if c.Params == nil {
		c.Params = dataset.New()
	}
	if c.Progress == nil {
		c.Progress = &SimpleProgress{}
	}
	c.Logger = g.Logger().With("algorithm", info.Name)

	start := time.Now()
	ctx = observability.Algorithm().OnAlgorithmStart(ctx, info.Name, g.ID())
	defer func() {
		observability.Algorithm().OnAlgorithmComplete(ctx, info.Name, g.ID(), time.Since(start), err)
	}()

	algo := f()
	if chk, ok := algo.(Checker); ok {
		if err := chk.Check(c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidParameter, err, "algorithm %q", info.Name)
		}
	}

	g.Push(true)
	hold := g.HoldObservers()
	runErr := algo.Run(ctx, c)
	if runErr == nil {
		runErr = ctx.Err()
	}
	if runErr == nil && c.Progress.State() == Cancel {
		runErr = ErrCancelled
	}
	if stderrors.Is(runErr, ErrStopped) {
		runErr = nil
	}
	if runErr != nil {
		g.Pop(false)
	}
	hold.Release()

	switch {
	case runErr == nil:
		c.Logger.Debug("algorithm done", "graph", g.ID(), "elapsed", time.Since(start))
		return nil
	case stderrors.Is(runErr, ErrCancelled), stderrors.Is(runErr, context.Canceled), stderrors.Is(runErr, context.DeadlineExceeded):
		c.Logger.Debug("algorithm cancelled", "graph", g.ID())
		return errors.Wrap(errors.ErrCodeCancelled, runErr, "algorithm %q cancelled", info.Name)
	default:
		if msg := c.Progress.Error(); msg != "" && msg != runErr.Error() {
			runErr = stderrors.Join(runErr, stderrors.New(msg))
		}
		c.Logger.Debug("algorithm failed", "graph", g.ID(), "err", runErr)
		return errors.Wrap(errors.ErrCodeAlgorithmFailed, runErr, "algorithm %q failed", info.Name)
	}
}
