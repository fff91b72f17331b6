// Package parallel runs per-element work over a graph on a bounded pool of
// goroutines.
//
// The graph engine does no locking. The functions here take a snapshot of
// the node or edge list before starting, and the callback must only read
// the graph or write to storage partitioned by element (such as a result
// slice indexed by position). Results are gathered by position and handed
// back once every worker has returned, so callers apply them to properties
// from a single goroutine.
//
//	degrees, err := parallel.MapNodes(ctx, g, 0, func(_ context.Context, n graph.Node) (float64, error) {
//	    return float64(g.Deg(n)), nil
//	})
package parallel

import (
	"context"
	"runtime"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/hiergraph/pkg/graph"
)

// Workers returns the pool size used for n <= 0.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// each calls fn for every index of items on at most workers goroutines and
// stops at the first error or when ctx is done.
func each[T any](ctx context.Context, items []T, workers int, fn func(context.Context, int, T) error) error {
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(Workers(workers))
	for i, it := range items {
		if gctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i, it)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// ForEachNode calls fn for every node of g.
func ForEachNode(ctx context.Context, g *graph.Graph, workers int, fn func(context.Context, graph.Node) error) error {
	nodes := append([]graph.Node(nil), g.Nodes()...)
	return each(ctx, nodes, workers, func(ctx context.Context, _ int, n graph.Node) error {
		return fn(ctx, n)
	})
}

// ForEachEdge calls fn for every edge of g.
func ForEachEdge(ctx context.Context, g *graph.Graph, workers int, fn func(context.Context, graph.Edge) error) error {
	edges := append([]graph.Edge(nil), g.Edges()...)
	return each(ctx, edges, workers, func(ctx context.Context, _ int, e graph.Edge) error {
		return fn(ctx, e)
	})
}

// MapNodes computes fn for every node of g. The result at index i belongs
// to the node at position i.
func MapNodes[T any](ctx context.Context, g *graph.Graph, workers int, fn func(context.Context, graph.Node) (T, error)) ([]T, error) {
	nodes := append([]graph.Node(nil), g.Nodes()...)
	out := make([]T, len(nodes))
	err := each(ctx, nodes, workers, func(ctx context.Context, i int, n graph.Node) error {
		v, err := fn(ctx, n)
		out[i] = v
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MapEdges is [MapNodes] for edges.
func MapEdges[T any](ctx context.Context, g *graph.Graph, workers int, fn func(context.Context, graph.Edge) (T, error)) ([]T, error) {
	edges := append([]graph.Edge(nil), g.Edges()...)
	out := make([]T, len(edges))
	err := each(ctx, edges, workers, func(ctx context.Context, i int, e graph.Edge) error {
		v, err := fn(ctx, e)
		out[i] = v
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SelectNodes returns the set of node ids for which pred holds.
func SelectNodes(ctx context.Context, g *graph.Graph, workers int, pred func(graph.Node) bool) (*bitset.BitSet, error) {
	keep, err := MapNodes(ctx, g, workers, func(_ context.Context, n graph.Node) (bool, error) {
		return pred(n), nil
	})
	if err != nil {
		return nil, err
	}
	set := bitset.New(0)
	for i, n := range g.Nodes() {
		if keep[i] {
			set.Set(uint(n))
		}
	}
	return set, nil
}
