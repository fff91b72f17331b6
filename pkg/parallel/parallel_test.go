package parallel

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hiergraph/pkg/graph"
)

func star(leaves int) (*graph.Graph, graph.Node) {
	g := graph.New(graph.WithLogger(log.New(io.Discard)))
	center := g.AddNode()
	for range leaves {
		g.AddEdge(center, g.AddNode())
	}
	return g, center
}

func TestWorkers(t *testing.T) {
	if got := Workers(3); got != 3 {
		t.Errorf("Workers(3) = %d, want 3", got)
	}
	if got := Workers(0); got < 1 {
		t.Errorf("Workers(0) = %d, want >= 1", got)
	}
}

func TestMapNodes(t *testing.T) {
	g, center := star(20)
	for _, workers := range []int{1, 4, 0} {
		deg, err := MapNodes(context.Background(), g, workers, func(_ context.Context, n graph.Node) (int, error) {
			return g.Deg(n), nil
		})
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		for i, n := range g.Nodes() {
			want := 1
			if n == center {
				want = 20
			}
			if deg[i] != want {
				t.Errorf("workers=%d: deg(%v) = %d, want %d", workers, n, deg[i], want)
			}
		}
	}
}

func TestMapEdges(t *testing.T) {
	g, center := star(5)
	src, err := MapEdges(context.Background(), g, 2, func(_ context.Context, e graph.Edge) (graph.Node, error) {
		return g.Source(e), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range src {
		if s != center {
			t.Errorf("source of edge %d = %v, want %v", i, s, center)
		}
	}
}

func TestForEach(t *testing.T) {
	g, _ := star(10)
	var nodes, edges atomic.Int64
	if err := ForEachNode(context.Background(), g, 3, func(context.Context, graph.Node) error {
		nodes.Add(1)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if err := ForEachEdge(context.Background(), g, 3, func(context.Context, graph.Edge) error {
		edges.Add(1)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if nodes.Load() != 11 || edges.Load() != 10 {
		t.Errorf("visited %d nodes, %d edges, want 11, 10", nodes.Load(), edges.Load())
	}
}

func TestSuccessLeavesContextLive(t *testing.T) {
	g := graph.New(graph.WithLogger(log.New(io.Discard)))
	g.AddNodes(3)
	var live atomic.Int64
	err := ForEachNode(context.Background(), g, 2, func(ctx context.Context, _ graph.Node) error {
		if ctx.Err() == nil {
			live.Add(1)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachNode = %v, want nil", err)
	}
	if live.Load() != 3 {
		t.Errorf("workers saw a live context %d times, want 3", live.Load())
	}
}

func TestErrorStops(t *testing.T) {
	g, _ := star(50)
	boom := errors.New("boom")
	_, err := MapNodes(context.Background(), g, 1, func(_ context.Context, n graph.Node) (int, error) {
		if n == 3 {
			return 0, boom
		}
		return 0, nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want %v", err, boom)
	}
}

func TestCancelled(t *testing.T) {
	g, _ := star(5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ForEachNode(ctx, g, 2, func(context.Context, graph.Node) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestSelectNodes(t *testing.T) {
	g, center := star(4)
	set, err := SelectNodes(context.Background(), g, 2, func(n graph.Node) bool { return g.Deg(n) > 1 })
	if err != nil {
		t.Fatal(err)
	}
	if set.Count() != 1 || !set.Test(uint(center)) {
		t.Errorf("selected %v, want only %v", set, center)
	}
}
