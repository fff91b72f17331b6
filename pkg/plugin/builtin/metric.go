package builtin

import (
	"context"
	"fmt"

	"github.com/matzehuels/hiergraph/pkg/analysis"
	"github.com/matzehuels/hiergraph/pkg/graph"
	"github.com/matzehuels/hiergraph/pkg/parallel"
	"github.com/matzehuels/hiergraph/pkg/plugin"
)

// =============================================================================
// Degree
// =============================================================================

type degree struct {
	kind    string
	norm    bool
	workers int
}

func (a *degree) Check(c *plugin.Context) error {
	a.kind = c.String("type", "inout")
	switch a.kind {
	case "in", "out", "inout":
	default:
		return fmt.Errorf("unknown degree type %q", a.kind)
	}
	var err error
	if a.norm, err = c.Bool("norm", false); err != nil {
		return err
	}
	a.workers, err = c.Int("workers", 0)
	return err
}

func (a *degree) count(g *graph.Graph, n graph.Node) int {
	switch a.kind {
	case "in":
		return g.InDeg(n)
	case "out":
		return g.OutDeg(n)
	}
	return g.Deg(n)
}

func (a *degree) Run(ctx context.Context, c *plugin.Context) error {
	metric, err := plugin.ResultOf(c, graph.DoubleType)
	if err != nil {
		return err
	}
	g := c.Graph
	deg, err := parallel.MapNodes(ctx, g, a.workers, func(_ context.Context, n graph.Node) (float64, error) {
		return float64(a.count(g, n)), nil
	})
	if err != nil {
		return err
	}

	denom := 1.0
	if n := g.NumberOfNodes(); a.norm && n > 1 {
		denom = float64(n - 1)
		if a.kind == "inout" {
			denom *= 2
		}
	}
	for i, n := range g.Nodes() {
		metric.SetNodeValue(n, deg[i]/denom)
	}
	return c.Step(ctx, len(deg), len(deg))
}

// =============================================================================
// Components
// =============================================================================

type components struct {
	strong bool
}

func (a *components) Run(ctx context.Context, c *plugin.Context) error {
	metric, err := plugin.ResultOf(c, graph.DoubleType)
	if err != nil {
		return err
	}
	g := c.Graph
	var comps [][]graph.Node
	if a.strong {
		comps = analysis.StronglyConnectedComponents(g)
	} else {
		comps = analysis.ConnectedComponents(g)
	}
	if err := c.Step(ctx, 1, 2); err != nil {
		return err
	}

	idx := analysis.ComponentIndex(comps)
	for _, n := range g.Nodes() {
		metric.SetNodeValue(n, float64(idx[n]))
	}
	// With strong components, edges between two components get the
	// component count.
	for _, e := range g.Edges() {
		src, tgt := g.Ends(e)
		v := idx[src]
		if a.strong && idx[tgt] != v {
			v = len(comps)
		}
		metric.SetEdgeValue(e, float64(v))
	}

	key := "#connected components"
	if a.strong {
		key = "#strongly connected components"
	}
	c.Params.Set(key, len(comps))
	c.Logger.Debug("components", "count", len(comps))
	return c.Step(ctx, 2, 2)
}

// =============================================================================
// Dag Level
// =============================================================================

type dagLevel struct{}

func (dagLevel) Run(ctx context.Context, c *plugin.Context) error {
	metric, err := plugin.ResultOf(c, graph.DoubleType)
	if err != nil {
		return err
	}
	levels, err := analysis.Levels(c.Graph)
	if err != nil {
		return c.Fail("the graph must be acyclic: %v", err)
	}
	for n, l := range levels {
		metric.SetNodeValue(n, float64(l))
	}
	return c.Step(ctx, 1, 1)
}

// =============================================================================
// Id
// =============================================================================

type ids struct{}

func (ids) Run(ctx context.Context, c *plugin.Context) error {
	id, err := plugin.ResultOf(c, graph.IntegerType)
	if err != nil {
		return err
	}
	for _, n := range c.Graph.Nodes() {
		id.SetNodeValue(n, int(n.ID()))
	}
	for _, e := range c.Graph.Edges() {
		id.SetEdgeValue(e, int(e.ID()))
	}
	return c.Step(ctx, 1, 1)
}
