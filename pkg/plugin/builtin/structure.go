package builtin

import (
	"context"
	"fmt"

	"github.com/matzehuels/hiergraph/pkg/graph"
	"github.com/matzehuels/hiergraph/pkg/plugin"
)

// booleanParam returns the boolean property given as parameter key, or
// the property named def when the parameter is unset.
func booleanParam(c *plugin.Context, key, def string) (*graph.BooleanProperty, error) {
	p, err := c.Property(key)
	if err != nil {
		return nil, err
	}
	if p == nil && def != "" {
		p = c.Graph.Property(def)
	}
	if p == nil {
		return nil, nil
	}
	sel, ok := p.(*graph.BooleanProperty)
	if !ok {
		return nil, fmt.Errorf("parameter %q: %q is a %v property, want bool", key, p.Name(), p.Kind())
	}
	return sel, nil
}

// =============================================================================
// Reachable Sub Graph
// =============================================================================

type reachable struct {
	direction string
	start     *graph.BooleanProperty
	distance  int
}

func (a *reachable) Check(c *plugin.Context) error {
	a.direction = c.String("edge direction", "output")
	switch a.direction {
	case "output", "input", "all":
	default:
		return fmt.Errorf("unknown edge direction %q", a.direction)
	}
	var err error
	if a.distance, err = c.Int("distance", 5); err != nil {
		return err
	}
	if a.distance < 0 {
		return fmt.Errorf("distance must not be negative, got %d", a.distance)
	}
	if a.start, err = booleanParam(c, "starting nodes", "viewSelection"); err != nil {
		return err
	}
	if a.start == nil {
		return fmt.Errorf("no starting nodes")
	}
	return nil
}

func (a *reachable) neighbours(g *graph.Graph, n graph.Node) []graph.Node {
	switch a.direction {
	case "input":
		return g.InNodes(n)
	case "all":
		return g.InOutNodes(n)
	}
	return g.OutNodes(n)
}

func (a *reachable) Run(ctx context.Context, c *plugin.Context) error {
	result, err := plugin.ResultOf(c, graph.BooleanType)
	if err != nil {
		return err
	}
	g := c.Graph

	// Starts are collected first since result may be the start property.
	dist := make(map[graph.Node]int)
	var frontier []graph.Node
	for _, n := range g.Nodes() {
		if a.start.NodeValue(n) {
			dist[n] = 0
			frontier = append(frontier, n)
		}
	}
	for d := 1; d <= a.distance && len(frontier) > 0; d++ {
		var next []graph.Node
		for _, n := range frontier {
			for _, m := range a.neighbours(g, n) {
				if _, seen := dist[m]; !seen {
					dist[m] = d
					next = append(next, m)
				}
			}
		}
		frontier = next
		if err := c.Step(ctx, d, a.distance); err != nil {
			return err
		}
	}

	result.SetValueToGraphNodes(false, g)
	result.SetValueToGraphEdges(false, g)
	for _, n := range g.Nodes() {
		if _, ok := dist[n]; ok {
			result.SetNodeValue(n, true)
		}
	}
	selected := 0
	for _, e := range g.Edges() {
		src, tgt := g.Ends(e)
		_, okSrc := dist[src]
		_, okTgt := dist[tgt]
		if okSrc && okTgt {
			result.SetEdgeValue(e, true)
			selected++
		}
	}
	c.Logger.Debug("reachable", "nodes", len(dist), "edges", selected)
	return nil
}

// =============================================================================
// Reverse Edges
// =============================================================================

type reverseEdges struct {
	selection *graph.BooleanProperty
}

func (a *reverseEdges) Check(c *plugin.Context) error {
	var err error
	a.selection, err = booleanParam(c, "selection", "")
	return err
}

func (a *reverseEdges) Run(ctx context.Context, c *plugin.Context) error {
	edges := append([]graph.Edge(nil), c.Graph.Edges()...)
	for i, e := range edges {
		if a.selection == nil || a.selection.EdgeValue(e) {
			c.Graph.Reverse(e)
		}
		if i%1000 == 0 {
			if err := c.Step(ctx, i, len(edges)); err != nil {
				return err
			}
		}
	}
	return nil
}

// =============================================================================
// Equal Value
// =============================================================================

type equalValue struct {
	prop  graph.PropertyInterface
	edges bool
}

func (a *equalValue) Check(c *plugin.Context) error {
	p, err := c.Property("property")
	if err != nil {
		return err
	}
	if p == nil {
		p = c.Graph.Property("viewMetric")
	}
	if p == nil {
		return fmt.Errorf("no property to partition on")
	}
	a.prop = p
	switch t := c.String("type", "nodes"); t {
	case "nodes":
	case "edges":
		a.edges = true
	default:
		return fmt.Errorf("unknown partition type %q", t)
	}
	return nil
}

func (a *equalValue) Run(ctx context.Context, c *plugin.Context) error {
	g := c.Graph
	var order []string
	nodes := make(map[string][]graph.Node)
	edges := make(map[string][]graph.Edge)
	if a.edges {
		for _, e := range g.Edges() {
			v := a.prop.EdgeStringValue(e)
			if _, ok := edges[v]; !ok {
				order = append(order, v)
			}
			edges[v] = append(edges[v], e)
		}
	} else {
		for _, n := range g.Nodes() {
			v := a.prop.NodeStringValue(n)
			if _, ok := nodes[v]; !ok {
				order = append(order, v)
			}
			nodes[v] = append(nodes[v], n)
		}
	}

	hold := g.HoldObservers()
	defer hold.Release()
	for i, v := range order {
		name := fmt.Sprintf("%s: %s", a.prop.Name(), v)
		if !a.edges {
			g.InducedSubGraph(nodes[v], g, name)
		} else {
			sg := g.AddSubGraph(name)
			for _, e := range edges[v] {
				src, tgt := g.Ends(e)
				sg.AddExistingNodes([]graph.Node{src, tgt})
				sg.AddExistingEdge(e)
			}
		}
		if err := c.Step(ctx, i+1, len(order)); err != nil {
			return err
		}
	}
	c.Params.Set("#subgraphs", len(order))
	return nil
}

// =============================================================================
// Complete Graph
// =============================================================================

type completeGraph struct {
	nodes    int
	directed bool
}

func (a *completeGraph) Check(c *plugin.Context) error {
	var err error
	if a.nodes, err = c.Int("nodes", 5); err != nil {
		return err
	}
	if a.nodes <= 0 {
		return fmt.Errorf("number of nodes must be greater than 0")
	}
	a.directed, err = c.Bool("directed", false)
	return err
}

func (a *completeGraph) Run(ctx context.Context, c *plugin.Context) error {
	g := c.Graph
	nodes := g.AddNodes(a.nodes)
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			g.AddEdge(nodes[i], nodes[j])
			if a.directed {
				g.AddEdge(nodes[j], nodes[i])
			}
		}
		if err := c.Step(ctx, i+1, len(nodes)); err != nil {
			return err
		}
	}
	return nil
}
