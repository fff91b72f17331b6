package analysis

import (
	"errors"
	"fmt"
	"slices"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/hiergraph/pkg/graph"
)

// ErrCyclic is returned by the functions that need an acyclic graph.
var ErrCyclic = errors.New("graph has a directed cycle")

// ConnectedComponents returns the weakly connected components of g. Each
// component lists its nodes in graph order, and components are ordered by
// their first node.
func ConnectedComponents(g *graph.Graph) [][]graph.Node {
	return normalize(g, topo.ConnectedComponents(NewUndirected(g)))
}

// StronglyConnectedComponents returns the strongly connected components of
// g, ordered as in [ConnectedComponents].
func StronglyConnectedComponents(g *graph.Graph) [][]graph.Node {
	return normalize(g, topo.TarjanSCC(NewDirected(g)))
}

// ComponentIndex maps every node of g to the index of its component in
// comps.
func ComponentIndex(comps [][]graph.Node) map[graph.Node]int {
	idx := make(map[graph.Node]int)
	for i, c := range comps {
		for _, n := range c {
			idx[n] = i
		}
	}
	return idx
}

// TopologicalOrder returns the nodes of g so that every edge goes from an
// earlier node to a later one. It returns [ErrCyclic] when g has a cycle.
// Loops count as cycles.
func TopologicalOrder(g *graph.Graph) ([]graph.Node, error) {
	sorted, err := topo.Sort(NewDirected(g))
	if err != nil {
		var cycles topo.Unorderable
		if errors.As(err, &cycles) {
			return nil, fmt.Errorf("%d strongly connected components: %w", len(cycles), ErrCyclic)
		}
		return nil, err
	}
	if hasLoop(g) {
		return nil, fmt.Errorf("loop: %w", ErrCyclic)
	}
	return toNodes(sorted), nil
}

// HasCycle reports whether g has a directed cycle or a loop.
func HasCycle(g *graph.Graph) bool {
	return hasLoop(g) || len(topo.DirectedCyclesIn(NewDirected(g))) > 0
}

// Levels assigns every node the length of the longest path reaching it
// from a node without in edges. It returns [ErrCyclic] when g has a cycle.
func Levels(g *graph.Graph) (map[graph.Node]int, error) {
	order, err := TopologicalOrder(g)
	if err != nil {
		return nil, err
	}
	level := make(map[graph.Node]int, len(order))
	for _, n := range order {
		l := 0
		for _, p := range g.InNodes(n) {
			l = max(l, level[p]+1)
		}
		level[n] = l
	}
	return level, nil
}

func hasLoop(g *graph.Graph) bool {
	for _, e := range g.Edges() {
		if src, tgt := g.Ends(e); src == tgt {
			return true
		}
	}
	return false
}

func toNodes(ns []gonum.Node) []graph.Node {
	out := make([]graph.Node, len(ns))
	for i, n := range ns {
		out[i] = graph.Node(uint32(n.ID()))
	}
	return out
}

func normalize(g *graph.Graph, comps [][]gonum.Node) [][]graph.Node {
	byPos := func(a, b graph.Node) int { return g.NodePos(a) - g.NodePos(b) }
	out := make([][]graph.Node, len(comps))
	for i, c := range comps {
		out[i] = toNodes(c)
		slices.SortFunc(out[i], byPos)
	}
	slices.SortFunc(out, func(a, b []graph.Node) int { return byPos(a[0], b[0]) })
	return out
}
