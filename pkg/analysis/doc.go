// Package analysis runs gonum graph algorithms on a hiergraph graph.
//
// [Directed] and [Undirected] present one graph of a hierarchy through the
// gonum.org/v1/gonum/graph interfaces. Node ids are the hiergraph node ids.
// Parallel edges collapse into one gonum edge, and the adapters read the
// graph live, so they must not be used while it is being mutated.
//
// The functions on top of the adapters return hiergraph nodes, ordered by
// their position in the graph so that results are stable from run to run:
//
//	comps := analysis.ConnectedComponents(g)
//	order, err := analysis.TopologicalOrder(g)
//	if errors.Is(err, analysis.ErrCyclic) {
//	    // g has a directed cycle
//	}
package analysis
