// Package builtin provides the algorithms shipped with hiergraph.
//
// Call [Register] to add them to a registry:
//
//	if err := builtin.Register(plugin.Default); err != nil {
//	    return err
//	}
//
// Metric algorithms write a double property:
//
//   - Degree: number of incident edges, optionally normalized
//   - Connected Component: index of the weakly connected component
//   - Strongly Connected Component: index of the strongly connected
//     component
//   - Dag Level: length of the longest path from a source; fails on cycles
//
// Id writes an integer property holding element ids, and Reachable Sub
// Graph selects the nodes within a given distance of a start selection.
//
// The general algorithms Reverse Edges, Equal Value and Complete Graph
// change the structure of the graph they run on.
package builtin
