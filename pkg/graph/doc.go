// Package graph implements a hierarchy of directed multigraphs that share
// one set of nodes and edges.
//
// # Overview
//
// A hierarchy starts with a root created by [New]. The root owns every node
// and edge and their ids. Subgraphs hold subsets of their parent's elements
// and form a tree of any depth: every element of a subgraph is also an
// element of all its ancestors.
//
//	root := graph.New(graph.WithName("root"))
//	nodes := root.AddNodes(3)
//	e := root.AddEdge(nodes[0], nodes[1])
//
//	s := root.AddSubGraph("S")
//	s.AddExistingNodes(nodes[:2])
//	s.AddExistingEdge(e)
//
// Deleting an element from a graph removes it from every descendant. Pass
// deleteInAllGraphs to remove it from the whole hierarchy, which frees the
// id for reuse. [Graph.Nodes] and [Graph.Edges] return the current element
// order without copying, and [Graph.NodePos] and [Graph.EdgePos] index into
// it in constant time.
//
// # Properties
//
// A property stores one value per node and per edge, with a default for
// elements that have none. It is declared on one graph and visible from
// every descendant that does not declare its own property of the same name.
// [Property] is generic over the node and edge value types; the kinds are
// listed by [PropertyKind] and created through the [Type] descriptors:
//
//	metric, err := graph.GetProperty(s, "viewMetric", graph.DoubleType)
//	metric.SetNodeValue(nodes[0], 4.2)
//
// Looking up an existing property with the wrong kind returns
// [ErrPropertyTypeMismatch].
//
// # Events
//
// Every mutation notifies the graph or property it changed. Listeners get
// each event synchronously. Observers get batches: while a hold from
// [Graph.HoldObservers] is outstanding, their events are queued and
// delivered when the last hold is released. Events are plain structs; use a
// type switch on [Event] or [PropertyEvent].
//
// # Undo
//
// The hierarchy keeps one undo log. [Graph.Push] opens a frame that records
// every change; [Graph.Pop] reverts it and [Graph.Unpop] applies it again.
// Changes to edge order are not recorded.
//
// # Meta nodes
//
// [Graph.CreateMetaNode] collapses a set of nodes into a single meta node
// that points at a sibling graph holding them. Edges crossing the group
// boundary become meta edges to the meta node. [Graph.OpenMetaNode] reverts
// the collapse.
//
// # Concurrency
//
// A hierarchy is not safe for concurrent mutation. Reads from several
// goroutines are safe while nothing mutates it.
package graph
