package graph

import "errors"

var (
	// ErrRootGraph is returned by the meta-node operations when they are
	// called on the root of a hierarchy.
	ErrRootGraph = errors.New("operation not allowed on the root graph")

	// ErrNotElement is returned when a node or edge does not belong to the
	// graph an operation was called on.
	ErrNotElement = errors.New("element does not belong to the graph")

	// ErrNotMetaNode is returned by [Graph.OpenMetaNode] for a node that does
	// not represent a collapsed subgraph.
	ErrNotMetaNode = errors.New("node is not a meta node")

	// ErrInvalidMetaGraph is returned by [Graph.CreateMetaNodeFromSubGraph]
	// when the subgraph is nil, belongs to another hierarchy, or is the graph
	// itself or one of its descendants.
	ErrInvalidMetaGraph = errors.New("invalid meta graph")

	// ErrPropertyTypeMismatch is returned when a property is looked up with a
	// kind other than the one it was created with.
	ErrPropertyTypeMismatch = errors.New("property type mismatch")

	// ErrPropertyExists is returned by [Graph.AddLocalProperty] when the name
	// is already taken by a local property.
	ErrPropertyExists = errors.New("local property already exists")

	// ErrPropertyBound is returned by [Graph.AddLocalProperty] for a property
	// that already belongs to a graph.
	ErrPropertyBound = errors.New("property already belongs to a graph")

	// ErrNotDescendant is returned when a graph is expected to be the receiver
	// or one of its ancestors.
	ErrNotDescendant = errors.New("graph is not in the expected part of the hierarchy")

	// ErrNoSuchGraph is returned when parsing a graph id that names no graph
	// of the hierarchy.
	ErrNoSuchGraph = errors.New("no such graph")

	// ErrUnbound is returned when an operation needs the graph of a property
	// that was never added to one.
	ErrUnbound = errors.New("property is not bound to a graph")
)
