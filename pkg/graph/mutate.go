package graph

import (
	"slices"
)

// =============================================================================
// Primitives
//
// Every structural change goes through the functions below. Each one
// changes a single graph and then notifies; the undo recorder replays them
// to invert or repeat a change. Only the root touches the store.
// =============================================================================

func (g *Graph) insertNode(n Node) {
	g.nodes.add(n)
	g.notify(NodeAdded{Graph: g, Node: n})
}

func (g *Graph) restoreNode(n Node, pos int) {
	g.nodes.restore(n, pos)
	g.notify(NodeAdded{Graph: g, Node: n})
}

func (g *Graph) removeNode(n Node) {
	pos := g.nodes.remove(n)
	g.notify(NodeDeleted{Graph: g, Node: n, pos: pos})
}

func (g *Graph) insertEdge(e Edge, ends [2]Node) {
	if g.IsRoot() {
		g.h.store.attach(e, ends[0], ends[1])
	}
	g.edges.add(e)
	g.notify(EdgeAdded{Graph: g, Edge: e})
}

func (g *Graph) restoreEdge(e Edge, ends [2]Node, pos int, adjPos [2]int) {
	if g.IsRoot() {
		g.h.store.reattach(e, ends, adjPos)
	}
	g.edges.restore(e, pos)
	g.notify(EdgeAdded{Graph: g, Edge: e})
}

func (g *Graph) removeEdge(e Edge) {
	ends := g.h.store.ends[e]
	adjPos := [2]int{-1, -1}
	if g.IsRoot() {
		adjPos = g.h.store.detach(e)
	}
	pos := g.edges.remove(e)
	g.notify(EdgeDeleted{Graph: g, Edge: e, From: ends[0], To: ends[1], pos: pos, adjPos: adjPos})
}

// reverseEdge swaps the ends of e in the store and notifies every graph
// holding e, root first.
func (h *hierarchy) reverseEdge(e Edge) {
	h.store.reverse(e)
	h.root.walk(func(g *Graph) bool {
		if !g.edges.has(e) {
			return false
		}
		g.notify(EdgeReversed{Graph: g, Edge: e})
		return true
	})
}

// moveEdge gives e new ends in the store and notifies the root.
func (h *hierarchy) moveEdge(e Edge, src, tgt Node) {
	old := h.store.ends[e]
	h.root.notify(EdgeEndsChanging{Graph: h.root, Edge: e})
	adjPos := h.store.detach(e)
	h.store.attach(e, src, tgt)
	h.root.notify(EdgeEndsChanged{Graph: h.root, Edge: e, OldSource: old[0], OldTarget: old[1], adjPos: adjPos})
}

// unmoveEdge undoes moveEdge.
func (h *hierarchy) unmoveEdge(e Edge, old [2]Node, adjPos [2]int) {
	cur := h.store.ends[e]
	h.root.notify(EdgeEndsChanging{Graph: h.root, Edge: e})
	h.store.detach(e)
	h.store.reattach(e, old, adjPos)
	h.root.notify(EdgeEndsChanged{Graph: h.root, Edge: e, OldSource: cur[0], OldTarget: cur[1]})
}

// walk visits g and its descendants in pre-order. Returning false from fn
// skips the subtree below the visited graph.
func (g *Graph) walk(fn func(*Graph) bool) {
	if !fn(g) {
		return
	}
	for _, sg := range g.subs {
		sg.walk(fn)
	}
}

// eraseNodeValues resets n in every local property of g.
func (g *Graph) eraseNodeValues(n Node) {
	g.props.Scan(func(_ string, p PropertyInterface) bool {
		p.Erase(n)
		return true
	})
}

func (g *Graph) eraseEdgeValues(e Edge) {
	g.props.Scan(func(_ string, p PropertyInterface) bool {
		p.EraseEdge(e)
		return true
	})
}

// pathFromRoot returns the graphs from the root down to g.
func (g *Graph) pathFromRoot() []*Graph {
	var path []*Graph
	for c := g; ; c = c.parent {
		path = append(path, c)
		if c.IsRoot() {
			break
		}
	}
	slices.Reverse(path)
	return path
}

// =============================================================================
// Adding elements
// =============================================================================

// AddNode creates a node in g and in every ancestor of g. Freed ids are
// reused, smallest first.
func (g *Graph) AddNode() Node {
	n := g.h.store.newNode()
	for _, a := range g.pathFromRoot() {
		a.insertNode(n)
	}
	return n
}

// AddNodes creates count nodes. Observers receive them as one batch.
func (g *Graph) AddNodes(count int) []Node {
	hold := g.HoldObservers()
	defer hold.Release()
	out := make([]Node, count)
	for i := range out {
		out[i] = g.AddNode()
	}
	return out
}

// AddExistingNode adds a node of the hierarchy to g, adding it to the
// ancestors of g that lack it. On the root it logs a warning and does
// nothing.
func (g *Graph) AddExistingNode(n Node) {
	if g.IsRoot() {
		g.warn("cannot add an existing node to the root graph", "node", n)
		return
	}
	if !g.h.root.nodes.has(n) {
		g.warn("node does not belong to the hierarchy", "node", n)
		return
	}
	if g.nodes.has(n) {
		return
	}
	g.climbNode(n)
}

func (g *Graph) climbNode(n Node) {
	if !g.parent.nodes.has(n) {
		g.parent.climbNode(n)
	}
	g.insertNode(n)
}

// AddExistingNodes adds each node of nodes as [Graph.AddExistingNode] does.
func (g *Graph) AddExistingNodes(nodes []Node) {
	hold := g.HoldObservers()
	defer hold.Release()
	for _, n := range nodes {
		g.AddExistingNode(n)
	}
}

// AddEdge creates an edge from src to tgt in g and every ancestor. Both
// ends must belong to g; otherwise a warning is logged and [NoEdge] is
// returned.
func (g *Graph) AddEdge(src, tgt Node) Edge {
	if !g.nodes.has(src) || !g.nodes.has(tgt) {
		g.warn("edge ends do not belong to the graph", "source", src, "target", tgt)
		return NoEdge
	}
	e := Edge(g.h.store.edgeIDs.Get())
	ends := [2]Node{src, tgt}
	for _, a := range g.pathFromRoot() {
		a.insertEdge(e, ends)
	}
	return e
}

// AddEdges creates one edge per pair of ends.
func (g *Graph) AddEdges(ends [][2]Node) []Edge {
	hold := g.HoldObservers()
	defer hold.Release()
	out := make([]Edge, len(ends))
	for i, p := range ends {
		out[i] = g.AddEdge(p[0], p[1])
	}
	return out
}

// AddExistingEdge adds an edge of the hierarchy to g and to the ancestors
// that lack it. Both ends must already belong to g. On the root it logs a
// warning and does nothing.
func (g *Graph) AddExistingEdge(e Edge) {
	if g.IsRoot() {
		g.warn("cannot add an existing edge to the root graph", "edge", e)
		return
	}
	if !g.h.root.edges.has(e) {
		g.warn("edge does not belong to the hierarchy", "edge", e)
		return
	}
	if g.edges.has(e) {
		return
	}
	src, tgt := g.Ends(e)
	if !g.nodes.has(src) || !g.nodes.has(tgt) {
		g.warn("edge ends do not belong to the graph", "edge", e, "source", src, "target", tgt)
		return
	}
	g.climbEdge(e)
}

func (g *Graph) climbEdge(e Edge) {
	if !g.parent.edges.has(e) {
		g.parent.climbEdge(e)
	}
	g.insertEdge(e, g.h.store.ends[e])
}

// AddExistingEdges adds each edge of edges as [Graph.AddExistingEdge] does.
func (g *Graph) AddExistingEdges(edges []Edge) {
	hold := g.HoldObservers()
	defer hold.Release()
	for _, e := range edges {
		g.AddExistingEdge(e)
	}
}

// =============================================================================
// Deleting elements
// =============================================================================

// DelNode removes n and its incident edges from g and every descendant.
// With deleteInAllGraphs the node is removed from the whole hierarchy and
// its id is freed.
func (g *Graph) DelNode(n Node, deleteInAllGraphs bool) {
	target := g
	if deleteInAllGraphs {
		target = g.h.root
	}
	if !target.nodes.has(n) {
		g.warn("cannot delete a node that does not belong to the graph", "node", n)
		return
	}
	hold := g.HoldObservers()
	defer hold.Release()
	target.cascadeNode(n)
}

func (g *Graph) cascadeNode(n Node) {
	for _, sg := range g.subs {
		if sg.nodes.has(n) {
			sg.cascadeNode(n)
		}
	}
	for _, e := range g.incidence(n) {
		g.dropEdge(e)
	}
	g.eraseNodeValues(n)
	g.removeNode(n)
	if g.IsRoot() {
		g.h.store.nodeIDs.Free(uint32(n))
	}
}

// DelNodes removes each node of nodes as [Graph.DelNode] does.
func (g *Graph) DelNodes(nodes []Node, deleteInAllGraphs bool) {
	hold := g.HoldObservers()
	defer hold.Release()
	for _, n := range slices.Clone(nodes) {
		g.DelNode(n, deleteInAllGraphs)
	}
}

// DelEdge removes e from g and every descendant. With deleteInAllGraphs it
// is removed from the whole hierarchy and its id is freed. The order of the
// remaining edges around each end is kept.
func (g *Graph) DelEdge(e Edge, deleteInAllGraphs bool) {
	target := g
	if deleteInAllGraphs {
		target = g.h.root
	}
	if !target.edges.has(e) {
		g.warn("cannot delete an edge that does not belong to the graph", "edge", e)
		return
	}
	hold := g.HoldObservers()
	defer hold.Release()
	target.dropEdge(e)
}

// dropEdge removes e from the descendants of g, deepest first, then from g.
func (g *Graph) dropEdge(e Edge) {
	for _, sg := range g.subs {
		if sg.edges.has(e) {
			sg.dropEdge(e)
		}
	}
	g.eraseEdgeValues(e)
	g.removeEdge(e)
	if g.IsRoot() {
		g.h.store.edgeIDs.Free(uint32(e))
	}
}

// DelEdges removes each edge of edges as [Graph.DelEdge] does.
func (g *Graph) DelEdges(edges []Edge, deleteInAllGraphs bool) {
	hold := g.HoldObservers()
	defer hold.Release()
	for _, e := range slices.Clone(edges) {
		g.DelEdge(e, deleteInAllGraphs)
	}
}

// Clear removes every subgraph, node and edge of g. On a subgraph the
// elements stay in the ancestors.
func (g *Graph) Clear() {
	hold := g.HoldObservers()
	defer hold.Release()
	for len(g.subs) > 0 {
		g.DelAllSubGraphs(g.subs[len(g.subs)-1])
	}
	for g.nodes.len() > 0 {
		g.cascadeNode(g.nodes.list[g.nodes.len()-1])
	}
}

// =============================================================================
// Edge structure
// =============================================================================

// Reverse swaps the source and target of e in the whole hierarchy.
func (g *Graph) Reverse(e Edge) {
	if !g.edges.has(e) {
		g.warn("cannot reverse an edge that does not belong to the graph", "edge", e)
		return
	}
	hold := g.HoldObservers()
	defer hold.Release()
	g.h.reverseEdge(e)
}

// SetSource moves the source of e to n.
func (g *Graph) SetSource(e Edge, n Node) { g.SetEnds(e, n, NoNode) }

// SetTarget moves the target of e to n.
func (g *Graph) SetTarget(e Edge, n Node) { g.SetEnds(e, NoNode, n) }

// SetEnds moves e to new ends. An invalid end keeps the current one. The
// change applies to the whole hierarchy: graphs that hold e but lack one
// of the new ends lose e. Meta edges cannot be moved.
func (g *Graph) SetEnds(e Edge, src, tgt Node) {
	root := g.h.root
	if !g.edges.has(e) {
		g.warn("cannot move an edge that does not belong to the graph", "edge", e)
		return
	}
	if g.IsMetaEdge(e) {
		g.warn("cannot move a meta edge", "edge", e)
		return
	}
	old := g.h.store.ends[e]
	if !src.IsValid() {
		src = old[0]
	}
	if !tgt.IsValid() {
		tgt = old[1]
	}
	if src == old[0] && tgt == old[1] {
		return
	}
	if !root.nodes.has(src) || !root.nodes.has(tgt) {
		g.warn("edge ends do not belong to the hierarchy", "edge", e, "source", src, "target", tgt)
		return
	}
	hold := g.HoldObservers()
	defer hold.Release()
	g.h.moveEdge(e, src, tgt)
	for _, sg := range root.subs {
		sg.followEnds(e, old)
	}
}

// followEnds updates the view of g after e moved away from old.
func (g *Graph) followEnds(e Edge, old [2]Node) {
	if !g.edges.has(e) {
		return
	}
	src, tgt := g.h.store.source(e), g.h.store.target(e)
	if g.nodes.has(src) && g.nodes.has(tgt) {
		g.notify(EdgeEndsChanging{Graph: g, Edge: e})
		g.notify(EdgeEndsChanged{Graph: g, Edge: e, OldSource: old[0], OldTarget: old[1]})
		for _, sg := range g.subs {
			sg.followEnds(e, old)
		}
		return
	}
	for _, sg := range g.subs {
		sg.followEnds(e, old)
	}
	g.eraseEdgeValues(e)
	g.removeEdge(e)
}

// =============================================================================
// Edge order
//
// The incidence order around a node is global to the hierarchy. None of
// the functions below is recorded by the undo log.
// =============================================================================

// SetEdgeOrder reorders the incidence list of n. order must be a
// permutation of the root incidence list of n; otherwise a warning is
// logged and nothing changes.
func (g *Graph) SetEdgeOrder(n Node, order []Edge) {
	cur := g.h.store.incidence(n)
	if !g.nodes.has(n) || len(order) != len(cur) {
		g.warn("invalid edge order", "node", n)
		return
	}
	a, b := slices.Clone(cur), slices.Clone(order)
	slices.Sort(a)
	slices.Sort(b)
	if !slices.Equal(a, b) {
		g.warn("edge order is not a permutation of the incident edges", "node", n)
		return
	}
	copy(cur, order)
}

// SwapEdgeOrder exchanges the positions of e1 and e2 around n.
func (g *Graph) SwapEdgeOrder(n Node, e1, e2 Edge) {
	cur := g.h.store.incidence(n)
	i, j := slices.Index(cur, e1), slices.Index(cur, e2)
	if i < 0 || j < 0 {
		g.warn("edges are not incident to the node", "node", n, "edge1", e1, "edge2", e2)
		return
	}
	cur[i], cur[j] = cur[j], cur[i]
}

// SortEdges sorts the incidence list of n with cmp.
func (g *Graph) SortEdges(n Node, cmp func(a, b Edge) int) {
	slices.SortStableFunc(g.h.store.incidence(n), cmp)
}

// EdgeOrder returns the global incidence list of n.
func (g *Graph) EdgeOrder(n Node) []Edge {
	return slices.Clone(g.h.store.incidence(n))
}
