package graph

import (
	"slices"
)

// linkSubGraph inserts sg at pos in the children of g.
func (g *Graph) linkSubGraph(sg *Graph, pos int, children []*Graph) {
	for _, c := range children {
		if i := slices.Index(g.subs, c); i >= 0 {
			g.subs = slices.Delete(g.subs, i, i+1)
		}
		c.parent = sg
	}
	sg.subs = children
	sg.parent = g
	g.subs = slices.Insert(g.subs, pos, sg)
	g.notify(SubGraphAdded{Graph: g, SubGraph: sg, pos: pos})
}

// unlinkSubGraph detaches sg from g and moves its children to g. sg keeps
// its elements and properties so that the change can be undone.
func (g *Graph) unlinkSubGraph(sg *Graph) {
	pos := slices.Index(g.subs, sg)
	g.subs = slices.Delete(g.subs, pos, pos+1)
	children := sg.subs
	sg.subs = nil
	for _, c := range children {
		c.parent = g
	}
	g.subs = append(g.subs, children...)
	g.notify(SubGraphDeleted{Graph: g, SubGraph: sg, pos: pos, children: children})
}

// AddSubGraph creates an empty child of g.
func (g *Graph) AddSubGraph(name string) *Graph {
	sg := g.h.newGraph(g, name)
	g.linkSubGraph(sg, len(g.subs), nil)
	return sg
}

// AddSubGraphSelection creates a child of g holding the nodes and edges
// selected in sel. The ends of a selected edge are added with it.
func (g *Graph) AddSubGraphSelection(sel *BooleanProperty, name string) *Graph {
	hold := g.HoldObservers()
	defer hold.Release()
	sg := g.AddSubGraph(name)
	if sel == nil {
		return sg
	}
	for _, n := range g.nodes.list {
		if sel.NodeValue(n) {
			sg.AddExistingNode(n)
		}
	}
	for _, e := range g.edges.list {
		if !sel.EdgeValue(e) {
			continue
		}
		src, tgt := g.Ends(e)
		sg.AddExistingNode(src)
		sg.AddExistingNode(tgt)
		sg.AddExistingEdge(e)
	}
	return sg
}

// AddCloneSubGraph creates a graph holding every element of g. The clone
// is a child of g, or a sibling when addSibling is set; a sibling can also
// receive copies of the local properties of g. The root has no sibling, so
// addSibling on the root returns nil.
func (g *Graph) AddCloneSubGraph(name string, addSibling, addSiblingProperties bool) *Graph {
	parent := g
	if addSibling {
		if g.IsRoot() {
			g.warn("cannot add a sibling to the root graph")
			return nil
		}
		parent = g.parent
	}
	hold := g.HoldObservers()
	defer hold.Release()
	clone := parent.AddSubGraph(name)
	for _, n := range g.nodes.list {
		clone.AddExistingNode(n)
	}
	for _, e := range g.edges.list {
		clone.AddExistingEdge(e)
	}
	if addSibling && addSiblingProperties {
		g.props.Scan(func(name string, p PropertyInterface) bool {
			if q, err := p.clonePrototype(clone, name); err == nil {
				copyValues(q, p, clone)
			}
			return true
		})
	}
	return clone
}

// copyValues copies the stored values of from for the elements of g.
func copyValues(to, from PropertyInterface, g *Graph) {
	for _, n := range from.NonDefaultNodes(g) {
		to.CopyNodeValue(n, n, from)
	}
	for _, e := range from.NonDefaultEdges(g) {
		to.CopyEdgeValue(e, e, from)
	}
}

// InducedSubGraph creates a child of parent holding nodes and every edge of
// g between two of them. A nil parent means g.
func (g *Graph) InducedSubGraph(nodes []Node, parent *Graph, name string) *Graph {
	if parent == nil {
		parent = g
	}
	hold := g.HoldObservers()
	defer hold.Release()
	sg := parent.AddSubGraph(name)
	sg.AddExistingNodes(nodes)
	for _, n := range nodes {
		for _, e := range g.OutEdges(n) {
			if sg.nodes.has(g.h.store.target(e)) {
				sg.AddExistingEdge(e)
			}
		}
	}
	return sg
}

// InducedSubGraphSelection is [Graph.InducedSubGraph] on the nodes selected
// in sel and the ends of the selected edges.
func (g *Graph) InducedSubGraphSelection(sel *BooleanProperty, parent *Graph, name string) *Graph {
	scope := parent
	if scope == nil {
		scope = g
	}
	var nodes []Node
	for _, n := range scope.nodes.list {
		if sel.NodeValue(n) {
			nodes = append(nodes, n)
		}
	}
	for _, e := range scope.edges.list {
		if sel.EdgeValue(e) {
			src, tgt := g.Ends(e)
			nodes = append(nodes, src, tgt)
		}
	}
	return g.InducedSubGraph(nodes, parent, name)
}

// DelSubGraph removes the child sg of g. The children of sg become
// children of g.
func (g *Graph) DelSubGraph(sg *Graph) {
	if sg == nil || sg.parent != g || !slices.Contains(g.subs, sg) {
		g.warn("cannot delete a graph that is not a child of the graph")
		return
	}
	g.unlinkSubGraph(sg)
}

// DelAllSubGraphs removes the child sg of g with its whole subtree.
func (g *Graph) DelAllSubGraphs(sg *Graph) {
	if sg == nil || sg.parent != g || !slices.Contains(g.subs, sg) {
		g.warn("cannot delete a graph that is not a child of the graph")
		return
	}
	hold := g.HoldObservers()
	defer hold.Release()
	for len(sg.subs) > 0 {
		sg.DelAllSubGraphs(sg.subs[len(sg.subs)-1])
	}
	g.unlinkSubGraph(sg)
}

// SubGraphs returns the children of g. The slice must not be modified.
func (g *Graph) SubGraphs() []*Graph { return g.subs }

// NumberOfSubGraphs returns the number of children of g.
func (g *Graph) NumberOfSubGraphs() int { return len(g.subs) }

// NumberOfDescendantGraphs returns the size of the subtree below g.
func (g *Graph) NumberOfDescendantGraphs() int {
	n := 0
	for _, sg := range g.subs {
		n += 1 + sg.NumberOfDescendantGraphs()
	}
	return n
}

// SubGraph returns the child of g with the given id, or nil.
func (g *Graph) SubGraph(id uint) *Graph {
	for _, sg := range g.subs {
		if sg.id == id {
			return sg
		}
	}
	return nil
}

// SubGraphByName returns the first child of g with the given name, or nil.
func (g *Graph) SubGraphByName(name string) *Graph {
	for _, sg := range g.subs {
		if sg.Name() == name {
			return sg
		}
	}
	return nil
}

// DescendantGraph returns the graph with the given id in the subtree below
// g, or nil.
func (g *Graph) DescendantGraph(id uint) *Graph {
	var found *Graph
	for _, sg := range g.subs {
		sg.walk(func(d *Graph) bool {
			if found == nil && d.id == id {
				found = d
			}
			return found == nil
		})
		if found != nil {
			break
		}
	}
	return found
}

// DescendantGraphByName returns the first graph named name in a pre-order
// walk below g, or nil.
func (g *Graph) DescendantGraphByName(name string) *Graph {
	var found *Graph
	for _, d := range g.Descendants() {
		if d.Name() == name {
			found = d
			break
		}
	}
	return found
}

// Descendants returns the subtree below g in pre-order.
func (g *Graph) Descendants() []*Graph {
	var out []*Graph
	for _, sg := range g.subs {
		sg.walk(func(d *Graph) bool {
			out = append(out, d)
			return true
		})
	}
	return out
}

// IsSubGraph reports whether sg is a child of g.
func (g *Graph) IsSubGraph(sg *Graph) bool { return slices.Contains(g.subs, sg) }

// IsDescendantGraph reports whether sg is in the subtree below g.
func (g *Graph) IsDescendantGraph(sg *Graph) bool {
	if sg == nil || sg.h != g.h {
		return false
	}
	for c := sg; !c.IsRoot(); c = c.parent {
		if !c.parent.IsSubGraph(c) {
			return false
		}
		if c.parent == g {
			return true
		}
	}
	return false
}

// IsAncestorOf reports whether g is sg or one of its ancestors.
func (g *Graph) IsAncestorOf(sg *Graph) bool {
	return g == sg || g.IsDescendantGraph(sg)
}
