package graph

import (
	"fmt"
	"slices"

	"github.com/matzehuels/hiergraph/pkg/value"
)

// MetaGraphName is the root-local graph property mapping meta nodes to the
// graphs they collapse and meta edges to the edges they stand for.
const MetaGraphName = "viewMetaGraph"

// metaProperty returns the meta graph property, or nil before the first
// meta node exists.
func (g *Graph) metaProperty() *GraphProperty {
	p, ok := g.h.root.props.Get(MetaGraphName)
	if !ok {
		return nil
	}
	gp, _ := p.(*GraphProperty)
	return gp
}

// MetaGraphProperty returns the meta graph property, creating it on the
// root when missing.
func (g *Graph) MetaGraphProperty() (*GraphProperty, error) {
	return LocalProperty(g.h.root, MetaGraphName, GraphType)
}

// IsMetaNode reports whether n stands for a collapsed graph.
func (g *Graph) IsMetaNode(n Node) bool {
	p := g.metaProperty()
	return p != nil && p.NodeValue(n) != nil
}

// IsMetaEdge reports whether e stands for a set of underlying edges.
func (g *Graph) IsMetaEdge(e Edge) bool {
	p := g.metaProperty()
	return p != nil && len(p.EdgeValue(e)) > 0
}

// NodeMetaInfo returns the graph collapsed into n, or nil.
func (g *Graph) NodeMetaInfo(n Node) *Graph {
	if p := g.metaProperty(); p != nil {
		return p.NodeValue(n)
	}
	return nil
}

// EdgeMetaInfo returns the edges e stands for, in id order.
func (g *Graph) EdgeMetaInfo(e Edge) []Edge {
	if p := g.metaProperty(); p != nil {
		return slices.Clone(p.EdgeValue(e))
	}
	return nil
}

// CreateMetaNode groups nodes into a new sibling graph named grp_NNNNN and
// collapses it into a meta node of g. The local properties of g are copied
// to the group for those nodes. See [Graph.CreateMetaNodeFromSubGraph] for
// multiEdges and delAllEdge.
func (g *Graph) CreateMetaNode(nodes []Node, multiEdges, delAllEdge bool) (Node, error) {
	if g.IsRoot() {
		return NoNode, ErrRootGraph
	}
	if len(nodes) == 0 {
		g.warn("creating an empty meta graph")
	}
	hold := g.HoldObservers()
	defer hold.Release()
	sg := g.InducedSubGraph(nodes, g.parent, "")
	g.props.Scan(func(name string, p PropertyInterface) bool {
		q, err := p.clonePrototype(sg, name)
		if err != nil {
			return true
		}
		for _, n := range nodes {
			q.CopyNodeValue(n, n, p)
		}
		return true
	})
	sg.SetName(fmt.Sprintf("grp_%05d", sg.id))
	return g.CreateMetaNodeFromSubGraph(sg, multiEdges, delAllEdge)
}

type metaKey struct {
	node Node
	out  bool
}

// CreateMetaNodeFromSubGraph replaces the nodes of sg in g with one meta
// node. Every edge of the parent of g between a node of g and a node of sg
// becomes a meta edge of g to or from the meta node. With multiEdges each
// underlying edge gets its own meta edge; without it edges in the same
// direction between the same node and the group share one. Meta edges for
// underlying edges absent from g exist only in the ancestors. With
// delAllEdge, underlying edges that a meta edge between two meta nodes
// replaces are removed from the whole hierarchy.
//
// sg must not be g or one of its descendants.
func (g *Graph) CreateMetaNodeFromSubGraph(sg *Graph, multiEdges, delAllEdge bool) (Node, error) {
	if g.IsRoot() {
		return NoNode, ErrRootGraph
	}
	if sg == nil || sg.h != g.h || g.IsAncestorOf(sg) {
		return NoNode, ErrInvalidMetaGraph
	}
	meta, err := g.MetaGraphProperty()
	if err != nil {
		return NoNode, err
	}
	hold := g.HoldObservers()
	defer hold.Release()

	mn := g.AddNode()
	meta.SetNodeValue(mn, sg)
	g.computeMetaValues(mn, sg)

	inG := make(map[Edge]bool, g.edges.len())
	for _, e := range g.edges.list {
		inG[e] = true
	}
	members := slices.Clone(sg.nodes.list)
	var inside []Node
	for _, n := range members {
		if g.nodes.has(n) {
			inside = append(inside, n)
		}
	}
	g.DelNodes(inside, false)

	super := g.parent
	shared := make(map[metaKey]Edge)
	sub := make(map[Edge][]Edge)
	var created []Edge
	link := func(e Edge, other Node, out bool) {
		k := metaKey{other, out}
		if me, ok := shared[k]; ok && !multiEdges {
			sub[me] = append(sub[me], e)
			return
		}
		var me Edge
		if out {
			me = g.AddEdge(mn, other)
		} else {
			me = g.AddEdge(other, mn)
		}
		if !inG[e] {
			g.DelEdge(me, false)
		}
		sub[me] = append(sub[me], e)
		created = append(created, me)
		if !multiEdges {
			shared[k] = me
		}
	}
	for _, n := range members {
		for _, e := range super.InOutEdges(n) {
			src, tgt := g.Ends(e)
			deleted := false
			if g.nodes.has(src) && sg.nodes.has(tgt) {
				link(e, src, false)
				if g.replacesEdge(src, tgt) {
					g.DelEdge(e, delAllEdge)
					deleted = true
				}
			}
			if g.nodes.has(tgt) && sg.nodes.has(src) {
				link(e, tgt, true)
				if !deleted && g.replacesEdge(src, tgt) {
					g.DelEdge(e, delAllEdge)
				}
			}
		}
	}
	for _, me := range created {
		edges := sub[me]
		slices.Sort(edges)
		meta.SetEdgeValue(me, slices.Compact(edges))
	}
	return mn, nil
}

// replacesEdge reports whether an underlying edge between src and tgt is
// made redundant by the meta edge just created: one end is itself a meta
// node and g still links the two.
func (g *Graph) replacesEdge(src, tgt Node) bool {
	return (g.IsMetaNode(src) || g.IsMetaNode(tgt)) && g.ExistEdge(src, tgt, true).IsValid()
}

// computeMetaValues places mn at the centre of the bounding box of sg and
// gives it the size of that box, for the view properties g sees.
func (g *Graph) computeMetaValues(mn Node, sg *Graph) {
	layout, ok := g.Property(ViewLayout).(*LayoutProperty)
	if !ok || sg.IsEmpty() {
		return
	}
	size, _ := g.Property(ViewSize).(*SizeProperty)
	box := BoundingBox(sg, layout, size)
	layout.SetNodeValue(mn, box.Center())
	if size != nil {
		size.SetNodeValue(mn, box.Size())
	}
}

// mapNodes maps every node of sg, and of the graphs collapsed inside it,
// to to.
func mapNodes(sg *Graph, to Node, mapping map[Node]Node, meta *GraphProperty) {
	for _, n := range sg.nodes.list {
		mapping[n] = to
		if inner := meta.NodeValue(n); inner != nil {
			mapNodes(inner, to, mapping, meta)
		}
	}
}

// buildMapping maps each node of nodes to itself, or to from when from is
// valid, and the content of collapsed graphs to the same target.
func buildMapping(nodes []Node, mapping map[Node]Node, meta *GraphProperty, from Node) {
	for _, n := range nodes {
		to := n
		if from.IsValid() {
			to = from
		}
		mapping[n] = to
		if inner := meta.NodeValue(n); inner != nil {
			buildMapping(inner.nodes.list, mapping, meta, to)
		}
	}
}

// OpenMetaNode expands the meta node mn of g back into the nodes and edges
// of the graph it collapses, then removes mn from the hierarchy. Meta edges
// of mn are turned back into their underlying edges, or into new meta
// edges toward neighbouring meta nodes. With updateProperties the layout
// of the expanded graph is fitted into the position, size and rotation of
// mn, and its local properties are copied into the properties of g.
func (g *Graph) OpenMetaNode(mn Node, updateProperties bool) error {
	if g.IsRoot() {
		return ErrRootGraph
	}
	meta := g.metaProperty()
	if meta == nil || meta.NodeValue(mn) == nil {
		return fmt.Errorf("%v: %w", mn, ErrNotMetaNode)
	}
	mg := meta.NodeValue(mn)
	root := g.h.root
	hold := g.HoldObservers()
	defer hold.Release()

	mapping := make(map[Node]Node)
	for _, n := range slices.Clone(mg.nodes.list) {
		g.AddExistingNode(n)
		mapping[n] = n
		if inner := meta.NodeValue(n); inner != nil {
			mapNodes(inner, n, mapping, meta)
		}
	}
	g.AddExistingEdges(slices.Clone(mg.edges.list))

	if updateProperties {
		g.updatePropertiesUngroup(mn, mg)
	}

	super := g.parent
	around := super.InOutEdges(mn)
	if len(around) == 0 {
		root.DelNode(mn, true)
		return nil
	}
	colors, err := g.ColorProperty(ViewColor)
	if err != nil {
		return err
	}

	if super.IsMetaEdge(around[0]) {
		for _, nb := range super.InOutNodes(mn) {
			mapping[nb] = nb
			if inner := meta.NodeValue(nb); inner != nil {
				for _, x := range inner.nodes.list {
					mapping[x] = nb
				}
			}
		}
		for _, me := range around {
			g.expandMetaEdge(me, mn, mapping, colors.EdgeValue(me), meta, colors)
		}
		root.DelNode(mn, true)
		return nil
	}

	neighbours := make(map[Node]Node)
	inside := make(map[Node]Node)
	buildMapping(root.InOutNodes(mn), neighbours, meta, NoNode)
	buildMapping(mg.nodes.list, inside, meta, NoNode)
	edgeColor := make(map[Node]value.Color)
	for _, me := range around {
		edgeColor[super.Opposite(me, mn)] = colors.EdgeValue(me)
	}
	root.DelNode(mn, true)

	seen := make(map[[2]Node]bool)
	for _, e := range slices.Clone(root.edges.list) {
		if g.edges.has(e) {
			continue
		}
		src, tgt := root.Ends(e)
		sc, okSC := neighbours[src]
		tn, okTN := inside[tgt]
		sn, okSN := inside[src]
		tc, okTC := neighbours[tgt]
		var c value.Color
		switch {
		case okSC && okTN:
			src, tgt, c = sc, tn, edgeColor[sc]
		case okSN && okTC:
			src, tgt, c = sn, tc, edgeColor[tc]
		default:
			continue
		}
		if !g.IsMetaNode(src) && !g.IsMetaNode(tgt) {
			g.AddExistingEdge(e)
			continue
		}
		k := [2]Node{src, tgt}
		if seen[k] {
			continue
		}
		seen[k] = true
		if g.ExistEdge(src, tgt, true).IsValid() {
			g.h.log.Error("meta edge already exists", "graph", g.id, "source", src, "target", tgt)
			continue
		}
		if added := g.AddEdge(src, tgt); added.IsValid() {
			colors.SetEdgeValue(added, c)
		}
	}
	return nil
}

// expandMetaEdge restores the underlying edges of the meta edge me of the
// opened node mn, grouping those that still cross into another meta node
// into new meta edges.
func (g *Graph) expandMetaEdge(me Edge, mn Node, mapping map[Node]Node, c value.Color, meta *GraphProperty, colors *ColorProperty) {
	type pair struct{ src, tgt Node }
	var order []pair
	grouped := make(map[pair][]Edge)
	add := func(p pair, e Edge) {
		if _, ok := grouped[p]; !ok {
			order = append(order, p)
		}
		grouped[p] = append(grouped[p], e)
	}
	super := g.parent
	for _, e := range meta.EdgeValue(me) {
		src, tgt := super.Ends(e)
		switch {
		case g.nodes.has(src):
			if g.nodes.has(tgt) && g.edges.has(me) {
				g.AddExistingEdge(e)
				colors.SetEdgeValue(e, c)
			} else if src != mn {
				if tgt2, ok := mapping[tgt]; ok {
					add(pair{src, tgt2}, e)
				}
			}
		case tgt != mn:
			if src2, ok := mapping[src]; ok {
				add(pair{src2, tgt}, e)
			}
		}
	}
	for _, p := range order {
		owner := g
		if !g.nodes.has(p.src) || !g.nodes.has(p.tgt) {
			owner = super
		}
		ne := owner.AddEdge(p.src, p.tgt)
		if !ne.IsValid() {
			continue
		}
		edges := grouped[p]
		slices.Sort(edges)
		meta.SetEdgeValue(ne, edges)
	}
}

// updatePropertiesUngroup fits the layout of mg into the box of mn and
// copies the local properties of mg into g.
func (g *Graph) updatePropertiesUngroup(mn Node, mg *Graph) {
	layout, err1 := g.LayoutProperty(ViewLayout)
	size, err2 := g.SizeProperty(ViewSize)
	rot, err3 := g.DoubleProperty(ViewRotation)
	cLayout, err4 := mg.LayoutProperty(ViewLayout)
	cSize, err5 := mg.SizeProperty(ViewSize)
	cRot, err6 := mg.DoubleProperty(ViewRotation)
	for _, err := range []error{err1, err2, err3, err4, err5, err6} {
		if err != nil {
			g.warn("cannot update meta node properties", "err", err)
			return
		}
	}
	sz := size.NodeValue(mn)
	pos := layout.NodeValue(mn)
	angle := rot.NodeValue(mn)

	box := BoundingBox(mg, cLayout, cSize)
	bs := box.Size()
	w, h, d := atLeastOne(bs.W), atLeastOne(bs.H), atLeastOne(bs.D)
	divW, divH := sz.W/w, sz.H/h
	scale := divH
	if divH*w > sz.W {
		scale = divW
	}
	factor := value.Size{W: scale, H: scale, D: sz.D / d}
	center := box.Center()

	Translate(cLayout, value.Coord{X: -center.X, Y: -center.Y, Z: -center.Z}, mg)
	RotateZ(cLayout, angle, mg)
	ScaleLayout(cLayout, factor, mg)
	Translate(cLayout, pos, mg)
	ScaleSizes(cSize, factor, mg)

	for _, n := range mg.nodes.list {
		layout.SetNodeValue(n, cLayout.NodeValue(n))
		size.SetNodeValue(n, cSize.NodeValue(n))
		rot.SetNodeValue(n, cRot.NodeValue(n)+angle)
	}
	for _, e := range mg.edges.list {
		layout.SetEdgeValue(e, cLayout.EdgeValue(e))
		size.SetEdgeValue(e, cSize.EdgeValue(e))
	}

	mg.props.Scan(func(name string, p PropertyInterface) bool {
		if p == PropertyInterface(cLayout) || p == PropertyInterface(cSize) || p == PropertyInterface(cRot) {
			return true
		}
		target := g.Property(name)
		if target == nil || target.Kind() != p.Kind() {
			q, err := p.clonePrototype(g, name)
			if err != nil {
				g.warn("cannot copy meta graph property", "property", name, "err", err)
				return true
			}
			target = q
		}
		for _, n := range mg.nodes.list {
			target.CopyNodeValue(n, n, p)
		}
		for _, e := range mg.edges.list {
			target.CopyEdgeValue(e, e, p)
		}
		return true
	})
}

func atLeastOne(v float64) float64 {
	if v < 0.0001 {
		return 1
	}
	return v
}
