package analysis

import (
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"

	"github.com/matzehuels/hiergraph/pkg/graph"
)

var (
	_ gonum.Directed   = (*Directed)(nil)
	_ gonum.Undirected = (*Undirected)(nil)
	_ gonum.Node       = node(0)
	_ gonum.Edge       = edge{}
)

type node int64

func (n node) ID() int64 { return int64(n) }

type edge struct {
	from, to node
}

func (e edge) From() gonum.Node         { return e.from }
func (e edge) To() gonum.Node           { return e.to }
func (e edge) ReversedEdge() gonum.Edge { return edge{from: e.to, to: e.from} }

// Directed is a gonum view of a graph following edge directions.
type Directed struct {
	g *graph.Graph
}

// NewDirected returns a directed view of g.
func NewDirected(g *graph.Graph) *Directed {
	return &Directed{g: g}
}

func (d *Directed) element(id int64) (graph.Node, bool) {
	if id < 0 || id > int64(^uint32(0)) {
		return graph.NoNode, false
	}
	n := graph.Node(uint32(id))
	return n, d.g.HasNode(n)
}

// Node returns the node with id, or nil when g does not hold it.
func (d *Directed) Node(id int64) gonum.Node {
	if _, ok := d.element(id); !ok {
		return nil
	}
	return node(id)
}

// Nodes returns the nodes of g in graph order.
func (d *Directed) Nodes() gonum.Nodes {
	return nodesOf(d.g.Nodes())
}

// From returns the targets of the out edges of id.
func (d *Directed) From(id int64) gonum.Nodes {
	n, ok := d.element(id)
	if !ok {
		return gonum.Empty
	}
	return nodesOf(d.g.OutNodes(n))
}

// To returns the sources of the in edges of id.
func (d *Directed) To(id int64) gonum.Nodes {
	n, ok := d.element(id)
	if !ok {
		return gonum.Empty
	}
	return nodesOf(d.g.InNodes(n))
}

// HasEdgeBetween reports whether an edge joins xid and yid in either
// direction.
func (d *Directed) HasEdgeBetween(xid, yid int64) bool {
	x, okX := d.element(xid)
	y, okY := d.element(yid)
	return okX && okY && d.g.ExistEdge(x, y, false).IsValid()
}

// HasEdgeFromTo reports whether an edge goes from uid to vid.
func (d *Directed) HasEdgeFromTo(uid, vid int64) bool {
	u, okU := d.element(uid)
	v, okV := d.element(vid)
	return okU && okV && d.g.ExistEdge(u, v, true).IsValid()
}

// Edge returns the edge from uid to vid, or nil.
func (d *Directed) Edge(uid, vid int64) gonum.Edge {
	if !d.HasEdgeFromTo(uid, vid) {
		return nil
	}
	return edge{from: node(uid), to: node(vid)}
}

// Undirected is a gonum view of a graph ignoring edge directions.
type Undirected struct {
	d Directed
}

// NewUndirected returns an undirected view of g.
func NewUndirected(g *graph.Graph) *Undirected {
	return &Undirected{d: Directed{g: g}}
}

func (u *Undirected) Node(id int64) gonum.Node { return u.d.Node(id) }

func (u *Undirected) Nodes() gonum.Nodes { return u.d.Nodes() }

// From returns every neighbour of id.
func (u *Undirected) From(id int64) gonum.Nodes {
	n, ok := u.d.element(id)
	if !ok {
		return gonum.Empty
	}
	return nodesOf(u.d.g.InOutNodes(n))
}

func (u *Undirected) HasEdgeBetween(xid, yid int64) bool { return u.d.HasEdgeBetween(xid, yid) }

// Edge returns the edge between uid and vid, or nil.
func (u *Undirected) Edge(uid, vid int64) gonum.Edge {
	if !u.d.HasEdgeBetween(uid, vid) {
		return nil
	}
	return edge{from: node(uid), to: node(vid)}
}

// EdgeBetween is [Undirected.Edge].
func (u *Undirected) EdgeBetween(xid, yid int64) gonum.Edge { return u.Edge(xid, yid) }

// nodesOf wraps ns in an ordered gonum iterator, dropping repeats so that
// parallel edges and loops yield each neighbour once.
func nodesOf(ns []graph.Node) gonum.Nodes {
	if len(ns) == 0 {
		return gonum.Empty
	}
	seen := make(map[graph.Node]bool, len(ns))
	out := make([]gonum.Node, 0, len(ns))
	for _, n := range ns {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, node(n))
	}
	return iterator.NewOrderedNodes(out)
}
