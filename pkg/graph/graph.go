package graph

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/tidwall/btree"

	"github.com/matzehuels/hiergraph/pkg/dataset"
	"github.com/matzehuels/hiergraph/pkg/observer"
)

// DefaultUndoDepth is the number of undo frames kept when no
// [WithUndoDepth] option is given.
const DefaultUndoDepth = 10

// nameAttribute holds the name of a graph.
const nameAttribute = "name"

// Graph is one graph of a hierarchy: the root, which owns every node and
// edge, or a subgraph holding a subset of its parent's elements.
//
// Graphs are not safe for concurrent mutation. Readers may run concurrently
// as long as nothing mutates the hierarchy.
type Graph struct {
	id     uint
	h      *hierarchy
	parent *Graph
	subs   []*Graph
	nodes  elementSet[Node]
	edges  elementSet[Edge]
	props  btree.Map[string, PropertyInterface]
	attrs  *dataset.DataSet
	events *observer.Subject[Event]
}

// hierarchy is the state shared by every graph below one root.
type hierarchy struct {
	root   *Graph
	store  *store
	nextID uint
	ctx    *observer.Context
	log    *log.Logger
	undo   *recorder
}

// Option configures a new hierarchy.
type Option func(*options)

type options struct {
	logger    *log.Logger
	undoDepth int
	name      string
}

// WithLogger sets the logger used for misuse warnings and undo tracing.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithUndoDepth bounds the number of undo frames kept. Values below one
// keep the default.
func WithUndoDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.undoDepth = n
		}
	}
}

// WithName sets the name of the root graph.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// New creates an empty hierarchy and returns its root.
func New(opts ...Option) *Graph {
	o := options{undoDepth: DefaultUndoDepth}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Default()
	}
	h := &hierarchy{
		store: newStore(),
		ctx:   observer.NewContext(),
		log:   o.logger,
	}
	h.undo = newRecorder(h, o.undoDepth)
	root := h.newGraph(nil, o.name)
	root.parent = root
	h.root = root
	return root
}

func (h *hierarchy) newGraph(parent *Graph, name string) *Graph {
	g := &Graph{
		id:     h.nextID,
		h:      h,
		parent: parent,
		attrs:  dataset.New(),
		events: observer.NewSubject[Event](h.ctx),
	}
	h.nextID++
	if name != "" {
		g.attrs.Set(nameAttribute, name)
	}
	g.events.AddListener(h.undo.graphs)
	return g
}

// ID returns the id of g, unique in its hierarchy. The root has id 0.
func (g *Graph) ID() uint { return g.id }

// Root returns the root of the hierarchy.
func (g *Graph) Root() *Graph { return g.h.root }

// Parent returns the parent of g. The root is its own parent.
func (g *Graph) Parent() *Graph { return g.parent }

// IsRoot reports whether g is the root of its hierarchy.
func (g *Graph) IsRoot() bool { return g == g.h.root }

// Name returns the "name" attribute of g.
func (g *Graph) Name() string {
	return dataset.ValueOr(g.attrs, nameAttribute, "")
}

// SetName sets the "name" attribute of g.
func (g *Graph) SetName(name string) { g.SetAttribute(nameAttribute, name) }

// Logger returns the logger of the hierarchy.
func (g *Graph) Logger() *log.Logger { return g.h.log }

func (g *Graph) String() string {
	if name := g.Name(); name != "" {
		return name
	}
	return "graph"
}

// =============================================================================
// Elements
// =============================================================================

// Nodes returns the nodes of g in a stable order that deletion may permute.
// The slice is owned by g and must not be modified; it is invalidated by the
// next mutation.
func (g *Graph) Nodes() []Node { return g.nodes.list }

// Edges returns the edges of g in a stable order that deletion may permute,
// with the same ownership rules as [Graph.Nodes].
func (g *Graph) Edges() []Edge { return g.edges.list }

// NodePos returns the index of n in [Graph.Nodes], or -1.
func (g *Graph) NodePos(n Node) int { return g.nodes.index(n) }

// EdgePos returns the index of e in [Graph.Edges], or -1.
func (g *Graph) EdgePos(e Edge) int { return g.edges.index(e) }

// NumberOfNodes returns the number of nodes of g.
func (g *Graph) NumberOfNodes() int { return g.nodes.len() }

// NumberOfEdges returns the number of edges of g.
func (g *Graph) NumberOfEdges() int { return g.edges.len() }

// IsEmpty reports whether g has no nodes.
func (g *Graph) IsEmpty() bool { return g.nodes.len() == 0 }

// HasNode reports whether n belongs to g.
func (g *Graph) HasNode(n Node) bool { return g.nodes.has(n) }

// HasEdge reports whether e belongs to g.
func (g *Graph) HasEdge(e Edge) bool { return g.edges.has(e) }

// Source returns the source of e. Edge ends are global to the hierarchy.
func (g *Graph) Source(e Edge) Node {
	if !g.h.root.edges.has(e) {
		return NoNode
	}
	return g.h.store.source(e)
}

// Target returns the target of e.
func (g *Graph) Target(e Edge) Node {
	if !g.h.root.edges.has(e) {
		return NoNode
	}
	return g.h.store.target(e)
}

// Ends returns the source and target of e.
func (g *Graph) Ends(e Edge) (Node, Node) {
	if !g.h.root.edges.has(e) {
		return NoNode, NoNode
	}
	ends := g.h.store.ends[e]
	return ends[0], ends[1]
}

// Opposite returns the end of e that is not n. For a loop it returns n.
func (g *Graph) Opposite(e Edge, n Node) Node {
	src, tgt := g.Ends(e)
	if src == n {
		return tgt
	}
	return src
}

// OneNode returns the first node of g, or [NoNode] when g is empty.
func (g *Graph) OneNode() Node {
	if g.nodes.len() == 0 {
		return NoNode
	}
	return g.nodes.list[0]
}

// RandomNode returns a node of g chosen uniformly, or [NoNode].
func (g *Graph) RandomNode() Node {
	if g.nodes.len() == 0 {
		return NoNode
	}
	return g.nodes.list[rand.IntN(g.nodes.len())]
}

// OneEdge returns the first edge of g, or [NoEdge].
func (g *Graph) OneEdge() Edge {
	if g.edges.len() == 0 {
		return NoEdge
	}
	return g.edges.list[0]
}

// RandomEdge returns an edge of g chosen uniformly, or [NoEdge].
func (g *Graph) RandomEdge() Edge {
	if g.edges.len() == 0 {
		return NoEdge
	}
	return g.edges.list[rand.IntN(g.edges.len())]
}

// SourceNode returns the first node of g without incoming edges in g, or
// [NoNode] when every node has one.
func (g *Graph) SourceNode() Node {
	for _, n := range g.nodes.list {
		if g.InDeg(n) == 0 {
			return n
		}
	}
	return NoNode
}

// incidence returns the edges of g around n, in the order of the global
// incidence list.
func (g *Graph) incidence(n Node) []Edge {
	all := g.h.store.incidence(n)
	if g.IsRoot() {
		return append([]Edge(nil), all...)
	}
	out := make([]Edge, 0, len(all))
	for _, e := range all {
		if g.edges.has(e) {
			out = append(out, e)
		}
	}
	return out
}

// Deg returns the number of edge ends of g at n. A loop counts twice.
func (g *Graph) Deg(n Node) int { return g.InDeg(n) + g.OutDeg(n) }

// InDeg returns the number of edges of g targeting n.
func (g *Graph) InDeg(n Node) int {
	if !g.nodes.has(n) {
		return 0
	}
	d := 0
	for _, e := range g.h.store.incidence(n) {
		if g.edges.has(e) && g.h.store.target(e) == n {
			d++
		}
	}
	return d
}

// OutDeg returns the number of edges of g leaving n.
func (g *Graph) OutDeg(n Node) int {
	if !g.nodes.has(n) {
		return 0
	}
	d := 0
	for _, e := range g.h.store.incidence(n) {
		if g.edges.has(e) && g.h.store.source(e) == n {
			d++
		}
	}
	return d
}

// ExistEdge returns an edge of g from src to tgt, or [NoEdge]. When
// directed is false an edge from tgt to src also matches.
func (g *Graph) ExistEdge(src, tgt Node, directed bool) Edge {
	if !g.nodes.has(src) || !g.nodes.has(tgt) {
		return NoEdge
	}
	for _, e := range g.h.store.incidence(src) {
		if g.edges.has(e) && g.matches(e, src, tgt, directed) {
			return e
		}
	}
	return NoEdge
}

// GetEdges returns every edge of g from src to tgt, in incidence order.
func (g *Graph) GetEdges(src, tgt Node, directed bool) []Edge {
	if !g.nodes.has(src) || !g.nodes.has(tgt) {
		return nil
	}
	var out []Edge
	for _, e := range g.h.store.incidence(src) {
		if g.edges.has(e) && g.matches(e, src, tgt, directed) {
			out = append(out, e)
		}
	}
	return out
}

func (g *Graph) matches(e Edge, src, tgt Node, directed bool) bool {
	s, t := g.h.store.source(e), g.h.store.target(e)
	if s == src && t == tgt {
		return true
	}
	return !directed && s == tgt && t == src
}

// =============================================================================
// Notification
// =============================================================================

// AddListener subscribes l to the events of g. Listeners are called
// synchronously, even while observers are held.
func (g *Graph) AddListener(l observer.Listener[Event]) { g.events.AddListener(l) }

// RemoveListener unsubscribes l.
func (g *Graph) RemoveListener(l observer.Listener[Event]) { g.events.RemoveListener(l) }

// AddObserver subscribes o to batched events of g.
func (g *Graph) AddObserver(o observer.Observer[Event]) { g.events.AddObserver(o) }

// RemoveObserver unsubscribes o. Events still queued for o are dropped.
func (g *Graph) RemoveObserver(o observer.Observer[Event]) { g.events.RemoveObserver(o) }

// HoldObservers queues observer delivery across the whole hierarchy until
// the returned guard is released.
func (g *Graph) HoldObservers() *observer.Hold { return g.h.ctx.Hold() }

func (g *Graph) notify(e Event) { g.events.Notify(e) }

func (g *Graph) warn(msg string, keyvals ...any) {
	g.h.log.Warn(msg, append([]any{"graph", g.id}, keyvals...)...)
}
