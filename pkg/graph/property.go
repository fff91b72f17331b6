package graph

import (
	"fmt"
	"iter"

	"github.com/tidwall/btree"

	"github.com/matzehuels/hiergraph/pkg/observer"
)

// PropertyInterface is the kind-independent view of a property. Every
// implementation is a [*Property] instantiation.
type PropertyInterface interface {
	// Name returns the name the property is registered under.
	Name() string
	// Kind returns the value kind.
	Kind() PropertyKind
	// Graph returns the graph that owns the property, or nil when unbound.
	Graph() *Graph

	NodeStringValue(n Node) string
	EdgeStringValue(e Edge) string
	SetNodeStringValue(n Node, s string) error
	SetEdgeStringValue(e Edge, s string) error
	NodeDefaultStringValue() string
	EdgeDefaultStringValue() string
	SetAllNodeStringValue(s string) error
	SetAllEdgeStringValue(s string) error

	// HasNonDefaultNodeValue reports whether n has a stored value.
	HasNonDefaultNodeValue(n Node) bool
	HasNonDefaultEdgeValue(e Edge) bool
	// NonDefaultNodes returns the nodes with a stored value in id order,
	// restricted to the nodes of g unless g is nil.
	NonDefaultNodes(g *Graph) []Node
	NonDefaultEdges(g *Graph) []Edge
	NumberOfNonDefaultValuatedNodes(g *Graph) int
	NumberOfNonDefaultValuatedEdges(g *Graph) int

	// Erase resets n to the default value.
	Erase(n Node)
	EraseEdge(e Edge)
	// CopyNodeValue sets the value of dst to the value src has in from. It
	// returns false when from is of another kind.
	CopyNodeValue(dst, src Node, from PropertyInterface) bool
	CopyEdgeValue(dst, src Edge, from PropertyInterface) bool

	AddListener(l observer.Listener[PropertyEvent])
	RemoveListener(l observer.Listener[PropertyEvent])
	AddObserver(o observer.Observer[PropertyEvent])
	RemoveObserver(o observer.Observer[PropertyEvent])

	base() *propertyBase
	clonePrototype(g *Graph, name string) (PropertyInterface, error)
	seedFrom(other PropertyInterface)
}

type propertyBase struct {
	name    string
	graph   *Graph
	subject *observer.Subject[PropertyEvent]
	pending []pendingSubscriber
}

type pendingSubscriber struct {
	l observer.Listener[PropertyEvent]
	o observer.Observer[PropertyEvent]
}

func (b *propertyBase) base() *propertyBase { return b }

// Name returns the name of the property.
func (b *propertyBase) Name() string { return b.name }

// Graph returns the owning graph.
func (b *propertyBase) Graph() *Graph { return b.graph }

func (b *propertyBase) bind(g *Graph, name string) {
	b.name = name
	b.graph = g
	if b.subject != nil {
		return
	}
	b.subject = observer.NewSubject[PropertyEvent](g.h.ctx)
	b.subject.AddListener(g.h.undo.props)
	for _, p := range b.pending {
		if p.l != nil {
			b.subject.AddListener(p.l)
		} else {
			b.subject.AddObserver(p.o)
		}
	}
	b.pending = nil
}

func (b *propertyBase) notify(e PropertyEvent) {
	if b.subject != nil {
		b.subject.Notify(e)
	}
}

// AddListener subscribes l to value changes.
func (b *propertyBase) AddListener(l observer.Listener[PropertyEvent]) {
	if b.subject == nil {
		b.pending = append(b.pending, pendingSubscriber{l: l})
		return
	}
	b.subject.AddListener(l)
}

// RemoveListener unsubscribes l.
func (b *propertyBase) RemoveListener(l observer.Listener[PropertyEvent]) {
	if b.subject != nil {
		b.subject.RemoveListener(l)
	}
}

// AddObserver subscribes o to batched value changes.
func (b *propertyBase) AddObserver(o observer.Observer[PropertyEvent]) {
	if b.subject == nil {
		b.pending = append(b.pending, pendingSubscriber{o: o})
		return
	}
	b.subject.AddObserver(o)
}

// RemoveObserver unsubscribes o.
func (b *propertyBase) RemoveObserver(o observer.Observer[PropertyEvent]) {
	if b.subject != nil {
		b.subject.RemoveObserver(o)
	}
}

// Property stores one value of type N per node and one value of type E per
// edge. Only values that differ from the defaults are stored.
//
// Values returned by the getters are shared with the property; slices must
// not be modified in place.
type Property[N, E any] struct {
	propertyBase
	typ         *Type[N, E]
	nodeDefault N
	edgeDefault E
	nodeValues  *btree.Map[Node, N]
	edgeValues  *btree.Map[Edge, E]
}

// NewProperty returns an unbound property of the given kind, to be passed
// to [Graph.AddLocalProperty].
func NewProperty[N, E any](t *Type[N, E]) *Property[N, E] {
	return &Property[N, E]{
		typ:         t,
		nodeDefault: t.node.clone(t.node.zero),
		edgeDefault: t.edge.clone(t.edge.zero),
		nodeValues:  new(btree.Map[Node, N]),
		edgeValues:  new(btree.Map[Edge, E]),
	}
}

// Type returns the kind descriptor of p.
func (p *Property[N, E]) Type() *Type[N, E] { return p.typ }

// Kind returns the value kind of p.
func (p *Property[N, E]) Kind() PropertyKind { return p.typ.kind }

func (p *Property[N, E]) String() string {
	return fmt.Sprintf("%s property %q", p.typ.kind, p.name)
}

// NodeValue returns the value of n.
func (p *Property[N, E]) NodeValue(n Node) N {
	if v, ok := p.nodeValues.Get(n); ok {
		return v
	}
	return p.nodeDefault
}

// EdgeValue returns the value of e.
func (p *Property[N, E]) EdgeValue(e Edge) E {
	if v, ok := p.edgeValues.Get(e); ok {
		return v
	}
	return p.edgeDefault
}

// NodeDefaultValue returns the value of nodes without a stored value.
func (p *Property[N, E]) NodeDefaultValue() N { return p.nodeDefault }

// EdgeDefaultValue returns the value of edges without a stored value.
func (p *Property[N, E]) EdgeDefaultValue() E { return p.edgeDefault }

// SetNodeValue sets the value of n. Setting the default value drops the
// stored entry.
func (p *Property[N, E]) SetNodeValue(n Node, v N) {
	memo := p.nodeMemo(n)
	if p.typ.node.equal(v, p.nodeDefault) {
		p.nodeValues.Delete(n)
	} else {
		p.nodeValues.Set(n, p.typ.node.clone(v))
	}
	p.notify(NodeValueSet{Property: p, Node: n, memo: memo})
}

// SetEdgeValue sets the value of e.
func (p *Property[N, E]) SetEdgeValue(e Edge, v E) {
	memo := p.edgeMemo(e)
	if p.typ.edge.equal(v, p.edgeDefault) {
		p.edgeValues.Delete(e)
	} else {
		p.edgeValues.Set(e, p.typ.edge.clone(v))
	}
	p.notify(EdgeValueSet{Property: p, Edge: e, memo: memo})
}

// SetAllNodeValue makes v the node default and drops every stored node
// value.
func (p *Property[N, E]) SetAllNodeValue(v N) {
	memo := &allNodeMemo[N, E]{p: p, def: p.nodeDefault, values: p.nodeValues}
	p.nodeDefault = p.typ.node.clone(v)
	p.nodeValues = new(btree.Map[Node, N])
	p.notify(AllNodeValueSet{Property: p, memo: memo})
}

// SetAllEdgeValue makes v the edge default and drops every stored edge
// value.
func (p *Property[N, E]) SetAllEdgeValue(v E) {
	memo := &allEdgeMemo[N, E]{p: p, def: p.edgeDefault, values: p.edgeValues}
	p.edgeDefault = p.typ.edge.clone(v)
	p.edgeValues = new(btree.Map[Edge, E])
	p.notify(AllEdgeValueSet{Property: p, memo: memo})
}

// SetValueToGraphNodes sets v on every node of g. On the owning graph this
// is [Property.SetAllNodeValue].
func (p *Property[N, E]) SetValueToGraphNodes(v N, g *Graph) {
	if g == nil || g == p.graph {
		p.SetAllNodeValue(v)
		return
	}
	for _, n := range g.Nodes() {
		p.SetNodeValue(n, v)
	}
}

// SetValueToGraphEdges sets v on every edge of g.
func (p *Property[N, E]) SetValueToGraphEdges(v E, g *Graph) {
	if g == nil || g == p.graph {
		p.SetAllEdgeValue(v)
		return
	}
	for _, e := range g.Edges() {
		p.SetEdgeValue(e, v)
	}
}

// NodeValues iterates the stored node values in id order.
func (p *Property[N, E]) NodeValues() iter.Seq2[Node, N] {
	return func(yield func(Node, N) bool) {
		p.nodeValues.Scan(yield)
	}
}

// EdgeValues iterates the stored edge values in id order.
func (p *Property[N, E]) EdgeValues() iter.Seq2[Edge, E] {
	return func(yield func(Edge, E) bool) {
		p.edgeValues.Scan(yield)
	}
}

// CopyFrom makes p hold the same defaults and values as from.
func (p *Property[N, E]) CopyFrom(from *Property[N, E]) {
	if from == p {
		return
	}
	p.SetAllNodeValue(from.nodeDefault)
	p.SetAllEdgeValue(from.edgeDefault)
	for n, v := range from.NodeValues() {
		p.SetNodeValue(n, v)
	}
	for e, v := range from.EdgeValues() {
		p.SetEdgeValue(e, v)
	}
}

func (p *Property[N, E]) NodeStringValue(n Node) string { return p.typ.node.format(p.NodeValue(n)) }
func (p *Property[N, E]) EdgeStringValue(e Edge) string { return p.typ.edge.format(p.EdgeValue(e)) }
func (p *Property[N, E]) NodeDefaultStringValue() string {
	return p.typ.node.format(p.nodeDefault)
}
func (p *Property[N, E]) EdgeDefaultStringValue() string {
	return p.typ.edge.format(p.edgeDefault)
}

func (p *Property[N, E]) SetNodeStringValue(n Node, s string) error {
	v, err := p.typ.node.parse(p.graph, s)
	if err != nil {
		return fmt.Errorf("%s: node %d: %w", p.name, n, err)
	}
	p.SetNodeValue(n, v)
	return nil
}

func (p *Property[N, E]) SetEdgeStringValue(e Edge, s string) error {
	v, err := p.typ.edge.parse(p.graph, s)
	if err != nil {
		return fmt.Errorf("%s: edge %d: %w", p.name, e, err)
	}
	p.SetEdgeValue(e, v)
	return nil
}

func (p *Property[N, E]) SetAllNodeStringValue(s string) error {
	v, err := p.typ.node.parse(p.graph, s)
	if err != nil {
		return fmt.Errorf("%s: node default: %w", p.name, err)
	}
	p.SetAllNodeValue(v)
	return nil
}

func (p *Property[N, E]) SetAllEdgeStringValue(s string) error {
	v, err := p.typ.edge.parse(p.graph, s)
	if err != nil {
		return fmt.Errorf("%s: edge default: %w", p.name, err)
	}
	p.SetAllEdgeValue(v)
	return nil
}

func (p *Property[N, E]) HasNonDefaultNodeValue(n Node) bool {
	_, ok := p.nodeValues.Get(n)
	return ok
}

func (p *Property[N, E]) HasNonDefaultEdgeValue(e Edge) bool {
	_, ok := p.edgeValues.Get(e)
	return ok
}

func (p *Property[N, E]) NonDefaultNodes(g *Graph) []Node {
	var out []Node
	p.nodeValues.Scan(func(n Node, _ N) bool {
		if g == nil || g.HasNode(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

func (p *Property[N, E]) NonDefaultEdges(g *Graph) []Edge {
	var out []Edge
	p.edgeValues.Scan(func(e Edge, _ E) bool {
		if g == nil || g.HasEdge(e) {
			out = append(out, e)
		}
		return true
	})
	return out
}

func (p *Property[N, E]) NumberOfNonDefaultValuatedNodes(g *Graph) int {
	if g == nil {
		return p.nodeValues.Len()
	}
	return len(p.NonDefaultNodes(g))
}

func (p *Property[N, E]) NumberOfNonDefaultValuatedEdges(g *Graph) int {
	if g == nil {
		return p.edgeValues.Len()
	}
	return len(p.NonDefaultEdges(g))
}

func (p *Property[N, E]) Erase(n Node) {
	if !p.HasNonDefaultNodeValue(n) {
		return
	}
	memo := p.nodeMemo(n)
	p.nodeValues.Delete(n)
	p.notify(NodeValueSet{Property: p, Node: n, memo: memo})
}

func (p *Property[N, E]) EraseEdge(e Edge) {
	if !p.HasNonDefaultEdgeValue(e) {
		return
	}
	memo := p.edgeMemo(e)
	p.edgeValues.Delete(e)
	p.notify(EdgeValueSet{Property: p, Edge: e, memo: memo})
}

func (p *Property[N, E]) CopyNodeValue(dst, src Node, from PropertyInterface) bool {
	fp, ok := from.(*Property[N, E])
	if !ok {
		return false
	}
	p.SetNodeValue(dst, fp.NodeValue(src))
	return true
}

func (p *Property[N, E]) CopyEdgeValue(dst, src Edge, from PropertyInterface) bool {
	fp, ok := from.(*Property[N, E])
	if !ok {
		return false
	}
	p.SetEdgeValue(dst, fp.EdgeValue(src))
	return true
}

// clonePrototype returns the local property name of g with p's kind and
// defaults, creating it if needed.
func (p *Property[N, E]) clonePrototype(g *Graph, name string) (PropertyInterface, error) {
	q, err := LocalProperty(g, name, p.typ)
	if err != nil {
		return nil, err
	}
	q.SetAllNodeValue(p.nodeDefault)
	q.SetAllEdgeValue(p.edgeDefault)
	return q, nil
}

// seedFrom copies the defaults of other when it has the same kind. It is
// used before p is bound, so it does not notify.
func (p *Property[N, E]) seedFrom(other PropertyInterface) {
	o, ok := other.(*Property[N, E])
	if !ok {
		return
	}
	p.nodeDefault = p.typ.node.clone(o.nodeDefault)
	p.edgeDefault = p.typ.edge.clone(o.edgeDefault)
}

// recording reports whether an open undo frame keeps value changes of p.
func (b *propertyBase) recording(p PropertyInterface) bool {
	if b.graph == nil {
		return false
	}
	r := b.graph.h.undo
	f := r.front()
	if f == nil || r.replaying {
		return false
	}
	_, kept := f.preserve[p]
	return !kept
}

// nodeMemo returns nil when no undo frame would record the change.
func (p *Property[N, E]) nodeMemo(n Node) memento {
	if !p.recording(p) {
		return nil
	}
	v, ok := p.nodeValues.Get(n)
	return &nodeMemo[N, E]{p: p, n: n, v: v, set: ok}
}

func (p *Property[N, E]) edgeMemo(e Edge) memento {
	if !p.recording(p) {
		return nil
	}
	v, ok := p.edgeValues.Get(e)
	return &edgeMemo[N, E]{p: p, e: e, v: v, set: ok}
}

type nodeMemo[N, E any] struct {
	p   *Property[N, E]
	n   Node
	v   N
	set bool
}

func (m *nodeMemo[N, E]) swap() {
	cur, curSet := m.p.nodeValues.Get(m.n)
	if m.set {
		m.p.nodeValues.Set(m.n, m.v)
	} else {
		m.p.nodeValues.Delete(m.n)
	}
	m.v, m.set = cur, curSet
	m.p.notify(NodeValueSet{Property: m.p, Node: m.n})
}

type edgeMemo[N, E any] struct {
	p   *Property[N, E]
	e   Edge
	v   E
	set bool
}

func (m *edgeMemo[N, E]) swap() {
	cur, curSet := m.p.edgeValues.Get(m.e)
	if m.set {
		m.p.edgeValues.Set(m.e, m.v)
	} else {
		m.p.edgeValues.Delete(m.e)
	}
	m.v, m.set = cur, curSet
	m.p.notify(EdgeValueSet{Property: m.p, Edge: m.e})
}

type allNodeMemo[N, E any] struct {
	p      *Property[N, E]
	def    N
	values *btree.Map[Node, N]
}

func (m *allNodeMemo[N, E]) swap() {
	m.p.nodeDefault, m.def = m.def, m.p.nodeDefault
	m.p.nodeValues, m.values = m.values, m.p.nodeValues
	m.p.notify(AllNodeValueSet{Property: m.p})
}

type allEdgeMemo[N, E any] struct {
	p      *Property[N, E]
	def    E
	values *btree.Map[Edge, E]
}

func (m *allEdgeMemo[N, E]) swap() {
	m.p.edgeDefault, m.def = m.def, m.p.edgeDefault
	m.p.edgeValues, m.values = m.values, m.p.edgeValues
	m.p.notify(AllEdgeValueSet{Property: m.p})
}
