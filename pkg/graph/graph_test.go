package graph

import (
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestGraph() *Graph {
	return New(WithLogger(log.New(io.Discard)), WithName("root"))
}

func TestSubGraphScenario(t *testing.T) {
	root := newTestGraph()
	n := root.AddNodes(3)
	e01 := root.AddEdge(n[0], n[1])
	root.AddEdge(n[1], n[2])

	s := root.AddSubGraph("S")
	s.AddExistingNode(n[0])
	s.AddExistingNode(n[1])
	if got := s.NumberOfNodes(); got != 2 {
		t.Errorf("nodes = %d, want 2", got)
	}
	if got := s.NumberOfEdges(); got != 0 {
		t.Errorf("edges = %d, want 0", got)
	}

	s.AddExistingEdge(e01)
	if got := s.NumberOfEdges(); got != 1 {
		t.Errorf("edges after add = %d, want 1", got)
	}

	root.DelNode(n[1], false)
	if got := s.NumberOfNodes(); got != 1 {
		t.Errorf("nodes after delete = %d, want 1", got)
	}
	if got := s.NumberOfEdges(); got != 0 {
		t.Errorf("edges after delete = %d, want 0", got)
	}
}

func TestAddNodeIDs(t *testing.T) {
	g := newTestGraph()
	nodes := g.AddNodes(4)
	for i, n := range nodes {
		if !n.IsValid() {
			t.Fatalf("node %d invalid", i)
		}
		if n.ID() != uint32(i) {
			t.Errorf("node %d id = %d", i, n.ID())
		}
		if g.NodePos(n) != i {
			t.Errorf("NodePos(%v) = %d, want %d", n, g.NodePos(n), i)
		}
	}

	g.DelNode(nodes[1], true)
	for i, n := range g.Nodes() {
		if g.NodePos(n) != i {
			t.Errorf("after delete NodePos(%v) = %d, want %d", n, g.NodePos(n), i)
		}
	}
	if got := g.AddNode(); got != nodes[1] {
		t.Errorf("reused id = %v, want %v", got, nodes[1])
	}
}

func TestContainment(t *testing.T) {
	root := newTestGraph()
	a := root.AddSubGraph("a")
	b := a.AddSubGraph("b")
	c := b.AddSubGraph("c")

	n := c.AddNode()
	m := c.AddNode()
	e := c.AddEdge(n, m)

	for _, g := range []*Graph{root, a, b, c} {
		if !g.HasNode(n) || !g.HasNode(m) || !g.HasEdge(e) {
			t.Errorf("%s misses elements added to c", g.Name())
		}
	}

	// Adding an existing node deep down climbs the missing ancestors.
	x := root.AddNode()
	c.AddExistingNode(x)
	for _, g := range []*Graph{a, b, c} {
		if !g.HasNode(x) {
			t.Errorf("%s misses %v", g.Name(), x)
		}
	}
}

func TestAddExistingOnRoot(t *testing.T) {
	g := newTestGraph()
	n := g.AddNodes(2)
	e := g.AddEdge(n[0], n[1])

	g.AddExistingNode(n[0])
	g.AddExistingEdge(e)
	if g.NumberOfNodes() != 2 || g.NumberOfEdges() != 1 {
		t.Errorf("root changed: %d nodes, %d edges", g.NumberOfNodes(), g.NumberOfEdges())
	}
}

func TestAddExistingEdgeNeedsEnds(t *testing.T) {
	g := newTestGraph()
	n := g.AddNodes(2)
	e := g.AddEdge(n[0], n[1])
	s := g.AddSubGraph("s")
	s.AddExistingNode(n[0])

	s.AddExistingEdge(e)
	if s.HasEdge(e) {
		t.Error("edge added without both ends")
	}
	if got := s.AddEdge(n[0], n[1]); got.IsValid() {
		t.Errorf("AddEdge with missing end = %v, want NoEdge", got)
	}
}

func TestDeleteCascade(t *testing.T) {
	tests := []struct {
		name      string
		allGraphs bool
		inRoot    bool
		inParent  bool
	}{
		{"local", false, true, false},
		{"all graphs", true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newTestGraph()
			n := root.AddNode()
			parent := root.AddSubGraph("parent")
			parent.AddExistingNode(n)
			child := parent.AddSubGraph("child")
			child.AddExistingNode(n)
			grand := child.AddSubGraph("grand")
			grand.AddExistingNode(n)

			parent.DelNode(n, tt.allGraphs)

			if got := root.HasNode(n); got != tt.inRoot {
				t.Errorf("root.HasNode = %v, want %v", got, tt.inRoot)
			}
			if got := parent.HasNode(n); got != tt.inParent {
				t.Errorf("parent.HasNode = %v, want %v", got, tt.inParent)
			}
			if child.HasNode(n) || grand.HasNode(n) {
				t.Error("descendants still hold the node")
			}
		})
	}
}

func TestDeleteEdgeKeepsOrder(t *testing.T) {
	g := newTestGraph()
	center := g.AddNode()
	others := g.AddNodes(4)
	var edges []Edge
	for _, o := range others {
		edges = append(edges, g.AddEdge(center, o))
	}

	g.DelEdge(edges[1], false)

	want := []Edge{edges[0], edges[2], edges[3]}
	if got := g.InOutEdges(center); !slices.Equal(got, want) {
		t.Errorf("incidence = %v, want %v", got, want)
	}
}

func TestDeleteNonMember(t *testing.T) {
	g := newTestGraph()
	n := g.AddNode()
	s := g.AddSubGraph("s")

	s.DelNode(n, false)
	if !g.HasNode(n) {
		t.Error("non-member delete removed the node from the root")
	}
}

func TestDegrees(t *testing.T) {
	g := newTestGraph()
	n := g.AddNodes(3)
	g.AddEdge(n[0], n[1])
	g.AddEdge(n[0], n[2])
	g.AddEdge(n[2], n[0])
	loop := g.AddEdge(n[1], n[1])

	tests := []struct {
		node          Node
		in, out, both int
	}{
		{n[0], 1, 2, 3},
		{n[1], 2, 1, 3},
		{n[2], 1, 1, 2},
	}
	for _, tt := range tests {
		if got := g.InDeg(tt.node); got != tt.in {
			t.Errorf("InDeg(%v) = %d, want %d", tt.node, got, tt.in)
		}
		if got := g.OutDeg(tt.node); got != tt.out {
			t.Errorf("OutDeg(%v) = %d, want %d", tt.node, got, tt.out)
		}
		if got := g.Deg(tt.node); got != tt.both {
			t.Errorf("Deg(%v) = %d, want %d", tt.node, got, tt.both)
		}
	}
	if got := g.InOutEdges(n[1]); len(got) != 2 || got[1] != loop {
		t.Errorf("InOutEdges(loop node) = %v", got)
	}
	if got := g.Opposite(loop, n[1]); got != n[1] {
		t.Errorf("Opposite(loop) = %v", got)
	}
}

func TestExistEdge(t *testing.T) {
	g := newTestGraph()
	n := g.AddNodes(2)
	e := g.AddEdge(n[0], n[1])
	e2 := g.AddEdge(n[0], n[1])

	if got := g.ExistEdge(n[0], n[1], true); got != e {
		t.Errorf("directed = %v, want %v", got, e)
	}
	if got := g.ExistEdge(n[1], n[0], true); got.IsValid() {
		t.Errorf("reverse directed = %v, want NoEdge", got)
	}
	if got := g.ExistEdge(n[1], n[0], false); got != e {
		t.Errorf("undirected = %v, want %v", got, e)
	}
	if got := g.GetEdges(n[0], n[1], true); !slices.Equal(got, []Edge{e, e2}) {
		t.Errorf("GetEdges = %v", got)
	}
}

func TestReverse(t *testing.T) {
	g := newTestGraph()
	n := g.AddNodes(2)
	e := g.AddEdge(n[0], n[1])
	s := g.AddSubGraph("s")
	s.AddExistingNodes(n)
	s.AddExistingEdge(e)

	s.Reverse(e)
	if src, tgt := g.Ends(e); src != n[1] || tgt != n[0] {
		t.Errorf("ends = %v,%v", src, tgt)
	}
	if s.OutDeg(n[1]) != 1 {
		t.Errorf("subgraph out degree = %d, want 1", s.OutDeg(n[1]))
	}
}

func TestSetEnds(t *testing.T) {
	g := newTestGraph()
	n := g.AddNodes(3)
	e := g.AddEdge(n[0], n[1])
	s := g.AddSubGraph("s")
	s.AddExistingNodes(n[:2])
	s.AddExistingEdge(e)

	g.SetTarget(e, n[2])

	if src, tgt := g.Ends(e); src != n[0] || tgt != n[2] {
		t.Errorf("ends = %v,%v, want %v,%v", src, tgt, n[0], n[2])
	}
	if s.HasEdge(e) {
		t.Error("subgraph kept an edge whose new end it lacks")
	}
	if g.InDeg(n[1]) != 0 || g.InDeg(n[2]) != 1 {
		t.Errorf("degrees not updated: %d, %d", g.InDeg(n[1]), g.InDeg(n[2]))
	}
}

func TestSubGraphDeleteReparents(t *testing.T) {
	root := newTestGraph()
	a := root.AddSubGraph("a")
	b := a.AddSubGraph("b")
	c := a.AddSubGraph("c")

	root.DelSubGraph(a)

	if got := root.SubGraphs(); !slices.Equal(got, []*Graph{b, c}) {
		t.Errorf("children = %v", got)
	}
	if b.Parent() != root || c.Parent() != root {
		t.Error("children not reparented")
	}
	if root.DescendantGraph(a.ID()) != nil {
		t.Error("deleted graph still reachable")
	}
}

func TestDelAllSubGraphs(t *testing.T) {
	root := newTestGraph()
	a := root.AddSubGraph("a")
	b := a.AddSubGraph("b")
	b.AddSubGraph("c")

	root.DelAllSubGraphs(a)
	if root.NumberOfDescendantGraphs() != 0 {
		t.Errorf("descendants = %d, want 0", root.NumberOfDescendantGraphs())
	}
}

func TestSubGraphLookup(t *testing.T) {
	root := newTestGraph()
	a := root.AddSubGraph("a")
	b := a.AddSubGraph("b")
	c := root.AddSubGraph("c")

	if got := root.DescendantGraph(b.ID()); got != b {
		t.Errorf("DescendantGraph = %v", got)
	}
	if got := root.SubGraph(b.ID()); got != nil {
		t.Errorf("SubGraph found a grandchild: %v", got)
	}
	if got := root.SubGraphByName("c"); got != c {
		t.Errorf("SubGraphByName = %v", got)
	}
	if got := root.DescendantGraphByName("b"); got != b {
		t.Errorf("DescendantGraphByName = %v", got)
	}
	if !root.IsDescendantGraph(b) || a.IsDescendantGraph(c) {
		t.Error("IsDescendantGraph wrong")
	}
	if got := root.NumberOfDescendantGraphs(); got != 3 {
		t.Errorf("NumberOfDescendantGraphs = %d", got)
	}
	ids := map[uint]bool{root.ID(): true}
	for _, d := range root.Descendants() {
		if ids[d.ID()] {
			t.Errorf("duplicate graph id %d", d.ID())
		}
		ids[d.ID()] = true
	}
}

func TestInducedSubGraph(t *testing.T) {
	g := newTestGraph()
	n := g.AddNodes(4)
	e01 := g.AddEdge(n[0], n[1])
	e12 := g.AddEdge(n[1], n[2])
	g.AddEdge(n[2], n[3])

	s := g.InducedSubGraph(n[:3], nil, "induced")
	if s.Parent() != g {
		t.Error("parent is not g")
	}
	if got := s.Edges(); !slices.Equal(got, []Edge{e01, e12}) {
		t.Errorf("edges = %v", got)
	}
}

func TestSelectionSubGraph(t *testing.T) {
	g := newTestGraph()
	n := g.AddNodes(3)
	g.AddEdge(n[0], n[1])
	e12 := g.AddEdge(n[1], n[2])

	sel, err := g.BooleanProperty("sel")
	if err != nil {
		t.Fatal(err)
	}
	sel.SetNodeValue(n[0], true)
	sel.SetEdgeValue(e12, true)

	s := g.AddSubGraphSelection(sel, "sel")
	if s.NumberOfNodes() != 3 || s.NumberOfEdges() != 1 {
		t.Errorf("got %d nodes and %d edges, want 3 and 1", s.NumberOfNodes(), s.NumberOfEdges())
	}
}

func TestCloneSubGraph(t *testing.T) {
	root := newTestGraph()
	n := root.AddNodes(2)
	root.AddEdge(n[0], n[1])
	a := root.AddSubGraph("a")
	a.AddExistingNodes(n)
	m, _ := a.LocalDoubleProperty("m")
	m.SetNodeValue(n[0], 3)

	clone := a.AddCloneSubGraph("clone", true, true)
	if clone.Parent() != root {
		t.Fatal("sibling clone is not a child of the root")
	}
	if clone.NumberOfNodes() != 2 || clone.NumberOfEdges() != 0 {
		t.Errorf("clone has %d nodes and %d edges", clone.NumberOfNodes(), clone.NumberOfEdges())
	}
	cm, err := clone.LocalDoubleProperty("m")
	if err != nil {
		t.Fatal(err)
	}
	if got := cm.NodeValue(n[0]); got != 3 {
		t.Errorf("cloned value = %v, want 3", got)
	}
	if root.AddCloneSubGraph("x", true, false) != nil {
		t.Error("root sibling clone should be nil")
	}
}

func TestClear(t *testing.T) {
	root := newTestGraph()
	n := root.AddNodes(3)
	root.AddEdge(n[0], n[1])
	s := root.AddSubGraph("s")
	s.AddExistingNodes(n)

	s.Clear()
	if s.NumberOfNodes() != 0 || root.NumberOfNodes() != 3 {
		t.Errorf("subgraph clear: s=%d root=%d", s.NumberOfNodes(), root.NumberOfNodes())
	}

	root.Clear()
	if root.NumberOfNodes() != 0 || root.NumberOfEdges() != 0 || root.NumberOfSubGraphs() != 0 {
		t.Error("root not empty after Clear")
	}
}

func TestEdgeOrder(t *testing.T) {
	g := newTestGraph()
	c := g.AddNode()
	o := g.AddNodes(3)
	e := []Edge{g.AddEdge(c, o[0]), g.AddEdge(c, o[1]), g.AddEdge(c, o[2])}

	g.SetEdgeOrder(c, []Edge{e[2], e[0], e[1]})
	if got := g.EdgeOrder(c); !slices.Equal(got, []Edge{e[2], e[0], e[1]}) {
		t.Errorf("order = %v", got)
	}

	g.SwapEdgeOrder(c, e[2], e[1])
	if got := g.EdgeOrder(c); !slices.Equal(got, []Edge{e[1], e[0], e[2]}) {
		t.Errorf("after swap = %v", got)
	}

	g.SetEdgeOrder(c, []Edge{e[0]})
	if got := len(g.EdgeOrder(c)); got != 3 {
		t.Errorf("invalid order accepted, len = %d", got)
	}
}

func TestEvents(t *testing.T) {
	g := newTestGraph()
	l := &eventLog{}
	g.AddListener(l)

	n := g.AddNodes(2)
	e := g.AddEdge(n[0], n[1])
	g.SetAttribute("k", 1)
	g.DelEdge(e, false)

	want := []string{"NodeAdded", "NodeAdded", "EdgeAdded", "AttributeSet", "EdgeDeleted"}
	if len(l.got) != len(want) {
		t.Fatalf("got %d events, want %d", len(l.got), len(want))
	}
	for i, ev := range l.got {
		if ev.Source() != g {
			t.Errorf("event %d source = %v", i, ev.Source())
		}
		if name := eventName(ev); name != want[i] {
			t.Errorf("event %d = %s, want %s", i, name, want[i])
		}
	}

	if del, ok := l.got[len(l.got)-1].(EdgeDeleted); !ok || del.Edge != e || del.From != n[0] || del.To != n[1] {
		t.Errorf("last event = %#v, want EdgeDeleted %v: %v -> %v", l.got[len(l.got)-1], e, n[0], n[1])
	}
}

func TestObserversBatch(t *testing.T) {
	g := newTestGraph()
	o := &batchLog{}
	g.AddObserver(o)

	g.AddNodes(5)
	if len(o.batches) != 1 {
		t.Fatalf("batches = %d, want 1", len(o.batches))
	}
	if got := len(o.batches[0]); got != 5 {
		t.Errorf("batch len = %d, want 5", got)
	}

	g.AddNode()
	if len(o.batches) != 2 {
		t.Errorf("unheld notification not delivered at once")
	}
}

type eventLog struct{ got []Event }

func (l *eventLog) HandleEvent(e Event) { l.got = append(l.got, e) }

func TestObserversAcrossHierarchyOrder(t *testing.T) {
	root := newTestGraph()
	s := root.AddSubGraph("S")
	o := &batchLog{}
	root.AddObserver(o)
	s.AddObserver(o)

	hold := root.HoldObservers()
	a := s.AddNode()
	b := root.AddNode()
	hold.Release()

	if len(o.batches) != 1 {
		t.Fatalf("batches = %d, want 1", len(o.batches))
	}
	type delivery struct {
		graph *Graph
		node  Node
	}
	want := []delivery{{root, a}, {s, a}, {root, b}}
	var got []delivery
	for _, ev := range o.batches[0] {
		added, ok := ev.(NodeAdded)
		if !ok {
			t.Fatalf("unexpected event %s", eventName(ev))
		}
		got = append(got, delivery{added.Graph, added.Node})
	}
	if !slices.Equal(got, want) {
		t.Errorf("delivered %v, want %v", got, want)
	}
}

type batchLog struct{ batches [][]Event }

func (l *batchLog) HandleEvents(e []Event) { l.batches = append(l.batches, e) }

func eventName(e Event) string {
	switch e.(type) {
	case NodeAdded:
		return "NodeAdded"
	case NodeDeleted:
		return "NodeDeleted"
	case EdgeAdded:
		return "EdgeAdded"
	case EdgeDeleted:
		return "EdgeDeleted"
	case AttributeSet:
		return "AttributeSet"
	}
	return "other"
}
