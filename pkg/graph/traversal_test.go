package graph

import (
	"slices"
	"testing"
)

// treeFixture builds 0->1, 0->2, 1->3, 2->4.
func treeFixture() (*Graph, []Node, []Edge) {
	g := newTestGraph()
	n := g.AddNodes(5)
	e := []Edge{
		g.AddEdge(n[0], n[1]),
		g.AddEdge(n[0], n[2]),
		g.AddEdge(n[1], n[3]),
		g.AddEdge(n[2], n[4]),
	}
	return g, n, e
}

func TestTraversalOrder(t *testing.T) {
	g, n, _ := treeFixture()

	tests := []struct {
		name string
		run  func() []Node
		want []Node
	}{
		{"bfs from source", func() []Node { return BFS(g, NoNode, true) }, []Node{n[0], n[1], n[2], n[3], n[4]}},
		{"dfs from source", func() []Node { return DFS(g, NoNode, true) }, []Node{n[0], n[1], n[3], n[2], n[4]}},
		{"bfs directed leaf", func() []Node { return BFS(g, n[3], true) }, []Node{n[3]}},
		{"bfs undirected", func() []Node { return BFS(g, n[3], false) }, []Node{n[3], n[1], n[0], n[2], n[4]}},
		{"dfs undirected", func() []Node { return DFS(g, n[4], false) }, []Node{n[4], n[2], n[0], n[1], n[3]}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.run(); !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTraversalEdges(t *testing.T) {
	g, _, e := treeFixture()

	if got := BFSEdges(g, NoNode, true); !slices.Equal(got, []Edge{e[0], e[1], e[2], e[3]}) {
		t.Errorf("BFSEdges = %v", got)
	}
	if got := DFSEdges(g, NoNode, true); !slices.Equal(got, []Edge{e[0], e[2], e[1], e[3]}) {
		t.Errorf("DFSEdges = %v", got)
	}
}

func TestCumulative(t *testing.T) {
	g, n, _ := treeFixture()
	a := g.AddNode()
	b := g.AddNode()
	g.AddEdge(b, a)

	want := append(slices.Clone(n), a, b)
	if got := CumulativeBFS(g, NoNode, true); !slices.Equal(got, want) {
		t.Errorf("CumulativeBFS = %v, want %v", got, want)
	}
	if got := len(CumulativeDFS(g, n[3], false)); got != g.NumberOfNodes() {
		t.Errorf("CumulativeDFS visited %d nodes, want %d", got, g.NumberOfNodes())
	}
}

func TestTraversalInSubGraph(t *testing.T) {
	g, n, e := treeFixture()
	s := g.AddSubGraph("s")
	s.AddExistingNodes(n[:3])
	s.AddExistingEdge(e[0])

	if got := BFS(s, n[0], true); !slices.Equal(got, []Node{n[0], n[1]}) {
		t.Errorf("BFS in subgraph = %v", got)
	}
	if got := DFS(s, n[4], true); got != nil {
		t.Errorf("DFS from a foreign node = %v, want nil", got)
	}
}

func TestSourceNode(t *testing.T) {
	g := newTestGraph()
	n := g.AddNodes(2)
	g.AddEdge(n[0], n[1])
	g.AddEdge(n[1], n[0])

	if got := g.SourceNode(); got.IsValid() {
		t.Errorf("SourceNode of a cycle = %v, want NoNode", got)
	}
	if got := BFS(g, NoNode, true); len(got) != 2 {
		t.Errorf("BFS without source visited %v", got)
	}
}
