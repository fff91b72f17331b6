package graph

import (
	"github.com/bits-and-blooms/bitset"
)

// InEdges returns the edges of g targeting n, in incidence order.
func (g *Graph) InEdges(n Node) []Edge {
	var out []Edge
	for _, e := range g.incidence(n) {
		if g.h.store.target(e) == n {
			out = append(out, e)
		}
	}
	return out
}

// OutEdges returns the edges of g leaving n.
func (g *Graph) OutEdges(n Node) []Edge {
	var out []Edge
	for _, e := range g.incidence(n) {
		if g.h.store.source(e) == n {
			out = append(out, e)
		}
	}
	return out
}

// InOutEdges returns the edges of g around n. A loop appears once.
func (g *Graph) InOutEdges(n Node) []Edge {
	if !g.nodes.has(n) {
		return nil
	}
	return g.incidence(n)
}

// InNodes returns the source of every edge of [Graph.InEdges].
func (g *Graph) InNodes(n Node) []Node {
	in := g.InEdges(n)
	out := make([]Node, len(in))
	for i, e := range in {
		out[i] = g.h.store.source(e)
	}
	return out
}

// OutNodes returns the target of every edge of [Graph.OutEdges].
func (g *Graph) OutNodes(n Node) []Node {
	es := g.OutEdges(n)
	out := make([]Node, len(es))
	for i, e := range es {
		out[i] = g.h.store.target(e)
	}
	return out
}

// InOutNodes returns the opposite end of every edge around n.
func (g *Graph) InOutNodes(n Node) []Node {
	es := g.InOutEdges(n)
	out := make([]Node, len(es))
	for i, e := range es {
		out[i] = g.Opposite(e, n)
	}
	return out
}

// step returns the edges followed out of n and the node each one reaches.
func (g *Graph) step(n Node, directed bool) ([]Edge, []Node) {
	var es []Edge
	if directed {
		es = g.OutEdges(n)
	} else {
		es = g.InOutEdges(n)
	}
	next := make([]Node, len(es))
	for i, e := range es {
		next[i] = g.Opposite(e, n)
	}
	return es, next
}

func startNode(g *Graph, root Node) Node {
	if root.IsValid() {
		if g.HasNode(root) {
			return root
		}
		return NoNode
	}
	if n := g.SourceNode(); n.IsValid() {
		return n
	}
	return g.RandomNode()
}

// BFS returns the nodes reachable from root in breadth-first order. An
// invalid root starts from [Graph.SourceNode], or a random node when every
// node has an incoming edge. With directed false edges are followed both
// ways.
func BFS(g *Graph, root Node, directed bool) []Node {
	nodes, _ := bfs(g, startNode(g, root), directed, new(bitset.BitSet))
	return nodes
}

// BFSEdges returns the tree edges of [BFS] in discovery order.
func BFSEdges(g *Graph, root Node, directed bool) []Edge {
	_, edges := bfs(g, startNode(g, root), directed, new(bitset.BitSet))
	return edges
}

// DFS returns the nodes reachable from root in depth-first pre-order.
func DFS(g *Graph, root Node, directed bool) []Node {
	nodes, _ := dfs(g, startNode(g, root), directed, new(bitset.BitSet))
	return nodes
}

// DFSEdges returns the tree edges of [DFS] in discovery order.
func DFSEdges(g *Graph, root Node, directed bool) []Edge {
	_, edges := dfs(g, startNode(g, root), directed, new(bitset.BitSet))
	return edges
}

// CumulativeBFS runs [BFS] from root, then from every node not yet
// reached, until all nodes of g are visited.
func CumulativeBFS(g *Graph, root Node, directed bool) []Node {
	return cumulative(g, root, directed, bfs)
}

// CumulativeDFS is the depth-first counterpart of [CumulativeBFS].
func CumulativeDFS(g *Graph, root Node, directed bool) []Node {
	return cumulative(g, root, directed, dfs)
}

type search func(*Graph, Node, bool, *bitset.BitSet) ([]Node, []Edge)

func cumulative(g *Graph, root Node, directed bool, fn search) []Node {
	seen := new(bitset.BitSet)
	out := make([]Node, 0, g.NumberOfNodes())
	if start := startNode(g, root); start.IsValid() {
		nodes, _ := fn(g, start, directed, seen)
		out = append(out, nodes...)
	}
	for _, n := range g.nodes.list {
		if !seen.Test(uint(n)) {
			nodes, _ := fn(g, n, directed, seen)
			out = append(out, nodes...)
		}
	}
	return out
}

func bfs(g *Graph, root Node, directed bool, seen *bitset.BitSet) ([]Node, []Edge) {
	if !root.IsValid() || seen.Test(uint(root)) {
		return nil, nil
	}
	seen.Set(uint(root))
	nodes := []Node{root}
	var edges []Edge
	for i := 0; i < len(nodes); i++ {
		es, next := g.step(nodes[i], directed)
		for j, m := range next {
			if seen.Test(uint(m)) {
				continue
			}
			seen.Set(uint(m))
			nodes = append(nodes, m)
			edges = append(edges, es[j])
		}
	}
	return nodes, edges
}

func dfs(g *Graph, root Node, directed bool, seen *bitset.BitSet) ([]Node, []Edge) {
	if !root.IsValid() || seen.Test(uint(root)) {
		return nil, nil
	}
	type frame struct {
		es   []Edge
		next []Node
		i    int
	}
	var nodes []Node
	var edges []Edge
	visit := func(n Node) frame {
		seen.Set(uint(n))
		nodes = append(nodes, n)
		es, next := g.step(n, directed)
		return frame{es: es, next: next}
	}
	stack := []frame{visit(root)}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.i == len(top.next) {
			stack = stack[:len(stack)-1]
			continue
		}
		m, e := top.next[top.i], top.es[top.i]
		top.i++
		if seen.Test(uint(m)) {
			continue
		}
		edges = append(edges, e)
		stack = append(stack, visit(m))
	}
	return nodes, edges
}
