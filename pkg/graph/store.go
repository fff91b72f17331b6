package graph

import (
	"slices"

	"github.com/matzehuels/hiergraph/pkg/ids"
)

// store is the element table owned by the root of a hierarchy. It holds the
// id allocators, the ends of every edge and the incidence list of every
// node. Incidence lists only change through this type.
type store struct {
	nodeIDs *ids.Allocator[uint32]
	edgeIDs *ids.Allocator[uint32]
	adj     [][]Edge
	ends    [][2]Node
}

// idsState is a snapshot of both allocators.
type idsState struct {
	nodes ids.Memento[uint32]
	edges ids.Memento[uint32]
}

func newStore() *store {
	return &store{
		nodeIDs: ids.New[uint32](),
		edgeIDs: ids.New[uint32](),
	}
}

func (s *store) snapshot() idsState {
	return idsState{nodes: s.nodeIDs.Snapshot(), edges: s.edgeIDs.Snapshot()}
}

func (s *store) restoreIDs(m idsState) {
	s.nodeIDs.Restore(m.nodes)
	s.edgeIDs.Restore(m.edges)
}

func (s *store) newNode() Node {
	n := Node(s.nodeIDs.Get())
	for int(n) >= len(s.adj) {
		s.adj = append(s.adj, nil)
	}
	s.adj[n] = nil
	return n
}

// attach records e as src->tgt and appends it to the incidence lists.
func (s *store) attach(e Edge, src, tgt Node) {
	for int(e) >= len(s.ends) {
		s.ends = append(s.ends, [2]Node{NoNode, NoNode})
	}
	s.ends[e] = [2]Node{src, tgt}
	s.adj[src] = append(s.adj[src], e)
	if tgt != src {
		s.adj[tgt] = append(s.adj[tgt], e)
	}
}

// detach removes e from the incidence lists of its ends, keeping the order
// of the remaining edges. It returns the positions e occupied; the second is
// -1 for a loop.
func (s *store) detach(e Edge) [2]int {
	src, tgt := s.ends[e][0], s.ends[e][1]
	pos := [2]int{removeEdgeFrom(&s.adj[src], e), -1}
	if tgt != src {
		pos[1] = removeEdgeFrom(&s.adj[tgt], e)
	}
	return pos
}

// reattach undoes detach.
func (s *store) reattach(e Edge, ends [2]Node, pos [2]int) {
	s.ends[e] = ends
	s.adj[ends[0]] = slices.Insert(s.adj[ends[0]], pos[0], e)
	if ends[1] != ends[0] {
		s.adj[ends[1]] = slices.Insert(s.adj[ends[1]], pos[1], e)
	}
}

func removeEdgeFrom(list *[]Edge, e Edge) int {
	i := slices.Index(*list, e)
	if i >= 0 {
		*list = slices.Delete(*list, i, i+1)
	}
	return i
}

func (s *store) source(e Edge) Node { return s.ends[e][0] }
func (s *store) target(e Edge) Node { return s.ends[e][1] }

func (s *store) reverse(e Edge) {
	s.ends[e][0], s.ends[e][1] = s.ends[e][1], s.ends[e][0]
}

func (s *store) incidence(n Node) []Edge {
	if int(n) >= len(s.adj) {
		return nil
	}
	return s.adj[n]
}
