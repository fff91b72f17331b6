package graph

import (
	"fmt"
	"math"
)

// Node is a handle on a node of a graph hierarchy. Handles are plain
// integers and are shared by every graph of a hierarchy.
type Node uint32

// Edge is a handle on an edge of a graph hierarchy.
type Edge uint32

// NoNode and NoEdge are the invalid handles.
const (
	NoNode Node = math.MaxUint32
	NoEdge Edge = math.MaxUint32
)

// IsValid reports whether n is not [NoNode].
func (n Node) IsValid() bool { return n != NoNode }

// ID returns the integer identifier of n.
func (n Node) ID() uint32 { return uint32(n) }

func (n Node) String() string {
	if !n.IsValid() {
		return "node(invalid)"
	}
	return fmt.Sprintf("node(%d)", uint32(n))
}

// IsValid reports whether e is not [NoEdge].
func (e Edge) IsValid() bool { return e != NoEdge }

// ID returns the integer identifier of e.
func (e Edge) ID() uint32 { return uint32(e) }

func (e Edge) String() string {
	if !e.IsValid() {
		return "edge(invalid)"
	}
	return fmt.Sprintf("edge(%d)", uint32(e))
}

// elementSet is an ordered set of handles with O(1) membership, position
// lookup and removal. Removal moves the last element into the freed slot;
// restore is its exact inverse.
type elementSet[T ~uint32] struct {
	list []T
	pos  []int32 // index+1 by id, 0 when absent
}

func (s *elementSet[T]) len() int { return len(s.list) }

func (s *elementSet[T]) has(x T) bool {
	return int(x) < len(s.pos) && s.pos[x] != 0
}

func (s *elementSet[T]) index(x T) int {
	if !s.has(x) {
		return -1
	}
	return int(s.pos[x]) - 1
}

func (s *elementSet[T]) grow(x T) {
	if int(x) >= len(s.pos) {
		n := max(int(x)+1, 2*len(s.pos))
		s.pos = append(s.pos, make([]int32, n-len(s.pos))...)
	}
}

func (s *elementSet[T]) add(x T) {
	s.grow(x)
	s.list = append(s.list, x)
	s.pos[x] = int32(len(s.list))
}

// remove deletes x and returns the index it occupied.
func (s *elementSet[T]) remove(x T) int {
	i := int(s.pos[x]) - 1
	last := len(s.list) - 1
	moved := s.list[last]
	s.list[i] = moved
	s.pos[moved] = int32(i + 1)
	s.list = s.list[:last]
	s.pos[x] = 0
	return i
}

// restore reinserts x at index i, undoing the remove that returned i.
func (s *elementSet[T]) restore(x T, i int) {
	s.grow(x)
	if i >= len(s.list) {
		s.add(x)
		return
	}
	moved := s.list[i]
	s.list = append(s.list, moved)
	s.pos[moved] = int32(len(s.list))
	s.list[i] = x
	s.pos[x] = int32(i + 1)
}

func (s *elementSet[T]) clear() {
	s.list = nil
	s.pos = nil
}
