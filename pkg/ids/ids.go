// Package ids allocates small integer identifiers and recycles freed ones.
//
// An [Allocator] always hands out the smallest free identifier, so a
// sequence of Get calls on a fresh allocator yields 0, 1, 2, ... and a freed
// identifier is reused before the range grows. Freed identifiers are tracked
// in a bitset.
//
// The allocator state can be captured with [Allocator.Snapshot] and put back
// with [Allocator.Restore]. The undo log of pkg/graph relies on this to give
// back exactly the identifiers that were live before a transaction.
package ids

import (
	"iter"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/exp/constraints"
)

// Allocator hands out identifiers of type T. The zero value is not usable;
// call [New].
type Allocator[T constraints.Unsigned] struct {
	next  T
	free  *bitset.BitSet
	nfree uint
}

// Memento is an opaque copy of an allocator state.
type Memento[T constraints.Unsigned] struct {
	next  T
	free  *bitset.BitSet
	nfree uint
}

// New returns an empty allocator.
func New[T constraints.Unsigned]() *Allocator[T] {
	return &Allocator[T]{free: bitset.New(0)}
}

// Get returns the smallest free identifier and marks it as used.
func (a *Allocator[T]) Get() T {
	if a.nfree > 0 {
		if i, ok := a.free.NextSet(0); ok {
			a.free.Clear(i)
			a.nfree--
			return T(i)
		}
	}
	id := a.next
	a.next++
	return id
}

// GetN returns n identifiers in ascending order.
func (a *Allocator[T]) GetN(n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = a.Get()
	}
	return out
}

// Reserve marks id as used. Identifiers between the current range end and id
// become free. Reserve is a no-op if id is already used.
func (a *Allocator[T]) Reserve(id T) {
	if id >= a.next {
		for i := a.next; i < id; i++ {
			a.free.Set(uint(i))
			a.nfree++
		}
		a.next = id + 1
		return
	}
	if a.free.Test(uint(id)) {
		a.free.Clear(uint(id))
		a.nfree--
	}
}

// Free releases id. Freeing an identifier that is already free, or that was
// never allocated, does nothing.
func (a *Allocator[T]) Free(id T) {
	if a.IsFree(id) {
		return
	}
	a.free.Set(uint(id))
	a.nfree++
}

// IsFree reports whether id is not currently in use.
func (a *Allocator[T]) IsFree(id T) bool {
	return id >= a.next || a.free.Test(uint(id))
}

// Len returns the number of identifiers in use.
func (a *Allocator[T]) Len() int {
	return int(uint(a.next) - a.nfree)
}

// Bound returns one past the largest identifier ever handed out since the
// last [Allocator.Reset]. It is a suitable length for slices indexed by id.
func (a *Allocator[T]) Bound() T { return a.next }

// NumFree returns the number of recycled identifiers waiting to be reused.
func (a *Allocator[T]) NumFree() int { return int(a.nfree) }

// IDs iterates the identifiers in use in ascending order.
func (a *Allocator[T]) IDs() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := T(0); i < a.next; i++ {
			if a.free.Test(uint(i)) {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}

// Reset frees every identifier and shrinks the range back to zero.
func (a *Allocator[T]) Reset() {
	a.next = 0
	a.free.ClearAll()
	a.nfree = 0
}

// Snapshot captures the current state.
func (a *Allocator[T]) Snapshot() Memento[T] {
	return Memento[T]{next: a.next, free: a.free.Clone(), nfree: a.nfree}
}

// Restore puts back a state captured with [Allocator.Snapshot]. The memento
// stays valid and can be restored again.
func (a *Allocator[T]) Restore(m Memento[T]) {
	a.next = m.next
	a.nfree = m.nfree
	if m.free == nil {
		a.free = bitset.New(0)
		return
	}
	a.free = m.free.Clone()
}
