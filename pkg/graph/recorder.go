package graph

import (
	"github.com/google/uuid"

	"github.com/matzehuels/hiergraph/pkg/observability"
)

// recorder is the undo log of a hierarchy. It subscribes to every graph
// and property of the hierarchy as a listener and turns each event into a
// change that can be undone and redone.
//
// Only the most recent frame records. Stopping a frame happens implicitly
// when a newer frame is pushed; popping the newer frame lets the older one
// record again.
type recorder struct {
	h         *hierarchy
	depth     int
	frames    []*frame
	redo      []*frame
	replaying bool

	graphs *graphRecorder
	props  *propertyRecorder
}

type frame struct {
	id           uuid.UUID
	unpopAllowed bool
	preserve     map[PropertyInterface]struct{}
	changes      []change
	before       idsState
	after        idsState
}

// change is one recorded mutation. undo and redo replay the primitives of
// the hierarchy and never record themselves.
type change struct {
	undo func()
	redo func()
}

type graphRecorder struct{ r *recorder }

type propertyRecorder struct{ r *recorder }

func newRecorder(h *hierarchy, depth int) *recorder {
	r := &recorder{h: h, depth: depth}
	r.graphs = &graphRecorder{r}
	r.props = &propertyRecorder{r}
	return r
}

func (r *recorder) front() *frame {
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

// touch is called for every mutation outside a replay. Any mutation makes
// the redo frames unreachable.
func (r *recorder) touch() bool {
	if r.replaying {
		return false
	}
	r.redo = nil
	return true
}

func (r *recorder) record(c change) {
	if f := r.front(); f != nil {
		f.changes = append(f.changes, c)
	}
}

func (gr *graphRecorder) HandleEvent(ev Event) {
	r := gr.r
	switch ev.(type) {
	case EdgeEndsChanging, LocalPropertyDeleting, InheritedPropertyAdded, InheritedPropertyDeleted:
		return
	}
	if !r.touch() {
		return
	}
	h := r.h
	switch e := ev.(type) {
	case NodeAdded:
		g, n := e.Graph, e.Node
		r.record(change{
			undo: func() { g.removeNode(n) },
			redo: func() { g.insertNode(n) },
		})
	case NodeDeleted:
		g, n, pos := e.Graph, e.Node, e.pos
		r.record(change{
			undo: func() { g.restoreNode(n, pos) },
			redo: func() { g.removeNode(n) },
		})
	case EdgeAdded:
		g, edge, ends := e.Graph, e.Edge, h.store.ends[e.Edge]
		r.record(change{
			undo: func() { g.removeEdge(edge) },
			redo: func() { g.insertEdge(edge, ends) },
		})
	case EdgeDeleted:
		g, edge, ends, pos, adjPos := e.Graph, e.Edge, [2]Node{e.From, e.To}, e.pos, e.adjPos
		r.record(change{
			undo: func() { g.restoreEdge(edge, ends, pos, adjPos) },
			redo: func() { g.removeEdge(edge) },
		})
	case EdgeReversed:
		if !e.Graph.IsRoot() {
			return
		}
		edge := e.Edge
		r.record(change{
			undo: func() { h.reverseEdge(edge) },
			redo: func() { h.reverseEdge(edge) },
		})
	case EdgeEndsChanged:
		if !e.Graph.IsRoot() {
			return
		}
		edge, old, cur, adjPos := e.Edge, [2]Node{e.OldSource, e.OldTarget}, h.store.ends[e.Edge], e.adjPos
		r.record(change{
			undo: func() { h.unmoveEdge(edge, old, adjPos) },
			redo: func() { h.moveEdge(edge, cur[0], cur[1]) },
		})
	case SubGraphAdded:
		g, sg, pos := e.Graph, e.SubGraph, e.pos
		r.record(change{
			undo: func() { g.unlinkSubGraph(sg) },
			redo: func() { g.linkSubGraph(sg, pos, nil) },
		})
	case SubGraphDeleted:
		g, sg, pos, children := e.Graph, e.SubGraph, e.pos, e.children
		r.record(change{
			undo: func() { g.linkSubGraph(sg, pos, children) },
			redo: func() { g.unlinkSubGraph(sg) },
		})
	case LocalPropertyAdded:
		g, name, p := e.Graph, e.Name, e.Property
		r.record(change{
			undo: func() { g.unregisterProperty(name) },
			redo: func() { g.registerProperty(name, p) },
		})
	case LocalPropertyDeleted:
		g, name, p := e.Graph, e.Name, e.property
		r.record(change{
			undo: func() { g.registerProperty(name, p) },
			redo: func() { g.unregisterProperty(name) },
		})
	case PropertyRenamed:
		g, p, old, name := e.Graph, e.Property, e.OldName, e.NewName
		r.record(change{
			undo: func() { g.renameProperty(p, old) },
			redo: func() { g.renameProperty(p, name) },
		})
	case AttributeSet:
		g, name, old, had := e.Graph, e.Name, e.old, e.hadOld
		v, _ := g.attrs.Get(name)
		r.record(change{
			undo: func() {
				if had {
					g.setAttribute(name, old)
				} else {
					g.removeAttribute(name)
				}
			},
			redo: func() { g.setAttribute(name, v) },
		})
	case AttributeRemoved:
		g, name, old := e.Graph, e.Name, e.old
		r.record(change{
			undo: func() { g.setAttribute(name, old) },
			redo: func() { g.removeAttribute(name) },
		})
	}
}

func (pr *propertyRecorder) HandleEvent(ev PropertyEvent) {
	r := pr.r
	var m memento
	switch e := ev.(type) {
	case NodeValueSet:
		m = e.memo
	case EdgeValueSet:
		m = e.memo
	case AllNodeValueSet:
		m = e.memo
	case AllEdgeValueSet:
		m = e.memo
	}
	if !r.touch() || m == nil {
		return
	}
	if f := r.front(); f != nil {
		if _, ok := f.preserve[ev.Source()]; ok {
			return
		}
	}
	r.record(change{undo: m.swap, redo: m.swap})
}

// =============================================================================
// Undo API
// =============================================================================

// Push opens an undo frame. Changes to the properties in preserve are not
// recorded, so undoing the frame keeps their values. When unpopAllowed is
// set and the current frame recorded nothing, that frame is reused and the
// preserve lists are merged.
//
// Edge order changes ([Graph.SetEdgeOrder], [Graph.SwapEdgeOrder],
// [Graph.SortEdges]) are never recorded.
func (g *Graph) Push(unpopAllowed bool, preserve ...PropertyInterface) {
	r := g.h.undo
	r.redo = nil
	if f := r.front(); unpopAllowed && f != nil && len(f.changes) == 0 {
		for _, p := range preserve {
			f.preserve[p] = struct{}{}
		}
		return
	}
	f := &frame{
		id:           uuid.New(),
		unpopAllowed: unpopAllowed,
		preserve:     make(map[PropertyInterface]struct{}, len(preserve)),
		before:       g.h.store.snapshot(),
	}
	for _, p := range preserve {
		f.preserve[p] = struct{}{}
	}
	r.frames = append(r.frames, f)
	if unpopAllowed && len(r.frames) > r.depth {
		r.frames = r.frames[len(r.frames)-r.depth:]
	}
	g.h.log.Debug("undo push", "frame", f.id, "depth", len(r.frames))
	observability.Undo().OnPush(f.id.String(), len(r.frames))
}

// Pop undoes the most recent frame, restoring nodes, edges, subgraphs,
// property values and attributes as they were at the matching
// [Graph.Push]. With unpopAllowed, and if the frame was pushed with it,
// the frame can be redone by [Graph.Unpop].
func (g *Graph) Pop(unpopAllowed bool) {
	r := g.h.undo
	f := r.front()
	if f == nil {
		return
	}
	r.frames = r.frames[:len(r.frames)-1]
	f.after = g.h.store.snapshot()
	r.replay(func() {
		for i := len(f.changes) - 1; i >= 0; i-- {
			f.changes[i].undo()
		}
		g.h.store.restoreIDs(f.before)
	})
	redoable := unpopAllowed && f.unpopAllowed
	if redoable {
		r.redo = append(r.redo, f)
	}
	g.h.log.Debug("undo pop", "frame", f.id, "changes", len(f.changes), "redoable", redoable)
	observability.Undo().OnPop(f.id.String(), len(f.changes), redoable)
}

// PopIfNoUpdates discards the most recent frame if it recorded nothing.
func (g *Graph) PopIfNoUpdates() {
	if f := g.h.undo.front(); f != nil && len(f.changes) == 0 {
		g.Pop(false)
	}
}

// Unpop redoes the most recently undone frame. The frame becomes the
// current one again and keeps recording.
func (g *Graph) Unpop() {
	r := g.h.undo
	if len(r.redo) == 0 {
		return
	}
	f := r.redo[len(r.redo)-1]
	r.redo = r.redo[:len(r.redo)-1]
	r.replay(func() {
		for _, c := range f.changes {
			c.redo()
		}
		g.h.store.restoreIDs(f.after)
	})
	r.frames = append(r.frames, f)
	g.h.log.Debug("undo unpop", "frame", f.id, "changes", len(f.changes))
	observability.Undo().OnUnpop(f.id.String(), len(f.changes))
}

func (r *recorder) replay(fn func()) {
	hold := r.h.ctx.Hold()
	r.replaying = true
	fn()
	r.replaying = false
	hold.Release()
}

// CanPop reports whether a frame can be undone.
func (g *Graph) CanPop() bool { return len(g.h.undo.frames) > 0 }

// CanUnpop reports whether an undone frame can be redone.
func (g *Graph) CanUnpop() bool { return len(g.h.undo.redo) > 0 }

// CanPopThenUnpop reports whether the current frame can be undone and then
// redone.
func (g *Graph) CanPopThenUnpop() bool {
	f := g.h.undo.front()
	return f != nil && f.unpopAllowed
}
