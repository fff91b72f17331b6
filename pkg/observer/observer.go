package observer

import "slices"

// Listener receives events synchronously.
type Listener[E any] interface {
	HandleEvent(E)
}

// Observer receives events in batches.
type Observer[E any] interface {
	HandleEvents([]E)
}

// Context is the hold counter shared by a group of subjects. While held, it
// keeps one queue per observer across all of its subjects, so each observer
// sees its events in notification order.
type Context struct {
	holds  int
	queues []deliverer
	index  map[queueKey]deliverer
}

type deliverer interface {
	deliver()
}

// queueKey tells apart one observer value subscribed for several event types.
type queueKey struct {
	obs  any
	kind any
}

type queued[E any] struct {
	from *Subject[E]
	e    E
}

type observerQueue[E any] struct {
	obs    Observer[E]
	events []queued[E]
}

// deliver sends the events whose subject still has the observer.
func (q *observerQueue[E]) deliver() {
	batch := make([]E, 0, len(q.events))
	for _, ev := range q.events {
		if slices.Contains(ev.from.observers, q.obs) {
			batch = append(batch, ev.e)
		}
	}
	if len(batch) > 0 {
		q.obs.HandleEvents(batch)
	}
}

// NewContext returns a context with no outstanding hold.
func NewContext() *Context { return &Context{} }

// Hold starts batching observer delivery for every subject on c.
func (c *Context) Hold() *Hold {
	c.holds++
	return &Hold{ctx: c}
}

// Held reports whether at least one hold is outstanding.
func (c *Context) Held() bool { return c.holds > 0 }

// Holds returns the number of outstanding holds.
func (c *Context) Holds() int { return c.holds }

func (c *Context) release() {
	if c.holds == 0 {
		return
	}
	c.holds--
	if c.holds > 0 {
		return
	}
	// An observer may hold and notify again from HandleEvents; keep draining.
	for len(c.queues) > 0 {
		qs := c.queues
		c.queues, c.index = nil, nil
		for _, q := range qs {
			q.deliver()
		}
	}
}

func enqueue[E any](c *Context, s *Subject[E], o Observer[E], e E) {
	key := queueKey{obs: o, kind: (*E)(nil)}
	q, ok := c.index[key].(*observerQueue[E])
	if !ok {
		q = &observerQueue[E]{obs: o}
		if c.index == nil {
			c.index = make(map[queueKey]deliverer)
		}
		c.index[key] = q
		c.queues = append(c.queues, q)
	}
	q.events = append(q.events, queued[E]{from: s, e: e})
}

// Hold is a guard returned by [Context.Hold].
type Hold struct {
	ctx *Context
}

// Release drops the hold. Only the first call has an effect.
func (h *Hold) Release() {
	if h == nil || h.ctx == nil {
		return
	}
	c := h.ctx
	h.ctx = nil
	c.release()
}

// Subject dispatches events of type E.
type Subject[E any] struct {
	ctx       *Context
	listeners []Listener[E]
	observers []Observer[E]
}

// NewSubject returns a subject bound to ctx. A nil ctx gives the subject a
// private context.
func NewSubject[E any](ctx *Context) *Subject[E] {
	if ctx == nil {
		ctx = NewContext()
	}
	return &Subject[E]{ctx: ctx}
}

// Context returns the hold context of s.
func (s *Subject[E]) Context() *Context { return s.ctx }

// AddListener subscribes l. Adding the same listener twice has no effect.
// Subscribers are compared with ==, so they should be pointers.
func (s *Subject[E]) AddListener(l Listener[E]) {
	if !slices.Contains(s.listeners, l) {
		s.listeners = append(s.listeners, l)
	}
}

// RemoveListener unsubscribes l.
func (s *Subject[E]) RemoveListener(l Listener[E]) {
	if i := slices.Index(s.listeners, l); i >= 0 {
		s.listeners = slices.Delete(s.listeners, i, i+1)
	}
}

// AddObserver subscribes o. Adding the same observer twice has no effect.
func (s *Subject[E]) AddObserver(o Observer[E]) {
	if !slices.Contains(s.observers, o) {
		s.observers = append(s.observers, o)
	}
}

// RemoveObserver unsubscribes o. Events queued for o but not yet delivered
// are dropped.
func (s *Subject[E]) RemoveObserver(o Observer[E]) {
	if i := slices.Index(s.observers, o); i >= 0 {
		s.observers = slices.Delete(s.observers, i, i+1)
	}
}

// Listeners returns the number of listeners.
func (s *Subject[E]) Listeners() int { return len(s.listeners) }

// Observers returns the number of observers.
func (s *Subject[E]) Observers() int { return len(s.observers) }

// HasSubscribers reports whether anyone would receive a notification.
func (s *Subject[E]) HasSubscribers() bool {
	return len(s.listeners) > 0 || len(s.observers) > 0
}

// Notify dispatches e.
func (s *Subject[E]) Notify(e E) {
	// Iterate over copies so that subscribers may unsubscribe themselves.
	for _, l := range slices.Clone(s.listeners) {
		l.HandleEvent(e)
	}
	if len(s.observers) == 0 {
		return
	}
	if s.ctx.Held() {
		for _, o := range s.observers {
			enqueue(s.ctx, s, o, e)
		}
		return
	}
	batch := []E{e}
	for _, o := range slices.Clone(s.observers) {
		o.HandleEvents(batch)
	}
}
