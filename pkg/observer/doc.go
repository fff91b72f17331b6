// Package observer implements a synchronous event bus with batching.
//
// A [Subject] delivers events of one type to two kinds of subscribers:
//
//   - A [Listener] receives every event as soon as it is notified.
//   - An [Observer] receives events in batches. Without an outstanding hold
//     each batch holds a single event. While a [Context] is held, events are
//     queued and handed over in one call when the outermost hold is released.
//
// Several subjects share one [Context], so holding it batches every subject
// at once. Holds nest; each call to [Context.Hold] returns a [Hold] guard that
// must be released exactly once, typically with defer:
//
//	h := ctx.Hold()
//	defer h.Release()
//
// Delivery is in notification order for each subscriber. Nothing in this
// package is safe for concurrent use, and subscribers must not notify the
// subject that is calling them.
package observer
