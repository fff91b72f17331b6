// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about undo transactions, algorithm runs, and graph files.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the engine free of observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, ...)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetAlgorithmHooks(&myAlgorithmHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	ctx = observability.Algorithm().OnAlgorithmStart(ctx, name, graphID)
//	// ... run the algorithm ...
//	observability.Algorithm().OnAlgorithmComplete(ctx, name, graphID, duration, err)
//
// Undo hooks carry no context: the graph engine is synchronous and never
// receives one.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Undo Hooks
// =============================================================================

// UndoHooks receives events from the undo/redo log of a graph hierarchy.
// Frames are identified by the uuid string assigned when they are opened.
type UndoHooks interface {
	// OnPush records a new recording frame.
	OnPush(frame string, depth int)

	// OnPop records an undone frame and the number of changes it reverted.
	OnPop(frame string, changes int, redoable bool)

	// OnUnpop records a redone frame.
	OnUnpop(frame string, changes int)
}

// =============================================================================
// Algorithm Hooks
// =============================================================================

// AlgorithmHooks receives events from algorithm runs.
type AlgorithmHooks interface {
	// OnAlgorithmStart records the start of a run. The returned context is
	// passed to the algorithm and to OnAlgorithmComplete.
	OnAlgorithmStart(ctx context.Context, name string, graphID uint) context.Context

	// OnAlgorithmComplete records the end of a run. err is nil on success.
	OnAlgorithmComplete(ctx context.Context, name string, graphID uint, duration time.Duration, err error)
}

// =============================================================================
// IO Hooks
// =============================================================================

// IOHooks receives events from graph file import and export.
type IOHooks interface {
	// OnLoad records a graph read from path by the named format module.
	OnLoad(ctx context.Context, format, path string, nodes, edges int, duration time.Duration, err error)

	// OnSave records a graph written to path.
	OnSave(ctx context.Context, format, path string, nodes, edges int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopUndoHooks is a no-op implementation of UndoHooks.
type NoopUndoHooks struct{}

func (NoopUndoHooks) OnPush(string, int)      {}
func (NoopUndoHooks) OnPop(string, int, bool) {}
func (NoopUndoHooks) OnUnpop(string, int)     {}

// NoopAlgorithmHooks is a no-op implementation of AlgorithmHooks.
type NoopAlgorithmHooks struct{}

func (NoopAlgorithmHooks) OnAlgorithmStart(ctx context.Context, _ string, _ uint) context.Context {
	return ctx
}
func (NoopAlgorithmHooks) OnAlgorithmComplete(context.Context, string, uint, time.Duration, error) {}

// NoopIOHooks is a no-op implementation of IOHooks.
type NoopIOHooks struct{}

func (NoopIOHooks) OnLoad(context.Context, string, string, int, int, time.Duration, error) {}
func (NoopIOHooks) OnSave(context.Context, string, string, int, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	undoHooks      UndoHooks      = NoopUndoHooks{}
	algorithmHooks AlgorithmHooks = NoopAlgorithmHooks{}
	ioHooks        IOHooks        = NoopIOHooks{}
	hooksMu        sync.RWMutex
)

// SetUndoHooks registers custom undo hooks.
// This should be called once at application startup before any graph is built.
func SetUndoHooks(h UndoHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		undoHooks = h
	}
}

// SetAlgorithmHooks registers custom algorithm hooks.
// This should be called once at application startup before any algorithm runs.
func SetAlgorithmHooks(h AlgorithmHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		algorithmHooks = h
	}
}

// SetIOHooks registers custom io hooks.
// This should be called once at application startup before any graph file is read.
func SetIOHooks(h IOHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		ioHooks = h
	}
}

// Undo returns the registered undo hooks.
func Undo() UndoHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return undoHooks
}

// Algorithm returns the registered algorithm hooks.
func Algorithm() AlgorithmHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return algorithmHooks
}

// IO returns the registered io hooks.
func IO() IOHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return ioHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	undoHooks = NoopUndoHooks{}
	algorithmHooks = NoopAlgorithmHooks{}
	ioHooks = NoopIOHooks{}
}
