// Package plugin runs named graph algorithms.
//
// Algorithms are registered in a [Registry] under a unique name together
// with an [Info] describing them. A general algorithm mutates the graph it
// is applied to; a property algorithm writes its output into a result
// property whose kind is given by [Info.Result].
//
// # Running
//
// [ApplyAlgorithm] and [ApplyPropertyAlgorithm] look the algorithm up,
// check it, and run it inside an undo frame:
//
//	err := plugin.ApplyPropertyAlgorithm(ctx, g, "Degree", metric, nil, nil)
//
// When the run fails, is cancelled through its [Progress], or its context
// is done, the frame is popped and the graph is left as it was. A
// successful run leaves the frame in place, so [graph.Graph.Pop] undoes it.
//
// # Progress
//
// Algorithms report progress through [Context.Step], which also turns a
// cancelled context or a [Cancel] request into an error. A [Stop] request
// ends the run early but keeps what it computed.
//
// Built-in algorithms live in pkg/plugin/builtin and are added to a
// registry with builtin.Register.
package plugin
