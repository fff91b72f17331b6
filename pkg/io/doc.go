// Package io loads and saves graph hierarchies.
//
// # Overview
//
// [LoadGraph] and [SaveGraph] pick a format from the file extension. Formats
// are registered with [RegisterImport] and [RegisterExport]; the package
// ships the "json" node-link format, registered for ".json".
//
//	g, err := io.LoadGraph(ctx, "network.json", nil, nil)
//	if err != nil {
//	    return err
//	}
//	defer func() { _ = io.SaveGraph(ctx, g, "copy.json", nil, nil) }()
//
// When LoadGraph is given a graph to load into, that graph is cleared first
// and must be a root.
//
// # JSON Format
//
// The file describes the whole hierarchy. Nodes and edges are numbered by
// their position in the root graph:
//
//	{
//	  "version": "1",
//	  "nodes": 3,
//	  "edges": [[0, 1], [1, 2]],
//	  "graph": {
//	    "id": 0,
//	    "attributes": {"name": {"type": "string", "value": "root"}},
//	    "properties": [
//	      {"name": "viewMetric", "type": "double", "nodeDefault": "0", "edgeDefault": "0",
//	       "nodes": {"0": "4.2"}, "edges": {}}
//	    ],
//	    "subgraphs": [
//	      {"id": 1, "nodes": [0, 1], "edges": [0], "attributes": {}, "properties": [], "subgraphs": []}
//	    ]
//	  }
//	}
//
// Each graph lists its local properties. Values are written as their
// string form (see [graph.PropertyInterface]) except for graph properties:
// their node values are the ids of graphs in the file and their edge values
// are lists of edge positions. Graph ids in a file are only meaningful
// within it; a loaded hierarchy numbers its graphs afresh.
//
// Attributes are encoded by [dataset.DataSet]; values of types it cannot
// encode are dropped with a warning.
//
// # Concurrency
//
// Loading and saving read or write the graph from the calling goroutine
// only. The graph must not be modified concurrently.
package io
