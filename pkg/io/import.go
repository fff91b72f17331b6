package io

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"time"

	"github.com/matzehuels/hiergraph/pkg/errors"
	"github.com/matzehuels/hiergraph/pkg/graph"
	"github.com/matzehuels/hiergraph/pkg/observability"
	"github.com/matzehuels/hiergraph/pkg/plugin"
)

// LoadGraph reads the hierarchy stored at path, choosing the format from
// the file extension.
//
// When into is nil a new root graph is created. Otherwise into must be a
// root; it is cleared and the hierarchy is loaded into it. Progress may be
// nil.
//
// LoadGraph returns an error coded [errors.ErrCodeFileNotFound] when path
// does not exist, [errors.ErrCodeUnsupported] for an unknown extension and
// [errors.ErrCodeInvalidFormat] when the content cannot be decoded.
func LoadGraph(ctx context.Context, path string, progress plugin.Progress, into *graph.Graph) (g *graph.Graph, err error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := lookup(path)
	if err != nil {
		return nil, err
	}
	if f.imp == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "format %q cannot be read", f.name)
	}
	if into != nil && !into.IsRoot() {
		return nil, errors.Wrap(errors.ErrCodeInvalidHierarchy, graph.ErrRootGraph, "load into %v", into)
	}
	if progress == nil {
		progress = plugin.NoopProgress{}
	}

	start := time.Now()
	g = into
	defer func() {
		nodes, edges := 0, 0
		if g != nil {
			nodes, edges = g.NumberOfNodes(), g.NumberOfEdges()
		}
		observability.IO().OnLoad(ctx, f.name, path, nodes, edges, time.Since(start), err)
	}()

	file, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer file.Close()

	if g == nil {
		g = graph.New()
	} else {
		g.Clear()
	}
	if err := f.imp.Import(ctx, file, g, progress); err != nil {
		g = nil
		return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInvalidFormat), err, "load %s", path)
	}
	g.Logger().Debug("graph loaded", "path", path, "format", f.name,
		"nodes", g.NumberOfNodes(), "edges", g.NumberOfEdges(), "graphs", g.NumberOfDescendantGraphs()+1)
	return g, nil
}
