package io

import (
	"context"
	"os"
	"time"

	"github.com/matzehuels/hiergraph/pkg/dataset"
	"github.com/matzehuels/hiergraph/pkg/errors"
	"github.com/matzehuels/hiergraph/pkg/graph"
	"github.com/matzehuels/hiergraph/pkg/observability"
	"github.com/matzehuels/hiergraph/pkg/plugin"
)

// SaveGraph writes the hierarchy of g to path, choosing the format from
// the file extension. The whole hierarchy is written even when g is a
// subgraph. Progress and params may be nil.
//
// The file is written to a temporary name next to path and renamed once
// complete, so a failed save leaves any previous file in place.
func SaveGraph(ctx context.Context, g *graph.Graph, path string, progress plugin.Progress, params *dataset.DataSet) (err error) {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := lookup(path)
	if err != nil {
		return err
	}
	if f.exp == nil {
		return errors.New(errors.ErrCodeUnsupported, "format %q cannot be written", f.name)
	}
	if progress == nil {
		progress = plugin.NoopProgress{}
	}

	start := time.Now()
	root := g.Root()
	defer func() {
		observability.IO().OnSave(ctx, f.name, path, root.NumberOfNodes(), root.NumberOfEdges(), time.Since(start), err)
	}()

	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	if err := f.exp.Export(ctx, file, g, progress, params); err != nil {
		file.Close()
		os.Remove(tmp)
		return errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeIO), err, "save %s", path)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeIO, err, "rename %s", path)
	}
	g.Logger().Debug("graph saved", "path", path, "format", f.name,
		"nodes", root.NumberOfNodes(), "edges", root.NumberOfEdges())
	return nil
}
