package io

import (
	"context"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/hiergraph/pkg/dataset"
	"github.com/matzehuels/hiergraph/pkg/errors"
	"github.com/matzehuels/hiergraph/pkg/graph"
	"github.com/matzehuels/hiergraph/pkg/plugin"
)

// Importer reads a hierarchy into an empty root graph.
type Importer interface {
	Import(ctx context.Context, r io.Reader, into *graph.Graph, progress plugin.Progress) error
}

// Exporter writes a hierarchy.
type Exporter interface {
	Export(ctx context.Context, w io.Writer, g *graph.Graph, progress plugin.Progress, params *dataset.DataSet) error
}

type format struct {
	name string
	imp  Importer
	exp  Exporter
}

var (
	formatsMu sync.RWMutex
	formats   = map[string]*format{}
)

func entry(ext string) *format {
	ext = strings.ToLower(ext)
	f, ok := formats[ext]
	if !ok {
		f = &format{}
		formats[ext] = f
	}
	return f
}

// RegisterImport makes imp read files with extension ext, such as ".json".
// It replaces any importer registered for ext.
func RegisterImport(ext, name string, imp Importer) {
	formatsMu.Lock()
	defer formatsMu.Unlock()
	f := entry(ext)
	f.name, f.imp = name, imp
}

// RegisterExport makes exp write files with extension ext.
func RegisterExport(ext, name string, exp Exporter) {
	formatsMu.Lock()
	defer formatsMu.Unlock()
	f := entry(ext)
	f.name, f.exp = name, exp
}

// Extensions returns the registered extensions in sorted order.
func Extensions() []string {
	formatsMu.RLock()
	defer formatsMu.RUnlock()
	exts := make([]string, 0, len(formats))
	for ext := range formats {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

func lookup(path string) (*format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	formatsMu.RLock()
	defer formatsMu.RUnlock()
	f, ok := formats[ext]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "no graph format for extension %q", ext)
	}
	cp := *f
	return &cp, nil
}

func init() {
	RegisterImport(".json", "json", jsonFormat{})
	RegisterExport(".json", "json", jsonFormat{})
}
