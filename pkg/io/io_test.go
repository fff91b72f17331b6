package io

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-test/deep"

	"github.com/matzehuels/hiergraph/pkg/errors"
	"github.com/matzehuels/hiergraph/pkg/graph"
	"github.com/matzehuels/hiergraph/pkg/observability"
	"github.com/matzehuels/hiergraph/pkg/plugin"
	"github.com/matzehuels/hiergraph/pkg/value"
)

func newTestGraph() *graph.Graph {
	return graph.New(graph.WithLogger(log.New(io.Discard)), graph.WithName("root"))
}

// sample builds a hierarchy exercising every part of the format.
func sample(t *testing.T) *graph.Graph {
	t.Helper()
	g := newTestGraph()
	n := g.AddNodes(6)
	e := g.AddEdges([][2]graph.Node{{n[0], n[1]}, {n[1], n[2]}, {n[2], n[3]}, {n[3], n[4]}, {n[4], n[0]}, {n[5], n[5]}})
	// Leave a hole in the id space.
	g.DelNode(n[5], true)

	metric, _ := g.DoubleProperty("viewMetric")
	metric.SetNodeValue(n[0], 4.2)
	metric.SetAllEdgeValue(1.5)
	label, _ := g.StringProperty("viewLabel")
	label.SetEdgeValue(e[1], "b \"quoted\"")
	color, _ := g.ColorProperty("viewColor")
	color.SetNodeValue(n[3], value.Color{R: 1, G: 2, B: 3, A: 4})
	layout, _ := g.LayoutProperty("viewLayout")
	layout.SetNodeValue(n[2], value.Coord{X: 1, Y: -2, Z: 0.5})
	layout.SetEdgeValue(e[0], []value.Coord{{X: 3}})

	g.SetAttribute("author", "me")
	g.SetAttribute("weight", 2.5)

	s := g.AddSubGraph("S")
	s.AddExistingNodes([]graph.Node{n[0], n[1], n[2]})
	s.AddExistingEdge(e[0])
	local, _ := s.LocalIntegerProperty("rank")
	local.SetNodeValue(n[1], 7)
	inner := s.AddSubGraph("inner")
	inner.AddExistingNode(n[1])

	clone := g.AddCloneSubGraph("clone", false, false)
	if _, err := clone.CreateMetaNode([]graph.Node{n[3], n[4]}, true, false); err != nil {
		t.Fatal(err)
	}
	return g
}

type graphSnap struct {
	Name  string
	Nodes []int
	Edges []int
	Attrs map[string]any
	Props map[string]map[string]string
	Subs  []graphSnap
}

type hierarchySnap struct {
	Ends [][2]int
	Root graphSnap
}

func snapshot(g *graph.Graph) hierarchySnap {
	root := g.Root()
	s := hierarchySnap{Ends: [][2]int{}}
	for _, e := range root.Edges() {
		src, tgt := root.Ends(e)
		s.Ends = append(s.Ends, [2]int{root.NodePos(src), root.NodePos(tgt)})
	}
	s.Root = snapGraph(root)
	return s
}

func snapGraph(g *graph.Graph) graphSnap {
	root := g.Root()
	s := graphSnap{
		Name:  g.Name(),
		Nodes: []int{},
		Edges: []int{},
		Attrs: map[string]any{},
		Props: map[string]map[string]string{},
		Subs:  []graphSnap{},
	}
	for _, n := range g.Nodes() {
		s.Nodes = append(s.Nodes, root.NodePos(n))
	}
	for _, e := range g.Edges() {
		s.Edges = append(s.Edges, root.EdgePos(e))
	}
	for k, v := range g.Attributes().All() {
		s.Attrs[k] = v
	}
	for _, name := range g.LocalProperties() {
		p := g.LocalPropertyByName(name)
		vals := map[string]string{"kind": p.Kind().String()}
		gp, isGraph := p.(*graph.GraphProperty)
		for _, n := range g.Nodes() {
			v := p.NodeStringValue(n)
			if isGraph {
				v = "none"
				if sg := gp.NodeValue(n); sg != nil {
					v = "graph " + sg.Name()
				}
			}
			vals["n"+strconv.Itoa(root.NodePos(n))] = v
		}
		for _, e := range g.Edges() {
			v := p.EdgeStringValue(e)
			if isGraph {
				var pos []string
				for _, x := range gp.EdgeValue(e) {
					pos = append(pos, strconv.Itoa(root.EdgePos(x)))
				}
				v = strings.Join(pos, ",")
			}
			vals["e"+strconv.Itoa(root.EdgePos(e))] = v
		}
		s.Props[name] = vals
	}
	for _, sg := range g.SubGraphs() {
		s.Subs = append(s.Subs, snapGraph(sg))
	}
	return s
}

func TestRoundTrip(t *testing.T) {
	g := sample(t)
	path := filepath.Join(t.TempDir(), "sample.json")
	ctx := context.Background()

	if err := SaveGraph(ctx, g, path, nil, nil); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadGraph(ctx, path, nil, newTestGraph())
	if err != nil {
		t.Fatal(err)
	}

	if diff := deep.Equal(snapshot(loaded), snapshot(g)); diff != nil {
		t.Errorf("loaded hierarchy differs:\n%s", strings.Join(diff, "\n"))
	}
	if loaded.NumberOfDescendantGraphs() != g.NumberOfDescendantGraphs() {
		t.Errorf("got %d graphs, want %d", loaded.NumberOfDescendantGraphs(), g.NumberOfDescendantGraphs())
	}

	// The meta node still opens after a round trip.
	clone := loaded.SubGraphByName("clone")
	var meta graph.Node = graph.NoNode
	for _, n := range clone.Nodes() {
		if clone.IsMetaNode(n) {
			meta = n
		}
	}
	if !meta.IsValid() {
		t.Fatal("meta node lost")
	}
	if err := clone.OpenMetaNode(meta, true); err != nil {
		t.Fatal(err)
	}
	if clone.NumberOfNodes() != 5 {
		t.Errorf("opened clone has %d nodes, want 5", clone.NumberOfNodes())
	}
}

func TestSaveSubGraphWritesHierarchy(t *testing.T) {
	g := sample(t)
	var b strings.Builder
	if err := WriteJSON(g.SubGraphByName("S"), &b); err != nil {
		t.Fatal(err)
	}
	loaded := newTestGraph()
	if err := ReadJSON(strings.NewReader(b.String()), loaded); err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(snapshot(loaded), snapshot(g)); diff != nil {
		t.Errorf("loaded hierarchy differs:\n%s", strings.Join(diff, "\n"))
	}
}

func TestReadDocumentedExample(t *testing.T) {
	const doc = `{
	  "version": "1",
	  "nodes": 3,
	  "edges": [[0, 1], [1, 2]],
	  "graph": {
	    "id": 0,
	    "attributes": {"name": {"type": "string", "value": "root"}},
	    "properties": [
	      {"name": "viewMetric", "type": "double", "nodeDefault": "0", "edgeDefault": "0",
	       "nodes": {"0": "4.2"}, "edges": {}}
	    ],
	    "subgraphs": [
	      {"id": 1, "nodes": [0, 1], "edges": [0], "attributes": {}, "properties": [], "subgraphs": []}
	    ]
	  }
	}`
	g := newTestGraph()
	if err := ReadJSON(strings.NewReader(doc), g); err != nil {
		t.Fatal(err)
	}
	if g.NumberOfNodes() != 3 || g.NumberOfEdges() != 2 || g.NumberOfSubGraphs() != 1 {
		t.Fatalf("got %d nodes, %d edges, %d subgraphs", g.NumberOfNodes(), g.NumberOfEdges(), g.NumberOfSubGraphs())
	}
	sg := g.SubGraphs()[0]
	if sg.NumberOfNodes() != 2 || sg.NumberOfEdges() != 1 {
		t.Errorf("subgraph has %d nodes, %d edges", sg.NumberOfNodes(), sg.NumberOfEdges())
	}
	metric, err := g.LocalDoubleProperty("viewMetric")
	if err != nil {
		t.Fatal(err)
	}
	if got := metric.NodeValue(g.Nodes()[0]); got != 4.2 {
		t.Errorf("viewMetric(0) = %v, want 4.2", got)
	}
}

func TestLoadInto(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.json")
	if err := SaveGraph(context.Background(), sample(t), path, nil, nil); err != nil {
		t.Fatal(err)
	}

	into := newTestGraph()
	into.AddNodes(10)
	into.AddSubGraph("old")
	got, err := LoadGraph(context.Background(), path, nil, into)
	if err != nil {
		t.Fatal(err)
	}
	if got != into {
		t.Error("LoadGraph did not return the target graph")
	}
	// Five nodes and one meta node.
	if into.NumberOfNodes() != 6 || into.SubGraphByName("old") != nil {
		t.Errorf("target not cleared: %d nodes, subgraphs %v", into.NumberOfNodes(), into.SubGraphs())
	}

	_, err = LoadGraph(context.Background(), path, nil, into.SubGraphByName("S"))
	if !errors.Is(err, errors.ErrCodeInvalidHierarchy) {
		t.Errorf("load into subgraph: got %v", err)
	}

	fresh, err := LoadGraph(context.Background(), path, nil, nil)
	if err != nil || fresh.NumberOfNodes() != 6 {
		t.Errorf("load into new graph: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing", filepath.Join(dir, "nope.json"), errors.ErrCodeFileNotFound},
		{"extension", write("g.dot", "digraph {}"), errors.ErrCodeUnsupported},
		{"empty path", "", errors.ErrCodeInvalidPath},
		{"malformed", write("bad.json", "{"), errors.ErrCodeInvalidFormat},
		{"version", write("v.json", `{"version": "9", "nodes": 0, "edges": [], "graph": {}}`), errors.ErrCodeInvalidFormat},
		{"edge range", write("e.json", `{"version": "1", "nodes": 1, "edges": [[0, 3]], "graph": {}}`), errors.ErrCodeInvalidFormat},
		{"kind", write("k.json", `{"version": "1", "nodes": 1, "edges": [],
			"graph": {"properties": [{"name": "p", "type": "matrix"}]}}`), errors.ErrCodeInvalidFormat},
		{"value", write("x.json", `{"version": "1", "nodes": 1, "edges": [],
			"graph": {"properties": [{"name": "p", "type": "int", "nodeDefault": "zero", "edgeDefault": "0"}]}}`), errors.ErrCodeInvalidFormat},
		{"orphan edge", write("o.json", `{"version": "1", "nodes": 2, "edges": [[0, 1]],
			"graph": {"subgraphs": [{"id": 1, "nodes": [0], "edges": [0]}]}}`), errors.ErrCodeInvalidHierarchy},
		{"graph value", write("gv.json", `{"version": "1", "nodes": 1, "edges": [],
			"graph": {"properties": [{"name": "m", "type": "graph", "nodeDefault": "0", "edgeDefault": "[]",
			"nodes": {"0": "4"}}]}}`), errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := LoadGraph(context.Background(), tt.path, nil, nil)
			if !errors.Is(err, tt.code) {
				t.Errorf("got %v, want code %s", err, tt.code)
			}
			if g != nil {
				t.Error("failed load returned a graph")
			}
		})
	}
}

func TestCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.json")
	p := &plugin.SimpleProgress{}
	p.Cancel()
	err := SaveGraph(context.Background(), sample(t), path, p, nil)
	if !errors.Is(err, errors.ErrCodeCancelled) {
		t.Errorf("got %v, want %s", err, errors.ErrCodeCancelled)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("cancelled save left a file")
	}
}

type ioRecorder struct {
	observability.NoopIOHooks
	loads, saves []string
	nodes        int
}

func (h *ioRecorder) OnLoad(_ context.Context, format, _ string, nodes, _ int, _ time.Duration, err error) {
	if err == nil {
		h.nodes = nodes
	}
	h.loads = append(h.loads, format)
}

func (h *ioRecorder) OnSave(_ context.Context, format, _ string, _, _ int, _ time.Duration, _ error) {
	h.saves = append(h.saves, format)
}

func TestIOHooks(t *testing.T) {
	hooks := &ioRecorder{}
	observability.SetIOHooks(hooks)
	t.Cleanup(observability.Reset)

	path := filepath.Join(t.TempDir(), "g.json")
	if err := SaveGraph(context.Background(), sample(t), path, nil, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGraph(context.Background(), path, nil, nil); err != nil {
		t.Fatal(err)
	}
	if len(hooks.saves) != 1 || len(hooks.loads) != 1 || hooks.loads[0] != "json" || hooks.nodes != 6 {
		t.Errorf("hooks saw saves %v, loads %v, nodes %d", hooks.saves, hooks.loads, hooks.nodes)
	}
}

func TestExtensions(t *testing.T) {
	if got := Extensions(); len(got) == 0 || got[0] != ".json" {
		t.Errorf("Extensions() = %v", got)
	}
}
