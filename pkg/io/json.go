package io

import (
	"context"
	"io"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/matzehuels/hiergraph/pkg/dataset"
	"github.com/matzehuels/hiergraph/pkg/errors"
	"github.com/matzehuels/hiergraph/pkg/graph"
	"github.com/matzehuels/hiergraph/pkg/plugin"
)

const formatVersion = "1"

type file struct {
	Version string      `json:"version"`
	Nodes   int         `json:"nodes"`
	Edges   [][2]int    `json:"edges"`
	Graph   graphRecord `json:"graph"`
}

type graphRecord struct {
	ID         uint             `json:"id"`
	Nodes      []int            `json:"nodes,omitempty"`
	Edges      []int            `json:"edges,omitempty"`
	Attributes *dataset.DataSet `json:"attributes"`
	Properties []propertyRecord `json:"properties"`
	Subgraphs  []graphRecord    `json:"subgraphs"`
}

type propertyRecord struct {
	Name        string            `json:"name"`
	Type        string            `json:"type"`
	NodeDefault string            `json:"nodeDefault"`
	EdgeDefault string            `json:"edgeDefault"`
	Nodes       map[string]string `json:"nodes"`
	Edges       map[string]string `json:"edges"`
}

// jsonFormat is the native node-link format.
type jsonFormat struct{}

// ReadJSON decodes a hierarchy from r into the empty root graph into.
func ReadJSON(r io.Reader, into *graph.Graph) error {
	return jsonFormat{}.Import(context.Background(), r, into, plugin.NoopProgress{})
}

// WriteJSON encodes the hierarchy of g to w.
func WriteJSON(g *graph.Graph, w io.Writer) error {
	return jsonFormat{}.Export(context.Background(), w, g, plugin.NoopProgress{}, nil)
}

// =============================================================================
// Export
// =============================================================================

// encoder numbers the elements of a hierarchy by root position.
type encoder struct {
	root  *graph.Graph
	nodes map[graph.Node]int
	edges map[graph.Edge]int
}

func (jsonFormat) Export(ctx context.Context, w io.Writer, g *graph.Graph, progress plugin.Progress, params *dataset.DataSet) error {
	root := g.Root()
	enc := &encoder{
		root:  root,
		nodes: make(map[graph.Node]int, root.NumberOfNodes()),
		edges: make(map[graph.Edge]int, root.NumberOfEdges()),
	}
	out := file{
		Version: formatVersion,
		Nodes:   root.NumberOfNodes(),
		Edges:   make([][2]int, root.NumberOfEdges()),
	}
	for i, n := range root.Nodes() {
		enc.nodes[n] = i
	}
	for i, e := range root.Edges() {
		enc.edges[e] = i
		src, tgt := root.Ends(e)
		out.Edges[i] = [2]int{enc.nodes[src], enc.nodes[tgt]}
	}
	if err := step(ctx, progress, 1, 3); err != nil {
		return err
	}

	out.Graph = enc.graph(root)
	if err := step(ctx, progress, 2, 3); err != nil {
		return err
	}

	e := json.NewEncoder(w)
	if dataset.ValueOr(params, "indent", true) {
		e.SetIndent("", "  ")
	}
	if err := e.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode")
	}
	return step(ctx, progress, 3, 3)
}

func (enc *encoder) graph(g *graph.Graph) graphRecord {
	rec := graphRecord{
		ID:         g.ID(),
		Attributes: g.Attributes(),
		Properties: []propertyRecord{},
		Subgraphs:  []graphRecord{},
	}
	if dropped := rec.Attributes.Unsupported(); len(dropped) > 0 {
		g.Logger().Warn("attributes not saved", "graph", g.ID(), "keys", dropped)
	}
	if !g.IsRoot() {
		rec.Nodes = make([]int, 0, g.NumberOfNodes())
		for _, n := range g.Nodes() {
			rec.Nodes = append(rec.Nodes, enc.nodes[n])
		}
		rec.Edges = make([]int, 0, g.NumberOfEdges())
		for _, e := range g.Edges() {
			rec.Edges = append(rec.Edges, enc.edges[e])
		}
	}
	for _, name := range g.LocalProperties() {
		rec.Properties = append(rec.Properties, enc.property(g, g.LocalPropertyByName(name)))
	}
	for _, sg := range g.SubGraphs() {
		rec.Subgraphs = append(rec.Subgraphs, enc.graph(sg))
	}
	return rec
}

func (enc *encoder) property(g *graph.Graph, p graph.PropertyInterface) propertyRecord {
	rec := propertyRecord{
		Name:        p.Name(),
		Type:        p.Kind().String(),
		NodeDefault: p.NodeDefaultStringValue(),
		EdgeDefault: p.EdgeDefaultStringValue(),
		Nodes:       map[string]string{},
		Edges:       map[string]string{},
	}
	gp, isGraph := p.(*graph.GraphProperty)
	if isGraph {
		rec.EdgeDefault = enc.edgeList(gp.EdgeDefaultValue())
	}
	for _, n := range p.NonDefaultNodes(g) {
		rec.Nodes[strconv.Itoa(enc.nodes[n])] = p.NodeStringValue(n)
	}
	for _, e := range p.NonDefaultEdges(g) {
		v := p.EdgeStringValue(e)
		if isGraph {
			v = enc.edgeList(gp.EdgeValue(e))
		}
		rec.Edges[strconv.Itoa(enc.edges[e])] = v
	}
	return rec
}

func (enc *encoder) edgeList(edges []graph.Edge) string {
	pos := make([]int, 0, len(edges))
	for _, e := range edges {
		if i, ok := enc.edges[e]; ok {
			pos = append(pos, i)
		}
	}
	b, _ := json.Marshal(pos)
	return string(b)
}

// =============================================================================
// Import
// =============================================================================

type decoder struct {
	root   *graph.Graph
	nodes  []graph.Node
	edges  []graph.Edge
	graphs map[uint]*graph.Graph
}

func (jsonFormat) Import(ctx context.Context, r io.Reader, into *graph.Graph, progress plugin.Progress) error {
	var in file
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}
	if in.Version != formatVersion {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format version %q", in.Version)
	}
	if in.Nodes < 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "negative node count %d", in.Nodes)
	}
	if err := step(ctx, progress, 1, 4); err != nil {
		return err
	}

	hold := into.HoldObservers()
	defer hold.Release()

	dec := &decoder{root: into, graphs: map[uint]*graph.Graph{}}
	dec.nodes = into.AddNodes(in.Nodes)
	dec.edges = make([]graph.Edge, len(in.Edges))
	for i, ends := range in.Edges {
		src, err := dec.node(ends[0])
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "edge %d", i)
		}
		tgt, err := dec.node(ends[1])
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "edge %d", i)
		}
		dec.edges[i] = into.AddEdge(src, tgt)
	}
	if err := step(ctx, progress, 2, 4); err != nil {
		return err
	}

	if err := dec.structure(into, &in.Graph); err != nil {
		return err
	}
	if err := step(ctx, progress, 3, 4); err != nil {
		return err
	}
	if err := dec.properties(into, &in.Graph); err != nil {
		return err
	}
	return step(ctx, progress, 4, 4)
}

func (dec *decoder) node(pos int) (graph.Node, error) {
	if pos < 0 || pos >= len(dec.nodes) {
		return graph.NoNode, errors.New(errors.ErrCodeInvalidFormat, "node %d out of range", pos)
	}
	return dec.nodes[pos], nil
}

func (dec *decoder) edge(pos int) (graph.Edge, error) {
	if pos < 0 || pos >= len(dec.edges) {
		return graph.NoEdge, errors.New(errors.ErrCodeInvalidFormat, "edge %d out of range", pos)
	}
	return dec.edges[pos], nil
}

// structure creates the subgraphs of rec under g and fills in their
// elements and attributes.
func (dec *decoder) structure(g *graph.Graph, rec *graphRecord) error {
	if _, dup := dec.graphs[rec.ID]; dup {
		return errors.New(errors.ErrCodeInvalidFormat, "duplicate graph id %d", rec.ID)
	}
	dec.graphs[rec.ID] = g
	if rec.Attributes != nil {
		for k, v := range rec.Attributes.All() {
			g.SetAttribute(k, v)
		}
	}
	if !g.IsRoot() {
		for _, pos := range rec.Nodes {
			n, err := dec.node(pos)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "graph %d", rec.ID)
			}
			g.AddExistingNode(n)
		}
		for _, pos := range rec.Edges {
			e, err := dec.edge(pos)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "graph %d", rec.ID)
			}
			if !g.HasNode(dec.root.Source(e)) || !g.HasNode(dec.root.Target(e)) {
				return errors.New(errors.ErrCodeInvalidHierarchy, "graph %d: edge %d without its ends", rec.ID, pos)
			}
			if !g.Parent().HasEdge(e) {
				return errors.New(errors.ErrCodeInvalidHierarchy, "graph %d: edge %d missing from the parent", rec.ID, pos)
			}
			g.AddExistingEdge(e)
		}
	}
	for i := range rec.Subgraphs {
		sub := &rec.Subgraphs[i]
		for _, pos := range sub.Nodes {
			if n, err := dec.node(pos); err == nil && !g.HasNode(n) {
				return errors.New(errors.ErrCodeInvalidHierarchy, "graph %d: node %d missing from the parent", sub.ID, pos)
			}
		}
		if err := dec.structure(g.AddSubGraph(""), sub); err != nil {
			return err
		}
	}
	return nil
}

// properties restores the local properties of rec and of its subgraphs.
// It runs once every graph exists so graph values can be resolved.
func (dec *decoder) properties(g *graph.Graph, rec *graphRecord) error {
	for _, pr := range rec.Properties {
		if err := dec.property(g, pr); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "graph %d: property %q", rec.ID, pr.Name)
		}
	}
	for i, sg := range g.SubGraphs() {
		if err := dec.properties(sg, &rec.Subgraphs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (dec *decoder) property(g *graph.Graph, pr propertyRecord) error {
	kind, ok := graph.ParseKind(pr.Type)
	if !ok {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown type %q", pr.Type)
	}
	p, err := g.LocalPropertyOfKind(pr.Name, kind)
	if err != nil {
		return err
	}
	if gp, ok := p.(*graph.GraphProperty); ok {
		return dec.graphProperty(gp, pr)
	}
	if err := p.SetAllNodeStringValue(pr.NodeDefault); err != nil {
		return err
	}
	if err := p.SetAllEdgeStringValue(pr.EdgeDefault); err != nil {
		return err
	}
	for key, v := range pr.Nodes {
		n, err := dec.nodeKey(key)
		if err != nil {
			return err
		}
		if err := p.SetNodeStringValue(n, v); err != nil {
			return err
		}
	}
	for key, v := range pr.Edges {
		e, err := dec.edgeKey(key)
		if err != nil {
			return err
		}
		if err := p.SetEdgeStringValue(e, v); err != nil {
			return err
		}
	}
	return nil
}

func (dec *decoder) graphProperty(p *graph.GraphProperty, pr propertyRecord) error {
	def, err := dec.graphValue(pr.NodeDefault)
	if err != nil {
		return err
	}
	p.SetAllNodeValue(def)
	defEdges, err := dec.edgeList(pr.EdgeDefault)
	if err != nil {
		return err
	}
	p.SetAllEdgeValue(defEdges)
	for key, v := range pr.Nodes {
		n, err := dec.nodeKey(key)
		if err != nil {
			return err
		}
		sg, err := dec.graphValue(v)
		if err != nil {
			return err
		}
		p.SetNodeValue(n, sg)
	}
	for key, v := range pr.Edges {
		e, err := dec.edgeKey(key)
		if err != nil {
			return err
		}
		edges, err := dec.edgeList(v)
		if err != nil {
			return err
		}
		p.SetEdgeValue(e, edges)
	}
	return nil
}

// graphValue resolves a graph id of the file. Id 0 is the root, which as
// a value means no graph.
func (dec *decoder) graphValue(s string) (*graph.Graph, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, nil
	}
	sg, ok := dec.graphs[uint(id)]
	if !ok {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, graph.ErrNoSuchGraph, "graph id %d", id)
	}
	return sg, nil
}

func (dec *decoder) edgeList(s string) ([]graph.Edge, error) {
	if s == "" {
		return nil, nil
	}
	var pos []int
	if err := json.Unmarshal([]byte(s), &pos); err != nil {
		return nil, err
	}
	if len(pos) == 0 {
		return nil, nil
	}
	edges := make([]graph.Edge, len(pos))
	for i, p := range pos {
		e, err := dec.edge(p)
		if err != nil {
			return nil, err
		}
		edges[i] = e
	}
	return edges, nil
}

func (dec *decoder) nodeKey(key string) (graph.Node, error) {
	pos, err := strconv.Atoi(key)
	if err != nil {
		return graph.NoNode, err
	}
	return dec.node(pos)
}

func (dec *decoder) edgeKey(key string) (graph.Edge, error) {
	pos, err := strconv.Atoi(key)
	if err != nil {
		return graph.NoEdge, err
	}
	return dec.edge(pos)
}

func step(ctx context.Context, progress plugin.Progress, i, n int) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeCancelled, err, "cancelled")
	}
	if progress.Progress(i, n) == plugin.Cancel {
		return errors.Wrap(errors.ErrCodeCancelled, plugin.ErrCancelled, "cancelled")
	}
	return nil
}
