package builtin

import (
	"github.com/matzehuels/hiergraph/pkg/graph"
	"github.com/matzehuels/hiergraph/pkg/plugin"
)

// Algorithm names.
const (
	Degree             = "Degree"
	ConnectedComponent = "Connected Component"
	StrongComponent    = "Strongly Connected Component"
	DagLevel           = "Dag Level"
	ID                 = "Id"
	ReachableSubGraph  = "Reachable Sub Graph"
	ReverseEdges       = "Reverse Edges"
	EqualValue         = "Equal Value"
	CompleteGraph      = "Complete Graph"
)

const (
	categoryMetric    = "Metric"
	categorySelection = "Selection"
	categoryStructure = "Structure"
	categoryGenerator = "Generator"
)

var algorithms = []struct {
	info    plugin.Info
	factory plugin.Factory
}{
	{plugin.Info{
		Name:     Degree,
		Category: categoryMetric,
		Help:     "Assigns to each node its degree.",
		Result:   graph.KindDouble,
		Params: []plugin.Param{
			{Name: "type", Help: "edges to count: in, out or inout", Default: "inout"},
			{Name: "norm", Help: "divide by the largest possible degree", Default: "false"},
			{Name: "workers", Help: "parallel workers, 0 for one per CPU", Default: "0"},
		},
	}, func() plugin.Algorithm { return &degree{} }},
	{plugin.Info{
		Name:     ConnectedComponent,
		Category: categoryMetric,
		Help:     "Assigns to nodes and edges the index of their connected component.",
		Result:   graph.KindDouble,
	}, func() plugin.Algorithm { return &components{} }},
	{plugin.Info{
		Name:     StrongComponent,
		Category: categoryMetric,
		Help:     "Assigns to nodes the index of their strongly connected component.",
		Result:   graph.KindDouble,
	}, func() plugin.Algorithm { return &components{strong: true} }},
	{plugin.Info{
		Name:     DagLevel,
		Category: categoryMetric,
		Help:     "Assigns to each node its level in an acyclic graph.",
		Result:   graph.KindDouble,
	}, func() plugin.Algorithm { return &dagLevel{} }},
	{plugin.Info{
		Name:     ID,
		Category: categoryMetric,
		Help:     "Assigns to nodes and edges their id.",
		Result:   graph.KindInteger,
	}, func() plugin.Algorithm { return &ids{} }},
	{plugin.Info{
		Name:     ReachableSubGraph,
		Category: categorySelection,
		Help:     "Selects the nodes within a distance of the starting nodes.",
		Result:   graph.KindBoolean,
		Params: []plugin.Param{
			{Name: "edge direction", Help: "output, input or all", Default: "output"},
			{Name: "starting nodes", Help: "boolean property selecting the start nodes", Default: "viewSelection"},
			{Name: "distance", Help: "maximal distance from a start node", Default: "5"},
		},
	}, func() plugin.Algorithm { return &reachable{} }},
	{plugin.Info{
		Name:     ReverseEdges,
		Category: categoryStructure,
		Help:     "Reverses the selected edges, or all edges.",
		Params: []plugin.Param{
			{Name: "selection", Help: "boolean property selecting the edges"},
		},
	}, func() plugin.Algorithm { return &reverseEdges{} }},
	{plugin.Info{
		Name:     EqualValue,
		Category: categoryStructure,
		Help:     "Creates one subgraph per distinct value of a property.",
		Params: []plugin.Param{
			{Name: "property", Help: "property to partition on", Default: "viewMetric"},
			{Name: "type", Help: "partition nodes or edges", Default: "nodes"},
		},
	}, func() plugin.Algorithm { return &equalValue{} }},
	{plugin.Info{
		Name:     CompleteGraph,
		Category: categoryGenerator,
		Help:     "Adds a complete graph.",
		Params: []plugin.Param{
			{Name: "nodes", Help: "number of nodes", Default: "5"},
			{Name: "directed", Help: "add both edge directions", Default: "false"},
		},
	}, func() plugin.Algorithm { return &completeGraph{} }},
}

// Register adds every built-in algorithm to r.
func Register(r *plugin.Registry) error {
	for _, a := range algorithms {
		if err := r.Register(a.info, a.factory); err != nil {
			return err
		}
	}
	return nil
}
