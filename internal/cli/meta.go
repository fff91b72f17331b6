package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hiergraph/pkg/errors"
	"github.com/matzehuels/hiergraph/pkg/graph"
)

// =============================================================================
// Collapse
// =============================================================================

type collapseOpts struct {
	graph      string // graph receiving the meta node
	subgraph   string // subgraph to collapse
	nodes      string // comma-separated node ids to collapse
	multiEdges bool
	delAll     bool
	output     string
}

// collapseCommand creates the collapse command that replaces a set of nodes
// of a graph by a meta node.
func (c *CLI) collapseCommand() *cobra.Command {
	var opts collapseOpts

	cmd := &cobra.Command{
		Use:   "collapse [file]",
		Short: "Collapse nodes into a meta node",
		Long: `Collapse nodes of a subgraph into one meta node.

The nodes are given either as ids with --nodes, in which case a grp_NNNNN
group is created next to the graph, or as an existing --subgraph. The root
graph cannot hold meta nodes; use a clone subgraph.`,
		Example: `  hiergraph collapse graph.json -g clone --nodes 3,4
  hiergraph collapse graph.json -g clone --subgraph cluster`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCollapse(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.graph, "graph", "g", "", "graph receiving the meta node (required)")
	cmd.Flags().StringVar(&opts.subgraph, "subgraph", "", "collapse the subgraph with this name")
	cmd.Flags().StringVar(&opts.nodes, "nodes", "", "collapse these node ids (comma-separated)")
	cmd.Flags().BoolVar(&opts.multiEdges, "multi-edges", false, "create one meta edge per underlying edge")
	cmd.Flags().BoolVar(&opts.delAll, "delete-edges", false, "delete edges replaced between meta nodes")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: overwrite the input)")
	cmd.MarkFlagsMutuallyExclusive("subgraph", "nodes")
	cmd.MarkFlagsOneRequired("subgraph", "nodes")
	_ = cmd.MarkFlagRequired("graph")

	return cmd
}

func (c *CLI) runCollapse(ctx context.Context, path string, opts *collapseOpts) error {
	root, err := c.loadGraph(ctx, path)
	if err != nil {
		return err
	}
	g, err := findGraph(root, opts.graph)
	if err != nil {
		return err
	}

	var mn graph.Node
	if opts.subgraph != "" {
		sg, err := findGraph(root, opts.subgraph)
		if err != nil {
			return err
		}
		mn, err = g.CreateMetaNodeFromSubGraph(sg, opts.multiEdges, opts.delAll)
		if err != nil {
			return metaError(err)
		}
	} else {
		nodes, err := parseNodes(g, opts.nodes)
		if err != nil {
			return err
		}
		mn, err = g.CreateMetaNode(nodes, opts.multiEdges, opts.delAll)
		if err != nil {
			return metaError(err)
		}
	}

	if err := c.saveGraph(ctx, root, outputPath(path, opts.output)); err != nil {
		return err
	}
	printSuccess(c.out, "Created meta node %d in %s", mn.ID(), graphLabel(g))
	printDetail(c.out, "meta graph: %s", graphLabel(g.NodeMetaInfo(mn)))
	printFile(c.out, outputPath(path, opts.output))
	return nil
}

// =============================================================================
// Open
// =============================================================================

type openOpts struct {
	graph  string
	update bool
	output string
}

// openCommand creates the open command that expands a meta node back into
// the nodes of its meta graph.
func (c *CLI) openCommand() *cobra.Command {
	var opts openOpts

	cmd := &cobra.Command{
		Use:   "open [file] [node]",
		Short: "Expand a meta node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOpen(cmd.Context(), args[0], args[1], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.graph, "graph", "g", "", "graph holding the meta node (required)")
	cmd.Flags().BoolVar(&opts.update, "update", true, "move inner nodes along with the meta node's layout")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: overwrite the input)")
	_ = cmd.MarkFlagRequired("graph")

	return cmd
}

func (c *CLI) runOpen(ctx context.Context, path, node string, opts *openOpts) error {
	root, err := c.loadGraph(ctx, path)
	if err != nil {
		return err
	}
	g, err := findGraph(root, opts.graph)
	if err != nil {
		return err
	}
	nodes, err := parseNodes(g, node)
	if err != nil {
		return err
	}
	mn := nodes[0]
	inner := g.NodeMetaInfo(mn)
	if err := g.OpenMetaNode(mn, opts.update); err != nil {
		return metaError(err)
	}

	if err := c.saveGraph(ctx, root, outputPath(path, opts.output)); err != nil {
		return err
	}
	printSuccess(c.out, "Opened meta node %d in %s", mn.ID(), graphLabel(g))
	if inner != nil {
		printDetail(c.out, "restored %d nodes of %s", inner.NumberOfNodes(), graphLabel(inner))
	}
	printFile(c.out, outputPath(path, opts.output))
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

// parseNodes parses comma-separated node ids that must belong to g.
func parseNodes(g *graph.Graph, s string) ([]graph.Node, error) {
	var nodes []graph.Node
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		id, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "node id %q", f)
		}
		n := graph.Node(id)
		if !g.HasNode(n) {
			return nil, errors.New(errors.ErrCodeNotFound, "node %d is not in %s", id, graphLabel(g))
		}
		nodes = append(nodes, n)
	}
	if len(nodes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no node ids given")
	}
	return nodes, nil
}

func metaError(err error) error {
	return errors.Wrap(errors.ErrCodeInvalidHierarchy, err, "meta node")
}

func outputPath(input, output string) string {
	if output == "" {
		return input
	}
	return output
}
