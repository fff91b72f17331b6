package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hiergraph/pkg/graph"
)

// infoCommand creates the info command that summarizes a graph file.
func (c *CLI) infoCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "info [file]",
		Short: "Show the hierarchy, properties and attributes of a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			g, err := findGraph(root, name)
			if err != nil {
				return err
			}
			printInfo(c.out, g)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "graph", "g", "", "describe the subgraph with this name")

	return cmd
}

func printInfo(w io.Writer, g *graph.Graph) {
	printTitle(w, graphLabel(g))
	printStats(w, g.NumberOfNodes(), g.NumberOfEdges(), g.NumberOfDescendantGraphs())

	if names := g.Properties(); len(names) > 0 {
		fmt.Fprintln(w)
		printTitle(w, "Properties")
		for _, name := range names {
			p := g.Property(name)
			scope := "local"
			if !g.ExistLocalProperty(name) {
				scope = "inherited from " + graphLabel(p.Graph())
			}
			printKeyValue(w, name, fmt.Sprintf("%s (%s)", p.Kind(), scope))
		}
	}

	attrs := g.Attributes()
	if attrs.Len() > 0 {
		fmt.Fprintln(w)
		printTitle(w, "Attributes")
		for k, v := range attrs.All() {
			printKeyValue(w, k, fmt.Sprint(v))
		}
	}

	if g.NumberOfSubGraphs() > 0 {
		fmt.Fprintln(w)
		printTitle(w, "Hierarchy")
		fmt.Fprintln(w, hierarchyTree(g).String())
	}
}

// hierarchyTree renders g and its descendants with their sizes.
func hierarchyTree(g *graph.Graph) *tree.Tree {
	t := tree.Root(fmt.Sprintf("%s %s", graphLabel(g), StyleDim.Render(sizeLabel(g)))).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(StyleDim)
	for _, sg := range g.SubGraphs() {
		if sg.NumberOfSubGraphs() == 0 {
			t.Child(fmt.Sprintf("%s %s", graphLabel(sg), StyleDim.Render(sizeLabel(sg))))
			continue
		}
		t.Child(hierarchyTree(sg))
	}
	return t
}

func graphLabel(g *graph.Graph) string {
	if name := g.Name(); name != "" {
		return fmt.Sprintf("%s #%d", name, g.ID())
	}
	return fmt.Sprintf("#%d", g.ID())
}

func sizeLabel(g *graph.Graph) string {
	return fmt.Sprintf("(%d nodes, %d edges)", g.NumberOfNodes(), g.NumberOfEdges())
}
