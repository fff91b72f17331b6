package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hiergraph/pkg/dataset"
	"github.com/matzehuels/hiergraph/pkg/errors"
	"github.com/matzehuels/hiergraph/pkg/graph"
	"github.com/matzehuels/hiergraph/pkg/plugin"
)

// applyOpts holds the command-line flags for the apply command.
type applyOpts struct {
	params []string // key=value algorithm parameters
	result string   // result property of a property algorithm
	graph  string   // name of the subgraph to run on
	output string   // output file, defaults to the input
}

// defaultResults names the property a property algorithm writes when no
// --result is given.
var defaultResults = map[graph.PropertyKind]string{
	graph.KindBoolean: "viewSelection",
	graph.KindDouble:  "viewMetric",
	graph.KindInteger: "viewInteger",
	graph.KindColor:   "viewColor",
	graph.KindLayout:  "viewLayout",
	graph.KindSize:    "viewSize",
	graph.KindString:  "viewLabel",
}

// applyCommand creates the apply command that runs an algorithm on a graph
// file and saves the result.
func (c *CLI) applyCommand() *cobra.Command {
	var opts applyOpts

	cmd := &cobra.Command{
		Use:   "apply [file] [algorithm]",
		Short: "Run an algorithm on a graph and save the result",
		Long: `Run a registered algorithm on a graph file.

Parameters come from the [algorithms."<name>"] table of the config file and
from -p flags, which win. Property algorithms write their result to the
property named by --result; the default depends on the result type, e.g.
viewMetric for double results and viewSelection for boolean results.

A failed or interrupted run leaves the file untouched.`,
		Example: `  hiergraph apply graph.json Degree -p type=out -r outDegree
  hiergraph apply graph.json "Equal Value" -p property=kind -o split.json`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return c.Registry.Names(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runApply(cmd.Context(), args[0], args[1], &opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.params, "param", "p", nil, "algorithm parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&opts.result, "result", "r", "", "result property of a property algorithm")
	cmd.Flags().StringVarP(&opts.graph, "graph", "g", "", "run on the subgraph with this name")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: overwrite the input)")

	return cmd
}

func (c *CLI) runApply(ctx context.Context, path, name string, opts *applyOpts) error {
	logger := loggerFromContext(ctx)

	info, _, ok := c.Registry.Get(name)
	if !ok {
		return errors.New(errors.ErrCodeAlgorithmNotFound, "unknown algorithm %q (see %s algorithms)", name, appName)
	}
	flags, err := parseParams(opts.params)
	if err != nil {
		return err
	}
	params := c.algorithmParams(name, flags)

	root, err := c.loadGraph(ctx, path)
	if err != nil {
		return err
	}
	g, err := findGraph(root, opts.graph)
	if err != nil {
		return err
	}

	var result graph.PropertyInterface
	if info.IsPropertyAlgorithm() {
		resultName := opts.result
		if resultName == "" {
			resultName = defaultResults[info.Result]
		}
		if resultName == "" {
			return errors.New(errors.ErrCodeInvalidInput, "%s writes a %s property; name it with --result", name, info.Result)
		}
		result, err = g.PropertyOfKind(resultName, info.Result)
		if err != nil {
			return errors.Wrap(errors.ErrCodePropertyTypeMismatch, err, "result property")
		}
	} else if opts.result != "" {
		printWarning(c.out, "%s is not a property algorithm; ignoring --result", name)
	}

	logger.Debug("applying algorithm", "algorithm", name, "graph", graphLabel(g), "params", strings.Join(params.Keys(), ","))
	prog := newProgress(logger)
	if err := c.runAlgorithm(ctx, g, name, result, params); err != nil {
		return err
	}
	prog.done("Applied "+name, "graph", graphLabel(g))

	out := outputPath(path, opts.output)
	if err := c.saveGraph(ctx, root, out); err != nil {
		return err
	}

	printSuccess(c.out, "%s applied to %s", name, graphLabel(g))
	if result != nil {
		printDetail(c.out, "result: %s %s", result.Kind(), result.Name())
	}
	for k, v := range g.Attributes().All() {
		if strings.HasPrefix(k, "#") {
			printDetail(c.out, "%s: %v", strings.TrimPrefix(k, "#"), v)
		}
	}
	printFile(c.out, out)
	return nil
}

// runAlgorithm applies name to g. Progress is drawn as a spinner, or
// logged when running verbose.
func (c *CLI) runAlgorithm(ctx context.Context, g *graph.Graph, name string, result graph.PropertyInterface, params *dataset.DataSet) error {
	var progress plugin.Progress
	if c.verbose {
		progress = plugin.NewLogProgress(loggerFromContext(ctx), time.Second)
	} else {
		spinner := newSpinner(ctx, c.errOut, name)
		spinner.Start()
		defer spinner.Stop()
		progress = spinner
	}
	if result != nil {
		return c.Registry.ApplyProperty(ctx, g, name, result, params, progress)
	}
	return c.Registry.Apply(ctx, g, name, params, progress)
}
