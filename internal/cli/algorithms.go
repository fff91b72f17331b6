package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hiergraph/pkg/errors"
	"github.com/matzehuels/hiergraph/pkg/plugin"
)

// algorithmsCommand creates the algorithms command that lists the
// registered algorithms, or documents one.
func (c *CLI) algorithmsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms [name]",
		Short: "List the available algorithms",
		Args:  cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return c.Registry.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				info, _, ok := c.Registry.Get(args[0])
				if !ok {
					return errors.New(errors.ErrCodeAlgorithmNotFound, "unknown algorithm %q", args[0])
				}
				c.printAlgorithm(c.out, info)
				return nil
			}
			c.printAlgorithms(c.out)
			return nil
		},
	}
}

func (c *CLI) printAlgorithms(w io.Writer) {
	byCategory := map[string][]plugin.Info{}
	var categories []string
	for _, info := range c.Registry.Infos() {
		if _, ok := byCategory[info.Category]; !ok {
			categories = append(categories, info.Category)
		}
		byCategory[info.Category] = append(byCategory[info.Category], info)
	}
	for i, cat := range categories {
		if i > 0 {
			fmt.Fprintln(w)
		}
		printTitle(w, cat)
		for _, info := range byCategory[cat] {
			printKeyValue(w, info.Name, info.Help)
		}
	}
}

func (c *CLI) printAlgorithm(w io.Writer, info plugin.Info) {
	printTitle(w, info.Name)
	printDetail(w, "%s", info.Help)
	printKeyValue(w, "category", info.Category)
	if info.IsPropertyAlgorithm() {
		printKeyValue(w, "result", info.Result.String())
	}
	defaults := c.Config.AlgorithmParams(info.Name)
	if len(info.Params) == 0 {
		return
	}
	fmt.Fprintln(w)
	printTitle(w, "Parameters")
	for _, p := range info.Params {
		def := p.Default
		if v, ok := defaults.Get(p.Name); ok {
			def = fmt.Sprintf("%v (config)", v)
		}
		printKeyValue(w, p.Name, fmt.Sprintf("%s [default %s]", p.Help, def))
	}
}
