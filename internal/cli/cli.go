// Package cli implements the hiergraph command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hiergraph/pkg/buildinfo"
	"github.com/matzehuels/hiergraph/pkg/config"
	"github.com/matzehuels/hiergraph/pkg/dataset"
	"github.com/matzehuels/hiergraph/pkg/errors"
	"github.com/matzehuels/hiergraph/pkg/graph"
	gio "github.com/matzehuels/hiergraph/pkg/io"
	"github.com/matzehuels/hiergraph/pkg/plugin"
	"github.com/matzehuels/hiergraph/pkg/plugin/builtin"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "hiergraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger   *log.Logger
	Config   *config.Config
	Registry *plugin.Registry

	out        io.Writer
	errOut     io.Writer
	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and the built-in
// algorithms registered in a private registry.
func New(w io.Writer, level log.Level) *CLI {
	registry := plugin.NewRegistry()
	if err := builtin.Register(registry); err != nil {
		panic(err)
	}
	return &CLI{
		Logger:   newLogger(w, level),
		Config:   config.Default(),
		Registry: registry,
		out:      os.Stdout,
		errOut:   w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output, which defaults to stdout.
func (c *CLI) SetOutput(w io.Writer) { c.out = w }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "hiergraph edits hierarchical graphs",
		Long:              `hiergraph loads graph hierarchies, runs algorithms on them, collapses subgraphs into meta nodes and saves the result.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.infoCommand())
	root.AddCommand(c.applyCommand())
	root.AddCommand(c.algorithmsCommand())
	root.AddCommand(c.collapseCommand())
	root.AddCommand(c.openCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and applies its log level. --verbose wins
// over the file.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	level := cfg.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	if cfg.Path() != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path())
	}
	return nil
}

// =============================================================================
// Graph Helpers
// =============================================================================

// loadGraph reads path into a new hierarchy configured from c.Config.
func (c *CLI) loadGraph(ctx context.Context, path string) (*graph.Graph, error) {
	root := graph.New(graph.WithLogger(c.Logger), graph.WithUndoDepth(c.Config.Undo.Depth))
	prog := newProgress(c.Logger)
	g, err := gio.LoadGraph(ctx, path, nil, root)
	if err != nil {
		return nil, err
	}
	prog.debug("loaded "+path, "nodes", g.NumberOfNodes(), "edges", g.NumberOfEdges())
	return g, nil
}

// saveGraph writes the hierarchy of g to path.
func (c *CLI) saveGraph(ctx context.Context, g *graph.Graph, path string) error {
	prog := newProgress(c.Logger)
	if err := gio.SaveGraph(ctx, g.Root(), path, nil, nil); err != nil {
		return err
	}
	prog.debug("saved " + path)
	return nil
}

// findGraph returns root when name is empty or names it, else the first
// descendant named name.
func findGraph(root *graph.Graph, name string) (*graph.Graph, error) {
	if name == "" || name == root.Name() {
		return root, nil
	}
	if g := root.DescendantGraphByName(name); g != nil {
		return g, nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "no subgraph named %q", name)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseParams turns repeated key=value flags into a parameter set. Values
// stay strings; algorithms convert them on read.
func parseParams(kvs []string) (*dataset.DataSet, error) {
	ds := dataset.New()
	for _, kv := range kvs {
		key, value, err := errors.ParseParam(kv)
		if err != nil {
			return nil, err
		}
		ds.Set(key, strings.TrimSpace(value))
	}
	return ds, nil
}

// algorithmParams merges the configured defaults of name with flags, which
// win.
func (c *CLI) algorithmParams(name string, flags *dataset.DataSet) *dataset.DataSet {
	ds := c.Config.AlgorithmParams(name)
	if w := c.Config.Parallel.Workers; w > 0 && !ds.Exist("workers") {
		ds.Set("workers", w)
	}
	ds.Merge(flags)
	return ds
}
