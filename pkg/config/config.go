// Package config reads the hiergraph configuration file.
//
// The file is TOML, by default at $XDG_CONFIG_HOME/hiergraph/config.toml:
//
//	[log]
//	level = "info"
//
//	[undo]
//	depth = 50
//
//	[parallel]
//	workers = 4
//
//	[algorithms."Degree"]
//	type = "out"
//
// Entries under [algorithms.<name>] are default parameters for the named
// algorithm. Parameters given on the command line override them.
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/hiergraph/pkg/dataset"
	"github.com/matzehuels/hiergraph/pkg/errors"
	"github.com/matzehuels/hiergraph/pkg/graph"
)

// Config is the decoded configuration.
type Config struct {
	Log        Log                       `toml:"log"`
	Undo       Undo                      `toml:"undo"`
	Parallel   Parallel                  `toml:"parallel"`
	Algorithms map[string]map[string]any `toml:"algorithms"`

	path string
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

// Undo configures the undo log of loaded graphs.
type Undo struct {
	Depth int `toml:"depth"`
}

// Parallel configures the worker pool of parallel algorithms.
type Parallel struct {
	// Workers is the pool size; 0 means one per CPU.
	Workers int `toml:"workers"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Log:  Log{Level: "info"},
		Undo: Undo{Depth: graph.DefaultUndoDepth},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/hiergraph/config.toml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "hiergraph", "config.toml")
}

// Load reads the file at path. An empty path means [DefaultPath], which
// may be missing; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return Default(), nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			if !explicit {
				return Default(), nil
			}
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "config %s", path)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInvalidConfig), err, "config %s", path)
	}
	cfg.path = path
	return cfg, nil
}

// Parse decodes and validates a configuration. Keys the file does not
// set keep their defaults.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the configuration was read from, or "".
func (c *Config) Path() string { return c.path }

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	if c.Undo.Depth < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "undo.depth must be at least 1, got %d", c.Undo.Depth)
	}
	if c.Parallel.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "parallel.workers must not be negative, got %d", c.Parallel.Workers)
	}
	for name, params := range c.Algorithms {
		if err := errors.ValidateName("algorithm", name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "algorithms")
		}
		for key := range params {
			if err := errors.ValidateName("parameter", key); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "algorithms.%s", name)
			}
		}
	}
	return nil
}

// LogLevel returns the configured level.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// AlgorithmNames returns the algorithms with default parameters, sorted.
func (c *Config) AlgorithmNames() []string {
	names := make([]string, 0, len(c.Algorithms))
	for name := range c.Algorithms {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// AlgorithmParams returns the default parameters of the algorithm name.
// TOML integers become int and arrays become typed slices where possible.
func (c *Config) AlgorithmParams(name string) *dataset.DataSet {
	ds := dataset.New()
	for k, v := range c.Algorithms[name] {
		ds.Set(k, normalize(v))
	}
	return ds
}

func normalize(v any) any {
	switch x := v.(type) {
	case int64:
		return int(x)
	case []any:
		return normalizeSlice(x)
	}
	return v
}

func normalizeSlice(xs []any) any {
	if len(xs) == 0 {
		return xs
	}
	switch xs[0].(type) {
	case string:
		return convertAll(xs, func(v any) (string, bool) { s, ok := v.(string); return s, ok })
	case int64:
		return convertAll(xs, func(v any) (int, bool) { n, ok := v.(int64); return int(n), ok })
	case float64:
		return convertAll(xs, func(v any) (float64, bool) { f, ok := v.(float64); return f, ok })
	}
	return xs
}

func convertAll[T any](xs []any, conv func(any) (T, bool)) any {
	out := make([]T, len(xs))
	for i, x := range xs {
		v, ok := conv(x)
		if !ok {
			return xs
		}
		out[i] = v
	}
	return out
}
