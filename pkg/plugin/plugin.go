package plugin

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/hiergraph/pkg/errors"
	"github.com/matzehuels/hiergraph/pkg/graph"
)

// Algorithm is a graph algorithm instance. A new instance is created for
// every run.
type Algorithm interface {
	Run(ctx context.Context, c *Context) error
}

// Checker is implemented by algorithms that validate their input before
// any change is made to the graph.
type Checker interface {
	Check(c *Context) error
}

// Factory creates an algorithm instance.
type Factory func() Algorithm

// Param documents one algorithm parameter.
type Param struct {
	Name    string
	Help    string
	Default string
}

// Info describes a registered algorithm.
type Info struct {
	Name     string
	Category string
	Help     string
	// Result is the kind of the result property, or zero for general
	// algorithms.
	Result graph.PropertyKind
	Params []Param
}

// IsPropertyAlgorithm reports whether the algorithm writes a result
// property.
func (i Info) IsPropertyAlgorithm() bool { return i.Result != 0 }

type entry struct {
	info    Info
	factory Factory
}

// Registry maps algorithm names to factories. It is safe for concurrent
// use.
type Registry struct {
	mu      sync.RWMutex
	algos   map[string]entry
	running map[string]graph.PropertyInterface
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		algos:   make(map[string]entry),
		running: make(map[string]graph.PropertyInterface),
	}
}

// Default is the registry used by the package-level functions.
var Default = NewRegistry()

// Register adds an algorithm. Names must be unique.
func (r *Registry) Register(info Info, f Factory) error {
	if err := errors.ValidateName("algorithm", info.Name); err != nil {
		return err
	}
	if f == nil {
		return errors.New(errors.ErrCodeInvalidInput, "algorithm %q has no factory", info.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.algos[info.Name]; ok {
		return errors.New(errors.ErrCodeInvalidInput, "algorithm %q already registered", info.Name)
	}
	r.algos[info.Name] = entry{info: info, factory: f}
	return nil
}

// Get returns the algorithm registered under name.
func (r *Registry) Get(name string) (Info, Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.algos[name]
	return e.info, e.factory, ok
}

// Exists reports whether an algorithm is registered under name.
func (r *Registry) Exists(name string) bool {
	_, _, ok := r.Get(name)
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.algos))
	for name := range r.algos {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Infos returns the descriptions of all algorithms, sorted by name.
func (r *Registry) Infos() []Info {
	names := r.Names()
	infos := make([]Info, 0, len(names))
	for _, name := range names {
		if info, _, ok := r.Get(name); ok {
			infos = append(infos, info)
		}
	}
	return infos
}

// enter marks name as running on result. It fails when the same pair is
// already running.
func (r *Registry) enter(name string, result graph.PropertyInterface) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.running[name]; ok && p == result {
		return false
	}
	r.running[name] = result
	return true
}

func (r *Registry) leave(name string) {
	r.mu.Lock()
	delete(r.running, name)
	r.mu.Unlock()
}

// Register adds an algorithm to [Default].
func Register(info Info, f Factory) error { return Default.Register(info, f) }
