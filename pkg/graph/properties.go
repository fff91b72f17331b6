package graph

import (
	"fmt"
	"slices"
)

// =============================================================================
// Registry primitives
// =============================================================================

func (g *Graph) registerProperty(name string, p PropertyInterface) {
	p.base().bind(g, name)
	g.props.Set(name, p)
	g.notify(LocalPropertyAdded{Graph: g, Name: name, Property: p})
	g.notifyInherited(name, true)
}

func (g *Graph) unregisterProperty(name string) {
	p, ok := g.props.Get(name)
	if !ok {
		return
	}
	g.notify(LocalPropertyDeleting{Graph: g, Name: name, Property: p})
	g.notifyInherited(name, false)
	g.props.Delete(name)
	g.notify(LocalPropertyDeleted{Graph: g, Name: name, property: p})
}

func (g *Graph) renameProperty(p PropertyInterface, name string) {
	old := p.Name()
	g.notifyInherited(old, false)
	g.props.Delete(old)
	p.base().name = name
	g.props.Set(name, p)
	g.notify(PropertyRenamed{Graph: g, Property: p, OldName: old, NewName: name})
	g.notifyInherited(name, true)
}

// notifyInherited tells the descendants of g that see name through g that
// it appeared or disappeared.
func (g *Graph) notifyInherited(name string, added bool) {
	for _, sg := range g.subs {
		sg.walk(func(d *Graph) bool {
			if _, local := d.props.Get(name); local {
				return false
			}
			if added {
				d.notify(InheritedPropertyAdded{Graph: d, Name: name})
			} else {
				d.notify(InheritedPropertyDeleted{Graph: d, Name: name})
			}
			return true
		})
	}
}

// =============================================================================
// Lookup
// =============================================================================

// Property returns the property named name visible from g: the local one,
// or the nearest one declared by an ancestor. It returns nil when none
// exists.
func (g *Graph) Property(name string) PropertyInterface {
	for c := g; ; c = c.parent {
		if p, ok := c.props.Get(name); ok {
			return p
		}
		if c.IsRoot() {
			return nil
		}
	}
}

// LocalPropertyByName returns the local property of g named name, or nil.
func (g *Graph) LocalPropertyByName(name string) PropertyInterface {
	p, _ := g.props.Get(name)
	return p
}

// ExistProperty reports whether a property named name is visible from g.
func (g *Graph) ExistProperty(name string) bool { return g.Property(name) != nil }

// ExistLocalProperty reports whether g declares a property named name.
func (g *Graph) ExistLocalProperty(name string) bool {
	_, ok := g.props.Get(name)
	return ok
}

// LocalProperties returns the names of the local properties of g, sorted.
func (g *Graph) LocalProperties() []string {
	return g.props.Keys()
}

// InheritedProperties returns the sorted names of the properties g sees
// through its ancestors and does not shadow.
func (g *Graph) InheritedProperties() []string {
	var out []string
	if g.IsRoot() {
		return out
	}
	for c := g.parent; ; c = c.parent {
		c.props.Scan(func(name string, _ PropertyInterface) bool {
			if !g.ExistLocalProperty(name) && !slices.Contains(out, name) {
				out = append(out, name)
			}
			return true
		})
		if c.IsRoot() {
			break
		}
	}
	slices.Sort(out)
	return out
}

// Properties returns the sorted names of every property visible from g.
func (g *Graph) Properties() []string {
	out := append(g.LocalProperties(), g.InheritedProperties()...)
	slices.Sort(out)
	return slices.Compact(out)
}

// PropertyAll returns every property visible from g, sorted by name.
func (g *Graph) PropertyAll() []PropertyInterface {
	names := g.Properties()
	out := make([]PropertyInterface, len(names))
	for i, name := range names {
		out[i] = g.Property(name)
	}
	return out
}

// =============================================================================
// Registration
// =============================================================================

// AddLocalProperty registers p on g under name. p must come from
// [NewProperty] and not be registered yet.
func (g *Graph) AddLocalProperty(name string, p PropertyInterface) error {
	if g.ExistLocalProperty(name) {
		return fmt.Errorf("%q: %w", name, ErrPropertyExists)
	}
	if p.Graph() != nil {
		return fmt.Errorf("%q: %w", name, ErrPropertyBound)
	}
	g.registerProperty(name, p)
	return nil
}

// DelLocalProperty removes the local property name from g. Descendants
// that saw it through g see the next one up the hierarchy, if any.
func (g *Graph) DelLocalProperty(name string) {
	if !g.ExistLocalProperty(name) {
		g.warn("cannot delete a property that is not local to the graph", "property", name)
		return
	}
	g.unregisterProperty(name)
}

// RenameLocalProperty gives the local property p a new name. It returns
// false, changing nothing, when p is not local to g or name is taken by
// another local property.
func (g *Graph) RenameLocalProperty(p PropertyInterface, name string) bool {
	if p == nil || p.Graph() != g || g.LocalPropertyByName(p.Name()) != p {
		return false
	}
	if p.Name() == name {
		return true
	}
	if g.ExistLocalProperty(name) {
		return false
	}
	g.renameProperty(p, name)
	return true
}

// LocalProperty returns the local property name of g, creating it when
// missing. A new property that shadows an inherited one of the same kind
// starts with that property's defaults. An existing property of another
// kind yields [ErrPropertyTypeMismatch].
func LocalProperty[N, E any](g *Graph, name string, t *Type[N, E]) (*Property[N, E], error) {
	if p, ok := g.props.Get(name); ok {
		return typed(p, t)
	}
	p := NewProperty(t)
	if !g.IsRoot() {
		if inherited := g.parent.Property(name); inherited != nil {
			p.seedFrom(inherited)
		}
	}
	g.registerProperty(name, p)
	return p, nil
}

// GetProperty returns the property name visible from g, creating a local
// one on g when none exists.
func GetProperty[N, E any](g *Graph, name string, t *Type[N, E]) (*Property[N, E], error) {
	if p := g.Property(name); p != nil {
		return typed(p, t)
	}
	return LocalProperty(g, name, t)
}

func typed[N, E any](p PropertyInterface, t *Type[N, E]) (*Property[N, E], error) {
	q, ok := p.(*Property[N, E])
	if !ok || q.typ.kind != t.kind {
		return nil, fmt.Errorf("%q is %s, not %s: %w", p.Name(), p.Kind(), t.kind, ErrPropertyTypeMismatch)
	}
	return q, nil
}

// PropertyOfKind returns the property name visible from g, creating a
// local one of kind k when none exists.
func (g *Graph) PropertyOfKind(name string, k PropertyKind) (PropertyInterface, error) {
	p := g.Property(name)
	if p == nil {
		return g.LocalPropertyOfKind(name, k)
	}
	if p.Kind() != k {
		return nil, fmt.Errorf("%q is %s, not %s: %w", name, p.Kind(), k, ErrPropertyTypeMismatch)
	}
	return p, nil
}

// LocalPropertyOfKind is the kind-driven form of [LocalProperty].
func (g *Graph) LocalPropertyOfKind(name string, k PropertyKind) (PropertyInterface, error) {
	switch k {
	case KindBoolean:
		return asInterface(LocalProperty(g, name, BooleanType))
	case KindInteger:
		return asInterface(LocalProperty(g, name, IntegerType))
	case KindDouble:
		return asInterface(LocalProperty(g, name, DoubleType))
	case KindString:
		return asInterface(LocalProperty(g, name, StringType))
	case KindColor:
		return asInterface(LocalProperty(g, name, ColorType))
	case KindSize:
		return asInterface(LocalProperty(g, name, SizeType))
	case KindLayout:
		return asInterface(LocalProperty(g, name, LayoutType))
	case KindGraph:
		return asInterface(LocalProperty(g, name, GraphType))
	case KindBooleanVector:
		return asInterface(LocalProperty(g, name, BooleanVectorType))
	case KindIntegerVector:
		return asInterface(LocalProperty(g, name, IntegerVectorType))
	case KindDoubleVector:
		return asInterface(LocalProperty(g, name, DoubleVectorType))
	case KindStringVector:
		return asInterface(LocalProperty(g, name, StringVectorType))
	case KindColorVector:
		return asInterface(LocalProperty(g, name, ColorVectorType))
	case KindSizeVector:
		return asInterface(LocalProperty(g, name, SizeVectorType))
	case KindCoordVector:
		return asInterface(LocalProperty(g, name, CoordVectorType))
	}
	return nil, fmt.Errorf("%q: unknown kind %s: %w", name, k, ErrPropertyTypeMismatch)
}

func asInterface[N, E any](p *Property[N, E], err error) (PropertyInterface, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

// =============================================================================
// Per-kind accessors
// =============================================================================

// BooleanProperty returns the boolean property name visible from g.
func (g *Graph) BooleanProperty(name string) (*BooleanProperty, error) {
	return GetProperty(g, name, BooleanType)
}

// LocalBooleanProperty returns the local boolean property name of g.
func (g *Graph) LocalBooleanProperty(name string) (*BooleanProperty, error) {
	return LocalProperty(g, name, BooleanType)
}

// IntegerProperty returns the integer property name visible from g.
func (g *Graph) IntegerProperty(name string) (*IntegerProperty, error) {
	return GetProperty(g, name, IntegerType)
}

// LocalIntegerProperty returns the local integer property name of g.
func (g *Graph) LocalIntegerProperty(name string) (*IntegerProperty, error) {
	return LocalProperty(g, name, IntegerType)
}

// DoubleProperty returns the double property name visible from g.
func (g *Graph) DoubleProperty(name string) (*DoubleProperty, error) {
	return GetProperty(g, name, DoubleType)
}

// LocalDoubleProperty returns the local double property name of g.
func (g *Graph) LocalDoubleProperty(name string) (*DoubleProperty, error) {
	return LocalProperty(g, name, DoubleType)
}

// StringProperty returns the string property name visible from g.
func (g *Graph) StringProperty(name string) (*StringProperty, error) {
	return GetProperty(g, name, StringType)
}

// LocalStringProperty returns the local string property name of g.
func (g *Graph) LocalStringProperty(name string) (*StringProperty, error) {
	return LocalProperty(g, name, StringType)
}

// ColorProperty returns the color property name visible from g.
func (g *Graph) ColorProperty(name string) (*ColorProperty, error) {
	return GetProperty(g, name, ColorType)
}

// LocalColorProperty returns the local color property name of g.
func (g *Graph) LocalColorProperty(name string) (*ColorProperty, error) {
	return LocalProperty(g, name, ColorType)
}

// SizeProperty returns the size property name visible from g.
func (g *Graph) SizeProperty(name string) (*SizeProperty, error) {
	return GetProperty(g, name, SizeType)
}

// LocalSizeProperty returns the local size property name of g.
func (g *Graph) LocalSizeProperty(name string) (*SizeProperty, error) {
	return LocalProperty(g, name, SizeType)
}

// LayoutProperty returns the layout property name visible from g.
func (g *Graph) LayoutProperty(name string) (*LayoutProperty, error) {
	return GetProperty(g, name, LayoutType)
}

// LocalLayoutProperty returns the local layout property name of g.
func (g *Graph) LocalLayoutProperty(name string) (*LayoutProperty, error) {
	return LocalProperty(g, name, LayoutType)
}

// GraphProperty returns the graph property name visible from g.
func (g *Graph) GraphProperty(name string) (*GraphProperty, error) {
	return GetProperty(g, name, GraphType)
}

// LocalGraphProperty returns the local graph property name of g.
func (g *Graph) LocalGraphProperty(name string) (*GraphProperty, error) {
	return LocalProperty(g, name, GraphType)
}
