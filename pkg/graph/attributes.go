package graph

import (
	"github.com/matzehuels/hiergraph/pkg/dataset"
)

func (g *Graph) setAttribute(name string, v any) {
	old, had := g.attrs.Get(name)
	g.attrs.Set(name, v)
	g.notify(AttributeSet{Graph: g, Name: name, old: old, hadOld: had})
}

func (g *Graph) removeAttribute(name string) {
	old, _ := g.attrs.Remove(name)
	g.notify(AttributeRemoved{Graph: g, Name: name, old: old})
}

// SetAttribute stores v under name in the attributes of g.
func (g *Graph) SetAttribute(name string, v any) { g.setAttribute(name, v) }

// Attribute returns the attribute name of g.
func (g *Graph) Attribute(name string) (any, bool) { return g.attrs.Get(name) }

// ExistAttribute reports whether g has an attribute name.
func (g *Graph) ExistAttribute(name string) bool { return g.attrs.Exist(name) }

// RemoveAttribute deletes the attribute name. Missing names are ignored.
func (g *Graph) RemoveAttribute(name string) {
	if g.attrs.Exist(name) {
		g.removeAttribute(name)
	}
}

// Attributes returns a copy of the attributes of g.
func (g *Graph) Attributes() *dataset.DataSet { return g.attrs.Clone() }

// AttributeOf returns the attribute name of g when it holds a T.
func AttributeOf[T any](g *Graph, name string) (T, bool) {
	return dataset.Value[T](g.attrs, name)
}
