package graph

import (
	"math"

	"github.com/matzehuels/hiergraph/pkg/value"
)

// Names of the visual properties the meta-node operations keep in sync.
const (
	ViewLayout   = "viewLayout"
	ViewSize     = "viewSize"
	ViewRotation = "viewRotation"
	ViewColor    = "viewColor"
)

// BoundingBox returns the box holding every node of g, sized by size, and
// every edge bend of g. A nil size treats nodes as points.
func BoundingBox(g *Graph, layout *LayoutProperty, size *SizeProperty) value.Box {
	var box value.Box
	for _, n := range g.Nodes() {
		var s value.Size
		if size != nil {
			s = size.NodeValue(n)
		}
		box.Expand(layout.NodeValue(n), s)
	}
	for _, e := range g.Edges() {
		for _, c := range layout.EdgeValue(e) {
			box.Expand(c, value.Size{})
		}
	}
	return box
}

// mapLayout replaces every node position and edge bend of g with fn of it.
func mapLayout(l *LayoutProperty, g *Graph, fn func(value.Coord) value.Coord) {
	for _, n := range g.Nodes() {
		l.SetNodeValue(n, fn(l.NodeValue(n)))
	}
	for _, e := range g.Edges() {
		bends := l.EdgeValue(e)
		if len(bends) == 0 {
			continue
		}
		moved := make([]value.Coord, len(bends))
		for i, c := range bends {
			moved[i] = fn(c)
		}
		l.SetEdgeValue(e, moved)
	}
}

// Translate moves the layout of g by v.
func Translate(l *LayoutProperty, v value.Coord, g *Graph) {
	mapLayout(l, g, func(c value.Coord) value.Coord { return c.Add(v) })
}

// ScaleLayout multiplies every coordinate of the layout of g by f.
func ScaleLayout(l *LayoutProperty, f value.Size, g *Graph) {
	mapLayout(l, g, func(c value.Coord) value.Coord { return c.Mul(f) })
}

// RotateZ rotates the layout of g around the z axis by degrees.
func RotateZ(l *LayoutProperty, degrees float64, g *Graph) {
	if degrees == 0 {
		return
	}
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	mapLayout(l, g, func(c value.Coord) value.Coord {
		return value.Coord{X: c.X*cos - c.Y*sin, Y: c.X*sin + c.Y*cos, Z: c.Z}
	})
}

// ScaleSizes multiplies the node and edge sizes of g by f.
func ScaleSizes(s *SizeProperty, f value.Size, g *Graph) {
	mul := func(v value.Size) value.Size { return value.Size{W: v.W * f.W, H: v.H * f.H, D: v.D * f.D} }
	for _, n := range g.Nodes() {
		s.SetNodeValue(n, mul(s.NodeValue(n)))
	}
	for _, e := range g.Edges() {
		s.SetEdgeValue(e, mul(s.EdgeValue(e)))
	}
}
