package graph

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/hiergraph/pkg/value"
)

func TestPropertyDefaults(t *testing.T) {
	g := newTestGraph()
	n := g.AddNodes(3)
	e := g.AddEdge(n[0], n[1])

	p, err := g.IntegerProperty("w")
	if err != nil {
		t.Fatal(err)
	}
	p.SetNodeValue(n[1], 7)
	p.SetEdgeValue(e, 2)

	if got := p.NodeValue(n[0]); got != 0 {
		t.Errorf("default node value = %d", got)
	}
	if got := p.NodeValue(n[1]); got != 7 {
		t.Errorf("node value = %d", got)
	}
	if got := p.NonDefaultNodes(nil); !slices.Equal(got, []Node{n[1]}) {
		t.Errorf("NonDefaultNodes = %v", got)
	}

	p.SetNodeValue(n[1], 0)
	if p.HasNonDefaultNodeValue(n[1]) {
		t.Error("setting the default kept a stored value")
	}

	p.SetNodeValue(n[2], 5)
	p.SetAllNodeValue(9)
	if got := p.NodeValue(n[2]); got != 9 {
		t.Errorf("after SetAll = %d, want 9", got)
	}
	if got := p.NumberOfNonDefaultValuatedNodes(nil); got != 0 {
		t.Errorf("stored values after SetAll = %d", got)
	}
	if got := p.EdgeValue(e); got != 2 {
		t.Errorf("edge value changed by node SetAll: %d", got)
	}
}

func TestPropertyInheritance(t *testing.T) {
	root := newTestGraph()
	n := root.AddNode()
	a := root.AddSubGraph("a")
	a.AddExistingNode(n)
	b := a.AddSubGraph("b")
	b.AddExistingNode(n)

	rp, _ := root.DoubleProperty("m")
	rp.SetAllNodeValue(1.5)
	rp.SetNodeValue(n, 4)

	if got := b.Property("m"); got != PropertyInterface(rp) {
		t.Fatalf("b sees %v, want the root property", got)
	}
	if got := b.InheritedProperties(); !slices.Equal(got, []string{"m"}) {
		t.Errorf("InheritedProperties = %v", got)
	}

	// A local shadow starts with the inherited defaults and no values.
	ap, err := a.LocalDoubleProperty("m")
	if err != nil {
		t.Fatal(err)
	}
	if ap == rp {
		t.Fatal("LocalDoubleProperty returned the inherited property")
	}
	if got := ap.NodeDefaultValue(); got != 1.5 {
		t.Errorf("shadow default = %v, want 1.5", got)
	}
	if got := ap.NodeValue(n); got != 1.5 {
		t.Errorf("shadow value = %v, want 1.5", got)
	}
	if got := b.Property("m"); got != PropertyInterface(ap) {
		t.Error("b does not see the nearer property")
	}

	a.DelLocalProperty("m")
	if got := b.Property("m"); got != PropertyInterface(rp) {
		t.Error("b does not fall back to the root property")
	}
}

func TestPropertyTypeMismatch(t *testing.T) {
	g := newTestGraph()
	if _, err := g.StringProperty("label"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		get  func() error
	}{
		{"double", func() error { _, err := g.DoubleProperty("label"); return err }},
		{"local bool", func() error { _, err := g.LocalBooleanProperty("label"); return err }},
		{"of kind", func() error { _, err := g.PropertyOfKind("label", KindColor); return err }},
		{"string vector", func() error { _, err := GetProperty(g, "label", StringVectorType); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.get(); !errors.Is(err, ErrPropertyTypeMismatch) {
				t.Errorf("err = %v, want ErrPropertyTypeMismatch", err)
			}
		})
	}

	p, err := g.PropertyOfKind("label", KindString)
	if err != nil || p == nil {
		t.Errorf("PropertyOfKind(string) = %v, %v", p, err)
	}
}

func TestAddLocalProperty(t *testing.T) {
	g := newTestGraph()
	p := NewProperty(ColorType)
	p.SetAllNodeValue(value.Red)

	if err := g.AddLocalProperty("c", p); err != nil {
		t.Fatal(err)
	}
	if p.Graph() != g || p.Name() != "c" {
		t.Errorf("bound to %v as %q", p.Graph(), p.Name())
	}
	if err := g.AddLocalProperty("c", NewProperty(ColorType)); !errors.Is(err, ErrPropertyExists) {
		t.Errorf("duplicate name: err = %v", err)
	}
	if err := g.AddLocalProperty("d", p); !errors.Is(err, ErrPropertyBound) {
		t.Errorf("bound property: err = %v", err)
	}
	if got := g.AddNode(); p.NodeValue(got) != value.Red {
		t.Errorf("default lost on binding: %v", p.NodeValue(got))
	}
}

func TestRenameLocalProperty(t *testing.T) {
	g := newTestGraph()
	s := g.AddSubGraph("s")
	p, _ := g.IntegerProperty("old")
	g.IntegerProperty("taken")

	if !g.RenameLocalProperty(p, "new") {
		t.Fatal("rename failed")
	}
	if g.ExistLocalProperty("old") || g.LocalPropertyByName("new") != PropertyInterface(p) {
		t.Error("registry not updated")
	}
	if s.Property("new") != PropertyInterface(p) {
		t.Error("descendant does not see the new name")
	}
	if g.RenameLocalProperty(p, "taken") {
		t.Error("rename onto a taken name succeeded")
	}
	if s.RenameLocalProperty(p, "other") {
		t.Error("rename from a non-owner succeeded")
	}
}

func TestPropertyEvents(t *testing.T) {
	g := newTestGraph()
	n := g.AddNode()
	p := NewProperty(IntegerType)
	l := &propertyLog{}
	p.AddListener(l)

	if err := g.AddLocalProperty("p", p); err != nil {
		t.Fatal(err)
	}
	p.SetNodeValue(n, 3)
	p.SetAllEdgeValue(1)

	if len(l.got) != 2 {
		t.Fatalf("got %d events, want 2", len(l.got))
	}
	if ev, ok := l.got[0].(NodeValueSet); !ok || ev.Node != n {
		t.Errorf("first event = %#v", l.got[0])
	}
	if _, ok := l.got[1].(AllEdgeValueSet); !ok {
		t.Errorf("second event = %#v", l.got[1])
	}
}

func TestRegistryEvents(t *testing.T) {
	root := newTestGraph()
	sub := root.AddSubGraph("sub")
	l := &eventLog{}
	sub.AddListener(l)

	root.IntegerProperty("x")
	root.DelLocalProperty("x")

	if len(l.got) != 2 {
		t.Fatalf("got %d events, want 2", len(l.got))
	}
	if ev, ok := l.got[0].(InheritedPropertyAdded); !ok || ev.Name != "x" {
		t.Errorf("first = %#v", l.got[0])
	}
	if _, ok := l.got[1].(InheritedPropertyDeleted); !ok {
		t.Errorf("second = %#v", l.got[1])
	}
}

func TestStringValues(t *testing.T) {
	g := newTestGraph()
	n := g.AddNodes(2)
	e := g.AddEdge(n[0], n[1])

	tests := []struct {
		kind PropertyKind
		node string
		edge string
	}{
		{KindBoolean, "true", "false"},
		{KindInteger, "42", "-1"},
		{KindDouble, "2.5", "0.5"},
		{KindString, "hello", "world"},
		{KindColor, "[1,2,3,4]", "[255,0,0,255]"},
		{KindSize, "[1,2,3]", "[0.5,0.5,0]"},
		{KindLayout, "[1,2,0]", "[[0,0,0],[1,1,0]]"},
		{KindIntegerVector, "[1,2,3]", "[4]"},
		{KindStringVector, `["a","b"]`, `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			p, err := g.LocalPropertyOfKind("p_"+tt.kind.String(), tt.kind)
			if err != nil {
				t.Fatal(err)
			}
			if err := p.SetNodeStringValue(n[0], tt.node); err != nil {
				t.Fatal(err)
			}
			if err := p.SetEdgeStringValue(e, tt.edge); err != nil {
				t.Fatal(err)
			}
			if got := p.NodeStringValue(n[0]); got != tt.node {
				t.Errorf("node = %q, want %q", got, tt.node)
			}
			if got := p.EdgeStringValue(e); got != tt.edge {
				t.Errorf("edge = %q, want %q", got, tt.edge)
			}
		})
	}

	p, _ := g.IntegerProperty("p_int")
	if err := p.SetNodeStringValue(n[1], "abc"); err == nil {
		t.Error("parsing garbage succeeded")
	}
}

func TestGraphValuedProperty(t *testing.T) {
	g := newTestGraph()
	n := g.AddNode()
	s := g.AddSubGraph("s")
	p, _ := g.GraphProperty("sub")

	if err := p.SetNodeStringValue(n, "1"); err != nil {
		t.Fatal(err)
	}
	if p.NodeValue(n) != s {
		t.Errorf("value = %v, want %v", p.NodeValue(n), s)
	}
	if err := p.SetNodeStringValue(n, "99"); !errors.Is(err, ErrNoSuchGraph) {
		t.Errorf("unknown id: err = %v", err)
	}
	if err := NewProperty(GraphType).SetNodeStringValue(n, "1"); !errors.Is(err, ErrUnbound) {
		t.Errorf("unbound: err = %v", err)
	}
}

func TestCopyValue(t *testing.T) {
	g := newTestGraph()
	n := g.AddNodes(2)
	a, _ := g.IntegerProperty("a")
	b, _ := g.IntegerProperty("b")
	c, _ := g.StringProperty("c")
	a.SetNodeValue(n[0], 5)

	if !b.CopyNodeValue(n[1], n[0], a) || b.NodeValue(n[1]) != 5 {
		t.Error("CopyNodeValue between integer properties failed")
	}
	if c.CopyNodeValue(n[1], n[0], a) {
		t.Error("CopyNodeValue across kinds succeeded")
	}
}

func TestDeleteErasesValues(t *testing.T) {
	g := newTestGraph()
	n := g.AddNodes(2)
	e := g.AddEdge(n[0], n[1])
	p, _ := g.IntegerProperty("p")
	p.SetNodeValue(n[0], 1)
	p.SetEdgeValue(e, 1)

	g.DelNode(n[0], false)
	if p.HasNonDefaultNodeValue(n[0]) || p.HasNonDefaultEdgeValue(e) {
		t.Error("values survive the deletion of their element")
	}
}

type propertyLog struct{ got []PropertyEvent }

func (l *propertyLog) HandleEvent(e PropertyEvent) { l.got = append(l.got, e) }
