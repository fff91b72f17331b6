package graph

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/matzehuels/hiergraph/pkg/value"
)

// PropertyKind identifies the value type of a property.
type PropertyKind uint8

const (
	KindBoolean PropertyKind = iota + 1
	KindInteger
	KindDouble
	KindString
	KindColor
	KindSize
	KindLayout
	KindGraph
	KindBooleanVector
	KindIntegerVector
	KindDoubleVector
	KindStringVector
	KindColorVector
	KindSizeVector
	KindCoordVector
)

var kindNames = map[PropertyKind]string{
	KindBoolean:       "bool",
	KindInteger:       "int",
	KindDouble:        "double",
	KindString:        "string",
	KindColor:         "color",
	KindSize:          "size",
	KindLayout:        "layout",
	KindGraph:         "graph",
	KindBooleanVector: "vector<bool>",
	KindIntegerVector: "vector<int>",
	KindDoubleVector:  "vector<double>",
	KindStringVector:  "vector<string>",
	KindColorVector:   "vector<color>",
	KindSizeVector:    "vector<size>",
	KindCoordVector:   "vector<coord>",
}

func (k PropertyKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind returns the kind named s, as printed by [PropertyKind.String].
func ParseKind(s string) (PropertyKind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Type describes one property kind: its node value type N, its edge value
// type E, and how values of both are compared, copied and printed.
type Type[N, E any] struct {
	kind PropertyKind
	node codec[N]
	edge codec[E]
}

// Kind returns the kind described by t.
func (t *Type[N, E]) Kind() PropertyKind { return t.kind }

type codec[T any] struct {
	zero   T
	equal  func(a, b T) bool
	clone  func(T) T
	format func(T) string
	parse  func(g *Graph, s string) (T, error)
}

// Property kinds.
var (
	BooleanType       = &Type[bool, bool]{KindBoolean, scalarCodec(false), scalarCodec(false)}
	IntegerType       = &Type[int, int]{KindInteger, scalarCodec(0), scalarCodec(0)}
	DoubleType        = &Type[float64, float64]{KindDouble, scalarCodec(0.0), scalarCodec(0.0)}
	StringType        = &Type[string, string]{KindString, stringCodec(), stringCodec()}
	ColorType         = &Type[value.Color, value.Color]{KindColor, scalarCodec(value.Black), scalarCodec(value.Black)}
	SizeType          = &Type[value.Size, value.Size]{KindSize, scalarCodec(value.DefaultSize), scalarCodec(value.Size{W: 0.125, H: 0.125, D: 0.5})}
	LayoutType        = &Type[value.Coord, []value.Coord]{KindLayout, scalarCodec(value.Coord{}), sliceCodec[value.Coord]()}
	GraphType         = &Type[*Graph, []Edge]{KindGraph, graphCodec(), sliceCodec[Edge]()}
	BooleanVectorType = &Type[[]bool, []bool]{KindBooleanVector, sliceCodec[bool](), sliceCodec[bool]()}
	IntegerVectorType = &Type[[]int, []int]{KindIntegerVector, sliceCodec[int](), sliceCodec[int]()}
	DoubleVectorType  = &Type[[]float64, []float64]{KindDoubleVector, sliceCodec[float64](), sliceCodec[float64]()}
	StringVectorType  = &Type[[]string, []string]{KindStringVector, sliceCodec[string](), sliceCodec[string]()}
	ColorVectorType   = &Type[[]value.Color, []value.Color]{KindColorVector, sliceCodec[value.Color](), sliceCodec[value.Color]()}
	SizeVectorType    = &Type[[]value.Size, []value.Size]{KindSizeVector, sliceCodec[value.Size](), sliceCodec[value.Size]()}
	CoordVectorType   = &Type[[]value.Coord, []value.Coord]{KindCoordVector, sliceCodec[value.Coord](), sliceCodec[value.Coord]()}
)

// Property aliases for every kind.
type (
	BooleanProperty       = Property[bool, bool]
	IntegerProperty       = Property[int, int]
	DoubleProperty        = Property[float64, float64]
	StringProperty        = Property[string, string]
	ColorProperty         = Property[value.Color, value.Color]
	SizeProperty          = Property[value.Size, value.Size]
	LayoutProperty        = Property[value.Coord, []value.Coord]
	GraphProperty         = Property[*Graph, []Edge]
	BooleanVectorProperty = Property[[]bool, []bool]
	IntegerVectorProperty = Property[[]int, []int]
	DoubleVectorProperty  = Property[[]float64, []float64]
	StringVectorProperty  = Property[[]string, []string]
	ColorVectorProperty   = Property[[]value.Color, []value.Color]
	SizeVectorProperty    = Property[[]value.Size, []value.Size]
	CoordVectorProperty   = Property[[]value.Coord, []value.Coord]
)

func jsonFormat[T any](v T) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func jsonParse[T any](_ *Graph, s string) (T, error) {
	var v T
	err := json.Unmarshal([]byte(s), &v)
	return v, err
}

func scalarCodec[T comparable](zero T) codec[T] {
	return codec[T]{
		zero:   zero,
		equal:  func(a, b T) bool { return a == b },
		clone:  func(v T) T { return v },
		format: jsonFormat[T],
		parse:  jsonParse[T],
	}
}

func stringCodec() codec[string] {
	return codec[string]{
		equal:  func(a, b string) bool { return a == b },
		clone:  func(v string) string { return v },
		format: func(v string) string { return v },
		parse:  func(_ *Graph, s string) (string, error) { return s, nil },
	}
}

func sliceCodec[T comparable]() codec[[]T] {
	return codec[[]T]{
		equal: func(a, b []T) bool { return slices.Equal(a, b) },
		clone: func(v []T) []T { return slices.Clone(v) },
		format: func(v []T) string {
			if v == nil {
				return "[]"
			}
			return jsonFormat(v)
		},
		parse: jsonParse[[]T],
	}
}

// graphCodec prints a graph by id and parses an id back by looking it up
// among the descendants of the root.
func graphCodec() codec[*Graph] {
	return codec[*Graph]{
		equal: func(a, b *Graph) bool { return a == b },
		clone: func(v *Graph) *Graph { return v },
		format: func(v *Graph) string {
			if v == nil {
				return "0"
			}
			return strconv.FormatUint(uint64(v.id), 10)
		},
		parse: func(g *Graph, s string) (*Graph, error) {
			if g == nil {
				return nil, fmt.Errorf("graph id %q: %w", s, ErrUnbound)
			}
			id, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("graph id %q: %w", s, err)
			}
			if id == 0 {
				return nil, nil
			}
			sg := g.Root().DescendantGraph(uint(id))
			if sg == nil {
				return nil, fmt.Errorf("graph id %d: %w", id, ErrNoSuchGraph)
			}
			return sg, nil
		},
	}
}
