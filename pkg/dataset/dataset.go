// Package dataset provides a small typed key/value container.
//
// A [DataSet] holds graph attributes (such as a graph's name) and algorithm
// parameters. Keys are kept sorted. Values may be of any type, but only the
// types listed by [TypeName] survive a JSON round trip.
package dataset

import (
	"errors"
	"fmt"
	"iter"

	"github.com/goccy/go-json"
	"github.com/tidwall/btree"

	"github.com/matzehuels/hiergraph/pkg/value"
)

// ErrUnsupportedType is returned when a value cannot be encoded.
var ErrUnsupportedType = errors.New("unsupported value type")

// DataSet is a sorted map from string keys to values. The zero value is an
// empty set ready to use.
type DataSet struct {
	m btree.Map[string, any]
}

// New returns an empty DataSet.
func New() *DataSet { return &DataSet{} }

// Set stores v under key, replacing any previous value.
func (d *DataSet) Set(key string, v any) { d.m.Set(key, v) }

// Get returns the value stored under key.
func (d *DataSet) Get(key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	return d.m.Get(key)
}

// Exist reports whether key is set.
func (d *DataSet) Exist(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Remove deletes key and returns the value it held.
func (d *DataSet) Remove(key string) (any, bool) { return d.m.Delete(key) }

// Len returns the number of keys.
func (d *DataSet) Len() int {
	if d == nil {
		return 0
	}
	return d.m.Len()
}

// Keys returns the keys in ascending order.
func (d *DataSet) Keys() []string {
	if d == nil {
		return nil
	}
	return d.m.Keys()
}

// All iterates the entries in key order.
func (d *DataSet) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if d == nil {
			return
		}
		d.m.Scan(func(k string, v any) bool { return yield(k, v) })
	}
}

// Clone returns a shallow copy of d.
func (d *DataSet) Clone() *DataSet {
	c := &DataSet{}
	if d != nil {
		c.m = *d.m.Copy()
	}
	return c
}

// Merge copies every entry of o into d. Entries of o win.
func (d *DataSet) Merge(o *DataSet) {
	for k, v := range o.All() {
		d.Set(k, v)
	}
}

// Value returns the value under key if it has type T.
func Value[T any](d *DataSet, key string) (T, bool) {
	v, ok := d.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// ValueOr returns the value under key if it has type T, or def.
func ValueOr[T any](d *DataSet, key string, def T) T {
	if v, ok := Value[T](d, key); ok {
		return v
	}
	return def
}

// Float returns the value under key as a float64 when it holds any Go
// numeric type.
func Float(d *DataSet, key string) (float64, bool) {
	v, ok := d.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	}
	return 0, false
}

// TypeName returns the wire name of v's type, or "" when v cannot be
// encoded.
func TypeName(v any) string {
	switch v.(type) {
	case bool:
		return "bool"
	case int:
		return "int"
	case int64:
		return "int64"
	case uint32:
		return "uint"
	case float64:
		return "double"
	case string:
		return "string"
	case []string:
		return "strings"
	case []float64:
		return "doubles"
	case []int:
		return "ints"
	case value.Color:
		return "color"
	case value.Size:
		return "size"
	case value.Coord:
		return "coord"
	}
	return ""
}

type entry struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes d as an object of {"type","value"} entries. Values of
// unsupported types are skipped; use [DataSet.Unsupported] to find them.
func (d *DataSet) MarshalJSON() ([]byte, error) {
	out := make(map[string]entry, d.Len())
	for k, v := range d.All() {
		name := TypeName(v)
		if name == "" {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("dataset: encode %q: %w", k, err)
		}
		out[k] = entry{Type: name, Value: raw}
	}
	return json.Marshal(out)
}

// Unsupported returns the keys whose values [DataSet.MarshalJSON] skips.
func (d *DataSet) Unsupported() []string {
	var keys []string
	for k, v := range d.All() {
		if TypeName(v) == "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// UnmarshalJSON decodes the form written by [DataSet.MarshalJSON], adding
// entries to d.
func (d *DataSet) UnmarshalJSON(b []byte) error {
	var in map[string]entry
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	for k, e := range in {
		v, err := decode(e)
		if err != nil {
			return fmt.Errorf("dataset: decode %q: %w", k, err)
		}
		d.Set(k, v)
	}
	return nil
}

func decode(e entry) (any, error) {
	switch e.Type {
	case "bool":
		return decodeAs[bool](e.Value)
	case "int":
		return decodeAs[int](e.Value)
	case "int64":
		return decodeAs[int64](e.Value)
	case "uint":
		return decodeAs[uint32](e.Value)
	case "double":
		return decodeAs[float64](e.Value)
	case "string":
		return decodeAs[string](e.Value)
	case "strings":
		return decodeAs[[]string](e.Value)
	case "doubles":
		return decodeAs[[]float64](e.Value)
	case "ints":
		return decodeAs[[]int](e.Value)
	case "color":
		return decodeAs[value.Color](e.Value)
	case "size":
		return decodeAs[value.Size](e.Value)
	case "coord":
		return decodeAs[value.Coord](e.Value)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, e.Type)
}

func decodeAs[T any](raw json.RawMessage) (any, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
