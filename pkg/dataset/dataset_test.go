package dataset

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/hiergraph/pkg/value"
)

func TestDataSet(t *testing.T) {
	var d DataSet
	assert.Zero(t, d.Len())

	d.Set("b", 2)
	d.Set("a", "x")
	d.Set("c", true)

	assert.Equal(t, []string{"a", "b", "c"}, d.Keys())
	assert.True(t, d.Exist("b"))

	v, ok := Value[int](&d, "b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = Value[string](&d, "b")
	assert.False(t, ok, "wrong type must not match")

	assert.Equal(t, "dflt", ValueOr(&d, "missing", "dflt"))

	old, ok := d.Remove("a")
	assert.True(t, ok)
	assert.Equal(t, "x", old)
	assert.False(t, d.Exist("a"))
}

func TestFloat(t *testing.T) {
	d := New()
	d.Set("i", 3)
	d.Set("f", 1.5)
	d.Set("s", "no")

	f, ok := Float(d, "i")
	assert.True(t, ok)
	assert.Equal(t, 3.0, f)

	f, ok = Float(d, "f")
	assert.True(t, ok)
	assert.Equal(t, 1.5, f)

	_, ok = Float(d, "s")
	assert.False(t, ok)
}

func TestClone(t *testing.T) {
	d := New()
	d.Set("k", 1)
	c := d.Clone()
	c.Set("k", 2)

	v, _ := Value[int](d, "k")
	assert.Equal(t, 1, v, "clone must not write through")
}

func TestJSON(t *testing.T) {
	d := New()
	d.Set("name", "root")
	d.Set("count", 7)
	d.Set("weight", 0.5)
	d.Set("tags", []string{"x", "y"})
	d.Set("color", value.Color{R: 1, G: 2, B: 3, A: 4})
	d.Set("skip", struct{}{})

	assert.Equal(t, []string{"skip"}, d.Unsupported())

	b, err := json.Marshal(d)
	require.NoError(t, err)

	got := New()
	require.NoError(t, json.Unmarshal(b, got))

	assert.Equal(t, []string{"color", "count", "name", "tags", "weight"}, got.Keys())
	n, _ := Value[int](got, "count")
	assert.Equal(t, 7, n)
	c, _ := Value[value.Color](got, "color")
	assert.Equal(t, value.Color{R: 1, G: 2, B: 3, A: 4}, c)
	tags, _ := Value[[]string](got, "tags")
	assert.Equal(t, []string{"x", "y"}, tags)
}

func TestUnmarshalUnknownType(t *testing.T) {
	d := New()
	err := json.Unmarshal([]byte(`{"k":{"type":"matrix","value":1}}`), d)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
