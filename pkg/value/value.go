package value

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

// Color is an RGBA colour with 8 bits per channel.
type Color struct {
	R, G, B, A uint8
}

// Common colours.
var (
	Black = Color{0, 0, 0, 255}
	White = Color{255, 255, 255, 255}
	Red   = Color{255, 0, 0, 255}
)

func (c Color) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", c.R, c.G, c.B, c.A)
}

// MarshalJSON encodes c as [r,g,b,a].
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{int(c.R), int(c.G), int(c.B), int(c.A)})
}

// UnmarshalJSON decodes [r,g,b] or [r,g,b,a]. A missing alpha is opaque.
func (c *Color) UnmarshalJSON(b []byte) error {
	var v []int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if len(v) == 3 {
		v = append(v, 255)
	}
	if len(v) != 4 {
		return fmt.Errorf("color: want 3 or 4 components, got %d", len(v))
	}
	for _, x := range v {
		if x < 0 || x > 255 {
			return fmt.Errorf("color: component %d out of range", x)
		}
	}
	*c = Color{uint8(v[0]), uint8(v[1]), uint8(v[2]), uint8(v[3])}
	return nil
}

// Coord is a point in 3D space.
type Coord struct {
	X, Y, Z float64
}

func (c Coord) String() string {
	return fmt.Sprintf("(%g,%g,%g)", c.X, c.Y, c.Z)
}

// Add returns c+o.
func (c Coord) Add(o Coord) Coord { return Coord{c.X + o.X, c.Y + o.Y, c.Z + o.Z} }

// Sub returns c-o.
func (c Coord) Sub(o Coord) Coord { return Coord{c.X - o.X, c.Y - o.Y, c.Z - o.Z} }

// Mul scales each component of c by the matching component of s.
func (c Coord) Mul(s Size) Coord { return Coord{c.X * s.W, c.Y * s.H, c.Z * s.D} }

// MarshalJSON encodes c as [x,y,z].
func (c Coord) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{c.X, c.Y, c.Z})
}

// UnmarshalJSON decodes [x,y] or [x,y,z].
func (c *Coord) UnmarshalJSON(b []byte) error {
	v, err := decodeVec(b)
	if err != nil {
		return fmt.Errorf("coord: %w", err)
	}
	*c = Coord{v[0], v[1], v[2]}
	return nil
}

// Size is a width, height and depth triple.
type Size struct {
	W, H, D float64
}

// DefaultSize is the size new nodes get in layout-aware properties.
var DefaultSize = Size{1, 1, 0}

func (s Size) String() string {
	return fmt.Sprintf("(%g,%g,%g)", s.W, s.H, s.D)
}

// Div divides s component-wise by o. Components of o that are zero yield 1.
func (s Size) Div(o Size) Size {
	div := func(a, b float64) float64 {
		if b == 0 {
			return 1
		}
		return a / b
	}
	return Size{div(s.W, o.W), div(s.H, o.H), div(s.D, o.D)}
}

// MarshalJSON encodes s as [w,h,d].
func (s Size) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{s.W, s.H, s.D})
}

// UnmarshalJSON decodes [w,h] or [w,h,d].
func (s *Size) UnmarshalJSON(b []byte) error {
	v, err := decodeVec(b)
	if err != nil {
		return fmt.Errorf("size: %w", err)
	}
	*s = Size{v[0], v[1], v[2]}
	return nil
}

func decodeVec(b []byte) ([3]float64, error) {
	var v []float64
	if err := json.Unmarshal(b, &v); err != nil {
		return [3]float64{}, err
	}
	switch len(v) {
	case 2:
		return [3]float64{v[0], v[1], 0}, nil
	case 3:
		return [3]float64{v[0], v[1], v[2]}, nil
	}
	return [3]float64{}, fmt.Errorf("want 2 or 3 components, got %d", len(v))
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Coord
	valid    bool
}

// Expand grows b to contain the cube of size s centred on c.
func (b *Box) Expand(c Coord, s Size) {
	lo := Coord{c.X - s.W/2, c.Y - s.H/2, c.Z - s.D/2}
	hi := Coord{c.X + s.W/2, c.Y + s.H/2, c.Z + s.D/2}
	if !b.valid {
		b.Min, b.Max, b.valid = lo, hi, true
		return
	}
	b.Min = Coord{math.Min(b.Min.X, lo.X), math.Min(b.Min.Y, lo.Y), math.Min(b.Min.Z, lo.Z)}
	b.Max = Coord{math.Max(b.Max.X, hi.X), math.Max(b.Max.Y, hi.Y), math.Max(b.Max.Z, hi.Z)}
}

// Valid reports whether anything was added to b.
func (b Box) Valid() bool { return b.valid }

// Center returns the centre of b.
func (b Box) Center() Coord {
	return Coord{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2, (b.Min.Z + b.Max.Z) / 2}
}

// Size returns the extent of b.
func (b Box) Size() Size {
	return Size{b.Max.X - b.Min.X, b.Max.Y - b.Min.Y, b.Max.Z - b.Min.Z}
}
