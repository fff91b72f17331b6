// Package value defines the small value types stored by graph properties:
// [Color], [Size] and [Coord].
//
// All three are comparable structs that encode to JSON as flat arrays, so
// that a colour reads as [255,0,0,255] and a position as [1.5,2,0] in saved
// graphs.
package value
