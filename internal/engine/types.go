// Package engine implements the column-store data model: databases, tables,
// columns and their optional secondary indexes (spec §3), plus the Vector
// result type operators produce and consume.
//
// The source this system is modeled on represents a column's owning table by
// a raw back-pointer inside a tagged union reached through an unsafe C
// union-plus-flag (spec §9's "Cyclic back-references" and "Tagged unions"
// notes). Go's garbage collector handles reference cycles natively, so a
// Column keeps a plain pointer back to its Table; no arena or stable-handle
// indirection is needed to avoid a leak, only to avoid exporting the cycle
// through printable struct literals (which we don't do).
package engine

import "fmt"

// DataType tags the element type of a Vector.
type DataType int

const (
	Int DataType = iota
	Long
	Double
)

func (d DataType) String() string {
	switch d {
	case Int:
		return "INT"
	case Long:
		return "LONG"
	case Double:
		return "DOUBLE"
	default:
		return "UNKNOWN"
	}
}

// Vector is a tagged, dense result buffer: the output of any executed
// operator (spec §3 "Result vector"). Position vectors and INT-typed value
// vectors always populate Ints; Longs/Doubles are used by SUM/AVG.
type Vector struct {
	Type    DataType
	Ints    []int32
	Longs   []int64
	Doubles []float64
}

// NewIntVector wraps a position/value slice as an INT vector.
func NewIntVector(data []int32) *Vector {
	return &Vector{Type: Int, Ints: data}
}

// Len reports the tuple count regardless of underlying element type.
func (v *Vector) Len() int {
	switch v.Type {
	case Long:
		return len(v.Longs)
	case Double:
		return len(v.Doubles)
	default:
		return len(v.Ints)
	}
}

// IntAt reads position i as an int32; only valid for INT vectors used as a
// position or base vector.
func (v *Vector) IntAt(i int) int32 {
	return v.Ints[i]
}

func (v *Vector) String() string {
	return fmt.Sprintf("Vector{type=%s, n=%d}", v.Type, v.Len())
}

// Bound is an optional comparison endpoint; nil means "no comparison" on
// that side (spec §4.4).
type Bound = *int32

// NewBound is a small convenience constructor so callers don't need to take
// the address of a local every time.
func NewBound(v int32) Bound {
	return &v
}

// Comparator is the fully-resolved description of a scan (spec §3): two
// optional bounds, a base vector (column or intermediate), an optional
// position vector, and the destination handle.
type Comparator struct {
	Lower, Upper Bound
	BaseColumn   *Column // nil if BaseVector is set
	BaseVector   *Vector
	PosColumn    *Column // nil if PosVector is set, or if no position vector at all
	PosVector    *Vector
	Handle       string
}

// HasPositionVector reports whether a position vector was supplied.
func (c *Comparator) HasPositionVector() bool {
	return c.PosColumn != nil || c.PosVector != nil
}

// BaseSlice returns the dense int32 data backing the base vector, whether it
// is a column or an intermediate result.
func (c *Comparator) BaseSlice() []int32 {
	if c.BaseColumn != nil {
		return c.BaseColumn.Data
	}
	return c.BaseVector.Ints
}

// PosSlice returns the dense int32 data backing the position vector. Only
// valid when HasPositionVector is true.
func (c *Comparator) PosSlice() []int32 {
	if c.PosColumn != nil {
		return c.PosColumn.Data
	}
	return c.PosVector.Ints
}

// Matches reports whether v satisfies this comparator's bounds: lower
// inclusive, upper exclusive.
func (c *Comparator) Matches(v int32) bool {
	if c.Lower != nil && v < *c.Lower {
		return false
	}
	if c.Upper != nil && v >= *c.Upper {
		return false
	}
	return true
}
