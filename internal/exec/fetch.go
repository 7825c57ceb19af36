package exec

import "github.com/Hareesh108/haruDB/internal/engine"

// Fetch gathers values from column by positions: result[i] = column.Data[positions[i]]
// (spec §4.6). The result is always INT-typed.
func Fetch(column *engine.Column, positions *engine.Vector) *engine.Vector {
	pos := positions.Ints
	out := make([]int32, len(pos))
	for i, p := range pos {
		out[i] = column.Data[p]
	}
	return engine.NewIntVector(out)
}
