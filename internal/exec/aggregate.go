package exec

import (
	"fmt"
	"math"

	"github.com/Hareesh108/haruDB/internal/engine"
)

// Sum accumulates into a LONG to avoid 32-bit overflow (spec §4.6).
func Sum(data []int32) *engine.Vector {
	var total int64
	for _, v := range data {
		total += int64(v)
	}
	return &engine.Vector{Type: engine.Long, Longs: []int64{total}}
}

// Avg computes a DOUBLE mean. An empty input returns an error rather than a
// silent NaN from dividing a zero sum by a zero length.
func Avg(data []int32) (*engine.Vector, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("avg: empty input")
	}
	var total int64
	for _, v := range data {
		total += int64(v)
	}
	mean := float64(total) / float64(len(data))
	return &engine.Vector{Type: engine.Double, Doubles: []float64{mean}}, nil
}

// Min returns the minimum of data as a single-tuple INT vector.
func Min(data []int32) (*engine.Vector, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("min: empty input")
	}
	m := int32(math.MaxInt32)
	for _, v := range data {
		if v < m {
			m = v
		}
	}
	return engine.NewIntVector([]int32{m}), nil
}

// Max returns the maximum of data as a single-tuple INT vector.
func Max(data []int32) (*engine.Vector, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("max: empty input")
	}
	m := int32(math.MinInt32)
	for _, v := range data {
		if v > m {
			m = v
		}
	}
	return engine.NewIntVector([]int32{m}), nil
}

// MinAtPositions computes min(values[positions[i]]) for i in range — the
// two-argument min() form (spec §4.6, §9's note on the optional position
// vector: modeled as an explicit parameter rather than a sentinel string).
func MinAtPositions(positions []int32, values []int32) (*engine.Vector, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("min: empty input")
	}
	m := int32(math.MaxInt32)
	for _, p := range positions {
		if v := values[p]; v < m {
			m = v
		}
	}
	return engine.NewIntVector([]int32{m}), nil
}

// MaxAtPositions computes max(values[positions[i]]) for i in range.
func MaxAtPositions(positions []int32, values []int32) (*engine.Vector, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("max: empty input")
	}
	m := int32(math.MinInt32)
	for _, p := range positions {
		if v := values[p]; v > m {
			m = v
		}
	}
	return engine.NewIntVector([]int32{m}), nil
}

// Add computes element-wise v1[i] + v2[i]; equal lengths required.
func Add(v1, v2 []int32) (*engine.Vector, error) {
	return elementWise(v1, v2, func(a, b int32) int32 { return a + b })
}

// Sub computes element-wise v1[i] - v2[i]; equal lengths required.
func Sub(v1, v2 []int32) (*engine.Vector, error) {
	return elementWise(v1, v2, func(a, b int32) int32 { return a - b })
}

func elementWise(v1, v2 []int32, op func(a, b int32) int32) (*engine.Vector, error) {
	if len(v1) != len(v2) {
		return nil, fmt.Errorf("element-wise op: length mismatch %d != %d", len(v1), len(v2))
	}
	out := make([]int32, len(v1))
	for i := range v1 {
		out[i] = op(v1[i], v2[i])
	}
	return engine.NewIntVector(out), nil
}
