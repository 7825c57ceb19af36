// Package exec implements the non-batched relational operators: scan/select,
// fetch, aggregates, and joins (spec §4.4, §4.6). The batched shared-scan
// scheduler lives in internal/batch and reuses the per-tile matching logic
// here.
package exec

import "github.com/Hareesh108/haruDB/internal/engine"

// Scan implements the range-filter select operator (spec §4.4):
//
//   - no position vector, base is a column with a sorted/B+tree index, and
//     at least one bound: answered via the index's own range scan.
//   - no position vector, no usable index: linear scan over the base,
//     emitting row indices in base order.
//   - with a position vector: for each i, if base[i] matches, emit pos[i]
//     (pos is the vector of output identifiers, not the base).
func Scan(cmp *engine.Comparator) *engine.Vector {
	if cmp.HasPositionVector() {
		return scanWithPositionVector(cmp)
	}

	if cmp.BaseColumn != nil && cmp.BaseColumn.Index != nil && (cmp.Lower != nil || cmp.Upper != nil) {
		var positions []int
		cmp.BaseColumn.Index.RangeScan(cmp.Lower, cmp.Upper, &positions)
		out := make([]int32, len(positions))
		for i, p := range positions {
			out[i] = int32(p)
		}
		return engine.NewIntVector(out)
	}

	base := cmp.BaseSlice()
	out := make([]int32, 0, len(base))
	for i, v := range base {
		if cmp.Matches(v) {
			out = append(out, int32(i))
		}
	}
	return engine.NewIntVector(out)
}

func scanWithPositionVector(cmp *engine.Comparator) *engine.Vector {
	base := cmp.BaseSlice()
	pos := cmp.PosSlice()
	out := make([]int32, 0, len(pos))
	for i := 0; i < len(pos); i++ {
		if cmp.Matches(base[i]) {
			out = append(out, pos[i])
		}
	}
	return engine.NewIntVector(out)
}

// MatchTile evaluates cmp against base[start:end] (and, if present, the
// aligned position-vector slice pos[start:end]), appending matches to dst.
// This is the tile-granular primitive the batch scheduler fuses multiple
// comparators around (spec §4.5): it performs exactly the work
// select_unsorted_data_shared / select_unsorted_data_with_pos_vec_shared do
// over one SELECT_VECTOR_SIZE-wide slice.
func MatchTile(cmp *engine.Comparator, base []int32, pos []int32, start, end int, dst *[]int32) {
	if pos != nil {
		for i := start; i < end; i++ {
			if cmp.Matches(base[i]) {
				*dst = append(*dst, pos[i])
			}
		}
		return
	}
	for i := start; i < end; i++ {
		if cmp.Matches(base[i]) {
			*dst = append(*dst, int32(i))
		}
	}
}
