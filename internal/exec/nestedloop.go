package exec

import "github.com/Hareesh108/haruDB/internal/engine"

// nestedLoopTile is the block size for the blocked nested-loop join (spec
// §4.6, the NESTED-LOOP branch of JOIN): both inputs are walked in
// nestedLoopTile-sized tiles so the inner comparison pass stays cache-
// resident instead of streaming the whole of the outer side's column once
// per inner row.
const nestedLoopTile = 1024

// NestedLoopJoin compares every (values1[r], values2[m]) pair across tiled
// blocks of both inputs, emitting a matching (pos1, pos2) tuple per hit, kept
// ascending the same way HashJoin's output is.
func NestedLoopJoin(values1, positions1, values2, positions2 []int32) (*engine.Vector, *engine.Vector) {
	var out1, out2 []int32
	for i := 0; i < len(values1); i += nestedLoopTile {
		iEnd := min(i+nestedLoopTile, len(values1))
		for j := 0; j < len(values2); j += nestedLoopTile {
			jEnd := min(j+nestedLoopTile, len(values2))
			for r := i; r < iEnd; r++ {
				for m := j; m < jEnd; m++ {
					if values1[r] == values2[m] {
						out1 = insertSorted(out1, positions1[r])
						out2 = insertSorted(out2, positions2[m])
					}
				}
			}
		}
	}
	return engine.NewIntVector(out1), engine.NewIntVector(out2)
}
