package exec

import (
	"fmt"

	"github.com/Hareesh108/haruDB/internal/engine"
)

// PrintTileRows is the row-count of one column-major print tile on the wire
// (spec §4.7, §6).
const PrintTileRows = 512

// PrintPlan is the resolved shape of a print call, ready for the wire layer
// to frame into header+payload exchanges (spec §6's print sub-protocol).
// Exactly one of the two modes is populated.
type PrintPlan struct {
	MultiRow bool

	// Single-row mode: one type and one value per input vector.
	Types  []engine.DataType
	Values []*engine.Vector

	// Multi-row mode: every input is INT and of equal length; Columns holds
	// each vector's dense data, NumRows long, column-major on the wire.
	Columns []([]int32)
	NumRows int
}

// BuildPrint decides single-row vs. multi-row mode and validates the
// multi-row precondition (spec §4.7): all inputs length 1 means single-row;
// otherwise every input must be INT-typed and of equal length.
func BuildPrint(vectors []*engine.Vector) (*PrintPlan, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("print: no vectors given")
	}

	allLenOne := true
	for _, v := range vectors {
		if v.Len() != 1 {
			allLenOne = false
			break
		}
	}
	if allLenOne {
		types := make([]engine.DataType, len(vectors))
		for i, v := range vectors {
			types[i] = v.Type
		}
		return &PrintPlan{MultiRow: false, Types: types, Values: vectors}, nil
	}

	n := vectors[0].Len()
	cols := make([][]int32, len(vectors))
	for i, v := range vectors {
		if v.Type != engine.Int {
			return nil, fmt.Errorf("print: multi-row mode requires all-INT vectors, column %d is %s", i, v.Type)
		}
		if v.Len() != n {
			return nil, fmt.Errorf("print: multi-row mode requires equal-length vectors, column %d has %d rows, column 0 has %d", i, v.Len(), n)
		}
		cols[i] = v.Ints
	}
	return &PrintPlan{MultiRow: true, Columns: cols, NumRows: n}, nil
}

// Tiles reports the number of PrintTileRows-sized tiles needed to cover
// NumRows, including a final short tile.
func (p *PrintPlan) Tiles() int {
	if p.NumRows == 0 {
		return 0
	}
	return (p.NumRows + PrintTileRows - 1) / PrintTileRows
}

// Tile returns the [start, end) row range covered by tile index i.
func (p *PrintPlan) Tile(i int) (start, end int) {
	start = i * PrintTileRows
	end = min(start+PrintTileRows, p.NumRows)
	return
}
