package exec

import (
	"testing"

	"github.com/Hareesh108/haruDB/internal/engine"
	"github.com/stretchr/testify/require"
)

func TestBuildPrintSingleRow(t *testing.T) {
	v1 := engine.NewIntVector([]int32{7})
	v2 := &engine.Vector{Type: engine.Long, Longs: []int64{99}}

	plan, err := BuildPrint([]*engine.Vector{v1, v2})
	require.NoError(t, err)
	require.False(t, plan.MultiRow)
	require.Equal(t, []engine.DataType{engine.Int, engine.Long}, plan.Types)
}

func TestBuildPrintMultiRowTiling(t *testing.T) {
	n := PrintTileRows + 10
	data := make([]int32, n)
	for i := range data {
		data[i] = int32(i)
	}
	v := engine.NewIntVector(data)

	plan, err := BuildPrint([]*engine.Vector{v, v})
	require.NoError(t, err)
	require.True(t, plan.MultiRow)
	require.Equal(t, 2, plan.Tiles())

	start, end := plan.Tile(0)
	require.Equal(t, 0, start)
	require.Equal(t, PrintTileRows, end)

	start, end = plan.Tile(1)
	require.Equal(t, PrintTileRows, start)
	require.Equal(t, n, end)
}

func TestBuildPrintMultiRowRejectsNonInt(t *testing.T) {
	intVec := engine.NewIntVector([]int32{1, 2})
	longVec := &engine.Vector{Type: engine.Long, Longs: []int64{1, 2}}

	_, err := BuildPrint([]*engine.Vector{intVec, longVec})
	require.Error(t, err)
}

func TestBuildPrintMultiRowRejectsLengthMismatch(t *testing.T) {
	a := engine.NewIntVector([]int32{1, 2, 3})
	b := engine.NewIntVector([]int32{1, 2})

	_, err := BuildPrint([]*engine.Vector{a, b})
	require.Error(t, err)
}
