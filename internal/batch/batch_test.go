package batch

import (
	"testing"

	"github.com/Hareesh108/haruDB/internal/engine"
	"github.com/Hareesh108/haruDB/internal/session"
	"github.com/stretchr/testify/require"
)

func makeBaseColumn(data []int32) *engine.Column {
	t := engine.NewTable("t", []string{"a"})
	t.Columns[0].Data = data
	return t.Columns[0]
}

func TestBatchExecuteSharedBase(t *testing.T) {
	col := makeBaseColumn([]int32{1, 5, 10, 15, 20})
	b := New(4, 2)

	lo1, hi1 := engine.NewBound(0), engine.NewBound(10)
	lo2, hi2 := engine.NewBound(10), engine.NewBound(30)

	require.NoError(t, b.Add("h1", &engine.Comparator{BaseColumn: col, Lower: lo1, Upper: hi1}))
	require.NoError(t, b.Add("h2", &engine.Comparator{BaseColumn: col, Lower: lo2, Upper: hi2}))
	require.Equal(t, 2, b.Len())

	ctx := session.New(8)
	b.Execute(ctx)
	require.Equal(t, 0, b.Len())

	r1, err := ctx.Get("h1")
	require.NoError(t, err)
	require.Equal(t, []int32{0, 1}, r1.Ints)

	r2, err := ctx.Get("h2")
	require.NoError(t, err)
	require.Equal(t, []int32{2, 3, 4}, r2.Ints)
}

func TestBatchGroupsOnlySameBase(t *testing.T) {
	colA := makeBaseColumn([]int32{1, 2, 3})
	colB := makeBaseColumn([]int32{4, 5, 6})
	b := New(4, 2)

	require.NoError(t, b.Add("a", &engine.Comparator{BaseColumn: colA}))
	require.NoError(t, b.Add("b", &engine.Comparator{BaseColumn: colB}))

	buckets := b.groupIntoBuckets()
	require.Len(t, buckets, 2)
}

func TestBatchRespectsMaxSharedPerPass(t *testing.T) {
	col := makeBaseColumn([]int32{1, 2, 3})
	b := New(1, 4)

	require.NoError(t, b.Add("a", &engine.Comparator{BaseColumn: col}))
	require.NoError(t, b.Add("b", &engine.Comparator{BaseColumn: col}))

	buckets := b.groupIntoBuckets()
	require.Len(t, buckets, 2, "maxSharedPerPass=1 disables fusion even for a shared base")
}

func TestBatchRejectsOverCapacity(t *testing.T) {
	b := New(4, 2)
	b.maxJobs = 1
	col := makeBaseColumn([]int32{1})

	require.NoError(t, b.Add("a", &engine.Comparator{BaseColumn: col}))
	require.Error(t, b.Add("b", &engine.Comparator{BaseColumn: col}))
}
