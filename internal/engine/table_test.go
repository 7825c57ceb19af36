package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnclusteredInsertAppendsInOrder(t *testing.T) {
	tab := NewTable("t1", []string{"a", "b"})
	rows := [][2]int32{{1, 10}, {3, 30}, {2, 20}, {5, 50}, {4, 40}}
	for _, r := range rows {
		require.NoError(t, tab.Insert([]int32{r[0], r[1]}))
	}
	require.Equal(t, 5, tab.L)
	require.Equal(t, []int32{1, 3, 2, 5, 4}, tab.Columns[0].Data)
	require.Equal(t, []int32{10, 30, 20, 50, 40}, tab.Columns[1].Data)
}

func TestClusteredInsertKeepsAllColumnsInKeyOrder(t *testing.T) {
	tab := NewTable("t1", []string{"a", "b"})
	require.NoError(t, tab.SetClusteringColumn(tab.Columns[0]))

	rows := [][2]int32{{1, 10}, {3, 30}, {2, 20}, {5, 50}, {4, 40}}
	for _, r := range rows {
		require.NoError(t, tab.Insert([]int32{r[0], r[1]}))
	}

	require.Equal(t, []int32{1, 2, 3, 4, 5}, tab.Columns[0].Data)
	require.Equal(t, []int32{10, 20, 30, 40, 50}, tab.Columns[1].Data)
}

func TestClusteredBtreeIndexMatchesPhysicalOrder(t *testing.T) {
	tab := NewTable("t1", []string{"a"})
	col := tab.Columns[0]
	col.Index = NewBtreeColumnIndex(8)
	require.NoError(t, tab.SetClusteringColumn(col))

	for _, v := range []int32{9, 1, 5, 3, 7, 2, 8, 4, 6, 0} {
		require.NoError(t, tab.Insert([]int32{v}))
	}
	require.Equal(t, []int32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, col.Data)

	var keys []int32
	col.Index.Btree.EnumerateKeys(&keys)
	require.Equal(t, col.Data, keys)
}

func TestUnclusteredSecondaryIndexTracksPhysicalPositions(t *testing.T) {
	tab := NewTable("t1", []string{"a"})
	col := tab.Columns[0]
	col.Index = NewSortedColumnIndex()

	for _, v := range []int32{30, 10, 20} {
		require.NoError(t, tab.Insert([]int32{v}))
	}
	require.Equal(t, []int32{30, 10, 20}, col.Data)
	require.Equal(t, []int32{10, 20, 30}, col.Index.Sorted.Keys)
	require.Equal(t, []int{1, 2, 0}, col.Index.Sorted.Positions)
}

func TestInsertRejectsWrongArity(t *testing.T) {
	tab := NewTable("t1", []string{"a", "b"})
	require.Error(t, tab.Insert([]int32{1}))
}

func TestBuildIndexFromDataMatchesIncrementalBuild(t *testing.T) {
	tab := NewTable("t1", []string{"a"})
	col := tab.Columns[0]
	for _, v := range []int32{30, 10, 20, 5, 25} {
		require.NoError(t, tab.Insert([]int32{v}))
	}
	col.BuildIndexFromData(SortedKind, 0)

	want := NewSortedColumnIndex()
	for i, v := range col.Data {
		want.Sorted.InsertUnclustered(v, i, i)
	}
	require.Equal(t, want.Sorted.Keys, col.Index.Sorted.Keys)
	require.Equal(t, want.Sorted.Positions, col.Index.Sorted.Positions)
}
