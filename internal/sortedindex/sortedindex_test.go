package sortedindex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClusteredInsertKeepsParallelArraysSorted(t *testing.T) {
	idx := New()
	for _, v := range []int32{5, 1, 4, 2, 3} {
		idx.InsertClustered(v)
	}
	require.Equal(t, []int32{1, 2, 3, 4, 5}, idx.Keys)
	require.Equal(t, []int{0, 1, 2, 3, 4}, idx.Positions)
}

func TestUnclusteredAppendTracksOriginalPositions(t *testing.T) {
	idx := New()
	// column physically holds {30, 10, 20} at positions {0, 1, 2}
	idx.InsertUnclustered(30, 0, 0)
	idx.InsertUnclustered(10, 1, 1)
	idx.InsertUnclustered(20, 2, 2)

	require.Equal(t, []int32{10, 20, 30}, idx.Keys)
	require.Equal(t, []int{1, 2, 0}, idx.Positions)
}

func TestUnclusteredMidInsertShiftsPositions(t *testing.T) {
	idx := New()
	idx.InsertUnclustered(10, 0, 0)
	idx.InsertUnclustered(30, 1, 1)
	// mid-column insert: length is 2, but pos 1 is not an append
	idx.InsertUnclustered(20, 1, 2)

	require.Equal(t, []int32{10, 20, 30}, idx.Keys)
	require.Equal(t, []int{0, 1, 2}, idx.Positions)
}

func TestLeftmostBinarySearchSkipsDuplicates(t *testing.T) {
	idx := New()
	for _, v := range []int32{1, 2, 2, 2, 3} {
		idx.InsertUnclustered(v, len(idx.Keys), len(idx.Keys))
	}
	lo := int32(2)
	var out []int
	idx.RangeScan(&lo, nil, &out)
	require.Len(t, out, 4)
}

func TestRangeScanExclusiveUpperBound(t *testing.T) {
	idx := New()
	for i := int32(0); i < 10; i++ {
		idx.InsertUnclustered(i, int(i), int(i))
	}
	lo, hi := int32(2), int32(5)
	var out []int
	idx.RangeScan(&lo, &hi, &out)
	require.Equal(t, []int{2, 3, 4}, out)
}
