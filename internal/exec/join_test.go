package exec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHashJoinMatchesSemantics reproduces the worked S5 scenario: side 1
// values {7,3,5,3} at positions {0,1,2,3}; side 2 values {3,8,5} at positions
// {0,1,2}. Key 3 matches twice (side-1 positions 1 and 3, both against
// side-2 position 0); key 5 matches once (side-1 position 2 against side-2
// position 2); key 8 has no match. The sorted-append contract keeps each
// output vector ascending on its own, so out1 is {1,2,3} and out2 {0,0,2}.
func TestHashJoinMatchesSemantics(t *testing.T) {
	values1 := []int32{7, 3, 5, 3}
	positions1 := []int32{0, 1, 2, 3}
	values2 := []int32{3, 8, 5}
	positions2 := []int32{0, 1, 2}

	out1, out2 := HashJoin(values1, positions1, values2, positions2)

	require.Equal(t, []int32{1, 2, 3}, out1.Ints)
	require.Equal(t, []int32{0, 0, 2}, sortedCopy(out2.Ints))
}

func TestHashJoinNoMatches(t *testing.T) {
	out1, out2 := HashJoin([]int32{1, 2}, []int32{0, 1}, []int32{9, 9}, []int32{0, 1})
	require.Empty(t, out1.Ints)
	require.Empty(t, out2.Ints)
}

func TestHashJoinOverflowsNode(t *testing.T) {
	n := hashNodeCapacity + 5
	values1 := make([]int32, n)
	positions1 := make([]int32, n)
	for i := range values1 {
		values1[i] = 42
		positions1[i] = int32(i)
	}

	out1, _ := HashJoin(values1, positions1, []int32{42}, []int32{0})
	require.Len(t, out1.Ints, n, "every duplicate key past one node's capacity must still be found")
}

func TestNestedLoopJoinMatchesHashJoin(t *testing.T) {
	values1 := []int32{7, 3, 5, 3}
	positions1 := []int32{0, 1, 2, 3}
	values2 := []int32{3, 8, 5}
	positions2 := []int32{0, 1, 2}

	hOut1, _ := HashJoin(values1, positions1, values2, positions2)
	nOut1, _ := NestedLoopJoin(values1, positions1, values2, positions2)

	require.Equal(t, hOut1.Ints, nOut1.Ints)
}

func TestNestedLoopJoinCrossesTileBoundary(t *testing.T) {
	n := nestedLoopTile + 10
	values1 := make([]int32, n)
	positions1 := make([]int32, n)
	for i := range values1 {
		values1[i] = int32(i)
		positions1[i] = int32(i)
	}

	out1, out2 := NestedLoopJoin(values1, positions1, []int32{nestedLoopTile + 3}, []int32{0})
	require.Equal(t, []int32{nestedLoopTile + 3}, out1.Ints)
	require.Equal(t, []int32{0}, out2.Ints)
}

func sortedCopy(in []int32) []int32 {
	out := append([]int32(nil), in...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
