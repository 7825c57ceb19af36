// Package sortedindex implements the two-parallel-array sorted secondary
// index described in spec §4.2: a dense keys[] array kept sorted, with a
// positions[] array recording, for each key, the row it came from.
package sortedindex

// Index is a sorted (keys, positions) pair. Clustered columns use it with
// InsertClustered (key order IS row order); unclustered columns use
// InsertUnclustered (positions reference the unsorted backing column).
type Index struct {
	Keys      []int32
	Positions []int
}

// New creates an empty sorted index.
func New() *Index {
	return &Index{}
}

// leftmostInsertionPoint returns the first index i such that Keys[i] >= key,
// or len(Keys) if no such index exists — classic binary-search lower bound.
func (idx *Index) leftmostInsertionPoint(key int32) int {
	lo, hi := 0, len(idx.Keys)
	for lo < hi {
		mid := lo + (hi-lo)/2
		if idx.Keys[mid] < key {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// InsertClustered inserts key at its sorted position and returns that
// position, which becomes the row's final rank.
func (idx *Index) InsertClustered(key int32) int {
	i := idx.leftmostInsertionPoint(key)
	// duplicates: classical sorted insert places new entries after existing
	// equal keys so ties are broken by insertion order (invariant 1).
	for i < len(idx.Keys) && idx.Keys[i] == key {
		i++
	}
	idx.insertAt(i, key, i)
	for j := i + 1; j < len(idx.Positions); j++ {
		idx.Positions[j] = j
	}
	return i
}

// InsertUnclustered inserts (key, pos). When pos does not equal the current
// column length (a mid-column insert), every stored position >= pos is
// bumped by one first, mirroring the backing column's physical shift.
func (idx *Index) InsertUnclustered(key int32, pos int, length int) {
	if pos != length {
		for j := range idx.Positions {
			if idx.Positions[j] >= pos {
				idx.Positions[j]++
			}
		}
	}
	i := idx.leftmostInsertionPoint(key)
	for i < len(idx.Keys) && idx.Keys[i] == key {
		i++
	}
	idx.insertAt(i, key, pos)
}

func (idx *Index) insertAt(i int, key int32, pos int) {
	idx.Keys = append(idx.Keys, 0)
	copy(idx.Keys[i+1:], idx.Keys[i:])
	idx.Keys[i] = key

	idx.Positions = append(idx.Positions, 0)
	copy(idx.Positions[i+1:], idx.Positions[i:])
	idx.Positions[i] = pos
}

// RangeScan binary-searches for the first element >= lower (or starts at 0
// if lower is nil), then scans forward emitting positions until a key >=
// upper is seen or the index ends.
func (idx *Index) RangeScan(lower, upper *int32, out *[]int) {
	start := 0
	if lower != nil {
		start = idx.leftmostInsertionPoint(*lower)
	}
	for i := start; i < len(idx.Keys); i++ {
		if upper != nil && idx.Keys[i] >= *upper {
			return
		}
		*out = append(*out, idx.Positions[i])
	}
}

// Len reports the number of entries in the index.
func (idx *Index) Len() int {
	return len(idx.Keys)
}
