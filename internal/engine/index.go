package engine

import (
	"github.com/Hareesh108/haruDB/internal/btree"
	"github.com/Hareesh108/haruDB/internal/sortedindex"
)

// IndexKind discriminates the two ColumnIndex variants (spec §3).
type IndexKind int

const (
	SortedKind IndexKind = iota
	BtreeKind
)

func (k IndexKind) String() string {
	if k == BtreeKind {
		return "btree"
	}
	return "sorted"
}

// ColumnIndex is the tagged union of the two supported secondary index
// backends. Exactly one of Sorted/Btree is populated, selected by Kind.
type ColumnIndex struct {
	Kind   IndexKind
	Sorted *sortedindex.Index
	Btree  *btree.Tree
}

// NewSortedColumnIndex creates an empty sorted index.
func NewSortedColumnIndex() *ColumnIndex {
	return &ColumnIndex{Kind: SortedKind, Sorted: sortedindex.New()}
}

// NewBtreeColumnIndex creates an empty B+tree index with the given node
// fanout (spec's MAX_NODE_KEYS; btree.DefaultMaxKeys if maxKeys < 8).
func NewBtreeColumnIndex(maxKeys int) *ColumnIndex {
	return &ColumnIndex{Kind: BtreeKind, Btree: btree.New(maxKeys)}
}

// insertClustered inserts key and returns its rank (invariant 6).
func (idx *ColumnIndex) insertClustered(key int32) int {
	if idx.Kind == BtreeKind {
		return idx.Btree.InsertClustered(key)
	}
	return idx.Sorted.InsertClustered(key)
}

// insertUnclustered inserts (key, pos); length is the column length prior to
// this insert. pos == length means an append (the common "last" case, spec
// §4.1); anything less means a mid-column insert that shifts later entries.
func (idx *ColumnIndex) insertUnclustered(key int32, pos int, length int) {
	if idx.Kind == BtreeKind {
		idx.Btree.InsertUnclustered(key, pos, pos == length)
		return
	}
	idx.Sorted.InsertUnclustered(key, pos, length)
}

// RangeScan appends matching positions to out per the index's own order
// (key order for both backends, spec §4.4).
func (idx *ColumnIndex) RangeScan(lower, upper Bound, out *[]int) {
	if idx.Kind == BtreeKind {
		idx.Btree.RangeScan(lower, upper, out)
		return
	}
	idx.Sorted.RangeScan(lower, upper, out)
}

// Len reports how many entries the index holds.
func (idx *ColumnIndex) Len() int {
	if idx.Kind == BtreeKind {
		return idx.Btree.Len()
	}
	return idx.Sorted.Len()
}
