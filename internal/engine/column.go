package engine

// Column is a dense int32 vector belonging to one Table, with an optional
// secondary index (spec §3). Clustered is true iff this column is its
// table's clustering key — the column whose sort order defines the physical
// row order of every column in the table (invariant 2).
type Column struct {
	Name      string
	Data      []int32
	Index     *ColumnIndex
	Clustered bool
	table     *Table
}

// Table returns the owning table.
func (c *Column) Table() *Table {
	return c.table
}

// ensureClusterIndex lazily attaches a sorted index to a clustering column
// that has none yet — a clustered column always needs *some* index to
// determine insertion rank (spec §4.3 requires "the column's index").
func (c *Column) ensureClusterIndex() {
	if c.Index == nil {
		c.Index = NewSortedColumnIndex()
	}
}

// insertClustered places value at its sorted rank, shifting this column's
// own data, and returns the rank so the table can apply it uniformly to
// every sibling column.
func (c *Column) insertClustered(value int32) int {
	c.ensureClusterIndex()
	p := c.Index.insertClustered(value)
	c.Data = append(c.Data, 0)
	copy(c.Data[p+1:], c.Data[p:])
	c.Data[p] = value
	return p
}

// placeAt inserts value at an already-known rank p (used for every
// non-clustering column in a clustered table, and to maintain a secondary
// unclustered index on that column).
func (c *Column) placeAt(value int32, p int) {
	length := len(c.Data)
	c.Data = append(c.Data, 0)
	copy(c.Data[p+1:], c.Data[p:])
	c.Data[p] = value
	if c.Index != nil {
		c.Index.insertUnclustered(value, p, length)
	}
}

// appendUnclustered appends value at the end of an unclustered column's
// data (no table-wide clustering key) and maintains any secondary index.
func (c *Column) appendUnclustered(value int32) {
	length := len(c.Data)
	c.Data = append(c.Data, value)
	if c.Index != nil {
		c.Index.insertUnclustered(value, length, length)
	}
}

// BuildIndexFromData (re)builds an index over the column's current values by
// replaying per-row inserts in physical order, matching the semantics of a
// per-row insert build exactly (spec §4.3 "Load").
func (c *Column) BuildIndexFromData(kind IndexKind, maxBtreeKeys int) {
	if kind == BtreeKind {
		c.Index = NewBtreeColumnIndex(maxBtreeKeys)
	} else {
		c.Index = NewSortedColumnIndex()
	}
	if c.Clustered {
		// The column is already in clustered (sorted) order; replaying
		// insert_clustered in that same order reproduces the identical
		// rank-by-rank structure an incremental build would have produced.
		for _, v := range c.Data {
			c.Index.insertClustered(v)
		}
		return
	}
	for i, v := range c.Data {
		c.Index.insertUnclustered(v, i, i)
	}
}
