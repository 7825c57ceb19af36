package engine

import (
	"fmt"
	"sync"
)

// NoClusteringKey marks a table with no clustering column (spec §3's
// "none" index_column value).
const NoClusteringKey = -1

// Table is a named, fixed-at-creation sequence of columns (spec §3).
// Inserts and index updates to a table are single-threaded with respect to
// that table (spec §5); mu enforces that.
type Table struct {
	Name        string
	Columns     []*Column
	L           int
	Capacity    int
	ColCapacity int // declared column slots (create(tbl,...)'s col_count); 0 means "use len(Columns)"
	IndexColumn int // index into Columns, or NoClusteringKey

	mu sync.Mutex
}

// NewTable creates a table with the given column names, all initially
// unindexed and unclustered.
func NewTable(name string, columnNames []string) *Table {
	t := &Table{
		Name:        name,
		IndexColumn: NoClusteringKey,
		ColCapacity: len(columnNames),
	}
	for _, cn := range columnNames {
		t.Columns = append(t.Columns, &Column{Name: cn, table: t})
	}
	return t
}

// NewTableWithColumnCapacity creates a table with no columns yet, reserving
// room for colCapacity columns to be added one at a time via AddColumn —
// the two-step "create(tbl,...)" then "create(col,...)" flow (spec §6,
// grounded on the source's create_table/create_column split).
func NewTableWithColumnCapacity(name string, colCapacity int) *Table {
	return &Table{
		Name:        name,
		IndexColumn: NoClusteringKey,
		ColCapacity: colCapacity,
	}
}

// AddColumn appends a new, unindexed column, erroring if the table's
// declared column capacity is already full.
func (t *Table) AddColumn(name string) (*Column, error) {
	if len(t.Columns) >= t.ColCapacity {
		return nil, fmt.Errorf("table %s: column capacity %d already reached", t.Name, t.ColCapacity)
	}
	c := &Column{Name: name, table: t}
	t.Columns = append(t.Columns, c)
	return c, nil
}

// ColumnByName looks up a column by name, or returns nil.
func (t *Table) ColumnByName(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ColumnIndexOf returns the ordinal position of c within its table, or -1.
func (t *Table) ColumnIndexOf(c *Column) int {
	for i, col := range t.Columns {
		if col == c {
			return i
		}
	}
	return -1
}

// SetClusteringColumn designates col (which must belong to t and must not
// yet have any rows, or must already hold data in sorted order) as the
// table's clustering key. Only one column per table may be clustered
// (spec §3 invariant).
func (t *Table) SetClusteringColumn(col *Column) error {
	idx := t.ColumnIndexOf(col)
	if idx == -1 {
		return fmt.Errorf("column %s does not belong to table %s", col.Name, t.Name)
	}
	if t.IndexColumn != NoClusteringKey && t.IndexColumn != idx {
		return fmt.Errorf("table %s already has a clustering column", t.Name)
	}
	t.IndexColumn = idx
	col.Clustered = true
	return nil
}

// Insert appends one row, applying the clustered or unclustered insert path
// per spec §4.3. len(values) must equal len(t.Columns).
func (t *Table) Insert(values []int32) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("table %s: expected %d values, got %d", t.Name, len(t.Columns), len(values))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.IndexColumn == NoClusteringKey {
		for i, c := range t.Columns {
			c.appendUnclustered(values[i])
		}
		t.L++
		t.growCapacity()
		t.logInsert()
		return nil
	}

	clusterCol := t.Columns[t.IndexColumn]
	p := clusterCol.insertClustered(values[t.IndexColumn])
	for i, c := range t.Columns {
		if i == t.IndexColumn {
			continue
		}
		c.placeAt(values[i], p)
	}
	t.L++
	t.growCapacity()
	t.logInsert()
	return nil
}

// logInsert emits one debug record per row insert (spec §9 design note on
// instrumentation), counting rows rather than timing each one individually —
// per-row timers would dwarf the insert itself in overhead.
func (t *Table) logInsert() {
	Log.Debug().Str("component", "engine").Str("table", t.Name).Int("rows", t.L).Msg("row inserted")
}

// growCapacity doubles the table's nominal capacity once L exceeds it,
// mirroring the teacher's column-growth idiom (spec §4.3
// Column.ensure_capacity). Column backing arrays are Go slices and grow
// themselves; Capacity is tracked for parity with the on-disk/catalog
// metadata format (spec §6) and reporting.
func (t *Table) growCapacity() {
	if t.Capacity == 0 {
		t.Capacity = 1
	}
	for t.L > t.Capacity {
		t.Capacity *= 2
	}
}
