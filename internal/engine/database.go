package engine

import "fmt"

// Database is a named, ordered sequence of tables (spec §3).
type Database struct {
	Name       string
	Tables     map[string]*Table
	tableOrder []string
}

// NewDatabase creates an empty database.
func NewDatabase(name string) *Database {
	return &Database{
		Name:   name,
		Tables: make(map[string]*Table),
	}
}

// CreateTable adds a new table, erroring if the name is already taken.
func (db *Database) CreateTable(name string, columnNames []string) (*Table, error) {
	if _, exists := db.Tables[name]; exists {
		return nil, fmt.Errorf("table %s already exists in database %s", name, db.Name)
	}
	t := NewTable(name, columnNames)
	db.Tables[name] = t
	db.tableOrder = append(db.tableOrder, name)
	return t, nil
}

// CreateTableWithColumnCapacity adds a new table declared with colCapacity
// column slots but no columns yet, erroring if the name is already taken
// (the two-step create(tbl,...) form, spec §6).
func (db *Database) CreateTableWithColumnCapacity(name string, colCapacity int) (*Table, error) {
	if _, exists := db.Tables[name]; exists {
		return nil, fmt.Errorf("table %s already exists in database %s", name, db.Name)
	}
	t := NewTableWithColumnCapacity(name, colCapacity)
	db.Tables[name] = t
	db.tableOrder = append(db.tableOrder, name)
	return t, nil
}

// AppendTableOrder records name in the creation-order list without creating
// a table; used by the catalog loader, which builds Tables and order
// separately as it reads a persisted database back in (spec §6).
func (db *Database) AppendTableOrder(name string) {
	db.tableOrder = append(db.tableOrder, name)
}

// TableByName looks up a table, or returns nil.
func (db *Database) TableByName(name string) *Table {
	return db.Tables[name]
}

// TablesInOrder returns tables in creation order (used by the catalog dump).
func (db *Database) TablesInOrder() []*Table {
	out := make([]*Table, 0, len(db.tableOrder))
	for _, name := range db.tableOrder {
		if t, ok := db.Tables[name]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Catalog owns every database known to the engine and tracks which one is
// current (spec §3: "at most one database is current per engine instance").
// The source keeps this as process-wide global state; per spec §9's "Global
// state" design note we replace it with an explicit handle threaded through
// the dispatcher instead.
type Catalog struct {
	Databases map[string]*Database
	Current   *Database
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{Databases: make(map[string]*Database)}
}

// CreateDatabase creates and switches to a new current database.
func (c *Catalog) CreateDatabase(name string) (*Database, error) {
	if _, exists := c.Databases[name]; exists {
		return nil, fmt.Errorf("database %s already exists", name)
	}
	db := NewDatabase(name)
	c.Databases[name] = db
	c.Current = db
	Log.Debug().Str("component", "engine").Str("database", name).Msg("database created")
	return db, nil
}

// ResolveTable finds a table by qualified "db.table" or bare "table" name,
// falling back to the current database in the latter case.
func (c *Catalog) ResolveTable(dbName, tableName string) (*Table, error) {
	var db *Database
	if dbName != "" {
		db = c.Databases[dbName]
		if db == nil {
			return nil, fmt.Errorf("database %s not found", dbName)
		}
	} else {
		db = c.Current
		if db == nil {
			return nil, fmt.Errorf("no current database")
		}
	}
	t := db.TableByName(tableName)
	if t == nil {
		return nil, fmt.Errorf("table %s not found", tableName)
	}
	return t, nil
}

// ResolveColumn resolves a dotted "db.table.column" or "table.column" name.
func (c *Catalog) ResolveColumn(dbName, tableName, columnName string) (*Column, error) {
	t, err := c.ResolveTable(dbName, tableName)
	if err != nil {
		return nil, err
	}
	col := t.ColumnByName(columnName)
	if col == nil {
		return nil, fmt.Errorf("column %s not found in table %s", columnName, tableName)
	}
	return col, nil
}
