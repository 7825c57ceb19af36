package catalog

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Hareesh108/haruDB/internal/engine"
)

// Restore reads a catalog previously written by Dump back into memory.
// Index files are NOT read back key-for-key; instead each index is rebuilt
// by replaying per-row inserts over the restored column data (spec §6:
// "positions reconstructed on load by reinsertion" for B+tree, and the
// equivalent for sorted indexes) via Column.BuildIndexFromData, which
// replays in physical order. The node fanout is not persisted: a B+tree
// index is always rebuilt with engine.DefaultMaxBtreeKeys.
func Restore(dir string) (*engine.Catalog, error) {
	currentName, err := readAllDatabasesFile(filepath.Join(dir, allDatabasesFile))
	if err != nil {
		return nil, err
	}

	cat := engine.NewCatalog()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog restore: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		db, err := restoreDatabase(filepath.Join(dir, e.Name()), e.Name())
		if err != nil {
			return nil, err
		}
		cat.Databases[db.Name] = db
		if db.Name == currentName {
			cat.Current = db
		}
	}
	return cat, nil
}

func readAllDatabasesFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("catalog restore: %w", err)
	}
	defer f.Close()
	return readPaddedName(f)
}

func restoreDatabase(dbDir, name string) (*engine.Database, error) {
	f, err := os.Open(filepath.Join(dbDir, "meta.bin"))
	if err != nil {
		return nil, fmt.Errorf("catalog restore database %s: %w", name, err)
	}
	defer f.Close()

	var tablesSize, tablesCapacity uint32
	if err := binary.Read(f, byteOrder, &tablesSize); err != nil {
		return nil, err
	}
	if err := binary.Read(f, byteOrder, &tablesCapacity); err != nil {
		return nil, err
	}
	tableNames := make([]string, tablesSize)
	for i := range tableNames {
		n, err := readPaddedName(f)
		if err != nil {
			return nil, err
		}
		tableNames[i] = n
	}

	db := engine.NewDatabase(name)
	for _, tn := range tableNames {
		t, err := restoreTable(filepath.Join(dbDir, tn), tn)
		if err != nil {
			return nil, err
		}
		db.Tables[tn] = t
		db.AppendTableOrder(tn)
	}
	return db, nil
}

func restoreTable(tableDir, name string) (*engine.Table, error) {
	f, err := os.Open(filepath.Join(tableDir, "meta.bin"))
	if err != nil {
		return nil, fmt.Errorf("catalog restore table %s: %w", name, err)
	}
	defer f.Close()

	var colCount, capacity, length, indexColumn uint64
	for _, dst := range []*uint64{&colCount, &capacity, &length, &indexColumn} {
		if err := binary.Read(f, byteOrder, dst); err != nil {
			return nil, err
		}
	}
	colNames := make([]string, colCount)
	for i := range colNames {
		n, err := readPaddedName(f)
		if err != nil {
			return nil, err
		}
		colNames[i] = n
	}

	t := engine.NewTable(name, colNames)
	t.Capacity = int(capacity)
	t.L = int(length)
	t.IndexColumn = int(int64(indexColumn))

	for i, c := range t.Columns {
		if err := restoreColumn(c, tableDir, i == t.IndexColumn); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func restoreColumn(c *engine.Column, tableDir string, clustered bool) error {
	f, err := os.Open(filepath.Join(tableDir, c.Name+".col"))
	if err != nil {
		return fmt.Errorf("catalog restore column %s: %w", c.Name, err)
	}
	defer f.Close()

	flag, err := readPaddedName(f)
	if err != nil {
		return err
	}
	c.Clustered = flag == "clustered" || clustered

	var data []int32
	for {
		var v int32
		if err := binary.Read(f, byteOrder, &v); err != nil {
			break
		}
		data = append(data, v)
	}
	c.Data = data

	idxPath := filepath.Join(tableDir, c.Name+".idx")
	if _, err := os.Stat(idxPath); err != nil {
		return nil
	}
	idxFile, err := os.Open(idxPath)
	if err != nil {
		return fmt.Errorf("catalog restore index %s: %w", c.Name, err)
	}
	defer idxFile.Close()

	kind, err := readPaddedName(idxFile)
	if err != nil {
		return err
	}
	if kind == "btree" {
		c.BuildIndexFromData(engine.BtreeKind, engine.DefaultMaxBtreeKeys)
	} else {
		c.BuildIndexFromData(engine.SortedKind, 0)
	}
	return nil
}
