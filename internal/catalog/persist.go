// Package catalog implements the on-disk persistence format (spec §6
// "Persistence layout") and tar+gzip backups, grounded on the teacher's
// internal/storage/backup.go for the backup half and on cs165_api.h /
// db_manager.c's relation.c-style dump/restore for the on-disk layout.
package catalog

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Hareesh108/haruDB/internal/engine"
)

// byteOrder is little-endian, chosen explicitly per spec §6's requirement
// that implementations document their choice.
var byteOrder = binary.LittleEndian

const allDatabasesFile = "all_databases"

// writePaddedName writes name as exactly engine.MaxNameSize bytes,
// zero-padded, matching the "padded to MAX_SIZE_NAME" fields throughout
// spec §6's layout.
func writePaddedName(w io.Writer, name string) error {
	if len(name) >= engine.MaxNameSize {
		return fmt.Errorf("name %q exceeds MAX_SIZE_NAME (%d)", name, engine.MaxNameSize)
	}
	buf := make([]byte, engine.MaxNameSize)
	copy(buf, name)
	_, err := w.Write(buf)
	return err
}

func readPaddedName(r io.Reader) (string, error) {
	buf := make([]byte, engine.MaxNameSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	end := 0
	for end < len(buf) && buf[end] != 0 {
		end++
	}
	return string(buf[:end]), nil
}

// Dump writes the catalog's full state to dir, in the directory-tree layout
// spec §6 describes: an all_databases file naming the current database,
// then one subdirectory per database holding a metadata file and one
// subdirectory per table holding the table's metadata plus one .col (and
// optional .idx) file per column.
func Dump(cat *engine.Catalog, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("catalog dump: %w", err)
	}

	currentName := ""
	if cat.Current != nil {
		currentName = cat.Current.Name
	}
	f, err := os.Create(filepath.Join(dir, allDatabasesFile))
	if err != nil {
		return fmt.Errorf("catalog dump: %w", err)
	}
	if err := writePaddedName(f, currentName); err != nil {
		f.Close()
		return fmt.Errorf("catalog dump: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("catalog dump: %w", err)
	}

	for _, db := range cat.Databases {
		if err := dumpDatabase(db, dir); err != nil {
			return err
		}
	}
	return nil
}

func dumpDatabase(db *engine.Database, rootDir string) error {
	dbDir := filepath.Join(rootDir, db.Name)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return fmt.Errorf("catalog dump database %s: %w", db.Name, err)
	}

	tables := db.TablesInOrder()
	f, err := os.Create(filepath.Join(dbDir, "meta.bin"))
	if err != nil {
		return fmt.Errorf("catalog dump database %s: %w", db.Name, err)
	}
	defer f.Close()

	if err := binary.Write(f, byteOrder, uint32(len(tables))); err != nil {
		return err
	}
	capacity := nextPow2(len(tables))
	if err := binary.Write(f, byteOrder, uint32(capacity)); err != nil {
		return err
	}
	for _, t := range tables {
		if err := writePaddedName(f, t.Name); err != nil {
			return err
		}
	}

	for _, t := range tables {
		if err := dumpTable(t, dbDir); err != nil {
			return err
		}
	}
	return nil
}

func dumpTable(t *engine.Table, dbDir string) error {
	tableDir := filepath.Join(dbDir, t.Name)
	if err := os.MkdirAll(tableDir, 0o755); err != nil {
		return fmt.Errorf("catalog dump table %s: %w", t.Name, err)
	}

	f, err := os.Create(filepath.Join(tableDir, "meta.bin"))
	if err != nil {
		return fmt.Errorf("catalog dump table %s: %w", t.Name, err)
	}
	defer f.Close()

	fields := []uint64{
		uint64(len(t.Columns)),
		uint64(t.Capacity),
		uint64(t.L),
		uint64(int64(t.IndexColumn)),
	}
	for _, v := range fields {
		if err := binary.Write(f, byteOrder, v); err != nil {
			return err
		}
	}
	for _, c := range t.Columns {
		if err := writePaddedName(f, c.Name); err != nil {
			return err
		}
	}

	for _, c := range t.Columns {
		if err := dumpColumn(c, tableDir); err != nil {
			return err
		}
	}
	return nil
}

func dumpColumn(c *engine.Column, tableDir string) error {
	f, err := os.Create(filepath.Join(tableDir, c.Name+".col"))
	if err != nil {
		return fmt.Errorf("catalog dump column %s: %w", c.Name, err)
	}
	defer f.Close()

	flag := "unclustered"
	if c.Clustered {
		flag = "clustered"
	}
	if err := writePaddedName(f, flag); err != nil {
		return err
	}
	for _, v := range c.Data {
		if err := binary.Write(f, byteOrder, v); err != nil {
			return err
		}
	}

	if c.Index == nil {
		return nil
	}
	return dumpIndex(c, tableDir)
}

func dumpIndex(c *engine.Column, tableDir string) error {
	f, err := os.Create(filepath.Join(tableDir, c.Name+".idx"))
	if err != nil {
		return fmt.Errorf("catalog dump index %s: %w", c.Name, err)
	}
	defer f.Close()

	switch {
	case c.Index.Sorted != nil:
		if err := writePaddedName(f, "sorted"); err != nil {
			return err
		}
		if err := binary.Write(f, byteOrder, uint32(len(c.Index.Sorted.Keys))); err != nil {
			return err
		}
		for _, k := range c.Index.Sorted.Keys {
			if err := binary.Write(f, byteOrder, k); err != nil {
				return err
			}
		}
		for _, p := range c.Index.Sorted.Positions {
			if err := binary.Write(f, byteOrder, uint32(p)); err != nil {
				return err
			}
		}
	case c.Index.Btree != nil:
		if err := writePaddedName(f, "btree"); err != nil {
			return err
		}
		var keys []int32
		c.Index.Btree.EnumerateKeys(&keys)
		if err := binary.Write(f, byteOrder, uint32(len(keys))); err != nil {
			return err
		}
		for _, k := range keys {
			if err := binary.Write(f, byteOrder, k); err != nil {
				return err
			}
		}
	}
	return nil
}

func nextPow2(n int) int {
	if n <= 0 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
