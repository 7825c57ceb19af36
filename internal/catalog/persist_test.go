package catalog

import (
	"path/filepath"
	"testing"

	"github.com/Hareesh108/haruDB/internal/engine"
	"github.com/stretchr/testify/require"
)

func buildSampleCatalog(t *testing.T) *engine.Catalog {
	t.Helper()
	cat := engine.NewCatalog()
	db, err := cat.CreateDatabase("db1")
	require.NoError(t, err)

	tbl, err := db.CreateTable("t1", []string{"a", "b"})
	require.NoError(t, err)
	require.NoError(t, tbl.SetClusteringColumn(tbl.Columns[0]))
	tbl.Columns[0].BuildIndexFromData(engine.SortedKind, 0)

	for _, row := range [][]int32{{30, 1}, {10, 2}, {20, 3}} {
		require.NoError(t, tbl.Insert(row))
	}
	return cat
}

func TestDumpRestoreRoundTrip(t *testing.T) {
	cat := buildSampleCatalog(t)
	dir := filepath.Join(t.TempDir(), "data")

	require.NoError(t, Dump(cat, dir))

	restored, err := Restore(dir)
	require.NoError(t, err)
	require.NotNil(t, restored.Current)
	require.Equal(t, "db1", restored.Current.Name)

	tbl := restored.Current.TableByName("t1")
	require.NotNil(t, tbl)
	require.Equal(t, []int32{10, 20, 30}, tbl.Columns[0].Data)
	require.Equal(t, []int32{2, 3, 1}, tbl.Columns[1].Data)
	require.True(t, tbl.Columns[0].Clustered)
	require.NotNil(t, tbl.Columns[0].Index)
	require.Equal(t, 3, tbl.Columns[0].Index.Len())
}

func TestBackupRoundTrip(t *testing.T) {
	cat := buildSampleCatalog(t)
	dataDir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, Dump(cat, dataDir))

	backupPath := filepath.Join(t.TempDir(), "archive.tar.gz")
	bm := NewBackupManager(dataDir)
	require.NoError(t, bm.CreateBackup(backupPath, "test backup"))

	info, err := bm.GetBackupInfo(backupPath)
	require.NoError(t, err)
	require.Equal(t, "test backup", info.Description)

	require.NoError(t, bm.RestoreBackup(backupPath))
	restored, err := Restore(dataDir)
	require.NoError(t, err)
	require.Equal(t, "db1", restored.Current.Name)
}
