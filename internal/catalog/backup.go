package catalog

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// BackupInfo describes one backup archive, adapted from the teacher's
// internal/storage/backup.go BackupInfo but scoped to a persisted catalog
// directory tree rather than a flat set of .harudb files.
type BackupInfo struct {
	Timestamp   time.Time `json:"timestamp"`
	DatabaseCount int     `json:"database_count"`
	BackupSize  int64     `json:"backup_size"`
	Description string    `json:"description"`
}

// BackupManager archives and restores a catalog's persistence directory as
// a single tar.gz file.
type BackupManager struct {
	dataDir string
}

// NewBackupManager creates a backup manager rooted at dataDir, the same
// directory Dump/Restore operate on.
func NewBackupManager(dataDir string) *BackupManager {
	return &BackupManager{dataDir: dataDir}
}

// CreateBackup archives the entire persistence directory tree to backupPath.
func (bm *BackupManager) CreateBackup(backupPath, description string) error {
	if err := os.MkdirAll(filepath.Dir(backupPath), 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	backupFile, err := os.Create(backupPath)
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}
	defer backupFile.Close()

	gzipWriter := gzip.NewWriter(backupFile)
	defer gzipWriter.Close()
	tarWriter := tar.NewWriter(gzipWriter)
	defer tarWriter.Close()

	databaseCount := 0
	totalSize := int64(0)

	err = filepath.Walk(bm.dataDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(bm.dataDir, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		header := &tar.Header{
			Name:    rel,
			Size:    info.Size(),
			Mode:    int64(info.Mode()),
			ModTime: info.ModTime(),
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			return err
		}
		if _, err := tarWriter.Write(content); err != nil {
			return err
		}
		// Only <db>/meta.bin names a database; <db>/<table>/meta.bin is a table's.
		if filepath.Base(path) == "meta.bin" && filepath.Dir(filepath.Dir(rel)) == "." {
			databaseCount++
		}
		totalSize += info.Size()
		return nil
	})
	if err != nil {
		return fmt.Errorf("archive persistence directory: %w", err)
	}

	info := BackupInfo{
		Timestamp:     time.Now(),
		DatabaseCount: databaseCount,
		BackupSize:    totalSize,
		Description:   description,
	}
	infoData, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal backup info: %w", err)
	}
	infoHeader := &tar.Header{
		Name:    "backup_info.json",
		Size:    int64(len(infoData)),
		Mode:    0o644,
		ModTime: time.Now(),
	}
	if err := tarWriter.WriteHeader(infoHeader); err != nil {
		return err
	}
	_, err = tarWriter.Write(infoData)
	return err
}

// RestoreBackup replaces the persistence directory's contents with the
// archive's, discarding whatever was there before.
func (bm *BackupManager) RestoreBackup(backupPath string) error {
	backupFile, err := os.Open(backupPath)
	if err != nil {
		return fmt.Errorf("open backup file: %w", err)
	}
	defer backupFile.Close()

	gzipReader, err := gzip.NewReader(backupFile)
	if err != nil {
		return fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	if err := os.RemoveAll(bm.dataDir); err != nil {
		return fmt.Errorf("clear persistence directory: %w", err)
	}
	if err := os.MkdirAll(bm.dataDir, 0o755); err != nil {
		return fmt.Errorf("recreate persistence directory: %w", err)
	}

	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}
		if header.Name == "backup_info.json" {
			continue
		}

		destPath := filepath.Join(bm.dataDir, header.Name)
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return err
		}
		file, err := os.Create(destPath)
		if err != nil {
			return fmt.Errorf("create file %s: %w", header.Name, err)
		}
		if _, err := io.Copy(file, tarReader); err != nil {
			file.Close()
			return fmt.Errorf("write file %s: %w", header.Name, err)
		}
		file.Close()
	}
	return nil
}

// GetBackupInfo reads the backup_info.json entry out of an archive without
// restoring it.
func (bm *BackupManager) GetBackupInfo(backupPath string) (*BackupInfo, error) {
	backupFile, err := os.Open(backupPath)
	if err != nil {
		return nil, fmt.Errorf("open backup file: %w", err)
	}
	defer backupFile.Close()

	gzipReader, err := gzip.NewReader(backupFile)
	if err != nil {
		return nil, fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar header: %w", err)
		}
		if header.Name != "backup_info.json" {
			continue
		}
		infoData := make([]byte, header.Size)
		if _, err := io.ReadFull(tarReader, infoData); err != nil {
			return nil, fmt.Errorf("read backup info: %w", err)
		}
		var info BackupInfo
		if err := json.Unmarshal(infoData, &info); err != nil {
			return nil, fmt.Errorf("unmarshal backup info: %w", err)
		}
		return &info, nil
	}
	return nil, fmt.Errorf("backup info not found in backup file")
}
