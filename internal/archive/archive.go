package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// sidecars are the SQLite files that belong to a database and move with it
var sidecars = []string{"-journal", "-wal", "-shm"}

// ArchiveHistory moves the history database into an archive directory next
// to it, stamped with the current time, and returns the archived path. The
// next translation starts a fresh database.
func ArchiveHistory(dbPath string) (string, error) {
	// Check if the database exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("history database does not exist: %s", dbPath)
	}

	archiveDir := filepath.Join(filepath.Dir(dbPath), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	ext := filepath.Ext(dbPath)
	base := strings.TrimSuffix(filepath.Base(dbPath), ext)

	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, time.Now().Format("20060102-150405"), ext))
	if _, err := os.Stat(archivePath); err == nil {
		// Same second: add microseconds to keep the name unique
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, time.Now().Format("20060102-150405.000000"), ext))
	}

	if err := os.Rename(dbPath, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive history database: %w", err)
	}

	for _, suffix := range sidecars {
		if _, err := os.Stat(dbPath + suffix); err == nil {
			if err := os.Rename(dbPath+suffix, archivePath+suffix); err != nil {
				return "", fmt.Errorf("failed to archive %s: %w", filepath.Base(dbPath+suffix), err)
			}
		}
	}

	fmt.Printf("History archived to: %s\n", archivePath)
	return archivePath, nil
}
