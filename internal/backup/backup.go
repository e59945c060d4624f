// Package backup provides full-database snapshot and restore for the badger
// store. Snapshots use badger's native backup stream and restore into an
// empty database directory.
package backup

import (
	"encoding/json/v2"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// formatVersion is bumped when the snapshot layout changes.
const formatVersion = 1

// Manifest describes a snapshot, written alongside the backup file.
type Manifest struct {
	// SnapshotID uniquely identifies the snapshot across backup runs.
	SnapshotID    string    `json:"snapshot_id"`
	FormatVersion int       `json:"format_version"`
	CreatedAt     time.Time `json:"created_at"`
	// LastVersion is the badger version watermark included in the snapshot.
	LastVersion uint64 `json:"last_version"`
}

// Create writes a full snapshot of the database at dbPath to destPath, plus a
// manifest at destPath + ".manifest.json". The database is opened read-only,
// so a running server must be stopped first.
func Create(dbPath, destPath string) (*Manifest, error) {
	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	f, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("create backup file: %w", err)
	}
	defer f.Close()

	version, err := db.Backup(f, 0)
	if err != nil {
		return nil, fmt.Errorf("write backup stream: %w", err)
	}
	if err := f.Sync(); err != nil {
		return nil, fmt.Errorf("sync backup file: %w", err)
	}

	manifest := &Manifest{
		SnapshotID:    uuid.NewString(),
		FormatVersion: formatVersion,
		CreatedAt:     time.Now(),
		LastVersion:   version,
	}
	if err := writeManifest(destPath+".manifest.json", manifest); err != nil {
		return nil, err
	}

	return manifest, nil
}

// Restore loads the snapshot at srcPath into the database directory dbPath.
// Restoring into a non-empty database merges by key, newest version wins;
// restore into a fresh directory for an exact copy.
func Restore(srcPath, dbPath string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open backup file: %w", err)
	}
	defer f.Close()

	opts := badger.DefaultOptions(dbPath).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Load(f, 256); err != nil {
		return fmt.Errorf("load backup stream: %w", err)
	}

	return nil
}

// ReadManifest reads the manifest written next to a backup file.
func ReadManifest(backupPath string) (*Manifest, error) {
	data, err := os.ReadFile(backupPath + ".manifest.json")
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &manifest, nil
}

func writeManifest(path string, manifest *Manifest) error {
	data, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
