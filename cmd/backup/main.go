// Package main provides snapshot and restore tooling for the exchange
// database. The server must be stopped while either command runs.
//
// Usage:
//
//	DB_PATH=~/litswap/db go run ./cmd/backup -out snapshot.bak
//	DB_PATH=~/litswap/db go run ./cmd/backup -restore snapshot.bak
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/litswap/litswap-server/internal/backup"
)

var (
	out     = flag.String("out", "", "Write a snapshot to this file (default: litswap-<timestamp>.bak)")
	restore = flag.String("restore", "", "Restore the database from this snapshot file")
)

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/litswap/db")
	}

	if *restore != "" {
		if manifest, err := backup.ReadManifest(*restore); err == nil {
			fmt.Printf("Restoring snapshot from %s (created %s)\n",
				*restore, manifest.CreatedAt.Format(time.RFC3339))
		} else {
			fmt.Printf("Restoring snapshot from %s (no manifest found)\n", *restore)
		}

		if err := backup.Restore(*restore, dbPath); err != nil {
			log.Fatalf("Restore failed: %v", err)
		}
		fmt.Println("Restore complete.")
		return
	}

	destPath := *out
	if destPath == "" {
		destPath = fmt.Sprintf("litswap-%s.bak", time.Now().Format("20060102-150405"))
	}

	manifest, err := backup.Create(dbPath, destPath)
	if err != nil {
		log.Fatalf("Backup failed: %v", err)
	}

	fmt.Printf("Snapshot written to %s (badger version %d)\n", destPath, manifest.LastVersion)
}
