// Package main provides a read-only inspection tool for the exchange database.
//
// Usage:
//
//	DB_PATH=~/litswap/db go run ./cmd/dbinspect
package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/litswap/litswap-server/internal/domain"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/litswap/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	fmt.Printf("Users:         %d\n", countPrefix(db, "user:"))
	fmt.Printf("Books:         %d\n", countPrefix(db, "book:"))
	fmt.Printf("Likes:         %d\n", countPrefix(db, "like:"))
	fmt.Printf("Notifications: %d\n", countPrefix(db, "notif:"))
	fmt.Printf("Barters:       %d\n", countPrefix(db, "barter:"))
	fmt.Printf("Conversations: %d\n", countPrefix(db, "convo:"))
	fmt.Printf("Messages:      %d\n", countPrefix(db, "msg:"))
	fmt.Printf("Sessions:      %d\n", countPrefix(db, "session:"))
	fmt.Println()

	showSampleBooks(db, 5)
}

// countPrefix counts primary records under a key prefix. Index keys contain a
// second colon-separated segment and are skipped.
func countPrefix(db *badger.DB, prefix string) int {
	count := 0

	_ = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			key := string(it.Item().Key())
			if strings.Count(key, ":") > 1 {
				continue
			}
			count++
		}
		return nil
	})

	return count
}

func showSampleBooks(db *badger.DB, limit int) {
	fmt.Printf("=== Sample Listings (up to %d) ===\n", limit)

	shown := 0
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("book:")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte("book:")); it.ValidForPrefix([]byte("book:")) && shown < limit; it.Next() {
			key := string(it.Item().Key())
			if strings.Count(key, ":") > 1 {
				continue
			}

			err := it.Item().Value(func(val []byte) error {
				var book domain.Book
				if err := json.Unmarshal(val, &book); err != nil {
					return err
				}

				fmt.Printf("\n%q by %s\n", book.Title, book.Author)
				fmt.Printf("  ID:    %s\n", book.ID)
				fmt.Printf("  Owner: %s\n", book.OwnerID)
				fmt.Printf("  ISBN:  %s\n", book.ISBN)
				fmt.Printf("  Price: %.2f\n", book.Price)
				if book.ConditionDescription != "" {
					fmt.Printf("  Condition: %s\n", book.ConditionDescription)
				}
				if book.ImagePath != "" {
					fmt.Printf("  Image: %s (blurhash %s)\n", book.ImagePath, book.ImageBlurHash)
				}

				shown++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Failed to read books: %v", err)
	}

	if shown == 0 {
		fmt.Println("\nNo listings found.")
	}
}
