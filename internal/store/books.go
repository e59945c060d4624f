package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/litswap/litswap-server/internal/domain"
)

const (
	bookPrefix          = "book:"
	bookByOwnerPrefix   = "book:idx:owner:" // book:idx:owner:<ownerID>:<bookID>
	bookOwnerISBNPrefix = "book:idx:isbn:"  // book:idx:isbn:<ownerID>:<isbn> (unique)
)

// CreateBook stores a book, its owner index, and its per-owner ISBN
// uniqueness marker in one transaction. Returns ErrISBNExists if the owner
// already lists the same edition.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("marshal book: %w", err)
	}

	key := []byte(bookPrefix + book.ID)
	ownerIdx := []byte(bookByOwnerPrefix + book.OwnerID + ":" + book.ID)
	isbnIdx := []byte(bookOwnerISBNPrefix + book.OwnerID + ":" + book.ISBN)

	err = s.db.Update(func(txn *badger.Txn) error {
		// Per-owner ISBN uniqueness, checked and claimed in the same txn
		_, err := txn.Get(isbnIdx)
		if err == nil {
			return ErrISBNExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check isbn index: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set book: %w", err)
		}
		if err := txn.Set(ownerIdx, []byte(book.ID)); err != nil {
			return fmt.Errorf("set owner index: %w", err)
		}
		if err := txn.Set(isbnIdx, []byte(book.ID)); err != nil {
			return fmt.Errorf("set isbn index: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.indexBookForSearch(ctx, book)
	return nil
}

// GetBook retrieves a book by ID.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := buildKey(bookPrefix, id)
	defer releaseKey(key)

	var book domain.Book
	if err := s.get(key, &book); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	return &book, nil
}

// UpdateBook persists changes to an existing book.
// The ISBN and owner never change after creation, so no index maintenance
// is needed here.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(bookPrefix + book.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check book exists: %w", err)
	}
	if !exists {
		return ErrBookNotFound
	}

	book.Touch()
	if err := s.set(key, book); err != nil {
		return fmt.Errorf("update book: %w", err)
	}

	s.indexBookForSearch(ctx, book)
	return nil
}

// DeleteBook removes a book, its indexes, all likes recorded against it, and
// its search entry.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	book, err := s.GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookNotFound) {
			return nil // Idempotent
		}
		return err
	}

	key := []byte(bookPrefix + id)
	ownerIdx := []byte(bookByOwnerPrefix + book.OwnerID + ":" + id)
	isbnIdx := []byte(bookOwnerISBNPrefix + book.OwnerID + ":" + book.ISBN)

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(key); err != nil {
			return err
		}
		if err := txn.Delete(ownerIdx); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Delete(isbnIdx); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	if err := s.deleteLikesForBook(ctx, id); err != nil {
		return fmt.Errorf("delete likes for book: %w", err)
	}

	if s.searchIndexer != nil {
		if err := s.searchIndexer.DeleteBook(ctx, id); err != nil && s.logger != nil {
			s.logger.Warn("failed to remove book from search index", "book_id", id, "error", err)
		}
	}

	return nil
}

// ListBooks returns every listed book.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(bookPrefix)
	var books []*domain.Book

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			// Skip index keys
			key := string(it.Item().Key())
			if strings.HasPrefix(key, bookPrefix+"idx:") {
				continue
			}

			err := it.Item().Value(func(val []byte) error {
				var book domain.Book
				if unmarshalErr := json.Unmarshal(val, &book); unmarshalErr != nil {
					// Skip malformed entries
					return nil //nolint:nilerr // intentionally skip malformed entries
				}
				books = append(books, &book)
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return books, nil
}

// ListBooksByOwner returns all books listed by a user.
func (s *Store) ListBooksByOwner(ctx context.Context, ownerID string) ([]*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(bookByOwnerPrefix + ownerID + ":")
	var books []*domain.Book

	err := s.db.View(func(txn *badger.Txn) error {
		// First pass: collect book IDs from index
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		var bookIDs []string
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				bookIDs = append(bookIDs, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}

		// Second pass: batch fetch all books in same transaction
		books = make([]*domain.Book, 0, len(bookIDs))
		for _, id := range bookIDs {
			item, err := txn.Get([]byte(bookPrefix + id))
			if err != nil {
				continue // Skip missing books
			}

			var book domain.Book
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &book)
			}); err != nil {
				continue // Skip corrupt books
			}
			books = append(books, &book)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("list books by owner: %w", err)
	}

	return books, nil
}

// GetBooksByIDs fetches multiple books in a single transaction, skipping
// IDs that no longer exist.
func (s *Store) GetBooksByIDs(ctx context.Context, ids []string) ([]*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	books := make([]*domain.Book, 0, len(ids))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			item, err := txn.Get([]byte(bookPrefix + id))
			if err != nil {
				continue
			}

			var book domain.Book
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &book)
			}); err != nil {
				continue
			}
			books = append(books, &book)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("get books by ids: %w", err)
	}

	return books, nil
}

// indexBookForSearch pushes a book into the search index, logging failures.
// Search staleness is tolerable; store writes are not rolled back for it.
func (s *Store) indexBookForSearch(ctx context.Context, book *domain.Book) {
	if s.searchIndexer == nil {
		return
	}
	if err := s.searchIndexer.IndexBook(ctx, book); err != nil && s.logger != nil {
		s.logger.Warn("failed to index book for search", "book_id", book.ID, "error", err)
	}
}
