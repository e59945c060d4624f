package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/litswap/litswap-server/internal/domain"
)

const (
	viewPrefix         = "view:"
	viewByViewerPrefix = "view:idx:viewer:" // view:idx:viewer:<viewerID>:<viewID> -> bookID
)

// RecordView appends a viewed record. Records are one per surfacing and never
// deduplicated; the seen set is derived at read time.
func (s *Store) RecordView(ctx context.Context, view *domain.ViewedRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal viewed record: %w", err)
	}

	key := []byte(viewPrefix + view.ID)
	// The index value carries the book ID so the seen set can be built
	// without fetching each record.
	viewerIdx := []byte(viewByViewerPrefix + view.ViewerID + ":" + view.ID)

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set viewed record: %w", err)
		}
		if err := txn.Set(viewerIdx, []byte(view.BookID)); err != nil {
			return fmt.Errorf("set viewer index: %w", err)
		}
		return nil
	})
}

// ListViewedBookIDs returns the set of book IDs a viewer has already seen.
func (s *Store) ListViewedBookIDs(ctx context.Context, viewerID string) (map[string]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(viewByViewerPrefix + viewerID + ":")
	seen := make(map[string]bool)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				if len(val) > 0 {
					seen[string(val)] = true
				}
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("list viewed book ids: %w", err)
	}

	return seen, nil
}

// ListViews returns all viewed records for a viewer.
func (s *Store) ListViews(ctx context.Context, viewerID string) ([]*domain.ViewedRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(viewByViewerPrefix + viewerID + ":")
	var views []*domain.ViewedRecord

	err := s.db.View(func(txn *badger.Txn) error {
		// First pass: collect view IDs from the index key suffix
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		var viewIDs []string
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			viewIDs = append(viewIDs, string(key[len(prefix):]))
		}

		// Second pass: batch fetch in the same transaction
		views = make([]*domain.ViewedRecord, 0, len(viewIDs))
		for _, id := range viewIDs {
			item, err := txn.Get([]byte(viewPrefix + id))
			if err != nil {
				continue // Skip dangling index entries
			}

			var view domain.ViewedRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &view)
			}); err != nil {
				continue
			}
			views = append(views, &view)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("list views: %w", err)
	}

	return views, nil
}

// deleteViewsForViewer removes all viewed records for a viewer.
// Used by the profile delete cascade.
func (s *Store) deleteViewsForViewer(ctx context.Context, viewerID string) error {
	views, err := s.ListViews(ctx, viewerID)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, view := range views {
			if err := txn.Delete([]byte(viewPrefix + view.ID)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			idx := []byte(viewByViewerPrefix + viewerID + ":" + view.ID)
			if err := txn.Delete(idx); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		return nil
	})
}
