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
	likePrefix          = "like:"
	likeBookLikerPrefix = "like:idx:bookliker:" // like:idx:bookliker:<bookID>:<likerID> (unique)
	likeByLikerPrefix   = "like:idx:liker:"     // like:idx:liker:<likerID>:<likeID>
	likeByBookPrefix    = "like:idx:book:"      // like:idx:book:<bookID>:<likeID>
)

// CreateLikeWithNotification records a like and the owner's notification in
// one transaction. The (book, liker) uniqueness marker is checked and claimed
// in the same transaction, so two concurrent likes of the same book by the
// same user commit at most one like and one notification.
// Returns ErrLikeExists on a duplicate.
func (s *Store) CreateLikeWithNotification(ctx context.Context, like *domain.Like, notification *domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	likeData, err := json.Marshal(like)
	if err != nil {
		return fmt.Errorf("marshal like: %w", err)
	}
	notifData, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	likeKey := []byte(likePrefix + like.ID)
	uniqueIdx := []byte(likeBookLikerPrefix + like.BookID + ":" + like.LikerID)
	likerIdx := []byte(likeByLikerPrefix + like.LikerID + ":" + like.ID)
	bookIdx := []byte(likeByBookPrefix + like.BookID + ":" + like.ID)
	notifKey := []byte(notificationPrefix + notification.ID)
	notifIdx := []byte(notificationByRecipientPrefix + notification.RecipientID + ":" + notification.ID)

	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(uniqueIdx)
		if err == nil {
			return ErrLikeExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check like index: %w", err)
		}

		if err := txn.Set(likeKey, likeData); err != nil {
			return fmt.Errorf("set like: %w", err)
		}
		if err := txn.Set(uniqueIdx, []byte(like.ID)); err != nil {
			return fmt.Errorf("set like uniqueness index: %w", err)
		}
		if err := txn.Set(likerIdx, []byte(like.ID)); err != nil {
			return fmt.Errorf("set liker index: %w", err)
		}
		if err := txn.Set(bookIdx, []byte(like.ID)); err != nil {
			return fmt.Errorf("set book index: %w", err)
		}

		if err := txn.Set(notifKey, notifData); err != nil {
			return fmt.Errorf("set notification: %w", err)
		}
		if err := txn.Set(notifIdx, []byte(notification.ID)); err != nil {
			return fmt.Errorf("set notification index: %w", err)
		}

		return nil
	})
	// A transaction conflict means another writer claimed the uniqueness
	// marker between this transaction's read and its commit, which is the
	// same duplicate the in-transaction check catches.
	if errors.Is(err, badger.ErrConflict) {
		return ErrLikeExists
	}
	return err
}

// GetLike retrieves a like by ID.
func (s *Store) GetLike(ctx context.Context, id string) (*domain.Like, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := buildKey(likePrefix, id)
	defer releaseKey(key)

	var like domain.Like
	if err := s.get(key, &like); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound.WithMessage("like not found")
		}
		return nil, fmt.Errorf("get like: %w", err)
	}

	return &like, nil
}

// HasLiked reports whether a user has already liked a book.
func (s *Store) HasLiked(ctx context.Context, bookID, likerID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	key := []byte(likeBookLikerPrefix + bookID + ":" + likerID)
	return s.exists(key)
}

// ListLikesForBook returns all likes recorded against a book.
func (s *Store) ListLikesForBook(ctx context.Context, bookID string) ([]*domain.Like, error) {
	return s.listLikesByIndex(ctx, likeByBookPrefix+bookID+":")
}

// ListLikesByLiker returns all likes a user has placed.
func (s *Store) ListLikesByLiker(ctx context.Context, likerID string) ([]*domain.Like, error) {
	return s.listLikesByIndex(ctx, likeByLikerPrefix+likerID+":")
}

func (s *Store) listLikesByIndex(ctx context.Context, indexPrefix string) ([]*domain.Like, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(indexPrefix)
	var likes []*domain.Like

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		var likeIDs []string
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				likeIDs = append(likeIDs, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}

		likes = make([]*domain.Like, 0, len(likeIDs))
		for _, id := range likeIDs {
			item, err := txn.Get([]byte(likePrefix + id))
			if err != nil {
				continue // Skip dangling index entries
			}

			var like domain.Like
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &like)
			}); err != nil {
				continue
			}
			likes = append(likes, &like)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}

	return likes, nil
}

// deleteLikesForBook removes all likes against a book along with their
// indexes. Used when a book is deleted.
func (s *Store) deleteLikesForBook(ctx context.Context, bookID string) error {
	likes, err := s.ListLikesForBook(ctx, bookID)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, like := range likes {
			if err := s.deleteLikeInTxn(txn, like); err != nil {
				return err
			}
		}
		return nil
	})
}

// deleteLikesByLiker removes all likes a user has placed.
// Used by the profile delete cascade.
func (s *Store) deleteLikesByLiker(ctx context.Context, likerID string) error {
	likes, err := s.ListLikesByLiker(ctx, likerID)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, like := range likes {
			if err := s.deleteLikeInTxn(txn, like); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) deleteLikeInTxn(txn *badger.Txn, like *domain.Like) error {
	keys := [][]byte{
		[]byte(likePrefix + like.ID),
		[]byte(likeBookLikerPrefix + like.BookID + ":" + like.LikerID),
		[]byte(likeByLikerPrefix + like.LikerID + ":" + like.ID),
		[]byte(likeByBookPrefix + like.BookID + ":" + like.ID),
	}
	for _, key := range keys {
		if err := txn.Delete(key); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
	}
	return nil
}
