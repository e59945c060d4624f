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
	barterPrefix            = "barter:"
	barterActivePrefix      = "barter:idx:active:"    // barter:idx:active:<requester>:<responder>:<book> (unique while pending/accepted)
	barterByRequesterPrefix = "barter:idx:requester:" // barter:idx:requester:<requesterID>:<barterID>
	barterByResponderPrefix = "barter:idx:responder:" // barter:idx:responder:<responderID>:<barterID>
)

func barterActiveKey(b *domain.BarterRequest) []byte {
	return []byte(barterActivePrefix + b.RequesterID + ":" + b.ResponderID + ":" + b.OfferedBookID)
}

// CreateBarterWithNotification stores a barter request and the responder's
// proposal notification in one transaction. The active slot for the
// (requester, responder, offered book) triple is checked and claimed in the
// same transaction; a pending or accepted request already holding the slot
// yields ErrActiveBarterExists.
func (s *Store) CreateBarterWithNotification(ctx context.Context, barter *domain.BarterRequest, notification *domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	barterData, err := json.Marshal(barter)
	if err != nil {
		return fmt.Errorf("marshal barter request: %w", err)
	}
	notifData, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	barterKey := []byte(barterPrefix + barter.ID)
	activeIdx := barterActiveKey(barter)
	requesterIdx := []byte(barterByRequesterPrefix + barter.RequesterID + ":" + barter.ID)
	responderIdx := []byte(barterByResponderPrefix + barter.ResponderID + ":" + barter.ID)
	notifKey := []byte(notificationPrefix + notification.ID)
	notifIdx := []byte(notificationByRecipientPrefix + notification.RecipientID + ":" + notification.ID)

	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(activeIdx)
		if err == nil {
			return ErrActiveBarterExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check active barter index: %w", err)
		}

		if err := txn.Set(barterKey, barterData); err != nil {
			return fmt.Errorf("set barter request: %w", err)
		}
		if err := txn.Set(activeIdx, []byte(barter.ID)); err != nil {
			return fmt.Errorf("set active index: %w", err)
		}
		if err := txn.Set(requesterIdx, []byte(barter.ID)); err != nil {
			return fmt.Errorf("set requester index: %w", err)
		}
		if err := txn.Set(responderIdx, []byte(barter.ID)); err != nil {
			return fmt.Errorf("set responder index: %w", err)
		}

		if err := txn.Set(notifKey, notifData); err != nil {
			return fmt.Errorf("set notification: %w", err)
		}
		if err := txn.Set(notifIdx, []byte(notification.ID)); err != nil {
			return fmt.Errorf("set notification index: %w", err)
		}

		return nil
	})
	// A transaction conflict means a concurrent proposal claimed the active
	// slot between this transaction's read and its commit; report it as the
	// duplicate it is.
	if errors.Is(err, badger.ErrConflict) {
		return ErrActiveBarterExists
	}
	return err
}

// GetBarter retrieves a barter request by ID.
func (s *Store) GetBarter(ctx context.Context, id string) (*domain.BarterRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := buildKey(barterPrefix, id)
	defer releaseKey(key)

	var barter domain.BarterRequest
	if err := s.get(key, &barter); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBarterNotFound
		}
		return nil, fmt.Errorf("get barter request: %w", err)
	}

	return &barter, nil
}

// AcceptBarterWithReveals commits an accepted barter request together with
// both contact reveal notifications in one transaction. An accepted request
// keeps its active slot, so the same offer can never be re-proposed.
func (s *Store) AcceptBarterWithReveals(ctx context.Context, barter *domain.BarterRequest, reveals [2]*domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	barterData, err := json.Marshal(barter)
	if err != nil {
		return fmt.Errorf("marshal barter request: %w", err)
	}

	barterKey := []byte(barterPrefix + barter.ID)

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(barterKey, barterData); err != nil {
			return fmt.Errorf("set barter request: %w", err)
		}

		for _, reveal := range reveals {
			data, err := json.Marshal(reveal)
			if err != nil {
				return fmt.Errorf("marshal reveal notification: %w", err)
			}
			key := []byte(notificationPrefix + reveal.ID)
			idx := []byte(notificationByRecipientPrefix + reveal.RecipientID + ":" + reveal.ID)

			if err := txn.Set(key, data); err != nil {
				return fmt.Errorf("set reveal notification: %w", err)
			}
			if err := txn.Set(idx, []byte(reveal.ID)); err != nil {
				return fmt.Errorf("set reveal notification index: %w", err)
			}
		}

		return nil
	})
}

// RejectBarter commits a rejected barter request and releases its active
// slot in one transaction, so the same offer can be proposed again later.
func (s *Store) RejectBarter(ctx context.Context, barter *domain.BarterRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	barterData, err := json.Marshal(barter)
	if err != nil {
		return fmt.Errorf("marshal barter request: %w", err)
	}

	barterKey := []byte(barterPrefix + barter.ID)
	activeIdx := barterActiveKey(barter)

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(barterKey, barterData); err != nil {
			return fmt.Errorf("set barter request: %w", err)
		}
		if err := txn.Delete(activeIdx); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("release active index: %w", err)
		}
		return nil
	})
}

// ListBartersForUser returns all barter requests a user participates in,
// as requester or as responder.
func (s *Store) ListBartersForUser(ctx context.Context, userID string) ([]*domain.BarterRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefixes := [][]byte{
		[]byte(barterByRequesterPrefix + userID + ":"),
		[]byte(barterByResponderPrefix + userID + ":"),
	}

	var barters []*domain.BarterRequest
	err := s.db.View(func(txn *badger.Txn) error {
		var ids []string
		for _, prefix := range prefixes {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				err := it.Item().Value(func(val []byte) error {
					ids = append(ids, string(val))
					return nil
				})
				if err != nil {
					it.Close()
					return err
				}
			}
			it.Close()
		}

		barters = make([]*domain.BarterRequest, 0, len(ids))
		for _, id := range ids {
			item, err := txn.Get([]byte(barterPrefix + id))
			if err != nil {
				continue
			}

			var barter domain.BarterRequest
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &barter)
			}); err != nil {
				continue
			}
			barters = append(barters, &barter)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("list barter requests: %w", err)
	}

	return barters, nil
}

// deleteBartersForUser removes every barter request a user participates in,
// on either side, releasing the active slot and both participant index keys.
// Returns the removed request IDs so the caller can purge notifications that
// reference them. Used by the profile delete cascade.
func (s *Store) deleteBartersForUser(ctx context.Context, userID string) ([]string, error) {
	barters, err := s.ListBartersForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(barters))
	err = s.db.Update(func(txn *badger.Txn) error {
		for _, barter := range barters {
			keys := [][]byte{
				[]byte(barterPrefix + barter.ID),
				barterActiveKey(barter),
				[]byte(barterByRequesterPrefix + barter.RequesterID + ":" + barter.ID),
				[]byte(barterByResponderPrefix + barter.ResponderID + ":" + barter.ID),
			}
			for _, key := range keys {
				if err := txn.Delete(key); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
					return err
				}
			}
			ids = append(ids, barter.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}
