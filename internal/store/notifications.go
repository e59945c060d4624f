package store

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/litswap/litswap-server/internal/domain"
)

const (
	notificationPrefix            = "notif:"
	notificationByRecipientPrefix = "notif:idx:recipient:" // notif:idx:recipient:<recipientID>:<notifID>
)

// CreateNotification stores a standalone notification. Notifications created
// alongside a like or barter write go through the combined transactions in
// likes.go and barters.go instead.
func (s *Store) CreateNotification(ctx context.Context, notification *domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	key := []byte(notificationPrefix + notification.ID)
	recipientIdx := []byte(notificationByRecipientPrefix + notification.RecipientID + ":" + notification.ID)

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set notification: %w", err)
		}
		if err := txn.Set(recipientIdx, []byte(notification.ID)); err != nil {
			return fmt.Errorf("set recipient index: %w", err)
		}
		return nil
	})
}

// GetNotification retrieves a notification by ID.
func (s *Store) GetNotification(ctx context.Context, id string) (*domain.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := buildKey(notificationPrefix, id)
	defer releaseKey(key)

	var notification domain.Notification
	if err := s.get(key, &notification); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}

	return &notification, nil
}

// UpdateNotification persists changes to an existing notification.
// The recipient never changes, so the index needs no maintenance.
func (s *Store) UpdateNotification(ctx context.Context, notification *domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(notificationPrefix + notification.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check notification exists: %w", err)
	}
	if !exists {
		return ErrNotificationNotFound
	}

	notification.Touch()
	if err := s.set(key, notification); err != nil {
		return fmt.Errorf("update notification: %w", err)
	}

	return nil
}

// ListNotificationsForRecipient returns a user's notifications sorted newest
// first.
func (s *Store) ListNotificationsForRecipient(ctx context.Context, recipientID string) ([]*domain.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(notificationByRecipientPrefix + recipientID + ":")
	var notifications []*domain.Notification

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		var ids []string
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				ids = append(ids, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}

		notifications = make([]*domain.Notification, 0, len(ids))
		for _, id := range ids {
			item, err := txn.Get([]byte(notificationPrefix + id))
			if err != nil {
				continue // Skip dangling index entries
			}

			var notification domain.Notification
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &notification)
			}); err != nil {
				continue
			}
			notifications = append(notifications, &notification)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})

	return notifications, nil
}

// deleteNotificationsForRecipient removes all notifications addressed to a
// user. Used by the profile delete cascade.
func (s *Store) deleteNotificationsForRecipient(ctx context.Context, recipientID string) error {
	notifications, err := s.ListNotificationsForRecipient(ctx, recipientID)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, notification := range notifications {
			key := []byte(notificationPrefix + notification.ID)
			if err := txn.Delete(key); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			idx := []byte(notificationByRecipientPrefix + recipientID + ":" + notification.ID)
			if err := txn.Delete(idx); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		return nil
	})
}

// deleteNotificationsLinkedToUser removes notifications in other users'
// inboxes that point back at a deleted user: those they sent (like and
// proposal notices) and those referencing their removed barter requests
// (contact reveals carry no sender). Used by the profile delete cascade.
func (s *Store) deleteNotificationsLinkedToUser(ctx context.Context, userID string, barterIDs []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fromBarter := make(map[string]bool, len(barterIDs))
	for _, id := range barterIDs {
		fromBarter[id] = true
	}

	// No index covers sender or barter reference; scan the primary records.
	prefix := []byte(notificationPrefix)
	indexPrefix := []byte(notificationPrefix + "idx:")

	var doomed []*domain.Notification
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			if bytes.HasPrefix(item.Key(), indexPrefix) {
				continue
			}

			var notification domain.Notification
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &notification)
			}); err != nil {
				continue
			}

			if notification.SenderID == userID ||
				(notification.BarterRequestID != "" && fromBarter[notification.BarterRequestID]) {
				doomed = append(doomed, &notification)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan notifications: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, notification := range doomed {
			key := []byte(notificationPrefix + notification.ID)
			if err := txn.Delete(key); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			idx := []byte(notificationByRecipientPrefix + notification.RecipientID + ":" + notification.ID)
			if err := txn.Delete(idx); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		return nil
	})
}
