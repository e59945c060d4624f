package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/litswap/litswap-server/internal/domain"
)

const (
	conversationPrefix       = "convo:"
	conversationByUserPrefix = "convo:idx:user:" // convo:idx:user:<userID>:<convoID>
	messagePrefix            = "msg:"
	messageByConvoPrefix     = "msg:idx:convo:" // msg:idx:convo:<convoID>:<msgID>
)

// CreateConversation stores a conversation and a participant index entry for
// each member in one transaction.
func (s *Store) CreateConversation(ctx context.Context, conversation *domain.Conversation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(conversation)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}

	key := []byte(conversationPrefix + conversation.ID)

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set conversation: %w", err)
		}
		for _, participantID := range conversation.ParticipantIDs {
			idx := []byte(conversationByUserPrefix + participantID + ":" + conversation.ID)
			if err := txn.Set(idx, []byte(conversation.ID)); err != nil {
				return fmt.Errorf("set participant index: %w", err)
			}
		}
		return nil
	})
}

// GetConversation retrieves a conversation by ID.
func (s *Store) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := buildKey(conversationPrefix, id)
	defer releaseKey(key)

	var conversation domain.Conversation
	if err := s.get(key, &conversation); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	return &conversation, nil
}

// ListConversationsForUser returns every conversation a user participates in.
func (s *Store) ListConversationsForUser(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(conversationByUserPrefix + userID + ":")
	var conversations []*domain.Conversation

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

		conversations = make([]*domain.Conversation, 0, len(ids))
		for _, id := range ids {
			item, err := txn.Get([]byte(conversationPrefix + id))
			if err != nil {
				continue
			}

			var conversation domain.Conversation
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &conversation)
			}); err != nil {
				continue
			}
			conversations = append(conversations, &conversation)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].CreatedAt.After(conversations[j].CreatedAt)
	})

	return conversations, nil
}

// CreateMessage appends a message to a conversation.
func (s *Store) CreateMessage(ctx context.Context, message *domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	key := []byte(messagePrefix + message.ID)
	convoIdx := []byte(messageByConvoPrefix + message.ConversationID + ":" + message.ID)

	return s.db.Update(func(txn *badger.Txn) error {
		// The conversation must still exist
		_, err := txn.Get([]byte(conversationPrefix + message.ConversationID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrConversationNotFound
		}
		if err != nil {
			return fmt.Errorf("check conversation: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set message: %w", err)
		}
		if err := txn.Set(convoIdx, []byte(message.ID)); err != nil {
			return fmt.Errorf("set conversation index: %w", err)
		}
		return nil
	})
}

// ListMessages returns a conversation's messages in chronological order.
func (s *Store) ListMessages(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(messageByConvoPrefix + conversationID + ":")
	var messages []*domain.Message

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

		messages = make([]*domain.Message, 0, len(ids))
		for _, id := range ids {
			item, err := txn.Get([]byte(messagePrefix + id))
			if err != nil {
				continue
			}

			var message domain.Message
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &message)
			}); err != nil {
				continue
			}
			messages = append(messages, &message)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	return messages, nil
}
