package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/litswap/litswap-server/internal/domain"
	domainerrors "github.com/litswap/litswap-server/internal/errors"
	"github.com/litswap/litswap-server/internal/id"
	"github.com/litswap/litswap-server/internal/store"
)

// ChatService handles conversations between users, typically opened after a
// successful barter to arrange the handover.
type ChatService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewChatService creates a new chat service.
func NewChatService(store *store.Store, logger *slog.Logger) *ChatService {
	return &ChatService{
		store:  store,
		logger: logger,
	}
}

// CreateConversationRequest names the other participants of a new
// conversation. The creator is always included.
type CreateConversationRequest struct {
	ParticipantIDs []string `json:"participant_ids" validate:"required,min=1"`
}

// SendMessageRequest contains a message to post in a conversation.
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=4096"`
}

// CreateConversation opens a conversation between the creator and the named
// participants.
func (s *ChatService) CreateConversation(ctx context.Context, creatorID string, req CreateConversationRequest) (*domain.Conversation, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	participants := req.ParticipantIDs
	if !slices.Contains(participants, creatorID) {
		participants = append([]string{creatorID}, participants...)
	}

	// Every participant must be a real account.
	for _, participantID := range participants {
		if _, err := s.store.GetUser(ctx, participantID); err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return nil, domainerrors.NotFoundf("user %s not found", participantID)
			}
			return nil, fmt.Errorf("get participant: %w", err)
		}
	}

	conversationID, err := id.Generate("convo")
	if err != nil {
		return nil, fmt.Errorf("generate conversation ID: %w", err)
	}

	conversation := &domain.Conversation{
		ID:             conversationID,
		ParticipantIDs: participants,
		CreatedAt:      time.Now(),
	}

	if err := s.store.CreateConversation(ctx, conversation); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Conversation created",
			"conversation_id", conversationID,
			"participants", len(participants),
		)
	}

	return conversation, nil
}

// SendMessage posts a message. Participants only.
func (s *ChatService) SendMessage(ctx context.Context, conversationID, senderID string, req SendMessageRequest) (*domain.Message, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.getForParticipant(ctx, conversationID, senderID); err != nil {
		return nil, err
	}

	messageID, err := id.Generate("msg")
	if err != nil {
		return nil, fmt.Errorf("generate message ID: %w", err)
	}

	message := &domain.Message{
		ID:             messageID,
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           req.Text,
		CreatedAt:      time.Now(),
	}

	if err := s.store.CreateMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	return message, nil
}

// ListMessages returns a conversation's messages in chronological order.
// Participants only.
func (s *ChatService) ListMessages(ctx context.Context, conversationID, userID string) ([]*domain.Message, error) {
	if _, err := s.getForParticipant(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	messages, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// ListConversations returns the conversations the user takes part in,
// newest first.
func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	conversations, err := s.store.ListConversationsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return conversations, nil
}

// getForParticipant loads a conversation and verifies membership.
func (s *ChatService) getForParticipant(ctx context.Context, conversationID, userID string) (*domain.Conversation, error) {
	conversation, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrConversationNotFound) {
			return nil, domainerrors.NotFound("conversation not found")
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	if !conversation.HasParticipant(userID) {
		return nil, domainerrors.Forbidden("you are not part of this conversation")
	}

	return conversation, nil
}
