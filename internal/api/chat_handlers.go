package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/litswap/litswap-server/internal/domain"
	"github.com/litswap/litswap-server/internal/service"
)

func (s *Server) registerChatRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createConversation",
		Method:      http.MethodPost,
		Path:        "/api/v1/chats",
		Summary:     "Create conversation",
		Description: "Starts a conversation between the caller and the given participants",
		Tags:        []string{"Chat"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateConversation)

	huma.Register(s.api, huma.Operation{
		OperationID: "listConversations",
		Method:      http.MethodGet,
		Path:        "/api/v1/chats",
		Summary:     "List conversations",
		Description: "Returns conversations the caller takes part in",
		Tags:        []string{"Chat"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListConversations)

	huma.Register(s.api, huma.Operation{
		OperationID: "sendMessage",
		Method:      http.MethodPost,
		Path:        "/api/v1/chats/{id}/messages",
		Summary:     "Send message",
		Description: "Posts a message to a conversation. Only participants can post.",
		Tags:        []string{"Chat"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSendMessage)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMessages",
		Method:      http.MethodGet,
		Path:        "/api/v1/chats/{id}/messages",
		Summary:     "List messages",
		Description: "Returns a conversation's messages in chronological order. Only participants can read.",
		Tags:        []string{"Chat"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMessages)
}

// === DTOs ===

// CreateConversationRequest is the request body for starting a conversation.
type CreateConversationRequest struct {
	ParticipantIDs []string `json:"participant_ids" doc:"User IDs to include. The caller is always included."`
}

// CreateConversationInput wraps the create request for Huma.
type CreateConversationInput struct {
	Body CreateConversationRequest
}

// ConversationOutput wraps a single conversation for Huma.
type ConversationOutput struct {
	Body *domain.Conversation
}

// ConversationsOutput wraps a list of conversations for Huma.
type ConversationsOutput struct {
	Body []*domain.Conversation
}

// SendMessageRequest is the request body for posting a message.
type SendMessageRequest struct {
	Text string `json:"text" doc:"Message text"`
}

// SendMessageInput wraps the send request for Huma.
type SendMessageInput struct {
	ID   string `path:"id" doc:"Conversation ID"`
	Body SendMessageRequest
}

// ChatMessageOutput wraps a single message for Huma.
type ChatMessageOutput struct {
	Body *domain.Message
}

// ConversationIDInput identifies a conversation by path parameter.
type ConversationIDInput struct {
	ID string `path:"id" doc:"Conversation ID"`
}

// MessagesOutput wraps a list of messages for Huma.
type MessagesOutput struct {
	Body []*domain.Message
}

// === Handlers ===

func (s *Server) handleCreateConversation(ctx context.Context, input *CreateConversationInput) (*ConversationOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	req := service.CreateConversationRequest{
		ParticipantIDs: input.Body.ParticipantIDs,
	}

	conversation, err := s.services.Chat.CreateConversation(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	return &ConversationOutput{Body: conversation}, nil
}

func (s *Server) handleListConversations(ctx context.Context, _ *struct{}) (*ConversationsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	conversations, err := s.services.Chat.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ConversationsOutput{Body: conversations}, nil
}

func (s *Server) handleSendMessage(ctx context.Context, input *SendMessageInput) (*ChatMessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	req := service.SendMessageRequest{
		Text: input.Body.Text,
	}

	message, err := s.services.Chat.SendMessage(ctx, input.ID, userID, req)
	if err != nil {
		return nil, err
	}

	return &ChatMessageOutput{Body: message}, nil
}

func (s *Server) handleListMessages(ctx context.Context, input *ConversationIDInput) (*MessagesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	messages, err := s.services.Chat.ListMessages(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &MessagesOutput{Body: messages}, nil
}
