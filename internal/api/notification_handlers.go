package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/litswap/litswap-server/internal/domain"
	"github.com/litswap/litswap-server/internal/service"
)

func (s *Server) registerNotificationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotifications",
		Method:      http.MethodGet,
		Path:        "/api/v1/notifications",
		Summary:     "List notifications",
		Description: "Returns the caller's notifications, newest first",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListNotifications)

	huma.Register(s.api, huma.Operation{
		OperationID: "respondToNotification",
		Method:      http.MethodPost,
		Path:        "/api/v1/notifications/{id}/respond",
		Summary:     "Respond to a notification",
		Description: "Accepts or rejects an actionable notification. Accepting a like prompts the liker to offer a book in exchange.",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRespondToNotification)

	huma.Register(s.api, huma.Operation{
		OperationID: "markNotificationRead",
		Method:      http.MethodPost,
		Path:        "/api/v1/notifications/{id}/read",
		Summary:     "Mark notification read",
		Description: "Marks an informational notification as read",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMarkNotificationRead)
}

// === DTOs ===

// NotificationsOutput wraps a list of notifications for Huma.
type NotificationsOutput struct {
	Body []*domain.Notification
}

// RespondToNotificationRequest is the request body for responding.
type RespondToNotificationRequest struct {
	Action string `json:"action" enum:"accept,reject" doc:"Decision on the notification"`
}

// RespondToNotificationInput wraps the respond request for Huma.
type RespondToNotificationInput struct {
	ID   string `path:"id" doc:"Notification ID"`
	Body RespondToNotificationRequest
}

// RespondToNotificationResponse contains the updated notification and,
// when a like was accepted, a prompt for the next step.
type RespondToNotificationResponse struct {
	Notification *domain.Notification `json:"notification" doc:"Updated notification"`
	Prompt       string               `json:"prompt,omitempty" doc:"Next step for the recipient after accepting"`
}

// RespondToNotificationOutput wraps the respond response for Huma.
type RespondToNotificationOutput struct {
	Body RespondToNotificationResponse
}

// NotificationIDInput identifies a notification by path parameter.
type NotificationIDInput struct {
	ID string `path:"id" doc:"Notification ID"`
}

// NotificationOutput wraps a single notification for Huma.
type NotificationOutput struct {
	Body *domain.Notification
}

// === Handlers ===

func (s *Server) handleListNotifications(ctx context.Context, _ *struct{}) (*NotificationsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	notifications, err := s.services.Notification.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &NotificationsOutput{Body: notifications}, nil
}

func (s *Server) handleRespondToNotification(ctx context.Context, input *RespondToNotificationInput) (*RespondToNotificationOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Notification.Respond(ctx, input.ID, userID, service.NotificationAction(input.Body.Action))
	if err != nil {
		return nil, err
	}

	return &RespondToNotificationOutput{
		Body: RespondToNotificationResponse{
			Notification: result.Notification,
			Prompt:       result.Prompt,
		},
	}, nil
}

func (s *Server) handleMarkNotificationRead(ctx context.Context, input *NotificationIDInput) (*NotificationOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	notification, err := s.services.Notification.MarkRead(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &NotificationOutput{Body: notification}, nil
}
