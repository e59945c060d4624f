package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/litswap/litswap-server/internal/domain"
	domainerrors "github.com/litswap/litswap-server/internal/errors"
	"github.com/litswap/litswap-server/internal/store"
)

// NotificationAction is a recipient's decision on an actionable notification.
type NotificationAction string

const (
	NotificationActionAccept NotificationAction = "accept"
	NotificationActionReject NotificationAction = "reject"
)

// chooseBookPrompt is returned when a like is accepted, steering the owner
// into the barter proposal step.
const chooseBookPrompt = "Choose one of your books to offer in exchange."

// NotificationService manages each user's inbox and the accept/reject
// decisions on like notifications that start the barter workflow.
type NotificationService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(store *store.Store, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		store:  store,
		logger: logger,
	}
}

// RespondResult reports the outcome of responding to a notification.
type RespondResult struct {
	Notification *domain.Notification `json:"notification"`
	// Prompt is set when accepting a like: the recipient should now pick a
	// book to offer.
	Prompt string `json:"prompt,omitempty"`
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]*domain.Notification, error) {
	notifications, err := s.store.ListNotificationsForRecipient(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// Respond applies the recipient's decision to an actionable notification.
//
// Only the recipient may act, only actionable notifications can transition,
// and terminal states are immutable: responding to an already decided
// notification is a conflict, not a silent overwrite.
func (s *NotificationService) Respond(ctx context.Context, notificationID, userID string, action NotificationAction) (*RespondResult, error) {
	notification, err := s.store.GetNotification(ctx, notificationID)
	if err != nil {
		if errors.Is(err, store.ErrNotificationNotFound) {
			return nil, domainerrors.NotFound("notification not found")
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}

	if notification.RecipientID != userID {
		return nil, domainerrors.Forbidden("notification belongs to another user")
	}
	if !notification.IsActionable() {
		return nil, domainerrors.Validation("notification does not expect a response")
	}
	if notification.IsTerminal() {
		return nil, domainerrors.Conflictf("notification already %s", notification.Status)
	}

	switch action {
	case NotificationActionAccept:
		notification.Status = domain.NotificationStatusAccepted
	case NotificationActionReject:
		notification.Status = domain.NotificationStatusRejected
	default:
		return nil, domainerrors.Validationf("unknown action %q", action)
	}

	if err := s.store.UpdateNotification(ctx, notification); err != nil {
		return nil, fmt.Errorf("update notification: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Notification decided",
			"notification_id", notificationID,
			"recipient_id", userID,
			"status", notification.Status,
		)
	}

	result := &RespondResult{Notification: notification}
	if notification.Status == domain.NotificationStatusAccepted {
		result.Prompt = chooseBookPrompt
	}
	return result, nil
}

// MarkRead flags an informational notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	notification, err := s.store.GetNotification(ctx, notificationID)
	if err != nil {
		if errors.Is(err, store.ErrNotificationNotFound) {
			return nil, domainerrors.NotFound("notification not found")
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}

	if notification.RecipientID != userID {
		return nil, domainerrors.Forbidden("notification belongs to another user")
	}
	if notification.IsActionable() {
		return nil, domainerrors.Validation("actionable notifications are decided, not read")
	}

	if !notification.Read {
		notification.Read = true
		if err := s.store.UpdateNotification(ctx, notification); err != nil {
			return nil, fmt.Errorf("update notification: %w", err)
		}
	}

	return notification, nil
}
