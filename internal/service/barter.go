package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/litswap/litswap-server/internal/domain"
	domainerrors "github.com/litswap/litswap-server/internal/errors"
	"github.com/litswap/litswap-server/internal/id"
	"github.com/litswap/litswap-server/internal/store"
)

// BarterAction is a responder's decision on a barter request.
type BarterAction string

const (
	BarterActionAccept BarterAction = "accept"
	BarterActionReject BarterAction = "reject"
)

// BarterService runs the negotiation flow: after accepting a like, the book
// owner proposes one of their own books in exchange, and the original liker
// accepts or rejects the offer. Acceptance is the only path that reveals the
// parties' contact handles to each other.
type BarterService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewBarterService creates a new barter negotiation service.
func NewBarterService(store *store.Store, logger *slog.Logger) *BarterService {
	return &BarterService{
		store:  store,
		logger: logger,
	}
}

// ProposeBarterRequest contains the data needed to propose an exchange.
type ProposeBarterRequest struct {
	// NotificationID is the accepted like notification the proposal answers.
	NotificationID string `json:"notification_id" validate:"required"`
	// OfferedBookID is one of the requester's own books.
	OfferedBookID string `json:"offered_book_id" validate:"required"`
}

// Propose creates a pending barter request and notifies the responder.
//
// The requester is the owner whose book was liked; the responder is
// recovered from the like notification's sender. While a request for the
// same (requester, responder, offered book) triple is pending or accepted,
// proposing it again is a conflict.
func (s *BarterService) Propose(ctx context.Context, requesterID string, req ProposeBarterRequest) (*domain.BarterRequest, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	notification, err := s.store.GetNotification(ctx, req.NotificationID)
	if err != nil {
		if errors.Is(err, store.ErrNotificationNotFound) {
			return nil, domainerrors.NotFound("notification not found")
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}

	if notification.RecipientID != requesterID {
		return nil, domainerrors.Forbidden("notification belongs to another user")
	}
	if !notification.IsActionable() || notification.SenderID == "" {
		return nil, domainerrors.Validation("notification cannot start a barter")
	}
	responderID := notification.SenderID

	book, err := s.store.GetBook(ctx, req.OfferedBookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFound("offered book not found")
		}
		return nil, fmt.Errorf("get offered book: %w", err)
	}
	if !book.OwnedBy(requesterID) {
		return nil, domainerrors.Forbidden("you can only offer your own books")
	}

	requester, err := s.store.GetUser(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("get requester: %w", err)
	}

	barterID, err := id.Generate("barter")
	if err != nil {
		return nil, fmt.Errorf("generate barter ID: %w", err)
	}
	noticeID, err := id.Generate("notif")
	if err != nil {
		return nil, fmt.Errorf("generate notification ID: %w", err)
	}

	now := time.Now()
	barter := &domain.BarterRequest{
		ID:            barterID,
		RequesterID:   requesterID,
		RequesterName: requester.Name(),
		ResponderID:   responderID,
		OfferedBookID: book.ID,
		Status:        domain.BarterStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	notice := &domain.Notification{
		ID:              noticeID,
		RecipientID:     responderID,
		Kind:            domain.NotificationKindInformational,
		Message:         fmt.Sprintf("%s offers %q in exchange", requester.Name(), book.Title),
		SenderID:        requesterID,
		BookID:          book.ID,
		BarterRequestID: barterID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.CreateBarterWithNotification(ctx, barter, notice); err != nil {
		if errors.Is(err, store.ErrActiveBarterExists) {
			return nil, domainerrors.Conflict("an active barter request for this offer already exists")
		}
		return nil, fmt.Errorf("create barter: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Barter proposed",
			"barter_id", barterID,
			"requester_id", requesterID,
			"responder_id", responderID,
			"offered_book_id", book.ID,
		)
	}

	return barter, nil
}

// Respond applies the responder's decision to a barter request.
func (s *BarterService) Respond(ctx context.Context, barterID, userID string, action BarterAction) (*domain.BarterRequest, error) {
	switch action {
	case BarterActionAccept:
		return s.accept(ctx, barterID, userID)
	case BarterActionReject:
		return s.reject(ctx, barterID, userID)
	default:
		return nil, domainerrors.Validationf("unknown action %q", action)
	}
}

// ListForUser returns all barter requests involving the user, either side.
func (s *BarterService) ListForUser(ctx context.Context, userID string) ([]*domain.BarterRequest, error) {
	barters, err := s.store.ListBartersForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list barters: %w", err)
	}
	return barters, nil
}

// accept finalizes the exchange and reveals contact handles to both parties.
// The two reveal notifications and the status change are one transaction.
func (s *BarterService) accept(ctx context.Context, barterID, userID string) (*domain.BarterRequest, error) {
	barter, err := s.getForResponse(ctx, barterID, userID)
	if err != nil {
		return nil, err
	}

	requester, err := s.store.GetUser(ctx, barter.RequesterID)
	if err != nil {
		return nil, fmt.Errorf("get requester: %w", err)
	}
	responder, err := s.store.GetUser(ctx, barter.ResponderID)
	if err != nil {
		return nil, fmt.Errorf("get responder: %w", err)
	}

	reveals := [2]*domain.Notification{}
	// Each party learns how to reach the other. This is the only place
	// contact handles ever leave the profile.
	for i, pair := range []struct {
		recipient *domain.User
		reveal    *domain.User
	}{
		{recipient: requester, reveal: responder},
		{recipient: responder, reveal: requester},
	} {
		revealID, err := id.Generate("notif")
		if err != nil {
			return nil, fmt.Errorf("generate notification ID: %w", err)
		}
		now := time.Now()
		reveals[i] = &domain.Notification{
			ID:              revealID,
			RecipientID:     pair.recipient.ID,
			Kind:            domain.NotificationKindInformational,
			Message:         revealMessage(pair.reveal),
			BarterRequestID: barter.ID,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
	}

	barter.Status = domain.BarterStatusAccepted
	barter.Touch()

	if err := s.store.AcceptBarterWithReveals(ctx, barter, reveals); err != nil {
		return nil, fmt.Errorf("accept barter: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Barter accepted",
			"barter_id", barter.ID,
			"requester_id", barter.RequesterID,
			"responder_id", barter.ResponderID,
		)
	}

	return barter, nil
}

// reject declines the exchange and frees the active slot so the same offer
// can be proposed again later.
func (s *BarterService) reject(ctx context.Context, barterID, userID string) (*domain.BarterRequest, error) {
	barter, err := s.getForResponse(ctx, barterID, userID)
	if err != nil {
		return nil, err
	}

	barter.Status = domain.BarterStatusRejected
	barter.Touch()

	if err := s.store.RejectBarter(ctx, barter); err != nil {
		return nil, fmt.Errorf("reject barter: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Barter rejected",
			"barter_id", barter.ID,
			"responder_id", userID,
		)
	}

	return barter, nil
}

// getForResponse loads a barter and enforces the response guards: responder
// only, and terminal states never transition again.
func (s *BarterService) getForResponse(ctx context.Context, barterID, userID string) (*domain.BarterRequest, error) {
	barter, err := s.store.GetBarter(ctx, barterID)
	if err != nil {
		if errors.Is(err, store.ErrBarterNotFound) {
			return nil, domainerrors.NotFound("barter request not found")
		}
		return nil, fmt.Errorf("get barter: %w", err)
	}

	if barter.ResponderID != userID {
		return nil, domainerrors.Forbidden("only the responder can decide a barter request")
	}
	if barter.IsTerminal() {
		return nil, domainerrors.Conflictf("barter request already %s", barter.Status)
	}

	return barter, nil
}

// revealMessage formats the contact disclosure for one party.
func revealMessage(counterparty *domain.User) string {
	if counterparty.ContactHandle == "" {
		return fmt.Sprintf("Barter accepted! %s has not shared a contact handle yet.", counterparty.Name())
	}
	return fmt.Sprintf("Barter accepted! You can reach %s at %s.", counterparty.Name(), counterparty.ContactHandle)
}
