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

// InterestService records likes. A like always carries a pending actionable
// notification to the book's owner; the two rows are written in a single
// store transaction so neither can exist without the other.
type InterestService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewInterestService creates a new interest ledger service.
func NewInterestService(store *store.Store, logger *slog.Logger) *InterestService {
	return &InterestService{
		store:  store,
		logger: logger,
	}
}

// RecordLike registers the liker's interest in a book and notifies its
// owner. At most one like can exist per (book, liker) pair; liking your own
// book is rejected.
func (s *InterestService) RecordLike(ctx context.Context, likerID, bookID string) (*domain.Like, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	if book.OwnedBy(likerID) {
		return nil, domainerrors.Conflict("you cannot like your own book")
	}

	liker, err := s.store.GetUser(ctx, likerID)
	if err != nil {
		return nil, fmt.Errorf("get liker: %w", err)
	}

	likeID, err := id.Generate("like")
	if err != nil {
		return nil, fmt.Errorf("generate like ID: %w", err)
	}
	notificationID, err := id.Generate("notif")
	if err != nil {
		return nil, fmt.Errorf("generate notification ID: %w", err)
	}

	now := time.Now()
	like := &domain.Like{
		ID:        likeID,
		BookID:    book.ID,
		LikerID:   likerID,
		OwnerID:   book.OwnerID,
		CreatedAt: now,
	}
	notification := &domain.Notification{
		ID:          notificationID,
		RecipientID: book.OwnerID,
		Kind:        domain.NotificationKindActionable,
		Message:     fmt.Sprintf("%s likes your book %q", liker.Name(), book.Title),
		Status:      domain.NotificationStatusPending,
		SenderID:    likerID,
		BookID:      book.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateLikeWithNotification(ctx, like, notification); err != nil {
		if errors.Is(err, store.ErrLikeExists) {
			return nil, domainerrors.AlreadyExists("you already liked this book")
		}
		return nil, fmt.Errorf("create like: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Like recorded",
			"book_id", book.ID,
			"liker_id", likerID,
			"owner_id", book.OwnerID,
		)
	}

	return like, nil
}

// ListLikesForBook returns the likes recorded against one of the caller's
// books. Only the owner gets to see who is interested in their listing.
func (s *InterestService) ListLikesForBook(ctx context.Context, userID, bookID string) ([]*domain.Like, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	if !book.OwnedBy(userID) {
		return nil, domainerrors.Forbidden("only the owner can see a book's likes")
	}

	likes, err := s.store.ListLikesForBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	return likes, nil
}
