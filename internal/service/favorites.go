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

// FavoriteService manages each user's favorite books list.
type FavoriteService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewFavoriteService creates a new favorites service.
func NewFavoriteService(store *store.Store, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{
		store:  store,
		logger: logger,
	}
}

// Add puts a book on the user's favorites list.
func (s *FavoriteService) Add(ctx context.Context, userID, bookID string) error {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return domainerrors.NotFound("book not found")
		}
		return fmt.Errorf("get book: %w", err)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if user.IsFavorite(bookID) {
		return domainerrors.Conflict("book is already a favorite")
	}

	user.FavoriteBookIDs = append(user.FavoriteBookIDs, bookID)
	user.Touch()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

// List returns the user's favorite books. Favorites pointing at deleted
// listings are silently skipped.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]*domain.Book, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if len(user.FavoriteBookIDs) == 0 {
		return []*domain.Book{}, nil
	}

	books, err := s.store.GetBooksByIDs(ctx, user.FavoriteBookIDs)
	if err != nil {
		return nil, fmt.Errorf("get favorite books: %w", err)
	}
	return books, nil
}
