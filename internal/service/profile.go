package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/litswap/litswap-server/internal/auth"
	"github.com/litswap/litswap-server/internal/domain"
	domainerrors "github.com/litswap/litswap-server/internal/errors"
	"github.com/litswap/litswap-server/internal/media/images"
	"github.com/litswap/litswap-server/internal/store"
)

// ProfileService manages the authenticated user's own account.
type ProfileService struct {
	store  *store.Store
	images *images.Storage
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store *store.Store, imageStorage *images.Storage, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:  store,
		images: imageStorage,
		logger: logger,
	}
}

// ProfileResponse is the user's own profile plus their listed books.
type ProfileResponse struct {
	User  *domain.User   `json:"user"`
	Books []*domain.Book `json:"books"`
}

// UpdateProfileRequest contains the editable profile fields. Nil fields are
// left unchanged.
type UpdateProfileRequest struct {
	DisplayName   *string `json:"display_name,omitempty"`
	ContactHandle *string `json:"contact_handle,omitempty"`
	Age           *int    `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Occupation    *string `json:"occupation,omitempty"`
	Institution   *string `json:"institution,omitempty"`
	// Password, when set, replaces the current password and revokes every
	// session so stolen refresh tokens die with the old credential.
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=1024"`
}

// Get returns the user's profile and listed books.
func (s *ProfileService) Get(ctx context.Context, userID string) (*ProfileResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	books, err := s.store.ListBooksByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list owned books: %w", err)
	}

	return &ProfileResponse{
		User:  sanitizeUser(user),
		Books: books,
	}, nil
}

// Update edits the user's profile fields.
func (s *ProfileService) Update(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.ContactHandle != nil {
		user.ContactHandle = *req.ContactHandle
	}
	if req.Age != nil {
		user.Age = *req.Age
	}
	if req.Occupation != nil {
		user.Occupation = *req.Occupation
	}
	if req.Institution != nil {
		user.Institution = *req.Institution
	}

	passwordChanged := false
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
		passwordChanged = true
	}

	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if passwordChanged {
		if err := s.store.DeleteAllUserSessions(ctx, userID); err != nil {
			return nil, fmt.Errorf("revoke sessions: %w", err)
		}
		if s.logger != nil {
			s.logger.Info("Password changed, sessions revoked", "user_id", userID)
		}
	}

	return sanitizeUser(user), nil
}

// Delete removes the account and everything attached to it: listed books
// (with their images and search entries), views, likes, notifications,
// barter indexes and sessions.
func (s *ProfileService) Delete(ctx context.Context, userID string) error {
	books, err := s.store.ListBooksByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("list owned books: %w", err)
	}

	if err := s.store.DeleteUserCascade(ctx, userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("delete user: %w", err)
	}

	// Stored photos live outside the database; clean them up after the
	// cascade so a failed delete doesn't orphan listings without images.
	for _, book := range books {
		if err := s.images.Delete(book.ID); err != nil && s.logger != nil {
			s.logger.Warn("Failed to delete book image",
				"book_id", book.ID,
				"error", err,
			)
		}
	}

	if s.logger != nil {
		s.logger.Info("User deleted", "user_id", userID, "books", len(books))
	}

	return nil
}

func (s *ProfileService) getUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
