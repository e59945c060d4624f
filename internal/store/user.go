package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/litswap/litswap-server/internal/domain"
)

// CreateUser creates a new user account.
// Email uniqueness is enforced by the Users entity's email index inside the
// create transaction.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if err := s.Users.Create(ctx, user.ID, user); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return ErrEmailExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.Users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email address.
// Lookup is case-insensitive via the email index transform.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.Users.GetByIndex(ctx, "email", email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}
	return user, nil
}

// UpdateUser updates an existing user.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	user.Touch()

	if err := s.Users.Update(ctx, user.ID, user); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return ErrEmailExists
		}
		if errors.Is(err, ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// ListUsers returns all users.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	for user, err := range s.Users.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

// DeleteUserCascade removes a user and everything attached to them: owned
// books (with their likes and search entries), viewed records, likes they
// placed, barter requests on either side (with their active slots),
// notifications addressed to them or triggered by them, and sessions.
//
// The purge is not a single transaction; it runs newest-dependency-first so
// an interrupted purge never leaves records pointing at a missing user's
// books while the books themselves survive.
func (s *Store) DeleteUserCascade(ctx context.Context, userID string) error {
	// Owned books (also clears each book's likes and search entry).
	books, err := s.ListBooksByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("list books for purge: %w", err)
	}
	for _, book := range books {
		if err := s.DeleteBook(ctx, book.ID); err != nil {
			return fmt.Errorf("delete book %s: %w", book.ID, err)
		}
	}

	if err := s.deleteViewsForViewer(ctx, userID); err != nil {
		return fmt.Errorf("delete viewed records: %w", err)
	}

	if err := s.deleteLikesByLiker(ctx, userID); err != nil {
		return fmt.Errorf("delete likes: %w", err)
	}

	barterIDs, err := s.deleteBartersForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete barter requests: %w", err)
	}

	if err := s.deleteNotificationsForRecipient(ctx, userID); err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}

	if err := s.deleteNotificationsLinkedToUser(ctx, userID, barterIDs); err != nil {
		return fmt.Errorf("delete linked notifications: %w", err)
	}

	if err := s.DeleteAllUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}

	if err := s.Users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	return nil
}
