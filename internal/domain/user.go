// Package domain contains the core types of the book exchange.
package domain

import "time"

// User represents an authenticated account in the exchange.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	DisplayName  string    `json:"display_name"`
	// ContactHandle is the user's off-platform handle (phone, Instagram, etc.).
	// It is only ever disclosed to a counterparty through an accepted barter.
	ContactHandle   string    `json:"contact_handle,omitempty"`
	Age             int       `json:"age,omitempty"`
	Occupation      string    `json:"occupation,omitempty"`
	Institution     string    `json:"institution,omitempty"`
	FavoriteBookIDs []string  `json:"favorite_book_ids,omitempty"`
	LastLoginAt     time.Time `json:"last_login_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Name returns the best available name to display for the user.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// IsFavorite reports whether the given book is in the user's favorites.
func (u *User) IsFavorite(bookID string) bool {
	for _, id := range u.FavoriteBookIDs {
		if id == bookID {
			return true
		}
	}
	return false
}

// Touch updates the UpdatedAt timestamp to the current time.
func (u *User) Touch() {
	u.UpdatedAt = time.Now()
}

// Session represents an active user session with refresh token.
// Each device gets its own session.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"refresh_token_hash,omitempty"` // Stored hashed, filter from API responses
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
	IPAddress        string    `json:"ip_address,omitempty"`
}

// Touch updates the session's last seen timestamp.
func (s *Session) Touch() {
	s.LastSeenAt = time.Now()
}

// IsExpired checks if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
