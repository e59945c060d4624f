package domain

import "time"

// ViewedRecord marks that a book was surfaced to a viewer in the discovery
// feed. Records are append-only: a book surfaced twice produces two records.
// The seen set for a viewer is the union of their records.
type ViewedRecord struct {
	ID       string    `json:"id"`
	ViewerID string    `json:"viewer_id"`
	BookID   string    `json:"book_id"`
	ViewedAt time.Time `json:"viewed_at"`
}

// Like records a user's interest in another user's book.
// At most one like exists per (book, liker) pair; likes are immutable.
type Like struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	LikerID   string    `json:"liker_id"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}
