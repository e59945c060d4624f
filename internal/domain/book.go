package domain

import "time"

// Book represents a physical book listed for exchange.
//
// Catalog fields (Title, Author, Description, Year, Category) come from the
// external catalog lookup at creation time and are immutable afterwards. Only
// Price and ConditionDescription can be edited by the owner.
type Book struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	ISBN    string `json:"isbn"`

	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description,omitempty"`
	Year        string `json:"year,omitempty"`
	Category    string `json:"category,omitempty"`

	Price                float64 `json:"price"`
	ConditionDescription string  `json:"condition_description,omitempty"`

	ImagePath     string `json:"image_path,omitempty"`
	ImageBlurHash string `json:"image_blurhash,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp to the current time.
func (b *Book) Touch() {
	b.UpdatedAt = time.Now()
}

// OwnedBy reports whether the book belongs to the given user.
func (b *Book) OwnedBy(userID string) bool {
	return b.OwnerID == userID
}
