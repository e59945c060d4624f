package search

import "github.com/litswap/litswap-server/internal/domain"

// BookDocument is the indexable projection of a listed book.
type BookDocument struct {
	ID          string
	OwnerID     string
	ISBN        string
	Title       string
	Author      string
	Description string
	Category    string
}

// DocumentFromBook builds the search projection of a book.
func DocumentFromBook(book *domain.Book) *BookDocument {
	return &BookDocument{
		ID:          book.ID,
		OwnerID:     book.OwnerID,
		ISBN:        book.ISBN,
		Title:       book.Title,
		Author:      book.Author,
		Description: book.Description,
		Category:    book.Category,
	}
}

// ToMap converts the document to a map with field names matching the index
// mapping.
func (d *BookDocument) ToMap() map[string]any {
	return map[string]any{
		"id":          d.ID,
		"owner_id":    d.OwnerID,
		"isbn":        d.ISBN,
		"title":       d.Title,
		"author":      d.Author,
		"description": d.Description,
		"category":    d.Category,
	}
}
