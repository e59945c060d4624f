package search

import (
	"context"

	"github.com/litswap/litswap-server/internal/domain"
)

// Indexer adapts SearchIndex to the store's SearchIndexer interface, so the
// store can keep the index in sync without depending on this package's types.
type Indexer struct {
	index *SearchIndex
}

// NewIndexer wraps a SearchIndex for store consumption.
func NewIndexer(index *SearchIndex) *Indexer {
	return &Indexer{index: index}
}

// IndexBook adds or updates a book in the search index.
func (i *Indexer) IndexBook(_ context.Context, book *domain.Book) error {
	return i.index.IndexDocument(DocumentFromBook(book))
}

// DeleteBook removes a book from the search index.
func (i *Indexer) DeleteBook(_ context.Context, bookID string) error {
	return i.index.DeleteDocument(bookID)
}
