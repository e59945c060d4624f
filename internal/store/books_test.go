package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litswap/litswap-server/internal/domain"
)

func testBook(id, ownerID, isbn string) *domain.Book {
	now := time.Now()
	return &domain.Book{
		ID:        id,
		OwnerID:   ownerID,
		ISBN:      isbn,
		Title:     "The Odyssey",
		Author:    "Homer",
		Price:     12.50,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateBook(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	book := testBook("book-1", "user-1", "9780140449136")
	require.NoError(t, s.CreateBook(ctx, book))

	retrieved, err := s.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, book.ISBN, retrieved.ISBN)
	assert.Equal(t, book.Title, retrieved.Title)
}

func TestCreateBook_DuplicateISBNSameOwner(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateBook(ctx, testBook("book-1", "user-1", "9780140449136")))

	err := s.CreateBook(ctx, testBook("book-2", "user-1", "9780140449136"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrISBNExists)
}

func TestCreateBook_SameISBNDifferentOwners(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	// Two different users may list the same edition
	require.NoError(t, s.CreateBook(ctx, testBook("book-1", "user-1", "9780140449136")))
	require.NoError(t, s.CreateBook(ctx, testBook("book-2", "user-2", "9780140449136")))
}

func TestUpdateBook(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	book := testBook("book-1", "user-1", "9780140449136")
	require.NoError(t, s.CreateBook(ctx, book))

	book.Price = 8.00
	book.ConditionDescription = "well read, spine creased"
	require.NoError(t, s.UpdateBook(ctx, book))

	retrieved, err := s.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 8.00, retrieved.Price)
	assert.Equal(t, "well read, spine creased", retrieved.ConditionDescription)
}

func TestUpdateBook_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	err := s.UpdateBook(context.Background(), testBook("book-missing", "user-1", "9780140449136"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestDeleteBook_FreesISBNAndRemovesLikes(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	book := testBook("book-1", "user-1", "9780140449136")
	require.NoError(t, s.CreateBook(ctx, book))

	like := testLike("like-1", book.ID, "user-2", book.OwnerID)
	notif := testActionableNotification("notif-1", book.OwnerID, "user-2", book.ID)
	require.NoError(t, s.CreateLikeWithNotification(ctx, like, notif))

	require.NoError(t, s.DeleteBook(ctx, book.ID))

	_, err := s.GetBook(ctx, book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)

	liked, err := s.HasLiked(ctx, book.ID, "user-2")
	require.NoError(t, err)
	assert.False(t, liked)

	// The ISBN slot is free again for the same owner
	require.NoError(t, s.CreateBook(ctx, testBook("book-2", "user-1", "9780140449136")))
}

func TestDeleteBook_Idempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	assert.NoError(t, s.DeleteBook(context.Background(), "book-missing"))
}

func TestListBooksByOwner(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateBook(ctx, testBook("book-1", "user-1", "9780140449136")))
	require.NoError(t, s.CreateBook(ctx, testBook("book-2", "user-1", "9780199535569")))
	require.NoError(t, s.CreateBook(ctx, testBook("book-3", "user-2", "9780140449136")))

	books, err := s.ListBooksByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, books, 2)
	for _, b := range books {
		assert.Equal(t, "user-1", b.OwnerID)
	}
}

func TestGetBooksByIDs_SkipsMissing(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateBook(ctx, testBook("book-1", "user-1", "9780140449136")))

	books, err := s.GetBooksByIDs(ctx, []string{"book-1", "book-missing"})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "book-1", books[0].ID)
}
