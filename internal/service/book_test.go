package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litswap/litswap-server/internal/catalog"
	domainerrors "github.com/litswap/litswap-server/internal/errors"
)

func TestBookService_Create_UsesCatalogMetadata(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	owner := registerUser(t, env, "anna@example.com", "Anna")
	env.catalog.volumes["9780140449136"] = &catalog.Volume{
		ISBN:     "9780140449136",
		Title:    "The Odyssey",
		Author:   "Homer",
		Year:     "1996",
		Category: "Poetry",
	}

	book, err := env.books.Create(ctx, owner.User.ID, CreateBookRequest{
		ISBN:                 "9780140449136",
		Price:                8,
		ConditionDescription: "well loved",
	})
	require.NoError(t, err)

	assert.Equal(t, "The Odyssey", book.Title)
	assert.Equal(t, "Homer", book.Author)
	assert.Equal(t, "Poetry", book.Category)
	assert.Equal(t, owner.User.ID, book.OwnerID)
	assert.Equal(t, 8.0, book.Price)
	assert.Equal(t, "well loved", book.ConditionDescription)
}

func TestBookService_Create_CatalogNotFound(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	owner := registerUser(t, env, "anna@example.com", "Anna")
	env.catalog.failWith = catalog.ErrNotFound

	_, err := env.books.Create(ctx, owner.User.ID, CreateBookRequest{ISBN: uniqueISBN()})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	// The listing must not exist
	books, err := env.books.ListByOwner(ctx, owner.User.ID)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestBookService_Create_CatalogDown(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	owner := registerUser(t, env, "anna@example.com", "Anna")
	env.catalog.failWith = catalog.ErrServer

	_, err := env.books.Create(ctx, owner.User.ID, CreateBookRequest{ISBN: uniqueISBN()})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUpstreamUnavailable)
}

func TestBookService_Create_DuplicateISBN(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	owner := registerUser(t, env, "anna@example.com", "Anna")
	other := registerUser(t, env, "ben@example.com", "Ben")
	isbn := uniqueISBN()

	listBook(t, env, owner.User.ID, isbn)

	// Same owner, same ISBN: conflict
	_, err := env.books.Create(ctx, owner.User.ID, CreateBookRequest{ISBN: isbn})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	// A different owner may list the same edition
	_, err = env.books.Create(ctx, other.User.ID, CreateBookRequest{ISBN: isbn})
	assert.NoError(t, err)
}

func TestBookService_Update_OwnerOnly(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	owner := registerUser(t, env, "anna@example.com", "Anna")
	other := registerUser(t, env, "ben@example.com", "Ben")
	book := listBook(t, env, owner.User.ID, uniqueISBN())

	newPrice := 20.0
	_, err := env.books.Update(ctx, book.ID, other.User.ID, UpdateBookRequest{Price: &newPrice})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	updated, err := env.books.Update(ctx, book.ID, owner.User.ID, UpdateBookRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 20.0, updated.Price)
	// Catalog fields stay untouched
	assert.Equal(t, book.Title, updated.Title)
}

func TestBookService_Delete_OwnerOnly(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	owner := registerUser(t, env, "anna@example.com", "Anna")
	other := registerUser(t, env, "ben@example.com", "Ben")
	book := listBook(t, env, owner.User.ID, uniqueISBN())

	err := env.books.Delete(ctx, book.ID, other.User.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	require.NoError(t, env.books.Delete(ctx, book.ID, owner.User.ID))

	_, err = env.books.Get(ctx, book.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestBookService_UploadImage(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	owner := registerUser(t, env, "anna@example.com", "Anna")
	book := listBook(t, env, owner.User.ID, uniqueISBN())

	updated, err := env.books.UploadImage(ctx, book.ID, owner.User.ID, testServicePNG(t))
	require.NoError(t, err)
	assert.NotEmpty(t, updated.ImagePath)
	assert.NotEmpty(t, updated.ImageBlurHash)

	data, hash, err := env.books.GetImage(ctx, book.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Len(t, hash, 64)
}

func TestBookService_UploadImage_InvalidData(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	owner := registerUser(t, env, "anna@example.com", "Anna")
	book := listBook(t, env, owner.User.ID, uniqueISBN())

	_, err := env.books.UploadImage(ctx, book.ID, owner.User.ID, []byte("not an image"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestBookService_GetImage_NoPhoto(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	owner := registerUser(t, env, "anna@example.com", "Anna")
	book := listBook(t, env, owner.User.ID, uniqueISBN())

	_, _, err := env.books.GetImage(ctx, book.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

// testServicePNG returns a small valid PNG upload.
func testServicePNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 32, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 5), B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
