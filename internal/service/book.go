package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/litswap/litswap-server/internal/catalog"
	"github.com/litswap/litswap-server/internal/domain"
	domainerrors "github.com/litswap/litswap-server/internal/errors"
	"github.com/litswap/litswap-server/internal/id"
	"github.com/litswap/litswap-server/internal/media/images"
	"github.com/litswap/litswap-server/internal/store"
)

// BookService manages book listings. Catalog metadata is resolved from the
// external volume catalog at creation time; owners can only edit the price
// and the condition description afterwards.
type BookService struct {
	store   *store.Store
	catalog catalog.Gateway
	images  *images.Storage
	logger  *slog.Logger
}

// NewBookService creates a new book listing service.
func NewBookService(store *store.Store, gateway catalog.Gateway, imageStorage *images.Storage, logger *slog.Logger) *BookService {
	return &BookService{
		store:   store,
		catalog: gateway,
		images:  imageStorage,
		logger:  logger,
	}
}

// CreateBookRequest contains the data needed to list a book.
// Everything else comes from the catalog lookup.
type CreateBookRequest struct {
	ISBN                 string  `json:"isbn" validate:"required"`
	Price                float64 `json:"price" validate:"gte=0"`
	ConditionDescription string  `json:"condition_description,omitempty"`
}

// UpdateBookRequest contains the owner-editable fields of a listing.
type UpdateBookRequest struct {
	Price                *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	ConditionDescription *string  `json:"condition_description,omitempty"`
}

// Create lists a new book for the owner. The ISBN is resolved against the
// catalog; if the lookup fails the book is not created.
func (s *BookService) Create(ctx context.Context, ownerID string, req CreateBookRequest) (*domain.Book, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	volume, err := s.catalog.LookupByISBN(ctx, req.ISBN)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidISBN):
			return nil, domainerrors.Validation("invalid ISBN")
		case errors.Is(err, catalog.ErrNotFound):
			return nil, domainerrors.NotFoundf("no catalog entry for ISBN %s", req.ISBN)
		default:
			return nil, domainerrors.UpstreamUnavailable("catalog lookup failed").WithCause(err)
		}
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	now := time.Now()
	book := &domain.Book{
		ID:                   bookID,
		OwnerID:              ownerID,
		ISBN:                 volume.ISBN,
		Title:                volume.Title,
		Author:               volume.Author,
		Description:          volume.Description,
		Year:                 volume.Year,
		Category:             volume.Category,
		Price:                req.Price,
		ConditionDescription: req.ConditionDescription,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		if errors.Is(err, store.ErrISBNExists) {
			return nil, domainerrors.AlreadyExists("you already listed a book with this ISBN")
		}
		return nil, fmt.Errorf("create book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book listed",
			"book_id", bookID,
			"owner_id", ownerID,
			"isbn", book.ISBN,
		)
	}

	return book, nil
}

// Get returns a single book by ID.
func (s *BookService) Get(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// List returns all listed books.
func (s *BookService) List(ctx context.Context) ([]*domain.Book, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// ListByOwner returns all books listed by a user.
func (s *BookService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Book, error) {
	books, err := s.store.ListBooksByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list books by owner: %w", err)
	}
	return books, nil
}

// Update edits the price and condition of a listing. Owner only; catalog
// fields are immutable.
func (s *BookService) Update(ctx context.Context, bookID, userID string, req UpdateBookRequest) (*domain.Book, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !book.OwnedBy(userID) {
		return nil, domainerrors.Forbidden("only the owner can edit a listing")
	}

	if req.Price != nil {
		book.Price = *req.Price
	}
	if req.ConditionDescription != nil {
		book.ConditionDescription = *req.ConditionDescription
	}

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	return book, nil
}

// Delete removes a listing and its stored image. Owner only.
func (s *BookService) Delete(ctx context.Context, bookID, userID string) error {
	book, err := s.Get(ctx, bookID)
	if err != nil {
		return err
	}
	if !book.OwnedBy(userID) {
		return domainerrors.Forbidden("only the owner can delete a listing")
	}

	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	if err := s.images.Delete(bookID); err != nil && s.logger != nil {
		s.logger.Warn("Failed to delete book image",
			"book_id", bookID,
			"error", err,
		)
	}

	if s.logger != nil {
		s.logger.Info("Book deleted", "book_id", bookID, "owner_id", userID)
	}

	return nil
}

// UploadImage stores a photo for a listing and computes its BlurHash
// placeholder. Owner only. The upload must be a decodable JPEG, PNG or WebP.
func (s *BookService) UploadImage(ctx context.Context, bookID, userID string, imgData []byte) (*domain.Book, error) {
	book, err := s.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !book.OwnedBy(userID) {
		return nil, domainerrors.Forbidden("only the owner can upload a photo")
	}

	blurHash, err := images.ComputeBlurHash(imgData)
	if err != nil {
		return nil, domainerrors.Validation("unsupported image format").WithCause(err)
	}

	if err := s.images.Save(bookID, imgData); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	book.ImagePath = s.images.Path(bookID)
	book.ImageBlurHash = blurHash

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	return book, nil
}

// GetImage returns the stored photo bytes and their hash for ETag headers.
func (s *BookService) GetImage(ctx context.Context, bookID string) ([]byte, string, error) {
	// Confirm the listing still exists before touching the filesystem.
	if _, err := s.Get(ctx, bookID); err != nil {
		return nil, "", err
	}

	if !s.images.Exists(bookID) {
		return nil, "", domainerrors.NotFound("book has no photo")
	}

	data, err := s.images.Get(bookID)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}

	hash, err := s.images.Hash(bookID)
	if err != nil {
		return nil, "", fmt.Errorf("hash image: %w", err)
	}

	return data, hash, nil
}
