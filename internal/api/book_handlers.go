package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/litswap/litswap-server/internal/domain"
	"github.com/litswap/litswap-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books",
		Summary:     "List a book for exchange",
		Description: "Creates a listing. Title, author, and other metadata are fetched from the book catalog by ISBN.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns all listed books, or only the caller's when mine=true",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a single book listing",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book listing",
		Description: "Updates the price or condition of a listing. Only the owner can update; catalog metadata is immutable.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book listing",
		Description: "Removes a listing and its photo. Only the owner can delete.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "likeBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/{id}/like",
		Summary:     "Like a book",
		Description: "Records interest in another user's book and notifies the owner",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLikeBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBookLikes",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/likes",
		Summary:     "List a book's likes",
		Description: "Returns who liked the book. Only the owner can see their listing's likes.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBookLikes)
}

// === DTOs ===

// CreateBookRequest is the request body for listing a book.
type CreateBookRequest struct {
	ISBN                 string  `json:"isbn" doc:"ISBN-10 or ISBN-13 of the book"`
	Price                float64 `json:"price" doc:"Asking price"`
	ConditionDescription string  `json:"condition_description,omitempty" doc:"Free-text description of the book's condition"`
}

// CreateBookInput wraps the create request for Huma.
type CreateBookInput struct {
	Body CreateBookRequest
}

// UpdateBookRequest is the request body for updating a listing.
type UpdateBookRequest struct {
	Price                *float64 `json:"price,omitempty" doc:"New asking price"`
	ConditionDescription *string  `json:"condition_description,omitempty" doc:"New condition description"`
}

// UpdateBookInput wraps the update request for Huma.
type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body UpdateBookRequest
}

// BookIDInput identifies a book by path parameter.
type BookIDInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// ListBooksInput holds query parameters for listing books.
type ListBooksInput struct {
	Mine bool `query:"mine" doc:"Return only the caller's listings"`
}

// BooksOutput wraps a list of books for Huma.
type BooksOutput struct {
	Body []*domain.Book
}

// LikeOutput wraps a recorded like for Huma.
type LikeOutput struct {
	Body *domain.Like
}

// LikesOutput wraps a book's likes for Huma.
type LikesOutput struct {
	Body []*domain.Like
}

// === Handlers ===

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	req := service.CreateBookRequest{
		ISBN:                 input.Body.ISBN,
		Price:                input.Body.Price,
		ConditionDescription: input.Body.ConditionDescription,
	}

	book, err := s.services.Book.Create(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: book}, nil
}

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*BooksOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	var books []*domain.Book
	if input.Mine {
		books, err = s.services.Book.ListByOwner(ctx, userID)
	} else {
		books, err = s.services.Book.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	return &BooksOutput{Body: books}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *BookIDInput) (*BookOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	book, err := s.services.Book.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: book}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	req := service.UpdateBookRequest{
		Price:                input.Body.Price,
		ConditionDescription: input.Body.ConditionDescription,
	}

	book, err := s.services.Book.Update(ctx, input.ID, userID, req)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: book}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *BookIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Book.Delete(ctx, input.ID, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book deleted"}}, nil
}

func (s *Server) handleLikeBook(ctx context.Context, input *BookIDInput) (*LikeOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	like, err := s.services.Interest.RecordLike(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &LikeOutput{Body: like}, nil
}

func (s *Server) handleListBookLikes(ctx context.Context, input *BookIDInput) (*LikesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	likes, err := s.services.Interest.ListLikesForBook(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &LikesOutput{Body: likes}, nil
}
