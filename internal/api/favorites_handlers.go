package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerFavoriteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "addFavorite",
		Method:      http.MethodPost,
		Path:        "/api/v1/favorites",
		Summary:     "Add favorite",
		Description: "Marks a book as a favorite so it can be found again later",
		Tags:        []string{"Favorites"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFavorites",
		Method:      http.MethodGet,
		Path:        "/api/v1/favorites",
		Summary:     "List favorites",
		Description: "Returns the caller's favorite books. Books deleted since they were favorited are skipped.",
		Tags:        []string{"Favorites"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListFavorites)
}

// AddFavoriteRequest is the request body for adding a favorite.
type AddFavoriteRequest struct {
	BookID string `json:"book_id" doc:"ID of the book to favorite"`
}

// AddFavoriteInput wraps the add request for Huma.
type AddFavoriteInput struct {
	Body AddFavoriteRequest
}

func (s *Server) handleAddFavorite(ctx context.Context, input *AddFavoriteInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Favorite.Add(ctx, userID, input.Body.BookID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Favorite added"}}, nil
}

func (s *Server) handleListFavorites(ctx context.Context, _ *struct{}) (*BooksOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	books, err := s.services.Favorite.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &BooksOutput{Body: books}, nil
}
