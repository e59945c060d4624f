package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/litswap/litswap-server/internal/domain"
)

func (s *Server) registerExploreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "exploreNextBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/explore",
		Summary:     "Get the next book to discover",
		Description: "Returns one book the user does not own, preferring books they have not seen before. Each call records a view.",
		Tags:        []string{"Explore"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleExploreNextBook)
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body *domain.Book
}

func (s *Server) handleExploreNextBook(ctx context.Context, _ *struct{}) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Discovery.NextBook(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: book}, nil
}
