package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/litswap/litswap-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search books",
		Description: "Full-text search over listed books by title, author, and category",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchBooks)
}

// SearchInput holds query parameters for book search.
type SearchInput struct {
	Query    string `query:"q" doc:"Search query"`
	Category string `query:"category" doc:"Filter by exact category"`
	Limit    int    `query:"limit" doc:"Maximum hits to return (default 20, max 100)"`
	Offset   int    `query:"offset" doc:"Number of hits to skip"`
}

// SearchOutput wraps search results for Huma.
type SearchOutput struct {
	Body *search.SearchResult
}

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	result, err := s.services.Search.Search(ctx, input.Query, input.Category, input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Body: result}, nil
}
