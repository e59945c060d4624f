package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/litswap/litswap-server/internal/search"
)

const maxSearchLimit = 100

// SearchService exposes full-text search over listed books.
type SearchService struct {
	index  *search.SearchIndex
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		logger: logger,
	}
}

// Search runs a query against the book index. Limit and offset outside the
// allowed range are clamped rather than rejected.
func (s *SearchService) Search(ctx context.Context, query, category string, limit, offset int) (*search.SearchResult, error) {
	params := search.DefaultSearchParams()
	params.Query = query
	params.Category = category

	if limit > 0 {
		params.Limit = min(limit, maxSearchLimit)
	}
	if offset > 0 {
		params.Offset = offset
	}

	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("Search executed",
			"query", query,
			"total", result.Total,
			"took_ms", result.TookMs,
		)
	}

	return result, nil
}

// DocumentCount returns the number of books in the index.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}
