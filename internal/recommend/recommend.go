// Package recommend ranks discovery candidates via an external service.
//
// Ranking is strictly best-effort: any failure (service down, timeout, bad
// response) must degrade to the caller's own ordering, never to an error the
// user sees.
package recommend

import (
	"context"

	"github.com/litswap/litswap-server/internal/domain"
)

// Ranker orders discovery candidates by predicted appeal.
// Implementations return at most count books, best first. The returned slice
// may reference a subset of candidates in any order; books the ranker does
// not know stay unranked.
type Ranker interface {
	Rank(ctx context.Context, candidates []*domain.Book, count int) ([]*domain.Book, error)
}

// NoopRanker never ranks anything. Used when no ranking service is
// configured and in tests.
type NoopRanker struct{}

// Rank returns no ranked books.
func (NoopRanker) Rank(context.Context, []*domain.Book, int) ([]*domain.Book, error) {
	return nil, nil
}
