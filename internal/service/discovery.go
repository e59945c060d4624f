package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/litswap/litswap-server/internal/domain"
	domainerrors "github.com/litswap/litswap-server/internal/errors"
	"github.com/litswap/litswap-server/internal/id"
	"github.com/litswap/litswap-server/internal/recommend"
	"github.com/litswap/litswap-server/internal/store"
)

// DiscoveryService serves the explore feed: one book at a time, biased
// towards books the viewer has not seen yet, optionally reordered by the
// recommendation service.
type DiscoveryService struct {
	store     *store.Store
	ranker    recommend.Ranker
	maxRanked int
	logger    *slog.Logger
}

// NewDiscoveryService creates a new discovery service. maxRanked caps how
// many ranked candidates are prepended to the selection pool.
func NewDiscoveryService(store *store.Store, ranker recommend.Ranker, maxRanked int, logger *slog.Logger) *DiscoveryService {
	if maxRanked <= 0 {
		maxRanked = 10
	}
	return &DiscoveryService{
		store:     store,
		ranker:    ranker,
		maxRanked: maxRanked,
		logger:    logger,
	}
}

// NextBook picks the next book to surface to the viewer.
//
// Seen books are deprioritized, never excluded: while unseen candidates
// remain only those are eligible, and once the viewer has seen everything the
// feed wraps around to the full pool. Ranking is best effort; any failure is
// logged and the unranked pool is used as-is. The surfaced book is recorded
// as viewed before it is returned.
func (s *DiscoveryService) NextBook(ctx context.Context, viewerID string) (*domain.Book, error) {
	seen, err := s.store.ListViewedBookIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("load seen set: %w", err)
	}

	all, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	// The viewer's own listings never show up in their feed.
	var candidates, unseen []*domain.Book
	for _, book := range all {
		if book.OwnedBy(viewerID) {
			continue
		}
		candidates = append(candidates, book)
		if !seen[book.ID] {
			unseen = append(unseen, book)
		}
	}

	if len(candidates) == 0 {
		return nil, domainerrors.NotFound("no books to discover")
	}

	pool := candidates
	if len(unseen) > 0 {
		pool = s.prioritize(ctx, unseen)
	}

	pick := pool[rand.IntN(len(pool))]

	if err := s.recordView(ctx, viewerID, pick.ID); err != nil {
		return nil, err
	}

	return pick, nil
}

// prioritize asks the recommendation service to reorder the unseen pool and
// prepends its picks. Ranking failures are swallowed: the feed must keep
// working when the recommender is slow or down.
func (s *DiscoveryService) prioritize(ctx context.Context, unseen []*domain.Book) []*domain.Book {
	ranked, err := s.ranker.Rank(ctx, unseen, s.maxRanked)
	if err != nil {
		if s.logger != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn("Recommendation ranking failed, serving unranked feed",
				"candidates", len(unseen),
				"error", err,
			)
		}
		return unseen
	}
	if len(ranked) == 0 {
		return unseen
	}

	// Ranked picks go first. Duplicates in the pool are fine, they just
	// weight the random selection towards the recommendations.
	pool := make([]*domain.Book, 0, len(ranked)+len(unseen))
	pool = append(pool, ranked...)
	pool = append(pool, unseen...)
	return pool
}

// recordView appends a ViewedRecord for the surfaced book. Records are
// append-only; surfacing the same book twice produces two records.
func (s *DiscoveryService) recordView(ctx context.Context, viewerID, bookID string) error {
	viewID, err := id.Generate("view")
	if err != nil {
		return fmt.Errorf("generate view ID: %w", err)
	}

	view := &domain.ViewedRecord{
		ID:       viewID,
		ViewerID: viewerID,
		BookID:   bookID,
		ViewedAt: time.Now(),
	}
	if err := s.store.RecordView(ctx, view); err != nil {
		return fmt.Errorf("record view: %w", err)
	}

	return nil
}
