package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/litswap/litswap-server/internal/auth"
	"github.com/litswap/litswap-server/internal/catalog"
	"github.com/litswap/litswap-server/internal/domain"
	"github.com/litswap/litswap-server/internal/media/images"
	"github.com/litswap/litswap-server/internal/recommend"
	"github.com/litswap/litswap-server/internal/store"
)

// testKeyHex is a fixed PASETO key for tests (64 hex chars = 32 bytes).
const testKeyHex = "707172737475767778797a7b7c7d7e7f808182838485868788898a8b8c8d8e8f"

// stubCatalog is an in-memory catalog gateway. Unknown ISBNs resolve to a
// synthetic volume unless failWith is set.
type stubCatalog struct {
	volumes  map[string]*catalog.Volume
	failWith error
	lookups  int
}

func (c *stubCatalog) LookupByISBN(_ context.Context, isbn string) (*catalog.Volume, error) {
	c.lookups++
	if c.failWith != nil {
		return nil, c.failWith
	}
	if v, ok := c.volumes[isbn]; ok {
		return v, nil
	}
	return &catalog.Volume{
		ISBN:     isbn,
		Title:    "Book " + isbn,
		Author:   "Author " + isbn,
		Category: "Fiction",
	}, nil
}

// testEnv wires every service against a temporary store.
type testEnv struct {
	store         *store.Store
	catalog       *stubCatalog
	auth          *AuthService
	sessions      *SessionService
	books         *BookService
	discovery     *DiscoveryService
	interest      *InterestService
	notifications *NotificationService
	barters       *BarterService
	profile       *ProfileService
	favorites     *FavoriteService
	chat          *ChatService
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()

	s, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	tokenService, err := auth.NewTokenService(testKeyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	imageStorage, err := images.NewStorage(t.TempDir())
	require.NoError(t, err)

	gateway := &stubCatalog{volumes: map[string]*catalog.Volume{}}

	sessions := NewSessionService(s, tokenService, nil)

	return &testEnv{
		store:         s,
		catalog:       gateway,
		auth:          NewAuthService(s, tokenService, sessions, nil),
		sessions:      sessions,
		books:         NewBookService(s, gateway, imageStorage, nil),
		discovery:     NewDiscoveryService(s, recommend.NoopRanker{}, 10, nil),
		interest:      NewInterestService(s, nil),
		notifications: NewNotificationService(s, nil),
		barters:       NewBarterService(s, nil),
		profile:       NewProfileService(s, imageStorage, nil),
		favorites:     NewFavoriteService(s, nil),
		chat:          NewChatService(s, nil),
	}
}

// registerUser creates an account and returns the auth response.
func registerUser(t *testing.T, env *testEnv, email, displayName string) *AuthResponse {
	t.Helper()

	resp, err := env.auth.Register(context.Background(), RegisterRequest{
		Email:         email,
		Password:      "swap-books-123",
		DisplayName:   displayName,
		ContactHandle: "@" + displayName,
	})
	require.NoError(t, err)
	return resp
}

// listBook creates a listing for the owner using the stub catalog.
func listBook(t *testing.T, env *testEnv, ownerID, isbn string) *domain.Book {
	t.Helper()

	book, err := env.books.Create(context.Background(), ownerID, CreateBookRequest{
		ISBN:  isbn,
		Price: 12.50,
	})
	require.NoError(t, err)
	return book
}

// uniqueISBN generates distinct ISBNs across a test.
var isbnCounter int

func uniqueISBN() string {
	isbnCounter++
	return fmt.Sprintf("978000000%04d", isbnCounter)
}
