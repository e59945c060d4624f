package api

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/litswap/litswap-server/internal/auth"
	"github.com/litswap/litswap-server/internal/catalog"
	"github.com/litswap/litswap-server/internal/media/images"
	"github.com/litswap/litswap-server/internal/recommend"
	"github.com/litswap/litswap-server/internal/search"
	"github.com/litswap/litswap-server/internal/service"
	"github.com/litswap/litswap-server/internal/store"
)

// testKeyHex is a fixed PASETO key for tests (64 hex chars = 32 bytes).
const testKeyHex = "707172737475767778797a7b7c7d7e7f808182838485868788898a8b8c8d8e8f"

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int       `json:"v"`
	Success bool      `json:"success"`
	Data    T         `json:"data"`
	Error   *APIError `json:"error"`
}

// testCatalog resolves every ISBN to a synthetic volume.
type testCatalog struct{}

func (testCatalog) LookupByISBN(_ context.Context, isbn string) (*catalog.Volume, error) {
	return &catalog.Volume{
		ISBN:     isbn,
		Title:    "Book " + isbn,
		Author:   "Author " + isbn,
		Category: "Fiction",
	}, nil
}

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api          humatest.TestAPI
	tokenService *auth.TokenService
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewSearchIndex(search.Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	st.SetSearchIndexer(search.NewIndexer(index))

	tokenService, err := auth.NewTokenService(testKeyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	imageStorage, err := images.NewStorage(t.TempDir())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	sessionService := service.NewSessionService(st, tokenService, logger)

	services := &Services{
		Auth:         service.NewAuthService(st, tokenService, sessionService, logger),
		Session:      sessionService,
		Book:         service.NewBookService(st, testCatalog{}, imageStorage, logger),
		Discovery:    service.NewDiscoveryService(st, recommend.NoopRanker{}, 10, logger),
		Interest:     service.NewInterestService(st, logger),
		Notification: service.NewNotificationService(st, logger),
		Barter:       service.NewBarterService(st, logger),
		Profile:      service.NewProfileService(st, imageStorage, logger),
		Favorite:     service.NewFavoriteService(st, logger),
		Chat:         service.NewChatService(st, logger),
		Search:       service.NewSearchService(index, logger),
	}

	router := chi.NewRouter()

	// Auth middleware runs before routes so humatest requests exercise it.
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig("LitSwap API Test", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	humaAPI := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		services:        services,
		router:          router,
		api:             humaAPI,
		logger:          logger,
		authRateLimiter: NewRateLimiter(100, time.Minute, 50),
	}
	t.Cleanup(s.Close)

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerProfileRoutes()
	s.registerExploreRoutes()
	s.registerBookRoutes()
	s.registerImageRoutes()
	s.registerSearchRoutes()
	s.registerFavoriteRoutes()
	s.registerNotificationRoutes()
	s.registerBarterRoutes()
	s.registerChatRoutes()

	return &testServer{
		Server:       s,
		api:          humatest.Wrap(t, humaAPI),
		tokenService: tokenService,
	}
}

// registerTestUser creates a user and returns the access token and user ID.
func (ts *testServer) registerTestUser(t *testing.T, email, displayName string) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":          email,
		"password":       "swap-books-123",
		"display_name":   displayName,
		"contact_handle": "@" + displayName,
	})
	require.Equal(t, http.StatusOK, resp.Code, "Register failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	claims, err := ts.tokenService.VerifyAccessToken(envelope.Data.AccessToken)
	require.NoError(t, err)

	return envelope.Data.AccessToken, claims.UserID
}

// createTestBook lists a book through the API and returns its ID.
func (ts *testServer) createTestBook(t *testing.T, token, isbn string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/books",
		"Authorization: Bearer "+token,
		map[string]any{
			"isbn":  isbn,
			"price": 12.50,
		})
	require.Equal(t, http.StatusOK, resp.Code, "Create book failed: %s", resp.Body.String())

	var envelope testEnvelope[struct {
		ID string `json:"id"`
	}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.ID)

	return envelope.Data.ID
}

// uniqueISBN generates distinct ISBNs across a test run.
var isbnCounter int

func uniqueISBN() string {
	isbnCounter++
	return fmt.Sprintf("978000000%04d", isbnCounter)
}
