package recommend

import (
	"context"
	"encoding/json/v2"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litswap/litswap-server/internal/domain"
)

func testCandidates() []*domain.Book {
	return []*domain.Book{
		{ID: "book-1", ISBN: "1111111111111"},
		{ID: "book-2", ISBN: "2222222222222"},
		{ID: "book-3", ISBN: "3333333333333"},
	}
}

func TestRank(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rankRequest
		require.NoError(t, json.UnmarshalRead(r.Body, &req))
		assert.Len(t, req.ISBNs, 3)
		assert.Equal(t, 2, req.Count)

		// Return reversed order, plus an ISBN we never sent
		_, _ = w.Write([]byte(`{"isbns": ["9999999999999", "3333333333333", "1111111111111"]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	ranked, err := client.Rank(context.Background(), testCandidates(), 2)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "book-3", ranked[0].ID)
	assert.Equal(t, "book-1", ranked[1].ID)
}

func TestRank_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"isbns": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 20*time.Millisecond)

	_, err := client.Rank(context.Background(), testCandidates(), 2)
	assert.Error(t, err)
}

func TestRank_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	_, err := client.Rank(context.Background(), testCandidates(), 2)
	assert.Error(t, err)
}

func TestRank_EmptyCandidates(t *testing.T) {
	client := NewClient("http://unreachable.invalid", time.Second)

	ranked, err := client.Rank(context.Background(), nil, 5)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestNoopRanker(t *testing.T) {
	ranked, err := NoopRanker{}.Rank(context.Background(), testCandidates(), 2)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}
