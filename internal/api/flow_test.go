package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litswap/litswap-server/internal/domain"
)

// TestBarterFlow_EndToEnd walks the whole exchange over HTTP: Ben discovers
// and likes one of Anna's books, Anna accepts and offers a book in return,
// Ben accepts the offer, and both receive each other's contact handle.
func TestBarterFlow_EndToEnd(t *testing.T) {
	ts := setupTestServer(t)

	annaToken, annaID := ts.registerTestUser(t, "anna@example.com", "Anna")
	benToken, _ := ts.registerTestUser(t, "ben@example.com", "Ben")

	likedBookID := ts.createTestBook(t, annaToken, uniqueISBN())
	offeredBookID := ts.createTestBook(t, annaToken, uniqueISBN())

	// Ben explores: both candidates belong to Anna.
	exploreResp := ts.api.Get("/api/v1/explore", "Authorization: Bearer "+benToken)
	require.Equal(t, http.StatusOK, exploreResp.Code, exploreResp.Body.String())

	var explored testEnvelope[domain.Book]
	require.NoError(t, json.Unmarshal(exploreResp.Body.Bytes(), &explored))
	assert.Equal(t, annaID, explored.Data.OwnerID)

	// Ben likes the book.
	likeResp := ts.api.Post("/api/v1/books/"+likedBookID+"/like",
		"Authorization: Bearer "+benToken, map[string]any{})
	require.Equal(t, http.StatusOK, likeResp.Code, likeResp.Body.String())

	// Anna finds the actionable like notification in her inbox.
	annaInbox := listNotifications(t, ts, annaToken)
	require.Len(t, annaInbox, 1)
	likeNotification := annaInbox[0]
	assert.Equal(t, domain.NotificationKindActionable, likeNotification.Kind)
	assert.Contains(t, likeNotification.Message, "Ben")

	// Anna accepts and is prompted to offer a book in exchange.
	acceptResp := ts.api.Post("/api/v1/notifications/"+likeNotification.ID+"/respond",
		"Authorization: Bearer "+annaToken,
		map[string]any{"action": "accept"})
	require.Equal(t, http.StatusOK, acceptResp.Code, acceptResp.Body.String())

	var accepted testEnvelope[RespondToNotificationResponse]
	require.NoError(t, json.Unmarshal(acceptResp.Body.Bytes(), &accepted))
	assert.Equal(t, domain.NotificationStatusAccepted, accepted.Data.Notification.Status)
	assert.NotEmpty(t, accepted.Data.Prompt)

	// Anna proposes a barter, offering her other book.
	proposeResp := ts.api.Post("/api/v1/barters",
		"Authorization: Bearer "+annaToken,
		map[string]any{
			"notification_id": likeNotification.ID,
			"offered_book_id": offeredBookID,
		})
	require.Equal(t, http.StatusOK, proposeResp.Code, proposeResp.Body.String())

	var proposed testEnvelope[domain.BarterRequest]
	require.NoError(t, json.Unmarshal(proposeResp.Body.Bytes(), &proposed))
	assert.Equal(t, domain.BarterStatusPending, proposed.Data.Status)
	assert.Equal(t, annaID, proposed.Data.RequesterID)

	// Ben sees the offer notice.
	benInbox := listNotifications(t, ts, benToken)
	var offerNotice *domain.Notification
	for _, n := range benInbox {
		if n.BarterRequestID == proposed.Data.ID && n.SenderID != "" {
			offerNotice = n
		}
	}
	require.NotNil(t, offerNotice, "Ben should be notified of the offer")
	assert.Contains(t, offerNotice.Message, "Anna")

	// Ben accepts the barter.
	respondResp := ts.api.Post("/api/v1/barters/"+proposed.Data.ID+"/respond",
		"Authorization: Bearer "+benToken,
		map[string]any{"action": "accept"})
	require.Equal(t, http.StatusOK, respondResp.Code, respondResp.Body.String())

	var decided testEnvelope[domain.BarterRequest]
	require.NoError(t, json.Unmarshal(respondResp.Body.Bytes(), &decided))
	assert.Equal(t, domain.BarterStatusAccepted, decided.Data.Status)

	// Both sides receive a reveal carrying the counterparty's handle.
	annaReveals := revealsFor(listNotifications(t, ts, annaToken), proposed.Data.ID)
	require.Len(t, annaReveals, 1)
	assert.Contains(t, annaReveals[0].Message, "@Ben")

	benReveals := revealsFor(listNotifications(t, ts, benToken), proposed.Data.ID)
	require.Len(t, benReveals, 1)
	assert.Contains(t, benReveals[0].Message, "@Anna")

	// The barter shows up for both participants.
	bartersResp := ts.api.Get("/api/v1/barters", "Authorization: Bearer "+benToken)
	require.Equal(t, http.StatusOK, bartersResp.Code)

	var barters testEnvelope[[]*domain.BarterRequest]
	require.NoError(t, json.Unmarshal(bartersResp.Body.Bytes(), &barters))
	require.Len(t, barters.Data, 1)
	assert.Equal(t, domain.BarterStatusAccepted, barters.Data[0].Status)
}

func TestBarterRespond_RequesterCannotDecide(t *testing.T) {
	ts := setupTestServer(t)

	annaToken, _ := ts.registerTestUser(t, "anna@example.com", "Anna")
	benToken, _ := ts.registerTestUser(t, "ben@example.com", "Ben")

	likedBookID := ts.createTestBook(t, annaToken, uniqueISBN())
	offeredBookID := ts.createTestBook(t, annaToken, uniqueISBN())

	likeResp := ts.api.Post("/api/v1/books/"+likedBookID+"/like",
		"Authorization: Bearer "+benToken, map[string]any{})
	require.Equal(t, http.StatusOK, likeResp.Code)

	notification := listNotifications(t, ts, annaToken)[0]
	acceptResp := ts.api.Post("/api/v1/notifications/"+notification.ID+"/respond",
		"Authorization: Bearer "+annaToken,
		map[string]any{"action": "accept"})
	require.Equal(t, http.StatusOK, acceptResp.Code)

	proposeResp := ts.api.Post("/api/v1/barters",
		"Authorization: Bearer "+annaToken,
		map[string]any{
			"notification_id": notification.ID,
			"offered_book_id": offeredBookID,
		})
	require.Equal(t, http.StatusOK, proposeResp.Code)

	var proposed testEnvelope[domain.BarterRequest]
	require.NoError(t, json.Unmarshal(proposeResp.Body.Bytes(), &proposed))

	// Anna proposed, so Anna cannot also decide.
	selfResp := ts.api.Post("/api/v1/barters/"+proposed.Data.ID+"/respond",
		"Authorization: Bearer "+annaToken,
		map[string]any{"action": "accept"})
	require.Equal(t, http.StatusForbidden, selfResp.Code, selfResp.Body.String())

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(selfResp.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "FORBIDDEN", envelope.Error.Code)
}

// listNotifications fetches the caller's inbox.
func listNotifications(t *testing.T, ts *testServer, token string) []*domain.Notification {
	t.Helper()

	resp := ts.api.Get("/api/v1/notifications", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[[]*domain.Notification]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

// revealsFor filters contact reveal notifications for a barter. Reveals are
// informational and carry no sender.
func revealsFor(notifications []*domain.Notification, barterID string) []*domain.Notification {
	var reveals []*domain.Notification
	for _, n := range notifications {
		if n.Kind == domain.NotificationKindInformational && n.BarterRequestID == barterID && n.SenderID == "" {
			reveals = append(reveals, n)
		}
	}
	return reveals
}
