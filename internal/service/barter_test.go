package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litswap/litswap-server/internal/domain"
	domainerrors "github.com/litswap/litswap-server/internal/errors"
)

// barterSetup wires the state up to an accepted like: liker liked the
// owner's book and the owner accepted the notification. Returns the accepted
// notification and a book owned by the owner to offer.
func barterSetup(t *testing.T, env *testEnv) (owner, liker *AuthResponse, likedBook, offeredBook *domain.Book, notification *domain.Notification) {
	t.Helper()
	ctx := context.Background()

	owner = registerUser(t, env, "anna@example.com", "Anna")
	liker = registerUser(t, env, "ben@example.com", "Ben")
	likedBook = listBook(t, env, owner.User.ID, uniqueISBN())
	offeredBook = listBook(t, env, owner.User.ID, uniqueISBN())

	notification = likeAndGetNotification(t, env, owner.User.ID, liker.User.ID, likedBook.ID)

	_, err := env.notifications.Respond(ctx, notification.ID, owner.User.ID, NotificationActionAccept)
	require.NoError(t, err)

	return owner, liker, likedBook, offeredBook, notification
}

func TestBarterService_Propose(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	owner, liker, _, offeredBook, notification := barterSetup(t, env)

	barter, err := env.barters.Propose(ctx, owner.User.ID, ProposeBarterRequest{
		NotificationID: notification.ID,
		OfferedBookID:  offeredBook.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, owner.User.ID, barter.RequesterID)
	assert.Equal(t, liker.User.ID, barter.ResponderID)
	assert.Equal(t, offeredBook.ID, barter.OfferedBookID)
	assert.Equal(t, domain.BarterStatusPending, barter.Status)

	// The responder got the offer notice
	notices, err := env.notifications.List(ctx, liker.User.ID)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, domain.NotificationKindInformational, notices[0].Kind)
	assert.Equal(t, barter.ID, notices[0].BarterRequestID)
	assert.Contains(t, notices[0].Message, offeredBook.Title)
}

func TestBarterService_Propose_MustOwnOfferedBook(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	owner, liker, _, _, notification := barterSetup(t, env)

	// Offering someone else's book is forbidden
	likerBook := listBook(t, env, liker.User.ID, uniqueISBN())

	_, err := env.barters.Propose(ctx, owner.User.ID, ProposeBarterRequest{
		NotificationID: notification.ID,
		OfferedBookID:  likerBook.ID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestBarterService_Propose_NotificationRecipientOnly(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	_, liker, _, offeredBook, notification := barterSetup(t, env)

	// The liker holds the owner's notification ID but is not its recipient
	_, err := env.barters.Propose(ctx, liker.User.ID, ProposeBarterRequest{
		NotificationID: notification.ID,
		OfferedBookID:  offeredBook.ID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestBarterService_Propose_DuplicateActiveTriple(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	owner, _, _, offeredBook, notification := barterSetup(t, env)

	_, err := env.barters.Propose(ctx, owner.User.ID, ProposeBarterRequest{
		NotificationID: notification.ID,
		OfferedBookID:  offeredBook.ID,
	})
	require.NoError(t, err)

	_, err = env.barters.Propose(ctx, owner.User.ID, ProposeBarterRequest{
		NotificationID: notification.ID,
		OfferedBookID:  offeredBook.ID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestBarterService_Accept_RevealsContacts(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	owner, liker, _, offeredBook, notification := barterSetup(t, env)

	barter, err := env.barters.Propose(ctx, owner.User.ID, ProposeBarterRequest{
		NotificationID: notification.ID,
		OfferedBookID:  offeredBook.ID,
	})
	require.NoError(t, err)

	// Before acceptance no notification anywhere contains a contact handle
	for _, userID := range []string{owner.User.ID, liker.User.ID} {
		notifications, err := env.notifications.List(ctx, userID)
		require.NoError(t, err)
		for _, n := range notifications {
			assert.NotContains(t, n.Message, owner.User.ContactHandle)
			assert.NotContains(t, n.Message, liker.User.ContactHandle)
		}
	}

	// Only the responder may accept
	_, err = env.barters.Respond(ctx, barter.ID, owner.User.ID, BarterActionAccept)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	accepted, err := env.barters.Respond(ctx, barter.ID, liker.User.ID, BarterActionAccept)
	require.NoError(t, err)
	assert.Equal(t, domain.BarterStatusAccepted, accepted.Status)

	// The owner learns the liker's handle
	ownerReveals := revealsFor(t, env, owner.User.ID, barter.ID)
	require.Len(t, ownerReveals, 1)
	assert.Contains(t, ownerReveals[0].Message, liker.User.ContactHandle)

	// And the liker learns the owner's
	likerReveals := revealsFor(t, env, liker.User.ID, barter.ID)
	require.Len(t, likerReveals, 1)
	assert.Contains(t, likerReveals[0].Message, owner.User.ContactHandle)
}

func TestBarterService_Respond_TerminalIsImmutable(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	owner, liker, _, offeredBook, notification := barterSetup(t, env)

	barter, err := env.barters.Propose(ctx, owner.User.ID, ProposeBarterRequest{
		NotificationID: notification.ID,
		OfferedBookID:  offeredBook.ID,
	})
	require.NoError(t, err)

	_, err = env.barters.Respond(ctx, barter.ID, liker.User.ID, BarterActionAccept)
	require.NoError(t, err)

	_, err = env.barters.Respond(ctx, barter.ID, liker.User.ID, BarterActionAccept)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	_, err = env.barters.Respond(ctx, barter.ID, liker.User.ID, BarterActionReject)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestBarterService_Reject_FreesTheSlot(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	owner, liker, _, offeredBook, notification := barterSetup(t, env)

	barter, err := env.barters.Propose(ctx, owner.User.ID, ProposeBarterRequest{
		NotificationID: notification.ID,
		OfferedBookID:  offeredBook.ID,
	})
	require.NoError(t, err)

	rejected, err := env.barters.Respond(ctx, barter.ID, liker.User.ID, BarterActionReject)
	require.NoError(t, err)
	assert.Equal(t, domain.BarterStatusRejected, rejected.Status)

	// The same offer can be made again after a rejection
	again, err := env.barters.Propose(ctx, owner.User.ID, ProposeBarterRequest{
		NotificationID: notification.ID,
		OfferedBookID:  offeredBook.ID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, barter.ID, again.ID)
}

// TestBarterFlow_EndToEnd walks the whole exchange: Anna lists a book, Ben
// discovers and likes it, Anna accepts the like and offers one of her own
// books, Ben accepts, and both sides receive each other's contact handle.
func TestBarterFlow_EndToEnd(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	anna := registerUser(t, env, "anna@example.com", "Anna")
	ben := registerUser(t, env, "ben@example.com", "Ben")

	// Anna lists two books: one to be liked, one to offer later
	liked := listBook(t, env, anna.User.ID, uniqueISBN())
	offered := listBook(t, env, anna.User.ID, uniqueISBN())

	// Ben explores until the liked book surfaces, then likes it
	var found *domain.Book
	for range 50 {
		book, err := env.discovery.NextBook(ctx, ben.User.ID)
		require.NoError(t, err)
		if book.ID == liked.ID {
			found = book
			break
		}
	}
	require.NotNil(t, found, "the liked book should surface in the feed")

	_, err := env.interest.RecordLike(ctx, ben.User.ID, found.ID)
	require.NoError(t, err)

	// Anna sees the like and accepts it
	annaInbox, err := env.notifications.List(ctx, anna.User.ID)
	require.NoError(t, err)
	require.Len(t, annaInbox, 1)

	result, err := env.notifications.Respond(ctx, annaInbox[0].ID, anna.User.ID, NotificationActionAccept)
	require.NoError(t, err)
	require.NotEmpty(t, result.Prompt)

	// Anna proposes her other book in exchange
	barter, err := env.barters.Propose(ctx, anna.User.ID, ProposeBarterRequest{
		NotificationID: annaInbox[0].ID,
		OfferedBookID:  offered.ID,
	})
	require.NoError(t, err)

	// Ben sees the offer and accepts
	benInbox, err := env.notifications.List(ctx, ben.User.ID)
	require.NoError(t, err)
	require.Len(t, benInbox, 1)
	assert.Equal(t, barter.ID, benInbox[0].BarterRequestID)

	_, err = env.barters.Respond(ctx, barter.ID, ben.User.ID, BarterActionAccept)
	require.NoError(t, err)

	// Both parties now hold exactly one reveal with the counterparty handle
	annaReveals := revealsFor(t, env, anna.User.ID, barter.ID)
	require.Len(t, annaReveals, 1)
	assert.Contains(t, annaReveals[0].Message, "@Ben")

	benReveals := revealsFor(t, env, ben.User.ID, barter.ID)
	require.Len(t, benReveals, 1)
	assert.Contains(t, benReveals[0].Message, "@Anna")
}

// revealsFor returns the user's reveal notifications for a barter. Reveals
// are informational notices referencing the barter that carry no sender.
func revealsFor(t *testing.T, env *testEnv, userID, barterID string) []*domain.Notification {
	t.Helper()

	notifications, err := env.notifications.List(context.Background(), userID)
	require.NoError(t, err)

	var reveals []*domain.Notification
	for _, n := range notifications {
		if n.Kind == domain.NotificationKindInformational && n.BarterRequestID == barterID && n.SenderID == "" {
			reveals = append(reveals, n)
		}
	}
	return reveals
}
