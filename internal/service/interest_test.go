package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litswap/litswap-server/internal/domain"
	domainerrors "github.com/litswap/litswap-server/internal/errors"
)

func TestInterestService_RecordLike_NotifiesOwner(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	owner := registerUser(t, env, "anna@example.com", "Anna")
	liker := registerUser(t, env, "ben@example.com", "Ben")
	book := listBook(t, env, owner.User.ID, uniqueISBN())

	like, err := env.interest.RecordLike(ctx, liker.User.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, like.BookID)
	assert.Equal(t, owner.User.ID, like.OwnerID)

	notifications, err := env.notifications.List(ctx, owner.User.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	notification := notifications[0]
	assert.Equal(t, domain.NotificationKindActionable, notification.Kind)
	assert.Equal(t, domain.NotificationStatusPending, notification.Status)
	assert.Equal(t, liker.User.ID, notification.SenderID)
	assert.Equal(t, book.ID, notification.BookID)
	assert.Contains(t, notification.Message, "Ben")
	assert.Contains(t, notification.Message, book.Title)
}

func TestInterestService_RecordLike_SelfLike(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	owner := registerUser(t, env, "anna@example.com", "Anna")
	book := listBook(t, env, owner.User.ID, uniqueISBN())

	_, err := env.interest.RecordLike(ctx, owner.User.ID, book.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	// Nothing was written
	likes, err := env.interest.ListLikesForBook(ctx, owner.User.ID, book.ID)
	require.NoError(t, err)
	assert.Empty(t, likes)

	notifications, err := env.notifications.List(ctx, owner.User.ID)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestInterestService_RecordLike_Duplicate(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	owner := registerUser(t, env, "anna@example.com", "Anna")
	liker := registerUser(t, env, "ben@example.com", "Ben")
	book := listBook(t, env, owner.User.ID, uniqueISBN())

	_, err := env.interest.RecordLike(ctx, liker.User.ID, book.ID)
	require.NoError(t, err)

	_, err = env.interest.RecordLike(ctx, liker.User.ID, book.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	// Still exactly one like and one notification
	likes, err := env.interest.ListLikesForBook(ctx, owner.User.ID, book.ID)
	require.NoError(t, err)
	assert.Len(t, likes, 1)

	notifications, err := env.notifications.List(ctx, owner.User.ID)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
}

func TestInterestService_RecordLike_MissingBook(t *testing.T) {
	env := setupServiceTest(t)

	liker := registerUser(t, env, "ben@example.com", "Ben")

	_, err := env.interest.RecordLike(context.Background(), liker.User.ID, "book-missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestInterestService_ListLikesForBook_OwnerOnly(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	owner := registerUser(t, env, "anna@example.com", "Anna")
	liker := registerUser(t, env, "ben@example.com", "Ben")
	book := listBook(t, env, owner.User.ID, uniqueISBN())

	_, err := env.interest.RecordLike(ctx, liker.User.ID, book.ID)
	require.NoError(t, err)

	// The owner sees who is interested
	likes, err := env.interest.ListLikesForBook(ctx, owner.User.ID, book.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, liker.User.ID, likes[0].LikerID)

	// Anyone else is turned away, likers included
	_, err = env.interest.ListLikesForBook(ctx, liker.User.ID, book.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}
