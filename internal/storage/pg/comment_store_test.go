package pg

import (
	"errors"
	"testing"
	"time"

	"github.com/letspunt/adpage/internal/apperr"
	"github.com/letspunt/adpage/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentStore(t *testing.T) {
	truncateTables(t)
	defer truncateTables(t)

	store := NewCommentStore(testPool)
	author := seedUser(t, "comment01")
	liker := seedUser(t, "comment02")
	post := seedListing(t, author.ID, "Commented post", "body", nil)

	first, err := store.Create(testCtx, domain.Comment{Content: "first", PostID: post.ID, UserID: author.ID})
	require.NoError(t, err)
	second, err := store.Create(testCtx, domain.Comment{Content: "second", PostID: post.ID, UserID: liker.ID})
	require.NoError(t, err)
	assert.Empty(t, first.Likes)
	assert.Zero(t, first.NumberOfLikes)

	t.Run("list by post newest first", func(t *testing.T) {
		got, err := store.ListByPost(testCtx, post.ID)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, second.ID, got[0].ID)
		assert.Equal(t, first.ID, got[1].ID)
	})

	t.Run("window and stats", func(t *testing.T) {
		got, err := store.List(testCtx, 1, 9, false)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, first.ID, got[0].ID)

		st, err := store.Stats(testCtx, time.Now())
		require.NoError(t, err)
		assert.Equal(t, domain.CommentStats{TotalComments: 2, LastMonthComments: 2}, st)
	})

	t.Run("toggle like", func(t *testing.T) {
		liked, err := store.ToggleLike(testCtx, first.ID, liker.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{liker.ID}, liked.Likes)
		assert.Equal(t, int32(1), liked.NumberOfLikes)

		unliked, err := store.ToggleLike(testCtx, first.ID, liker.ID)
		require.NoError(t, err)
		assert.Empty(t, unliked.Likes)
		assert.Zero(t, unliked.NumberOfLikes)
	})

	t.Run("edit", func(t *testing.T) {
		edited, err := store.UpdateContent(testCtx, first.ID, "edited")

		require.NoError(t, err)
		assert.Equal(t, "edited", edited.Content)
	})

	t.Run("comment on missing post", func(t *testing.T) {
		_, err := store.Create(testCtx, domain.Comment{Content: "x", PostID: 999, UserID: author.ID})

		var nf *apperr.NotFoundError
		assert.True(t, errors.As(err, &nf))
	})

	t.Run("like missing comment", func(t *testing.T) {
		_, err := store.ToggleLike(testCtx, 999, liker.ID)

		var nf *apperr.NotFoundError
		assert.True(t, errors.As(err, &nf))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(testCtx, second.ID))

		_, err := store.Get(testCtx, second.ID)
		var nf *apperr.NotFoundError
		assert.True(t, errors.As(err, &nf))
	})
}

func TestUserStore(t *testing.T) {
	truncateTables(t)
	defer truncateTables(t)

	store := NewUserStore(testPool)
	created := seedUser(t, "userstore1")

	assert.Equal(t, domain.DefaultProfilePicture, created.ProfilePicture)
	assert.False(t, created.IsAdmin)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := store.Create(testCtx, domain.User{Username: "otheruser", Email: created.Email, Password: "x"})

		var ce *apperr.ConflictError
		assert.True(t, errors.As(err, &ce))
	})

	t.Run("get by email", func(t *testing.T) {
		u, err := store.GetByEmail(testCtx, created.Email)

		require.NoError(t, err)
		assert.Equal(t, created.ID, u.ID)
		assert.Equal(t, "hashed", u.Password)
	})

	t.Run("partial update", func(t *testing.T) {
		admin := true
		u, err := store.Update(testCtx, created.ID, domain.UserPatch{Username: strPtr("renamed01"), IsAdmin: &admin})

		require.NoError(t, err)
		assert.Equal(t, "renamed01", u.Username)
		assert.True(t, u.IsAdmin)
		assert.Equal(t, created.Email, u.Email)
	})

	t.Run("list and stats", func(t *testing.T) {
		seedUser(t, "userstore2")

		users, err := store.List(testCtx, 0, 9, true)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, created.ID, users[0].ID)

		st, err := store.Stats(testCtx, time.Now())
		require.NoError(t, err)
		assert.Equal(t, int64(2), st.TotalUsers)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(testCtx, created.ID))

		var nf *apperr.NotFoundError
		assert.True(t, errors.As(store.Delete(testCtx, created.ID), &nf))
	})
}
