package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tattoola/db"
	"tattoola/models"
)

func TestToggleLike(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	ls := NewLikeService()
	artist := createUser(t, models.RoleArtist)
	fan := createUser(t, models.RoleUser)
	follow(t, fan.ID, artist.ID)
	post := insertPost(t, artist.ID, time.Now())

	res, err := ls.TogglePostLike(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LikeResult{IsLiked: true, LikesCount: 1}, res)

	page, err := NewPostService().GetFeed(ctx, fan.ID, nil, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].IsLiked)
	assert.Equal(t, int64(1), page.Items[0].LikesCount)

	// автор видит тот же счетчик, но без своего лайка
	authorPage, err := NewPostService().GetFeed(ctx, artist.ID, nil, 10)
	require.NoError(t, err)
	assert.False(t, authorPage.Items[0].IsLiked)

	res, err = ls.TogglePostLike(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LikeResult{IsLiked: false, LikesCount: 0}, res)
}

func TestToggleLikeCountNeverNegative(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	artist := createUser(t, models.RoleArtist)
	fan := createUser(t, models.RoleUser)
	post := insertPost(t, artist.ID, time.Now())

	// лайк есть, а счетчик уже ноль
	require.NoError(t, db.ORM.Create(&models.PostLike{PostID: post.ID, UserID: fan.ID}).Error)

	res, err := NewLikeService().TogglePostLike(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, res.IsLiked)
	assert.Equal(t, int64(0), res.LikesCount)
}

func TestToggleLikeUnknownPost(t *testing.T) {
	setupTestDB(t)
	fan := createUser(t, models.RoleUser)
	_, err := NewLikeService().TogglePostLike(context.Background(), uuid.New(), fan.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestReconcileLikeCounter(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	artist := createUser(t, models.RoleArtist)
	post := insertPost(t, artist.ID, time.Now())
	for i := 0; i < 3; i++ {
		fan := createUser(t, models.RoleUser)
		require.NoError(t, db.ORM.Create(&models.PostLike{PostID: post.ID, UserID: fan.ID}).Error)
	}

	n, err := NewLikeService().ReconcileLikeCounter(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	var stored models.Post
	require.NoError(t, db.ORM.First(&stored, "id = ?", post.ID).Error)
	assert.Equal(t, int64(3), stored.LikesCount)
}

func TestSetLikeIsIdempotent(t *testing.T) {
	setupTestDB(t)
	artist := createUser(t, models.RoleArtist)
	fan := createUser(t, models.RoleUser)
	post := insertPost(t, artist.ID, time.Now())

	changed, err := setLike(db.ORM, post.ID, fan.ID, true)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = setLike(db.ORM, post.ID, fan.ID, true)
	require.NoError(t, err)
	assert.False(t, changed)

	var stored models.Post
	require.NoError(t, db.ORM.First(&stored, "id = ?", post.ID).Error)
	assert.Equal(t, int64(1), stored.LikesCount)
}
