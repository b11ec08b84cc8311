package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tattoola/models"
)

func collectFeed(t *testing.T, viewerID uuid.UUID, limit int) ([]models.FeedPost, int) {
	t.Helper()
	ps := NewPostService()
	var all []models.FeedPost
	var cursor *string
	pages := 0
	for {
		page, err := ps.GetFeed(context.Background(), viewerID, cursor, limit)
		require.NoError(t, err)
		pages++
		require.LessOrEqual(t, len(page.Items), limit)
		all = append(all, page.Items...)
		if page.NextCursor == nil {
			return all, pages
		}
		cursor = page.NextCursor
		require.Less(t, pages, 100, "pagination does not terminate")
	}
}

func TestFeedPaginationIsCompleteAndOrdered(t *testing.T) {
	setupTestDB(t)
	viewer := createUser(t, models.RoleUser)
	artist := createUser(t, models.RoleArtist)
	stranger := createUser(t, models.RoleArtist)
	follow(t, viewer.ID, artist.ID)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	want := map[uuid.UUID]bool{}
	for i := 0; i < 5; i++ {
		want[insertPost(t, artist.ID, base.Add(time.Duration(i)*time.Minute)).ID] = true
	}
	// несколько постов с одинаковым временем
	for i := 0; i < 3; i++ {
		want[insertPost(t, artist.ID, base.Add(time.Hour)).ID] = true
	}
	want[insertPost(t, viewer.ID, base.Add(30*time.Second)).ID] = true
	insertPost(t, stranger.ID, base.Add(2*time.Hour))

	items, pages := collectFeed(t, viewer.ID, 3)
	assert.Equal(t, 3, pages)
	require.Len(t, items, len(want))

	seen := map[uuid.UUID]bool{}
	for i, p := range items {
		assert.True(t, want[p.ID], "unexpected post in feed")
		assert.False(t, seen[p.ID], "post returned twice")
		seen[p.ID] = true
		if i > 0 {
			prev := items[i-1]
			assert.False(t, p.CreatedAt.After(prev.CreatedAt), "feed must be newest first")
			if p.CreatedAt.Equal(prev.CreatedAt) {
				assert.Less(t, p.ID.String(), prev.ID.String())
			}
		}
	}
}

func TestFeedPostShape(t *testing.T) {
	setupTestDB(t)
	viewer := createUser(t, models.RoleUser)
	post := insertPost(t, viewer.ID, time.Now())

	page, err := NewPostService().GetFeed(context.Background(), viewer.ID, nil, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.NextCursor)

	got := page.Items[0]
	assert.Equal(t, post.ID, got.ID)
	assert.Equal(t, viewer.ID, got.Author.ID)
	assert.Equal(t, viewer.Username, got.Author.Username)
	require.Len(t, got.Media, 2)
	assert.Equal(t, models.MediaVideo, got.Media[0].Type, "media ordered by position")
	assert.False(t, got.IsLiked)
}

func TestEmptyFeed(t *testing.T) {
	setupTestDB(t)
	viewer := createUser(t, models.RoleUser)

	page, err := NewPostService().GetFeed(context.Background(), viewer.ID, nil, 10)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Nil(t, page.NextCursor)
}

func TestFeedRejectsBadCursor(t *testing.T) {
	setupTestDB(t)
	viewer := createUser(t, models.RoleUser)
	bad := "not-a-cursor!"
	_, err := NewPostService().GetFeed(context.Background(), viewer.ID, &bad, 10)
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestCreateAndDeletePost(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	ps := NewPostService()
	artist := createUser(t, models.RoleArtist)
	fan := createUser(t, models.RoleUser)
	follow(t, fan.ID, artist.ID)

	_, err := ps.CreatePost(ctx, artist.ID, CreatePostInput{})
	assert.ErrorIs(t, err, ErrEmptyPost)

	created, err := ps.CreatePost(ctx, artist.ID, CreatePostInput{
		Caption: "fresh flash",
		Media:   []models.Media{{URL: "https://cdn.example.com/1.jpg"}, {URL: "https://cdn.example.com/2.mp4", Type: models.MediaVideo}},
	})
	require.NoError(t, err)
	assert.Equal(t, artist.ID, created.Author.ID)
	assert.Equal(t, models.MediaImage, created.Media[0].Type)
	assert.Equal(t, 1, created.Media[1].Order)

	page, err := ps.GetFeed(ctx, fan.ID, nil, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, created.ID, page.Items[0].ID)
	assert.Equal(t, "fresh flash", page.Items[0].Caption)

	assert.ErrorIs(t, ps.DeletePost(ctx, fan.ID, created.ID), ErrPostNotFound)
	require.NoError(t, ps.DeletePost(ctx, artist.ID, created.ID))

	page, err = ps.GetFeed(ctx, fan.ID, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestCursorRoundTrip(t *testing.T) {
	c := FeedCursor{CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 6000, time.UTC), ID: uuid.New()}
	decoded, err := DecodeCursor(c.Encode())
	require.NoError(t, err)
	assert.True(t, c.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, c.ID, decoded.ID)

	for _, bad := range []string{"", "%%%", "bm9jb2xvbg", "MTIzOm5vdC1hLXV1aWQ"} {
		_, err := DecodeCursor(bad)
		assert.ErrorIs(t, err, ErrInvalidCursor, bad)
	}
}
