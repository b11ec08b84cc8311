package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"tattoola/db"
	"tattoola/models"
)

// setupTestDB поднимает отдельную sqlite базу в памяти на каждый тест
func setupTestDB(t *testing.T) {
	t.Helper()
	orm, err := db.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	db.ORM = orm
	t.Cleanup(func() {
		if sqlDB, err := orm.DB(); err == nil {
			sqlDB.Close()
		}
		db.ORM = nil
	})
}

func createUser(t *testing.T, role models.Role) *models.User {
	t.Helper()
	user, err := NewUserService().Register(context.Background(), RegisterInput{
		Email:    gofakeit.Email(),
		Username: gofakeit.Username() + gofakeit.DigitN(6),
		Password: "secret-password",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

// insertPost пишет пост напрямую, чтобы управлять created_at
func insertPost(t *testing.T, authorID uuid.UUID, createdAt time.Time) models.Post {
	t.Helper()
	post := models.Post{
		AuthorID:  authorID,
		Caption:   gofakeit.Word(),
		CreatedAt: createdAt.UTC().Truncate(time.Millisecond),
		UpdatedAt: createdAt.UTC(),
		Media: []models.PostMedia{
			{URL: gofakeit.URL(), Type: models.MediaImage, Order: 1},
			{URL: gofakeit.URL(), Type: models.MediaVideo, Order: 0},
		},
	}
	require.NoError(t, db.ORM.Create(&post).Error)
	return post
}

func follow(t *testing.T, followerID, followingID uuid.UUID) {
	t.Helper()
	require.NoError(t, NewFollowService().Follow(context.Background(), followerID, followingID))
}
