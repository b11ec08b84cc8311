package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tattoola/models"
)

func TestRegisterLoginLogout(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	us := NewUserService()

	user, err := us.Register(ctx, RegisterInput{Email: " Ink@Example.com ", Password: "p4ssword"})
	require.NoError(t, err)
	assert.Equal(t, "ink@example.com", user.Email)
	assert.Equal(t, "ink", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "p4ssword", user.Password)

	_, err = us.Register(ctx, RegisterInput{Email: "ink@example.com", Password: "other"})
	assert.ErrorIs(t, err, ErrUserExists)

	_, _, err = us.Login(ctx, "ink@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, _, err = us.Login(ctx, "nobody@example.com", "p4ssword")
	assert.ErrorIs(t, err, ErrUserNotFound)

	token, logged, err := us.Login(ctx, "INK@example.com", "p4ssword")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.Len(t, token, 64)

	id, err := us.CheckToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	// повторный вход отзывает старый токен
	token2, _, err := us.Login(ctx, "ink@example.com", "p4ssword")
	require.NoError(t, err)
	_, err = us.CheckToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, us.Logout(ctx, user.ID))
	_, err = us.CheckToken(ctx, token2)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashFormat(t *testing.T) {
	hash, err := hashPassword("tattoo")
	require.NoError(t, err)
	require.NoError(t, checkPassword(hash, "tattoo"))
	assert.ErrorIs(t, checkPassword(hash, "tatoo"), ErrInvalidPassword)
	assert.Error(t, checkPassword("garbage", "tattoo"))
}
