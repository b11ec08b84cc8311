package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"tattoola/db"
	"tattoola/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FollowService struct{}

func NewFollowService() *FollowService {
	return &FollowService{}
}

// Follow подписывает followerID на followingID. Лента подписчика сбрасывается
func (fs *FollowService) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return ErrCannotFollowSelf
	}

	var userCount int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).
		Where("id IN ?", []uuid.UUID{followerID, followingID}).
		Count(&userCount).Error
	if err != nil {
		return fmt.Errorf("error checking users: %w", err)
	}
	if userCount != 2 {
		return ErrUserNotFound
	}

	var existing models.Follow
	err = db.GetReadOnlyDB(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&existing).Error
	if err == nil {
		return ErrAlreadyFollowing
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("error checking follow: %w", err)
	}

	follow := &models.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.GetWriteDB(ctx).Create(follow).Error; err != nil {
		return fmt.Errorf("failed to create follow: %w", err)
	}

	fs.invalidateFeed(ctx, followerID)
	return nil
}

func (fs *FollowService) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	res := db.GetWriteDB(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete follow: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFollowing
	}

	fs.invalidateFeed(ctx, followerID)
	return nil
}

// Following возвращает авторов, на которых подписан пользователь
func (fs *FollowService) Following(ctx context.Context, userID uuid.UUID) ([]models.Author, error) {
	var users []models.User
	err := db.GetReadOnlyDB(ctx).
		Where("id IN (?)", db.GetReadOnlyDB(ctx).Model(&models.Follow{}).
			Select("following_id").
			Where("follower_id = ?", userID)).
		Order("username").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get following: %w", err)
	}

	authors := make([]models.Author, 0, len(users))
	for _, u := range users {
		authors = append(authors, u.Author())
	}
	return authors, nil
}

// FollowerIDs - кому нужно разослать новый пост автора
func (fs *FollowService) FollowerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.GetReadOnlyDB(ctx).Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get followers: %w", err)
	}
	return ids, nil
}

func (fs *FollowService) invalidateFeed(ctx context.Context, userID uuid.UUID) {
	if RedisClient == nil {
		return
	}
	if err := NewPostService().InvalidateUserFeed(ctx, userID); err != nil {
		log.Printf("ERROR: failed to invalidate feed for user=%s: %v", userID, err)
	}
}
