package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow - подписка одного пользователя на другого (односторонняя)
type Follow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FollowerID  uuid.UUID `gorm:"type:uuid;uniqueIndex:follow_pair_idx" json:"follower_id"`
	FollowingID uuid.UUID `gorm:"type:uuid;uniqueIndex:follow_pair_idx;index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
