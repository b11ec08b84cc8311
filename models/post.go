package models

import (
	"time"

	"github.com/google/uuid"
)

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Post - модель поста пользователя
type Post struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID   uuid.UUID   `gorm:"type:uuid;index" json:"author_id"`
	Caption    string      `gorm:"type:text" json:"caption"`
	LikesCount int64       `gorm:"not null;default:0" json:"likes_count"`
	Media      []PostMedia `gorm:"foreignKey:PostID" json:"media,omitempty"`
	CreatedAt  time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}

type PostMedia struct {
	ID     int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	PostID uuid.UUID `gorm:"type:uuid;index" json:"-"`
	URL    string    `gorm:"size:1024" json:"url"`
	Type   MediaType `gorm:"size:10" json:"type"`
	Order  int       `gorm:"column:sort_order" json:"order"`
}

func (PostMedia) TableName() string {
	return "post_media"
}

// PostLike - лайк пользователя, пара (post_id, user_id) уникальна
type PostLike struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;uniqueIndex:post_like_idx" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:post_like_idx;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (PostLike) TableName() string {
	return "post_likes"
}

type Media struct {
	URL   string    `json:"url"`
	Type  MediaType `json:"type"`
	Order int       `json:"order"`
}

// FeedPost - пост в ленте с автором и состоянием лайка для конкретного зрителя
type FeedPost struct {
	ID         uuid.UUID `json:"id"`
	Author     Author    `json:"author"`
	Media      []Media   `json:"media"`
	Caption    string    `json:"caption"`
	LikesCount int64     `json:"likes_count"`
	IsLiked    bool      `json:"is_liked"`
	CreatedAt  time.Time `json:"created_at"`
}

// FeedPage - страница ленты. NextCursor == nil значит что страниц больше нет
type FeedPage struct {
	Items      []FeedPost `json:"items"`
	NextCursor *string    `json:"next_cursor"`
}

// LikeResult - авторитетное состояние лайка после переключения на сервере
type LikeResult struct {
	IsLiked    bool  `json:"is_liked"`
	LikesCount int64 `json:"likes_count"`
}
