package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleArtist Role = "artist"
	RoleStudio Role = "studio"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:60;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex" json:"email"`
	Password     string    `gorm:"size:255" json:"-"`
	FirstName    string    `gorm:"size:255" json:"first_name"`
	LastName     string    `gorm:"size:255" json:"last_name"`
	Role         Role      `gorm:"size:20;default:user" json:"role"`
	AvatarURL    string    `gorm:"size:1024" json:"avatar_url,omitempty"`
	Bio          string    `gorm:"type:text" json:"bio,omitempty"`
	Province     string    `gorm:"size:255" json:"province,omitempty"`
	Municipality string    `gorm:"size:255" json:"municipality,omitempty"`
	IsPublic     bool      `gorm:"default:true" json:"is_public"`
	// FavoriteStyles хранится через запятую, чтобы схема работала и в sqlite
	FavoriteStyles string    `gorm:"type:text" json:"favorite_styles,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

type UserTokens struct {
	ID     int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index:user_token_idx,unique" json:"user_id"`
	Token  string    `gorm:"size:255;index:user_token_idx,unique" json:"token"`
}

func (UserTokens) TableName() string {
	return "user_tokens"
}

// Author - краткая информация об авторе поста для ленты
type Author struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}

func (u User) Author() Author {
	return Author{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		AvatarURL: u.AvatarURL,
	}
}
