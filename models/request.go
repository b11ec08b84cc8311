package models

import (
	"time"

	"github.com/google/uuid"
)

type TattooSize string

const (
	SizeSmall  TattooSize = "small"
	SizeMedium TattooSize = "medium"
	SizeLarge  TattooSize = "large"
	SizeXL     TattooSize = "xl"
)

type ColorPreference string

const (
	ColorBlackGrey ColorPreference = "black_grey"
	ColorFull      ColorPreference = "color"
	ColorUnsure    ColorPreference = "unsure"
)

// TattooRequest - приватный запрос клиента к мастеру
type TattooRequest struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID      uuid.UUID       `gorm:"type:uuid;index" json:"client_id"`
	ArtistID      uuid.UUID       `gorm:"type:uuid;index" json:"artist_id"`
	Size          TattooSize      `gorm:"size:20" json:"size"`
	ReferenceURLs string          `gorm:"type:text" json:"reference_urls"`
	Color         ColorPreference `gorm:"size:20" json:"color"`
	Description   string          `gorm:"type:text" json:"description"`
	IsAdult       bool            `json:"is_adult"`
	Status        string          `gorm:"size:20;default:pending" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (TattooRequest) TableName() string {
	return "tattoo_requests"
}
