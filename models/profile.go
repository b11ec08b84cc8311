package models

import (
	"time"

	"github.com/google/uuid"
)

type WorkArrangement string

const (
	WorkFreelance      WorkArrangement = "freelance"
	WorkStudioOwner    WorkArrangement = "studio_owner"
	WorkStudioEmployee WorkArrangement = "studio_employee"
)

// ArtistProfile - данные, собранные мастером регистрации тату-мастера
type ArtistProfile struct {
	UserID          uuid.UUID          `gorm:"type:uuid;primaryKey" json:"user_id"`
	WorkArrangement WorkArrangement    `gorm:"size:30" json:"work_arrangement"`
	StudioName      string             `gorm:"size:255" json:"studio_name,omitempty"`
	StudioAddress   string             `gorm:"size:512" json:"studio_address,omitempty"`
	Styles          string             `gorm:"type:text" json:"styles"`
	MainStyle       string             `gorm:"size:100" json:"main_style"`
	Services        string             `gorm:"type:text" json:"services"`
	BodyParts       string             `gorm:"type:text" json:"body_parts"`
	MinimumPrice    float64            `json:"minimum_price"`
	HourlyRate      float64            `json:"hourly_rate"`
	Projects        []PortfolioProject `gorm:"foreignKey:ArtistID" json:"projects,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func (ArtistProfile) TableName() string {
	return "artist_profiles"
}

type PortfolioProject struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ArtistID    uuid.UUID `gorm:"type:uuid;index" json:"artist_id"`
	Title       string    `gorm:"size:255" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	MediaURLs   string    `gorm:"type:text" json:"media_urls"`
}

func (PortfolioProject) TableName() string {
	return "portfolio_projects"
}

type Studio struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID      uuid.UUID   `gorm:"type:uuid;index" json:"owner_id"`
	Name         string      `gorm:"size:255" json:"name"`
	Province     string      `gorm:"size:255" json:"province"`
	Municipality string      `gorm:"size:255" json:"municipality"`
	Address      string      `gorm:"size:512" json:"address"`
	Description  string      `gorm:"type:text" json:"description"`
	Styles       string      `gorm:"type:text" json:"styles"`
	Services     string      `gorm:"type:text" json:"services"`
	Members      string      `gorm:"type:text" json:"members"`
	BannerURL    string      `gorm:"size:1024" json:"banner_url,omitempty"`
	LogoURL      string      `gorm:"size:1024" json:"logo_url,omitempty"`
	FAQs         []StudioFAQ `gorm:"foreignKey:StudioID" json:"faqs,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (Studio) TableName() string {
	return "studios"
}

type StudioFAQ struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	StudioID uuid.UUID `gorm:"type:uuid;index" json:"studio_id"`
	Question string    `gorm:"type:text" json:"question"`
	Answer   string    `gorm:"type:text" json:"answer"`
	Order    int       `gorm:"column:sort_order" json:"order"`
}

func (StudioFAQ) TableName() string {
	return "studio_faqs"
}
