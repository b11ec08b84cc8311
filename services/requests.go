package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"tattoola/db"
	"tattoola/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestService struct{}

func NewRequestService() *RequestService {
	return &RequestService{}
}

// CreateRequest сохраняет приватный запрос клиента и уведомляет мастера
func (s *RequestService) CreateRequest(ctx context.Context, clientID uuid.UUID, answers models.PrivateRequestAnswers) (*models.TattooRequest, error) {
	if err := validate(answers); err != nil {
		return nil, err
	}
	artistID, err := uuid.Parse(answers.ArtistID)
	if err != nil {
		return nil, fmt.Errorf("invalid artist id: %w", err)
	}

	var artist models.User
	err = db.GetReadOnlyDB(ctx).First(&artist, "id = ?", artistID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if artist.Role != models.RoleArtist {
		return nil, ErrNotAnArtist
	}

	req := &models.TattooRequest{
		ClientID:      clientID,
		ArtistID:      artistID,
		Size:          answers.Size,
		ReferenceURLs: joinList(answers.ReferenceURLs),
		Color:         answers.Color,
		Description:   answers.Description,
		IsAdult:       answers.IsAdult,
		Status:        "pending",
	}
	if err := db.GetWriteDB(ctx).Create(req).Error; err != nil {
		return nil, fmt.Errorf("failed to save request: %w", err)
	}

	if err := SendWsNotify(artistID, "request", "You have a new tattoo request"); err != nil {
		log.Printf("ERROR: failed to notify artist=%s: %v", artistID, err)
	}
	return req, nil
}

// Incoming возвращает запросы, пришедшие мастеру, новые сверху
func (s *RequestService) Incoming(ctx context.Context, artistID uuid.UUID) ([]models.TattooRequest, error) {
	var reqs []models.TattooRequest
	err := db.GetReadOnlyDB(ctx).
		Where("artist_id = ?", artistID).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get requests: %w", err)
	}
	return reqs, nil
}
