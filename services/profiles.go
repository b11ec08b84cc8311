package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"tattoola/db"
	"tattoola/models"
	"tattoola/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ValidationError - данные мастера не прошли повторную проверку на сервере
type ValidationError struct {
	Errors []validation.FieldError
}

func (e *ValidationError) Error() string {
	return validation.Err(e.Errors).Error()
}

func validate(v any) error {
	if errs := validation.Struct(v); len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func joinList(items []string) string {
	return strings.Join(items, ",")
}

type ProfileService struct{}

func NewProfileService() *ProfileService {
	return &ProfileService{}
}

// CompleteUserProfile сохраняет результат мастера регистрации клиента
func (s *ProfileService) CompleteUserProfile(ctx context.Context, userID uuid.UUID, steps models.UserRegistrationSteps) (*models.User, error) {
	if err := validate(steps); err != nil {
		return nil, err
	}

	var user models.User
	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		user.FirstName = strings.TrimSpace(steps.Step3.FirstName)
		user.LastName = strings.TrimSpace(steps.Step3.LastName)
		user.AvatarURL = steps.Step4.AvatarURL
		user.Province = steps.Step5.Province
		user.Municipality = steps.Step5.Municipality
		user.FavoriteStyles = joinList(steps.Step6.FavoriteStyles)
		user.IsPublic = *steps.Step7.IsPublic
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save user profile: %w", err)
	}
	return &user, nil
}

// CompleteArtistProfile сохраняет профиль мастера и его портфолио, пользователь становится artist
func (s *ProfileService) CompleteArtistProfile(ctx context.Context, userID uuid.UUID, steps models.ArtistRegistrationSteps) (*models.ArtistProfile, error) {
	if err := validate(steps); err != nil {
		return nil, err
	}

	profile := &models.ArtistProfile{
		UserID:          userID,
		WorkArrangement: steps.Step4.WorkArrangement,
		StudioName:      steps.Step5.StudioName,
		StudioAddress:   steps.Step5.StudioAddress,
		Styles:          joinList(steps.Step8.FavoriteStyles),
		MainStyle:       steps.Step8.MainStyle,
		Services:        joinList(steps.Step9.Services),
		BodyParts:       joinList(steps.Step10.BodyParts),
		MinimumPrice:    steps.Step11.MinimumPrice,
		HourlyRate:      steps.Step11.HourlyRate,
	}
	for _, p := range steps.Step12.Projects {
		profile.Projects = append(profile.Projects, models.PortfolioProject{
			ArtistID:    userID,
			Title:       strings.TrimSpace(p.Title),
			Description: p.Description,
			MediaURLs:   joinList(p.MediaURLs),
		})
	}

	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		user.FirstName = strings.TrimSpace(steps.Step3.FirstName)
		user.LastName = strings.TrimSpace(steps.Step3.LastName)
		user.Province = steps.Step5.Province
		user.Municipality = steps.Step5.Municipality
		user.AvatarURL = steps.Step6.AvatarURL
		user.Bio = steps.Step7.Bio
		user.FavoriteStyles = joinList(steps.Step8.FavoriteStyles)
		user.Role = models.RoleArtist
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		// повторная отправка заменяет портфолио целиком
		if err := tx.Where("artist_id = ?", userID).Delete(&models.PortfolioProject{}).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(profile).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save artist profile: %w", err)
	}
	return profile, nil
}

// CreateStudio создает студию владельца по данным мастера настройки студии
func (s *ProfileService) CreateStudio(ctx context.Context, ownerID uuid.UUID, steps models.StudioSetupSteps) (*models.Studio, error) {
	if err := validate(steps); err != nil {
		return nil, err
	}

	studio := &models.Studio{
		OwnerID:      ownerID,
		Name:         strings.TrimSpace(steps.Step2.Name),
		Province:     steps.Step2.Province,
		Municipality: steps.Step2.Municipality,
		Address:      steps.Step3.Address,
		Description:  steps.Step3.Description,
		Styles:       joinList(steps.Step4.Styles),
		Services:     joinList(steps.Step5.Services),
		Members:      joinList(steps.Step6.MemberIDs),
		BannerURL:    steps.Step1.BannerURL,
		LogoURL:      steps.Step1.LogoURL,
	}
	for i, f := range steps.Step7.FAQs {
		studio.FAQs = append(studio.FAQs, models.StudioFAQ{Question: f.Question, Answer: f.Answer, Order: i})
	}

	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		var owner models.User
		if err := tx.First(&owner, "id = ?", ownerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		return tx.Create(studio).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create studio: %w", err)
	}
	return studio, nil
}
