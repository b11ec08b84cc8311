package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tattoola/db"
	"tattoola/models"
)

func validArtistSteps() models.ArtistRegistrationSteps {
	return models.ArtistRegistrationSteps{
		Step3:  models.ArtistStep3{FirstName: "Marta", LastName: "Rossi"},
		Step4:  models.ArtistStep4{WorkArrangement: models.WorkFreelance},
		Step5:  models.ArtistStep5{Province: "Torino", Municipality: "Torino"},
		Step6:  models.ArtistStep6{AvatarURL: "https://cdn.example.com/marta.png"},
		Step7:  models.ArtistStep7{Bio: "Blackwork and dotwork"},
		Step8:  models.ArtistStep8{FavoriteStyles: []string{"blackwork", "dotwork"}, MainStyle: "dotwork"},
		Step9:  models.ArtistStep9{Services: []string{"custom", "cover-up"}},
		Step10: models.ArtistStep10{BodyParts: []string{"arm"}},
		Step11: models.ArtistStep11{MinimumPrice: 80, HourlyRate: 120},
		Step12: models.ArtistStep12{Projects: []models.ProjectDraft{
			{Title: "Sleeve", MediaURLs: []string{"https://cdn.example.com/p1.jpg"}},
		}},
	}
}

func TestCompleteArtistProfile(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, models.RoleUser)
	ps := NewProfileService()

	steps := validArtistSteps()
	steps.Step8.MainStyle = "realism"
	_, err := ps.CompleteArtistProfile(ctx, user.ID, steps)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "step8.main_style", verr.Errors[0].Field)

	profile, err := ps.CompleteArtistProfile(ctx, user.ID, validArtistSteps())
	require.NoError(t, err)
	assert.Equal(t, "blackwork,dotwork", profile.Styles)

	// повторная отправка заменяет портфолио
	steps = validArtistSteps()
	steps.Step12.Projects = append(steps.Step12.Projects, models.ProjectDraft{
		Title: "Back piece", MediaURLs: []string{"https://cdn.example.com/p2.jpg"},
	})
	_, err = ps.CompleteArtistProfile(ctx, user.ID, steps)
	require.NoError(t, err)

	var projects []models.PortfolioProject
	require.NoError(t, db.ORM.Where("artist_id = ?", user.ID).Find(&projects).Error)
	assert.Len(t, projects, 2)

	var stored models.User
	require.NoError(t, db.ORM.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, models.RoleArtist, stored.Role)
	assert.Equal(t, "Marta", stored.FirstName)
}

func TestCompleteUserProfile(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, models.RoleUser)
	private := false
	steps := models.UserRegistrationSteps{
		Step3: models.UserStep3{FirstName: " Luca ", LastName: "Verdi"},
		Step5: models.UserStep5{Province: "Roma", Municipality: "Roma"},
		Step6: models.UserStep6{FavoriteStyles: []string{"traditional"}},
		Step7: models.UserStep7{IsPublic: &private},
	}

	saved, err := NewProfileService().CompleteUserProfile(context.Background(), user.ID, steps)
	require.NoError(t, err)
	assert.Equal(t, "Luca", saved.FirstName)
	assert.False(t, saved.IsPublic)

	steps.Step7.IsPublic = nil
	_, err = NewProfileService().CompleteUserProfile(context.Background(), user.ID, steps)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCreateStudio(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, models.RoleArtist)
	steps := models.StudioSetupSteps{
		Step1: models.StudioStep1{LogoURL: "https://cdn.example.com/logo.png"},
		Step2: models.StudioStep2{Name: "Inkwell", Province: "Milano", Municipality: "Milano"},
		Step3: models.StudioStep3{Address: "Via Roma 1"},
		Step4: models.StudioStep4{Styles: []string{"realism"}},
		Step5: models.StudioStep5{Services: []string{"piercing"}},
		Step6: models.StudioStep6{MemberIDs: []string{owner.ID.String()}},
		Step7: models.StudioStep7{FAQs: []models.FAQDraft{{Question: "Walk-ins?", Answer: "Yes"}}},
	}

	studio, err := NewProfileService().CreateStudio(context.Background(), owner.ID, steps)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, studio.OwnerID)
	assert.True(t, strings.Contains(studio.Members, owner.ID.String()))

	var faqs []models.StudioFAQ
	require.NoError(t, db.ORM.Where("studio_id = ?", studio.ID).Find(&faqs).Error)
	assert.Len(t, faqs, 1)
}
