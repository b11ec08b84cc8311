package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tattoola/models"
)

func fields(errs []FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestRequiredNonBlank(t *testing.T) {
	errs := Step(models.UserStep3{FirstName: "  ", LastName: "Rossi"})
	require.Len(t, errs, 1)
	assert.Equal(t, "first_name", errs[0].Field)
	assert.Equal(t, "notblank", errs[0].Rule)

	assert.Empty(t, Step(models.UserStep3{FirstName: "Anna", LastName: "Rossi"}))
}

func TestEnumMembership(t *testing.T) {
	errs := Step(models.ArtistStep4{WorkArrangement: "pirate"})
	require.Len(t, errs, 1)
	assert.Equal(t, "oneof", errs[0].Rule)

	assert.Empty(t, Step(models.ArtistStep4{WorkArrangement: models.WorkFreelance}))
}

func TestNumericPositivity(t *testing.T) {
	errs := Step(models.ArtistStep11{MinimumPrice: 0, HourlyRate: -5})
	assert.ElementsMatch(t, []string{"minimum_price", "hourly_rate"}, fields(errs))

	assert.Empty(t, Step(models.ArtistStep11{MinimumPrice: 50, HourlyRate: 80}))
}

func TestMainStyleMustBeFavorite(t *testing.T) {
	errs := Step(models.ArtistStep8{
		FavoriteStyles: []string{"realism", "blackwork"},
		MainStyle:      "japanese",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "main_style", errs[0].Field)
	assert.Equal(t, "memberof", errs[0].Rule)

	assert.Empty(t, Step(models.ArtistStep8{
		FavoriteStyles: []string{"realism", "blackwork"},
		MainStyle:      "blackwork",
	}))
}

func TestFavoriteStylesBounds(t *testing.T) {
	errs := Step(models.UserStep6{})
	require.NotEmpty(t, errs)
	assert.Equal(t, "min", errs[0].Rule)

	errs = Step(models.UserStep6{FavoriteStyles: []string{"a", "b", "c", "d", "e"}})
	require.NotEmpty(t, errs)
	assert.Equal(t, "max", errs[0].Rule)
}

func TestNestedProjects(t *testing.T) {
	errs := Step(models.ArtistStep12{Projects: []models.ProjectDraft{
		{Title: "Koi sleeve", MediaURLs: []string{"https://cdn.example.com/koi.jpg"}},
		{Title: "", MediaURLs: nil},
	}})
	assert.ElementsMatch(t, []string{"projects[1].title", "projects[1].media_urls"}, fields(errs))
}

func TestPointerRequired(t *testing.T) {
	assert.NotEmpty(t, Step(models.UserStep7{}))
	public := false
	assert.Empty(t, Step(models.UserStep7{IsPublic: &public}))
}

func TestErrJoinsMessages(t *testing.T) {
	assert.NoError(t, Err(nil))
	err := Err([]FieldError{{Message: "a is required"}, {Message: "b is required"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a is required; b is required")
}
