package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tattoola/models"
)

func TestCreateRequest(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	rs := NewRequestService()
	client := createUser(t, models.RoleUser)
	artist := createUser(t, models.RoleArtist)

	answers := models.PrivateRequestAnswers{
		ArtistID:    artist.ID.String(),
		Size:        models.SizeSmall,
		Color:       models.ColorUnsure,
		Description: "Fine line moon",
		IsAdult:     true,
	}

	req, err := rs.CreateRequest(ctx, client.ID, answers)
	require.NoError(t, err)
	assert.Equal(t, "pending", req.Status)

	incoming, err := rs.Incoming(ctx, artist.ID)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, client.ID, incoming[0].ClientID)

	answers.ArtistID = client.ID.String()
	_, err = rs.CreateRequest(ctx, artist.ID, answers)
	assert.ErrorIs(t, err, ErrNotAnArtist)

	answers.ArtistID = artist.ID.String()
	answers.IsAdult = false
	_, err = rs.CreateRequest(ctx, client.ID, answers)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
