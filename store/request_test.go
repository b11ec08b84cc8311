package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tattoola/models"
)

type submitterFunc func(ctx context.Context, answers models.PrivateRequestAnswers) error

func (f submitterFunc) SubmitRequest(ctx context.Context, answers models.PrivateRequestAnswers) error {
	return f(ctx, answers)
}

func walkToAge(t *testing.T, w *RequestWizard) {
	t.Helper()
	w.SetSize(models.SizeMedium)
	require.Empty(t, w.Next())
	w.SetReferences([]string{"https://cdn.example.com/ref.jpg"})
	require.Empty(t, w.Next())
	w.SetColor(models.ColorBlackGrey)
	require.Empty(t, w.Next())
	w.SetDescription("Small swallow on the wrist")
	require.Empty(t, w.Next())
	require.Equal(t, RequestStepAge, w.Current())
}

func TestRequestWizardGatesEachStep(t *testing.T) {
	w := NewRequestWizard(uuid.New())
	assert.Equal(t, RequestStepSize, w.Current())

	errs := w.Next()
	require.Len(t, errs, 1)
	assert.Equal(t, "size", errs[0].Field)
	assert.Equal(t, RequestStepSize, w.Current())

	w.SetSize(models.SizeSmall)
	assert.Empty(t, w.Next())
	// ссылки необязательны
	assert.Empty(t, w.Next())
	assert.Equal(t, RequestStepColor, w.Current())

	assert.True(t, w.Back())
	assert.Equal(t, RequestStepReferences, w.Current())
}

func TestRequestWizardSubmit(t *testing.T) {
	artist := uuid.New()
	w := NewRequestWizard(artist)
	walkToAge(t, w)

	var got models.PrivateRequestAnswers
	sub := submitterFunc(func(_ context.Context, a models.PrivateRequestAnswers) error {
		got = a
		return nil
	})

	err := w.Submit(context.Background(), sub)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr, "age confirmation is required")

	w.SetAdult(true)
	require.NoError(t, w.Submit(context.Background(), sub))
	assert.Equal(t, artist.String(), got.ArtistID)
	assert.Equal(t, models.SizeMedium, got.Size)

	assert.Equal(t, RequestStepSuccess, w.Current())
	assert.Empty(t, w.Answers().Description)
	assert.False(t, w.Back())

	w.Reset()
	assert.Equal(t, RequestStepSize, w.Current())
}

func TestRequestWizardSubmitFailureKeepsAnswers(t *testing.T) {
	w := NewRequestWizard(uuid.New())
	walkToAge(t, w)
	w.SetAdult(true)

	err := w.Submit(context.Background(), submitterFunc(func(context.Context, models.PrivateRequestAnswers) error {
		return errors.New("offline")
	}))
	require.Error(t, err)
	assert.Equal(t, RequestStepAge, w.Current())
	assert.Equal(t, "Small swallow on the wrist", w.Answers().Description)
}

func TestRequestWizardCancel(t *testing.T) {
	w := NewRequestWizard(uuid.New())
	walkToAge(t, w)
	w.Cancel()
	assert.Equal(t, RequestStepSize, w.Current())
	assert.Empty(t, w.Answers().Size)

	err := w.Submit(context.Background(), submitterFunc(func(context.Context, models.PrivateRequestAnswers) error { return nil }))
	assert.Error(t, err)
}
