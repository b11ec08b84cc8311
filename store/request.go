package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"tattoola/models"
	"tattoola/validation"
)

type RequestStep int

const (
	RequestStepSize RequestStep = iota
	RequestStepReferences
	RequestStepColor
	RequestStepDescription
	RequestStepAge
	RequestStepSuccess
)

func (s RequestStep) String() string {
	switch s {
	case RequestStepSize:
		return "size"
	case RequestStepReferences:
		return "references"
	case RequestStepColor:
		return "color"
	case RequestStepDescription:
		return "description"
	case RequestStepAge:
		return "age"
	case RequestStepSuccess:
		return "success"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// поля ответов, которые проверяются на каждом шаге
var requestStepFields = map[RequestStep][]string{
	RequestStepSize:        {"size"},
	RequestStepReferences:  {"reference_urls"},
	RequestStepColor:       {"color"},
	RequestStepDescription: {"description"},
	RequestStepAge:         {"is_adult"},
}

type RequestSubmitter interface {
	SubmitRequest(ctx context.Context, answers models.PrivateRequestAnswers) error
}

// RequestWizard - приватный запрос мастеру. Живет только в памяти,
// после отправки или отмены ответы сбрасываются
type RequestWizard struct {
	mu       sync.Mutex
	artistID uuid.UUID
	step     RequestStep
	answers  Draft[models.PrivateRequestAnswers]
}

func NewRequestWizard(artistID uuid.UUID) *RequestWizard {
	w := &RequestWizard{artistID: artistID}
	w.resetLocked()
	return w
}

func (w *RequestWizard) resetLocked() {
	w.step = RequestStepSize
	w.answers = Draft[models.PrivateRequestAnswers]{
		Data: models.PrivateRequestAnswers{ArtistID: w.artistID.String()},
	}
}

func (w *RequestWizard) Current() RequestStep {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *RequestWizard) Answers() models.PrivateRequestAnswers {
	w.mu.Lock()
	defer w.mu.Unlock()
	a := w.answers.Data
	a.ReferenceURLs = slices.Clone(a.ReferenceURLs)
	return a
}

func (w *RequestWizard) edit(fn func(*models.PrivateRequestAnswers)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.answers.Edit(fn)
}

func (w *RequestWizard) SetSize(size models.TattooSize) {
	w.edit(func(a *models.PrivateRequestAnswers) { a.Size = size })
}

func (w *RequestWizard) SetReferences(urls []string) {
	w.edit(func(a *models.PrivateRequestAnswers) { a.ReferenceURLs = slices.Clone(urls) })
}

func (w *RequestWizard) SetColor(color models.ColorPreference) {
	w.edit(func(a *models.PrivateRequestAnswers) { a.Color = color })
}

func (w *RequestWizard) SetDescription(text string) {
	w.edit(func(a *models.PrivateRequestAnswers) { a.Description = text })
}

func (w *RequestWizard) SetAdult(adult bool) {
	w.edit(func(a *models.PrivateRequestAnswers) { a.IsAdult = adult })
}

func validateAnswers(a models.PrivateRequestAnswers) []validation.FieldError {
	return validation.Struct(a)
}

func stepErrors(step RequestStep, errs []validation.FieldError) []validation.FieldError {
	fields := requestStepFields[step]
	var out []validation.FieldError
	for _, e := range errs {
		for _, f := range fields {
			if e.Field == f || strings.HasPrefix(e.Field, f+"[") {
				out = append(out, e)
			}
		}
	}
	return out
}

// Next переходит к следующему шагу, если ответы текущего шага валидны.
// С шага возраста дальше ведет только Submit
func (w *RequestWizard) Next() []validation.FieldError {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step >= RequestStepAge {
		return nil
	}
	if errs := stepErrors(w.step, validateAnswers(w.answers.Data)); len(errs) > 0 {
		return errs
	}
	w.step++
	return nil
}

func (w *RequestWizard) Back() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == RequestStepSize || w.step == RequestStepSuccess {
		return false
	}
	w.step--
	return true
}

// Cancel сбрасывает ответы и возвращает мастер к первому шагу
func (w *RequestWizard) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
}

// Reset используется после экрана успеха, чтобы начать новый запрос
func (w *RequestWizard) Reset() {
	w.Cancel()
}

func (w *RequestWizard) Submit(ctx context.Context, submitter RequestSubmitter) error {
	w.mu.Lock()
	if w.step != RequestStepAge {
		step := w.step
		w.mu.Unlock()
		return fmt.Errorf("cannot submit request from step %s", step)
	}
	answers, errs := w.answers.Commit(validateAnswers)
	w.mu.Unlock()
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}

	if err := submitter.SubmitRequest(ctx, answers); err != nil {
		return fmt.Errorf("failed to submit request: %w", err)
	}

	w.mu.Lock()
	w.resetLocked()
	w.step = RequestStepSuccess
	w.mu.Unlock()
	return nil
}
