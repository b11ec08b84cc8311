package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"tattoola/kvstore"
	"tattoola/validation"
)

// FlowDefinition описывает один мастер: ключ хранения и счетчик шагов для прогресса
type FlowDefinition struct {
	Name       string
	StorageKey string
	FirstStep  int
	TotalSteps int
}

type WizardState[S any] struct {
	Steps              S
	CurrentStepDisplay int
	TotalStepsDisplay  int
	IsSubmitting       bool
}

// persistedWizard - подмножество состояния, которое пишется в хранилище.
// IsSubmitting сюда намеренно не входит
type persistedWizard[S any] struct {
	Steps              S   `json:"steps"`
	CurrentStepDisplay int `json:"current_step_display"`
	TotalStepsDisplay  int `json:"total_steps_display"`
}

// ErrSubmitInProgress - черновик заблокирован, пока идет отправка
var ErrSubmitInProgress = errors.New("wizard submit in progress")

type ValidationError struct {
	Errors []validation.FieldError
}

func (e *ValidationError) Error() string {
	return validation.Err(e.Errors).Error()
}

// Wizard - черновик одного мастера регистрации. Каждое изменение сливается
// с уже введенными данными и сразу сохраняется в kvstore. Стор не валидирует
// шаги сам, это делает экран перед переходом дальше.
type Wizard[S any] struct {
	flow     FlowDefinition
	kv       kvstore.Store
	validate func(S) []validation.FieldError

	// persistMu держится от изменения до записи, чтобы записи шли в порядке изменений
	persistMu sync.Mutex
	mu        sync.Mutex
	state     WizardState[S]
	subs      map[int]func()
	nextSub   int
}

func NewWizard[S any](flow FlowDefinition, kv kvstore.Store, validate func(S) []validation.FieldError) *Wizard[S] {
	w := &Wizard[S]{
		flow:     flow,
		kv:       kv,
		validate: validate,
		subs:     make(map[int]func()),
	}
	w.state = w.initial()
	return w
}

func (w *Wizard[S]) initial() WizardState[S] {
	var steps S
	return WizardState[S]{
		Steps:              steps,
		CurrentStepDisplay: w.flow.FirstStep,
		TotalStepsDisplay:  w.flow.TotalSteps,
	}
}

func (w *Wizard[S]) Flow() FlowDefinition {
	return w.flow
}

func (w *Wizard[S]) State() WizardState[S] {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Wizard[S]) Subscribe(fn func()) func() {
	w.mu.Lock()
	id := w.nextSub
	w.nextSub++
	w.subs[id] = fn
	w.mu.Unlock()
	return func() {
		w.mu.Lock()
		delete(w.subs, id)
		w.mu.Unlock()
	}
}

func (w *Wizard[S]) notify() {
	w.mu.Lock()
	fns := make([]func(), 0, len(w.subs))
	for _, fn := range w.subs {
		fns = append(fns, fn)
	}
	w.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Hydrate восстанавливает черновик из хранилища. Если записи нет или она
// повреждена, стор остается в пустом начальном состоянии
func (w *Wizard[S]) Hydrate(ctx context.Context) {
	w.persistMu.Lock()
	defer w.persistMu.Unlock()

	state := w.initial()
	raw, ok, err := w.kv.Get(ctx, w.flow.StorageKey)
	switch {
	case err != nil:
		log.Printf("ERROR: failed to read draft %s: %v", w.flow.Name, err)
	case !ok:
	default:
		var p persistedWizard[S]
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			log.Printf("ERROR: corrupt draft %s, starting empty: %v", w.flow.Name, err)
		} else {
			state.Steps = p.Steps
			state.CurrentStepDisplay = p.CurrentStepDisplay
			if p.TotalStepsDisplay > 0 {
				state.TotalStepsDisplay = p.TotalStepsDisplay
			}
		}
	}

	w.mu.Lock()
	w.state = state
	w.mu.Unlock()
	w.notify()
}

// mutate изменяет состояние и сохраняет его. fn получает копию шагов
// и не должна изменять общие срезы на месте
func (w *Wizard[S]) mutate(ctx context.Context, fn func(*WizardState[S]) error) error {
	w.persistMu.Lock()
	defer w.persistMu.Unlock()

	w.mu.Lock()
	if w.state.IsSubmitting {
		w.mu.Unlock()
		return ErrSubmitInProgress
	}
	next := w.state
	if err := fn(&next); err != nil {
		w.mu.Unlock()
		return err
	}
	w.state = next
	snapshot := persistedWizard[S]{
		Steps:              next.Steps,
		CurrentStepDisplay: next.CurrentStepDisplay,
		TotalStepsDisplay:  next.TotalStepsDisplay,
	}
	w.mu.Unlock()
	w.notify()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode draft %s: %w", w.flow.Name, err)
	}
	if err := w.kv.Set(ctx, w.flow.StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist draft %s: %w", w.flow.Name, err)
	}
	return nil
}

// Update - произвольное изменение шагов без проверки. Типизированные UpdateStepN
// построены так же, но сливают патч шага
func (w *Wizard[S]) Update(ctx context.Context, fn func(*S)) error {
	return w.mutate(ctx, func(st *WizardState[S]) error {
		fn(&st.Steps)
		return nil
	})
}

// SetCurrentStepDisplay - только для индикатора прогресса, на изменяемые шаги не влияет
func (w *Wizard[S]) SetCurrentStepDisplay(ctx context.Context, n int) error {
	return w.mutate(ctx, func(st *WizardState[S]) error {
		st.CurrentStepDisplay = n
		return nil
	})
}

// SetSubmitting меняет временный флаг отправки, в хранилище он не пишется
func (w *Wizard[S]) SetSubmitting(v bool) {
	w.mu.Lock()
	w.state.IsSubmitting = v
	w.mu.Unlock()
	w.notify()
}

// Reset возвращает начальное состояние и удаляет запись из хранилища,
// иначе после перезапуска вернулся бы старый черновик. Флаг отправки
// не трогается, его снимает Submit
func (w *Wizard[S]) Reset(ctx context.Context) error {
	w.persistMu.Lock()
	defer w.persistMu.Unlock()

	w.mu.Lock()
	submitting := w.state.IsSubmitting
	w.state = w.initial()
	w.state.IsSubmitting = submitting
	w.mu.Unlock()
	w.notify()

	if err := w.kv.Remove(ctx, w.flow.StorageKey); err != nil {
		return fmt.Errorf("failed to clear draft %s: %w", w.flow.Name, err)
	}
	return nil
}

// Submit проверяет все шаги, отправляет черновик и при успехе очищает его.
// На время отправки изменения черновика отклоняются с ErrSubmitInProgress
func (w *Wizard[S]) Submit(ctx context.Context, submit func(context.Context, S) error) error {
	w.mu.Lock()
	if w.state.IsSubmitting {
		w.mu.Unlock()
		return ErrSubmitInProgress
	}
	steps := w.state.Steps
	if w.validate != nil {
		if errs := w.validate(steps); len(errs) > 0 {
			w.mu.Unlock()
			return &ValidationError{Errors: errs}
		}
	}
	w.state.IsSubmitting = true
	w.mu.Unlock()
	w.notify()

	err := submit(ctx, steps)
	if err == nil {
		err = w.Reset(ctx)
	} else {
		err = fmt.Errorf("failed to submit %s: %w", w.flow.Name, err)
	}
	w.SetSubmitting(false)
	return err
}

// mergeStep сливает патч шага в текущие данные шага
func mergeStep[T, P any](dst *T, patch P) error {
	d := Draft[T]{Data: *dst}
	if err := d.Merge(patch); err != nil {
		return err
	}
	*dst = d.Data
	return nil
}
