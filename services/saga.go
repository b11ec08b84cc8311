package services

import (
	"context"
	"fmt"
	"log"
)

// SagaStep - шаг саги и его компенсация
type SagaStep struct {
	Name       string
	Execute    func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga выполняет шаги по порядку. Если шаг падает, компенсации
// уже выполненных шагов запускаются в обратном порядке
type Saga struct {
	ID    string
	Name  string
	Steps []*SagaStep
}

func NewSaga(name, id string) *Saga {
	return &Saga{ID: id, Name: name}
}

// AddStep добавляет шаг в SAGA
func (saga *Saga) AddStep(name string, execute func(ctx context.Context) error, compensate func(ctx context.Context) error) *Saga {
	saga.Steps = append(saga.Steps, &SagaStep{
		Name:       name,
		Execute:    execute,
		Compensate: compensate,
	})
	return saga
}

func (saga *Saga) Execute(ctx context.Context) error {
	executed := make([]*SagaStep, 0, len(saga.Steps))

	for _, step := range saga.Steps {
		if err := step.Execute(ctx); err != nil {
			log.Printf("ERROR: SAGA %s: step %s failed: %v", saga.ID, step.Name, err)
			saga.compensate(executed)
			return fmt.Errorf("saga %s failed at %s: %w", saga.Name, step.Name, err)
		}
		executed = append(executed, step)
	}

	log.Printf("DEBUG: SAGA %s completed successfully", saga.ID)
	return nil
}

func (saga *Saga) compensate(executed []*SagaStep) {
	// компенсации выполняются даже если контекст запроса уже отменен
	ctx := context.Background()
	for i := len(executed) - 1; i >= 0; i-- {
		step := executed[i]
		if step.Compensate == nil {
			continue
		}
		sagaCompensationsTotal.WithLabelValues(saga.Name, step.Name).Inc()
		if err := step.Compensate(ctx); err != nil {
			log.Printf("ERROR: SAGA %s: compensation for %s failed: %v", saga.ID, step.Name, err)
		} else {
			log.Printf("DEBUG: SAGA %s: compensation for %s completed", saga.ID, step.Name)
		}
	}
}
