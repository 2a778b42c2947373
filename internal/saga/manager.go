package saga

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventHandler receives saga lifecycle events on the executing goroutine
type EventHandler func(SagaEvent)

// Manager executes sagas over a shared state of type S and tracks running instances
type Manager[S any] struct {
	logger    *zap.Logger
	instances map[SagaID]*SagaInstance
	handler   EventHandler
	mu        sync.RWMutex
}

// NewManager creates a new saga manager
func NewManager[S any](logger *zap.Logger, handler EventHandler) *Manager[S] {
	return &Manager[S]{
		logger:    logger,
		instances: make(map[SagaID]*SagaInstance),
		handler:   handler,
	}
}

// Execute runs the saga to completion on the calling goroutine and returns
// a snapshot of the finished instance. Steps run in order; on the first
// failure completed steps are compensated in reverse order.
func (m *Manager[S]) Execute(ctx context.Context, def SagaDefinition[S], sagaID SagaID, state S) SagaInstance {
	steps := def.Steps()

	stepExecs := make([]StepExecution, len(steps))
	for i, step := range steps {
		stepExecs[i] = StepExecution{
			ID:    step.ID(),
			State: StepStatePending,
		}
	}

	instance := &SagaInstance{
		ID:         sagaID,
		Definition: def.ID(),
		State:      SagaStateStarted,
		Steps:      stepExecs,
		StartedAt:  time.Now(),
	}

	m.mu.Lock()
	m.instances[sagaID] = instance
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.instances, sagaID)
		m.mu.Unlock()
	}()

	m.emitEvent(SagaEvent{
		SagaID:    sagaID,
		Type:      EventSagaStarted,
		Timestamp: instance.StartedAt,
	})
	m.logger.Debug("Saga started", zap.String("sagaID", string(sagaID)), zap.String("definition", def.ID()))

	m.updateSagaState(sagaID, SagaStateRunning)

	if timeout := def.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	lastCompletedStep := -1
	var failure error
	for i, step := range steps {
		if err := m.executeStep(ctx, sagaID, i, step, state); err != nil {
			m.logger.Warn("Step failed",
				zap.String("sagaID", string(sagaID)),
				zap.String("stepID", string(step.ID())),
				zap.Error(err))

			m.mu.Lock()
			instance.Err = err
			instance.Error = err.Error()
			instance.FailedStep = step.ID()
			m.mu.Unlock()
			failure = err
			break
		}
		lastCompletedStep = i
	}

	if failure != nil {
		m.failSaga(sagaID, failure)
		if lastCompletedStep >= 0 {
			m.compensateSaga(ctx, sagaID, steps, lastCompletedStep, state)
		}
	} else {
		m.completeSaga(sagaID)
	}

	return m.snapshot(instance)
}

// executeStep executes a single step
func (m *Manager[S]) executeStep(ctx context.Context, sagaID SagaID, stepIndex int, step Step[S], state S) error {
	now := time.Now()
	m.updateStep(sagaID, stepIndex, func(exec *StepExecution) {
		exec.State = StepStateRunning
		exec.StartedAt = &now
	})

	m.emitEvent(SagaEvent{
		SagaID:    sagaID,
		StepID:    step.ID(),
		Type:      EventStepStarted,
		Timestamp: now,
	})

	result := step.Execute(ctx, state)
	now = time.Now()

	if result.Success {
		m.updateStep(sagaID, stepIndex, func(exec *StepExecution) {
			exec.State = StepStateCompleted
			exec.CompletedAt = &now
			exec.Result = result.Data
		})

		m.emitEvent(SagaEvent{
			SagaID:    sagaID,
			StepID:    step.ID(),
			Type:      EventStepCompleted,
			Timestamp: now,
			Data:      result.Data,
		})
		return nil
	}

	err := result.Error
	if err == nil {
		err = fmt.Errorf("step %s failed", step.ID())
	}

	m.updateStep(sagaID, stepIndex, func(exec *StepExecution) {
		exec.State = StepStateFailed
		exec.CompletedAt = &now
		exec.Error = err.Error()
	})

	m.emitEvent(SagaEvent{
		SagaID:    sagaID,
		StepID:    step.ID(),
		Type:      EventStepFailed,
		Timestamp: now,
		Data:      err.Error(),
	})

	return err
}

// compensateSaga runs compensation for completed steps in reverse order
func (m *Manager[S]) compensateSaga(ctx context.Context, sagaID SagaID, steps []Step[S], lastCompletedStep int, state S) {
	// compensation must run even when the step failed because ctx was cancelled
	ctx = context.WithoutCancel(ctx)

	var errs []error
	for i := lastCompletedStep; i >= 0; i-- {
		step := steps[i]

		m.logger.Debug("Compensating step",
			zap.String("sagaID", string(sagaID)),
			zap.String("stepID", string(step.ID())))

		if err := step.Compensate(ctx, state); err != nil {
			m.logger.Error("Compensation failed",
				zap.String("sagaID", string(sagaID)),
				zap.String("stepID", string(step.ID())),
				zap.Error(err))
			errs = append(errs, err)
			continue
		}

		m.updateStep(sagaID, i, func(exec *StepExecution) {
			exec.State = StepStateCompensated
		})

		m.emitEvent(SagaEvent{
			SagaID:    sagaID,
			StepID:    step.ID(),
			Type:      EventStepCompensated,
			Timestamp: time.Now(),
		})
	}

	m.updateSagaState(sagaID, SagaStateCompensated)
	m.emitEvent(SagaEvent{
		SagaID:    sagaID,
		Type:      EventSagaCompensated,
		Timestamp: time.Now(),
		Data:      errors.Join(errs...),
	})

	m.logger.Debug("Saga compensated", zap.String("sagaID", string(sagaID)))
}

// failSaga marks a saga as failed
func (m *Manager[S]) failSaga(sagaID SagaID, err error) {
	m.updateSagaState(sagaID, SagaStateFailed)
	now := time.Now()
	m.setSagaCompletionTime(sagaID, now)

	m.emitEvent(SagaEvent{
		SagaID:    sagaID,
		Type:      EventSagaFailed,
		Timestamp: now,
		Data:      err.Error(),
	})
}

// completeSaga marks a saga as completed
func (m *Manager[S]) completeSaga(sagaID SagaID) {
	m.updateSagaState(sagaID, SagaStateCompleted)
	now := time.Now()
	m.setSagaCompletionTime(sagaID, now)

	m.emitEvent(SagaEvent{
		SagaID:    sagaID,
		Type:      EventSagaCompleted,
		Timestamp: now,
	})

	m.logger.Debug("Saga completed", zap.String("sagaID", string(sagaID)))
}

// Helper methods for updating saga state
func (m *Manager[S]) updateSagaState(sagaID SagaID, state SagaState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if instance, exists := m.instances[sagaID]; exists {
		instance.State = state
	}
}

func (m *Manager[S]) updateStep(sagaID SagaID, stepIndex int, update func(*StepExecution)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if instance, exists := m.instances[sagaID]; exists && stepIndex < len(instance.Steps) {
		update(&instance.Steps[stepIndex])
	}
}

func (m *Manager[S]) setSagaCompletionTime(sagaID SagaID, t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if instance, exists := m.instances[sagaID]; exists {
		instance.CompletedAt = &t
	}
}

func (m *Manager[S]) snapshot(instance *SagaInstance) SagaInstance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	copied := *instance
	copied.Steps = append([]StepExecution(nil), instance.Steps...)
	return copied
}

func (m *Manager[S]) emitEvent(event SagaEvent) {
	if m.handler != nil {
		m.handler(event)
	}
}
