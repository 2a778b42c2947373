package saga

import (
	"context"
	"time"
)

// SagaState represents the current state of a saga execution
type SagaState string

const (
	SagaStateStarted     SagaState = "started"
	SagaStateRunning     SagaState = "running"
	SagaStateCompleted   SagaState = "completed"
	SagaStateFailed      SagaState = "failed"
	SagaStateCompensated SagaState = "compensated"
)

// StepState represents the state of an individual step
type StepState string

const (
	StepStatePending     StepState = "pending"
	StepStateRunning     StepState = "running"
	StepStateCompleted   StepState = "completed"
	StepStateFailed      StepState = "failed"
	StepStateCompensated StepState = "compensated"
)

// SagaID uniquely identifies a saga instance
type SagaID string

// StepID uniquely identifies a step within a saga
type StepID string

// StepResult represents the result of a step execution
type StepResult struct {
	Success bool
	Data    interface{}
	Error   error
}

// Succeeded is a successful StepResult carrying data
func Succeeded(data interface{}) StepResult {
	return StepResult{Success: true, Data: data}
}

// Failed is a failed StepResult
func Failed(err error) StepResult {
	return StepResult{Error: err}
}

// Step represents a single step in a saga operating on shared state S
type Step[S any] interface {
	ID() StepID
	Execute(ctx context.Context, state S) StepResult
	Compensate(ctx context.Context, state S) error
}

// SagaDefinition defines the steps and flow of a saga.
// A zero Timeout means the saga is not time limited.
type SagaDefinition[S any] interface {
	ID() string
	Steps() []Step[S]
	Timeout() time.Duration
}

// SagaInstance represents the execution of a saga
type SagaInstance struct {
	ID          SagaID          `json:"id"`
	Definition  string          `json:"definition"`
	State       SagaState       `json:"state"`
	Steps       []StepExecution `json:"steps"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Error       string          `json:"error,omitempty"`
	// Err is the error of the failed step, unwrapped for classification
	Err error `json:"-"`
	// FailedStep is the step that stopped the saga
	FailedStep StepID `json:"failed_step,omitempty"`
}

// StepExecution represents the execution state of a step
type StepExecution struct {
	ID          StepID      `json:"id"`
	State       StepState   `json:"state"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	Error       string      `json:"error,omitempty"`
	Result      interface{} `json:"result,omitempty"`
}

// SagaEvent represents an event in the saga lifecycle
type SagaEvent struct {
	SagaID    SagaID      `json:"saga_id"`
	StepID    StepID      `json:"step_id,omitempty"`
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Event types
const (
	EventSagaStarted     = "saga_started"
	EventSagaCompleted   = "saga_completed"
	EventSagaFailed      = "saga_failed"
	EventSagaCompensated = "saga_compensated"
	EventStepStarted     = "step_started"
	EventStepCompleted   = "step_completed"
	EventStepFailed      = "step_failed"
	EventStepCompensated = "step_compensated"
)
