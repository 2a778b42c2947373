package translation

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/satriahrh/jurubahasa/internal/saga"
)

// EventLogger returns a saga event handler that logs the run lifecycle
func EventLogger(logger *zap.Logger) saga.EventHandler {
	return func(event saga.SagaEvent) {
		handleSagaEvent(logger, event)
	}
}

// handleSagaEvent handles saga events for logging and monitoring
func handleSagaEvent(logger *zap.Logger, event saga.SagaEvent) {
	switch event.Type {
	case saga.EventSagaStarted:
		logger.Info("Run started", zap.String("runID", string(event.SagaID)))
	case saga.EventSagaCompleted:
		logger.Info("Run completed", zap.String("runID", string(event.SagaID)))
	case saga.EventSagaFailed:
		eventData, _ := json.Marshal(event)
		logger.Warn("Run failed", zap.String("runID", string(event.SagaID)), zap.ByteString("event", eventData))
	case saga.EventStepStarted:
		logger.Debug("Step started", zap.String("runID", string(event.SagaID)), zap.String("stepID", string(event.StepID)))
	case saga.EventStepCompleted:
		logger.Debug("Step completed", zap.String("runID", string(event.SagaID)), zap.String("stepID", string(event.StepID)))
	case saga.EventStepFailed:
		logger.Warn("Step failed", zap.String("runID", string(event.SagaID)), zap.String("stepID", string(event.StepID)), zap.Any("error", event.Data))
	case saga.EventStepCompensated:
		logger.Debug("Step compensated", zap.String("runID", string(event.SagaID)), zap.String("stepID", string(event.StepID)))
	default:
		logger.Debug("Saga event", zap.String("type", event.Type), zap.String("runID", string(event.SagaID)))
	}
}
