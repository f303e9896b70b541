package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trainyard/internal/logging"
	"trainyard/internal/queue"
	"trainyard/internal/services"
)

func (m *Manager) handleStageFailure(ctx context.Context, stageName string, run *queue.Run, stageErr error) {
	base := m.logger
	if base == nil {
		base = logging.NewNop()
	}
	logger := logging.WithContext(ctx, base).With(logging.String(logging.FieldComponent, "workflow-manager"))

	message := m.classifyStageFailure(stageName, stageErr)
	resolved := services.FailureStatus(stageErr)
	if resolved == queue.StatusReview {
		run.Status = queue.StatusReview
		run.NeedsReview = true
		run.ReviewReason = message
		run.ErrorMessage = message
		run.ProgressMessage = message
		run.LastHeartbeat = nil
	} else {
		run.SetFailed(message)
	}

	logger.Error("stage failed",
		logging.Error(stageErr),
		logging.String("resolved_status", string(resolved)),
		logging.String("error_message", strings.TrimSpace(message)),
		logging.String(logging.FieldEventType, "stage_failure"),
	)

	if err := m.store.Update(ctx, run); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("runner shutting down, could not update stage failure")
		} else {
			logger.Error("failed to persist stage failure", logging.Error(err))
		}
	}

	m.setLastRun(run)
	if m.notifier != nil && resolved == queue.StatusFailed {
		if err := m.notifier.NotifyRunFailed(ctx, run.Name, stageErr); err != nil {
			logger.Warn("failure notification failed", logging.Error(err))
		}
	}
}

func (m *Manager) classifyStageFailure(stageName string, stageErr error) string {
	if stageErr == nil {
		return fmt.Sprintf("%s failed without error detail", stageName)
	}
	message := strings.TrimSpace(stageErr.Error())
	if message == "" {
		message = fmt.Sprintf("%s failed", stageName)
	}
	return message
}
