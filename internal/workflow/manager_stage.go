package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"trainyard/internal/logging"
	"trainyard/internal/queue"
	"trainyard/internal/services"
	"trainyard/internal/stage"
)

func (m *Manager) processRun(ctx context.Context, logger *slog.Logger, run *queue.Run) error {
	stg, ok := m.stageForStatus(run.Status)
	if !ok {
		logger.Warn("no stage configured for status", logging.String("status", string(run.Status)))
		m.waitForRunOrShutdown(ctx)
		return nil
	}

	requestID := uuid.NewString()
	stageCtx := services.WithRequestID(services.WithStage(services.WithRunID(ctx, run.ID), stg.name), requestID)
	stageLogger := logging.WithContext(stageCtx, logger)

	if err := m.transitionToProcessing(stageCtx, stg, run); err != nil {
		stageLogger.Error("failed to transition run to processing", logging.Error(err))
		m.setLastError(err)
		return err
	}

	return m.executeStage(stageCtx, stageLogger, stg, run)
}

func (m *Manager) executeStage(ctx context.Context, stageLogger *slog.Logger, stg pipelineStage, run *queue.Run) error {
	stageStart := time.Now()
	stageLogger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("processing_status", string(stg.processingStatus)),
		logging.String("run_name", strings.TrimSpace(run.Name)),
	)

	handler := stg.handler
	if handler == nil {
		stageLogger.Warn("missing stage handler", logging.String("stage", stg.name))
		run.SetFailed(fmt.Sprintf("stage %s missing handler", stg.name))
		if err := m.store.Update(ctx, run); err != nil {
			stageLogger.Error("failed to persist missing handler failure", logging.Error(err))
		}
		err := errors.New("stage handler unavailable")
		m.setLastError(err)
		return err
	}

	if err := handler.Prepare(ctx, run); err != nil {
		m.handleStageFailure(ctx, stg.name, run, err)
		m.setLastError(err)
		return err
	}
	if err := m.store.Update(ctx, run); err != nil {
		wrapped := fmt.Errorf("persist stage preparation: %w", err)
		stageLogger.Error("failed to persist stage preparation", logging.Error(wrapped))
		m.setLastError(wrapped)
		return wrapped
	}

	execErr := m.executeWithHeartbeat(ctx, handler, run)
	if execErr != nil {
		if errors.Is(execErr, context.Canceled) {
			stageLogger.Debug("stage interrupted by shutdown")
			return execErr
		}
		m.handleStageFailure(ctx, stg.name, run, execErr)
		m.setLastError(execErr)
		return execErr
	}

	if run.Status == stg.processingStatus || run.Status == "" {
		run.Status = stg.doneStatus
	}
	run.LastHeartbeat = nil
	if err := m.store.Update(ctx, run); err != nil {
		wrapped := fmt.Errorf("persist stage result: %w", err)
		stageLogger.Error("failed to persist stage result", logging.Error(wrapped))
		m.setLastError(wrapped)
		return wrapped
	}
	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("next_status", string(run.Status)),
		logging.String("progress_message", strings.TrimSpace(run.ProgressMessage)),
		logging.Duration("stage_duration", time.Since(stageStart)),
	)
	m.setLastRun(run)
	m.notifyStageComplete(ctx, stageLogger, run)
	return nil
}

func (m *Manager) executeWithHeartbeat(ctx context.Context, handler stage.Handler, run *queue.Run) error {
	hbCtx, hbCancel := context.WithCancel(ctx)
	var hbWG sync.WaitGroup
	hbWG.Add(1)
	go m.heartbeat.StartLoop(hbCtx, &hbWG, run.ID)

	execErr := handler.Execute(ctx, run)
	hbCancel()
	hbWG.Wait()
	return execErr
}

func (m *Manager) transitionToProcessing(ctx context.Context, stg pipelineStage, run *queue.Run) error {
	now := time.Now().UTC()
	run.Status = stg.processingStatus
	run.ProgressPercent = 0
	run.ErrorMessage = ""
	run.LastHeartbeat = &now
	if err := m.store.Update(ctx, run); err != nil {
		return fmt.Errorf("persist processing transition: %w", err)
	}
	m.setLastRun(run)
	return nil
}

func (m *Manager) notifyStageComplete(ctx context.Context, logger *slog.Logger, run *queue.Run) {
	if m.notifier == nil {
		return
	}
	switch run.Status {
	case queue.StatusTrained:
		if err := m.notifier.NotifyTrainingCompleted(ctx, run.Name, run.TrainingJobName); err != nil {
			logger.Warn("training notification failed", logging.Error(err))
		}
	case queue.StatusCompleted:
		if err := m.notifier.NotifyEvaluationReady(ctx, run.Name, run.ProgressMessage); err != nil {
			logger.Warn("evaluation notification failed", logging.Error(err))
		}
		if err := m.notifier.NotifyRunCompleted(ctx, run.Name); err != nil {
			logger.Warn("completion notification failed", logging.Error(err))
		}
	}
}
