package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"trainyard/internal/config"
	"trainyard/internal/logging"
	"trainyard/internal/queue"
	"trainyard/internal/workflow"
)

// Runner coordinates the pipeline workflow and enforces single-instance execution.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *queue.Store
	workflow *workflow.Manager

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents runner runtime information.
type Status struct {
	Running      bool
	Workflow     workflow.StatusSummary
	QueueDBPath  string
	LockFilePath string
}

// New constructs a runner with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, wf *workflow.Manager) (*Runner, error) {
	if cfg == nil || store == nil || logger == nil || wf == nil {
		return nil, errors.New("runner requires config, store, logger, and workflow manager")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "trainyard.lock")
	return &Runner{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		workflow: wf,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start launches the workflow manager and acquires the runner lock.
func (r *Runner) Start(ctx context.Context) error {
	if r.running.Load() {
		return errors.New("runner already running")
	}

	ok, err := r.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another trainyard runner instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := r.workflow.Start(runCtx); err != nil {
		_ = r.lock.Unlock()
		cancel()
		return fmt.Errorf("start workflow: %w", err)
	}
	r.cancel = cancel

	r.running.Store(true)
	r.logger.Info("trainyard runner started", logging.String("lock", r.lockPath))
	return nil
}

// Stop stops background processing and releases the runner lock.
func (r *Runner) Stop() {
	if !r.running.Load() {
		return
	}

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.workflow.Stop()
	if err := r.lock.Unlock(); err != nil {
		r.logger.Warn("failed to release runner lock", logging.Error(err))
	}
	r.running.Store(false)
	r.logger.Info("trainyard runner stopped")
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	r.Stop()
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}

// Status reports the runner and workflow state.
func (r *Runner) Status(ctx context.Context) Status {
	return Status{
		Running:      r.running.Load(),
		Workflow:     r.workflow.Status(ctx),
		QueueDBPath:  r.store.Path(),
		LockFilePath: r.lockPath,
	}
}
