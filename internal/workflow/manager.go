package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"trainyard/internal/config"
	"trainyard/internal/notifications"
	"trainyard/internal/queue"
	"trainyard/internal/stage"
)

// StageSet bundles the concrete workflow handlers the manager orchestrates.
type StageSet struct {
	Partitioner stage.Handler
	Uploader    stage.Handler
	Trainer     stage.Handler
	Deployer    stage.Handler
	Evaluator   stage.Handler
}

type pipelineStage struct {
	name             string
	handler          stage.Handler
	startStatus      queue.Status
	processingStatus queue.Status
	doneStatus       queue.Status
}

// Manager coordinates queue processing using registered stage handlers.
type Manager struct {
	cfg          *config.Config
	store        *queue.Store
	logger       *slog.Logger
	pollInterval time.Duration
	notifier     notifications.Service

	heartbeat *HeartbeatMonitor

	stages       []pipelineStage
	stageByStart map[queue.Status]pipelineStage
	statusOrder  []queue.Status

	mu      sync.RWMutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	lastErr error
	lastRun *queue.Run
}

// NewManager constructs a workflow manager with the default notifier.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger, set StageSet) *Manager {
	return NewManagerWithNotifier(cfg, store, logger, set, notifications.NewService(cfg))
}

// NewManagerWithNotifier constructs a workflow manager with a custom notifier (used in tests).
func NewManagerWithNotifier(cfg *config.Config, store *queue.Store, logger *slog.Logger, set StageSet, notifier notifications.Service) *Manager {
	m := &Manager{
		cfg:          cfg,
		store:        store,
		logger:       logger,
		notifier:     notifier,
		pollInterval: time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
		heartbeat: NewHeartbeatMonitor(
			store,
			logger,
			time.Duration(cfg.Workflow.HeartbeatInterval)*time.Second,
			time.Duration(cfg.Workflow.HeartbeatTimeout)*time.Second,
		),
	}
	m.configureStages(set)
	return m
}

func (m *Manager) configureStages(set StageSet) {
	m.stages = []pipelineStage{
		{name: "partitioning", handler: set.Partitioner, startStatus: queue.StatusPending, processingStatus: queue.StatusPartitioning, doneStatus: queue.StatusPartitioned},
		{name: "uploading", handler: set.Uploader, startStatus: queue.StatusPartitioned, processingStatus: queue.StatusUploading, doneStatus: queue.StatusUploaded},
		{name: "training", handler: set.Trainer, startStatus: queue.StatusUploaded, processingStatus: queue.StatusTraining, doneStatus: queue.StatusTrained},
		{name: "deploying", handler: set.Deployer, startStatus: queue.StatusTrained, processingStatus: queue.StatusDeploying, doneStatus: queue.StatusDeployed},
		{name: "evaluating", handler: set.Evaluator, startStatus: queue.StatusDeployed, processingStatus: queue.StatusEvaluating, doneStatus: queue.StatusCompleted},
	}
	m.stageByStart = make(map[queue.Status]pipelineStage, len(m.stages))
	m.statusOrder = make([]queue.Status, 0, len(m.stages))
	for _, stg := range m.stages {
		m.stageByStart[stg.startStatus] = stg
		m.statusOrder = append(m.statusOrder, stg.startStatus)
	}
}

func (m *Manager) stageForStatus(status queue.Status) (pipelineStage, bool) {
	stg, ok := m.stageByStart[status]
	return stg, ok
}
