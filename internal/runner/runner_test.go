package runner

import (
	"context"
	"testing"

	"trainyard/internal/logging"
	"trainyard/internal/queue"
	"trainyard/internal/stage"
	"trainyard/internal/testsupport"
	"trainyard/internal/workflow"
)

type healthyHandler struct{}

func (healthyHandler) Prepare(ctx context.Context, run *queue.Run) error { return nil }
func (healthyHandler) Execute(ctx context.Context, run *queue.Run) error { return nil }
func (healthyHandler) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy("idle")
}

func TestRunnerAcquiresAndReleasesLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	set := workflow.StageSet{
		Partitioner: healthyHandler{},
		Uploader:    healthyHandler{},
		Trainer:     healthyHandler{},
		Deployer:    healthyHandler{},
		Evaluator:   healthyHandler{},
	}
	mgr := workflow.NewManagerWithNotifier(cfg, store, logging.NewNop(), set, nil)

	r, err := New(cfg, store, logging.NewNop(), mgr)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	status := r.Status(context.Background())
	if !status.Running {
		t.Fatal("expected running status")
	}
	if status.LockFilePath == "" {
		t.Fatal("expected lock file path")
	}

	r.Stop()
	if r.Status(context.Background()).Running {
		t.Fatal("expected stopped status")
	}

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("restart after stop: %v", err)
	}
	r.Stop()
}
