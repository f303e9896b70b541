package queue_test

import (
	"path/filepath"
	"testing"
	"time"

	"trainyard/internal/queue"
)

func openStore(t *testing.T) *queue.Store {
	t.Helper()
	store, err := queue.OpenPath(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("OpenPath returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewRunAndGet(t *testing.T) {
	store := openStore(t)
	ctx := t.Context()

	run, err := store.NewRun(ctx, "lizards", "/data/lizards", 0.7, 0.1, 42)
	if err != nil {
		t.Fatalf("NewRun returned error: %v", err)
	}
	if run.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if run.Status != queue.StatusPending {
		t.Fatalf("status: got %s want pending", run.Status)
	}
	if run.TrainRatio != 0.7 || run.TestRatio != 0.1 || run.Seed != 42 {
		t.Fatalf("unexpected split config: %+v", run)
	}

	fetched, err := store.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if fetched == nil || fetched.Name != "lizards" {
		t.Fatalf("unexpected fetched run: %+v", fetched)
	}
}

func TestUpdatePersistsPipelineFields(t *testing.T) {
	store := openStore(t)
	ctx := t.Context()

	run, err := store.NewRun(ctx, "lizards", "/data/lizards", 0.7, 0.1, 1)
	if err != nil {
		t.Fatalf("NewRun returned error: %v", err)
	}

	run.Status = queue.StatusTrained
	run.TrainingJobName = "trainyard-lizards-abc123"
	run.ModelArtifactURI = "s3://bucket/output/model.tar.gz"
	if err := run.SetClasses([]string{"gecko", "iguana"}); err != nil {
		t.Fatalf("SetClasses returned error: %v", err)
	}
	run.SetProgressComplete("Training", "Job completed")

	if err := store.Update(ctx, run); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	fetched, err := store.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if fetched.Status != queue.StatusTrained {
		t.Fatalf("status: got %s", fetched.Status)
	}
	if fetched.ModelArtifactURI != "s3://bucket/output/model.tar.gz" {
		t.Fatalf("artifact uri: got %q", fetched.ModelArtifactURI)
	}
	classes, err := fetched.Classes()
	if err != nil {
		t.Fatalf("Classes returned error: %v", err)
	}
	if len(classes) != 2 || classes[0] != "gecko" {
		t.Fatalf("unexpected classes: %v", classes)
	}
	if fetched.ProgressPercent != 100 {
		t.Fatalf("progress: got %v", fetched.ProgressPercent)
	}
}

func TestNextForStatusesReturnsOldest(t *testing.T) {
	store := openStore(t)
	ctx := t.Context()

	first, err := store.NewRun(ctx, "first", "/data/a", 0.7, 0.1, 1)
	if err != nil {
		t.Fatalf("NewRun returned error: %v", err)
	}
	if _, err := store.NewRun(ctx, "second", "/data/b", 0.7, 0.1, 1); err != nil {
		t.Fatalf("NewRun returned error: %v", err)
	}

	next, err := store.NextForStatuses(ctx, queue.StatusPending)
	if err != nil {
		t.Fatalf("NextForStatuses returned error: %v", err)
	}
	if next == nil || next.ID != first.ID {
		t.Fatalf("expected oldest pending run, got %+v", next)
	}

	none, err := store.NextForStatuses(ctx, queue.StatusTraining)
	if err != nil {
		t.Fatalf("NextForStatuses returned error: %v", err)
	}
	if none != nil {
		t.Fatalf("expected no training runs, got %+v", none)
	}
}

func TestReclaimStaleProcessingRollsBackOneStage(t *testing.T) {
	store := openStore(t)
	ctx := t.Context()

	run, err := store.NewRun(ctx, "stuck", "/data/c", 0.7, 0.1, 1)
	if err != nil {
		t.Fatalf("NewRun returned error: %v", err)
	}
	run.Status = queue.StatusTraining
	stale := time.Now().UTC().Add(-time.Hour)
	run.LastHeartbeat = &stale
	if err := store.Update(ctx, run); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	reclaimed, err := store.ReclaimStaleProcessing(ctx, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("ReclaimStaleProcessing returned error: %v", err)
	}
	if reclaimed != 1 {
		t.Fatalf("reclaimed: got %d want 1", reclaimed)
	}

	fetched, err := store.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if fetched.Status != queue.StatusUploaded {
		t.Fatalf("expected rollback to uploaded, got %s", fetched.Status)
	}
	if fetched.LastHeartbeat != nil {
		t.Fatal("expected cleared heartbeat")
	}
}

func TestRetryFailedAndStats(t *testing.T) {
	store := openStore(t)
	ctx := t.Context()

	run, err := store.NewRun(ctx, "failing", "/data/d", 0.7, 0.1, 1)
	if err != nil {
		t.Fatalf("NewRun returned error: %v", err)
	}
	run.SetFailed("remote job failed")
	if err := store.Update(ctx, run); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats[queue.StatusFailed] != 1 {
		t.Fatalf("stats: %v", stats)
	}

	retried, err := store.RetryFailed(ctx)
	if err != nil {
		t.Fatalf("RetryFailed returned error: %v", err)
	}
	if retried != 1 {
		t.Fatalf("retried: got %d want 1", retried)
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health returned error: %v", err)
	}
	if health.Pending != 1 || health.Failed != 0 || health.Total != 1 {
		t.Fatalf("unexpected health: %+v", health)
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := queue.ParseStatus("  Training "); !ok || status != queue.StatusTraining {
		t.Fatalf("ParseStatus: got %q %v", status, ok)
	}
	if _, ok := queue.ParseStatus("nonsense"); ok {
		t.Fatal("expected unknown status to fail")
	}
}

func TestRemoveAndClear(t *testing.T) {
	store := openStore(t)
	ctx := t.Context()

	run, err := store.NewRun(ctx, "gone", "/data/e", 0.7, 0.1, 1)
	if err != nil {
		t.Fatalf("NewRun returned error: %v", err)
	}
	removed, err := store.Remove(ctx, run.ID)
	if err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if !removed {
		t.Fatal("expected removal")
	}
	removed, err = store.Remove(ctx, run.ID)
	if err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if removed {
		t.Fatal("expected no-op removal")
	}
}
