package testsupport

import (
	"context"
	"testing"

	"trainyard/internal/config"
	"trainyard/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewRun creates a run for tests using the provided store and the config's
// default split parameters.
func NewRun(t testing.TB, store *queue.Store, cfg *config.Config, name, datasetDir string) *queue.Run {
	t.Helper()

	run, err := store.NewRun(context.Background(), name, datasetDir,
		cfg.Dataset.TrainRatio, cfg.Dataset.TestRatio, cfg.Dataset.Seed)
	if err != nil {
		t.Fatalf("store.NewRun: %v", err)
	}
	return run
}
