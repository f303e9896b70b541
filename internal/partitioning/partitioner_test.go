package partitioning

import (
	"context"
	"errors"
	"os"
	"testing"

	"trainyard/internal/dataset"
	"trainyard/internal/logging"
	"trainyard/internal/services"
	"trainyard/internal/testsupport"
)

func TestPartitionerWritesListFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSplit(0.7, 0.1, 42))
	store := testsupport.MustOpenStore(t, cfg)
	datasetDir := testsupport.WriteDataset(t, map[string]int{
		"gecko":  20,
		"iguana": 20,
	})
	run := testsupport.NewRun(t, store, cfg, "lizards", datasetDir)

	handler := NewPartitioner(cfg, store, logging.NewNop())
	ctx := context.Background()
	if err := handler.Prepare(ctx, run); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := handler.Execute(ctx, run); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	classes, err := run.Classes()
	if err != nil {
		t.Fatalf("Classes: %v", err)
	}
	if len(classes) != 2 || classes[0] != "gecko" || classes[1] != "iguana" {
		t.Fatalf("unexpected classes: %v", classes)
	}

	trainPath, validationPath, testPath := run.ListFilePaths()
	train, err := dataset.ReadListFile(trainPath)
	if err != nil {
		t.Fatalf("read train list: %v", err)
	}
	validation, err := dataset.ReadListFile(validationPath)
	if err != nil {
		t.Fatalf("read validation list: %v", err)
	}
	test, err := dataset.ReadListFile(testPath)
	if err != nil {
		t.Fatalf("read test list: %v", err)
	}
	if len(train) != 28 || len(test) != 4 || len(validation) != 8 {
		t.Fatalf("unexpected split sizes: %d/%d/%d", len(train), len(validation), len(test))
	}
}

func TestPartitionerRejectsMissingDataset(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	run := testsupport.NewRun(t, store, cfg, "lizards", "/nonexistent/dataset")

	handler := NewPartitioner(cfg, store, logging.NewNop())
	err := handler.Execute(context.Background(), run)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPartitionerRejectsEmptyDataset(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	run := testsupport.NewRun(t, store, cfg, "lizards", t.TempDir())

	handler := NewPartitioner(cfg, store, logging.NewNop())
	err := handler.Execute(context.Background(), run)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPartitionerRejectsInvalidRatios(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSplit(0.9, 0.5, 0))
	store := testsupport.MustOpenStore(t, cfg)
	datasetDir := testsupport.WriteDataset(t, map[string]int{"gecko": 10})
	run := testsupport.NewRun(t, store, cfg, "lizards", datasetDir)

	handler := NewPartitioner(cfg, store, logging.NewNop())
	err := handler.Execute(context.Background(), run)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPartitionerHealthCheck(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	handler := NewPartitioner(cfg, nil, logging.NewNop())
	if health := handler.HealthCheck(context.Background()); !health.Ready {
		t.Fatalf("expected healthy, got %q", health.Detail)
	}
	if _, err := os.Stat(cfg.Paths.WorkDir); err != nil {
		t.Fatalf("health check should create work dir: %v", err)
	}
}
