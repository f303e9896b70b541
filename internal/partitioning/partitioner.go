package partitioning

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"trainyard/internal/config"
	"trainyard/internal/dataset"
	"trainyard/internal/logging"
	"trainyard/internal/queue"
	"trainyard/internal/services"
	"trainyard/internal/stage"
)

// Partitioner scans a class-folder dataset and writes the train, validation,
// and test list files for the run.
type Partitioner struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger
}

// NewPartitioner constructs the partitioning stage handler.
func NewPartitioner(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Partitioner {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = stageLogger.With(logging.String("component", "partitioner"))
	}
	return &Partitioner{cfg: cfg, store: store, logger: stageLogger}
}

func (p *Partitioner) Prepare(ctx context.Context, run *queue.Run) error {
	logger := logging.WithContext(ctx, p.logger)
	run.SetProgress("Partitioning", "Scanning dataset", 0)
	run.ErrorMessage = ""
	logger.Info("starting dataset partitioning",
		logging.String("dataset_dir", strings.TrimSpace(run.DatasetDir)))
	return nil
}

func (p *Partitioner) Execute(ctx context.Context, run *queue.Run) error {
	logger := logging.WithContext(ctx, p.logger)

	if strings.TrimSpace(run.DatasetDir) == "" {
		return services.Wrap(services.ErrValidation, "partitioning", "validate inputs",
			"Run has no dataset directory; re-add the run with a valid path", nil)
	}
	info, err := os.Stat(run.DatasetDir)
	if err != nil || !info.IsDir() {
		return services.Wrap(services.ErrValidation, "partitioning", "validate inputs",
			fmt.Sprintf("Dataset directory %q is not readable", run.DatasetDir), err)
	}

	classes, samples, err := dataset.Scan(run.DatasetDir)
	if err != nil {
		return services.Wrap(services.ErrValidation, "partitioning", "scan dataset",
			"Failed to scan class folders", err)
	}
	if len(classes) == 0 || len(samples) == 0 {
		return services.Wrap(services.ErrValidation, "partitioning", "scan dataset",
			"Dataset contains no class folders with images", nil)
	}
	if err := run.SetClasses(classes); err != nil {
		return services.Wrap(services.ErrTransient, "partitioning", "encode classes",
			"Failed to encode class list", err)
	}
	logger.Info("dataset scanned",
		logging.Int("classes", len(classes)),
		logging.Int("samples", len(samples)))

	run.SetProgress("Partitioning", "Splitting samples", 40)

	partition, err := dataset.Split(samples, run.TrainRatio, run.TestRatio, run.Seed)
	if err != nil {
		return services.Wrap(services.ErrValidation, "partitioning", "split dataset",
			fmt.Sprintf("Invalid split ratios train=%.2f test=%.2f", run.TrainRatio, run.TestRatio), err)
	}

	listDir := filepath.Join(p.cfg.Paths.WorkDir, run.Name, "lists")
	if err := os.MkdirAll(listDir, 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "partitioning", "create list dir",
			"Failed to create list-file directory", err)
	}
	run.ListDir = listDir
	trainPath, validationPath, testPath := run.ListFilePaths()

	run.SetProgress("Partitioning", "Writing list files", 70)
	for _, lf := range []struct {
		path    string
		samples []dataset.Sample
	}{
		{trainPath, partition.Train},
		{validationPath, partition.Validation},
		{testPath, partition.Test},
	} {
		if err := dataset.WriteListFile(lf.path, lf.samples); err != nil {
			return services.Wrap(services.ErrTransient, "partitioning", "write list file",
				fmt.Sprintf("Failed to write %s", filepath.Base(lf.path)), err)
		}
	}

	run.SetProgressComplete("Partitioning",
		fmt.Sprintf("Partitioned %d samples into %d train / %d validation / %d test",
			len(samples), len(partition.Train), len(partition.Validation), len(partition.Test)))
	logger.Info("partitioning complete",
		logging.Int("train", len(partition.Train)),
		logging.Int("validation", len(partition.Validation)),
		logging.Int("test", len(partition.Test)),
		logging.String("list_dir", listDir))
	return nil
}

func (p *Partitioner) HealthCheck(ctx context.Context) stage.Health {
	const name = "partitioner"
	if p.cfg == nil || strings.TrimSpace(p.cfg.Paths.WorkDir) == "" {
		return stage.Unhealthy(name, "working directory not configured")
	}
	if err := os.MkdirAll(p.cfg.Paths.WorkDir, 0o755); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("working directory not writable: %v", err))
	}
	return stage.Healthy(name)
}
