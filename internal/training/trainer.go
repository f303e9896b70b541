package training

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"trainyard/internal/config"
	"trainyard/internal/dataset"
	"trainyard/internal/logging"
	"trainyard/internal/queue"
	"trainyard/internal/services"
	"trainyard/internal/services/trainsvc"
	"trainyard/internal/stage"
)

// Service is the control plane surface the trainer exercises.
type Service interface {
	CreateTrainingJob(ctx context.Context, spec trainsvc.JobSpec) (trainsvc.JobStatus, error)
	WaitForTrainingJob(ctx context.Context, name string, pollInterval, deadline time.Duration) (trainsvc.JobStatus, error)
}

// Trainer submits the managed training job and polls it to completion.
type Trainer struct {
	cfg    *config.Config
	store  *queue.Store
	client Service
	logger *slog.Logger
}

// NewTrainer constructs the training stage handler with a live control plane client.
func NewTrainer(cfg *config.Config, store *queue.Store, logger *slog.Logger) (*Trainer, error) {
	client, err := trainsvc.NewClient(cfg.Training.BaseURL, cfg.Training.APIKey)
	if err != nil {
		return nil, err
	}
	return NewTrainerWithClient(cfg, store, logger, client), nil
}

// NewTrainerWithClient allows injecting the control plane client (used in tests).
func NewTrainerWithClient(cfg *config.Config, store *queue.Store, logger *slog.Logger, client Service) *Trainer {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = stageLogger.With(logging.String("component", "trainer"))
	}
	return &Trainer{cfg: cfg, store: store, client: client, logger: stageLogger}
}

func (t *Trainer) Prepare(ctx context.Context, run *queue.Run) error {
	logger := logging.WithContext(ctx, t.logger)
	run.SetProgress("Training", "Building job specification", 0)
	run.ErrorMessage = ""
	logger.Info("starting managed training",
		logging.String("storage_uri", strings.TrimSpace(run.StorageURI)))
	return nil
}

func (t *Trainer) Execute(ctx context.Context, run *queue.Run) error {
	logger := logging.WithContext(ctx, t.logger)

	if strings.TrimSpace(run.StorageURI) == "" {
		return services.Wrap(services.ErrValidation, "training", "validate inputs",
			"Run has no storage URI; run upload first", nil)
	}
	classes, err := run.Classes()
	if err != nil || len(classes) == 0 {
		return services.Wrap(services.ErrValidation, "training", "validate inputs",
			"Run has no class list; rerun partitioning", err)
	}
	trainPath, _, _ := run.ListFilePaths()
	trainSamples, err := dataset.ReadListFile(trainPath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "training", "read train list",
			"Failed to read training list file", err)
	}
	if len(trainSamples) == 0 {
		return services.Wrap(services.ErrValidation, "training", "validate inputs",
			"Training split is empty; adjust split ratios", nil)
	}

	spec := t.buildJobSpec(run, len(classes), len(trainSamples))
	run.TrainingJobName = spec.Name

	run.SetProgress("Training", fmt.Sprintf("Submitting job %s", spec.Name), 5)
	if _, err := t.client.CreateTrainingJob(ctx, spec); err != nil {
		return services.Wrap(services.ErrExternalService, "training", "submit job",
			"Training job submission rejected", err)
	}
	logger.Info("training job submitted",
		logging.String("job_name", spec.Name),
		logging.Int("classes", len(classes)),
		logging.Int("train_samples", len(trainSamples)))

	run.SetProgress("Training", "Waiting for job to complete", 10)
	pollInterval := time.Duration(t.cfg.Training.PollInterval) * time.Second
	deadline := time.Duration(t.cfg.Training.JobTimeout) * time.Second
	status, err := t.client.WaitForTrainingJob(ctx, spec.Name, pollInterval, deadline)
	if err != nil {
		return services.Wrap(services.ErrExternalService, "training", "await job",
			fmt.Sprintf("Training job %s did not complete", spec.Name), err)
	}
	if strings.TrimSpace(status.ArtifactURI) == "" {
		return services.Wrap(services.ErrExternalService, "training", "await job",
			fmt.Sprintf("Training job %s completed without a model artifact", spec.Name), nil)
	}

	run.ModelArtifactURI = status.ArtifactURI
	run.SetProgressComplete("Training", fmt.Sprintf("Job %s completed", spec.Name))
	logger.Info("training complete",
		logging.String("job_name", spec.Name),
		logging.String("artifact_uri", status.ArtifactURI))
	return nil
}

func (t *Trainer) buildJobSpec(run *queue.Run, numClasses, numSamples int) trainsvc.JobSpec {
	tc := t.cfg.Training
	base := strings.TrimSuffix(run.StorageURI, "/")
	return trainsvc.JobSpec{
		Name:           fmt.Sprintf("%s-%s", run.Name, uuid.NewString()[:8]),
		AlgorithmImage: tc.AlgorithmImage,
		InstanceType:   tc.InstanceType,
		Hyperparameters: trainsvc.Hyperparameters{
			NumLayers:     tc.NumLayers,
			UsePretrained: tc.UsePretrained,
			ImageShape:    tc.ImageShape,
			NumClasses:    numClasses,
			NumSamples:    numSamples,
			BatchSize:     tc.BatchSize,
			Epochs:        tc.Epochs,
			LearningRate:  tc.LearningRate,
			TopK:          tc.TopK,
			Resize:        tc.Resize,
			Precision:     tc.Precision,
		},
		Channels: []trainsvc.Channel{
			{Name: "train", URI: base + "/images/"},
			{Name: "validation", URI: base + "/images/"},
			{Name: "train_lst", URI: base + "/train.lst"},
			{Name: "validation_lst", URI: base + "/validation.lst"},
		},
		OutputURI: base + "/output/",
	}
}

func (t *Trainer) HealthCheck(ctx context.Context) stage.Health {
	const name = "trainer"
	if t.client == nil {
		return stage.Unhealthy(name, "control plane client not configured")
	}
	if strings.TrimSpace(t.cfg.Training.AlgorithmImage) == "" {
		return stage.Unhealthy(name, "algorithm image not configured")
	}
	return stage.Healthy(name)
}
