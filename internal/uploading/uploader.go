package uploading

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"trainyard/internal/config"
	"trainyard/internal/logging"
	"trainyard/internal/queue"
	"trainyard/internal/services"
	"trainyard/internal/services/objstore"
	"trainyard/internal/stage"
)

// Store is the object-store surface the uploader exercises.
type Store interface {
	EnsureBucket(ctx context.Context) error
	UploadDir(ctx context.Context, localDir, prefix string) (string, int, error)
	UploadFile(ctx context.Context, localPath, key string) (string, error)
	URI(key string) string
}

// Uploader pushes the dataset tree and list files to object storage.
type Uploader struct {
	cfg    *config.Config
	store  *queue.Store
	client Store
	logger *slog.Logger
}

// NewUploader constructs the uploading stage handler with a live object store client.
func NewUploader(cfg *config.Config, store *queue.Store, logger *slog.Logger) (*Uploader, error) {
	client, err := objstore.NewClient(cfg.Storage)
	if err != nil {
		return nil, err
	}
	return NewUploaderWithClient(cfg, store, logger, client), nil
}

// NewUploaderWithClient allows injecting the object store client (used in tests).
func NewUploaderWithClient(cfg *config.Config, store *queue.Store, logger *slog.Logger, client Store) *Uploader {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = stageLogger.With(logging.String("component", "uploader"))
	}
	return &Uploader{cfg: cfg, store: store, client: client, logger: stageLogger}
}

func (u *Uploader) Prepare(ctx context.Context, run *queue.Run) error {
	logger := logging.WithContext(ctx, u.logger)
	run.SetProgress("Uploading", "Checking object storage", 0)
	run.ErrorMessage = ""
	logger.Info("starting dataset upload",
		logging.String("bucket", u.cfg.Storage.Bucket),
		logging.String("dataset_dir", strings.TrimSpace(run.DatasetDir)))
	return nil
}

func (u *Uploader) Execute(ctx context.Context, run *queue.Run) error {
	logger := logging.WithContext(ctx, u.logger)

	trainPath, validationPath, testPath := run.ListFilePaths()
	if trainPath == "" {
		return services.Wrap(services.ErrValidation, "uploading", "validate inputs",
			"Run has no list files; run partitioning first", nil)
	}
	for _, p := range []string{trainPath, validationPath, testPath} {
		if _, err := os.Stat(p); err != nil {
			return services.Wrap(services.ErrValidation, "uploading", "validate inputs",
				fmt.Sprintf("List file %q missing; rerun partitioning", p), err)
		}
	}

	if err := u.client.EnsureBucket(ctx); err != nil {
		return services.Wrap(services.ErrExternalService, "uploading", "check bucket",
			"Object storage bucket is missing or not accessible", err)
	}

	prefix := path.Join(u.cfg.Storage.Prefix, run.Name)

	run.SetProgress("Uploading", "Uploading images", 10)
	imagesURI, count, err := u.client.UploadDir(ctx, run.DatasetDir, path.Join(prefix, "images"))
	if err != nil {
		return services.Wrap(services.ErrExternalService, "uploading", "upload images",
			"Failed to upload dataset images", err)
	}
	logger.Info("images uploaded", logging.Int("count", count), logging.String("uri", imagesURI))

	run.SetProgress("Uploading", "Uploading list files", 80)
	for _, lf := range []struct {
		local string
		name  string
	}{
		{trainPath, "train.lst"},
		{validationPath, "validation.lst"},
		{testPath, "test.lst"},
	} {
		if _, err := u.client.UploadFile(ctx, lf.local, path.Join(prefix, lf.name)); err != nil {
			return services.Wrap(services.ErrExternalService, "uploading", "upload list file",
				fmt.Sprintf("Failed to upload %s", lf.name), err)
		}
	}

	run.StorageURI = u.client.URI(prefix) + "/"
	run.SetProgressComplete("Uploading", fmt.Sprintf("Uploaded %d images and 3 list files", count))
	logger.Info("upload complete", logging.String("storage_uri", run.StorageURI))
	return nil
}

func (u *Uploader) HealthCheck(ctx context.Context) stage.Health {
	const name = "uploader"
	if u.client == nil {
		return stage.Unhealthy(name, "object store client not configured")
	}
	if err := u.client.EnsureBucket(ctx); err != nil {
		return stage.Unhealthy(name, err.Error())
	}
	return stage.Healthy(name)
}
