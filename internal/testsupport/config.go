package testsupport

import (
	"path/filepath"
	"testing"

	"trainyard/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ModelDir = filepath.Join(base, "models")
	cfg.Storage.Endpoint = "storage.test:9000"
	cfg.Storage.Bucket = "trainyard-test"
	cfg.Storage.AccessKey = "test"
	cfg.Storage.SecretKey = "test"
	cfg.Training.BaseURL = "http://training.test"
	cfg.Training.APIKey = "test"
	cfg.Endpoint.BaseURL = "http://endpoints.test"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSplit overrides the default split ratios and seed.
func WithSplit(trainRatio, testRatio float64, seed uint64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Dataset.TrainRatio = trainRatio
		cfg.Dataset.TestRatio = testRatio
		cfg.Dataset.Seed = seed
	}
}

// WithNtfyTopic points notifications at the given topic URL.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
		cfg.Notifications.Training = true
		cfg.Notifications.Evaluation = true
		cfg.Notifications.Errors = true
	}
}
