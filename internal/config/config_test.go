package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"trainyard/internal/config"
)

func TestLoadDefaultsExpandPathsAndReadEnvCredentials(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("TRAINYARD_ACCESS_KEY", "env-access")
	t.Setenv("TRAINYARD_SECRET_KEY", "env-secret")

	writeConfig(t, tempHome, map[string]any{
		"storage": map[string]any{"bucket": "trainyard-data"},
	})

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected config at default path, got exists=%v path=%q", exists, resolved)
	}

	wantWork := filepath.Join(tempHome, ".local", "share", "trainyard", "work")
	if cfg.Paths.WorkDir != wantWork {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, wantWork)
	}
	if cfg.Storage.AccessKey != "env-access" || cfg.Storage.SecretKey != "env-secret" {
		t.Fatalf("expected credentials from env, got %q/%q", cfg.Storage.AccessKey, cfg.Storage.SecretKey)
	}
	if cfg.Training.NumLayers != 18 {
		t.Fatalf("unexpected default num_layers: %d", cfg.Training.NumLayers)
	}
	if cfg.Dataset.TrainRatio != 0.7 || cfg.Dataset.TestRatio != 0.1 {
		t.Fatalf("unexpected dataset ratios: %v/%v", cfg.Dataset.TrainRatio, cfg.Dataset.TestRatio)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	payload := map[string]any{
		"storage":  map[string]any{"bucket": "other-bucket", "endpoint": "minio.local:9000", "use_ssl": false},
		"training": map[string]any{"epochs": 3, "base_url": "https://train.example.com/"},
		"logging":  map[string]any{"format": "json", "level": "debug"},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatal("expected existing config")
	}
	if cfg.Storage.Bucket != "other-bucket" {
		t.Fatalf("unexpected bucket: %q", cfg.Storage.Bucket)
	}
	if cfg.Training.Epochs != 3 {
		t.Fatalf("unexpected epochs: %d", cfg.Training.Epochs)
	}
	if cfg.Training.BaseURL != "https://train.example.com" {
		t.Fatalf("expected trimmed base url, got %q", cfg.Training.BaseURL)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected format: %q", cfg.Logging.Format)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"missing bucket", func(c *config.Config) { c.Storage.Bucket = "" }, "storage.bucket"},
		{"negative ratio", func(c *config.Config) { c.Dataset.TestRatio = -0.1 }, "negative"},
		{"ratio sum", func(c *config.Config) { c.Dataset.TrainRatio = 0.95; c.Dataset.TestRatio = 0.2 }, "exceed"},
		{"bad shape", func(c *config.Config) { c.Training.ImageShape = "224x224" }, "image_shape"},
		{"bad precision", func(c *config.Config) { c.Training.Precision = "int8" }, "precision"},
		{"bad format", func(c *config.Config) { c.Logging.Format = "yaml" }, "logging.format"},
	}
	for _, tc := range cases {
		cfg := config.Default()
		cfg.Storage.Bucket = "trainyard-data"
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected %q in error %q", tc.name, tc.want, err.Error())
		}
	}
}

func TestCreateSample(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if !strings.Contains(string(data), "[training]") {
		t.Fatal("expected training section in sample")
	}
}

func writeConfig(t *testing.T, home string, payload map[string]any) {
	t.Helper()
	dir := filepath.Join(home, ".config", "trainyard")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
