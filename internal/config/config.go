package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir  string `toml:"work_dir"`
	LogDir   string `toml:"log_dir"`
	ModelDir string `toml:"model_dir"`
}

// Storage contains configuration for the S3-compatible object store that
// receives dataset uploads and holds training artifacts.
type Storage struct {
	Endpoint       string `toml:"endpoint"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	Bucket         string `toml:"bucket"`
	Prefix         string `toml:"prefix"`
	UseSSL         bool   `toml:"use_ssl"`
	Region         string `toml:"region"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Training contains configuration for the managed training control plane and
// the transfer-learning hyperparameters submitted with each job.
type Training struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	AlgorithmImage string `toml:"algorithm_image"`
	InstanceType   string `toml:"instance_type"`
	PollInterval   int    `toml:"poll_interval"`
	JobTimeout     int    `toml:"job_timeout"`

	NumLayers     int     `toml:"num_layers"`
	UsePretrained bool    `toml:"use_pretrained"`
	ImageShape    string  `toml:"image_shape"`
	BatchSize     int     `toml:"batch_size"`
	Epochs        int     `toml:"epochs"`
	LearningRate  float64 `toml:"learning_rate"`
	TopK          int     `toml:"top_k"`
	Resize        int     `toml:"resize"`
	Precision     string  `toml:"precision"`
}

// Endpoint contains configuration for the hosted inference endpoint.
type Endpoint struct {
	BaseURL        string `toml:"base_url"`
	InstanceType   string `toml:"instance_type"`
	DeployTimeout  int    `toml:"deploy_timeout"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Dataset contains partitioning defaults applied when a run does not override them.
type Dataset struct {
	TrainRatio float64 `toml:"train_ratio"`
	TestRatio  float64 `toml:"test_ratio"`
	Seed       uint64  `toml:"seed"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Training       bool   `toml:"training"`
	Evaluation     bool   `toml:"evaluation"`
	Errors         bool   `toml:"errors"`
}

// Workflow contains configuration for runner timing and intervals.
type Workflow struct {
	QueuePollInterval int `toml:"queue_poll_interval"`
	HeartbeatInterval int `toml:"heartbeat_interval"`
	HeartbeatTimeout  int `toml:"heartbeat_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Trainyard.
//
// Configuration sections by subsystem:
//   - Paths: working, log, and model bundle directories
//   - Storage: S3-compatible object store for datasets and artifacts
//   - Training: managed training control plane plus hyperparameter defaults
//   - Endpoint: hosted inference endpoint settings
//   - Dataset: train/test split ratios and shuffle seed
//   - Notifications: ntfy push notification settings
//   - Workflow: runner polling intervals and heartbeats
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Storage       Storage       `toml:"storage"`
	Training      Training      `toml:"training"`
	Endpoint      Endpoint      `toml:"endpoint"`
	Dataset       Dataset       `toml:"dataset"`
	Notifications Notifications `toml:"notifications"`
	Workflow      Workflow      `toml:"workflow"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/trainyard/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("trainyard.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for runner operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir, c.Paths.ModelDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
