package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStorage()
	c.normalizeTraining()
	c.normalizeEndpoint()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ModelDir) == "" {
		c.Paths.ModelDir = defaultModelDir
	}
	if c.Paths.ModelDir, err = expandPath(c.Paths.ModelDir); err != nil {
		return fmt.Errorf("paths.model_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStorage() {
	c.Storage.Endpoint = strings.TrimSpace(c.Storage.Endpoint)
	c.Storage.Bucket = strings.TrimSpace(c.Storage.Bucket)
	c.Storage.Prefix = strings.Trim(strings.TrimSpace(c.Storage.Prefix), "/")
	c.Storage.Region = strings.TrimSpace(c.Storage.Region)
	if c.Storage.AccessKey == "" {
		c.Storage.AccessKey = strings.TrimSpace(os.Getenv("TRAINYARD_ACCESS_KEY"))
	}
	if c.Storage.SecretKey == "" {
		c.Storage.SecretKey = strings.TrimSpace(os.Getenv("TRAINYARD_SECRET_KEY"))
	}
	if c.Storage.RequestTimeout <= 0 {
		c.Storage.RequestTimeout = defaultStorageTimeout
	}
}

func (c *Config) normalizeTraining() {
	c.Training.BaseURL = strings.TrimRight(strings.TrimSpace(c.Training.BaseURL), "/")
	if c.Training.APIKey == "" {
		c.Training.APIKey = strings.TrimSpace(os.Getenv("TRAINYARD_API_KEY"))
	}
	c.Training.AlgorithmImage = strings.TrimSpace(c.Training.AlgorithmImage)
	c.Training.InstanceType = strings.TrimSpace(c.Training.InstanceType)
	if c.Training.PollInterval <= 0 {
		c.Training.PollInterval = defaultPollInterval
	}
	if c.Training.JobTimeout <= 0 {
		c.Training.JobTimeout = defaultJobTimeout
	}
	c.Training.Precision = strings.ToLower(strings.TrimSpace(c.Training.Precision))
	if c.Training.Precision == "" {
		c.Training.Precision = defaultPrecision
	}
}

func (c *Config) normalizeEndpoint() {
	c.Endpoint.BaseURL = strings.TrimRight(strings.TrimSpace(c.Endpoint.BaseURL), "/")
	c.Endpoint.InstanceType = strings.TrimSpace(c.Endpoint.InstanceType)
	if c.Endpoint.DeployTimeout <= 0 {
		c.Endpoint.DeployTimeout = defaultDeployTimeout
	}
	if c.Endpoint.RequestTimeout <= 0 {
		c.Endpoint.RequestTimeout = defaultPredictTimeout
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.QueuePollInterval <= 0 {
		c.Workflow.QueuePollInterval = defaultQueuePollInterval
	}
	if c.Workflow.HeartbeatInterval <= 0 {
		c.Workflow.HeartbeatInterval = defaultHeartbeatInterval
	}
	if c.Workflow.HeartbeatTimeout <= 0 {
		c.Workflow.HeartbeatTimeout = defaultHeartbeatTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
