package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateTraining(); err != nil {
		return err
	}
	if err := c.validateDataset(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.Bucket == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/trainyard/config.toml"
		}
		return fmt.Errorf("storage.bucket is required; edit %s (create with 'trainyard config init')", defaultPath)
	}
	if c.Storage.Endpoint == "" {
		return errors.New("storage.endpoint must be set")
	}
	return nil
}

func (c *Config) validateTraining() error {
	if c.Training.AlgorithmImage == "" {
		return errors.New("training.algorithm_image must be set")
	}
	if c.Training.NumLayers <= 0 {
		return errors.New("training.num_layers must be positive")
	}
	if c.Training.BatchSize <= 0 {
		return errors.New("training.batch_size must be positive")
	}
	if c.Training.Epochs <= 0 {
		return errors.New("training.epochs must be positive")
	}
	if c.Training.LearningRate <= 0 {
		return errors.New("training.learning_rate must be positive")
	}
	if parts := strings.Split(c.Training.ImageShape, ","); len(parts) != 3 {
		return fmt.Errorf("training.image_shape must be channels,height,width, got %q", c.Training.ImageShape)
	}
	switch c.Training.Precision {
	case "float32", "float16":
	default:
		return fmt.Errorf("training.precision must be float32 or float16, got %q", c.Training.Precision)
	}
	return nil
}

func (c *Config) validateDataset() error {
	if c.Dataset.TrainRatio < 0 || c.Dataset.TestRatio < 0 {
		return errors.New("dataset ratios must not be negative")
	}
	if c.Dataset.TrainRatio+c.Dataset.TestRatio > 1 {
		return errors.New("dataset.train_ratio + dataset.test_ratio must not exceed 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
