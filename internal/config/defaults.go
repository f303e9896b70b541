package config

const (
	defaultWorkDir           = "~/.local/share/trainyard/work"
	defaultLogDir            = "~/.local/share/trainyard/logs"
	defaultModelDir          = "~/.local/share/trainyard/models"
	defaultStorageEndpoint   = "s3.amazonaws.com"
	defaultStorageRegion     = "us-east-1"
	defaultStoragePrefix     = "trainyard"
	defaultStorageTimeout    = 60
	defaultAlgorithmImage    = "image-classification:1"
	defaultTrainInstance     = "gpu.small"
	defaultEndpointInstance  = "cpu.medium"
	defaultPollInterval      = 30
	defaultJobTimeout        = 7200
	defaultDeployTimeout     = 900
	defaultPredictTimeout    = 30
	defaultNumLayers         = 18
	defaultImageShape        = "3,224,224"
	defaultBatchSize         = 32
	defaultEpochs            = 10
	defaultLearningRate      = 0.001
	defaultTopK              = 2
	defaultResize            = 256
	defaultPrecision         = "float32"
	defaultTrainRatio        = 0.7
	defaultTestRatio         = 0.1
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultQueuePollInterval = 5
	defaultHeartbeatInterval = 15
	defaultHeartbeatTimeout  = 120
	defaultNotifyTimeout     = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:  defaultWorkDir,
			LogDir:   defaultLogDir,
			ModelDir: defaultModelDir,
		},
		Storage: Storage{
			Endpoint:       defaultStorageEndpoint,
			Region:         defaultStorageRegion,
			Prefix:         defaultStoragePrefix,
			UseSSL:         true,
			RequestTimeout: defaultStorageTimeout,
		},
		Training: Training{
			AlgorithmImage: defaultAlgorithmImage,
			InstanceType:   defaultTrainInstance,
			PollInterval:   defaultPollInterval,
			JobTimeout:     defaultJobTimeout,
			NumLayers:      defaultNumLayers,
			UsePretrained:  true,
			ImageShape:     defaultImageShape,
			BatchSize:      defaultBatchSize,
			Epochs:         defaultEpochs,
			LearningRate:   defaultLearningRate,
			TopK:           defaultTopK,
			Resize:         defaultResize,
			Precision:      defaultPrecision,
		},
		Endpoint: Endpoint{
			InstanceType:   defaultEndpointInstance,
			DeployTimeout:  defaultDeployTimeout,
			RequestTimeout: defaultPredictTimeout,
		},
		Dataset: Dataset{
			TrainRatio: defaultTrainRatio,
			TestRatio:  defaultTestRatio,
			Seed:       1,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Training:       true,
			Evaluation:     true,
			Errors:         true,
		},
		Workflow: Workflow{
			QueuePollInterval: defaultQueuePollInterval,
			HeartbeatInterval: defaultHeartbeatInterval,
			HeartbeatTimeout:  defaultHeartbeatTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
