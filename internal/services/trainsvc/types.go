package trainsvc

// Hyperparameters configure the managed transfer-learning algorithm. Values
// mirror the knobs the pre-built image-classification container accepts.
type Hyperparameters struct {
	NumLayers     int     `json:"num_layers"`
	UsePretrained bool    `json:"use_pretrained_model"`
	ImageShape    string  `json:"image_shape"`
	NumClasses    int     `json:"num_classes"`
	NumSamples    int     `json:"num_training_samples"`
	BatchSize     int     `json:"mini_batch_size"`
	Epochs        int     `json:"epochs"`
	LearningRate  float64 `json:"learning_rate"`
	TopK          int     `json:"top_k"`
	Resize        int     `json:"resize"`
	Precision     string  `json:"precision_dtype"`
}

// Channel names a training input data source and where it lives.
type Channel struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// JobSpec describes one managed training job submission.
type JobSpec struct {
	Name            string          `json:"name"`
	AlgorithmImage  string          `json:"algorithm_image"`
	InstanceType    string          `json:"instance_type"`
	Hyperparameters Hyperparameters `json:"hyperparameters"`
	Channels        []Channel       `json:"channels"`
	OutputURI       string          `json:"output_uri"`
}

// JobState is the lifecycle state the control plane reports for a job.
type JobState string

const (
	JobInProgress JobState = "InProgress"
	JobCompleted  JobState = "Completed"
	JobFailed     JobState = "Failed"
)

// JobStatus is the control plane's answer to a describe call.
type JobStatus struct {
	Name          string   `json:"name"`
	State         JobState `json:"state"`
	FailureReason string   `json:"failure_reason,omitempty"`
	ArtifactURI   string   `json:"artifact_uri,omitempty"`
}

// EndpointSpec describes a hosted inference endpoint backed by a model artifact.
type EndpointSpec struct {
	Name         string `json:"name"`
	ModelURI     string `json:"model_uri"`
	InstanceType string `json:"instance_type"`
}

// EndpointState is the lifecycle state of a hosted endpoint.
type EndpointState string

const (
	EndpointCreating  EndpointState = "Creating"
	EndpointInService EndpointState = "InService"
	EndpointFailed    EndpointState = "Failed"
)

// EndpointStatus is the control plane's answer to an endpoint describe call.
type EndpointStatus struct {
	Name          string        `json:"name"`
	State         EndpointState `json:"state"`
	FailureReason string        `json:"failure_reason,omitempty"`
	URL           string        `json:"url,omitempty"`
}
