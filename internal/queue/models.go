package queue

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"
)

// Status represents the lifecycle of a pipeline run.
type Status string

const (
	StatusPending      Status = "pending"
	StatusPartitioning Status = "partitioning"
	StatusPartitioned  Status = "partitioned"
	StatusUploading    Status = "uploading"
	StatusUploaded     Status = "uploaded"
	StatusTraining     Status = "training"
	StatusTrained      Status = "trained"
	StatusDeploying    Status = "deploying"
	StatusDeployed     Status = "deployed"
	StatusEvaluating   Status = "evaluating"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
	StatusReview       Status = "review"
)

// RunnerStopReason is the error message set when runs are failed due to runner shutdown.
const RunnerStopReason = "Runner stopped"

var allStatuses = []Status{
	StatusPending,
	StatusPartitioning,
	StatusPartitioned,
	StatusUploading,
	StatusUploaded,
	StatusTraining,
	StatusTrained,
	StatusDeploying,
	StatusDeployed,
	StatusEvaluating,
	StatusCompleted,
	StatusFailed,
	StatusReview,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusPartitioning: {},
	StatusUploading:    {},
	StatusTraining:     {},
	StatusDeploying:    {},
	StatusEvaluating:   {},
}

type statusTransition struct {
	from Status
	to   Status
}

// stageRollbackTransitions map each in-flight status back to the settled
// status that precedes it, used when reclaiming stuck runs.
var stageRollbackTransitions = []statusTransition{
	{from: StatusPartitioning, to: StatusPending},
	{from: StatusUploading, to: StatusPartitioned},
	{from: StatusTraining, to: StatusUploaded},
	{from: StatusDeploying, to: StatusTrained},
	{from: StatusEvaluating, to: StatusDeployed},
}

// HealthSummary describes aggregated run counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Failed     int
	Review     int
	Completed  int
}

// Run represents a pipeline run persisted in SQLite.
type Run struct {
	ID               int64
	Name             string
	DatasetDir       string
	Status           Status
	ClassesJSON      string
	TrainRatio       float64
	TestRatio        float64
	Seed             uint64
	ListDir          string
	StorageURI       string
	TrainingJobName  string
	ModelArtifactURI string
	EndpointName     string
	EvalSummaryJSON  string
	ErrorMessage     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ProgressStage    string
	ProgressPercent  float64
	ProgressMessage  string
	LastHeartbeat    *time.Time
	NeedsReview      bool
	ReviewReason     string
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight operation.
func (r Run) IsProcessing() bool {
	_, ok := processingStatuses[r.Status]
	return ok
}

// IsProcessingStatus reports whether a status reflects an in-flight operation.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// ProcessingStatuses returns every in-flight status.
func ProcessingStatuses() []Status {
	out := make([]Status, 0, len(processingStatuses))
	for _, status := range allStatuses {
		if _, ok := processingStatuses[status]; ok {
			out = append(out, status)
		}
	}
	return out
}

// Classes decodes the stored class list.
func (r Run) Classes() ([]string, error) {
	if strings.TrimSpace(r.ClassesJSON) == "" {
		return nil, nil
	}
	var classes []string
	if err := json.Unmarshal([]byte(r.ClassesJSON), &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

// SetClasses encodes and stores the class list.
func (r *Run) SetClasses(classes []string) error {
	data, err := json.Marshal(classes)
	if err != nil {
		return err
	}
	r.ClassesJSON = string(data)
	return nil
}

// SetProgress updates all three progress fields atomically.
func (r *Run) SetProgress(stage, message string, percent float64) {
	r.ProgressStage = stage
	r.ProgressMessage = message
	r.ProgressPercent = percent
}

// SetProgressComplete sets progress to 100% with the given stage and message.
func (r *Run) SetProgressComplete(stage, message string) {
	r.SetProgress(stage, message, 100)
}

// SetFailed marks the run as failed with the given error message.
func (r *Run) SetFailed(message string) {
	r.Status = StatusFailed
	r.ErrorMessage = message
	r.ProgressPercent = 0
	r.ProgressMessage = message
	r.LastHeartbeat = nil
	r.ProgressStage = "Failed"
}

// ListFilePaths returns the conventional list-file names under the run's list directory.
func (r Run) ListFilePaths() (train, validation, test string) {
	if r.ListDir == "" {
		return "", "", ""
	}
	return filepath.Join(r.ListDir, "train.lst"),
		filepath.Join(r.ListDir, "validation.lst"),
		filepath.Join(r.ListDir, "test.lst")
}
