package evaluating

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"trainyard/internal/config"
	"trainyard/internal/dataset"
	"trainyard/internal/eval"
	"trainyard/internal/logging"
	"trainyard/internal/queue"
	"trainyard/internal/services"
	"trainyard/internal/services/inference"
	"trainyard/internal/stage"
)

// Predictor is the endpoint surface the evaluator exercises per image.
type Predictor interface {
	PredictFile(ctx context.Context, path string) ([]float64, error)
}

// ClientFactory builds a prediction client for one endpoint and class count.
type ClientFactory func(endpointURL string, numClasses int) (Predictor, error)

// Evaluator runs the held-out test split through the deployed endpoint and
// persists a confusion-matrix summary.
type Evaluator struct {
	cfg       *config.Config
	store     *queue.Store
	newClient ClientFactory
	logger    *slog.Logger
}

// NewEvaluator constructs the evaluating stage handler with live inference clients.
func NewEvaluator(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Evaluator {
	factory := func(endpointURL string, numClasses int) (Predictor, error) {
		return inference.NewClient(endpointURL, numClasses)
	}
	return NewEvaluatorWithFactory(cfg, store, logger, factory)
}

// NewEvaluatorWithFactory allows injecting the client factory (used in tests).
func NewEvaluatorWithFactory(cfg *config.Config, store *queue.Store, logger *slog.Logger, factory ClientFactory) *Evaluator {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = stageLogger.With(logging.String("component", "evaluator"))
	}
	return &Evaluator{cfg: cfg, store: store, newClient: factory, logger: stageLogger}
}

// EndpointURL renders the invocation URL for a named endpoint.
func EndpointURL(cfg config.Endpoint, endpointName string) string {
	return strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/") +
		"/v1/endpoints/" + endpointName + "/invocations"
}

func (e *Evaluator) Prepare(ctx context.Context, run *queue.Run) error {
	logger := logging.WithContext(ctx, e.logger)
	run.SetProgress("Evaluating", "Loading test split", 0)
	run.ErrorMessage = ""
	logger.Info("starting evaluation",
		logging.String("endpoint", strings.TrimSpace(run.EndpointName)))
	return nil
}

func (e *Evaluator) Execute(ctx context.Context, run *queue.Run) error {
	logger := logging.WithContext(ctx, e.logger)

	if strings.TrimSpace(run.EndpointName) == "" {
		return services.Wrap(services.ErrValidation, "evaluating", "validate inputs",
			"Run has no endpoint; run deployment first", nil)
	}
	classes, err := run.Classes()
	if err != nil || len(classes) == 0 {
		return services.Wrap(services.ErrValidation, "evaluating", "validate inputs",
			"Run has no class list; rerun partitioning", err)
	}
	_, _, testPath := run.ListFilePaths()
	samples, err := dataset.ReadListFile(testPath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "evaluating", "read test list",
			"Failed to read test list file", err)
	}
	if len(samples) == 0 {
		return services.Wrap(services.ErrValidation, "evaluating", "validate inputs",
			"Test split is empty; adjust split ratios", nil)
	}

	client, err := e.newClient(EndpointURL(e.cfg.Endpoint, run.EndpointName), len(classes))
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "evaluating", "build client",
			"Failed to build prediction client", err)
	}

	predictions := make([]eval.Prediction, 0, len(samples))
	for i, sample := range samples {
		probs, err := client.PredictFile(ctx, filepath.Join(run.DatasetDir, sample.Path))
		if err != nil {
			return services.Wrap(services.ErrExternalService, "evaluating", "predict",
				fmt.Sprintf("Prediction failed for %s", sample.Path), err)
		}
		predicted := eval.ArgMax(probs)
		predictions = append(predictions, eval.Prediction{
			Predicted:  predicted,
			Actual:     sample.Label,
			Confidence: probs[predicted],
		})
		run.SetProgress("Evaluating",
			fmt.Sprintf("Classified %d/%d test images", i+1, len(samples)),
			float64(i+1)/float64(len(samples))*100)
	}

	summary, err := eval.Evaluate(predictions, classes)
	if err != nil {
		return services.Wrap(services.ErrValidation, "evaluating", "build confusion matrix",
			"Evaluation produced out-of-range labels", err)
	}
	encoded, err := json.Marshal(summary)
	if err != nil {
		return services.Wrap(services.ErrTransient, "evaluating", "encode summary",
			"Failed to encode evaluation summary", err)
	}
	run.EvalSummaryJSON = string(encoded)

	run.SetProgressComplete("Evaluating", eval.RenderSummary(summary))
	logger.Info("evaluation complete",
		logging.Int("samples", summary.Total),
		logging.Int("mismatches", summary.Mismatches),
		logging.Float64("accuracy", summary.Accuracy()))
	return nil
}

func (e *Evaluator) HealthCheck(ctx context.Context) stage.Health {
	const name = "evaluator"
	if e.newClient == nil {
		return stage.Unhealthy(name, "prediction client factory not configured")
	}
	if strings.TrimSpace(e.cfg.Endpoint.BaseURL) == "" {
		return stage.Unhealthy(name, "endpoint base URL not configured")
	}
	return stage.Healthy(name)
}
