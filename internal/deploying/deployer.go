package deploying

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trainyard/internal/config"
	"trainyard/internal/logging"
	"trainyard/internal/queue"
	"trainyard/internal/services"
	"trainyard/internal/services/trainsvc"
	"trainyard/internal/stage"
)

// Service is the control plane surface the deployer exercises.
type Service interface {
	CreateEndpoint(ctx context.Context, spec trainsvc.EndpointSpec) (trainsvc.EndpointStatus, error)
	WaitForEndpoint(ctx context.Context, name string, pollInterval, deadline time.Duration) (trainsvc.EndpointStatus, error)
}

// Deployer provisions a hosted inference endpoint from the trained model.
type Deployer struct {
	cfg    *config.Config
	store  *queue.Store
	client Service
	logger *slog.Logger
}

// NewDeployer constructs the deploying stage handler with a live control plane client.
func NewDeployer(cfg *config.Config, store *queue.Store, logger *slog.Logger) (*Deployer, error) {
	client, err := trainsvc.NewClient(cfg.Training.BaseURL, cfg.Training.APIKey)
	if err != nil {
		return nil, err
	}
	return NewDeployerWithClient(cfg, store, logger, client), nil
}

// NewDeployerWithClient allows injecting the control plane client (used in tests).
func NewDeployerWithClient(cfg *config.Config, store *queue.Store, logger *slog.Logger, client Service) *Deployer {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = stageLogger.With(logging.String("component", "deployer"))
	}
	return &Deployer{cfg: cfg, store: store, client: client, logger: stageLogger}
}

func (d *Deployer) Prepare(ctx context.Context, run *queue.Run) error {
	logger := logging.WithContext(ctx, d.logger)
	run.SetProgress("Deploying", "Creating endpoint", 0)
	run.ErrorMessage = ""
	logger.Info("starting endpoint deployment",
		logging.String("artifact_uri", strings.TrimSpace(run.ModelArtifactURI)))
	return nil
}

func (d *Deployer) Execute(ctx context.Context, run *queue.Run) error {
	logger := logging.WithContext(ctx, d.logger)

	if strings.TrimSpace(run.ModelArtifactURI) == "" {
		return services.Wrap(services.ErrValidation, "deploying", "validate inputs",
			"Run has no model artifact; run training first", nil)
	}

	spec := trainsvc.EndpointSpec{
		Name:         run.Name,
		ModelURI:     run.ModelArtifactURI,
		InstanceType: d.cfg.Endpoint.InstanceType,
	}
	if _, err := d.client.CreateEndpoint(ctx, spec); err != nil {
		return services.Wrap(services.ErrExternalService, "deploying", "create endpoint",
			"Endpoint creation rejected", err)
	}
	run.EndpointName = spec.Name
	logger.Info("endpoint creation requested", logging.String("endpoint", spec.Name))

	run.SetProgress("Deploying", "Waiting for endpoint to come in service", 20)
	pollInterval := time.Duration(d.cfg.Training.PollInterval) * time.Second
	deadline := time.Duration(d.cfg.Endpoint.DeployTimeout) * time.Second
	status, err := d.client.WaitForEndpoint(ctx, spec.Name, pollInterval, deadline)
	if err != nil {
		return services.Wrap(services.ErrExternalService, "deploying", "await endpoint",
			fmt.Sprintf("Endpoint %s did not come in service", spec.Name), err)
	}

	run.SetProgressComplete("Deploying", fmt.Sprintf("Endpoint %s in service", spec.Name))
	logger.Info("endpoint in service",
		logging.String("endpoint", spec.Name),
		logging.String("url", status.URL))
	return nil
}

func (d *Deployer) HealthCheck(ctx context.Context) stage.Health {
	const name = "deployer"
	if d.client == nil {
		return stage.Unhealthy(name, "control plane client not configured")
	}
	if strings.TrimSpace(d.cfg.Endpoint.InstanceType) == "" {
		return stage.Unhealthy(name, "endpoint instance type not configured")
	}
	return stage.Healthy(name)
}
