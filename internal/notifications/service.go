package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trainyard/internal/config"
)

const userAgent = "Trainyard/0.1.0"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	NotifyTrainingCompleted(ctx context.Context, runName, jobName string) error
	NotifyEvaluationReady(ctx context.Context, runName, summary string) error
	NotifyRunCompleted(ctx context.Context, runName string) error
	NotifyRunFailed(ctx context.Context, runName string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:   topic,
		client:     &http.Client{Timeout: timeout},
		training:   cfg.Notifications.Training,
		evaluation: cfg.Notifications.Evaluation,
		errors:     cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint   string
	client     *http.Client
	training   bool
	evaluation bool
	errors     bool
}

func (n *ntfyService) NotifyTrainingCompleted(ctx context.Context, runName, jobName string) error {
	if !n.training {
		return nil
	}
	data := payload{
		title:   "Trainyard - Training Complete",
		message: fmt.Sprintf("Training job %s finished for run %s", strings.TrimSpace(jobName), strings.TrimSpace(runName)),
		tags:    []string{"trainyard", "training", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyEvaluationReady(ctx context.Context, runName, summary string) error {
	if !n.evaluation {
		return nil
	}
	message := fmt.Sprintf("Evaluation ready for run %s", strings.TrimSpace(runName))
	if summary = strings.TrimSpace(summary); summary != "" {
		message = fmt.Sprintf("%s\n%s", message, summary)
	}
	data := payload{
		title:   "Trainyard - Evaluation Ready",
		message: message,
		tags:    []string{"trainyard", "evaluation", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, runName string) error {
	data := payload{
		title:    "Trainyard - Run Complete",
		message:  fmt.Sprintf("Run %s completed", strings.TrimSpace(runName)),
		tags:     []string{"trainyard", "run", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunFailed(ctx context.Context, runName string, err error) error {
	if !n.errors {
		return nil
	}
	detail := "unknown"
	if err != nil {
		detail = strings.TrimSpace(err.Error())
	}
	data := payload{
		title:    "Trainyard - Run Failed",
		message:  fmt.Sprintf("Run %s failed: %s", strings.TrimSpace(runName), detail),
		tags:     []string{"trainyard", "run", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Trainyard - Test",
		message:  "Notification system test",
		tags:     []string{"trainyard", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyTrainingCompleted(context.Context, string, string) error { return nil }
func (noopService) NotifyEvaluationReady(context.Context, string, string) error   { return nil }
func (noopService) NotifyRunCompleted(context.Context, string) error              { return nil }
func (noopService) NotifyRunFailed(context.Context, string, error) error          { return nil }
func (noopService) TestNotification(context.Context) error                        { return nil }
