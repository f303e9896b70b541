package trainsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultHTTPTimeout = 30 * time.Second

// ErrJobFailed reports a training job or endpoint that the control plane
// marked failed, or one that exceeded its polling deadline.
var ErrJobFailed = errors.New("remote job failed")

// Client wraps the managed training control plane API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option customizes the control plane client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a control plane client.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("trainsvc: base URL required")
	}
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// CreateTrainingJob submits a job specification and returns the accepted status.
func (c *Client) CreateTrainingJob(ctx context.Context, spec JobSpec) (JobStatus, error) {
	var status JobStatus
	if strings.TrimSpace(spec.Name) == "" {
		return status, errors.New("trainsvc: job name required")
	}
	if len(spec.Channels) == 0 {
		return status, errors.New("trainsvc: at least one data channel required")
	}
	if err := c.post(ctx, "/v1/training-jobs", spec, &status); err != nil {
		return status, fmt.Errorf("trainsvc: create job %q: %w", spec.Name, err)
	}
	return status, nil
}

// DescribeTrainingJob fetches the current state of a job.
func (c *Client) DescribeTrainingJob(ctx context.Context, name string) (JobStatus, error) {
	var status JobStatus
	if err := c.get(ctx, "/v1/training-jobs/"+url.PathEscape(name), &status); err != nil {
		return status, fmt.Errorf("trainsvc: describe job %q: %w", name, err)
	}
	return status, nil
}

// WaitForTrainingJob polls the job until it completes, fails, or the deadline
// passes. The loop is bounded: deadline expiry is an error, never an open wait.
func (c *Client) WaitForTrainingJob(ctx context.Context, name string, pollInterval, deadline time.Duration) (JobStatus, error) {
	waitCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		status, err := c.DescribeTrainingJob(waitCtx, name)
		if err != nil {
			if waitCtx.Err() != nil {
				return status, fmt.Errorf("%w: job %q did not finish within %s", ErrJobFailed, name, deadline)
			}
			return status, err
		}
		switch status.State {
		case JobCompleted:
			return status, nil
		case JobFailed:
			reason := status.FailureReason
			if reason == "" {
				reason = "no failure reason reported"
			}
			return status, fmt.Errorf("%w: job %q: %s", ErrJobFailed, name, reason)
		}

		select {
		case <-waitCtx.Done():
			return status, fmt.Errorf("%w: job %q did not finish within %s", ErrJobFailed, name, deadline)
		case <-ticker.C:
		}
	}
}

// CreateEndpoint provisions a hosted endpoint serving a model artifact.
func (c *Client) CreateEndpoint(ctx context.Context, spec EndpointSpec) (EndpointStatus, error) {
	var status EndpointStatus
	if strings.TrimSpace(spec.Name) == "" {
		return status, errors.New("trainsvc: endpoint name required")
	}
	if strings.TrimSpace(spec.ModelURI) == "" {
		return status, errors.New("trainsvc: model URI required")
	}
	if err := c.post(ctx, "/v1/endpoints", spec, &status); err != nil {
		return status, fmt.Errorf("trainsvc: create endpoint %q: %w", spec.Name, err)
	}
	return status, nil
}

// DescribeEndpoint fetches the current state of a hosted endpoint.
func (c *Client) DescribeEndpoint(ctx context.Context, name string) (EndpointStatus, error) {
	var status EndpointStatus
	if err := c.get(ctx, "/v1/endpoints/"+url.PathEscape(name), &status); err != nil {
		return status, fmt.Errorf("trainsvc: describe endpoint %q: %w", name, err)
	}
	return status, nil
}

// WaitForEndpoint polls an endpoint until it is in service, fails, or the
// deadline passes.
func (c *Client) WaitForEndpoint(ctx context.Context, name string, pollInterval, deadline time.Duration) (EndpointStatus, error) {
	waitCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		status, err := c.DescribeEndpoint(waitCtx, name)
		if err != nil {
			if waitCtx.Err() != nil {
				return status, fmt.Errorf("%w: endpoint %q not in service within %s", ErrJobFailed, name, deadline)
			}
			return status, err
		}
		switch status.State {
		case EndpointInService:
			return status, nil
		case EndpointFailed:
			reason := status.FailureReason
			if reason == "" {
				reason = "no failure reason reported"
			}
			return status, fmt.Errorf("%w: endpoint %q: %s", ErrJobFailed, name, reason)
		}

		select {
		case <-waitCtx.Done():
			return status, fmt.Errorf("%w: endpoint %q not in service within %s", ErrJobFailed, name, deadline)
		case <-ticker.C:
		}
	}
}

// DeleteEndpoint tears down a hosted endpoint.
func (c *Client) DeleteEndpoint(ctx context.Context, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/v1/endpoints/"+url.PathEscape(name), nil)
	if err != nil {
		return fmt.Errorf("trainsvc: delete endpoint %q: %w", name, err)
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("trainsvc: delete endpoint %q: %w", name, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
