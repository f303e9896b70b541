package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// probabilitySumTolerance bounds how far a returned distribution may drift
// from summing to one before it is rejected as malformed.
const probabilitySumTolerance = 0.01

// ErrEndpointUnavailable reports an endpoint that refused or could not serve
// a prediction request.
var ErrEndpointUnavailable = errors.New("endpoint unavailable")

// ErrMalformedResponse reports a prediction payload that is not a valid
// probability distribution over the expected classes.
var ErrMalformedResponse = errors.New("malformed prediction response")

// Client sends raw image bytes to a hosted endpoint and returns class
// probability distributions.
type Client struct {
	endpointURL string
	numClasses  int
	httpClient  *http.Client
}

// Option customizes the inference client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a prediction client for one endpoint. numClasses is the
// distribution length every response must carry.
func NewClient(endpointURL string, numClasses int, opts ...Option) (*Client, error) {
	endpointURL = strings.TrimSpace(endpointURL)
	if endpointURL == "" {
		return nil, errors.New("inference: endpoint URL required")
	}
	if numClasses <= 0 {
		return nil, fmt.Errorf("inference: class count must be positive, got %d", numClasses)
	}
	client := &Client{
		endpointURL: endpointURL,
		numClasses:  numClasses,
		httpClient:  &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Predict sends one image payload and returns the class probabilities.
func (c *Client) Predict(ctx context.Context, image []byte) ([]float64, error) {
	if len(image) == 0 {
		return nil, errors.New("inference: empty image payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("inference: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-image")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEndpointUnavailable, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("inference: read response: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: http %d: %s", ErrEndpointUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var probs []float64
	if err := json.Unmarshal(body, &probs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := validateDistribution(probs, c.numClasses); err != nil {
		return nil, err
	}
	return probs, nil
}

// PredictFile reads an image from disk and sends it for prediction.
func (c *Client) PredictFile(ctx context.Context, path string) ([]float64, error) {
	image, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("inference: read image %q: %w", path, err)
	}
	return c.Predict(ctx, image)
}

func validateDistribution(probs []float64, numClasses int) error {
	if len(probs) != numClasses {
		return fmt.Errorf("%w: got %d probabilities, want %d", ErrMalformedResponse, len(probs), numClasses)
	}
	sum := 0.0
	for i, p := range probs {
		if p < 0 || p > 1 || math.IsNaN(p) {
			return fmt.Errorf("%w: probability %d out of range: %v", ErrMalformedResponse, i, p)
		}
		sum += p
	}
	if math.Abs(sum-1.0) > probabilitySumTolerance {
		return fmt.Errorf("%w: probabilities sum to %.4f", ErrMalformedResponse, sum)
	}
	return nil
}
