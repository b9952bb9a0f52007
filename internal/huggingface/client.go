// Package huggingface talks to the Hugging Face Inference API. It provides
// the feature-extraction embedder and the zero-shot intent classifier used
// by the recommendation pipeline.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Config configures a Client.
type Config struct {
	BaseURL           string
	APIKeyEnv         string
	Timeout           time.Duration
	RequestsPerSecond float64
	MaxRetries        int
}

// Client is a thin, rate limited Inference API client.
type Client struct {
	baseURL string
	apiKey  string
	http    *retryablehttp.Client
	limiter *rate.Limiter
}

// NewClient builds a client. The API key is read from cfg.APIKeyEnv.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api-inference.huggingface.co"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.RetryMax = cfg.MaxRetries
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.Logger = nil

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  key,
		http:    rc,
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

type inferenceRequest struct {
	Inputs     any            `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Options    map[string]any `json:"options,omitempty"`
}

// Route prefixes under the Inference API base URL. The pipeline route pins the
// task; sentence-transformers models otherwise default to sentence-similarity.
var (
	modelsRoute            = []string{"models"}
	featureExtractionRoute = []string{"pipeline", "feature-extraction"}
)

// infer posts a request to {base}/{route...}/{model} and decodes the reply into out.
func (c *Client) infer(ctx context.Context, route []string, model string, body inferenceRequest, out any) error {
	if model == "" {
		return errors.New("model is required")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	body.Options = map[string]any{"wait_for_model": true}

	endpoint, err := url.JoinPath(c.baseURL, append(append([]string{}, route...), model)...)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("non-2xx response: %s: %s", resp.Status, string(payload))
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
