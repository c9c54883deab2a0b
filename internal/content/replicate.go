package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultReplicateModelURL is the default prediction endpoint.
const DefaultReplicateModelURL = "https://api.replicate.com/v1/models/anthropic/claude-3.5-sonnet/predictions"

const (
	pollInterval = time.Second
	maxPolls     = 90
)

// ReplicateClient implements Client against Replicate's prediction API:
// create a prediction, then poll its status URL until it settles. The poll
// loop is bounded; a prediction that neither succeeds nor fails within the
// budget is reported as an error.
type ReplicateClient struct {
	modelURL string
	apiKey   string
	client   *http.Client
	interval time.Duration
}

// NewReplicateClient creates a Replicate-backed client. An empty modelURL
// selects DefaultReplicateModelURL.
func NewReplicateClient(modelURL, apiKey string) *ReplicateClient {
	if modelURL == "" {
		modelURL = DefaultReplicateModelURL
	}
	return &ReplicateClient{
		modelURL: modelURL,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
		interval: pollInterval,
	}
}

// predictionResponse is the prediction resource shape shared by the create
// and poll endpoints. Output may be a single string or a list of chunks.
type predictionResponse struct {
	Status string `json:"status"`
	Output any    `json:"output"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

// Generate produces text for a prompt, bounded by maxTokens.
func (c *ReplicateClient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	payload := map[string]any{
		"input": map[string]any{
			"prompt":     prompt,
			"max_tokens": maxTokens,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.modelURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create prediction request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	created, err := c.do(req)
	if err != nil {
		return "", err
	}
	if created.URLs.Get == "" {
		return "", fmt.Errorf("prediction response had no status URL")
	}

	for i := 0; i < maxPolls; i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.interval):
		}

		pollReq, err := http.NewRequestWithContext(ctx, http.MethodGet, created.URLs.Get, nil)
		if err != nil {
			return "", fmt.Errorf("failed to create poll request: %w", err)
		}
		pollReq.Header.Set("Authorization", "Bearer "+c.apiKey)

		result, err := c.do(pollReq)
		if err != nil {
			return "", err
		}

		switch result.Status {
		case "succeeded":
			return joinOutput(result.Output), nil
		case "failed", "canceled":
			return "", fmt.Errorf("prediction %s", result.Status)
		}
	}
	return "", fmt.Errorf("prediction did not settle within %d polls", maxPolls)
}

// Close implements Client. The underlying transport needs no teardown.
func (c *ReplicateClient) Close() error { return nil }

func (c *ReplicateClient) do(req *http.Request) (*predictionResponse, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("prediction endpoint returned status %d", resp.StatusCode)
	}

	var body predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode prediction response: %w", err)
	}
	return &body, nil
}

// joinOutput flattens the prediction output, which may be a plain string or
// a list of string chunks.
func joinOutput(output any) string {
	switch v := output.(type) {
	case string:
		return v
	case []any:
		var sb strings.Builder
		for _, chunk := range v {
			if s, ok := chunk.(string); ok {
				sb.WriteString(s)
			}
		}
		return sb.String()
	default:
		return ""
	}
}
