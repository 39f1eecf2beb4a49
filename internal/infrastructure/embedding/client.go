package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"NewsIntel/internal/config"
	"NewsIntel/internal/ports"
)

// Client talks to the embedding provider over HTTP.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	http     *http.Client
}

var _ ports.Embedder = (*Client)(nil)

// NewClient creates a reusable HTTP client.
func NewClient(cfg config.EmbeddingsConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Embed returns the fingerprint vector for one text span.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	payload := map[string]any{
		"model": c.model,
		"input": text,
	}

	var resp struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := c.post(ctx, "/embed", payload, &resp); err != nil {
		return nil, err
	}
	return resp.Embedding, nil
}

// EmbedBatch embeds many spans in one request; the provider returns vectors
// positionally.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	payload := map[string]any{
		"model": c.model,
		"input": texts,
	}

	var resp struct {
		Embeddings [][]float64 `json:"embeddings"`
	}
	if err := c.post(ctx, "/embed/batch", payload, &resp); err != nil {
		return nil, err
	}
	return resp.Embeddings, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
