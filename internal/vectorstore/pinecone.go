// Package vectorstore provides a minimal REST client to a Pinecone index.
// It assumes cosine distance; raw scores arrive in [-1, 1].
package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/respondo/internal/interfaces"
)

// Client talks to one Pinecone index over its data-plane REST API.
type Client struct {
	indexHost string
	apiKey    string
	client    *http.Client
	logger    arbor.ILogger
}

// Config configures the Pinecone client.
type Config struct {
	IndexHost string // Index endpoint URL
	APIKey    string
	Timeout   time.Duration
}

// Compile-time interface assertion
var _ interfaces.VectorStore = (*Client)(nil)

// New creates a Pinecone client for the configured index.
func New(cfg Config, logger arbor.ILogger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		indexHost: cfg.IndexHost,
		apiKey:    cfg.APIKey,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

type upsertRequest struct {
	Vectors   []vectorPayload `json:"vectors"`
	Namespace string          `json:"namespace"`
}

type vectorPayload struct {
	ID       string                 `json:"id"`
	Values   []float32              `json:"values"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type upsertResponse struct {
	UpsertedCount int `json:"upsertedCount"`
}

// Upsert writes vectors into the given namespace.
func (c *Client) Upsert(ctx context.Context, vectors []interfaces.Vector, namespace string) error {
	payload := upsertRequest{
		Vectors:   make([]vectorPayload, 0, len(vectors)),
		Namespace: namespace,
	}
	for _, v := range vectors {
		payload.Vectors = append(payload.Vectors, vectorPayload{
			ID:       v.ID,
			Values:   v.Values,
			Metadata: v.Metadata,
		})
	}

	var resp upsertResponse
	if err := c.postJSON(ctx, "/vectors/upsert", payload, &resp); err != nil {
		return err
	}

	c.logger.Debug().
		Int("vectors", len(vectors)).
		Int("upserted", resp.UpsertedCount).
		Str("namespace", namespace).
		Msg("Upserted vectors")

	return nil
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	Namespace       string    `json:"namespace"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []struct {
		ID       string                 `json:"id"`
		Score    float64                `json:"score"`
		Metadata map[string]interface{} `json:"metadata"`
	} `json:"matches"`
}

// Query returns up to topK matches ranked by descending similarity.
func (c *Client) Query(ctx context.Context, vector []float32, namespace string, topK int) ([]interfaces.ScoredMatch, error) {
	if topK <= 0 {
		topK = 3
	}

	req := queryRequest{
		Vector:          vector,
		TopK:            topK,
		Namespace:       namespace,
		IncludeMetadata: true,
	}

	var resp queryResponse
	if err := c.postJSON(ctx, "/query", req, &resp); err != nil {
		return nil, err
	}

	matches := make([]interfaces.ScoredMatch, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		matches = append(matches, interfaces.ScoredMatch{
			ID:       m.ID,
			Score:    m.Score,
			Metadata: m.Metadata,
		})
	}
	return matches, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.indexHost+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("vector store request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("vector store POST %s returned %s: %s", path, resp.Status, msg)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
