// Package embeddings generates vector embeddings through an OpenAI-compatible
// provider API.
package embeddings

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/respondo/internal/common"
	"github.com/ternarybob/respondo/internal/interfaces"
)

// Service implements EmbeddingService using the OpenAI embeddings endpoint.
type Service struct {
	client *openai.Client
	model  string
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.EmbeddingService = (*Service)(nil)

// NewService creates an embedding service from configuration.
func NewService(cfg *common.EmbeddingConfig, logger arbor.ILogger) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("embedding API key is required (set RESPONDO_EMBEDDING_API_KEY, OPENAI_API_KEY, or embedding.api_key in config)")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "text-embedding-3-small"
	}

	logger.Debug().
		Str("model", model).
		Msg("Embedding service initialized")

	return &Service{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		logger: logger,
	}, nil
}

// Embed generates an embedding vector for the given text.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}

	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one provider call,
// preserving input order.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	start := time.Now()
	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(s.model),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response returned %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	// The API may return data out of order; place by index.
	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("embedding response index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}

	s.logger.Debug().
		Int("texts", len(texts)).
		Dur("duration", time.Since(start)).
		Msg("Generated embeddings")

	return vectors, nil
}

// Model returns the embedding model name.
func (s *Service) Model() string {
	return s.model
}
