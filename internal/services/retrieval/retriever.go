// Package retrieval fetches top-K similar chunks for a query from the vector
// store.
package retrieval

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/respondo/internal/interfaces"
	"github.com/ternarybob/respondo/internal/models"
)

// textMetadataKey mirrors the key the indexer stores chunk text under.
const textMetadataKey = "text"

// Service implements the Retriever interface.
type Service struct {
	embedder interfaces.EmbeddingService
	store    interfaces.VectorStore
	logger   arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.Retriever = (*Service)(nil)

// NewService creates a retriever.
func NewService(embedder interfaces.EmbeddingService, store interfaces.VectorStore, logger arbor.ILogger) *Service {
	return &Service{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// SimilaritySearch embeds the query and returns up to k scored chunks from
// the namespace, ranked by descending similarity.
func (s *Service) SimilaritySearch(ctx context.Context, query, namespace string, k int) ([]interfaces.ScoredChunk, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1", models.ErrValidation)
	}
	if namespace == "" {
		namespace = models.DefaultNamespace
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query embedding failed: %v", models.ErrRetrieval, err)
	}

	matches, err := s.store.Query(ctx, vector, namespace, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrRetrieval, err)
	}

	scored := make([]interfaces.ScoredChunk, 0, len(matches))
	for _, m := range matches {
		text, _ := m.Metadata[textMetadataKey].(string)
		payload := make(map[string]interface{}, len(m.Metadata))
		for key, v := range m.Metadata {
			if key == textMetadataKey {
				continue
			}
			payload[key] = v
		}
		scored = append(scored, interfaces.ScoredChunk{
			Chunk: models.Chunk{
				Text:     text,
				Metadata: models.ChunkMetadataFromMap(payload),
			},
			Score: m.Score,
		})
	}

	s.logger.Debug().
		Str("namespace", namespace).
		Int("k", k).
		Int("matches", len(scored)).
		Msg("Similarity search completed")

	return scored, nil
}
