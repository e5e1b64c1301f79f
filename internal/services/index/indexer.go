// Package index embeds prepared chunks and upserts them into the vector store.
package index

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/respondo/internal/interfaces"
	"github.com/ternarybob/respondo/internal/models"
)

// textMetadataKey holds the chunk text inside the vector payload so retrieval
// can reconstruct content without a second store.
const textMetadataKey = "text"

// Service implements the Indexer interface.
type Service struct {
	embedder interfaces.EmbeddingService
	store    interfaces.VectorStore
	logger   arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.Indexer = (*Service)(nil)

// NewService creates an indexer.
func NewService(embedder interfaces.EmbeddingService, store interfaces.VectorStore, logger arbor.ILogger) *Service {
	return &Service{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// Index embeds each chunk and upserts it keyed by a generated id into the
// given namespace. Returns the number of chunks attempted; writes are
// at-least-once with no partial rollback.
func (s *Service) Index(ctx context.Context, chunks []models.Chunk, namespace string) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}
	if namespace == "" {
		namespace = models.DefaultNamespace
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return len(chunks), fmt.Errorf("%w: embedding failed: %v", models.ErrStorage, err)
	}

	vectors := make([]interfaces.Vector, len(chunks))
	for i, c := range chunks {
		metadata := c.Metadata.Map()
		metadata[textMetadataKey] = c.Text
		vectors[i] = interfaces.Vector{
			ID:       uuid.New().String(),
			Values:   embeddings[i],
			Metadata: metadata,
		}
	}

	if err := s.store.Upsert(ctx, vectors, namespace); err != nil {
		return len(chunks), fmt.Errorf("%w: upsert failed: %v", models.ErrStorage, err)
	}

	s.logger.Info().
		Int("chunks", len(chunks)).
		Str("namespace", namespace).
		Msg("Indexed chunks")

	return len(chunks), nil
}
