package interfaces

import (
	"context"

	"github.com/ternarybob/respondo/internal/models"
)

// Indexer embeds chunks and persists them into a namespace of the vector
// store. Returns the number of chunks it attempted to store.
type Indexer interface {
	Index(ctx context.Context, chunks []models.Chunk, namespace string) (int, error)
}

// ScoredChunk pairs a retrieved chunk with its raw similarity score.
type ScoredChunk struct {
	Chunk models.Chunk
	Score float64
}

// Retriever fetches the top-K most similar chunks for a query from one
// namespace, ranked by descending similarity. If the namespace holds fewer
// than k vectors, all available are returned, still ranked.
type Retriever interface {
	SimilaritySearch(ctx context.Context, query, namespace string, k int) ([]ScoredChunk, error)
}
