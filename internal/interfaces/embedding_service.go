package interfaces

import "context"

// EmbeddingService generates vector embeddings for text via an external
// provider. Implementations must be safe for concurrent use.
type EmbeddingService interface {
	// Embed generates an embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, preserving order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the embedding model name.
	Model() string
}
