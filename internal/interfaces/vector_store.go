package interfaces

import "context"

// Vector is one embedded chunk ready for upsert, keyed by a system-generated id.
type Vector struct {
	ID       string
	Values   []float32
	Metadata map[string]interface{}
}

// ScoredMatch is one similarity search hit. Score is the raw cosine similarity
// in [-1, 1] per the underlying vector metric.
type ScoredMatch struct {
	ID       string
	Score    float64
	Metadata map[string]interface{}
}

// VectorStore is the external namespaced vector database boundary.
type VectorStore interface {
	// Upsert writes vectors into the given namespace. At-least-once
	// semantics; no partial rollback guarantee.
	Upsert(ctx context.Context, vectors []Vector, namespace string) error

	// Query returns up to topK matches for the vector in the namespace,
	// ranked by descending similarity.
	Query(ctx context.Context, vector []float32, namespace string, topK int) ([]ScoredMatch, error)
}
