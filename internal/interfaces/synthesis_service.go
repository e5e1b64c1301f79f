package interfaces

import (
	"context"

	"github.com/ternarybob/respondo/internal/models"
)

// SynthesisService generates an answer to a question from retrieved context
// chunks. The underlying model call is opaque, potentially slow, and
// rate-limited externally. Implementations must not retry silently; a
// failure surfaces to the caller.
type SynthesisService interface {
	// Synthesize combines the question and context chunks into an answer.
	Synthesize(ctx context.Context, question string, contextDocs []models.RetrievedDocument) (string, error)

	// HealthCheck verifies the provider is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the service.
	Close() error
}
