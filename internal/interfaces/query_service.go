package interfaces

import (
	"context"

	"github.com/ternarybob/respondo/internal/models"
)

// QueryRequest is one question against one namespace. Zero values fall back
// to configured defaults (namespace "default", configured top-K).
type QueryRequest struct {
	Question  string
	Namespace string
	TopK      int
}

// AdvancedQueryRequest adds an explicit confidence threshold (fraction, 0-1).
// A nil Threshold uses the configured default.
type AdvancedQueryRequest struct {
	QueryRequest
	Threshold *float64
}

// QueryService composes retrieval, confidence scoring, and answer synthesis
// into one request/response cycle.
type QueryService interface {
	// Answer runs the simple mode: retrieve, synthesize, report confidence.
	Answer(ctx context.Context, req QueryRequest) (*models.QueryResult, error)

	// AnswerAdvanced runs the threshold-gated mode: documents below the
	// confidence threshold are filtered before synthesis, and a fallback
	// answer is returned when nothing clears it.
	AnswerAdvanced(ctx context.Context, req AdvancedQueryRequest) (*models.QueryResult, error)
}
