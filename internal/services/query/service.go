// Package query composes retrieval, confidence scoring, and answer synthesis
// into one request/response cycle.
package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/respondo/internal/common"
	"github.com/ternarybob/respondo/internal/interfaces"
	"github.com/ternarybob/respondo/internal/models"
	"github.com/ternarybob/respondo/internal/services/confidence"
)

// Service implements the QueryService interface. It holds no state across
// queries; every call is an independent retrieve/score/synthesize cycle.
type Service struct {
	retriever   interfaces.Retriever
	synthesizer interfaces.SynthesisService
	config      *common.QueryConfig
	timeout     time.Duration
	logger      arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.QueryService = (*Service)(nil)

// NewService creates a query orchestrator.
func NewService(retriever interfaces.Retriever, synthesizer interfaces.SynthesisService, cfg *common.QueryConfig, logger arbor.ILogger) (*Service, error) {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid query timeout '%s': %w", cfg.Timeout, err)
	}

	return &Service{
		retriever:   retriever,
		synthesizer: synthesizer,
		config:      cfg,
		timeout:     timeout,
		logger:      logger,
	}, nil
}

// Answer runs the simple mode: retrieve top-K chunks, synthesize an answer
// from all of them, and report per-document confidence without filtering.
func (s *Service) Answer(ctx context.Context, req interfaces.QueryRequest) (*models.QueryResult, error) {
	question, namespace, topK, err := s.normalize(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Info().
		Str("question", question).
		Str("namespace", namespace).
		Int("k", topK).
		Msg("Query received")

	scored, err := s.retriever.SimilaritySearch(ctx, question, namespace, topK)
	if err != nil {
		return nil, err
	}

	documents := toDocuments(scored, 0, false)
	answer, err := s.synthesizer.Synthesize(ctx, question, documents)
	if err != nil {
		return nil, err
	}
	result := &models.QueryResult{
		Question:          question,
		Answer:            answer,
		Namespace:         namespace,
		TopK:              topK,
		OverallConfidence: confidence.Overall(confidences(documents)),
		Documents:         documents,
	}

	s.logger.Debug().
		Float64("overall_confidence", result.OverallConfidence).
		Int("documents", len(documents)).
		Msg("Query answered")

	return result, nil
}

// AnswerAdvanced runs the threshold-gated mode. Documents below the
// confidence threshold are excluded from synthesis; when nothing clears it,
// the configured fallback answer is returned without invoking the
// synthesizer and overall confidence is reported as 0.
func (s *Service) AnswerAdvanced(ctx context.Context, req interfaces.AdvancedQueryRequest) (*models.QueryResult, error) {
	question, namespace, topK, err := s.normalize(req.QueryRequest)
	if err != nil {
		return nil, err
	}

	threshold := s.config.ConfidenceThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: confidence threshold must be between 0 and 1", models.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Info().
		Str("question", question).
		Str("namespace", namespace).
		Int("k", topK).
		Float64("threshold", threshold).
		Msg("Advanced query received")

	scored, err := s.retriever.SimilaritySearch(ctx, question, namespace, topK)
	if err != nil {
		return nil, err
	}

	filtered := confidence.FilterByThreshold(scored, threshold)
	if len(filtered) == 0 {
		s.logger.Info().
			Float64("threshold", threshold).
			Int("retrieved", len(scored)).
			Msg("No documents above confidence threshold")

		return &models.QueryResult{
			Question:          question,
			Answer:            s.config.FallbackAnswer,
			Namespace:         namespace,
			TopK:              topK,
			OverallConfidence: 0,
			Documents:         []models.RetrievedDocument{},
			Warning:           fmt.Sprintf("No documents found above confidence threshold of %g%%", threshold*100),
		}, nil
	}

	answer, err := s.synthesizer.Synthesize(ctx, question, toDocuments(filtered, threshold, true))
	if err != nil {
		return nil, err
	}

	documents := toDocuments(scored, threshold, true)
	scores := confidences(documents)
	top := confidence.Overall(scores)

	return &models.QueryResult{
		Question:          question,
		Answer:            answer,
		Namespace:         namespace,
		TopK:              topK,
		OverallConfidence: top,
		Documents:         documents,
		Confidence: &models.ConfidenceReport{
			Overall:   top,
			Average:   confidence.Average(scores),
			Top:       top,
			Threshold: threshold * 100,
		},
	}, nil
}

// normalize validates the request and applies defaults.
func (s *Service) normalize(req interfaces.QueryRequest) (question, namespace string, topK int, err error) {
	question = strings.TrimSpace(req.Question)
	if question == "" {
		return "", "", 0, fmt.Errorf("%w: question is required", models.ErrValidation)
	}

	namespace = req.Namespace
	if namespace == "" {
		namespace = models.DefaultNamespace
	}

	topK = req.TopK
	if topK < 1 {
		topK = s.config.DefaultTopK
	}

	return question, namespace, topK, nil
}

// toDocuments converts scored chunks to RetrievedDocuments with normalized
// confidence. Ranked order is preserved.
func toDocuments(scored []interfaces.ScoredChunk, threshold float64, flagThreshold bool) []models.RetrievedDocument {
	documents := make([]models.RetrievedDocument, 0, len(scored))
	for _, sc := range scored {
		doc := models.RetrievedDocument{
			Content:         sc.Chunk.Text,
			Metadata:        sc.Chunk.Metadata.Map(),
			SimilarityScore: sc.Score,
			ConfidenceScore: confidence.ToConfidence(sc.Score),
		}
		if flagThreshold {
			doc.AboveThreshold = (sc.Score+1)/2 >= threshold
		}
		documents = append(documents, doc)
	}
	return documents
}

func confidences(docs []models.RetrievedDocument) []float64 {
	scores := make([]float64, len(docs))
	for i, d := range docs {
		scores[i] = d.ConfidenceScore
	}
	return scores
}
