// Package llm implements answer synthesis against the Anthropic Claude API.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/respondo/internal/common"
	"github.com/ternarybob/respondo/internal/interfaces"
	"github.com/ternarybob/respondo/internal/models"
)

const systemPrompt = "You are a support assistant. Answer the question using only the " +
	"provided context. If the context does not contain the answer, say so plainly " +
	"instead of guessing."

// ClaudeService implements SynthesisService using Anthropic Claude.
type ClaudeService struct {
	config    *common.ClaudeConfig
	logger    arbor.ILogger
	client    anthropic.Client
	limiter   *rate.Limiter
	timeout   time.Duration
	maxTokens int
}

// Compile-time interface assertion
var _ interfaces.SynthesisService = (*ClaudeService)(nil)

// NewClaudeService creates a Claude synthesis service instance.
func NewClaudeService(cfg *common.ClaudeConfig, logger arbor.ILogger) (*ClaudeService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required (set ANTHROPIC_API_KEY, RESPONDO_CLAUDE_API_KEY, or claude.api_key in config)")
	}

	if cfg.Model == "" {
		cfg.Model = "claude-haiku-3-5-20241022"
	}

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", cfg.Timeout, err)
	}

	rateLimit, err := time.ParseDuration(cfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit duration '%s': %w", cfg.RateLimit, err)
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	service := &ClaudeService{
		config:    cfg,
		logger:    logger,
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		limiter:   rate.NewLimiter(rate.Every(rateLimit), 1),
		timeout:   timeout,
		maxTokens: maxTokens,
	}

	logger.Debug().
		Str("model", cfg.Model).
		Dur("timeout", timeout).
		Int("max_tokens", maxTokens).
		Msg("Claude synthesis service initialized")

	return service, nil
}

// Synthesize combines the question and retrieved context into an answer.
// The call is not retried: a non-idempotent provider failure surfaces to the
// caller as a SynthesisError.
func (s *ClaudeService) Synthesize(ctx context.Context, question string, contextDocs []models.RetrievedDocument) (string, error) {
	if question == "" {
		return "", fmt.Errorf("%w: question cannot be empty", models.ErrValidation)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Wait(timeoutCtx); err != nil {
		return "", fmt.Errorf("%w: rate limit wait: %v", models.ErrSynthesis, err)
	}

	start := time.Now()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: int64(s.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(question, contextDocs))),
		},
	}
	if s.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(s.config.Temperature))
	}

	resp, err := s.client.Messages.New(timeoutCtx, params)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("model", s.config.Model).
			Msg("Claude synthesis failed")
		return "", fmt.Errorf("%w: %v", models.ErrSynthesis, err)
	}

	var answer strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			answer.WriteString(block.Text)
		}
	}
	if answer.Len() == 0 {
		return "", fmt.Errorf("%w: no response generated", models.ErrSynthesis)
	}

	s.logger.Debug().
		Int("context_docs", len(contextDocs)).
		Int("answer_length", answer.Len()).
		Dur("duration", time.Since(start)).
		Msg("Synthesized answer")

	return answer.String(), nil
}

// HealthCheck verifies the Claude client is configured.
func (s *ClaudeService) HealthCheck(ctx context.Context) error {
	if s.config.APIKey == "" {
		return fmt.Errorf("Claude API key is not configured")
	}
	return nil
}

// Close releases resources held by the service.
func (s *ClaudeService) Close() error {
	s.logger.Debug().Msg("Closing Claude synthesis service")
	return nil
}

// buildPrompt lays out the retrieved chunks ahead of the question.
func buildPrompt(question string, contextDocs []models.RetrievedDocument) string {
	var b strings.Builder
	b.WriteString("Context:\n\n")
	for i, doc := range contextDocs {
		fmt.Fprintf(&b, "[%d] %s\n\n", i+1, doc.Content)
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}
