// -----------------------------------------------------------------------
// Application container - wires services, clients, and handlers together
// -----------------------------------------------------------------------

package app

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/respondo/internal/common"
	"github.com/ternarybob/respondo/internal/handlers"
	"github.com/ternarybob/respondo/internal/interfaces"
	"github.com/ternarybob/respondo/internal/registry"
	"github.com/ternarybob/respondo/internal/services/chunker"
	"github.com/ternarybob/respondo/internal/services/embeddings"
	"github.com/ternarybob/respondo/internal/services/index"
	"github.com/ternarybob/respondo/internal/services/llm"
	"github.com/ternarybob/respondo/internal/services/pdf"
	"github.com/ternarybob/respondo/internal/services/query"
	"github.com/ternarybob/respondo/internal/services/retrieval"
	"github.com/ternarybob/respondo/internal/services/tickets"
	"github.com/ternarybob/respondo/internal/stream"
	"github.com/ternarybob/respondo/internal/vectorstore"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Pipeline services
	Splitter         *chunker.Splitter
	EmbeddingService interfaces.EmbeddingService
	VectorStore      interfaces.VectorStore
	Indexer          interfaces.Indexer
	Retriever        interfaces.Retriever
	SynthesisService interfaces.SynthesisService
	QueryService     interfaces.QueryService
	PDFExtractor     interfaces.PDFExtractor

	// Service registry (nil when discovery is disabled)
	Registry *registry.Client

	// Ticket event processing
	TicketClient interfaces.TicketClient
	Notifier     interfaces.Notifier
	Processor    *tickets.Processor
	Consumer     *stream.Consumer

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	DocumentHandler *handlers.DocumentHandler
	QueryHandler    *handlers.QueryHandler
}

// New wires the full dependency graph from configuration.
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	splitter, err := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.ChunkSize),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create text splitter: %w", err)
	}
	a.Splitter = splitter

	embeddingService, err := embeddings.NewService(&cfg.Embedding, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding service: %w", err)
	}
	a.EmbeddingService = embeddingService

	storeTimeout, err := time.ParseDuration(cfg.Pinecone.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid vector store timeout '%s': %w", cfg.Pinecone.Timeout, err)
	}
	a.VectorStore = vectorstore.New(vectorstore.Config{
		IndexHost: cfg.Pinecone.IndexHost,
		APIKey:    cfg.Pinecone.APIKey,
		Timeout:   storeTimeout,
	}, logger)

	synthesis, err := llm.NewClaudeService(&cfg.Claude, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis service: %w", err)
	}
	a.SynthesisService = synthesis

	a.Indexer = index.NewService(a.EmbeddingService, a.VectorStore, logger)
	a.Retriever = retrieval.NewService(a.EmbeddingService, a.VectorStore, logger)
	a.PDFExtractor = pdf.NewExtractor(logger)

	queryService, err := query.NewService(a.Retriever, a.SynthesisService, &cfg.Query, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create query service: %w", err)
	}
	a.QueryService = queryService

	if cfg.Eureka.Enabled {
		a.Registry = registry.NewClient(&cfg.Eureka, cfg.Server.Port, logger)
		a.TicketClient = tickets.NewClient(a.Registry, &cfg.Tickets, logger)
	} else {
		logger.Warn().Msg("Service discovery disabled, ticket updates will fail until enabled")
		a.TicketClient = tickets.NewClient(unavailableResolver{}, &cfg.Tickets, logger)
	}

	a.Notifier = tickets.NewLogNotifier(logger)
	a.Processor = tickets.NewProcessor(a.QueryService, a.TicketClient, a.Notifier, cfg.Kafka.ResolveThreshold, logger)
	a.Consumer = stream.NewConsumer(&cfg.Kafka, a.Processor, logger)

	a.APIHandler = handlers.NewAPIHandler(cfg.Eureka.ServiceName, logger)
	a.DocumentHandler = handlers.NewDocumentHandler(a.PDFExtractor, a.Splitter, a.Indexer, logger)
	a.QueryHandler = handlers.NewQueryHandler(a.QueryService, logger)

	logger.Info().
		Str("embedding_model", a.EmbeddingService.Model()).
		Str("claude_model", cfg.Claude.Model).
		Msg("Application initialized")

	return a, nil
}

// Close releases client resources. The Kafka consumer is closed separately
// during shutdown ordering.
func (a *App) Close() error {
	if a.SynthesisService != nil {
		if err := a.SynthesisService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close synthesis service")
		}
	}
	return nil
}

// unavailableResolver stands in when discovery is disabled.
type unavailableResolver struct{}

func (unavailableResolver) ServiceURL(serviceName string) (string, error) {
	return "", fmt.Errorf("service discovery is disabled, cannot resolve '%s'", serviceName)
}
