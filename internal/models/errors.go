package models

import "errors"

// Error taxonomy for request and event scoped failures. Handlers map these to
// HTTP status codes with errors.Is; the ticket processor logs and continues.
var (
	// ErrValidation marks bad or missing request fields (user-fixable, 4xx).
	ErrValidation = errors.New("validation failed")

	// ErrExtraction marks a document with no extractable text.
	ErrExtraction = errors.New("no extractable text")

	// ErrStorage marks an embedding or vector store write failure.
	ErrStorage = errors.New("vector storage failed")

	// ErrRetrieval marks a similarity search failure.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrSynthesis marks an LLM answer generation failure.
	ErrSynthesis = errors.New("answer synthesis failed")

	// ErrDiscovery marks a service registry lookup with no healthy instance.
	ErrDiscovery = errors.New("service discovery failed")

	// ErrParse marks a malformed event payload.
	ErrParse = errors.New("malformed event payload")
)
