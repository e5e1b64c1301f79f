// -----------------------------------------------------------------------
// Document Handler - PDF upload and raw text ingestion endpoints
// -----------------------------------------------------------------------

package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/respondo/internal/interfaces"
	"github.com/ternarybob/respondo/internal/models"
	"github.com/ternarybob/respondo/internal/services/chunker"
	"github.com/ternarybob/respondo/internal/services/documents"
)

// MaxUploadBytes caps multipart PDF uploads at 10MB.
const MaxUploadBytes = 10 << 20

// StoreRequest is the POST /api/store payload.
type StoreRequest struct {
	Text      string                 `json:"text" validate:"required"`
	Namespace string                 `json:"namespace"`
	Source    string                 `json:"source"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// DocumentHandler ingests documents: PDF uploads and raw text submissions
// both flow through split, prepare, and index.
type DocumentHandler struct {
	extractor interfaces.PDFExtractor
	splitter  *chunker.Splitter
	indexer   interfaces.Indexer
	validate  *validator.Validate
	logger    arbor.ILogger
}

// NewDocumentHandler creates a document ingestion handler.
func NewDocumentHandler(extractor interfaces.PDFExtractor, splitter *chunker.Splitter, indexer interfaces.Indexer, logger arbor.ILogger) *DocumentHandler {
	return &DocumentHandler{
		extractor: extractor,
		splitter:  splitter,
		indexer:   indexer,
		validate:  validator.New(),
		logger:    logger,
	}
}

// UploadPDFHandler handles POST /api/upload-pdf multipart requests. The PDF
// part must be named "pdf"; optional "namespace" and "source" form fields
// override the defaults.
func (h *DocumentHandler) UploadPDFHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "PDF file must not exceed 10MB")
		return
	}

	file, header, err := r.FormFile("pdf")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "PDF file is required (field 'pdf')")
		return
	}
	defer file.Close()

	if contentType := header.Header.Get("Content-Type"); contentType != "application/pdf" {
		WriteError(w, http.StatusBadRequest, "Only PDF files are supported")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read PDF file")
		return
	}

	namespace := r.FormValue("namespace")
	source := r.FormValue("source")
	if source == "" {
		source = header.Filename
	}

	h.logger.Info().
		Str("filename", header.Filename).
		Int("size", len(content)).
		Str("namespace", namespace).
		Msg("PDF upload received")

	text, err := h.extractor.ExtractTextFromBytes(r.Context(), content)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	stored, err := h.ingest(r, text, source, namespace, nil)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      fmt.Sprintf("PDF processed and stored as %d chunks", stored),
		"filename":     header.Filename,
		"chunksStored": stored,
		"textLength":   len(text),
		"namespace":    namespaceOrDefault(namespace),
	})
}

// StoreHandler handles POST /api/store JSON requests with raw text.
func (h *DocumentHandler) StoreHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req StoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Text is required")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		WriteError(w, http.StatusBadRequest, "Text is required")
		return
	}

	source := req.Source
	if source == "" {
		source = "api"
	}

	stored, err := h.ingest(r, req.Text, source, req.Namespace, req.Metadata)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      fmt.Sprintf("Text stored as %d chunks", stored),
		"chunksStored": stored,
	})
}

// ingest splits text, stamps provenance metadata, and indexes the chunks.
func (h *DocumentHandler) ingest(r *http.Request, text, source, namespace string, extra map[string]interface{}) (int, error) {
	pieces := h.splitter.Split(text)
	chunks := documents.Prepare(pieces, source, namespace, extra)
	return h.indexer.Index(r.Context(), chunks, namespace)
}

func namespaceOrDefault(namespace string) string {
	if namespace == "" {
		return models.DefaultNamespace
	}
	return namespace
}
