package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/respondo/internal/common"
)

type APIHandler struct {
	serviceName string
	logger      arbor.ILogger
}

func NewAPIHandler(serviceName string, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		serviceName: serviceName,
		logger:      logger,
	}
}

// HealthHandler returns health check status
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "UP",
		"service":   h.serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// InfoHandler returns service identity, version, and the API surface
func (h *APIHandler) InfoHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"service":     h.serviceName,
		"version":     common.GetVersion(),
		"build":       common.Build,
		"git_commit":  common.GitCommit,
		"description": "PDF RAG service with confidence-gated ticket resolution",
		"endpoints": map[string]string{
			"uploadPdf":     "POST /api/upload-pdf",
			"storeText":     "POST /api/store",
			"query":         "POST /api/qna",
			"queryAdvanced": "POST /api/qna/advanced",
		},
	})
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error": "The requested endpoint does not exist",
		"path":  r.URL.Path,
	})
}
