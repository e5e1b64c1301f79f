package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/respondo/internal/interfaces"
	"github.com/ternarybob/respondo/internal/models"
)

// QnARequest is the POST /api/qna payload. The advanced endpoint accepts the
// same shape plus an optional confidenceThreshold fraction.
type QnARequest struct {
	Question            string   `json:"question"`
	Namespace           string   `json:"namespace"`
	K                   int      `json:"k"`
	ConfidenceThreshold *float64 `json:"confidenceThreshold"`
}

// QueryHandler handles question answering HTTP requests
type QueryHandler struct {
	queryService interfaces.QueryService
	logger       arbor.ILogger
}

// NewQueryHandler creates a new query handler with dependencies
func NewQueryHandler(queryService interfaces.QueryService, logger arbor.ILogger) *QueryHandler {
	return &QueryHandler{
		queryService: queryService,
		logger:       logger,
	}
}

// QnAHandler handles POST /api/qna requests (simple mode, no filtering).
func (h *QueryHandler) QnAHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	result, err := h.queryService.Answer(r.Context(), interfaces.QueryRequest{
		Question:  req.Question,
		Namespace: req.Namespace,
		TopK:      req.K,
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("Query failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"question":          result.Question,
		"answer":            result.Answer,
		"namespace":         result.Namespace,
		"topK":              result.TopK,
		"overallConfidence": result.OverallConfidence,
		"documents":         result.Documents,
		// Legacy field for backward compatibility
		"topKDocuments": legacyDocuments(result.Documents),
	})
}

// legacyDocuments strips scores from the document list for the older
// topKDocuments response field.
func legacyDocuments(docs []models.RetrievedDocument) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(docs))
	for _, d := range docs {
		out = append(out, map[string]interface{}{
			"content":  d.Content,
			"metadata": d.Metadata,
		})
	}
	return out
}

// QnAAdvancedHandler handles POST /api/qna/advanced requests with
// threshold-gated retrieval and a full confidence report.
func (h *QueryHandler) QnAAdvancedHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	result, err := h.queryService.AnswerAdvanced(r.Context(), interfaces.AdvancedQueryRequest{
		QueryRequest: interfaces.QueryRequest{
			Question:  req.Question,
			Namespace: req.Namespace,
			TopK:      req.K,
		},
		Threshold: req.ConfidenceThreshold,
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("Advanced query failed")
		WriteServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success":           true,
		"question":          result.Question,
		"answer":            result.Answer,
		"namespace":         result.Namespace,
		"topK":              result.TopK,
		"overallConfidence": result.OverallConfidence,
		"documents":         result.Documents,
	}
	if result.Confidence != nil {
		response["confidence"] = result.Confidence
	}
	if result.Warning != "" {
		response["warning"] = result.Warning
	}

	WriteJSON(w, http.StatusOK, response)
}

func (h *QueryHandler) decode(w http.ResponseWriter, r *http.Request) (*QnARequest, bool) {
	if !RequireMethod(w, r, http.MethodPost) {
		return nil, false
	}

	var req QnARequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return nil, false
	}
	return &req, true
}
