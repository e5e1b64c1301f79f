package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Service status
	mux.HandleFunc("/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/info", s.app.APIHandler.InfoHandler)

	// API routes - Document ingestion
	mux.HandleFunc("/api/upload-pdf", s.app.DocumentHandler.UploadPDFHandler)
	mux.HandleFunc("/api/store", s.app.DocumentHandler.StoreHandler)

	// API routes - Question answering
	mux.HandleFunc("/api/qna", s.app.QueryHandler.QnAHandler)
	mux.HandleFunc("/api/qna/advanced", s.app.QueryHandler.QnAAdvancedHandler)

	// Catch-all for unknown paths
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			s.app.APIHandler.NotFoundHandler(w, r)
			return
		}
		s.app.APIHandler.InfoHandler(w, r)
	})

	return mux
}
