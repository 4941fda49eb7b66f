// Package server implements the preview HTTP server: it serves the
// rendered book, answers search queries from the article index, and
// streams reload events.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mkucera/catprep/internal/index"
)

// Service answers API requests from the article index.
type Service struct {
	searcher index.Searcher
}

// NewService creates a new preview service.
func NewService(searcher index.Searcher) *Service {
	return &Service{searcher: searcher}
}

// SearchHit is one item of a search response.
type SearchHit struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Subject string `json:"subject"`
	Snippet string `json:"snippet"`
}

func (s *Service) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("missing query parameter q"))
		return
	}

	results, err := s.searcher.Search(query, 20)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("search failed"))
		return
	}

	hits := make([]SearchHit, 0, len(results))
	for _, res := range results {
		hits = append(hits, SearchHit{
			Path:    res.Path,
			Title:   res.Title,
			Subject: res.Subject,
			Snippet: res.Snippet,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": hits})
}

// NewRouter creates a chi router serving the rendered book from outDir,
// the search API, and the SSE reload endpoint (when non-nil).
func NewRouter(svc *Service, sseHandler http.Handler, outDir string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/search", svc.handleSearch)

	if sseHandler != nil {
		r.Get("/api/events", sseHandler.ServeHTTP)
	}

	r.Handle("/*", http.FileServer(http.Dir(outDir)))

	return r
}
