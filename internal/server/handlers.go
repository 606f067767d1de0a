package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/search"
	"github.com/starford/raido/internal/storage"
	"github.com/starford/raido/internal/writer"
)

// Handler holds the course API route handlers. The API is read-only:
// everything it serves was produced by the pipeline.
type Handler struct {
	store storage.Provider
	db    *search.DB
	ext   string
}

// NewHandler creates a Handler serving content files with the extension
// matching the pipeline's output format.
func NewHandler(store storage.Provider, db *search.DB, format string) *Handler {
	return &Handler{store: store, db: db, ext: writer.Ext(format)}
}

// sectionPath extracts the section path from the URL (everything after
// /section/). Supports encoded slashes from generated clients.
func sectionPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// GetTOC handles GET /toc: the content-stripped section tree.
func (h *Handler) GetTOC(w http.ResponseWriter, r *http.Request) {
	data, err := h.store.Read("toc.json")
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("toc not available"))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(data)
}

// ListSections handles GET /sections: every indexed section row.
func (h *Handler) ListSections(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.ListSections()
	if err != nil {
		slog.Error("list sections failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sections": rows,
		"total":    len(rows),
	})
}

// GetSection handles GET /section/*: one section's content file.
func (h *Handler) GetSection(w http.ResponseWriter, r *http.Request) {
	p := sectionPath(r)
	// The root section's file sits directly at the output base, so an
	// empty path is valid here.
	data, err := h.store.Read(path.Join(p, "content."+h.ext))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	if h.ext == "json" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	}
	_, _ = w.Write(data)
}

// Search handles GET /search?q=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.db.Search(q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if results == nil {
		results = []search.SearchResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}
