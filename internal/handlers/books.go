package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Brittles42/Shelfie/internal/share"
	"github.com/Brittles42/Shelfie/internal/timeline"
)

// HandleBooks serves the collection list.
func (h *Handler) HandleBooks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, h.store.List())
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleBookDetail serves and deletes single books addressed by their index
// in the newest-first list.
func (h *Handler) HandleBookDetail(w http.ResponseWriter, r *http.Request) {
	indexStr := strings.TrimPrefix(r.URL.Path, "/api/books/")
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		h.writeError(w, "Invalid book index", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		book, ok := h.store.Get(index)
		if !ok {
			h.writeError(w, "Book not found", http.StatusNotFound)
			return
		}
		h.writeJSON(w, book)
	case http.MethodDelete:
		// Remove tolerates a stale index: the collection may have
		// changed since the client rendered its list.
		if err := h.store.Remove(index); err != nil {
			h.writeError(w, "Failed to delete book: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleTimeline serves the collection grouped by month added.
func (h *Handler) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	groups := timeline.GroupByMonth(h.store.List())
	if groups == nil {
		groups = []timeline.Group{}
	}
	h.writeJSON(w, groups)
}

// HandleShareImage renders the shelf summary PNG.
func (h *Handler) HandleShareImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	books := h.store.List()
	if len(books) == 0 {
		h.writeError(w, "Add some books first", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="my-shelfie.png"`)
	if err := share.WritePNG(w, books); err != nil {
		h.writeError(w, "Failed to render share image: "+err.Error(), http.StatusInternalServerError)
	}
}
