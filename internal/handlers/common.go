package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/Brittles42/Shelfie/internal/confirm"
	"github.com/Brittles42/Shelfie/internal/pipeline"
	"github.com/Brittles42/Shelfie/internal/store"
)

// Handler serves the Shelfie HTTP API. It owns the collection store, the
// capture pipeline, and the set of in-flight confirmation stages keyed by
// scan ID.
type Handler struct {
	store    *store.Store
	pipeline *pipeline.Pipeline

	mu      sync.Mutex
	pending map[string]*confirm.Stage
}

// New wires a handler over the given store and pipeline.
func New(s *store.Store, p *pipeline.Pipeline) *Handler {
	return &Handler{
		store:    s,
		pipeline: p,
		pending:  make(map[string]*confirm.Stage),
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// Pending-stage helpers
func (h *Handler) addPending(stage *confirm.Stage) string {
	id := uuid.NewString()
	h.mu.Lock()
	h.pending[id] = stage
	h.mu.Unlock()
	return id
}

func (h *Handler) getPending(id string) (*confirm.Stage, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	stage, ok := h.pending[id]
	return stage, ok
}

// removePending drops a finished stage. A rejected commit (empty title)
// keeps the stage registered so the user can correct and retry.
func (h *Handler) removePending(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.pending, id)
}
