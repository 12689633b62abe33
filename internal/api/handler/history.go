package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/colebaker/ytfetch/internal/api/middleware"
	"github.com/colebaker/ytfetch/internal/domain"
	"github.com/colebaker/ytfetch/internal/history"
)

// HistoryReader lists terminal job records for one session.
type HistoryReader interface {
	BySession(ctx context.Context, sid domain.SessionID, limit int) ([]history.Record, error)
}

// HistoryHandler serves the per-session download history.
type HistoryHandler struct {
	store  HistoryReader
	logger *slog.Logger
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(store HistoryReader, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		store:  store,
		logger: logger,
	}
}

// ListResponse contains a session's terminal job records, newest first.
type ListResponse struct {
	Records []history.Record `json:"records"`
}

// List handles GET /history.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionFromContext(r.Context())

	records, err := h.store.BySession(r.Context(), sid, parseLimit(r, 50))
	if err != nil {
		h.logger.Error("history list failed", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "failed to list history"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ListResponse{Records: records})
}
