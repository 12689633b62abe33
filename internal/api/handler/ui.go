package handler

import (
	"net/http"

	"github.com/colebaker/ytfetch/pkg/ui"
)

// UIHandler serves the web UI.
type UIHandler struct{}

// NewUIHandler creates a new UI handler.
func NewUIHandler() *UIHandler {
	return &UIHandler{}
}

// Index serves the submission form. Passing through the session middleware
// is what establishes the client's session.
func (h *UIHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(ui.IndexHTML)
}
