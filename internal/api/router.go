package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/colebaker/ytfetch/internal/api/handler"
	mw "github.com/colebaker/ytfetch/internal/api/middleware"
)

// NewRouter creates the HTTP router with all routes configured.
// historyHandler may be nil when the history archive is disabled.
func NewRouter(
	downloadHandler *handler.DownloadHandler,
	healthHandler *handler.HealthHandler,
	uiHandler *handler.UIHandler,
	historyHandler *handler.HistoryHandler,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.CleanPath)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Health endpoints (no session needed)
	r.Get("/health", healthHandler.Live)
	r.Get("/ready", healthHandler.Ready)

	// Everything user-facing is session-scoped.
	r.Group(func(r chi.Router) {
		r.Use(mw.Session)

		r.Get("/", uiHandler.Index)
		r.Post("/download", downloadHandler.Submit)
		r.Get("/status/{jobID}", downloadHandler.Status)
		r.Get("/download-file/{jobID}", downloadHandler.File)

		if historyHandler != nil {
			r.Get("/history", historyHandler.List)
		}
	})

	return r
}
