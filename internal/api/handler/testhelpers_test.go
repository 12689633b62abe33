package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/colebaker/ytfetch/internal/api/middleware"
	"github.com/colebaker/ytfetch/internal/domain"
	"github.com/colebaker/ytfetch/internal/history"
)

// testLogger returns a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStarter records Start calls without running anything.
type fakeStarter struct {
	sessions []domain.SessionID
	jobs     []domain.JobID
	requests []domain.DownloadRequest
}

func (f *fakeStarter) Start(sid domain.SessionID, jid domain.JobID, req domain.DownloadRequest) {
	f.sessions = append(f.sessions, sid)
	f.jobs = append(f.jobs, jid)
	f.requests = append(f.requests, req)
}

// fakeHistory is a scriptable HistoryReader.
type fakeHistory struct {
	records []history.Record
	err     error
	gotSID  domain.SessionID
}

func (f *fakeHistory) BySession(ctx context.Context, sid domain.SessionID, limit int) ([]history.Record, error) {
	f.gotSID = sid
	if f.err != nil {
		return nil, f.err
	}
	if len(f.records) > limit {
		return f.records[:limit], nil
	}
	return f.records, nil
}

// testRouter mounts the download routes so chi URL params resolve.
func testRouter(h *DownloadHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/download", h.Submit)
	r.Get("/status/{jobID}", h.Status)
	r.Get("/download-file/{jobID}", h.File)
	return r
}

// withSession stamps a session id onto a request, standing in for the
// session middleware.
func withSession(r *http.Request, sid domain.SessionID) *http.Request {
	return r.WithContext(middleware.WithSession(r.Context(), sid))
}
