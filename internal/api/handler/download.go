package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/colebaker/ytfetch/internal/api/middleware"
	"github.com/colebaker/ytfetch/internal/domain"
	"github.com/colebaker/ytfetch/internal/registry"
)

// JobStarter schedules a background download job.
type JobStarter interface {
	Start(sid domain.SessionID, jid domain.JobID, req domain.DownloadRequest)
}

// DownloadHandler handles job submission, status polling and file delivery.
type DownloadHandler struct {
	reg    *registry.Registry
	jobs   JobStarter
	logger *slog.Logger
}

// NewDownloadHandler creates a new download handler.
func NewDownloadHandler(reg *registry.Registry, jobs JobStarter, logger *slog.Logger) *DownloadHandler {
	return &DownloadHandler{
		reg:    reg,
		jobs:   jobs,
		logger: logger,
	}
}

// SubmitRequest is the JSON request body for job submission.
type SubmitRequest struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
	Format  string `json:"format"`
}

// SubmitResponse is the JSON response after submission.
type SubmitResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	JobID   string `json:"job_id"`
}

// Submit handles POST /download.
func (h *DownloadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionFromContext(r.Context())

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeStatusError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		h.writeStatusError(w, http.StatusBadRequest, "Please enter a video URL")
		return
	}

	quality := req.Quality
	if quality == "" {
		quality = "720p"
	}

	dlReq := domain.DownloadRequest{
		URL:     url,
		Quality: quality,
		Format:  domain.NormalizeFormat(req.Format),
	}

	jid := domain.JobID(uuid.New().String())

	// The entry goes in synchronously, in the ready state, before the job
	// starts: a poll right after this response never sees "not found".
	if err := h.reg.Create(sid, jid); err != nil {
		h.logger.Error("job create failed", "error", err, "job_id", jid)
		h.writeStatusError(w, http.StatusInternalServerError, "failed to start download")
		return
	}

	h.jobs.Start(sid, jid, dlReq)

	h.writeJSON(w, http.StatusOK, SubmitResponse{
		Status:  "started",
		Message: "Download started",
		JobID:   jid.String(),
	})
}

// Status handles GET /status/{jobID}. Unknown job ids are not an error:
// they report the default ready payload.
func (h *DownloadHandler) Status(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionFromContext(r.Context())
	jid := domain.JobID(chi.URLParam(r, "jobID"))

	h.writeJSON(w, http.StatusOK, h.reg.Status(sid, jid))
}

// File handles GET /download-file/{jobID}, streaming the finished artifact.
func (h *DownloadHandler) File(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionFromContext(r.Context())
	jid := domain.JobID(chi.URLParam(r, "jobID"))

	path, err := h.reg.Output(sid, jid)
	if err != nil {
		h.writeNotFound(w)
		return
	}
	if _, err := os.Stat(path); err != nil {
		h.logger.Error("recorded output missing from disk", "job_id", jid, "error", err)
		h.writeNotFound(w)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	http.ServeFile(w, r, path)
}

// parseLimit reads a bounded ?limit= query parameter.
func parseLimit(r *http.Request, fallback int) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 200 {
			return parsed
		}
	}
	return fallback
}

func (h *DownloadHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeStatusError uses the submission error shape.
func (h *DownloadHandler) writeStatusError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"status":  "error",
		"message": message,
	})
}

// writeNotFound uses the file-download error shape.
func (h *DownloadHandler) writeNotFound(w http.ResponseWriter) {
	h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "File not found"})
}
