// Package runner executes download jobs in the background, one goroutine
// per job, and publishes every state change into the registry.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/colebaker/ytfetch/internal/domain"
	"github.com/colebaker/ytfetch/internal/fetcher"
	"github.com/colebaker/ytfetch/internal/history"
	"github.com/colebaker/ytfetch/internal/registry"
)

// ErrShutdownTimeout is returned when in-flight jobs don't finish within
// the shutdown timeout.
var ErrShutdownTimeout = errors.New("runner shutdown timed out")

// Runner spawns and tracks background download jobs. The goroutine started
// for a job is the only writer for that job's registry key, so its status
// updates are totally ordered.
type Runner struct {
	reg     *registry.Registry
	fetch   fetcher.Fetcher
	hist    *history.Store // optional, may be nil
	baseDir string
	logger  *slog.Logger

	wg sync.WaitGroup
}

// New creates a Runner. hist may be nil to disable history recording.
func New(reg *registry.Registry, fetch fetcher.Fetcher, hist *history.Store, baseDir string, logger *slog.Logger) *Runner {
	return &Runner{
		reg:     reg,
		fetch:   fetch,
		hist:    hist,
		baseDir: baseDir,
		logger:  logger,
	}
}

// Start schedules a job and returns immediately. The registry entry must
// already exist in the ready state so an immediate poll is well-defined.
// Once started, the job runs to a terminal state unconditionally: there is
// no cancellation and no deadline.
func (r *Runner) Start(sid domain.SessionID, jid domain.JobID, req domain.DownloadRequest) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(sid, jid, req)
	}()
}

// Wait blocks until all in-flight jobs reach a terminal state, or the
// timeout elapses. Used only for graceful shutdown; it does not abort jobs.
func (r *Runner) Wait(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}

func (r *Runner) run(sid domain.SessionID, jid domain.JobID, req domain.DownloadRequest) {
	logger := r.logger.With("session_id", sid, "job_id", jid, "url", req.URL)

	// Every failure inside this goroutine, panics included, converts into a
	// terminal error status; nothing propagates out to crash the process.
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("job panicked", "panic", rec)
			r.finish(sid, jid, req, domain.ErrorStatus(""))
		}
	}()

	r.reg.UpdateStatus(sid, jid, domain.InitializingStatus())

	destDir := filepath.Join(r.baseDir, sid.String())
	if err := os.MkdirAll(destDir, 0755); err != nil {
		logger.Error("failed to create session directory", "error", err)
		r.finish(sid, jid, req, domain.ErrorStatus(""))
		return
	}

	start := time.Now()
	path, err := r.fetch.Fetch(context.Background(), req, destDir, jid, func(p fetcher.Progress) {
		switch p.Stage {
		case fetcher.StageDownloading:
			r.reg.UpdateStatus(sid, jid, domain.DownloadingStatus(p.DownloadedBytes, p.TotalBytes))
		case fetcher.StageFinished:
			r.reg.UpdateStatus(sid, jid, domain.ProcessingStatus())
		}
	})
	if err != nil {
		// Full detail stays server-side; the client sees a generic message,
		// except the missing-tool case which is operator-actionable.
		logger.Error("job failed", "error", err, "duration", time.Since(start))
		status := domain.ErrorStatus("")
		if errors.Is(err, domain.ErrFFmpegMissing) {
			status = domain.ErrorStatus("Server is missing FFmpeg. Ask the operator to install it.")
		}
		r.finish(sid, jid, req, status)
		return
	}

	if err := r.reg.SetOutput(sid, jid, path); err != nil {
		logger.Error("failed to record output", "error", err, "path", path)
		r.finish(sid, jid, req, domain.ErrorStatus(""))
		return
	}

	status := domain.CompletedStatus(filepath.Base(path))
	r.finish(sid, jid, req, status)
	logger.Info("job completed", "filename", status.Filename, "duration", time.Since(start))
}

// finish writes the terminal status and mirrors it into the history store.
func (r *Runner) finish(sid domain.SessionID, jid domain.JobID, req domain.DownloadRequest, status domain.JobStatus) {
	r.reg.UpdateStatus(sid, jid, status)

	if r.hist == nil {
		return
	}
	err := r.hist.Record(context.Background(), history.Record{
		SessionID: sid,
		JobID:     jid,
		URL:       req.URL,
		Format:    string(req.Format),
		Quality:   req.Quality,
		State:     status.State,
		Filename:  status.Filename,
	})
	if err != nil {
		r.logger.Warn("failed to record job history", "job_id", jid, "error", err)
	}
}
