package fetcher

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/colebaker/ytfetch/internal/domain"
)

// YTDLP is the production Fetcher, driving the yt-dlp binary through
// lrstanley/go-ytdlp.
type YTDLP struct {
	progressInterval time.Duration
}

// NewYTDLP creates a yt-dlp backed fetcher.
func NewYTDLP(progressInterval time.Duration) *YTDLP {
	if progressInterval <= 0 {
		progressInterval = 500 * time.Millisecond
	}
	return &YTDLP{progressInterval: progressInterval}
}

// Fetch downloads the requested media into destDir. The output is named
// <jobID>-<title>.<ext> so concurrent jobs in one session directory never
// collide. Returns the final on-disk path.
func (f *YTDLP) Fetch(ctx context.Context, req domain.DownloadRequest, destDir string, jobID domain.JobID, onProgress ProgressFunc) (string, error) {
	// Both output profiles run an ffmpeg postprocessor (audio extraction or
	// stream merge), so its absence is fatal for the job before any network
	// activity happens.
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return "", domain.ErrFFmpegMissing
	}

	dl := ytdlp.New().
		NoPlaylist().
		RestrictFilenames().
		Output(filepath.Join(destDir, jobID.String()+"-%(title)s.%(ext)s"))

	switch req.Format {
	case domain.FormatMP3:
		dl = dl.Format("bestaudio/best").
			ExtractAudio().
			AudioFormat("mp3").
			AudioQuality(mp3AudioQuality(req.Quality))
	default:
		dl = dl.Format(mp4FormatSelector(req.Quality)).
			MergeOutputFormat("mp4")
	}

	if onProgress != nil {
		dl = dl.ProgressFunc(f.progressInterval, func(update ytdlp.ProgressUpdate) {
			switch update.Status {
			case ytdlp.ProgressStatusDownloading:
				onProgress(Progress{
					Stage:           StageDownloading,
					DownloadedBytes: int64(update.DownloadedBytes),
					TotalBytes:      int64(update.TotalBytes),
				})
			case ytdlp.ProgressStatusFinished, ytdlp.ProgressStatusPostProcessing:
				onProgress(Progress{
					Stage:           StageFinished,
					DownloadedBytes: int64(update.DownloadedBytes),
					TotalBytes:      int64(update.TotalBytes),
				})
			}
		})
	}

	result, err := dl.Run(ctx, req.URL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	path, err := f.resolveOutput(result, destDir, jobID)
	if err != nil {
		return "", err
	}
	if req.Format == domain.FormatMP3 {
		// The postprocessor converts in place; the collaborator may still
		// report the source container's name.
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ".mp3"
	}
	return path, nil
}

// resolveOutput determines the produced file's path, preferring the
// collaborator's extracted metadata and falling back to the job-prefixed
// output template.
func (f *YTDLP) resolveOutput(result *ytdlp.Result, destDir string, jobID domain.JobID) (string, error) {
	if result != nil {
		if info, err := result.GetExtractedInfo(); err == nil && len(info) > 0 {
			if info[0].Filename != nil && *info[0].Filename != "" {
				return *info[0].Filename, nil
			}
		}
	}

	matches, err := filepath.Glob(filepath.Join(destDir, jobID.String()+"-*"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("%w: produced file not found", domain.ErrFetchFailed)
	}
	return matches[0], nil
}
