// Package fetcher wraps the external media-fetch collaborator. The rest of
// the system treats it as a black box that takes a URL and a quality/format
// profile, emits progress along the way, and returns a local file.
package fetcher

import (
	"context"

	"github.com/colebaker/ytfetch/internal/domain"
)

// Stage marks which phase of the transfer a progress event belongs to.
type Stage string

const (
	// StageDownloading is emitted zero or more times with byte counts.
	StageDownloading Stage = "downloading"

	// StageFinished is emitted once when the raw transfer ends;
	// post-processing (merge/convert) may still be running.
	StageFinished Stage = "finished"
)

// Progress is one progress event from the collaborator.
type Progress struct {
	Stage           Stage
	DownloadedBytes int64
	TotalBytes      int64
}

// ProgressFunc receives progress events during a fetch.
type ProgressFunc func(Progress)

// Fetcher fetches media from a URL into destDir and returns the final
// on-disk path of the produced file.
type Fetcher interface {
	Fetch(ctx context.Context, req domain.DownloadRequest, destDir string, jobID domain.JobID, onProgress ProgressFunc) (string, error)
}
