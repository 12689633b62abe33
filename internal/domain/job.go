package domain

import (
	"fmt"
	"math"
)

// SessionID is an opaque per-client identifier. Jobs are only visible to
// the session that created them.
type SessionID string

// String returns the string representation of the SessionID.
func (id SessionID) String() string {
	return string(id)
}

// JobID is a unique identifier for a download job.
type JobID string

// String returns the string representation of the JobID.
func (id JobID) String() string {
	return string(id)
}

// JobState represents the current lifecycle state of a job.
type JobState string

const (
	StateReady       JobState = "ready"
	StateDownloading JobState = "downloading"
	StateProcessing  JobState = "processing"
	StateCompleted   JobState = "completed"
	StateError       JobState = "error"
)

// IsTerminal reports whether no further transitions may leave the state.
func (s JobState) IsTerminal() bool {
	return s == StateCompleted || s == StateError
}

// Format is the requested output container.
type Format string

const (
	FormatMP3 Format = "mp3"
	FormatMP4 Format = "mp4"
)

// DownloadRequest is a validated user submission.
type DownloadRequest struct {
	URL     string
	Quality string
	Format  Format
}

// NormalizeFormat maps a raw format string onto a supported Format.
// Anything that is not mp3 is treated as mp4.
func NormalizeFormat(s string) Format {
	if s == string(FormatMP3) {
		return FormatMP3
	}
	return FormatMP4
}

// JobStatus is a full snapshot of a job's progress. Updates always replace
// the whole snapshot, never patch individual fields, so every snapshot is
// self-consistent on its own.
type JobStatus struct {
	State        JobState `json:"status"`
	Message      string   `json:"message"`
	DownloadedMB float64  `json:"downloaded_mb"`
	TotalMB      float64  `json:"total_mb"`
	Percent      float64  `json:"percent"`
	Filename     string   `json:"filename"`
}

// ReadyStatus is the initial snapshot, and also what an unknown job id
// reports when queried.
func ReadyStatus() JobStatus {
	return JobStatus{
		State:   StateReady,
		Message: "Ready to download",
	}
}

// InitializingStatus is written by the runner before any network activity,
// so a poll right after submission is well-defined.
func InitializingStatus() JobStatus {
	return JobStatus{
		State:   StateDownloading,
		Message: "Initializing...",
	}
}

// DownloadingStatus builds a snapshot from raw byte counts. Percent is
// downloaded/total*100 rounded to one decimal; when the total is unknown the
// percent and total report as zero rather than failing.
func DownloadingStatus(downloaded, total int64) JobStatus {
	downloadedMB := roundMB(downloaded)
	totalMB := 0.0
	percent := 0.0
	if total > 0 {
		totalMB = roundMB(total)
		// The total can be an undershooting estimate, so the ratio may
		// exceed 1; percent stays capped at 100.
		percent = math.Min(math.Round(float64(downloaded)/float64(total)*1000)/10, 100)
	}
	return JobStatus{
		State: StateDownloading,
		Message: fmt.Sprintf("Downloading... %.2f MB / %.2f MB (%.1f%%)",
			downloadedMB, totalMB, percent),
		DownloadedMB: downloadedMB,
		TotalMB:      totalMB,
		Percent:      percent,
	}
}

// ProcessingStatus signals that the raw transfer finished but
// post-processing may still be running. Percent is deliberately 100 here
// while the state stays distinct from completed.
func ProcessingStatus() JobStatus {
	return JobStatus{
		State:   StateProcessing,
		Message: "Processing... Almost done!",
		Percent: 100,
	}
}

// CompletedStatus is the terminal success snapshot.
func CompletedStatus(filename string) JobStatus {
	return JobStatus{
		State:    StateCompleted,
		Message:  "Download completed! Click to save to your device.",
		Percent:  100,
		Filename: filename,
	}
}

// ErrorStatus is the terminal failure snapshot. The message is generic and
// non-sensitive; the underlying failure is logged server-side only.
func ErrorStatus(message string) JobStatus {
	if message == "" {
		message = "Download failed. Please try again later."
	}
	return JobStatus{
		State:   StateError,
		Message: message,
	}
}

func roundMB(bytes int64) float64 {
	return math.Round(float64(bytes)/(1024*1024)*100) / 100
}
