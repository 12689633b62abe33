package domain

import "errors"

// Domain errors.
var (
	// ErrEmptyURL is returned when a submission carries no URL.
	ErrEmptyURL = errors.New("url is required")

	// ErrJobExists is returned when a job key is created twice. With UUID
	// ids this indicates an internal invariant violation.
	ErrJobExists = errors.New("job already exists")

	// ErrOutputNotFound is returned when no completed output is recorded
	// for a job.
	ErrOutputNotFound = errors.New("output not found")

	// ErrOutputAlreadySet is returned when an output path is recorded twice
	// for the same job.
	ErrOutputAlreadySet = errors.New("output already set")

	// ErrFFmpegMissing is returned when the external transcoding tool is
	// not installed. The message is intentionally operator-actionable.
	ErrFFmpegMissing = errors.New("ffmpeg is required for media conversion; install FFmpeg and restart the server")

	// ErrFetchFailed is returned when the fetch collaborator fails.
	ErrFetchFailed = errors.New("media fetch failed")
)
