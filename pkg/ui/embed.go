// Package ui provides the embedded web UI for ytfetch.
package ui

import (
	_ "embed"
)

// IndexHTML is the submission form with client-side status polling.
//
//go:embed index.html
var IndexHTML []byte
