package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLogger_RequestLine(t *testing.T) {
	buf := captureLogs(t)

	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("hello"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/status/abc", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("parse log line: %v (%q)", err, buf.String())
	}
	if line["method"] != http.MethodGet || line["path"] != "/status/abc" {
		t.Errorf("log line = %v", line)
	}
	if line["status"] != float64(http.StatusAccepted) {
		t.Errorf("status = %v, want 202", line["status"])
	}
	if line["size"] != float64(len("hello")) {
		t.Errorf("size = %v, want %d", line["size"], len("hello"))
	}
	if line["has_session"] != false {
		t.Errorf("has_session = %v, want false for a cookieless request", line["has_session"])
	}
}

func TestLogger_ReportsSessionPresence(t *testing.T) {
	buf := captureLogs(t)

	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: uuid.New().String()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("parse log line: %v (%q)", err, buf.String())
	}
	if line["has_session"] != true {
		t.Errorf("has_session = %v, want true", line["has_session"])
	}
}
