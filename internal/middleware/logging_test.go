package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/coursehub/internal/response"
)

func TestRequestIDAttachesBuilder(t *testing.T) {
	var seen string
	handler := RequestID("1.2.3")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta := response.From(r.Context()).Meta()
		seen = meta.RequestID
		if meta.Version != "1.2.3" {
			t.Errorf("version = %q, want %q", meta.Version, "1.2.3")
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if seen == "" {
		t.Fatal("expected request id on builder")
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Errorf("X-Request-ID = %q, want %q", got, seen)
	}
}

func TestRequestLoggerLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusNotFound, "level=WARN"},
		{http.StatusInternalServerError, "level=ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		handler := RequestID("v")(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		})))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/courses", nil))

		out := buf.String()
		if !strings.Contains(out, tt.level) {
			t.Errorf("status %d: log %q missing %q", tt.status, out, tt.level)
		}
		if !strings.Contains(out, "path=/api/courses") {
			t.Errorf("log %q missing path", out)
		}
		if !strings.Contains(out, "request_id=") {
			t.Errorf("log %q missing request id", out)
		}
	}
}
