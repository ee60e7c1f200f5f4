package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func okHandler(body string, contentType string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		_, _ = w.Write([]byte(body))
	})
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/next", "/api/next"},
		{"/api/progress", "/api/progress"},
		{"/api/file/photos/2024/img.jpg", "/api/file/{path}"},
		{"/api/file/a", "/api/file/{path}"},
		{"/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizePath(tt.path); got != tt.want {
				t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestMetricsMiddlewarePassesThrough(t *testing.T) {
	handler := Metrics(DefaultMetricsConfig())(okHandler("hello", "text/plain"))

	req := httptest.NewRequest(http.MethodGet, "/api/next", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "hello" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "hello")
	}
}

func TestMetricsMiddlewareSkipsConfiguredPaths(t *testing.T) {
	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	handler := Metrics(DefaultMetricsConfig())(inner)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("skipped path should still reach the inner handler")
	}
}

func TestMetricsMiddlewareCapturesStatus(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	handler := Metrics(DefaultMetricsConfig())(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/next", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestLoggerMiddlewarePassesThrough(t *testing.T) {
	handler := Logger(DefaultLoggingConfig())(okHandler("body", "text/plain"))

	req := httptest.NewRequest(http.MethodGet, "/api/progress", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "body" {
		t.Errorf("response = (%d, %q), want (200, body)", rec.Code, rec.Body.String())
	}
}

func TestShouldSkip(t *testing.T) {
	cfg := DefaultLoggingConfig()

	tests := []struct {
		path string
		want bool
	}{
		{"/api/next", false},
		{"/api/file/photos/img.jpg", true}, // image fetches are noise
		{"/healthz", true},
		{"/livez", true},
		{"/", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := shouldSkip(tt.path, cfg); got != tt.want {
				t.Errorf("shouldSkip(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestShouldSkipRespectsOverrides(t *testing.T) {
	cfg := LoggingConfig{
		SkipPaths:        []string{"/internal"},
		LogImageRequests: true,
		LogHealthChecks:  true,
	}

	if !shouldSkip("/internal/debug", cfg) {
		t.Error("configured SkipPaths prefix not honored")
	}
	if shouldSkip("/api/file/img.jpg", cfg) {
		t.Error("image requests should log when enabled")
	}
	if shouldSkip("/healthz", cfg) {
		t.Error("health checks should log when enabled")
	}
}

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean", "GET /api/next", "GET /api/next"},
		{"newline", "evil\ninjected", "evil injected"},
		{"carriage return", "a\rb", "a b"},
		{"ansi escape", "red\x1b[31mtext", "red[31mtext"},
		{"null byte", "a\x00b", "ab"},
		{"tab kept", "a\tb", "a\tb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeLogField(tt.input); got != tt.want {
				t.Errorf("sanitizeLogField(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*http.Request)
		remote string
		want   string
	}{
		{
			name:   "remote addr",
			setup:  func(_ *http.Request) {},
			remote: "192.0.2.10:4321",
			want:   "192.0.2.10",
		},
		{
			name: "x-forwarded-for single",
			setup: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", "203.0.113.5")
			},
			remote: "10.0.0.1:80",
			want:   "203.0.113.5",
		},
		{
			name: "x-forwarded-for chain",
			setup: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.2")
			},
			remote: "10.0.0.1:80",
			want:   "203.0.113.5",
		},
		{
			name: "x-real-ip",
			setup: func(r *http.Request) {
				r.Header.Set("X-Real-IP", "198.51.100.7")
			},
			remote: "10.0.0.1:80",
			want:   "198.51.100.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			tt.setup(req)
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompressionLargeJSON(t *testing.T) {
	body := strings.Repeat(`{"path":"/photos/img.jpg"},`, 200)
	handler := Compression(DefaultCompressionConfig())(okHandler(body, "application/json"))

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}

	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	decoded, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read gzip body: %v", err)
	}
	if string(decoded) != body {
		t.Error("decompressed body does not match original")
	}
}

func TestCompressionSkipsSmallResponses(t *testing.T) {
	handler := Compression(DefaultCompressionConfig())(okHandler(`{"ok":true}`, "application/json"))

	req := httptest.NewRequest(http.MethodGet, "/api/progress", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got == "gzip" {
		t.Error("small response should not be compressed")
	}
	if rec.Body.String() != `{"ok":true}` {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestCompressionSkipsImages(t *testing.T) {
	body := strings.Repeat("binaryimagedata", 500)
	handler := Compression(DefaultCompressionConfig())(okHandler(body, "image/jpeg"))

	req := httptest.NewRequest(http.MethodGet, "/api/file/x.jpg", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got == "gzip" {
		t.Error("image payloads should never be compressed")
	}
}

func TestCompressionSkipsWithoutAcceptEncoding(t *testing.T) {
	body := strings.Repeat("a", 5000)
	handler := Compression(DefaultCompressionConfig())(okHandler(body, "application/json"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got == "gzip" {
		t.Error("response compressed without Accept-Encoding: gzip")
	}
	if rec.Body.String() != body {
		t.Error("body altered without compression")
	}
}

func TestCompressionPreservesStatusCode(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	})
	handler := Compression(DefaultCompressionConfig())(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/missing", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestMiddlewareChain(t *testing.T) {
	handler := Logger(DefaultLoggingConfig())(
		Metrics(DefaultMetricsConfig())(
			Compression(DefaultCompressionConfig())(
				okHandler(`{"ok":true}`, "application/json"))))

	req := httptest.NewRequest(http.MethodGet, "/api/next", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != `{"ok":true}` {
		t.Errorf("body = %q", rec.Body.String())
	}
}
