package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// CompressionConfig holds configuration for the compression middleware
type CompressionConfig struct {
	// MinSize is the minimum response size in bytes before compression
	MinSize int
	// CompressibleTypes lists content types worth compressing. Image
	// payloads are excluded: they are already compressed formats.
	CompressibleTypes []string
}

// DefaultCompressionConfig returns sensible defaults for compression
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize: 1024,
		CompressibleTypes: []string{
			"application/json",
			"text/html",
			"text/plain",
			"image/svg+xml",
		},
	}
}

// gzipWriterPool reduces allocations by reusing gzip writers
var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression)
		return w
	},
}

// gzipResponseWriter buffers the response head until it knows whether the
// body is large and compressible enough to bother.
type gzipResponseWriter struct {
	http.ResponseWriter
	gzipWriter     *gzip.Writer
	config         CompressionConfig
	buffer         []byte
	statusCode     int
	headerWritten  bool
	shouldCompress bool
}

func newGzipResponseWriter(w http.ResponseWriter, config CompressionConfig) *gzipResponseWriter {
	return &gzipResponseWriter{
		ResponseWriter: w,
		config:         config,
		statusCode:     http.StatusOK,
		buffer:         make([]byte, 0, config.MinSize+1),
	}
}

func (g *gzipResponseWriter) WriteHeader(statusCode int) {
	if g.headerWritten {
		return
	}
	g.statusCode = statusCode
}

func (g *gzipResponseWriter) Write(data []byte) (int, error) {
	if g.headerWritten {
		if g.shouldCompress {
			return g.gzipWriter.Write(data)
		}
		return g.ResponseWriter.Write(data)
	}

	g.buffer = append(g.buffer, data...)
	if len(g.buffer) > g.config.MinSize {
		g.finalize()
	}
	return len(data), nil
}

func (g *gzipResponseWriter) compressibleContentType() bool {
	contentType := g.Header().Get("Content-Type")
	if contentType == "" {
		return false
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	for _, compressible := range g.config.CompressibleTypes {
		if mediaType == compressible {
			return true
		}
	}
	return false
}

// finalize decides whether to compress and flushes the buffered head.
func (g *gzipResponseWriter) finalize() {
	if g.headerWritten {
		return
	}
	g.headerWritten = true
	g.shouldCompress = len(g.buffer) >= g.config.MinSize && g.compressibleContentType()

	if g.shouldCompress {
		g.Header().Del("Content-Length")
		g.Header().Set("Content-Encoding", "gzip")
		g.Header().Add("Vary", "Accept-Encoding")

		g.gzipWriter = gzipWriterPool.Get().(*gzip.Writer)
		g.gzipWriter.Reset(g.ResponseWriter)
		g.ResponseWriter.WriteHeader(g.statusCode)
		_, _ = g.gzipWriter.Write(g.buffer)
	} else {
		g.ResponseWriter.WriteHeader(g.statusCode)
		_, _ = g.ResponseWriter.Write(g.buffer)
	}
	g.buffer = nil
}

// Close flushes any buffered data and returns the gzip writer to the pool.
func (g *gzipResponseWriter) Close() error {
	if !g.headerWritten {
		g.finalize()
	}
	if g.gzipWriter != nil {
		err := g.gzipWriter.Close()
		gzipWriterPool.Put(g.gzipWriter)
		g.gzipWriter = nil
		return err
	}
	return nil
}

// Flush implements http.Flusher
func (g *gzipResponseWriter) Flush() {
	if !g.headerWritten {
		g.finalize()
	}
	if g.gzipWriter != nil {
		_ = g.gzipWriter.Flush()
	}
	if flusher, ok := g.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Compression returns a middleware that gzips large compressible responses
func Compression(config CompressionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
				next.ServeHTTP(w, r)
				return
			}

			gzw := newGzipResponseWriter(w, config)
			defer gzw.Close()

			next.ServeHTTP(gzw, r)
		})
	}
}
