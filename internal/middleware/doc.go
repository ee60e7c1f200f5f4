// Package middleware provides HTTP middleware for the slideshow server.
//
// It includes:
//   - Request logging with log-injection sanitization
//   - Prometheus request instrumentation
//   - Gzip compression for large JSON and HTML responses
package middleware
