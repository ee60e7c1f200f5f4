// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// This package centralizes all application configuration and provides consistent
// logging throughout the application lifecycle.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig].
// A positional command-line argument overrides ROOT_DIR. The following
// environment variables are supported:
//
//   - ROOT_DIR: Path to the image library root (default: /images)
//   - PORT: HTTP server port (default: 8080)
//   - HISTORY_SIZE: Capacity of the navigation history ring (default: 500)
//   - SCAN_ARCHIVES: Treat zip/cbz archives as folders (default: true)
//   - SORT_NATURAL: Natural sort order, img2 before img10 (default: true)
//   - SKIP_HIDDEN: Skip dot-files and dot-directories (default: true)
//   - USE_PERMUTATION: Shuffle the whole collection instead of independent
//     random draws (default: false)
//   - RANDOM_FIRST: Walk a random subdirectory first so the opening image
//     appears before the full alphabetical walk reaches it (default: true)
//   - RANDOM_SEED: Fixed seed for reproducible shuffles, 0 for time-based
//   - WATCH_ENABLED: Watch the library for new files (default: true)
//   - METRICS_ENABLED: Expose Prometheus metrics on /metrics (default: true)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_IMAGE_REQUESTS: Log image fetch requests (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: false)
//   - AUTH_PASSWORD: Enables password login when set
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//   - Version: Application version
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
//
// # Lifecycle Logging
//
// The package provides structured logging functions for consistent output:
//   - [LogScanStarted]: Background library scan kickoff
//   - [LogWatcherStarted]: Filesystem watcher activation
//   - [LogHTTPRoutes]: Registered HTTP routes (debug level)
//   - [LogServerStarted]: Server endpoints and startup duration
//   - [LogShutdownInitiated]: Graceful shutdown start
//   - [LogShutdownComplete]: Shutdown completion
package startup
