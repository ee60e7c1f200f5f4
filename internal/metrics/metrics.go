package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slideshow_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slideshow_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Scanner metrics
var (
	ScannerRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slideshow_scanner_runs_total",
			Help: "Total number of scan sessions started",
		},
	)

	ScannerRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_scanner_running",
			Help: "Whether a scan is currently running (1 = running, 0 = idle)",
		},
	)

	ScannerSkipsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slideshow_scanner_skips_total",
			Help: "Total number of entries skipped due to filesystem errors",
		},
	)

	ScannerLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_scanner_last_run_duration_seconds",
			Help: "Duration of the last completed scan in seconds",
		},
	)

	ScannerLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_scanner_last_run_timestamp",
			Help: "Unix timestamp of the last completed scan",
		},
	)
)

// Navigation metrics
var (
	NavigationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slideshow_navigation_requests_total",
			Help: "Total number of navigation requests by mode and outcome",
		},
		[]string{"mode", "status"},
	)

	HistoryEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_history_entries",
			Help: "Number of entries currently held in the history ring",
		},
	)

	ViewedFilesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_viewed_files",
			Help: "Number of distinct images shown this session",
		},
	)
)

// Library metrics
var (
	LibraryFilesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_library_files_total",
			Help: "Total number of images known to the index",
		},
	)

	LibraryFoldersTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_library_folders_total",
			Help: "Total number of folders known to the index",
		},
	)

	LibraryNonEmptyFolders = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_library_nonempty_folders",
			Help: "Number of folders holding at least one image",
		},
	)
)

// Watcher metrics
var (
	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slideshow_watcher_events_total",
			Help: "Total number of filesystem watcher events",
		},
		[]string{"event_type"},
	)

	WatcherErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slideshow_watcher_errors_total",
			Help: "Total number of filesystem watcher errors",
		},
	)

	WatchedDirectories = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_watched_directories",
			Help: "Number of directories currently being watched",
		},
	)
)

// Authentication metrics
var (
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slideshow_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_active_sessions",
			Help: "Number of active user sessions",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slideshow_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
