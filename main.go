package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"random-slideshow/internal/handlers"
	"random-slideshow/internal/logging"
	"random-slideshow/internal/memory"
	"random-slideshow/internal/metrics"
	"random-slideshow/internal/middleware"
	"random-slideshow/internal/startup"
	"random-slideshow/internal/viewer"
	"random-slideshow/internal/watcher"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Configure GOMEMLIMIT from container limits before allocating
	memory.ConfigureFromEnv()

	// Load configuration
	config, err := startup.LoadConfig(os.Args[1:])
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		info := startup.GetBuildInfo()
		metrics.SetAppInfo(info.Version, info.Commit, info.GoVersion)
	}

	// Initialize the viewer and kick off the background scan
	v := viewer.New(viewer.Config{
		Root:           config.RootDir,
		HistorySize:    config.HistorySize,
		Archives:       config.ScanArchives,
		SkipHidden:     config.SkipHidden,
		Natural:        config.SortNatural,
		UsePermutation: config.UsePermutation,
		RandomFirst:    config.RandomFirst,
		Seed:           config.RandomSeed,
	})
	startup.LogScanStarted(config.RootDir)
	if err := v.Start(); err != nil {
		startup.LogFatal("Failed to start library scan: %v", err)
	}

	// Watch for files added while the server runs
	var w *watcher.Watcher
	if config.WatchEnabled {
		w, err = watcher.New(v.Controller(), watcher.Config{SkipHidden: config.SkipHidden})
		if err != nil {
			logging.Warn("Filesystem watcher unavailable: %v", err)
			w = nil
		} else {
			if err := w.WatchTree(config.RootDir); err != nil {
				logging.Warn("Failed to watch library tree: %v", err)
			}
			if err := w.Start(); err != nil {
				logging.Warn("Failed to start watcher: %v", err)
			} else {
				startup.LogWatcherStarted(w.WatchedCount())
			}
		}
	}

	// Periodic gauge collection
	var collector *metrics.Collector
	if config.MetricsEnabled {
		collector = metrics.NewCollector(v, 30*time.Second)
		collector.Start()
	}

	// Optional password authentication
	var sessions *handlers.SessionStore
	if config.AuthPassword != "" {
		sessions, err = handlers.NewSessionStore(config.AuthPassword)
		if err != nil {
			startup.LogFatal("Failed to initialize authentication: %v", err)
		}
	}

	// Initialize handlers
	h := handlers.New(v, sessions)

	// Setup router
	router := setupRouter(h, config)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogImageRequests, config.LogHealthChecks)

	// Apply middleware: metrics innermost, then request logging, then
	// compression on the outside.
	var handler http.Handler = router
	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogImageRequests = config.LogImageRequests
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler = middleware.Logger(loggingConfig)(handler)

	handler = middleware.Compression(middleware.DefaultCompressionConfig())(handler)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, v, w, collector)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	h.RegisterRoutes(r)

	if config.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	// Static frontend
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("./static")))

	return r
}

func handleShutdown(srv *http.Server, v *viewer.Viewer, w *watcher.Watcher, collector *metrics.Collector) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if w != nil {
		startup.LogShutdownStep("Stopping filesystem watcher")
		w.Stop()
		startup.LogShutdownStepComplete("Filesystem watcher stopped")
	}

	if collector != nil {
		startup.LogShutdownStep("Stopping metrics collector")
		collector.Stop()
		startup.LogShutdownStepComplete("Metrics collector stopped")
	}

	startup.LogShutdownStep("Canceling library scan")
	v.Close()
	startup.LogShutdownStepComplete("Library scan stopped")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
