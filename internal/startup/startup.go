package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"random-slideshow/internal/logging"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration
type Config struct {
	RootDir string
	Port    string

	HistorySize    int
	ScanArchives   bool
	SortNatural    bool
	SkipHidden     bool
	UsePermutation bool
	RandomFirst    bool
	RandomSeed     int64

	WatchEnabled   bool
	MetricsEnabled bool

	LogImageRequests bool
	LogHealthChecks  bool

	// AuthPassword enables login when non-empty. Never logged.
	AuthPassword string
}

// LoadConfig loads and validates configuration from environment variables.
// A positional command-line argument overrides ROOT_DIR.
func LoadConfig(args []string) (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	rootDir := getEnv("ROOT_DIR", "/images")
	if len(args) > 0 && args[0] != "" {
		rootDir = args[0]
	}

	config := &Config{
		RootDir:          rootDir,
		Port:             getEnv("PORT", "8080"),
		HistorySize:      getEnvInt("HISTORY_SIZE", 500),
		ScanArchives:     getEnvBool("SCAN_ARCHIVES", true),
		SortNatural:      getEnvBool("SORT_NATURAL", true),
		SkipHidden:       getEnvBool("SKIP_HIDDEN", true),
		UsePermutation:   getEnvBool("USE_PERMUTATION", false),
		RandomFirst:      getEnvBool("RANDOM_FIRST", true),
		RandomSeed:       getEnvInt64("RANDOM_SEED", 0),
		WatchEnabled:     getEnvBool("WATCH_ENABLED", true),
		MetricsEnabled:   getEnvBool("METRICS_ENABLED", true),
		LogImageRequests: getEnvBool("LOG_IMAGE_REQUESTS", false),
		LogHealthChecks:  getEnvBool("LOG_HEALTH_CHECKS", false),
		AuthPassword:     os.Getenv("AUTH_PASSWORD"),
	}

	if config.HistorySize < 1 {
		logging.Warn("  Invalid HISTORY_SIZE, using default: 500")
		config.HistorySize = 500
	}

	logging.Info("  ROOT_DIR:            %s", config.RootDir)
	logging.Info("  PORT:                %s", config.Port)
	logging.Info("  HISTORY_SIZE:        %d", config.HistorySize)
	logging.Info("  SCAN_ARCHIVES:       %v", config.ScanArchives)
	logging.Info("  SORT_NATURAL:        %v", config.SortNatural)
	logging.Info("  SKIP_HIDDEN:         %v", config.SkipHidden)
	logging.Info("  USE_PERMUTATION:     %v", config.UsePermutation)
	logging.Info("  RANDOM_FIRST:        %v", config.RandomFirst)
	logging.Info("  WATCH_ENABLED:       %v", config.WatchEnabled)
	logging.Info("  METRICS_ENABLED:     %v", config.MetricsEnabled)
	logging.Info("  LOG_IMAGE_REQUESTS:  %v", config.LogImageRequests)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", config.LogHealthChecks)
	logging.Info("  AUTH:                %s", enabledString(config.AuthPassword != ""))
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("LIBRARY SETUP")
	logging.Info("------------------------------------------------------------")

	abs, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve library root path: %w", err)
	}
	config.RootDir = abs
	logging.Info("  Library root (absolute): %s", config.RootDir)

	info, err := os.Stat(config.RootDir)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("library root does not exist: %s", config.RootDir)
	case err != nil:
		return nil, fmt.Errorf("failed to stat library root: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("library root is not a directory: %s", config.RootDir)
	}
	logging.Info("  [OK] Library root exists")

	return config, nil
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// LogScanStarted logs the start of the initial library scan
func LogScanStarted(root string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("LIBRARY SCAN")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Scanning %s in the background...", root)
	logging.Info("  Navigation is available as soon as the first image is found")
}

// LogWatcherStarted logs successful filesystem watcher start
func LogWatcherStarted(dirs int) {
	logging.Info("  [OK] Filesystem watcher active (%d directories)", dirs)
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified (e.g., static file server)
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router, logImageRequests, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))
		logging.Debug("")

		// Group routes by prefix for cleaner output
		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			prefix := getRouteGroup(route.Path)
			groups[prefix] = append(groups[prefix], route)
		}

		// Sort group keys
		groupKeys := make([]string, 0, len(groups))
		for k := range groups {
			groupKeys = append(groupKeys, k)
		}
		sort.Strings(groupKeys)

		// Print routes by group
		for _, group := range groupKeys {
			groupRoutes := groups[group]
			if group != "" {
				logging.Debug("  [%s]", group)
			} else {
				logging.Debug("  [root]")
			}

			for _, route := range groupRoutes {
				methodPadded := fmt.Sprintf("%-6s", route.Method)
				logging.Debug("    %s %s", methodPadded, route.Path)
			}
			logging.Debug("")
		}
	}

	logging.Info("  HTTP logging enabled")
	if logImageRequests {
		logging.Info("    Image request logging: ON")
	} else {
		logging.Info("    Image request logging: OFF (set LOG_IMAGE_REQUESTS=true to enable)")
	}
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// getRouteGroup extracts a group name from a route path
func getRouteGroup(path string) string {
	// Remove leading slash
	path = strings.TrimPrefix(path, "/")

	// Get first segment
	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 0 {
		return ""
	}

	first := parts[0]

	// Special handling for API routes
	if first == "api" && len(parts) > 1 {
		subParts := strings.SplitN(parts[1], "/", 2)
		return "api/" + subParts[0]
	}

	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Application:   http://0.0.0.0:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.Port)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Local access:")
	logging.Info("    Application:   http://localhost:%s", config.Port)
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
    ____                  __
   / __ \____ _____  ____/ /___  ____ ___
  / /_/ / __ '/ __ \/ __  / __ \/ __ '__ \
 / _, _/ /_/ / / / / /_/ / /_/ / / / / / /
/_/ |_|\__,_/_/ /_/\__,_/\____/_/ /_/ /_/
   _____ ___     __         __
  / ___// (_)___/ /__  ____/ /_  ____ _      __
  \__ \/ / / __  / _ \/ ___/ __ \/ __ \ | /| / /
 ___/ / / / /_/ /  __(__  ) / / / /_/ / |/ |/ /
/____/_/_/\__,_/\___/____/_/ /_/\____/|__/|__/

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
