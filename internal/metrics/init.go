package metrics

// InitializeMetrics pre-populates the expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	// --- Navigation requests (per mode × outcome) ---
	modes := []string{"random", "file", "folder", "home", "back", "forward"}
	for _, mode := range modes {
		NavigationRequestsTotal.WithLabelValues(mode, "success")
		NavigationRequestsTotal.WithLabelValues(mode, "boundary")
		NavigationRequestsTotal.WithLabelValues(mode, "empty")
	}

	// --- Watcher events ---
	for _, ev := range []string{"create", "write", "remove", "rename", "other"} {
		WatcherEventsTotal.WithLabelValues(ev)
	}

	// --- Authentication outcomes ---
	for _, status := range []string{"success", "failure"} {
		AuthAttemptsTotal.WithLabelValues(status)
	}
}
