// Package metrics provides Prometheus instrumentation for the slideshow
// server.
//
// All metrics are prefixed with "slideshow_" to avoid naming collisions
// with other applications. The categories are:
//
//   - HTTP: request counts, durations and in-flight gauge
//   - Scanner: scan session counts, running state, skip counts, last-run
//     duration and timestamp
//   - Navigation: request counts by mode and outcome, history depth,
//     viewed-file count
//   - Library: index-wide file and folder gauges
//   - Watcher: filesystem event and error counts, watched directories
//   - Auth: attempt counts and active sessions
//   - AppInfo: build version, commit and Go version labels
//
// Metrics are registered with the default Prometheus registry via
// promauto. To expose them, mount promhttp.Handler() on the metrics
// endpoint:
//
//	mux.Handle("/metrics", promhttp.Handler())
//
// The [Collector] type periodically gathers statistics from a
// [StatsProvider] and refreshes the library and session gauges:
//
//	collector := metrics.NewCollector(viewer, time.Minute)
//	collector.Start()
//	defer collector.Stop()
package metrics
