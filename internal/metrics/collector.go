package metrics

import (
	"time"

	"random-slideshow/internal/logging"
)

// StatsProvider interface for collecting stats
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current library and session statistics
type Stats struct {
	TotalFiles      int
	TotalFolders    int
	NonEmptyFolders int
	ViewedFiles     int
	HistoryEntries  int
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	LibraryFilesTotal.Set(float64(stats.TotalFiles))
	LibraryFoldersTotal.Set(float64(stats.TotalFolders))
	LibraryNonEmptyFolders.Set(float64(stats.NonEmptyFolders))
	ViewedFilesTotal.Set(float64(stats.ViewedFiles))
	HistoryEntries.Set(float64(stats.HistoryEntries))

	logging.Debug("Metrics collected: files=%d, folders=%d, viewed=%d, history=%d",
		stats.TotalFiles, stats.TotalFolders, stats.ViewedFiles, stats.HistoryEntries)
}
