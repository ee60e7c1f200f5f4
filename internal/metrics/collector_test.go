package metrics

import (
	"testing"
	"time"
)

type mockStatsProvider struct {
	stats Stats
}

func (m *mockStatsProvider) GetStats() Stats {
	return m.stats
}

func TestNewCollector(t *testing.T) {
	provider := &mockStatsProvider{
		stats: Stats{
			TotalFiles:      100,
			TotalFolders:    10,
			NonEmptyFolders: 8,
			ViewedFiles:     15,
			HistoryEntries:  15,
		},
	}

	collector := NewCollector(provider, 5*time.Second)

	if collector == nil {
		t.Fatal("NewCollector returned nil")
	}

	if collector.statsProvider != provider {
		t.Error("statsProvider not set correctly")
	}

	if collector.interval != 5*time.Second {
		t.Errorf("interval = %v, want %v", collector.interval, 5*time.Second)
	}

	if collector.stopChan == nil {
		t.Error("stopChan not initialized")
	}
}

func TestCollectorStartStop(_ *testing.T) {
	provider := &mockStatsProvider{
		stats: Stats{TotalFiles: 50},
	}

	collector := NewCollector(provider, 100*time.Millisecond)

	collector.Start()
	time.Sleep(150 * time.Millisecond)
	collector.Stop()

	// Test should complete without hanging
}

func TestCollectWithNilProvider(t *testing.T) {
	collector := NewCollector(nil, 1*time.Second)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("collect() panicked with nil provider: %v", r)
		}
	}()

	collector.collect()
}

func TestCollectUpdatesMetrics(_ *testing.T) {
	provider := &mockStatsProvider{
		stats: Stats{
			TotalFiles:      150,
			TotalFolders:    25,
			NonEmptyFolders: 20,
			ViewedFiles:     30,
			HistoryEntries:  30,
		},
	}

	collector := NewCollector(provider, 1*time.Second)
	collector.collect()

	// Verify metrics can be collected again without error
	collector.collect()
}

func TestCollectorStopBeforeStart(t *testing.T) {
	provider := &mockStatsProvider{}
	collector := NewCollector(provider, 1*time.Second)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Stop() before Start() panicked: %v", r)
		}
	}()

	collector.Stop()
}

func TestCollectorImmediateCollection(_ *testing.T) {
	provider := &mockStatsProvider{
		stats: Stats{TotalFiles: 50},
	}

	// Start should trigger immediate collection even with a long interval.
	collector := NewCollector(provider, 1*time.Hour)
	collector.Start()
	time.Sleep(10 * time.Millisecond)
	collector.Stop()
}

func TestCollectorWithLargeStats(_ *testing.T) {
	provider := &mockStatsProvider{
		stats: Stats{
			TotalFiles:      1000000,
			TotalFolders:    50000,
			NonEmptyFolders: 45000,
			ViewedFiles:     100000,
			HistoryEntries:  500,
		},
	}

	collector := NewCollector(provider, 1*time.Second)
	collector.collect()
}

func TestStatsProviderInterface(_ *testing.T) {
	var _ StatsProvider = (*mockStatsProvider)(nil)
}
