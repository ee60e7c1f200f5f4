package viewer

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func buildTree(t *testing.T, folders map[string][]string) string {
	t.Helper()
	root := t.TempDir()
	for dir, files := range folders {
		full := filepath.Join(root, dir)
		if err := os.MkdirAll(full, 0o755); err != nil {
			t.Fatal(err)
		}
		for _, name := range files {
			if err := os.WriteFile(filepath.Join(full, name), []byte("x"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
	return root
}

// startViewer scans root to completion before returning.
func startViewer(t *testing.T, root string, cfg Config) *Viewer {
	t.Helper()
	cfg.Root = root
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	v := New(cfg)
	if err := v.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(v.Close)
	v.Controller().Wait()
	return v
}

func TestNextRandomOnEmptyCollection(t *testing.T) {
	v := startViewer(t, t.TempDir(), Config{})

	if _, ok := v.Next(ModeRandom); ok {
		t.Error("Next(random) should fail on an empty collection")
	}
	if _, ok := v.Current(); ok {
		t.Error("Current should fail before anything was shown")
	}
}

func TestNextRandomRecordsHistoryAndViewed(t *testing.T) {
	root := buildTree(t, map[string][]string{
		"a": {"1.jpg", "2.jpg"},
		"b": {"3.jpg", "4.jpg"},
	})
	v := startViewer(t, root, Config{})

	for i := 0; i < 4; i++ {
		if _, ok := v.Next(ModeRandom); !ok {
			t.Fatalf("Next(random) failed at step %d", i)
		}
	}

	if got := v.ViewedCount(); got == 0 {
		t.Error("ViewedCount() = 0 after showing images")
	}
	cur, ok := v.Current()
	if !ok {
		t.Fatal("Current failed after showing images")
	}
	if cur.Replaying {
		t.Error("Current should be live, not replaying")
	}
}

func TestPrevRandomReplaysHistory(t *testing.T) {
	root := buildTree(t, map[string][]string{
		"a": {"1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg", "6.jpg"},
	})
	v := startViewer(t, root, Config{UsePermutation: true})

	var shown []Entry
	for i := 0; i < 4; i++ {
		e, ok := v.Next(ModeRandom)
		if !ok {
			t.Fatalf("Next(random) failed at step %d", i)
		}
		shown = append(shown, e)
	}

	// Prev shows the image before the one on screen.
	e, ok := v.Prev(ModeRandom)
	if !ok || e.Path != shown[2].Path {
		t.Fatalf("first Prev = (%+v, %v), want %s", e, ok, shown[2].Path)
	}
	if !e.Replaying {
		t.Error("replayed entry should be flagged as replaying")
	}

	e, ok = v.Prev(ModeRandom)
	if !ok || e.Path != shown[1].Path {
		t.Fatalf("second Prev = (%+v, %v), want %s", e, ok, shown[1].Path)
	}

	// Next walks forward through history before resuming live play.
	e, ok = v.Next(ModeRandom)
	if !ok || e.Path != shown[2].Path {
		t.Fatalf("Next after Prev = (%+v, %v), want %s", e, ok, shown[2].Path)
	}
	e, ok = v.Next(ModeRandom)
	if !ok || e.Path != shown[3].Path {
		t.Fatalf("Next to newest = (%+v, %v), want %s", e, ok, shown[3].Path)
	}

	// One more Next is a fresh live pick.
	e, ok = v.Next(ModeRandom)
	if !ok {
		t.Fatal("Next past newest should resume live navigation")
	}
	if e.Replaying {
		t.Error("live pick flagged as replaying")
	}
}

func TestHistoryBackNewestFirst(t *testing.T) {
	root := buildTree(t, map[string][]string{
		"a": {"1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg"},
	})
	v := startViewer(t, root, Config{UsePermutation: true})

	var shown []Entry
	for i := 0; i < 3; i++ {
		e, ok := v.Next(ModeRandom)
		if !ok {
			t.Fatalf("Next failed at step %d", i)
		}
		shown = append(shown, e)
	}

	// Back revisits the newest entry first, then older ones.
	for i := 2; i >= 0; i-- {
		e, ok := v.HistoryBack()
		if !ok || e.Path != shown[i].Path {
			t.Fatalf("HistoryBack = (%+v, %v), want %s", e, ok, shown[i].Path)
		}
	}
	if _, ok := v.HistoryBack(); ok {
		t.Error("HistoryBack past the oldest entry should fail")
	}

	// Forward returns toward the present.
	e, ok := v.HistoryForward()
	if !ok || e.Path != shown[1].Path {
		t.Fatalf("HistoryForward = (%+v, %v), want %s", e, ok, shown[1].Path)
	}
}

func TestHistoryForwardAtLiveFails(t *testing.T) {
	root := buildTree(t, map[string][]string{"a": {"1.jpg"}})
	v := startViewer(t, root, Config{})

	if _, ok := v.Next(ModeRandom); !ok {
		t.Fatal("Next failed")
	}
	if _, ok := v.HistoryForward(); ok {
		t.Error("HistoryForward while live should fail")
	}
}

func TestSequentialBoundaries(t *testing.T) {
	root := buildTree(t, map[string][]string{
		"a": {"1.jpg", "2.jpg"},
	})
	v := startViewer(t, root, Config{})

	// Home lands on the first file of the first non-empty folder.
	e, ok := v.Next(ModeHome)
	if !ok || e.Name != "1.jpg" {
		t.Fatalf("Next(home) = (%+v, %v), want 1.jpg", e, ok)
	}

	// At the first file, Prev(file) reports the boundary, no wraparound.
	if _, ok := v.Prev(ModeFile); ok {
		t.Error("Prev(file) at the first file should fail")
	}

	e, ok = v.Next(ModeFile)
	if !ok || e.Name != "2.jpg" {
		t.Fatalf("Next(file) = (%+v, %v), want 2.jpg", e, ok)
	}
	if _, ok := v.Next(ModeFile); ok {
		t.Error("Next(file) at the last file should fail")
	}
}

func TestFolderModeAfterReplayResumesFromCurrent(t *testing.T) {
	root := buildTree(t, map[string][]string{
		"a": {"a1.jpg"},
		"b": {"b1.jpg"},
		"c": {"c1.jpg"},
	})
	v := startViewer(t, root, Config{})

	// Show a then b sequentially.
	if _, ok := v.Next(ModeHome); !ok {
		t.Fatal("home failed")
	}
	e, ok := v.Next(ModeFolder)
	if !ok || e.Folder != filepath.Join(root, "b") {
		t.Fatalf("Next(folder) = (%+v, %v), want folder b", e, ok)
	}

	// Step back in history to a, then a live folder move continues from a.
	if _, ok := v.Prev(ModeRandom); !ok {
		t.Fatal("Prev failed")
	}
	e, ok = v.Next(ModeFolder)
	if !ok || e.Folder != filepath.Join(root, "b") {
		t.Fatalf("Next(folder) after replay = (%+v, %v), want folder b", e, ok)
	}
}

func TestHistoryShrinksForSmallCollections(t *testing.T) {
	root := buildTree(t, map[string][]string{
		"a": {"1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg"},
	})
	v := startViewer(t, root, Config{HistorySize: 500})

	// The shrink runs asynchronously after the scan completes.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		v.mu.Lock()
		c := v.ring.Cap()
		v.mu.Unlock()
		if c == 4 { // 80% of 5
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	t.Errorf("ring cap = %d, want 4 after scan of 5 images", v.ring.Cap())
}

func TestRescanKeepsHistory(t *testing.T) {
	root := buildTree(t, map[string][]string{"a": {"1.jpg"}})
	v := startViewer(t, root, Config{})

	e, ok := v.Next(ModeRandom)
	if !ok {
		t.Fatal("Next failed")
	}

	if err := v.Rescan(); err != nil {
		t.Fatalf("Rescan: %v", err)
	}
	v.Controller().Wait()

	// History survives, and the replayed path is still resolvable.
	got, ok := v.HistoryBack()
	if !ok || got.Path != e.Path {
		t.Fatalf("HistoryBack after rescan = (%+v, %v), want %s", got, ok, e.Path)
	}
}

func TestRescanPicksUpNewFiles(t *testing.T) {
	root := buildTree(t, map[string][]string{"a": {"1.jpg"}})
	v := startViewer(t, root, Config{})

	if err := os.WriteFile(filepath.Join(root, "a", "2.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := v.Rescan(); err != nil {
		t.Fatalf("Rescan: %v", err)
	}
	v.Controller().Wait()

	if got := v.GetStats().TotalFiles; got != 2 {
		t.Errorf("TotalFiles after rescan = %d, want 2", got)
	}
}

func TestValidMode(t *testing.T) {
	for _, m := range []Mode{ModeRandom, ModeFile, ModeFolder, ModeHome} {
		if !ValidMode(m) {
			t.Errorf("ValidMode(%q) = false", m)
		}
	}
	if ValidMode("teleport") {
		t.Error(`ValidMode("teleport") = true`)
	}
}

func TestGetStats(t *testing.T) {
	root := buildTree(t, map[string][]string{
		"a": {"1.jpg", "2.jpg"},
		"b": {},
	})
	v := startViewer(t, root, Config{})

	if _, ok := v.Next(ModeRandom); !ok {
		t.Fatal("Next failed")
	}

	stats := v.GetStats()
	if stats.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, want 2", stats.TotalFiles)
	}
	if stats.TotalFolders != 3 { // root, a, b
		t.Errorf("TotalFolders = %d, want 3", stats.TotalFolders)
	}
	if stats.NonEmptyFolders != 1 {
		t.Errorf("NonEmptyFolders = %d, want 1", stats.NonEmptyFolders)
	}
	if stats.ViewedFiles != 1 {
		t.Errorf("ViewedFiles = %d, want 1", stats.ViewedFiles)
	}
	if stats.HistoryEntries != 1 {
		t.Errorf("HistoryEntries = %d, want 1", stats.HistoryEntries)
	}
}
