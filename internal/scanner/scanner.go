package scanner

import (
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"sync/atomic"
	"time"

	"random-slideshow/internal/imagetypes"
	"random-slideshow/internal/index"
	"random-slideshow/internal/logging"
	"random-slideshow/internal/metrics"
	"random-slideshow/internal/vfs"
)

// defaultNotifyInterval bounds how often progress and new-file
// notifications reach the UI collaborator, regardless of discovery burst
// size.
const defaultNotifyInterval = 250 * time.Millisecond

// Config tunes a scan session.
type Config struct {
	// Archives enables browsing ZIP files as virtual folders.
	Archives bool
	// SkipHidden skips entries whose name starts with ".".
	SkipHidden bool
	// RandomFirst walks one randomly chosen top-level subdirectory to
	// completion before the stable lexicographic pass, so the first
	// random image does not have to wait for the alphabetical walk to
	// reach an arbitrary folder.
	RandomFirst bool
	// NotifyInterval bounds the notification rate (0 = default 250ms).
	NotifyInterval time.Duration
	// Seed fixes the random source; 0 seeds from the clock.
	Seed int64

	// OnProgress is called at a bounded rate with scan progress, and one
	// final time when the scan completes.
	OnProgress func(Progress)
	// OnNewFiles is called at a bounded rate whenever new images have
	// been registered since the previous notification.
	OnNewFiles func()
}

// Progress is a snapshot of a scan session. Counts never decrease during
// a session; Done transitions false to true exactly once, and only on
// natural completion (never on cancellation).
type Progress struct {
	FoldersSeen int64 `json:"foldersSeen"`
	FilesSeen   int64 `json:"filesSeen"`
	Skipped     int64 `json:"skipped"`
	Done        bool  `json:"done"`
}

// Scanner performs one scan session: an incremental walk of the directory
// tree rooted at a given path, registering discovered folders and images
// into the index as it goes. Exactly one scanner mutates an index at a
// time; navigation reads the same index concurrently through its lock.
type Scanner struct {
	root string
	ix   *index.Index
	cfg  Config
	rng  *rand.Rand

	canceled atomic.Bool
	finished atomic.Bool // natural completion, not cancellation
	done     chan struct{}

	folders atomic.Int64
	files   atomic.Int64
	skipped atomic.Int64
}

// New creates a scanner for one session over root.
func New(root string, ix *index.Index, cfg Config) *Scanner {
	if cfg.NotifyInterval <= 0 {
		cfg.NotifyInterval = defaultNotifyInterval
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Scanner{
		root: root,
		ix:   ix,
		cfg:  cfg,
		rng:  rand.New(rand.NewSource(seed)),
		done: make(chan struct{}),
	}
}

// Start validates the root and launches the walk in the background.
// An invalid or inaccessible root is fatal for the session: the error is
// returned immediately and the walk never starts.
func (s *Scanner) Start() error {
	abs, err := filepath.Abs(s.root)
	if err != nil {
		return fmt.Errorf("resolve root %s: %w", s.root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("stat root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %s is not a directory", abs)
	}
	if _, err := os.ReadDir(abs); err != nil {
		return fmt.Errorf("root %s is not listable: %w", abs, err)
	}
	s.root = abs

	metrics.ScannerRunsTotal.Inc()
	metrics.ScannerRunning.Set(1)
	logging.Info("Starting scan of %s", s.root)

	go s.run()
	return nil
}

// Cancel requests cooperative termination. The walker notices between two
// directory visits and stops promptly, leaving the index in a partial but
// fully navigable state.
func (s *Scanner) Cancel() {
	s.canceled.Store(true)
}

// Done is closed when the walker has terminated, whether by completion or
// cancellation.
func (s *Scanner) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the walker has terminated.
func (s *Scanner) Wait() {
	<-s.done
}

// Complete reports whether the session finished a full walk.
func (s *Scanner) Complete() bool {
	return s.finished.Load()
}

// Progress returns the current scan progress snapshot.
func (s *Scanner) Progress() Progress {
	return Progress{
		FoldersSeen: s.folders.Load(),
		FilesSeen:   s.files.Load(),
		Skipped:     s.skipped.Load(),
		Done:        s.finished.Load(),
	}
}

func (s *Scanner) run() {
	start := time.Now()
	defer close(s.done)
	defer metrics.ScannerRunning.Set(0)

	stopNotify := s.startNotifier()

	visited := make(map[string]struct{})
	subs := s.visitDir(s.root, visited)

	if len(subs) > 0 && s.cfg.RandomFirst {
		// Walk one random subtree first for early visual variety, then
		// the rest in stable lexicographic order.
		pick := s.rng.Intn(len(subs))
		s.walkQueue([]string{subs[pick]}, visited)
		rest := make([]string, 0, len(subs)-1)
		rest = append(rest, subs[:pick]...)
		rest = append(rest, subs[pick+1:]...)
		s.walkQueue(rest, visited)
	} else {
		s.walkQueue(subs, visited)
	}

	stopNotify()

	if !s.canceled.Load() {
		s.finished.Store(true)
		duration := time.Since(start)
		metrics.ScannerLastRunDuration.Set(duration.Seconds())
		metrics.ScannerLastRunTimestamp.Set(float64(time.Now().Unix()))
		logging.Info("Scan complete: %d folders, %d files in %v (skipped: %d)",
			s.folders.Load(), s.files.Load(), duration, s.skipped.Load())
	} else {
		logging.Info("Scan canceled after %d folders, %d files", s.folders.Load(), s.files.Load())
	}

	// Final publish so the collaborator sees the terminal counts (and
	// done=true on natural completion).
	if s.cfg.OnProgress != nil {
		s.cfg.OnProgress(s.Progress())
	}
}

// walkQueue drains an explicit FIFO work queue of directories, checking
// the cancellation flag between every two directory visits.
func (s *Scanner) walkQueue(queue []string, visited map[string]struct{}) {
	for len(queue) > 0 {
		if s.canceled.Load() {
			return
		}
		dir := queue[0]
		queue = queue[1:]
		queue = append(queue, s.visitDir(dir, visited)...)
	}
}

// visitDir lists one directory, registers the folder and its eligible
// files, and returns the subdirectories to walk. All per-entry errors are
// recovered here: a bad directory is skipped, never fatal.
func (s *Scanner) visitDir(dir string, visited map[string]struct{}) []string {
	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		s.skip(dir, err)
		return nil
	}
	if _, seen := visited[canonical]; seen {
		// Symlink cycle or an already-walked identity; not an error.
		logging.Debug("Skipping already-visited directory %s (via %s)", canonical, dir)
		return nil
	}
	visited[canonical] = struct{}{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		s.skip(dir, err)
		return nil
	}

	// Folder-discovered precedes every file inside it and any descent.
	if s.ix.RegisterFolder(dir) {
		s.folders.Add(1)
	}

	var subs []string
	for _, entry := range entries {
		name := entry.Name()
		if s.cfg.SkipHidden && len(name) > 0 && name[0] == '.' {
			continue
		}

		full := filepath.Join(dir, name)
		if isDir(entry, full) {
			subs = append(subs, full)
			continue
		}

		switch {
		case imagetypes.IsImage(name):
			s.ix.RegisterFile(dir, name)
			s.files.Add(1)
		case s.cfg.Archives && imagetypes.IsArchive(name):
			s.scanArchive(full)
		}
	}
	return subs
}

// isDir resolves whether an entry is a directory, following symlinks.
func isDir(entry fs.DirEntry, full string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.IsDir()
}

// scanArchive registers the image members of a ZIP file under virtual
// folder buckets. An unreadable archive is skipped like an unreadable
// directory.
func (s *Scanner) scanArchive(archive string) {
	names, err := vfs.ListArchive(archive)
	if err != nil {
		s.skip(archive, err)
		return
	}

	for _, member := range names {
		if !imagetypes.IsImage(member) {
			continue
		}
		dir := path.Dir(member)
		if dir == "." {
			dir = ""
		}
		bucket := vfs.FolderPath(archive, dir)
		if s.ix.RegisterFolder(bucket) {
			s.folders.Add(1)
		}
		s.ix.RegisterFile(bucket, path.Base(member))
		s.files.Add(1)
	}
}

func (s *Scanner) skip(p string, err error) {
	s.skipped.Add(1)
	metrics.ScannerSkipsTotal.Inc()
	logging.Warn("Skipping %s: %v", p, err)
}

// startNotifier publishes progress and new-file notifications at a
// bounded rate, coalescing discovery bursts. Returns a function that
// performs the final flush and stops the notifier.
func (s *Scanner) startNotifier() (stop func()) {
	if s.cfg.OnProgress == nil && s.cfg.OnNewFiles == nil {
		return func() {}
	}

	quit := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		ticker := time.NewTicker(s.cfg.NotifyInterval)
		defer ticker.Stop()

		var lastFolders, lastFiles int64
		for {
			select {
			case <-ticker.C:
				folders, files := s.folders.Load(), s.files.Load()
				if folders == lastFolders && files == lastFiles {
					continue
				}
				if s.cfg.OnProgress != nil {
					s.cfg.OnProgress(s.Progress())
				}
				if s.cfg.OnNewFiles != nil && files > lastFiles {
					s.cfg.OnNewFiles()
				}
				lastFolders, lastFiles = folders, files
			case <-quit:
				return
			}
		}
	}()

	return func() {
		close(quit)
		<-finished
	}
}
