package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"random-slideshow/internal/imagetypes"
	"random-slideshow/internal/index"
	"random-slideshow/internal/logging"
	"random-slideshow/internal/metrics"
)

// IndexProvider hands out the index of the current scan session. The
// watcher re-reads it on every event, so a rescan swapping in a fresh
// index is picked up automatically.
type IndexProvider interface {
	Index() *index.Index
}

// Config tunes watcher behavior.
type Config struct {
	// SkipHidden ignores entries whose name starts with ".".
	SkipHidden bool
	// OnNewFiles is called whenever new images have been registered.
	OnNewFiles func()
}

// Watcher monitors the scanned tree for new directories and images and
// registers them into the live index, so images arriving after the
// initial scan show up without a rescan.
type Watcher struct {
	provider IndexProvider
	cfg      Config
	fsw      *fsnotify.Watcher

	mu      sync.Mutex
	dirs    map[string]struct{}
	running bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New creates a watcher bound to the given index provider.
func New(provider IndexProvider, cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &Watcher{
		provider: provider,
		cfg:      cfg,
		fsw:      fsw,
		dirs:     make(map[string]struct{}),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// WatchTree adds root and every directory beneath it to the watch set.
// Unreadable subtrees are skipped, matching the scanner's error policy.
func (w *Watcher) WatchTree(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("access %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			logging.Warn("Watcher skipping %s: %v", path, err)
			return filepath.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if w.cfg.SkipHidden && path != root && d.Name()[0] == '.' {
			return filepath.SkipDir
		}
		w.addDir(path)
		return nil
	})
}

func (w *Watcher) addDir(dir string) {
	w.mu.Lock()
	if _, seen := w.dirs[dir]; seen {
		w.mu.Unlock()
		return
	}
	w.dirs[dir] = struct{}{}
	count := len(w.dirs)
	w.mu.Unlock()

	if err := w.fsw.Add(dir); err != nil {
		logging.Warn("Failed to watch %s: %v", dir, err)
		return
	}
	metrics.WatchedDirectories.Set(float64(count))
	logging.Debug("Watching directory %s", dir)
}

// WatchedCount returns the number of directories in the watch set.
func (w *Watcher) WatchedCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.dirs)
}

// Start launches the event loop.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	go w.loop()
	logging.Info("Filesystem watcher started (%d directories)", w.WatchedCount())
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			metrics.WatcherErrorsTotal.Inc()
			logging.Error("Watcher error: %v", err)

		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	metrics.WatcherEventsTotal.WithLabelValues(opLabel(event.Op)).Inc()

	// The index only grows during a session, so removals and renames are
	// left to the next rescan.
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}

	name := filepath.Base(event.Name)
	if w.cfg.SkipHidden && len(name) > 0 && name[0] == '.' {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		// Created and deleted before we got to it.
		if !os.IsNotExist(err) {
			logging.Warn("Watcher stat %s: %v", event.Name, err)
		}
		return
	}

	if info.IsDir() {
		// A new subtree may already contain files by the time the event
		// arrives; sweep it like the scanner would.
		w.provider.Index().RegisterFolder(event.Name)
		if err := w.WatchTree(event.Name); err != nil {
			logging.Warn("Watcher add subtree %s: %v", event.Name, err)
		}
		w.sweepDir(event.Name)
		return
	}

	if !imagetypes.IsImage(name) {
		return
	}
	w.provider.Index().RegisterFile(filepath.Dir(event.Name), name)
	logging.Debug("Watcher registered %s", event.Name)
	if w.cfg.OnNewFiles != nil {
		w.cfg.OnNewFiles()
	}
}

// sweepDir registers images already present in a newly created directory.
func (w *Watcher) sweepDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	ix := w.provider.Index()
	added := false
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if w.cfg.SkipHidden && name[0] == '.' {
			continue
		}
		if imagetypes.IsImage(name) {
			ix.RegisterFile(dir, name)
			added = true
		}
	}
	if added && w.cfg.OnNewFiles != nil {
		w.cfg.OnNewFiles()
	}
}

func opLabel(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	default:
		return "other"
	}
}

// Stop halts the event loop and releases the underlying watches. Safe to
// call more than once, and before Start.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		wasRunning := w.running
		w.running = false
		w.mu.Unlock()

		close(w.stop)
		if err := w.fsw.Close(); err != nil {
			logging.Error("Error closing fsnotify watcher: %v", err)
		}
		if wasRunning {
			<-w.done
			logging.Info("Filesystem watcher stopped")
		}
	})
}

// IsRunning reports whether the event loop is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
