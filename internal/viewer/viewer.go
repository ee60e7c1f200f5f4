package viewer

import (
	"sync"

	"random-slideshow/internal/history"
	"random-slideshow/internal/index"
	"random-slideshow/internal/logging"
	"random-slideshow/internal/metrics"
	"random-slideshow/internal/nav"
	"random-slideshow/internal/scanner"
	"random-slideshow/internal/vfs"
)

// Mode selects the slideshow advance behavior.
type Mode string

const (
	// ModeRandom picks a random image from the whole collection.
	ModeRandom Mode = "random"
	// ModeFile steps to the adjacent file within the current folder.
	ModeFile Mode = "file"
	// ModeFolder steps to the adjacent non-empty folder.
	ModeFolder Mode = "folder"
	// ModeHome jumps to the first file of the current folder.
	ModeHome Mode = "home"
)

// ValidMode reports whether m names a known navigation mode.
func ValidMode(m Mode) bool {
	switch m {
	case ModeRandom, ModeFile, ModeFolder, ModeHome:
		return true
	}
	return false
}

// Entry is one displayed image.
type Entry struct {
	Path      string `json:"path"`
	Folder    string `json:"folder"`
	Name      string `json:"name"`
	Replaying bool   `json:"replaying"`
}

// Config tunes a viewer session.
type Config struct {
	Root           string
	HistorySize    int
	Archives       bool
	SkipHidden     bool
	Natural        bool
	UsePermutation bool
	RandomFirst    bool
	Seed           int64
}

// maxRepeatRetries bounds the hunt for a random image outside the recent
// history.
const maxRepeatRetries = 10

// Viewer ties together the scan controller, the navigation cursor and the
// history ring behind one mutex, giving the HTTP layer a single
// goroutine-safe facade.
type Viewer struct {
	mu     sync.Mutex
	cfg    Config
	ctrl   *scanner.Controller
	cursor *nav.Cursor
	ring   *history.Ring
	viewed map[string]struct{}
}

// New creates a viewer. Call Start to begin the initial scan.
func New(cfg Config) *Viewer {
	v := &Viewer{
		cfg:    cfg,
		ring:   history.New(cfg.HistorySize),
		viewed: make(map[string]struct{}),
	}

	scanCfg := scanner.Config{
		Archives:    cfg.Archives,
		SkipHidden:  cfg.SkipHidden,
		RandomFirst: cfg.RandomFirst,
		Seed:        cfg.Seed,
		OnProgress: func(p scanner.Progress) {
			// Off the walker goroutine: Rescan holds the viewer lock while
			// awaiting the walker, so locking here inline would deadlock.
			if p.Done {
				go v.onScanComplete()
			}
		},
	}
	v.ctrl = scanner.NewController(scanCfg, index.Options{Natural: cfg.Natural})
	v.cursor = nav.New(v.ctrl.Index(), v.navConfig())
	return v
}

func (v *Viewer) navConfig() nav.Config {
	return nav.Config{
		UsePermutation: v.cfg.UsePermutation,
		Seed:           v.cfg.Seed,
	}
}

// Controller exposes the scan controller, e.g. for index-backed handlers.
func (v *Viewer) Controller() *scanner.Controller {
	return v.ctrl
}

// Root returns the configured scan root.
func (v *Viewer) Root() string {
	return v.cfg.Root
}

// Start launches the initial scan. Navigation works immediately; it just
// reports empty until the first image is registered.
func (v *Viewer) Start() error {
	return v.rescan()
}

// Rescan discards the current index and walks the root again. Session
// history and viewed statistics survive the rescan.
func (v *Viewer) Rescan() error {
	logging.Info("Rescan requested")
	return v.rescan()
}

func (v *Viewer) rescan() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.ctrl.StartScan(v.cfg.Root); err != nil {
		return err
	}
	// The session owns a fresh index, so the cursor starts over too.
	v.cursor = nav.New(v.ctrl.Index(), v.navConfig())
	return nil
}

// Close cancels any running scan.
func (v *Viewer) Close() {
	v.ctrl.CancelScan()
}

// onScanComplete shrinks an oversized history ring: when the collection
// turns out smaller than the ring, random mode would starve hunting for
// unseen paths, so the ring drops to 80% of the collection.
func (v *Viewer) onScanComplete() {
	v.mu.Lock()
	defer v.mu.Unlock()

	// A rescan may have replaced the session since the callback fired.
	if !v.ctrl.IsScanComplete() {
		return
	}

	total := v.ctrl.Index().FileCountTotal()
	if total == 0 || total >= v.ring.Cap() {
		return
	}
	target := total * 80 / 100
	if target < 1 {
		target = 1
	}
	logging.Info("Collection (%d) smaller than history (%d), shrinking history to %d",
		total, v.ring.Cap(), target)
	v.ring.Resize(target)
}

// Next advances the slideshow in the given mode. While replaying history
// it first steps forward through the ring; past the newest entry it
// resumes live navigation.
func (v *Viewer) Next(mode Mode) (Entry, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.ring.Replaying() {
		if path, ok := v.ring.Forward(); ok {
			metrics.NavigationRequestsTotal.WithLabelValues(string(mode), "success").Inc()
			return v.replayEntry(path), true
		}
		// Reached the newest entry; fall through to a live move.
		v.syncCursorToCurrent()
	}

	return v.liveMove(mode, 1)
}

// Prev steps backwards. In random mode this replays history (the only
// meaningful inverse of a random jump); in the other modes it is the
// mirrored live move.
func (v *Viewer) Prev(mode Mode) (Entry, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if mode == ModeRandom {
		// When live, the newest ring entry is the image on screen; skip it.
		if !v.ring.Replaying() {
			if _, ok := v.ring.Back(); !ok {
				metrics.NavigationRequestsTotal.WithLabelValues(string(mode), "boundary").Inc()
				return Entry{}, false
			}
		}
		path, ok := v.ring.Back()
		if !ok {
			metrics.NavigationRequestsTotal.WithLabelValues(string(mode), "boundary").Inc()
			return Entry{}, false
		}
		metrics.NavigationRequestsTotal.WithLabelValues(string(mode), "success").Inc()
		return v.replayEntry(path), true
	}

	if v.ring.Replaying() {
		v.syncCursorToCurrent()
	}
	return v.liveMove(mode, -1)
}

// HistoryBack steps one entry into the past.
func (v *Viewer) HistoryBack() (Entry, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	path, ok := v.ring.Back()
	if !ok {
		metrics.NavigationRequestsTotal.WithLabelValues("back", "boundary").Inc()
		return Entry{}, false
	}
	metrics.NavigationRequestsTotal.WithLabelValues("back", "success").Inc()
	return v.replayEntry(path), true
}

// HistoryForward steps one entry toward the present. At the newest entry
// it reports false and the session is live again.
func (v *Viewer) HistoryForward() (Entry, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	path, ok := v.ring.Forward()
	if !ok {
		v.syncCursorToCurrent()
		metrics.NavigationRequestsTotal.WithLabelValues("forward", "boundary").Inc()
		return Entry{}, false
	}
	metrics.NavigationRequestsTotal.WithLabelValues("forward", "success").Inc()
	return v.replayEntry(path), true
}

// Current returns the image on screen: the replayed entry while browsing
// history, otherwise the newest recorded one.
func (v *Viewer) Current() (Entry, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	path, ok := v.ring.Current()
	if !ok {
		return Entry{}, false
	}
	e := v.entryFor(path)
	e.Replaying = v.ring.Replaying()
	return e, true
}

// Replaying reports whether the session is browsing history.
func (v *Viewer) Replaying() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ring.Replaying()
}

// Progress returns the current scan progress.
func (v *Viewer) Progress() scanner.Progress {
	return v.ctrl.Progress()
}

// GetStats implements metrics.StatsProvider.
func (v *Viewer) GetStats() metrics.Stats {
	v.mu.Lock()
	defer v.mu.Unlock()

	ix := v.ctrl.Index()
	return metrics.Stats{
		TotalFiles:      ix.FileCountTotal(),
		TotalFolders:    ix.BucketCount(),
		NonEmptyFolders: ix.NonEmptyCount(),
		ViewedFiles:     len(v.viewed),
		HistoryEntries:  v.ring.Len(),
	}
}

// ViewedCount returns the number of distinct images shown this session.
func (v *Viewer) ViewedCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.viewed)
}

func (v *Viewer) liveMove(mode Mode, dir int) (Entry, bool) {
	var ref index.Ref
	var ok bool

	switch mode {
	case ModeRandom:
		ref, ok = v.randomAvoidingRepeats()
	case ModeFile:
		if dir > 0 {
			ref, ok = v.cursor.NextInFolder()
		} else {
			ref, ok = v.cursor.PrevInFolder()
		}
	case ModeFolder:
		if dir > 0 {
			ref, ok = v.cursor.NextFolder()
		} else {
			ref, ok = v.cursor.PrevFolder()
		}
	case ModeHome:
		ref, ok = v.cursor.Home()
	default:
		return Entry{}, false
	}

	if !ok {
		status := "boundary"
		if v.ctrl.Index().FileCountTotal() == 0 {
			status = "empty"
		}
		metrics.NavigationRequestsTotal.WithLabelValues(string(mode), status).Inc()
		return Entry{}, false
	}

	path := ref.Path()
	v.record(path)
	metrics.NavigationRequestsTotal.WithLabelValues(string(mode), "success").Inc()
	return Entry{Path: path, Folder: ref.Folder, Name: ref.Name}, true
}

// randomAvoidingRepeats re-rolls a few times when the pick is still in
// the recent history, keeping large collections from feeling repetitive.
// With the permutation strategy repeats cannot happen within a pass, so
// the first pick stands.
func (v *Viewer) randomAvoidingRepeats() (index.Ref, bool) {
	ref, ok := v.cursor.Random()
	if !ok || v.cfg.UsePermutation {
		return ref, ok
	}

	total := v.ctrl.Index().FileCountTotal()
	for attempt := 0; attempt < maxRepeatRetries && total > v.ring.Len(); attempt++ {
		if !v.ring.Contains(ref.Path()) {
			break
		}
		next, ok2 := v.cursor.Random()
		if !ok2 {
			break
		}
		ref = next
	}
	return ref, true
}

func (v *Viewer) record(path string) {
	v.ring.Record(path)
	v.viewed[path] = struct{}{}
}

// syncCursorToCurrent reanchors the cursor at the newest ring entry after
// a replay session, so the next folder/file move starts from the image
// the user last saw.
func (v *Viewer) syncCursorToCurrent() {
	if path, ok := v.ring.Current(); ok {
		v.cursor.SyncTo(vfs.Parent(path), vfs.Name(path))
	}
}

func (v *Viewer) replayEntry(path string) Entry {
	v.cursor.SyncTo(vfs.Parent(path), vfs.Name(path))
	e := v.entryFor(path)
	e.Replaying = v.ring.Replaying()
	return e
}

func (v *Viewer) entryFor(path string) Entry {
	return Entry{
		Path:   path,
		Folder: vfs.Parent(path),
		Name:   vfs.Name(path),
	}
}
