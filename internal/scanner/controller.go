package scanner

import (
	"sync"

	"random-slideshow/internal/index"
	"random-slideshow/internal/logging"
)

// Controller owns the scan lifecycle: it starts sessions, guarantees a
// replacement scan never overlaps the previous one, and hands out the
// index belonging to the current session.
//
// Navigation is never gated on scan completion; the first random image can
// be served as soon as one folder with one file has been registered.
type Controller struct {
	mu       sync.Mutex
	cfg      Config
	indexOpt index.Options
	ix       *index.Index
	current  *Scanner
}

// NewController creates a controller with an empty index, ready for the
// first StartScan.
func NewController(cfg Config, indexOpt index.Options) *Controller {
	return &Controller{
		cfg:      cfg,
		indexOpt: indexOpt,
		ix:       index.New(indexOpt),
	}
}

// Index returns the index of the current scan session.
func (c *Controller) Index() *index.Index {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ix
}

// StartScan begins a new scan session over root. Any running session is
// first canceled and awaited, then a fresh index replaces the old one, so
// entries from the previous root can never leak into the new session.
// Returns an error only for a fatally invalid root.
func (c *Controller) StartScan(root string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		c.current.Cancel()
		c.current.Wait()
		logging.Debug("Previous scan session terminated")
	}

	ix := index.New(c.indexOpt)
	s := New(root, ix, c.cfg)
	if err := s.Start(); err != nil {
		return err
	}
	c.ix = ix
	c.current = s
	return nil
}

// CancelScan cooperatively stops the running session and waits for the
// walker to terminate. The partial index stays valid for navigation.
func (c *Controller) CancelScan() {
	c.mu.Lock()
	s := c.current
	c.mu.Unlock()

	if s != nil {
		s.Cancel()
		s.Wait()
	}
}

// IsScanComplete reports whether the current session finished a full walk.
func (c *Controller) IsScanComplete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil && c.current.Complete()
}

// Progress returns the current session's progress, or a zero snapshot
// before the first scan.
func (c *Controller) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Progress{}
	}
	return c.current.Progress()
}

// Wait blocks until the current session's walker has terminated.
func (c *Controller) Wait() {
	c.mu.Lock()
	s := c.current
	c.mu.Unlock()
	if s != nil {
		s.Wait()
	}
}
