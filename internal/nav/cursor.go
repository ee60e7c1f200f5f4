package nav

import (
	"math/rand"
	"time"

	"random-slideshow/internal/index"
)

// Config tunes cursor behavior.
type Config struct {
	// UsePermutation selects the pre-shuffled permutation strategy for
	// random navigation instead of bucket-then-file picks.
	UsePermutation bool
	// ReshuffleFraction is the fractional growth of the known file count
	// that triggers a permutation rebuild (0 means the default 10%).
	ReshuffleFraction float64
	// Seed fixes the random source; 0 seeds from the clock.
	Seed int64
}

// minReshuffleGrowth avoids rebuilding the permutation on every arrival
// when the collection is still tiny.
const minReshuffleGrowth = 64

// Cursor tracks the current position in the live index and implements all
// movement primitives. It never caches a flattened list of the collection
// (which grows continuously); every move re-reads the index.
//
// The cursor is owned and mutated exclusively by the foreground navigation
// path, so it carries no locking of its own.
type Cursor struct {
	ix  *index.Index
	rng *rand.Rand
	cfg Config

	pos    index.Position
	ref    index.Ref // what pos pointed at when last set
	hasPos bool

	perm     []index.Ref
	permNext int
	permBase int // file count when the permutation was built
}

// New creates a cursor over the given index.
func New(ix *index.Index, cfg Config) *Cursor {
	if cfg.ReshuffleFraction <= 0 {
		cfg.ReshuffleFraction = 0.10
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Cursor{
		ix:  ix,
		rng: rand.New(rand.NewSource(seed)),
		cfg: cfg,
	}
}

// Position returns the current cursor coordinates.
func (c *Cursor) Position() (index.Position, bool) {
	return c.pos, c.hasPos
}

// Current returns the image the cursor points at.
func (c *Cursor) Current() (index.Ref, bool) {
	if !c.hasPos {
		return index.Ref{}, false
	}
	return c.ref, true
}

// SyncTo moves the cursor to the bucket/file coordinates of a known image,
// e.g. when the user resumes live navigation from a history entry.
func (c *Cursor) SyncTo(folder, name string) bool {
	pos, ok := c.ix.Locate(folder, name)
	if !ok {
		return false
	}
	c.set(pos, index.Ref{Folder: folder, Name: name})
	return true
}

func (c *Cursor) set(pos index.Position, ref index.Ref) {
	c.pos = pos
	c.ref = ref
	c.hasPos = true
}

// reanchor re-validates the stored coordinates against the live index.
// Folder insertions shift bucket indices, so coordinates can go stale even
// though the index never shrinks; the remembered folder/name pair is the
// durable identity.
func (c *Cursor) reanchor() bool {
	if !c.hasPos {
		return false
	}
	if got, ok := c.ix.FileAt(c.pos.Bucket, c.pos.File); ok && got == c.ref {
		return true
	}
	pos, ok := c.ix.Locate(c.ref.Folder, c.ref.Name)
	if !ok {
		return false
	}
	c.pos = pos
	return true
}

// Random returns the next random image. With the permutation strategy it
// advances through a pre-shuffled order of the known collection,
// regenerated once the collection has grown past the reshuffle threshold;
// otherwise it picks a uniformly random non-empty bucket, then a uniformly
// random file within it.
func (c *Cursor) Random() (index.Ref, bool) {
	if c.cfg.UsePermutation {
		return c.randomFromPermutation()
	}
	return c.randomFromBuckets()
}

func (c *Cursor) randomFromBuckets() (index.Ref, bool) {
	// Folder insertions can shift bucket indices between the two index
	// reads; retry a couple of times before giving up.
	for attempt := 0; attempt < 3; attempt++ {
		b, ok := c.ix.RandomNonEmpty(c.rng)
		if !ok {
			return index.Ref{}, false
		}
		n := c.ix.BucketLen(b)
		if n == 0 {
			continue
		}
		j := c.rng.Intn(n)
		ref, ok := c.ix.FileAt(b, j)
		if !ok {
			continue
		}
		c.set(index.Position{Bucket: b, File: j}, ref)
		return ref, true
	}
	return index.Ref{}, false
}

func (c *Cursor) randomFromPermutation() (index.Ref, bool) {
	total := c.ix.FileCountTotal()
	if total == 0 {
		return index.Ref{}, false
	}

	growth := total - c.permBase
	need := minReshuffleGrowth
	if threshold := int(float64(c.permBase) * c.cfg.ReshuffleFraction); threshold > need {
		need = threshold
	}
	if c.perm == nil || c.permNext >= len(c.perm) || growth > need {
		c.reshuffle()
	}
	if len(c.perm) == 0 {
		return index.Ref{}, false
	}

	ref := c.perm[c.permNext]
	c.permNext++

	if pos, ok := c.ix.Locate(ref.Folder, ref.Name); ok {
		c.set(pos, ref)
	}
	return ref, true
}

func (c *Cursor) reshuffle() {
	c.perm = c.ix.EntriesSnapshot()
	c.rng.Shuffle(len(c.perm), func(i, j int) {
		c.perm[i], c.perm[j] = c.perm[j], c.perm[i]
	})
	c.permNext = 0
	c.permBase = len(c.perm)
}

// NextInFolder moves to the next file of the current bucket in display
// order. At the last file it reports false without wrapping; the caller
// should move between folders instead.
func (c *Cursor) NextInFolder() (index.Ref, bool) {
	return c.stepInFolder(1)
}

// PrevInFolder moves to the previous file of the current bucket.
// At the first file it reports false without wrapping.
func (c *Cursor) PrevInFolder() (index.Ref, bool) {
	return c.stepInFolder(-1)
}

func (c *Cursor) stepInFolder(step int) (index.Ref, bool) {
	if !c.reanchor() {
		return index.Ref{}, false
	}
	j := c.pos.File + step
	ref, ok := c.ix.FileAt(c.pos.Bucket, j)
	if !ok {
		return index.Ref{}, false // boundary reached
	}
	c.set(index.Position{Bucket: c.pos.Bucket, File: j}, ref)
	return ref, true
}

// NextFolder moves to the next non-empty folder in sorted order and lands
// on a random file within it, keeping the shuffle feel while paging.
// Reports false at the last folder (no wraparound).
func (c *Cursor) NextFolder() (index.Ref, bool) {
	return c.stepFolder(1)
}

// PrevFolder moves to the previous non-empty folder. Reports false at the
// first folder (no wraparound).
func (c *Cursor) PrevFolder() (index.Ref, bool) {
	return c.stepFolder(-1)
}

func (c *Cursor) stepFolder(step int) (index.Ref, bool) {
	from := -1
	if step < 0 {
		from = c.ix.BucketCount()
	}
	if c.reanchor() {
		from = c.pos.Bucket
	}

	b, ok := c.ix.NextNonEmpty(from, step)
	if !ok {
		return index.Ref{}, false // boundary reached
	}
	n := c.ix.BucketLen(b)
	if n == 0 {
		return index.Ref{}, false
	}
	j := c.rng.Intn(n)
	ref, ok := c.ix.FileAt(b, j)
	if !ok {
		return index.Ref{}, false
	}
	c.set(index.Position{Bucket: b, File: j}, ref)
	return ref, true
}

// Home moves to the first file (display order) of the current folder, or
// of the first non-empty folder when the cursor has no position yet.
func (c *Cursor) Home() (index.Ref, bool) {
	b := -1
	if c.reanchor() {
		b = c.pos.Bucket
	} else {
		nb, ok := c.ix.NextNonEmpty(-1, 1)
		if !ok {
			return index.Ref{}, false
		}
		b = nb
	}
	ref, ok := c.ix.FileAt(b, 0)
	if !ok {
		return index.Ref{}, false
	}
	c.set(index.Position{Bucket: b, File: 0}, ref)
	return ref, true
}
