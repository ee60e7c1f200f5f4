package index

import (
	"math/rand"
	"sort"
	"sync"

	"random-slideshow/internal/natsort"
	"random-slideshow/internal/vfs"
)

// Options configures a new Index.
type Options struct {
	// Natural switches the display ordering of folders and files from
	// plain lexicographic to natural ordering (img2 before img10).
	Natural bool
}

// Position addresses one image inside the index: a bucket index and a file
// index within that bucket's display order. Positions are coordinates, not
// references; they are re-validated against the live index on use.
type Position struct {
	Bucket int
	File   int
}

// Ref identifies one image by its owning folder path and file name.
type Ref struct {
	Folder string
	Name   string
}

// Path returns the full displayable path of the referenced image.
func (r Ref) Path() string {
	return vfs.Join(r.Folder, r.Name)
}

// bucket holds the files discovered in one folder. files preserves
// insertion order; sorted is a secondary index of positions into files in
// display order, so both orderings exist without duplicating storage.
type bucket struct {
	path   string
	files  []string
	sorted []int
}

// Index is the live collection of discovered folders and their images.
// Buckets are kept sorted by folder path at all times; insertion uses
// binary search so continuous growth never triggers a full resort.
//
// A single RWMutex guards all structural access. The scanner mutates under
// the write lock; navigation reads under the read lock. Critical sections
// are short and never span I/O.
type Index struct {
	mu       sync.RWMutex
	buckets  []*bucket
	total    int
	nonEmpty int
	less     func(a, b string) bool
}

// New creates an empty Index.
func New(opts Options) *Index {
	less := func(a, b string) bool { return a < b }
	if opts.Natural {
		less = natsort.Less
	}
	return &Index{less: less}
}

// RegisterFolder inserts an empty bucket for path in sorted position.
// No-op when the folder is already registered. Returns true if a bucket
// was created.
func (ix *Index) RegisterFolder(path string) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	_, created := ix.bucketFor(path)
	return created
}

// RegisterFile appends a file to its folder's bucket, creating the bucket
// first if the folder was never announced. Duplicate names within a bucket
// are ignored so repeated discovery events cannot skew counts.
func (ix *Index) RegisterFile(folder, name string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	b, _ := ix.bucketFor(folder)
	if _, ok := b.find(name, ix.less); ok {
		return
	}

	b.files = append(b.files, name)
	if len(b.files) == 1 {
		ix.nonEmpty++
	}

	// Ordered insertion into the display view.
	pos := len(b.files) - 1
	at := sort.Search(len(b.sorted), func(i int) bool {
		return ix.less(name, b.files[b.sorted[i]])
	})
	b.sorted = append(b.sorted, 0)
	copy(b.sorted[at+1:], b.sorted[at:])
	b.sorted[at] = pos

	ix.total++
}

// bucketFor returns the bucket for path, creating it in sorted position if
// needed. Caller must hold the write lock.
func (ix *Index) bucketFor(path string) (*bucket, bool) {
	at := sort.Search(len(ix.buckets), func(i int) bool {
		return !ix.less(ix.buckets[i].path, path)
	})
	if at < len(ix.buckets) && ix.buckets[at].path == path {
		return ix.buckets[at], false
	}

	b := &bucket{path: path}
	ix.buckets = append(ix.buckets, nil)
	copy(ix.buckets[at+1:], ix.buckets[at:])
	ix.buckets[at] = b
	return b, true
}

// find locates name in the bucket's display view via binary search.
func (b *bucket) find(name string, less func(a, b string) bool) (int, bool) {
	at := sort.Search(len(b.sorted), func(i int) bool {
		return !less(b.files[b.sorted[i]], name)
	})
	if at < len(b.sorted) && b.files[b.sorted[at]] == name {
		return at, true
	}
	return at, false
}

// BucketCount returns the number of registered folders.
func (ix *Index) BucketCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.buckets)
}

// FileCountTotal returns the number of admitted images across all buckets.
func (ix *Index) FileCountTotal() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.total
}

// NonEmptyCount returns the number of buckets holding at least one file.
func (ix *Index) NonEmptyCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.nonEmpty
}

// BucketPath returns the folder path of bucket i.
func (ix *Index) BucketPath(i int) (string, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if i < 0 || i >= len(ix.buckets) {
		return "", false
	}
	return ix.buckets[i].path, true
}

// BucketLen returns the file count of bucket i, or 0 when out of range.
func (ix *Index) BucketLen(i int) int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if i < 0 || i >= len(ix.buckets) {
		return 0
	}
	return len(ix.buckets[i].files)
}

// FileAt returns the image at position (i, j) in display order.
func (ix *Index) FileAt(i, j int) (Ref, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.fileAt(i, j)
}

func (ix *Index) fileAt(i, j int) (Ref, bool) {
	if i < 0 || i >= len(ix.buckets) {
		return Ref{}, false
	}
	b := ix.buckets[i]
	if j < 0 || j >= len(b.sorted) {
		return Ref{}, false
	}
	return Ref{Folder: b.path, Name: b.files[b.sorted[j]]}, true
}

// InsertionOrder returns a copy of bucket i's files in discovery order.
func (ix *Index) InsertionOrder(i int) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if i < 0 || i >= len(ix.buckets) {
		return nil
	}
	out := make([]string, len(ix.buckets[i].files))
	copy(out, ix.buckets[i].files)
	return out
}

// FindBucket returns the index of the bucket with the given folder path.
func (ix *Index) FindBucket(path string) (int, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	at := sort.Search(len(ix.buckets), func(i int) bool {
		return !ix.less(ix.buckets[i].path, path)
	})
	if at < len(ix.buckets) && ix.buckets[at].path == path {
		return at, true
	}
	return 0, false
}

// Locate resolves a folder path and file name to a live Position.
func (ix *Index) Locate(folder, name string) (Position, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	at := sort.Search(len(ix.buckets), func(i int) bool {
		return !ix.less(ix.buckets[i].path, folder)
	})
	if at >= len(ix.buckets) || ix.buckets[at].path != folder {
		return Position{}, false
	}
	j, ok := ix.buckets[at].find(name, ix.less)
	if !ok {
		return Position{}, false
	}
	return Position{Bucket: at, File: j}, true
}

// RandomNonEmpty picks a uniformly random non-empty bucket.
func (ix *Index) RandomNonEmpty(rng *rand.Rand) (int, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.nonEmpty == 0 {
		return 0, false
	}
	k := rng.Intn(ix.nonEmpty)
	for i, b := range ix.buckets {
		if len(b.files) == 0 {
			continue
		}
		if k == 0 {
			return i, true
		}
		k--
	}
	return 0, false
}

// NextNonEmpty returns the nearest non-empty bucket strictly after (step 1)
// or before (step -1) position from. A from of -1 with step 1 starts the
// search at the beginning.
func (ix *Index) NextNonEmpty(from, step int) (int, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	for i := from + step; i >= 0 && i < len(ix.buckets); i += step {
		if len(ix.buckets[i].files) > 0 {
			return i, true
		}
	}
	return 0, false
}

// EntriesSnapshot returns all currently known images in bucket order.
// Used to build shuffle permutations; the returned refs stay valid even as
// the index keeps growing, since entries are never removed.
func (ix *Index) EntriesSnapshot() []Ref {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]Ref, 0, ix.total)
	for _, b := range ix.buckets {
		for _, pos := range b.sorted {
			out = append(out, Ref{Folder: b.path, Name: b.files[pos]})
		}
	}
	return out
}
