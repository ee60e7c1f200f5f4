package history

// DefaultCapacity is the number of recently displayed paths retained when
// no explicit capacity is configured.
const DefaultCapacity = 500

// Ring is a fixed-capacity ring of recently displayed paths with a replay
// pointer for back/forward navigation. Once full, recording overwrites the
// oldest slot.
//
// The ring is owned and mutated exclusively by the foreground navigation
// path, so it carries no locking.
type Ring struct {
	buf   []string
	start int // index of the oldest entry
	size  int
	ptr   int // replay offset from oldest; size means "live", not replaying
}

// New creates an empty ring with the given capacity.
// Capacities below 1 fall back to DefaultCapacity.
func New(capacity int) *Ring {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Ring{buf: make([]string, capacity)}
}

// Record appends a displayed path, evicting the oldest entry once the ring
// is full, and resets the replay pointer to the live position.
func (r *Ring) Record(path string) {
	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = path
		r.size++
	} else {
		r.buf[r.start] = path
		r.start = (r.start + 1) % len(r.buf)
	}
	r.ptr = r.size
}

// Back steps the replay pointer one entry into the past and returns that
// path. Returns false when no older entry remains.
func (r *Ring) Back() (string, bool) {
	if r.ptr == 0 {
		return "", false
	}
	r.ptr--
	return r.at(r.ptr), true
}

// Forward steps the replay pointer one entry toward the present and
// returns that path. Returns false when the pointer is already at the
// newest recorded entry (the caller should resume live navigation).
func (r *Ring) Forward() (string, bool) {
	if r.ptr >= r.size-1 {
		// Mark as live again so the next Back revisits the newest entry.
		r.ptr = r.size
		return "", false
	}
	r.ptr++
	return r.at(r.ptr), true
}

// Replaying reports whether the replay pointer sits behind the newest
// recorded entry.
func (r *Ring) Replaying() bool {
	return r.size > 0 && r.ptr < r.size
}

// Current returns the path under the replay pointer, or the newest entry
// when live.
func (r *Ring) Current() (string, bool) {
	if r.size == 0 {
		return "", false
	}
	if r.ptr >= r.size {
		return r.at(r.size - 1), true
	}
	return r.at(r.ptr), true
}

// Len returns the number of recorded entries.
func (r *Ring) Len() int {
	return r.size
}

// Cap returns the ring capacity.
func (r *Ring) Cap() int {
	return len(r.buf)
}

// Resize shrinks or grows the capacity, keeping the most recent entries.
// Used after a small scan so random mode is not starved hunting for paths
// outside the ring.
func (r *Ring) Resize(capacity int) {
	if capacity < 1 || capacity == len(r.buf) {
		return
	}

	keep := r.size
	if keep > capacity {
		keep = capacity
	}
	buf := make([]string, capacity)
	for i := 0; i < keep; i++ {
		// Copy the newest `keep` entries, oldest first.
		buf[i] = r.at(r.size - keep + i)
	}
	r.buf = buf
	r.start = 0
	r.size = keep
	r.ptr = keep
}

// Contains reports whether path is anywhere in the ring. Linear scan; the
// ring is small and this is only consulted to avoid quick repeats.
func (r *Ring) Contains(path string) bool {
	for i := 0; i < r.size; i++ {
		if r.at(i) == path {
			return true
		}
	}
	return false
}

func (r *Ring) at(i int) string {
	return r.buf[(r.start+i)%len(r.buf)]
}
