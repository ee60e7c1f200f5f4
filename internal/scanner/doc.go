// Package scanner provides incremental background discovery of image
// collections for the slideshow viewer.
//
// A scan session walks the directory tree rooted at a given path with an
// explicit work queue, registering folders and eligible images into the
// live index as they are found. The viewer becomes usable within seconds
// of starting: one randomly chosen top-level subtree is walked first, the
// rest follows in stable lexicographic order.
//
// Error policy: every per-entry filesystem failure (permission denied,
// transient I/O error, broken symlink, unreadable archive) is recovered
// locally by skipping the entry and continuing with its siblings. Symlink
// cycles are detected by tracking visited canonical directory identities.
// Only an invalid root is fatal, and it is reported before the walk
// starts.
//
// Cancellation is cooperative: the flag is checked between every two
// directory visits, and a replacement scan always awaits the previous
// walker's termination before touching a fresh index.
package scanner
