// Package index maintains the live collection of discovered folders and
// the images inside them.
//
// The index grows monotonically while a scan runs: folders insert in
// sorted position via binary search, files append to their folder's bucket
// with an incrementally maintained sorted view. Every bucket therefore
// offers both discovery order and display order without duplicating the
// stored names.
//
// The index is the only structure shared between the background scanner
// and foreground navigation. A single lock with short critical sections
// keeps both sides responsive; no read or write ever spans disk I/O.
package index
