// Package history keeps a bounded ring of recently displayed image paths
// with backward/forward replay, decoupled from the live navigation cursor.
package history
