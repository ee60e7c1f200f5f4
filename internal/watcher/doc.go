// Package watcher keeps the live index in sync with the filesystem
// between scans. It watches every directory of the scanned tree with
// fsnotify and registers newly created folders and images as they
// appear; removals are deliberately ignored, since the index only grows
// within a session and a rescan rebuilds it from scratch.
package watcher
