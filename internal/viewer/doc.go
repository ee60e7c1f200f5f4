// Package viewer is the navigation facade of the slideshow: one
// goroutine-safe object combining the scan controller, the cursor and the
// history ring. The HTTP handlers talk only to this package.
package viewer
