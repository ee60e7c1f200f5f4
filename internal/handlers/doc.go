// Package handlers contains the HTTP handlers for the slideshow API.
//
// Navigation endpoints (/api/next, /api/prev, /api/history/*) drive the
// viewer; /api/file serves image bytes from disk or from inside archives;
// /healthz, /livez and /readyz implement the usual probe trio. Optional
// password authentication gates the /api subtree behind a session cookie.
package handlers
