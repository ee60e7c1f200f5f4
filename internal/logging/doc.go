// Package logging provides a simple leveled logging interface for the
// slideshow server.
//
// Levels are DEBUG, INFO, WARN, ERROR and FATAL. The active level is
// read from the LOG_LEVEL environment variable at startup; DEBUG=true is
// a shortcut for full verbosity and takes precedence.
package logging
