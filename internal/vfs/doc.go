// Package vfs presents ZIP archives as virtual folders alongside the real
// filesystem.
//
// A file inside an archive is addressed as
//
//	zip:/abs/path/to/archive.zip::inner/dir/photo.jpg
//
// and the virtual folder holding it as
//
//	zip:/abs/path/to/archive.zip::inner/dir
//
// All path helpers and the byte-level readers accept both real and virtual
// paths, so callers navigate archives transparently.
package vfs
