package imagetypes

import (
	"path/filepath"
	"strings"
)

// ImageExtensions maps file extensions to whether they are recognized image formats.
var ImageExtensions = map[string]bool{
	".bmp":  true,
	".gif":  true,
	".jpg":  true,
	".jpeg": true,
	".jfif": true,
	".png":  true,
	".tiff": true,
	".tif":  true,
	".webp": true,
	".ico":  true,
	".avif": true,
	".heic": true,
	".heif": true,
}

// ArchiveExtensions maps file extensions to whether they are recognized
// archive containers whose contents can be browsed as virtual folders.
var ArchiveExtensions = map[string]bool{
	".zip": true,
}

// MimeTypes maps image file extensions to their MIME types.
var MimeTypes = map[string]string{
	".bmp":  "image/bmp",
	".gif":  "image/gif",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".jfif": "image/jpeg",
	".png":  "image/png",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".webp": "image/webp",
	".ico":  "image/x-icon",
	".avif": "image/avif",
	".heic": "image/heic",
	".heif": "image/heif",
}

// Ext returns the lowercased extension of an entry name, including the
// leading dot.
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// IsImage reports whether an entry name has a recognized image extension.
// The match is case-insensitive and looks only at the name, never at disk.
func IsImage(name string) bool {
	return ImageExtensions[Ext(name)]
}

// IsArchive reports whether an entry name has a recognized archive extension.
func IsArchive(name string) bool {
	return ArchiveExtensions[Ext(name)]
}

// MimeType returns the MIME type for an entry name.
// Returns "application/octet-stream" if the extension is not recognized.
func MimeType(name string) string {
	if mime, ok := MimeTypes[Ext(name)]; ok {
		return mime
	}
	return "application/octet-stream"
}
