// Package imagetypes classifies filesystem entry names for the slideshow
// scanner.
//
// Classification is purely name-based: an entry is eligible when its
// extension (case-insensitive) matches a recognized image format. Entries
// that cannot be read are filtered by the walker, not here.
//
// Supported image formats:
//   - bmp, gif, jpg, jpeg, jfif, png, tiff, tif, webp, ico, avif, heic, heif
//
// ZIP archives are classified separately; their contents are browsed as
// virtual folders when archive scanning is enabled.
package imagetypes
