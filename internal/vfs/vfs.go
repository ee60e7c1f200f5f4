package vfs

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	// Prefix marks a path as pointing inside an archive.
	Prefix = "zip:"
	// Separator splits the archive path from the member path.
	Separator = "::"

	// maxMemberSize caps how much can be read out of a single archive
	// member, protecting against zip bombs.
	maxMemberSize = 500 << 20 // 500 MB
)

// IsVirtual reports whether a path points inside an archive.
func IsVirtual(p string) bool {
	return strings.HasPrefix(p, Prefix)
}

// Split breaks a virtual path into the archive path on disk and the member
// path inside it. ok is false for non-virtual or malformed paths.
func Split(p string) (archive, member string, ok bool) {
	if !IsVirtual(p) {
		return "", "", false
	}
	rest := p[len(Prefix):]
	i := strings.Index(rest, Separator)
	if i < 0 {
		return "", "", false
	}
	return rest[:i], rest[i+len(Separator):], true
}

// FolderPath builds the virtual folder path for a directory inside an
// archive. dir is the forward-slash member directory, "" for the archive
// root.
func FolderPath(archive, dir string) string {
	return Prefix + archive + Separator + dir
}

// Join appends a file name to a folder path, virtual or real.
func Join(folder, name string) string {
	if IsVirtual(folder) {
		archive, dir, ok := Split(folder)
		if !ok {
			return folder + "/" + name
		}
		if dir == "" {
			return Prefix + archive + Separator + name
		}
		return Prefix + archive + Separator + dir + "/" + name
	}
	return filepath.Join(folder, name)
}

// Parent returns the folder path containing p.
func Parent(p string) string {
	if IsVirtual(p) {
		archive, member, ok := Split(p)
		if !ok {
			return p
		}
		member = strings.ReplaceAll(member, `\`, "/")
		dir := path.Dir(member)
		if dir == "." {
			dir = ""
		}
		return FolderPath(archive, dir)
	}
	return filepath.Dir(p)
}

// Name returns the base name of p.
func Name(p string) string {
	if IsVirtual(p) {
		_, member, ok := Split(p)
		if !ok {
			return p
		}
		return path.Base(strings.ReplaceAll(member, `\`, "/"))
	}
	return filepath.Base(p)
}

// ReadFile reads the full contents of a real file or an archive member.
func ReadFile(p string) ([]byte, error) {
	if !IsVirtual(p) {
		return os.ReadFile(p)
	}

	archive, member, ok := Split(p)
	if !ok {
		return nil, fmt.Errorf("malformed virtual path %q", p)
	}

	zr, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", archive, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if normalizeMember(f.Name) != member {
			continue
		}
		if f.UncompressedSize64 > maxMemberSize {
			return nil, fmt.Errorf("archive member %s too large (%d bytes)", member, f.UncompressedSize64)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open archive member %s: %w", member, err)
		}
		defer rc.Close()
		return io.ReadAll(io.LimitReader(rc, maxMemberSize))
	}
	return nil, fmt.Errorf("archive member %s not found in %s", member, archive)
}

// Size returns the size in bytes of a real file or an archive member.
// Returns 0 when the size cannot be determined.
func Size(p string) int64 {
	if !IsVirtual(p) {
		info, err := os.Stat(p)
		if err != nil {
			return 0
		}
		return info.Size()
	}

	archive, member, ok := Split(p)
	if !ok {
		return 0
	}
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return 0
	}
	defer zr.Close()

	for _, f := range zr.File {
		if normalizeMember(f.Name) == member {
			return int64(f.UncompressedSize64)
		}
	}
	return 0
}

// ListArchive returns the normalized member file names of an archive,
// skipping directory entries.
func ListArchive(archive string) ([]string, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", archive, err)
	}
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		names = append(names, normalizeMember(f.Name))
	}
	return names, nil
}

// WithinRoot reports whether p (real or virtual) resolves to a location
// under root. Used to reject traversal outside the scanned tree.
func WithinRoot(root, p string) bool {
	target := p
	if IsVirtual(p) {
		archive, _, ok := Split(p)
		if !ok {
			return false
		}
		target = archive
	}

	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

// normalizeMember converts archive member names to forward slashes.
// Some Windows-produced archives store backslash separators.
func normalizeMember(name string) string {
	return strings.ReplaceAll(name, `\`, "/")
}
