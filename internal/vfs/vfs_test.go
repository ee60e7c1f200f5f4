package vfs

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeTestArchive(t *testing.T, dir string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	members := map[string]string{
		"top.jpg":          "top-bytes",
		"inner/deep.png":   "deep-bytes",
		"inner/deep2.png":  "deep2-bytes",
		"inner/more/x.gif": "x-bytes",
	}
	for name, content := range members {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create member %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write member %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}

	archive := filepath.Join(dir, "photos.zip")
	if err := os.WriteFile(archive, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return archive
}

func TestSplitAndJoin(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		wantArchive string
		wantMember  string
		wantOK      bool
	}{
		{
			name:        "member in subdirectory",
			path:        "zip:/data/a.zip::inner/p.jpg",
			wantArchive: "/data/a.zip",
			wantMember:  "inner/p.jpg",
			wantOK:      true,
		},
		{
			name:        "member at archive root",
			path:        "zip:/data/a.zip::p.jpg",
			wantArchive: "/data/a.zip",
			wantMember:  "p.jpg",
			wantOK:      true,
		},
		{
			name:   "real path",
			path:   "/data/p.jpg",
			wantOK: false,
		},
		{
			name:   "missing separator",
			path:   "zip:/data/a.zip",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive, member, ok := Split(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("Split(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if archive != tt.wantArchive || member != tt.wantMember {
				t.Errorf("Split(%q) = (%q, %q), want (%q, %q)",
					tt.path, archive, member, tt.wantArchive, tt.wantMember)
			}
		})
	}
}

func TestJoinParentName(t *testing.T) {
	folder := FolderPath("/data/a.zip", "inner")
	p := Join(folder, "deep.png")
	if p != "zip:/data/a.zip::inner/deep.png" {
		t.Errorf("Join = %q", p)
	}
	if got := Parent(p); got != folder {
		t.Errorf("Parent(%q) = %q, want %q", p, got, folder)
	}
	if got := Name(p); got != "deep.png" {
		t.Errorf("Name(%q) = %q, want deep.png", p, got)
	}

	rootFolder := FolderPath("/data/a.zip", "")
	rp := Join(rootFolder, "top.jpg")
	if rp != "zip:/data/a.zip::top.jpg" {
		t.Errorf("Join at archive root = %q", rp)
	}
	if got := Parent(rp); got != rootFolder {
		t.Errorf("Parent(%q) = %q, want %q", rp, got, rootFolder)
	}

	real := filepath.Join("/data", "b")
	if got := Join(real, "c.jpg"); got != filepath.Join(real, "c.jpg") {
		t.Errorf("real Join = %q", got)
	}
}

func TestReadFileFromArchive(t *testing.T) {
	dir := t.TempDir()
	archive := writeTestArchive(t, dir)

	got, err := ReadFile(Prefix + archive + Separator + "inner/deep.png")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "deep-bytes" {
		t.Errorf("ReadFile = %q, want deep-bytes", got)
	}

	if _, err := ReadFile(Prefix + archive + Separator + "missing.png"); err == nil {
		t.Error("expected error for missing member")
	}
}

func TestReadFileReal(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.jpg")
	if err := os.WriteFile(p, []byte("real"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(p)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "real" {
		t.Errorf("ReadFile = %q", got)
	}
}

func TestListArchive(t *testing.T) {
	dir := t.TempDir()
	archive := writeTestArchive(t, dir)

	names, err := ListArchive(archive)
	if err != nil {
		t.Fatalf("ListArchive: %v", err)
	}
	if len(names) != 4 {
		t.Fatalf("ListArchive returned %d members, want 4: %v", len(names), names)
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	for _, want := range []string{"top.jpg", "inner/deep.png", "inner/deep2.png", "inner/more/x.gif"} {
		if !seen[want] {
			t.Errorf("missing member %s", want)
		}
	}
}

func TestWithinRoot(t *testing.T) {
	tests := []struct {
		name string
		root string
		path string
		want bool
	}{
		{
			name: "inside",
			root: "/media",
			path: "/media/sub/a.jpg",
			want: true,
		},
		{
			name: "root itself",
			root: "/media",
			path: "/media",
			want: true,
		},
		{
			name: "outside",
			root: "/media",
			path: "/etc/passwd",
			want: false,
		},
		{
			name: "dot-dot escape",
			root: "/media",
			path: "/media/../etc/passwd",
			want: false,
		},
		{
			name: "virtual inside",
			root: "/media",
			path: "zip:/media/a.zip::x.jpg",
			want: true,
		},
		{
			name: "virtual outside",
			root: "/media",
			path: "zip:/tmp/a.zip::x.jpg",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinRoot(tt.root, tt.path); got != tt.want {
				t.Errorf("WithinRoot(%q, %q) = %v, want %v", tt.root, tt.path, got, tt.want)
			}
		})
	}
}
