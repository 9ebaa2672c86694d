package asset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFileNames(t *testing.T) {
	tests := []struct {
		path string
		base string
		name string
		ext  string
	}{
		{"icons/home.png", "home.png", "home", "png"},
		{"LOGO.PNG", "LOGO.PNG", "LOGO", "png"},
		{"a/b/archive.tar.gz", "archive.tar.gz", "archive.tar", "gz"},
		{"noext", "noext", "noext", ""},
	}

	for _, tt := range tests {
		f := NewFile(tt.path, nil)
		if got := f.Base(); got != tt.base {
			t.Errorf("Base(%q) = %q, want %q", tt.path, got, tt.base)
		}
		if got := f.Name(); got != tt.name {
			t.Errorf("Name(%q) = %q, want %q", tt.path, got, tt.name)
		}
		if got := f.Ext(); got != tt.ext {
			t.Errorf("Ext(%q) = %q, want %q", tt.path, got, tt.ext)
		}
	}
}

func TestCollectorKeepsOrder(t *testing.T) {
	ctx := context.Background()
	var c Collector
	for _, p := range []string{"b.png", "a.png", "c.css"} {
		if err := c.Push(ctx, NewFile(p, nil)); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	if diff := cmp.Diff([]string{"b.png", "a.png", "c.css"}, c.Paths()); diff != "" {
		t.Errorf("Paths() mismatch (-want +got):\n%s", diff)
	}
}

func TestChanSinkCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch := make(chan *File) // unbuffered, nobody reading
	if err := ChanSink(ch).Push(ctx, NewFile("x.png", nil)); err != context.Canceled {
		t.Errorf("Push() error = %v, want context.Canceled", err)
	}
}

func TestReadFilesPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"z.png", "a.png", "m.png"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(name), 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}

	files, err := ReadFiles(context.Background(), paths)
	if err != nil {
		t.Fatalf("ReadFiles: %v", err)
	}
	for i, f := range files {
		if f.Path != filepath.ToSlash(paths[i]) {
			t.Errorf("files[%d].Path = %q, want %q", i, f.Path, paths[i])
		}
		if string(f.Contents) != filepath.Base(paths[i]) {
			t.Errorf("files[%d] contents = %q", i, f.Contents)
		}
	}
}

func TestReadFilesMissing(t *testing.T) {
	_, err := ReadFiles(context.Background(), []string{filepath.Join(t.TempDir(), "missing.png")})
	if err == nil {
		t.Fatal("ReadFiles should fail for a missing file")
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	files := []*File{
		NewFile("sprites.png", []byte("png")),
		NewFile("css/sprites.css", []byte("css")),
	}

	written, err := WriteFiles(dir, files)
	if err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("written = %v", written)
	}
	data, err := os.ReadFile(filepath.Join(dir, "css", "sprites.css"))
	if err != nil || string(data) != "css" {
		t.Errorf("css artifact = %q, %v", data, err)
	}
}

func TestWriteFilesRejectsTraversal(t *testing.T) {
	_, err := WriteFiles(t.TempDir(), []*File{NewFile("../escape.png", nil)})
	if err == nil {
		t.Fatal("WriteFiles should reject traversal")
	}
}
