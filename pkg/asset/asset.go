// Package asset defines the file objects that flow through a sprite stream
// and the sinks that receive them.
//
// A [File] is the unit of both input (source images) and output (the
// spritesheet image and its stylesheet). Sinks receive files in emission
// order; [Collector] keeps them in memory and [ChanSink] forwards them to a
// channel-based stream.
package asset

import (
	"context"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// File is a file-like stream object: a slash-separated path and its contents.
type File struct {
	Path     string
	Contents []byte
}

// NewFile creates a File, normalizing path separators to slashes.
func NewFile(p string, contents []byte) *File {
	return &File{Path: filepath.ToSlash(p), Contents: contents}
}

// Base returns the last element of the path.
func (f *File) Base() string {
	return path.Base(f.Path)
}

// Name returns the base name without its extension ("icons/home.png" -> "home").
func (f *File) Name() string {
	base := f.Base()
	return strings.TrimSuffix(base, path.Ext(base))
}

// Ext returns the lowercase extension without the leading dot.
func (f *File) Ext() string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(f.Path), "."))
}

// Sink receives files emitted by a stream stage.
type Sink interface {
	Push(ctx context.Context, f *File) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, f *File) error

// Push calls fn(ctx, f).
func (fn SinkFunc) Push(ctx context.Context, f *File) error { return fn(ctx, f) }

// Collector is a Sink that records every pushed file in order.
// It is safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	files []*File
}

// Push appends f.
func (c *Collector) Push(_ context.Context, f *File) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = append(c.files, f)
	return nil
}

// Files returns a copy of the collected files.
func (c *Collector) Files() []*File {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*File, len(c.files))
	copy(out, c.files)
	return out
}

// Paths returns the paths of the collected files in order.
func (c *Collector) Paths() []string {
	files := c.Files()
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

// ChanSink forwards pushed files to a channel, honoring cancellation.
type ChanSink chan<- *File

// Push sends f on the channel or returns ctx.Err() if ctx is done first.
func (c ChanSink) Push(ctx context.Context, f *File) error {
	select {
	case c <- f:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ensure sinks implement Sink.
var (
	_ Sink = (*Collector)(nil)
	_ Sink = ChanSink(nil)
	_ Sink = SinkFunc(nil)
)
