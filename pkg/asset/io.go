package asset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/spriteflow/pkg/errors"
)

// readConcurrency bounds parallel reads in ReadFiles.
const readConcurrency = 8

// ReadFiles loads the given paths concurrently. The result preserves argument
// order, since arrival order decides flow order downstream.
func ReadFiles(ctx context.Context, paths []string) ([]*File, error) {
	files := make([]*File, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return fmt.Errorf("read %s: %w", p, err)
			}
			files[i] = NewFile(p, data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// WriteFiles writes files below dir and returns the written paths. Each file
// path must be relative and free of traversal sequences.
func WriteFiles(dir string, files []*File) ([]string, error) {
	written := make([]string, 0, len(files))
	for _, f := range files {
		rel := filepath.ToSlash(filepath.Clean(f.Path))
		if err := errors.ValidatePath(rel); err != nil {
			return written, fmt.Errorf("artifact %q: %w", f.Path, err)
		}
		dst := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return written, err
		}
		if err := os.WriteFile(dst, f.Contents, 0644); err != nil {
			return written, err
		}
		written = append(written, dst)
	}
	return written, nil
}
