// Package adapter contains filesystem, subprocess and persistence adapters for lintgate.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	m "lintgate.dev/pkg/lintgate/internal/model"
)

// DefaultExtensions lists the file extensions eligible for checking.
var DefaultExtensions = []string{".cpp", ".h"}

// WalkOptions narrows the set of files returned by Walk.
type WalkOptions struct {
	// Extensions is the accepted extension set, including the leading dot.
	// Matching is case-sensitive.
	Extensions []string
	// Exclude holds doublestar glob patterns matched against the
	// slash-separated path relative to the walked root.
	Exclude []string
	// Recursive descends into sub-directories when true. A root written as
	// `dir/...` is always walked recursively.
	Recursive bool
}

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when scanning a source tree. It hides direct `os` access so the
// workflow logic can be tested without touching the disk.
type SourceFSAdapter interface {
	// Walk returns the eligible files under roots, de-duplicated and sorted.
	Walk(ctx context.Context, roots []m.Path, opts WalkOptions) ([]m.Path, error)

	// HashFile streams the file at path through hasher.
	HashFile(ctx context.Context, path m.Path, hasher Hasher) (m.Digest, error)

	// Exists reports whether a regular file exists at path.
	Exists(ctx context.Context, path m.Path) (bool, error)
}

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

var skippedDirs = map[string]bool{
	".git":         true,
	"vendor":       true,
	"node_modules": true,
}

// Walk iterates over files under each root, keeping those that match opts.
// A root may also name a single file.
func (a *LocalSourceFSAdapter) Walk(ctx context.Context, roots []m.Path, opts WalkOptions) ([]m.Path, error) {
	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	seen := make(map[m.Path]struct{})

	for _, root := range roots {
		rootStr, recursive := splitRecursivePattern(string(root))
		recursive = recursive || opts.Recursive

		err := filepath.WalkDir(rootStr, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			if entry.IsDir() {
				if path == rootStr {
					return nil
				}

				if skippedDirs[entry.Name()] || !recursive {
					return filepath.SkipDir
				}

				return nil
			}

			if !entry.Type().IsRegular() || !hasExtension(path, opts.Extensions) {
				return nil
			}

			if excluded(rootStr, path, opts.Exclude) {
				slog.Debug("excluded file", "path", path)
				return nil
			}

			seen[m.Path(path)] = struct{}{}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	paths := make([]m.Path, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	return paths, nil
}

// HashFile returns the digest of the file at the provided path.
func (a *LocalSourceFSAdapter) HashFile(ctx context.Context, path m.Path, hasher Hasher) (m.Digest, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// #nosec G304 - path comes from the walked source tree
	f, err := os.Open(string(path))
	if err != nil {
		return "", &FileAccessError{Path: string(path), Err: err}
	}

	defer func() {
		_ = f.Close()
	}()

	digest, err := hasher.Hash(f)
	if err != nil {
		return "", &FileAccessError{Path: string(path), Err: err}
	}

	return digest, nil
}

// Exists reports whether path names an existing regular file.
func (a *LocalSourceFSAdapter) Exists(ctx context.Context, path m.Path) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	info, err := os.Stat(string(path))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return info.Mode().IsRegular(), nil
}

// splitRecursivePattern strips a trailing `/...` from a Go-style path pattern.
func splitRecursivePattern(root string) (string, bool) {
	if root == "..." {
		return ".", true
	}

	if trimmed, ok := strings.CutSuffix(root, "/..."); ok {
		if trimmed == "" {
			trimmed = "/"
		}

		return filepath.Clean(trimmed), true
	}

	return filepath.Clean(root), false
}

func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	if ext == "" {
		return false
	}

	for _, accepted := range extensions {
		if ext == accepted {
			return true
		}
	}

	return false
}

func excluded(root, path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	rel = filepath.ToSlash(rel)

	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}

	return false
}
