package adapter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	m "lintgate.dev/pkg/lintgate/internal/model"
)

// registrySeparator splits a registry line into path and digest. Digests are
// hex and never contain it, so the last occurrence is the separator.
const registrySeparator = ":"

const maxRegistryLine = 1 << 20

// defaultRegistryMode applies to newly created registry files.
const defaultRegistryMode fs.FileMode = 0o644

// registryFileMode keeps the permissions of an existing artifact.
func registryFileMode(target string) fs.FileMode {
	info, err := os.Stat(target)
	if err != nil {
		return defaultRegistryMode
	}

	return info.Mode().Perm()
}

// RegistryStore persists the path -> digest registry between runs.
type RegistryStore interface {
	// Load reads the registry at path. A missing artifact yields an empty registry.
	Load(ctx context.Context, path m.Path) (*m.Registry, error)

	// Save rewrites the artifact at path with every entry of registry.
	Save(ctx context.Context, path m.Path, registry *m.Registry) error
}

// TextRegistryStore stores the registry as `<path>:<digest>` lines.
type TextRegistryStore struct {
	strict bool
}

// NewTextRegistryStore constructs a TextRegistryStore. In strict mode a
// malformed line aborts Load; otherwise it is skipped with a warning.
func NewTextRegistryStore(strict bool) *TextRegistryStore {
	return &TextRegistryStore{strict: strict}
}

// ParseRegistryLine splits one registry line. The returned error is a
// *RegistryCorruptionError when the line is malformed.
func ParseRegistryLine(line string) (m.RegistryEntry, error) {
	idx := strings.LastIndex(line, registrySeparator)
	if idx < 0 {
		return m.RegistryEntry{}, &RegistryCorruptionError{Raw: line, Reason: "missing separator"}
	}

	path := strings.TrimSpace(line[:idx])
	digest := strings.TrimSpace(line[idx+1:])

	switch {
	case path == "":
		return m.RegistryEntry{}, &RegistryCorruptionError{Raw: line, Reason: "empty path"}
	case digest == "":
		return m.RegistryEntry{}, &RegistryCorruptionError{Raw: line, Reason: "empty digest"}
	case strings.ContainsAny(digest, " \t"):
		return m.RegistryEntry{}, &RegistryCorruptionError{Raw: line, Reason: "digest contains whitespace"}
	}

	return m.RegistryEntry{Path: m.Path(path), Digest: m.Digest(digest)}, nil
}

// FormatRegistryLine renders an entry in the artifact format, without newline.
func FormatRegistryLine(entry m.RegistryEntry) string {
	return string(entry.Path) + registrySeparator + string(entry.Digest)
}

// Load reads the registry artifact.
func (s *TextRegistryStore) Load(ctx context.Context, path m.Path) (*m.Registry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// #nosec G304 - registry location is operator configuration
	f, err := os.Open(string(path))
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("registry not found, starting empty", "path", path)
		return m.NewRegistry(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	registry, err := s.read(f)
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}

	slog.Debug("loaded registry", "path", path, "entries", registry.Len())

	return registry, nil
}

func (s *TextRegistryStore) read(r io.Reader) (*m.Registry, error) {
	registry := m.NewRegistry()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRegistryLine)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entry, err := ParseRegistryLine(line)
		if err != nil {
			var corrupt *RegistryCorruptionError
			if errors.As(err, &corrupt) {
				corrupt.Line = lineNo
			}

			if s.strict {
				return nil, err
			}

			slog.Warn("skipping malformed registry line", "line", lineNo, "error", err)

			continue
		}

		registry.Update(entry.Path, entry.Digest)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return registry, nil
}

// Save writes every entry, sorted by path, replacing the artifact atomically.
// The parent directory must already exist.
func (s *TextRegistryStore) Save(ctx context.Context, path m.Path, registry *m.Registry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if registry == nil {
		return fmt.Errorf("cannot save nil registry")
	}

	target := string(path)
	dir := filepath.Dir(target)

	tmp, err := os.CreateTemp(dir, filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp registry: %w", err)
	}

	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	w := bufio.NewWriter(tmp)
	for _, entry := range registry.Entries() {
		if _, err := w.WriteString(FormatRegistryLine(entry) + "\n"); err != nil {
			_ = tmp.Close()

			cleanup()

			return fmt.Errorf("write registry: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		_ = tmp.Close()

		cleanup()

		return fmt.Errorf("flush registry: %w", err)
	}

	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp registry: %w", err)
	}

	if err := os.Chmod(tmpPath, registryFileMode(target)); err != nil {
		cleanup()
		return fmt.Errorf("chmod registry: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		cleanup()
		return fmt.Errorf("rename registry: %w", err)
	}

	slog.Debug("saved registry", "path", path, "entries", registry.Len())

	return nil
}
