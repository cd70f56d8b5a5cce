package domain

import (
	"context"
	"fmt"
	"log/slog"

	"lintgate.dev/pkg/lintgate/internal/adapter"
	m "lintgate.dev/pkg/lintgate/internal/model"
)

// ChangeDetector decides whether an eligible file must be checked by
// comparing its current digest against the registry.
type ChangeDetector interface {
	Detect(ctx context.Context, registry *m.Registry, path m.Path) (m.Candidate, error)
}

type changeDetector struct {
	fsAdapter adapter.SourceFSAdapter
	hasher    adapter.Hasher
	useCache  bool
}

// NewChangeDetector constructs a ChangeDetector. With useCache false every
// file is reported as changed.
func NewChangeDetector(fsAdapter adapter.SourceFSAdapter, hasher adapter.Hasher, useCache bool) ChangeDetector {
	return &changeDetector{
		fsAdapter: fsAdapter,
		hasher:    hasher,
		useCache:  useCache,
	}
}

func (d *changeDetector) Detect(ctx context.Context, registry *m.Registry, path m.Path) (m.Candidate, error) {
	digest, err := d.fsAdapter.HashFile(ctx, path, d.hasher)
	if err != nil {
		slog.Error("Failed to hash file", "path", path, "error", err)
		return m.Candidate{File: m.File{Path: path}}, fmt.Errorf("hash %s: %w", path, err)
	}

	candidate := m.Candidate{
		File:    m.File{Path: path, Hash: digest},
		Changed: true,
	}

	previous, ok := registry.Lookup(path)
	if ok {
		candidate.Previous = previous
	}

	if d.useCache && ok && previous == digest {
		candidate.Changed = false
	}

	slog.Debug("change detection", "path", path, "digest", digest, "previous", previous, "changed", candidate.Changed)

	return candidate, nil
}
