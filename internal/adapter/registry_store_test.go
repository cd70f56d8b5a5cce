package adapter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "lintgate.dev/pkg/lintgate/internal/model"
)

func TestParseRegistryLine(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantPath   m.Path
		wantDigest m.Digest
		wantReason string
	}{
		{name: "simple", line: "../src/a.h:abc123", wantPath: "../src/a.h", wantDigest: "abc123"},
		{name: "colon in path", line: `C:\src\a.h:abc123`, wantPath: `C:\src\a.h`, wantDigest: "abc123"},
		{name: "surrounding spaces", line: " src/a.h : ff ", wantPath: "src/a.h", wantDigest: "ff"},
		{name: "missing separator", line: "src/a.h abc123", wantReason: "missing separator"},
		{name: "empty path", line: ":abc123", wantReason: "empty path"},
		{name: "empty digest", line: "src/a.h:", wantReason: "empty digest"},
		{name: "digest with whitespace", line: "src/a.h:ab cd", wantReason: "digest contains whitespace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := ParseRegistryLine(tt.line)
			if tt.wantReason != "" {
				var corrupt *RegistryCorruptionError
				require.ErrorAs(t, err, &corrupt)
				assert.Equal(t, tt.wantReason, corrupt.Reason)
				assert.Equal(t, tt.line, corrupt.Raw)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, entry.Path)
			assert.Equal(t, tt.wantDigest, entry.Digest)
		})
	}
}

func TestTextRegistryStore_LoadMissing(t *testing.T) {
	store := NewTextRegistryStore(false)

	registry, err := store.Load(context.Background(), m.Path(filepath.Join(t.TempDir(), "hashRegister.txt")))
	require.NoError(t, err)
	assert.Equal(t, 0, registry.Len())
}

func TestTextRegistryStore_LoadSkipsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hashRegister.txt")
	writeTestFile(t, path, "src/a.h:d1\nnot-a-line\n\nsrc/b.cpp:d2\nsrc/a.h:d3\n")

	registry, err := NewTextRegistryStore(false).Load(context.Background(), m.Path(path))
	require.NoError(t, err)

	assert.Equal(t, []m.RegistryEntry{
		{Path: "src/a.h", Digest: "d3"},
		{Path: "src/b.cpp", Digest: "d2"},
	}, registry.Entries())
}

func TestTextRegistryStore_LoadStrict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hashRegister.txt")
	writeTestFile(t, path, "src/a.h:d1\n\nnot-a-line\n")

	_, err := NewTextRegistryStore(true).Load(context.Background(), m.Path(path))

	var corrupt *RegistryCorruptionError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, 3, corrupt.Line)
	assert.Contains(t, err.Error(), "line 3")
}

func TestTextRegistryStore_SaveSortedAndOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hashRegister.txt")
	writeTestFile(t, path, "stale content that must disappear\n")

	registry := m.NewRegistry()
	registry.Update("src/b.cpp", "d2")
	registry.Update("src/a.h", "d1")

	store := NewTextRegistryStore(false)
	require.NoError(t, store.Save(context.Background(), m.Path(path), registry))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "src/a.h:d1\nsrc/b.cpp:d2\n", string(data))

	matches, err := filepath.Glob(path + ".tmp-*")
	require.NoError(t, err)
	assert.Empty(t, matches, "temp files must not be left behind")
}

func TestTextRegistryStore_SavePreservesMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hashRegister.txt")
	writeTestFile(t, path, "src/a.h:d0\n")
	require.NoError(t, os.Chmod(path, 0o600))

	registry := m.NewRegistry()
	registry.Update("src/a.h", "d1")

	require.NoError(t, NewTextRegistryStore(false).Save(context.Background(), m.Path(path), registry))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestTextRegistryStore_SaveNewFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hashRegister.txt")

	require.NoError(t, NewTextRegistryStore(false).Save(context.Background(), m.Path(path), m.NewRegistry()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestTextRegistryStore_SaveEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hashRegister.txt")

	require.NoError(t, NewTextRegistryStore(false).Save(context.Background(), m.Path(path), m.NewRegistry()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestTextRegistryStore_SaveMissingParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "hashRegister.txt")

	err := NewTextRegistryStore(false).Save(context.Background(), m.Path(path), m.NewRegistry())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestTextRegistryStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hashRegister.txt")
	writeTestFile(t, path, "z.h:3\n../src/a.cpp:1\nC:/weird:path.h:2\n")

	store := NewTextRegistryStore(false)

	first, err := store.Load(context.Background(), m.Path(path))
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), m.Path(path), first))

	second, err := store.Load(context.Background(), m.Path(path))
	require.NoError(t, err)

	assert.ElementsMatch(t, first.Entries(), second.Entries())
	assert.Equal(t, 3, second.Len())

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), m.Path(path), second))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "saving an unchanged registry must be byte-identical")
}

func TestTextRegistryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewTextRegistryStore(false)

	_, err := store.Load(ctx, "irrelevant")
	require.ErrorIs(t, err, context.Canceled)

	err = store.Save(ctx, "irrelevant", m.NewRegistry())
	require.ErrorIs(t, err, context.Canceled)
}
