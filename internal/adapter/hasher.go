package adapter

import (
	"crypto/md5" //nolint:gosec // change detection only, not a security boundary
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/cespare/xxhash/v2"
	m "lintgate.dev/pkg/lintgate/internal/model"
)

// ChunkSize is the block size used when streaming file content into a digest.
const ChunkSize = 64 * 1024

// Supported hash algorithm names.
const (
	HashMD5    = "md5"
	HashSHA256 = "sha256"
	HashXXHash = "xxhash"
)

// DefaultHashAlgorithm keeps digests compatible with existing registries.
const DefaultHashAlgorithm = HashMD5

// ErrUnknownHashAlgorithm is returned by NewHasher for unsupported names.
var ErrUnknownHashAlgorithm = errors.New("unknown hash algorithm")

// Hasher computes a content digest from a byte stream.
type Hasher interface {
	// Hash consumes r in ChunkSize blocks and returns the hex digest.
	Hash(r io.Reader) (m.Digest, error)

	// Algorithm returns the configured algorithm name.
	Algorithm() string
}

type streamHasher struct {
	name    string
	newHash func() hash.Hash
}

// NewHasher returns a Hasher for the named algorithm.
func NewHasher(algorithm string) (Hasher, error) {
	switch algorithm {
	case HashMD5, "":
		return &streamHasher{name: HashMD5, newHash: md5.New}, nil
	case HashSHA256:
		return &streamHasher{name: HashSHA256, newHash: sha256.New}, nil
	case HashXXHash:
		return &streamHasher{name: HashXXHash, newHash: func() hash.Hash { return xxhash.New() }}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHashAlgorithm, algorithm)
	}
}

func (h *streamHasher) Algorithm() string {
	return h.name
}

func (h *streamHasher) Hash(r io.Reader) (m.Digest, error) {
	digest := h.newHash()
	buf := make([]byte, ChunkSize)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			_, _ = digest.Write(buf[:n])
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return "", err
		}
	}

	return m.Digest(hex.EncodeToString(digest.Sum(nil))), nil
}
