package hashindex

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/vertextoedge/image-fetcher/internal/domain"
)

// ChunkSize is the read size used when hashing.
const ChunkSize = 4 * 1024

// Hasher accumulates the content digest of bytes written to it. Both the
// directory scan and the download stream hash through it.
type Hasher struct {
	h hash.Hash
	n int64
}

// NewHasher returns an empty Hasher.
func NewHasher() *Hasher {
	return &Hasher{h: sha256.New()}
}

// Write adds p to the digest. It never fails.
func (h *Hasher) Write(p []byte) (int, error) {
	h.n += int64(len(p))
	return h.h.Write(p)
}

// Len returns the number of bytes hashed so far.
func (h *Hasher) Len() int64 {
	return h.n
}

// Digest returns the digest of everything written so far.
func (h *Hasher) Digest() domain.Digest {
	var d domain.Digest
	copy(d[:], h.h.Sum(nil))
	return d
}

// HashReader consumes r and returns its digest and length.
func HashReader(r io.Reader) (domain.Digest, int64, error) {
	h := NewHasher()
	buf := make([]byte, ChunkSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return domain.Digest{}, h.Len(), err
	}
	return h.Digest(), h.Len(), nil
}

// HashFile returns the digest of the file at path.
func HashFile(path string) (domain.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Digest{}, err
	}
	defer f.Close()

	d, _, err := HashReader(f)
	if err != nil {
		return domain.Digest{}, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return d, nil
}
