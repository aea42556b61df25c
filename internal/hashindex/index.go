// Package hashindex keeps the set of content digests already present in the
// output directory for the lifetime of one run.
package hashindex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vertextoedge/image-fetcher/internal/domain"
	"go.uber.org/multierr"
)

// Index is a set of digests. It is not safe for concurrent use; the fetch
// pipeline is sequential and mutates it only between fetches.
type Index struct {
	digests map[domain.Digest]struct{}
}

// New creates an empty index.
func New() *Index {
	return &Index{digests: make(map[domain.Digest]struct{})}
}

// Contains reports whether d is present.
func (idx *Index) Contains(d domain.Digest) bool {
	_, ok := idx.digests[d]
	return ok
}

// Insert adds d. It returns false if d was already present.
func (idx *Index) Insert(d domain.Digest) bool {
	if _, ok := idx.digests[d]; ok {
		return false
	}
	idx.digests[d] = struct{}{}
	return true
}

// Len returns the number of distinct digests.
func (idx *Index) Len() int {
	return len(idx.digests)
}

// BuildFromDirectory hashes every regular file directly inside dir.
// Hashing is by raw bytes, so any file counts regardless of its type.
// Files that cannot be read are skipped; their errors are combined and
// returned alongside the index built from everything else.
func BuildFromDirectory(dir string) (*Index, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	idx := New()
	var errs error
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasSuffix(entry.Name(), domain.TempFileSuffix) {
			continue
		}
		d, err := HashFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		idx.Insert(d)
	}
	return idx, errs
}
