package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vertextoedge/image-fetcher/internal/domain"
	"github.com/vertextoedge/image-fetcher/internal/domain/vo"
	"github.com/vertextoedge/image-fetcher/internal/port"
)

// maxNumericSuffix bounds the name-1, name-2, ... probe before falling back
// to a digest-derived suffix.
const maxNumericSuffix = 99

// Manager handles output directory operations
type Manager struct {
	rootDir string
}

// Ensure Manager implements port.FileSystem
var _ port.FileSystem = (*Manager)(nil)

// NewManager creates the output directory if needed and returns a manager for it
func NewManager(rootDir string) (*Manager, error) {
	if rootDir == "" {
		return nil, errors.New("output directory is required")
	}
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat output dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output path %s is not a directory", rootDir)
	}

	return &Manager{rootDir: rootDir}, nil
}

// RootDir returns the output directory
func (m *Manager) RootDir() string {
	return m.rootDir
}

// CreateTempFile creates a uniquely named temp file in the output directory
func (m *Manager) CreateTempFile() (port.TempFile, error) {
	f, err := os.CreateTemp(m.rootDir, "fetch-*"+domain.TempFileSuffix)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	return f, nil
}

// CommitTempFile moves tempPath to name inside the output directory.
// The final name is reserved with O_EXCL before the rename, so an existing
// file is never replaced.
func (m *Manager) CommitTempFile(tempPath string, name vo.FileName, digest domain.Digest) (string, error) {
	if name.IsEmpty() {
		return "", errors.New("file name is required")
	}
	if strings.HasSuffix(strings.ToLower(name.String()), domain.TempFileSuffix) {
		return "", fmt.Errorf("file name %s uses the reserved suffix %s", name, domain.TempFileSuffix)
	}

	for i := 0; ; i++ {
		finalPath := filepath.Join(m.rootDir, candidateName(name, digest, i).String())
		reserved, err := reserve(finalPath)
		if err != nil {
			return "", err
		}
		if !reserved {
			continue
		}

		if err := os.Rename(tempPath, finalPath); err != nil {
			os.Remove(finalPath)
			return "", fmt.Errorf("failed to rename temp file: %w", err)
		}
		return finalPath, nil
	}
}

// candidateName returns the i-th name to try: name itself, then name-1 to
// name-99, then name-<digest>, name-<digest>-1, name-<digest>-2 and so on.
func candidateName(name vo.FileName, digest domain.Digest, i int) vo.FileName {
	short := digest.Short(12)
	switch {
	case i == 0:
		return name
	case i <= maxNumericSuffix:
		return name.WithSuffix(strconv.Itoa(i))
	case i == maxNumericSuffix+1:
		return name.WithSuffix(short)
	default:
		return name.WithSuffix(short + "-" + strconv.Itoa(i-maxNumericSuffix-1))
	}
}

// reserve creates an empty placeholder at path. It reports false if the
// path is already taken.
func reserve(path string) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to reserve %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return false, fmt.Errorf("failed to reserve %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

// DeleteTempFile removes a temporary file
func (m *Manager) DeleteTempFile(tempPath string) error {
	if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete temp file: %w", err)
	}
	return nil
}

// CleanOldTempFiles removes temp files older than the specified duration.
// Only the top level of the output directory is scanned.
func (m *Manager) CleanOldTempFiles(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(m.rootDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read output dir: %w", err)
	}

	count := 0
	threshold := time.Now().Add(-olderThan)
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), domain.TempFileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(threshold) {
			if removeErr := os.Remove(filepath.Join(m.rootDir, entry.Name())); removeErr == nil {
				count++
			}
		}
	}
	return count, nil
}
