package port

import (
	"io"
	"time"

	"github.com/vertextoedge/image-fetcher/internal/domain"
	"github.com/vertextoedge/image-fetcher/internal/domain/vo"
)

// TempFile is an open download target inside the output directory
type TempFile interface {
	io.Writer
	io.Closer

	// Name returns the full path of the temp file
	Name() string
}

// FileSystem defines the interface for output directory operations
type FileSystem interface {
	// RootDir returns the output directory
	RootDir() string

	// CreateTempFile creates a uniquely named temp file in the output directory
	CreateTempFile() (TempFile, error)

	// CommitTempFile moves a closed temp file to its final name without
	// overwriting any existing file. On collision a numeric suffix is tried
	// first, then one derived from digest.
	// Returns: final path, error
	CommitTempFile(tempPath string, name vo.FileName, digest domain.Digest) (string, error)

	// DeleteTempFile removes a temporary file; a missing file is not an error
	DeleteTempFile(tempPath string) error

	// CleanOldTempFiles removes temp files older than the specified duration
	// Returns the number of files deleted
	CleanOldTempFiles(olderThan time.Duration) (int, error)
}
