package vo

import (
	"errors"

	"github.com/dustin/go-humanize"
)

// FileSize represents a file size value object.
type FileSize struct {
	bytes int64
}

const (
	KB int64 = 1024
	MB int64 = 1024 * KB
	GB int64 = 1024 * MB
)

var (
	ErrNegativeSize = errors.New("file size cannot be negative")
)

// NewFileSize creates a new FileSize value object.
func NewFileSize(bytes int64) (FileSize, error) {
	if bytes < 0 {
		return FileSize{}, ErrNegativeSize
	}
	return FileSize{bytes: bytes}, nil
}

// FileSizeFromMB creates a FileSize from mebibytes.
func FileSizeFromMB(mb int) FileSize {
	return FileSize{bytes: int64(mb) * MB}
}

// Bytes returns the size in bytes.
func (fs FileSize) Bytes() int64 {
	return fs.bytes
}

// IsZero returns true if the size is zero.
func (fs FileSize) IsZero() bool {
	return fs.bytes == 0
}

// ExceedsLimit checks if this size exceeds the given limit.
func (fs FileSize) ExceedsLimit(limit FileSize) bool {
	return fs.bytes > limit.bytes
}

// String returns a human-readable IEC representation, e.g. "10 MiB".
func (fs FileSize) String() string {
	return humanize.IBytes(uint64(fs.bytes))
}
