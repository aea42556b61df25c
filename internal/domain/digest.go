package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestSize is the length of a content digest in bytes.
const DigestSize = sha256.Size

// Digest is the SHA-256 of a file's raw bytes, used as its dedup identity.
type Digest [DigestSize]byte

// String returns the lowercase hex form.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first n hex characters.
func (d Digest) Short(n int) string {
	s := d.String()
	if n <= 0 || n > len(s) {
		return s
	}
	return s[:n]
}

// TempFileSuffix marks in-flight downloads inside the output directory.
// Such files never count toward dedup.
const TempFileSuffix = ".downloading"
